package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/barekit/orbitai/pkg/assistant"
	"github.com/barekit/orbitai/pkg/prompt"
)

var chatWallet string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Configure a chain from the terminal",
	Long: `Start an interactive conversation in the terminal.

Commands:
  /reset   start over
  /deploy  submit the configuration to the deployment service
  /status  poll the last deployment
  /quit    exit`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatWallet, "wallet", "", "wallet address to use as the default owner")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if logLevel == "" {
		cfg.LogLevel = "warn"
	}
	logger := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx := cmd.Context()
	a, err := build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return chatLoop(ctx, a.svc, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chatLoop(ctx context.Context, svc *assistant.Service, in io.Reader, out io.Writer) error {
	sessionID := uuid.NewString()
	var deploymentID string

	fmt.Fprintf(out, "%s\n\n", prompt.Greeting())
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case "/quit", "/exit":
			return nil
		case "/reset":
			svc.Reset(sessionID)
			deploymentID = ""
			fmt.Fprintf(out, "%s\n\n", prompt.Greeting())
			continue
		case "/deploy":
			res, err := svc.Deploy(ctx, assistant.DeployRequest{SessionID: sessionID})
			if err != nil {
				fmt.Fprintf(out, "Deployment failed: %v\n\n", err)
				continue
			}
			deploymentID = res.DeploymentID
			fmt.Fprintf(out, "%s (deployment %s)\n\n", res.Message, res.DeploymentID)
			continue
		case "/status":
			if deploymentID == "" {
				fmt.Fprint(out, "Nothing deployed yet.\n\n")
				continue
			}
			st, err := svc.DeployStatus(ctx, deploymentID)
			if err != nil {
				fmt.Fprintf(out, "Status unavailable: %v\n\n", err)
				continue
			}
			fmt.Fprintf(out, "%s %d%% %s\n\n", st.Status, st.Progress, st.CurrentStep)
			continue
		}

		r, err := svc.Submit(ctx, assistant.SubmitRequest{
			SessionID:     sessionID,
			Message:       line,
			WalletAddress: chatWallet,
		})
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n\n", err)
			continue
		}
		fmt.Fprintf(out, "%s\n[%s | %s | %d%%]\n\n", r.Message, r.Phase, r.CurrentStep, r.Progress.Percentage)
	}
}
