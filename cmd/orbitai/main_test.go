package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barekit/orbitai/pkg/assistant"
	"github.com/barekit/orbitai/pkg/config"
	"github.com/barekit/orbitai/pkg/deploy"
)

func TestChatLoop(t *testing.T) {
	svc := assistant.New(
		assistant.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		assistant.WithDeployer(deploy.NewClient(deploy.WithBaseURL("http://127.0.0.1:1"))),
	)
	in := strings.NewReader(strings.Join([]string{
		"a defi exchange",
		"/status",
		"/deploy",
		"/reset",
		"/quit",
		"never read",
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, chatLoop(context.Background(), svc, in, &out))
	text := out.String()
	assert.Contains(t, text, "[configuration | chain_name | 10%]")
	assert.Contains(t, text, "Nothing deployed yet.")
	assert.Contains(t, text, "Deployment failed: invalid configuration")
	assert.NotContains(t, text, "never read")
}

func TestPresetsCommand(t *testing.T) {
	var out bytes.Buffer
	presetsCmd.SetOut(&out)
	require.NoError(t, presetsCmd.RunE(presetsCmd, nil))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[1], "gaming"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger(&buf, "bogus", "text").Info("fallback level")
	assert.Contains(t, buf.String(), "fallback level")
}

func TestBuild_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.GroqAPIKey, cfg.OpenAIAPIKey, cfg.GeminiAPIKey = "", "", ""

	a, err := build(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer a.Close()
	assert.NotNil(t, a.svc)

	families, err := a.registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
