package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/barekit/orbitai/pkg/preset"
)

var presetsJSON bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the use-case presets and their defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		presets := preset.All()
		out := cmd.OutOrStdout()

		if presetsJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(map[string][]preset.Preset{"presets": presets})
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPARENT\tDA\tVALIDATORS\tBLOCK TIME\tGAS LIMIT\tCHALLENGE")
		for _, p := range presets {
			d := p.Defaults
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%ds\t%d\t%dd\n",
				p.ID, p.Name, d.ParentChain, d.DataAvailability, d.Validators, d.BlockTime, d.GasLimit, d.ChallengePeriodDays)
		}
		return w.Flush()
	},
}

func init() {
	presetsCmd.Flags().BoolVar(&presetsJSON, "json", false, "output in JSON format")
}
