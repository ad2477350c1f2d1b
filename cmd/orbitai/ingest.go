package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/barekit/orbitai/pkg/config"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load the concept glossary into the configured vector store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.KnowledgeStore == config.KnowledgeNone {
			return errors.New("KNOWLEDGE_STORE is none; set it to qdrant or postgres")
		}
		logger := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

		glossary, closer, err := newGlossary(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}

		n, err := glossary.Seed(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to ingest concepts: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d concepts into %s\n", n, cfg.KnowledgeStore)
		return nil
	},
}
