// Package cmd implements the v2doc command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/voice2doc/config"
	"github.com/grovetools/voice2doc/internal/doctemplate"
)

// NewRootCmd creates the root command for v2doc.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "v2doc",
		Short:        "Convert transcribed speech into structured documents",
		Long:         "v2doc turns raw speech transcripts into validated ADR, PRD, RFC, or PR-summary documents and can publish them to Notion.",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ~/.config/voice2doc/config.yaml)")

	rootCmd.AddCommand(newFormatCmd())
	rootCmd.AddCommand(newTemplatesCmd())
	rootCmd.AddCommand(newPublishCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the config file named by the --config flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// loadRegistry builds the template registry: built-ins plus any user
// template files from the config.
func loadRegistry(cfg *config.Config) (*doctemplate.Registry, error) {
	registry, err := doctemplate.Builtin()
	if err != nil {
		return nil, fmt.Errorf("loading builtin templates: %w", err)
	}
	for _, path := range cfg.Templates.Paths {
		templates, err := doctemplate.LoadFile(path)
		if err != nil {
			return nil, err
		}
		registry, err = registry.Extend(templates...)
		if err != nil {
			return nil, err
		}
	}
	return registry, nil
}
