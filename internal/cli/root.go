// Package cli implements the blogctl maintenance commands.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hybrid-blog-api/internal/config"
	"github.com/hybrid-blog-api/pkg/logger"
)

// RootOptions holds global flags and the state shared by subcommands
type RootOptions struct {
	Format string // "json" | "text"

	cfg *config.Config
	log zerolog.Logger
}

// ValidFormats defines the allowed output formats
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the blogctl root command
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "blogctl",
		Short: "Maintenance commands for the hybrid blog stores",
		Long:  "Seed sample data and manage schema migrations for Store A (users, posts) and Store B (comments, tags).",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.log = logger.NewWithWriter(cfg.Log, cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
