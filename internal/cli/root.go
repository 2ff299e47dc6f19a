package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/gridset/internal/config"
	"github.com/roach88/gridset/internal/logging"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Ledger  string // SQLite run ledger path; empty disables recording

	// Config is loaded by the root command before any subcommand runs.
	// Subcommands built on their own fall back to config.Default().
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// settings returns the loaded configuration or the defaults.
func (o *RootOptions) settings() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

// NewRootCommand creates the root command for the gridset CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gridset",
		Short: "gridset - grid dataset tooling",
		Long:  "Load, validate and augment grid-structured CSV datasets.",

		// main prints errors that commands have not already reported
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}

			cfg, err := config.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			opts.Config = cfg

			level := cfg.Logging.Level
			if opts.Verbose {
				level = "debug"
			}
			logging.Setup(cmd.ErrOrStderr(), level, cfg.Logging.Format)

			if !cmd.Flags().Changed("ledger") && opts.Ledger == "" {
				opts.Ledger = cfg.Ledger.Path
			}
			slog.Debug("configuration loaded", "ledger", opts.Ledger, "format", opts.Format)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Ledger, "ledger", "", "record runs in this SQLite ledger")

	// Add subcommands
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewAugmentCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
