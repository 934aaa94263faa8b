package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/pcconf/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	EnvFile string

	// cfg is resolved by the root command before any subcommand runs.
	cfg *config.Config
}

// Settings returns the resolved configuration, or the defaults when the
// command runs without the root command (as in tests).
func (o *RootOptions) Settings() config.Config {
	if o.cfg == nil {
		return config.Default()
	}
	return *o.cfg
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the pcconf CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pcconf",
		Short: "pcconf - PC configuration builder",
		Long: `Build a compatible, priced PC configuration from parts catalogs.

Parts are checked pairwise (CPU socket, memory type, form factors, power
headroom) and against an optional budget. Every choice narrows the
remaining candidates so a started build can always be finished.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			setupLogging(cmd.ErrOrStderr(), opts.Verbose)

			var envFiles []string
			if opts.EnvFile != "" {
				envFiles = append(envFiles, opts.EnvFile)
			}
			cfg, err := config.Load(envFiles...)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			opts.cfg = &cfg
			slog.Debug("configuration loaded",
				"catalog", cfg.CatalogPath,
				"db", cfg.DBPath,
				"strategy", cfg.Strategy,
				"budget", cfg.BudgetString(),
			)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "load settings from this file instead of ./.env")

	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewConfigsCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// setupLogging installs the default slog logger: text on stderr, Info by
// default, Debug when verbose.
func setupLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
