package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/config"
	"github.com/roach88/pcconf/internal/domain"
	"github.com/roach88/pcconf/internal/export"
	"github.com/roach88/pcconf/internal/session"
	"github.com/roach88/pcconf/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Catalog  string
	Strategy string
	Budget   string
	Database string
	NoSave   bool
	CSV      string

	// Chooser and IDs override the interactive prompt and the session id
	// generator; both are nil outside tests.
	Chooser Chooser
	IDs     session.IDGenerator
}

// BuildResult is the output of the build command.
type BuildResult struct {
	SessionID     string             `json:"session_id"`
	Strategy      string             `json:"strategy"`
	State         string             `json:"state"`
	Steps         int                `json:"steps"`
	Configuration *ConfigurationView `json:"configuration,omitempty"`
	Saved         bool               `json:"saved"`
	Duplicate     bool               `json:"duplicate,omitempty"`
	CSV           string             `json:"csv,omitempty"`
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	return newBuildCommand(&BuildOptions{RootOptions: rootOpts})
}

func newBuildCommand(opts *BuildOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a configuration interactively",
		Long: `Build a configuration one part at a time.

Each step offers only parts that still lead to a complete, compatible
configuration within the budget. A finished configuration and the
session's steps are saved to the database.

On a terminal the parts are offered as a menu. Otherwise answers are read
from standard input, one per line: an option number, a part id, "r" to
restart or "q" to quit.

Examples:
  pcconf build
  pcconf build --budget 1200 --strategy solution
  pcconf build --csv my-pc.csv
  printf '1\n1\n1\n1\n1\n1\n' | pcconf build --no-save`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog path (CSV directory, YAML file or CUE directory)")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "candidate strategy (domain|solution)")
	cmd.Flags().StringVar(&opts.Budget, "budget", "", "budget ceiling, e.g. 1500.00")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().BoolVar(&opts.NoSave, "no-save", false, "do not record the session or configuration")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "export the finished configuration to this CSV file")

	return cmd
}

func runBuild(opts *BuildOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg := opts.Settings()
	if opts.Catalog != "" {
		cfg.CatalogPath = opts.Catalog
	}
	if opts.Strategy != "" {
		cfg.Strategy = opts.Strategy
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}
	if err := applyBudgetFlag(&cfg, opts.Budget); err != nil {
		return f.fail(ExitCommandError, ErrCodeBadInput, "invalid budget", err)
	}

	cat, reg, err := setup(ctx, f, cfg)
	if err != nil {
		return err
	}
	strategy, err := session.NewStrategy(cfg.Strategy, reg)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeBadInput, "invalid strategy", err)
	}

	var sessOpts []session.Option
	if opts.IDs != nil {
		sessOpts = append(sessOpts, session.WithIDGenerator(opts.IDs))
	}
	sess, err := session.New(cat, strategy, sessOpts...)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "failed to start session", err)
	}
	f.VerboseLog("Session %s (%s strategy)", sess.ID(), sess.Strategy())

	chooser := opts.Chooser
	if chooser == nil {
		chooser = defaultChooser(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	if err := drive(ctx, sess, cat, cfg.SafetyMargin, chooser, f.GetErrWriter()); err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "prompt failed", err)
	}

	result := BuildResult{
		SessionID: sess.ID(),
		Strategy:  sess.Strategy(),
		State:     sess.State().String(),
		Steps:     len(sess.Steps()),
	}

	if !opts.NoSave {
		inserted, err := record(ctx, cfg, cat, sess)
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeStore, "failed to save session", err)
		}
		result.Saved = sess.State() == session.Complete
		result.Duplicate = result.Saved && !inserted
	}

	switch sess.State() {
	case session.Complete:
		v := newConfigurationView(cat, sess.Assignment())
		v.Budget = cfg.BudgetString()
		v.SessionID, v.Strategy = sess.ID(), sess.Strategy()
		result.Configuration = &v

		if opts.CSV != "" {
			if err := export.WriteFile(opts.CSV, cat, sess.Assignment()); err != nil {
				return f.fail(ExitCommandError, ErrCodeWriteFailed, "failed to export configuration", err)
			}
			result.CSV = opts.CSV
		}
		return f.Success(result)

	case session.Failed:
		msg := "no configuration satisfies the constraints"
		if failure := sess.Failure(); failure != nil {
			msg = failure.Error()
		}
		_ = f.Failure(ErrCodeUnsatisfiable, msg, result)
		return reported(WrapExitError(ExitFailure, ErrCodeUnsatisfiable, sess.Failure()))

	default:
		_ = f.Failure(ErrCodeGeneric, "build abandoned before completion", result)
		return reported(NewExitError(ExitFailure, "build abandoned before completion"))
	}
}

// drive runs the prompt loop until the session completes, the user quits,
// or the catalog turns out to have no configuration at all.
func drive(ctx context.Context, sess *session.Session, cat *catalog.Catalog, margin float64, chooser Chooser, errOut io.Writer) error {
	for sess.State() != session.Complete {
		if sess.State() == session.Failed && failedOnReset(sess) {
			return nil
		}

		p := Prompt{Total: sess.Total(), Failure: sess.Failure()}
		if c, ok := sess.Current(); ok {
			p.Category = c
			p.Options = sess.Available()
			p.Hints = compatibilityHints(cat, sess.Assignment(), c, margin)
		}

		ans, err := chooser.Choose(ctx, p)
		if err != nil {
			return err
		}
		switch {
		case ans.Quit:
			return nil
		case ans.Restart:
			sess.Restart()
			continue
		case sess.State() == session.Failed:
			fmt.Fprintln(errOut, "Choose restart or quit.")
			continue
		}

		if err := sess.Choose(ans.ID); err != nil {
			if domain.IsInvalidSelection(err) {
				fmt.Fprintf(errOut, "%s %q is not offered for %s\n", errorStyle.Render(crossMark), ans.ID, p.Category)
				continue
			}
			slog.Debug("build step failed", "session", sess.ID(), "error", err)
			continue
		}
		r, _ := cat.Lookup(p.Category, ans.ID)
		fmt.Fprintf(errOut, "%s %s: %s (%s)\n", okStyle.Render(checkMark), p.Category, r.Name, r.Price)
	}
	return nil
}

// failedOnReset reports whether the session failed before any choice, so
// restarting cannot help.
func failedOnReset(sess *session.Session) bool {
	steps := sess.Steps()
	last := steps[len(steps)-1]
	return last.Kind == session.StepStart || last.Kind == session.StepRestart
}

// record writes the session's steps and, when it completed, its
// configuration. inserted is false when the configuration was already
// stored.
func record(ctx context.Context, cfg config.Config, cat *catalog.Catalog, sess *session.Session) (inserted bool, err error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return false, err
	}
	defer st.Close()

	if err := st.WriteSteps(ctx, sess.ID(), sess.Steps()); err != nil {
		return false, err
	}
	if sess.State() != session.Complete {
		return false, nil
	}

	conf, err := store.NewConfiguration(cat, sess.Assignment())
	if err != nil {
		return false, err
	}
	conf.SessionID = sess.ID()
	conf.Strategy = sess.Strategy()
	conf.Budget = cfg.Budget
	return st.SaveConfiguration(ctx, conf)
}

func (r BuildResult) renderText(w io.Writer, verbose bool) {
	if r.Configuration == nil {
		fmt.Fprintf(w, "Session %s ended %s after %d steps\n", r.SessionID, r.State, r.Steps)
		return
	}
	fmt.Fprintln(w, titleStyle.Render("Configuration complete")+" "+dimStyle.Render(shortID(r.Configuration.ID)))
	renderConfiguration(w, *r.Configuration)
	switch {
	case r.Duplicate:
		fmt.Fprintln(w, dimStyle.Render("Already saved"))
	case r.Saved:
		fmt.Fprintln(w, okStyle.Render(checkMark)+" Saved")
	}
	if r.CSV != "" {
		fmt.Fprintf(w, "%s Exported to %s\n", okStyle.Render(checkMark), r.CSV)
	}
	if verbose {
		fmt.Fprintf(w, "session=%s strategy=%s steps=%d\n", r.SessionID, r.Strategy, r.Steps)
	}
}
