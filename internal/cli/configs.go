package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/pcconf/internal/store"
)

// ConfigsOptions holds flags for the configs command.
type ConfigsOptions struct {
	*RootOptions
	Database   string
	Sessions   bool
	Incomplete bool
}

// ConfigsResult lists saved configurations.
type ConfigsResult struct {
	Configurations []ConfigurationView `json:"configurations"`
}

// ConfigResult shows one saved configuration.
type ConfigResult struct {
	Configuration ConfigurationView `json:"configuration"`
}

// SessionView summarizes a recorded session.
type SessionView struct {
	SessionID string `json:"session_id"`
	Steps     int    `json:"steps"`
	State     string `json:"state"`
	Total     string `json:"total"`
}

// SessionsResult lists recorded sessions.
type SessionsResult struct {
	Sessions []SessionView `json:"sessions"`
}

// NewConfigsCommand creates the configs command.
func NewConfigsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "configs [id]",
		Short: "List saved configurations",
		Long: `List the configurations saved by build, oldest first.

With an id (or a unique prefix of one) show that configuration's
parts. With --sessions list recorded sessions and how they ended instead;
--incomplete narrows that to sessions that never finished.

Examples:
  pcconf configs
  pcconf configs 3f2a9c
  pcconf configs --sessions --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runConfigs(opts, id, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database")
	cmd.Flags().BoolVar(&opts.Sessions, "sessions", false, "list recorded sessions")
	cmd.Flags().BoolVar(&opts.Incomplete, "incomplete", false, "list only sessions that were abandoned or failed")

	return cmd
}

func runConfigs(opts *ConfigsOptions, id string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg := opts.Settings()
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	if opts.Sessions || opts.Incomplete {
		list := st.ListSessions
		if opts.Incomplete {
			list = st.FindIncompleteSessions
		}
		sums, err := list(ctx)
		if err != nil {
			return f.fail(ExitCommandError, ErrCodeStore, "failed to list sessions", err)
		}
		result := SessionsResult{Sessions: make([]SessionView, 0, len(sums))}
		for _, s := range sums {
			result.Sessions = append(result.Sessions, SessionView{
				SessionID: s.SessionID,
				Steps:     s.Steps,
				State:     s.State,
				Total:     s.Total,
			})
		}
		return f.Success(result)
	}

	all, err := st.ListConfigurations(ctx)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to list configurations", err)
	}

	if id == "" {
		result := ConfigsResult{Configurations: make([]ConfigurationView, 0, len(all))}
		for _, c := range all {
			result.Configurations = append(result.Configurations, storedView(c))
		}
		return f.Success(result)
	}

	conf, err := st.GetConfiguration(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		conf, err = byPrefix(all, id)
	}
	if err != nil {
		return f.fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("configuration %q", id), err)
	}
	return f.Success(ConfigResult{Configuration: storedView(conf)})
}

var errAmbiguousPrefix = errors.New("ambiguous id prefix")

// byPrefix finds the single configuration whose id starts with prefix.
func byPrefix(all []store.Configuration, prefix string) (store.Configuration, error) {
	var found []store.Configuration
	for _, c := range all {
		if len(c.ID) >= len(prefix) && c.ID[:len(prefix)] == prefix {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return store.Configuration{}, sql.ErrNoRows
	case 1:
		return found[0], nil
	default:
		return store.Configuration{}, fmt.Errorf("%w: %d matches", errAmbiguousPrefix, len(found))
	}
}

func (r ConfigsResult) renderText(w io.Writer, verbose bool) {
	if len(r.Configurations) == 0 {
		fmt.Fprintln(w, "No saved configurations")
		return
	}
	for _, c := range r.Configurations {
		budget := ""
		if c.Budget != "" {
			budget = dimStyle.Render(" budget " + c.Budget)
		}
		fmt.Fprintf(w, "%s  %10s  %-8s%s\n", shortID(c.ID), priceStyle.Render(c.Total), c.Strategy, budget)
		if verbose {
			renderConfiguration(w, c)
		}
	}
}

func (r ConfigResult) renderText(w io.Writer, verbose bool) {
	c := r.Configuration
	fmt.Fprintln(w, titleStyle.Render(c.ID))
	if verbose {
		fmt.Fprintf(w, "session %s, strategy %s\n", c.SessionID, c.Strategy)
	}
	renderConfiguration(w, c)
}

func (r SessionsResult) renderText(w io.Writer, verbose bool) {
	if len(r.Sessions) == 0 {
		fmt.Fprintln(w, "No recorded sessions")
		return
	}
	for _, s := range r.Sessions {
		fmt.Fprintf(w, "%s  %-15s  %3d steps  %10s\n", s.SessionID, s.State, s.Steps, s.Total)
	}
}
