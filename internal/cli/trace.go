package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pcconf/internal/fingerprint"
	"github.com/roach88/pcconf/internal/session"
	"github.com/roach88/pcconf/internal/store"
)

// TraceStats counts the steps of a session by kind.
type TraceStats struct {
	Steps    int `json:"steps"`
	Choices  int `json:"choices"`
	Rejects  int `json:"rejects"`
	Restarts int `json:"restarts"`
}

// TraceResult is a recorded session's step history.
type TraceResult struct {
	SessionID string         `json:"session_id"`
	State     string         `json:"state"`
	Total     string         `json:"total"`
	Digest    string         `json:"digest"` // equal for sessions that took the same path
	Steps     []session.Step `json:"steps"`
	Stats     TraceStats     `json:"stats"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	var database string

	cmd := &cobra.Command{
		Use:   "trace <session-id>",
		Short: "Show the steps of a recorded session",
		Long: `Show every step a build session recorded: the start, each choice
and rejected selection, restarts, and the state and running total after
each step. With --verbose the candidates offered at each step are listed.

Session ids are printed by "pcconf configs --sessions".

Examples:
  pcconf trace 01928c4e-7b1a-7c3d-9e2f-5a6b7c8d9e0f
  pcconf trace 01928c4e-7b1a-7c3d-9e2f-5a6b7c8d9e0f --verbose
  pcconf trace 01928c4e-7b1a-7c3d-9e2f-5a6b7c8d9e0f --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(rootOpts, database, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&database, "db", "", "path to SQLite database")

	return cmd
}

func runTrace(opts *RootOptions, database, sessionID string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg := opts.Settings()
	if database != "" {
		cfg.DBPath = database
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	steps, err := st.ListSteps(ctx, sessionID)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeStore, "failed to read session", err)
	}
	if len(steps) == 0 {
		return f.fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no steps recorded for session %s", sessionID), nil)
	}

	digest, err := fingerprint.TraceID(steps)
	if err != nil {
		return f.fail(ExitCommandError, ErrCodeGeneric, "failed to digest session", err)
	}

	last := steps[len(steps)-1]
	result := TraceResult{
		SessionID: sessionID,
		State:     last.State,
		Total:     last.Total,
		Digest:    digest,
		Steps:     steps,
		Stats:     TraceStats{Steps: len(steps)},
	}
	for _, s := range steps {
		switch s.Kind {
		case session.StepChoose:
			result.Stats.Choices++
		case session.StepReject:
			result.Stats.Rejects++
		case session.StepRestart:
			result.Stats.Restarts++
		}
	}
	return f.Success(result)
}

func (r TraceResult) renderText(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "Session: %s\n", titleStyle.Render(r.SessionID))
	fmt.Fprintf(w, "State:   %s (total %s)\n", r.State, r.Total)
	fmt.Fprintf(w, "Digest:  %s\n\n", dimStyle.Render(shortID(r.Digest)))

	for _, s := range r.Steps {
		line := fmt.Sprintf("[%d] %-7s", s.Seq, s.Kind)
		if s.ID != "" {
			line += fmt.Sprintf(" %s=%s", s.Category, s.ID)
		} else if s.Category != "" {
			line += fmt.Sprintf(" next=%s", s.Category)
		}
		line += fmt.Sprintf(" -> %s (%s)", s.State, s.Total)
		if s.Error != "" {
			line = errorStyle.Render(line + " " + s.Error)
		}
		fmt.Fprintln(w, line)
		if verbose && len(s.Offered) > 0 {
			fmt.Fprintf(w, "      %s\n", dimStyle.Render("offered: "+strings.Join(s.Offered, ", ")))
		}
	}

	fmt.Fprintf(w, "\n%d steps: %d choices, %d rejected, %d restarts\n",
		r.Stats.Steps, r.Stats.Choices, r.Stats.Rejects, r.Stats.Restarts)
}
