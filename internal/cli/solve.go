package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/domain"
	"github.com/roach88/pcconf/internal/propagate"
	"github.com/roach88/pcconf/internal/solver"
)

// SolveOptions holds flags for the solve command.
type SolveOptions struct {
	*RootOptions
	Catalog  string
	Budget   string
	Limit    int
	Cheapest bool
}

// SolveStats summarizes the search.
type SolveStats struct {
	Nodes      int    `json:"nodes"`
	Backtracks int    `json:"backtracks"`
	Pruned     int    `json:"pruned"`
	Elapsed    string `json:"elapsed"`
}

// SolveResult is the output of the solve command.
type SolveResult struct {
	Count          int                 `json:"count"`
	Budget         string              `json:"budget,omitempty"`
	Cheapest       *ConfigurationView  `json:"cheapest,omitempty"`
	Configurations []ConfigurationView `json:"configurations"`
	Stats          SolveStats          `json:"stats"`

	cheapestOnly bool
}

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SolveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Enumerate compatible configurations",
		Long: `Enumerate every compatible configuration of the catalog.

Domains are pruned by propagation first, then searched in category order
(CPU, Motherboard, RAM, GPU, PSU, Case). With --budget only
configurations whose total is within the budget are listed.

Examples:
  pcconf solve --catalog ./data
  pcconf solve --budget 900 --limit 5
  pcconf solve --cheapest --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "catalog path (CSV directory, YAML file or CUE directory)")
	cmd.Flags().StringVar(&opts.Budget, "budget", "", "budget ceiling, e.g. 1500.00")
	cmd.Flags().IntVar(&opts.Limit, "limit", 10, "maximum configurations to list (0 for all)")
	cmd.Flags().BoolVar(&opts.Cheapest, "cheapest", false, "show only the cheapest configuration")

	return cmd
}

func runSolve(opts *SolveOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg := opts.Settings()
	if opts.Catalog != "" {
		cfg.CatalogPath = opts.Catalog
	}
	if err := applyBudgetFlag(&cfg, opts.Budget); err != nil {
		return f.fail(ExitCommandError, ErrCodeBadInput, "invalid budget", err)
	}
	if opts.Limit < 0 {
		return f.fail(ExitCommandError, ErrCodeBadInput, fmt.Sprintf("--limit must not be negative, got %d", opts.Limit), nil)
	}

	cat, reg, err := setup(ctx, f, cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	st := domain.New(cat)
	before := st.Size()
	prop := propagate.New(reg)
	if err := prop.Propagate(st); err != nil {
		return f.fail(ExitFailure, ErrCodeUnsatisfiable, "no configuration satisfies the constraints", err)
	}
	pruned := 0
	after := st.Size()
	for i := range before {
		pruned += before[i] - after[i]
	}
	f.VerboseLog("Propagation removed %d candidates: %s", pruned, st)

	slv := solver.New(reg)
	cost := cat.Cost
	if b := reg.Budget(); b != nil {
		cost = b.CostFunc()
	}

	result := SolveResult{cheapestOnly: opts.Cheapest}
	result.Budget = cfg.BudgetString()

	if opts.Cheapest {
		best, ok := slv.SolveMinCost(st, cost)
		if ok {
			v := newConfigurationView(cat, best)
			result.Cheapest = &v
			result.Count = slv.Stats().Solutions
		}
	} else {
		sols := slv.SolveAll(st)
		result.Count = len(sols)
		if len(sols) > 0 {
			best, _ := cheapestOf(sols, cost)
			v := newConfigurationView(cat, best)
			result.Cheapest = &v
		}
		if opts.Limit > 0 && len(sols) > opts.Limit {
			sols = sols[:opts.Limit]
		}
		for _, a := range sols {
			result.Configurations = append(result.Configurations, newConfigurationView(cat, a))
		}
	}
	if result.Configurations == nil {
		result.Configurations = []ConfigurationView{}
	}

	stats := slv.Stats()
	result.Stats = SolveStats{
		Nodes:      stats.Nodes,
		Backtracks: stats.Backtracks,
		Pruned:     pruned,
		Elapsed:    time.Since(start).Round(time.Microsecond).String(),
	}

	if result.Cheapest == nil {
		_ = f.Failure(ErrCodeUnsatisfiable, "no configuration satisfies the constraints", result)
		return reported(NewExitError(ExitFailure, ErrCodeUnsatisfiable+": no configuration satisfies the constraints"))
	}
	return f.Success(result)
}

// cheapestOf returns the first solution of minimal cost.
func cheapestOf(sols []catalog.Assignment, cost func(catalog.Assignment) catalog.Money) (catalog.Assignment, bool) {
	var best catalog.Assignment
	var bestCost catalog.Money
	for i, a := range sols {
		if c := cost(a); i == 0 || c < bestCost {
			best, bestCost = a, c
		}
	}
	return best, len(sols) > 0
}

func (r SolveResult) renderText(w io.Writer, verbose bool) {
	if r.cheapestOnly {
		if r.Cheapest != nil {
			fmt.Fprintln(w, titleStyle.Render("Cheapest configuration")+" "+dimStyle.Render(shortID(r.Cheapest.ID)))
			renderConfiguration(w, *r.Cheapest)
		}
	} else {
		header := fmt.Sprintf("%d compatible configurations", r.Count)
		if r.Budget != "" {
			header += " within " + r.Budget
		}
		fmt.Fprintln(w, titleStyle.Render(header))
		for i, v := range r.Configurations {
			fmt.Fprintf(w, "\n#%d %s\n", i+1, dimStyle.Render(shortID(v.ID)))
			renderConfiguration(w, v)
		}
		if hidden := r.Count - len(r.Configurations); hidden > 0 {
			fmt.Fprintf(w, "\n... %d more (use --limit 0 to list all)\n", hidden)
		}
		if r.Cheapest != nil {
			fmt.Fprintf(w, "\nCheapest: %s (%s)\n", priceStyle.Render(r.Cheapest.Total), shortID(r.Cheapest.ID))
		}
	}
	if verbose {
		fmt.Fprintf(w, "\nnodes=%d backtracks=%d pruned=%d elapsed=%s\n",
			r.Stats.Nodes, r.Stats.Backtracks, r.Stats.Pruned, r.Stats.Elapsed)
	}
}
