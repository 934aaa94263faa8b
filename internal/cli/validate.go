package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/domain"
	"github.com/roach88/pcconf/internal/propagate"
	"github.com/roach88/pcconf/internal/solver"
)

// CategoryReport describes one category of a validated catalog.
type CategoryReport struct {
	Category string   `json:"category"`
	Records  int      `json:"records"`
	Usable   int      `json:"usable"`
	Unusable []string `json:"unusable,omitempty"` // ids no configuration can contain
}

// ValidationResult holds the outcome of the validate command.
type ValidationResult struct {
	Valid      bool               `json:"valid"`
	Catalog    string             `json:"catalog"`
	Categories []CategoryReport   `json:"categories"`
	Solutions  int                `json:"solutions"`
	Cheapest   *ConfigurationView `json:"cheapest,omitempty"`
	Issues     []string           `json:"issues,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var budget string

	cmd := &cobra.Command{
		Use:   "validate [catalog]",
		Short: "Check a catalog for errors and dead parts",
		Long: `Load a catalog and check that it can produce a configuration.

Reports record counts per category, parts that no compatible
configuration can contain, the number of configurations and the
cheapest one. Malformed or duplicate records fail the load.

The catalog defaults to PCCONF_CATALOG, then ./data.

Examples:
  pcconf validate
  pcconf validate ./catalog.yaml
  pcconf validate ./cue-catalog --budget 1000 --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, budget, cmd)
		},
	}

	cmd.Flags().StringVar(&budget, "budget", "", "also check against this budget ceiling")

	return cmd
}

func runValidate(opts *RootOptions, path, budget string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	f := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	cfg := opts.Settings()
	if path != "" {
		cfg.CatalogPath = path
	}
	if err := applyBudgetFlag(&cfg, budget); err != nil {
		return f.fail(ExitCommandError, ErrCodeBadInput, "invalid budget", err)
	}

	cat, reg, err := setup(ctx, f, cfg)
	if err != nil {
		return err
	}

	result := ValidationResult{Catalog: cfg.CatalogPath}

	st := domain.New(cat)
	propErr := propagate.New(reg).Propagate(st)
	for _, c := range catalog.Categories {
		report := CategoryReport{Category: c.String(), Records: cat.Len(c)}
		if report.Records == 0 {
			result.Issues = append(result.Issues, fmt.Sprintf("no %s records", c))
		}
		if propErr == nil {
			live := st.Get(c)
			report.Usable = live.Len()
			for _, id := range cat.IDs(c) {
				if !live.Has(id) {
					report.Unusable = append(report.Unusable, id)
				}
			}
		}
		f.VerboseLog("%s: %d records, %d usable", c, report.Records, report.Usable)
		result.Categories = append(result.Categories, report)
	}

	if propErr == nil {
		slv := solver.New(reg)
		cost := cat.Cost
		if b := reg.Budget(); b != nil {
			cost = b.CostFunc()
		}
		if best, ok := slv.SolveMinCost(st, cost); ok {
			v := newConfigurationView(cat, best)
			result.Cheapest = &v
		}
		result.Solutions = slv.Stats().Solutions
	}
	if result.Solutions == 0 {
		msg := "no compatible configuration exists"
		if cfg.HasBudget() {
			msg += " within " + cfg.BudgetString()
		}
		if propErr != nil {
			msg += ": " + propErr.Error()
		}
		result.Issues = append(result.Issues, msg)
	}

	result.Valid = len(result.Issues) == 0
	if !result.Valid {
		_ = f.Failure(ErrCodeUnsatisfiable, strings.Join(result.Issues, "; "), result)
		return reported(NewExitError(ExitFailure, "catalog validation failed"))
	}
	return f.Success(result)
}

func (r ValidationResult) renderText(w io.Writer, verbose bool) {
	mark := okStyle.Render(checkMark)
	if !r.Valid {
		mark = errorStyle.Render(crossMark)
	}
	fmt.Fprintf(w, "%s %s\n", mark, titleStyle.Render(r.Catalog))
	for _, c := range r.Categories {
		fmt.Fprintf(w, "  %-11s %3d records, %3d usable\n", c.Category, c.Records, c.Usable)
		if len(c.Unusable) > 0 && (verbose || len(c.Unusable) <= 5) {
			fmt.Fprintf(w, "  %-11s %s\n", "", dimStyle.Render("unusable: "+strings.Join(c.Unusable, ", ")))
		}
	}
	fmt.Fprintf(w, "  %d compatible configurations\n", r.Solutions)
	if r.Cheapest != nil {
		fmt.Fprintf(w, "  cheapest %s (%s)\n", priceStyle.Render(r.Cheapest.Total), shortID(r.Cheapest.ID))
	}
	if r.Valid {
		fmt.Fprintln(w, "Validation successful")
	}
}
