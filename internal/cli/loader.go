package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/config"
	"github.com/roach88/pcconf/internal/constraint"
)

// Error code constants, unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeCatalog       = "E002" // Catalog could not be read or parsed
	ErrCodeMalformed     = "E003" // Record lacks or mistypes an attribute
	ErrCodeInvalidRecord = "E004" // Record failed validation (empty id, duplicate, negative price)
	ErrCodeNotFound      = "E005" // Path or record not found
	ErrCodeConstraints   = "E006" // Constraint set could not be built
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeStore         = "E008" // Database error
	ErrCodeUnsatisfiable = "E009" // No configuration satisfies the constraints
	ErrCodeBadInput      = "E010" // Invalid flag value
)

// LoadError is a catalog or constraint setup failure with its CLI code.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// exitCode maps a load failure to the process exit code: unreadable input
// is a command error, bad catalog data a domain failure.
func (e *LoadError) exitCode() int {
	switch e.Code {
	case ErrCodeMalformed, ErrCodeInvalidRecord:
		return ExitFailure
	default:
		return ExitCommandError
	}
}

// classifyLoadError wraps err with the code that matches its cause.
func classifyLoadError(err error) *LoadError {
	code := ErrCodeCatalog
	switch {
	case errors.Is(err, os.ErrNotExist):
		code = ErrCodeNotFound
	case catalog.IsMalformedAttribute(err):
		code = ErrCodeMalformed
	case catalog.IsInvalidRecord(err):
		code = ErrCodeInvalidRecord
	}
	return &LoadError{Code: code, Message: err.Error(), Err: err}
}

// loadCatalog opens the catalog at path with the provider matching its shape.
func loadCatalog(ctx context.Context, path string) (*catalog.Catalog, error) {
	cat, err := catalog.LoadPath(ctx, path)
	if err != nil {
		return nil, classifyLoadError(err)
	}
	return cat, nil
}

// buildRegistry builds the standard constraint set for cat with the
// configured margin and cache, plus a budget when one is set.
func buildRegistry(cat *catalog.Catalog, cfg config.Config) (*constraint.Registry, error) {
	reg, err := constraint.Standard(cat, cfg.ConstraintOptions()...)
	if err != nil {
		le := classifyLoadError(err)
		if le.Code == ErrCodeCatalog {
			le.Code = ErrCodeConstraints
		}
		return nil, le
	}
	if cfg.HasBudget() {
		reg.SetBudget(constraint.CatalogBudget(*cfg.Budget, cat))
	}
	return reg, nil
}

// setup loads the catalog and constraint set for a command, reporting
// failures through f.
func setup(ctx context.Context, f *OutputFormatter, cfg config.Config) (*catalog.Catalog, *constraint.Registry, error) {
	f.VerboseLog("Loading catalog from %s", cfg.CatalogPath)
	cat, err := loadCatalog(ctx, cfg.CatalogPath)
	if err != nil {
		return nil, nil, reportLoadError(f, err)
	}
	reg, err := buildRegistry(cat, cfg)
	if err != nil {
		return nil, nil, reportLoadError(f, err)
	}
	return cat, reg, nil
}

func reportLoadError(f *OutputFormatter, err error) error {
	var le *LoadError
	if !errors.As(err, &le) {
		le = &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Err: err}
	}
	_ = f.Error(le.Code, le.Message, nil)
	return reported(WrapExitError(le.exitCode(), le.Code, le.Err))
}

// applyBudgetFlag parses a --budget value into cfg. An empty value keeps
// the configured budget.
func applyBudgetFlag(cfg *config.Config, raw string) error {
	if raw == "" {
		return nil
	}
	m, err := catalog.ParseMoney(raw)
	if err != nil {
		return fmt.Errorf("--budget: %w", err)
	}
	if m < 0 {
		return fmt.Errorf("--budget must not be negative, got %s", raw)
	}
	cfg.Budget = &m
	return nil
}
