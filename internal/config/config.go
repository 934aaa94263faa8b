// Package config resolves pcconf settings from .env files and PCCONF_*
// environment variables. Command-line flags override the result in the cli
// package.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/session"
)

// Environment variable names.
const (
	EnvCatalog      = "PCCONF_CATALOG"
	EnvDB           = "PCCONF_DB"
	EnvBudget       = "PCCONF_BUDGET"
	EnvStrategy     = "PCCONF_STRATEGY"
	EnvSafetyMargin = "PCCONF_SAFETY_MARGIN"
	EnvPairCache    = "PCCONF_PAIR_CACHE"
)

// Defaults.
const (
	DefaultCatalog   = "data"
	DefaultDB        = "pcconf.db"
	DefaultPairCache = 0
)

// Config holds resolved settings.
type Config struct {
	CatalogPath   string
	DBPath        string
	Budget        *catalog.Money // nil means no budget; zero is a real ceiling
	Strategy      string
	SafetyMargin  float64
	PairCacheSize int
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		CatalogPath:   DefaultCatalog,
		DBPath:        DefaultDB,
		Strategy:      session.StrategyDomain,
		SafetyMargin:  constraint.DefaultSafetyMargin,
		PairCacheSize: DefaultPairCache,
	}
}

// Load reads envFiles (or ./.env when none are given) into the process
// environment without overriding variables already set, then resolves
// PCCONF_* variables over the defaults.
//
// A missing ./.env is not an error; a missing explicitly named file is.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	return FromEnv()
}

// FromEnv resolves settings from the current environment only.
func FromEnv() (Config, error) {
	cfg := Default()
	cfg.CatalogPath = getEnv(EnvCatalog, cfg.CatalogPath)
	cfg.DBPath = getEnv(EnvDB, cfg.DBPath)
	cfg.Strategy = getEnv(EnvStrategy, cfg.Strategy)

	var errs []error
	if raw := getEnv(EnvBudget, ""); raw != "" {
		m, err := catalog.ParseMoney(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvBudget, err))
		}
		cfg.Budget = &m
	}
	if raw := getEnv(EnvSafetyMargin, ""); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvSafetyMargin, err))
		}
		cfg.SafetyMargin = f
	}
	if raw := getEnv(EnvPairCache, ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvPairCache, err))
		}
		cfg.PairCacheSize = n
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	var errs []error
	if c.CatalogPath == "" {
		errs = append(errs, errors.New("catalog path is empty"))
	}
	if c.Budget != nil && *c.Budget < 0 {
		errs = append(errs, fmt.Errorf("budget must not be negative, got %s", *c.Budget))
	}
	if c.SafetyMargin <= 0 {
		errs = append(errs, fmt.Errorf("safety margin must be positive, got %v", c.SafetyMargin))
	}
	if c.PairCacheSize < 0 {
		errs = append(errs, fmt.Errorf("pair cache size must not be negative, got %d", c.PairCacheSize))
	}
	switch strings.ToLower(c.Strategy) {
	case "", session.StrategyDomain, "propagation", session.StrategySolution, "solver":
	default:
		errs = append(errs, fmt.Errorf("unknown strategy %q", c.Strategy))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ConstraintOptions returns the options for constraint.Standard.
func (c Config) ConstraintOptions() []constraint.Option {
	opts := []constraint.Option{constraint.WithSafetyMargin(c.SafetyMargin)}
	if c.PairCacheSize > 0 {
		opts = append(opts, constraint.WithPairCache(c.PairCacheSize))
	}
	return opts
}

// HasBudget reports whether a budget ceiling is configured.
func (c Config) HasBudget() bool { return c.Budget != nil }

// BudgetString formats the budget, or returns "" when none is set.
func (c Config) BudgetString() string {
	if c.Budget == nil {
		return ""
	}
	return c.Budget.String()
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
