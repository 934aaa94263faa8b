package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_JSON(t *testing.T) {
	out, _, err := execute(t, NewSolveCommand(jsonOpts()), "", "--catalog", dataDir, "--limit", "3")
	require.NoError(t, err)

	var result SolveResult
	resp := decode(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 26, result.Count)
	assert.Len(t, result.Configurations, 3)
	assert.Empty(t, result.Budget)

	require.NotNil(t, result.Cheapest)
	assert.Equal(t, cheapestID, result.Cheapest.ID)
	assert.Equal(t, "820.00", result.Cheapest.Total)
	assert.Positive(t, result.Stats.Nodes)
	assert.Equal(t, 3, result.Stats.Pruned) // cpu-3, mb-4 and case-3 fit nothing

	for _, c := range result.Configurations {
		require.Len(t, c.Parts, 6)
		assert.Equal(t, "CPU", c.Parts[0].Category)
		assert.Equal(t, "Case", c.Parts[5].Category)
	}
}

func TestSolve_LimitZeroListsAll(t *testing.T) {
	out, _, err := execute(t, NewSolveCommand(jsonOpts()), "", "--catalog", dataDir, "--limit", "0")
	require.NoError(t, err)

	var result SolveResult
	decode(t, out, &result)
	assert.Len(t, result.Configurations, 26)
}

func TestSolve_Cheapest(t *testing.T) {
	out, _, err := execute(t, NewSolveCommand(jsonOpts()), "", "--catalog", dataDir, "--cheapest")
	require.NoError(t, err)

	var result SolveResult
	decode(t, out, &result)
	require.NotNil(t, result.Cheapest)
	assert.Empty(t, result.Configurations)

	names := make([]string, 0, 6)
	for _, p := range result.Cheapest.Parts {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Core i5-13400F", "B760 DDR4", "16GB DDR4-3200", "RX 7600", "650W ATX", "Mid Tower"}, names)
}

func TestSolve_Budget(t *testing.T) {
	tests := []struct {
		name     string
		budget   string
		wantCode int
		count    int
	}{
		{"exact_cheapest", "820", ExitSuccess, 1},
		{"loose", "900", ExitSuccess, 1},
		{"one_cent_short", "819.99", ExitFailure, 0},
		{"far_below", "800", ExitFailure, 0},
		{"zero_is_a_ceiling", "0", ExitFailure, 0},
		{"zero_with_currency", "0.00 €", ExitFailure, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewSolveCommand(jsonOpts()), "", "--catalog", dataDir, "--budget", tt.budget)
			assert.Equal(t, tt.wantCode, GetExitCode(err))

			var result SolveResult
			resp := decode(t, out, &result)
			if tt.wantCode == ExitSuccess {
				assert.Equal(t, "ok", resp.Status)
				assert.Equal(t, tt.count, result.Count)
				return
			}
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, ErrCodeUnsatisfiable, resp.Error.Code)
		})
	}
}

func TestSolve_BadFlags(t *testing.T) {
	_, _, err := execute(t, NewSolveCommand(jsonOpts()), "", "--catalog", dataDir, "--budget", "lots")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = execute(t, NewSolveCommand(jsonOpts()), "", "--catalog", dataDir, "--limit", "-1")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSolve_MissingCatalog(t *testing.T) {
	out, _, err := execute(t, NewSolveCommand(jsonOpts()), "", "--catalog", "does-not-exist")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	resp := decode(t, out, nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestSolve_Text(t *testing.T) {
	out, _, err := execute(t, NewSolveCommand(textOpts()), "", "--catalog", dataDir, "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "26 compatible configurations")
	assert.Contains(t, out, "... 25 more")
	assert.Contains(t, out, "Cheapest: 820.00")
}
