package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ShippedCatalog(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(jsonOpts()), "", dataDir)
	require.NoError(t, err)

	var result ValidationResult
	resp := decode(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, result.Valid)
	assert.Equal(t, 26, result.Solutions)
	assert.Empty(t, result.Issues)
	require.NotNil(t, result.Cheapest)
	assert.Equal(t, "820.00", result.Cheapest.Total)

	require.Len(t, result.Categories, 6)
	byName := map[string]CategoryReport{}
	for _, c := range result.Categories {
		byName[c.Category] = c
	}
	assert.Equal(t, CategoryReport{Category: "CPU", Records: 3, Usable: 2, Unusable: []string{"cpu-3"}}, byName["CPU"])
	assert.Equal(t, CategoryReport{Category: "Motherboard", Records: 4, Usable: 3, Unusable: []string{"mb-4"}}, byName["Motherboard"])
	assert.Equal(t, CategoryReport{Category: "GPU", Records: 3, Usable: 3}, byName["GPU"])
	assert.Equal(t, []string{"case-3"}, byName["Case"].Unusable)
}

func TestValidate_Text(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(textOpts()), "", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "26 compatible configurations")
	assert.Contains(t, out, "unusable: cpu-3")
	assert.Contains(t, out, "Validation successful")
}

func TestValidate_BudgetWithoutSolutions(t *testing.T) {
	out, _, err := execute(t, NewValidateCommand(jsonOpts()), "", dataDir, "--budget", "500")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var result ValidationResult
	resp := decode(t, out, &result)
	assert.Equal(t, "error", resp.Status)
	assert.False(t, result.Valid)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "within 500.00")
}

func TestValidate_LoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     func(t *testing.T) string
		wantCode string
		wantExit int
	}{
		{
			name:     "missing",
			path:     func(t *testing.T) string { return "no-such-catalog" },
			wantCode: ErrCodeNotFound,
			wantExit: ExitCommandError,
		},
		{
			name: "duplicate_id",
			path: func(t *testing.T) string {
				return copyCatalog(t, "gpus.csv", func(s string) string {
					return strings.TrimRight(s, "\n") + "\ngpu-1,RX 7600 again,165W,259.00\n"
				})
			},
			wantCode: ErrCodeInvalidRecord,
			wantExit: ExitFailure,
		},
		{
			name: "missing_socket",
			path: func(t *testing.T) string {
				return copyCatalog(t, "cpus.csv", func(s string) string {
					return strings.Replace(s, "Ryzen 5 7600,AM5,", "Ryzen 5 7600,,", 1)
				})
			},
			wantCode: ErrCodeMalformed,
			wantExit: ExitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewValidateCommand(jsonOpts()), "", tt.path(t))
			assert.Equal(t, tt.wantExit, GetExitCode(err))

			resp := decode(t, out, nil)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestClassifyLoadError(t *testing.T) {
	le := classifyLoadError(assert.AnError)
	assert.Equal(t, ErrCodeCatalog, le.Code)
	assert.Equal(t, ExitCommandError, le.exitCode())
	assert.ErrorIs(t, le, assert.AnError)
}
