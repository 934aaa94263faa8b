package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/constraint"
	"github.com/roach88/pcconf/internal/testutil"
)

func TestCompatibilityHints(t *testing.T) {
	cat, err := loadCatalog(context.Background(), dataDir)
	require.NoError(t, err)

	a := testutil.SampleCheapest
	tests := []struct {
		next   catalog.Category
		margin float64
		want   []string
	}{
		{catalog.CPU, constraint.DefaultSafetyMargin, nil},
		{catalog.Motherboard, constraint.DefaultSafetyMargin, []string{"Motherboard socket must be LGA1700"}},
		{catalog.RAM, constraint.DefaultSafetyMargin, []string{"RAM must be type DDR4"}},
		{catalog.GPU, constraint.DefaultSafetyMargin, nil},
		{catalog.PSU, constraint.DefaultSafetyMargin, []string{"PSU must provide at least 198W"}},
		{catalog.PSU, 1.5, []string{"PSU must provide at least 247.5W"}},
		{catalog.Case, constraint.DefaultSafetyMargin, []string{
			"Case must support ATX motherboards",
			"Case must support ATX power supplies",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.next.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, compatibilityHints(cat, a, tt.next, tt.margin))
		})
	}
}

func TestCompatibilityHints_NothingChosenYet(t *testing.T) {
	cat, err := loadCatalog(context.Background(), dataDir)
	require.NoError(t, err)

	var empty catalog.Assignment
	for _, c := range catalog.Categories {
		assert.Empty(t, compatibilityHints(cat, empty, c, constraint.DefaultSafetyMargin), c.String())
	}
}

func TestBuild_PromptsCarryHints(t *testing.T) {
	chooser := &scriptedChooser{answers: []Answer{
		{ID: "cpu-1"}, {ID: "mb-1"}, {ID: "ram-1"}, {ID: "gpu-3"}, {ID: "psu-3"}, {ID: "case-2"},
	}}
	opts := &BuildOptions{RootOptions: jsonOpts(), Chooser: chooser, IDs: testutil.NewFixedIDGenerator("hinted")}
	_, _, err := execute(t, newBuildCommand(opts), "", "--catalog", dataDir, "--no-save")
	require.NoError(t, err)

	require.Len(t, chooser.prompts, 6)
	assert.Empty(t, chooser.prompts[0].Hints)
	assert.Equal(t, []string{"Motherboard socket must be AM5"}, chooser.prompts[1].Hints)
	assert.Equal(t, []string{"RAM must be type DDR5"}, chooser.prompts[2].Hints)
	assert.Equal(t, []string{"PSU must provide at least 540W"}, chooser.prompts[4].Hints)
	assert.Equal(t, []string{
		"Case must support Micro-ATX motherboards",
		"Case must support ATX power supplies",
	}, chooser.prompts[5].Hints)
}

func TestLineChooser_PrintsHints(t *testing.T) {
	out := &strings.Builder{}
	c := newLineChooser(strings.NewReader("1\n"), out)
	_, err := c.Choose(context.Background(), Prompt{
		Category: catalog.RAM,
		Options:  []catalog.Record{catalog.NewRecord(catalog.RAM, "ram-1", "32GB DDR5-6000", 10900, nil)},
		Hints:    []string{"RAM must be type DDR5"},
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "RAM must be type DDR5")
}

func TestConfigurationView_ShowsDecidingAttributes(t *testing.T) {
	cat, err := loadCatalog(context.Background(), dataDir)
	require.NoError(t, err)

	v := newConfigurationView(cat, testutil.SampleCheapest)
	assert.Equal(t, map[string]string{"socket": "LGA1700"}, v.Parts[0].Attrs)
	assert.Equal(t, map[string]string{"socket": "LGA1700", "ram_type": "DDR4", "size": "ATX"}, v.Parts[1].Attrs)
	assert.Equal(t, map[string]string{"ram_type": "DDR4", "speed": "3200"}, v.Parts[2].Attrs)
	assert.Equal(t, map[string]string{"power_draw": "165W"}, v.Parts[3].Attrs)
	assert.Equal(t, map[string]string{"wattage": "650W", "size": "ATX"}, v.Parts[4].Attrs)
	assert.Equal(t, map[string]string{
		"supported_motherboard_sizes": "ATX, Micro-ATX",
		"supported_psu_sizes":         "ATX",
	}, v.Parts[5].Attrs)

	out := &strings.Builder{}
	renderConfiguration(out, v)
	text := out.String()
	assert.Contains(t, text, "socket LGA1700; ram DDR4; size ATX")
	assert.Contains(t, text, "draw 165W")
	assert.Contains(t, text, "wattage 650W; size ATX")
	assert.Contains(t, text, "boards ATX, Micro-ATX; psus ATX")
}

func TestSolve_TextListsAttributes(t *testing.T) {
	out, _, err := execute(t, NewSolveCommand(textOpts()), "", "--catalog", dataDir, "--cheapest")
	require.NoError(t, err)
	assert.Contains(t, out, "socket LGA1700")
	assert.Contains(t, out, "draw 165W")
}
