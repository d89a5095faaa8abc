package releases

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnius-data/dvdrentalsim/rng"
)

func TestCategoryNamesAreTheFixedSixteen(t *testing.T) {
	names := CategoryNames()
	require.Len(t, names, 16)
	for _, n := range names {
		_, ok := categoryTemplates[n]
		assert.True(t, ok, "category %s has no template", n)
	}
}

func TestGenerateFilmTitleExpandsEveryPlaceholder(t *testing.T) {
	svc := rng.New(17)
	for _, name := range CategoryNames() {
		gen := GenerateFilmTitle(name, svc)
		assert.NotContains(t, gen.Title, "{")
		assert.NotEmpty(t, gen.Title)
		assert.NotEmpty(t, gen.Description)
	}
}

func TestGenerateFilmTitleRentalPriceIsTwentyPercentOfReplacementCost(t *testing.T) {
	svc := rng.New(4)
	gen := GenerateFilmTitle("Action", svc)
	assert.InDelta(t, gen.ReplacementCost*0.20, gen.RentalPrice, 0.01)
}

func TestGenerateFilmTitleUnknownCategoryFallsBackInsteadOfPanicking(t *testing.T) {
	svc := rng.New(4)
	assert.NotPanics(t, func() {
		gen := GenerateFilmTitle("NotARealCategory", svc)
		assert.False(t, strings.Contains(gen.Title, "{"))
	})
}

func TestGenerateFilmTitleLengthWithinCategoryRange(t *testing.T) {
	svc := rng.New(9)
	tmpl := categoryTemplates["Horror"]
	for i := 0; i < 50; i++ {
		gen := GenerateFilmTitle("Horror", svc)
		assert.GreaterOrEqual(t, gen.LengthMinutes, tmpl.LengthMinMax[0])
		assert.LessOrEqual(t, gen.LengthMinutes, tmpl.LengthMinMax[1])
	}
}
