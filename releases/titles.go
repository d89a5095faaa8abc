// Package releases implements the Film Release Planner (SPEC_FULL.md
// §4.5): weekly new-film generation and hot-category inventory purchases.
package releases

import (
	"fmt"
	"strings"

	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/rng"
)

// template holds the per-category word lists and numeric ranges
// generate_film_title and its companion attribute samplers draw from
// (spec.md §4.5).
type template struct {
	Adjectives []string
	Nouns      []string
	Names      []string
	Locations  []string
	Verbs      []string
	Titles     []string // {adjective} {noun} style skeletons

	Ratings        []models.Rating
	RatingWeights  []float64
	LengthMinMax   [2]int
	ReplacementMin float64
	ReplacementMax float64
}

var adjectives = []string{"Crimson", "Silent", "Last", "Broken", "Eternal", "Hidden", "Golden", "Savage", "Lonely", "Forgotten"}
var verbs = []string{"Rises", "Returns", "Escapes", "Awakens", "Falls", "Endures", "Vanishes", "Collides"}
var names = []string{"Marlowe", "Vance", "Dalton", "Cole", "Reyes", "Frost", "Hale", "Sullivan"}
var locations = []string{"Shadow Harbor", "Redwood County", "Union Station", "Cape Verdant", "Ironfield", "Stillwater Ridge"}

// categoryTemplates is keyed by the same 16 category names config.Validate
// checks hot_categories entries against.
var categoryTemplates = map[string]template{
	"Action":      {Nouns: []string{"Protocol", "Strike", "Pursuit", "Front"}, Titles: []string{"{adjective} {noun}", "The {noun} {verb}"}, Ratings: []models.Rating{models.RatingPG13, models.RatingR}, RatingWeights: []float64{0.5, 0.5}, LengthMinMax: [2]int{85, 140}, ReplacementMin: 18, ReplacementMax: 28},
	"Animation":   {Nouns: []string{"Kingdom", "Voyage", "Garden", "Legend"}, Titles: []string{"{name} and the {adjective} {noun}", "The {adjective} {noun}"}, Ratings: []models.Rating{models.RatingG, models.RatingPG}, RatingWeights: []float64{0.6, 0.4}, LengthMinMax: [2]int{75, 105}, ReplacementMin: 15, ReplacementMax: 22},
	"Children":    {Nouns: []string{"Treehouse", "Playground", "Adventure"}, Titles: []string{"{name}'s {adjective} {noun}"}, Ratings: []models.Rating{models.RatingG}, RatingWeights: []float64{1.0}, LengthMinMax: [2]int{70, 95}, ReplacementMin: 12, ReplacementMax: 18},
	"Classics":    {Nouns: []string{"Affair", "Letter", "Waltz", "Promise"}, Titles: []string{"The {adjective} {noun}", "A {noun} in {location}"}, Ratings: []models.Rating{models.RatingPG, models.RatingG}, RatingWeights: []float64{0.7, 0.3}, LengthMinMax: [2]int{95, 130}, ReplacementMin: 14, ReplacementMax: 20},
	"Comedy":      {Nouns: []string{"Wedding", "Reunion", "Road Trip", "Heist"}, Titles: []string{"The {adjective} {noun}", "{name}'s {noun}"}, Ratings: []models.Rating{models.RatingPG13, models.RatingR}, RatingWeights: []float64{0.6, 0.4}, LengthMinMax: [2]int{88, 110}, ReplacementMin: 13, ReplacementMax: 19},
	"Documentary": {Nouns: []string{"Chronicles", "Diaries", "Record", "Archive"}, Titles: []string{"{location}: A {noun}", "The {noun} of {location}"}, Ratings: []models.Rating{models.RatingPG, models.RatingG}, RatingWeights: []float64{0.5, 0.5}, LengthMinMax: [2]int{60, 100}, ReplacementMin: 11, ReplacementMax: 17},
	"Drama":       {Nouns: []string{"Reckoning", "Silence", "Inheritance", "Vow"}, Titles: []string{"The {adjective} {noun}", "{name}'s {noun}"}, Ratings: []models.Rating{models.RatingR, models.RatingPG13}, RatingWeights: []float64{0.55, 0.45}, LengthMinMax: [2]int{100, 150}, ReplacementMin: 16, ReplacementMax: 24},
	"Family":      {Nouns: []string{"Reunion", "Summer", "Homecoming"}, Titles: []string{"Our {adjective} {noun}", "The {noun} Next Door"}, Ratings: []models.Rating{models.RatingG, models.RatingPG}, RatingWeights: []float64{0.5, 0.5}, LengthMinMax: [2]int{85, 105}, ReplacementMin: 13, ReplacementMax: 19},
	"Foreign":     {Nouns: []string{"Current", "Crossing", "Exile"}, Titles: []string{"{location}", "The {adjective} {noun}"}, Ratings: []models.Rating{models.RatingPG13, models.RatingR}, RatingWeights: []float64{0.5, 0.5}, LengthMinMax: [2]int{95, 135}, ReplacementMin: 15, ReplacementMax: 23},
	"Games":       {Nouns: []string{"Respawn", "High Score", "Level Up"}, Titles: []string{"{noun}: {adjective} Edition"}, Ratings: []models.Rating{models.RatingPG13}, RatingWeights: []float64{1.0}, LengthMinMax: [2]int{80, 100}, ReplacementMin: 14, ReplacementMax: 20},
	"Horror":      {Nouns: []string{"Hollow", "Descent", "Ritual", "Static"}, Titles: []string{"The {adjective} {noun}", "{location}"}, Ratings: []models.Rating{models.RatingR, models.RatingNC17}, RatingWeights: []float64{0.75, 0.25}, LengthMinMax: [2]int{85, 110}, ReplacementMin: 13, ReplacementMax: 21},
	"Music":       {Nouns: []string{"Encore", "Refrain", "Setlist"}, Titles: []string{"{name} {verb}", "The {adjective} {noun}"}, Ratings: []models.Rating{models.RatingPG13, models.RatingPG}, RatingWeights: []float64{0.5, 0.5}, LengthMinMax: [2]int{90, 115}, ReplacementMin: 14, ReplacementMax: 20},
	"New":         {Nouns: []string{"Debut", "First Light", "Premiere"}, Titles: []string{"The {adjective} {noun}", "{name} {verb}"}, Ratings: []models.Rating{models.RatingPG13, models.RatingR, models.RatingPG}, RatingWeights: []float64{0.4, 0.3, 0.3}, LengthMinMax: [2]int{90, 120}, ReplacementMin: 16, ReplacementMax: 25},
	"Sci-Fi":      {Nouns: []string{"Horizon", "Singularity", "Outpost", "Drift"}, Titles: []string{"The {adjective} {noun}", "{noun} {verb}"}, Ratings: []models.Rating{models.RatingPG13, models.RatingR}, RatingWeights: []float64{0.55, 0.45}, LengthMinMax: [2]int{100, 145}, ReplacementMin: 17, ReplacementMax: 27},
	"Sports":      {Nouns: []string{"Season", "Underdogs", "Finals", "Comeback"}, Titles: []string{"The {adjective} {noun}", "{name}'s {noun}"}, Ratings: []models.Rating{models.RatingPG, models.RatingPG13}, RatingWeights: []float64{0.5, 0.5}, LengthMinMax: [2]int{95, 125}, ReplacementMin: 14, ReplacementMax: 20},
	"Travel":      {Nouns: []string{"Passage", "Expedition", "Detour"}, Titles: []string{"{location}: The {adjective} {noun}"}, Ratings: []models.Rating{models.RatingPG, models.RatingG}, RatingWeights: []float64{0.6, 0.4}, LengthMinMax: [2]int{80, 110}, ReplacementMin: 13, ReplacementMax: 19},
}

// CategoryNames returns the fixed 16 category names in a stable order, used
// by the Seed Loader to create the category reference rows.
func CategoryNames() []string {
	return []string{
		"Action", "Animation", "Children", "Classics", "Comedy", "Documentary",
		"Drama", "Family", "Foreign", "Games", "Horror", "Music", "New",
		"Sci-Fi", "Sports", "Travel",
	}
}

// GeneratedFilm is generate_film_title's output plus the sampled numeric
// attributes the caller needs to build a models.Film (spec.md §4.5).
type GeneratedFilm struct {
	Title           string
	Description     string
	Rating          models.Rating
	LengthMinutes   int
	ReplacementCost float64
	RentalPrice     float64
}

// GenerateFilmTitle produces a title, description, rating and the
// companion numeric attributes for a new film in categoryName. Unknown
// category names fall back to a neutral generic template rather than
// panicking, since hot_categories validation already rejects them at config
// load time — this path only guards programmatic calls.
func GenerateFilmTitle(categoryName string, svc *rng.Service) GeneratedFilm {
	t, ok := categoryTemplates[categoryName]
	if !ok {
		t = template{Nouns: []string{"Story"}, Titles: []string{"The {adjective} {noun}"}, Ratings: []models.Rating{models.RatingPG}, RatingWeights: []float64{1.0}, LengthMinMax: [2]int{90, 110}, ReplacementMin: 15, ReplacementMax: 20}
	}

	skeleton := t.Titles[svc.IntN(rng.SubsystemReleases, len(t.Titles))]
	title := expand(skeleton, t, svc)

	ratingIdx := svc.WeightedIndex(rng.SubsystemReleases, t.RatingWeights)
	rating := t.Ratings[ratingIdx]

	lengthSpan := t.LengthMinMax[1] - t.LengthMinMax[0]
	length := t.LengthMinMax[0]
	if lengthSpan > 0 {
		length += svc.IntN(rng.SubsystemReleases, lengthSpan+1)
	}

	replacementSpan := t.ReplacementMax - t.ReplacementMin
	replacement := t.ReplacementMin + svc.Float64(rng.SubsystemReleases)*replacementSpan
	replacement = roundCents(replacement)

	return GeneratedFilm{
		Title:           title,
		Description:     fmt.Sprintf("A %s story set in %s.", categoryName, pick(locations, svc)),
		Rating:          rating,
		LengthMinutes:   length,
		ReplacementCost: replacement,
		RentalPrice:     roundCents(replacement * 0.20),
	}
}

func expand(skeleton string, t template, svc *rng.Service) string {
	nouns := t.Nouns
	if len(nouns) == 0 {
		nouns = []string{"Story"}
	}
	// A fixed slice, not a map, so the RNG draws happen in the same order on
	// every run with the same seed.
	repl := []struct {
		placeholder string
		fn          func() string
	}{
		{"{adjective}", func() string { return pick(adjectives, svc) }},
		{"{noun}", func() string { return pick(nouns, svc) }},
		{"{name}", func() string { return pick(names, svc) }},
		{"{location}", func() string { return pick(locations, svc) }},
		{"{verb}", func() string { return pick(verbs, svc) }},
	}
	out := skeleton
	for _, r := range repl {
		for strings.Contains(out, r.placeholder) {
			out = strings.Replace(out, r.placeholder, r.fn(), 1)
		}
	}
	return out
}

func pick(words []string, svc *rng.Service) string {
	return words[svc.IntN(rng.SubsystemReleases, len(words))]
}

func roundCents(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
