package rentals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnius-data/dvdrentalsim/models"
	"github.com/omnius-data/dvdrentalsim/rng"
)

func TestDistributeMatchesTotalVolume(t *testing.T) {
	weights := [7]float64{0.15, 0.15, 0.15, 0.15, 2.0 / 6, 2.0 / 6, 2.0 / 6}
	counts := distribute(1000, weights)
	var sum int
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, 1000, sum, "rounding remainder must land on a single day so the week total matches V(w) exactly")
}

func TestDistributeHandlesZeroVolume(t *testing.T) {
	weights := [7]float64{1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7, 1.0 / 7}
	counts := distribute(0, weights)
	for _, c := range counts {
		assert.Equal(t, 0, c)
	}
}

func TestGroupByFilm(t *testing.T) {
	copies := []models.InventoryCopy{
		{ID: 1, FilmID: 10}, {ID: 2, FilmID: 10}, {ID: 3, FilmID: 20},
	}
	grouped := groupByFilm(copies)
	require.Len(t, grouped, 2)
	assert.Len(t, grouped[10], 2)
	assert.Len(t, grouped[20], 1)
}

func TestRankedFilmIDsOrdersByCountDescThenIDAsc(t *testing.T) {
	byFilm := map[int64][]models.InventoryCopy{
		5: {{ID: 1, FilmID: 5}},
		3: {{ID: 2, FilmID: 3}},
		7: {{ID: 3, FilmID: 7}},
	}
	counts := map[int64]int{5: 10, 3: 10, 7: 1}

	ranked := rankedFilmIDs(byFilm, counts)
	// 5 and 3 tie at count 10: lower id (3) must come first.
	assert.Equal(t, []int64{3, 5, 7}, ranked)
}

func TestRankedFilmIDsHandlesUnseenFilms(t *testing.T) {
	byFilm := map[int64][]models.InventoryCopy{9: {{ID: 1, FilmID: 9}}}
	ranked := rankedFilmIDs(byFilm, map[int64]int{})
	assert.Equal(t, []int64{9}, ranked)
}

func TestBusinessHourTimestampWithinWindow(t *testing.T) {
	svc := rng.New(11)
	date := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		ts := businessHourTimestamp(date, svc)
		assert.True(t, ts.Hour() >= 9 && ts.Hour() < 21, "hour %d outside [9,21)", ts.Hour())
		assert.Equal(t, date.Year(), ts.Year())
		assert.Equal(t, date.YearDay(), ts.YearDay())
	}
}
