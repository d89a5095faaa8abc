package returns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/omnius-data/dvdrentalsim/rng"
)

func TestOnTimeReturnDateStaysWithinRentalWindow(t *testing.T) {
	svc := rng.New(21)
	rentalDate := time.Date(2020, 3, 2, 9, 0, 0, 0, time.UTC) // a Monday
	duration := 3

	for i := 0; i < 100; i++ {
		got := onTimeReturnDate(rentalDate, duration, svc)
		assert.False(t, got.Before(rentalDate))
		assert.False(t, got.After(rentalDate.AddDate(0, 0, duration)))
	}
}

func TestOnTimeReturnDateBiasesTowardEarlyWeekdays(t *testing.T) {
	svc := rng.New(33)
	rentalDate := time.Date(2020, 3, 2, 9, 0, 0, 0, time.UTC) // Monday
	duration := 6                                             // through next Sunday

	counts := map[time.Weekday]int{}
	for i := 0; i < 2000; i++ {
		got := onTimeReturnDate(rentalDate, duration, svc)
		counts[got.Weekday()]++
	}
	weekdayHeavy := counts[time.Monday] + counts[time.Tuesday] + counts[time.Wednesday]
	rest := counts[time.Thursday] + counts[time.Friday] + counts[time.Saturday] + counts[time.Sunday]
	assert.Greater(t, weekdayHeavy, rest, "Mon-Wed should be sampled roughly twice as often as other days")
}

func TestOnTimeReturnDateHandlesZeroDuration(t *testing.T) {
	svc := rng.New(1)
	rentalDate := time.Date(2020, 3, 2, 9, 0, 0, 0, time.UTC)
	got := onTimeReturnDate(rentalDate, 0, svc)
	assert.False(t, got.Before(rentalDate))
	assert.False(t, got.After(rentalDate.AddDate(0, 0, 1)))
}
