package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omnius-data/dvdrentalsim/models"
)

func TestARStatusForBuckets(t *testing.T) {
	cases := []struct {
		daysPastDue int
		balance     float64
		want        models.ARStatus
	}{
		{0, 0, models.ARCurrent},
		{120, 0, models.ARCurrent}, // zero/negative balance is always current regardless of age
		{5, 40, models.ARCurrent},
		{30, 40, models.AR30Days},
		{59, 40, models.AR30Days},
		{60, 40, models.AR60Days},
		{89, 40, models.AR60Days},
		{90, 40, models.AR90DaysPlus},
		{400, 40, models.AR90DaysPlus},
	}
	for _, c := range cases {
		got := arStatusFor(c.daysPastDue, c.balance)
		assert.Equal(t, c.want, got, "daysPastDue=%d balance=%.2f", c.daysPastDue, c.balance)
	}
}
