package services

import (
	"fintrack/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, time.January, 20, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		preset   string
		from     string
		to       string
		expected models.DateRange
		wantErr  bool
	}{
		{"Default is this month", "", "", "", models.DateRange{From: "2024-01-01", To: "2024-01-31"}, false},
		{"This month", RangeThisMonth, "", "", models.DateRange{From: "2024-01-01", To: "2024-01-31"}, false},
		{"Last month crosses the year", RangeLastMonth, "", "", models.DateRange{From: "2023-12-01", To: "2023-12-31"}, false},
		{"This year", RangeThisYear, "", "", models.DateRange{From: "2024-01-01", To: "2024-12-31"}, false},
		{"All time is open", RangeAll, "", "", models.DateRange{}, false},
		{"Explicit bounds win", RangeThisYear, "2023-05-01", "2023-05-10", models.DateRange{From: "2023-05-01", To: "2023-05-10"}, false},
		{"Only a lower bound", "", "2023-05-01", "", models.DateRange{From: "2023-05-01"}, false},
		{"Unknown preset", "fortnight", "", "", models.DateRange{}, true},
		{"Bad date", "", "2023-02-30", "", models.DateRange{}, true},
		{"Inverted bounds", "", "2023-05-10", "2023-05-01", models.DateRange{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ResolveRange(tt.preset, tt.from, tt.to, now)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDateRange)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, r)
		})
	}
}

func TestLastMonth_EndOfMonth(t *testing.T) {
	// March 31st must not roll over into March again
	r := LastMonth(time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, models.DateRange{From: "2024-02-01", To: "2024-02-29"}, r)
}
