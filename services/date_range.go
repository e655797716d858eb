package services

import (
	"fintrack/models"
	"fmt"
	"time"
)

// Range presets accepted by ResolveRange
const (
	RangeThisMonth = "this_month"
	RangeLastMonth = "last_month"
	RangeThisYear  = "this_year"
	RangeAll       = "all"
)

func ThisMonth(now time.Time) models.DateRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return models.DateRange{
		From: first.Format(models.DateLayout),
		To:   first.AddDate(0, 1, -1).Format(models.DateLayout),
	}
}

func LastMonth(now time.Time) models.DateRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return models.DateRange{
		From: first.Format(models.DateLayout),
		To:   first.AddDate(0, 1, -1).Format(models.DateLayout),
	}
}

func ThisYear(now time.Time) models.DateRange {
	return YearRange(now.Year())
}

func YearRange(year int) models.DateRange {
	return models.DateRange{
		From: fmt.Sprintf("%04d-01-01", year),
		To:   fmt.Sprintf("%04d-12-31", year),
	}
}

// ResolveRange turns a preset or explicit bounds into a DateRange. Explicit
// bounds win over the preset; with neither, the current month is used.
func ResolveRange(preset, from, to string, now time.Time) (models.DateRange, error) {
	if from != "" || to != "" {
		return CustomRange(from, to)
	}

	switch preset {
	case "", RangeThisMonth:
		return ThisMonth(now), nil
	case RangeLastMonth:
		return LastMonth(now), nil
	case RangeThisYear:
		return ThisYear(now), nil
	case RangeAll:
		return models.DateRange{}, nil
	}
	return models.DateRange{}, fmt.Errorf("%w: unknown range %q", ErrInvalidDateRange, preset)
}

// CustomRange validates explicit bounds. Either bound may be empty.
func CustomRange(from, to string) (models.DateRange, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(models.DateLayout, d); err != nil {
			return models.DateRange{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDateRange, d)
		}
	}
	if from != "" && to != "" && from > to {
		return models.DateRange{}, fmt.Errorf("%w: from is after to", ErrInvalidDateRange)
	}
	return models.DateRange{From: from, To: to}, nil
}
