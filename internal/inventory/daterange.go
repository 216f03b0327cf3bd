package inventory

import (
	"time"

	"github.com/juju/errors"

	"brewcart/internal/models"
)

// DateRange selects the window of order history a tally covers.
type DateRange string

const (
	RangeToday       DateRange = "today"
	RangeWeek        DateRange = "week"
	RangeMonth       DateRange = "month"
	RangeThreeMonths DateRange = "threeMonths"
	RangeYear        DateRange = "year"
)

// DateRanges lists every supported range, shortest first.
var DateRanges = []DateRange{RangeToday, RangeWeek, RangeMonth, RangeThreeMonths, RangeYear}

const day = 24 * time.Hour

// ParseDateRange parses a range name. An empty name means today.
func ParseDateRange(s string) (DateRange, error) {
	if s == "" {
		return RangeToday, nil
	}
	for _, r := range DateRanges {
		if DateRange(s) == r {
			return r, nil
		}
	}
	return "", errors.NotValidf("date range %q", s)
}

// Start returns the beginning of the range ending at now. Calendar
// boundaries are taken in now's location.
func (r DateRange) Start(now time.Time) time.Time {
	y, m, d := now.Date()
	loc := now.Location()
	switch r {
	case RangeWeek:
		return now.Add(-7 * day)
	case RangeMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case RangeThreeMonths:
		return now.Add(-90 * day)
	case RangeYear:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

// Filter returns the orders created within r, from its start through now.
func Filter(orders []models.Order, r DateRange, now time.Time) []models.Order {
	start := r.Start(now)
	kept := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.CreatedAt.Before(start) || o.CreatedAt.After(now) {
			continue
		}
		kept = append(kept, o)
	}
	return kept
}
