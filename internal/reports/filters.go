package reports

import (
	"fmt"
	"time"
)

// GetDateRange returns start and end time for the given preset relative to now.
// startStr/endStr are expected in "2006-01-02" format when dateRange == DateRangeCustom.
// DateRangeAll and the empty string return zero times, meaning no bound.
func GetDateRange(dateRange, startStr, endStr string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch dateRange {
	case "", DateRangeAll:
		return time.Time{}, time.Time{}, nil
	case DateRangeDaily:
		return today, today.Add(24*time.Hour - time.Second), nil
	case DateRangeWeekly:
		// next 7 days including today
		return today, today.AddDate(0, 0, 7).Add(-time.Second), nil
	case DateRangeMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0).Add(-time.Second), nil
	case DateRangeYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(1, 0, 0).Add(-time.Second), nil
	case DateRangeCustom:
		if startStr == "" || endStr == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date and end_date required for custom range", ErrInvalidDateRange)
		}
		start, err := time.ParseInLocation("2006-01-02", startStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
		}
		end, err := time.ParseInLocation("2006-01-02", endStr, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
		}
		// include entire end day
		end = end.Add(24*time.Hour - time.Second)
		if start.After(end) {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date must be before end_date", ErrInvalidDateRange)
		}
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, dateRange)
	}
}

// inRange reports whether t falls inside [start, end]; zero bounds are open.
func inRange(t, start, end time.Time) bool {
	if !start.IsZero() && t.Before(start) {
		return false
	}
	if !end.IsZero() && t.After(end) {
		return false
	}
	return true
}
