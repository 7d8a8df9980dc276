package reports

import (
	"errors"
	"time"
)

// GetDateRange maps a range preset onto concrete [start, end] bounds for the
// report queries. Custom ranges read startStr/endStr as "2006-01-02"; the
// other presets ignore both. An unknown preset falls back to weekly.
func GetDateRange(dateRange, startStr, endStr string) (time.Time, time.Time, error) {
	now := time.Now()
	loc := now.Location()

	switch dateRange {
	case DateRangeDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		return start, start.Add(24*time.Hour - time.Second), nil
	case DateRangeWeekly:
		// today plus the six days before it
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, loc)
		return end.AddDate(0, 0, -6).Truncate(24 * time.Hour), end, nil
	case DateRangeMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return start, start.AddDate(0, 1, 0).Add(-time.Second), nil
	case DateRangeYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		return start, time.Date(now.Year(), 12, 31, 23, 59, 59, 0, loc), nil
	case DateRangeCustom:
		return customRange(startStr, endStr, loc)
	default:
		return GetDateRange(DateRangeWeekly, "", "")
	}
}

func customRange(startStr, endStr string, loc *time.Location) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, errors.New("start_date and end_date required for custom range")
	}
	start, err := time.ParseInLocation("2006-01-02", startStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.ParseInLocation("2006-01-02", endStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// stretch the end bound to the last second of that day
	end = end.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	if start.After(end) {
		return time.Time{}, time.Time{}, errors.New("start_date must be before end_date")
	}
	return start, end, nil
}
