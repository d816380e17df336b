package schema

import (
	"fmt"
	"time"
)

// PeriodRange returns the half-open [start, end) window of the period bucket
// containing t, using calendar rules in t's location:
//   - daily: midnight to next midnight
//   - weekly: Sunday of the containing week to the next Sunday
//   - monthly: first calendar day to the first day of the next month
//   - yearly: Jan 1 to Jan 1 of the next year
func PeriodRange(period Period, t time.Time) (time.Time, time.Time, error) {
	start, err := PeriodStart(period, t)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, NextPeriodStart(period, start), nil
}

// PeriodStart normalizes t to the start of its containing period bucket.
func PeriodStart(period Period, t time.Time) (time.Time, error) {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch period {
	case DailyPeriod:
		return midnight, nil
	case WeeklyPeriod:
		// time.Weekday is zero-based on Sunday, which matches the week rule.
		return midnight.AddDate(0, 0, -int(midnight.Weekday())), nil
	case MonthlyPeriod:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()), nil
	case YearlyPeriod:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location()), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported period: %s", period)
	}
}

// NextPeriodStart shifts a period start forward by one period.
func NextPeriodStart(period Period, start time.Time) time.Time {
	switch period {
	case DailyPeriod:
		return start.AddDate(0, 0, 1)
	case WeeklyPeriod:
		return start.AddDate(0, 0, 7)
	case MonthlyPeriod:
		return start.AddDate(0, 1, 0)
	case YearlyPeriod:
		return start.AddDate(1, 0, 0)
	default:
		return start
	}
}

// PreviousPeriodStart shifts a period start backward by one period. It is
// used to locate the comparison window for growth-rate calculation.
func PreviousPeriodStart(period Period, start time.Time) time.Time {
	switch period {
	case DailyPeriod:
		return start.AddDate(0, 0, -1)
	case WeeklyPeriod:
		return start.AddDate(0, 0, -7)
	case MonthlyPeriod:
		return start.AddDate(0, -1, 0)
	case YearlyPeriod:
		return start.AddDate(-1, 0, 0)
	default:
		return start
	}
}
