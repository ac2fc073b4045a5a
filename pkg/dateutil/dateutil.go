package dateutil

import (
	"time"
)

// IsLeapYear checks if a year is a leap year
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month of the given year
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsEndOfMonth reports whether date falls on the last day of its month
func IsEndOfMonth(date time.Time) bool {
	return date.Day() == DaysInMonth(date.Year(), date.Month())
}

// AddMonths adds months to a date, clamping to the end of the target month.
// A date that is already a month end stays on month ends (Mar 31 -> Apr 30 -> May 31).
func AddMonths(date time.Time, months int) time.Time {
	y, m, d := date.Date()
	total := int(m) - 1 + months
	ty := y + floorDiv(total, 12)
	tm := time.Month(total - floorDiv(total, 12)*12 + 1)

	last := DaysInMonth(ty, tm)
	if d > last || IsEndOfMonth(date) {
		d = last
	}
	h, mi, s := date.Clock()
	return time.Date(ty, tm, d, h, mi, s, date.Nanosecond(), date.Location())
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// MonthlyDates returns the dates of periods 0..count-1 measured from start
func MonthlyDates(start time.Time, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	dates := make([]time.Time, count)
	for i := range dates {
		dates[i] = AddMonths(start, i)
	}
	return dates
}

// DaysBetween returns the number of calendar days from one date to another
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// DayCountBasis selects how a year fraction is measured between two dates
type DayCountBasis string

const (
	Actual365 DayCountBasis = "actual/365"
	Thirty360 DayCountBasis = "30/360"
)

// YearFraction measures the time between two dates under the given basis
func YearFraction(from, to time.Time, basis DayCountBasis) float64 {
	switch basis {
	case Thirty360:
		d1, d2 := from.Day(), to.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		days := 360*(to.Year()-from.Year()) + 30*(int(to.Month())-int(from.Month())) + (d2 - d1)
		return float64(days) / 360.0
	default:
		return float64(DaysBetween(from, to)) / 365.0
	}
}

// EndOfYear returns the last day of the year for a given date
func EndOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 12, 31, 23, 59, 59, 999999999, date.Location())
}

// BeginningOfYear returns the first day of the year for a given date
func BeginningOfYear(date time.Time) time.Time {
	return time.Date(date.Year(), 1, 1, 0, 0, 0, 0, date.Location())
}
