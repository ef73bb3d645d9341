// Package dates provides date and datetime plumbing for the pricing engine.
package dates

import (
	"fmt"
	"sort"
	"time"
)

// DayCountBasis is the fixed Act/365F denominator used throughout the engine.
const DayCountBasis = 365.0

// TimeOfDay identifies the intraday observation point of a fixing or
// valuation. Only the open and close are distinguished.
type TimeOfDay int

const (
	Open TimeOfDay = iota
	Close
)

// String returns the conventional short name for the time of day.
func (t TimeOfDay) String() string {
	switch t {
	case Open:
		return "open"
	case Close:
		return "close"
	default:
		return fmt.Sprintf("timeofday(%d)", int(t))
	}
}

// DateTime is a calendar date qualified by a time of day. Market
// observations (fixings, option expiries) are dated this way so that an
// open fixing and a close fixing on the same day remain distinct.
type DateTime struct {
	Date time.Time
	Time TimeOfDay
}

// At builds a DateTime from a date and a time of day. The date's clock
// portion is discarded.
func At(date time.Time, tod TimeOfDay) DateTime {
	return DateTime{Date: Day(date), Time: tod}
}

// Before reports whether dt is strictly earlier than other, ordering the
// open before the close on the same date.
func (dt DateTime) Before(other DateTime) bool {
	if dt.Date.Before(other.Date) {
		return true
	}
	if dt.Date.After(other.Date) {
		return false
	}
	return dt.Time < other.Time
}

// After reports whether dt is strictly later than other.
func (dt DateTime) After(other DateTime) bool {
	return other.Before(dt)
}

// Equal reports whether dt and other denote the same observation point.
func (dt DateTime) Equal(other DateTime) bool {
	return dt.Date.Equal(other.Date) && dt.Time == other.Time
}

// String formats the datetime as YYYY-MM-DD/open or YYYY-MM-DD/close.
func (dt DateTime) String() string {
	return dt.Date.Format("2006-01-02") + "/" + dt.Time.String()
}

// Day truncates t to midnight UTC. All engine dates are day-resolution UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// YMD builds a day-resolution UTC date.
func YMD(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Parse converts YYYY-MM-DD to a day-resolution UTC date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Day(t), nil
}

// AddDays returns t shifted by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the whole calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours() / 24)
}

// YearFraction returns the Act/365F year fraction from start to end.
// Negative when end precedes start.
func YearFraction(start, end time.Time) float64 {
	return Day(end).Sub(Day(start)).Hours() / 24 / DayCountBasis
}

// Sort orders a slice of dates ascending in place.
func Sort(ds []time.Time) {
	sort.Slice(ds, func(i, j int) bool { return ds[i].Before(ds[j]) })
}

// SearchIndex returns the index of target in a sorted date slice, or -1 if
// absent.
func SearchIndex(ds []time.Time, target time.Time) int {
	i := sort.Search(len(ds), func(i int) bool { return !ds[i].Before(target) })
	if i < len(ds) && ds[i].Equal(target) {
		return i
	}
	return -1
}
