package instruments

import (
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
)

// Fixing is one historically observed value of a market variable.
type Fixing struct {
	At    dates.DateTime
	Value float64
}

// FixingTable holds historical fixings by identifier, anchored at an
// as-of date. It is consumed exactly once, when a pricer is constructed.
type FixingTable struct {
	asOf    time.Time
	fixings map[string]map[dates.DateTime]float64
}

// NewFixingTable builds a fixing table from (identifier, fixing list)
// pairs. It fails on a duplicate fixing for the same identifier and
// datetime, and on a fixing dated after the as-of date.
func NewFixingTable(asOf time.Time, table map[string][]Fixing) (*FixingTable, error) {
	t := &FixingTable{
		asOf:    dates.Day(asOf),
		fixings: make(map[string]map[dates.DateTime]float64),
	}
	for id, fs := range table {
		byTime := make(map[dates.DateTime]float64, len(fs))
		for _, f := range fs {
			if f.At.Date.After(t.asOf) {
				return nil, errors.NewFixingError(id,
					"fixing at "+f.At.String()+" is after the as-of date")
			}
			if _, dup := byTime[f.At]; dup {
				return nil, errors.NewFixingError(id,
					"duplicate fixing at "+f.At.String())
			}
			byTime[f.At] = f.Value
		}
		t.fixings[id] = byTime
	}
	return t, nil
}

// AsOf returns the date the table is anchored at.
func (t *FixingTable) AsOf() time.Time {
	return t.asOf
}

// Fixing looks up the fixing of an identifier at an observation point.
func (t *FixingTable) Fixing(id string, at dates.DateTime) (float64, bool) {
	byTime, ok := t.fixings[id]
	if !ok {
		return 0, false
	}
	v, ok := byTime[at]
	return v, ok
}
