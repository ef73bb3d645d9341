// Package models provides the simulation timeline, the Monte Carlo model
// contract, and the Black diffusion model the engine ships with.
package models

import (
	"fmt"
	"math"
	"sort"
	"time"

	"quantrisk/internal/dates"
	"quantrisk/internal/errors"
)

// MonteCarloTimeline accumulates every date at which any instrument needs
// an observation, then collates them into one strictly increasing,
// deduplicated simulation schedule. Before collation, observations may be
// added in any order, with duplicates; after collation the schedule is
// frozen and further additions fail.
type MonteCarloTimeline struct {
	spotDate     time.Time
	observations map[string][]dates.DateTime
	collated     bool
	steps        []time.Time
	index        map[time.Time]int
}

// NewMonteCarloTimeline creates an empty timeline anchored at the spot
// date.
func NewMonteCarloTimeline(spotDate time.Time) *MonteCarloTimeline {
	return &MonteCarloTimeline{
		spotDate:     dates.Day(spotDate),
		observations: make(map[string][]dates.DateTime),
	}
}

// AddObservation implements instruments.Timeline.
func (t *MonteCarloTimeline) AddObservation(assetID string, obs []dates.DateTime) error {
	if t.collated {
		return errors.NewTimelineError("cannot add observations", errors.ErrTimelineCollated)
	}
	t.observations[assetID] = append(t.observations[assetID], obs...)
	return nil
}

// Collate freezes the timeline: sort, deduplicate, and insert internal
// discretization dates. Gaps longer than pathSubstep (in year fractions)
// are subdivided into equal pieces, at most correlationSubstep pieces per
// gap; non-positive knobs disable the corresponding refinement. Collation
// fails if there are no observations, if any observation precedes the
// spot date, or if the timeline was already collated.
func (t *MonteCarloTimeline) Collate(correlationSubstep int, pathSubstep float64) error {
	if t.collated {
		return errors.NewTimelineError("collate called twice", errors.ErrTimelineCollated)
	}

	seen := make(map[time.Time]struct{})
	for assetID, obs := range t.observations {
		for _, o := range obs {
			if o.Date.Before(t.spotDate) {
				return errors.NewTimelineError(fmt.Sprintf(
					"observation %s for %s is unreachable from spot date %s",
					o, assetID, t.spotDate.Format("2006-01-02")), nil)
			}
			seen[o.Date] = struct{}{}
		}
	}
	if len(seen) == 0 {
		return errors.NewTimelineError("nothing to simulate", errors.ErrEmptyTimeline)
	}

	steps := make([]time.Time, 0, len(seen))
	for d := range seen {
		steps = append(steps, d)
	}
	dates.Sort(steps)
	steps = t.subdivide(steps, correlationSubstep, pathSubstep)

	t.steps = steps
	t.index = make(map[time.Time]int, len(steps))
	for i, d := range steps {
		t.index[d] = i
	}
	t.collated = true
	return nil
}

// subdivide inserts equally spaced dates into gaps wider than pathSubstep
// years, starting the first gap at the spot date.
func (t *MonteCarloTimeline) subdivide(steps []time.Time, correlationSubstep int, pathSubstep float64) []time.Time {
	if pathSubstep <= 0 {
		return steps
	}
	out := make([]time.Time, 0, len(steps))
	prev := t.spotDate
	for _, next := range steps {
		gap := dates.YearFraction(prev, next)
		n := int(math.Ceil(gap / pathSubstep))
		if correlationSubstep > 0 && n > correlationSubstep {
			n = correlationSubstep
		}
		if n > 1 {
			days := dates.DaysBetween(prev, next)
			for i := 1; i < n; i++ {
				d := dates.AddDays(prev, days*i/n)
				if len(out) == 0 || out[len(out)-1].Before(d) {
					out = append(out, d)
				}
			}
		}
		if len(out) == 0 || out[len(out)-1].Before(next) {
			out = append(out, next)
		}
		prev = next
	}
	return out
}

// SpotDate returns the date the timeline is anchored at.
func (t *MonteCarloTimeline) SpotDate() time.Time {
	return t.spotDate
}

// IsCollated reports whether the timeline has been frozen.
func (t *MonteCarloTimeline) IsCollated() bool {
	return t.collated
}

// Dates returns the collated simulation schedule. The returned slice must
// not be modified.
func (t *MonteCarloTimeline) Dates() []time.Time {
	return t.steps
}

// Index returns the schedule position of a date.
func (t *MonteCarloTimeline) Index(d time.Time) (int, bool) {
	i, ok := t.index[dates.Day(d)]
	return i, ok
}

// Assets returns the asset identifiers with declared observations, sorted.
func (t *MonteCarloTimeline) Assets() []string {
	ids := make([]string, 0, len(t.observations))
	for id := range t.observations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Observations returns the declared observation points of an asset, as
// declared (unsorted, possibly with duplicates).
func (t *MonteCarloTimeline) Observations(assetID string) []dates.DateTime {
	return t.observations[assetID]
}
