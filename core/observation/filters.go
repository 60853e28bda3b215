package observation

import (
	"sort"
	"time"

	"github.com/pepschool/obshub/core"
)

// QueryFilter narrows a timeline. Fields combine with AND; zero values are
// ignored.
type QueryFilter struct {
	DateFrom time.Time `query:"date_from"`
	DateTo   time.Time `query:"date_to"`
	Creator  string    `query:"creator"` // matches Observation.CreatorName()
	Type     string    `query:"type"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.DateFrom.IsZero() && qf.DateTo.IsZero() && qf.Creator == "" && qf.Type == ""
}

func (qf *QueryFilter) Clean() {
	qf.Creator = core.CleanString(qf.Creator)
	qf.Type = core.CleanString(qf.Type, true /* lower */)
}

// Apply returns the observations passing every set filter field. DateFrom and
// DateTo are inclusive whole-day bounds.
func (qf *QueryFilter) Apply(observations []Observation) []Observation {
	if qf.IsEmpty() {
		return observations
	}

	filtered := make([]Observation, 0, len(observations))
	for _, obs := range observations {
		if !qf.DateFrom.IsZero() {
			from := startOfDay(qf.DateFrom)
			if obs.Timestamp.Before(from) {
				continue
			}
		}
		if !qf.DateTo.IsZero() {
			to := startOfDay(qf.DateTo).Add(24*time.Hour - time.Nanosecond)
			if obs.Timestamp.After(to) {
				continue
			}
		}
		if qf.Creator != "" && obs.CreatorName() != qf.Creator {
			continue
		}
		if qf.Type != "" && obs.Type != qf.Type {
			continue
		}
		filtered = append(filtered, obs)
	}
	return filtered
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SortByDate orders observations newest first, in place.
func SortByDate(observations []Observation) {
	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].Timestamp.After(observations[j].Timestamp)
	})
}

// GroupByDate buckets observations by calendar day (UTC), keyed
// "2006-01-02". Used by timeline views to render day headings.
func GroupByDate(observations []Observation) map[string][]Observation {
	groups := make(map[string][]Observation)
	for _, obs := range observations {
		key := obs.Timestamp.UTC().Format("2006-01-02")
		groups[key] = append(groups[key], obs)
	}
	return groups
}

// UniqueCreators returns the sorted distinct creator names present.
func UniqueCreators(observations []Observation) []string {
	seen := make(map[string]struct{}, len(observations))
	creators := make([]string, 0, len(observations))
	for i := range observations {
		name := observations[i].CreatorName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		creators = append(creators, name)
	}
	sort.Strings(creators)
	return creators
}

// DefaultEditWindow bounds how long after creation a note still counts as
// freshly editable for UI hints. It does not gate any mutation; the
// permission matrix does.
const DefaultEditWindow = 24 * time.Hour

// WithinEditWindow reports whether the note is younger than the given window.
func WithinEditWindow(obs *Observation, window time.Duration, now time.Time) bool {
	if obs == nil || obs.Timestamp.IsZero() {
		return false
	}
	return now.Sub(obs.Timestamp) <= window
}
