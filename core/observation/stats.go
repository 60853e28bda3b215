package observation

// Summary carries the dashboard aggregates for a set of observations. Callers
// are expected to pass a permission-filtered snapshot; Summarize itself does
// no access checks.
type Summary struct {
	Total       int            `json:"total"`
	Starred     int            `json:"starred"`
	Private     int            `json:"private"`
	Drafts      int            `json:"drafts"`
	ByType      map[string]int `json:"by_type"`
	ByTeacher   map[string]int `json:"by_teacher"`
	ByClassroom map[string]int `json:"by_classroom"`
	ByDay       map[string]int `json:"by_day"` // keyed "2006-01-02", UTC
}

func Summarize(observations []Observation) Summary {
	s := Summary{
		Total:       len(observations),
		ByType:      make(map[string]int),
		ByTeacher:   make(map[string]int),
		ByClassroom: make(map[string]int),
		ByDay:       make(map[string]int),
	}
	for i := range observations {
		obs := &observations[i]
		if obs.IsStarred {
			s.Starred++
		}
		if obs.IsPrivate {
			s.Private++
		}
		if obs.IsDraft {
			s.Drafts++
		}
		s.ByType[obs.Type]++
		s.ByTeacher[obs.CreatorName()]++
		if obs.ClassroomID != "" {
			s.ByClassroom[obs.ClassroomID]++
		}
		s.ByDay[obs.Timestamp.UTC().Format("2006-01-02")]++
	}
	return s
}
