package model

// UserIntent is the structured representation of a buyer's stated
// preferences. It is produced by the intent extraction layer (LLM or
// heuristic) and consumed read-only by the scoring engine.
type UserIntent struct {
	BudgetMin *int `json:"budget_min,omitempty"`
	BudgetMax *int `json:"budget_max,omitempty"`

	// Priorities are in [0,1]; 0.5 means "not stated either way".
	PerformancePriority float64 `json:"performance_priority"`
	ReliabilityPriority float64 `json:"reliability_priority"`
	ComfortPriority     float64 `json:"comfort_priority"`

	Drivetrain string `json:"drivetrain,omitempty"` // AWD, RWD, FWD or empty
	BodyStyle  string `json:"body_style,omitempty"` // sedan, coupe, suv, ... or empty

	EmotionalTags []string `json:"emotional_tags"`
	NegativeTags  []string `json:"negative_tags"`

	// ReferenceVehicle is a free-text descriptor like "BMW 340i 2018".
	ReferenceVehicle string   `json:"reference_vehicle,omitempty"`
	Usage            []string `json:"usage"` // daily, track, winter, ...
	RawQuery         string   `json:"raw_query"`
}

// DefaultIntent returns an intent with neutral priorities and no filters
func DefaultIntent(query string) UserIntent {
	return UserIntent{
		PerformancePriority: 0.5,
		ReliabilityPriority: 0.5,
		ComfortPriority:     0.5,
		EmotionalTags:       []string{},
		NegativeTags:        []string{},
		Usage:               []string{},
		RawQuery:            query,
	}
}

// Clone returns a deep copy so refinements never mutate the original
func (i UserIntent) Clone() UserIntent {
	out := i
	if i.BudgetMin != nil {
		v := *i.BudgetMin
		out.BudgetMin = &v
	}
	if i.BudgetMax != nil {
		v := *i.BudgetMax
		out.BudgetMax = &v
	}
	out.EmotionalTags = append([]string(nil), i.EmotionalTags...)
	out.NegativeTags = append([]string(nil), i.NegativeTags...)
	out.Usage = append([]string(nil), i.Usage...)
	return out
}

// HasTag reports whether tag is already in the emotional tag list
func (i UserIntent) HasTag(tag string) bool {
	for _, t := range i.EmotionalTags {
		if t == tag {
			return true
		}
	}
	return false
}
