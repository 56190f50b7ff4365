package model

// Tier is the confidence class of a listing-to-vehicle match.
// Tiers are totally ordered: EXACT > FUZZY > FALLBACK > NONE.
type Tier string

const (
	TierExact    Tier = "EXACT"
	TierFuzzy    Tier = "FUZZY"
	TierFallback Tier = "FALLBACK"
	TierNone     Tier = "NONE"
)

// Rank returns the tier's position in the total order (higher is better)
func (t Tier) Rank() int {
	switch t {
	case TierExact:
		return 3
	case TierFuzzy:
		return 2
	case TierFallback:
		return 1
	default:
		return 0
	}
}

// ResolutionResult is the outcome of one resolver call. Either a full tuple
// (id, confidence, tier) or TierNone with a nil id - never partially applied.
type ResolutionResult struct {
	VehicleID  *string `json:"vehicle_id,omitempty"`
	Confidence float64 `json:"confidence"`
	Tier       Tier    `json:"tier"`
}

// Matched reports whether the resolver established any link at all
func (r ResolutionResult) Matched() bool {
	return r.Tier != TierNone && r.VehicleID != nil
}

// FactorScore is one scorer's verdict for one vehicle. Scores are clamped to
// [0,100]; reason and tradeoff are optional human-readable fragments.
type FactorScore struct {
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Reason   string  `json:"reason,omitempty"`
	Tradeoff string  `json:"tradeoff,omitempty"`
}

// MatchResult is one ranked entry of a scoring pass. Recomputed on every
// call; nothing here is persisted.
type MatchResult struct {
	Vehicle   Vehicle   `json:"vehicle"`
	Score     float64   `json:"match_score"`
	Reasons   []string  `json:"match_reasons"`
	Tradeoffs []string  `json:"tradeoffs"`
	Listings  []Listing `json:"listings,omitempty"`
}
