// Package score ranks catalog vehicles against a buyer's intent. Eight
// factor scorers each produce a 0-100 value plus optional reason and tradeoff
// text; a weight allocator blends them into one match score per vehicle.
package score

import (
	"math"
	"sort"

	"github.com/motormatch/motormatch/internal/model"
)

const (
	maxReasons   = 4
	maxTradeoffs = 3
)

// Engine scores and ranks vehicles. Stateless and safe for concurrent use.
type Engine struct{}

// NewEngine creates a new scoring engine
func NewEngine() *Engine {
	return &Engine{}
}

// Rank scores every vehicle against the intent and returns them ordered by
// match score, highest first. reference may be nil; a vehicle is never scored
// for similarity to itself. The sort is stable, so equal scores keep catalog
// order and repeated calls agree exactly.
func (e *Engine) Rank(intent model.UserIntent, vehicles []model.Vehicle, reference *model.Vehicle) []model.MatchResult {
	results := make([]model.MatchResult, 0, len(vehicles))

	for _, v := range vehicles {
		score, reasons, tradeoffs := e.scoreVehicle(v, intent, reference)
		results = append(results, model.MatchResult{
			Vehicle:   v,
			Score:     roundScore(score),
			Reasons:   reasons,
			Tradeoffs: tradeoffs,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	return results
}

// scoreVehicle runs every factor scorer for one vehicle and blends the
// results. Reason and tradeoff fragments are collected in factor order and
// capped so the caller always gets a short, readable summary.
func (e *Engine) scoreVehicle(v model.Vehicle, intent model.UserIntent, reference *model.Vehicle) (float64, []string, []string) {
	var factors []model.FactorScore
	reasons := []string{}
	tradeoffs := []string{}

	collect := func(fs model.FactorScore) {
		factors = append(factors, fs)
		if fs.Reason != "" {
			reasons = append(reasons, fs.Reason)
		}
		if fs.Tradeoff != "" {
			tradeoffs = append(tradeoffs, fs.Tradeoff)
		}
	}

	// 1. Price fit
	collect(scorePrice(v, intent))

	// 2. Performance
	collect(scorePerformance(v, intent))

	// 3. Reliability
	collect(scoreReliability(v, intent))

	// 4. Drivetrain
	collect(scoreDrivetrain(v, intent))

	// 5. Body style (no narrative output)
	collect(scoreBodyStyle(v, intent))

	// 6. Emotional match
	emo := scoreEmotional(v, intent)
	factors = append(factors, model.FactorScore{Name: factorEmotional, Value: emo.value})
	reasons = append(reasons, emo.reasons...)
	tradeoffs = append(tradeoffs, emo.tradeoffs...)

	// 7. Reference similarity, when a reference exists and is another car
	if reference != nil && v.ID != reference.ID {
		collect(scoreReference(v, *reference))
	}

	// 8. Ownership cost
	collect(scoreOwnership(v))

	weights := allocateWeights(intent, reference != nil)
	final := aggregate(factors, weights)

	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	if len(tradeoffs) > maxTradeoffs {
		tradeoffs = tradeoffs[:maxTradeoffs]
	}

	return final, reasons, tradeoffs
}

// roundScore rounds to one decimal place for presentation
func roundScore(s float64) float64 {
	return math.Round(s*10) / 10
}
