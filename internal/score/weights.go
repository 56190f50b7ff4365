package score

import "github.com/motormatch/motormatch/internal/model"

// baseWeights is the allocation used when the intent states no strong
// priorities and no reference vehicle
var baseWeights = map[string]float64{
	factorPrice:       0.20,
	factorPerformance: 0.15,
	factorReliability: 0.15,
	factorDrivetrain:  0.10,
	factorBodyStyle:   0.10,
	factorEmotional:   0.20,
	factorOwnership:   0.10,
}

// allocateWeights derives per-factor weights from the intent. A reference
// vehicle takes 0.15 and scales everything else down; strong priorities then
// override their factor outright.
func allocateWeights(intent model.UserIntent, hasReference bool) map[string]float64 {
	w := make(map[string]float64, len(baseWeights)+1)
	for k, v := range baseWeights {
		w[k] = v
	}

	if hasReference {
		for k := range w {
			w[k] *= 0.85
		}
		w[factorReference] = 0.15
	}

	if intent.PerformancePriority > 0.7 {
		w[factorPerformance] = 0.25
		w[factorEmotional] = 0.15
	}
	if intent.ReliabilityPriority > 0.7 {
		w[factorReliability] = 0.22
		w[factorOwnership] = 0.15
	}
	if intent.Drivetrain != "" {
		w[factorDrivetrain] = 0.15
	}

	return w
}

// aggregate computes the weighted average of the present factor values.
// Absent factors (reference, usually) contribute neither value nor weight,
// so a missing factor never drags a score down.
func aggregate(factors []model.FactorScore, weights map[string]float64) float64 {
	totalWeight := 0.0
	weightedSum := 0.0

	for _, f := range factors {
		wt, ok := weights[f.Name]
		if !ok {
			continue
		}
		totalWeight += wt
		weightedSum += f.Value * wt
	}

	if totalWeight == 0 {
		return 50
	}
	return weightedSum / totalWeight
}
