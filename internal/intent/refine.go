package intent

import (
	"math"
	"strings"

	"github.com/motormatch/motormatch/internal/model"
)

// RefineHeuristic applies a follow-up adjustment to an existing intent using
// phrase matching. The original intent is never mutated; only the first
// matching rule fires.
func RefineHeuristic(current model.UserIntent, refinement string) model.UserIntent {
	out := current.Clone()
	lower := strings.ToLower(refinement)

	switch {
	case strings.Contains(lower, "cheaper"), strings.Contains(lower, "less expensive"):
		if out.BudgetMax != nil {
			v := int(float64(*out.BudgetMax) * 0.8)
			out.BudgetMax = &v
		}

	case strings.Contains(lower, "reliable"):
		out.ReliabilityPriority = math.Min(1.0, out.ReliabilityPriority+0.25)

	case strings.Contains(lower, "sportier"), strings.Contains(lower, "more fun"):
		out.PerformancePriority = math.Min(1.0, out.PerformancePriority+0.2)
		if !out.HasTag("sporty") {
			out.EmotionalTags = append(out.EmotionalTags, "sporty")
		}

	case strings.Contains(lower, "faster"), strings.Contains(lower, "more power"):
		out.PerformancePriority = math.Min(1.0, out.PerformancePriority+0.25)
		if !out.HasTag("fast") {
			out.EmotionalTags = append(out.EmotionalTags, "fast")
		}

	case strings.Contains(lower, "bigger"):
		// Step up one size class
		switch out.BodyStyle {
		case "coupe":
			out.BodyStyle = "sedan"
		case "sedan":
			out.BodyStyle = "suv"
		}

	case strings.Contains(lower, "practical"):
		out.ComfortPriority = math.Min(1.0, out.ComfortPriority+0.2)
		if !out.HasTag("practical") {
			out.EmotionalTags = append(out.EmotionalTags, "practical")
		}

	case strings.Contains(lower, "more comfortable"):
		out.ComfortPriority = math.Min(1.0, out.ComfortPriority+0.25)

	case strings.Contains(lower, "awd"), strings.Contains(lower, "all wheel"):
		out.Drivetrain = "AWD"

	case strings.Contains(lower, "snow"), strings.Contains(lower, "winter"):
		out.Drivetrain = "AWD"
		if !containsString(out.Usage, "winter") {
			out.Usage = append(out.Usage, "winter")
		}

	case strings.Contains(lower, "luxur"):
		if !out.HasTag("luxurious") {
			out.EmotionalTags = append(out.EmotionalTags, "luxurious")
		}
	}

	return out
}
