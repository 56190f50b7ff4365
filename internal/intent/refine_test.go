package intent

import (
	"testing"

	"github.com/motormatch/motormatch/internal/model"
)

func TestRefineHeuristicCheaper(t *testing.T) {
	budget := 40000
	current := model.DefaultIntent("fun car under 40k")
	current.BudgetMax = &budget

	got := RefineHeuristic(current, "cheaper")

	if got.BudgetMax == nil || *got.BudgetMax != 32000 {
		t.Errorf("budget = %v, want 32000", got.BudgetMax)
	}
	if *current.BudgetMax != 40000 {
		t.Error("original intent was mutated")
	}
}

func TestRefineHeuristicCheaperWithoutBudget(t *testing.T) {
	got := RefineHeuristic(model.DefaultIntent("a car"), "cheaper")
	if got.BudgetMax != nil {
		t.Errorf("budget = %v, want nil", got.BudgetMax)
	}
}

func TestRefineHeuristicPriorities(t *testing.T) {
	base := model.DefaultIntent("a car")

	got := RefineHeuristic(base, "more reliable")
	if got.ReliabilityPriority != 0.75 {
		t.Errorf("reliability = %v, want 0.75", got.ReliabilityPriority)
	}

	got = RefineHeuristic(base, "sportier please")
	if got.PerformancePriority != 0.7 {
		t.Errorf("performance = %v, want 0.7", got.PerformancePriority)
	}
	if !got.HasTag("sporty") {
		t.Errorf("emotional tags = %v, want sporty", got.EmotionalTags)
	}

	got = RefineHeuristic(base, "faster")
	if got.PerformancePriority != 0.75 {
		t.Errorf("performance = %v, want 0.75", got.PerformancePriority)
	}
	if !got.HasTag("fast") {
		t.Errorf("emotional tags = %v, want fast", got.EmotionalTags)
	}

	// Priorities never exceed 1.0
	high := base.Clone()
	high.ReliabilityPriority = 0.9
	got = RefineHeuristic(high, "more reliable")
	if got.ReliabilityPriority != 1.0 {
		t.Errorf("reliability = %v, want capped at 1.0", got.ReliabilityPriority)
	}
}

func TestRefineHeuristicBigger(t *testing.T) {
	coupe := model.DefaultIntent("a coupe")
	coupe.BodyStyle = "coupe"

	sedan := RefineHeuristic(coupe, "bigger")
	if sedan.BodyStyle != "sedan" {
		t.Errorf("coupe + bigger = %q, want sedan", sedan.BodyStyle)
	}

	suv := RefineHeuristic(sedan, "bigger")
	if suv.BodyStyle != "suv" {
		t.Errorf("sedan + bigger = %q, want suv", suv.BodyStyle)
	}

	// No larger class to step to
	same := RefineHeuristic(suv, "bigger")
	if same.BodyStyle != "suv" {
		t.Errorf("suv + bigger = %q, want suv", same.BodyStyle)
	}
}

func TestRefineHeuristicWinter(t *testing.T) {
	got := RefineHeuristic(model.DefaultIntent("a car"), "better in snow")

	if got.Drivetrain != "AWD" {
		t.Errorf("drivetrain = %q, want AWD", got.Drivetrain)
	}
	if !containsString(got.Usage, "winter") {
		t.Errorf("usage = %v, want winter", got.Usage)
	}

	// Applying twice keeps one winter entry
	again := RefineHeuristic(got, "winter capable")
	count := 0
	for _, u := range again.Usage {
		if u == "winter" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("winter appears %d times", count)
	}
}

func TestRefineHeuristicLuxury(t *testing.T) {
	got := RefineHeuristic(model.DefaultIntent("a car"), "more luxurious")
	if !got.HasTag("luxurious") {
		t.Errorf("emotional tags = %v, want luxurious", got.EmotionalTags)
	}
}

func TestRefineHeuristicUnknownPhrase(t *testing.T) {
	base := model.DefaultIntent("a car")
	got := RefineHeuristic(base, "paint it purple")

	if got.PerformancePriority != base.PerformancePriority ||
		got.ReliabilityPriority != base.ReliabilityPriority ||
		got.Drivetrain != base.Drivetrain ||
		len(got.EmotionalTags) != 0 {
		t.Errorf("unknown refinement changed the intent: %+v", got)
	}
}
