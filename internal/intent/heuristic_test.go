package intent

import (
	"testing"
)

func TestExtractHeuristicBudget(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"under with k", "something fun under 35k", 35000},
		{"under with dollar", "under $40k please", 40000},
		{"below", "below 30k", 30000},
		{"less than", "less than $25k", 25000},
		{"around", "around 45k would work", 45000},
		{"max suffix", "40k max", 40000},
		{"full dollar amount", "I can spend $32,500", 32500},
		{"bare small number means thousands", "under 35", 35000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent := ExtractHeuristic(tt.query)
			if intent.BudgetMax == nil {
				t.Fatal("no budget extracted")
			}
			if *intent.BudgetMax != tt.want {
				t.Errorf("budget = %d, want %d", *intent.BudgetMax, tt.want)
			}
		})
	}

	if intent := ExtractHeuristic("a nice daily driver"); intent.BudgetMax != nil {
		t.Errorf("budget = %d for query with no amount", *intent.BudgetMax)
	}
}

func TestExtractHeuristicPriorities(t *testing.T) {
	intent := ExtractHeuristic("a fast and reliable daily driver")

	if intent.PerformancePriority != 0.8 {
		t.Errorf("performance = %v, want 0.8", intent.PerformancePriority)
	}
	if intent.ReliabilityPriority != 0.8 {
		t.Errorf("reliability = %v, want 0.8", intent.ReliabilityPriority)
	}
	if intent.ComfortPriority != 0.7 {
		t.Errorf("comfort = %v, want 0.7", intent.ComfortPriority)
	}

	neutral := ExtractHeuristic("a car")
	if neutral.PerformancePriority != 0.5 || neutral.ReliabilityPriority != 0.5 || neutral.ComfortPriority != 0.5 {
		t.Errorf("neutral priorities = %+v", neutral)
	}
}

func TestExtractHeuristicDrivetrain(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"need awd", "AWD"},
		{"good in snow", "AWD"},
		{"winter capable", "AWD"},
		{"rwd only", "RWD"},
		{"rear wheel drive fun", "RWD"},
		{"fwd is fine", "FWD"},
		{"anything really", ""},
	}

	for _, tt := range tests {
		if got := ExtractHeuristic(tt.query).Drivetrain; got != tt.want {
			t.Errorf("%q: drivetrain = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestExtractHeuristicTags(t *testing.T) {
	intent := ExtractHeuristic("a fun luxury sedan, nothing boring or sluggish")

	if !intent.HasTag("fun") || !intent.HasTag("luxurious") {
		t.Errorf("emotional tags = %v", intent.EmotionalTags)
	}
	if !containsString(intent.NegativeTags, "boring") || !containsString(intent.NegativeTags, "slow") {
		t.Errorf("negative tags = %v", intent.NegativeTags)
	}
	if intent.BodyStyle != "sedan" {
		t.Errorf("body style = %q, want sedan", intent.BodyStyle)
	}
}

func TestExtractHeuristicNotBoring(t *testing.T) {
	intent := ExtractHeuristic("a commuter that is not boring")

	if !containsString(intent.NegativeTags, "boring") {
		t.Errorf("negative tags = %v, want boring", intent.NegativeTags)
	}
	if !intent.HasTag("fun") {
		t.Errorf("emotional tags = %v, want fun added", intent.EmotionalTags)
	}

	// No duplicate when "boring" already matched directly
	count := 0
	for _, tag := range intent.NegativeTags {
		if tag == "boring" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("boring appears %d times", count)
	}
}

func TestExtractHeuristicReference(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"like a brand car", "something like a bmw m3 but cheaper", "bmw m3"},
		{"similar to", "similar to the audi s4", "audi s4"},
		{"non-brand comparison ignored", "drives like a rocket", ""},
		{"no reference", "a fast sedan", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractHeuristic(tt.query).ReferenceVehicle; got != tt.want {
				t.Errorf("reference = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractHeuristicUsage(t *testing.T) {
	intent := ExtractHeuristic("daily commute in winter, weekend track days")

	want := []string{"daily", "track", "winter", "weekend"}
	for _, u := range want {
		if !containsString(intent.Usage, u) {
			t.Errorf("usage = %v, missing %q", intent.Usage, u)
		}
	}
}

func TestExtractHeuristicDeterministic(t *testing.T) {
	query := "a fun, fast, luxury awd sedan under 50k like a bmw m340i"
	first := ExtractHeuristic(query)
	for i := 0; i < 5; i++ {
		again := ExtractHeuristic(query)
		if len(again.EmotionalTags) != len(first.EmotionalTags) {
			t.Fatal("tag extraction not deterministic")
		}
		for j := range first.EmotionalTags {
			if again.EmotionalTags[j] != first.EmotionalTags[j] {
				t.Fatalf("tag order diverged: %v vs %v", again.EmotionalTags, first.EmotionalTags)
			}
		}
	}
}

func TestExtractHeuristicRawQueryPreserved(t *testing.T) {
	query := "Something FUN under 35k"
	intent := ExtractHeuristic(query)
	if intent.RawQuery != query {
		t.Errorf("raw query = %q, want %q", intent.RawQuery, query)
	}
}
