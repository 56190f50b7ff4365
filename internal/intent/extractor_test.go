package intent

import (
	"context"
	"errors"
	"testing"

	"github.com/motormatch/motormatch/internal/llm"
	"github.com/motormatch/motormatch/internal/model"
)

// fakeProvider returns a canned completion or error
type fakeProvider struct {
	text string
	err  error
}

func (f *fakeProvider) Name() string                      { return "fake" }
func (f *fakeProvider) IsAvailable(context.Context) bool  { return f.err == nil }
func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.CompletionResponse{Text: f.text, Model: "fake"}, nil
}

func TestExtractWithoutProvider(t *testing.T) {
	e := NewExtractor(nil, nil)

	intent := e.Extract(context.Background(), "a fast awd sedan under 35k")

	if intent.Drivetrain != "AWD" {
		t.Errorf("drivetrain = %q", intent.Drivetrain)
	}
	if intent.BudgetMax == nil || *intent.BudgetMax != 35000 {
		t.Errorf("budget = %v", intent.BudgetMax)
	}
}

func TestExtractWithProvider(t *testing.T) {
	provider := &fakeProvider{text: `{
		"budget_max": 35000,
		"performance_priority": 0.8,
		"reliability_priority": 0.5,
		"comfort_priority": 0.5,
		"drivetrain": "awd",
		"body_style": "Sedan",
		"emotional_tags": ["fun"],
		"negative_tags": ["boring"],
		"reference_car": "BMW M340i",
		"usage": ["daily"]
	}`}
	e := NewExtractor(provider, nil)

	intent := e.Extract(context.Background(), "fun awd sedan like a bmw m340i under 35k")

	if intent.BudgetMax == nil || *intent.BudgetMax != 35000 {
		t.Errorf("budget = %v", intent.BudgetMax)
	}
	if intent.Drivetrain != "AWD" {
		t.Errorf("drivetrain = %q, want normalized AWD", intent.Drivetrain)
	}
	if intent.BodyStyle != "sedan" {
		t.Errorf("body style = %q, want normalized sedan", intent.BodyStyle)
	}
	if intent.ReferenceVehicle != "BMW M340i" {
		t.Errorf("reference = %q", intent.ReferenceVehicle)
	}
	if intent.RawQuery == "" {
		t.Error("raw query lost")
	}
}

func TestExtractToleratesCodeFence(t *testing.T) {
	provider := &fakeProvider{text: "```json\n{\"drivetrain\": \"AWD\", \"emotional_tags\": [], \"negative_tags\": [], \"usage\": []}\n```"}
	e := NewExtractor(provider, nil)

	intent := e.Extract(context.Background(), "awd please")
	if intent.Drivetrain != "AWD" {
		t.Errorf("drivetrain = %q", intent.Drivetrain)
	}
}

func TestExtractFallsBackOnProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}
	e := NewExtractor(provider, nil)

	intent := e.Extract(context.Background(), "reliable suv under 30k")

	// Heuristic output still arrives
	if intent.ReliabilityPriority != 0.8 {
		t.Errorf("reliability = %v", intent.ReliabilityPriority)
	}
	if intent.BodyStyle != "suv" {
		t.Errorf("body style = %q", intent.BodyStyle)
	}
}

func TestExtractFallsBackOnGarbage(t *testing.T) {
	provider := &fakeProvider{text: "sorry, I can't help with that"}
	e := NewExtractor(provider, nil)

	intent := e.Extract(context.Background(), "fast coupe")
	if intent.PerformancePriority != 0.8 {
		t.Errorf("performance = %v, want heuristic fallback", intent.PerformancePriority)
	}
}

func TestRefineWithProvider(t *testing.T) {
	provider := &fakeProvider{text: `{
		"budget_max": 28000,
		"performance_priority": 0.5,
		"reliability_priority": 0.5,
		"comfort_priority": 0.5,
		"emotional_tags": [],
		"negative_tags": [],
		"usage": []
	}`}
	e := NewExtractor(provider, nil)

	budget := 35000
	current := model.DefaultIntent("car under 35k")
	current.BudgetMax = &budget

	got := e.Refine(context.Background(), current, "cheaper")
	if got.BudgetMax == nil || *got.BudgetMax != 28000 {
		t.Errorf("budget = %v, want 28000", got.BudgetMax)
	}
	if got.RawQuery != current.RawQuery {
		t.Errorf("raw query = %q, want preserved", got.RawQuery)
	}
}

func TestRefineFallsBackOnProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("down")}
	e := NewExtractor(provider, nil)

	got := e.Refine(context.Background(), model.DefaultIntent("a car"), "more reliable")
	if got.ReliabilityPriority != 0.75 {
		t.Errorf("reliability = %v, want heuristic fallback 0.75", got.ReliabilityPriority)
	}
}

func TestSummaryHeuristic(t *testing.T) {
	budget := 35000
	intent := model.UserIntent{
		BudgetMax:           &budget,
		PerformancePriority: 0.8,
		ReliabilityPriority: 0.8,
		Drivetrain:          "AWD",
		BodyStyle:           "sedan",
		EmotionalTags:       []string{"fun"},
		NegativeTags:        []string{"boring"},
	}

	got := HeuristicSummary(intent)
	want := "You want a fast reliable AWD sedan under $35,000 that's actually fun to drive (definitely not boring)."
	if got != want {
		t.Errorf("summary = %q\nwant      %q", got, want)
	}
}

func TestSummaryUsesProvider(t *testing.T) {
	provider := &fakeProvider{text: "You want a quick all-weather sedan that won't bore you."}
	e := NewExtractor(provider, nil)

	got := e.Summary(context.Background(), model.DefaultIntent("quick awd sedan"))
	if got != "You want a quick all-weather sedan that won't bore you." {
		t.Errorf("summary = %q", got)
	}
}

func TestSummaryFallsBack(t *testing.T) {
	provider := &fakeProvider{err: errors.New("down")}
	e := NewExtractor(provider, nil)

	got := e.Summary(context.Background(), model.DefaultIntent("a car"))
	if got != "You want a car." {
		t.Errorf("summary = %q, want heuristic fallback", got)
	}
}
