package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/motormatch/motormatch/internal/llm"
	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/score"
)

const summaryPrompt = `Given these car preferences, write a casual, friendly one-sentence summary of what the user is looking for. Be conversational.

Preferences:
%s

Write a summary like: "You want a fast, reliable AWD sedan under $35k that's actually fun to drive."
Just the summary, nothing else.`

// Summary renders a one-sentence description of the intent. The LLM phrasing
// is preferred; any failure falls back to the template below.
func (e *Extractor) Summary(ctx context.Context, intent model.UserIntent) string {
	if e.provider != nil {
		if body, err := json.MarshalIndent(intent, "", "  "); err == nil {
			resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
				Prompt:    strings.Replace(summaryPrompt, "%s", string(body), 1),
				MaxTokens: 100,
			})
			if err == nil && resp.Text != "" {
				return resp.Text
			}
		}
	}

	return HeuristicSummary(intent)
}

// HeuristicSummary builds the summary sentence from the intent fields alone
func HeuristicSummary(intent model.UserIntent) string {
	parts := []string{"You want"}

	switch {
	case intent.PerformancePriority > 0.7:
		parts = append(parts, "a fast")
	case intent.PerformancePriority > 0.5:
		parts = append(parts, "a sporty")
	default:
		parts = append(parts, "a")
	}

	if intent.ReliabilityPriority > 0.7 {
		parts = append(parts, "reliable")
	}
	if intent.Drivetrain != "" {
		parts = append(parts, intent.Drivetrain)
	}
	if intent.BodyStyle != "" {
		parts = append(parts, intent.BodyStyle)
	} else {
		parts = append(parts, "car")
	}

	if intent.BudgetMax != nil {
		parts = append(parts, "under $"+score.FormatPrice(*intent.BudgetMax))
	}

	switch {
	case intent.HasTag("fun") || intent.HasTag("exciting"):
		parts = append(parts, "that's actually fun to drive")
	case intent.HasTag("luxurious"):
		parts = append(parts, "with a premium feel")
	case intent.HasTag("practical"):
		parts = append(parts, "that's practical")
	}

	if containsString(intent.NegativeTags, "boring") {
		parts = append(parts, "(definitely not boring)")
	}

	if intent.ReferenceVehicle != "" {
		parts = append(parts, "- something like a "+intent.ReferenceVehicle)
	}

	return strings.Join(parts, " ") + "."
}
