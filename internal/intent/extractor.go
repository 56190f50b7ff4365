// Package intent turns natural-language car queries into structured
// preferences. Extraction prefers a configured LLM provider and always falls
// back to keyword heuristics, so the pipeline works without any API key.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/motormatch/motormatch/internal/llm"
	"github.com/motormatch/motormatch/internal/model"
)

const extractionSystemPrompt = `You are a car preference extraction system. Analyze the user's natural language car query and extract structured preferences.

Extract:
1. Budget: explicit price mentions ("under 35k", "around 30,000")
2. Performance priority (0-1): "fast", "quick", "performance" = high
3. Reliability priority (0-1): "reliable", "won't break down" = high
4. Comfort priority (0-1): "comfortable", "daily driver" = high
5. Drivetrain preference: AWD, RWD, FWD, or null
6. Body style: sedan, coupe, hatchback, suv, etc. or null
7. Emotional tags: wanted feelings (fun, exciting, aggressive, smooth, luxurious, ...)
8. Negative tags: traits to AVOID (boring, unreliable, expensive, slow)
9. Reference car: a specific car they mention ("like a BMW M3")
10. Usage: daily, track, winter, road-trip, ...

Be generous interpreting emotional intent. "Not boring" means negative_tag "boring" plus emotional_tag "fun". Winter or snow mentions suggest AWD.

Respond ONLY with valid JSON:
{
  "budget_min": number or null,
  "budget_max": number or null,
  "performance_priority": number (0-1),
  "reliability_priority": number (0-1),
  "comfort_priority": number (0-1),
  "drivetrain": "AWD" | "RWD" | "FWD" | null,
  "body_style": string or null,
  "emotional_tags": string[],
  "negative_tags": string[],
  "reference_car": string or null,
  "usage": string[]
}`

const refinementSystemPrompt = `You are refining a car search. The user has existing preferences and wants to adjust them.

Current preferences:
%s

Common refinements: "cheaper" lowers budget_max by 15-20%%; "more reliable" adds 0.2-0.3 to reliability_priority; "sportier" raises performance_priority and adds "sporty" to emotional_tags; "bigger" shifts body_style toward larger vehicles; "winter capable" sets drivetrain to AWD.

Apply the refinement and respond ONLY with the full updated preferences as JSON in the same schema.`

// Extractor converts queries and refinements into UserIntent values
type Extractor struct {
	provider llm.Provider
	logger   *zap.Logger
}

// NewExtractor creates an extractor. provider may be nil, in which case only
// the heuristic path runs.
func NewExtractor(provider llm.Provider, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{provider: provider, logger: logger}
}

// Extract derives structured intent from a query
func (e *Extractor) Extract(ctx context.Context, query string) model.UserIntent {
	if e.provider == nil {
		return ExtractHeuristic(query)
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System: extractionSystemPrompt,
		Prompt: query,
	})
	if err != nil {
		e.logger.Warn("llm extraction failed, using heuristics",
			zap.String("provider", e.provider.Name()),
			zap.Error(err))
		return ExtractHeuristic(query)
	}

	intent, err := parseIntentJSON(resp.Text, query)
	if err != nil {
		e.logger.Warn("llm returned unparseable intent, using heuristics",
			zap.Error(err))
		return ExtractHeuristic(query)
	}
	return intent
}

// Refine applies a follow-up adjustment to an existing intent
func (e *Extractor) Refine(ctx context.Context, current model.UserIntent, refinement string) model.UserIntent {
	if e.provider == nil {
		return RefineHeuristic(current, refinement)
	}

	currentJSON, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return RefineHeuristic(current, refinement)
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		System: fmt.Sprintf(refinementSystemPrompt, currentJSON),
		Prompt: "Apply this refinement: " + refinement,
	})
	if err != nil {
		e.logger.Warn("llm refinement failed, using heuristics",
			zap.String("provider", e.provider.Name()),
			zap.Error(err))
		return RefineHeuristic(current, refinement)
	}

	intent, err := parseIntentJSON(resp.Text, current.RawQuery)
	if err != nil {
		e.logger.Warn("llm returned unparseable refinement, using heuristics",
			zap.Error(err))
		return RefineHeuristic(current, refinement)
	}
	return intent
}

// llmIntent mirrors the JSON schema the prompts demand
type llmIntent struct {
	BudgetMin           *float64 `json:"budget_min"`
	BudgetMax           *float64 `json:"budget_max"`
	PerformancePriority *float64 `json:"performance_priority"`
	ReliabilityPriority *float64 `json:"reliability_priority"`
	ComfortPriority     *float64 `json:"comfort_priority"`
	Drivetrain          *string  `json:"drivetrain"`
	BodyStyle           *string  `json:"body_style"`
	EmotionalTags       []string `json:"emotional_tags"`
	NegativeTags        []string `json:"negative_tags"`
	ReferenceCar        *string  `json:"reference_car"`
	Usage               []string `json:"usage"`
}

// parseIntentJSON decodes a completion into a UserIntent, tolerating code
// fences around the JSON body
func parseIntentJSON(text, rawQuery string) (model.UserIntent, error) {
	body := stripCodeFence(text)

	var parsed llmIntent
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return model.UserIntent{}, fmt.Errorf("parse intent JSON: %w", err)
	}

	intent := model.DefaultIntent(rawQuery)
	if parsed.BudgetMin != nil {
		v := int(*parsed.BudgetMin)
		intent.BudgetMin = &v
	}
	if parsed.BudgetMax != nil {
		v := int(*parsed.BudgetMax)
		intent.BudgetMax = &v
	}
	if parsed.PerformancePriority != nil {
		intent.PerformancePriority = clampPriority(*parsed.PerformancePriority)
	}
	if parsed.ReliabilityPriority != nil {
		intent.ReliabilityPriority = clampPriority(*parsed.ReliabilityPriority)
	}
	if parsed.ComfortPriority != nil {
		intent.ComfortPriority = clampPriority(*parsed.ComfortPriority)
	}
	if parsed.Drivetrain != nil {
		intent.Drivetrain = strings.ToUpper(*parsed.Drivetrain)
	}
	if parsed.BodyStyle != nil {
		intent.BodyStyle = strings.ToLower(*parsed.BodyStyle)
	}
	if parsed.EmotionalTags != nil {
		intent.EmotionalTags = parsed.EmotionalTags
	}
	if parsed.NegativeTags != nil {
		intent.NegativeTags = parsed.NegativeTags
	}
	if parsed.ReferenceCar != nil {
		intent.ReferenceVehicle = *parsed.ReferenceCar
	}
	if parsed.Usage != nil {
		intent.Usage = parsed.Usage
	}

	return intent, nil
}

func stripCodeFence(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func clampPriority(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
