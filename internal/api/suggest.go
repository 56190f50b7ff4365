package api

import (
	"strings"

	"github.com/motormatch/motormatch/internal/model"
)

const maxSuggestions = 6

// Suggestions proposes refinement chips based on the intent and what the top
// matches had to trade away. Deduplicated case-insensitively, first wins.
func Suggestions(userIntent model.UserIntent, matches []model.MatchResult) []string {
	var suggestions []string

	switch userIntent.Drivetrain {
	case "":
		suggestions = append(suggestions, "AWD")
	case "RWD":
		suggestions = append(suggestions, "AWD instead")
	}

	if userIntent.BudgetMax != nil && *userIntent.BudgetMax > 30000 {
		suggestions = append(suggestions, "Cheaper")
	}
	if userIntent.PerformancePriority < 0.7 {
		suggestions = append(suggestions, "Faster")
	}
	if userIntent.ReliabilityPriority < 0.7 {
		suggestions = append(suggestions, "More reliable")
	}
	if !userIntent.HasTag("luxurious") {
		suggestions = append(suggestions, "More luxurious")
	}
	if userIntent.ComfortPriority < 0.6 {
		suggestions = append(suggestions, "More comfortable")
	}

	// Tradeoffs on the podium hint at what to relax
	var topTradeoffs []string
	for i, match := range matches {
		if i >= 3 {
			break
		}
		topTradeoffs = append(topTradeoffs, match.Tradeoffs...)
	}
	if tradeoffsMention(topTradeoffs, "budget") {
		suggestions = append(suggestions, "Cheaper")
	}
	if tradeoffsMention(topTradeoffs, "reliab") {
		suggestions = append(suggestions, "More reliable")
	}

	suggestions = append(suggestions, "Cheaper", "More reliable", "Sportier", "More practical")

	seen := make(map[string]struct{})
	unique := make([]string, 0, maxSuggestions)
	for _, suggestion := range suggestions {
		key := strings.ToLower(suggestion)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, suggestion)
		if len(unique) == maxSuggestions {
			break
		}
	}
	return unique
}

func tradeoffsMention(tradeoffs []string, word string) bool {
	for _, t := range tradeoffs {
		if strings.Contains(strings.ToLower(t), word) {
			return true
		}
	}
	return false
}
