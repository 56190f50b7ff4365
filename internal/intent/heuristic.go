package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/motormatch/motormatch/internal/model"
)

// Budget phrases like "under 35k", "below $40,000", "around 30k", "$32,500"
var budgetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`under\s*\$?(\d+)(k?)\b`),
	regexp.MustCompile(`below\s*\$?(\d+)(k?)\b`),
	regexp.MustCompile(`less than\s*\$?(\d+)(k?)\b`),
	regexp.MustCompile(`\$?(\d+)(k?)\s*(?:max|budget)`),
	regexp.MustCompile(`around\s*\$?(\d+)(k?)\b`),
}

var dollarPattern = regexp.MustCompile(`\$(\d{2,3}),(\d{3})`)

var performanceWords = []string{"fast", "quick", "powerful", "sporty", "speed", "performance", "fun", "exciting", "thrilling"}

var reliabilityWords = []string{"reliable", "dependable", "won't break", "low maintenance", "bulletproof"}

var comfortWords = []string{"comfortable", "comfy", "smooth", "daily", "commute"}

var bodyTypes = []string{"sedan", "coupe", "hatchback", "suv", "truck", "wagon", "convertible"}

// emotionWords maps a canonical tag to the phrases that signal it
var emotionWords = map[string][]string{
	"fun":         {"fun", "enjoyable", "blast"},
	"exciting":    {"exciting", "thrilling", "exhilarating"},
	"aggressive":  {"aggressive", "mean", "intimidating"},
	"luxurious":   {"luxury", "luxurious", "premium", "fancy"},
	"sporty":      {"sporty", "athletic", "dynamic"},
	"comfortable": {"comfortable", "comfy", "relaxing"},
	"practical":   {"practical", "sensible", "useful"},
	"unique":      {"unique", "different", "special", "stand out"},
	"value":       {"value", "deal", "worth", "bang for buck"},
}

// emotionTagOrder keeps heuristic output deterministic regardless of map
// iteration order
var emotionTagOrder = []string{"fun", "exciting", "aggressive", "luxurious", "sporty", "comfortable", "practical", "unique", "value"}

var negativeWords = map[string][]string{
	"boring":     {"boring", "dull", "bland"},
	"slow":       {"slow", "sluggish"},
	"unreliable": {"unreliable", "breaks down", "problematic"},
	"expensive":  {"expensive", "costly", "pricey"},
	"old":        {"old", "dated", "ancient"},
}

var negativeTagOrder = []string{"boring", "slow", "unreliable", "expensive", "old"}

// carBrands gates reference extraction so "like a rocket" never becomes a
// reference vehicle
var carBrands = []string{
	"bmw", "audi", "mercedes", "lexus", "porsche", "tesla", "genesis", "kia",
	"honda", "toyota", "ford", "chevrolet", "dodge", "subaru", "volkswagen",
	"mazda", "infiniti", "acura", "alfa romeo", "cadillac",
}

var likePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:like|similar to|something like)\s+(?:a\s+)?(?:the\s+)?(.+?)(?:\s+but|\s*,|$)`),
	regexp.MustCompile(`(?:like|similar to)\s+(?:an?\s+)?(\w+\s+\w+)`),
}

// ExtractHeuristic derives a structured intent from a query using keyword
// matching alone. It never fails; an uninformative query yields the neutral
// default intent.
func ExtractHeuristic(query string) model.UserIntent {
	intent := model.DefaultIntent(query)
	lower := strings.ToLower(query)

	if budget, ok := extractBudget(lower); ok {
		intent.BudgetMax = &budget
	}

	if containsAny(lower, performanceWords) {
		intent.PerformancePriority = 0.8
	}
	if containsAny(lower, reliabilityWords) {
		intent.ReliabilityPriority = 0.8
	}
	if containsAny(lower, comfortWords) {
		intent.ComfortPriority = 0.7
	}

	intent.Drivetrain = extractDrivetrain(lower)

	for _, bt := range bodyTypes {
		if strings.Contains(lower, bt) {
			intent.BodyStyle = bt
			break
		}
	}

	for _, tag := range emotionTagOrder {
		if containsAny(lower, emotionWords[tag]) {
			intent.EmotionalTags = append(intent.EmotionalTags, tag)
		}
	}
	for _, tag := range negativeTagOrder {
		if containsAny(lower, negativeWords[tag]) {
			intent.NegativeTags = append(intent.NegativeTags, tag)
		}
	}

	// "not boring" reads as wanting fun, not as having boring in mind
	if strings.Contains(lower, "not boring") {
		if !containsString(intent.NegativeTags, "boring") {
			intent.NegativeTags = append(intent.NegativeTags, "boring")
		}
		if !intent.HasTag("fun") {
			intent.EmotionalTags = append(intent.EmotionalTags, "fun")
		}
	}

	intent.ReferenceVehicle = extractReference(lower)
	intent.Usage = extractUsage(lower)

	return intent
}

func extractBudget(lower string) (int, bool) {
	for _, re := range budgetPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		amount, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		// "35k" or a bare small number both mean thousands
		if m[2] == "k" || len(m[1]) <= 3 {
			amount *= 1000
		}
		return amount, true
	}

	if m := dollarPattern.FindStringSubmatch(lower); m != nil {
		amount, err := strconv.Atoi(m[1] + m[2])
		if err == nil {
			return amount, true
		}
	}

	return 0, false
}

func extractDrivetrain(lower string) string {
	switch {
	case strings.Contains(lower, "awd"), strings.Contains(lower, "all wheel"),
		strings.Contains(lower, "snow"), strings.Contains(lower, "winter"):
		return "AWD"
	case strings.Contains(lower, "rwd"), strings.Contains(lower, "rear wheel"):
		return "RWD"
	case strings.Contains(lower, "fwd"), strings.Contains(lower, "front wheel"):
		return "FWD"
	}
	return ""
}

func extractReference(lower string) string {
	for _, re := range likePatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		ref := strings.TrimSpace(m[1])
		for _, brand := range carBrands {
			if strings.Contains(ref, brand) {
				return ref
			}
		}
	}
	return ""
}

func extractUsage(lower string) []string {
	usage := []string{}
	if strings.Contains(lower, "daily") || strings.Contains(lower, "commute") || strings.Contains(lower, "everyday") {
		usage = append(usage, "daily")
	}
	if strings.Contains(lower, "track") || strings.Contains(lower, "race") {
		usage = append(usage, "track")
	}
	if strings.Contains(lower, "winter") || strings.Contains(lower, "snow") {
		usage = append(usage, "winter")
	}
	if strings.Contains(lower, "road trip") || strings.Contains(lower, "long distance") {
		usage = append(usage, "road-trip")
	}
	if strings.Contains(lower, "weekend") {
		usage = append(usage, "weekend")
	}
	return usage
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
