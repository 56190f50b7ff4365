package score

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/profile"
)

// Factor names used as weight keys
const (
	factorPrice       = "price"
	factorPerformance = "performance"
	factorReliability = "reliability"
	factorDrivetrain  = "drivetrain"
	factorBodyStyle   = "body_style"
	factorEmotional   = "emotional"
	factorReference   = "reference"
	factorOwnership   = "ownership"
)

// emotionalVerdict carries the emotional scorer's multi-part output
type emotionalVerdict struct {
	value     float64
	reasons   []string
	tradeoffs []string
}

// scorePrice rates budget fit. No stated budget is neutral, not a penalty.
func scorePrice(v model.Vehicle, intent model.UserIntent) model.FactorScore {
	fs := model.FactorScore{Name: factorPrice}
	if intent.BudgetMax == nil || *intent.BudgetMax <= 0 {
		fs.Value = 80
		return fs
	}

	avg := v.AvgPrice
	budget := *intent.BudgetMax

	if avg <= budget {
		headroom := float64(budget-avg) / float64(budget)
		if headroom > 0.2 {
			fs.Value = 100
			fs.Reason = fmt.Sprintf("Well under budget at ~$%s", FormatPrice(avg))
		} else {
			fs.Value = 95
			fs.Reason = fmt.Sprintf("Fits your $%s budget nicely", FormatPrice(budget))
		}
		return fs
	}

	overPct := float64(avg-budget) / float64(budget)
	switch {
	case overPct < 0.1:
		fs.Value = 75
		fs.Tradeoff = fmt.Sprintf("Slightly over budget (~$%s)", FormatPrice(avg))
	case overPct < 0.2:
		fs.Value = 50
		fs.Tradeoff = fmt.Sprintf("Above budget at ~$%s", FormatPrice(avg))
	default:
		fs.Value = 20
		fs.Tradeoff = fmt.Sprintf("Significantly over budget at ~$%s", FormatPrice(avg))
	}
	return fs
}

// scorePerformance rates straight-line pace using 0-60 time as the primary
// metric. A buyer who does not care about speed never sees a slow car
// punished below 70.
func scorePerformance(v model.Vehicle, intent model.UserIntent) model.FactorScore {
	fs := model.FactorScore{Name: factorPerformance}
	zeroSixty := v.ZeroToSixty

	var base float64
	quick := false
	switch {
	case zeroSixty <= 4.5:
		base, quick = 100, true
	case zeroSixty <= 5.0:
		base, quick = 85, true
	case zeroSixty <= 5.5:
		base = 70
	case zeroSixty <= 6.0:
		base = 55
	default:
		base = 40
	}

	switch {
	case intent.PerformancePriority > 0.7:
		fs.Value = base
		if quick {
			fs.Reason = fmt.Sprintf("Seriously quick (0-60 in %.1fs)", zeroSixty)
		} else {
			fs.Tradeoff = fmt.Sprintf("Not the quickest (%.1fs 0-60)", zeroSixty)
		}
	case intent.PerformancePriority < 0.4:
		fs.Value = math.Max(base, 70)
	default:
		fs.Value = base
		if quick {
			fs.Reason = fmt.Sprintf("%dhp provides plenty of power", v.PowerHP)
		}
	}
	return fs
}

// scoreReliability maps the 0-10 reliability rating onto 0-100
func scoreReliability(v model.Vehicle, intent model.UserIntent) model.FactorScore {
	fs := model.FactorScore{Name: factorReliability}
	rating := v.ReliabilityScore
	base := rating * 10

	switch {
	case intent.ReliabilityPriority > 0.7:
		fs.Value = base
		switch {
		case rating >= 8:
			fs.Reason = "Excellent reliability record"
		case rating >= 7:
			fs.Reason = "Good reliability reputation"
		default:
			fs.Tradeoff = fmt.Sprintf("Reliability could be a concern (%s/10)", formatRating(rating))
		}
	case intent.ReliabilityPriority < 0.4:
		fs.Value = math.Max(base, 60)
	default:
		fs.Value = base
		if rating >= 8 {
			fs.Reason = "Known for being dependable"
		}
	}
	return fs
}

// scoreDrivetrain rates the drivetrain against an explicit preference. An
// AWD request unmet is penalized harder than other mismatches - people who
// ask for AWD usually need it.
func scoreDrivetrain(v model.Vehicle, intent model.UserIntent) model.FactorScore {
	fs := model.FactorScore{Name: factorDrivetrain}
	if intent.Drivetrain == "" {
		fs.Value = 80
		return fs
	}

	if strings.EqualFold(v.Drivetrain, intent.Drivetrain) {
		fs.Value = 100
		fs.Reason = fmt.Sprintf("%s as requested", v.Drivetrain)
		return fs
	}

	if strings.EqualFold(intent.Drivetrain, "AWD") {
		fs.Value = 40
		fs.Tradeoff = fmt.Sprintf("Only available in %s", v.Drivetrain)
		return fs
	}

	fs.Value = 60
	fs.Tradeoff = fmt.Sprintf("%s instead of %s", v.Drivetrain, intent.Drivetrain)
	return fs
}

// bodyStyleGroups are the style families that score as near-matches
var bodyStyleGroups = []map[string]struct{}{
	{"sedan": {}, "liftback": {}},
	{"coupe": {}, "convertible": {}},
	{"hatchback": {}, "liftback": {}, "hot-hatch": {}},
	{"suv": {}, "crossover": {}},
}

// scoreBodyStyle rates body style fit. Exact match 100, same family 80,
// anything else 50; no stated preference is neutral.
func scoreBodyStyle(v model.Vehicle, intent model.UserIntent) model.FactorScore {
	fs := model.FactorScore{Name: factorBodyStyle}
	if intent.BodyStyle == "" {
		fs.Value = 80
		return fs
	}

	have := strings.ToLower(v.BodyType)
	want := strings.ToLower(intent.BodyStyle)

	if have == want {
		fs.Value = 100
		return fs
	}

	for _, group := range bodyStyleGroups {
		_, hasA := group[have]
		_, hasB := group[want]
		if hasA && hasB {
			fs.Value = 80
			return fs
		}
	}

	fs.Value = 50
	return fs
}

// scoreEmotional rates the vehicle's character against wanted and avoided
// tags. Direct tag hits earn 20, similar-tag hits 12, carrying an avoided
// trait costs 25, and carrying its opposite earns 10 back.
func scoreEmotional(v model.Vehicle, intent model.UserIntent) emotionalVerdict {
	var out emotionalVerdict

	emotions := profile.Emotional(v)

	positive := 0.0
	var matched []string
	for _, wanted := range intent.EmotionalTags {
		if emotions.Has(wanted) {
			positive += 20
			matched = append(matched, wanted)
			continue
		}
		if similar := profile.SimilarTo(wanted); similar != nil && emotions.Intersects(similar) {
			positive += 12
			matched = append(matched, wanted)
		}
	}
	if len(matched) > 0 {
		shown := matched
		if len(shown) > 3 {
			shown = shown[:3]
		}
		out.reasons = append(out.reasons, "Matches your vibe: "+strings.Join(shown, ", "))
	}

	penalty := 0.0
	for _, avoid := range intent.NegativeTags {
		lower := strings.ToLower(avoid)
		if emotions.Has(lower) {
			penalty += 25
			out.tradeoffs = append(out.tradeoffs, "May feel "+lower)
			continue
		}
		if opp := profile.OppositesOf(lower); opp != nil && emotions.Intersects(opp) {
			positive += 10
			out.reasons = append(out.reasons, "Definitely not "+lower)
		}
	}

	if len(intent.EmotionalTags) == 0 && len(intent.NegativeTags) == 0 {
		out.value = 70
		return out
	}

	out.value = clamp(50+math.Min(positive, 50)-math.Min(penalty, 40), 0, 100)
	return out
}

// scoreReference rates how closely a vehicle resembles the buyer's stated
// reference car. Points accumulate across drivetrain, power, pace, body,
// price, and shared tags, capped at 100.
func scoreReference(v, ref model.Vehicle) model.FactorScore {
	fs := model.FactorScore{Name: factorReference}
	points := 0.0

	if v.Drivetrain == ref.Drivetrain {
		points += 15
	}

	if ref.PowerHP > 0 {
		diff := math.Abs(float64(v.PowerHP-ref.PowerHP)) / float64(ref.PowerHP)
		switch {
		case diff < 0.1:
			points += 20
		case diff < 0.2:
			points += 12
		case diff < 0.3:
			points += 5
		}
	}

	zeroDiff := math.Abs(v.ZeroToSixty - ref.ZeroToSixty)
	switch {
	case zeroDiff < 0.3:
		points += 15
	case zeroDiff < 0.6:
		points += 10
	case zeroDiff < 1.0:
		points += 5
	}

	if v.BodyType == ref.BodyType {
		points += 15
	}

	if ref.AvgPrice > 0 {
		diff := math.Abs(float64(v.AvgPrice-ref.AvgPrice)) / float64(ref.AvgPrice)
		switch {
		case diff < 0.1:
			points += 15
		case diff < 0.2:
			points += 10
		case diff < 0.3:
			points += 5
		}
	}

	refClasses := profile.NewTagSet(ref.ClassTags...)
	for _, c := range v.ClassTags {
		if refClasses.Has(c) {
			points += 10
		}
	}

	refEmotions := profile.NewTagSet(ref.EmotionalTags...)
	for _, e := range v.EmotionalTags {
		if refEmotions.Has(e) {
			points += 5
		}
	}

	fs.Value = math.Min(100, points)
	if fs.Value > 70 {
		fs.Reason = fmt.Sprintf("Very similar to the %s %s", ref.Make, ref.Model)
	} else if fs.Value > 50 {
		fs.Reason = fmt.Sprintf("Comparable to the %s %s", ref.Make, ref.Model)
	}
	return fs
}

// scoreOwnership maps the 0-10 ownership cost rating onto 0-100. Higher
// rating means cheaper to run.
func scoreOwnership(v model.Vehicle) model.FactorScore {
	return model.FactorScore{Name: factorOwnership, Value: v.OwnershipCostScore * 10}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// FormatPrice renders 32500 as "32,500"
func FormatPrice(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + FormatPrice(-n)
	}
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatRating renders 8.0 as "8" and 7.5 as "7.5"
func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}
