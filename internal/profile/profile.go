// Package profile derives a vehicle's effective emotional character from its
// curated tags. Scoring never looks at raw tags directly; it works on the
// expanded profile built here.
package profile

import (
	"strings"

	"github.com/motormatch/motormatch/internal/model"
)

// TagSet is a case-normalized set of tag strings
type TagSet map[string]struct{}

// NewTagSet builds a set from tags, lowercasing each
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[strings.ToLower(t)] = struct{}{}
	}
	return s
}

// Has reports whether tag (case-insensitive) is in the set
func (s TagSet) Has(tag string) bool {
	_, ok := s[strings.ToLower(tag)]
	return ok
}

// Intersects reports whether the two sets share any tag
func (s TagSet) Intersects(other TagSet) bool {
	for t := range other {
		if _, ok := s[t]; ok {
			return true
		}
	}
	return false
}

func (s TagSet) addAll(other TagSet) {
	for t := range other {
		s[t] = struct{}{}
	}
}

// similarities maps an emotional tag to the tags considered related to it.
// Used when a wanted tag has no direct match on a vehicle.
var similarities = map[string]TagSet{
	"fun":           NewTagSet("exciting", "sporty", "engaging", "playful", "thrilling"),
	"exciting":      NewTagSet("fun", "aggressive", "powerful", "thrilling", "passionate"),
	"aggressive":    NewTagSet("exciting", "powerful", "bold", "mean"),
	"sporty":        NewTagSet("fun", "engaging", "athletic", "dynamic"),
	"luxurious":     NewTagSet("sophisticated", "premium", "refined", "prestigious", "classy"),
	"sophisticated": NewTagSet("luxurious", "refined", "elegant", "classy"),
	"reliable":      NewTagSet("dependable", "trustworthy", "sensible"),
	"practical":     NewTagSet("sensible", "useful", "value"),
	"comfortable":   NewTagSet("smooth", "refined", "relaxing"),
	"value":         NewTagSet("practical", "sensible", "surprising"),
	"fast":          NewTagSet("powerful", "quick", "exciting"),
	"unique":        NewTagSet("special", "passionate", "distinctive"),
}

// feelToEmotion maps driving-feel tags to the emotions they imply
var feelToEmotion = map[string]TagSet{
	"sporty":      NewTagSet("fun", "exciting", "sporty"),
	"responsive":  NewTagSet("fun", "engaging", "sporty"),
	"engaging":    NewTagSet("fun", "exciting", "sporty"),
	"raw":         NewTagSet("exciting", "passionate", "aggressive"),
	"sharp":       NewTagSet("sporty", "engaging", "exciting"),
	"refined":     NewTagSet("sophisticated", "luxurious", "comfortable"),
	"smooth":      NewTagSet("comfortable", "luxurious", "refined"),
	"composed":    NewTagSet("reliable", "sophisticated", "comfortable"),
	"powerful":    NewTagSet("fast", "exciting", "aggressive"),
	"balanced":    NewTagSet("practical", "reliable", "sporty"),
	"comfortable": NewTagSet("comfortable", "practical", "reliable"),
	"planted":     NewTagSet("reliable", "sophisticated", "sporty"),
	"precise":     NewTagSet("sporty", "engaging", "sophisticated"),
	"instant":     NewTagSet("fast", "exciting", "modern"),
	"quiet":       NewTagSet("comfortable", "luxurious", "refined"),
	"playful":     NewTagSet("fun", "exciting", "sporty"),
	"direct":      NewTagSet("engaging", "sporty", "raw"),
}

// classToEmotion maps market-class tags to implied emotions
var classToEmotion = map[string]TagSet{
	"luxury":      NewTagSet("luxurious", "sophisticated", "premium"),
	"performance": NewTagSet("exciting", "fast", "fun"),
	"sport":       NewTagSet("sporty", "fun", "engaging"),
}

// opposites maps a negative trait to the emotions that contradict it. A
// vehicle carrying an opposite of an avoided trait earns a bonus.
var opposites = map[string]TagSet{
	"boring":        NewTagSet("fun", "exciting", "engaging", "sporty", "aggressive"),
	"slow":          NewTagSet("fast", "powerful", "exciting"),
	"unreliable":    NewTagSet("reliable", "dependable"),
	"expensive":     NewTagSet("value", "practical"),
	"uncomfortable": NewTagSet("comfortable", "luxurious", "refined"),
	"numb":          NewTagSet("engaging", "raw", "sporty"),
}

// Emotional builds the vehicle's effective emotional tag set: its direct
// emotional tags plus emotions implied by driving feel and class tags.
// Unknown feel or class tags contribute nothing.
func Emotional(v model.Vehicle) TagSet {
	out := NewTagSet(v.EmotionalTags...)

	for _, feel := range v.DrivingFeelTags {
		if implied, ok := feelToEmotion[strings.ToLower(feel)]; ok {
			out.addAll(implied)
		}
	}
	for _, class := range v.ClassTags {
		if implied, ok := classToEmotion[strings.ToLower(class)]; ok {
			out.addAll(implied)
		}
	}

	return out
}

// SimilarTo returns the tags related to an emotional tag, or nil
func SimilarTo(tag string) TagSet {
	return similarities[strings.ToLower(tag)]
}

// OppositesOf returns the emotions contradicting a negative trait, or nil
func OppositesOf(tag string) TagSet {
	return opposites[strings.ToLower(tag)]
}
