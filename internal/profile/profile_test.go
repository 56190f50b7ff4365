package profile

import (
	"testing"

	"github.com/motormatch/motormatch/internal/model"
)

func TestEmotionalDirectTags(t *testing.T) {
	v := model.Vehicle{EmotionalTags: []string{"Fun", "EXCITING"}}
	got := Emotional(v)

	for _, tag := range []string{"fun", "exciting"} {
		if !got.Has(tag) {
			t.Errorf("profile missing direct tag %q", tag)
		}
	}
	if got.Has("luxurious") {
		t.Error("profile contains tag the vehicle never implied")
	}
}

func TestEmotionalDerivedFromFeel(t *testing.T) {
	v := model.Vehicle{DrivingFeelTags: []string{"raw", "planted"}}
	got := Emotional(v)

	want := []string{"exciting", "passionate", "aggressive", "reliable", "sophisticated", "sporty"}
	for _, tag := range want {
		if !got.Has(tag) {
			t.Errorf("feel-derived profile missing %q", tag)
		}
	}
}

func TestEmotionalDerivedFromClass(t *testing.T) {
	v := model.Vehicle{ClassTags: []string{"Luxury"}}
	got := Emotional(v)

	for _, tag := range []string{"luxurious", "sophisticated", "premium"} {
		if !got.Has(tag) {
			t.Errorf("class-derived profile missing %q", tag)
		}
	}
}

func TestEmotionalUnknownTagsIgnored(t *testing.T) {
	v := model.Vehicle{
		DrivingFeelTags: []string{"wobbly"},
		ClassTags:       []string{"spaceship"},
	}
	if got := Emotional(v); len(got) != 0 {
		t.Errorf("unknown tags produced a non-empty profile: %v", got)
	}
}

func TestTagSetIntersects(t *testing.T) {
	a := NewTagSet("fun", "fast")
	b := NewTagSet("fast", "quiet")
	c := NewTagSet("quiet")

	if !a.Intersects(b) {
		t.Error("expected overlap between a and b")
	}
	if a.Intersects(c) {
		t.Error("expected no overlap between a and c")
	}
}

func TestSimilarTo(t *testing.T) {
	if s := SimilarTo("FUN"); s == nil || !s.Has("exciting") {
		t.Errorf("SimilarTo(FUN) = %v, want set containing exciting", s)
	}
	if s := SimilarTo("nonexistent"); s != nil {
		t.Errorf("SimilarTo(nonexistent) = %v, want nil", s)
	}
}

func TestOppositesOf(t *testing.T) {
	if s := OppositesOf("boring"); s == nil || !s.Has("fun") {
		t.Errorf("OppositesOf(boring) = %v, want set containing fun", s)
	}
	if s := OppositesOf("fun"); s != nil {
		t.Errorf("OppositesOf(fun) = %v, want nil", s)
	}
}
