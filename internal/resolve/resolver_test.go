package resolve

import (
	"context"
	"testing"

	"github.com/motormatch/motormatch/internal/model"
)

func testCatalog() []model.Vehicle {
	return []model.Vehicle{
		{ID: "chevrolet-camaro-2020", Make: "Chevrolet", Model: "Camaro", Year: 2020},
		{ID: "chevrolet-corvette-2020", Make: "Chevrolet", Model: "Corvette", Year: 2020},
		{ID: "bmw-m340i-2020", Make: "BMW", Model: "M340i", Year: 2020},
		{ID: "bmw-m340i-2019", Make: "BMW", Model: "M340i", Year: 2019},
		{ID: "toyota-supra-2020", Make: "Toyota", Model: "Supra", Year: 2020},
	}
}

func newTestResolver() *Resolver {
	return New(testCatalog(), model.ResolverConfig{Threshold: 0.8, FallbackConfidence: 0.3})
}

func TestResolveExact(t *testing.T) {
	r := newTestResolver()

	got := r.Resolve(model.Listing{Make: "Chevrolet", Model: "Camaro", Year: 2020})

	if got.Tier != model.TierExact {
		t.Fatalf("tier = %s, want EXACT", got.Tier)
	}
	if got.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", got.Confidence)
	}
	if got.VehicleID == nil || *got.VehicleID != "chevrolet-camaro-2020" {
		t.Errorf("vehicle id = %v, want chevrolet-camaro-2020", got.VehicleID)
	}
}

func TestResolveExactCaseInsensitive(t *testing.T) {
	r := newTestResolver()

	got := r.Resolve(model.Listing{Make: "CHEVROLET", Model: "CAMARO", Year: 2020})

	if got.Tier != model.TierExact {
		t.Errorf("tier = %s, want EXACT", got.Tier)
	}
}

func TestResolveMakeAlias(t *testing.T) {
	r := newTestResolver()

	got := r.Resolve(model.Listing{Make: "CHEVY", Model: "Camaro", Year: 2020})

	if got.Tier != model.TierExact {
		t.Fatalf("tier = %s, want EXACT via make alias", got.Tier)
	}
	if *got.VehicleID != "chevrolet-camaro-2020" {
		t.Errorf("vehicle id = %s, want chevrolet-camaro-2020", *got.VehicleID)
	}
}

func TestResolveFuzzyTrimVariant(t *testing.T) {
	r := newTestResolver()

	// "Camaro SS" vs "Camaro" scores exactly 0.8, right at the threshold
	got := r.Resolve(model.Listing{Make: "Chevy", Model: "Camaro SS", Year: 2020})

	if got.Tier != model.TierFuzzy {
		t.Fatalf("tier = %s, want FUZZY", got.Tier)
	}
	if got.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", got.Confidence)
	}
	if *got.VehicleID != "chevrolet-camaro-2020" {
		t.Errorf("vehicle id = %s, want chevrolet-camaro-2020", *got.VehicleID)
	}
}

func TestResolveFallbackSameMakeYear(t *testing.T) {
	r := newTestResolver()

	// Unknown model, but the make and year exist in the catalog
	got := r.Resolve(model.Listing{Make: "Chevrolet", Model: "Blazer", Year: 2020})

	if got.Tier != model.TierFallback {
		t.Fatalf("tier = %s, want FALLBACK", got.Tier)
	}
	if got.Confidence != 0.3 {
		t.Errorf("confidence = %v, want 0.3", got.Confidence)
	}
	// Fallback picks the lowest vehicle ID for the make/year, so reruns agree
	if *got.VehicleID != "chevrolet-camaro-2020" {
		t.Errorf("vehicle id = %s, want chevrolet-camaro-2020", *got.VehicleID)
	}
}

func TestResolveNone(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name    string
		listing model.Listing
	}{
		{"unknown make", model.Listing{Make: "Lada", Model: "Niva", Year: 2020}},
		{"no catalog year", model.Listing{Make: "Toyota", Model: "Supra", Year: 1998}},
		{"empty listing", model.Listing{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.listing)
			if got.Tier != model.TierNone {
				t.Errorf("tier = %s, want NONE", got.Tier)
			}
			if got.VehicleID != nil {
				t.Errorf("vehicle id = %v, want nil", *got.VehicleID)
			}
			if got.Matched() {
				t.Error("Matched() = true for a NONE result")
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := newTestResolver()
	listing := model.Listing{Make: "chevy", Model: "camaro ss", Year: 2020}

	first := r.Resolve(listing)
	for i := 0; i < 5; i++ {
		again := r.Resolve(listing)
		if again.Tier != first.Tier || again.Confidence != first.Confidence ||
			*again.VehicleID != *first.VehicleID {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestResolveEmptyCatalog(t *testing.T) {
	r := New(nil, model.ResolverConfig{})

	got := r.Resolve(model.Listing{Make: "Toyota", Model: "Supra", Year: 2020})
	if got.Tier != model.TierNone {
		t.Errorf("tier = %s, want NONE against empty catalog", got.Tier)
	}
}

func TestTierOrdering(t *testing.T) {
	order := []model.Tier{model.TierNone, model.TierFallback, model.TierFuzzy, model.TierExact}
	for i := 1; i < len(order); i++ {
		if order[i].Rank() <= order[i-1].Rank() {
			t.Errorf("%s should outrank %s", order[i], order[i-1])
		}
	}
}

func TestResolveBatch(t *testing.T) {
	r := newTestResolver()

	listings := []model.Listing{
		{VIN: "A", Make: "Chevrolet", Model: "Camaro", Year: 2020},
		{VIN: "B", Make: "Chevy", Model: "Camaro SS", Year: 2020},
		{VIN: "C", Make: "Chevrolet", Model: "Blazer", Year: 2020},
		{VIN: "D", Make: "Lada", Model: "Niva", Year: 2020},
	}

	results, stats := r.ResolveBatch(context.Background(), listings, 2)

	if len(results) != len(listings) {
		t.Fatalf("got %d results for %d listings", len(results), len(listings))
	}

	wantTiers := []model.Tier{model.TierExact, model.TierFuzzy, model.TierFallback, model.TierNone}
	for i, want := range wantTiers {
		if results[i].Tier != want {
			t.Errorf("results[%d].Tier = %s, want %s", i, results[i].Tier, want)
		}
	}

	if stats.Total != 4 || stats.Matched != 3 || stats.Unmatched != 1 {
		t.Errorf("stats = %+v, want total 4, matched 3, unmatched 1", stats)
	}
	if stats.Exact != 1 || stats.Fuzzy != 1 || stats.Fallback != 1 {
		t.Errorf("tier counts = %+v", stats)
	}
	if stats.HighConfidence != 1 || stats.LowConfidence != 2 {
		t.Errorf("confidence split = %+v, want 1 high, 2 low", stats)
	}
	if rate := stats.MatchRate(); rate != 0.75 {
		t.Errorf("MatchRate() = %v, want 0.75", rate)
	}
}

func TestResolveBatchCancelled(t *testing.T) {
	r := newTestResolver()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	listings := make([]model.Listing, 50)
	for i := range listings {
		listings[i] = model.Listing{Make: "Chevrolet", Model: "Camaro", Year: 2020}
	}

	results, _ := r.ResolveBatch(ctx, listings, 1)
	if len(results) != len(listings) {
		t.Fatalf("got %d results for %d listings", len(results), len(listings))
	}
	// Every slot is still a complete result, matched or not
	for i, res := range results {
		if res.Tier == "" {
			t.Errorf("results[%d] left unset", i)
		}
	}
}
