package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/motormatch/motormatch/internal/cache"
	"github.com/motormatch/motormatch/internal/catalog"
	"github.com/motormatch/motormatch/internal/intent"
	"github.com/motormatch/motormatch/internal/model"
	"github.com/motormatch/motormatch/internal/store"
)

func testVehicles() []model.Vehicle {
	return []model.Vehicle{
		{
			ID: "audi-s4-2019", Make: "Audi", Model: "S4", Year: 2019,
			AvgPrice: 32000, PriceRange: model.PriceRange{Min: 28000, Max: 42000},
			PowerHP: 349, Drivetrain: "AWD", BodyType: "sedan", ZeroToSixty: 4.8,
			ReliabilityScore: 8, OwnershipCostScore: 6,
			EmotionalTags: []string{"fast", "refined"},
		},
		{
			ID: "chevrolet-camaro-2020", Make: "Chevrolet", Model: "Camaro", Year: 2020,
			AvgPrice: 40000, PriceRange: model.PriceRange{Min: 30000, Max: 48000},
			PowerHP: 455, Drivetrain: "RWD", BodyType: "coupe", ZeroToSixty: 4.0,
			ReliabilityScore: 7, OwnershipCostScore: 5,
			EmotionalTags: []string{"fun", "aggressive"},
		},
	}
}

// fakeStorage backs the storage endpoints in memory
type fakeStorage struct {
	listings map[string][]model.Listing
	runs     []store.IngestionRun
	waitlist map[string]bool
	pingErr  error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		listings: make(map[string][]model.Listing),
		waitlist: make(map[string]bool),
	}
}

func (f *fakeStorage) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStorage) ListByVehicle(ctx context.Context, vehicleID string) ([]model.Listing, error) {
	return f.listings[vehicleID], nil
}

func (f *fakeStorage) ListRecentActive(ctx context.Context, limit int) ([]model.Listing, error) {
	var all []model.Listing
	for _, ls := range f.listings {
		all = append(all, ls...)
	}
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeStorage) ListRuns(ctx context.Context, limit int) ([]store.IngestionRun, error) {
	return f.runs, nil
}

func (f *fakeStorage) AddToWaitlist(ctx context.Context, email, source string) error {
	if f.waitlist[email] {
		return store.ErrDuplicateEmail
	}
	f.waitlist[email] = true
	return nil
}

func newTestServer(storage Storage, results cache.Cache) *Server {
	cfg := *model.DefaultConfig()
	return New(
		catalog.New(testVehicles()),
		intent.NewExtractor(nil, nil),
		storage,
		results,
		nil,
		cfg,
	)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSearch(t *testing.T) {
	storage := newFakeStorage()
	price := 31500
	storage.listings["audi-s4-2019"] = []model.Listing{
		{VIN: "VIN1", Make: "AUDI", Model: "S4", Year: 2019, Price: &price, Status: "active"},
	}
	s := newTestServer(storage, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/search",
		`{"query": "a fast awd sedan under 35k"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.InterpretedIntent.Drivetrain != "AWD" {
		t.Errorf("drivetrain = %q", resp.InterpretedIntent.Drivetrain)
	}
	if len(resp.Matches) != 2 {
		t.Fatalf("got %d matches", len(resp.Matches))
	}
	// AWD sedan under budget beats the over-budget RWD coupe
	if resp.Matches[0].Vehicle.ID != "audi-s4-2019" {
		t.Errorf("top match = %s", resp.Matches[0].Vehicle.ID)
	}
	if resp.Matches[0].Score <= resp.Matches[1].Score {
		t.Errorf("scores not descending: %v vs %v", resp.Matches[0].Score, resp.Matches[1].Score)
	}
	if len(resp.Matches[0].Listings) != 1 {
		t.Errorf("top match has %d listings, want 1", len(resp.Matches[0].Listings))
	}
	if resp.IntentSummary == "" {
		t.Error("missing intent summary")
	}
	if len(resp.Suggestions) == 0 || len(resp.Suggestions) > 6 {
		t.Errorf("suggestions = %v", resp.Suggestions)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/search", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSearchServesFromCache(t *testing.T) {
	results := cache.NewMemoryCache(time.Minute, time.Minute)
	s := newTestServer(nil, results)

	first := doJSON(t, s, http.MethodPost, "/api/search", `{"query": "fast awd sedan"}`)
	second := doJSON(t, s, http.MethodPost, "/api/search", `{"query": "fast awd sedan"}`)
	if first.Code != http.StatusOK || second.Code != http.StatusOK {
		t.Fatalf("status = %d / %d", first.Code, second.Code)
	}

	var a, b SearchResponse
	if err := json.Unmarshal(first.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &b); err != nil {
		t.Fatal(err)
	}
	if len(a.Matches) != len(b.Matches) || a.Matches[0].Score != b.Matches[0].Score {
		t.Errorf("cached response diverged: %+v vs %+v", a.Matches[0], b.Matches[0])
	}
}

func TestRefine(t *testing.T) {
	s := newTestServer(nil, nil)

	budget := 40000
	previous := model.DefaultIntent("fun car under 40k")
	previous.BudgetMax = &budget
	body, _ := json.Marshal(RefineRequest{
		PreviousIntent: previous,
		Refinement:     "cheaper",
		OriginalQuery:  "fun car under 40k",
	})

	rec := doJSON(t, s, http.MethodPost, "/api/refine", string(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp SearchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.InterpretedIntent.BudgetMax == nil || *resp.InterpretedIntent.BudgetMax != 32000 {
		t.Errorf("budget = %v, want 32000", resp.InterpretedIntent.BudgetMax)
	}
	if resp.InterpretedIntent.RawQuery != "fun car under 40k (cheaper)" {
		t.Errorf("raw query = %q", resp.InterpretedIntent.RawQuery)
	}
}

func TestRefineRequiresRefinement(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodPost, "/api/refine", `{"previous_intent": {}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestVehicles(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/api/vehicles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var vehicles []model.Vehicle
	if err := json.Unmarshal(rec.Body.Bytes(), &vehicles); err != nil {
		t.Fatal(err)
	}
	if len(vehicles) != 2 {
		t.Errorf("got %d vehicles", len(vehicles))
	}
}

func TestVehicleByID(t *testing.T) {
	s := newTestServer(nil, nil)

	rec := doJSON(t, s, http.MethodGet, "/api/vehicles/audi-s4-2019", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/vehicles/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLiveListings(t *testing.T) {
	storage := newFakeStorage()
	storage.listings["audi-s4-2019"] = []model.Listing{{VIN: "VIN1"}}

	rec := doJSON(t, newTestServer(storage, nil), http.MethodGet, "/api/listings/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "VIN1") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestLiveListingsWithoutStore(t *testing.T) {
	rec := doJSON(t, newTestServer(nil, nil), http.MethodGet, "/api/listings/live", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestWaitlist(t *testing.T) {
	storage := newFakeStorage()
	s := newTestServer(storage, nil)

	rec := doJSON(t, s, http.MethodPost, "/api/waitlist", `{"email": "x@example.com"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"added":true`) {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/api/waitlist", `{"email": "x@example.com"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"added":false`) {
		t.Errorf("duplicate: status = %d body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/api/waitlist", `{"email": "not-an-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid email: status = %d", rec.Code)
	}
}

func TestIngestionRuns(t *testing.T) {
	storage := newFakeStorage()
	storage.runs = []store.IngestionRun{{ID: "run-1", Source: "marketcheck", Status: store.RunSucceeded}}

	rec := doJSON(t, newTestServer(storage, nil), http.MethodGet, "/api/ingestion/runs", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "run-1") {
		t.Errorf("body = %s", rec.Body.String())
	}
}
