package api

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/motormatch/motormatch/internal/cache"
	"github.com/motormatch/motormatch/internal/model"
)

// SearchRequest is a natural-language query plus optional refinements
// accumulated from earlier rounds
type SearchRequest struct {
	Query       string   `json:"query"`
	Refinements []string `json:"refinements,omitempty"`
}

// RefineRequest narrows a previous search with one modifier
type RefineRequest struct {
	PreviousIntent model.UserIntent `json:"previous_intent"`
	Refinement     string           `json:"refinement"`
	OriginalQuery  string           `json:"original_query"`
}

// SearchResponse carries the interpreted intent and the ranked matches
type SearchResponse struct {
	InterpretedIntent model.UserIntent    `json:"interpreted_intent"`
	IntentSummary     string              `json:"intent_summary"`
	Matches           []model.MatchResult `json:"matches"`
	Suggestions       []string            `json:"suggestions"`
}

func (s *Server) handleSearch(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	ctx := c.Request().Context()
	userIntent := s.extractor.Extract(ctx, req.Query)
	for _, refinement := range req.Refinements {
		userIntent = s.extractor.Refine(ctx, userIntent, refinement)
	}

	return c.JSON(http.StatusOK, s.respond(c, userIntent))
}

func (s *Server) handleRefine(c echo.Context) error {
	var req RefineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Refinement == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refinement is required")
	}

	ctx := c.Request().Context()
	refined := s.extractor.Refine(ctx, req.PreviousIntent, req.Refinement)
	if req.OriginalQuery != "" {
		refined.RawQuery = req.OriginalQuery + " (" + req.Refinement + ")"
	}

	return c.JSON(http.StatusOK, s.respond(c, refined))
}

// respond runs the scoring pipeline for an intent, serving from the result
// cache when the same preferences were ranked recently
func (s *Server) respond(c echo.Context, userIntent model.UserIntent) *SearchResponse {
	ctx := c.Request().Context()

	key := cache.SearchKey(userIntent)
	if s.results != nil {
		if body, found := s.results.Get(key); found {
			var cached SearchResponse
			if err := json.Unmarshal(body, &cached); err == nil {
				// Summary and raw query are per-request even on a cache hit
				cached.InterpretedIntent = userIntent
				cached.IntentSummary = s.extractor.Summary(ctx, userIntent)
				return &cached
			}
		}
	}

	var reference *model.Vehicle
	if userIntent.ReferenceVehicle != "" {
		if found, ok := s.catalog.FindReference(userIntent.ReferenceVehicle, s.cfg.Scoring.ReferenceMinScore); ok {
			reference = &found
		}
	}

	matches := s.engine.Rank(userIntent, s.catalog.Vehicles(), reference)
	if top := s.cfg.HTTP.TopMatches; top > 0 && len(matches) > top {
		matches = matches[:top]
	}
	s.attachListings(c, matches)

	resp := &SearchResponse{
		InterpretedIntent: userIntent,
		IntentSummary:     s.extractor.Summary(ctx, userIntent),
		Matches:           matches,
		Suggestions:       Suggestions(userIntent, matches),
	}

	if s.results != nil {
		if body, err := json.Marshal(resp); err == nil {
			_ = s.results.Set(key, body, s.cfg.Scoring.CacheTTL)
		}
	}
	return resp
}

// attachListings decorates matches with live listings; failures are logged
// and leave the match without listings
func (s *Server) attachListings(c echo.Context, matches []model.MatchResult) {
	if s.storage == nil {
		return
	}
	ctx := c.Request().Context()
	for i := range matches {
		listings, err := s.storage.ListByVehicle(ctx, matches[i].Vehicle.ID)
		if err != nil {
			s.logger.Warn("attach listings",
				zap.String("vehicle_id", matches[i].Vehicle.ID), zap.Error(err))
			continue
		}
		matches[i].Listings = listings
	}
}
