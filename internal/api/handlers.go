package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/motormatch/motormatch/internal/store"
)

func (s *Server) handleVehicles(c echo.Context) error {
	return c.JSON(http.StatusOK, s.catalog.Vehicles())
}

func (s *Server) handleVehicle(c echo.Context) error {
	vehicle, ok := s.catalog.ByID(c.Param("id"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "vehicle not found")
	}

	response := echo.Map{"vehicle": vehicle}
	if s.storage != nil {
		listings, err := s.storage.ListByVehicle(c.Request().Context(), vehicle.ID)
		if err == nil {
			response["listings"] = listings
		}
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) handleLiveListings(c echo.Context) error {
	if s.storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store not configured")
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}

	listings, err := s.storage.ListRecentActive(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list listings failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listings})
}

func (s *Server) handleIngestionRuns(c echo.Context) error {
	if s.storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store not configured")
	}

	runs, err := s.storage.ListRuns(c.Request().Context(), 25)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list runs failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"runs": runs})
}

type waitlistRequest struct {
	Email  string `json:"email" form:"email"`
	Source string `json:"source" form:"source"`
}

func (s *Server) handleWaitlist(c echo.Context) error {
	if s.storage == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store not configured")
	}

	var req waitlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "landing"
	}

	err := s.storage.AddToWaitlist(c.Request().Context(), email, source)
	if errors.Is(err, store.ErrDuplicateEmail) {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "added": false})
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "waitlist signup failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "added": true})
}
