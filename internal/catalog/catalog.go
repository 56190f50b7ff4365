// Package catalog holds the canonical vehicle knowledge base in memory. A
// Catalog is an immutable snapshot: loaded once from JSON or the database,
// then shared read-only by the resolver, the scoring engine, and the API.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/motormatch/motormatch/internal/model"
)

// Catalog is a read-only snapshot of the vehicle knowledge base
type Catalog struct {
	vehicles []model.Vehicle
	byID     map[string]model.Vehicle
}

// New builds a catalog from vehicles. The snapshot is sorted by ID so every
// consumer sees the same deterministic order.
func New(vehicles []model.Vehicle) *Catalog {
	sorted := append([]model.Vehicle(nil), vehicles...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[string]model.Vehicle, len(sorted))
	for _, v := range sorted {
		byID[v.ID] = v
	}

	return &Catalog{vehicles: sorted, byID: byID}
}

// LoadFile reads a catalog from a JSON file with a top-level "vehicles" array
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc struct {
		Vehicles []model.Vehicle `json:"vehicles"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return New(doc.Vehicles), nil
}

// Vehicles returns the full snapshot in ID order. Callers must not mutate it.
func (c *Catalog) Vehicles() []model.Vehicle {
	return c.vehicles
}

// Len returns the number of vehicles in the snapshot
func (c *Catalog) Len() int {
	return len(c.vehicles)
}

// ByID looks up a vehicle by its canonical ID
func (c *Catalog) ByID(id string) (model.Vehicle, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// FindReference resolves a free-text descriptor like "BMW 340i 2018" to a
// catalog vehicle by token scoring: make and model hits are worth 3, a year
// hit 2, a trim hit 1. Only matches at or above minScore count; ties keep the
// first vehicle in ID order.
func (c *Catalog) FindReference(reference string, minScore int) (model.Vehicle, bool) {
	if reference == "" {
		return model.Vehicle{}, false
	}
	if minScore <= 0 {
		minScore = 4
	}

	lower := strings.ToLower(reference)

	var best model.Vehicle
	bestScore := 0
	for _, v := range c.vehicles {
		score := 0
		if strings.Contains(lower, strings.ToLower(v.Make)) {
			score += 3
		}
		if strings.Contains(lower, strings.ToLower(v.Model)) {
			score += 3
		}
		if v.Year > 0 && strings.Contains(reference, strconv.Itoa(v.Year)) {
			score += 2
		}
		if v.Trim != "" && strings.Contains(lower, strings.ToLower(v.Trim)) {
			score += 1
		}
		if score > bestScore {
			bestScore = score
			best = v
		}
	}

	if bestScore >= minScore {
		return best, true
	}
	return model.Vehicle{}, false
}

// Range is an observed min/max pair
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FeatureStats summarizes the spread of numeric features across the catalog
type FeatureStats struct {
	Price       Range `json:"price"`
	Power       Range `json:"power"`
	Torque      Range `json:"torque"`
	ZeroToSixty Range `json:"zero_to_sixty"`
}

// Stats computes feature ranges over the snapshot. Empty catalogs return
// zero-valued stats.
func (c *Catalog) Stats() FeatureStats {
	var s FeatureStats
	for i, v := range c.vehicles {
		price := float64(v.AvgPrice)
		power := float64(v.PowerHP)
		torque := float64(v.TorqueLbFt)

		if i == 0 {
			s.Price = Range{price, price}
			s.Power = Range{power, power}
			s.Torque = Range{torque, torque}
			s.ZeroToSixty = Range{v.ZeroToSixty, v.ZeroToSixty}
			continue
		}
		s.Price = widen(s.Price, price)
		s.Power = widen(s.Power, power)
		s.Torque = widen(s.Torque, torque)
		s.ZeroToSixty = widen(s.ZeroToSixty, v.ZeroToSixty)
	}
	return s
}

func widen(r Range, v float64) Range {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
	return r
}
