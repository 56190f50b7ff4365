// Package ingest acquires listings from external sources and records each
// pass in the store. Sources return raw payloads; the resolver links them to
// catalog vehicles in a separate step.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/motormatch/motormatch/internal/model"
)

// Payload is one source's fetch result. Vehicles are optional; most live
// sources only carry listings.
type Payload struct {
	Vehicles []model.Vehicle `json:"vehicles"`
	Listings []model.Listing `json:"listings"`
}

// Source produces one payload per fetch
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*Payload, error)
}

// FileSource reads a payload from a local JSON file. Used for development
// and for seeding the catalog without hitting a paid API.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by a JSON file
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the source identifier
func (s *FileSource) Name() string { return "file" }

// Fetch reads and decodes the payload file
func (s *FileSource) Fetch(ctx context.Context) (*Payload, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read payload file: %w", err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse payload file %s: %w", s.path, err)
	}

	for i := range payload.Listings {
		if payload.Listings[i].Source == "" {
			payload.Listings[i].Source = s.Name()
		}
		if payload.Listings[i].Status == "" {
			payload.Listings[i].Status = "active"
		}
	}
	return &payload, nil
}
