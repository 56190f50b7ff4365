// Package store is the Postgres persistence layer. Canonical vehicles and
// scraped listings live here; the in-memory catalog is loaded from this store
// at startup and after each ingestion run.
package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/motormatch/motormatch/internal/model"
)

// Store wraps the database handle and owns all SQL
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open connects to Postgres and configures the pool
func Open(cfg model.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	return New(db, logger), nil
}

// New wraps an existing handle; used by tests with sqlmock
func New(db *sqlx.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Close releases the connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies connectivity; the health endpoint calls this
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS vehicles (
		id                   TEXT PRIMARY KEY,
		make                 TEXT NOT NULL,
		model                TEXT NOT NULL,
		year                 INT NOT NULL,
		trim                 TEXT NOT NULL DEFAULT '',
		price_min            INT NOT NULL DEFAULT 0,
		price_max            INT NOT NULL DEFAULT 0,
		avg_price            INT NOT NULL DEFAULT 0,
		power_hp             INT NOT NULL DEFAULT 0,
		torque_lb_ft         INT NOT NULL DEFAULT 0,
		drivetrain           TEXT NOT NULL DEFAULT '',
		body_type            TEXT NOT NULL DEFAULT '',
		zero_to_sixty        DOUBLE PRECISION NOT NULL DEFAULT 0,
		reliability_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
		ownership_cost_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		fuel_economy_mpg     INT NOT NULL DEFAULT 0,
		driving_feel_tags    TEXT[] NOT NULL DEFAULT '{}',
		class_tags           TEXT[] NOT NULL DEFAULT '{}',
		emotional_tags       TEXT[] NOT NULL DEFAULT '{}',
		UNIQUE (make, model, year, trim)
	)`,
	`CREATE INDEX IF NOT EXISTS ix_vehicles_make_year ON vehicles (make, year)`,
	`CREATE TABLE IF NOT EXISTS listings (
		vin         TEXT PRIMARY KEY,
		make        TEXT NOT NULL,
		model       TEXT NOT NULL,
		year        INT NOT NULL,
		trim        TEXT NOT NULL DEFAULT '',
		price       INT,
		mileage     INT,
		city        TEXT NOT NULL DEFAULT '',
		state       TEXT NOT NULL DEFAULT '',
		dealer_name TEXT NOT NULL DEFAULT '',
		url         TEXT NOT NULL DEFAULT '',
		source      TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'active',
		vehicle_id  TEXT REFERENCES vehicles (id),
		confidence  DOUBLE PRECISION NOT NULL DEFAULT 0,
		tier        TEXT NOT NULL DEFAULT 'NONE',
		scraped_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS ix_listings_vehicle ON listings (vehicle_id)`,
	`CREATE INDEX IF NOT EXISTS ix_listings_make_model_year ON listings (make, model, year)`,
	`CREATE TABLE IF NOT EXISTS ingestion_runs (
		id               UUID PRIMARY KEY,
		source           TEXT NOT NULL,
		status           TEXT NOT NULL,
		started_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		finished_at      TIMESTAMPTZ,
		records_fetched  INT NOT NULL DEFAULT 0,
		records_ingested INT NOT NULL DEFAULT 0,
		records_failed   INT NOT NULL DEFAULT 0,
		notes            TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS waitlist (
		id         UUID PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		source     TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the schema if it does not exist
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	s.logger.Info("database schema ready")
	return nil
}
