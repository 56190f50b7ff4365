package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/motormatch/motormatch/internal/model"
)

// ErrNotFound is returned when a lookup matches no row
var ErrNotFound = errors.New("not found")

// vehicleRow maps the vehicles table; tag columns are Postgres text arrays
type vehicleRow struct {
	ID                 string         `db:"id"`
	Make               string         `db:"make"`
	Model              string         `db:"model"`
	Year               int            `db:"year"`
	Trim               string         `db:"trim"`
	PriceMin           int            `db:"price_min"`
	PriceMax           int            `db:"price_max"`
	AvgPrice           int            `db:"avg_price"`
	PowerHP            int            `db:"power_hp"`
	TorqueLbFt         int            `db:"torque_lb_ft"`
	Drivetrain         string         `db:"drivetrain"`
	BodyType           string         `db:"body_type"`
	ZeroToSixty        float64        `db:"zero_to_sixty"`
	ReliabilityScore   float64        `db:"reliability_score"`
	OwnershipCostScore float64        `db:"ownership_cost_score"`
	FuelEconomyMPG     int            `db:"fuel_economy_mpg"`
	DrivingFeelTags    pq.StringArray `db:"driving_feel_tags"`
	ClassTags          pq.StringArray `db:"class_tags"`
	EmotionalTags      pq.StringArray `db:"emotional_tags"`
}

func (r vehicleRow) toModel() model.Vehicle {
	return model.Vehicle{
		ID:                 r.ID,
		Make:               r.Make,
		Model:              r.Model,
		Year:               r.Year,
		Trim:               r.Trim,
		PriceRange:         model.PriceRange{Min: r.PriceMin, Max: r.PriceMax},
		AvgPrice:           r.AvgPrice,
		PowerHP:            r.PowerHP,
		TorqueLbFt:         r.TorqueLbFt,
		Drivetrain:         r.Drivetrain,
		BodyType:           r.BodyType,
		ZeroToSixty:        r.ZeroToSixty,
		ReliabilityScore:   r.ReliabilityScore,
		OwnershipCostScore: r.OwnershipCostScore,
		FuelEconomyMPG:     r.FuelEconomyMPG,
		DrivingFeelTags:    []string(r.DrivingFeelTags),
		ClassTags:          []string(r.ClassTags),
		EmotionalTags:      []string(r.EmotionalTags),
	}
}

const vehicleColumns = `id, make, model, year, trim,
	price_min, price_max, avg_price, power_hp, torque_lb_ft,
	drivetrain, body_type, zero_to_sixty,
	reliability_score, ownership_cost_score, fuel_economy_mpg,
	driving_feel_tags, class_tags, emotional_tags`

// UpsertVehicle inserts or updates a canonical vehicle by ID
func (s *Store) UpsertVehicle(ctx context.Context, v model.Vehicle) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vehicles (`+vehicleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		ON CONFLICT (id) DO UPDATE SET
			price_min = EXCLUDED.price_min,
			price_max = EXCLUDED.price_max,
			avg_price = EXCLUDED.avg_price,
			power_hp = EXCLUDED.power_hp,
			torque_lb_ft = EXCLUDED.torque_lb_ft,
			drivetrain = EXCLUDED.drivetrain,
			body_type = EXCLUDED.body_type,
			zero_to_sixty = EXCLUDED.zero_to_sixty,
			reliability_score = EXCLUDED.reliability_score,
			ownership_cost_score = EXCLUDED.ownership_cost_score,
			fuel_economy_mpg = EXCLUDED.fuel_economy_mpg,
			driving_feel_tags = EXCLUDED.driving_feel_tags,
			class_tags = EXCLUDED.class_tags,
			emotional_tags = EXCLUDED.emotional_tags`,
		v.ID, v.Make, v.Model, v.Year, v.Trim,
		v.PriceRange.Min, v.PriceRange.Max, v.AvgPrice, v.PowerHP, v.TorqueLbFt,
		v.Drivetrain, v.BodyType, v.ZeroToSixty,
		v.ReliabilityScore, v.OwnershipCostScore, v.FuelEconomyMPG,
		pq.StringArray(v.DrivingFeelTags), pq.StringArray(v.ClassTags), pq.StringArray(v.EmotionalTags))
	if err != nil {
		return fmt.Errorf("upsert vehicle %s: %w", v.ID, err)
	}
	return nil
}

// GetVehicle fetches one vehicle by ID
func (s *Store) GetVehicle(ctx context.Context, id string) (model.Vehicle, error) {
	var row vehicleRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Vehicle{}, fmt.Errorf("vehicle %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("get vehicle %s: %w", id, err)
	}
	return row.toModel(), nil
}

// ListVehicles returns the full catalog ordered by ID
func (s *Store) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	var rows []vehicleRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT `+vehicleColumns+` FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: %w", err)
	}

	vehicles := make([]model.Vehicle, len(rows))
	for i, r := range rows {
		vehicles[i] = r.toModel()
	}
	return vehicles, nil
}
