package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/motormatch/motormatch/internal/model"
)

const listingColumns = `vin, make, model, year, trim, price, mileage,
	city, state, dealer_name, url, source, status,
	vehicle_id, confidence, tier, scraped_at`

// UpsertListing inserts a listing or refreshes its market fields on re-scrape.
// Resolution columns are untouched on conflict so a re-scrape never clears an
// existing vehicle link.
func (s *Store) UpsertListing(ctx context.Context, l model.Listing) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO listings (vin, make, model, year, trim, price, mileage,
			city, state, dealer_name, url, source, status, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (vin) DO UPDATE SET
			price = EXCLUDED.price,
			mileage = EXCLUDED.mileage,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			dealer_name = EXCLUDED.dealer_name,
			url = EXCLUDED.url,
			status = EXCLUDED.status,
			scraped_at = EXCLUDED.scraped_at`,
		l.VIN, l.Make, l.Model, l.Year, l.Trim, l.Price, l.Mileage,
		l.City, l.State, l.DealerName, l.URL, l.Source, l.Status, l.ScrapedAt)
	if err != nil {
		return fmt.Errorf("upsert listing %s: %w", l.VIN, err)
	}
	return nil
}

// ListUnmatched returns active listings not yet linked to a vehicle
func (s *Store) ListUnmatched(ctx context.Context) ([]model.Listing, error) {
	var listings []model.Listing
	err := s.db.SelectContext(ctx, &listings,
		`SELECT `+listingColumns+` FROM listings
		 WHERE vehicle_id IS NULL AND status = 'active'
		 ORDER BY vin`)
	if err != nil {
		return nil, fmt.Errorf("list unmatched listings: %w", err)
	}
	return listings, nil
}

// ListAllActive returns every active listing; used when re-matching the whole
// table after a catalog update
func (s *Store) ListAllActive(ctx context.Context) ([]model.Listing, error) {
	var listings []model.Listing
	err := s.db.SelectContext(ctx, &listings,
		`SELECT `+listingColumns+` FROM listings
		 WHERE status = 'active'
		 ORDER BY vin`)
	if err != nil {
		return nil, fmt.Errorf("list active listings: %w", err)
	}
	return listings, nil
}

// ListByVehicle returns active listings linked to one canonical vehicle,
// cheapest first with unpriced listings last
func (s *Store) ListByVehicle(ctx context.Context, vehicleID string) ([]model.Listing, error) {
	var listings []model.Listing
	err := s.db.SelectContext(ctx, &listings,
		`SELECT `+listingColumns+` FROM listings
		 WHERE vehicle_id = $1 AND status = 'active'
		 ORDER BY price ASC NULLS LAST, vin`, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list listings for vehicle %s: %w", vehicleID, err)
	}
	return listings, nil
}

// ListRecentActive returns the freshest active listings across all sources
func (s *Store) ListRecentActive(ctx context.Context, limit int) ([]model.Listing, error) {
	if limit <= 0 {
		limit = 50
	}
	var listings []model.Listing
	err := s.db.SelectContext(ctx, &listings,
		`SELECT `+listingColumns+` FROM listings
		 WHERE status = 'active'
		 ORDER BY scraped_at DESC, vin
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent listings: %w", err)
	}
	return listings, nil
}

// ApplyResolution writes a resolver outcome back to one listing
func (s *Store) ApplyResolution(ctx context.Context, vin string, res model.ResolutionResult) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE listings SET vehicle_id = $2, confidence = $3, tier = $4
		WHERE vin = $1`,
		vin, res.VehicleID, res.Confidence, res.Tier)
	if err != nil {
		return fmt.Errorf("apply resolution for %s: %w", vin, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("apply resolution for %s: %w", vin, ErrNotFound)
	}
	return nil
}

// MarkMissingInactive flips listings from one source to stale when their VIN
// was absent from the latest scrape. Returns the number of listings flipped.
func (s *Store) MarkMissingInactive(ctx context.Context, source string, seenVINs []string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE listings SET status = 'stale'
		WHERE source = $1 AND status = 'active' AND NOT (vin = ANY($2))`,
		source, pq.StringArray(seenVINs))
	if err != nil {
		return 0, fmt.Errorf("mark missing listings inactive: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark missing listings inactive: %w", err)
	}
	return n, nil
}
