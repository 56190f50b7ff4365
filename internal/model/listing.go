package model

import "time"

// Listing is a raw scraped for-sale record keyed by VIN. Make/model/year/trim
// arrive as scraped, unnormalized; the resolver links the listing to a
// canonical Vehicle and writes VehicleID/Confidence/Tier back through the
// store. The ingestion layer refreshes price/mileage/status on re-scrape.
type Listing struct {
	VIN   string `json:"vin" db:"vin"`
	Make  string `json:"make" db:"make"`
	Model string `json:"model" db:"model"`
	Year  int    `json:"year" db:"year"`
	Trim  string `json:"trim,omitempty" db:"trim"`

	Price   *int `json:"price,omitempty" db:"price"`
	Mileage *int `json:"mileage,omitempty" db:"mileage"`

	City       string `json:"city,omitempty" db:"city"`
	State      string `json:"state,omitempty" db:"state"`
	DealerName string `json:"dealer_name,omitempty" db:"dealer_name"`
	URL        string `json:"url,omitempty" db:"url"`
	Source     string `json:"source" db:"source"`
	Status     string `json:"status" db:"status"` // active, sold, stale

	// Resolution outcome, persisted by the resolver's caller.
	VehicleID  *string `json:"vehicle_id,omitempty" db:"vehicle_id"`
	Confidence float64 `json:"confidence" db:"confidence"`
	Tier       Tier    `json:"tier" db:"tier"`

	ScrapedAt time.Time `json:"scraped_at" db:"scraped_at"`
}
