package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/motormatch/motormatch/internal/model"
)

// MarketcheckSource pulls active listings from the Marketcheck search API,
// paging until the API runs dry or the page cap is hit
type MarketcheckSource struct {
	client   *http.Client
	limiter  *rate.Limiter
	baseURL  string
	apiKey   string
	pageSize int
	maxPages int
}

// NewMarketcheckSource creates the source from ingest configuration
func NewMarketcheckSource(cfg model.IngestConfig) (*MarketcheckSource, error) {
	if cfg.MarketcheckAPIKey == "" {
		return nil, fmt.Errorf("marketcheck api key is not configured")
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 20
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	return &MarketcheckSource{
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		baseURL:  cfg.MarketcheckURL,
		apiKey:   cfg.MarketcheckAPIKey,
		pageSize: pageSize,
		maxPages: maxPages,
	}, nil
}

// Name returns the source identifier
func (s *MarketcheckSource) Name() string { return "marketcheck" }

// marketcheckResponse is the subset of the search API response we use
type marketcheckResponse struct {
	NumFound int                  `json:"num_found"`
	Listings []marketcheckListing `json:"listings"`
}

type marketcheckListing struct {
	VIN    string `json:"vin"`
	Price  *int   `json:"price"`
	Miles  *int   `json:"miles"`
	VDPURL string `json:"vdp_url"`
	Build  struct {
		Year  int    `json:"year"`
		Make  string `json:"make"`
		Model string `json:"model"`
		Trim  string `json:"trim"`
	} `json:"build"`
	Dealer struct {
		Name  string `json:"name"`
		City  string `json:"city"`
		State string `json:"state"`
	} `json:"dealer"`
}

// Fetch pages through the search endpoint and maps results to listings
func (s *MarketcheckSource) Fetch(ctx context.Context) (*Payload, error) {
	payload := &Payload{}
	now := time.Now().UTC()

	for page := 0; page < s.maxPages; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := s.fetchPage(ctx, page*s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("marketcheck page %d: %w", page, err)
		}

		for _, raw := range resp.Listings {
			if raw.VIN == "" {
				continue
			}
			payload.Listings = append(payload.Listings, model.Listing{
				VIN:        raw.VIN,
				Make:       raw.Build.Make,
				Model:      raw.Build.Model,
				Year:       raw.Build.Year,
				Trim:       raw.Build.Trim,
				Price:      raw.Price,
				Mileage:    raw.Miles,
				City:       raw.Dealer.City,
				State:      raw.Dealer.State,
				DealerName: raw.Dealer.Name,
				URL:        raw.VDPURL,
				Source:     s.Name(),
				Status:     "active",
				ScrapedAt:  now,
			})
		}

		if len(resp.Listings) < s.pageSize || len(payload.Listings) >= resp.NumFound {
			break
		}
	}

	return payload, nil
}

func (s *MarketcheckSource) fetchPage(ctx context.Context, start int) (*marketcheckResponse, error) {
	params := url.Values{}
	params.Set("api_key", s.apiKey)
	params.Set("country", "US")
	params.Set("rows", strconv.Itoa(s.pageSize))
	params.Set("start", strconv.Itoa(start))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var decoded marketcheckResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &decoded, nil
}
