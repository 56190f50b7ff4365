package ingest

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/motormatch/motormatch/internal/model"
)

// DealerSource scrapes a dealer inventory site that annotates its listing
// cards with data-* attributes (data-vin, data-make, data-price, ...). Pages
// are followed through rel="next" links up to maxPages.
type DealerSource struct {
	fetcher  *PageFetcher
	startURL string
	dealer   string
	maxPages int
}

// NewDealerSource creates a scraping source rooted at an inventory URL
func NewDealerSource(fetcher *PageFetcher, startURL, dealerName string, maxPages int) *DealerSource {
	if maxPages <= 0 {
		maxPages = 20
	}
	return &DealerSource{
		fetcher:  fetcher,
		startURL: startURL,
		dealer:   dealerName,
		maxPages: maxPages,
	}
}

// Name returns the source identifier
func (s *DealerSource) Name() string { return "dealer" }

// Fetch walks the inventory pages and extracts listings
func (s *DealerSource) Fetch(ctx context.Context) (*Payload, error) {
	payload := &Payload{}
	pageURL := s.startURL

	for page := 0; page < s.maxPages && pageURL != ""; page++ {
		body, err := s.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("dealer page %s: %w", pageURL, err)
		}

		listings, next, err := parseInventoryPage(body, pageURL)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", pageURL, err)
		}

		now := time.Now().UTC()
		for i := range listings {
			listings[i].Source = s.Name()
			listings[i].DealerName = s.dealer
			listings[i].Status = "active"
			listings[i].ScrapedAt = now
		}
		payload.Listings = append(payload.Listings, listings...)
		pageURL = next
	}

	return payload, nil
}

// parseInventoryPage extracts listing cards and the next-page link.
// Returned URLs are resolved against the page URL.
func parseInventoryPage(body []byte, pageURL string) ([]model.Listing, string, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("parse html: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse page url: %w", err)
	}

	var listings []model.Listing
	var next string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if vin := attr(n, "data-vin"); vin != "" {
				listings = append(listings, listingFromCard(n, vin, base))
			}
			if n.Data == "a" && attr(n, "rel") == "next" {
				if href := attr(n, "href"); href != "" && next == "" {
					if resolved, err := base.Parse(href); err == nil {
						next = resolved.String()
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return listings, next, nil
}

func listingFromCard(n *html.Node, vin string, base *url.URL) model.Listing {
	l := model.Listing{
		VIN:   strings.ToUpper(strings.TrimSpace(vin)),
		Make:  attr(n, "data-make"),
		Model: attr(n, "data-model"),
		Trim:  attr(n, "data-trim"),
		City:  attr(n, "data-city"),
		State: attr(n, "data-state"),
	}

	if year, err := strconv.Atoi(attr(n, "data-year")); err == nil {
		l.Year = year
	}
	if price, err := strconv.Atoi(attr(n, "data-price")); err == nil {
		l.Price = &price
	}
	if mileage, err := strconv.Atoi(attr(n, "data-mileage")); err == nil {
		l.Mileage = &mileage
	}
	if href := attr(n, "data-url"); href != "" {
		if resolved, err := base.Parse(href); err == nil {
			l.URL = resolved.String()
		}
	}
	return l
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
