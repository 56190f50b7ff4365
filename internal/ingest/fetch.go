package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"

	"github.com/motormatch/motormatch/internal/cache"
)

// ErrRobotsDisallowed is returned when robots.txt blocks a URL
var ErrRobotsDisallowed = fmt.Errorf("disallowed by robots.txt")

// PageFetcher retrieves dealer HTML pages politely: robots.txt is honored,
// requests are rate limited per host, and bodies are cached so repeated runs
// against the same inventory don't re-download unchanged pages.
type PageFetcher struct {
	client    *http.Client
	userAgent string
	maxBytes  int64

	limiters map[string]*rate.Limiter
	robots   map[string]*robotstxt.RobotsData
	mu       sync.Mutex

	rps   rate.Limit
	burst int

	pages    cache.Cache
	cacheTTL time.Duration
}

// NewPageFetcher creates a fetcher. The cache may be nil to disable caching.
func NewPageFetcher(userAgent string, timeout time.Duration, rps float64, burst int, pages cache.Cache, cacheTTL time.Duration) *PageFetcher {
	if burst <= 0 {
		burst = 2
	}
	return &PageFetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  2 << 20,
		limiters:  make(map[string]*rate.Limiter),
		robots:    make(map[string]*robotstxt.RobotsData),
		rps:       rate.Limit(rps),
		burst:     burst,
		pages:     pages,
		cacheTTL:  cacheTTL,
	}
}

// Fetch returns the page body for a URL, from cache when possible
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	if f.pages != nil {
		if body, found := f.pages.Get(cache.PageKey(rawURL)); found {
			return body, nil
		}
	}

	allowed, crawlDelay, err := f.canFetch(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%s: %w", rawURL, ErrRobotsDisallowed)
	}

	if err := f.limiter(parsed.Host).Wait(ctx); err != nil {
		return nil, err
	}
	if crawlDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(crawlDelay):
		}
	}

	body, err := f.download(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.pages != nil {
		_ = f.pages.Set(cache.PageKey(rawURL), body, f.cacheTTL)
	}
	return body, nil
}

func (f *PageFetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// canFetch consults robots.txt for the URL's host, caching per host.
// An unreachable robots.txt allows fetching.
func (f *PageFetcher) canFetch(ctx context.Context, u *url.URL) (bool, time.Duration, error) {
	data, err := f.robotsData(ctx, u)
	if err != nil {
		return true, 0, nil
	}

	allowed := data.TestAgent(u.Path, f.userAgent)
	var crawlDelay time.Duration
	if group := data.FindGroup(f.userAgent); group != nil {
		crawlDelay = group.CrawlDelay
	}
	return allowed, crawlDelay, nil
}

func (f *PageFetcher) robotsData(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	f.mu.Lock()
	data, ok := f.robots[u.Host]
	f.mu.Unlock()
	if ok {
		return data, nil
	}

	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	data, err = robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	f.mu.Lock()
	f.robots[u.Host] = data
	f.mu.Unlock()
	return data, nil
}

func (f *PageFetcher) limiter(host string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	if l, ok := f.limiters[host]; ok {
		return l
	}
	l := rate.NewLimiter(f.rps, f.burst)
	f.limiters[host] = l
	return l
}
