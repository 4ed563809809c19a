package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const FPL_BOOTSTRAP_URL = "https://fantasy.premierleague.com/api/bootstrap-static/"

// RawRow is one JSON object from the bootstrap payload. Numbers are kept as
// json.Number until the table builder types them.
type RawRow map[string]any

// Bootstrap holds the three collections the dashboard reads from the
// bootstrap-static endpoint.
type Bootstrap struct {
	Elements     []RawRow `json:"elements"`
	Teams        []RawRow `json:"teams"`
	ElementTypes []RawRow `json:"element_types"`

	FetchedAt time.Time `json:"-"`
}

type Fetcher interface {
	Fetch(ctx context.Context) (*Bootstrap, error)
}

type FPLClient struct {
	http   *resty.Client
	url    string
	logger *slog.Logger
}

func NewFPLClient(url string, timeout time.Duration) *FPLClient {
	client := resty.New()
	client.SetHeader("Accept", "application/json")
	client.SetHeader("User-Agent", "fpl-scatter/1.0")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &FPLClient{
		http:   client,
		url:    url,
		logger: slog.With(slog.String("service", "fpl")),
	}
}

func (c *FPLClient) Fetch(ctx context.Context) (*Bootstrap, error) {
	start := time.Now()

	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s returned %s", ErrNetwork, c.url, resp.Status())
	}

	b, err := decodeBootstrap(resp.Body())
	if err != nil {
		return nil, err
	}
	b.FetchedAt = time.Now()

	c.logger.Info("Fetched bootstrap",
		slog.Int("players", len(b.Elements)),
		slog.Int("teams", len(b.Teams)),
		slog.Int("positions", len(b.ElementTypes)),
		slog.Duration("took", time.Since(start)))
	return b, nil
}

func decodeBootstrap(body []byte) (*Bootstrap, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var b Bootstrap
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if b.Elements == nil || b.Teams == nil || b.ElementTypes == nil {
		return nil, fmt.Errorf("%w: missing elements, teams or element_types", ErrParse)
	}
	return &b, nil
}

const bootstrapKey = "bootstrap"

// CachedFetcher memoizes one bootstrap payload for ttl. A ttl of zero keeps
// it until Refresh is called or the process exits. Once a payload has been
// fetched, a failed refetch serves the last good payload instead of an error.
type CachedFetcher struct {
	next   Fetcher
	cache  *expirable.LRU[string, *Bootstrap]
	mu     sync.Mutex
	last   *Bootstrap
	logger *slog.Logger
}

func NewCachedFetcher(next Fetcher, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{
		next:   next,
		cache:  expirable.NewLRU[string, *Bootstrap](1, nil, ttl),
		logger: slog.With(slog.String("service", "fpl_cache")),
	}
}

func (c *CachedFetcher) Fetch(ctx context.Context) (*Bootstrap, error) {
	if b, ok := c.cache.Get(bootstrapKey); ok {
		return b, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another caller may have filled the cache while we waited.
	if b, ok := c.cache.Get(bootstrapKey); ok {
		return b, nil
	}

	b, err := c.next.Fetch(ctx)
	if err != nil {
		if c.last == nil {
			return nil, err
		}
		// Re-cache the stale payload so the next attempt waits out a TTL.
		c.logger.Warn("Refetch failed, serving stale payload",
			slog.Time("fetched_at", c.last.FetchedAt),
			slog.Any("error", err))
		c.cache.Add(bootstrapKey, c.last)
		return c.last, nil
	}
	c.last = b
	c.cache.Add(bootstrapKey, b)
	return b, nil
}

// Refresh fetches a new payload and replaces the cached one. On failure the
// current payload, if any, stays cached.
func (c *CachedFetcher) Refresh(ctx context.Context) (*Bootstrap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.next.Fetch(ctx)
	if err != nil {
		c.logger.Warn("Refresh failed, keeping cached payload", slog.Any("error", err))
		return nil, err
	}
	c.last = b
	c.cache.Add(bootstrapKey, b)
	c.logger.Info("Bootstrap refreshed", slog.Time("fetched_at", b.FetchedAt))
	return b, nil
}
