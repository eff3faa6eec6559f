package emotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Catalog mirrors the remote emote catalog into an in-process name set. It is
// the validation collaborator for embedded tokens: the relay only ever asks
// "is this token name known", never fetches emote content.
//
// Lookups are served from the cache alone; refreshes happen on their own
// goroutine so a catalog outage can never stall message validation.
type Catalog struct {
	url    string
	ttl    time.Duration
	client *http.Client
	log    zerolog.Logger
	mu     sync.RWMutex
	names  map[string]struct{}
}

// New builds a catalog client. An empty URL disables the catalog: every token
// is then unknown and never counts toward the ceiling.
func New(url string, ttl time.Duration, logger *zerolog.Logger) *Catalog {
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Catalog{
		url:    url,
		ttl:    ttl,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    lg,
		names:  make(map[string]struct{}),
	}
}

// Has reports whether the catalog knows the token name. Cache-only, never
// blocks on the network.
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.names[name]
	return ok
}

// Run refreshes the cache on the TTL interval until ctx is canceled. A failed
// refresh keeps the previous set.
func (c *Catalog) Run(ctx context.Context) {
	if c.url == "" {
		return
	}
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn().Err(err).Msg("initial emote catalog fetch failed")
	}

	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.log.Warn().Err(err).Msg("emote catalog refresh failed")
			}
		}
	}
}

// Refresh fetches the catalog once and swaps the cached name set.
func (c *Catalog) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return fmt.Errorf("build catalog request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch catalog: unexpected status %d", resp.StatusCode)
	}

	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return fmt.Errorf("decode catalog: %w", err)
	}

	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if e.Name != "" {
			names[e.Name] = struct{}{}
		}
	}

	c.mu.Lock()
	c.names = names
	c.mu.Unlock()

	c.log.Debug().Int("emotes", len(names)).Msg("emote catalog refreshed")
	return nil
}

// Size returns the number of cached emote names.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}
