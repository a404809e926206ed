package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"ppa-simulator/internal/simulate"
	"ppa-simulator/internal/timeseries"
)

// cacheEntry holds one cached frame.
type cacheEntry struct {
	frame     *timeseries.Frame
	expiresAt time.Time
}

// CachedSource wraps a Source and caches the series that are shared across
// profiles in a batch: the price series is identical for every profile of a
// run, and profiles in the same region share a wind series. Load and master
// data are profile-specific and pass through uncached.
//
// Cached frames must be treated as read-only by consumers; the pipeline only
// derives new frames and never mutates its inputs.
type CachedSource struct {
	simulate.Source

	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

func NewCachedSource(src simulate.Source, ttl time.Duration) *CachedSource {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedSource{
		Source: src,
		store:  make(map[string]*cacheEntry),
		ttl:    ttl,
	}
}

func (c *CachedSource) FetchPrice(ctx context.Context, start, end time.Time) (*timeseries.Frame, error) {
	key := cacheKey("price", "", start, end)
	if f, ok := c.get(key); ok {
		return f, nil
	}
	f, err := c.Source.FetchPrice(ctx, start, end)
	if err != nil {
		return nil, err
	}
	c.set(key, f)
	return f, nil
}

func (c *CachedSource) FetchWindSpeed(ctx context.Context, regionID string, start, end time.Time) (*timeseries.Frame, error) {
	key := cacheKey("wind", regionID, start, end)
	if f, ok := c.get(key); ok {
		return f, nil
	}
	f, err := c.Source.FetchWindSpeed(ctx, regionID, start, end)
	if err != nil {
		return nil, err
	}
	c.set(key, f)
	return f, nil
}

func (c *CachedSource) get(key string) (*timeseries.Frame, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.frame, true
}

func (c *CachedSource) set(key string, frame *timeseries.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = &cacheEntry{
		frame:     frame,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *CachedSource) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*cacheEntry)
}

func cacheKey(kind, regionID string, start, end time.Time) string {
	keyStr := fmt.Sprintf("%s:%s:%s:%s",
		kind,
		regionID,
		start.Format(time.RFC3339),
		end.Format(time.RFC3339),
	)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
