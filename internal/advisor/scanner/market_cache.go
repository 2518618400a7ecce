package scanner

import (
	"context"
	"sync"
	"time"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/repository"
	"go-options-advisor/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const (
	conditionsKeyPrefix = "cond:"
	priceKeyPrefix      = "px:"
)

// SnapshotCache bounds redundant market-context lookups within one scan
// pass. One instance is constructed per scan invocation; concurrent scans
// must not share one.
type SnapshotCache struct {
	marketData repository.MarketDataRepository
	logger     *logger.Logger
	entries    *cache.Cache

	mu       sync.Mutex
	inflight map[string]chan struct{}
}

// NewSnapshotCache creates a cache with the given entry TTL.
func NewSnapshotCache(marketData repository.MarketDataRepository, log *logger.Logger, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		marketData: marketData,
		logger:     log,
		entries:    cache.New(ttl, 2*ttl),
		inflight:   make(map[string]chan struct{}),
	}
}

// Conditions returns the market conditions for a symbol, fetching on first
// access within the pass. Upstream failures degrade to conservative defaults
// rather than propagating; an empty symbol gets defaults without a fetch.
func (c *SnapshotCache) Conditions(ctx context.Context, symbol string) dto.MarketConditions {
	if symbol == "" {
		return dto.DefaultMarketConditions()
	}

	v := c.getOrFetch(ctx, conditionsKeyPrefix+symbol, func() interface{} {
		cond, err := c.marketData.GetMarketConditions(ctx, symbol)
		if err != nil {
			c.logger.Warn("Failed to fetch market conditions, using defaults",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
			return dto.DefaultMarketConditions()
		}
		return cond
	})

	cond, ok := v.(dto.MarketConditions)
	if !ok {
		return dto.DefaultMarketConditions()
	}
	return cond
}

// UnderlyingPrice returns the cached underlying quote for a symbol, or 0
// when no quote is available.
func (c *SnapshotCache) UnderlyingPrice(ctx context.Context, symbol string) float64 {
	if symbol == "" {
		return 0
	}

	v := c.getOrFetch(ctx, priceKeyPrefix+symbol, func() interface{} {
		price, err := c.marketData.GetUnderlyingPrice(ctx, symbol)
		if err != nil {
			c.logger.Warn("Failed to fetch underlying price",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err))
			return float64(0)
		}
		return price
	})

	price, ok := v.(float64)
	if !ok {
		return 0
	}
	return price
}

// Clear drops every cached entry. Callers reset the cache between
// independent runs instead of letting entries leak across scans.
func (c *SnapshotCache) Clear() {
	c.entries.Flush()
}

// getOrFetch returns the cached value for key or runs fetch exactly once per
// key, even under concurrent access. Distinct keys fetch in parallel; callers
// asking for the same key wait for the single in-flight fetch.
func (c *SnapshotCache) getOrFetch(ctx context.Context, key string, fetch func() interface{}) interface{} {
	for {
		if v, found := c.entries.Get(key); found {
			return v
		}

		c.mu.Lock()
		if v, found := c.entries.Get(key); found {
			c.mu.Unlock()
			return v
		}
		if done, ok := c.inflight[key]; ok {
			c.mu.Unlock()
			select {
			case <-done:
				continue
			case <-ctx.Done():
				return nil
			}
		}
		done := make(chan struct{})
		c.inflight[key] = done
		c.mu.Unlock()

		v := fetch()

		c.mu.Lock()
		c.entries.Set(key, v, cache.DefaultExpiration)
		delete(c.inflight, key)
		close(done)
		c.mu.Unlock()

		return v
	}
}
