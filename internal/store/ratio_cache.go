package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wonny/ratioservice/internal/contracts"
	"github.com/wonny/ratioservice/pkg/logger"
	"github.com/wonny/ratioservice/pkg/redis"
)

// RatioCache implements contracts.RatioCache: redis in front of financial_ratios.
// The database is authoritative; redis failures only cost a round trip.
type RatioCache struct {
	repo   contracts.RatioRepository
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewRatioCache creates a read-through ratio cache
func NewRatioCache(repo contracts.RatioRepository, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *RatioCache {
	if ttl <= 0 {
		ttl = redis.TTLDaily
	}
	return &RatioCache{
		repo:   repo,
		cache:  cache,
		ttl:    ttl,
		logger: log.Module("ratio_cache"),
	}
}

// Get serves every year from redis when possible, otherwise reads the database
// and backfills redis with what it found
func (c *RatioCache) Get(ctx context.Context, corpCode string, years []string) ([]contracts.CachedRatioRecord, error) {
	if records, ok := c.fromRedis(ctx, corpCode, years); ok {
		return records, nil
	}

	records, err := c.repo.FetchCachedRatios(ctx, corpCode, years)
	if err != nil {
		return nil, err
	}

	for _, rec := range records {
		c.setRedis(ctx, rec)
	}
	return records, nil
}

// Put upserts into the database, then refreshes redis
func (c *RatioCache) Put(ctx context.Context, record contracts.CachedRatioRecord) error {
	if err := c.repo.UpsertRatioRecord(ctx, record); err != nil {
		return err
	}
	c.setRedis(ctx, record)
	return nil
}

func (c *RatioCache) fromRedis(ctx context.Context, corpCode string, years []string) ([]contracts.CachedRatioRecord, bool) {
	if c.cache == nil || !c.cache.Enabled() || len(years) == 0 {
		return nil, false
	}

	keys := make([]string, len(years))
	for i, y := range years {
		keys[i] = redis.RatioKey(corpCode, y)
	}

	found, err := c.cache.GetMany(ctx, keys)
	if err != nil {
		c.logger.WithError(err).Warn("Redis ratio lookup failed")
		return nil, false
	}
	if len(found) != len(keys) {
		return nil, false
	}

	records := make([]contracts.CachedRatioRecord, 0, len(keys))
	for _, key := range keys {
		var rec contracts.CachedRatioRecord
		if err := json.Unmarshal(found[key], &rec); err != nil {
			c.logger.WithError(err).WithField("key", key).Warn("Corrupt ratio cache entry")
			return nil, false
		}
		records = append(records, rec)
	}
	return records, true
}

func (c *RatioCache) setRedis(ctx context.Context, rec contracts.CachedRatioRecord) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, redis.RatioKey(rec.CompanyCode, rec.FiscalYear), rec, c.ttl); err != nil {
		c.logger.WithError(err).WithField("bsns_year", rec.FiscalYear).Warn("Failed to refresh ratio cache")
	}
}
