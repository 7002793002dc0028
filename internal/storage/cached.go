package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	gocache "github.com/patrickmn/go-cache"
)

// CachedBackend serves stats and company reads from a short-lived cache
// and flushes it on every write, so aggregate consistency survives the
// caching layer.
type CachedBackend struct {
	Backend
	cache *gocache.Cache
}

func NewCached(backend Backend) *CachedBackend {
	return &CachedBackend{
		Backend: backend,
		cache:   gocache.New(1*time.Minute, 5*time.Minute),
	}
}

func (c *CachedBackend) CreateJobSearch(ctx context.Context, search *entities.JobSearch,
	factors []entities.KeyFactor, metadata *entities.ParsingMetadata) (int64, error) {

	id, err := c.Backend.CreateJobSearch(ctx, search, factors, metadata)
	if err == nil {
		c.cache.Flush()
	}
	return id, err
}

func (c *CachedBackend) DeleteJobSearch(ctx context.Context, id int64) (bool, error) {
	deleted, err := c.Backend.DeleteJobSearch(ctx, id)
	if deleted {
		c.cache.Flush()
	}
	return deleted, err
}

func (c *CachedBackend) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	removed, err := c.Backend.DeleteOlderThan(ctx, cutoff)
	if removed > 0 {
		c.cache.Flush()
	}
	return removed, err
}

func (c *CachedBackend) GetCompany(ctx context.Context, name string) (*entities.Company, error) {
	key := "company:" + name
	if cached, found := c.cache.Get(key); found {
		return cached.(*entities.Company), nil
	}

	company, err := c.Backend.GetCompany(ctx, name)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, company)
	return company, nil
}

func (c *CachedBackend) GetAnalysisStats(ctx context.Context, daysBack int) (*entities.AnalysisStats, error) {
	key := "stats:" + strconv.Itoa(daysBack)
	if cached, found := c.cache.Get(key); found {
		return cached.(*entities.AnalysisStats), nil
	}

	result, err := c.Backend.GetAnalysisStats(ctx, daysBack)
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(key, result)
	return result, nil
}
