package storage_test

import (
	"context"
	"testing"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/storage"
	"github.com/maxaizer/ghost-detector/internal/storage/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingBackend struct {
	storage.Backend
	companyReads int
	statsReads   int
}

func (c *countingBackend) GetCompany(ctx context.Context, name string) (*entities.Company, error) {
	c.companyReads++
	return c.Backend.GetCompany(ctx, name)
}

func (c *countingBackend) GetAnalysisStats(ctx context.Context, daysBack int) (*entities.AnalysisStats, error) {
	c.statsReads++
	return c.Backend.GetAnalysisStats(ctx, daysBack)
}

func createSearch(t *testing.T, backend storage.Backend, url string) {
	t.Helper()
	search, err := entities.NewJobSearch(url, entities.PlatformLinkedIn, "Engineer", "TechCorp", nil, 0.8, 0.9)
	require.NoError(t, err)
	_, err = backend.CreateJobSearch(context.Background(), search, nil, nil)
	require.NoError(t, err)
}

func Test_CachedBackend_ServesRepeatReadsFromCache(t *testing.T) {

	counting := &countingBackend{Backend: memstore.New()}
	cached := storage.NewCached(counting)
	ctx := context.Background()

	createSearch(t, cached, "https://linkedin.com/jobs/1")

	_, err := cached.GetCompany(ctx, "TechCorp")
	require.NoError(t, err)
	_, err = cached.GetCompany(ctx, "TechCorp")
	require.NoError(t, err)
	assert.Equal(t, 1, counting.companyReads)

	_, err = cached.GetAnalysisStats(ctx, 30)
	require.NoError(t, err)
	_, err = cached.GetAnalysisStats(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, counting.statsReads)
}

func Test_CachedBackend_WritesFlushTheCache(t *testing.T) {

	counting := &countingBackend{Backend: memstore.New()}
	cached := storage.NewCached(counting)
	ctx := context.Background()

	createSearch(t, cached, "https://linkedin.com/jobs/2")

	_, err := cached.GetCompany(ctx, "TechCorp")
	require.NoError(t, err)

	createSearch(t, cached, "https://linkedin.com/jobs/3")

	company, err := cached.GetCompany(ctx, "TechCorp")
	require.NoError(t, err)
	assert.Equal(t, 2, counting.companyReads)
	assert.Equal(t, 2, company.TotalPosts)
}
