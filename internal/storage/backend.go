package storage

import (
	"context"
	"errors"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
)

var (
	// ErrNotFound is returned for get/delete on an unknown id.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable wraps connectivity failures and remote timeouts so
	// callers can decide between surfacing 503 and falling back.
	ErrUnavailable = errors.New("storage unavailable")
)

const DefaultPageSize = 20

// Backend is the persistence capability every store implements. All
// writes keep company rollups consistent with the job search collection
// before they return: a successful create or delete is immediately
// visible in aggregate reads.
type Backend interface {
	// CreateJobSearch persists a search with its owned children. The URL
	// is an idempotency key: resubmitting an existing URL returns the
	// existing id without touching aggregates.
	CreateJobSearch(ctx context.Context, search *entities.JobSearch, factors []entities.KeyFactor,
		metadata *entities.ParsingMetadata) (int64, error)

	GetJobSearch(ctx context.Context, id int64) (*entities.AnalysisDetail, error)

	ListJobSearches(ctx context.Context, filters entities.AnalysisFilters, page, pageSize int,
		orderBy entities.OrderColumn, orderDesc bool) (*entities.HistoryPage, error)

	// DeleteJobSearch cascades to key factors and parsing metadata and
	// reports whether a record existed.
	DeleteJobSearch(ctx context.Context, id int64) (bool, error)

	GetCompany(ctx context.Context, name string) (*entities.Company, error)

	// ListCompanyInsights returns companies with at least minPosts
	// analyses, ordered by ghost rate descending then post count descending.
	ListCompanyInsights(ctx context.Context, minPosts int) ([]entities.CompanyInsight, error)

	GetAnalysisStats(ctx context.Context, daysBack int) (*entities.AnalysisStats, error)

	// DeleteOlderThan removes searches analyzed before cutoff and returns
	// how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// HealthCheck never fails; trouble is reported inside the result.
	HealthCheck(ctx context.Context) *entities.HealthReport

	Name() string
}
