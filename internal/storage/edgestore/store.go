package edgestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/stats"
	"github.com/maxaizer/ghost-detector/internal/storage"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
)

const (
	datasetKey     = "ghost-detector:dataset"
	requestTimeout = 5 * time.Second
)

// Store keeps the whole dataset in a single remote document and
// read-modify-writes it on every mutation. Concurrent writers race on
// the document (last write wins); serialize writes externally before
// pointing concurrent traffic at this backend.
type Store struct {
	client *redis.Client
}

// Open parses the URL and verifies connectivity.
func Open(ctx context.Context, storeURL string) (*Store, error) {
	opts, err := redis.ParseURL(storeURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", storeURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: ping failed: %v", storage.ErrUnavailable, err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Name() string {
	return "edge"
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) load(ctx context.Context) (*document, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	raw, err := s.client.Get(ctx, datasetKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return newDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load dataset: %v", storage.ErrUnavailable, err)
	}

	doc := newDocument()
	if err = json.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return doc, nil
}

func (s *Store) save(ctx context.Context, doc *document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	if err = s.client.Set(ctx, datasetKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("%w: save dataset: %v", storage.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) CreateJobSearch(ctx context.Context, search *entities.JobSearch,
	factors []entities.KeyFactor, metadata *entities.ParsingMetadata) (int64, error) {

	if err := search.Validate(); err != nil {
		return 0, err
	}
	for i := range factors {
		if err := factors[i].Validate(); err != nil {
			return 0, err
		}
	}

	doc, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	if existing, found := doc.findByURL(search.URL); found {
		return existing.ID, nil
	}

	id := doc.insert(*search, factors, metadata, time.Now())
	if err = s.save(ctx, doc); err != nil {
		return 0, err
	}

	search.ID = id
	return id, nil
}

func (s *Store) GetJobSearch(ctx context.Context, id int64) (*entities.AnalysisDetail, error) {

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	search, ok := doc.JobSearches[docKey(id)]
	if !ok {
		return nil, storage.ErrNotFound
	}

	detail := &entities.AnalysisDetail{
		JobSearch:  search,
		KeyFactors: doc.factorsFor(id),
	}
	if metadata, ok := doc.ParsingMetadata[docKey(id)]; ok {
		detail.ParsingMetadata = &metadata
	}
	if company, ok := doc.Companies[search.Company]; ok {
		detail.CompanyInfo = &company
	}
	return detail, nil
}

func (s *Store) ListJobSearches(ctx context.Context, filters entities.AnalysisFilters,
	page, pageSize int, orderBy entities.OrderColumn, orderDesc bool) (*entities.HistoryPage, error) {

	if err := filters.Validate(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = storage.DefaultPageSize
	}

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	riskOf := func(company string) entities.RiskLevel {
		if c, ok := doc.Companies[company]; ok {
			return c.RiskLevel
		}
		return entities.RiskUnknown
	}

	matching := lo.Filter(lo.Values(doc.JobSearches), func(search entities.JobSearch, _ int) bool {
		return storage.Matches(search, filters, riskOf)
	})

	storage.SortSearches(matching, orderBy, orderDesc)
	pageItems := storage.Paginate(matching, page, pageSize)

	analyses := lo.Map(pageItems, func(search entities.JobSearch, _ int) entities.AnalysisDetail {
		return entities.AnalysisDetail{
			JobSearch:  search,
			KeyFactors: doc.factorsFor(search.ID),
		}
	})

	return &entities.HistoryPage{
		TotalCount: int64(len(matching)),
		Page:       page,
		PageSize:   pageSize,
		Analyses:   analyses,
	}, nil
}

func (s *Store) DeleteJobSearch(ctx context.Context, id int64) (bool, error) {

	doc, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	if !doc.delete(id, time.Now()) {
		return false, nil
	}

	if err = s.save(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {

	doc, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	removed := doc.deleteOlderThan(cutoff, time.Now())
	if removed == 0 {
		return 0, nil
	}

	if err = s.save(ctx, doc); err != nil {
		return 0, err
	}
	return removed, nil
}

func (s *Store) GetCompany(ctx context.Context, name string) (*entities.Company, error) {

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	company, ok := doc.Companies[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &company, nil
}

func (s *Store) ListCompanyInsights(ctx context.Context, minPosts int) ([]entities.CompanyInsight, error) {

	if minPosts < 1 {
		minPosts = 1
	}

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	companies := lo.Filter(lo.Values(doc.Companies), func(c entities.Company, _ int) bool {
		return c.TotalPosts >= minPosts
	})
	storage.SortByGhostRate(companies)

	return lo.Map(companies, func(c entities.Company, _ int) entities.CompanyInsight {
		return entities.CompanyInsight{
			CompanyName:         c.CompanyName,
			TotalPosts:          c.TotalPosts,
			GhostPosts:          c.GhostPosts,
			AvgGhostProbability: stats.Round3(c.AvgGhostProbability),
			GhostJobRate:        stats.Round3(float64(c.GhostPosts) / float64(c.TotalPosts)),
			RiskLevel:           c.RiskLevel,
			FirstSeen:           c.FirstSeen,
			LastUpdated:         c.LastUpdated,
		}
	}), nil
}

func (s *Store) GetAnalysisStats(ctx context.Context, daysBack int) (*entities.AnalysisStats, error) {

	if daysBack <= 0 {
		daysBack = 30
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	doc, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	windowed := lo.Filter(lo.Values(doc.JobSearches), func(search entities.JobSearch, _ int) bool {
		return !search.AnalysisDate.Before(cutoff)
	})

	return stats.Compute(windowed, lo.Values(doc.Companies), time.Now()), nil
}

func (s *Store) HealthCheck(ctx context.Context) *entities.HealthReport {

	report := &entities.HealthReport{
		Backend:   s.Name(),
		LastCheck: time.Now(),
	}

	doc, err := s.load(ctx)
	if err != nil {
		report.Status = "unhealthy"
		report.Error = err.Error()
		return report
	}

	report.Status = "healthy"
	report.JobSearches = int64(len(doc.JobSearches))
	report.Companies = int64(len(doc.Companies))
	report.KeyFactors = int64(len(doc.KeyFactors))
	for _, search := range doc.JobSearches {
		if search.AnalysisDate.After(time.Now().Add(-24 * time.Hour)) {
			report.RecentAnalyses24h++
		}
	}
	return report
}
