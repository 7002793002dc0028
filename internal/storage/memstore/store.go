package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/stats"
	"github.com/maxaizer/ghost-detector/internal/storage"
	"github.com/samber/lo"
)

// Store is the volatile fallback used when neither external backend is
// reachable. Same contract, process-lifetime only.
type Store struct {
	mu           sync.RWMutex
	searches     map[int64]entities.JobSearch
	factors      map[int64][]entities.KeyFactor
	metadata     map[int64]entities.ParsingMetadata
	companies    map[string]entities.Company
	nextID       int64
	nextFactorID int64
}

func New() *Store {
	return &Store{
		searches:  map[int64]entities.JobSearch{},
		factors:   map[int64][]entities.KeyFactor{},
		metadata:  map[int64]entities.ParsingMetadata{},
		companies: map[string]entities.Company{},
	}
}

func (s *Store) Name() string {
	return "memory"
}

func (s *Store) CreateJobSearch(_ context.Context, search *entities.JobSearch,
	factors []entities.KeyFactor, metadata *entities.ParsingMetadata) (int64, error) {

	if err := search.Validate(); err != nil {
		return 0, err
	}
	for i := range factors {
		if err := factors[i].Validate(); err != nil {
			return 0, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.searches {
		if existing.URL == search.URL {
			return existing.ID, nil
		}
	}

	s.nextID++
	record := *search
	record.ID = s.nextID
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.AnalysisDate.IsZero() {
		record.AnalysisDate = now
	}
	s.searches[record.ID] = record
	search.ID = record.ID

	stored := make([]entities.KeyFactor, len(factors))
	for i, factor := range factors {
		s.nextFactorID++
		factor.ID = s.nextFactorID
		factor.SearchID = record.ID
		factor.CreatedAt = now
		stored[i] = factor
	}
	s.factors[record.ID] = stored

	if metadata != nil {
		m := *metadata
		m.ID = record.ID
		m.SearchID = record.ID
		if m.ExtractionTimestamp.IsZero() {
			m.ExtractionTimestamp = now
		}
		s.metadata[record.ID] = m
	}

	s.recomputeCompany(record.Company)
	return record.ID, nil
}

func (s *Store) recomputeCompany(name string) {
	var matching []entities.JobSearch
	for _, search := range s.searches {
		if search.Company == name {
			matching = append(matching, search)
		}
	}

	company := stats.ComputeCompany(name, matching, time.Now())
	if company == nil {
		delete(s.companies, name)
		return
	}
	s.companies[name] = *company
}

func (s *Store) GetJobSearch(_ context.Context, id int64) (*entities.AnalysisDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	search, ok := s.searches[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	detail := &entities.AnalysisDetail{
		JobSearch:  search,
		KeyFactors: append([]entities.KeyFactor{}, s.factors[id]...),
	}
	if metadata, ok := s.metadata[id]; ok {
		detail.ParsingMetadata = &metadata
	}
	if company, ok := s.companies[search.Company]; ok {
		detail.CompanyInfo = &company
	}
	return detail, nil
}

func (s *Store) ListJobSearches(_ context.Context, filters entities.AnalysisFilters,
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

	s.mu.RLock()
	defer s.mu.RUnlock()

	riskOf := func(company string) entities.RiskLevel {
		if c, ok := s.companies[company]; ok {
			return c.RiskLevel
		}
		return entities.RiskUnknown
	}

	var matching []entities.JobSearch
	for _, search := range s.searches {
		if storage.Matches(search, filters, riskOf) {
			matching = append(matching, search)
		}
	}

	storage.SortSearches(matching, orderBy, orderDesc)
	pageItems := storage.Paginate(matching, page, pageSize)

	analyses := lo.Map(pageItems, func(search entities.JobSearch, _ int) entities.AnalysisDetail {
		return entities.AnalysisDetail{
			JobSearch:  search,
			KeyFactors: append([]entities.KeyFactor{}, s.factors[search.ID]...),
		}
	})

	return &entities.HistoryPage{
		TotalCount: int64(len(matching)),
		Page:       page,
		PageSize:   pageSize,
		Analyses:   analyses,
	}, nil
}

func (s *Store) DeleteJobSearch(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	search, ok := s.searches[id]
	if !ok {
		return false, nil
	}

	delete(s.searches, id)
	delete(s.factors, id)
	delete(s.metadata, id)
	s.recomputeCompany(search.Company)
	return true, nil
}

func (s *Store) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	affected := map[string]struct{}{}

	for id, search := range s.searches {
		if search.AnalysisDate.Before(cutoff) {
			delete(s.searches, id)
			delete(s.factors, id)
			delete(s.metadata, id)
			affected[search.Company] = struct{}{}
			removed++
		}
	}

	for company := range affected {
		s.recomputeCompany(company)
	}
	return removed, nil
}

func (s *Store) GetCompany(_ context.Context, name string) (*entities.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	company, ok := s.companies[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &company, nil
}

func (s *Store) ListCompanyInsights(_ context.Context, minPosts int) ([]entities.CompanyInsight, error) {
	if minPosts < 1 {
		minPosts = 1
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	companies := lo.Filter(lo.Values(s.companies), func(c entities.Company, _ int) bool {
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

func (s *Store) GetAnalysisStats(_ context.Context, daysBack int) (*entities.AnalysisStats, error) {
	if daysBack <= 0 {
		daysBack = 30
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var windowed []entities.JobSearch
	for _, search := range s.searches {
		if !search.AnalysisDate.Before(cutoff) {
			windowed = append(windowed, search)
		}
	}

	return stats.Compute(windowed, lo.Values(s.companies), time.Now()), nil
}

func (s *Store) HealthCheck(_ context.Context) *entities.HealthReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := &entities.HealthReport{
		Status:      "healthy",
		Backend:     s.Name(),
		JobSearches: int64(len(s.searches)),
		Companies:   int64(len(s.companies)),
		LastCheck:   time.Now(),
	}

	for _, factors := range s.factors {
		report.KeyFactors += int64(len(factors))
	}
	for _, search := range s.searches {
		if search.AnalysisDate.After(time.Now().Add(-24 * time.Hour)) {
			report.RecentAnalyses24h++
		}
	}
	return report
}
