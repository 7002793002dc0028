package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/storage"
	"gorm.io/gorm"
)

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

	var id int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var existing entities.JobSearch
		err := tx.Where("url = ?", search.URL).First(&existing).Error
		if err == nil {
			id = existing.ID
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err = tx.Create(search).Error; err != nil {
			return fmt.Errorf("failed to create job search: %w", err)
		}
		id = search.ID

		for i := range factors {
			factors[i].SearchID = search.ID
		}
		if len(factors) > 0 {
			if err = tx.Create(&factors).Error; err != nil {
				return fmt.Errorf("failed to create key factors: %w", err)
			}
		}

		if metadata != nil {
			metadata.SearchID = search.ID
			if metadata.ExtractionTimestamp.IsZero() {
				metadata.ExtractionTimestamp = time.Now()
			}
			if err = tx.Create(metadata).Error; err != nil {
				return fmt.Errorf("failed to create parsing metadata: %w", err)
			}
		}

		return s.recomputeCompany(tx, search.Company)
	})

	return id, err
}

func (s *Store) GetJobSearch(ctx context.Context, id int64) (*entities.AnalysisDetail, error) {

	var search entities.JobSearch
	err := s.db.WithContext(ctx).First(&search, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	detail := &entities.AnalysisDetail{JobSearch: search, KeyFactors: []entities.KeyFactor{}}

	if err = s.db.WithContext(ctx).Where("search_id = ?", id).Find(&detail.KeyFactors).Error; err != nil {
		return nil, err
	}

	var metadata entities.ParsingMetadata
	err = s.db.WithContext(ctx).Where("search_id = ?", id).First(&metadata).Error
	if err == nil {
		detail.ParsingMetadata = &metadata
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var company entities.Company
	err = s.db.WithContext(ctx).Where("company_name = ?", search.Company).First(&company).Error
	if err == nil {
		detail.CompanyInfo = &company
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
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

	query := s.applyFilters(s.db.WithContext(ctx).Model(&entities.JobSearch{}), filters)

	var totalCount int64
	if err := query.Distinct("job_searches.id").Count(&totalCount).Error; err != nil {
		return nil, err
	}

	direction := "ASC"
	if orderDesc {
		direction = "DESC"
	}
	// orderBy comes from the allow-list in entities.ToOrderColumn.
	order := fmt.Sprintf("job_searches.%s %s, job_searches.id %s", orderBy, direction, direction)

	var searches []entities.JobSearch
	err := query.Select("job_searches.*").
		Order(order).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&searches).Error
	if err != nil {
		return nil, err
	}

	analyses := make([]entities.AnalysisDetail, 0, len(searches))
	for _, search := range searches {
		var factors []entities.KeyFactor
		if err = s.db.WithContext(ctx).Where("search_id = ?", search.ID).Find(&factors).Error; err != nil {
			return nil, err
		}
		analyses = append(analyses, entities.AnalysisDetail{JobSearch: search, KeyFactors: factors})
	}

	return &entities.HistoryPage{
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		Analyses:   analyses,
	}, nil
}

func (s *Store) applyFilters(query *gorm.DB, filters entities.AnalysisFilters) *gorm.DB {

	if filters.RiskLevel != nil {
		query = query.
			Joins("LEFT JOIN companies ON companies.company_name = job_searches.company").
			Where("companies.risk_level = ?", *filters.RiskLevel)
	}
	if filters.Platform != nil {
		query = query.Where("job_searches.platform = ?", *filters.Platform)
	}
	if filters.Company != nil {
		query = query.Where("LOWER(job_searches.company) LIKE ?", "%"+strings.ToLower(*filters.Company)+"%")
	}
	if filters.MinGhostProbability != nil {
		query = query.Where("job_searches.ghost_probability >= ?", *filters.MinGhostProbability)
	}
	if filters.MaxGhostProbability != nil {
		query = query.Where("job_searches.ghost_probability <= ?", *filters.MaxGhostProbability)
	}
	if filters.StartDate != nil {
		query = query.Where("job_searches.analysis_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("job_searches.analysis_date <= ?", *filters.EndDate)
	}
	return query
}

func (s *Store) DeleteJobSearch(ctx context.Context, id int64) (bool, error) {

	deleted := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var search entities.JobSearch
		err := tx.First(&search, "id = ?", id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err = tx.Delete(&entities.KeyFactor{}, "search_id = ?", id).Error; err != nil {
			return err
		}
		if err = tx.Delete(&entities.ParsingMetadata{}, "search_id = ?", id).Error; err != nil {
			return err
		}
		if err = tx.Delete(&entities.JobSearch{}, "id = ?", id).Error; err != nil {
			return err
		}

		deleted = true
		return s.recomputeCompany(tx, search.Company)
	})

	return deleted, err
}

func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {

	var removed int64

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var expired []entities.JobSearch
		err := tx.Select("id", "company").Where("analysis_date < ?", cutoff).Find(&expired).Error
		if err != nil || len(expired) == 0 {
			return err
		}

		ids := make([]int64, 0, len(expired))
		companies := map[string]struct{}{}
		for _, search := range expired {
			ids = append(ids, search.ID)
			companies[search.Company] = struct{}{}
		}

		if err = tx.Delete(&entities.KeyFactor{}, "search_id IN ?", ids).Error; err != nil {
			return err
		}
		if err = tx.Delete(&entities.ParsingMetadata{}, "search_id IN ?", ids).Error; err != nil {
			return err
		}

		result := tx.Delete(&entities.JobSearch{}, "id IN ?", ids)
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected

		for company := range companies {
			if err = s.recomputeCompany(tx, company); err != nil {
				return err
			}
		}
		return nil
	})

	return removed, err
}
