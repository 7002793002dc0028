package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/stats"
	"github.com/maxaizer/ghost-detector/internal/storage"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// recomputeCompany rebuilds one rollup from the searches currently
// naming that company. Runs inside the caller's transaction so a write
// and its aggregate update land together. The company lookup is indexed,
// keeping the rebuild proportional to that company's posts.
func (s *Store) recomputeCompany(tx *gorm.DB, name string) error {

	var searches []entities.JobSearch
	if err := tx.Where("company = ?", name).Find(&searches).Error; err != nil {
		return err
	}

	company := stats.ComputeCompany(name, searches, time.Now())
	if company == nil {
		return tx.Delete(&entities.Company{}, "company_name = ?", name).Error
	}

	var existing entities.Company
	err := tx.Where("company_name = ?", name).First(&existing).Error
	if err == nil {
		company.ID = existing.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return tx.Save(company).Error
}

func (s *Store) GetCompany(ctx context.Context, name string) (*entities.Company, error) {

	var company entities.Company
	err := s.db.WithContext(ctx).Where("company_name = ?", name).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (s *Store) ListCompanyInsights(ctx context.Context, minPosts int) ([]entities.CompanyInsight, error) {

	if minPosts < 1 {
		minPosts = 1
	}

	var companies []entities.Company
	err := s.db.WithContext(ctx).
		Where("total_posts >= ?", minPosts).
		Order("(CAST(ghost_posts AS REAL) / total_posts) DESC, total_posts DESC").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}

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
