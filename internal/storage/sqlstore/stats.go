package sqlstore

import (
	"context"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/stats"
)

// GetAnalysisStats pulls the lookback window through the analysis_date
// index and hands it to the shared aggregation engine, so bucket
// arithmetic lives in exactly one place across backends.
func (s *Store) GetAnalysisStats(ctx context.Context, daysBack int) (*entities.AnalysisStats, error) {

	if daysBack <= 0 {
		daysBack = 30
	}
	cutoff := time.Now().AddDate(0, 0, -daysBack)

	var searches []entities.JobSearch
	err := s.db.WithContext(ctx).
		Where("analysis_date >= ?", cutoff).
		Find(&searches).Error
	if err != nil {
		return nil, err
	}

	var companies []entities.Company
	if err = s.db.WithContext(ctx).Find(&companies).Error; err != nil {
		return nil, err
	}

	return stats.Compute(searches, companies, time.Now()), nil
}
