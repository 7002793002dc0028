package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/maxaizer/ghost-detector/internal/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store is the relational backend. Every write runs in a transaction
// that also recomputes the affected company rollup, replacing the
// trigger-based maintenance a database would otherwise provide.
type Store struct {
	db *gorm.DB
}

func Open(connectionString string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(connectionString), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Migrate() error {
	err := s.db.AutoMigrate(entities.JobSearch{})
	if err != nil {
		return fmt.Errorf("failed to migrate JobSearch entity: %w", err)
	}

	err = s.db.AutoMigrate(entities.KeyFactor{})
	if err != nil {
		return fmt.Errorf("failed to migrate KeyFactor entity: %w", err)
	}

	err = s.db.AutoMigrate(entities.ParsingMetadata{})
	if err != nil {
		return fmt.Errorf("failed to migrate ParsingMetadata entity: %w", err)
	}

	err = s.db.AutoMigrate(entities.Company{})
	if err != nil {
		return fmt.Errorf("failed to migrate Company entity: %w", err)
	}

	if err = s.db.Exec("CREATE INDEX IF NOT EXISTS idx_job_searches_company ON job_searches (company); " +
		"CREATE INDEX IF NOT EXISTS idx_job_searches_analysis_date ON job_searches (analysis_date); " +
		"CREATE INDEX IF NOT EXISTS idx_job_searches_platform ON job_searches (platform);").
		Error; err != nil {
		return fmt.Errorf("failed to create job search indexes: %w", err)
	}

	return nil
}

func (s *Store) Name() string {
	return "sqlite"
}

func (s *Store) HealthCheck(ctx context.Context) *entities.HealthReport {

	report := &entities.HealthReport{
		Status:    "healthy",
		Backend:   s.Name(),
		LastCheck: time.Now(),
	}

	counts := []struct {
		model any
		dest  *int64
	}{
		{&entities.JobSearch{}, &report.JobSearches},
		{&entities.Company{}, &report.Companies},
		{&entities.KeyFactor{}, &report.KeyFactors},
	}

	for _, c := range counts {
		if err := s.db.WithContext(ctx).Model(c.model).Count(c.dest).Error; err != nil {
			report.Status = "unhealthy"
			report.Error = err.Error()
			return report
		}
	}

	err := s.db.WithContext(ctx).Model(&entities.JobSearch{}).
		Where("analysis_date >= ?", time.Now().Add(-24*time.Hour)).
		Count(&report.RecentAnalyses24h).Error
	if err != nil {
		report.Status = "unhealthy"
		report.Error = err.Error()
	}

	return report
}

func (s *Store) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
