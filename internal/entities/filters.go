package entities

import (
	"fmt"
	"time"
)

// AnalysisFilters narrow history queries. All fields are optional and
// combined with AND.
type AnalysisFilters struct {
	Platform            *Platform  `validate:"omitempty,oneof=linkedin indeed glassdoor company other"`
	Company             *string    // case-insensitive substring match
	MinGhostProbability *float64   `validate:"omitempty,gte=0,lte=1"`
	MaxGhostProbability *float64   `validate:"omitempty,gte=0,lte=1"`
	StartDate           *time.Time // inclusive, on analysis_date
	EndDate             *time.Time // inclusive, on analysis_date
	RiskLevel           *RiskLevel `validate:"omitempty,oneof=low medium high unknown"`
}

func (f AnalysisFilters) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: filters: %v", ErrValidation, err)
	}

	if f.MinGhostProbability != nil && f.MaxGhostProbability != nil &&
		*f.MaxGhostProbability < *f.MinGhostProbability {
		return fmt.Errorf("%w: max_ghost_probability must be greater than min_ghost_probability", ErrValidation)
	}
	return nil
}

type OrderColumn string

const (
	OrderByAnalysisDate     OrderColumn = "analysis_date"
	OrderByGhostProbability OrderColumn = "ghost_probability"
	OrderByCompany          OrderColumn = "company"
	OrderByJobTitle         OrderColumn = "job_title"
)

// ToOrderColumn maps a caller-supplied column name onto the allow-list.
// Unknown names silently fall back to analysis_date.
func ToOrderColumn(s string) OrderColumn {
	switch OrderColumn(s) {
	case OrderByGhostProbability, OrderByCompany, OrderByJobTitle:
		return OrderColumn(s)
	default:
		return OrderByAnalysisDate
	}
}
