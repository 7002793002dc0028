package entities

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrValidation marks malformed or out-of-range input. Callers check it
// with errors.Is to distinguish bad requests from storage failures.
var ErrValidation = errors.New("validation failed")

var validate = validator.New()

type JobSearch struct {
	ID               int64     `gorm:"primaryKey" json:"id"`
	URL              string    `gorm:"uniqueIndex" json:"url" validate:"required,url"`
	Platform         Platform  `json:"platform" validate:"required,oneof=linkedin indeed glassdoor company other"`
	JobTitle         string    `json:"job_title" validate:"required"`
	Company          string    `json:"company" validate:"required"`
	Location         *string   `json:"location,omitempty"`
	GhostProbability float64   `json:"ghost_probability" validate:"gte=0,lte=1"`
	Confidence       float64   `json:"confidence" validate:"gte=0,lte=1"`
	ParserUsed       *string   `json:"parser_used,omitempty"`
	ExtractionMethod *string   `json:"extraction_method,omitempty"`
	ProcessingTimeMs *int      `json:"processing_time_ms,omitempty"`
	AnalysisDate     time.Time `json:"analysis_date"`
	Status           Status    `json:"status" validate:"required,oneof=pending completed failed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewJobSearch(url string, platform Platform, jobTitle, company string, location *string,
	ghostProbability, confidence float64) (*JobSearch, error) {

	search := &JobSearch{
		URL:              url,
		Platform:         platform,
		JobTitle:         jobTitle,
		Company:          company,
		Location:         location,
		GhostProbability: ghostProbability,
		Confidence:       confidence,
		AnalysisDate:     time.Now(),
		Status:           StatusCompleted,
	}

	if err := search.Validate(); err != nil {
		return nil, err
	}
	return search, nil
}

func (s *JobSearch) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: job search: %v", ErrValidation, err)
	}
	return nil
}
