package entities

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// ParsingMetadata holds extraction diagnostics for one job search.
// At most one record exists per search.
type ParsingMetadata struct {
	ID                  int64             `gorm:"primaryKey" json:"id"`
	SearchID            int64             `gorm:"uniqueIndex" json:"search_id"`
	RawTitle            *string           `json:"raw_title,omitempty"`
	StructuredDataFound bool              `json:"structured_data_found"`
	MetaTagsCount       int               `json:"meta_tags_count" validate:"gte=0"`
	ConfidenceScores    datatypes.JSONMap `json:"confidence_scores,omitempty"`
	ExtractionTimestamp time.Time         `json:"extraction_timestamp"`
}

func (m *ParsingMetadata) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: parsing metadata: %v", ErrValidation, err)
	}
	return nil
}
