package entities

import (
	"fmt"
	"time"
)

// KeyFactor is a single signal that contributed to a ghost probability
// estimate. Negative weights pull the estimate down.
type KeyFactor struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	SearchID    int64      `gorm:"index" json:"search_id"`
	FactorType  FactorType `json:"factor_type" validate:"required,oneof=red_flag warning positive"`
	Description string     `json:"description" validate:"required"`
	Severity    *float64   `json:"severity,omitempty" validate:"omitempty,gte=0,lte=1"`
	Weight      float64    `json:"weight"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (f *KeyFactor) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: key factor: %v", ErrValidation, err)
	}
	return nil
}
