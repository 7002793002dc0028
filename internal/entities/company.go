package entities

import (
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
)

// Company is a derived rollup over every job search with a matching
// company name. It is recomputed on each write, never edited directly.
type Company struct {
	ID                  int64     `gorm:"primaryKey" json:"id"`
	CompanyName         string    `gorm:"uniqueIndex" json:"company_name"`
	TotalPosts          int       `json:"total_posts"`
	GhostPosts          int       `json:"ghost_posts"`
	AvgGhostProbability float64   `json:"avg_ghost_probability"`
	MinGhostProbability float64   `json:"min_ghost_probability"`
	MaxGhostProbability float64   `json:"max_ghost_probability"`
	PlatformsSeen       string    `json:"platforms_seen"`
	RiskLevel           RiskLevel `json:"risk_level"`
	FirstSeen           time.Time `json:"first_seen"`
	LastUpdated         time.Time `json:"last_updated"`
}

func (c *Company) PlatformsAsArray() []Platform {
	if c.PlatformsSeen == "" {
		return []Platform{}
	}

	return lo.Map(strings.Split(c.PlatformsSeen, ","), func(item string, _ int) Platform {
		platform, err := ToPlatform(item)
		if err != nil {
			log.Error(err)
		}
		return platform
	})
}

func JoinPlatforms(platforms []Platform) string {
	asStr := lo.Map(platforms, func(item Platform, _ int) string {
		return string(item)
	})
	return strings.Join(asStr, ",")
}
