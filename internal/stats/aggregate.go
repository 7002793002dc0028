package stats

import (
	"math"
	"sort"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/samber/lo"
)

// Risk bucket thresholds. Both intervals are closed on the lower bound:
// high is [0.67, 1.0], medium is [0.34, 0.67), low is [0, 0.34).
const (
	HighRiskThreshold   = 0.67
	MediumRiskThreshold = 0.34
)

func BucketFor(ghostProbability float64) entities.RiskLevel {
	switch {
	case ghostProbability >= HighRiskThreshold:
		return entities.RiskHigh
	case ghostProbability >= MediumRiskThreshold:
		return entities.RiskMedium
	default:
		return entities.RiskLow
	}
}

func RiskLevelFor(avgGhostProbability float64) entities.RiskLevel {
	return BucketFor(avgGhostProbability)
}

// ComputeCompany derives the full rollup for one company from every job
// search currently carrying its name. Returns nil when no records
// remain, which callers treat as "remove the rollup".
func ComputeCompany(name string, searches []entities.JobSearch, now time.Time) *entities.Company {
	if len(searches) == 0 {
		return nil
	}

	company := &entities.Company{
		CompanyName:         name,
		TotalPosts:          len(searches),
		MinGhostProbability: searches[0].GhostProbability,
		MaxGhostProbability: searches[0].GhostProbability,
		FirstSeen:           searches[0].AnalysisDate,
		LastUpdated:         now,
	}

	var sum float64
	platforms := map[entities.Platform]struct{}{}

	for _, search := range searches {
		sum += search.GhostProbability
		platforms[search.Platform] = struct{}{}

		if search.GhostProbability >= HighRiskThreshold {
			company.GhostPosts++
		}
		if search.GhostProbability < company.MinGhostProbability {
			company.MinGhostProbability = search.GhostProbability
		}
		if search.GhostProbability > company.MaxGhostProbability {
			company.MaxGhostProbability = search.GhostProbability
		}
		if search.AnalysisDate.Before(company.FirstSeen) {
			company.FirstSeen = search.AnalysisDate
		}
	}

	company.AvgGhostProbability = sum / float64(len(searches))
	company.RiskLevel = RiskLevelFor(company.AvgGhostProbability)

	seen := lo.Keys(platforms)
	sort.Slice(seen, func(i, j int) bool { return seen[i] < seen[j] })
	company.PlatformsSeen = entities.JoinPlatforms(seen)

	return company
}

// Round3 matches the precision the stats endpoints report averages at.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
