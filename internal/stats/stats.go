package stats

import (
	"sort"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/samber/lo"
)

const (
	// TopCompaniesLimit caps the offender ranking in global stats.
	TopCompaniesLimit = 10
	// TopCompaniesMinPosts keeps one-off submissions out of the ranking.
	TopCompaniesMinPosts = 2
	// TrendDays is how many calendar days the daily trend spans.
	TrendDays = 7
)

// Compute builds global statistics over an already window-filtered set
// of job searches. Companies are passed in full; the ranking filter is
// applied here so every backend ranks identically.
func Compute(searches []entities.JobSearch, companies []entities.Company, now time.Time) *entities.AnalysisStats {

	result := &entities.AnalysisStats{
		TotalAnalyses:     len(searches),
		TopGhostCompanies: topGhostCompanies(companies),
		PlatformBreakdown: map[entities.Platform]int{},
		RecentTrend:       recentTrend(searches, now),
	}

	var sum float64
	for _, search := range searches {
		sum += search.GhostProbability
		result.PlatformBreakdown[search.Platform]++

		switch BucketFor(search.GhostProbability) {
		case entities.RiskHigh:
			result.HighRiskCount++
		case entities.RiskMedium:
			result.MediumRiskCount++
		default:
			result.LowRiskCount++
		}
	}

	if len(searches) > 0 {
		result.AvgGhostProbability = Round3(sum / float64(len(searches)))
	}
	return result
}

func topGhostCompanies(companies []entities.Company) []entities.CompanyStanding {

	eligible := lo.Filter(companies, func(c entities.Company, _ int) bool {
		return c.TotalPosts >= TopCompaniesMinPosts
	})

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].AvgGhostProbability != eligible[j].AvgGhostProbability {
			return eligible[i].AvgGhostProbability > eligible[j].AvgGhostProbability
		}
		return eligible[i].TotalPosts > eligible[j].TotalPosts
	})

	if len(eligible) > TopCompaniesLimit {
		eligible = eligible[:TopCompaniesLimit]
	}

	return lo.Map(eligible, func(c entities.Company, _ int) entities.CompanyStanding {
		return entities.CompanyStanding{
			Company:             c.CompanyName,
			AvgGhostProbability: Round3(c.AvgGhostProbability),
			TotalPosts:          c.TotalPosts,
			GhostPosts:          c.GhostPosts,
		}
	})
}

// recentTrend bins searches of the past TrendDays into calendar days,
// most recent first.
func recentTrend(searches []entities.JobSearch, now time.Time) []entities.TrendPoint {

	cutoff := now.AddDate(0, 0, -TrendDays)

	type bin struct {
		count int
		sum   float64
	}
	bins := map[string]*bin{}

	for _, search := range searches {
		if search.AnalysisDate.Before(cutoff) {
			continue
		}
		day := search.AnalysisDate.Format("2006-01-02")
		if bins[day] == nil {
			bins[day] = &bin{}
		}
		bins[day].count++
		bins[day].sum += search.GhostProbability
	}

	days := lo.Keys(bins)
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	if len(days) > TrendDays {
		days = days[:TrendDays]
	}

	return lo.Map(days, func(day string, _ int) entities.TrendPoint {
		return entities.TrendPoint{
			Date:                day,
			Count:               bins[day].count,
			AvgGhostProbability: Round3(bins[day].sum / float64(bins[day].count)),
		}
	})
}
