package storage

import (
	"sort"
	"strings"

	"github.com/maxaizer/ghost-detector/internal/entities"
)

// In-memory query helpers shared by the map-based backends. The
// relational backend expresses the same semantics in SQL; these must
// stay behaviorally identical to it.

// Matches reports whether a search passes every set filter. riskOf
// resolves a company name to its current risk level and may be nil when
// no risk filter is set.
func Matches(search entities.JobSearch, filters entities.AnalysisFilters,
	riskOf func(company string) entities.RiskLevel) bool {

	if filters.Platform != nil && search.Platform != *filters.Platform {
		return false
	}
	if filters.Company != nil &&
		!strings.Contains(strings.ToLower(search.Company), strings.ToLower(*filters.Company)) {
		return false
	}
	if filters.MinGhostProbability != nil && search.GhostProbability < *filters.MinGhostProbability {
		return false
	}
	if filters.MaxGhostProbability != nil && search.GhostProbability > *filters.MaxGhostProbability {
		return false
	}
	if filters.StartDate != nil && search.AnalysisDate.Before(*filters.StartDate) {
		return false
	}
	if filters.EndDate != nil && search.AnalysisDate.After(*filters.EndDate) {
		return false
	}
	if filters.RiskLevel != nil {
		if riskOf == nil || riskOf(search.Company) != *filters.RiskLevel {
			return false
		}
	}
	return true
}

// SortSearches orders in place by the allow-listed column, breaking ties
// by id so pagination is deterministic.
func SortSearches(searches []entities.JobSearch, orderBy entities.OrderColumn, desc bool) {
	less := func(a, b entities.JobSearch) bool {
		switch orderBy {
		case entities.OrderByGhostProbability:
			if a.GhostProbability != b.GhostProbability {
				return a.GhostProbability < b.GhostProbability
			}
		case entities.OrderByCompany:
			if a.Company != b.Company {
				return a.Company < b.Company
			}
		case entities.OrderByJobTitle:
			if a.JobTitle != b.JobTitle {
				return a.JobTitle < b.JobTitle
			}
		default:
			if !a.AnalysisDate.Equal(b.AnalysisDate) {
				return a.AnalysisDate.Before(b.AnalysisDate)
			}
		}
		return a.ID < b.ID
	}

	sort.Slice(searches, func(i, j int) bool {
		if desc {
			return less(searches[j], searches[i])
		}
		return less(searches[i], searches[j])
	})
}

// SortByGhostRate orders rollups by their exact ghost rate descending,
// then post count descending. The comparison uses the unrounded ratio
// so the ordering matches what the relational backend computes in SQL.
func SortByGhostRate(companies []entities.Company) {
	rate := func(c entities.Company) float64 {
		return float64(c.GhostPosts) / float64(c.TotalPosts)
	}

	sort.Slice(companies, func(i, j int) bool {
		if rate(companies[i]) != rate(companies[j]) {
			return rate(companies[i]) > rate(companies[j])
		}
		return companies[i].TotalPosts > companies[j].TotalPosts
	})
}

// Paginate slices out a 1-indexed page.
func Paginate(searches []entities.JobSearch, page, pageSize int) []entities.JobSearch {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	start := (page - 1) * pageSize
	if start >= len(searches) {
		return []entities.JobSearch{}
	}

	end := start + pageSize
	if end > len(searches) {
		end = len(searches)
	}
	return searches[start:end]
}
