package storage

import (
	"testing"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Matches_ProbabilityRangeIsInclusive(t *testing.T) {

	searches := []entities.JobSearch{
		{ID: 1, GhostProbability: 0.1},
		{ID: 2, GhostProbability: 0.5},
		{ID: 3, GhostProbability: 0.9},
	}

	minProb, maxProb := 0.4, 0.95
	filters := entities.AnalysisFilters{MinGhostProbability: &minProb, MaxGhostProbability: &maxProb}

	matched := lo.Filter(searches, func(s entities.JobSearch, _ int) bool {
		return Matches(s, filters, nil)
	})

	require.Len(t, matched, 2)
	assert.Equal(t, int64(2), matched[0].ID)
	assert.Equal(t, int64(3), matched[1].ID)

	exact := 0.9
	assert.True(t, Matches(searches[2], entities.AnalysisFilters{MinGhostProbability: &exact, MaxGhostProbability: &exact}, nil))
}

func Test_Matches_CompanySubstringIsCaseInsensitive(t *testing.T) {

	search := entities.JobSearch{Company: "TechCorp Industries"}

	needle := "techcorp"
	assert.True(t, Matches(search, entities.AnalysisFilters{Company: &needle}, nil))

	missing := "cloudfirst"
	assert.False(t, Matches(search, entities.AnalysisFilters{Company: &missing}, nil))
}

func Test_Matches_DateRangeIsInclusive(t *testing.T) {

	date := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	search := entities.JobSearch{AnalysisDate: date}

	assert.True(t, Matches(search, entities.AnalysisFilters{StartDate: &date, EndDate: &date}, nil))

	after := date.Add(time.Second)
	assert.False(t, Matches(search, entities.AnalysisFilters{StartDate: &after}, nil))
}

func Test_Matches_RiskLevelResolvesThroughCompany(t *testing.T) {

	search := entities.JobSearch{Company: "TechCorp"}
	riskOf := func(company string) entities.RiskLevel {
		if company == "TechCorp" {
			return entities.RiskHigh
		}
		return entities.RiskLow
	}

	high := entities.RiskHigh
	assert.True(t, Matches(search, entities.AnalysisFilters{RiskLevel: &high}, riskOf))

	low := entities.RiskLow
	assert.False(t, Matches(search, entities.AnalysisFilters{RiskLevel: &low}, riskOf))
	assert.False(t, Matches(search, entities.AnalysisFilters{RiskLevel: &high}, nil))
}

func Test_SortSearches_BreaksTiesByID(t *testing.T) {

	searches := []entities.JobSearch{
		{ID: 3, GhostProbability: 0.5},
		{ID: 1, GhostProbability: 0.5},
		{ID: 2, GhostProbability: 0.9},
	}

	SortSearches(searches, entities.OrderByGhostProbability, true)

	assert.Equal(t, int64(2), searches[0].ID)
	assert.Equal(t, int64(3), searches[1].ID)
	assert.Equal(t, int64(1), searches[2].ID)
}

func Test_SortByGhostRate_ComparesExactRatios(t *testing.T) {

	// both rates round to 0.333 at three decimals; 1/3 must still win
	companies := []entities.Company{
		{CompanyName: "Exact", TotalPosts: 1000, GhostPosts: 333},
		{CompanyName: "Third", TotalPosts: 3, GhostPosts: 1},
	}

	SortByGhostRate(companies)
	assert.Equal(t, "Third", companies[0].CompanyName)

	tied := []entities.Company{
		{CompanyName: "Smaller", TotalPosts: 2, GhostPosts: 1},
		{CompanyName: "Bigger", TotalPosts: 4, GhostPosts: 2},
	}

	SortByGhostRate(tied)
	assert.Equal(t, "Bigger", tied[0].CompanyName)
}

func Test_Paginate_ReturnsRequestedWindow(t *testing.T) {

	searches := make([]entities.JobSearch, 25)
	for i := range searches {
		searches[i] = entities.JobSearch{ID: int64(i + 1)}
	}

	page := Paginate(searches, 3, 10)
	require.Len(t, page, 5)
	assert.Equal(t, int64(21), page[0].ID)

	assert.Empty(t, Paginate(searches, 4, 10))
	assert.Len(t, Paginate(searches, 1, 0), DefaultPageSize)
}
