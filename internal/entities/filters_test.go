package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_AnalysisFilters_RejectsInvertedProbabilityRange(t *testing.T) {

	minProb, maxProb := 0.9, 0.1
	filters := AnalysisFilters{MinGhostProbability: &minProb, MaxGhostProbability: &maxProb}

	assert.ErrorIs(t, filters.Validate(), ErrValidation)
}

func Test_AnalysisFilters_RejectsOutOfRangeProbability(t *testing.T) {

	tooHigh := 1.5
	filters := AnalysisFilters{MinGhostProbability: &tooHigh}

	assert.ErrorIs(t, filters.Validate(), ErrValidation)
}

func Test_AnalysisFilters_EmptyFiltersAreValid(t *testing.T) {
	assert.NoError(t, AnalysisFilters{}.Validate())
}

func Test_ToOrderColumn_UnknownNamesFallBackToAnalysisDate(t *testing.T) {
	assert.Equal(t, OrderByGhostProbability, ToOrderColumn("ghost_probability"))
	assert.Equal(t, OrderByAnalysisDate, ToOrderColumn("url; DROP TABLE job_searches"))
	assert.Equal(t, OrderByAnalysisDate, ToOrderColumn(""))
}

func Test_JobSearch_ValidateRejectsOutOfRangeProbability(t *testing.T) {

	search := JobSearch{
		URL:              "https://linkedin.com/jobs/1",
		Platform:         PlatformLinkedIn,
		JobTitle:         "Engineer",
		Company:          "TechCorp",
		GhostProbability: 1.2,
		Confidence:       0.9,
		Status:           StatusCompleted,
	}

	assert.ErrorIs(t, search.Validate(), ErrValidation)
}
