package stats

import (
	"testing"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BucketFor_LowerBoundsAreInclusive(t *testing.T) {
	assert.Equal(t, entities.RiskHigh, BucketFor(1.0))
	assert.Equal(t, entities.RiskHigh, BucketFor(0.67))
	assert.Equal(t, entities.RiskMedium, BucketFor(0.669999))
	assert.Equal(t, entities.RiskMedium, BucketFor(0.34))
	assert.Equal(t, entities.RiskLow, BucketFor(0.339999))
	assert.Equal(t, entities.RiskLow, BucketFor(0))
}

func Test_ComputeCompany_DerivesRollupFromSearches(t *testing.T) {

	now := time.Now()
	earlier := now.Add(-48 * time.Hour)

	searches := []entities.JobSearch{
		{ID: 1, Company: "TechCorp", Platform: entities.PlatformLinkedIn, GhostProbability: 0.7, AnalysisDate: now},
		{ID: 2, Company: "TechCorp", Platform: entities.PlatformIndeed, GhostProbability: 0.2, AnalysisDate: earlier},
	}

	company := ComputeCompany("TechCorp", searches, now)
	require.NotNil(t, company)

	assert.Equal(t, "TechCorp", company.CompanyName)
	assert.Equal(t, 2, company.TotalPosts)
	assert.Equal(t, 1, company.GhostPosts)
	assert.InDelta(t, 0.45, company.AvgGhostProbability, 1e-9)
	assert.Equal(t, 0.2, company.MinGhostProbability)
	assert.Equal(t, 0.7, company.MaxGhostProbability)
	assert.Equal(t, entities.RiskMedium, company.RiskLevel)
	assert.Equal(t, "indeed,linkedin", company.PlatformsSeen)
	assert.True(t, company.FirstSeen.Equal(earlier))
	assert.True(t, company.LastUpdated.Equal(now))
}

func Test_ComputeCompany_ReturnsNilWithoutSearches(t *testing.T) {
	assert.Nil(t, ComputeCompany("TechCorp", nil, time.Now()))
}
