package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearch(t *testing.T, url, company string, probability float64) *entities.JobSearch {
	t.Helper()
	search, err := entities.NewJobSearch(url, entities.PlatformLinkedIn, "Engineer", company, nil, probability, 0.9)
	require.NoError(t, err)
	return search
}

func Test_CreateJobSearch_IsIdempotentByURL(t *testing.T) {

	store := New()
	ctx := context.Background()

	first := newSearch(t, "https://linkedin.com/jobs/1", "TechCorp", 0.8)
	firstID, err := store.CreateJobSearch(ctx, first, nil, nil)
	require.NoError(t, err)

	resubmitted := newSearch(t, "https://linkedin.com/jobs/1", "TechCorp", 0.2)
	secondID, err := store.CreateJobSearch(ctx, resubmitted, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID)
	assert.Zero(t, resubmitted.ID)

	company, err := store.GetCompany(ctx, "TechCorp")
	require.NoError(t, err)
	assert.Equal(t, 1, company.TotalPosts)
	assert.Equal(t, 0.8, company.AvgGhostProbability)
}

func Test_CreateJobSearch_RejectsOutOfRangeProbability(t *testing.T) {

	store := New()
	search := &entities.JobSearch{
		URL:              "https://linkedin.com/jobs/2",
		Platform:         entities.PlatformLinkedIn,
		JobTitle:         "Engineer",
		Company:          "TechCorp",
		GhostProbability: 1.5,
		Confidence:       0.9,
		AnalysisDate:     time.Now(),
		Status:           entities.StatusCompleted,
	}

	_, err := store.CreateJobSearch(context.Background(), search, nil, nil)
	assert.ErrorIs(t, err, entities.ErrValidation)
}

func Test_DeleteJobSearch_CascadesAndRecomputesCompany(t *testing.T) {

	store := New()
	ctx := context.Background()

	first := newSearch(t, "https://linkedin.com/jobs/3", "CloudFirst", 0.9)
	firstID, err := store.CreateJobSearch(ctx, first,
		[]entities.KeyFactor{{FactorType: entities.FactorRedFlag, Description: "stale posting", Weight: 0.3}},
		&entities.ParsingMetadata{StructuredDataFound: true, MetaTagsCount: 10})
	require.NoError(t, err)

	second := newSearch(t, "https://linkedin.com/jobs/4", "CloudFirst", 0.1)
	_, err = store.CreateJobSearch(ctx, second, nil, nil)
	require.NoError(t, err)

	existed, err := store.DeleteJobSearch(ctx, firstID)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = store.GetJobSearch(ctx, firstID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	company, err := store.GetCompany(ctx, "CloudFirst")
	require.NoError(t, err)
	assert.Equal(t, 1, company.TotalPosts)
	assert.Equal(t, 0, company.GhostPosts)
	assert.Equal(t, 0.1, company.AvgGhostProbability)

	existed, err = store.DeleteJobSearch(ctx, firstID)
	require.NoError(t, err)
	assert.False(t, existed)
}

func Test_DeleteJobSearch_RemovesCompanyWhenNoPostsRemain(t *testing.T) {

	store := New()
	ctx := context.Background()

	search := newSearch(t, "https://linkedin.com/jobs/5", "StartupXYZ", 0.7)
	id, err := store.CreateJobSearch(ctx, search, nil, nil)
	require.NoError(t, err)

	_, err = store.DeleteJobSearch(ctx, id)
	require.NoError(t, err)

	_, err = store.GetCompany(ctx, "StartupXYZ")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func Test_ListJobSearches_FiltersSortsAndPaginates(t *testing.T) {

	store := New()
	ctx := context.Background()

	probabilities := []float64{0.1, 0.5, 0.9}
	urls := []string{
		"https://linkedin.com/jobs/6",
		"https://linkedin.com/jobs/7",
		"https://linkedin.com/jobs/8",
	}
	for i := range urls {
		_, err := store.CreateJobSearch(ctx, newSearch(t, urls[i], "DataDynamics", probabilities[i]), nil, nil)
		require.NoError(t, err)
	}

	minProb := 0.4
	page, err := store.ListJobSearches(ctx, entities.AnalysisFilters{MinGhostProbability: &minProb},
		1, 20, entities.OrderByGhostProbability, true)
	require.NoError(t, err)

	assert.Equal(t, int64(2), page.TotalCount)
	require.Len(t, page.Analyses, 2)
	assert.Equal(t, 0.9, page.Analyses[0].JobSearch.GhostProbability)
	assert.Equal(t, 0.5, page.Analyses[1].JobSearch.GhostProbability)

	secondPage, err := store.ListJobSearches(ctx, entities.AnalysisFilters{}, 2, 2,
		entities.OrderByAnalysisDate, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), secondPage.TotalCount)
	assert.Len(t, secondPage.Analyses, 1)
}

func Test_ListJobSearches_RejectsInvertedProbabilityRange(t *testing.T) {

	store := New()
	minProb, maxProb := 0.9, 0.1

	_, err := store.ListJobSearches(context.Background(),
		entities.AnalysisFilters{MinGhostProbability: &minProb, MaxGhostProbability: &maxProb},
		1, 20, entities.OrderByAnalysisDate, true)

	assert.ErrorIs(t, err, entities.ErrValidation)
}

func Test_DeleteOlderThan_RemovesExpiredAndRecomputes(t *testing.T) {

	store := New()
	ctx := context.Background()

	old := newSearch(t, "https://linkedin.com/jobs/9", "Enterprise Solutions", 0.9)
	old.AnalysisDate = time.Now().AddDate(0, 0, -400)
	_, err := store.CreateJobSearch(ctx, old, nil, nil)
	require.NoError(t, err)

	fresh := newSearch(t, "https://linkedin.com/jobs/10", "Enterprise Solutions", 0.1)
	_, err = store.CreateJobSearch(ctx, fresh, nil, nil)
	require.NoError(t, err)

	removed, err := store.DeleteOlderThan(ctx, time.Now().AddDate(0, 0, -365))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	company, err := store.GetCompany(ctx, "Enterprise Solutions")
	require.NoError(t, err)
	assert.Equal(t, 1, company.TotalPosts)
	assert.Equal(t, 0.1, company.AvgGhostProbability)
}

func Test_ListCompanyInsights_OrdersByGhostRateThenPosts(t *testing.T) {

	store := New()
	ctx := context.Background()

	// TechCorp: 2 posts, both ghost; CloudFirst: 2 posts, one ghost
	submissions := []struct {
		url         string
		company     string
		probability float64
	}{
		{"https://linkedin.com/jobs/11", "TechCorp", 0.9},
		{"https://linkedin.com/jobs/12", "TechCorp", 0.8},
		{"https://linkedin.com/jobs/13", "CloudFirst", 0.7},
		{"https://linkedin.com/jobs/14", "CloudFirst", 0.1},
	}
	for _, submission := range submissions {
		_, err := store.CreateJobSearch(ctx,
			newSearch(t, submission.url, submission.company, submission.probability), nil, nil)
		require.NoError(t, err)
	}

	insights, err := store.ListCompanyInsights(ctx, 2)
	require.NoError(t, err)

	require.Len(t, insights, 2)
	assert.Equal(t, "TechCorp", insights[0].CompanyName)
	assert.Equal(t, 1.0, insights[0].GhostJobRate)
	assert.Equal(t, "CloudFirst", insights[1].CompanyName)
	assert.Equal(t, 0.5, insights[1].GhostJobRate)
}

func Test_GetAnalysisStats_WindowsByAnalysisDate(t *testing.T) {

	store := New()
	ctx := context.Background()

	old := newSearch(t, "https://linkedin.com/jobs/15", "TechCorp", 0.9)
	old.AnalysisDate = time.Now().AddDate(0, 0, -60)
	_, err := store.CreateJobSearch(ctx, old, nil, nil)
	require.NoError(t, err)

	fresh := newSearch(t, "https://linkedin.com/jobs/16", "TechCorp", 0.5)
	_, err = store.CreateJobSearch(ctx, fresh, nil, nil)
	require.NoError(t, err)

	result, err := store.GetAnalysisStats(ctx, 30)
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalAnalyses)
	assert.Equal(t, 0, result.HighRiskCount)
	assert.Equal(t, 1, result.MediumRiskCount)
}

func Test_HealthCheck_ReportsCounts(t *testing.T) {

	store := New()
	ctx := context.Background()

	_, err := store.CreateJobSearch(ctx, newSearch(t, "https://linkedin.com/jobs/17", "TechCorp", 0.5),
		[]entities.KeyFactor{{FactorType: entities.FactorWarning, Description: "vague salary", Weight: 0.1}}, nil)
	require.NoError(t, err)

	report := store.HealthCheck(ctx)

	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "memory", report.Backend)
	assert.Equal(t, int64(1), report.JobSearches)
	assert.Equal(t, int64(1), report.Companies)
	assert.Equal(t, int64(1), report.KeyFactors)
	assert.Equal(t, int64(1), report.RecentAnalyses24h)
}
