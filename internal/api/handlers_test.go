package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/maxaizer/ghost-detector/internal/config"
	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/services"
	"github.com/maxaizer/ghost-detector/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	result    *services.AnalysisResult
	detail    *entities.AnalysisDetail
	health    *entities.HealthReport
	submitErr error
	getErr    error
	deleteErr error
}

func (s *stubService) SubmitAnalysis(_ context.Context, _ string) (*services.AnalysisResult, error) {
	return s.result, s.submitErr
}

func (s *stubService) GetAnalysisDetail(_ context.Context, _ int64) (*entities.AnalysisDetail, error) {
	return s.detail, s.getErr
}

func (s *stubService) GetHistory(_ context.Context, _ entities.AnalysisFilters, page, pageSize int,
	_ entities.OrderColumn, _ bool) (*entities.HistoryPage, error) {
	return &entities.HistoryPage{Page: page, PageSize: pageSize, Analyses: []entities.AnalysisDetail{}}, nil
}

func (s *stubService) DeleteAnalysis(_ context.Context, _ int64) error {
	return s.deleteErr
}

func (s *stubService) GetStats(_ context.Context, _ int) (*entities.AnalysisStats, error) {
	return &entities.AnalysisStats{}, nil
}

func (s *stubService) GetCompanyInsights(_ context.Context, _ int) ([]entities.CompanyInsight, error) {
	return []entities.CompanyInsight{}, nil
}

func (s *stubService) HealthCheck(_ context.Context) *entities.HealthReport {
	return s.health
}

func newTestServer(service analysisService) *Server {
	return NewServer(config.APIConfig{Port: 0, MaxRequestsPerSecond: 100}, service)
}

func doRequest(server *Server, method, target, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	server.httpServer.Handler.ServeHTTP(recorder, request)
	return recorder
}

func Test_Server_AnalyzeReturnsResult(t *testing.T) {

	server := newTestServer(&stubService{result: &services.AnalysisResult{
		ID:               "1",
		URL:              "https://linkedin.com/jobs/1",
		GhostProbability: 0.8,
		RiskLevel:        entities.RiskHigh,
	}})

	response := doRequest(server, http.MethodPost, "/api/analyze", `{"url":"https://linkedin.com/jobs/1"}`)

	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), `"ghostProbability":0.8`)
	assert.Contains(t, response.Body.String(), `"riskLevel":"high"`)
}

func Test_Server_AnalyzeRejectsMissingURL(t *testing.T) {

	server := newTestServer(&stubService{})

	assert.Equal(t, http.StatusBadRequest, doRequest(server, http.MethodPost, "/api/analyze", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(server, http.MethodPost, "/api/analyze", `not json`).Code)
}

func Test_Server_AnalyzeMapsErrorTypes(t *testing.T) {

	validation := &stubService{submitErr: fmt.Errorf("%w: bad url", entities.ErrValidation)}
	assert.Equal(t, http.StatusBadRequest,
		doRequest(newTestServer(validation), http.MethodPost, "/api/analyze", `{"url":"x://y"}`).Code)

	outage := &stubService{submitErr: fmt.Errorf("%w: connection refused", storage.ErrUnavailable)}
	assert.Equal(t, http.StatusServiceUnavailable,
		doRequest(newTestServer(outage), http.MethodPost, "/api/analyze", `{"url":"https://a.com/jobs/1"}`).Code)
}

func Test_Server_UnknownAnalysisReturns404(t *testing.T) {

	server := newTestServer(&stubService{getErr: storage.ErrNotFound, deleteErr: storage.ErrNotFound})

	assert.Equal(t, http.StatusNotFound, doRequest(server, http.MethodGet, "/api/analyses/42", "").Code)
	assert.Equal(t, http.StatusNotFound, doRequest(server, http.MethodDelete, "/api/analyses/42", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(server, http.MethodGet, "/api/analyses/notanumber", "").Code)
}

func Test_Server_HistoryRejectsBadFilterValues(t *testing.T) {

	server := newTestServer(&stubService{})

	assert.Equal(t, http.StatusOK, doRequest(server, http.MethodGet, "/api/history?platform=linkedin", "").Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(server, http.MethodGet, "/api/history?platform=monster", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		doRequest(server, http.MethodGet, "/api/history?min_ghost_probability=abc", "").Code)
	assert.Equal(t, http.StatusBadRequest,
		doRequest(server, http.MethodGet, "/api/history?start_date=20-08-2026", "").Code)
}

func Test_Server_HealthMapsStatusCode(t *testing.T) {

	healthy := newTestServer(&stubService{health: &entities.HealthReport{Status: "healthy", Backend: "memory"}})
	assert.Equal(t, http.StatusOK, doRequest(healthy, http.MethodGet, "/api/health", "").Code)

	unhealthy := newTestServer(&stubService{health: &entities.HealthReport{Status: "unhealthy", Backend: "sqlite"}})
	assert.Equal(t, http.StatusServiceUnavailable, doRequest(unhealthy, http.MethodGet, "/api/health", "").Code)
}

func Test_Server_AnalyzeIsRateLimited(t *testing.T) {

	server := NewServer(config.APIConfig{Port: 0, MaxRequestsPerSecond: 1},
		&stubService{result: &services.AnalysisResult{ID: "1"}})

	codes := map[int]int{}
	for i := 0; i < 5; i++ {
		response := doRequest(server, http.MethodPost, "/api/analyze", `{"url":"https://a.com/jobs/1"}`)
		codes[response.Code]++
	}

	assert.Greater(t, codes[http.StatusTooManyRequests], 0)
	assert.Greater(t, codes[http.StatusOK], 0)
}
