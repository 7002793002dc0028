package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/logger"
	"github.com/maxaizer/ghost-detector/internal/services"
	"github.com/maxaizer/ghost-detector/internal/storage"
	log "github.com/sirupsen/logrus"
)

type analysisService interface {
	SubmitAnalysis(ctx context.Context, rawURL string) (*services.AnalysisResult, error)
	GetAnalysisDetail(ctx context.Context, id int64) (*entities.AnalysisDetail, error)
	GetHistory(ctx context.Context, filters entities.AnalysisFilters, page, pageSize int,
		orderBy entities.OrderColumn, orderDesc bool) (*entities.HistoryPage, error)
	DeleteAnalysis(ctx context.Context, id int64) error
	GetStats(ctx context.Context, daysBack int) (*entities.AnalysisStats, error)
	GetCompanyInsights(ctx context.Context, minPosts int) ([]entities.CompanyInsight, error)
	HealthCheck(ctx context.Context) *entities.HealthReport
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := s.service.SubmitAnalysis(r.Context(), req.URL)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()

	filters, err := parseFilters(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	page := intParam(query.Get("page"), 1)
	pageSize := intParam(query.Get("page_size"), storage.DefaultPageSize)

	orderBy := entities.ToOrderColumn(query.Get("order_by"))
	orderDesc := query.Get("order") != "asc"

	result, err := s.service.GetHistory(r.Context(), *filters, page, pageSize, orderBy, orderDesc)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}

	detail, err := s.service.GetAnalysisDetail(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}

	if err := s.service.DeleteAnalysis(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {

	daysBack := intParam(r.URL.Query().Get("days_back"), 30)

	result, err := s.service.GetStats(r.Context(), daysBack)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleCompanies(w http.ResponseWriter, r *http.Request) {

	minPosts := intParam(r.URL.Query().Get("min_posts"), 1)

	result, err := s.service.GetCompanyInsights(r.Context(), minPosts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {

	report := s.service.HealthCheck(r.Context())

	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func parseFilters(query map[string][]string) (*entities.AnalysisFilters, error) {

	get := func(key string) string {
		if values := query[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}

	filters := entities.AnalysisFilters{}

	if value := get("platform"); value != "" {
		platform, err := entities.ToPlatform(value)
		if err != nil {
			return nil, err
		}
		filters.Platform = &platform
	}

	if value := get("company"); value != "" {
		filters.Company = &value
	}

	if value := get("min_ghost_probability"); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.New("invalid min_ghost_probability")
		}
		filters.MinGhostProbability = &parsed
	}

	if value := get("max_ghost_probability"); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, errors.New("invalid max_ghost_probability")
		}
		filters.MaxGhostProbability = &parsed
	}

	if value := get("start_date"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, errors.New("invalid start_date, expected RFC3339")
		}
		filters.StartDate = &parsed
	}

	if value := get("end_date"); value != "" {
		parsed, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, errors.New("invalid end_date, expected RFC3339")
		}
		filters.EndDate = &parsed
	}

	if value := get("risk_level"); value != "" {
		riskLevel, err := entities.ToRiskLevel(value)
		if err != nil {
			return nil, err
		}
		filters.RiskLevel = &riskLevel
	}

	return &filters, nil
}

func intParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, storage.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, storage.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeApi).Errorf("request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
