package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/ghost-detector/internal/clients/parser"
	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/events"
	"github.com/maxaizer/ghost-detector/internal/logger"
	"github.com/maxaizer/ghost-detector/internal/metrics"
	"github.com/maxaizer/ghost-detector/internal/scoring"
	"github.com/maxaizer/ghost-detector/internal/stats"
	"github.com/maxaizer/ghost-detector/internal/storage"
	log "github.com/sirupsen/logrus"
)

const modelVersion = "v1.0.0-mock"

type jobExtractor interface {
	Extract(ctx context.Context, rawURL string) (*parser.JobData, error)
}

type ghostScorer interface {
	Score(ctx context.Context, job parser.JobData) (*scoring.Result, error)
}

// AnalysisResult is the submission response. Field names follow the
// public API contract, which is camelCase unlike the stored entities.
type AnalysisResult struct {
	ID               string             `json:"id"`
	URL              string             `json:"url"`
	GhostProbability float64            `json:"ghostProbability"`
	Confidence       float64            `json:"confidence"`
	RiskLevel        entities.RiskLevel `json:"riskLevel"`
	Duplicate        bool               `json:"duplicate"`
	KeyFactors       []FactorSummary    `json:"keyFactors"`
	JobData          JobSummary         `json:"jobData"`
	Metadata         ResultMetadata     `json:"metadata"`
}

type FactorSummary struct {
	Factor      entities.FactorType `json:"factor"`
	Weight      float64             `json:"weight"`
	Description string              `json:"description"`
}

type JobSummary struct {
	Title    string            `json:"title"`
	Company  string            `json:"company"`
	Location *string           `json:"location,omitempty"`
	Platform entities.Platform `json:"platform"`
}

type ResultMetadata struct {
	ProcessingTimeMs int       `json:"processingTime"`
	ModelVersion     string    `json:"modelVersion"`
	AnalysisDate     time.Time `json:"analysisDate"`
}

type AnalysisService struct {
	bus       EventBus.Bus
	store     storage.Backend
	fallback  storage.Backend
	extractor jobExtractor
	scorer    ghostScorer
}

// NewAnalysisService wires the analysis pipeline over the primary store.
// fallback may be nil; when set, read endpoints retry against it if the
// primary reports itself unavailable.
func NewAnalysisService(bus EventBus.Bus, store storage.Backend, fallback storage.Backend,
	extractor jobExtractor, scorer ghostScorer) *AnalysisService {

	return &AnalysisService{
		bus:       bus,
		store:     store,
		fallback:  fallback,
		extractor: extractor,
		scorer:    scorer,
	}
}

// SubmitAnalysis runs the full pipeline for one posting URL: extract,
// score, persist. Resubmitting a known URL returns the stored analysis
// instead of creating a second record.
func (s *AnalysisService) SubmitAnalysis(ctx context.Context, rawURL string) (*AnalysisResult, error) {

	analysisStart := time.Now()

	start := time.Now()
	job, err := s.extractor.Extract(ctx, rawURL)
	metrics.AnalysisStepDuration.WithLabelValues("extraction").Observe(time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, entities.ErrValidation) {
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeParser).
				Errorf("failed to extract job data from %v: %v", rawURL, err)
		}
		return nil, err
	}

	start = time.Now()
	scored, err := s.scorer.Score(ctx, *job)
	metrics.AnalysisStepDuration.WithLabelValues("scoring").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to score job posting: %w", err)
	}

	search, err := entities.NewJobSearch(rawURL, job.Platform, job.JobTitle, job.Company, job.Location,
		scored.GhostProbability, scored.Confidence)
	if err != nil {
		return nil, err
	}

	parserUsed, extractionMethod := "mock_parser", "simulated"
	search.ParserUsed = &parserUsed
	search.ExtractionMethod = &extractionMethod
	search.ProcessingTimeMs = &scored.ProcessingTimeMs

	start = time.Now()
	id, err := s.store.CreateJobSearch(ctx, search, scored.Factors, job.Metadata)
	metrics.AnalysisStepDuration.WithLabelValues("persistence").Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, storage.ErrUnavailable) {
			log.WithField(logger.ErrorTypeField, s.errorType()).
				Errorf("failed to persist analysis: %v", err)
		}
		return nil, err
	}

	// backends only assign search.ID on a fresh insert, so a mismatch
	// means the URL resolved to an already stored analysis
	duplicate := search.ID != id
	if duplicate {
		metrics.DuplicateSubmissionsCounter.Inc()
		return s.resultFromExisting(ctx, id)
	}

	metrics.AnalysesCounter.Inc()
	metrics.AnalysisDuration.Observe(time.Since(analysisStart).Seconds())

	s.bus.Publish(events.AnalysisCompletedTopic, events.AnalysisCompleted{
		SearchID:         id,
		URL:              rawURL,
		Company:          search.Company,
		GhostProbability: search.GhostProbability,
		Duplicate:        false,
	})

	return buildResult(id, *search, scored.Factors, false), nil
}

func (s *AnalysisService) resultFromExisting(ctx context.Context, id int64) (*AnalysisResult, error) {

	detail, err := s.store.GetJobSearch(ctx, id)
	if err != nil {
		return nil, err
	}

	s.bus.Publish(events.AnalysisCompletedTopic, events.AnalysisCompleted{
		SearchID:         id,
		URL:              detail.JobSearch.URL,
		Company:          detail.JobSearch.Company,
		GhostProbability: detail.JobSearch.GhostProbability,
		Duplicate:        true,
	})

	return buildResult(id, detail.JobSearch, detail.KeyFactors, true), nil
}

func buildResult(id int64, search entities.JobSearch, factors []entities.KeyFactor, duplicate bool) *AnalysisResult {

	summaries := make([]FactorSummary, 0, len(factors))
	for _, factor := range factors {
		summaries = append(summaries, FactorSummary{
			Factor:      factor.FactorType,
			Weight:      factor.Weight,
			Description: factor.Description,
		})
	}

	processingTime := 0
	if search.ProcessingTimeMs != nil {
		processingTime = *search.ProcessingTimeMs
	}

	return &AnalysisResult{
		ID:               strconv.FormatInt(id, 10),
		URL:              search.URL,
		GhostProbability: stats.Round3(search.GhostProbability),
		Confidence:       stats.Round3(search.Confidence),
		RiskLevel:        stats.RiskLevelFor(search.GhostProbability),
		Duplicate:        duplicate,
		KeyFactors:       summaries,
		JobData: JobSummary{
			Title:    search.JobTitle,
			Company:  search.Company,
			Location: search.Location,
			Platform: search.Platform,
		},
		Metadata: ResultMetadata{
			ProcessingTimeMs: processingTime,
			ModelVersion:     modelVersion,
			AnalysisDate:     search.AnalysisDate,
		},
	}
}

func (s *AnalysisService) GetAnalysisDetail(ctx context.Context, id int64) (*entities.AnalysisDetail, error) {

	detail, err := s.store.GetJobSearch(ctx, id)
	if s.shouldFallBack(err) {
		return s.fallback.GetJobSearch(ctx, id)
	}
	return detail, err
}

func (s *AnalysisService) GetHistory(ctx context.Context, filters entities.AnalysisFilters,
	page, pageSize int, orderBy entities.OrderColumn, orderDesc bool) (*entities.HistoryPage, error) {

	if err := filters.Validate(); err != nil {
		return nil, err
	}

	result, err := s.store.ListJobSearches(ctx, filters, page, pageSize, orderBy, orderDesc)
	if s.shouldFallBack(err) {
		return s.fallback.ListJobSearches(ctx, filters, page, pageSize, orderBy, orderDesc)
	}
	return result, err
}

func (s *AnalysisService) DeleteAnalysis(ctx context.Context, id int64) error {

	existed, err := s.store.DeleteJobSearch(ctx, id)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("%w: analysis %d", storage.ErrNotFound, id)
	}

	s.bus.Publish(events.AnalysisDeletedTopic, events.AnalysisDeleted{SearchID: id})
	return nil
}

func (s *AnalysisService) GetStats(ctx context.Context, daysBack int) (*entities.AnalysisStats, error) {

	result, err := s.store.GetAnalysisStats(ctx, daysBack)
	if s.shouldFallBack(err) {
		return s.fallback.GetAnalysisStats(ctx, daysBack)
	}
	return result, err
}

func (s *AnalysisService) GetCompanyInsights(ctx context.Context, minPosts int) ([]entities.CompanyInsight, error) {

	result, err := s.store.ListCompanyInsights(ctx, minPosts)
	if s.shouldFallBack(err) {
		return s.fallback.ListCompanyInsights(ctx, minPosts)
	}
	return result, err
}

func (s *AnalysisService) HealthCheck(ctx context.Context) *entities.HealthReport {
	return s.store.HealthCheck(ctx)
}

func (s *AnalysisService) shouldFallBack(err error) bool {
	if err == nil || s.fallback == nil || !errors.Is(err, storage.ErrUnavailable) {
		return false
	}
	log.WithField(logger.ErrorTypeField, s.errorType()).
		Warnf("%v backend unavailable, falling back to %v: %v", s.store.Name(), s.fallback.Name(), err)
	return true
}

func (s *AnalysisService) errorType() string {
	if s.store.Name() == "edge" {
		return logger.ErrorTypeEdge
	}
	return logger.ErrorTypeDb
}
