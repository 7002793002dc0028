package tests

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/maxaizer/ghost-detector/internal/clients/parser"
	"github.com/maxaizer/ghost-detector/internal/entities"
	"github.com/maxaizer/ghost-detector/internal/scoring"
)

type mockExtractor struct {
	mu   sync.Mutex
	jobs map[string]parser.JobData
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{jobs: map[string]parser.JobData{}}
}

func (m *mockExtractor) add(rawURL string, job parser.JobData) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job.Platform == "" {
		job.Platform = parser.DetectPlatform(rawURL)
	}
	m.jobs[rawURL] = job
}

func (m *mockExtractor) Extract(_ context.Context, rawURL string) (*parser.JobData, error) {

	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("%w: invalid job url: %v", entities.ErrValidation, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if job, ok := m.jobs[rawURL]; ok {
		return &job, nil
	}

	return &parser.JobData{
		JobTitle: "Backend Engineer",
		Company:  "Acme",
		Platform: parser.DetectPlatform(rawURL),
	}, nil
}

type mockScorer struct {
	mu    sync.Mutex
	queue []scoring.Result
}

func (m *mockScorer) enqueue(results ...scoring.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, results...)
}

func (m *mockScorer) Score(_ context.Context, _ parser.JobData) (*scoring.Result, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.queue) == 0 {
		return &scoring.Result{
			GhostProbability: 0.5,
			Confidence:       0.8,
			Factors: []entities.KeyFactor{
				{FactorType: entities.FactorWarning, Description: "Limited company information available", Weight: 0.1},
			},
			ProcessingTimeMs: 1,
		}, nil
	}

	result := m.queue[0]
	m.queue = m.queue[1:]
	return &result, nil
}

func scored(probability float64) scoring.Result {
	return scoring.Result{
		GhostProbability: probability,
		Confidence:       0.9,
		Factors: []entities.KeyFactor{
			{FactorType: entities.FactorWarning, Description: "Limited company information available", Weight: 0.1},
		},
		ProcessingTimeMs: 1,
	}
}
