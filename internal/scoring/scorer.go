package scoring

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/maxaizer/ghost-detector/internal/clients/parser"
	"github.com/maxaizer/ghost-detector/internal/entities"
)

// Result is the only shape the rest of the system knows about scoring.
type Result struct {
	GhostProbability float64
	Confidence       float64
	Factors          []entities.KeyFactor
	ProcessingTimeMs int
}

// HeuristicScorer is the placeholder model: a random base probability
// nudged by crude company-name heuristics, plus factors generated to
// match the tier the probability landed in.
type HeuristicScorer struct {
	rand *rand.Rand
}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *HeuristicScorer) Score(_ context.Context, job parser.JobData) (*Result, error) {

	start := time.Now()

	base := 0.2 + s.rand.Float64()*0.6

	company := strings.ToLower(job.Company)
	if strings.Contains(company, "startup") {
		base += 0.1
	} else if strings.Contains(company, "google") || strings.Contains(company, "microsoft") {
		base -= 0.2
	}

	ghostProbability := clamp(base, 0.05, 0.95)
	confidence := 0.75 + s.rand.Float64()*0.20

	return &Result{
		GhostProbability: ghostProbability,
		Confidence:       confidence,
		Factors:          s.generateFactors(ghostProbability),
		ProcessingTimeMs: int(time.Since(start).Milliseconds()),
	}, nil
}

func (s *HeuristicScorer) generateFactors(ghostProbability float64) []entities.KeyFactor {

	var factors []entities.KeyFactor

	if ghostProbability > 0.6 {
		factors = append(factors,
			entities.KeyFactor{
				FactorType:  entities.FactorRedFlag,
				Description: "Job posting has been active for 60+ days without updates",
				Severity:    floatPtr(0.7 + s.rand.Float64()*0.2),
				Weight:      0.25 + s.rand.Float64()*0.15,
			},
			entities.KeyFactor{
				FactorType:  entities.FactorRedFlag,
				Description: "Generic job description with minimal specific requirements",
				Severity:    floatPtr(0.6 + s.rand.Float64()*0.25),
				Weight:      0.20 + s.rand.Float64()*0.10,
			})
	}

	if ghostProbability > 0.3 && ghostProbability <= 0.6 {
		factors = append(factors,
			entities.KeyFactor{
				FactorType:  entities.FactorWarning,
				Description: "Limited company information available",
				Severity:    floatPtr(0.4 + s.rand.Float64()*0.3),
				Weight:      0.15 + s.rand.Float64()*0.10,
			},
			entities.KeyFactor{
				FactorType:  entities.FactorWarning,
				Description: "Vague salary range or compensation details missing",
				Severity:    floatPtr(0.3 + s.rand.Float64()*0.4),
				Weight:      0.10 + s.rand.Float64()*0.15,
			})
	}

	if ghostProbability < 0.4 {
		factors = append(factors,
			entities.KeyFactor{
				FactorType:  entities.FactorPositive,
				Description: "Clear role requirements and specific technical skills mentioned",
				Severity:    floatPtr(0.2 + s.rand.Float64()*0.2),
				Weight:      -0.15 + (s.rand.Float64()*0.1 - 0.05),
			},
			entities.KeyFactor{
				FactorType:  entities.FactorPositive,
				Description: "Recent posting with realistic application timeline",
				Severity:    floatPtr(0.1 + s.rand.Float64()*0.2),
				Weight:      -0.10 + (s.rand.Float64()*0.1 - 0.05),
			})
	}

	if len(factors) == 0 {
		factors = append(factors, entities.KeyFactor{
			FactorType:  entities.FactorWarning,
			Description: "Standard analysis completed with no significant risk factors",
			Severity:    floatPtr(0.2),
			Weight:      0.05,
		})
	}

	return factors
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floatPtr(v float64) *float64 {
	return &v
}
