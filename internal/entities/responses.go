package entities

import "time"

// AnalysisDetail is the full read model for one job search: the record,
// its owned children and the current rollup for its company.
type AnalysisDetail struct {
	JobSearch       JobSearch        `json:"job_search"`
	KeyFactors      []KeyFactor      `json:"key_factors"`
	ParsingMetadata *ParsingMetadata `json:"parsing_metadata,omitempty"`
	CompanyInfo     *Company         `json:"company_info,omitempty"`
}

type HistoryPage struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	Analyses   []AnalysisDetail `json:"analyses"`
}

type CompanyStanding struct {
	Company             string  `json:"company"`
	AvgGhostProbability float64 `json:"avg_ghost_probability"`
	TotalPosts          int     `json:"total_posts"`
	GhostPosts          int     `json:"ghost_posts"`
}

type TrendPoint struct {
	Date                string  `json:"date"`
	Count               int     `json:"count"`
	AvgGhostProbability float64 `json:"avg_ghost_probability"`
}

type AnalysisStats struct {
	TotalAnalyses       int               `json:"total_analyses"`
	AvgGhostProbability float64           `json:"avg_ghost_probability"`
	HighRiskCount       int               `json:"high_risk_count"`
	MediumRiskCount     int               `json:"medium_risk_count"`
	LowRiskCount        int               `json:"low_risk_count"`
	TopGhostCompanies   []CompanyStanding `json:"top_ghost_companies"`
	PlatformBreakdown   map[Platform]int  `json:"platform_breakdown"`
	RecentTrend         []TrendPoint      `json:"recent_trend"`
}

type CompanyInsight struct {
	CompanyName         string    `json:"company_name"`
	TotalPosts          int       `json:"total_posts"`
	GhostPosts          int       `json:"ghost_posts"`
	AvgGhostProbability float64   `json:"avg_ghost_probability"`
	GhostJobRate        float64   `json:"ghost_job_rate"`
	RiskLevel           RiskLevel `json:"risk_level"`
	FirstSeen           time.Time `json:"first_seen"`
	LastUpdated         time.Time `json:"last_updated"`
}

type HealthReport struct {
	Status            string    `json:"status"`
	Backend           string    `json:"backend"`
	JobSearches       int64     `json:"job_searches"`
	Companies         int64     `json:"companies"`
	KeyFactors        int64     `json:"key_factors"`
	RecentAnalyses24h int64     `json:"recent_analyses_24h"`
	Error             string    `json:"error,omitempty"`
	LastCheck         time.Time `json:"last_check"`
}
