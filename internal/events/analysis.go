package events

var (
	AnalysisCompletedTopic = "AnalysisCompletedEvent"
	AnalysisDeletedTopic   = "AnalysisDeletedEvent"
)

type AnalysisCompleted struct {
	SearchID         int64
	URL              string
	Company          string
	GhostProbability float64
	Duplicate        bool
}

type AnalysisDeleted struct {
	SearchID int64
}
