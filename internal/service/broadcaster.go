package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToHost(surveyID string, msgType string, payload interface{})
}

// Analysis progress message types sent to hosts
const (
	MsgAnalysisStarted   = "analysis_started"
	MsgQuestionAnalyzed  = "question_analyzed"
	MsgAnalysisCompleted = "analysis_completed"
	MsgAnalysisFailed    = "analysis_failed"
)
