package model

import "time"

// QuestionOutcome describes what an analysis run did with one question
type QuestionOutcome string

const (
	OutcomeClustered QuestionOutcome = "clustered" // text question summarized via clusters
	OutcomeStats     QuestionOutcome = "stats"     // structured question summarized from counts
	OutcomeSkipped   QuestionOutcome = "skipped"   // no qualifying answers, summary cleared
)

// QuestionRun is the per-question part of an AnalysisRun
type QuestionRun struct {
	QuestionID string          `json:"questionId"`
	Type       QuestionType    `json:"type"`
	Outcome    QuestionOutcome `json:"outcome"`
	Answers    int             `json:"answers"`
	Clusters   int             `json:"clusters,omitempty"` // non-empty clusters summarized
}

// AnalysisRun reports what one analysis pass over a survey produced.
// It is returned to the caller and never persisted.
type AnalysisRun struct {
	SurveyID   string        `json:"surveyId"`
	Questions  []QuestionRun `json:"questions"`
	GlobalMode string        `json:"globalMode"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
}
