package model

import (
	"strings"
	"time"
)

// SummaryScope classifies what a summary describes
type SummaryScope string

const (
	ScopePerQuestion  SummaryScope = "PER_QUESTION"
	ScopeSurveyGlobal SummaryScope = "SURVEY_GLOBAL"
)

// Summary modes recorded in metadata
const (
	ModeClusters       = "llm+clusters"
	ModeStats          = "stats"
	ModeGlobal         = "llm-global"
	ModeFallbackGlobal = "fallback-global"
)

// StatsModelTag marks summaries computed without a generation call
const StatsModelTag = "stats@v1"

// FrequencyEntry is one row of an ordered frequency table
type FrequencyEntry struct {
	Value string `json:"value" bson:"value"`
	Count int    `json:"count" bson:"count"`
}

// ScaleStats holds numeric stats for LINEAR_SCALE questions
type ScaleStats struct {
	Mean float64 `json:"avg" bson:"avg"` // full precision
	Min  float64 `json:"min" bson:"min"`
	Max  float64 `json:"max" bson:"max"`
}

// SummaryMeta is the metadata stored with a summary. Which fields are set depends on Mode.
type SummaryMeta struct {
	Mode             string           `json:"mode,omitempty" bson:"mode,omitempty"`
	Type             QuestionType     `json:"type,omitempty" bson:"type,omitempty"`
	Clusters         []string         `json:"clusters,omitempty" bson:"clusters,omitempty"`
	TotalAnswers     int              `json:"totalAnswers,omitempty" bson:"totalAnswers,omitempty"`
	Frequencies      []FrequencyEntry `json:"frequencies,omitempty" bson:"frequencies,omitempty"`
	Total            int              `json:"total,omitempty" bson:"total,omitempty"`
	ScaleStats       *ScaleStats      `json:"scaleStats,omitempty" bson:"scaleStats,omitempty"`
	TotalTextAnswers int              `json:"totalTextAnswers,omitempty" bson:"totalTextAnswers,omitempty"`
}

// Summary is a persisted analysis result for a question or a whole survey
type Summary struct {
	ID        string       `json:"id" bson:"_id,omitempty"`
	SurveyID  string       `json:"surveyId" bson:"surveyId"`
	Scope     SummaryScope `json:"scope" bson:"scope"`
	TargetID  string       `json:"targetId,omitempty" bson:"targetId"` // question id; empty for SURVEY_GLOBAL
	Content   string       `json:"content" bson:"content"`
	Meta      SummaryMeta  `json:"meta" bson:"meta"`
	Model     string       `json:"model" bson:"model"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
}

// SummaryKey is the stable identity of a summary slot
func SummaryKey(surveyID string, scope SummaryScope, targetID string) string {
	return strings.Join([]string{surveyID, string(scope), targetID}, ":")
}
