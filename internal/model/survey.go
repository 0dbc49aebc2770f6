package model

import "time"

// SurveyStatus controls whether a survey accepts responses
type SurveyStatus string

const (
	SurveyStatusDraft     SurveyStatus = "DRAFT"
	SurveyStatusPublished SurveyStatus = "PUBLISHED"
)

// Survey is a persistent questionnaire created by a host
type Survey struct {
	ID          string       `json:"id" bson:"_id,omitempty"`
	HostID      string       `json:"hostId" bson:"hostId"`
	Title       string       `json:"title" bson:"title"`
	Description string       `json:"description,omitempty" bson:"description,omitempty"`
	Status      SurveyStatus `json:"status" bson:"status"`
	Questions   []Question   `json:"questions" bson:"questions"`
	CreatedAt   time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt" bson:"updatedAt"`
}

// QuestionByID returns the question with the given id, or nil
func (s *Survey) QuestionByID(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// Response is one respondent's submission to a survey
type Response struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	SurveyID    string    `json:"surveyId" bson:"surveyId"`
	Answers     []Answer  `json:"answers" bson:"answers"`
	SubmittedAt time.Time `json:"submittedAt" bson:"submittedAt"`
}
