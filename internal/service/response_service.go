package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"surveylens/internal/model"
	"surveylens/internal/repository"
)

// ResponseService validates and stores survey responses
type ResponseService struct {
	surveyRepo   repository.SurveyRepo
	responseRepo repository.ResponseRepo
}

// NewResponseService creates a new response service
func NewResponseService(surveyRepo repository.SurveyRepo, responseRepo repository.ResponseRepo) *ResponseService {
	return &ResponseService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
	}
}

// Submit stores one respondent's answers to a published survey
func (s *ResponseService) Submit(ctx context.Context, surveyID string, answers []model.Answer) (string, error) {
	survey, err := s.surveyRepo.GetByID(ctx, surveyID)
	if err != nil {
		return "", err
	}
	if survey == nil {
		return "", ErrSurveyNotFound
	}
	if survey.Status != model.SurveyStatusPublished {
		return "", ErrSurveyNotPublished
	}

	answered := make(map[string]bool, len(answers))
	kept := make([]model.Answer, 0, len(answers))
	for _, a := range answers {
		q := survey.QuestionByID(a.QuestionID)
		if q == nil {
			return "", fmt.Errorf("%w: unknown question %s", ErrInvalidResponse, a.QuestionID)
		}
		if answered[q.ID] {
			return "", fmt.Errorf("%w: question %s answered twice", ErrInvalidResponse, q.ID)
		}

		a.ResponseID = ""
		a.Text = strings.TrimSpace(a.Text)
		if err := checkAnswer(q, a); err != nil {
			return "", fmt.Errorf("%w: question %s: %v", ErrInvalidResponse, q.ID, err)
		}
		if isEmptyAnswer(a) {
			continue
		}
		answered[q.ID] = true
		kept = append(kept, a)
	}

	for _, q := range survey.Questions {
		if q.Required && !answered[q.ID] {
			return "", fmt.Errorf("%w: question %s is required", ErrInvalidResponse, q.ID)
		}
	}

	return s.responseRepo.Create(ctx, &model.Response{SurveyID: surveyID, Answers: kept})
}

// checkAnswer matches the answer shape against the question type
func checkAnswer(q *model.Question, a model.Answer) error {
	if q.Type.IsText() {
		if !a.Value.IsZero() {
			return fmt.Errorf("text questions take valueText only")
		}
		return nil
	}

	switch a.Value.Kind {
	case model.ValueNone:
		if a.Text != "" {
			return fmt.Errorf("valueText is only accepted for text questions")
		}
		return nil
	case model.ValueSelection:
		if q.Type != model.QuestionTypeSingleChoice {
			return fmt.Errorf("a single selection does not fit %s", q.Type)
		}
	case model.ValueSelections:
		if q.Type != model.QuestionTypeMultiChoice {
			return fmt.Errorf("a selection list does not fit %s", q.Type)
		}
	case model.ValueScale:
		if q.Type != model.QuestionTypeLinearScale || q.Scale == nil {
			return fmt.Errorf("a scale value does not fit %s", q.Type)
		}
		v := a.Value.Scale
		if v != math.Trunc(v) || v < float64(q.Scale.Min) || v > float64(q.Scale.Max) {
			return fmt.Errorf("scale value %s outside %d..%d", model.FormatNumber(v), q.Scale.Min, q.Scale.Max)
		}
		return nil
	}

	for _, opt := range a.Value.Selected {
		if !q.HasOption(opt) {
			return fmt.Errorf("unknown option %q", opt)
		}
	}
	return nil
}

func isEmptyAnswer(a model.Answer) bool {
	switch a.Value.Kind {
	case model.ValueNone:
		return a.Text == ""
	case model.ValueSelections:
		return len(a.Value.Selected) == 0
	}
	return false
}
