package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"surveylens/internal/model"
	"surveylens/internal/repository"
)

// SurveyService handles survey CRUD operations
type SurveyService struct {
	surveyRepo repository.SurveyRepo
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo repository.SurveyRepo) *SurveyService {
	return &SurveyService{
		surveyRepo: surveyRepo,
	}
}

// Create validates and stores a new survey owned by hostID
func (s *SurveyService) Create(ctx context.Context, hostID string, survey *model.Survey) (*model.Survey, error) {
	survey.ID = ""
	survey.HostID = hostID
	if survey.Status == "" {
		survey.Status = model.SurveyStatusDraft
	}
	if err := prepareSurvey(survey); err != nil {
		return nil, err
	}

	if _, err := s.surveyRepo.Create(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// GetByID retrieves a survey by ID
func (s *SurveyService) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	survey, err := s.surveyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}

// GetOwned retrieves a survey and checks that hostID owns it
func (s *SurveyService) GetOwned(ctx context.Context, hostID, id string) (*model.Survey, error) {
	survey, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if survey.HostID != hostID {
		return nil, ErrForbidden
	}
	return survey, nil
}

// GetByHostID retrieves all surveys for a host
func (s *SurveyService) GetByHostID(ctx context.Context, hostID string) ([]*model.Survey, error) {
	return s.surveyRepo.GetByHostID(ctx, hostID)
}

// Update replaces title, description, status and questions of an owned survey.
// Questions that keep their id keep their answers.
func (s *SurveyService) Update(ctx context.Context, hostID, id string, changes *model.Survey) (*model.Survey, error) {
	survey, err := s.GetOwned(ctx, hostID, id)
	if err != nil {
		return nil, err
	}

	survey.Title = changes.Title
	survey.Description = changes.Description
	survey.Questions = changes.Questions
	if changes.Status != "" {
		survey.Status = changes.Status
	}
	if err := prepareSurvey(survey); err != nil {
		return nil, err
	}

	if err := s.surveyRepo.Update(ctx, survey); err != nil {
		return nil, err
	}
	return survey, nil
}

// prepareSurvey validates a survey and fills in question ids, order and scale defaults
func prepareSurvey(survey *model.Survey) error {
	survey.Title = strings.TrimSpace(survey.Title)
	if survey.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidSurvey)
	}
	if survey.Status != model.SurveyStatusDraft && survey.Status != model.SurveyStatusPublished {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidSurvey, survey.Status)
	}

	seen := make(map[string]bool, len(survey.Questions))
	for i := range survey.Questions {
		q := &survey.Questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if seen[q.ID] {
			return fmt.Errorf("%w: duplicate question id %s", ErrInvalidSurvey, q.ID)
		}
		seen[q.ID] = true
		q.Order = i
		q.Answers = nil

		if err := validateQuestion(q); err != nil {
			return fmt.Errorf("%w: question %d: %v", ErrInvalidSurvey, i+1, err)
		}
	}
	return nil
}

func validateQuestion(q *model.Question) error {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return fmt.Errorf("text is required")
	}
	if !q.Type.IsValid() {
		return fmt.Errorf("unknown type %q", q.Type)
	}

	switch q.Type {
	case model.QuestionTypeSingleChoice, model.QuestionTypeMultiChoice:
		if len(q.Options) == 0 {
			return fmt.Errorf("choice questions need options")
		}
		q.Scale = nil
	case model.QuestionTypeLinearScale:
		if q.Scale == nil {
			q.Scale = &model.ScaleOptions{Min: 1, Max: 5}
		}
		if q.Scale.Min >= q.Scale.Max {
			return fmt.Errorf("scale min must be below max")
		}
		q.Options = nil
	default:
		q.Options = nil
		q.Scale = nil
	}
	return nil
}
