package repository

import (
	"context"
	"sort"

	"surveylens/internal/model"
)

// AnalysisStore is the storage view used by the analysis pipeline
type AnalysisStore interface {
	// ListQuestionsWithAnswers returns the survey's questions in ascending order,
	// each carrying its answers in submission order. Unknown surveys yield no questions.
	ListQuestionsWithAnswers(ctx context.Context, surveyID string) ([]model.Question, error)
	DeleteSummary(ctx context.Context, surveyID string, scope model.SummaryScope, targetID string) error
	// ReplaceSummary supersedes any summary with the same (survey, scope, target) in one write
	ReplaceSummary(ctx context.Context, summary *model.Summary) error
}

type analysisStore struct {
	surveys   SurveyRepo
	responses ResponseRepo
	summaries SummaryRepo
}

// NewAnalysisStore joins the survey, response and summary repositories
func NewAnalysisStore(surveys SurveyRepo, responses ResponseRepo, summaries SummaryRepo) AnalysisStore {
	return &analysisStore{surveys: surveys, responses: responses, summaries: summaries}
}

func (s *analysisStore) ListQuestionsWithAnswers(ctx context.Context, surveyID string) ([]model.Question, error) {
	survey, err := s.surveys.GetByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return []model.Question{}, nil
	}

	responses, err := s.responses.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	questions := make([]model.Question, len(survey.Questions))
	copy(questions, survey.Questions)
	sort.SliceStable(questions, func(i, j int) bool {
		return questions[i].Order < questions[j].Order
	})

	index := make(map[string]int, len(questions))
	for i := range questions {
		questions[i].Answers = nil
		index[questions[i].ID] = i
	}
	for _, resp := range responses {
		for _, a := range resp.Answers {
			i, ok := index[a.QuestionID]
			if !ok {
				continue
			}
			a.ResponseID = resp.ID
			questions[i].Answers = append(questions[i].Answers, a)
		}
	}
	return questions, nil
}

func (s *analysisStore) DeleteSummary(ctx context.Context, surveyID string, scope model.SummaryScope, targetID string) error {
	return s.summaries.Delete(ctx, surveyID, scope, targetID)
}

func (s *analysisStore) ReplaceSummary(ctx context.Context, summary *model.Summary) error {
	return s.summaries.Replace(ctx, summary)
}
