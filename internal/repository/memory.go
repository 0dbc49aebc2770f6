package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"surveylens/internal/model"
)

// In-memory repositories for tests and local runs without MongoDB.
// Values are deep-copied on the way in and out.

type memorySurveyRepo struct {
	mu      sync.RWMutex
	surveys map[string]model.Survey
}

// NewMemorySurveyRepo creates an in-memory survey repository
func NewMemorySurveyRepo() SurveyRepo {
	return &memorySurveyRepo{surveys: make(map[string]model.Survey)}
}

func (r *memorySurveyRepo) Create(ctx context.Context, survey *model.Survey) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if survey.ID == "" {
		survey.ID = uuid.NewString()
	}
	survey.CreatedAt = time.Now()
	survey.UpdatedAt = survey.CreatedAt
	r.surveys[survey.ID] = cloneSurvey(*survey)
	return survey.ID, nil
}

func (r *memorySurveyRepo) GetByID(ctx context.Context, id string) (*model.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.surveys[id]
	if !ok {
		return nil, nil
	}
	out := cloneSurvey(s)
	return &out, nil
}

func (r *memorySurveyRepo) GetByHostID(ctx context.Context, hostID string) ([]*model.Survey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Survey{}
	for _, s := range r.surveys {
		if s.HostID == hostID {
			c := cloneSurvey(s)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memorySurveyRepo) Update(ctx context.Context, survey *model.Survey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	survey.UpdatedAt = time.Now()
	if _, ok := r.surveys[survey.ID]; ok {
		r.surveys[survey.ID] = cloneSurvey(*survey)
	}
	return nil
}

type memoryResponseRepo struct {
	mu        sync.RWMutex
	responses []model.Response
}

// NewMemoryResponseRepo creates an in-memory response repository
func NewMemoryResponseRepo() ResponseRepo {
	return &memoryResponseRepo{}
}

func (r *memoryResponseRepo) Create(ctx context.Context, response *model.Response) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	if response.SubmittedAt.IsZero() {
		response.SubmittedAt = time.Now()
	}
	c := *response
	c.Answers = append([]model.Answer(nil), response.Answers...)
	r.responses = append(r.responses, c)
	return response.ID, nil
}

func (r *memoryResponseRepo) ListBySurvey(ctx context.Context, surveyID string) ([]*model.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Response{}
	for _, resp := range r.responses {
		if resp.SurveyID == surveyID {
			c := resp
			c.Answers = append([]model.Answer(nil), resp.Answers...)
			out = append(out, &c)
		}
	}
	return out, nil
}

type memorySummaryRepo struct {
	mu        sync.RWMutex
	summaries map[string]model.Summary
}

// NewMemorySummaryRepo creates an in-memory summary repository
func NewMemorySummaryRepo() SummaryRepo {
	return &memorySummaryRepo{summaries: make(map[string]model.Summary)}
}

func (r *memorySummaryRepo) Replace(ctx context.Context, summary *model.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary.ID = model.SummaryKey(summary.SurveyID, summary.Scope, summary.TargetID)
	r.summaries[summary.ID] = *summary
	return nil
}

func (r *memorySummaryRepo) Delete(ctx context.Context, surveyID string, scope model.SummaryScope, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.summaries, model.SummaryKey(surveyID, scope, targetID))
	return nil
}

func (r *memorySummaryRepo) ListBySurvey(ctx context.Context, surveyID string) ([]*model.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*model.Summary{}
	for _, s := range r.summaries {
		if s.SurveyID == surveyID {
			c := s
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Scope != out[j].Scope {
			return out[i].Scope < out[j].Scope
		}
		return out[i].TargetID < out[j].TargetID
	})
	return out, nil
}

func cloneSurvey(s model.Survey) model.Survey {
	qs := make([]model.Question, len(s.Questions))
	for i, q := range s.Questions {
		q.Options = append([]string(nil), q.Options...)
		if q.Scale != nil {
			scale := *q.Scale
			q.Scale = &scale
		}
		q.Answers = nil
		qs[i] = q
	}
	s.Questions = qs
	return s
}
