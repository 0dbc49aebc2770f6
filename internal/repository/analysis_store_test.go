package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveylens/internal/model"
)

func newMemoryStore() (SurveyRepo, ResponseRepo, SummaryRepo, AnalysisStore) {
	surveys := NewMemorySurveyRepo()
	responses := NewMemoryResponseRepo()
	summaries := NewMemorySummaryRepo()
	return surveys, responses, summaries, NewAnalysisStore(surveys, responses, summaries)
}

func TestListQuestionsWithAnswersOrdersAndGroups(t *testing.T) {
	ctx := context.Background()
	surveys, responses, _, store := newMemoryStore()

	id, err := surveys.Create(ctx, &model.Survey{
		HostID: "h1",
		Questions: []model.Question{
			{ID: "q2", Text: "Second", Type: model.QuestionTypeSingleChoice, Order: 2, Options: []string{"A", "B"}},
			{ID: "q1", Text: "First", Type: model.QuestionTypeShortText, Order: 1},
		},
	})
	require.NoError(t, err)

	_, err = responses.Create(ctx, &model.Response{SurveyID: id, Answers: []model.Answer{
		{QuestionID: "q1", Text: "hello"},
		{QuestionID: "q2", Value: model.SelectionOf("A")},
		{QuestionID: "unknown", Text: "dropped"},
	}})
	require.NoError(t, err)
	_, err = responses.Create(ctx, &model.Response{SurveyID: id, Answers: []model.Answer{
		{QuestionID: "q1", Text: "world"},
	}})
	require.NoError(t, err)
	_, err = responses.Create(ctx, &model.Response{SurveyID: "other", Answers: []model.Answer{
		{QuestionID: "q1", Text: "elsewhere"},
	}})
	require.NoError(t, err)

	questions, err := store.ListQuestionsWithAnswers(ctx, id)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, "q1", questions[0].ID)
	require.Len(t, questions[0].Answers, 2)
	assert.Equal(t, "hello", questions[0].Answers[0].Text)
	assert.Equal(t, "world", questions[0].Answers[1].Text)
	assert.NotEmpty(t, questions[0].Answers[0].ResponseID)

	assert.Equal(t, "q2", questions[1].ID)
	require.Len(t, questions[1].Answers, 1)
	assert.Equal(t, model.ValueSelection, questions[1].Answers[0].Value.Kind)
}

func TestListQuestionsWithAnswersUnknownSurvey(t *testing.T) {
	_, _, _, store := newMemoryStore()

	questions, err := store.ListQuestionsWithAnswers(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestReplaceSummaryKeepsOnePerSlot(t *testing.T) {
	ctx := context.Background()
	_, _, summaries, store := newMemoryStore()

	require.NoError(t, store.ReplaceSummary(ctx, &model.Summary{SurveyID: "s1", Scope: model.ScopePerQuestion, TargetID: "q1", Content: "old"}))
	require.NoError(t, store.ReplaceSummary(ctx, &model.Summary{SurveyID: "s1", Scope: model.ScopePerQuestion, TargetID: "q1", Content: "new"}))
	require.NoError(t, store.ReplaceSummary(ctx, &model.Summary{SurveyID: "s1", Scope: model.ScopeSurveyGlobal, Content: "global"}))

	list, err := summaries.ListBySurvey(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Content)
	assert.Equal(t, "s1:PER_QUESTION:q1", list[0].ID)
	assert.Equal(t, "global", list[1].Content)

	require.NoError(t, store.DeleteSummary(ctx, "s1", model.ScopePerQuestion, "q1"))
	list, err = summaries.ListBySurvey(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.ScopeSurveyGlobal, list[0].Scope)
}

func TestMemorySurveyRepoCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemorySurveyRepo()

	s := &model.Survey{HostID: "h1", Questions: []model.Question{{ID: "q1", Options: []string{"A"}}}}
	id, err := repo.Create(ctx, s)
	require.NoError(t, err)

	s.Questions[0].Options[0] = "mutated"
	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Questions[0].Options[0])

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.GetByHostID(ctx, "h1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
