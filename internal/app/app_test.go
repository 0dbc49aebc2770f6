package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveylens/internal/config"
	"surveylens/internal/model"
)

func TestNewMemory(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, &config.Config{Storage: "memory", SummaryCacheSize: 8})
	require.NoError(t, err)
	defer a.Close(ctx)

	id, err := a.SurveyRepo.Create(ctx, &model.Survey{
		HostID:    "h",
		Title:     "t",
		Questions: []model.Question{{ID: "q1", Text: "Why?", Type: model.QuestionTypeShortText}},
	})
	require.NoError(t, err)

	questions, err := a.AnalysisStore().ListQuestionsWithAnswers(ctx, id)
	require.NoError(t, err)
	assert.Len(t, questions, 1)

	archived, err := a.Archive.Archive(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, archived)

	release, ok, err := a.RunLock.TryAcquire(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, release(ctx))
}

func TestNewUnknownStorage(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Storage: "sqlite"})
	assert.Error(t, err)
}

func TestNewArchiveNeedsCredentials(t *testing.T) {
	_, err := New(context.Background(), &config.Config{
		Storage: "memory",
		Archive: config.ArchiveConfig{Enabled: true, Endpoint: "localhost:9000", Bucket: "reports"},
	})
	assert.Error(t, err)
}
