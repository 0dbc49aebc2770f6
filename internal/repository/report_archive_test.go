package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveylens/internal/model"
)

func TestNewS3ArchiveValidation(t *testing.T) {
	_, err := NewS3Archive(S3Config{})
	assert.Error(t, err)

	_, err = NewS3Archive(S3Config{Endpoint: "minio:9000"})
	assert.Error(t, err)

	_, err = NewS3Archive(S3Config{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)
}

func TestArchiveKey(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 30, 5, 0, time.UTC)
	assert.Equal(t, "surveys/s1/analysis/20260301T123005.000Z.json", ArchiveKey("s1", at))
}

func TestS3ArchivePutsReport(t *testing.T) {
	var (
		mu   sync.Mutex
		puts = map[string]string{}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			puts[r.URL.Path] = string(body)
			mu.Unlock()
			w.Header().Set("ETag", `"abc"`)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	archive, err := NewS3Archive(S3Config{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "reports",
	})
	require.NoError(t, err)

	finished := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	key, err := archive.Archive(context.Background(), &ArchivedReport{
		Run:       &model.AnalysisRun{SurveyID: "s1", FinishedAt: finished},
		Summaries: []*model.Summary{{SurveyID: "s1", Scope: model.ScopeSurveyGlobal, Content: "all good"}},
	})
	require.NoError(t, err)
	assert.Equal(t, ArchiveKey("s1", finished), key)

	mu.Lock()
	defer mu.Unlock()
	body, ok := puts["/reports/"+key]
	require.True(t, ok, "expected PUT to /reports/%s, got %v", key, puts)
	assert.Contains(t, body, "all good")
}

func TestS3ArchiveRetriesBucketCheckAfterFailure(t *testing.T) {
	var (
		mu    sync.Mutex
		heads int
		puts  int
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch r.Method {
		case http.MethodHead:
			heads++
			if heads == 1 {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			puts++
			w.Header().Set("ETag", `"abc"`)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	archive, err := NewS3Archive(S3Config{
		Endpoint:  strings.TrimPrefix(server.URL, "http://"),
		AccessKey: "access",
		SecretKey: "secret",
		Bucket:    "reports",
	})
	require.NoError(t, err)

	report := &ArchivedReport{Run: &model.AnalysisRun{SurveyID: "s1", FinishedAt: time.Now()}}
	_, err = archive.Archive(context.Background(), report)
	require.Error(t, err)

	_, err = archive.Archive(context.Background(), report)
	require.NoError(t, err)
	_, err = archive.Archive(context.Background(), report)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, heads)
	assert.Equal(t, 2, puts)
}

func TestNoopArchive(t *testing.T) {
	key, err := NewNoopArchive().Archive(context.Background(), &ArchivedReport{})
	require.NoError(t, err)
	assert.Empty(t, key)
}
