package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveylens/internal/cache"
	"surveylens/internal/llm"
	"surveylens/internal/model"
	"surveylens/internal/repository"
	"surveylens/internal/service"
	"surveylens/internal/transport/ws"
)

const testSecret = "test-secret"

type failingGenerator struct{}

func (failingGenerator) Model() string { return "down" }

func (failingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("upstream 503")
}

type testServer struct {
	handler http.Handler
	lock    cache.RunLock
	token   string
}

func newTestServer(t *testing.T, generator llm.Generator, role model.HostRole) *testServer {
	t.Helper()

	surveys := repository.NewMemorySurveyRepo()
	responses := repository.NewMemoryResponseRepo()
	summaries := repository.NewMemorySummaryRepo()
	store := repository.NewAnalysisStore(surveys, responses, summaries)

	fake := llm.NewFakeClient()
	if generator == nil {
		generator = fake
	}
	summaryCache := cache.NewLayeredSummaryCache(nil, 16, 0)
	lock := cache.NewLocalRunLock()

	authSvc := service.NewAuthService("admin", "pw", testSecret, role)
	analysisSvc := service.NewAnalysisService(store, fake, generator, nil)
	reportSvc := service.NewReportService(surveys, summaries, analysisSvc, lock, summaryCache, nil)

	login, err := authSvc.Login("admin", "pw")
	require.NoError(t, err)

	return &testServer{
		handler: NewRouter(&Container{
			AuthService:     authSvc,
			SurveyService:   service.NewSurveyService(surveys),
			ResponseService: service.NewResponseService(surveys, responses),
			ReportService:   reportSvc,
			WSHub:           ws.NewHub(),
		}),
		lock:  lock,
		token: login.Token,
	}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// publishedSurvey creates a published survey with one text and one choice question
func (s *testServer) publishedSurvey(t *testing.T) *model.Survey {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/surveys", s.token, map[string]interface{}{
		"title":  "Team offsite",
		"status": "PUBLISHED",
		"questions": []map[string]interface{}{
			{"text": "What should we change?", "type": "LONG_TEXT"},
			{"text": "Venue", "type": "SINGLE_CHOICE", "options": []string{"City", "Lake"}, "required": true},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var survey model.Survey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &survey))
	return &survey
}

func (s *testServer) submit(t *testing.T, survey *model.Survey, text, venue string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/responses", "", map[string]interface{}{
		"answers": []map[string]interface{}{
			{"questionId": survey.Questions[0].ID, "valueText": text},
			{"questionId": survey.Questions[1].ID, "valueJson": map[string]string{"selected": venue}},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, model.RoleAdmin)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, nil, model.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/v1/auth/login", "", model.LoginRequest{Username: "admin", Password: "pw"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/auth/login", "", model.LoginRequest{Username: "admin", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAnalyzeEndToEnd(t *testing.T) {
	s := newTestServer(t, nil, model.RoleAdmin)
	survey := s.publishedSurvey(t)
	s.submit(t, survey, "Shorter meetings", "Lake")
	s.submit(t, survey, "More hiking", "Lake")
	s.submit(t, survey, "Better coffee", "City")

	rec := s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/analyze", s.token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var run model.AnalysisRun
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, model.ModeGlobal, run.GlobalMode)
	require.Len(t, run.Questions, 2)
	assert.Equal(t, model.OutcomeClustered, run.Questions[0].Outcome)
	assert.Equal(t, model.OutcomeStats, run.Questions[1].Outcome)

	rec = s.do(t, http.MethodGet, "/v1/surveys/"+survey.ID+"/summaries", s.token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Summaries []*model.Summary `json:"summaries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Summaries, 3)

	byTarget := map[string]*model.Summary{}
	for _, sm := range body.Summaries {
		byTarget[sm.TargetID] = sm
	}
	assert.Contains(t, byTarget[survey.Questions[1].ID].Content, "TOP options: Lake — 67%; City — 33%.")
	assert.Equal(t, "fake-llm", byTarget[survey.Questions[0].ID].Model)
}

func TestAnalyzeStatusCodes(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		s := newTestServer(t, nil, model.RoleAdmin)
		survey := s.publishedSurvey(t)
		rec := s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/analyze", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown survey", func(t *testing.T) {
		s := newTestServer(t, nil, model.RoleAdmin)
		rec := s.do(t, http.MethodPost, "/v1/surveys/nope/analyze", s.token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("other host", func(t *testing.T) {
		s := newTestServer(t, nil, model.RoleAdmin)
		survey := s.publishedSurvey(t)

		other, err := service.NewAuthService("intruder", "pw", testSecret, model.RoleAdmin).Login("intruder", "pw")
		require.NoError(t, err)
		rec := s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/analyze", other.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("viewer role", func(t *testing.T) {
		s := newTestServer(t, nil, model.RoleViewer)
		survey := s.publishedSurvey(t)
		rec := s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/analyze", s.token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = s.do(t, http.MethodGet, "/v1/surveys/"+survey.ID+"/summaries", s.token, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("run in progress", func(t *testing.T) {
		s := newTestServer(t, nil, model.RoleAdmin)
		survey := s.publishedSurvey(t)

		release, ok, err := s.lock.TryAcquire(context.Background(), survey.ID)
		require.NoError(t, err)
		require.True(t, ok)
		defer release(context.Background())

		rec := s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/analyze", s.token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("generation failure", func(t *testing.T) {
		s := newTestServer(t, failingGenerator{}, model.RoleAdmin)
		survey := s.publishedSurvey(t)
		s.submit(t, survey, "Shorter meetings", "Lake")

		rec := s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/analyze", s.token, nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Contains(t, body["error"], "upstream 503")
	})
}

func TestSubmitResponseStatusCodes(t *testing.T) {
	s := newTestServer(t, nil, model.RoleAdmin)
	survey := s.publishedSurvey(t)

	rec := s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/responses", "", map[string]interface{}{
		"answers": []map[string]interface{}{
			{"questionId": survey.Questions[1].ID, "valueJson": map[string]string{"selected": "Moon"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/surveys/nope/responses", "", map[string]interface{}{"answers": []interface{}{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/surveys/"+survey.ID+"/responses", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDraftSurveyVisibleToOwnerOnly(t *testing.T) {
	s := newTestServer(t, nil, model.RoleAdmin)

	rec := s.do(t, http.MethodPost, "/v1/surveys", s.token, map[string]interface{}{
		"title":     "Draft",
		"questions": []map[string]interface{}{{"text": "Anything?", "type": "SHORT_TEXT"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var survey model.Survey
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &survey))
	assert.Equal(t, model.SurveyStatusDraft, survey.Status)

	rec = s.do(t, http.MethodGet, "/v1/surveys/"+survey.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/v1/surveys/"+survey.ID, s.token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/v1/surveys/"+survey.ID+"/responses", "", map[string]interface{}{"answers": []interface{}{}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPut, "/v1/surveys/"+survey.ID, s.token, map[string]interface{}{
		"title":     "Published",
		"status":    "PUBLISHED",
		"questions": survey.Questions,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/v1/surveys/"+survey.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
