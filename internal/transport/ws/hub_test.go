package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveylens/internal/model"
	"surveylens/internal/repository"
	"surveylens/internal/service"
)

type wsFixture struct {
	hub      *Hub
	server   *httptest.Server
	auth     *service.AuthService
	surveyID string
}

func newWSFixture(t *testing.T) *wsFixture {
	t.Helper()
	auth := service.NewAuthService("admin", "pw", "secret", model.RoleAdmin)
	surveys := service.NewSurveyService(repository.NewMemorySurveyRepo())

	survey, err := surveys.Create(context.Background(), service.HostID("admin"), &model.Survey{
		Title:     "Pulse",
		Questions: []model.Question{{Text: "How are you?", Type: model.QuestionTypeShortText}},
	})
	require.NoError(t, err)

	hub := NewHub()
	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/surveys/{surveyId}/host", NewHandler(hub, auth, surveys).HostWS)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	return &wsFixture{hub: hub, server: server, auth: auth, surveyID: survey.ID}
}

func (f *wsFixture) url(surveyID, token string) string {
	return "ws" + strings.TrimPrefix(f.server.URL, "http") + "/v1/ws/surveys/" + surveyID + "/host?token=" + token
}

func TestHostReceivesBroadcast(t *testing.T) {
	f := newWSFixture(t)
	login, err := f.auth.Login("admin", "pw")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(f.url(f.surveyID, login.Token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return f.hub.ConnectionCount(f.surveyID) == 1 }, time.Second, 10*time.Millisecond)

	f.hub.BroadcastToHost(f.surveyID, service.MsgAnalysisStarted, map[string]string{"surveyId": f.surveyID})
	f.hub.BroadcastToHost("other-survey", service.MsgAnalysisFailed, nil)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageType(service.MsgAnalysisStarted), msg.Type)
	assert.JSONEq(t, `{"surveyId":"`+f.surveyID+`"}`, string(msg.Payload))
}

func TestHostDisconnectUnregisters(t *testing.T) {
	f := newWSFixture(t)
	login, err := f.auth.Login("admin", "pw")
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(f.url(f.surveyID, login.Token), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return f.hub.ConnectionCount(f.surveyID) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return f.hub.ConnectionCount(f.surveyID) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHostWSRejects(t *testing.T) {
	f := newWSFixture(t)
	login, err := f.auth.Login("admin", "pw")
	require.NoError(t, err)
	intruder, err := service.NewAuthService("intruder", "pw", "secret", model.RoleAdmin).Login("intruder", "pw")
	require.NoError(t, err)

	tests := []struct {
		name     string
		surveyID string
		token    string
		status   int
	}{
		{"missing token", f.surveyID, "", http.StatusUnauthorized},
		{"bad token", f.surveyID, "garbage", http.StatusUnauthorized},
		{"unknown survey", "nope", login.Token, http.StatusNotFound},
		{"other host", f.surveyID, intruder.Token, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := websocket.DefaultDialer.Dial(f.url(tt.surveyID, tt.token), nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
