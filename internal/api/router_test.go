package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	iauth "github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/auth"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/database/testutil"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/models"
	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/realtime"
)

type routerFixture struct {
	server *httptest.Server
	hub    *realtime.Hub
	jwt    *iauth.JWTService
	db     *gorm.DB
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	jwt, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "router-test-secret"})
	require.NoError(t, err)
	hub := realtime.NewHub()

	router, err := NewRouter(db, jwt, hub)
	require.NoError(t, err)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	t.Cleanup(hub.CloseAll)

	return &routerFixture{server: server, hub: hub, jwt: jwt, db: db}
}

func (f *routerFixture) tokenFor(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	token, err := f.jwt.GenerateAccessToken(iauth.AccessTokenInput{UserID: userID, Role: string(role)})
	require.NoError(t, err)
	return token
}

func (f *routerFixture) request(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, f.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := f.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestRouterPublicSurface(t *testing.T) {
	f := newRouterFixture(t)

	resp := f.request(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.request(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = f.request(t, http.MethodGet, "/no/such/route", "", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Preflight succeeds without any credentials.
	req, err := http.NewRequest(http.MethodOptions, f.server.URL+"/api/notifications", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://portal.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err = f.server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
}

func TestRouterRequiresAuthOnAPI(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/api/notifications", "/api/notifications/unread-count"} {
		resp := f.request(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		resp.Body.Close()
	}
}

// End to end: employer posts a job over HTTP, the candidate's open websocket
// receives the push, and the durable copy is queryable afterwards.
func TestRouterJobPostDeliversLiveAndDurably(t *testing.T) {
	f := newRouterFixture(t)

	candidate := models.User{Email: "candidate@example.com", Name: "Cand", Password: "x", Role: models.RoleCandidate, IsActive: true}
	require.NoError(t, f.db.Create(&candidate).Error)
	employer := models.User{Email: "employer@example.com", Name: "Emp", Password: "x", Role: models.RoleEmployer, IsActive: true}
	require.NoError(t, f.db.Create(&employer).Error)

	candidateToken := f.tokenFor(t, candidate.ID, models.RoleCandidate)
	employerToken := f.tokenFor(t, employer.ID, models.RoleEmployer)

	wsBase := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsBase+"/ws?token="+candidateToken, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	room := realtime.UserRoom(candidate.ID)
	require.NoError(t, conn.WriteJSON(map[string]string{"action": "join", "room": room}))
	require.Eventually(t, func() bool {
		return f.hub.RoomSize(room) == 1
	}, 2*time.Second, 10*time.Millisecond)

	httpResp := f.request(t, http.MethodPost, "/api/jobs", employerToken,
		`{"title":"Realtime Engineer","description":"Sockets all day.","location":"Remote"}`)
	require.Equal(t, http.StatusCreated, httpResp.StatusCode)
	httpResp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg realtime.Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, realtime.EventNewNotification, msg.Event)
	require.Equal(t, room, msg.Room)

	raw, err := json.Marshal(msg.Data)
	require.NoError(t, err)
	var payload struct {
		Notification struct {
			Type  string `json:"type"`
			Title string `json:"title"`
		} `json:"notification"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Equal(t, string(models.NotificationNewJobPosted), payload.Notification.Type)

	// The durable copy is there for the next fetch.
	countResp := f.request(t, http.MethodGet, "/api/notifications/unread-count", candidateToken, "")
	require.Equal(t, http.StatusOK, countResp.StatusCode)
	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Count int64 `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(countResp.Body).Decode(&envelope))
	countResp.Body.Close()
	require.True(t, envelope.Success)
	require.Equal(t, int64(1), envelope.Data.Count)
}

func TestRouterInternalEmitReachesRoom(t *testing.T) {
	f := newRouterFixture(t)

	token := f.tokenFor(t, "emit-target", models.RoleCandidate)
	wsBase := "ws" + strings.TrimPrefix(f.server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsBase+"/ws?token="+token, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer conn.Close()

	room := realtime.UserRoom("emit-target")
	require.NoError(t, conn.WriteJSON(map[string]string{"action": "join", "room": room}))
	require.Eventually(t, func() bool {
		return f.hub.RoomSize(room) == 1
	}, 2*time.Second, 10*time.Millisecond)

	httpResp := f.request(t, http.MethodPost, "/internal/emit", "",
		`{"room":"`+room+`","event":"new-notification","data":{"notification":{"id":"n9"}}}`)
	require.Equal(t, http.StatusOK, httpResp.StatusCode)
	httpResp.Body.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg realtime.Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, realtime.EventNewNotification, msg.Event)
}
