package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/geosoftech18/Aryanx-Tech-Solutions-sub001/internal/realtime"
)

func performEmit(t *testing.T, handler *EmitHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/internal/emit", handler.Emit)

	req := httptest.NewRequest(http.MethodPost, "/internal/emit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestEmitWithoutHub(t *testing.T) {
	handler := NewEmitHandler(nil)

	recorder := performEmit(t, handler, `{"room":"user-1","event":"new-notification","data":{}}`)
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	require.JSONEq(t, `{"error":"Socket.IO server not initialized"}`, recorder.Body.String())
}

func TestEmitInvalidJSON(t *testing.T) {
	handler := NewEmitHandler(realtime.NewHub())

	recorder := performEmit(t, handler, "{not json")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.JSONEq(t, `{"error":"Invalid JSON body"}`, recorder.Body.String())
}

func TestEmitMissingFields(t *testing.T) {
	handler := NewEmitHandler(realtime.NewHub())

	for _, body := range []string{
		`{}`,
		`{"room":"user-1"}`,
		`{"room":"user-1","event":"new-notification"}`,
		`{"event":"new-notification","data":{}}`,
		`{"room":"user-1","data":{}}`,
		`{"room":"user-1","event":"new-notification","data":null}`,
	} {
		recorder := performEmit(t, handler, body)
		require.Equal(t, http.StatusBadRequest, recorder.Code, "body: %s", body)
		require.JSONEq(t, `{"error":"Missing required fields"}`, recorder.Body.String(), "body: %s", body)
	}
}

func TestEmitSucceedsForEmptyRoom(t *testing.T) {
	handler := NewEmitHandler(realtime.NewHub())

	// Nobody is connected; the emit is still reported as a success because
	// delivery is best-effort.
	recorder := performEmit(t, handler, `{"room":"user-42","event":"new-notification","data":{"id":"n1"}}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t,
		`{"message":"Event emitted successfully","room":"user-42","event":"new-notification"}`,
		recorder.Body.String())
}
