package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithLogger(buf *bytes.Buffer) *http.Request {
	log := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	req := httptest.NewRequest(http.MethodGet, "/tasks/", nil)
	ctx := logger.WithLogger(SetTraceID(req.Context()), log)
	return req.WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondWithJSON(w, req, http.StatusCreated, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":"1"}`, w.Body.String())
}

func TestRespondWithErrorBody(t *testing.T) {
	var buf bytes.Buffer
	req := requestWithLogger(&buf)
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, req, http.StatusBadRequest, "title is required", nil, WithField("title"))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "title is required", body.Error)
	assert.Equal(t, "title", body.Field)
	assert.Equal(t, GetTraceID(req.Context()), body.TraceID)
	assert.NotContains(t, w.Body.String(), "Code")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	var buf bytes.Buffer
	req := requestWithLogger(&buf)
	w := httptest.NewRecorder()

	err := errors.New("dial tcp: postgres://admin:hunter2@db:5432/tasks refused")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")
	assert.NotContains(t, buf.String(), "hunter2")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), `"status_code":500`)
}

func TestWithElevatedLogLevel(t *testing.T) {
	var plain, elevated bytes.Buffer

	RespondWithErrorAndLog(httptest.NewRecorder(), requestWithLogger(&plain), http.StatusNotFound, "not found", nil)
	RespondWithErrorAndLog(httptest.NewRecorder(), requestWithLogger(&elevated), http.StatusNotFound, "not found", nil,
		WithElevatedLogLevel())

	assert.Contains(t, plain.String(), `"level":"DEBUG"`)
	assert.Contains(t, elevated.String(), `"level":"WARN"`)
}
