package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "router-test-secret-at-least-32-characters"

// testEnv is the full router over in-memory stores.
type testEnv struct {
	handler  http.Handler
	users    *mocks.MockUserStore
	tasks    *mocks.MockTaskStore
	sessions *mocks.MockSessionStore
}

// credential attaches a caller's credentials to a request.
type credential func(r *http.Request)

func bearer(token string) credential {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func sessionCookie(id string) credential {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: shared.SessionCookieName, Value: id}) }
}

func newTestEnv(t *testing.T, mode string) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "error", RequestTimeoutSeconds: 5},
		Auth: config.AuthConfig{
			Mode:                        mode,
			JWTSecret:                   testJWTSecret,
			TokenLifetimeMinutes:        5,
			RefreshTokenLifetimeMinutes: 60,
			SessionLifetimeMinutes:      60,
			BcryptCost:                  bcrypt.MinCost,
		},
	}

	env := &testEnv{
		users:    mocks.NewMockUserStore(),
		tasks:    mocks.NewMockTaskStore(),
		sessions: mocks.NewMockSessionStore(),
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	require.NoError(t, err)

	app := &application{
		config:       cfg,
		logger:       log,
		userStore:    env.users,
		taskStore:    env.tasks,
		sessionStore: env.sessions,
		jwtService:   jwtService,
		userService:  service.NewUserService(env.users, auth.NewBcryptVerifier(), nil, log),
		taskService:  service.NewTaskService(env.tasks, log),
	}
	if cfg.Auth.UsesSessions() {
		app.sessionService = service.NewSessionService(env.sessions, env.users, time.Hour, log)
	}

	env.handler = newRouter(app.routerDeps())
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body any, creds ...credential) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range creds {
		c(req)
	}

	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// createUser stores a user directly, bypassing the registration policy.
func (e *testEnv) createUser(t *testing.T, username, password string, staff bool) *domain.User {
	t.Helper()

	user, err := domain.NewUser(username, password)
	require.NoError(t, err)
	user.IsStaff = staff
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/login/", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var pair api.TokenPairResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.Access)
	return pair.Access
}

func (e *testEnv) createTask(t *testing.T, title string, completed bool, creds credential) api.TaskResponse {
	t.Helper()

	rr := e.do(t, http.MethodPost, "/tasks/", map[string]any{"title": title, "completed": completed}, creds)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeTask(t, rr)
}

func decodeTask(t *testing.T, rr *httptest.ResponseRecorder) api.TaskResponse {
	t.Helper()
	var task api.TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &task))
	return task
}

func decodeTasks(t *testing.T, rr *httptest.ResponseRecorder) []api.TaskResponse {
	t.Helper()
	var tasks []api.TaskResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tasks))
	return tasks
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func taskPath(id uuid.UUID) string {
	return "/tasks/" + id.String() + "/"
}
