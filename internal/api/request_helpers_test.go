package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithID(id string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/tasks/"+id, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetTaskID(t *testing.T) {
	want := uuid.New()
	got, err := getTaskID(requestWithID(want.String()))
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, raw := range []string{"", "42", "not-a-uuid", uuid.Nil.String()} {
		_, err := getTaskID(requestWithID(raw))
		assert.True(t, errors.Is(err, store.ErrTaskNotFound), raw)
	}
}

func TestParseTaskFilter(t *testing.T) {
	tests := []struct {
		query   string
		want    *bool
		wantErr bool
	}{
		{query: ""},
		{query: "completed=", want: nil},
		{query: "completed=true", want: boolPtr(true)},
		{query: "completed=True", want: boolPtr(true)},
		{query: "completed=1", want: boolPtr(true)},
		{query: "completed=false", want: boolPtr(false)},
		{query: "completed=False", want: boolPtr(false)},
		{query: "completed=0", want: boolPtr(false)},
		{query: "completed=yes", wantErr: true},
		{query: "completed=TRUE", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/tasks/?"+tc.query, nil)
			filter, err := parseTaskFilter(req)
			if tc.wantErr {
				ve, ok := domain.AsValidationError(err)
				require.True(t, ok)
				assert.Equal(t, "completed", ve.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, filter.Completed)
		})
	}
}

func boolPtr(b bool) *bool { return &b }
