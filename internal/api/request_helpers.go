package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// getPathUUID extracts a UUID from the URL path parameters. A missing or
// malformed value is reported as notFound, so a garbage id looks exactly like
// an id the caller cannot see.
func getPathUUID(r *http.Request, paramName string, notFound error) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: malformed %s %q", notFound, paramName, raw)
	}
	return id, nil
}

func getTaskID(r *http.Request) (uuid.UUID, error) {
	return getPathUUID(r, "id", store.ErrTaskNotFound)
}

// parseBool accepts the spellings a boolean query filter understands.
func parseBool(raw string) (bool, bool) {
	switch raw {
	case "true", "True", "1":
		return true, true
	case "false", "False", "0":
		return false, true
	default:
		return false, false
	}
}

// parseTaskFilter reads the list filter from the query string. An empty
// "completed" parameter does not filter.
func parseTaskFilter(r *http.Request) (domain.TaskFilter, error) {
	var filter domain.TaskFilter

	raw := r.URL.Query().Get("completed")
	if raw == "" {
		return filter, nil
	}

	completed, ok := parseBool(raw)
	if !ok {
		return filter, domain.NewValidationError("completed", "must be true or false", nil)
	}
	filter.Completed = &completed
	return filter, nil
}
