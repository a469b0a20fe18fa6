package shared

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGetTraceID(t *testing.T) {
	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	assert.Len(t, traceID, TraceIDLength*2)
	assert.Empty(t, GetTraceID(context.Background()))

	other := GetTraceID(SetTraceID(context.Background()))
	assert.NotEqual(t, traceID, other, "trace IDs should be unique")
}

func TestGenerateTraceIDFallback(t *testing.T) {
	orig := randRead
	t.Cleanup(func() { randRead = orig })
	randRead = func([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

	id := generateTraceID()
	assert.Len(t, id, 32)
}

func TestCallerContext(t *testing.T) {
	assert.Nil(t, CallerFromContext(context.Background()))

	caller := &domain.Caller{UserID: uuid.New(), IsStaff: true}
	ctx := WithCaller(context.Background(), caller)

	got := CallerFromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, caller.UserID, got.UserID)
	assert.True(t, got.IsStaff)
}
