package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingBeginner struct{ err error }

func (b failingBeginner) BeginTx(context.Context, *sql.TxOptions) (*sql.Tx, error) {
	return nil, b.err
}

func TestRunInTransactionBeginError(t *testing.T) {
	t.Parallel()

	beginErr := errors.New("begin failed")
	called := false
	err := RunInTransaction(context.Background(), failingBeginner{err: beginErr}, func(context.Context, *sql.Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, beginErr)
	assert.Contains(t, err.Error(), "failed to begin transaction")
	assert.False(t, called, "fn must not run without a transaction")
}
