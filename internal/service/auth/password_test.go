package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptVerifier(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("saxena@kk"), bcrypt.MinCost)
	require.NoError(t, err)

	v := NewBcryptVerifier()
	assert.NoError(t, v.Compare(string(hash), "saxena@kk"))
	assert.ErrorIs(t, v.Compare(string(hash), "wrong"), ErrPasswordMismatch)

	err = v.Compare("not-a-bcrypt-hash", "saxena@kk")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPasswordMismatch)
}

func TestNewSessionID(t *testing.T) {
	t.Parallel()

	a, err := NewSessionID()
	require.NoError(t, err)
	b, err := NewSessionID()
	require.NoError(t, err)

	assert.Len(t, a, 2*sessionIDBytes)
	assert.NotEqual(t, a, b)
}
