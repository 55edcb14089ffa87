package token

import (
	"testing"
	"time"

	"movieshop/internal/apperr"
	"movieshop/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	maker := NewMaker("test-secret", time.Minute)

	tok, err := maker.Issue(42, model.RoleAdmin)
	require.NoError(t, err)

	claims, err := maker.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	maker := NewMaker("test-secret", -time.Minute)

	tok, err := maker.Issue(1, model.RoleUser)
	require.NoError(t, err)

	_, err = maker.Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestVerifyWrongSecret(t *testing.T) {
	maker := NewMaker("test-secret", time.Minute)
	other := NewMaker("other-secret", time.Minute)

	tok, err := maker.Issue(1, model.RoleUser)
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestVerifyGarbage(t *testing.T) {
	maker := NewMaker("test-secret", time.Minute)

	_, err := maker.Verify("not-a-token")
	assert.ErrorIs(t, err, apperr.ErrAuth)
}
