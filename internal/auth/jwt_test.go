package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidateJWT_RoundTrip(t *testing.T) {
	token, err := IssueJWT("test-secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := ValidateJWT("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, "admin", subject)
}

func TestValidateJWT_WrongSecretRejected(t *testing.T) {
	token, err := IssueJWT("test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWT_ExpiredTokenRejected(t *testing.T) {
	token, err := IssueJWT("test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT("test-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateJWT_MalformedTokenRejected(t *testing.T) {
	_, err := ValidateJWT("test-secret", "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
