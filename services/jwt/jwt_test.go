package jwt

import (
	"testing"
	"time"

	"github.com/barefootnomad/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, models.RoleManager, secret, 0)
	require.NoError(t, err)

	claims, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ID)
	assert.Equal(t, models.RoleManager, claims.RoleValue)
}

func TestAccessTokenRejections(t *testing.T) {
	token, err := GenerateToken(1, models.RoleRequester, secret, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "other-secret")
	assert.Error(t, err)

	expired, err := sign(map[string]interface{}{
		"id":  1,
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, secret)
	require.NoError(t, err)
	_, err = ParseAccessToken(expired, secret)
	assert.Error(t, err)

	noExpiry, err := sign(map[string]interface{}{"id": 1}, secret)
	require.NoError(t, err)
	_, err = ParseAccessToken(noExpiry, secret)
	assert.Error(t, err)

	_, err = ParseAccessToken("not-a-token", secret)
	assert.Error(t, err)

	_, err = GenerateToken(1, models.RoleRequester, "", time.Hour)
	assert.Error(t, err)
}

func TestResetTokenIsNotAnAccessToken(t *testing.T) {
	reset, err := GeneratePasswordResetToken("ada@example.com", secret, time.Minute)
	require.NoError(t, err)

	email, err := VerifyResetToken(reset, secret)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", email)

	_, err = ParseAccessToken(reset, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := GenerateToken(3, models.RoleRequester, secret, time.Hour)
	require.NoError(t, err)
	_, err = VerifyResetToken(access, secret)
	assert.Error(t, err)
}

func TestExpiredResetToken(t *testing.T) {
	token, err := sign(map[string]interface{}{
		"email": "ada@example.com",
		"exp":   time.Now().Add(-time.Minute).Unix(),
		"type":  tokenTypeReset,
	}, secret)
	require.NoError(t, err)

	_, err = VerifyResetToken(token, secret)
	assert.Error(t, err)
}

func TestStateToken(t *testing.T) {
	state, err := GenerateStateToken("nonce", secret)
	require.NoError(t, err)
	assert.NoError(t, VerifyStateToken(state, secret))
	assert.Error(t, VerifyStateToken(state, "nope"))
}
