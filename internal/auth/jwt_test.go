package auth_test

import (
	"os"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/softdesk-dev/softdesk/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret-key")
	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestTokenPair(t *testing.T) {
	access, refresh, err := auth.GenerateTokenPair(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	accessToken, err := auth.VerifyJWT(access)
	require.NoError(t, err)
	assert.False(t, auth.IsRefreshToken(accessToken))

	refreshToken, err := auth.VerifyJWT(refresh)
	require.NoError(t, err)
	assert.True(t, auth.IsRefreshToken(refreshToken))

	claims, ok := refreshToken.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
}

func TestVerifyJWTRejectsTampering(t *testing.T) {
	access, _, err := auth.GenerateTokenPair(42, "alice")
	require.NoError(t, err)

	_, err = auth.VerifyJWT(access + "x")
	assert.Error(t, err)
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	_, err := auth.VerifyJWT("not-a-token")
	assert.Error(t, err)
}
