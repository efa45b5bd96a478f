package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")

	token, err := verifier.Sign("user-1", "client", time.Hour)
	require.NoError(t, err)

	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "client", claims.Role)
}

func TestVerifyRejectsBadSecret(t *testing.T) {
	token, err := NewTokenVerifier("secret-a").Sign("user-1", "client", time.Hour)
	require.NoError(t, err)

	_, err = NewTokenVerifier("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	verifier := NewTokenVerifier("test-secret")

	token, err := verifier.Sign("user-1", "client", -time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestVerifyRejectsWrongAlgorithm(t *testing.T) {
	claims := &Claims{UserID: "user-1", Role: "client"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenVerifier("test-secret").Verify(token)
	assert.Error(t, err)
}
