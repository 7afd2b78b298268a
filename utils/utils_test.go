package utils_test

import (
	"testing"
	"time"

	"gramvartha/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := utils.IssueToken(42, "someone@gramvartha.in", utils.KindOfficial)
	require.NoError(t, err)

	claims, err := utils.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.ID)
	assert.Equal(t, "someone@gramvartha.in", claims.Email)
	assert.Equal(t, utils.KindOfficial, claims.Kind)
	assert.WithinDuration(t, time.Now().Add(utils.TokenTTL), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenRejectsTampered(t *testing.T) {
	token, err := utils.IssueToken(1, "a@gramvartha.in", utils.KindAdmin)
	require.NoError(t, err)

	_, err = utils.ParseToken(token + "x")
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	claims := utils.TokenClaims{
		ID:    1,
		Email: "a@gramvartha.in",
		Kind:  utils.KindAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = utils.ParseToken(forged)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	claims := utils.TokenClaims{
		ID:    1,
		Email: "a@gramvartha.in",
		Kind:  utils.KindAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("gramvartha-dev-secret"))
	require.NoError(t, err)

	_, err = utils.ParseToken(expired)
	assert.Error(t, err)
}
