package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	token, exp, err := GenerateToken(Claims{UserID: 7, Role: RoleCustomer, Phone: "9876543210"}, "s3cret", now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	claims, err := ParseToken(token, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, RoleCustomer, claims.Role)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.Zero(t, claims.RestaurantID)
	assert.True(t, claims.ExpiresAt.Time.Equal(exp))
}

func TestParseToken_Rejects(t *testing.T) {
	now := time.Now()

	good, _, err := GenerateToken(Claims{UserID: 1, Role: RoleStaff, RestaurantID: 2}, "s3cret", now, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(good, "other")
	assert.Error(t, err, "wrong secret")

	expired, _, err := GenerateToken(Claims{UserID: 1, Role: RoleStaff}, "s3cret", now.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(expired, "s3cret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 1, Role: RoleOwner})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(unsigned, "s3cret")
	assert.Error(t, err, "alg none")

	_, err = ParseToken("not-a-token", "s3cret")
	assert.Error(t, err)
}
