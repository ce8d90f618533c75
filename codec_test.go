package storefront_test

import (
	"testing"
	"time"

	storefront "github.com/azuracommerce/go-storefront"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims *storefront.SessionClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestDecodeToken(t *testing.T) {
	t.Run("decodes claims without verifying the signature", func(t *testing.T) {
		issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		raw := signedToken(t, &storefront.SessionClaims{
			UID:       "user-1",
			UserName:  "Test User",
			UserEmail: "user@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt: jwt.NewNumericDate(issued),
			},
		})

		claims, err := storefront.DecodeToken(raw)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID())
		assert.Equal(t, "Test User", claims.Name())
		assert.Equal(t, "user@example.com", claims.Email())
		assert.True(t, claims.IssuedAtTime().Equal(issued))
	})

	t.Run("rejects an empty token", func(t *testing.T) {
		_, err := storefront.DecodeToken("")
		require.Error(t, err)
		assert.True(t, storefront.IsDecodeError(err))
	})

	t.Run("rejects a value that is not a jwt", func(t *testing.T) {
		_, err := storefront.DecodeToken("google_opaque-id-token")
		require.Error(t, err)
		assert.True(t, storefront.IsDecodeError(err))
	})

	t.Run("rejects a payload without a user id", func(t *testing.T) {
		raw := signedToken(t, &storefront.SessionClaims{
			UserName: "No ID",
		})

		_, err := storefront.DecodeToken(raw)
		require.Error(t, err)
		assert.True(t, storefront.IsDecodeError(err))
	})

	t.Run("decode errors trigger the auth rejected check", func(t *testing.T) {
		_, err := storefront.DecodeToken("")
		require.Error(t, err)
		assert.True(t, storefront.IsAuthRejected(err))
	})
}

func TestFallbackToken(t *testing.T) {
	token := storefront.FallbackToken("header.payload.signature")
	assert.Equal(t, "google_header.payload.signature", token)
	assert.True(t, storefront.IsFallbackToken(token))

	raw := signedToken(t, &storefront.SessionClaims{UID: "user-1"})
	assert.False(t, storefront.IsFallbackToken(raw))
	assert.False(t, storefront.IsFallbackToken(""))
}
