package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/entity"
)

func TestAuthService_Tokens(t *testing.T) {
	user := &entity.User{
		ID:    "user-1",
		Name:  "alice",
		Email: "alice@example.com",
	}

	t.Run("Issued token verifies back to the same identity", func(t *testing.T) {
		// Given: an auth service and a persisted user
		auth := NewAuthService("test-secret")

		// When: a token is issued and verified
		token, err := auth.GenerateToken(user)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := auth.VerifyToken(token)

		// Then: the claims carry the user's identity
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Name, claims.Name)
		assert.Equal(t, user.Email, claims.Email)
	})

	t.Run("Rejects an empty token", func(t *testing.T) {
		// Given: an auth service
		auth := NewAuthService("test-secret")

		// When: verifying an empty token
		_, err := auth.VerifyToken("")

		// Then: it is rejected as unauthenticated
		require.ErrorIs(t, err, apperror.ErrUnauthenticated)
	})

	t.Run("Rejects a malformed token", func(t *testing.T) {
		// Given: an auth service
		auth := NewAuthService("test-secret")

		// When: verifying garbage
		_, err := auth.VerifyToken("not.a.token")

		// Then: it is rejected as unauthenticated
		require.ErrorIs(t, err, apperror.ErrUnauthenticated)
	})

	t.Run("Rejects a token signed with a different secret", func(t *testing.T) {
		// Given: a token issued by a service with another secret
		foreign := NewAuthService("other-secret")
		token, err := foreign.GenerateToken(user)
		require.NoError(t, err)

		// When: the local service verifies it
		auth := NewAuthService("test-secret")
		_, err = auth.VerifyToken(token)

		// Then: it is rejected as unauthenticated
		require.ErrorIs(t, err, apperror.ErrUnauthenticated)
	})
}
