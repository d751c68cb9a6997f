package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

func TestStorage_Users(t *testing.T) {
	storage := setupTestDatabase(t)
	ctx := context.Background()

	id, err := storage.CreateUser(ctx, models.User{Username: "operador", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.Positive(t, id)

	t.Run("duplicate username is a conflict", func(t *testing.T) {
		_, err := storage.CreateUser(ctx, models.User{Username: "operador", PasswordHash: "other"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, models.ErrConflict))
	})

	t.Run("get by username", func(t *testing.T) {
		u, err := storage.GetUserByUsername(ctx, "operador")
		require.NoError(t, err)
		assert.Equal(t, id, u.ID)
		assert.Equal(t, "operador", u.Username)
		assert.Equal(t, "hash", u.PasswordHash)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("unknown username", func(t *testing.T) {
		u, err := storage.GetUserByUsername(ctx, "ghost")
		assert.Nil(t, u)
		assert.True(t, errors.Is(err, models.ErrNotFound))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := storage.GetUserByUsername(cctx, "operador")
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
