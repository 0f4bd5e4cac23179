package hosting_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roomify/roomify-api/internal/domain/hosting"
)

func setupTestRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestConfigGetOrCreateIsIdempotent(t *testing.T) {
	rdb := setupTestRedis(t)
	store := hosting.NewConfigStore(rdb)
	userID := uuid.New()

	first, err := store.GetOrCreate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, userID, first.UserID)
	assert.Equal(t, "users/"+userID.String(), first.Prefix)

	second, err := store.GetOrCreate(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, first.Prefix, second.Prefix)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
}

func TestConfigIsPerUser(t *testing.T) {
	rdb := setupTestRedis(t)
	store := hosting.NewConfigStore(rdb)

	a, err := store.GetOrCreate(context.Background(), uuid.New())
	require.NoError(t, err)
	b, err := store.GetOrCreate(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.NotEqual(t, a.Prefix, b.Prefix)
}
