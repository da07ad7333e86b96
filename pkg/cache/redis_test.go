package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisWithClient(db, "t:")
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet("t:key").SetVal("payload")
		val, found, err := c.Get(ctx, "key")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("payload"), val)
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet("t:missing").RedisNil()
		val, found, err := c.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, val)
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectGet("t:broken").SetErr(errors.New("conn refused"))
		_, found, err := c.Get(ctx, "broken")
		assert.Error(t, err)
		assert.False(t, found)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedis_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisWithClient(db, "")
	ctx := context.Background()

	mock.ExpectSet(defaultPrefix+"key", []byte("v"), 30*time.Second).SetVal("OK")
	require.NoError(t, c.Set(ctx, "key", []byte("v"), 30*time.Second))

	// zero ttl never reaches redis
	require.NoError(t, c.Set(ctx, "key", []byte("v"), 0))

	assert.NoError(t, mock.ExpectationsWereMet())
}
