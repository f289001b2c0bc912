package adapter

import (
	"context"
	"errors"
	"quiz-forge/internal/domain"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const snapshotKey = "quizgen:session:snapshot:s1"

func TestRedisCacheAdapter_HGet(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectHGet(snapshotKey, "rendered").SetVal("# quiz")
		val, err := adapter.HGet(ctx, snapshotKey, "rendered")
		assert.NoError(t, err)
		assert.Equal(t, "# quiz", val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CacheMiss", func(t *testing.T) {
		mock.ExpectHGet(snapshotKey, "rendered").RedisNil()
		val, err := adapter.HGet(ctx, snapshotKey, "rendered")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectHGet(snapshotKey, "rendered").SetErr(redisErr)
		_, err := adapter.HGet(ctx, snapshotKey, "rendered")
		assert.ErrorIs(t, err, redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_HGetAll(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		fields := map[string]string{"rendered": "# quiz", "questions": "[]"}
		mock.ExpectHGetAll(snapshotKey).SetVal(fields)
		val, err := adapter.HGetAll(ctx, snapshotKey)
		assert.NoError(t, err)
		assert.Equal(t, fields, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyHashIsMiss", func(t *testing.T) {
		mock.ExpectHGetAll(snapshotKey).SetVal(map[string]string{})
		_, err := adapter.HGetAll(ctx, snapshotKey)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisNil", func(t *testing.T) {
		mock.ExpectHGetAll(snapshotKey).SetErr(redis.Nil)
		_, err := adapter.HGetAll(ctx, snapshotKey)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_HSetAndExpire(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectHSet(snapshotKey, "rendered", "# quiz").SetVal(1)
	mock.ExpectExpire(snapshotKey, 30*time.Minute).SetVal(true)

	assert.NoError(t, adapter.HSet(ctx, snapshotKey, "rendered", "# quiz"))
	assert.NoError(t, adapter.Expire(ctx, snapshotKey, 30*time.Minute))
	assert.NoError(t, mock.ExpectationsWereMet())

	redisErr := errors.New("READONLY")
	mock.ExpectHSet(snapshotKey, "rendered", "x").SetErr(redisErr)
	assert.ErrorIs(t, adapter.HSet(ctx, snapshotKey, "rendered", "x"), redisErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_DeleteAndPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectDel(snapshotKey).SetVal(0)
	assert.NoError(t, adapter.Delete(ctx, snapshotKey))

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(ctx))

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.Error(t, adapter.Ping(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
