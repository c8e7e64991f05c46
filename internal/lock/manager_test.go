package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ruralpay/accounts/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) PutIfAbsent(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	args := m.Called(key, token, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, key, token string) error {
	args := m.Called(key, token)
	return args.Error(0)
}

// sleepRecorder replaces real sleeps so retry tests run instantly
type sleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func newTestManager(t *testing.T, store Store, cfg *config.LockConfig) (*Manager, *sleepRecorder) {
	m, err := NewManager(store, cfg)
	require.NoError(t, err)

	rec := &sleepRecorder{}
	m.sleep = rec.sleep
	m.newToken = func() string { return "token-1" }
	return m, rec
}

func testLockConfig() *config.LockConfig {
	cfg := config.DefaultLockConfig()
	cfg.MaxAttempts = 3
	cfg.RetryDelay = 100 * time.Millisecond
	return cfg
}

func TestNewManager(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		_, err := NewManager(nil, nil)
		assert.Error(t, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := config.DefaultLockConfig()
		cfg.MaxAttempts = 0
		_, err := NewManager(&MockStore{}, cfg)
		assert.Error(t, err)
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		m, err := NewManager(&MockStore{}, nil)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, m.config.TTL)
	})
}

func TestManager_Acquire(t *testing.T) {
	ctx := context.Background()

	t.Run("first attempt", func(t *testing.T) {
		store := &MockStore{}
		m, rec := newTestManager(t, store, testLockConfig())

		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).Return(true, nil).Once()

		h, err := m.Acquire(ctx, "1000000000")
		require.NoError(t, err)
		assert.Equal(t, "1000000000", h.Key)
		assert.Equal(t, "token-1", h.Token)
		assert.Equal(t, 1, h.Attempts)
		assert.Equal(t, 15*time.Second, h.ExpiresAt.Sub(h.AcquiredAt))
		assert.Empty(t, rec.delays)
		store.AssertExpectations(t)
	})

	t.Run("retries while held", func(t *testing.T) {
		store := &MockStore{}
		m, rec := newTestManager(t, store, testLockConfig())

		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).Return(false, nil).Twice()
		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).Return(true, nil).Once()

		h, err := m.Acquire(ctx, "1000000000")
		require.NoError(t, err)
		assert.Equal(t, 3, h.Attempts)
		assert.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, rec.delays)
		store.AssertExpectations(t)
	})

	t.Run("times out after max attempts", func(t *testing.T) {
		store := &MockStore{}
		m, rec := newTestManager(t, store, testLockConfig())

		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).Return(false, nil).Times(3)

		h, err := m.Acquire(ctx, "1000000000")
		assert.Nil(t, h)
		assert.ErrorIs(t, err, ErrLockTimeout)

		var timeoutErr *TimeoutError
		require.True(t, errors.As(err, &timeoutErr))
		assert.Equal(t, "1000000000", timeoutErr.Key)
		assert.Equal(t, 3, timeoutErr.Attempts)
		assert.Len(t, rec.delays, 2, "no sleep after the final attempt")
		store.AssertExpectations(t)
	})

	t.Run("store errors are retried then reported", func(t *testing.T) {
		store := &MockStore{}
		m, _ := newTestManager(t, store, testLockConfig())

		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).
			Return(false, errors.New("connection refused")).Times(3)

		_, err := m.Acquire(ctx, "1000000000")
		assert.ErrorIs(t, err, ErrLockUnavailable)
		assert.NotErrorIs(t, err, ErrLockTimeout)
		assert.Contains(t, err.Error(), "connection refused")
		store.AssertExpectations(t)
	})

	t.Run("store recovers", func(t *testing.T) {
		store := &MockStore{}
		m, _ := newTestManager(t, store, testLockConfig())

		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).
			Return(false, errors.New("connection refused")).Once()
		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).Return(true, nil).Once()

		h, err := m.Acquire(ctx, "1000000000")
		require.NoError(t, err)
		assert.Equal(t, 2, h.Attempts)
	})

	t.Run("empty key", func(t *testing.T) {
		store := &MockStore{}
		m, _ := newTestManager(t, store, testLockConfig())

		_, err := m.Acquire(ctx, "  ")
		assert.ErrorIs(t, err, ErrEmptyLockKey)
		store.AssertNotCalled(t, "PutIfAbsent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("context cancelled during backoff", func(t *testing.T) {
		store := &MockStore{}
		m, _ := newTestManager(t, store, testLockConfig())

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).Return(false, nil).Once()

		_, err := m.Acquire(cctx, "1000000000")
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrLockTimeout)
		store.AssertExpectations(t)
	})

	t.Run("exponential backoff is capped", func(t *testing.T) {
		cfg := testLockConfig()
		cfg.MaxAttempts = 5
		cfg.Backoff = config.BackoffExponential
		cfg.RetryDelay = 100 * time.Millisecond
		cfg.MaxRetryDelay = 300 * time.Millisecond

		store := &MockStore{}
		m, rec := newTestManager(t, store, cfg)

		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).Return(false, nil).Times(5)

		_, err := m.Acquire(ctx, "1000000000")
		assert.ErrorIs(t, err, ErrLockTimeout)
		assert.Equal(t, []time.Duration{
			100 * time.Millisecond,
			200 * time.Millisecond,
			300 * time.Millisecond,
			300 * time.Millisecond,
		}, rec.delays)
	})
}

func TestManager_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes with token", func(t *testing.T) {
		store := &MockStore{}
		m, _ := newTestManager(t, store, testLockConfig())

		store.On("PutIfAbsent", "account-lock:1000000000", "token-1", 15*time.Second).Return(true, nil).Once()
		store.On("Delete", "account-lock:1000000000", "token-1").Return(nil).Once()

		h, err := m.Acquire(ctx, "1000000000")
		require.NoError(t, err)
		assert.NoError(t, m.Release(ctx, h))
		store.AssertExpectations(t)
	})

	t.Run("nil handle is a no-op", func(t *testing.T) {
		store := &MockStore{}
		m, _ := newTestManager(t, store, testLockConfig())

		assert.NoError(t, m.Release(ctx, nil))
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("store error surfaces", func(t *testing.T) {
		store := &MockStore{}
		m, _ := newTestManager(t, store, testLockConfig())

		store.On("Delete", "account-lock:1000000000", "token-1").Return(errors.New("timeout")).Once()

		err := m.Release(ctx, &Handle{Key: "1000000000", Token: "token-1"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "timeout")
	})
}

func TestManager_Redis(t *testing.T) {
	ctx := context.Background()

	t.Run("mutual exclusion and idempotent release", func(t *testing.T) {
		mr, client := setupTestRedis(t)
		cfg := testLockConfig()
		cfg.MaxAttempts = 2

		first, err := NewManager(NewRedisStore(client), cfg)
		require.NoError(t, err)
		second, err := NewManager(NewRedisStore(client), cfg)
		require.NoError(t, err)
		second.sleep = (&sleepRecorder{}).sleep

		h, err := first.Acquire(ctx, "1000000000")
		require.NoError(t, err)
		assert.True(t, mr.Exists("account-lock:1000000000"))

		_, err = second.Acquire(ctx, "1000000000")
		assert.ErrorIs(t, err, ErrLockTimeout)

		require.NoError(t, first.Release(ctx, h))
		assert.False(t, mr.Exists("account-lock:1000000000"))
		assert.NoError(t, first.Release(ctx, h), "second release is a no-op")

		h2, err := second.Acquire(ctx, "1000000000")
		require.NoError(t, err)
		assert.NoError(t, second.Release(ctx, h2))
	})

	t.Run("expired holder cannot release successor", func(t *testing.T) {
		mr, client := setupTestRedis(t)
		cfg := testLockConfig()
		cfg.TTL = time.Second

		m, err := NewManager(NewRedisStore(client), cfg)
		require.NoError(t, err)

		stale, err := m.Acquire(ctx, "1000000000")
		require.NoError(t, err)

		mr.FastForward(2 * time.Second)

		fresh, err := m.Acquire(ctx, "1000000000")
		require.NoError(t, err)
		assert.NotEqual(t, stale.Token, fresh.Token)

		assert.NoError(t, m.Release(ctx, stale))
		assert.True(t, mr.Exists("account-lock:1000000000"), "successor entry must survive")

		assert.NoError(t, m.Release(ctx, fresh))
		assert.False(t, mr.Exists("account-lock:1000000000"))
	})

	t.Run("different accounts do not contend", func(t *testing.T) {
		_, client := setupTestRedis(t)
		cfg := testLockConfig()
		cfg.MaxAttempts = 1

		m, err := NewManager(NewRedisStore(client), cfg)
		require.NoError(t, err)

		a, err := m.Acquire(ctx, "1000000000")
		require.NoError(t, err)
		b, err := m.Acquire(ctx, "1000000001")
		require.NoError(t, err)

		assert.NoError(t, m.Release(ctx, a))
		assert.NoError(t, m.Release(ctx, b))
	})
}

func TestNewBackOff(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		b := newBackOff(testLockConfig())
		for i := 0; i < 5; i++ {
			assert.Equal(t, 100*time.Millisecond, b.NextBackOff())
		}
	})

	t.Run("exponential from zero stays zero", func(t *testing.T) {
		cfg := testLockConfig()
		cfg.Backoff = config.BackoffExponential
		cfg.MaxRetryDelay = 0
		cfg.RetryDelay = 0

		b := newBackOff(cfg)
		assert.Equal(t, time.Duration(0), b.NextBackOff())
	})

	t.Run("exponential never stops on elapsed time", func(t *testing.T) {
		cfg := testLockConfig()
		cfg.Backoff = config.BackoffExponential
		cfg.RetryDelay = time.Millisecond
		cfg.MaxRetryDelay = time.Hour

		b := newBackOff(cfg)
		want := time.Millisecond
		for i := 0; i < 10; i++ {
			assert.Equal(t, want, b.NextBackOff())
			want *= 2
		}
	})

	t.Run("jitter stays below the base delay", func(t *testing.T) {
		cfg := testLockConfig()
		cfg.Jitter = true

		b := newBackOff(cfg)
		for i := 0; i < 50; i++ {
			d := b.NextBackOff()
			assert.GreaterOrEqual(t, d, time.Duration(0))
			assert.Less(t, d, cfg.RetryDelay)
		}
	})
}
