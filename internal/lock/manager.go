package lock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/ruralpay/accounts/internal/config"
	"go.uber.org/zap"
)

var (
	// ErrLockTimeout is matched by every TimeoutError
	ErrLockTimeout = errors.New("lock: acquire timed out")
	// ErrLockUnavailable is returned when the lock store kept failing until attempts ran out
	ErrLockUnavailable = errors.New("lock: store unavailable")
	// ErrEmptyLockKey is returned for a blank resource key
	ErrEmptyLockKey = errors.New("lock: key cannot be empty")
)

// TimeoutError reports that a key stayed held by someone else for every attempt
type TimeoutError struct {
	Key      string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("lock: %s still held after %d attempts", e.Key, e.Attempts)
}

func (e *TimeoutError) Unwrap() error {
	return ErrLockTimeout
}

// Handle is an acquired claim on a resource key. It stays valid until
// released or until ExpiresAt, whichever comes first.
type Handle struct {
	Key        string
	Token      string
	AcquiredAt time.Time
	ExpiresAt  time.Time
	Attempts   int

	storeKey string
}

// Locker acquires and releases resource locks
type Locker interface {
	Acquire(ctx context.Context, key string) (*Handle, error)
	Release(ctx context.Context, h *Handle) error
}

// Manager implements Locker on top of a Store with bounded retry
type Manager struct {
	store    Store
	config   *config.LockConfig
	now      func() time.Time
	newToken func() string
	sleep    func(ctx context.Context, d time.Duration) error
}

var _ Locker = (*Manager)(nil)

func NewManager(store Store, cfg *config.LockConfig) (*Manager, error) {
	if store == nil {
		return nil, errors.New("lock: store is nil")
	}
	if cfg == nil {
		cfg = config.DefaultLockConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Manager{
		store:    store,
		config:   cfg,
		now:      time.Now,
		newToken: func() string { return uuid.NewString() },
		sleep:    sleepContext,
	}, nil
}

// Acquire claims key, retrying with the configured backoff while it is held
// elsewhere. It returns a *TimeoutError once attempts are exhausted.
func (m *Manager) Acquire(ctx context.Context, key string) (*Handle, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrEmptyLockKey
	}

	storeKey := m.config.KeyPrefix + key
	token := m.newToken()
	delays := newBackOff(m.config)

	var lastErr error
	for attempt := 1; attempt <= m.config.MaxAttempts; attempt++ {
		acquiredAt := m.now()
		ok, err := m.store.PutIfAbsent(ctx, storeKey, token, m.config.TTL)
		switch {
		case err != nil:
			lastErr = err
			zap.L().Warn("Lock store error during acquire",
				zap.String("lock_key", key),
				zap.Int("attempt", attempt),
				zap.Error(err))
		case ok:
			zap.L().Debug("Lock acquired",
				zap.String("lock_key", key),
				zap.Int("attempts", attempt))
			return &Handle{
				Key:        key,
				Token:      token,
				AcquiredAt: acquiredAt,
				ExpiresAt:  acquiredAt.Add(m.config.TTL),
				Attempts:   attempt,
				storeKey:   storeKey,
			}, nil
		default:
			lastErr = nil
		}

		if attempt == m.config.MaxAttempts {
			break
		}
		delay := delays.NextBackOff()
		if delay == backoff.Stop {
			break
		}
		if err := m.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("lock: acquire %s: %w", key, err)
		}
	}

	if lastErr != nil {
		return nil, fmt.Errorf("%w: acquire %s: %w", ErrLockUnavailable, key, lastErr)
	}

	zap.L().Info("Lock acquire timed out",
		zap.String("lock_key", key),
		zap.Int("attempts", m.config.MaxAttempts))
	return nil, &TimeoutError{Key: key, Attempts: m.config.MaxAttempts}
}

// Release deletes the lock entry if h still owns it. Releasing twice, or after
// the ttl already expired the entry, is a no-op.
func (m *Manager) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}

	storeKey := h.storeKey
	if storeKey == "" {
		storeKey = m.config.KeyPrefix + h.Key
	}

	if err := m.store.Delete(ctx, storeKey, h.Token); err != nil {
		return fmt.Errorf("lock: release %s: %w", h.Key, err)
	}

	if held := m.now().Sub(h.AcquiredAt); held > m.config.TTL {
		zap.L().Warn("Lock held past its ttl",
			zap.String("lock_key", h.Key),
			zap.Duration("held", held),
			zap.Duration("ttl", m.config.TTL))
	}

	zap.L().Debug("Lock released", zap.String("lock_key", h.Key))
	return nil
}
