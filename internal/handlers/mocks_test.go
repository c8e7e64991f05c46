package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/accounts/internal/config"
	"github.com/ruralpay/accounts/internal/lock"
	"github.com/ruralpay/accounts/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*models.Transaction, error) {
	args := m.Called(userID, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockBalanceService) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error) {
	args := m.Called(accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockBalanceService) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.Transaction, error) {
	args := m.Called(transactionID, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockBalanceService) RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error) {
	args := m.Called(accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockBalanceService) QueryTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, userID, initialBalance int64) (*models.Account, error) {
	args := m.Called(userID, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) CloseAccount(ctx context.Context, userID int64, accountNumber string) (*models.Account, error) {
	args := m.Called(userID, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

// stubLocker fails every acquire with err
type stubLocker struct {
	err error
}

func (l stubLocker) Acquire(ctx context.Context, key string) (*lock.Handle, error) {
	return nil, l.err
}

func (l stubLocker) Release(ctx context.Context, h *lock.Handle) error {
	return nil
}

// newRedisLocker returns a lock manager backed by an in-process Redis with a
// short retry budget
func newRedisLocker(t *testing.T) (*miniredis.Miniredis, lock.Locker) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	cfg := config.DefaultLockConfig()
	cfg.MaxAttempts = 2
	cfg.RetryDelay = time.Millisecond

	m, err := lock.NewManager(lock.NewRedisStore(client), cfg)
	require.NoError(t, err)
	return mr, m
}
