package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ruralpay/accounts/internal/audit"
	"github.com/ruralpay/accounts/internal/database"
	"github.com/ruralpay/accounts/internal/models"
	"go.uber.org/zap"
)

const createAccountAttempts = 3

type AccountService struct {
	store AccountStore
	audit *audit.AuditLogger
	now   func() time.Time
}

func NewAccountService(store AccountStore, auditLogger *audit.AuditLogger) *AccountService {
	if auditLogger == nil {
		auditLogger = audit.NewAuditLogger(nil)
	}
	return &AccountService{
		store: store,
		audit: auditLogger,
		now:   time.Now,
	}
}

// CreateAccount opens a new ACTIVE account for the user with the next free number
func (s *AccountService) CreateAccount(ctx context.Context, userID, initialBalance int64) (*models.Account, error) {
	if initialBalance < 0 {
		return nil, models.Errorf(models.InvalidRequest, "initial balance must not be negative: %d", initialBalance)
	}

	if _, err := s.store.FindUserByID(ctx, userID); err != nil {
		return nil, notFound(err, models.ErrUserNotFound)
	}

	var (
		account *models.Account
		err     error
	)
	for attempt := 1; attempt <= createAccountAttempts; attempt++ {
		account, err = s.createWithNextNumber(ctx, userID, initialBalance)
		if !errors.Is(err, database.ErrDuplicateAccountNumber) {
			break
		}
		zap.L().Warn("Account number taken concurrently, retrying",
			zap.Int64("user_id", userID),
			zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	zap.L().Info("Account created",
		zap.Int64("user_id", userID),
		zap.String("account_number", account.AccountNumber),
		zap.Int64("balance", account.Balance))
	s.audit.LogAccount(audit.EventAccountOpen, account, account.RegisteredAt)
	return account, nil
}

// createWithNextNumber holds the user's row lock from the limit check to the
// insert, so concurrent creates for one user cannot pass the limit together.
func (s *AccountService) createWithNextNumber(ctx context.Context, userID, initialBalance int64) (*models.Account, error) {
	var account *models.Account
	err := s.store.WithTx(ctx, func(ctx context.Context) error {
		if err := s.store.LockUser(ctx, userID); err != nil {
			return notFound(err, models.ErrUserNotFound)
		}

		count, err := s.store.CountAccountsByUser(ctx, userID)
		if err != nil {
			return err
		}
		if count >= models.MaxAccountsPerUserLimit {
			return models.NewAccountError(models.MaxAccountsPerUser)
		}

		last, err := s.store.LastAccountNumber(ctx)
		if err != nil {
			return err
		}

		number, err := nextAccountNumber(last)
		if err != nil {
			return err
		}

		now := s.now()
		account = &models.Account{
			AccountNumber: number,
			UserID:        userID,
			Status:        models.AccountStatusActive,
			Balance:       initialBalance,
			RegisteredAt:  now,
			CreatedAt:     now,
		}
		return s.store.CreateAccount(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// lastAssignableNumber is the largest number that fits the 10 digit column
const lastAssignableNumber = 9_999_999_999

func nextAccountNumber(last string) (string, error) {
	if last == "" {
		return models.FirstAccountNumber, nil
	}
	n, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid stored account number %q: %w", last, err)
	}
	if n >= lastAssignableNumber {
		return "", models.NewAccountError(models.AccountNumbersExhausted)
	}
	return strconv.FormatInt(n+1, 10), nil
}

// CloseAccount unregisters an empty account. Callers must hold the account lock.
func (s *AccountService) CloseAccount(ctx context.Context, userID int64, accountNumber string) (*models.Account, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, models.ErrUserNotFound)
	}

	account, err := s.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, notFound(err, models.ErrAccountNotFound)
	}

	if account.UserID != user.ID {
		return nil, models.NewAccountError(models.UserAccountMismatch)
	}

	now := s.now()
	if err := account.Close(now); err != nil {
		return nil, err
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, err
	}

	zap.L().Info("Account closed",
		zap.Int64("user_id", userID),
		zap.String("account_number", accountNumber))
	s.audit.LogAccount(audit.EventAccountClose, account, now)
	return account, nil
}

// GetAccountsByUser lists every account the user owns, closed ones included
func (s *AccountService) GetAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	if _, err := s.store.FindUserByID(ctx, userID); err != nil {
		return nil, notFound(err, models.ErrUserNotFound)
	}
	return s.store.FindAccountsByUser(ctx, userID)
}
