package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ruralpay/accounts/internal/audit"
	"github.com/ruralpay/accounts/internal/config"
	"github.com/ruralpay/accounts/internal/database"
	"github.com/ruralpay/accounts/internal/models"
	"go.uber.org/zap"
)

// TransactionService applies balance use and cancel operations and records
// every outcome. Callers must hold the account lock for mutating calls.
type TransactionService struct {
	store  TransactionStore
	audit  *audit.AuditLogger
	config *config.TransactionConfig
	now    func() time.Time
	newID  func() string
}

func NewTransactionService(store TransactionStore, auditLogger *audit.AuditLogger, cfg *config.TransactionConfig) *TransactionService {
	if cfg == nil {
		cfg = config.DefaultTransactionConfig()
	}
	if auditLogger == nil {
		auditLogger = audit.NewAuditLogger(nil)
	}
	return &TransactionService{
		store:  store,
		audit:  auditLogger,
		config: cfg,
		now:    time.Now,
		newID:  newTransactionID,
	}
}

// newTransactionID returns a 32 character hex id
func newTransactionID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// UseBalance debits amount from the account and records a SUCCESS/USE transaction
func (s *TransactionService) UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*models.Transaction, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, models.ErrUserNotFound)
	}

	account, err := s.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, notFound(err, models.ErrAccountNotFound)
	}

	if err := validateUseBalance(user, account, amount); err != nil {
		return nil, err
	}

	if err := s.simulateProcessing(ctx); err != nil {
		return nil, err
	}

	if err := account.Debit(amount); err != nil {
		return nil, err
	}

	txn := models.NewTransaction(s.newID(), models.TransactionTypeUse, models.TransactionResultSuccess, account, amount, s.now())
	if err := s.persist(ctx, account, txn); err != nil {
		return nil, err
	}

	zap.L().Info("Balance used",
		zap.String("transaction_id", txn.TransactionID),
		zap.String("account_number", accountNumber),
		zap.Int64("amount", amount),
		zap.Int64("balance", account.Balance))
	s.audit.LogTransaction(txn)
	return txn, nil
}

func validateUseBalance(user *models.User, account *models.Account, amount int64) error {
	if account.UserID != user.ID {
		return models.NewAccountError(models.UserAccountMismatch)
	}
	if !account.IsActive() {
		return models.NewAccountError(models.AccountAlreadyClosed)
	}
	if amount <= 0 {
		return models.Errorf(models.InvalidRequest, "amount must be positive: %d", amount)
	}
	if amount > account.Balance {
		return models.NewAccountError(models.AmountExceedsBalance)
	}
	return nil
}

// RecordFailedUse saves a FAILED/USE transaction against the unchanged balance
func (s *TransactionService) RecordFailedUse(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error) {
	return s.recordFailed(ctx, models.TransactionTypeUse, accountNumber, amount)
}

// CancelBalance credits back a successful USE in full. Each USE can be
// cancelled once.
func (s *TransactionService) CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.Transaction, error) {
	original, err := s.store.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, notFound(err, models.ErrTransactionNotFound)
	}

	account, err := s.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, notFound(err, models.ErrAccountNotFound)
	}

	if err := s.validateCancelBalance(original, account, amount); err != nil {
		return nil, err
	}

	cancelled, err := s.store.IsCancelled(ctx, original.TransactionID)
	if err != nil {
		return nil, err
	}
	if cancelled {
		return nil, alreadyCancelled(original.TransactionID)
	}

	if err := account.Credit(amount); err != nil {
		return nil, err
	}

	txn := models.NewTransaction(s.newID(), models.TransactionTypeCancel, models.TransactionResultSuccess, account, amount, s.now())
	txn.OriginalTransactionID = original.TransactionID
	if err := s.persist(ctx, account, txn); err != nil {
		if errors.Is(err, database.ErrAlreadyCancelled) {
			return nil, alreadyCancelled(original.TransactionID)
		}
		return nil, err
	}

	zap.L().Info("Balance cancelled",
		zap.String("transaction_id", txn.TransactionID),
		zap.String("original_transaction_id", transactionID),
		zap.String("account_number", accountNumber),
		zap.Int64("amount", amount),
		zap.Int64("balance", account.Balance))
	s.audit.LogTransaction(txn)
	return txn, nil
}

func (s *TransactionService) validateCancelBalance(original *models.Transaction, account *models.Account, amount int64) error {
	if original.AccountID != account.ID {
		return models.NewAccountError(models.TransactionAccountMismatch)
	}
	if !original.IsCancellable() {
		return models.Errorf(models.InvalidRequest, "only a successful USE can be cancelled, got %s/%s", original.Type, original.Result)
	}
	if original.Amount != amount {
		return models.NewAccountError(models.CancelMustBeFull)
	}
	cutoff := s.now().AddDate(-s.config.CancelWindowYears, 0, 0)
	if original.TransactedAt.Before(cutoff) {
		return models.NewAccountError(models.OrderTooOldToCancel)
	}
	return nil
}

func alreadyCancelled(transactionID string) error {
	return models.Errorf(models.InvalidRequest, "transaction %s is already cancelled", transactionID)
}

// RecordFailedCancel saves a FAILED/CANCEL transaction against the unchanged balance
func (s *TransactionService) RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error) {
	return s.recordFailed(ctx, models.TransactionTypeCancel, accountNumber, amount)
}

// QueryTransaction is read-only and needs no lock
func (s *TransactionService) QueryTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	txn, err := s.store.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, notFound(err, models.ErrTransactionNotFound)
	}
	return txn, nil
}

func (s *TransactionService) recordFailed(ctx context.Context, txType models.TransactionType, accountNumber string, amount int64) (*models.Transaction, error) {
	account, err := s.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, notFound(err, models.ErrAccountNotFound)
	}

	txn := models.NewTransaction(s.newID(), txType, models.TransactionResultFailed, account, amount, s.now())
	if err := s.store.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}

	zap.L().Info("Failed transaction recorded",
		zap.String("transaction_id", txn.TransactionID),
		zap.String("type", string(txType)),
		zap.String("account_number", accountNumber),
		zap.Int64("amount", amount))
	s.audit.LogTransaction(txn)
	return txn, nil
}

// persist writes the account and its transaction atomically
func (s *TransactionService) persist(ctx context.Context, account *models.Account, txn *models.Transaction) error {
	return s.store.WithTx(ctx, func(ctx context.Context) error {
		if err := s.store.SaveAccount(ctx, account); err != nil {
			return err
		}
		return s.store.SaveTransaction(ctx, txn)
	})
}

// simulateProcessing waits for the configured use delay, if any
func (s *TransactionService) simulateProcessing(ctx context.Context) error {
	if s.config.UseDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.config.UseDelay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
