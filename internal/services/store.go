package services

import (
	"context"
	"errors"

	"github.com/ruralpay/accounts/internal/database"
	"github.com/ruralpay/accounts/internal/models"
)

// TransactionStore is the persistence the balance engine depends on
type TransactionStore interface {
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	FindAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	FindTransactionByID(ctx context.Context, transactionID string) (*models.Transaction, error)
	IsCancelled(ctx context.Context, transactionID string) (bool, error)
	SaveAccount(ctx context.Context, account *models.Account) error
	SaveTransaction(ctx context.Context, txn *models.Transaction) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AccountStore adds the lifecycle queries used by AccountService
type AccountStore interface {
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	LockUser(ctx context.Context, id int64) error
	FindAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error)
	FindAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error)
	CountAccountsByUser(ctx context.Context, userID int64) (int, error)
	LastAccountNumber(ctx context.Context) (string, error)
	CreateAccount(ctx context.Context, account *models.Account) error
	SaveAccount(ctx context.Context, account *models.Account) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var (
	_ TransactionStore = (*database.PostgresStore)(nil)
	_ AccountStore     = (*database.PostgresStore)(nil)
)

// notFound maps the store's ErrNotFound to the given domain error
func notFound(err error, domainErr *models.AccountError) error {
	if errors.Is(err, database.ErrNotFound) {
		return domainErr
	}
	return err
}
