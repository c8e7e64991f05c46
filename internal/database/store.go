package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/ruralpay/accounts/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("database: record not found")
	// ErrDuplicateAccountNumber is returned when a concurrent create took the same number
	ErrDuplicateAccountNumber = errors.New("database: account number already exists")
	// ErrAlreadyCancelled is returned when a second successful CANCEL names the same USE
	ErrAlreadyCancelled = errors.New("database: transaction already cancelled")
)

const (
	uniqueViolation      = "23505"
	cancelledOriginalIdx = "uq_transactions_cancelled_original"
)

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// PostgresStore persists users, accounts and transactions. Calls made with a
// context returned by WithTx run inside that transaction.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithTx runs fn in a single SQL transaction, committing only when fn returns
// nil. Nested calls join the outer transaction.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.conn(ctx).QueryRowContext(ctx, queryGetUserByID, id).
		Scan(&user.ID, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// LockUser takes a row lock on the user until the surrounding transaction
// ends. Outside WithTx the lock is released immediately.
func (s *PostgresStore) LockUser(ctx context.Context, id int64) error {
	var locked int64
	err := s.conn(ctx).QueryRowContext(ctx, queryLockUser, id).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to lock user %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*models.Account, error) {
	var (
		account        models.Account
		unregisteredAt sql.NullTime
	)
	err := row.Scan(&account.ID, &account.AccountNumber, &account.UserID, &account.Status,
		&account.Balance, &account.RegisteredAt, &unregisteredAt, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if unregisteredAt.Valid {
		t := unregisteredAt.Time
		account.UnregisteredAt = &t
	}
	return &account, nil
}

func (s *PostgresStore) FindAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	account, err := scanAccount(s.conn(ctx).QueryRowContext(ctx, queryGetAccountByNumber, accountNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", accountNumber, err)
	}
	return account, nil
}

func (s *PostgresStore) FindAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, queryGetAccountsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for user %d: %w", userID, err)
	}
	defer rows.Close()

	accounts := make([]*models.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}

func (s *PostgresStore) CountAccountsByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	if err := s.conn(ctx).QueryRowContext(ctx, queryCountAccountsByUser, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts for user %d: %w", userID, err)
	}
	return count, nil
}

// LastAccountNumber returns the highest issued account number, or "" when
// no account exists yet.
func (s *PostgresStore) LastAccountNumber(ctx context.Context) (string, error) {
	var number string
	err := s.conn(ctx).QueryRowContext(ctx, queryGetLastAccountNumber).Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last account number: %w", err)
	}
	return number, nil
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *models.Account) error {
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = account.CreatedAt

	err := s.conn(ctx).QueryRowContext(ctx, queryInsertAccount,
		account.AccountNumber, account.UserID, account.Status, account.Balance,
		account.RegisteredAt, account.CreatedAt).Scan(&account.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateAccountNumber, account.AccountNumber)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveAccount(ctx context.Context, account *models.Account) error {
	account.UpdatedAt = time.Now().UTC()

	var unregisteredAt sql.NullTime
	if account.UnregisteredAt != nil {
		unregisteredAt = sql.NullTime{Time: *account.UnregisteredAt, Valid: true}
	}

	result, err := s.conn(ctx).ExecContext(ctx, queryUpdateAccount,
		account.Status, account.Balance, unregisteredAt, account.UpdatedAt, account.ID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", account.AccountNumber, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FindTransactionByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	var txn models.Transaction
	err := s.conn(ctx).QueryRowContext(ctx, queryGetTransactionByID, transactionID).
		Scan(&txn.ID, &txn.TransactionID, &txn.AccountID, &txn.AccountNumber, &txn.Type,
			&txn.Result, &txn.Amount, &txn.BalanceSnapshot, &txn.TransactedAt, &txn.OriginalTransactionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return &txn, nil
}

func (s *PostgresStore) SaveTransaction(ctx context.Context, txn *models.Transaction) error {
	err := s.conn(ctx).QueryRowContext(ctx, queryInsertTransaction,
		txn.TransactionID, txn.AccountID, txn.Type, txn.Result,
		txn.Amount, txn.BalanceSnapshot, txn.TransactedAt, txn.OriginalTransactionID).Scan(&txn.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation && pqErr.Constraint == cancelledOriginalIdx {
			return fmt.Errorf("%w: %s", ErrAlreadyCancelled, txn.OriginalTransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", txn.TransactionID, err)
	}
	return nil
}

// IsCancelled reports whether a successful CANCEL already reversed transactionID
func (s *PostgresStore) IsCancelled(ctx context.Context, transactionID string) (bool, error) {
	var cancelled bool
	if err := s.conn(ctx).QueryRowContext(ctx, queryIsCancelled, transactionID).Scan(&cancelled); err != nil {
		return false, fmt.Errorf("failed to check cancellation of %s: %w", transactionID, err)
	}
	return cancelled, nil
}
