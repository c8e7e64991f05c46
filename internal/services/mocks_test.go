package services

import (
	"context"
	"sort"
	"sync"

	"github.com/ruralpay/accounts/internal/database"
	"github.com/ruralpay/accounts/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStore) FindAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	args := m.Called(accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *MockStore) FindTransactionByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	args := m.Called(transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *MockStore) SaveAccount(ctx context.Context, account *models.Account) error {
	args := m.Called(account)
	return args.Error(0)
}

func (m *MockStore) SaveTransaction(ctx context.Context, txn *models.Transaction) error {
	args := m.Called(txn)
	return args.Error(0)
}

func (m *MockStore) IsCancelled(ctx context.Context, transactionID string) (bool, error) {
	args := m.Called(transactionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memoryStore is an in-memory store that hands out copies, so every caller
// works on its own snapshot the way rows read from Postgres would.
type memoryStore struct {
	// txMu serializes WithTx the way row locks serialize Postgres transactions
	txMu         sync.Mutex
	mu           sync.Mutex
	users        map[int64]models.User
	accounts     map[string]models.Account
	transactions map[string]models.Transaction
	nextID       int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        make(map[int64]models.User),
		accounts:     make(map[string]models.Account),
		transactions: make(map[string]models.Transaction),
	}
}

func (s *memoryStore) addUser(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = models.User{ID: id, Name: name}
}

func (s *memoryStore) addAccount(account models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.ID == 0 {
		s.nextID++
		account.ID = s.nextID
	}
	s.accounts[account.AccountNumber] = account
}

func (s *memoryStore) addTransaction(txn models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[txn.TransactionID] = txn
}

func (s *memoryStore) balance(accountNumber string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[accountNumber].Balance
}

func (s *memoryStore) transactionCount(result models.TransactionResult) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, txn := range s.transactions {
		if txn.Result == result {
			n++
		}
	}
	return n
}

func (s *memoryStore) FindUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &user, nil
}

func (s *memoryStore) FindAccountByNumber(ctx context.Context, accountNumber string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountNumber]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &account, nil
}

func (s *memoryStore) FindAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make([]*models.Account, 0)
	for _, account := range s.accounts {
		if account.UserID == userID {
			a := account
			accounts = append(accounts, &a)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountNumber < accounts[j].AccountNumber })
	return accounts, nil
}

func (s *memoryStore) LockUser(ctx context.Context, id int64) error {
	_, err := s.FindUserByID(ctx, id)
	return err
}

func (s *memoryStore) CountAccountsByUser(ctx context.Context, userID int64) (int, error) {
	accounts, _ := s.FindAccountsByUser(ctx, userID)
	return len(accounts), nil
}

func (s *memoryStore) LastAccountNumber(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := ""
	for number := range s.accounts {
		if number > last {
			last = number
		}
	}
	return last, nil
}

func (s *memoryStore) CreateAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountNumber]; ok {
		return database.ErrDuplicateAccountNumber
	}
	s.nextID++
	account.ID = s.nextID
	s.accounts[account.AccountNumber] = *account
	return nil
}

func (s *memoryStore) SaveAccount(ctx context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.AccountNumber]; !ok {
		return database.ErrNotFound
	}
	s.accounts[account.AccountNumber] = *account
	return nil
}

func (s *memoryStore) FindTransactionByID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &txn, nil
}

func (s *memoryStore) SaveTransaction(ctx context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if isSuccessfulCancel(txn) {
		for _, other := range s.transactions {
			if isSuccessfulCancel(&other) && other.OriginalTransactionID == txn.OriginalTransactionID {
				return database.ErrAlreadyCancelled
			}
		}
	}
	s.transactions[txn.TransactionID] = *txn
	return nil
}

func (s *memoryStore) IsCancelled(ctx context.Context, transactionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range s.transactions {
		if isSuccessfulCancel(&txn) && txn.OriginalTransactionID == transactionID {
			return true, nil
		}
	}
	return false, nil
}

func isSuccessfulCancel(txn *models.Transaction) bool {
	return txn.Type == models.TransactionTypeCancel && txn.Result == models.TransactionResultSuccess
}

func (s *memoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(ctx)
}
