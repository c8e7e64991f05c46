package models

import (
	"time"
)

// TransactionType is the kind of balance mutation attempted
type TransactionType string

const (
	TransactionTypeUse    TransactionType = "USE"
	TransactionTypeCancel TransactionType = "CANCEL"
)

// TransactionResult is fixed at creation; there are no transitions
type TransactionResult string

const (
	TransactionResultSuccess TransactionResult = "SUCCESS"
	TransactionResultFailed  TransactionResult = "FAILED"
)

// Transaction is the immutable audit record of one attempted balance mutation
type Transaction struct {
	ID              int64             `json:"-" db:"id"`
	TransactionID   string            `json:"transactionId" db:"transaction_id"`
	AccountID       int64             `json:"-" db:"account_id"`
	AccountNumber   string            `json:"accountNumber" db:"account_number"`
	Type            TransactionType   `json:"transactionType" db:"transaction_type"`
	Result          TransactionResult `json:"transactionResult" db:"transaction_result"`
	Amount          int64             `json:"amount" db:"amount"`
	BalanceSnapshot int64             `json:"balanceSnapshot" db:"balance_snapshot"`
	TransactedAt    time.Time         `json:"transactedAt" db:"transacted_at"`
	// OriginalTransactionID links a successful CANCEL to the USE it reversed
	OriginalTransactionID string `json:"originalTransactionId,omitempty" db:"original_transaction_id"`
}

// IsCancellable reports whether the record is a USE that actually moved money
func (t *Transaction) IsCancellable() bool {
	return t.Type == TransactionTypeUse && t.Result == TransactionResultSuccess
}

// NewTransaction snapshots the account's current balance into a new record
func NewTransaction(id string, txType TransactionType, result TransactionResult, account *Account, amount int64, at time.Time) *Transaction {
	return &Transaction{
		TransactionID:   id,
		AccountID:       account.ID,
		AccountNumber:   account.AccountNumber,
		Type:            txType,
		Result:          result,
		Amount:          amount,
		BalanceSnapshot: account.Balance,
		TransactedAt:    at,
	}
}
