package handlers

import (
	"time"

	"github.com/ruralpay/accounts/internal/models"
)

// UseBalanceRequest is locked on its account number
type UseBalanceRequest struct {
	UserID    int64  `json:"userId" validate:"required,min=1"`
	AccountNo string `json:"accountNumber" validate:"required,len=10,numeric"`
	Amount    int64  `json:"amount" validate:"required,min=10,max=1000000000"`
}

func (r UseBalanceRequest) AccountNumber() string { return r.AccountNo }

type UseBalanceResponse struct {
	AccountNumber     string                   `json:"accountNumber"`
	TransactionResult models.TransactionResult `json:"transactionResult"`
	TransactionID     string                   `json:"transactionId"`
	Amount            int64                    `json:"amount"`
	TransactedAt      time.Time                `json:"transactedAt"`
}

// CancelBalanceRequest is locked on its account number
type CancelBalanceRequest struct {
	TransactionID string `json:"transactionId" validate:"required,max=64"`
	AccountNo     string `json:"accountNumber" validate:"required,len=10,numeric"`
	Amount        int64  `json:"amount" validate:"required,min=10,max=1000000000"`
}

func (r CancelBalanceRequest) AccountNumber() string { return r.AccountNo }

type CancelBalanceResponse = UseBalanceResponse

func newBalanceResponse(txn *models.Transaction) UseBalanceResponse {
	return UseBalanceResponse{
		AccountNumber:     txn.AccountNumber,
		TransactionResult: txn.Result,
		TransactionID:     txn.TransactionID,
		Amount:            txn.Amount,
		TransactedAt:      txn.TransactedAt,
	}
}

type QueryTransactionResponse struct {
	AccountNumber     string                   `json:"accountNumber"`
	TransactionType   models.TransactionType   `json:"transactionType"`
	TransactionResult models.TransactionResult `json:"transactionResult"`
	TransactionID     string                   `json:"transactionId"`
	Amount            int64                    `json:"amount"`
	TransactedAt      time.Time                `json:"transactedAt"`
}

func newQueryTransactionResponse(txn *models.Transaction) QueryTransactionResponse {
	return QueryTransactionResponse{
		AccountNumber:     txn.AccountNumber,
		TransactionType:   txn.Type,
		TransactionResult: txn.Result,
		TransactionID:     txn.TransactionID,
		Amount:            txn.Amount,
		TransactedAt:      txn.TransactedAt,
	}
}

type CreateAccountRequest struct {
	UserID         int64  `json:"userId" validate:"required,min=1"`
	InitialBalance *int64 `json:"initialBalance" validate:"required,min=0"`
}

type CreateAccountResponse struct {
	UserID        int64     `json:"userId"`
	AccountNumber string    `json:"accountNumber"`
	RegisteredAt  time.Time `json:"registeredAt"`
}

// CloseAccountRequest is locked on its account number
type CloseAccountRequest struct {
	UserID    int64  `json:"userId" validate:"required,min=1"`
	AccountNo string `json:"accountNumber" validate:"required,len=10,numeric"`
}

func (r CloseAccountRequest) AccountNumber() string { return r.AccountNo }

type CloseAccountResponse struct {
	UserID         int64     `json:"userId"`
	AccountNumber  string    `json:"accountNumber"`
	UnregisteredAt time.Time `json:"unregisteredAt"`
}

type AccountInfo struct {
	AccountNumber string               `json:"accountNumber"`
	Balance       int64                `json:"balance"`
	Status        models.AccountStatus `json:"status"`
}
