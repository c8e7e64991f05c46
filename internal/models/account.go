package models

import (
	"time"
)

// AccountStatus represents account lifecycle state
type AccountStatus string

const (
	AccountStatusActive AccountStatus = "ACTIVE"
	AccountStatusClosed AccountStatus = "CLOSED"
)

// FirstAccountNumber is assigned when no account exists yet
const FirstAccountNumber = "1000000000"

// MaxAccountsPerUserLimit caps how many accounts a single user may open
const MaxAccountsPerUserLimit = 10

// Account is the balance-holding aggregate. Balance only changes through
// Debit and Credit, and only while the caller holds the account lock.
type Account struct {
	ID             int64         `json:"id" db:"id"`
	AccountNumber  string        `json:"accountNumber" db:"account_number"`
	UserID         int64         `json:"userId" db:"user_id"`
	Status         AccountStatus `json:"status" db:"status"`
	Balance        int64         `json:"balance" db:"balance"` // smallest currency unit
	RegisteredAt   time.Time     `json:"registeredAt" db:"registered_at"`
	UnregisteredAt *time.Time    `json:"unregisteredAt,omitempty" db:"unregistered_at"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the account can take balance operations
func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// Debit removes amount from the balance. Amounts must be positive.
func (a *Account) Debit(amount int64) error {
	if amount <= 0 {
		return Errorf(InvalidRequest, "debit amount must be positive: %d", amount)
	}
	if amount > a.Balance {
		return NewAccountError(AmountExceedsBalance)
	}
	a.Balance -= amount
	return nil
}

// Credit adds amount back to the balance. Amounts must be positive.
func (a *Account) Credit(amount int64) error {
	if amount <= 0 {
		return Errorf(InvalidRequest, "credit amount must be positive: %d", amount)
	}
	a.Balance += amount
	return nil
}

// Close moves the account to CLOSED. Closing is one-way and requires an empty balance.
func (a *Account) Close(now time.Time) error {
	if a.Status == AccountStatusClosed {
		return NewAccountError(AccountAlreadyClosed)
	}
	if a.Balance > 0 {
		return NewAccountError(BalanceNotEmpty)
	}
	a.Status = AccountStatusClosed
	a.UnregisteredAt = &now
	return nil
}
