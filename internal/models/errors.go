package models

import (
	"errors"
	"fmt"
)

// ErrorCode is a stable, client-facing identifier for a domain failure
type ErrorCode string

const (
	UserNotFound               ErrorCode = "USER_NOT_FOUND"
	AccountNotFound            ErrorCode = "ACCOUNT_NOT_FOUND"
	UserAccountMismatch        ErrorCode = "USER_ACCOUNT_MISMATCH"
	AccountAlreadyClosed       ErrorCode = "ACCOUNT_ALREADY_CLOSED"
	AmountExceedsBalance       ErrorCode = "AMOUNT_EXCEEDS_BALANCE"
	TransactionNotFound        ErrorCode = "TRANSACTION_NOT_FOUND"
	TransactionAccountMismatch ErrorCode = "TRANSACTION_ACCOUNT_MISMATCH"
	CancelMustBeFull           ErrorCode = "CANCEL_MUST_BE_FULL"
	OrderTooOldToCancel        ErrorCode = "ORDER_TOO_OLD_TO_CANCEL"
	InvalidRequest             ErrorCode = "INVALID_REQUEST"
	MaxAccountsPerUser         ErrorCode = "MAX_ACCOUNTS_PER_USER"
	BalanceNotEmpty            ErrorCode = "BALANCE_NOT_EMPTY"
	AccountNumbersExhausted    ErrorCode = "ACCOUNT_NUMBERS_EXHAUSTED"
)

var errorMessages = map[ErrorCode]string{
	UserNotFound:               "user not found",
	AccountNotFound:            "account not found",
	UserAccountMismatch:        "account does not belong to user",
	AccountAlreadyClosed:       "account is already closed",
	AmountExceedsBalance:       "amount exceeds account balance",
	TransactionNotFound:        "transaction not found",
	TransactionAccountMismatch: "transaction does not belong to account",
	CancelMustBeFull:           "partial cancellation is not allowed",
	OrderTooOldToCancel:        "transactions older than one year cannot be cancelled",
	InvalidRequest:             "invalid request",
	MaxAccountsPerUser:         "user already owns the maximum number of accounts",
	BalanceNotEmpty:            "account balance is not empty",
	AccountNumbersExhausted:    "no account numbers are left to assign",
}

// Message returns the default human readable description of the code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return string(c)
}

// AccountError is a domain validation failure carrying a stable code.
// Two AccountErrors match under errors.Is when their codes are equal.
type AccountError struct {
	Code    ErrorCode
	Message string
}

// NewAccountError creates an AccountError with the code's default message
func NewAccountError(code ErrorCode) *AccountError {
	return &AccountError{Code: code, Message: code.Message()}
}

// Errorf creates an AccountError with a formatted message
func Errorf(code ErrorCode, format string, args ...any) *AccountError {
	return &AccountError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *AccountError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AccountError) Is(target error) bool {
	var t *AccountError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrUserNotFound               = NewAccountError(UserNotFound)
	ErrAccountNotFound            = NewAccountError(AccountNotFound)
	ErrUserAccountMismatch        = NewAccountError(UserAccountMismatch)
	ErrAccountAlreadyClosed       = NewAccountError(AccountAlreadyClosed)
	ErrAmountExceedsBalance       = NewAccountError(AmountExceedsBalance)
	ErrTransactionNotFound        = NewAccountError(TransactionNotFound)
	ErrTransactionAccountMismatch = NewAccountError(TransactionAccountMismatch)
	ErrCancelMustBeFull           = NewAccountError(CancelMustBeFull)
	ErrOrderTooOldToCancel        = NewAccountError(OrderTooOldToCancel)
	ErrInvalidRequest             = NewAccountError(InvalidRequest)
	ErrMaxAccountsPerUser         = NewAccountError(MaxAccountsPerUser)
	ErrBalanceNotEmpty            = NewAccountError(BalanceNotEmpty)
	ErrAccountNumbersExhausted    = NewAccountError(AccountNumbersExhausted)
)

// CodeOf extracts the domain error code from err, if any
func CodeOf(err error) (ErrorCode, bool) {
	var ae *AccountError
	if errors.As(err, &ae) {
		return ae.Code, true
	}
	return "", false
}
