package audit

import (
	"time"

	"github.com/ruralpay/accounts/internal/models"
	"go.uber.org/zap"
)

// Event types
const (
	EventUseBalance    = "USE_BALANCE"
	EventCancelBalance = "CANCEL_BALANCE"
	EventAccountOpen   = "ACCOUNT_OPEN"
	EventAccountClose  = "ACCOUNT_CLOSE"
)

type AuditEvent struct {
	Timestamp             time.Time
	EventType             string
	TransactionID         string
	OriginalTransactionID string
	AccountNumber         string
	Amount                int64
	Balance               int64
	Status                string
}

// AuditLogger writes one structured entry per balance or lifecycle event
type AuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger uses the global logger when logger is nil
func NewAuditLogger(logger *zap.Logger) *AuditLogger {
	if logger == nil {
		logger = zap.L()
	}
	return &AuditLogger{logger: logger.Named("audit")}
}

func (a *AuditLogger) LogTransaction(txn *models.Transaction) {
	eventType := EventUseBalance
	if txn.Type == models.TransactionTypeCancel {
		eventType = EventCancelBalance
	}

	a.log(AuditEvent{
		Timestamp:             txn.TransactedAt,
		EventType:             eventType,
		TransactionID:         txn.TransactionID,
		OriginalTransactionID: txn.OriginalTransactionID,
		AccountNumber:         txn.AccountNumber,
		Amount:                txn.Amount,
		Balance:               txn.BalanceSnapshot,
		Status:                string(txn.Result),
	})
}

func (a *AuditLogger) LogAccount(eventType string, account *models.Account, at time.Time) {
	a.log(AuditEvent{
		Timestamp:     at,
		EventType:     eventType,
		AccountNumber: account.AccountNumber,
		Balance:       account.Balance,
		Status:        string(account.Status),
	})
}

func (a *AuditLogger) log(event AuditEvent) {
	fields := []zap.Field{
		zap.Time("timestamp", event.Timestamp),
		zap.String("event_type", event.EventType),
		zap.String("account_number", event.AccountNumber),
		zap.Int64("balance", event.Balance),
		zap.String("status", event.Status),
	}
	if event.TransactionID != "" {
		fields = append(fields,
			zap.String("transaction_id", event.TransactionID),
			zap.Int64("amount", event.Amount))
	}
	if event.OriginalTransactionID != "" {
		fields = append(fields, zap.String("original_transaction_id", event.OriginalTransactionID))
	}
	a.logger.Info("AUDIT", fields...)
}
