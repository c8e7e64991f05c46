package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ruralpay/accounts/internal/lock"
	"github.com/ruralpay/accounts/internal/models"
	"github.com/ruralpay/accounts/internal/services"
	"go.uber.org/zap"
)

// BalanceService is the transaction engine as seen by the HTTP layer
type BalanceService interface {
	UseBalance(ctx context.Context, userID int64, accountNumber string, amount int64) (*models.Transaction, error)
	RecordFailedUse(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error)
	CancelBalance(ctx context.Context, transactionID, accountNumber string, amount int64) (*models.Transaction, error)
	RecordFailedCancel(ctx context.Context, accountNumber string, amount int64) (*models.Transaction, error)
	QueryTransaction(ctx context.Context, transactionID string) (*models.Transaction, error)
}

var _ BalanceService = (*services.TransactionService)(nil)

type TransactionHandler struct {
	service   BalanceService
	validator *services.ValidationHelper

	useBalance    lock.Operation[UseBalanceRequest, *models.Transaction]
	cancelBalance lock.Operation[CancelBalanceRequest, *models.Transaction]
}

func NewTransactionHandler(service BalanceService, locker lock.Locker) *TransactionHandler {
	h := &TransactionHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
	h.useBalance = lock.WithAccountLock(locker, h.lockedUseBalance)
	h.cancelBalance = lock.WithAccountLock(locker, h.lockedCancelBalance)
	return h
}

// UseBalance debits an account
// @Summary Use balance
// @Description Debit an amount from an account under the account lock
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body UseBalanceRequest true "Use balance request"
// @Success 200 {object} UseBalanceResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /transactions/use [post]
func (h *TransactionHandler) UseBalance(w http.ResponseWriter, r *http.Request) {
	var req UseBalanceRequest
	if !decodeJSONBody(w, r, &req) || !validate(w, h.validator, &req) || !authorizeUser(w, r, req.UserID) {
		return
	}

	txn, err := h.useBalance(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	services.SendJSON(w, http.StatusOK, newBalanceResponse(txn))
}

// CancelBalance credits back a previous use
// @Summary Cancel balance
// @Description Cancel a previous use in full under the account lock
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CancelBalanceRequest true "Cancel balance request"
// @Success 200 {object} CancelBalanceResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /transactions/cancel [post]
func (h *TransactionHandler) CancelBalance(w http.ResponseWriter, r *http.Request) {
	var req CancelBalanceRequest
	if !decodeJSONBody(w, r, &req) || !validate(w, h.validator, &req) {
		return
	}

	txn, err := h.cancelBalance(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	services.SendJSON(w, http.StatusOK, newBalanceResponse(txn))
}

// QueryTransaction returns one transaction
// @Summary Query transaction
// @Tags transactions
// @Produce json
// @Param transactionId path string true "Transaction ID"
// @Success 200 {object} QueryTransactionResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /transactions/{transactionId} [get]
func (h *TransactionHandler) QueryTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")

	txn, err := h.service.QueryTransaction(r.Context(), transactionID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	services.SendJSON(w, http.StatusOK, newQueryTransactionResponse(txn))
}

// lockedUseBalance runs with the account lock held. Overdrafts, unexpected
// errors and panics leave a FAILED record before the lock is released.
func (h *TransactionHandler) lockedUseBalance(ctx context.Context, req UseBalanceRequest) (txn *models.Transaction, err error) {
	defer func() {
		if p := recover(); p != nil {
			h.recordFailure(ctx, models.TransactionTypeUse, req.AccountNo, req.Amount)
			panic(p)
		}
	}()

	txn, err = h.service.UseBalance(ctx, req.UserID, req.AccountNo, req.Amount)
	if err != nil && recordsFailedUse(err) {
		h.recordFailure(ctx, models.TransactionTypeUse, req.AccountNo, req.Amount)
	}
	return txn, err
}

func (h *TransactionHandler) lockedCancelBalance(ctx context.Context, req CancelBalanceRequest) (txn *models.Transaction, err error) {
	defer func() {
		if p := recover(); p != nil {
			h.recordFailure(ctx, models.TransactionTypeCancel, req.AccountNo, req.Amount)
			panic(p)
		}
	}()

	txn, err = h.service.CancelBalance(ctx, req.TransactionID, req.AccountNo, req.Amount)
	if err != nil && recordsFailedCancel(err) {
		h.recordFailure(ctx, models.TransactionTypeCancel, req.AccountNo, req.Amount)
	}
	return txn, err
}

func recordsFailedUse(err error) bool {
	if _, ok := models.CodeOf(err); !ok {
		return true
	}
	return errors.Is(err, models.ErrAmountExceedsBalance)
}

func recordsFailedCancel(err error) bool {
	if _, ok := models.CodeOf(err); !ok {
		return true
	}
	return errors.Is(err, models.ErrCancelMustBeFull) ||
		errors.Is(err, models.ErrOrderTooOldToCancel) ||
		errors.Is(err, models.ErrInvalidRequest)
}

// recordFailure never replaces the original error; its own failure is only logged
func (h *TransactionHandler) recordFailure(ctx context.Context, txType models.TransactionType, accountNumber string, amount int64) {
	ctx = context.WithoutCancel(ctx)

	var err error
	if txType == models.TransactionTypeCancel {
		_, err = h.service.RecordFailedCancel(ctx, accountNumber, amount)
	} else {
		_, err = h.service.RecordFailedUse(ctx, accountNumber, amount)
	}
	if err != nil {
		zap.L().Error("Failed to record failed transaction",
			zap.String("type", string(txType)),
			zap.String("account_number", accountNumber),
			zap.Int64("amount", amount),
			zap.Error(err))
	}
}
