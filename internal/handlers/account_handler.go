package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ruralpay/accounts/internal/lock"
	"github.com/ruralpay/accounts/internal/models"
	"github.com/ruralpay/accounts/internal/services"
)

// AccountLifecycle opens, closes and lists accounts
type AccountLifecycle interface {
	CreateAccount(ctx context.Context, userID, initialBalance int64) (*models.Account, error)
	CloseAccount(ctx context.Context, userID int64, accountNumber string) (*models.Account, error)
	GetAccountsByUser(ctx context.Context, userID int64) ([]*models.Account, error)
}

var _ AccountLifecycle = (*services.AccountService)(nil)

type AccountHandler struct {
	service   AccountLifecycle
	validator *services.ValidationHelper

	closeAccount lock.Operation[CloseAccountRequest, *models.Account]
}

func NewAccountHandler(service AccountLifecycle, locker lock.Locker) *AccountHandler {
	h := &AccountHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
	h.closeAccount = lock.WithAccountLock(locker, func(ctx context.Context, req CloseAccountRequest) (*models.Account, error) {
		return h.service.CloseAccount(ctx, req.UserID, req.AccountNo)
	})
	return h
}

// CreateAccount opens an account
// @Summary Create account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Create account request"
// @Success 201 {object} CreateAccountResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if !decodeJSONBody(w, r, &req) || !validate(w, h.validator, &req) || !authorizeUser(w, r, req.UserID) {
		return
	}

	account, err := h.service.CreateAccount(r.Context(), req.UserID, *req.InitialBalance)
	if err != nil {
		writeError(w, r, err)
		return
	}

	services.SendJSON(w, http.StatusCreated, CreateAccountResponse{
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
		RegisteredAt:  account.RegisteredAt,
	})
}

// CloseAccount unregisters an empty account
// @Summary Close account
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CloseAccountRequest true "Close account request"
// @Success 200 {object} CloseAccountResponse
// @Failure 400 {object} services.ErrorResponse
// @Failure 409 {object} services.ErrorResponse
// @Router /accounts [delete]
func (h *AccountHandler) CloseAccount(w http.ResponseWriter, r *http.Request) {
	var req CloseAccountRequest
	if !decodeJSONBody(w, r, &req) || !validate(w, h.validator, &req) || !authorizeUser(w, r, req.UserID) {
		return
	}

	account, err := h.closeAccount(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := CloseAccountResponse{
		UserID:        account.UserID,
		AccountNumber: account.AccountNumber,
	}
	if account.UnregisteredAt != nil {
		resp.UnregisteredAt = *account.UnregisteredAt
	}
	services.SendJSON(w, http.StatusOK, resp)
}

// GetAccounts lists a user's accounts
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param user_id query int true "User ID"
// @Success 200 {array} AccountInfo
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /accounts [get]
func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID < 1 {
		services.SendErrorResponse(w, string(models.InvalidRequest), "user_id must be a positive integer", http.StatusBadRequest, nil)
		return
	}
	if !authorizeUser(w, r, userID) {
		return
	}

	accounts, err := h.service.GetAccountsByUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	infos := make([]AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		infos = append(infos, AccountInfo{
			AccountNumber: a.AccountNumber,
			Balance:       a.Balance,
			Status:        a.Status,
		})
	}
	services.SendJSON(w, http.StatusOK, infos)
}
