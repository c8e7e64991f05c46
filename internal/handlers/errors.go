package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ruralpay/accounts/internal/lock"
	mW "github.com/ruralpay/accounts/internal/middleware"
	"github.com/ruralpay/accounts/internal/models"
	"github.com/ruralpay/accounts/internal/services"
	"go.uber.org/zap"
)

// Boundary-only error codes
const (
	CodeAccountLocked   = "ACCOUNT_TRANSACTION_LOCK"
	CodeLockUnavailable = "LOCK_UNAVAILABLE"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
	CodeForbidden       = "FORBIDDEN"
)

const maxBodyBytes = 1_048_576 // 1 MB

// decodeJSONBody reads exactly one JSON object with no unknown fields into dst
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, string(models.InvalidRequest), "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, string(models.InvalidRequest), "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

// validate reports validation failures as INVALID_REQUEST with field details
func validate(w http.ResponseWriter, vh *services.ValidationHelper, req any) bool {
	if err := vh.ValidateStruct(req); err != nil {
		services.SendErrorResponse(w, string(models.InvalidRequest), "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

// authorizeUser rejects requests acting for a user other than the token's
// subject. Without auth middleware there is no subject and every user passes.
func authorizeUser(w http.ResponseWriter, r *http.Request, userID int64) bool {
	if subject, ok := mW.UserIDFromContext(r.Context()); ok && subject != userID {
		services.SendErrorResponse(w, CodeForbidden, "Token does not belong to this user", http.StatusForbidden, nil)
		return false
	}
	return true
}

// writeError maps domain, lock and unexpected errors to a JSON response
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var accountErr *models.AccountError
	switch {
	case errors.As(err, &accountErr):
		status := http.StatusBadRequest
		if strings.HasSuffix(string(accountErr.Code), "_NOT_FOUND") {
			status = http.StatusNotFound
		}
		services.SendErrorResponse(w, string(accountErr.Code), accountErr.Message, status, nil)

	case errors.Is(err, lock.ErrLockTimeout):
		services.SendErrorResponse(w, CodeAccountLocked, "Another transaction is in progress for this account", http.StatusConflict, nil)

	case errors.Is(err, lock.ErrLockUnavailable):
		zap.L().Error("Lock store unavailable", zap.String("path", r.URL.Path), zap.Error(err))
		services.SendErrorResponse(w, CodeLockUnavailable, "Account lock service unavailable", http.StatusServiceUnavailable, nil)

	case errors.Is(err, lock.ErrEmptyLockKey):
		services.SendErrorResponse(w, string(models.InvalidRequest), "Account number is required", http.StatusBadRequest, nil)

	default:
		zap.L().Error("Unexpected error handling request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		services.SendErrorResponse(w, CodeInternal, "Internal server error", http.StatusInternalServerError, nil)
	}
}
