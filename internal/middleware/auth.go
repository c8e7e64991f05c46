package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ruralpay/accounts/internal/services"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated user id on ctx
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, if auth is enabled
func UserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDKey).(int64)
	return userID, ok
}

// AuthMiddleware requires a bearer JWT signed with jwt.secret_key and puts
// its user_id claim on the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			services.SendErrorResponse(w, "UNAUTHORIZED", "Authorization header required", http.StatusUnauthorized, nil)
			return
		}

		// Extract token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			services.SendErrorResponse(w, "UNAUTHORIZED", "Invalid authorization header format", http.StatusUnauthorized, nil)
			return
		}

		userID, err := validateToken(parts[1], []byte(viper.GetString("jwt.secret_key")))
		if err != nil {
			zap.L().Debug("Rejected bearer token", zap.Error(err))
			services.SendErrorResponse(w, "UNAUTHORIZED", "Invalid token", http.StatusUnauthorized, nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func validateToken(tokenString string, secret []byte) (int64, error) {
	if len(secret) == 0 {
		return 0, errors.New("jwt secret is not configured")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("unexpected claims type")
	}

	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("user_id claim missing or invalid: %v", v)
	}
}
