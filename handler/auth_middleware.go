package handler

import (
	"context"
	"net/http"
	"strings"

	"go-nutrition-api/common"
	"go-nutrition-api/service"
)

type contextKey string

const (
	UserIDKey    contextKey = "userID"
	UserEmailKey contextKey = "userEmail"
)

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, *common.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, "Authorization header is required", nil)
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		return "", common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, "Invalid authorization header format", nil)
	}

	return headerParts[1], nil
}

// AuthMiddleware verifies the Bearer access token and places the caller's
// identity on the request context. Only the signature and expiry are
// checked; the refresh token table is not consulted.
func AuthMiddleware(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, appErr := BearerToken(r)
			if appErr != nil {
				appErr.Send(w)
				return
			}

			claims, err := tokens.VerifyAccessToken(tokenString)
			if err != nil {
				appErr := common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, "Invalid or expired token", err)
				appErr.Send(w)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, UserEmailKey, claims.Email)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
