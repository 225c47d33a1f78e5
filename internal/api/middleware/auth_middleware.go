package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	"github.com/zishraq/ecommerce-backend/internal/utils/response"
)

type userContextKey struct{}

var UserContextKey = userContextKey{}

// UserLookup resolves the account behind a verified token.
type UserLookup interface {
	GetUser(ctx context.Context, username string) (*models.User, error)
}

type AuthMiddleware struct {
	jwtKey []byte
	users  UserLookup
}

func NewAuthMiddleware(jwtKey []byte, users UserLookup) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey, users: users}
}

// Authenticate rejects requests without a valid bearer token for an existing user.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := LoggerFromContext(r.Context())

		if r.Header.Get("Authorization") == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		m.withUser(w, r, next)
	}
}

// OptionalAuthenticate lets anonymous requests through but still rejects a bad token.
func (m *AuthMiddleware) OptionalAuthenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		m.withUser(w, r, next)
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		// a wrong role is reported like a missing session
		if !user.IsAdmin() {
			LoggerFromContext(r.Context()).Warn("Admin access denied")
			response.Error(w, errors.UnauthorizedError("Admin access required"))
			return
		}

		next.ServeHTTP(w, r)
	}
}

// Admin chains Authenticate and RequireAdmin.
func (m *AuthMiddleware) Admin(next http.Handler) http.HandlerFunc {
	return m.Authenticate(RequireAdmin(next))
}

func (m *AuthMiddleware) withUser(w http.ResponseWriter, r *http.Request, next http.Handler) {
	logger := LoggerFromContext(r.Context())

	// Token is of format : "Bearer <token>"
	tokenParts := strings.Split(r.Header.Get("Authorization"), " ")

	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
		logger.Warn("Invalid authorization header format")
		response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
		return
	}

	claims, err := m.parseToken(tokenParts[1])
	if err != nil {
		logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
		response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
		return
	}

	user, err := m.users.GetUser(r.Context(), claims.Username)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeNotFound) {
			logger.Warn("Token for unknown user", slog.String("username", claims.Username))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}
		logger.Error("Failed to resolve authenticated user", slog.Any("error", err))
		response.Error(w, err)
		return
	}

	ctx := context.WithValue(r.Context(), UserContextKey, user)

	requestScopedLogger := logger.With(slog.String("username", user.Username))
	ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

	requestScopedLogger.Debug("User authenticated")

	next.ServeHTTP(w, r.WithContext(ctx))
}

func (m *AuthMiddleware) parseToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.jwtKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.Username == "" {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserContextKey).(*models.User)

	return user, ok && user != nil
}
