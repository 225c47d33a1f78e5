package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/models"
)

// CreateTestRequestWithContext builds a request as the auth middleware would
// hand it on: user and discard logger in the context, path values set.
func CreateTestRequestWithContext(method, target string, body io.Reader, user *models.User, pathParams map[string]string) *http.Request {
	req := CreateTestRequestWithoutContext(method, target, body, pathParams)

	ctx := context.WithValue(req.Context(), middleware.UserContextKey, user)

	return req.WithContext(ctx)
}

func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

func Customer(username string) *models.User {
	return &models.User{Username: username, Role: models.RoleCustomer}
}

func Admin(username string) *models.User {
	return &models.User{Username: username, Role: models.RoleAdmin}
}
