package handlers

import (
	"log/slog"
	"net/http"

	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	"github.com/zishraq/ecommerce-backend/internal/utils/response"
)

// requireUser fetches the authenticated user and answers 401 when there is none.
func requireUser(w http.ResponseWriter, r *http.Request) (*models.User, *slog.Logger, bool) {

	logger := middleware.LoggerFromContext(r.Context())

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		logger.Warn("Request without authenticated user")
		response.Error(w, errors.UnauthorizedError("Authentication required"))
		return nil, logger, false
	}

	return user, logger.With(slog.String("username", user.Username)), true
}

func productViews(products []*models.Product, viewer *models.User) []any {
	views := make([]any, 0, len(products))

	for _, product := range products {
		views = append(views, product.ViewFor(viewer))
	}

	return views
}
