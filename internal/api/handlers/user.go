package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	service "github.com/zishraq/ecommerce-backend/internal/services"
	"github.com/zishraq/ecommerce-backend/internal/utils"
	"github.com/zishraq/ecommerce-backend/internal/utils/response"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: utils.NewValidator()}
}

// Register godoc
//
//	@Summary		Register a new customer
//	@Description	Creates a customer account. Usernames are unique and cannot be changed later.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	response.APIResponse{data=models.User}
//	@Failure		400		{object}	response.APIResponse	"Missing or invalid field"
//	@Failure		409		{object}	response.APIResponse	"Username already registered"
//	@Failure		500		{object}	response.APIResponse
//	@Router			/auth/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Warn("User registration failed", slog.String("username", req.Username), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User registered", slog.String("username", user.Username))
		response.Success(w, http.StatusCreated, "User registered successfully", user)
	}
}

// Login godoc
//
//	@Summary		Log in
//	@Description	Exchanges credentials for a bearer token. Repeated failures are throttled per username.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest	true	"Username and password"
//	@Success		200			{object}	response.APIResponse{data=models.LoginResponse}
//	@Failure		400			{object}	response.APIResponse
//	@Failure		401			{object}	response.APIResponse{details=models.LoginResponse}	"Invalid credentials"
//	@Failure		429			{object}	response.APIResponse{details=models.LoginResponse}	"Too many attempts"
//	@Failure		502			{object}	response.APIResponse	"Rate limiter unavailable"
//	@Router			/auth/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Login failed", slog.String("username", req.Username), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			if resp.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(resp.RetryAfter))
				response.Error(w, errors.TooManyRequestsError(resp.Message).WithPayload(resp))
				return
			}

			response.Error(w, errors.UnauthorizedError(resp.Message).WithPayload(resp))
			return
		}

		logger.Info("User logged in", slog.String("username", req.Username))
		response.Success(w, http.StatusOK, "Login successful", resp)
	}
}

// Me godoc
//
//	@Summary		Current user
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=models.User}
//	@Failure		401	{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/auth/me [get]
func (h *UserHandler) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, _, ok := requireUser(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, "", user)
	}
}
