package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/zishraq/ecommerce-backend/internal/models"
	service "github.com/zishraq/ecommerce-backend/internal/services"
	"github.com/zishraq/ecommerce-backend/internal/utils"
	"github.com/zishraq/ecommerce-backend/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: utils.NewValidator()}
}

// ConfirmOrder godoc
//
//	@Summary		Confirm the open cart
//	@Description	Checks every line against stock, then decrements stock, writes the order and closes the cart. Nothing is written when any line falls short.
//	@Tags			Orders
//	@Accept			json
//	@Produce		json
//	@Param			order	body		models.ConfirmOrderRequest	true	"Payment method and address"
//	@Success		201		{object}	response.APIResponse{data=models.Order}
//	@Failure		400		{object}	response.APIResponse
//	@Failure		401		{object}	response.APIResponse
//	@Failure		404		{object}	response.APIResponse	"No open cart"
//	@Failure		409		{object}	response.APIResponse	"Not enough stock or already confirmed"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) ConfirmOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.ConfirmOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid confirm order input")
			return
		}

		order, err := h.orderService.ConfirmOrder(r.Context(), user, &req)
		if err != nil {
			logger.Warn("Failed to confirm order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order confirmed", slog.String("order_id", order.ID.String()))
		response.Success(w, http.StatusCreated, "Order confirmed", order)
	}
}

// GetOrder godoc
//
//	@Summary		Get an order
//	@Description	Customers see their own orders; admins may read any.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"	Format(uuid)
//	@Success		200	{object}	response.APIResponse{data=models.Order}
//	@Failure		401	{object}	response.APIResponse
//	@Failure		404	{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrder(r.Context(), user, id)
		if err != nil {
			logger.Warn("Failed to get order", slog.String("order_id", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", order)
	}
}

// ListOrders godoc
//
//	@Summary		List own orders
//	@Tags			Orders
//	@Produce		json
//	@Param			page		query		int	false	"Page number"	default(1)
//	@Param			pageSize	query		int	false	"Page size"		default(10)
//	@Success		200			{object}	response.APIResponse{data=models.PaginatedResponse}
//	@Failure		401			{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		page, pageSize := utils.ParsePagination(r)

		orders, total, err := h.orderService.ListOrders(r.Context(), user.Username, page, pageSize)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", models.PaginatedResponse{
			Data:     orders,
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// CreatePaymentIntent godoc
//
//	@Summary		Prepare card payment for an order
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string	true	"Order ID"	Format(uuid)
//	@Success		201	{object}	response.APIResponse{data=models.PaymentIntentResponse}
//	@Failure		401	{object}	response.APIResponse
//	@Failure		404	{object}	response.APIResponse
//	@Failure		502	{object}	response.APIResponse	"Payment provider error"
//	@Security		BearerAuth
//	@Router			/orders/{id}/payment-intent [post]
func (h *OrderHandler) CreatePaymentIntent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		intent, err := h.orderService.CreatePaymentIntent(r.Context(), user, id)
		if err != nil {
			logger.Error("Failed to create payment intent", slog.String("order_id", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Payment intent created", slog.String("order_id", id.String()), slog.String("payment_intent_id", intent.PaymentIntentID))
		response.Success(w, http.StatusCreated, "Payment intent created", intent)
	}
}
