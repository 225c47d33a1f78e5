package service

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/cache"
	"github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/metrics"
	"github.com/zishraq/ecommerce-backend/internal/models"
	repository "github.com/zishraq/ecommerce-backend/internal/repositories"
	"github.com/zishraq/ecommerce-backend/internal/utils"
	"github.com/zishraq/ecommerce-backend/pkg/sendgrid"
	"github.com/zishraq/ecommerce-backend/pkg/stripe"
)

type OrderService interface {
	ConfirmOrder(ctx context.Context, user *models.User, req *models.ConfirmOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, user *models.User, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, username string, page, pageSize int) ([]*models.Order, int, error)
	CreatePaymentIntent(ctx context.Context, user *models.User, orderID uuid.UUID) (*models.PaymentIntentResponse, error)
}

type orderService struct {
	orders   repository.OrderRepository
	carts    repository.CartRepository
	products repository.ProductRepository
	cache    *productCache
	payments stripe.Client
	email    sendgrid.EmailService
	currency string
}

// NewOrderService wires optional collaborators: a nil cache, payment client
// or email service disables that feature.
func NewOrderService(
	orders repository.OrderRepository,
	carts repository.CartRepository,
	products repository.ProductRepository,
	c cache.Cache,
	payments stripe.Client,
	email sendgrid.EmailService,
	currency string,
) OrderService {
	return &orderService{
		orders:   orders,
		carts:    carts,
		products: products,
		cache:    newProductCache(c, 0),
		payments: payments,
		email:    email,
		currency: currency,
	}
}

/*
ConfirmOrder turns the user's open cart into an order.

Every line is checked against current stock before anything is written, so a
shortage is reported without side effects. The store then repeats the check as
a conditional decrement inside the confirming transaction, which closes the
window between the two.
*/
func (s *orderService) ConfirmOrder(ctx context.Context, user *models.User, req *models.ConfirmOrderRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	cart, err := s.carts.GetLatestCart(ctx, user.Username)
	if err != nil && !stdErrors.Is(err, repository.ErrNotFound) {
		return nil, errors.DatabaseError("Failed to get cart").WithError(err)
	}
	if cart == nil || cart.Confirmed {
		return nil, errors.NotFoundError("No open cart to confirm")
	}

	items, err := s.carts.GetCartItems(ctx, cart.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to get cart items").WithError(err)
	}
	if len(items) == 0 {
		return nil, errors.NotFoundError("Cart is empty")
	}

	order := &models.Order{
		ID:            cart.ID,
		Username:      user.Username,
		PaymentMethod: req.PaymentMethod,
		Address:       utils.SanitizeText(req.Address),
		Items:         make([]models.OrderItem, 0, len(items)),
	}

	if order.Address == "" {
		return nil, errors.MissingFieldError("address")
	}

	total := decimal.Zero

	for _, item := range items {
		product, err := s.products.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if stdErrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NotFoundError("Product not found").WithDetail(item.ProductID.String()).WithError(err)
			}
			return nil, errors.DatabaseError("Failed to get product").WithError(err)
		}

		if item.Quantity > product.InStock {
			metrics.StockRejected(metrics.StageOrder)
			return nil, errors.InsufficientStockError(errors.StockShortage{
				ProductID: product.ID.String(),
				Available: product.InStock,
				Requested: item.Quantity,
			})
		}

		line := models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.UnitPrice(),
		}
		line.TotalPrice = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		total = total.Add(line.TotalPrice)

		order.Items = append(order.Items, line)
	}

	order.TotalPrice = total.Round(2)

	if err := s.orders.ConfirmOrder(ctx, order); err != nil {
		var stockErr *repository.StockError

		switch {
		case stdErrors.As(err, &stockErr):
			metrics.StockRejected(metrics.StageOrder)
			return nil, errors.InsufficientStockError(errors.StockShortage{
				ProductID: stockErr.ProductID.String(),
				Available: stockErr.Available,
				Requested: stockErr.Requested,
			}).WithError(err)
		case stdErrors.Is(err, repository.ErrAlreadyConfirmed):
			return nil, errors.AlreadyConfirmedError("Cart is already confirmed").WithError(err)
		case stdErrors.Is(err, repository.ErrCartChanged):
			return nil, errors.CartChangedError("Cart changed while the order was being confirmed, please review it and confirm again").WithError(err)
		case stdErrors.Is(err, repository.ErrNotFound):
			return nil, errors.NotFoundError("No open cart to confirm").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to confirm order").WithError(err)
	}

	metrics.OrderConfirmed()
	logger.Info("Order confirmed", slog.String("order_id", order.ID.String()), slog.String("total", order.TotalPrice.StringFixed(2)))

	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	s.cache.invalidate(ctx, ids...)
	s.cache.invalidateAfter(ctx, cacheSettleDelay, ids...)

	s.notify(ctx, user, order)

	return order, nil
}

// notify mails an order summary. Delivery problems never fail the order.
func (s *orderService) notify(ctx context.Context, user *models.User, order *models.Order) {
	if s.email == nil || user.Email == "" {
		return
	}

	if err := s.email.Send(ctx, orderConfirmationEmail(user.Email, order)); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to send order confirmation",
			slog.String("order_id", order.ID.String()), slog.Any("error", err))
	}
}

func orderConfirmationEmail(to string, order *models.Order) *models.EmailMessage {
	var body strings.Builder

	fmt.Fprintf(&body, "Thank you for your order %s.\n\n", order.ID)
	for _, item := range order.Items {
		fmt.Fprintf(&body, "%d x %s  %s\n", item.Quantity, item.ProductName, item.TotalPrice.StringFixed(2))
	}
	fmt.Fprintf(&body, "\nTotal: %s\nPayment: %s\nShipping to: %s\n", order.TotalPrice.StringFixed(2), order.PaymentMethod, order.Address)

	return &models.EmailMessage{
		To:      to,
		Subject: "Order confirmation " + order.ID.String(),
		Content: body.String(),
	}
}

// GetOrder lets admins read any order; everyone else only sees their own.
func (s *orderService) GetOrder(ctx context.Context, user *models.User, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to get order").WithError(err)
	}

	if order.Username != user.Username && !user.IsAdmin() {
		return nil, errors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, username string, page, pageSize int) ([]*models.Order, int, error) {

	orders, total, err := s.orders.ListOrdersByUsername(ctx, username, page, pageSize)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list orders").WithError(err)
	}

	return orders, total, nil
}

// CreatePaymentIntent asks Stripe to prepare a charge for the order total.
func (s *orderService) CreatePaymentIntent(ctx context.Context, user *models.User, orderID uuid.UUID) (*models.PaymentIntentResponse, error) {

	if s.payments == nil {
		return nil, errors.ThirdPartyError("Payments are not configured")
	}

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Order not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to get order").WithError(err)
	}

	if order.Username != user.Username {
		return nil, errors.NotFoundError("Order not found")
	}

	amount := order.TotalPrice.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if amount <= 0 {
		return nil, errors.BadRequestError("Order total must be positive")
	}

	intent, err := s.payments.CreatePaymentIntent(amount, s.currency, "Order "+order.ID.String(), map[string]string{
		"order_id": order.ID.String(),
		"username": order.Username,
	})
	if err != nil {
		middleware.LoggerFromContext(ctx).Error("Stripe payment intent failed", slog.String("order_id", order.ID.String()), slog.Any("error", err))
		return nil, errors.ThirdPartyError("Failed to create payment intent").WithError(err)
	}

	if err := s.orders.SetPaymentIntent(ctx, order.ID, intent.ID); err != nil {
		return nil, errors.DatabaseError("Failed to store payment intent").WithError(err)
	}

	return &models.PaymentIntentResponse{
		OrderID:         order.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          amount,
		Currency:        s.currency,
	}, nil
}
