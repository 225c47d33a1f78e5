package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zishraq/ecommerce-backend/internal/cache"
	appErrors "github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	repository "github.com/zishraq/ecommerce-backend/internal/repositories"
	"github.com/zishraq/ecommerce-backend/internal/repositories/mocks"
	service "github.com/zishraq/ecommerce-backend/internal/services"
)

type orderFixture struct {
	service  service.OrderService
	orders   *mocks.OrderRepository
	carts    *mocks.CartRepository
	products *mocks.ProductRepository
	cache    *memoryCache
	payments *fakePayments
	email    *fakeEmail
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:   new(mocks.OrderRepository),
		carts:    new(mocks.CartRepository),
		products: new(mocks.ProductRepository),
		cache:    newMemoryCache(),
		payments: &fakePayments{},
		email:    &fakeEmail{},
	}
	f.service = service.NewOrderService(f.orders, f.carts, f.products, f.cache, f.payments, f.email, "usd")

	return f
}

func TestOrderService_ConfirmOrder(t *testing.T) {
	ctx := context.Background()
	alice := &models.User{Username: "alice", Email: "alice@example.com", Role: models.RoleCustomer}
	req := &models.ConfirmOrderRequest{PaymentMethod: "card", Address: "1 Main St"}

	lamp := &models.Product{ID: uuid.New(), Name: "Lamp", Price: decimal.NewFromInt(10), Discount: decimal.NewFromInt(10), InStock: 5}
	desk := &models.Product{ID: uuid.New(), Name: "Desk", Price: decimal.RequireFromString("99.99"), InStock: 1}
	cart := &models.Cart{ID: uuid.New(), Username: "alice"}
	items := []models.CartItem{
		{ProductID: lamp.ID, Quantity: 2},
		{ProductID: desk.ID, Quantity: 1},
	}

	t.Run("Success - Order Shares Cart ID", func(t *testing.T) {
		f := newOrderFixture()

		f.carts.On("GetLatestCart", ctx, "alice").Return(cart, nil).Once()
		f.carts.On("GetCartItems", ctx, cart.ID).Return(items, nil).Once()
		f.products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		f.products.On("GetProductByID", ctx, desk.ID).Return(desk, nil).Once()
		f.orders.On("ConfirmOrder", ctx, mock.MatchedBy(func(o *models.Order) bool {
			return o.ID == cart.ID && len(o.Items) == 2 && o.PaymentMethod == "card"
		})).Return(nil).Once()

		order, err := f.service.ConfirmOrder(ctx, alice, req)

		require.NoError(t, err)
		assert.Equal(t, cart.ID, order.ID)
		// 2 x 9.00 + 99.99
		assert.True(t, decimal.RequireFromString("117.99").Equal(order.TotalPrice), "got %s", order.TotalPrice)
		assert.ElementsMatch(t, []string{cache.ProductKey(lamp.ID.String()), cache.ProductKey(desk.ID.String())}, f.cache.deletedKeys())
		// entries are dropped again once concurrent reads have settled
		assert.Eventually(t, func() bool { return len(f.cache.deletedKeys()) == 4 }, 2*time.Second, 20*time.Millisecond)
		require.Len(t, f.email.sent, 1)
		assert.Equal(t, "alice@example.com", f.email.sent[0].To)
		assert.Contains(t, f.email.sent[0].Content, "117.99")
		f.orders.AssertExpectations(t)
	})

	t.Run("Shortage Aborts Before Any Write", func(t *testing.T) {
		f := newOrderFixture()
		scarce := *desk
		scarce.InStock = 0

		f.carts.On("GetLatestCart", ctx, "alice").Return(cart, nil).Once()
		f.carts.On("GetCartItems", ctx, cart.ID).Return(items, nil).Once()
		f.products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		f.products.On("GetProductByID", ctx, desk.ID).Return(&scarce, nil).Once()

		order, err := f.service.ConfirmOrder(ctx, alice, req)

		assert.Nil(t, order)
		assertAppCode(t, err, appErrors.ErrCodeInsufficientStock)
		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.StockShortage{ProductID: desk.ID.String(), Available: 0, Requested: 1}, appErr.Payload)
		f.orders.AssertNotCalled(t, "ConfirmOrder", mock.Anything, mock.Anything)
		assert.Empty(t, f.email.sent)
	})

	t.Run("Lost Race Reported As Shortage", func(t *testing.T) {
		f := newOrderFixture()

		f.carts.On("GetLatestCart", ctx, "alice").Return(cart, nil).Once()
		f.carts.On("GetCartItems", ctx, cart.ID).Return(items, nil).Once()
		f.products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		f.products.On("GetProductByID", ctx, desk.ID).Return(desk, nil).Once()
		f.orders.On("ConfirmOrder", ctx, mock.AnythingOfType("*models.Order")).
			Return(&repository.StockError{ProductID: desk.ID, Available: 0, Requested: 1}).Once()

		_, err := f.service.ConfirmOrder(ctx, alice, req)

		assertAppCode(t, err, appErrors.ErrCodeInsufficientStock)
		assert.Empty(t, f.cache.deletedKeys())
	})

	t.Run("Already Confirmed", func(t *testing.T) {
		f := newOrderFixture()

		f.carts.On("GetLatestCart", ctx, "alice").Return(cart, nil).Once()
		f.carts.On("GetCartItems", ctx, cart.ID).Return(items[:1], nil).Once()
		f.products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		f.orders.On("ConfirmOrder", ctx, mock.AnythingOfType("*models.Order")).Return(repository.ErrAlreadyConfirmed).Once()

		_, err := f.service.ConfirmOrder(ctx, alice, req)

		assertAppCode(t, err, appErrors.ErrCodeAlreadyConfirmed)
	})

	t.Run("Cart Changed During Confirmation", func(t *testing.T) {
		f := newOrderFixture()

		f.carts.On("GetLatestCart", ctx, "alice").Return(cart, nil).Once()
		f.carts.On("GetCartItems", ctx, cart.ID).Return(items[:1], nil).Once()
		f.products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		f.orders.On("ConfirmOrder", ctx, mock.AnythingOfType("*models.Order")).Return(repository.ErrCartChanged).Once()

		order, err := f.service.ConfirmOrder(ctx, alice, req)

		assert.Nil(t, order)
		assertAppCode(t, err, appErrors.ErrCodeCartChanged)
		assert.Empty(t, f.cache.deletedKeys())
		assert.Empty(t, f.email.sent)
	})

	t.Run("No Open Cart", func(t *testing.T) {
		f := newOrderFixture()

		f.carts.On("GetLatestCart", ctx, "alice").Return(&models.Cart{ID: cart.ID, Confirmed: true}, nil).Once()

		_, err := f.service.ConfirmOrder(ctx, alice, req)

		assertAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Empty Cart", func(t *testing.T) {
		f := newOrderFixture()

		f.carts.On("GetLatestCart", ctx, "alice").Return(cart, nil).Once()
		f.carts.On("GetCartItems", ctx, cart.ID).Return([]models.CartItem{}, nil).Once()

		_, err := f.service.ConfirmOrder(ctx, alice, req)

		assertAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Email Failure Does Not Fail Order", func(t *testing.T) {
		f := newOrderFixture()
		f.email.err = errors.New("sendgrid down")

		f.carts.On("GetLatestCart", ctx, "alice").Return(cart, nil).Once()
		f.carts.On("GetCartItems", ctx, cart.ID).Return(items[:1], nil).Once()
		f.products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		f.orders.On("ConfirmOrder", ctx, mock.AnythingOfType("*models.Order")).Return(nil).Once()

		order, err := f.service.ConfirmOrder(ctx, alice, req)

		require.NoError(t, err)
		assert.NotNil(t, order)
	})
}

func TestOrderService_GetOrder(t *testing.T) {
	ctx := context.Background()
	orderID := uuid.New()
	stored := &models.Order{ID: orderID, Username: "alice"}

	tests := []struct {
		name    string
		viewer  *models.User
		wantErr bool
	}{
		{"Owner", &models.User{Username: "alice", Role: models.RoleCustomer}, false},
		{"Admin", &models.User{Username: "root", Role: models.RoleAdmin}, false},
		{"Stranger", &models.User{Username: "bob", Role: models.RoleCustomer}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newOrderFixture()
			f.orders.On("GetOrderByID", ctx, orderID).Return(stored, nil).Once()

			order, err := f.service.GetOrder(ctx, tc.viewer, orderID)

			if tc.wantErr {
				assertAppCode(t, err, appErrors.ErrCodeNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, orderID, order.ID)
		})
	}
}

func TestOrderService_CreatePaymentIntent(t *testing.T) {
	ctx := context.Background()
	alice := &models.User{Username: "alice"}
	orderID := uuid.New()
	stored := &models.Order{ID: orderID, Username: "alice", TotalPrice: decimal.RequireFromString("117.99")}

	t.Run("Success - Amount In Cents", func(t *testing.T) {
		f := newOrderFixture()

		f.orders.On("GetOrderByID", ctx, orderID).Return(stored, nil).Once()
		f.orders.On("SetPaymentIntent", ctx, orderID, "pi_123").Return(nil).Once()

		resp, err := f.service.CreatePaymentIntent(ctx, alice, orderID)

		require.NoError(t, err)
		assert.Equal(t, int64(11799), resp.Amount)
		assert.Equal(t, int64(11799), f.payments.amount)
		assert.Equal(t, "usd", f.payments.currency)
		assert.Equal(t, orderID.String(), f.payments.metadata["order_id"])
		assert.Equal(t, "pi_123_secret", resp.ClientSecret)
		f.orders.AssertExpectations(t)
	})

	t.Run("Stripe Failure", func(t *testing.T) {
		f := newOrderFixture()
		f.payments.err = errors.New("card network down")

		f.orders.On("GetOrderByID", ctx, orderID).Return(stored, nil).Once()

		_, err := f.service.CreatePaymentIntent(ctx, alice, orderID)

		assertAppCode(t, err, appErrors.ErrCodeThirdPartyError)
		f.orders.AssertNotCalled(t, "SetPaymentIntent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Foreign Order", func(t *testing.T) {
		f := newOrderFixture()

		f.orders.On("GetOrderByID", ctx, orderID).Return(stored, nil).Once()

		_, err := f.service.CreatePaymentIntent(ctx, &models.User{Username: "bob"}, orderID)

		assertAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Payments Not Configured", func(t *testing.T) {
		orders := new(mocks.OrderRepository)
		orderService := service.NewOrderService(orders, new(mocks.CartRepository), new(mocks.ProductRepository), nil, nil, nil, "usd")

		_, err := orderService.CreatePaymentIntent(ctx, alice, orderID)

		assertAppCode(t, err, appErrors.ErrCodeThirdPartyError)
	})
}
