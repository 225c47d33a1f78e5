package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	appErrors "github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	repository "github.com/zishraq/ecommerce-backend/internal/repositories"
	"github.com/zishraq/ecommerce-backend/internal/repositories/mocks"
	service "github.com/zishraq/ecommerce-backend/internal/services"
)

func newCartService() (service.CartService, *mocks.CartRepository, *mocks.ProductRepository) {
	carts := new(mocks.CartRepository)
	products := new(mocks.ProductRepository)

	return service.NewCartService(carts, products), carts, products
}

func addRequest(items ...models.CartItemRequest) *models.AddToCartRequest {
	return &models.AddToCartRequest{Products: items}
}

func TestCartService_AddItems(t *testing.T) {
	ctx := context.Background()
	lamp := &models.Product{ID: uuid.New(), Name: "Lamp", Price: decimal.NewFromInt(10), InStock: 5}
	desk := &models.Product{ID: uuid.New(), Name: "Desk", Price: decimal.NewFromInt(100), InStock: 1}

	t.Run("Creates Cart Lazily", func(t *testing.T) {
		cartService, carts, products := newCartService()

		carts.On("GetLatestCart", ctx, "alice").Return(nil, repository.ErrNotFound).Once()
		carts.On("CreateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return c.Username == "alice" && c.ID != uuid.Nil
		})).Return(nil).Once()
		products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		carts.On("GetItemQuantity", ctx, mock.Anything, lamp.ID).Return(0, nil).Once()
		carts.On("UpsertItem", ctx, mock.Anything, lamp.ID, 2, mock.Anything).Return(nil).Once()
		carts.On("TouchCart", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		resp, err := cartService.AddItems(ctx, "alice", addRequest(models.CartItemRequest{ProductID: lamp.ID, Quantity: 2}))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.CartID)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2, resp.Items[0].Quantity)
		carts.AssertExpectations(t)
		products.AssertExpectations(t)
	})

	t.Run("Repeated Calls Accumulate", func(t *testing.T) {
		cartService, carts, products := newCartService()
		open := &models.Cart{ID: uuid.New(), Username: "alice"}

		carts.On("GetLatestCart", ctx, "alice").Return(open, nil).Once()
		products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		carts.On("GetItemQuantity", ctx, open.ID, lamp.ID).Return(2, nil).Once()
		carts.On("UpsertItem", ctx, open.ID, lamp.ID, 4, mock.Anything).Return(nil).Once()
		carts.On("TouchCart", ctx, open.ID, mock.Anything).Return(nil).Once()

		resp, err := cartService.AddItems(ctx, "alice", addRequest(models.CartItemRequest{ProductID: lamp.ID, Quantity: 2}))

		require.NoError(t, err)
		assert.Equal(t, open.ID, resp.CartID)
		assert.Equal(t, 4, resp.Items[0].Quantity)
		carts.AssertNotCalled(t, "CreateCart", mock.Anything, mock.Anything)
	})

	t.Run("Cart Confirmed Concurrently", func(t *testing.T) {
		cartService, carts, products := newCartService()
		open := &models.Cart{ID: uuid.New(), Username: "alice"}

		carts.On("GetLatestCart", ctx, "alice").Return(open, nil).Once()
		products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		carts.On("GetItemQuantity", ctx, open.ID, lamp.ID).Return(0, nil).Once()
		carts.On("UpsertItem", ctx, open.ID, lamp.ID, 1, mock.Anything).Return(repository.ErrAlreadyConfirmed).Once()

		resp, err := cartService.AddItems(ctx, "alice", addRequest(models.CartItemRequest{ProductID: lamp.ID, Quantity: 1}))

		assert.Nil(t, resp)
		assertAppCode(t, err, appErrors.ErrCodeAlreadyConfirmed)
		carts.AssertNotCalled(t, "TouchCart", mock.Anything, mock.Anything)
	})

	t.Run("Confirmed Cart Gets A Successor", func(t *testing.T) {
		cartService, carts, products := newCartService()
		confirmed := &models.Cart{ID: uuid.New(), Username: "alice", Confirmed: true}

		carts.On("GetLatestCart", ctx, "alice").Return(confirmed, nil).Once()
		carts.On("CreateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool { return c.ID != confirmed.ID })).Return(nil).Once()
		products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		carts.On("GetItemQuantity", ctx, mock.Anything, lamp.ID).Return(0, nil).Once()
		carts.On("UpsertItem", ctx, mock.Anything, lamp.ID, 1, mock.Anything).Return(nil).Once()
		carts.On("TouchCart", ctx, mock.Anything, mock.Anything).Return(nil).Once()

		resp, err := cartService.AddItems(ctx, "alice", addRequest(models.CartItemRequest{ProductID: lamp.ID, Quantity: 1}))

		require.NoError(t, err)
		assert.NotEqual(t, confirmed.ID, resp.CartID)
	})

	t.Run("Concurrent Creation Reuses Winner", func(t *testing.T) {
		cartService, carts, products := newCartService()
		winner := &models.Cart{ID: uuid.New(), Username: "alice"}

		carts.On("GetLatestCart", ctx, "alice").Return(nil, repository.ErrNotFound).Once()
		carts.On("CreateCart", ctx, mock.AnythingOfType("*models.Cart")).Return(repository.ErrDuplicate).Once()
		carts.On("GetLatestCart", ctx, "alice").Return(winner, nil).Once()
		products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		carts.On("GetItemQuantity", ctx, winner.ID, lamp.ID).Return(0, nil).Once()
		carts.On("UpsertItem", ctx, winner.ID, lamp.ID, 1, mock.Anything).Return(nil).Once()
		carts.On("TouchCart", ctx, winner.ID, mock.Anything).Return(nil).Once()

		resp, err := cartService.AddItems(ctx, "alice", addRequest(models.CartItemRequest{ProductID: lamp.ID, Quantity: 1}))

		require.NoError(t, err)
		assert.Equal(t, winner.ID, resp.CartID)
	})

	t.Run("Stock Exceeded Keeps Earlier Items", func(t *testing.T) {
		cartService, carts, products := newCartService()
		open := &models.Cart{ID: uuid.New(), Username: "alice"}

		carts.On("GetLatestCart", ctx, "alice").Return(open, nil).Once()
		products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		carts.On("GetItemQuantity", ctx, open.ID, lamp.ID).Return(0, nil).Once()
		carts.On("UpsertItem", ctx, open.ID, lamp.ID, 1, mock.Anything).Return(nil).Once()
		products.On("GetProductByID", ctx, desk.ID).Return(desk, nil).Once()
		carts.On("GetItemQuantity", ctx, open.ID, desk.ID).Return(0, nil).Once()

		resp, err := cartService.AddItems(ctx, "alice", addRequest(
			models.CartItemRequest{ProductID: lamp.ID, Quantity: 1},
			models.CartItemRequest{ProductID: desk.ID, Quantity: 2},
		))

		assert.Nil(t, resp)
		assertAppCode(t, err, appErrors.ErrCodeInsufficientStock)
		appErr, _ := appErrors.IsAppError(err)
		assert.Equal(t, appErrors.StockShortage{ProductID: desk.ID.String(), Available: 1, Requested: 2}, appErr.Payload)
		carts.AssertNumberOfCalls(t, "UpsertItem", 1)
		carts.AssertNotCalled(t, "DeleteItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Accumulated Quantity Checked Against Stock", func(t *testing.T) {
		cartService, carts, products := newCartService()
		open := &models.Cart{ID: uuid.New(), Username: "alice"}

		carts.On("GetLatestCart", ctx, "alice").Return(open, nil).Once()
		products.On("GetProductByID", ctx, lamp.ID).Return(lamp, nil).Once()
		carts.On("GetItemQuantity", ctx, open.ID, lamp.ID).Return(4, nil).Once()

		_, err := cartService.AddItems(ctx, "alice", addRequest(models.CartItemRequest{ProductID: lamp.ID, Quantity: 2}))

		assertAppCode(t, err, appErrors.ErrCodeInsufficientStock)
		carts.AssertNotCalled(t, "UpsertItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown Product", func(t *testing.T) {
		cartService, carts, products := newCartService()
		open := &models.Cart{ID: uuid.New(), Username: "alice"}
		missing := uuid.New()

		carts.On("GetLatestCart", ctx, "alice").Return(open, nil).Once()
		products.On("GetProductByID", ctx, missing).Return(nil, repository.ErrNotFound).Once()

		_, err := cartService.AddItems(ctx, "alice", addRequest(models.CartItemRequest{ProductID: missing, Quantity: 1}))

		assertAppCode(t, err, appErrors.ErrCodeNotFound)
	})
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("Owner Sees Totals", func(t *testing.T) {
		cartService, carts, _ := newCartService()

		carts.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID, Username: "alice"}, nil).Once()
		carts.On("GetCartItems", ctx, cartID).Return([]models.CartItem{
			{ProductID: uuid.New(), Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")},
		}, nil).Once()

		cart, err := cartService.GetCart(ctx, "alice", cartID)

		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("7.50").Equal(cart.TotalPrice))
	})

	t.Run("Other User Gets Not Found", func(t *testing.T) {
		cartService, carts, _ := newCartService()

		carts.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID, Username: "bob"}, nil).Once()

		_, err := cartService.GetCart(ctx, "alice", cartID)

		assertAppCode(t, err, appErrors.ErrCodeNotFound)
		carts.AssertNotCalled(t, "GetCartItems", mock.Anything, mock.Anything)
	})
}

func TestCartService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()
	productID := uuid.New()

	t.Run("Confirmed Cart Refused", func(t *testing.T) {
		cartService, carts, _ := newCartService()

		carts.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID, Username: "alice", Confirmed: true}, nil).Once()

		err := cartService.DeleteItem(ctx, "alice", cartID, productID)

		assertAppCode(t, err, appErrors.ErrCodeAlreadyConfirmed)
	})

	t.Run("Missing Line", func(t *testing.T) {
		cartService, carts, _ := newCartService()

		carts.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID, Username: "alice"}, nil).Once()
		carts.On("DeleteItem", ctx, cartID, productID).Return(repository.ErrNotFound).Once()

		err := cartService.DeleteItem(ctx, "alice", cartID, productID)

		assertAppCode(t, err, appErrors.ErrCodeNotFound)
	})

	t.Run("Cart Confirmed Concurrently", func(t *testing.T) {
		cartService, carts, _ := newCartService()

		carts.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID, Username: "alice"}, nil).Once()
		carts.On("DeleteItem", ctx, cartID, productID).Return(repository.ErrAlreadyConfirmed).Once()

		err := cartService.DeleteItem(ctx, "alice", cartID, productID)

		assertAppCode(t, err, appErrors.ErrCodeAlreadyConfirmed)
	})
}

func TestCartService_DeleteCart(t *testing.T) {
	ctx := context.Background()
	cartID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		cartService, carts, _ := newCartService()

		carts.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID, Username: "alice"}, nil).Once()
		carts.On("DeleteCart", ctx, cartID).Return(nil).Once()

		require.NoError(t, cartService.DeleteCart(ctx, "alice", cartID))
		carts.AssertExpectations(t)
	})

	t.Run("Confirmed Meanwhile", func(t *testing.T) {
		cartService, carts, _ := newCartService()

		carts.On("GetCartByID", ctx, cartID).Return(&models.Cart{ID: cartID, Username: "alice"}, nil).Once()
		carts.On("DeleteCart", ctx, cartID).Return(repository.ErrNotFound).Once()

		err := cartService.DeleteCart(ctx, "alice", cartID)

		assertAppCode(t, err, appErrors.ErrCodeAlreadyConfirmed)
	})
}
