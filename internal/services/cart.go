package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/metrics"
	"github.com/zishraq/ecommerce-backend/internal/models"
	repository "github.com/zishraq/ecommerce-backend/internal/repositories"
)

type CartService interface {
	AddItems(ctx context.Context, username string, req *models.AddToCartRequest) (*models.AddToCartResponse, error)
	ListCarts(ctx context.Context, username string) ([]*models.Cart, error)
	GetCart(ctx context.Context, username string, cartID uuid.UUID) (*models.Cart, error)
	DeleteItem(ctx context.Context, username string, cartID, productID uuid.UUID) error
	DeleteCart(ctx context.Context, username string, cartID uuid.UUID) error
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	now      func() time.Time
}

func NewCartService(carts repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{
		carts:    carts,
		products: products,
		now:      time.Now,
	}
}

/*
AddItems puts the requested products into the user's open cart, creating one
when the user has none or the latest is confirmed. Quantities add to what the
line already holds, and the sum may not exceed stock.

Items are applied in order. A failing item stops the call but earlier items
stay in the cart.
*/
func (s *cartService) AddItems(ctx context.Context, username string, req *models.AddToCartRequest) (*models.AddToCartResponse, error) {

	logger := middleware.LoggerFromContext(ctx)

	cart, err := s.openCart(ctx, username)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	added := make([]models.CartItem, 0, len(req.Products))

	for _, item := range req.Products {

		product, err := s.products.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if stdErrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NotFoundError("Product not found").WithDetail(item.ProductID.String()).WithError(err)
			}
			return nil, errors.DatabaseError("Failed to get product").WithError(err)
		}

		existing, err := s.carts.GetItemQuantity(ctx, cart.ID, item.ProductID)
		if err != nil {
			return nil, errors.DatabaseError("Failed to read cart item").WithError(err)
		}

		quantity := existing + item.Quantity
		if quantity > product.InStock {
			metrics.StockRejected(metrics.StageCart)
			logger.Info("Cart item exceeds stock",
				slog.String("product_id", product.ID.String()),
				slog.Int("available", product.InStock),
				slog.Int("requested", quantity))
			return nil, errors.InsufficientStockError(errors.StockShortage{
				ProductID: product.ID.String(),
				Available: product.InStock,
				Requested: quantity,
			})
		}

		if err := s.carts.UpsertItem(ctx, cart.ID, item.ProductID, quantity, now); err != nil {
			switch {
			case stdErrors.Is(err, repository.ErrAlreadyConfirmed):
				return nil, errors.AlreadyConfirmedError("Cart was confirmed while items were being added").WithError(err)
			case stdErrors.Is(err, repository.ErrNotFound):
				return nil, errors.NotFoundError("Cart not found").WithError(err)
			}
			return nil, errors.DatabaseError("Failed to add item to cart").WithError(err)
		}

		metrics.CartItemAdded()

		added = append(added, models.CartItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitPrice:   product.UnitPrice(),
			AddedAt:     now,
		})
	}

	if err := s.carts.TouchCart(ctx, cart.ID, now); err != nil {
		logger.Warn("Failed to update cart timestamp", slog.String("cart_id", cart.ID.String()), slog.Any("error", err))
	}

	return &models.AddToCartResponse{CartID: cart.ID, Items: added}, nil
}

// openCart returns the user's unconfirmed cart, creating it when needed.
func (s *cartService) openCart(ctx context.Context, username string) (*models.Cart, error) {

	cart, err := s.carts.GetLatestCart(ctx, username)
	if err != nil && !stdErrors.Is(err, repository.ErrNotFound) {
		return nil, errors.DatabaseError("Failed to get cart").WithError(err)
	}

	if cart != nil && !cart.Confirmed {
		return cart, nil
	}

	cart = &models.Cart{ID: uuid.New(), Username: username}

	err = s.carts.CreateCart(ctx, cart)
	if err == nil {
		middleware.LoggerFromContext(ctx).Info("Cart created", slog.String("cart_id", cart.ID.String()))
		return cart, nil
	}

	if !stdErrors.Is(err, repository.ErrDuplicate) {
		return nil, errors.DatabaseError("Failed to create cart").WithError(err)
	}

	// a concurrent request opened the cart first
	cart, err = s.carts.GetLatestCart(ctx, username)
	if err != nil {
		return nil, errors.DatabaseError("Failed to get cart").WithError(err)
	}

	return cart, nil
}

func (s *cartService) ListCarts(ctx context.Context, username string) ([]*models.Cart, error) {

	carts, err := s.carts.ListCartsByUsername(ctx, username)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list carts").WithError(err)
	}

	return carts, nil
}

func (s *cartService) GetCart(ctx context.Context, username string, cartID uuid.UUID) (*models.Cart, error) {

	cart, err := s.ownedCart(ctx, username, cartID)
	if err != nil {
		return nil, err
	}

	items, err := s.carts.GetCartItems(ctx, cartID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to get cart items").WithError(err)
	}

	cart.Items = items
	cart.CalculateTotals()

	return cart, nil
}

func (s *cartService) DeleteItem(ctx context.Context, username string, cartID, productID uuid.UUID) error {

	cart, err := s.ownedCart(ctx, username, cartID)
	if err != nil {
		return err
	}

	if cart.Confirmed {
		return errors.AlreadyConfirmedError("Cart is already confirmed")
	}

	if err := s.carts.DeleteItem(ctx, cartID, productID); err != nil {
		switch {
		case stdErrors.Is(err, repository.ErrAlreadyConfirmed):
			return errors.AlreadyConfirmedError("Cart is already confirmed").WithError(err)
		case stdErrors.Is(err, repository.ErrNotFound):
			return errors.NotFoundError("Product is not in the cart").WithError(err)
		}
		return errors.DatabaseError("Failed to remove cart item").WithError(err)
	}

	return nil
}

func (s *cartService) DeleteCart(ctx context.Context, username string, cartID uuid.UUID) error {

	cart, err := s.ownedCart(ctx, username, cartID)
	if err != nil {
		return err
	}

	if cart.Confirmed {
		return errors.AlreadyConfirmedError("Cart is already confirmed")
	}

	if err := s.carts.DeleteCart(ctx, cartID); err != nil {
		// confirmed between the read and the delete
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.AlreadyConfirmedError("Cart is already confirmed").WithError(err)
		}
		return errors.DatabaseError("Failed to delete cart").WithError(err)
	}

	return nil
}

// ownedCart hides carts of other users behind NotFound.
func (s *cartService) ownedCart(ctx context.Context, username string, cartID uuid.UUID) (*models.Cart, error) {

	cart, err := s.carts.GetCartByID(ctx, cartID)
	if err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundError("Cart not found").WithError(err)
		}
		return nil, errors.DatabaseError("Failed to get cart").WithError(err)
	}

	if cart.Username != username {
		return nil, errors.NotFoundError("Cart not found")
	}

	return cart, nil
}
