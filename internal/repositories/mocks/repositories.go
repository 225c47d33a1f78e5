// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/zishraq/ecommerce-backend/internal/models"
)

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, size)
	products, _ := args.Get(0).([]*models.Product)

	return products, args.Int(1), args.Error(2)
}

func (m *ProductRepository) SearchProducts(ctx context.Context, pattern string, page, size int) ([]*models.Product, int, error) {
	args := m.Called(ctx, pattern, page, size)
	products, _ := args.Get(0).([]*models.Product)

	return products, args.Int(1), args.Error(2)
}

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	return m.Called(ctx, cart).Error(0)
}

func (m *CartRepository) GetCartByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, cartID)
	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartRepository) GetLatestCart(ctx context.Context, username string) (*models.Cart, error) {
	args := m.Called(ctx, username)
	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartRepository) ListCartsByUsername(ctx context.Context, username string) ([]*models.Cart, error) {
	args := m.Called(ctx, username)
	carts, _ := args.Get(0).([]*models.Cart)

	return carts, args.Error(1)
}

func (m *CartRepository) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]models.CartItem)

	return items, args.Error(1)
}

func (m *CartRepository) GetItemQuantity(ctx context.Context, cartID, productID uuid.UUID) (int, error) {
	args := m.Called(ctx, cartID, productID)

	return args.Int(0), args.Error(1)
}

func (m *CartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, at time.Time) error {
	return m.Called(ctx, cartID, productID, quantity, at).Error(0)
}

func (m *CartRepository) TouchCart(ctx context.Context, cartID uuid.UUID, at time.Time) error {
	return m.Called(ctx, cartID, at).Error(0)
}

func (m *CartRepository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	return m.Called(ctx, cartID, productID).Error(0)
}

func (m *CartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	return m.Called(ctx, cartID).Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) ConfirmOrder(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderRepository) ListOrdersByUsername(ctx context.Context, username string, page, size int) ([]*models.Order, int, error) {
	args := m.Called(ctx, username, page, size)
	orders, _ := args.Get(0).([]*models.Order)

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepository) MarkShipped(ctx context.Context, orderID, shipperID uuid.UUID, shippedAt time.Time, createdBy string) error {
	return m.Called(ctx, orderID, shipperID, shippedAt, createdBy).Error(0)
}

func (m *OrderRepository) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, paymentIntentID string) error {
	return m.Called(ctx, orderID, paymentIntentID).Error(0)
}

type ShipperRepository struct {
	mock.Mock
}

func (m *ShipperRepository) CreateShipper(ctx context.Context, shipper *models.Shipper) error {
	return m.Called(ctx, shipper).Error(0)
}

func (m *ShipperRepository) ListShippers(ctx context.Context) ([]*models.Shipper, error) {
	args := m.Called(ctx)
	shippers, _ := args.Get(0).([]*models.Shipper)

	return shippers, args.Error(1)
}

func (m *ShipperRepository) ShipperExists(ctx context.Context, shipperID uuid.UUID) (bool, error) {
	args := m.Called(ctx, shipperID)

	return args.Bool(0), args.Error(1)
}

type WishlistRepository struct {
	mock.Mock
}

func (m *WishlistRepository) AddItem(ctx context.Context, username string, productID uuid.UUID) error {
	return m.Called(ctx, username, productID).Error(0)
}

func (m *WishlistRepository) RemoveItem(ctx context.Context, username string, productID uuid.UUID) error {
	return m.Called(ctx, username, productID).Error(0)
}

func (m *WishlistRepository) ListItems(ctx context.Context, username string) ([]*models.WishlistItem, error) {
	args := m.Called(ctx, username)
	items, _ := args.Get(0).([]*models.WishlistItem)

	return items, args.Error(1)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {
	args := m.Called(ctx, username)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
