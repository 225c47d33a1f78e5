// Package mocks holds testify mocks of the service interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/zishraq/ecommerce-backend/internal/models"
)

type UserService struct {
	mock.Mock
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.LoginResponse)

	return resp, args.Error(1)
}

func (m *UserService) GetUser(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	return m.Called(ctx, username, password).Error(0)
}

type ProductService struct {
	mock.Mock
}

func (m *ProductService) CreateProduct(ctx context.Context, createdBy string, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, createdBy, req)
	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)
	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)

	return product, args.Error(1)
}

func (m *ProductService) ListProducts(ctx context.Context, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, page, pageSize)
	products, _ := args.Get(0).([]*models.Product)

	return products, args.Int(1), args.Error(2)
}

func (m *ProductService) SearchProducts(ctx context.Context, query string, page, pageSize int) ([]*models.Product, int, error) {
	args := m.Called(ctx, query, page, pageSize)
	products, _ := args.Get(0).([]*models.Product)

	return products, args.Int(1), args.Error(2)
}

type CartService struct {
	mock.Mock
}

func (m *CartService) AddItems(ctx context.Context, username string, req *models.AddToCartRequest) (*models.AddToCartResponse, error) {
	args := m.Called(ctx, username, req)
	resp, _ := args.Get(0).(*models.AddToCartResponse)

	return resp, args.Error(1)
}

func (m *CartService) ListCarts(ctx context.Context, username string) ([]*models.Cart, error) {
	args := m.Called(ctx, username)
	carts, _ := args.Get(0).([]*models.Cart)

	return carts, args.Error(1)
}

func (m *CartService) GetCart(ctx context.Context, username string, cartID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, username, cartID)
	cart, _ := args.Get(0).(*models.Cart)

	return cart, args.Error(1)
}

func (m *CartService) DeleteItem(ctx context.Context, username string, cartID, productID uuid.UUID) error {
	return m.Called(ctx, username, cartID, productID).Error(0)
}

func (m *CartService) DeleteCart(ctx context.Context, username string, cartID uuid.UUID) error {
	return m.Called(ctx, username, cartID).Error(0)
}

type OrderService struct {
	mock.Mock
}

func (m *OrderService) ConfirmOrder(ctx context.Context, user *models.User, req *models.ConfirmOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, user, req)
	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, user *models.User, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, user, orderID)
	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, username string, page, pageSize int) ([]*models.Order, int, error) {
	args := m.Called(ctx, username, page, pageSize)
	orders, _ := args.Get(0).([]*models.Order)

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderService) CreatePaymentIntent(ctx context.Context, user *models.User, orderID uuid.UUID) (*models.PaymentIntentResponse, error) {
	args := m.Called(ctx, user, orderID)
	resp, _ := args.Get(0).(*models.PaymentIntentResponse)

	return resp, args.Error(1)
}

type ShipperService struct {
	mock.Mock
}

func (m *ShipperService) CreateShippers(ctx context.Context, createdBy string, req *models.CreateShippersRequest) (*models.CreateShippersResponse, error) {
	args := m.Called(ctx, createdBy, req)
	resp, _ := args.Get(0).(*models.CreateShippersResponse)

	return resp, args.Error(1)
}

func (m *ShipperService) ListShippers(ctx context.Context) ([]*models.Shipper, error) {
	args := m.Called(ctx)
	shippers, _ := args.Get(0).([]*models.Shipper)

	return shippers, args.Error(1)
}

func (m *ShipperService) CreateShipment(ctx context.Context, createdBy string, req *models.CreateShipmentRequest) (*models.ShipmentResponse, error) {
	args := m.Called(ctx, createdBy, req)
	resp, _ := args.Get(0).(*models.ShipmentResponse)

	return resp, args.Error(1)
}

type WishlistService struct {
	mock.Mock
}

func (m *WishlistService) AddItem(ctx context.Context, username string, productID uuid.UUID) error {
	return m.Called(ctx, username, productID).Error(0)
}

func (m *WishlistService) RemoveItem(ctx context.Context, username string, productID uuid.UUID) error {
	return m.Called(ctx, username, productID).Error(0)
}

func (m *WishlistService) ListItems(ctx context.Context, username string) ([]*models.WishlistItem, error) {
	args := m.Called(ctx, username)
	items, _ := args.Get(0).([]*models.WishlistItem)

	return items, args.Error(1)
}
