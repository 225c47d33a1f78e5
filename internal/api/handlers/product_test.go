package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/zishraq/ecommerce-backend/internal/api/handlers"
	appErrors "github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	"github.com/zishraq/ecommerce-backend/internal/services/mocks"
	"github.com/zishraq/ecommerce-backend/internal/testutils"
)

func sampleProduct() *models.Product {
	return &models.Product{
		ID:        uuid.New(),
		Name:      "Desk Lamp",
		Category:  "lighting",
		Price:     decimal.NewFromInt(20),
		InStock:   7,
		TotalSold: 3,
		CreatedBy: "root",
		Tags:      []string{"home"},
	}
}

func TestCreateProduct(t *testing.T) {
	stock := 7
	req := models.CreateProductRequest{Name: "Desk Lamp", Category: "lighting", Price: 20, InStock: &stock}

	t.Run("Success", func(t *testing.T) {
		productService := new(mocks.ProductService)
		handler := handlers.NewProductHandler(productService)
		product := sampleProduct()

		productService.On("CreateProduct", mock.Anything, "root", mock.AnythingOfType("*models.CreateProductRequest")).Return(product, nil).Once()

		request := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products", jsonBody(t, req), testutils.Admin("root"), nil)
		recorder := httptest.NewRecorder()

		handler.CreateProduct().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, product.ID.String(), decodeBody(t, recorder)["data"].(map[string]any)["product_id"])
		productService.AssertExpectations(t)
	})

	t.Run("Missing Stock", func(t *testing.T) {
		productService := new(mocks.ProductService)
		handler := handlers.NewProductHandler(productService)
		incomplete := req
		incomplete.InStock = nil

		request := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products", jsonBody(t, incomplete), testutils.Admin("root"), nil)
		recorder := httptest.NewRecorder()

		handler.CreateProduct().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "in_stock is required.", decodeBody(t, recorder)["error"])
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		productService := new(mocks.ProductService)
		handler := handlers.NewProductHandler(productService)

		productService.On("CreateProduct", mock.Anything, "root", mock.Anything).
			Return(nil, appErrors.AlreadyExistsError("Product Desk Lamp already exists.")).Once()

		request := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/products", jsonBody(t, req), testutils.Admin("root"), nil)
		recorder := httptest.NewRecorder()

		handler.CreateProduct().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Equal(t, appErrors.ErrCodeAlreadyExists, decodeBody(t, recorder)["errorCode"])
	})
}

func TestGetProduct_RoleAwareView(t *testing.T) {
	product := sampleProduct()

	tests := []struct {
		name         string
		viewer       *models.User
		seesInternal bool
	}{
		{"Admin", testutils.Admin("root"), true},
		{"Customer", testutils.Customer("alice"), false},
		{"Anonymous", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			productService := new(mocks.ProductService)
			handler := handlers.NewProductHandler(productService)

			productService.On("GetProduct", mock.Anything, product.ID).Return(product, nil).Once()

			request := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/products/"+product.ID.String(), nil, tc.viewer,
				map[string]string{"id": product.ID.String()})
			recorder := httptest.NewRecorder()

			handler.GetProduct().ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusOK, recorder.Code)
			data := decodeBody(t, recorder)["data"].(map[string]any)
			assert.Equal(t, "Desk Lamp", data["product_name"])

			if tc.seesInternal {
				assert.Equal(t, float64(7), data["in_stock"])
				assert.Equal(t, "root", data["created_by"])
			} else {
				assert.NotContains(t, data, "in_stock")
				assert.NotContains(t, data, "total_sold")
				assert.NotContains(t, data, "created_by")
			}
		})
	}
}

func TestGetProduct_InvalidID(t *testing.T) {
	productService := new(mocks.ProductService)
	handler := handlers.NewProductHandler(productService)

	request := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/nope", nil, map[string]string{"id": "nope"})
	recorder := httptest.NewRecorder()

	handler.GetProduct().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	productService.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestSearchProducts(t *testing.T) {

	t.Run("Paginated Public Results", func(t *testing.T) {
		productService := new(mocks.ProductService)
		handler := handlers.NewProductHandler(productService)

		productService.On("SearchProducts", mock.Anything, "desk lamp", 2, 5).Return([]*models.Product{sampleProduct()}, 6, nil).Once()

		request := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/search?q=desk+lamp&page=2&pageSize=5", nil, nil)
		recorder := httptest.NewRecorder()

		handler.SearchProducts().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		data := decodeBody(t, recorder)["data"].(map[string]any)
		assert.Equal(t, float64(6), data["total"])
		assert.Equal(t, float64(2), data["page"])
		items := data["data"].([]any)
		assert.Len(t, items, 1)
		assert.NotContains(t, items[0], "in_stock")
	})

	t.Run("Empty Query", func(t *testing.T) {
		productService := new(mocks.ProductService)
		handler := handlers.NewProductHandler(productService)

		productService.On("SearchProducts", mock.Anything, "", 1, 10).Return(nil, 0, appErrors.MissingFieldError("q")).Once()

		request := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/products/search", nil, nil)
		recorder := httptest.NewRecorder()

		handler.SearchProducts().ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, appErrors.ErrCodeMissingField, decodeBody(t, recorder)["errorCode"])
	})
}

func TestListProducts_AdminSeesStock(t *testing.T) {
	productService := new(mocks.ProductService)
	handler := handlers.NewProductHandler(productService)

	productService.On("ListProducts", mock.Anything, 1, 10).Return([]*models.Product{sampleProduct()}, 1, nil).Once()

	request := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/products", nil, testutils.Admin("root"), nil)
	recorder := httptest.NewRecorder()

	handler.ListProducts().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	items := decodeBody(t, recorder)["data"].(map[string]any)["data"].([]any)
	assert.Equal(t, float64(7), items[0].(map[string]any)["in_stock"])
}
