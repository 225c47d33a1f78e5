package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/models"
	service "github.com/zishraq/ecommerce-backend/internal/services"
	"github.com/zishraq/ecommerce-backend/internal/utils"
	"github.com/zishraq/ecommerce-backend/internal/utils/response"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: utils.NewValidator()}
}

// CreateProduct godoc
//
//	@Summary		Create a product
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product details"
//	@Success		201		{object}	response.APIResponse{data=models.Product}
//	@Failure		400		{object}	response.APIResponse
//	@Failure		401		{object}	response.APIResponse	"Missing session or not an admin"
//	@Failure		409		{object}	response.APIResponse	"Product name already taken"
//	@Security		BearerAuth
//	@Router			/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), user.Username, &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("product_id", product.ID.String()))
		response.Success(w, http.StatusCreated, "Product created successfully", product)
	}
}

// UpdateProduct godoc
//
//	@Summary		Update a product
//	@Description	Only the fields present in the body change.
//	@Tags			Products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product ID"	Format(uuid)
//	@Param			product	body		models.UpdateProductRequest	true	"Fields to change"
//	@Success		200		{object}	response.APIResponse{data=models.Product}
//	@Failure		400		{object}	response.APIResponse
//	@Failure		401		{object}	response.APIResponse
//	@Failure		404		{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/products/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.String("product_id", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.String("product_id", id.String()))
		response.Success(w, http.StatusOK, "Product updated successfully", product)
	}
}

// GetProduct godoc
//
//	@Summary		Get a product
//	@Description	Admins also see stock, sales and audit fields.
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID"	Format(uuid)
//	@Success		200	{object}	response.APIResponse{data=models.PublicProduct}
//	@Failure		400	{object}	response.APIResponse
//	@Failure		404	{object}	response.APIResponse
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		viewer, _ := middleware.UserFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.String("product_id", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", product.ViewFor(viewer))
	}
}

// ListProducts godoc
//
//	@Summary		List products
//	@Description	Newest first.
//	@Tags			Products
//	@Produce		json
//	@Param			page		query		int	false	"Page number"	default(1)
//	@Param			pageSize	query		int	false	"Page size"		default(10)
//	@Success		200			{object}	response.APIResponse{data=models.PaginatedResponse}
//	@Failure		500			{object}	response.APIResponse
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		viewer, _ := middleware.UserFromContext(r.Context())
		page, pageSize := utils.ParsePagination(r)

		products, total, err := h.productService.ListProducts(r.Context(), page, pageSize)
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", models.PaginatedResponse{
			Data:     productViews(products, viewer),
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}

// SearchProducts godoc
//
//	@Summary		Search products
//	@Description	Case-insensitive match on name, description, category and tags. Words must appear in the given order.
//	@Tags			Products
//	@Produce		json
//	@Param			q			query		string	true	"Search words"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			pageSize	query		int		false	"Page size"		default(10)
//	@Success		200			{object}	response.APIResponse{data=models.PaginatedResponse}
//	@Failure		400			{object}	response.APIResponse	"Missing query"
//	@Router			/products/search [get]
func (h *ProductHandler) SearchProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		viewer, _ := middleware.UserFromContext(r.Context())
		page, pageSize := utils.ParsePagination(r)
		query := r.URL.Query().Get("q")

		products, total, err := h.productService.SearchProducts(r.Context(), query, page, pageSize)
		if err != nil {
			logger.Warn("Product search failed", slog.String("query", query), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", models.PaginatedResponse{
			Data:     productViews(products, viewer),
			Total:    total,
			Page:     page,
			PageSize: pageSize,
		})
	}
}
