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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: utils.NewValidator()}
}

// AddItems godoc
//
//	@Summary		Add products to the open cart
//	@Description	Quantities add to what the cart already holds. A new cart is opened when the last one was confirmed.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Param			items	body		models.AddToCartRequest	true	"Products and quantities"
//	@Success		200		{object}	response.APIResponse{data=models.AddToCartResponse}
//	@Failure		400		{object}	response.APIResponse
//	@Failure		401		{object}	response.APIResponse
//	@Failure		404		{object}	response.APIResponse	"Unknown product"
//	@Failure		409		{object}	response.APIResponse{details=errors.StockShortage}	"Not enough stock"
//	@Security		BearerAuth
//	@Router			/carts/items [post]
func (h *CartHandler) AddItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.AddToCartRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		resp, err := h.cartService.AddItems(r.Context(), user.Username, &req)
		if err != nil {
			logger.Warn("Failed to add items to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Items added to cart", slog.String("cart_id", resp.CartID.String()), slog.Int("items", len(resp.Items)))
		response.Success(w, http.StatusOK, "Products added to cart", resp)
	}
}

// ListCarts godoc
//
//	@Summary		List own carts
//	@Tags			Carts
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=[]models.Cart}
//	@Failure		401	{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/carts [get]
func (h *CartHandler) ListCarts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		carts, err := h.cartService.ListCarts(r.Context(), user.Username)
		if err != nil {
			logger.Error("Failed to list carts", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", carts)
	}
}

// GetCart godoc
//
//	@Summary		Cart detail
//	@Description	Lines with their totals and the cart total.
//	@Tags			Carts
//	@Produce		json
//	@Param			id	path		string	true	"Cart ID"	Format(uuid)
//	@Success		200	{object}	response.APIResponse{data=models.Cart}
//	@Failure		401	{object}	response.APIResponse
//	@Failure		404	{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/carts/{id} [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		cartID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), user.Username, cartID)
		if err != nil {
			logger.Warn("Failed to get cart", slog.String("cart_id", cartID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", cart)
	}
}

// DeleteItem godoc
//
//	@Summary		Remove a product from an open cart
//	@Tags			Carts
//	@Produce		json
//	@Param			id			path		string	true	"Cart ID"		Format(uuid)
//	@Param			productId	path		string	true	"Product ID"	Format(uuid)
//	@Success		200			{object}	response.APIResponse
//	@Failure		404			{object}	response.APIResponse
//	@Failure		409			{object}	response.APIResponse	"Cart already confirmed"
//	@Security		BearerAuth
//	@Router			/carts/{id}/items/{productId} [delete]
func (h *CartHandler) DeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		cartID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.DeleteItem(r.Context(), user.Username, cartID, productID); err != nil {
			logger.Warn("Failed to remove cart item", slog.String("cart_id", cartID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Product removed from cart", nil)
	}
}

// DeleteCart godoc
//
//	@Summary		Delete an open cart
//	@Tags			Carts
//	@Produce		json
//	@Param			id	path		string	true	"Cart ID"	Format(uuid)
//	@Success		200	{object}	response.APIResponse
//	@Failure		404	{object}	response.APIResponse
//	@Failure		409	{object}	response.APIResponse	"Cart already confirmed"
//	@Security		BearerAuth
//	@Router			/carts/{id} [delete]
func (h *CartHandler) DeleteCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		cartID, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.cartService.DeleteCart(r.Context(), user.Username, cartID); err != nil {
			logger.Warn("Failed to delete cart", slog.String("cart_id", cartID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart deleted", slog.String("cart_id", cartID.String()))
		response.Success(w, http.StatusOK, "Cart deleted", nil)
	}
}
