package handlers

import (
	"log/slog"
	"net/http"

	service "github.com/zishraq/ecommerce-backend/internal/services"
	"github.com/zishraq/ecommerce-backend/internal/utils"
	"github.com/zishraq/ecommerce-backend/internal/utils/response"
)

type WishlistHandler struct {
	wishlistService service.WishlistService
}

func NewWishlistHandler(wishlistService service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// AddItem godoc
//
//	@Summary		Wishlist a product
//	@Tags			Wishlist
//	@Produce		json
//	@Param			productId	path		string	true	"Product ID"	Format(uuid)
//	@Success		201			{object}	response.APIResponse
//	@Failure		404			{object}	response.APIResponse
//	@Failure		409			{object}	response.APIResponse	"Already wishlisted"
//	@Security		BearerAuth
//	@Router			/wishlist/{productId} [post]
func (h *WishlistHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.wishlistService.AddItem(r.Context(), user.Username, productID); err != nil {
			logger.Warn("Failed to add wishlist item", slog.String("product_id", productID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, "Product added to wishlist", nil)
	}
}

// RemoveItem godoc
//
//	@Summary		Remove a product from the wishlist
//	@Tags			Wishlist
//	@Produce		json
//	@Param			productId	path		string	true	"Product ID"	Format(uuid)
//	@Success		200			{object}	response.APIResponse
//	@Failure		404			{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/wishlist/{productId} [delete]
func (h *WishlistHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.wishlistService.RemoveItem(r.Context(), user.Username, productID); err != nil {
			logger.Warn("Failed to remove wishlist item", slog.String("product_id", productID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "Product removed from wishlist", nil)
	}
}

// ListItems godoc
//
//	@Summary		List wishlist
//	@Tags			Wishlist
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=[]models.WishlistItem}
//	@Failure		401	{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/wishlist [get]
func (h *WishlistHandler) ListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		items, err := h.wishlistService.ListItems(r.Context(), user.Username)
		if err != nil {
			logger.Error("Failed to list wishlist", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", items)
	}
}
