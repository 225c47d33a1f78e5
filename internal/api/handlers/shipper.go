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

type ShipperHandler struct {
	shipperService service.ShipperService
	validator      *validator.Validate
}

func NewShipperHandler(shipperService service.ShipperService) *ShipperHandler {
	return &ShipperHandler{shipperService: shipperService, validator: utils.NewValidator()}
}

// CreateShippers godoc
//
//	@Summary		Add shippers
//	@Description	Names already taken are skipped and listed in the response.
//	@Tags			Shipping
//	@Accept			json
//	@Produce		json
//	@Param			shippers	body		models.CreateShippersRequest	true	"Shippers"
//	@Success		201			{object}	response.APIResponse{data=models.CreateShippersResponse}
//	@Failure		400			{object}	response.APIResponse
//	@Failure		401			{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/shippers [post]
func (h *ShipperHandler) CreateShippers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.CreateShippersRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create shippers input")
			return
		}

		resp, err := h.shipperService.CreateShippers(r.Context(), user.Username, &req)
		if err != nil {
			logger.Error("Failed to create shippers", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Shippers created", slog.Int("inserted", resp.TotalInserted), slog.Int("skipped", len(resp.Skipped)))
		response.Success(w, http.StatusCreated, "Shippers created", resp)
	}
}

// ListShippers godoc
//
//	@Summary		List shippers
//	@Tags			Shipping
//	@Produce		json
//	@Success		200	{object}	response.APIResponse{data=[]models.Shipper}
//	@Failure		401	{object}	response.APIResponse
//	@Security		BearerAuth
//	@Router			/shippers [get]
func (h *ShipperHandler) ListShippers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		_, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		shippers, err := h.shipperService.ListShippers(r.Context())
		if err != nil {
			logger.Error("Failed to list shippers", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, "", shippers)
	}
}

// CreateShipment godoc
//
//	@Summary		Ship orders
//	@Description	Assigns one shipper to every listed order. All orders are checked before any is updated.
//	@Tags			Shipping
//	@Accept			json
//	@Produce		json
//	@Param			shipment	body		models.CreateShipmentRequest	true	"Shipper and orders"
//	@Success		201			{object}	response.APIResponse{data=models.ShipmentResponse}
//	@Failure		400			{object}	response.APIResponse
//	@Failure		401			{object}	response.APIResponse
//	@Failure		404			{object}	response.APIResponse	"Unknown shipper or order"
//	@Failure		409			{object}	response.APIResponse	"Order already shipped"
//	@Security		BearerAuth
//	@Router			/shipments [post]
func (h *ShipperHandler) CreateShipment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		user, logger, ok := requireUser(w, r)
		if !ok {
			return
		}

		var req models.CreateShipmentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create shipment input")
			return
		}

		resp, err := h.shipperService.CreateShipment(r.Context(), user.Username, &req)
		if err != nil {
			logger.Warn("Failed to create shipment", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, "Shipment created", resp)
	}
}
