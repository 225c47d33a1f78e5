package service

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zishraq/ecommerce-backend/internal/api/middleware"
	"github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	repository "github.com/zishraq/ecommerce-backend/internal/repositories"
	"github.com/zishraq/ecommerce-backend/internal/utils"
)

type ShipperService interface {
	CreateShippers(ctx context.Context, createdBy string, req *models.CreateShippersRequest) (*models.CreateShippersResponse, error)
	ListShippers(ctx context.Context) ([]*models.Shipper, error)
	CreateShipment(ctx context.Context, createdBy string, req *models.CreateShipmentRequest) (*models.ShipmentResponse, error)
}

type shipperService struct {
	shippers repository.ShipperRepository
	orders   repository.OrderRepository
	now      func() time.Time
}

func NewShipperService(shippers repository.ShipperRepository, orders repository.OrderRepository) ShipperService {
	return &shipperService{
		shippers: shippers,
		orders:   orders,
		now:      time.Now,
	}
}

// CreateShippers inserts each shipper, skipping names that are already taken.
func (s *shipperService) CreateShippers(ctx context.Context, createdBy string, req *models.CreateShippersRequest) (*models.CreateShippersResponse, error) {

	resp := &models.CreateShippersResponse{Inserted: []models.Shipper{}}

	for _, input := range req.Shippers {
		shipper := &models.Shipper{
			ID:          uuid.New(),
			Name:        utils.SanitizeText(input.Name),
			PhoneNumber: utils.SanitizeText(input.PhoneNumber),
			CreatedBy:   createdBy,
		}

		if shipper.Name == "" {
			return nil, errors.MissingFieldError("shipper_name")
		}

		if err := s.shippers.CreateShipper(ctx, shipper); err != nil {
			if stdErrors.Is(err, repository.ErrDuplicate) {
				resp.Skipped = append(resp.Skipped, shipper.Name)
				continue
			}
			return nil, errors.DatabaseError("Failed to create shipper").WithError(err)
		}

		resp.Inserted = append(resp.Inserted, *shipper)
	}

	resp.TotalInserted = len(resp.Inserted)

	return resp, nil
}

func (s *shipperService) ListShippers(ctx context.Context) ([]*models.Shipper, error) {

	shippers, err := s.shippers.ListShippers(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list shippers").WithError(err)
	}

	return shippers, nil
}

/*
CreateShipment hands a list of orders to one shipper. Every order is checked
before the first update, so an unknown or already shipped id fails the whole
request. The updates themselves are independent rows.
*/
func (s *shipperService) CreateShipment(ctx context.Context, createdBy string, req *models.CreateShipmentRequest) (*models.ShipmentResponse, error) {

	exists, err := s.shippers.ShipperExists(ctx, req.ShipperID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to check shipper").WithError(err)
	}
	if !exists {
		return nil, errors.NotFoundError("Shipper not found").WithDetail(req.ShipperID.String())
	}

	seen := make(map[uuid.UUID]bool, len(req.OrderIDs))
	orderIDs := make([]uuid.UUID, 0, len(req.OrderIDs))

	for _, id := range req.OrderIDs {
		if seen[id] {
			continue
		}
		seen[id] = true

		order, err := s.orders.GetOrderByID(ctx, id)
		if err != nil {
			if stdErrors.Is(err, repository.ErrNotFound) {
				return nil, errors.NotFoundError("Order not found").WithDetail(id.String()).WithError(err)
			}
			return nil, errors.DatabaseError("Failed to get order").WithError(err)
		}

		if order.IsShipped() {
			return nil, errors.AlreadyExistsError("Order is already shipped").WithDetail(id.String())
		}

		orderIDs = append(orderIDs, id)
	}

	shippedAt := s.now().UTC()

	for _, id := range orderIDs {
		if err := s.orders.MarkShipped(ctx, id, req.ShipperID, shippedAt, createdBy); err != nil {
			switch {
			case stdErrors.Is(err, repository.ErrAlreadyShipped):
				return nil, errors.AlreadyExistsError("Order is already shipped").WithDetail(id.String()).WithError(err)
			case stdErrors.Is(err, repository.ErrNotFound):
				return nil, errors.NotFoundError("Shipper not found").WithDetail(req.ShipperID.String()).WithError(err)
			}
			return nil, errors.DatabaseError("Failed to create shipment").WithError(err)
		}
	}

	middleware.LoggerFromContext(ctx).Info("Shipment created",
		slog.String("shipper_id", req.ShipperID.String()),
		slog.Int("orders", len(orderIDs)))

	return &models.ShipmentResponse{
		ShipperID:   req.ShipperID,
		OrderIDs:    orderIDs,
		DateShipped: shippedAt,
		CreatedBy:   createdBy,
	}, nil
}
