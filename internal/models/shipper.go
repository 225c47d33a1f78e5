package models

import (
	"time"

	"github.com/google/uuid"
)

type Shipper struct {
	ID          uuid.UUID `json:"shipper_id"`
	Name        string    `json:"shipper_name"`
	PhoneNumber string    `json:"phone_number"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
}

type ShipperInput struct {
	Name        string `json:"shipper_name" validate:"required,max=100"`
	PhoneNumber string `json:"phone_number" validate:"required,max=30"`
}

type CreateShippersRequest struct {
	Shippers []ShipperInput `json:"shippers" validate:"required,min=1,dive"`
}

type CreateShippersResponse struct {
	TotalInserted int       `json:"total_inserted_shippers"`
	Inserted      []Shipper `json:"inserted_shippers"`
	Skipped       []string  `json:"skipped_shippers,omitempty"`
}

type CreateShipmentRequest struct {
	ShipperID uuid.UUID   `json:"shipper_id" validate:"required"`
	OrderIDs  []uuid.UUID `json:"order_ids" validate:"required,min=1,dive,required"`
}

type ShipmentResponse struct {
	ShipperID   uuid.UUID   `json:"shipper_id"`
	OrderIDs    []uuid.UUID `json:"order_ids"`
	DateShipped time.Time   `json:"date_shipped"`
	CreatedBy   string      `json:"shipment_created_by"`
}
