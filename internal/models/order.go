package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the confirmed form of a cart and shares its id.
type Order struct {
	ID                uuid.UUID       `json:"order_id"`
	Username          string          `json:"username"`
	PaymentMethod     string          `json:"payment_method"`
	Address           string          `json:"address"`
	Confirmed         bool            `json:"order_confirm"`
	TotalPrice        decimal.Decimal `json:"total_price"`
	Items             []OrderItem     `json:"products,omitempty"`
	ShipperID         *uuid.UUID      `json:"shipper_id,omitempty"`
	DateShipped       *time.Time      `json:"date_shipped,omitempty"`
	ShipmentCreatedBy *string         `json:"shipment_created_by,omitempty"`
	PaymentIntentID   *string         `json:"payment_intent_id,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

type OrderItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"product_total_price"`
}

func (o *Order) IsShipped() bool {
	return o.ShipperID != nil
}

type ConfirmOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash_on_delivery card bank_transfer"`
	Address       string `json:"address" validate:"required,max=500"`
}

type PaymentIntentResponse struct {
	OrderID         uuid.UUID `json:"order_id"`
	PaymentIntentID string    `json:"payment_intent_id"`
	ClientSecret    string    `json:"client_secret"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
}
