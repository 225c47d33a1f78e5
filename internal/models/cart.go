package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart holds line items until it is confirmed into an order; a user has at
// most one unconfirmed cart.
type Cart struct {
	ID         uuid.UUID       `json:"cart_id"`
	Username   string          `json:"username"`
	Confirmed  bool            `json:"confirmed"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
	Items      []CartItem      `json:"products,omitempty"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"product_total_price"`
	AddedAt     time.Time       `json:"added_at"`
	UpdatedAt   *time.Time      `json:"updated_at,omitempty"`
}

// CalculateTotals fills per-line totals and the cart total.
func (c *Cart) CalculateTotals() {
	total := decimal.Zero

	for i := range c.Items {
		c.Items[i].TotalPrice = c.Items[i].UnitPrice.Mul(decimal.NewFromInt(int64(c.Items[i].Quantity))).Round(2)
		total = total.Add(c.Items[i].TotalPrice)
	}

	c.TotalPrice = total.Round(2)
}

type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

type AddToCartRequest struct {
	Products []CartItemRequest `json:"products" validate:"required,min=1,dive"`
}

type AddToCartResponse struct {
	CartID uuid.UUID  `json:"cart_id"`
	Items  []CartItem `json:"products"`
}
