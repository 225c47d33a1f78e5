package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID          uuid.UUID       `json:"product_id"`
	Name        string          `json:"product_name"`
	Description string          `json:"description"`
	Category    string          `json:"product_category"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	InStock     int             `json:"in_stock"`
	TotalSold   int             `json:"total_sold"`
	Tags        []string        `json:"tags"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UnitPrice is the price after the percentage discount, rounded to cents.
func (p *Product) UnitPrice() decimal.Decimal {
	return p.Price.Mul(hundred.Sub(p.Discount)).Div(hundred).Round(2)
}

// PublicProduct is what non-admin callers see: no stock or audit fields.
type PublicProduct struct {
	ID          uuid.UUID       `json:"product_id"`
	Name        string          `json:"product_name"`
	Description string          `json:"description"`
	Category    string          `json:"product_category"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Tags        []string        `json:"tags"`
}

func (p *Product) Public() *PublicProduct {
	return &PublicProduct{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Discount:    p.Discount,
		UnitPrice:   p.UnitPrice(),
		Tags:        p.Tags,
	}
}

// ViewFor returns the full product for admins and the public view otherwise.
func (p *Product) ViewFor(viewer *User) any {
	if viewer.IsAdmin() {
		return p
	}

	return p.Public()
}

type CreateProductRequest struct {
	Name        string   `json:"product_name" validate:"required,min=2,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Category    string   `json:"product_category" validate:"required,max=100"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Discount    float64  `json:"discount" validate:"gte=0,lte=100"`
	InStock     *int     `json:"in_stock" validate:"required,gte=0"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required,max=50"`
}

type UpdateProductRequest struct {
	Name        *string   `json:"product_name,omitempty" validate:"omitempty,min=2,max=200"`
	Description *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Category    *string   `json:"product_category,omitempty" validate:"omitempty,max=100"`
	Price       *float64  `json:"price,omitempty" validate:"omitempty,gt=0"`
	Discount    *float64  `json:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	InStock     *int      `json:"in_stock,omitempty" validate:"omitempty,gte=0"`
	Tags        *[]string `json:"tags,omitempty" validate:"omitempty,dive,required,max=50"`
}
