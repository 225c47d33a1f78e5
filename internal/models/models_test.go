package models_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zishraq/ecommerce-backend/internal/models"
)

func TestProductUnitPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount string
		expected string
	}{
		{"No Discount", "19.99", "0", "19.99"},
		{"Ten Percent", "100", "10", "90"},
		{"Rounds To Cents", "9.99", "15", "8.49"},
		{"Full Discount", "42", "100", "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := &models.Product{
				Price:    decimal.RequireFromString(tc.price),
				Discount: decimal.RequireFromString(tc.discount),
			}

			assert.True(t, decimal.RequireFromString(tc.expected).Equal(p.UnitPrice()), "got %s", p.UnitPrice())
		})
	}
}

func TestProductPublicHidesInternalFields(t *testing.T) {
	p := &models.Product{
		ID:        uuid.New(),
		Name:      "Desk Lamp",
		Category:  "lighting",
		Price:     decimal.NewFromInt(20),
		InStock:   7,
		TotalSold: 3,
		CreatedBy: "admin",
		Tags:      []string{"home"},
	}

	data, err := json.Marshal(p.Public())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))

	assert.Equal(t, "Desk Lamp", fields["product_name"])
	assert.NotContains(t, fields, "in_stock")
	assert.NotContains(t, fields, "total_sold")
	assert.NotContains(t, fields, "created_by")
	assert.NotContains(t, fields, "created_at")
}

func TestCartCalculateTotals(t *testing.T) {
	cart := &models.Cart{
		Items: []models.CartItem{
			{ProductID: uuid.New(), Quantity: 3, UnitPrice: decimal.RequireFromString("1.10")},
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.RequireFromString("4.25")},
		},
	}

	cart.CalculateTotals()

	assert.True(t, decimal.RequireFromString("3.30").Equal(cart.Items[0].TotalPrice))
	assert.True(t, decimal.RequireFromString("8.50").Equal(cart.Items[1].TotalPrice))
	assert.True(t, decimal.RequireFromString("11.80").Equal(cart.TotalPrice))
}

func TestUserIsAdmin(t *testing.T) {
	var nilUser *models.User

	assert.False(t, nilUser.IsAdmin())
	assert.False(t, (&models.User{Role: models.RoleCustomer}).IsAdmin())
	assert.True(t, (&models.User{Role: models.RoleAdmin}).IsAdmin())
}

func TestProductViewFor(t *testing.T) {
	product := &models.Product{Name: "Lamp", InStock: 3}

	assert.Same(t, product, product.ViewFor(&models.User{Role: models.RoleAdmin}))
	assert.IsType(t, &models.PublicProduct{}, product.ViewFor(&models.User{Role: models.RoleCustomer}))
	assert.IsType(t, &models.PublicProduct{}, product.ViewFor(nil))
}
