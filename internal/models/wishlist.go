package models

import (
	"time"

	"github.com/google/uuid"
)

type WishlistItem struct {
	ProductID uuid.UUID      `json:"product_id"`
	AddedAt   time.Time      `json:"added_at"`
	Product   *PublicProduct `json:"product,omitempty"`
}
