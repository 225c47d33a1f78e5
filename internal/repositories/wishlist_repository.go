package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/zishraq/ecommerce-backend/internal/models"
)

type WishlistRepository interface {
	AddItem(ctx context.Context, username string, productID uuid.UUID) error
	RemoveItem(ctx context.Context, username string, productID uuid.UUID) error
	ListItems(ctx context.Context, username string) ([]*models.WishlistItem, error)
}

type wishlistRepository struct {
	DB *sql.DB
}

func NewWishlistRepo(db *sql.DB) WishlistRepository {
	return &wishlistRepository{DB: db}
}

func (r *wishlistRepository) AddItem(ctx context.Context, username string, productID uuid.UUID) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `INSERT INTO wishlist (username, product_id, added_at) VALUES ($1, $2, NOW())`

	if _, err := r.DB.ExecContext(dbCtx, query, username, productID); err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		if IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

func (r *wishlistRepository) RemoveItem(ctx context.Context, username string, productID uuid.UUID) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM wishlist WHERE username = $1 AND product_id = $2`, username, productID)
	if err != nil {
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}

	return expectAffected(result)
}

// ListItems returns wishlisted products, most recently added first.
func (r *wishlistRepository) ListItems(ctx context.Context, username string) ([]*models.WishlistItem, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT w.added_at, p.product_id, p.product_name, p.description, p.product_category, p.price, p.discount,
			p.in_stock, p.total_sold, p.tags, COALESCE(p.created_by, ''), p.created_at, p.updated_at
		FROM wishlist AS w
		JOIN products AS p ON p.product_id = w.product_id
		WHERE w.username = $1
		ORDER BY w.added_at DESC`

	rows, err := r.DB.QueryContext(dbCtx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer rows.Close()

	items := []*models.WishlistItem{}

	for rows.Next() {
		item := &models.WishlistItem{}

		product, err := scanProduct(prefixedScanner{row: rows, prefix: []any{&item.AddedAt}})
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}

		item.ProductID = product.ID
		item.Product = product.Public()
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// prefixedScanner scans extra leading columns before handing the rest to a scan helper.
type prefixedScanner struct {
	row    rowScanner
	prefix []any
}

func (s prefixedScanner) Scan(dest ...any) error {
	return s.row.Scan(append(s.prefix, dest...)...)
}
