package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/zishraq/ecommerce-backend/internal/models"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error)
	SearchProducts(ctx context.Context, pattern string, page, size int) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `product_id, product_name, description, product_category, price, discount,
		in_stock, total_sold, tags, COALESCE(created_by, ''), created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	product := &models.Product{}
	var tags pq.StringArray

	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Category, &product.Price, &product.Discount,
		&product.InStock, &product.TotalSold, &tags, &product.CreatedBy, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	product.Tags = []string(tags)
	if product.Tags == nil {
		product.Tags = []string{}
	}

	return product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (product_id, product_name, description, product_category, price, discount, in_stock, total_sold, tags, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, product.ID, product.Name, product.Description, product.Category, product.Price,
		product.Discount, product.InStock, pq.Array(product.Tags), product.CreatedBy).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}

	return nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying product: %w", err)
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET product_name = $1, description = $2, product_category = $3, price = $4, discount = $5, in_stock = $6, tags = $7, updated_at = NOW()
		WHERE product_id = $8
		RETURNING updated_at`

	err := r.DB.QueryRowContext(dbCtx, query, product.Name, product.Description, product.Category, product.Price, product.Discount,
		product.InStock, pq.Array(product.Tags), product.ID).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}

func (r *productRepository) ListProducts(ctx context.Context, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	products, err := r.queryProducts(dbCtx, query, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// SearchProducts matches pattern (an ILIKE pattern) against name, description,
// category and each tag. A row matches when one of those values matches on its
// own: the words of a query never combine across two fields or two tags.
func (r *productRepository) SearchProducts(ctx context.Context, pattern string, page, size int) ([]*models.Product, int, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	where := `WHERE product_name ILIKE $1
		OR description ILIKE $1
		OR product_category ILIKE $1
		OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ILIKE $1)`

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products `+where, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting search results: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products ` + where + ` ORDER BY product_name ASC LIMIT $2 OFFSET $3`

	products, err := r.queryProducts(dbCtx, query, pattern, size, (page-1)*size)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating products: %w", err)
	}

	return products, nil
}
