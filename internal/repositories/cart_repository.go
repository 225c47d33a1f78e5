package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zishraq/ecommerce-backend/internal/models"
)

type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetCartByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
	GetLatestCart(ctx context.Context, username string) (*models.Cart, error)
	ListCartsByUsername(ctx context.Context, username string) ([]*models.Cart, error)
	GetCartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	GetItemQuantity(ctx context.Context, cartID, productID uuid.UUID) (int, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, at time.Time) error
	TouchCart(ctx context.Context, cartID uuid.UUID, at time.Time) error
	DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error
	DeleteCart(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO shopping_cart_info (cart_id, username, confirmed, created_at)
		VALUES ($1, $2, FALSE, NOW())
		RETURNING created_at`

	err := r.DB.QueryRowContext(dbCtx, query, cart.ID, cart.Username).Scan(&cart.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert cart: %w", err)
	}

	return nil
}

func (r *cartRepository) GetCartByID(ctx context.Context, cartID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT cart_id, username, confirmed, created_at, updated_at
		FROM shopping_cart_info
		WHERE cart_id = $1`

	return r.getCart(dbCtx, query, cartID)
}

// GetLatestCart returns the user's most recently created cart, confirmed or not.
func (r *cartRepository) GetLatestCart(ctx context.Context, username string) (*models.Cart, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT cart_id, username, confirmed, created_at, updated_at
		FROM shopping_cart_info
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT 1`

	return r.getCart(dbCtx, query, username)
}

func (r *cartRepository) getCart(ctx context.Context, query string, arg any) (*models.Cart, error) {
	cart := &models.Cart{}
	var updatedAt sql.NullTime

	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&cart.ID, &cart.Username, &cart.Confirmed, &cart.CreatedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying cart: %w", err)
	}

	if updatedAt.Valid {
		cart.UpdatedAt = &updatedAt.Time
	}

	return cart, nil
}

func (r *cartRepository) ListCartsByUsername(ctx context.Context, username string) ([]*models.Cart, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT cart_id, username, confirmed, created_at, updated_at
		FROM shopping_cart_info
		WHERE username = $1
		ORDER BY created_at ASC`

	rows, err := r.DB.QueryContext(dbCtx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	defer rows.Close()

	carts := []*models.Cart{}

	for rows.Next() {
		cart := &models.Cart{}
		var updatedAt sql.NullTime

		if err := rows.Scan(&cart.ID, &cart.Username, &cart.Confirmed, &cart.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}
		if updatedAt.Valid {
			cart.UpdatedAt = &updatedAt.Time
		}

		carts = append(carts, cart)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return carts, nil
}

// GetCartItems joins each line with the current product price.
func (r *cartRepository) GetCartItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT pc.product_id, p.product_name, pc.quantity, p.price, p.discount, pc.added_at, pc.updated_at
		FROM products_by_cart AS pc
		JOIN products AS p ON p.product_id = pc.product_id
		WHERE pc.cart_id = $1
		ORDER BY pc.added_at ASC`

	rows, err := r.DB.QueryContext(dbCtx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}

	for rows.Next() {
		var item models.CartItem
		var price, discount decimal.Decimal
		var updatedAt sql.NullTime

		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &price, &discount, &item.AddedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}

		item.UnitPrice = (&models.Product{Price: price, Discount: discount}).UnitPrice()
		if updatedAt.Valid {
			item.UpdatedAt = &updatedAt.Time
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// GetItemQuantity returns 0 when the product is not in the cart.
func (r *cartRepository) GetItemQuantity(ctx context.Context, cartID, productID uuid.UUID) (int, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `SELECT quantity FROM products_by_cart WHERE cart_id = $1 AND product_id = $2`

	var quantity int

	err := r.DB.QueryRowContext(dbCtx, query, cartID, productID).Scan(&quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("querying cart item: %w", err)
	}

	return quantity, nil
}

// UpsertItem stores quantity as the new line total. The cart row is share
// locked for the write, so a line can never land in a cart that a concurrent
// confirmation has closed.
func (r *cartRepository) UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int, at time.Time) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		WITH open_cart AS (
			SELECT cart_id FROM shopping_cart_info
			WHERE cart_id = $1 AND NOT confirmed
			FOR SHARE
		)
		INSERT INTO products_by_cart (cart_id, product_id, quantity, added_at)
		SELECT cart_id, $2, $3, $4 FROM open_cart
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.added_at`

	result, err := r.DB.ExecContext(dbCtx, query, cartID, productID, quantity, at)
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		if err := r.closedCartError(dbCtx, cartID); err != nil {
			return err
		}
		return errors.New("cart item was not stored")
	}

	return nil
}

func (r *cartRepository) TouchCart(ctx context.Context, cartID uuid.UUID, at time.Time) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	_, err := r.DB.ExecContext(dbCtx, `UPDATE shopping_cart_info SET updated_at = $1 WHERE cart_id = $2`, at, cartID)
	if err != nil {
		return fmt.Errorf("failed to update cart timestamp: %w", err)
	}

	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, cartID, productID uuid.UUID) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		WITH open_cart AS (
			SELECT cart_id FROM shopping_cart_info
			WHERE cart_id = $1 AND NOT confirmed
			FOR SHARE
		)
		DELETE FROM products_by_cart p
		USING open_cart o
		WHERE p.cart_id = o.cart_id AND p.product_id = $2`

	result, err := r.DB.ExecContext(dbCtx, query, cartID, productID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected > 0 {
		return nil
	}

	if err := r.closedCartError(dbCtx, cartID); err != nil {
		return err
	}

	return ErrNotFound
}

// closedCartError explains a line write that touched nothing: ErrAlreadyConfirmed
// for a confirmed cart, ErrNotFound when the cart is gone, nil when it is open.
func (r *cartRepository) closedCartError(ctx context.Context, cartID uuid.UUID) error {
	var confirmed bool

	err := r.DB.QueryRowContext(ctx, `SELECT confirmed FROM shopping_cart_info WHERE cart_id = $1`, cartID).Scan(&confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read cart state: %w", err)
	}

	if confirmed {
		return ErrAlreadyConfirmed
	}

	return nil
}

// DeleteCart removes an unconfirmed cart; its lines go with it.
func (r *cartRepository) DeleteCart(ctx context.Context, cartID uuid.UUID) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM shopping_cart_info WHERE cart_id = $1 AND NOT confirmed`, cartID)
	if err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	return expectAffected(result)
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
