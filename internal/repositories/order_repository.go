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

type OrderRepository interface {
	ConfirmOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListOrdersByUsername(ctx context.Context, username string, page, size int) ([]*models.Order, int, error)
	MarkShipped(ctx context.Context, orderID, shipperID uuid.UUID, shippedAt time.Time, createdBy string) error
	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, paymentIntentID string) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const orderColumns = `order_id, username, payment_method, address, order_confirm, total_price,
	shipper_id, date_shipped, shipment_created_by, payment_intent_id, created_at`

/*
ConfirmOrder turns the cart order.ID into an order in one transaction:
 1. lock the cart row and refuse it when already confirmed
 2. re-read the cart lines under the lock; ErrCartChanged when they differ
    from order.Items
 3. decrement stock per line, only where enough is left
 4. write order_info and order_items
 5. flag the cart confirmed

A line that cannot be covered rolls everything back with a *StockError.
*/
func (r *orderRepository) ConfirmOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := confirmOrderTx(dbCtx, tx, order); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

func confirmOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	var confirmed bool

	err := tx.QueryRowContext(ctx, `SELECT confirmed FROM shopping_cart_info WHERE cart_id = $1 FOR UPDATE`, order.ID).Scan(&confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock cart: %w", err)
	}

	if confirmed {
		return ErrAlreadyConfirmed
	}

	if err := matchCartLines(ctx, tx, order); err != nil {
		return err
	}

	decrement := `
		UPDATE products
		SET in_stock = in_stock - $1, total_sold = total_sold + $1, updated_at = NOW()
		WHERE product_id = $2 AND in_stock >= $1`

	for _, item := range order.Items {
		result, err := tx.ExecContext(ctx, decrement, item.Quantity, item.ProductID)
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}

		if affected == 0 {
			var available int

			err := tx.QueryRowContext(ctx, `SELECT in_stock FROM products WHERE product_id = $1`, item.ProductID).Scan(&available)
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to read stock: %w", err)
			}

			return &StockError{ProductID: item.ProductID, Available: available, Requested: item.Quantity}
		}
	}

	insertOrder := `
		INSERT INTO order_info (order_id, username, payment_method, address, order_confirm, total_price, created_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, NOW())
		RETURNING created_at`

	err = tx.QueryRowContext(ctx, insertOrder, order.ID, order.Username, order.PaymentMethod, order.Address, order.TotalPrice).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	insertItem := `
		INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertItem, order.ID, item.ProductID, item.ProductName, item.Quantity, item.UnitPrice); err != nil {
			return fmt.Errorf("failed to insert an order item: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE shopping_cart_info SET confirmed = TRUE, updated_at = NOW() WHERE cart_id = $1`, order.ID); err != nil {
		return fmt.Errorf("failed to confirm cart: %w", err)
	}

	order.Confirmed = true

	return nil
}

// matchCartLines compares the locked cart's lines with the ones the order was
// priced from.
func matchCartLines(ctx context.Context, tx *sql.Tx, order *models.Order) error {
	rows, err := tx.QueryContext(ctx, `SELECT product_id, quantity FROM products_by_cart WHERE cart_id = $1`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to read cart lines: %w", err)
	}
	defer rows.Close()

	want := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		want[item.ProductID] += item.Quantity
	}

	seen := 0

	for rows.Next() {
		var (
			productID uuid.UUID
			quantity  int
		)

		if err := rows.Scan(&productID, &quantity); err != nil {
			return fmt.Errorf("failed to scan cart line: %w", err)
		}

		if expected, ok := want[productID]; !ok || expected != quantity {
			return ErrCartChanged
		}
		seen++
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read cart lines: %w", err)
	}

	if seen != len(want) {
		return ErrCartChanged
	}

	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + orderColumns + ` FROM order_info WHERE order_id = $1`

	order, err := scanOrder(r.DB.QueryRowContext(dbCtx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get the order: %w", err)
	}

	itemsQuery := `
		SELECT product_id, product_name, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY product_name`

	rows, err := r.DB.QueryContext(dbCtx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get the order items: %w", err)
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}

	for rows.Next() {
		var item models.OrderItem

		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}

		item.TotalPrice = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2)
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrdersByUsername returns one page of orders, newest first, without items.
func (r *orderRepository) ListOrdersByUsername(ctx context.Context, username string, page, size int) ([]*models.Order, int, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM order_info WHERE username = $1`, username).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * size

	query := `SELECT ` + orderColumns + `
		FROM order_info
		WHERE username = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, username, size, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// MarkShipped assigns a shipper once; an order that already has one yields ErrAlreadyShipped.
func (r *orderRepository) MarkShipped(ctx context.Context, orderID, shipperID uuid.UUID, shippedAt time.Time, createdBy string) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE order_info
		SET shipper_id = $1, date_shipped = $2, shipment_created_by = $3
		WHERE order_id = $4 AND shipper_id IS NULL`

	result, err := r.DB.ExecContext(dbCtx, query, shipperID, shippedAt, createdBy, orderID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to mark order shipped: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return ErrAlreadyShipped
	}

	return nil
}

func (r *orderRepository) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, paymentIntentID string) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `UPDATE order_info SET payment_intent_id = $1 WHERE order_id = $2`, paymentIntentID, orderID)
	if err != nil {
		return fmt.Errorf("failed to store payment intent: %w", err)
	}

	return expectAffected(result)
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}

	var (
		shipperID   uuid.NullUUID
		dateShipped sql.NullTime
		createdBy   sql.NullString
		intentID    sql.NullString
	)

	err := row.Scan(&order.ID, &order.Username, &order.PaymentMethod, &order.Address, &order.Confirmed, &order.TotalPrice,
		&shipperID, &dateShipped, &createdBy, &intentID, &order.CreatedAt)
	if err != nil {
		return nil, err
	}

	if shipperID.Valid {
		order.ShipperID = &shipperID.UUID
	}
	if dateShipped.Valid {
		order.DateShipped = &dateShipped.Time
	}
	if createdBy.Valid {
		order.ShipmentCreatedBy = &createdBy.String
	}
	if intentID.Valid {
		order.PaymentIntentID = &intentID.String
	}

	return order, nil
}
