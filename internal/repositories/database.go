package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	"github.com/zishraq/ecommerce-backend/internal/config"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

type Repositories struct {
	DB       *sql.DB
	User     UserRepository
	Product  ProductRepository
	Cart     CartRepository
	Order    OrderRepository
	Shipper  ShipperRepository
	Wishlist WishlistRepository
}

func New(cfg *config.Config) (*Repositories, error) {

	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSpanOptions(otelsql.SpanOptions{OmitConnResetSession: true}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), DefaultDBTimeout)
	defer cancel()

	// Test the connection to make sure DB is reachable
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return NewRepositories(db), nil
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		DB:       db,
		User:     NewUserRepo(db),
		Product:  NewProductRepo(db),
		Cart:     NewCartRepo(db),
		Order:    NewOrderRepo(db),
		Shipper:  NewShipperRepo(db),
		Wishlist: NewWishlistRepo(db),
	}
}

func (r *Repositories) Close() error {
	return r.DB.Close()
}

// InitSchema creates the tables when they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema creation: %w", err)
	}

	return nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		username VARCHAR(50) PRIMARY KEY,
		email VARCHAR(255),
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'customer' CHECK (role IN ('customer', 'admin')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS products (
		product_id UUID PRIMARY KEY,
		product_name VARCHAR(200) UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		product_category VARCHAR(100) NOT NULL,
		price NUMERIC(10,2) NOT NULL,
		discount NUMERIC(5,2) NOT NULL DEFAULT 0,
		in_stock INTEGER NOT NULL CHECK (in_stock >= 0),
		total_sold INTEGER NOT NULL DEFAULT 0,
		tags TEXT[] NOT NULL DEFAULT '{}',
		created_by VARCHAR(50) REFERENCES users(username),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS shopping_cart_info (
		cart_id UUID PRIMARY KEY,
		username VARCHAR(50) NOT NULL REFERENCES users(username),
		confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	);

	CREATE UNIQUE INDEX IF NOT EXISTS shopping_cart_info_one_open_per_user
		ON shopping_cart_info (username) WHERE NOT confirmed;

	CREATE TABLE IF NOT EXISTS products_by_cart (
		cart_id UUID NOT NULL REFERENCES shopping_cart_info(cart_id) ON DELETE CASCADE,
		product_id UUID NOT NULL REFERENCES products(product_id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ,
		PRIMARY KEY (cart_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS shipper (
		shipper_id UUID PRIMARY KEY,
		shipper_name VARCHAR(100) UNIQUE NOT NULL,
		phone_number VARCHAR(30) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_by VARCHAR(50) REFERENCES users(username)
	);

	CREATE TABLE IF NOT EXISTS order_info (
		order_id UUID PRIMARY KEY REFERENCES shopping_cart_info(cart_id),
		username VARCHAR(50) NOT NULL REFERENCES users(username),
		payment_method VARCHAR(30) NOT NULL,
		address TEXT NOT NULL,
		order_confirm BOOLEAN NOT NULL DEFAULT TRUE,
		total_price NUMERIC(12,2) NOT NULL,
		shipper_id UUID REFERENCES shipper(shipper_id),
		date_shipped TIMESTAMPTZ,
		shipment_created_by VARCHAR(50),
		payment_intent_id VARCHAR(255),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS order_items (
		order_id UUID NOT NULL REFERENCES order_info(order_id),
		product_id UUID NOT NULL REFERENCES products(product_id),
		product_name VARCHAR(200) NOT NULL,
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(10,2) NOT NULL,
		PRIMARY KEY (order_id, product_id)
	);

	CREATE TABLE IF NOT EXISTS wishlist (
		username VARCHAR(50) NOT NULL REFERENCES users(username),
		product_id UUID NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
		added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (username, product_id)
	);
`
