package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/zishraq/ecommerce-backend/internal/models"
)

type ShipperRepository interface {
	CreateShipper(ctx context.Context, shipper *models.Shipper) error
	ListShippers(ctx context.Context) ([]*models.Shipper, error)
	ShipperExists(ctx context.Context, shipperID uuid.UUID) (bool, error)
}

type shipperRepository struct {
	DB *sql.DB
}

func NewShipperRepo(db *sql.DB) ShipperRepository {
	return &shipperRepository{DB: db}
}

func (r *shipperRepository) CreateShipper(ctx context.Context, shipper *models.Shipper) error {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO shipper (shipper_id, shipper_name, phone_number, created_by, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at`

	err := r.DB.QueryRowContext(dbCtx, query, shipper.ID, shipper.Name, shipper.PhoneNumber, shipper.CreatedBy).Scan(&shipper.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert shipper: %w", err)
	}

	return nil
}

func (r *shipperRepository) ListShippers(ctx context.Context) ([]*models.Shipper, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT shipper_id, shipper_name, phone_number, created_at, COALESCE(created_by, '')
		FROM shipper
		ORDER BY shipper_name ASC`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shippers: %w", err)
	}
	defer rows.Close()

	shippers := []*models.Shipper{}

	for rows.Next() {
		shipper := &models.Shipper{}

		if err := rows.Scan(&shipper.ID, &shipper.Name, &shipper.PhoneNumber, &shipper.CreatedAt, &shipper.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan shipper: %w", err)
		}

		shippers = append(shippers, shipper)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shippers, nil
}

func (r *shipperRepository) ShipperExists(ctx context.Context, shipperID uuid.UUID) (bool, error) {
	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	var exists bool

	if err := r.DB.QueryRowContext(dbCtx, `SELECT EXISTS (SELECT 1 FROM shipper WHERE shipper_id = $1)`, shipperID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check shipper: %w", err)
	}

	return exists, nil
}
