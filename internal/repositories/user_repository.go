package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zishraq/ecommerce-backend/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {

	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (username, email, password, role, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, NOW())
		RETURNING created_at`

	err := r.DB.QueryRowContext(dbCtx, query, user.Username, user.Email, user.Password, user.Role).Scan(&user.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {

	dbCtx, cancel := withDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT username, COALESCE(email, ''), password, role, created_at
		FROM users
		WHERE username = $1`

	user := &models.User{}

	err := r.DB.QueryRowContext(dbCtx, query, username).Scan(&user.Username, &user.Email, &user.Password, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return user, nil
}
