package service

import (
	"context"
	stdErrors "errors"

	"github.com/google/uuid"
	"github.com/zishraq/ecommerce-backend/internal/errors"
	"github.com/zishraq/ecommerce-backend/internal/models"
	repository "github.com/zishraq/ecommerce-backend/internal/repositories"
)

type WishlistService interface {
	AddItem(ctx context.Context, username string, productID uuid.UUID) error
	RemoveItem(ctx context.Context, username string, productID uuid.UUID) error
	ListItems(ctx context.Context, username string) ([]*models.WishlistItem, error)
}

type wishlistService struct {
	repo repository.WishlistRepository
}

func NewWishlistService(repo repository.WishlistRepository) WishlistService {
	return &wishlistService{repo: repo}
}

func (s *wishlistService) AddItem(ctx context.Context, username string, productID uuid.UUID) error {

	if err := s.repo.AddItem(ctx, username, productID); err != nil {
		switch {
		case stdErrors.Is(err, repository.ErrDuplicate):
			return errors.AlreadyExistsError("Product is already in the wishlist").WithError(err)
		case stdErrors.Is(err, repository.ErrNotFound):
			return errors.NotFoundError("Product not found").WithError(err)
		}
		return errors.DatabaseError("Failed to add wishlist item").WithError(err)
	}

	return nil
}

func (s *wishlistService) RemoveItem(ctx context.Context, username string, productID uuid.UUID) error {

	if err := s.repo.RemoveItem(ctx, username, productID); err != nil {
		if stdErrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundError("Product is not in the wishlist").WithError(err)
		}
		return errors.DatabaseError("Failed to remove wishlist item").WithError(err)
	}

	return nil
}

func (s *wishlistService) ListItems(ctx context.Context, username string) ([]*models.WishlistItem, error) {

	items, err := s.repo.ListItems(ctx, username)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list wishlist").WithError(err)
	}

	return items, nil
}
