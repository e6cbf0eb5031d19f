package wishlist

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

// Service manages a customer's saved products.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "wishlist service requires a repository")
	}
	return &Service{repo: repo}, nil
}

// Add saves a product for the customer. Saving a product twice is a no-op.
func (s *Service) Add(ctx context.Context, customerID, productID uuid.UUID) error {
	err := s.repo.Insert(ctx, customerID, productID)
	if err != nil && isDuplicate(err) {
		return nil
	}
	return err
}

// Remove drops a saved product. Removing an absent entry is a no-op.
func (s *Service) Remove(ctx context.Context, customerID, productID uuid.UUID) error {
	return s.repo.Delete(ctx, customerID, productID)
}

// List pages the customer's saved products, newest first.
func (s *Service) List(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.WishlistItem, string, error) {
	return s.repo.List(ctx, customerID, params)
}

// Contains reports whether the product is saved.
func (s *Service) Contains(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	return s.repo.Exists(ctx, customerID, productID)
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
