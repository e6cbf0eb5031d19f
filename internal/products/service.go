package products

import (
	"context"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/internal/cart"
	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

// Service exposes the catalog to controllers and to the cart, which takes
// an immutable copy of the pricing fields when an item is added.
type Service struct {
	repo *Repository
}

func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "products service requires a repository")
	}
	return &Service{repo: repo}, nil
}

func (s *Service) List(ctx context.Context, filter ListFilter, params pagination.Params) (*ListResult, error) {
	rows, next, err := s.repo.List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toDTO(row))
	}
	return &ListResult{Products: dtos, NextCursor: next}, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*product)
	return &dto, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	dto := toDTO(*product)
	return &dto, nil
}

// CartRef resolves a product into the snapshot the cart stores. Inactive
// and out-of-stock products are refused here so a cart line always began
// from an orderable product.
func (s *Service) CartRef(ctx context.Context, id uuid.UUID) (cart.ProductRef, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return cart.ProductRef{}, err
	}
	if !product.IsActive {
		return cart.ProductRef{}, errors.New(errors.CodeStateConflict, "product is not available")
	}
	if product.StockQty <= 0 {
		return cart.ProductRef{}, errors.New(errors.CodeStateConflict, "product is out of stock")
	}
	return toCartRef(*product), nil
}

func toCartRef(product models.Product) cart.ProductRef {
	ref := cart.ProductRef{
		ID:                   product.ID,
		Slug:                 product.Slug,
		Title:                product.Title,
		PriceCents:           int64(product.PriceCents),
		SubscriptionEligible: product.SubscriptionEligible,
	}
	if product.ImageURL != nil {
		ref.ImageURL = *product.ImageURL
	}
	return ref
}
