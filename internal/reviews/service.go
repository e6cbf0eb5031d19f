package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

// CreateInput is a new product review.
type CreateInput struct {
	ProductID  uuid.UUID
	CustomerID uuid.UUID
	Rating     int
	Title      *string
	Body       *string
}

// RatingSummary aggregates reviews for one product.
type RatingSummary struct {
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
}

// Service manages customer product reviews. One review per customer and
// product; resubmitting updates the existing review.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInternal, "reviews service requires a db handle")
	}
	return &Service{db: db}, nil
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.New(errors.CodeValidation, "rating must be between 1 and 5")
	}

	var existing models.Review
	err := s.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", input.CustomerID, input.ProductID).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Rating = input.Rating
		existing.Title = input.Title
		existing.Body = input.Body
		if err := s.db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "update review")
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		review := models.Review{
			ID:         uuid.New(),
			ProductID:  input.ProductID,
			CustomerID: input.CustomerID,
			Rating:     input.Rating,
			Title:      input.Title,
			Body:       input.Body,
		}
		if err := s.db.WithContext(ctx).Create(&review).Error; err != nil {
			return nil, errors.Wrap(errors.CodeDependency, err, "insert review")
		}
		return &review, nil
	default:
		return nil, errors.Wrap(errors.CodeDependency, err, "query review")
	}
}

// ListForProduct pages a product's reviews, newest first.
func (s *Service) ListForProduct(ctx context.Context, productID uuid.UUID, params pagination.Params) ([]models.Review, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("product_id = ?", productID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Review
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "list reviews")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return rows, next, nil
}

// Summary returns the review count and mean rating for a product.
func (s *Service) Summary(ctx context.Context, productID uuid.UUID) (*RatingSummary, error) {
	var result struct {
		Count   int64
		Average *float64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS count, AVG(rating) AS average").
		Where("product_id = ?", productID).
		Scan(&result).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "aggregate reviews")
	}
	summary := &RatingSummary{Count: result.Count}
	if result.Average != nil {
		summary.Average = *result.Average
	}
	return summary, nil
}
