package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInternal, "wishlist repository requires a db handle")
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Insert(ctx context.Context, customerID, productID uuid.UUID) error {
	item := models.WishlistItem{
		ID:         uuid.New(),
		CustomerID: customerID,
		ProductID:  productID,
	}
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return errors.Wrap(errors.CodeDependency, err, "insert wishlist item")
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, customerID, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&models.WishlistItem{}).Error
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "delete wishlist item")
	}
	return nil
}

func (r *Repository) Exists(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Count(&count).Error
	if err != nil {
		return false, errors.Wrap(errors.CodeDependency, err, "query wishlist item")
	}
	return count > 0, nil
}

func (r *Repository) List(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.WishlistItem, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("customer_id = ?", customerID)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.WishlistItem
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "list wishlist items")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return rows, next, nil
}
