package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

// Repository reads and adjusts the product catalog.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInternal, "products repository requires a db handle")
	}
	return &Repository{db: db}, nil
}

func (r *Repository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// List pages active products newest first, keyed by (created_at, id).
func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.Product, string, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if filter.Category != nil {
		query = query.Where("category = ?", filter.Category.String())
	}
	if filter.Tag != "" {
		query = query.Where("? = ANY(tags)", filter.Tag)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if filter.SubscribableOnly {
		query = query.Where("subscription_eligible = ?", true)
	}
	if filter.Search != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("title ILIKE ? OR subtitle ILIKE ?", pattern, pattern)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeValidation, err, "invalid cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&rows).Error
	if err != nil {
		return nil, "", errors.Wrap(errors.CodeDependency, err, "list products")
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return rows, next, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "product not found")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "query product")
	}
	return &product, nil
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "product not found")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "query product")
	}
	return &product, nil
}

// DecrementStock subtracts quantity from a product's stock inside the
// caller's transaction, refusing to go negative.
func (r *Repository) DecrementStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error {
	res := r.handle(tx).WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_qty >= ?", id, quantity).
		Update("stock_qty", gorm.Expr("stock_qty - ?", quantity))
	if res.Error != nil {
		return errors.Wrap(errors.CodeDependency, res.Error, "decrement stock")
	}
	if res.RowsAffected == 0 {
		return errors.New(errors.CodeStateConflict, "insufficient stock")
	}
	return nil
}

// RestoreStock adds quantity back, used when an order is canceled.
func (r *Repository) RestoreStock(ctx context.Context, tx *gorm.DB, id uuid.UUID, quantity int) error {
	res := r.handle(tx).WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock_qty", gorm.Expr("stock_qty + ?", quantity))
	if res.Error != nil {
		return errors.Wrap(errors.CodeDependency, res.Error, "restore stock")
	}
	return nil
}
