package subscriptions

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInternal, "subscriptions repository requires a db handle")
	}
	return &Repository{db: db}, nil
}

func (r *Repository) handle(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *Repository) Insert(ctx context.Context, tx *gorm.DB, subscription *models.Subscription) error {
	if err := r.handle(tx).WithContext(ctx).Create(subscription).Error; err != nil {
		return errors.Wrap(errors.CodeDependency, err, "insert subscription")
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Subscription, error) {
	var subscription models.Subscription
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "subscription not found")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "query subscription")
	}
	return &subscription, nil
}

func (r *Repository) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "list subscriptions")
	}
	return rows, nil
}

// ListDue returns active subscriptions whose next delivery is at or before
// the reference time.
func (r *Repository) ListDue(ctx context.Context, now time.Time, limit int) ([]models.Subscription, error) {
	var rows []models.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ? AND next_delivery_at <= ?", enums.SubscriptionStatusActive, now).
		Order("next_delivery_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(errors.CodeDependency, err, "list due subscriptions")
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, subscription *models.Subscription) error {
	if err := r.db.WithContext(ctx).Save(subscription).Error; err != nil {
		return errors.Wrap(errors.CodeDependency, err, "update subscription")
	}
	return nil
}
