package coupons

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
)

// Repository reads promotional coupons.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New(errors.CodeInternal, "coupons repository requires a db handle")
	}
	return &Repository{db: db}, nil
}

// FindActiveByCode returns the coupon for a normalized code if it is active
// and not expired at the reference time.
func (r *Repository) FindActiveByCode(ctx context.Context, code string, now time.Time) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", code, true).
		Where("expires_at IS NULL OR expires_at > ?", now).
		First(&coupon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New(errors.CodeNotFound, "coupon not found")
		}
		return nil, errors.Wrap(errors.CodeDependency, err, "query coupon")
	}
	return &coupon, nil
}

// ExpireStale deactivates coupons whose expiry has passed. Used by the
// cron sweep so applied-coupon checks stay a single indexed lookup.
func (r *Repository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("is_active", false)
	if res.Error != nil {
		return 0, errors.Wrap(errors.CodeDependency, res.Error, "expire coupons")
	}
	return res.RowsAffected, nil
}
