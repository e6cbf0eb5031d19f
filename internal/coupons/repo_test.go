package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Coupon{}))
	t.Cleanup(func() {
		require.NoError(t, db.Exec("DELETE FROM coupons").Error)
	})
	return db
}

func seedCoupon(t *testing.T, db *gorm.DB, code string, percent int64, active bool, expiresAt *time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Coupon{
		Code:      code,
		Percent:   percent,
		IsActive:  active,
		ExpiresAt: expiresAt,
	}).Error)
}

func TestRepositoryFindActiveByCode(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now()

	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)
	seedCoupon(t, db, "WELCOME10", 10, true, nil)
	seedCoupon(t, db, "SUMMER15", 15, true, &future)
	seedCoupon(t, db, "EXPIRED5", 5, true, &past)
	seedCoupon(t, db, "DISABLED25", 25, false, nil)

	coupon, err := repo.FindActiveByCode(ctx, "WELCOME10", now)
	require.NoError(t, err)
	require.EqualValues(t, 10, coupon.Percent)

	coupon, err = repo.FindActiveByCode(ctx, "SUMMER15", now)
	require.NoError(t, err)
	require.EqualValues(t, 15, coupon.Percent)

	for _, code := range []string{"EXPIRED5", "DISABLED25", "MISSING"} {
		_, err = repo.FindActiveByCode(ctx, code, now)
		require.Error(t, err, code)
		typed := errors.As(err)
		require.NotNil(t, typed, code)
		require.Equal(t, errors.CodeNotFound, typed.Code(), code)
	}
}

func TestRepositoryExpireStale(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)
	ctx := context.Background()
	now := time.Now()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	seedCoupon(t, db, "OLD1", 10, true, &past)
	seedCoupon(t, db, "OLD2", 20, true, &past)
	seedCoupon(t, db, "FRESH", 15, true, &future)
	seedCoupon(t, db, "EVERGREEN", 5, true, nil)

	affected, err := repo.ExpireStale(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 2, affected)

	var activeCount int64
	require.NoError(t, db.Model(&models.Coupon{}).Where("is_active = ?", true).Count(&activeCount).Error)
	require.EqualValues(t, 2, activeCount)
}

func TestTableAuthority(t *testing.T) {
	db := newTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)
	authority, err := NewTableAuthority(repo, nil)
	require.NoError(t, err)
	ctx := context.Background()

	seedCoupon(t, db, "HEALTHY20", 20, true, nil)

	require.True(t, authority.IsValid(ctx, "healthy20"))
	require.EqualValues(t, 20, authority.PercentFor(ctx, " Healthy20 "))
	require.False(t, authority.IsValid(ctx, "UNKNOWN"))
	require.Zero(t, authority.PercentFor(ctx, ""))
}
