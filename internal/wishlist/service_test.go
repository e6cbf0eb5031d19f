package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WishlistItem{}))
	t.Cleanup(func() {
		require.NoError(t, db.Exec("DELETE FROM wishlist_items").Error)
	})

	repo, err := NewRepository(db)
	require.NoError(t, err)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func TestAddIsIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	productID := uuid.New()

	require.NoError(t, svc.Add(ctx, customerID, productID))
	require.NoError(t, svc.Add(ctx, customerID, productID))

	items, _, err := svc.List(ctx, customerID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Remove(ctx, uuid.New(), uuid.New()))
}

func TestContains(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	productID := uuid.New()

	found, err := svc.Contains(ctx, customerID, productID)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, svc.Add(ctx, customerID, productID))

	found, err = svc.Contains(ctx, customerID, productID)
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, svc.Remove(ctx, customerID, productID))
	found, err = svc.Contains(ctx, customerID, productID)
	require.NoError(t, err)
	require.False(t, found)
}

func TestListScopedToCustomer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	other := uuid.New()

	require.NoError(t, svc.Add(ctx, customerID, uuid.New()))
	require.NoError(t, svc.Add(ctx, customerID, uuid.New()))
	require.NoError(t, svc.Add(ctx, other, uuid.New()))

	items, _, err := svc.List(ctx, customerID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		require.Equal(t, customerID, item.CustomerID)
	}
}
