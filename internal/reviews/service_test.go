package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Review{}))
	t.Cleanup(func() {
		require.NoError(t, db.Exec("DELETE FROM reviews").Error)
	})

	svc, err := NewService(db)
	require.NoError(t, err)
	return svc
}

func strPtr(s string) *string { return &s }

func TestCreateValidatesRating(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Create(ctx, CreateInput{
			ProductID:  uuid.New(),
			CustomerID: uuid.New(),
			Rating:     rating,
		})
		typed := errors.As(err)
		require.NotNil(t, typed, "rating %d", rating)
		require.Equal(t, errors.CodeValidation, typed.Code())
	}
}

func TestCreateThenResubmitUpdates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	productID := uuid.New()
	customerID := uuid.New()

	first, err := svc.Create(ctx, CreateInput{
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     4,
		Title:      strPtr("Calming"),
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, CreateInput{
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     5,
		Body:       strPtr("Even better the second month."),
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 5, second.Rating)

	rows, _, err := svc.ListForProduct(ctx, productID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSummary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	productID := uuid.New()

	for _, rating := range []int{5, 4, 3} {
		_, err := svc.Create(ctx, CreateInput{
			ProductID:  productID,
			CustomerID: uuid.New(),
			Rating:     rating,
		})
		require.NoError(t, err)
	}

	summary, err := svc.Summary(ctx, productID)
	require.NoError(t, err)
	require.EqualValues(t, 3, summary.Count)
	require.InDelta(t, 4.0, summary.Average, 0.001)

	empty, err := svc.Summary(ctx, uuid.New())
	require.NoError(t, err)
	require.Zero(t, empty.Count)
	require.Zero(t, empty.Average)
}
