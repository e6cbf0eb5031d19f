package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}))
	t.Cleanup(func() {
		require.NoError(t, db.Exec("DELETE FROM subscriptions").Error)
	})

	repo, err := NewRepository(db)
	require.NoError(t, err)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc
}

func TestCreateSchedulesFirstDelivery(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	cases := []struct {
		frequency enums.SubscriptionFrequency
		wantDays  int
	}{
		{enums.SubscriptionFrequencyWeekly, 7},
		{enums.SubscriptionFrequencyBiWeekly, 14},
		{enums.SubscriptionFrequencyMonthly, 30},
	}
	for _, tc := range cases {
		subscription, err := svc.Create(ctx, nil, CreateParams{
			CustomerID: uuid.New(),
			ProductID:  uuid.New(),
			Quantity:   1,
			Frequency:  tc.frequency,
		})
		require.NoError(t, err, tc.frequency)
		require.Equal(t, enums.SubscriptionStatusActive, subscription.Status)
		require.Equal(t, start.AddDate(0, 0, tc.wantDays), subscription.NextDeliveryAt)
	}
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, nil, CreateParams{
		CustomerID: uuid.New(),
		ProductID:  uuid.New(),
		Quantity:   1,
		Frequency:  "fortnightly",
	})
	typed := errors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, errors.CodeValidation, typed.Code())

	_, err = svc.Create(ctx, nil, CreateParams{
		CustomerID: uuid.New(),
		ProductID:  uuid.New(),
		Quantity:   0,
		Frequency:  enums.SubscriptionFrequencyWeekly,
	})
	typed = errors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, errors.CodeValidation, typed.Code())
}

func createActive(t *testing.T, svc *Service, customerID uuid.UUID) *models.Subscription {
	t.Helper()
	subscription, err := svc.Create(context.Background(), nil, CreateParams{
		CustomerID: customerID,
		ProductID:  uuid.New(),
		Quantity:   2,
		Frequency:  enums.SubscriptionFrequencyWeekly,
	})
	require.NoError(t, err)
	return subscription
}

func TestApplyPauseResume(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	subscription := createActive(t, svc, customerID)

	paused, err := svc.Apply(ctx, customerID, subscription.ID, enums.SubscriptionActionPause)
	require.NoError(t, err)
	require.Equal(t, enums.SubscriptionStatusPaused, paused.Status)
	require.NotNil(t, paused.PausedAt)

	_, err = svc.Apply(ctx, customerID, subscription.ID, enums.SubscriptionActionPause)
	typed := errors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, errors.CodeStateConflict, typed.Code())

	resumed, err := svc.Apply(ctx, customerID, subscription.ID, enums.SubscriptionActionResume)
	require.NoError(t, err)
	require.Equal(t, enums.SubscriptionStatusActive, resumed.Status)
	require.Nil(t, resumed.PausedAt)
}

func TestApplyResumeAfterLongPauseReschedules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	subscription := createActive(t, svc, customerID)

	_, err := svc.Apply(ctx, customerID, subscription.ID, enums.SubscriptionActionPause)
	require.NoError(t, err)

	// Resume a month later, well past the scheduled delivery.
	later := start.AddDate(0, 1, 0)
	svc.now = func() time.Time { return later }

	resumed, err := svc.Apply(ctx, customerID, subscription.ID, enums.SubscriptionActionResume)
	require.NoError(t, err)
	require.Equal(t, later.AddDate(0, 0, 7), resumed.NextDeliveryAt)
}

func TestApplySkipAdvancesOneInterval(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	subscription := createActive(t, svc, customerID)
	before := subscription.NextDeliveryAt

	skipped, err := svc.Apply(ctx, customerID, subscription.ID, enums.SubscriptionActionSkip)
	require.NoError(t, err)
	require.Equal(t, before.AddDate(0, 0, 7), skipped.NextDeliveryAt)
}

func TestApplyCancelIsTerminal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	subscription := createActive(t, svc, customerID)

	canceled, err := svc.Apply(ctx, customerID, subscription.ID, enums.SubscriptionActionCancel)
	require.NoError(t, err)
	require.Equal(t, enums.SubscriptionStatusCanceled, canceled.Status)
	require.NotNil(t, canceled.CanceledAt)

	for _, action := range []enums.SubscriptionAction{
		enums.SubscriptionActionPause,
		enums.SubscriptionActionResume,
		enums.SubscriptionActionSkip,
		enums.SubscriptionActionCancel,
	} {
		_, err = svc.Apply(ctx, customerID, subscription.ID, action)
		typed := errors.As(err)
		require.NotNil(t, typed, action)
		require.Equal(t, errors.CodeStateConflict, typed.Code(), action)
	}
}

func TestApplyScopedToCustomer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	subscription := createActive(t, svc, uuid.New())

	_, err := svc.Apply(ctx, uuid.New(), subscription.ID, enums.SubscriptionActionPause)
	typed := errors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, errors.CodeNotFound, typed.Code())
}

func TestAdvanceDue(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	customerID := uuid.New()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	due := createActive(t, svc, customerID)
	paused := createActive(t, svc, customerID)
	_, err := svc.Apply(ctx, customerID, paused.ID, enums.SubscriptionActionPause)
	require.NoError(t, err)

	// Jump past the first delivery for the active subscription.
	svc.now = func() time.Time { return start.AddDate(0, 0, 8) }

	advanced, err := svc.AdvanceDue(ctx, 50)
	require.NoError(t, err)
	require.Equal(t, 1, advanced)

	rows, err := svc.List(ctx, customerID)
	require.NoError(t, err)
	for _, row := range rows {
		if row.ID == due.ID {
			require.True(t, row.NextDeliveryAt.After(svc.now()))
		}
	}

	// Nothing due on a second pass.
	advanced, err = svc.AdvanceDue(ctx, 50)
	require.NoError(t, err)
	require.Zero(t, advanced)
}
