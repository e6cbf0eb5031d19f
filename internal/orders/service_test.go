package orders

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/greenbasket/greenbasket-backend/internal/cart"
	"github.com/greenbasket/greenbasket-backend/internal/coupons"
	"github.com/greenbasket/greenbasket-backend/internal/products"
	"github.com/greenbasket/greenbasket-backend/internal/subscriptions"
	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
	"github.com/greenbasket/greenbasket-backend/pkg/types"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type memorySnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: map[string][]byte{}}
}

func (m *memorySnapshots) Load(_ context.Context, customerID string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.data[customerID]
	return payload, ok, nil
}

func (m *memorySnapshots) Save(_ context.Context, customerID string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[customerID] = payload
	return nil
}

func (m *memorySnapshots) Delete(_ context.Context, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, customerID)
	return nil
}

type fixture struct {
	db       *gorm.DB
	service  *Service
	products *products.Repository
	customer uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderLineItem{},
		&models.Subscription{},
	))
	t.Cleanup(func() {
		for _, table := range []string{"subscriptions", "order_line_items", "orders", "products"} {
			require.NoError(t, db.Exec("DELETE FROM "+table).Error)
		}
	})

	ordersRepo, err := NewRepository(db)
	require.NoError(t, err)
	productsRepo, err := products.NewRepository(db)
	require.NoError(t, err)
	subsRepo, err := subscriptions.NewRepository(db)
	require.NoError(t, err)
	subsService, err := subscriptions.NewService(subsRepo)
	require.NoError(t, err)

	service, err := NewService(ServiceParams{
		Repo:          ordersRepo,
		ProductsRepo:  productsRepo,
		Subscriptions: subsService,
		Tx:            gormTxRunner{db: db},
	})
	require.NoError(t, err)

	return &fixture{
		db:       db,
		service:  service,
		products: productsRepo,
		customer: uuid.New(),
	}
}

func (f *fixture) seedProduct(t *testing.T, priceCents, stock int) models.Product {
	t.Helper()
	product := models.Product{
		ID:         uuid.New(),
		Slug:       "p-" + uuid.NewString(),
		Title:      "Sleepy Tea",
		Category:   enums.ProductCategoryTeas,
		PriceCents: priceCents,
		StockQty:   stock,
		IsActive:   true,
	}
	require.NoError(t, f.db.Create(&product).Error)
	return product
}

func (f *fixture) newCart(t *testing.T) *cart.Store {
	t.Helper()
	store, err := cart.NewStore(cart.StoreParams{
		CustomerID: f.customer.String(),
		Authority:  coupons.NewStatic(coupons.DefaultCodes()),
		Snapshots:  newMemorySnapshots(),
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return store
}

func cartRef(product models.Product) cart.ProductRef {
	return cart.ProductRef{
		ID:         product.ID,
		Slug:       product.Slug,
		Title:      product.Title,
		PriceCents: int64(product.PriceCents),
	}
}

func shippingAddress() types.Address {
	return types.Address{
		Line1:      "12 Fern Way",
		City:       "Portland",
		State:      "OR",
		PostalCode: "97205",
		Country:    "US",
	}
}

func TestSubmitPersistsOrderAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 1000, 10)
	cartStore := f.newCart(t)

	cartStore.AddItem(ctx, cartRef(product), 2, false, nil)
	require.True(t, cartStore.ApplyCoupon(ctx, "healthy20"))

	order, err := f.service.Submit(ctx, f.customer, cartStore, SubmitInput{
		ShippingAddress: shippingAddress(),
		PaymentMode:     enums.PaymentModeCard,
	})
	require.NoError(t, err)

	require.Equal(t, enums.OrderStatusPending, order.Status)
	require.Equal(t, 2000, order.SubtotalCents)
	require.Equal(t, 400, order.DiscountCents)
	require.Equal(t, 1600, order.TotalCents)
	require.NotNil(t, order.CouponCode)
	require.Equal(t, "HEALTHY20", *order.CouponCode)
	require.Len(t, order.Lines, 1)
	require.Equal(t, 2000, order.Lines[0].LineSubtotalCents)

	// Stock decremented, cart emptied.
	var reloaded models.Product
	require.NoError(t, f.db.First(&reloaded, "id = ?", product.ID).Error)
	require.Equal(t, 8, reloaded.StockQty)
	require.Zero(t, cartStore.ItemCount())

	fetched, err := f.service.Get(ctx, f.customer, order.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Lines, 1)
}

func TestSubmitOpensSubscriptionsFromFlaggedLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oneOff := f.seedProduct(t, 500, 10)
	recurring := f.seedProduct(t, 1000, 10)
	cartStore := f.newCart(t)
	weekly := enums.SubscriptionFrequencyWeekly

	cartStore.AddItem(ctx, cartRef(oneOff), 1, false, nil)
	cartStore.AddItem(ctx, cartRef(recurring), 2, true, &weekly)

	order, err := f.service.Submit(ctx, f.customer, cartStore, SubmitInput{
		ShippingAddress: shippingAddress(),
		PaymentMode:     enums.PaymentModeCashOnDelivery,
	})
	require.NoError(t, err)

	// 500 + 1000*0.9*2
	require.Equal(t, 2300, order.SubtotalCents)

	var subs []models.Subscription
	require.NoError(t, f.db.Find(&subs).Error)
	require.Len(t, subs, 1)
	require.Equal(t, recurring.ID, subs[0].ProductID)
	require.Equal(t, 2, subs[0].Quantity)
	require.Equal(t, enums.SubscriptionFrequencyWeekly, subs[0].Frequency)
	require.NotNil(t, subs[0].OrderID)
	require.Equal(t, order.ID, *subs[0].OrderID)
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	cartStore := f.newCart(t)

	_, err := f.service.Submit(context.Background(), f.customer, cartStore, SubmitInput{
		ShippingAddress: shippingAddress(),
		PaymentMode:     enums.PaymentModeCard,
	})
	typed := errors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, errors.CodeValidation, typed.Code())
}

func TestSubmitRejectsIncompleteAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 1000, 10)
	cartStore := f.newCart(t)
	cartStore.AddItem(ctx, cartRef(product), 1, false, nil)

	_, err := f.service.Submit(ctx, f.customer, cartStore, SubmitInput{
		ShippingAddress: types.Address{Line1: "12 Fern Way"},
		PaymentMode:     enums.PaymentModeCard,
	})
	typed := errors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, errors.CodeValidation, typed.Code())
}

func TestSubmitInsufficientStockRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 1000, 1)
	cartStore := f.newCart(t)
	cartStore.AddItem(ctx, cartRef(product), 3, false, nil)

	_, err := f.service.Submit(ctx, f.customer, cartStore, SubmitInput{
		ShippingAddress: shippingAddress(),
		PaymentMode:     enums.PaymentModeCard,
	})
	typed := errors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, errors.CodeStateConflict, typed.Code())

	// Nothing persisted, cart untouched.
	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	require.Zero(t, count)
	require.EqualValues(t, 3, cartStore.ItemCount())

	var reloaded models.Product
	require.NoError(t, f.db.First(&reloaded, "id = ?", product.ID).Error)
	require.Equal(t, 1, reloaded.StockQty)
}

func TestListScopedToCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	product := f.seedProduct(t, 1000, 20)

	for i := 0; i < 2; i++ {
		cartStore := f.newCart(t)
		cartStore.AddItem(ctx, cartRef(product), 1, false, nil)
		_, err := f.service.Submit(ctx, f.customer, cartStore, SubmitInput{
			ShippingAddress: shippingAddress(),
			PaymentMode:     enums.PaymentModeCard,
		})
		require.NoError(t, err)
	}

	rows, _, err := f.service.List(ctx, f.customer, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, _, err = f.service.List(ctx, uuid.New(), pagination.Params{})
	require.NoError(t, err)
	require.Empty(t, rows)
}
