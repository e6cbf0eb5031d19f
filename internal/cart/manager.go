package cart

import (
	"context"
	"sync"
	"time"

	"github.com/greenbasket/greenbasket-backend/internal/coupons"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/metrics"
)

// Manager hands out one Store per customer. Stores are created lazily,
// restored from their persisted snapshot on first access, and evicted
// after sitting idle so long-running processes do not accumulate carts
// for every customer ever seen.
type Manager struct {
	mu          sync.Mutex
	stores      map[string]*managedStore
	authority   coupons.Authority
	snapshots   SnapshotStore
	cartMetrics *metrics.CartMetrics
	logg        *logger.Logger
	observers   []Observer
	evictAfter  time.Duration
	now         func() time.Time
}

type managedStore struct {
	store      *Store
	lastAccess time.Time
}

type ManagerParams struct {
	Authority  coupons.Authority
	Snapshots  SnapshotStore
	Metrics    *metrics.CartMetrics
	Logger     *logger.Logger
	EvictAfter time.Duration
}

func NewManager(params ManagerParams) (*Manager, error) {
	if params.Authority == nil {
		return nil, errors.New(errors.CodeInternal, "cart manager requires a coupon authority")
	}
	if params.Snapshots == nil {
		return nil, errors.New(errors.CodeInternal, "cart manager requires a snapshot store")
	}
	if params.Logger == nil {
		return nil, errors.New(errors.CodeInternal, "cart manager requires a logger")
	}
	return &Manager{
		stores:      make(map[string]*managedStore),
		authority:   params.Authority,
		snapshots:   params.Snapshots,
		cartMetrics: params.Metrics,
		logg:        params.Logger,
		evictAfter:  params.EvictAfter,
		now:         time.Now,
	}, nil
}

// Subscribe registers an observer on every store the manager hands out,
// existing and future.
func (m *Manager) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, observer)
	for _, managed := range m.stores {
		managed.store.Subscribe(observer)
	}
}

// StoreFor returns the customer's cart, creating and restoring it on
// first access.
func (m *Manager) StoreFor(ctx context.Context, customerID string) (*Store, error) {
	if customerID == "" {
		return nil, errors.New(errors.CodeValidation, "customer id is required")
	}

	m.mu.Lock()
	if managed, ok := m.stores[customerID]; ok {
		managed.lastAccess = m.now()
		store := managed.store
		m.mu.Unlock()
		return store, nil
	}
	m.mu.Unlock()

	store, err := NewStore(StoreParams{
		CustomerID: customerID,
		Authority:  m.authority,
		Snapshots:  m.snapshots,
		Metrics:    m.cartMetrics,
		Logger:     m.logg,
	})
	if err != nil {
		return nil, err
	}
	if err := store.Restore(ctx); err != nil {
		m.logg.Warn(m.logg.WithCustomerID(ctx, customerID), "cart snapshot restore failed, starting empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have won the race while we restored.
	if managed, ok := m.stores[customerID]; ok {
		managed.lastAccess = m.now()
		return managed.store, nil
	}
	for _, observer := range m.observers {
		store.Subscribe(observer)
	}
	m.stores[customerID] = &managedStore{store: store, lastAccess: m.now()}
	return store, nil
}

// Evict drops the in-memory store for a customer. The persisted snapshot
// is untouched, so the cart comes back on next access.
func (m *Manager) Evict(customerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, customerID)
}

// EvictIdle drops stores not touched within the configured idle window
// and returns how many were removed. A zero window disables eviction.
func (m *Manager) EvictIdle() int {
	if m.evictAfter <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.evictAfter)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for customerID, managed := range m.stores {
		if managed.lastAccess.Before(cutoff) {
			delete(m.stores, customerID)
			evicted++
		}
	}
	return evicted
}

// Len reports how many carts are resident in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
