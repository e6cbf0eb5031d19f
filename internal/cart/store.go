package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/internal/coupons"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/metrics"
)

// Observer receives the committed snapshot after every cart mutation.
// Observers run synchronously under the store lock, so they must not call
// back into the store.
type Observer func(customerID string, snapshot Snapshot)

// Store holds one customer's cart. All mutations lock, commit in memory,
// persist a snapshot best-effort, then notify observers. A zero-value
// Store panics on first use; construct via NewStore.
type Store struct {
	mu          sync.Mutex
	customerID  string
	lines       []Line
	coupon      string
	drawerOpen  bool
	authority   coupons.Authority
	snapshots   SnapshotStore
	cartMetrics *metrics.CartMetrics
	logg        *logger.Logger
	observers   []Observer
	initialized bool
}

// StoreParams wires the collaborators a Store needs.
type StoreParams struct {
	CustomerID string
	Authority  coupons.Authority
	Snapshots  SnapshotStore
	Metrics    *metrics.CartMetrics
	Logger     *logger.Logger
}

func NewStore(params StoreParams) (*Store, error) {
	if params.CustomerID == "" {
		return nil, errors.New(errors.CodeInternal, "cart store requires a customer id")
	}
	if params.Authority == nil {
		return nil, errors.New(errors.CodeInternal, "cart store requires a coupon authority")
	}
	if params.Snapshots == nil {
		return nil, errors.New(errors.CodeInternal, "cart store requires a snapshot store")
	}
	if params.Logger == nil {
		return nil, errors.New(errors.CodeInternal, "cart store requires a logger")
	}
	return &Store{
		customerID:  params.CustomerID,
		authority:   params.Authority,
		snapshots:   params.Snapshots,
		cartMetrics: params.Metrics,
		logg:        params.Logger,
		initialized: true,
	}, nil
}

func (s *Store) ensureInitialized() {
	if !s.initialized {
		panic("cart: store used before initialization")
	}
}

// Restore loads the persisted snapshot, if any. A corrupt payload logs a
// warning and leaves the cart empty rather than blocking the session.
func (s *Store) Restore(ctx context.Context) error {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, found, err := s.snapshots.Load(ctx, s.customerID)
	if err != nil {
		return errors.Wrap(errors.CodeDependency, err, "load cart snapshot")
	}
	if !found {
		return nil
	}
	snapshot, err := decodeSnapshot(payload)
	if err != nil {
		s.logg.Warn(s.logCtx(ctx), "discarding corrupt cart snapshot")
		s.lines = nil
		s.coupon = ""
		return nil
	}
	lines, dropped := sanitizeLines(snapshot.Lines)
	if dropped > 0 {
		s.logg.Warn(s.logCtx(ctx), "dropping invalid cart snapshot lines")
	}
	s.lines = cloneLines(lines)
	s.coupon = snapshot.Coupon
	return nil
}

// Subscribe registers an observer for committed mutations.
func (s *Store) Subscribe(observer Observer) {
	s.ensureInitialized()
	if observer == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// AddItem merges the product into the cart, summing quantities for a line
// that already exists, and opens the drawer. Quantities added here are not
// capped; the cap applies on explicit quantity updates.
func (s *Store) AddItem(ctx context.Context, product ProductRef, quantity int64, isSubscription bool, frequency *enums.SubscriptionFrequency) {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := false
	for i := range s.lines {
		if s.lines[i].Product.ID == product.ID {
			s.lines[i].Quantity += quantity
			s.lines[i].IsSubscription = isSubscription
			s.lines[i].Frequency = copyFrequency(frequency)
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{
			Product:        product,
			Quantity:       quantity,
			IsSubscription: isSubscription,
			Frequency:      copyFrequency(frequency),
		})
	}
	s.drawerOpen = true
	s.commit(ctx, "add_item")
}

// RemoveItem drops the line for the product. Removing an absent product is
// a no-op and does not notify observers.
func (s *Store) RemoveItem(ctx context.Context, productID uuid.UUID) {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.commit(ctx, "remove_item")
			return
		}
	}
}

// UpdateQuantity sets the line quantity, clamped to MaxLineQuantity. A
// quantity of zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID uuid.UUID, quantity int64) {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
		} else {
			if quantity > MaxLineQuantity {
				quantity = MaxLineQuantity
			}
			s.lines[i].Quantity = quantity
		}
		s.commit(ctx, "update_quantity")
		return
	}
}

// UpdateSubscription flips a line's recurring delivery flag and frequency.
func (s *Store) UpdateSubscription(ctx context.Context, productID uuid.UUID, isSubscription bool, frequency *enums.SubscriptionFrequency) {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].Product.ID != productID {
			continue
		}
		s.lines[i].IsSubscription = isSubscription
		if isSubscription {
			s.lines[i].Frequency = copyFrequency(frequency)
		} else {
			s.lines[i].Frequency = nil
		}
		s.commit(ctx, "update_subscription")
		return
	}
}

// ApplyCoupon validates the code against the authority. A valid code is
// stored normalized and true is returned; an invalid code leaves the cart
// untouched and returns false.
func (s *Store) ApplyCoupon(ctx context.Context, code string) bool {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authority.IsValid(ctx, code) {
		s.cartMetrics.IncCouponRejection()
		return false
	}
	s.coupon = coupons.Normalize(code)
	s.commit(ctx, "apply_coupon")
	return true
}

// RemoveCoupon clears any applied coupon.
func (s *Store) RemoveCoupon(ctx context.Context) {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.coupon == "" {
		return
	}
	s.coupon = ""
	s.commit(ctx, "remove_coupon")
}

// Clear empties the cart, drops the coupon, and deletes the persisted
// snapshot.
func (s *Store) Clear(ctx context.Context) {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.coupon = ""
	if err := s.snapshots.Delete(ctx, s.customerID); err != nil {
		s.logg.Warn(s.logCtx(ctx), "failed to delete cart snapshot")
	}
	s.cartMetrics.IncMutation("clear")
	s.notify()
}

// Open shows the cart drawer.
func (s *Store) Open() {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = true
}

// Close hides the cart drawer.
func (s *Store) Close() {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = false
}

// Toggle flips drawer visibility.
func (s *Store) Toggle() {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawerOpen = !s.drawerOpen
}

// IsOpen reports drawer visibility.
func (s *Store) IsOpen() bool {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drawerOpen
}

// Lines returns a copy of the cart lines in insertion order.
func (s *Store) Lines() []Line {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneLines(s.lines)
}

// Coupon returns the applied code, if any.
func (s *Store) Coupon() (string, bool) {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.coupon, s.coupon != ""
}

// ItemCount sums quantities across all lines.
func (s *Store) ItemCount() int64 {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// SubtotalCents prices every line, subscription discounts included.
func (s *Store) SubtotalCents() int64 {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotalCents(s.lines)
}

// DiscountCents is the coupon discount on the current subtotal.
func (s *Store) DiscountCents(ctx context.Context) int64 {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.discountLocked(ctx)
}

// TotalCents is subtotal minus coupon discount.
func (s *Store) TotalCents(ctx context.Context) int64 {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotalCents(s.lines) - s.discountLocked(ctx)
}

// CheckoutView is the cart as read for order submission: lines, coupon,
// and derived totals captured under one lock so a concurrent mutation
// cannot split them across inconsistent reads.
type CheckoutView struct {
	Lines         []Line
	Coupon        string
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// Checkout captures a consistent view of the cart for order submission.
func (s *Store) Checkout(ctx context.Context) CheckoutView {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	subtotal := subtotalCents(s.lines)
	discount := s.discountLocked(ctx)
	return CheckoutView{
		Lines:         cloneLines(s.lines),
		Coupon:        s.coupon,
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    subtotal - discount,
	}
}

// FinishCheckout removes the purchased quantities once the order has
// committed and drops the coupon. Lines added or topped up since the
// view was taken keep their remainder; the persisted snapshot is
// deleted when the cart empties out.
func (s *Store) FinishCheckout(ctx context.Context, view CheckoutView) {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	purchased := make(map[uuid.UUID]int64, len(view.Lines))
	for _, line := range view.Lines {
		purchased[line.Product.ID] = line.Quantity
	}
	var kept []Line
	for _, line := range s.lines {
		remaining := line.Quantity - purchased[line.Product.ID]
		if remaining <= 0 {
			continue
		}
		line.Quantity = remaining
		kept = append(kept, line)
	}
	s.lines = kept
	s.coupon = ""

	if len(s.lines) == 0 {
		if err := s.snapshots.Delete(ctx, s.customerID); err != nil {
			s.logg.Warn(s.logCtx(ctx), "failed to delete cart snapshot")
		}
		s.cartMetrics.IncMutation("finish_checkout")
		s.notify()
		return
	}
	s.commit(ctx, "finish_checkout")
}

// Snapshot returns the serializable view of the cart.
func (s *Store) Snapshot() Snapshot {
	s.ensureInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) discountLocked(ctx context.Context) int64 {
	if s.coupon == "" {
		return 0
	}
	return discountCents(subtotalCents(s.lines), s.authority.PercentFor(ctx, s.coupon))
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Lines: cloneLines(s.lines), Coupon: s.coupon}
}

// commit persists the current state and notifies observers. Persistence
// failures are logged and swallowed so a flaky backend never rejects an
// in-memory mutation.
func (s *Store) commit(ctx context.Context, op string) {
	s.cartMetrics.IncMutation(op)
	payload, err := encodeSnapshot(s.snapshotLocked())
	if err != nil {
		s.cartMetrics.IncSnapshotFailure()
		s.logg.Error(s.logCtx(ctx), "failed to encode cart snapshot", err)
	} else if err := s.snapshots.Save(ctx, s.customerID, payload); err != nil {
		s.cartMetrics.IncSnapshotFailure()
		s.logg.Error(s.logCtx(ctx), "failed to persist cart snapshot", err)
	}
	s.notify()
}

func (s *Store) notify() {
	snapshot := s.snapshotLocked()
	for _, observer := range s.observers {
		observer(s.customerID, snapshot)
	}
}

func (s *Store) logCtx(ctx context.Context) context.Context {
	return s.logg.WithCustomerID(ctx, s.customerID)
}

func copyFrequency(frequency *enums.SubscriptionFrequency) *enums.SubscriptionFrequency {
	if frequency == nil {
		return nil
	}
	freq := *frequency
	return &freq
}
