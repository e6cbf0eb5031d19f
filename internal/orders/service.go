package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket/greenbasket-backend/internal/cart"
	"github.com/greenbasket/greenbasket-backend/internal/products"
	"github.com/greenbasket/greenbasket-backend/internal/subscriptions"
	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

// TxRunner executes a function inside a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service turns a live cart into a persisted order. Pricing comes from a
// single consistent cart read; the order, its lines, stock decrements,
// and any subscriptions open in one transaction, and the purchased lines
// leave the cart only after the transaction commits.
type Service struct {
	repo          *Repository
	productsRepo  *products.Repository
	subscriptions *subscriptions.Service
	tx            TxRunner
}

type ServiceParams struct {
	Repo          *Repository
	ProductsRepo  *products.Repository
	Subscriptions *subscriptions.Service
	Tx            TxRunner
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New(errors.CodeInternal, "orders service requires a repository")
	}
	if params.ProductsRepo == nil {
		return nil, errors.New(errors.CodeInternal, "orders service requires a products repository")
	}
	if params.Subscriptions == nil {
		return nil, errors.New(errors.CodeInternal, "orders service requires the subscriptions service")
	}
	if params.Tx == nil {
		return nil, errors.New(errors.CodeInternal, "orders service requires a transaction runner")
	}
	return &Service{
		repo:          params.Repo,
		productsRepo:  params.ProductsRepo,
		subscriptions: params.Subscriptions,
		tx:            params.Tx,
	}, nil
}

// Submit checks out the customer's cart.
func (s *Service) Submit(ctx context.Context, customerID uuid.UUID, cartStore *cart.Store, input SubmitInput) (*models.Order, error) {
	// One consistent read of the cart; a concurrent mutation on the same
	// store cannot desync the persisted totals from the line items.
	view := cartStore.Checkout(ctx)
	lines := view.Lines
	if len(lines) == 0 {
		return nil, errors.New(errors.CodeValidation, "cart is empty")
	}

	input.ShippingAddress.Normalize()
	if !input.ShippingAddress.IsComplete() {
		return nil, errors.New(errors.CodeValidation, "shipping address is incomplete")
	}
	if !input.PaymentMode.IsValid() {
		return nil, errors.New(errors.CodeValidation, "unknown payment mode")
	}

	order := &models.Order{
		ID:            uuid.New(),
		CustomerID:    customerID,
		Status:        enums.OrderStatusPending,
		ShippingAddr:  input.ShippingAddress,
		PaymentMode:   input.PaymentMode,
		SubtotalCents: int(view.SubtotalCents),
		DiscountCents: int(view.DiscountCents),
		TotalCents:    int(view.TotalCents),
	}
	if view.Coupon != "" {
		code := view.Coupon
		order.CouponCode = &code
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, models.OrderLineItem{
			ID:                uuid.New(),
			OrderID:           order.ID,
			ProductID:         line.Product.ID,
			ProductTitle:      line.Product.Title,
			Quantity:          int(line.Quantity),
			UnitPriceCents:    int(line.Product.PriceCents),
			IsSubscription:    line.IsSubscription,
			Frequency:         line.Frequency,
			LineSubtotalCents: int(lineSubtotal(line)),
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		for _, line := range lines {
			if err := s.productsRepo.DecrementStock(ctx, tx, line.Product.ID, int(line.Quantity)); err != nil {
				return err
			}
		}
		if err := s.repo.Insert(ctx, tx, order); err != nil {
			return err
		}
		for _, line := range lines {
			if !line.IsSubscription || line.Frequency == nil {
				continue
			}
			_, err := s.subscriptions.Create(ctx, tx, subscriptions.CreateParams{
				CustomerID: customerID,
				ProductID:  line.Product.ID,
				OrderID:    &order.ID,
				Quantity:   int(line.Quantity),
				Frequency:  *line.Frequency,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cartStore.FinishCheckout(ctx, view)
	return order, nil
}

func (s *Service) Get(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	return s.repo.FindByID(ctx, customerID, orderID)
}

func (s *Service) List(ctx context.Context, customerID uuid.UUID, params pagination.Params) ([]models.Order, string, error) {
	return s.repo.ListForCustomer(ctx, customerID, params)
}

func lineSubtotal(line cart.Line) int64 {
	return cart.LineSubtotalCents(line)
}
