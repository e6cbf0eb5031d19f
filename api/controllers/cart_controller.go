package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/api/middleware"
	"github.com/greenbasket/greenbasket-backend/api/responses"
	"github.com/greenbasket/greenbasket-backend/api/validators"
	"github.com/greenbasket/greenbasket-backend/internal/cart"
	"github.com/greenbasket/greenbasket-backend/internal/products"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
)

// CartController exposes the cart store over HTTP. Every handler resolves
// the caller's store through the manager, so state survives across
// requests and replicas via the snapshot store.
type CartController struct {
	manager  *cart.Manager
	products *products.Service
	logg     *logger.Logger
}

func NewCartController(manager *cart.Manager, productsService *products.Service, logg *logger.Logger) (*CartController, error) {
	if manager == nil {
		return nil, errors.New(errors.CodeInternal, "cart controller requires the cart manager")
	}
	if productsService == nil {
		return nil, errors.New(errors.CodeInternal, "cart controller requires the products service")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "cart controller requires a logger")
	}
	return &CartController{manager: manager, products: productsService, logg: logg}, nil
}

type cartLineView struct {
	Product        cart.ProductRef              `json:"product"`
	Quantity       int64                        `json:"quantity"`
	IsSubscription bool                         `json:"is_subscription"`
	Frequency      *enums.SubscriptionFrequency `json:"frequency,omitempty"`
	SubtotalCents  int64                        `json:"subtotal_cents"`
}

type cartView struct {
	Lines         []cartLineView `json:"lines"`
	ItemCount     int64          `json:"item_count"`
	SubtotalCents int64          `json:"subtotal_cents"`
	DiscountCents int64          `json:"discount_cents"`
	TotalCents    int64          `json:"total_cents"`
	Coupon        string         `json:"coupon,omitempty"`
	IsOpen        bool           `json:"is_open"`
}

type addItemRequest struct {
	ProductID      uuid.UUID `json:"product_id" validate:"required"`
	Quantity       int64     `json:"quantity" validate:"required,min=1"`
	IsSubscription bool      `json:"is_subscription"`
	Frequency      string    `json:"frequency" validate:"omitempty,oneof=weekly bi-weekly monthly"`
}

type updateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type updateSubscriptionRequest struct {
	IsSubscription bool   `json:"is_subscription"`
	Frequency      string `json:"frequency" validate:"omitempty,oneof=weekly bi-weekly monthly"`
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

type applyCouponResponse struct {
	Applied bool   `json:"applied"`
	Coupon  string `json:"coupon,omitempty"`
}

type drawerRequest struct {
	Action string `json:"action" validate:"required,oneof=open close toggle"`
}

func (c *CartController) storeFor(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return nil, false
	}
	store, err := c.manager.StoreFor(r.Context(), customerID.String())
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return nil, false
	}
	return store, true
}

func (c *CartController) view(r *http.Request, store *cart.Store) cartView {
	lines := store.Lines()
	views := make([]cartLineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, cartLineView{
			Product:        line.Product,
			Quantity:       line.Quantity,
			IsSubscription: line.IsSubscription,
			Frequency:      line.Frequency,
			SubtotalCents:  cart.LineSubtotalCents(line),
		})
	}
	view := cartView{
		Lines:         views,
		ItemCount:     store.ItemCount(),
		SubtotalCents: store.SubtotalCents(),
		DiscountCents: store.DiscountCents(r.Context()),
		TotalCents:    store.TotalCents(r.Context()),
		IsOpen:        store.IsOpen(),
	}
	if code, ok := store.Coupon(); ok {
		view.Coupon = code
	}
	return view
}

// Get returns the full cart view.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	responses.WriteSuccess(w, http.StatusOK, c.view(r, store))
}

// AddItem resolves the product and merges it into the cart.
func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	var frequency *enums.SubscriptionFrequency
	if req.IsSubscription {
		if req.Frequency == "" {
			responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "frequency is required for subscription lines"))
			return
		}
		parsed, err := enums.ParseSubscriptionFrequency(req.Frequency)
		if err != nil {
			responses.WriteError(r.Context(), w, c.logg, errors.Wrap(errors.CodeValidation, err, "invalid frequency"))
			return
		}
		frequency = &parsed
	}

	ref, err := c.products.CartRef(r.Context(), req.ProductID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	if req.IsSubscription && !ref.SubscriptionEligible {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "product is not subscription eligible"))
		return
	}

	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	store.AddItem(r.Context(), ref, req.Quantity, req.IsSubscription, frequency)
	responses.WriteSuccess(w, http.StatusOK, c.view(r, store))
}

// UpdateQuantity sets a line's quantity, removing the line at zero.
func (c *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "invalid product id"))
		return
	}
	var req updateQuantityRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	store.UpdateQuantity(r.Context(), productID, req.Quantity)
	responses.WriteSuccess(w, http.StatusOK, c.view(r, store))
}

// UpdateSubscription flips a line's recurring delivery settings.
func (c *CartController) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "invalid product id"))
		return
	}
	var req updateSubscriptionRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	var frequency *enums.SubscriptionFrequency
	if req.IsSubscription {
		if req.Frequency == "" {
			responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "frequency is required for subscription lines"))
			return
		}
		parsed, err := enums.ParseSubscriptionFrequency(req.Frequency)
		if err != nil {
			responses.WriteError(r.Context(), w, c.logg, errors.Wrap(errors.CodeValidation, err, "invalid frequency"))
			return
		}
		frequency = &parsed
	}

	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	store.UpdateSubscription(r.Context(), productID, req.IsSubscription, frequency)
	responses.WriteSuccess(w, http.StatusOK, c.view(r, store))
}

// RemoveItem drops a line from the cart.
func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "invalid product id"))
		return
	}
	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	store.RemoveItem(r.Context(), productID)
	responses.WriteSuccess(w, http.StatusOK, c.view(r, store))
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	store.Clear(r.Context())
	responses.WriteSuccess(w, http.StatusOK, c.view(r, store))
}

// ApplyCoupon validates and applies a code, reporting the outcome rather
// than failing the request for an invalid code.
func (c *CartController) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	applied := store.ApplyCoupon(r.Context(), req.Code)
	resp := applyCouponResponse{Applied: applied}
	if code, ok := store.Coupon(); ok {
		resp.Coupon = code
	}
	responses.WriteSuccess(w, http.StatusOK, resp)
}

// RemoveCoupon clears the applied code.
func (c *CartController) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	store.RemoveCoupon(r.Context())
	responses.WriteSuccess(w, http.StatusOK, c.view(r, store))
}

// Drawer shows, hides, or toggles the cart drawer.
func (c *CartController) Drawer(w http.ResponseWriter, r *http.Request) {
	var req drawerRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	store, ok := c.storeFor(w, r)
	if !ok {
		return
	}
	switch req.Action {
	case "open":
		store.Open()
	case "close":
		store.Close()
	case "toggle":
		store.Toggle()
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]bool{"is_open": store.IsOpen()})
}
