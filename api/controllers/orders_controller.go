package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/api/middleware"
	"github.com/greenbasket/greenbasket-backend/api/responses"
	"github.com/greenbasket/greenbasket-backend/api/validators"
	"github.com/greenbasket/greenbasket-backend/internal/cart"
	"github.com/greenbasket/greenbasket-backend/internal/orders"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

type OrdersController struct {
	service *orders.Service
	manager *cart.Manager
	logg    *logger.Logger
}

func NewOrdersController(service *orders.Service, manager *cart.Manager, logg *logger.Logger) (*OrdersController, error) {
	if service == nil {
		return nil, errors.New(errors.CodeInternal, "orders controller requires the orders service")
	}
	if manager == nil {
		return nil, errors.New(errors.CodeInternal, "orders controller requires the cart manager")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "orders controller requires a logger")
	}
	return &OrdersController{service: service, manager: manager, logg: logg}, nil
}

// Submit checks out the caller's cart.
func (c *OrdersController) Submit(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return
	}

	var input orders.SubmitInput
	if err := validators.DecodeJSONBody(r, &input); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	store, err := c.manager.StoreFor(r.Context(), customerID.String())
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	order, err := c.service.Submit(r.Context(), customerID, store, input)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, order)
}

// List pages the caller's order history.
func (c *OrdersController) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, next, err := c.service.List(r.Context(), customerID, pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]any{
		"orders":      rows,
		"next_cursor": next,
	})
}

// Get returns one of the caller's orders with its lines.
func (c *OrdersController) Get(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return
	}
	orderID, err := uuid.Parse(chi.URLParam(r, "orderID"))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "invalid order id"))
		return
	}

	order, err := c.service.Get(r.Context(), customerID, orderID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, order)
}
