package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/api/middleware"
	"github.com/greenbasket/greenbasket-backend/api/responses"
	"github.com/greenbasket/greenbasket-backend/api/validators"
	"github.com/greenbasket/greenbasket-backend/internal/wishlist"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

type WishlistController struct {
	service *wishlist.Service
	logg    *logger.Logger
}

func NewWishlistController(service *wishlist.Service, logg *logger.Logger) (*WishlistController, error) {
	if service == nil {
		return nil, errors.New(errors.CodeInternal, "wishlist controller requires the wishlist service")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "wishlist controller requires a logger")
	}
	return &WishlistController{service: service, logg: logg}, nil
}

type wishlistAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// List pages the caller's saved products.
func (c *WishlistController) List(w http.ResponseWriter, r *http.Request) {
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
		"items":       rows,
		"next_cursor": next,
	})
}

// Add saves a product.
func (c *WishlistController) Add(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return
	}
	var req wishlistAddRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	if err := c.service.Add(r.Context(), customerID, req.ProductID); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, nil)
}

// Remove drops a saved product.
func (c *WishlistController) Remove(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "invalid product id"))
		return
	}
	if err := c.service.Remove(r.Context(), customerID, productID); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, nil)
}
