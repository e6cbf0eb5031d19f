package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/api/middleware"
	"github.com/greenbasket/greenbasket-backend/api/responses"
	"github.com/greenbasket/greenbasket-backend/api/validators"
	"github.com/greenbasket/greenbasket-backend/internal/reviews"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

type ReviewsController struct {
	service *reviews.Service
	logg    *logger.Logger
}

func NewReviewsController(service *reviews.Service, logg *logger.Logger) (*ReviewsController, error) {
	if service == nil {
		return nil, errors.New(errors.CodeInternal, "reviews controller requires the reviews service")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "reviews controller requires a logger")
	}
	return &ReviewsController{service: service, logg: logg}, nil
}

type createReviewRequest struct {
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Title  *string `json:"title"`
	Body   *string `json:"body"`
}

// Create submits or updates the caller's review for a product.
func (c *ReviewsController) Create(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return
	}
	productID, err := uuid.Parse(chi.URLParam(r, "productKey"))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "invalid product id"))
		return
	}
	var req createReviewRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	review, err := c.service.Create(r.Context(), reviews.CreateInput{
		ProductID:  productID,
		CustomerID: customerID,
		Rating:     req.Rating,
		Title:      req.Title,
		Body:       req.Body,
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusCreated, review)
}

// List pages a product's reviews alongside the rating summary.
func (c *ReviewsController) List(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productKey"))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "invalid product id"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	rows, next, err := c.service.ListForProduct(r.Context(), productID, pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	summary, err := c.service.Summary(r.Context(), productID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, map[string]any{
		"reviews":     rows,
		"summary":     summary,
		"next_cursor": next,
	})
}
