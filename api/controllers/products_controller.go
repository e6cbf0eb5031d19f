package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/api/responses"
	"github.com/greenbasket/greenbasket-backend/internal/products"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
	"github.com/greenbasket/greenbasket-backend/pkg/pagination"
)

type ProductsController struct {
	service *products.Service
	logg    *logger.Logger
}

func NewProductsController(service *products.Service, logg *logger.Logger) (*ProductsController, error) {
	if service == nil {
		return nil, errors.New(errors.CodeInternal, "products controller requires the products service")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "products controller requires a logger")
	}
	return &ProductsController{service: service, logg: logg}, nil
}

// List pages the catalog with optional filters.
func (c *ProductsController) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := products.ListFilter{
		Tag:              query.Get("tag"),
		Search:           query.Get("q"),
		FeaturedOnly:     query.Get("featured") == "true",
		SubscribableOnly: query.Get("subscribable") == "true",
	}
	if raw := query.Get("category"); raw != "" {
		category, err := enums.ParseProductCategory(raw)
		if err != nil {
			responses.WriteError(r.Context(), w, c.logg, errors.Wrap(errors.CodeValidation, err, "invalid category"))
			return
		}
		filter.Category = &category
	}

	limit, _ := strconv.Atoi(query.Get("limit"))
	result, err := c.service.List(r.Context(), filter, pagination.Params{
		Limit:  limit,
		Cursor: query.Get("cursor"),
	})
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, result)
}

// Get resolves a product by UUID or slug.
func (c *ProductsController) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "productKey")
	if id, err := uuid.Parse(key); err == nil {
		product, err := c.service.GetByID(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), w, c.logg, err)
			return
		}
		responses.WriteSuccess(w, http.StatusOK, product)
		return
	}

	product, err := c.service.GetBySlug(r.Context(), key)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, product)
}
