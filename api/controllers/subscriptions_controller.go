package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/api/middleware"
	"github.com/greenbasket/greenbasket-backend/api/responses"
	"github.com/greenbasket/greenbasket-backend/api/validators"
	"github.com/greenbasket/greenbasket-backend/internal/subscriptions"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
)

type SubscriptionsController struct {
	service *subscriptions.Service
	logg    *logger.Logger
}

func NewSubscriptionsController(service *subscriptions.Service, logg *logger.Logger) (*SubscriptionsController, error) {
	if service == nil {
		return nil, errors.New(errors.CodeInternal, "subscriptions controller requires the subscriptions service")
	}
	if logg == nil {
		return nil, errors.New(errors.CodeInternal, "subscriptions controller requires a logger")
	}
	return &SubscriptionsController{service: service, logg: logg}, nil
}

type subscriptionActionRequest struct {
	Action string `json:"action" validate:"required,oneof=pause resume cancel skip"`
}

// List returns the caller's subscriptions.
func (c *SubscriptionsController) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return
	}
	rows, err := c.service.List(r.Context(), customerID)
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, rows)
}

// Apply runs a lifecycle action on one subscription.
func (c *SubscriptionsController) Apply(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerID(r.Context())
	if !ok {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeUnauthorized, "missing customer identity"))
		return
	}
	subscriptionID, err := uuid.Parse(chi.URLParam(r, "subscriptionID"))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, errors.New(errors.CodeValidation, "invalid subscription id"))
		return
	}
	var req subscriptionActionRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}

	subscription, err := c.service.Apply(r.Context(), customerID, subscriptionID, enums.SubscriptionAction(req.Action))
	if err != nil {
		responses.WriteError(r.Context(), w, c.logg, err)
		return
	}
	responses.WriteSuccess(w, http.StatusOK, subscription)
}
