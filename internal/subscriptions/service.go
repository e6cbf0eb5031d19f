package subscriptions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenbasket/greenbasket-backend/pkg/db/models"
	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/errors"
)

// Service manages recurring deliveries created from subscription-flagged
// order lines.
type Service struct {
	repo *Repository
	now  func() time.Time
}

func NewService(repo *Repository) (*Service, error) {
	if repo == nil {
		return nil, errors.New(errors.CodeInternal, "subscriptions service requires a repository")
	}
	return &Service{repo: repo, now: time.Now}, nil
}

// CreateParams describes a subscription to open from an order line.
type CreateParams struct {
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	OrderID    *uuid.UUID
	Quantity   int
	Frequency  enums.SubscriptionFrequency
}

// Create opens an active subscription with its first delivery one full
// interval out.
func (s *Service) Create(ctx context.Context, tx *gorm.DB, params CreateParams) (*models.Subscription, error) {
	if !params.Frequency.IsValid() {
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unknown frequency %q", params.Frequency))
	}
	if params.Quantity < 1 {
		return nil, errors.New(errors.CodeValidation, "quantity must be at least 1")
	}

	subscription := &models.Subscription{
		ID:             uuid.New(),
		CustomerID:     params.CustomerID,
		ProductID:      params.ProductID,
		OrderID:        params.OrderID,
		Quantity:       params.Quantity,
		Frequency:      params.Frequency,
		Status:         enums.SubscriptionStatusActive,
		NextDeliveryAt: s.nextDelivery(s.now(), params.Frequency),
	}
	if err := s.repo.Insert(ctx, tx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

// List returns the customer's subscriptions, newest first.
func (s *Service) List(ctx context.Context, customerID uuid.UUID) ([]models.Subscription, error) {
	return s.repo.ListForCustomer(ctx, customerID)
}

// Apply runs a lifecycle action on the customer's subscription. Canceled
// subscriptions accept no further actions.
func (s *Service) Apply(ctx context.Context, customerID, subscriptionID uuid.UUID, action enums.SubscriptionAction) (*models.Subscription, error) {
	subscription, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription.CustomerID != customerID {
		return nil, errors.New(errors.CodeNotFound, "subscription not found")
	}
	if subscription.Status == enums.SubscriptionStatusCanceled {
		return nil, errors.New(errors.CodeStateConflict, "subscription is canceled")
	}

	now := s.now()
	switch action {
	case enums.SubscriptionActionPause:
		if subscription.Status == enums.SubscriptionStatusPaused {
			return nil, errors.New(errors.CodeStateConflict, "subscription is already paused")
		}
		subscription.Status = enums.SubscriptionStatusPaused
		subscription.PausedAt = &now
	case enums.SubscriptionActionResume:
		if subscription.Status != enums.SubscriptionStatusPaused {
			return nil, errors.New(errors.CodeStateConflict, "subscription is not paused")
		}
		subscription.Status = enums.SubscriptionStatusActive
		subscription.PausedAt = nil
		if subscription.NextDeliveryAt.Before(now) {
			subscription.NextDeliveryAt = s.nextDelivery(now, subscription.Frequency)
		}
	case enums.SubscriptionActionCancel:
		subscription.Status = enums.SubscriptionStatusCanceled
		subscription.CanceledAt = &now
	case enums.SubscriptionActionSkip:
		if subscription.Status != enums.SubscriptionStatusActive {
			return nil, errors.New(errors.CodeStateConflict, "only active subscriptions can skip")
		}
		subscription.NextDeliveryAt = s.nextDelivery(subscription.NextDeliveryAt, subscription.Frequency)
	default:
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unknown action %q", action))
	}

	if err := s.repo.Update(ctx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}

// AdvanceDue rolls every due subscription forward one interval and returns
// how many were advanced. The cron delivery job calls this on its tick.
func (s *Service) AdvanceDue(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	now := s.now()
	due, err := s.repo.ListDue(ctx, now, batchSize)
	if err != nil {
		return 0, err
	}
	advanced := 0
	for i := range due {
		due[i].NextDeliveryAt = s.nextDelivery(due[i].NextDeliveryAt, due[i].Frequency)
		// Deliveries missed across a long outage collapse onto one
		// future date instead of queueing several in the past.
		if due[i].NextDeliveryAt.Before(now) {
			due[i].NextDeliveryAt = s.nextDelivery(now, due[i].Frequency)
		}
		if err := s.repo.Update(ctx, &due[i]); err != nil {
			return advanced, err
		}
		advanced++
	}
	return advanced, nil
}

func (s *Service) nextDelivery(from time.Time, frequency enums.SubscriptionFrequency) time.Time {
	return from.AddDate(0, 0, frequency.IntervalDays())
}
