package cron

import (
	"context"
	"time"

	"github.com/greenbasket/greenbasket-backend/internal/cart"
	"github.com/greenbasket/greenbasket-backend/internal/coupons"
	"github.com/greenbasket/greenbasket-backend/internal/subscriptions"
	"github.com/greenbasket/greenbasket-backend/pkg/logger"
)

const deliveryBatchSize = 200

// SubscriptionDeliveryJob rolls due subscriptions forward one interval.
type SubscriptionDeliveryJob struct {
	service *subscriptions.Service
	logg    *logger.Logger
}

func NewSubscriptionDeliveryJob(service *subscriptions.Service, logg *logger.Logger) *SubscriptionDeliveryJob {
	return &SubscriptionDeliveryJob{service: service, logg: logg}
}

func (j *SubscriptionDeliveryJob) Name() string {
	return "subscription-delivery"
}

func (j *SubscriptionDeliveryJob) Run(ctx context.Context) error {
	total := 0
	for {
		advanced, err := j.service.AdvanceDue(ctx, deliveryBatchSize)
		total += advanced
		if err != nil {
			return err
		}
		if advanced < deliveryBatchSize {
			break
		}
	}
	j.logg.Info(j.logg.WithField(ctx, "advanced", total), "subscription deliveries scheduled")
	return nil
}

// CouponExpiryJob deactivates coupons past their expiry.
type CouponExpiryJob struct {
	repo *coupons.Repository
	logg *logger.Logger
}

func NewCouponExpiryJob(repo *coupons.Repository, logg *logger.Logger) *CouponExpiryJob {
	return &CouponExpiryJob{repo: repo, logg: logg}
}

func (j *CouponExpiryJob) Name() string {
	return "coupon-expiry"
}

func (j *CouponExpiryJob) Run(ctx context.Context) error {
	expired, err := j.repo.ExpireStale(ctx, time.Now())
	if err != nil {
		return err
	}
	j.logg.Info(j.logg.WithField(ctx, "expired", expired), "stale coupons deactivated")
	return nil
}

// CartEvictionJob drops idle in-memory carts. Persisted snapshots survive,
// so an evicted cart reloads on the customer's next request.
type CartEvictionJob struct {
	manager *cart.Manager
	logg    *logger.Logger
}

func NewCartEvictionJob(manager *cart.Manager, logg *logger.Logger) *CartEvictionJob {
	return &CartEvictionJob{manager: manager, logg: logg}
}

func (j *CartEvictionJob) Name() string {
	return "cart-eviction"
}

func (j *CartEvictionJob) Run(ctx context.Context) error {
	evicted := j.manager.EvictIdle()
	j.logg.Info(j.logg.WithField(ctx, "evicted", evicted), "idle carts evicted")
	return nil
}
