package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/pkg/enums"
)

// Subscription is a recurring delivery created from a subscription-flagged
// order line.
type Subscription struct {
	ID             uuid.UUID                   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID     uuid.UUID                   `gorm:"column:customer_id;type:uuid;not null;index"`
	ProductID      uuid.UUID                   `gorm:"column:product_id;type:uuid;not null"`
	OrderID        *uuid.UUID                  `gorm:"column:order_id;type:uuid"`
	Quantity       int                         `gorm:"column:quantity;not null;default:1"`
	Frequency      enums.SubscriptionFrequency `gorm:"column:frequency;not null"`
	Status         enums.SubscriptionStatus    `gorm:"column:status;not null;default:'active'"`
	NextDeliveryAt time.Time                   `gorm:"column:next_delivery_at;not null"`
	PausedAt       *time.Time                  `gorm:"column:paused_at"`
	CanceledAt     *time.Time                  `gorm:"column:canceled_at"`
	CreatedAt      time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}
