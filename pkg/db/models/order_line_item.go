package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/pkg/enums"
)

// OrderLineItem freezes one cart line at submission time.
type OrderLineItem struct {
	ID                uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID           uuid.UUID                    `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID         uuid.UUID                    `gorm:"column:product_id;type:uuid;not null"`
	ProductTitle      string                       `gorm:"column:product_title;not null"`
	Quantity          int                          `gorm:"column:quantity;not null"`
	UnitPriceCents    int                          `gorm:"column:unit_price_cents;not null"`
	IsSubscription    bool                         `gorm:"column:is_subscription;not null;default:false"`
	Frequency         *enums.SubscriptionFrequency `gorm:"column:frequency"`
	LineSubtotalCents int                          `gorm:"column:line_subtotal_cents;not null"`
	CreatedAt         time.Time                    `gorm:"column:created_at;autoCreateTime"`
}
