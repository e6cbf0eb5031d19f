package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/greenbasket/greenbasket-backend/pkg/enums"
	"github.com/greenbasket/greenbasket-backend/pkg/types"
)

// Order captures a submitted cart snapshot plus shipping and payment choices.
type Order struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID     uuid.UUID         `gorm:"column:customer_id;type:uuid;not null;index"`
	Status         enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	ShippingAddr   types.Address     `gorm:"column:shipping_address;type:jsonb;serializer:json"`
	PaymentMode    enums.PaymentMode `gorm:"column:payment_mode;not null"`
	CouponCode     *string           `gorm:"column:coupon_code"`
	SubtotalCents  int               `gorm:"column:subtotal_cents;not null;default:0"`
	DiscountCents  int               `gorm:"column:discount_cents;not null;default:0"`
	TotalCents     int               `gorm:"column:total_cents;not null;default:0"`
	Lines          []OrderLineItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
