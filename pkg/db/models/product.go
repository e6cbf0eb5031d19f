package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/greenbasket/greenbasket-backend/pkg/enums"
)

// Product is the canonical catalog listing. The cart holds a copy of the
// pricing-relevant fields, never a live reference.
type Product struct {
	ID                   uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug                 string                `gorm:"column:slug;not null;uniqueIndex"`
	Title                string                `gorm:"column:title;not null"`
	Subtitle             *string               `gorm:"column:subtitle"`
	Description          *string               `gorm:"column:description"`
	Category             enums.ProductCategory `gorm:"column:category;not null"`
	Tags                 pq.StringArray        `gorm:"column:tags;type:text[]"`
	PriceCents           int                   `gorm:"column:price_cents;not null"`
	CompareAtPriceCents  *int                  `gorm:"column:compare_at_price_cents"`
	SubscriptionEligible bool                  `gorm:"column:subscription_eligible;not null;default:false"`
	StockQty             int                   `gorm:"column:stock_qty;not null;default:0"`
	IsActive             bool                  `gorm:"column:is_active;not null;default:true"`
	IsFeatured           bool                  `gorm:"column:is_featured;not null;default:false"`
	ImageURL             *string               `gorm:"column:image_url"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
