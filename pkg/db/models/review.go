package models

import (
	"time"

	"github.com/google/uuid"
)

// Review is a customer rating on a catalog product.
type Review struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null;index:reviews_product_id_idx;uniqueIndex:reviews_customer_product_key"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:reviews_customer_product_key"`
	Rating     int       `gorm:"column:rating;not null"`
	Title      *string   `gorm:"column:title"`
	Body       *string   `gorm:"column:body"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
