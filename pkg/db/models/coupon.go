package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a percentage discount code. Codes are stored upper-cased.
type Coupon struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string     `gorm:"column:code;not null;uniqueIndex"`
	Percent   int64      `gorm:"column:percent;not null"`
	IsActive  bool       `gorm:"column:is_active;not null;default:true"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
