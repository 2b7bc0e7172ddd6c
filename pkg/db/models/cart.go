package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the server-authoritative cart record, one per user.
// Total is derived state: recomputed from live catalog prices on every save
// and never trusted as stored.
type Cart struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Lines     []CartLine      `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	Total     decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
