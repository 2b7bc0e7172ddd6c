package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine is one (item, quantity) pair within a cart. At most one line per
// (cart, item) pair exists; Position preserves the server-side relative order
// that the merge algorithm must keep stable. Quantity is always >= 1; a line
// dropping to zero is deleted, never persisted.
type CartLine struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID    uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_lines_cart_item,priority:1"`
	ItemID    uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_cart_lines_cart_item,priority:2"`
	Quantity  int       `gorm:"column:quantity;not null"`
	Position  int       `gorm:"column:position;not null;default:0"`
	Item      *Item     `gorm:"foreignKey:ItemID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
