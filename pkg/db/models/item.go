package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markhallen/storefront/pkg/enums"
)

// Item represents a catalog listing. Price and stock are authoritative here;
// carts only reference items and re-read both at save time.
type Item struct {
	ID          uuid.UUID          `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string             `gorm:"column:name;not null"`
	Description string             `gorm:"column:description;not null"`
	Price       decimal.Decimal    `gorm:"column:price;type:numeric(12,2);not null"`
	Category    enums.ItemCategory `gorm:"column:category;type:text;not null"`
	ImageURL    string             `gorm:"column:image_url;not null"`
	Stock       int                `gorm:"column:stock;not null;default:0"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
