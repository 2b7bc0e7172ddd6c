package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markhallen/storefront/pkg/db/models"
	"github.com/markhallen/storefront/pkg/enums"
)

// ItemDTO is the transport shape for a catalog listing.
type ItemDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	Category    enums.ItemCategory `json:"category"`
	ImageURL    string             `json:"image_url"`
	Stock       int                `json:"stock"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// CreateItemInput holds the validated payload to create a listing.
type CreateItemInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    enums.ItemCategory
	ImageURL    string
	Stock       int
}

// UpdateItemInput holds optional mutation values for a listing.
type UpdateItemInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *enums.ItemCategory
	ImageURL    *string
	Stock       *int
}

// ItemListResult is one page of listings plus the next page marker.
type ItemListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
	HasMore    bool      `json:"has_more"`
}

func FromModel(m *models.Item) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		ImageURL:    m.ImageURL,
		Stock:       m.Stock,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
