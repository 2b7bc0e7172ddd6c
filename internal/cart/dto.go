package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markhallen/storefront/pkg/db/models"
)

// CartDTO is the transport shape for a server cart with hydrated lines.
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Lines     []CartLineDTO `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CartLineDTO is one hydrated cart line. Item fields are resolved from the
// live catalog at read time; a line whose item no longer exists keeps its
// quantity but prices at zero.
type CartLineDTO struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Quantity  int             `json:"quantity"`
	Position  int             `json:"position"`
	Name      string          `json:"name,omitempty"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	Stock     int             `json:"stock"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// ReplaceLine is one entry in a full cart overwrite.
type ReplaceLine struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

func toDTO(cart *models.Cart, items map[uuid.UUID]models.Item) *CartDTO {
	if cart == nil {
		return nil
	}

	lines := make([]CartLineDTO, 0, len(cart.Lines))
	total := decimal.Zero
	for _, line := range cart.Lines {
		dto := CartLineDTO{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			Position:  line.Position,
			Price:     decimal.Zero,
			LineTotal: decimal.Zero,
		}
		if item, ok := items[line.ItemID]; ok {
			dto.Name = item.Name
			dto.Price = item.Price
			dto.ImageURL = item.ImageURL
			dto.Stock = item.Stock
			dto.LineTotal = item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		}
		total = total.Add(dto.LineTotal)
		lines = append(lines, dto)
	}

	return &CartDTO{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Lines:     lines,
		Total:     total,
		UpdatedAt: cart.UpdatedAt,
	}
}
