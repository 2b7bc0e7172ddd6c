package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/markhallen/storefront/pkg/enums"
	"github.com/markhallen/storefront/pkg/pagination"
)

// Sort columns accepted by the browse endpoint.
const (
	SortByCreatedAt = "created_at"
	SortByPrice     = "price"
	SortByName      = "name"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// ItemListFilters describe the supported filter knobs for the browse endpoint.
type ItemListFilters struct {
	Category *enums.ItemCategory `json:"category,omitempty"`
	PriceMin *decimal.Decimal    `json:"price_min,omitempty"`
	PriceMax *decimal.Decimal    `json:"price_max,omitempty"`
	Query    string              `json:"q,omitempty"`
}

// ListItemsInput captures the inputs needed to paginate/filter the catalog.
type ListItemsInput struct {
	Filters    ItemListFilters
	Pagination pagination.Params
	SortBy     string
	Order      string
	Page       int
}
