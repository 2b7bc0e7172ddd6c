package enums

import "fmt"

// ItemCategory represents the canonical item categories supported by the catalog.
type ItemCategory string

const (
	ItemCategoryElectronics ItemCategory = "electronics"
	ItemCategoryClothing    ItemCategory = "clothing"
	ItemCategoryBooks       ItemCategory = "books"
	ItemCategoryHome        ItemCategory = "home"
	ItemCategorySports      ItemCategory = "sports"
	ItemCategoryBeauty      ItemCategory = "beauty"
)

var validItemCategories = []ItemCategory{
	ItemCategoryElectronics,
	ItemCategoryClothing,
	ItemCategoryBooks,
	ItemCategoryHome,
	ItemCategorySports,
	ItemCategoryBeauty,
}

// String implements fmt.Stringer.
func (c ItemCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ItemCategory.
func (c ItemCategory) IsValid() bool {
	for _, candidate := range validItemCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseItemCategory converts raw input into an ItemCategory.
func ParseItemCategory(value string) (ItemCategory, error) {
	for _, candidate := range validItemCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item category %q", value)
}

// ItemCategories returns the full known category set in declaration order.
func ItemCategories() []ItemCategory {
	out := make([]ItemCategory, len(validItemCategories))
	copy(out, validItemCategories)
	return out
}
