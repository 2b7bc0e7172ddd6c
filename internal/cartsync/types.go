package cartsync

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Owner identifies whose cart the engine is holding. It is either a concrete
// user identifier or the guest sentinel. The guest cache slot is written only
// by guest mutations and is never consulted during login reconciliation.
type Owner string

// GuestOwner is the anonymous identity the engine starts in and returns to on
// logout.
const GuestOwner Owner = "guest"

// OwnerForUser derives the cache owner for a concrete user id.
func OwnerForUser(userID uuid.UUID) Owner {
	return Owner(userID.String())
}

// IsGuest reports whether the owner is the anonymous sentinel.
func (o Owner) IsGuest() bool {
	return o == GuestOwner || strings.TrimSpace(string(o)) == ""
}

// Line is one (item, quantity) pair plus the last-known hydration of the
// item. Price and Stock are refreshed from the catalog on reconciliation; a
// line whose item cannot be hydrated prices at zero.
type Line struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity int             `json:"quantity"`
	Name     string          `json:"name,omitempty"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
	Stock    int             `json:"stock"`
}

// Item is the hydrated catalog view the engine validates against.
type Item struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
	Stock    int             `json:"stock"`
}

// Snapshot is an immutable value copy of a cart's state.
type Snapshot struct {
	Lines []Line          `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// EmptySnapshot returns a cart with no lines and a zero total.
func EmptySnapshot() Snapshot {
	return Snapshot{Lines: []Line{}, Total: decimal.Zero}
}

// ItemCount is the sum of all line quantities.
func (s Snapshot) ItemCount() int {
	count := 0
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// Clone returns a deep copy so callers cannot alias engine state.
func (s Snapshot) Clone() Snapshot {
	lines := make([]Line, len(s.Lines))
	copy(lines, s.Lines)
	return Snapshot{Lines: lines, Total: s.Total}
}

// computeTotal prices the snapshot from its hydrated lines. Lines with no
// hydration contribute zero.
func computeTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
