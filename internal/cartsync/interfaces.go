package cartsync

import (
	"context"

	"github.com/google/uuid"
)

// LocalCache persists per-owner cart snapshots on the client side of the
// protocol. Read returns (nil, nil) when no snapshot exists for the owner.
type LocalCache interface {
	Read(ctx context.Context, owner Owner) (*Snapshot, error)
	Write(ctx context.Context, owner Owner, snap Snapshot) error
}

// CartStore is the authoritative remote cart surface. Every call carries the
// bearer credential of the authenticated user.
type CartStore interface {
	Fetch(ctx context.Context, credential string) (*Snapshot, error)
	Add(ctx context.Context, credential string, itemID uuid.UUID, qty int) (*Snapshot, error)
	Update(ctx context.Context, credential string, itemID uuid.UUID, qty int) (*Snapshot, error)
	Remove(ctx context.Context, credential string, itemID uuid.UUID) (*Snapshot, error)
	Clear(ctx context.Context, credential string) (*Snapshot, error)
	Replace(ctx context.Context, credential string, lines []Line) (*Snapshot, error)
}

// Catalog resolves items for hydration. Get returns (nil, nil) for items the
// catalog no longer knows.
type Catalog interface {
	Get(ctx context.Context, itemID uuid.UUID) (*Item, error)
}
