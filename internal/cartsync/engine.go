package cartsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/markhallen/storefront/pkg/errors"
	"github.com/markhallen/storefront/pkg/logger"
	"github.com/markhallen/storefront/pkg/metrics"
)

// Engine holds the in-memory cart and drives the reconciliation protocol.
//
// A single mutex serializes every mutation and the identity transition, so a
// login reconciliation can never interleave with an add or a logout. The
// engine is optimistic and local-first: mutations apply to the in-memory
// cart and the local cache unconditionally; the remote store is written
// through only while authenticated, and a remote failure is logged and
// absorbed rather than rolled back.
type Engine struct {
	mu         sync.Mutex
	owner      Owner
	credential string
	current    Snapshot

	cache   LocalCache
	store   CartStore
	catalog Catalog
	logg    *logger.Logger
	stats   *metrics.CartSyncMetrics
}

// EngineParams bundles the collaborators required to build an engine.
type EngineParams struct {
	Cache   LocalCache
	Store   CartStore
	Catalog Catalog
	Logger  *logger.Logger
	Metrics *metrics.CartSyncMetrics
}

// NewEngine constructs an engine starting in the guest identity with an
// empty cart.
func NewEngine(params EngineParams) (*Engine, error) {
	if params.Cache == nil {
		return nil, fmt.Errorf("local cache is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("cart store is required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Engine{
		owner:   GuestOwner,
		current: EmptySnapshot(),
		cache:   params.Cache,
		store:   params.Store,
		catalog: params.Catalog,
		logg:    params.Logger,
		stats:   params.Metrics,
	}, nil
}

// SetIdentity transitions the engine to a new owner.
//
// For a concrete owner the engine reads that owner's own cached cart as the
// local baseline (the guest slot is never consulted), fetches the server
// cart, merges the two, and writes the merged cart back to both stores. The
// merged cart is returned and becomes the current state even if the remote
// push fails.
//
// For the guest owner (logout) the in-memory cart is discarded and replaced
// with a fresh empty cart. Nothing is written anywhere; the guest cache slot
// stays untouched until a guest mutation occurs.
//
// A concrete owner without a credential adopts the cached baseline and stays
// local: no server fetch, no merge, no remote push.
func (e *Engine) SetIdentity(ctx context.Context, owner Owner, credential string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	started := time.Now()

	if owner.IsGuest() {
		e.owner = GuestOwner
		e.credential = ""
		e.current = EmptySnapshot()
		e.stats.ObserveSync("guest", 0, time.Since(started))
		return e.current.Clone(), nil
	}

	ctx = e.logg.WithCartOwner(ctx, string(owner))
	e.owner = owner
	e.credential = credential

	baseline := EmptySnapshot()
	if cached, err := e.cache.Read(ctx, owner); err != nil {
		e.logg.Error(ctx, "reading cached cart baseline", err)
	} else if cached != nil {
		baseline = cached.Clone()
	}
	e.current = baseline

	if credential == "" {
		e.stats.ObserveSync("local_only", len(e.current.Lines), time.Since(started))
		return e.current.Clone(), nil
	}

	server, err := e.store.Fetch(ctx, credential)
	if err != nil {
		// The local baseline stands alone until the next successful sync.
		e.logg.Error(ctx, "fetching server cart", err)
		e.stats.ObserveSync("remote_unavailable", len(e.current.Lines), time.Since(started))
		return e.current.Clone(), nil
	}

	merged := Merge(baseline, *server)
	merged = e.hydrate(ctx, merged)
	e.current = merged

	if err := e.cache.Write(ctx, owner, merged); err != nil {
		e.logg.Error(ctx, "caching merged cart", err)
	}
	if _, err := e.store.Replace(ctx, credential, merged.Lines); err != nil {
		e.logg.Error(ctx, "pushing merged cart", err)
		e.stats.IncRemoteWriteFailure()
	}

	e.stats.ObserveSync("merged", len(merged.Lines), time.Since(started))
	return merged.Clone(), nil
}

// AddItem puts qty units of the item into the cart, incrementing an existing
// line or appending a new one. When the last-known stock is known it bounds
// the single request, not the accumulated line quantity; the server remains
// the final authority on its own copy.
func (e *Engine) AddItem(ctx context.Context, item Item, qty int) (Snapshot, error) {
	if qty < 1 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if item.ID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	if item.Stock > 0 && qty > item.Stock {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock available").
			WithDetails(map[string]any{
				"item_id":   item.ID,
				"requested": qty,
				"available": item.Stock,
			})
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.lineIndex(item.ID)
	if idx >= 0 {
		e.current.Lines[idx].Quantity += qty
		e.current.Lines[idx].Name = item.Name
		e.current.Lines[idx].Price = item.Price
		e.current.Lines[idx].ImageURL = item.ImageURL
		e.current.Lines[idx].Stock = item.Stock
	} else {
		e.current.Lines = append(e.current.Lines, Line{
			ItemID:   item.ID,
			Quantity: qty,
			Name:     item.Name,
			Price:    item.Price,
			ImageURL: item.ImageURL,
			Stock:    item.Stock,
		})
	}
	e.current.Total = computeTotal(e.current.Lines)

	e.writeThrough(ctx, func(credential string) error {
		_, err := e.store.Add(ctx, credential, item.ID, qty)
		return err
	})
	return e.current.Clone(), nil
}

// RemoveItem drops the item's line. Removing an absent item is a no-op and
// triggers no writes.
func (e *Engine) RemoveItem(ctx context.Context, itemID uuid.UUID) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.lineIndex(itemID)
	if idx < 0 {
		return e.current.Clone(), nil
	}

	e.current.Lines = append(e.current.Lines[:idx], e.current.Lines[idx+1:]...)
	e.current.Total = computeTotal(e.current.Lines)

	e.writeThrough(ctx, func(credential string) error {
		_, err := e.store.Remove(ctx, credential, itemID)
		return err
	})
	return e.current.Clone(), nil
}

// UpdateQuantity sets (not adds) the quantity for the item's line. A
// non-positive quantity removes the line.
func (e *Engine) UpdateQuantity(ctx context.Context, itemID uuid.UUID, qty int) (Snapshot, error) {
	if qty <= 0 {
		return e.RemoveItem(ctx, itemID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.lineIndex(itemID)
	if idx < 0 {
		return e.current.Clone(), nil
	}

	e.current.Lines[idx].Quantity = qty
	e.current.Total = computeTotal(e.current.Lines)

	e.writeThrough(ctx, func(credential string) error {
		_, err := e.store.Update(ctx, credential, itemID, qty)
		return err
	})
	return e.current.Clone(), nil
}

// Clear empties the cart. The remote clear is an explicit full delete.
func (e *Engine) Clear(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = EmptySnapshot()

	e.writeThrough(ctx, func(credential string) error {
		_, err := e.store.Clear(ctx, credential)
		return err
	})
	return e.current.Clone(), nil
}

// Current returns a copy of the in-memory cart.
func (e *Engine) Current() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Clone()
}

// Total is the current cart total.
func (e *Engine) Total() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.Total
}

// ItemCount is the sum of the quantities in the current cart.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current.ItemCount()
}

// Owner returns the identity the engine currently holds.
func (e *Engine) Owner() Owner {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.owner
}

// writeThrough persists the current cart to the local cache and, when
// authenticated, pushes the mutation to the remote store. Both failure modes
// are logged and absorbed: the in-memory cart is already the user's truth.
// Callers must hold e.mu.
func (e *Engine) writeThrough(ctx context.Context, remote func(credential string) error) {
	ctx = e.logg.WithCartOwner(ctx, string(e.owner))

	if err := e.cache.Write(ctx, e.owner, e.current); err != nil {
		e.logg.Error(ctx, "caching cart snapshot", err)
	}

	if e.owner.IsGuest() {
		return
	}
	if err := remote(e.credential); err != nil {
		e.logg.Error(ctx, "writing cart to remote store", err)
		e.stats.IncRemoteWriteFailure()
	}
}

// hydrate refreshes name, price, image, and stock on every line from the
// catalog and recomputes the total. Lines the catalog no longer knows keep
// their quantity but price at zero.
func (e *Engine) hydrate(ctx context.Context, snap Snapshot) Snapshot {
	for i := range snap.Lines {
		item, err := e.catalog.Get(ctx, snap.Lines[i].ItemID)
		if err != nil {
			e.logg.Error(ctx, "hydrating cart line", err)
			continue
		}
		if item == nil {
			snap.Lines[i].Price = decimal.Zero
			snap.Lines[i].Stock = 0
			continue
		}
		snap.Lines[i].Name = item.Name
		snap.Lines[i].Price = item.Price
		snap.Lines[i].ImageURL = item.ImageURL
		snap.Lines[i].Stock = item.Stock
	}
	snap.Total = computeTotal(snap.Lines)
	return snap
}

func (e *Engine) lineIndex(itemID uuid.UUID) int {
	for i := range e.current.Lines {
		if e.current.Lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
