package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/markhallen/storefront/pkg/db/models"
	pkgerrors "github.com/markhallen/storefront/pkg/errors"
)

// Service is the authoritative server-side cart store. Totals are always
// recomputed from live catalog prices when a cart is saved; the stored total
// is never trusted as input.
type Service interface {
	Fetch(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Add(ctx context.Context, userID, itemID uuid.UUID, qty int) (*CartDTO, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, qty int) (*CartDTO, error)
	Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error)
	Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	Replace(ctx context.Context, userID uuid.UUID, lines []ReplaceLine) (*CartDTO, error)
}

type itemReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error)
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	DB    *gorm.DB
	Repo  *Repository
	Items itemReader
}

type service struct {
	db    *gorm.DB
	repo  *Repository
	items itemReader
}

// NewService constructs a cart service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db handle required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("item reader required")
	}
	return &service{
		db:    params.DB,
		repo:  params.Repo,
		items: params.Items,
	}, nil
}

// Fetch returns the user's cart, creating an empty one on first use.
func (s *service) Fetch(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.hydrated(ctx, cart)
}

func (s *service) Add(ctx context.Context, userID, itemID uuid.UUID, qty int) (*CartDTO, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}

	// Stock bounds the single request, not the accumulated line quantity.
	// Rejecting before touching the cart leaves a failed add without effect.
	if qty > item.Stock {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock available").
			WithDetails(map[string]any{
				"item_id":   itemID,
				"requested": qty,
				"available": item.Stock,
			})
	}

	cart, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := findLine(cart, itemID)
	if line != nil {
		line.Quantity += qty
	} else {
		cart.Lines = append(cart.Lines, models.CartLine{
			ID:       uuid.New(),
			CartID:   cart.ID,
			ItemID:   itemID,
			Quantity: qty,
			Position: nextPosition(cart),
		})
		line = &cart.Lines[len(cart.Lines)-1]
	}

	if err := s.persistLineChange(ctx, cart, line, false); err != nil {
		return nil, err
	}
	return s.hydrated(ctx, cart)
}

func (s *service) Update(ctx context.Context, userID, itemID uuid.UUID, qty int) (*CartDTO, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := findLine(cart, itemID)
	if line == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
	}

	if qty <= 0 {
		removeLine(cart, itemID)
		if err := s.persistLineChange(ctx, cart, &models.CartLine{CartID: cart.ID, ItemID: itemID}, true); err != nil {
			return nil, err
		}
		return s.hydrated(ctx, cart)
	}

	line.Quantity = qty
	if err := s.persistLineChange(ctx, cart, line, false); err != nil {
		return nil, err
	}
	return s.hydrated(ctx, cart)
}

// Remove deletes the item's line. Removing an absent item is a no-op.
func (s *service) Remove(ctx context.Context, userID, itemID uuid.UUID) (*CartDTO, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if findLine(cart, itemID) == nil {
		return s.hydrated(ctx, cart)
	}

	removeLine(cart, itemID)
	if err := s.persistLineChange(ctx, cart, &models.CartLine{CartID: cart.ID, ItemID: itemID}, true); err != nil {
		return nil, err
	}
	return s.hydrated(ctx, cart)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	cart, err := s.requireCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Lines = nil
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ReplaceLines(ctx, cart.ID, nil); err != nil {
			return err
		}
		return repo.UpdateTotal(ctx, cart.ID, decimal.Zero)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return s.hydrated(ctx, cart)
}

// Replace overwrites the full line set, keyed by item id. Duplicate items
// collapse to the last quantity, zero quantities drop out, and lines whose
// item no longer exists in the catalog are discarded.
func (s *service) Replace(ctx context.Context, userID uuid.UUID, lines []ReplaceLine) (*CartDTO, error) {
	cart, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	order := make([]uuid.UUID, 0, len(lines))
	quantities := make(map[uuid.UUID]int, len(lines))
	for _, line := range lines {
		if _, seen := quantities[line.ItemID]; !seen {
			order = append(order, line.ItemID)
		}
		quantities[line.ItemID] = line.Quantity
	}

	items, err := s.items.FindByIDs(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load items")
	}

	newLines := make([]models.CartLine, 0, len(order))
	for _, itemID := range order {
		qty := quantities[itemID]
		if qty <= 0 {
			continue
		}
		if _, ok := items[itemID]; !ok {
			continue
		}
		newLines = append(newLines, models.CartLine{
			ID:       uuid.New(),
			CartID:   cart.ID,
			ItemID:   itemID,
			Quantity: qty,
			Position: len(newLines),
		})
	}

	total := computeTotal(newLines, items)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ReplaceLines(ctx, cart.ID, newLines); err != nil {
			return err
		}
		return repo.UpdateTotal(ctx, cart.ID, total)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace cart")
	}

	cart.Lines = newLines
	return s.hydrated(ctx, cart)
}

func (s *service) fetchOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}

	created, err := s.repo.Create(ctx, userID)
	if err != nil {
		// A concurrent first fetch may have created the cart already.
		if existing, findErr := s.repo.FindByUser(ctx, userID); findErr == nil {
			return existing, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create cart")
	}
	return created, nil
}

func (s *service) requireCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart")
	}
	return cart, nil
}

// persistLineChange saves or deletes one line and the recomputed total in a
// single transaction.
func (s *service) persistLineChange(ctx context.Context, cart *models.Cart, line *models.CartLine, deleted bool) error {
	items, err := s.itemsForCart(ctx, cart)
	if err != nil {
		return err
	}
	total := computeTotal(cart.Lines, items)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if deleted {
			if err := repo.DeleteLine(ctx, cart.ID, line.ItemID); err != nil {
				return err
			}
		} else {
			if err := repo.SaveLine(ctx, line); err != nil {
				return err
			}
		}
		return repo.UpdateTotal(ctx, cart.ID, total)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart")
	}
	cart.Total = total
	return nil
}

func (s *service) itemsForCart(ctx context.Context, cart *models.Cart) (map[uuid.UUID]models.Item, error) {
	ids := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ItemID)
	}
	items, err := s.items.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load items")
	}
	return items, nil
}

func (s *service) hydrated(ctx context.Context, cart *models.Cart) (*CartDTO, error) {
	items, err := s.itemsForCart(ctx, cart)
	if err != nil {
		return nil, err
	}
	return toDTO(cart, items), nil
}

// computeTotal prices the lines against the live catalog. A line whose item
// is gone contributes zero rather than failing the save.
func computeTotal(lines []models.CartLine, items map[uuid.UUID]models.Item) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		item, ok := items[line.ItemID]
		if !ok {
			continue
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

func findLine(cart *models.Cart, itemID uuid.UUID) *models.CartLine {
	for i := range cart.Lines {
		if cart.Lines[i].ItemID == itemID {
			return &cart.Lines[i]
		}
	}
	return nil
}

func removeLine(cart *models.Cart, itemID uuid.UUID) {
	kept := cart.Lines[:0]
	for _, line := range cart.Lines {
		if line.ItemID != itemID {
			kept = append(kept, line)
		}
	}
	cart.Lines = kept
}

func nextPosition(cart *models.Cart) int {
	max := -1
	for _, line := range cart.Lines {
		if line.Position > max {
			max = line.Position
		}
	}
	return max + 1
}
