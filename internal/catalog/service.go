package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/markhallen/storefront/pkg/db/models"
	"github.com/markhallen/storefront/pkg/enums"
	pkgerrors "github.com/markhallen/storefront/pkg/errors"
)

// Service exposes catalog browse and management operations.
type Service interface {
	List(ctx context.Context, input ListItemsInput) (*ItemListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error)
	StockOf(ctx context.Context, id uuid.UUID) (int, error)
	Categories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListItemsInput) (*ItemListResult, error) {
	sortBy := strings.TrimSpace(input.SortBy)
	switch sortBy {
	case "", SortByCreatedAt, SortByPrice, SortByName:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported sort column %q", sortBy))
	}

	if input.Filters.PriceMin != nil && input.Filters.PriceMax != nil &&
		input.Filters.PriceMin.GreaterThan(*input.Filters.PriceMax) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max")
	}
	if input.Filters.Category != nil && !input.Filters.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", *input.Filters.Category))
	}

	result, err := s.repo.ListItems(ctx, itemListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
		SortBy:     sortBy,
		Order:      input.Order,
		Page:       input.Page,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list items")
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	return FromModel(item), nil
}

func (s *service) StockOf(ctx context.Context, id uuid.UUID) (int, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return item.Stock, nil
}

func (s *service) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list categories")
	}
	return categories, nil
}

func (s *service) Create(ctx context.Context, input CreateItemInput) (*ItemDTO, error) {
	if err := validateItemFields(input.Name, input.Price, input.Category, input.Stock); err != nil {
		return nil, err
	}

	item := &models.Item{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
	}
	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create item")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}

	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Category != nil {
		item.Category = *input.Category
	}
	if input.ImageURL != nil {
		item.ImageURL = *input.ImageURL
	}
	if input.Stock != nil {
		item.Stock = *input.Stock
	}

	if err := validateItemFields(item.Name, item.Price, item.Category, item.Stock); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update item")
	}
	return FromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load item")
	}
	if err := s.repo.DeleteItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete item")
	}
	return nil
}

func validateItemFields(name string, price decimal.Decimal, category enums.ItemCategory, stock int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if !category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown category %q", category))
	}
	if stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	return nil
}
