package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/markhallen/storefront/pkg/db/models"
	"github.com/markhallen/storefront/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the item without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads the items matching the provided ids. Missing ids are
// silently absent from the result.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Item, error) {
	out := make(map[uuid.UUID]models.Item, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// CreateItem inserts a new listing row.
func (r *Repository) CreateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem updates an existing listing row.
func (r *Repository) UpdateItem(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes a listing by ID.
func (r *Repository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{}).Error
}

// Categories returns the distinct categories currently in use.
func (r *Repository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).
		Error
	return categories, err
}

type itemListQuery struct {
	Pagination pagination.Params
	Filters    ItemListFilters
	SortBy     string
	Order      string
	Page       int
}

// ListItems pages through the catalog. The default created_at ordering uses
// keyset cursors; alternate sort columns fall back to page offsets because a
// created_at cursor cannot seek a price- or name-ordered scan.
func (r *Repository) ListItems(ctx context.Context, query itemListQuery) (*ItemListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	qb := r.db.WithContext(ctx).Model(&models.Item{})

	filter := query.Filters
	if filter.Category != nil {
		qb = qb.Where("category = ?", *filter.Category)
	}
	if filter.PriceMin != nil {
		qb = qb.Where("price >= ?", *filter.PriceMin)
	}
	if filter.PriceMax != nil {
		qb = qb.Where("price <= ?", *filter.PriceMax)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}

	sortBy := query.SortBy
	if sortBy == "" {
		sortBy = SortByCreatedAt
	}
	order := strings.ToLower(query.Order)
	if order != OrderAsc && order != OrderDesc {
		if sortBy == SortByCreatedAt {
			order = OrderDesc
		} else {
			order = OrderAsc
		}
	}

	useCursor := sortBy == SortByCreatedAt && order == OrderDesc

	if useCursor {
		cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
		if err != nil {
			return nil, err
		}
		if cursor != nil {
			qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
		}
		qb = qb.Order("created_at DESC").Order("id DESC")
	} else {
		qb = qb.Order(fmt.Sprintf("%s %s", sortBy, strings.ToUpper(order))).Order("id ASC")
		page := query.Page
		if page > 1 {
			qb = qb.Offset((page - 1) * pageSize)
		}
	}

	var rows []models.Item
	if err := qb.Limit(limitWithBuffer).Find(&rows).Error; err != nil {
		return nil, err
	}

	resultRows := rows
	hasMore := false
	nextCursor := ""
	if len(rows) > pageSize {
		resultRows = rows[:pageSize]
		hasMore = true
		if useCursor {
			last := resultRows[len(resultRows)-1]
			nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		}
	}

	items := make([]ItemDTO, 0, len(resultRows))
	for i := range resultRows {
		items = append(items, *FromModel(&resultRows[i]))
	}

	return &ItemListResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
