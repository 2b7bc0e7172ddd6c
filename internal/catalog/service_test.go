package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markhallen/storefront/pkg/enums"
	pkgerrors "github.com/markhallen/storefront/pkg/errors"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	repo := NewRepository(openTestDB(t))
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func TestServiceCreateAndGet(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateItemInput{
		Name:     "Blender",
		Price:    decimal.RequireFromString("45.00"),
		Category: enums.ItemCategoryHome,
		Stock:    7,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.Name != "Blender" {
		t.Fatalf("unexpected name %q", fetched.Name)
	}

	stock, err := svc.StockOf(ctx, created.ID)
	if err != nil {
		t.Fatalf("stock of: %v", err)
	}
	if stock != 7 {
		t.Fatalf("expected stock 7, got %d", stock)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []CreateItemInput{
		{Name: "", Price: decimal.NewFromInt(1), Category: enums.ItemCategoryHome},
		{Name: "Bad Price", Price: decimal.NewFromInt(-1), Category: enums.ItemCategoryHome},
		{Name: "Bad Category", Price: decimal.NewFromInt(1), Category: "furniture"},
		{Name: "Bad Stock", Price: decimal.NewFromInt(1), Category: enums.ItemCategoryHome, Stock: -2},
	}
	for _, input := range cases {
		_, err := svc.Create(ctx, input)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", input, err)
		}
	}
}

func TestServiceGetNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestServiceUpdatePartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateItemInput{
		Name:     "Desk Lamp",
		Price:    decimal.RequireFromString("18.00"),
		Category: enums.ItemCategoryHome,
		Stock:    3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newStock := 11
	updated, err := svc.Update(ctx, created.ID, UpdateItemInput{Stock: &newStock})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Stock != 11 {
		t.Fatalf("expected stock 11, got %d", updated.Stock)
	}
	if updated.Name != "Desk Lamp" {
		t.Fatalf("expected name untouched, got %q", updated.Name)
	}

	badPrice := decimal.NewFromInt(-5)
	_, err = svc.Update(ctx, created.ID, UpdateItemInput{Price: &badPrice})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestServiceDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateItemInput{
		Name:     "Dumbbells",
		Price:    decimal.RequireFromString("35.00"),
		Category: enums.ItemCategorySports,
		Stock:    2,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	err = svc.Delete(ctx, created.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestServiceListRejectsBadSort(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), ListItemsInput{SortBy: "stock"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
