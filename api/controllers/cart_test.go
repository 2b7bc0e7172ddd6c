package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/markhallen/storefront/api/middleware"
	cartsvc "github.com/markhallen/storefront/internal/cart"
	pkgerrors "github.com/markhallen/storefront/pkg/errors"
)

type stubCartService struct {
	cart *cartsvc.CartDTO
	err  error

	addInput     *cartsvc.ReplaceLine
	replaceLines []cartsvc.ReplaceLine
}

func (s *stubCartService) Fetch(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Add(ctx context.Context, userID, itemID uuid.UUID, qty int) (*cartsvc.CartDTO, error) {
	s.addInput = &cartsvc.ReplaceLine{ItemID: itemID, Quantity: qty}
	return s.cart, s.err
}

func (s *stubCartService) Update(ctx context.Context, userID, itemID uuid.UUID, qty int) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Remove(ctx context.Context, userID, itemID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return s.cart, s.err
}

func (s *stubCartService) Replace(ctx context.Context, userID uuid.UUID, lines []cartsvc.ReplaceLine) (*cartsvc.CartDTO, error) {
	s.replaceLines = lines
	return s.cart, s.err
}

func authedRequest(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
}

func TestCartFetchSuccess(t *testing.T) {
	cartID := uuid.New()
	svc := &stubCartService{cart: &cartsvc.CartDTO{ID: cartID}}
	handler := CartFetch(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.CartDTO `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != cartID {
		t.Fatalf("unexpected cart id: %s", envelope.Data.ID)
	}
}

func TestCartFetchMissingUserContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartAddPassesItemAndQuantity(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{}}
	handler := CartAdd(svc, nil)

	itemID := uuid.New()
	body, _ := json.Marshal(map[string]any{"item_id": itemID, "quantity": 3})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/add", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.addInput == nil || svc.addInput.ItemID != itemID || svc.addInput.Quantity != 3 {
		t.Fatalf("unexpected add input: %+v", svc.addInput)
	}
}

func TestCartAddRejectsZeroQuantity(t *testing.T) {
	handler := CartAdd(&stubCartService{}, nil)

	body, _ := json.Marshal(map[string]any{"item_id": uuid.New(), "quantity": 0})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/add", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAddInsufficientStockIsBadRequest(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock available")}
	handler := CartAdd(svc, nil)

	body, _ := json.Marshal(map[string]any{"item_id": uuid.New(), "quantity": 5})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/cart/add", body))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error code: %s", envelope.Error.Code)
	}
}

func TestCartSyncForwardsLines(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.CartDTO{}}
	handler := CartSync(svc, nil)

	a, b := uuid.New(), uuid.New()
	body, _ := json.Marshal(map[string]any{"lines": []map[string]any{
		{"item_id": a, "quantity": 1},
		{"item_id": b, "quantity": 3},
	}})

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "/api/v1/cart/sync", body))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.replaceLines) != 2 || svc.replaceLines[0].ItemID != a || svc.replaceLines[1].Quantity != 3 {
		t.Fatalf("unexpected replace lines: %+v", svc.replaceLines)
	}
}
