package httpstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/markhallen/storefront/internal/cartsync"
	pkgerrors "github.com/markhallen/storefront/pkg/errors"
)

// Store speaks the storefront cart REST contract. Every request carries the
// caller's bearer credential and is bounded by the configured timeout; a
// timeout is indistinguishable from any other remote failure.
type Store struct {
	baseURL string
	client  *http.Client
}

// New builds a cart store client against the provided base URL.
func New(baseURL string, timeout time.Duration) (*Store, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive")
	}
	return &Store{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

type cartPayload struct {
	ID    uuid.UUID     `json:"id"`
	Lines []linePayload `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

type linePayload struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Quantity int             `json:"quantity"`
	Name     string          `json:"name,omitempty"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url,omitempty"`
	Stock    int             `json:"stock"`
}

type successEnvelope struct {
	Data cartPayload `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type mutateRequest struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity,omitempty"`
}

type syncRequest struct {
	Lines []mutateRequest `json:"lines"`
}

// Fetch returns the server cart, creating it on first use.
func (s *Store) Fetch(ctx context.Context, credential string) (*cartsync.Snapshot, error) {
	return s.do(ctx, credential, http.MethodGet, "/api/v1/cart", nil)
}

// Add puts qty more units of the item into the server cart.
func (s *Store) Add(ctx context.Context, credential string, itemID uuid.UUID, qty int) (*cartsync.Snapshot, error) {
	return s.do(ctx, credential, http.MethodPost, "/api/v1/cart/add", mutateRequest{ItemID: itemID, Quantity: qty})
}

// Update sets the quantity of the item's line on the server cart.
func (s *Store) Update(ctx context.Context, credential string, itemID uuid.UUID, qty int) (*cartsync.Snapshot, error) {
	return s.do(ctx, credential, http.MethodPut, "/api/v1/cart/update", mutateRequest{ItemID: itemID, Quantity: qty})
}

// Remove drops the item's line from the server cart.
func (s *Store) Remove(ctx context.Context, credential string, itemID uuid.UUID) (*cartsync.Snapshot, error) {
	return s.do(ctx, credential, http.MethodDelete, "/api/v1/cart/remove", mutateRequest{ItemID: itemID})
}

// Clear empties the server cart.
func (s *Store) Clear(ctx context.Context, credential string) (*cartsync.Snapshot, error) {
	return s.do(ctx, credential, http.MethodDelete, "/api/v1/cart/clear", nil)
}

// Replace pushes a full overwrite of the server cart's line set.
func (s *Store) Replace(ctx context.Context, credential string, lines []cartsync.Line) (*cartsync.Snapshot, error) {
	req := syncRequest{Lines: make([]mutateRequest, 0, len(lines))}
	for _, line := range lines {
		req.Lines = append(req.Lines, mutateRequest{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return s.do(ctx, credential, http.MethodPut, "/api/v1/cart/sync", req)
}

func (s *Store) do(ctx context.Context, credential, method, path string, body any) (*cartsync.Snapshot, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart store request")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read cart store response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeError(resp.StatusCode, raw)
	}

	var envelope successEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode cart store response")
	}
	return toSnapshot(envelope.Data), nil
}

func decodeError(status int, raw []byte) error {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		code := pkgerrors.Code(envelope.Error.Code)
		if _, known := map[pkgerrors.Code]struct{}{
			pkgerrors.CodeValidation:        {},
			pkgerrors.CodeUnauthorized:      {},
			pkgerrors.CodeForbidden:         {},
			pkgerrors.CodeNotFound:          {},
			pkgerrors.CodeConflict:          {},
			pkgerrors.CodeInsufficientStock: {},
			pkgerrors.CodeInternal:          {},
			pkgerrors.CodeDependency:        {},
		}[code]; known {
			return pkgerrors.New(code, envelope.Error.Message)
		}
	}
	return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("cart store returned status %d", status))
}

func toSnapshot(payload cartPayload) *cartsync.Snapshot {
	lines := make([]cartsync.Line, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		lines = append(lines, cartsync.Line{
			ItemID:   line.ItemID,
			Quantity: line.Quantity,
			Name:     line.Name,
			Price:    line.Price,
			ImageURL: line.ImageURL,
			Stock:    line.Stock,
		})
	}
	return &cartsync.Snapshot{
		Lines: lines,
		Total: payload.Total,
	}
}
