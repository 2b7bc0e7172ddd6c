package rediscache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/markhallen/storefront/internal/cartsync"
)

type mockStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{data: make(map[string]string)}
}

func (m *mockStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	default:
		m.data[key] = fmt.Sprint(v)
	}
	return nil
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return val, nil
}

func (m *mockStore) CartCacheKey(owner string) string {
	return fmt.Sprintf("sf:cart:%s", owner)
}

func TestCacheRoundTrip(t *testing.T) {
	store := newMockStore()
	cache := &Cache{store: store, keyer: store, ttl: time.Hour}
	ctx := context.Background()

	owner := cartsync.OwnerForUser(uuid.New())
	snap := cartsync.Snapshot{
		Lines: []cartsync.Line{
			{ItemID: uuid.New(), Quantity: 2, Name: "Headphones", Price: decimal.RequireFromString("79.99"), Stock: 10},
		},
		Total: decimal.RequireFromString("159.98"),
	}

	if err := cache.Write(ctx, owner, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	loaded, err := cache.Read(ctx, owner)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected snapshot, got nil")
	}
	if len(loaded.Lines) != 1 || loaded.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines: %+v", loaded.Lines)
	}
	if !loaded.Total.Equal(snap.Total) {
		t.Fatalf("expected total %s, got %s", snap.Total, loaded.Total)
	}
}

func TestCacheReadMissingKey(t *testing.T) {
	store := newMockStore()
	cache := &Cache{store: store, keyer: store, ttl: time.Hour}

	loaded, err := cache.Read(context.Background(), cartsync.GuestOwner)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if loaded != nil {
		t.Fatalf("expected nil snapshot for missing key, got %+v", loaded)
	}
}

func TestCacheOwnersAreIsolated(t *testing.T) {
	store := newMockStore()
	cache := &Cache{store: store, keyer: store, ttl: time.Hour}
	ctx := context.Background()

	guestSnap := cartsync.Snapshot{
		Lines: []cartsync.Line{{ItemID: uuid.New(), Quantity: 9}},
	}
	if err := cache.Write(ctx, cartsync.GuestOwner, guestSnap); err != nil {
		t.Fatalf("write guest: %v", err)
	}

	user := cartsync.OwnerForUser(uuid.New())
	loaded, err := cache.Read(ctx, user)
	if err != nil {
		t.Fatalf("read user: %v", err)
	}
	if loaded != nil {
		t.Fatal("expected user slot to be empty, guest data leaked")
	}
}
