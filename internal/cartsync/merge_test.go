package cartsync

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func line(id uuid.UUID, qty int, price string) Line {
	return Line{ItemID: id, Quantity: qty, Price: decimal.RequireFromString(price)}
}

func TestMergeServerOrderIsBase(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	local := Snapshot{Lines: []Line{line(a, 1, "10.00"), line(b, 3, "5.00")}}
	server := Snapshot{Lines: []Line{line(a, 1, "10.00"), line(c, 1, "2.00")}}

	merged := Merge(local, server)

	if len(merged.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(merged.Lines))
	}
	if merged.Lines[0].ItemID != a || merged.Lines[1].ItemID != c || merged.Lines[2].ItemID != b {
		t.Fatalf("expected order [a c b], got %+v", merged.Lines)
	}
	if merged.Lines[0].Quantity != 1 {
		t.Fatalf("expected a x1, got %d", merged.Lines[0].Quantity)
	}
	if merged.Lines[2].Quantity != 3 {
		t.Fatalf("expected b x3, got %d", merged.Lines[2].Quantity)
	}
	want := decimal.RequireFromString("27.00")
	if !merged.Total.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, merged.Total)
	}
}

func TestMergeTakesMaxQuantityOnConflict(t *testing.T) {
	a := uuid.New()

	local := Snapshot{Lines: []Line{line(a, 5, "1.00")}}
	server := Snapshot{Lines: []Line{line(a, 2, "1.00")}}

	merged := Merge(local, server)
	if merged.Lines[0].Quantity != 5 {
		t.Fatalf("expected max quantity 5, got %d", merged.Lines[0].Quantity)
	}

	// The other direction: server already larger.
	merged = Merge(server, local)
	if merged.Lines[0].Quantity != 5 {
		t.Fatalf("expected max quantity 5, got %d", merged.Lines[0].Quantity)
	}
}

func TestMergeNeverDecreasesServerQuantities(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	local := Snapshot{Lines: []Line{line(a, 1, "1.00")}}
	server := Snapshot{Lines: []Line{line(a, 4, "1.00"), line(b, 2, "1.00")}}

	merged := Merge(local, server)
	for i, serverLine := range server.Lines {
		if merged.Lines[i].Quantity < serverLine.Quantity {
			t.Fatalf("server quantity decreased for line %d: %d < %d", i, merged.Lines[i].Quantity, serverLine.Quantity)
		}
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	local := Snapshot{Lines: []Line{line(a, 1, "10.00"), line(b, 3, "5.00")}}
	server := Snapshot{Lines: []Line{line(a, 1, "10.00"), line(c, 1, "2.00")}}

	once := Merge(local, server)
	twice := Merge(once, server)

	if len(once.Lines) != len(twice.Lines) {
		t.Fatalf("line count changed on re-merge: %d vs %d", len(once.Lines), len(twice.Lines))
	}
	for i := range once.Lines {
		if once.Lines[i].ItemID != twice.Lines[i].ItemID || once.Lines[i].Quantity != twice.Lines[i].Quantity {
			t.Fatalf("line %d changed on re-merge: %+v vs %+v", i, once.Lines[i], twice.Lines[i])
		}
	}
	if !once.Total.Equal(twice.Total) {
		t.Fatalf("total changed on re-merge: %s vs %s", once.Total, twice.Total)
	}
}

func TestMergeWithEmptySides(t *testing.T) {
	a := uuid.New()
	populated := Snapshot{Lines: []Line{line(a, 2, "3.00")}}

	fromEmptyLocal := Merge(EmptySnapshot(), populated)
	if len(fromEmptyLocal.Lines) != 1 || fromEmptyLocal.Lines[0].Quantity != 2 {
		t.Fatalf("expected server lines preserved, got %+v", fromEmptyLocal.Lines)
	}

	fromEmptyServer := Merge(populated, EmptySnapshot())
	if len(fromEmptyServer.Lines) != 1 || fromEmptyServer.Lines[0].Quantity != 2 {
		t.Fatalf("expected local lines appended, got %+v", fromEmptyServer.Lines)
	}

	empty := Merge(EmptySnapshot(), EmptySnapshot())
	if len(empty.Lines) != 0 || !empty.Total.IsZero() {
		t.Fatalf("expected empty merge, got %+v", empty)
	}
}
