package spatial

import (
	"sort"
	"testing"

	"github.com/mirshard/server/internal/ecs"
)

func TestIndexAndQueryAt(t *testing.T) {
	g := NewGrid(1)
	g.Index(ecs.EntityID(1), 0, 3, 4)

	ids := g.QueryAt(0, 3, 4)
	if len(ids) != 1 || ids[0] != ecs.EntityID(1) {
		t.Fatalf("expected [1], got %v", ids)
	}
	if len(g.QueryAt(0, 3, 5)) != 0 {
		t.Fatal("expected empty at unoccupied tile")
	}
}

func TestNegativeCoordinatesRejected(t *testing.T) {
	g := NewGrid(1)
	g.Index(ecs.EntityID(1), 0, -1, 0)
	if len(g.QueryAt(0, -1, 0)) != 0 {
		t.Fatal("expected negative-coordinate index to be ignored")
	}
}

func TestQueryRangeNegativeRadiusIsEmpty(t *testing.T) {
	g := NewGrid(1)
	g.Index(ecs.EntityID(1), 0, 0, 0)
	if got := g.QueryRange(0, 0, 0, -1); got != nil {
		t.Fatalf("expected nil for negative radius, got %v", got)
	}
}

func TestMoveIsUnindexThenIndex(t *testing.T) {
	g := NewGrid(1)
	e := ecs.EntityID(1)
	g.Index(e, 0, 0, 0)
	g.Move(e, 0, 10, 10)

	if len(g.QueryAt(0, 0, 0)) != 0 {
		t.Fatal("expected entity removed from old cell")
	}
	ids := g.QueryAt(0, 10, 10)
	if len(ids) != 1 || ids[0] != e {
		t.Fatalf("expected entity indexed at new cell, got %v", ids)
	}
}

func TestMoveWithinSameCellIsNoop(t *testing.T) {
	g := NewGrid(20) // large cell so (0,0) and (1,1) share a cell
	e := ecs.EntityID(1)
	g.Index(e, 0, 0, 0)
	g.Move(e, 0, 1, 1)

	ids := g.QueryAt(0, 0, 0)
	_ = ids // position updated internally; cell membership check below
	all := g.QueryRange(0, 0, 0, 5)
	if len(all) != 1 || all[0] != e {
		t.Fatalf("expected entity still present after same-cell move, got %v", all)
	}
}

func TestQueryRangeFiltersExactBoundingBox(t *testing.T) {
	g := NewGrid(1)
	near := ecs.EntityID(1)
	far := ecs.EntityID(2)
	g.Index(near, 0, 2, 2)
	g.Index(far, 0, 20, 20)

	got := g.QueryRange(0, 0, 0, 3)
	if len(got) != 1 || got[0] != near {
		t.Fatalf("expected only the near entity, got %v", got)
	}
}

func TestGetEntitiesInViewStableSortedByYThenXThenID(t *testing.T) {
	g := NewGrid(1)
	g.Index(ecs.EntityID(3), 0, 1, 1)
	g.Index(ecs.EntityID(1), 0, 1, 1)
	g.Index(ecs.EntityID(2), 0, 0, 1)
	g.Index(ecs.EntityID(4), 0, 0, 0)

	got := g.GetEntitiesInView(0, 0, 0, 2, 2, 0)
	want := []ecs.EntityID{4, 2, 1, 3}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestUnindexRemovesEntityEntirely(t *testing.T) {
	g := NewGrid(1)
	e := ecs.EntityID(1)
	g.Index(e, 0, 5, 5)
	g.Unindex(e)
	if len(g.QueryAt(0, 5, 5)) != 0 {
		t.Fatal("expected entity gone after Unindex")
	}
	// Unindex on an already-absent entity is a no-op, not a panic.
	g.Unindex(e)
}

func TestQueryRangeAcrossMultipleCells(t *testing.T) {
	g := NewGrid(4)
	var ids []ecs.EntityID
	for i := int32(0); i < 10; i++ {
		id := ecs.EntityID(i + 1)
		g.Index(id, 0, i, 0)
		ids = append(ids, id)
	}
	got := g.QueryRange(0, 0, 0, 9)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	if len(got) != len(ids) {
		t.Fatalf("expected all %d entities within radius 9, got %d", len(ids), len(got))
	}
}
