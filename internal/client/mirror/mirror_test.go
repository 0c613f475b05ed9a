package mirror

import (
	"testing"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
)

func TestAddEntityCreatesInterpolatorWhenMissing(t *testing.T) {
	m := NewMirror(1)
	e := &Entity{ID: ecs.EntityID(1), X: 5, Y: 5}
	m.AddEntity(e)

	if e.Pos == nil {
		t.Fatal("expected AddEntity to create a default EntityInterpolator")
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 tracked entity, got %d", m.Len())
	}
}

func TestRemoveEntityDropsFromMirrorAndGrid(t *testing.T) {
	m := NewMirror(1)
	m.AddEntity(&Entity{ID: ecs.EntityID(1), X: 0, Y: 0})
	m.RemoveEntity(ecs.EntityID(1))

	if m.Get(ecs.EntityID(1)) != nil {
		t.Fatal("expected entity to be removed")
	}
	if len(m.QueryAt(0, 0)) != 0 {
		t.Fatal("expected grid index to be cleared alongside the entity")
	}
}

func TestUpdateEntityPositionMovesGridIndex(t *testing.T) {
	m := NewMirror(1)
	m.AddEntity(&Entity{ID: ecs.EntityID(1), X: 0, Y: 0})

	m.UpdateEntityPosition(ecs.EntityID(1), 10, 10, component.DirEast, 1000)

	if len(m.QueryAt(0, 0)) != 0 {
		t.Fatal("expected entity no longer indexed at its old cell")
	}
	found := m.QueryAt(10, 10)
	if len(found) != 1 || found[0].ID != ecs.EntityID(1) {
		t.Fatal("expected entity indexed at its new cell")
	}
	if found[0].Direction != component.DirEast {
		t.Fatal("expected direction to be updated")
	}
}

func TestUpdateEntityPositionIgnoresUnknownID(t *testing.T) {
	m := NewMirror(1)
	// Must not panic for an id the mirror never tracked.
	m.UpdateEntityPosition(ecs.EntityID(99), 1, 1, component.DirNorth, 1000)
}

func TestUpdateEntityStatsLeavesPositionAlone(t *testing.T) {
	m := NewMirror(1)
	m.AddEntity(&Entity{ID: ecs.EntityID(1), X: 3, Y: 3, HP: 10, MaxHP: 10})

	m.UpdateEntityStats(ecs.EntityID(1), 4, 10)

	e := m.Get(ecs.EntityID(1))
	if e.HP != 4 || e.MaxHP != 10 {
		t.Fatalf("expected HP updated to 4/10, got %d/%d", e.HP, e.MaxHP)
	}
	if e.X != 3 || e.Y != 3 {
		t.Fatalf("expected position untouched, got (%d,%d)", e.X, e.Y)
	}
}

func TestSetMapClearsTrackedEntities(t *testing.T) {
	m := NewMirror(1)
	m.AddEntity(&Entity{ID: ecs.EntityID(1), X: 0, Y: 0})

	m.SetMap(2)

	if m.Len() != 0 {
		t.Fatalf("expected SetMap to clear all tracked entities, got %d", m.Len())
	}
}

func TestGetEntitiesInViewSortedByID(t *testing.T) {
	m := NewMirror(1)
	m.AddEntity(&Entity{ID: ecs.EntityID(5), X: 0, Y: 0})
	m.AddEntity(&Entity{ID: ecs.EntityID(2), X: 0, Y: 0})
	m.AddEntity(&Entity{ID: ecs.EntityID(9), X: 0, Y: 0})

	out := m.GetEntitiesInView(-5, -5, 5, 5, 0)
	if len(out) != 3 {
		t.Fatalf("expected 3 entities in view, got %d", len(out))
	}
	if out[0].ID != 2 || out[1].ID != 5 || out[2].ID != 9 {
		t.Fatalf("expected ascending id order, got %v, %v, %v", out[0].ID, out[1].ID, out[2].ID)
	}
}
