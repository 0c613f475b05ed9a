// Package mirror is the client's read-only reflection of every entity the
// server has put in view: a map keyed by the wire EntityID, updated only
// through AddEntity/RemoveEntity/UpdateEntity/UpdateEntityPosition/
// UpdateEntityStats so nothing client-side ever mutates an Entity by hand.
//
// Grounded on internal/spatial's grid for the range/view queries (§4.E),
// reused here rather than reimplemented, and on the teacher's "pure data,
// zero methods" component style for Entity itself.
package mirror

import (
	"sort"
	"time"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/spatial"
)

// Entity is the client-side shadow of one server entity: enough state to
// render and predict against, never enough to re-derive combat outcomes.
type Entity struct {
	ID         ecs.EntityID
	Kind       component.EntityKind
	TemplateID int32
	Name       string

	X, Y      int32
	Direction component.Direction
	MapID     int32

	Level     int32
	HP, MaxHP int32

	Pos *EntityInterpolator
}

// Mirror holds every entity currently in the client's view, indexed both by
// id and by a spatial.Grid for range/view queries.
type Mirror struct {
	entities map[ecs.EntityID]*Entity
	grid     *spatial.Grid
	mapID    int32
}

func NewMirror(mapID int32) *Mirror {
	return &Mirror{
		entities: make(map[ecs.EntityID]*Entity),
		grid:     spatial.NewGrid(spatial.DefaultCellSize),
		mapID:    mapID,
	}
}

// SetMap switches the view to a new map, clearing every tracked entity —
// the server resends EntitySpawn for whatever is in view on the new map.
func (m *Mirror) SetMap(mapID int32) {
	m.mapID = mapID
	m.entities = make(map[ecs.EntityID]*Entity)
	m.grid = spatial.NewGrid(spatial.DefaultCellSize)
}

// AddEntity registers a newly visible entity, replacing any previous entry
// for the same id outright (a fresh spawn always wins over stale state).
func (m *Mirror) AddEntity(e *Entity) {
	if e.Pos == nil {
		e.Pos = NewEntityInterpolator(e.X, e.Y)
	}
	m.entities[e.ID] = e
	m.grid.Index(e.ID, m.mapID, e.X, e.Y)
}

// RemoveEntity drops id from the mirror entirely.
func (m *Mirror) RemoveEntity(id ecs.EntityID) {
	delete(m.entities, id)
	m.grid.Unindex(id)
}

// Get returns the tracked entity for id, or nil.
func (m *Mirror) Get(id ecs.EntityID) *Entity {
	return m.entities[id]
}

// UpdateEntityPosition feeds a new authoritative position for an already
// tracked entity into its PositionInterpolator rather than snapping — a
// repeated update for the same entity is the common case, not a teleport.
func (m *Mirror) UpdateEntityPosition(id ecs.EntityID, x, y int32, dir component.Direction, serverTimeMs int64) {
	e, ok := m.entities[id]
	if !ok {
		return
	}
	e.Direction = dir
	e.X, e.Y = x, y
	e.Pos.ReceiveState(x, y, serverTimeMs)
	m.grid.Move(id, m.mapID, x, y)
}

// UpdateEntityStats applies an HP/MaxHP refresh (MonsterStats/EntityUpdate)
// without touching position.
func (m *Mirror) UpdateEntityStats(id ecs.EntityID, hp, maxHP int32) {
	e, ok := m.entities[id]
	if !ok {
		return
	}
	e.HP, e.MaxHP = hp, maxHP
}

// UpdateEntity applies a full EntityUpdate: position plus stats in one call.
func (m *Mirror) UpdateEntity(id ecs.EntityID, x, y int32, dir component.Direction, hp, maxHP int32, serverTimeMs int64) {
	m.UpdateEntityPosition(id, x, y, dir, serverTimeMs)
	m.UpdateEntityStats(id, hp, maxHP)
}

// QueryRange returns every tracked entity within Chebyshev radius of (x, y).
func (m *Mirror) QueryRange(x, y, radius int32) []*Entity {
	ids := m.grid.QueryRange(m.mapID, x, y, radius)
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := m.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// QueryAt returns every tracked entity at exactly (x, y).
func (m *Mirror) QueryAt(x, y int32) []*Entity {
	ids := m.grid.QueryAt(m.mapID, x, y)
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := m.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

// GetEntitiesInView returns every tracked entity within bounds expanded by
// padding, stable-sorted by (y, x, id) for deterministic render ordering.
func (m *Mirror) GetEntitiesInView(minX, minY, maxX, maxY, padding int32) []*Entity {
	ids := m.grid.GetEntitiesInView(m.mapID, minX, minY, maxX, maxY, padding)
	out := make([]*Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := m.entities[id]; ok {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Tick advances every tracked entity's interpolator to the current wall-clock
// time, called once per client frame; dt is not used.
func (m *Mirror) Tick(dt time.Duration) {
	now := time.Now()
	for _, e := range m.entities {
		e.Pos.Advance(now)
	}
}

// Len reports how many entities the mirror currently tracks.
func (m *Mirror) Len() int { return len(m.entities) }
