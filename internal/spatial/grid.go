// Package spatial indexes entities by map position for range and view
// queries, so combat and AI don't have to scan every entity in the world
// to find what's nearby.
//
// Grounded on the teacher's internal/world/aoi.go cell grid, generalized
// from a fixed session-only, fixed-cell-size-20 AOI grid to a configurable
// CellSize holding arbitrary entity ids, since this spec's grid backs
// combat range checks and AI aggro detection, not only view/interest
// management.
package spatial

import (
	"sort"

	"github.com/mirshard/server/internal/ecs"
)

// DefaultCellSize is one tile per cell; NewGrid takes any positive size.
const DefaultCellSize = 1

type cellKey struct {
	mapID int32
	cx    int32
	cy    int32
}

// Grid is a uniform spatial hash over (MapID, X, Y). All access is expected
// from the single tick goroutine — no internal locking.
type Grid struct {
	cellSize int32
	cells    map[cellKey]map[ecs.EntityID]struct{}
	pos      map[ecs.EntityID]entry // last indexed position, for Move/Unindex
}

type entry struct {
	mapID int32
	x, y  int32
}

func NewGrid(cellSize int32) *Grid {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Grid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
		pos:      make(map[ecs.EntityID]entry),
	}
}

func (g *Grid) toCellCoord(v int32) int32 {
	if v < 0 {
		return (v - g.cellSize + 1) / g.cellSize
	}
	return v / g.cellSize
}

func (g *Grid) key(mapID, x, y int32) cellKey {
	return cellKey{mapID: mapID, cx: g.toCellCoord(x), cy: g.toCellCoord(y)}
}

// Index places id into the grid at (mapID, x, y). Negative coordinates are
// rejected and never inserted.
func (g *Grid) Index(id ecs.EntityID, mapID, x, y int32) {
	if x < 0 || y < 0 {
		return
	}
	k := g.key(mapID, x, y)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
	g.pos[id] = entry{mapID: mapID, x: x, y: y}
}

// Unindex removes id from the grid entirely.
func (g *Grid) Unindex(id ecs.EntityID) {
	e, ok := g.pos[id]
	if !ok {
		return
	}
	k := g.key(e.mapID, e.x, e.y)
	cell := g.cells[k]
	delete(cell, id)
	if len(cell) == 0 {
		delete(g.cells, k)
	}
	delete(g.pos, id)
}

// Move re-indexes id at its new position. It is a no-op when the new
// position falls in the same cell as the old one, and otherwise implemented
// as Unindex followed by Index.
func (g *Grid) Move(id ecs.EntityID, mapID, x, y int32) {
	e, ok := g.pos[id]
	if ok && g.key(e.mapID, e.x, e.y) == g.key(mapID, x, y) {
		g.pos[id] = entry{mapID: mapID, x: x, y: y}
		return
	}
	g.Unindex(id)
	g.Index(id, mapID, x, y)
}

// QueryRange returns every indexed entity within Chebyshev distance radius
// of (mapID, x, y). A negative radius returns an empty slice.
func (g *Grid) QueryRange(mapID, x, y, radius int32) []ecs.EntityID {
	if radius < 0 {
		return nil
	}
	cellRadius := radius/g.cellSize + 1
	cx, cy := g.toCellCoord(x), g.toCellCoord(y)
	var result []ecs.EntityID
	for dx := -cellRadius; dx <= cellRadius; dx++ {
		for dy := -cellRadius; dy <= cellRadius; dy++ {
			k := cellKey{mapID: mapID, cx: cx + dx, cy: cy + dy}
			for id := range g.cells[k] {
				e := g.pos[id]
				if chebyshev(e.x-x, e.y-y) <= radius {
					result = append(result, id)
				}
			}
		}
	}
	return result
}

// QueryAt returns every entity indexed at exactly (mapID, x, y).
func (g *Grid) QueryAt(mapID, x, y int32) []ecs.EntityID {
	k := g.key(mapID, x, y)
	var result []ecs.EntityID
	for id := range g.cells[k] {
		e := g.pos[id]
		if e.x == x && e.y == y {
			result = append(result, id)
		}
	}
	return result
}

// GetEntitiesInView returns entities within the rectangular bounds expanded
// by padding on every side, stable-sorted by (y, x, id) so callers building
// a snapshot get deterministic ordering across ticks.
func (g *Grid) GetEntitiesInView(mapID, minX, minY, maxX, maxY, padding int32) []ecs.EntityID {
	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding
	cMinX, cMinY := g.toCellCoord(minX), g.toCellCoord(minY)
	cMaxX, cMaxY := g.toCellCoord(maxX), g.toCellCoord(maxY)

	var result []ecs.EntityID
	for cx := cMinX; cx <= cMaxX; cx++ {
		for cy := cMinY; cy <= cMaxY; cy++ {
			k := cellKey{mapID: mapID, cx: cx, cy: cy}
			for id := range g.cells[k] {
				e := g.pos[id]
				if e.x >= minX && e.x <= maxX && e.y >= minY && e.y <= maxY {
					result = append(result, id)
				}
			}
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := g.pos[result[i]], g.pos[result[j]]
		if a.y != b.y {
			return a.y < b.y
		}
		if a.x != b.x {
			return a.x < b.x
		}
		return result[i] < result[j]
	})
	return result
}

func chebyshev(dx, dy int32) int32 {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}
