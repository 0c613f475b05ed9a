// Package spawn implements the Spawn and Drop systems: scheduled monster
// creation at configured spawn points, and loot rolls on monster death.
//
// Grounded on the teacher's internal/system/npc_respawn.go respawn-timer
// scan, generalized from the teacher's fixed monster-slot respawn model to
// per-spawn-point current_count/last_spawn_time tracking per the design.
package spawn

import (
	"math/rand"
	"time"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/content"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
	"github.com/mirshard/server/internal/spatial"
)

// pointState is the mutable runtime counterpart to a content.SpawnPoint.
type pointState struct {
	def           content.SpawnPoint
	currentCount  int
	lastSpawnTime time.Time
}

// System creates monsters at configured spawn points and retires their
// count on death.
type System struct {
	world   *ecs.World
	stores  *component.Stores
	grid    *spatial.Grid
	monsters *content.MonsterTable
	points  map[int32]*pointState
	rng     *rand.Rand
	now     func() time.Time
}

func NewSystem(world *ecs.World, stores *component.Stores, grid *spatial.Grid, monsters *content.MonsterTable, points []content.SpawnPoint, bus *event.Bus, rng *rand.Rand, now func() time.Time) *System {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	s := &System{
		world:    world,
		stores:   stores,
		grid:     grid,
		monsters: monsters,
		points:   make(map[int32]*pointState, len(points)),
		rng:      rng,
		now:      now,
	}
	for _, p := range points {
		s.points[p.SpawnPointID] = &pointState{def: p}
	}
	event.Subscribe(bus, s.onEntityDeath)
	return s
}

// Tick spawns one monster per eligible spawn point per call.
func (s *System) Tick() {
	now := s.now()
	for _, ps := range s.points {
		if ps.currentCount >= ps.def.MaxCount {
			continue
		}
		if !ps.lastSpawnTime.IsZero() && now.Sub(ps.lastSpawnTime) < ps.def.RespawnInterval {
			continue
		}
		s.spawnAt(ps, now)
	}
}

func (s *System) spawnAt(ps *pointState, now time.Time) {
	tmpl := s.monsters.Get(ps.def.TemplateID)
	if tmpl == nil {
		return
	}
	dx := s.randRange(-ps.def.SpawnRadius, ps.def.SpawnRadius)
	dy := s.randRange(-ps.def.SpawnRadius, ps.def.SpawnRadius)
	x, y := ps.def.CenterX+dx, ps.def.CenterY+dy

	e := s.world.CreateEntity()
	s.stores.Identity.Set(e, &component.Identity{
		Kind:         component.KindMonster,
		Name:         tmpl.Name,
		TemplateID:   tmpl.TemplateID,
		SpawnPointID: ps.def.SpawnPointID,
	})
	s.stores.Position.Set(e, &component.Position{X: x, Y: y, MapID: ps.def.MapID})
	s.stores.Attributes.Set(e, &component.Attributes{
		Level: tmpl.Level, HP: tmpl.HP, MaxHP: tmpl.HP, MP: tmpl.MP, MaxMP: tmpl.MP,
		Attack: tmpl.Attack, Defense: tmpl.Defense,
	})
	s.stores.CombatStats.Set(e, &component.CombatStats{AttackRange: tmpl.AttackRange})
	s.stores.MonsterAI.Set(e, &component.MonsterAI{
		Type:              tmpl.AI,
		ReturnX:           x,
		ReturnY:           y,
		IsBoss:            tmpl.AI == component.AITypeBossCowKing,
		PreferredDistance: tmpl.PreferredDistance,
		GuardX:            x,
		GuardY:            y,
		GuardRadius:       tmpl.GuardRadius,
		GuardLeash:        tmpl.GuardLeash,
	})
	s.stores.MonsterAggro.Set(e, &component.MonsterAggro{
		AggroRange: ps.def.AggroRange, AttackRange: tmpl.AttackRange,
	})
	s.grid.Index(e, ps.def.MapID, x, y)

	ps.currentCount++
	ps.lastSpawnTime = now
}

func (s *System) randRange(min, max int32) int32 {
	if max <= min {
		return min
	}
	return min + int32(s.rng.Intn(int(max-min+1)))
}

func (s *System) onEntityDeath(ev event.EntityDeath) {
	ident, ok := s.stores.Identity.Get(ev.Entity)
	if !ok || ident.Kind != component.KindMonster {
		return
	}
	if ps, ok := s.points[ident.SpawnPointID]; ok && ps.currentCount > 0 {
		ps.currentCount--
	}
}
