package ai

import (
	"time"

	"github.com/mirshard/server/internal/combat"
	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
	"github.com/mirshard/server/internal/spatial"
)

const (
	IdleToPatrolTime  = 2 * time.Second
	PatrolToIdleTime  = 3 * time.Second
	MaxChaseDistance  = int32(15)
	ReturnToIdleTime  = 1 * time.Second
)

// System drives every monster's AI tick: the shared skeleton transitions
// for all eight types, dispatching to a specialization only for the
// Attack step.
type System struct {
	world   *ecs.World
	stores  *component.Stores
	grid    *spatial.Grid
	bus     *event.Bus
	combat  AttackExecutor
	rng     combat.Random
	now     func() time.Time
}

// AttackExecutor is the subset of combat.Resolver the AI system needs:
// just enough to resolve the Attack step's hit without the AI system
// constructing AttackType modifiers itself.
type AttackExecutor interface {
	ExecuteAttack(attacker, target ecs.EntityID) (combat.AttackResult, error)
}

// NewSystem wires rng as the source of every AI-side probability roll
// (currently just the boss teleport check), the same combat.Random
// collaborator the Combat Resolver uses rather than a second package-level
// math/rand source.
func NewSystem(world *ecs.World, stores *component.Stores, grid *spatial.Grid, bus *event.Bus, combat AttackExecutor, rng combat.Random, now func() time.Time) *System {
	if now == nil {
		now = time.Now
	}
	return &System{world: world, stores: stores, grid: grid, bus: bus, combat: combat, rng: rng, now: now}
}

// Tick advances every monster's state machine by dt.
func (s *System) Tick(dt time.Duration) {
	now := s.now()
	ecs.Each3(s.stores.MonsterAI, s.stores.MonsterAggro, s.stores.Position,
		func(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos *component.Position) {
			attrs, ok := s.stores.Attributes.Get(e)
			if !ok || attrs.HP <= 0 {
				ai.State = component.AIStateDead
				return
			}
			DecayHatred(e, aggro, dt)
			s.step(e, ai, aggro, pos, attrs, now)
		})
}

func (s *System) step(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos *component.Position, attrs *component.Attributes, now time.Time) {
	switch ai.State {
	case component.AIStateIdle:
		s.stepIdle(e, ai, aggro, pos, now)
	case component.AIStatePatrol:
		s.stepPatrol(ai, aggro, now)
	case component.AIStateChase:
		s.stepChase(e, ai, aggro, pos, now)
	case component.AIStateAttack:
		s.stepAttack(e, ai, aggro, pos, attrs, now)
	case component.AIStateReturn:
		s.stepReturn(e, ai, aggro, pos, now)
	}
}

func (s *System) transition(ai *component.MonsterAI, state component.AIState, now time.Time) {
	ai.State = state
	ai.StateSince = now
}

func (s *System) stepIdle(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos *component.Position, now time.Time) {
	if target := s.acquireTarget(e, aggro, pos); !target.IsZero() {
		ai.Target = target
		s.transition(ai, component.AIStateChase, now)
		return
	}
	if now.Sub(ai.StateSince) >= IdleToPatrolTime {
		s.transition(ai, component.AIStatePatrol, now)
	}
}

func (s *System) stepPatrol(ai *component.MonsterAI, aggro *component.MonsterAggro, now time.Time) {
	if target := aggro.TopTarget(); !target.IsZero() {
		ai.Target = target
		s.transition(ai, component.AIStateChase, now)
		return
	}
	if now.Sub(ai.StateSince) >= PatrolToIdleTime {
		s.transition(ai, component.AIStateIdle, now)
	}
}

func (s *System) stepChase(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos *component.Position, now time.Time) {
	if !IsValidTarget(s.world, s.stores, ai.Target) {
		ai.Target = 0
		s.transition(ai, component.AIStateReturn, now)
		return
	}
	tPos, ok := s.stores.Position.Get(ai.Target)
	if !ok {
		s.transition(ai, component.AIStateReturn, now)
		return
	}
	dist := chebyshev(pos.X-tPos.X, pos.Y-tPos.Y)
	if dist > MaxChaseDistance {
		s.transition(ai, component.AIStateReturn, now)
		return
	}
	if dist <= aggro.AttackRange {
		s.transition(ai, component.AIStateAttack, now)
	}
}

func (s *System) stepAttack(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos *component.Position, attrs *component.Attributes, now time.Time) {
	if !IsValidTarget(s.world, s.stores, ai.Target) {
		ai.Target = 0
		s.transition(ai, component.AIStateReturn, now)
		return
	}
	tPos, _ := s.stores.Position.Get(ai.Target)
	if tPos == nil || chebyshev(pos.X-tPos.X, pos.Y-tPos.Y) > aggro.AttackRange {
		s.transition(ai, component.AIStateChase, now)
		return
	}
	s.dispatchAttack(e, ai, aggro, pos, tPos, attrs, now)
}

func (s *System) stepReturn(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos *component.Position, now time.Time) {
	aggro.Clear()
	ai.Target = 0
	pos.X, pos.Y = ai.ReturnX, ai.ReturnY
	s.grid.Move(e, pos.MapID, pos.X, pos.Y)
	if now.Sub(ai.StateSince) >= ReturnToIdleTime {
		s.transition(ai, component.AIStateIdle, now)
	}
}

// acquireTarget picks the hate-list top target, falling back to scanning
// the aggro radius for any live player/monster if the monster has no hate
// yet (first-contact aggro).
func (s *System) acquireTarget(e ecs.EntityID, aggro *component.MonsterAggro, pos *component.Position) ecs.EntityID {
	if top := aggro.TopTarget(); !top.IsZero() {
		return top
	}
	for _, candidate := range s.grid.QueryRange(pos.MapID, pos.X, pos.Y, aggro.AggroRange) {
		if candidate == e {
			continue
		}
		if IsValidTarget(s.world, s.stores, candidate) {
			aggro.AddHate(candidate, 1)
			return candidate
		}
	}
	return 0
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
