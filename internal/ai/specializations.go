package ai

import (
	"math"
	"time"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
)

const (
	SummonIntervalSeconds = 6 * time.Second
	GuardRadiusDefault    = int32(8)
	GuardLeashDefault     = int32(12)
)

// dispatchAttack runs the Attack-step specialization for ai.Type. All eight
// types are first-class component.AIType members, so this is a flat switch
// with no fallback case doing double duty.
func (s *System) dispatchAttack(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos, tPos *component.Position, attrs *component.Attributes, now time.Time) {
	switch ai.Type {
	case AITypeAmbush:
		s.attackAmbush(e, ai, aggro, pos, now)
	case AITypeRanged:
		s.attackRanged(e, ai, aggro, pos, tPos, now)
	case AITypeSummoner:
		s.attackSummoner(e, ai, now)
	case AITypeExplosive:
		s.attackExplosive(e, ai, now)
	case AITypePoisonous:
		s.attackPoisonous(e, ai, now)
	case AITypeGuard:
		s.attackGuard(e, ai, aggro, pos, now)
	case AITypeBossCowKing:
		s.attackBoss(e, ai, attrs, now)
	default:
		s.attackNormal(e, ai, now)
	}
}

// Re-export the component package's type/state constants under ai-local
// names so callers outside component don't need two imports for one enum.
const (
	AITypeNormal      = component.AITypeNormal
	AITypeAmbush      = component.AITypeAmbush
	AITypeRanged      = component.AITypeRanged
	AITypeSummoner    = component.AITypeSummoner
	AITypeExplosive   = component.AITypeExplosive
	AITypePoisonous   = component.AITypePoisonous
	AITypeGuard       = component.AITypeGuard
	AITypeBossCowKing = component.AITypeBossCowKing
)

func (s *System) onCooldown(ai *component.MonsterAI, now time.Time) bool {
	return now.Before(ai.NextAction)
}

func (s *System) attackNormal(e ecs.EntityID, ai *component.MonsterAI, now time.Time) {
	if s.onCooldown(ai, now) {
		return
	}
	s.combat.ExecuteAttack(e, ai.Target)
	ai.NextAction = now.Add(attackCooldown(ai, now))
}

func (s *System) attackAmbush(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos *component.Position, now time.Time) {
	if ai.IsHidden {
		// A target inside the aggro radius reveals the monster; hate was
		// already recorded by acquireTarget, so simply drop the hidden flag.
		if !ai.Target.IsZero() {
			ai.IsHidden = false
		}
		return
	}
	s.attackNormal(e, ai, now)
}

func (s *System) attackRanged(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos, tPos *component.Position, now time.Time) {
	dist := chebyshev(pos.X-tPos.X, pos.Y-tPos.Y)
	pref := ai.PreferredDistance
	if pref <= 0 {
		pref = aggro.AttackRange
	}
	if dist < int32(float64(pref)*0.7) || dist > pref {
		// Out of the preferred band: fall back to Chase to reposition
		// rather than attacking from a bad distance this tick.
		s.transition(ai, component.AIStateChase, now)
		return
	}
	s.attackNormal(e, ai, now)
}

func (s *System) attackSummoner(e ecs.EntityID, ai *component.MonsterAI, now time.Time) {
	if now.Sub(ai.LastSummonAt) < SummonIntervalSeconds {
		return
	}
	ai.LastSummonAt = now
	pos, ok := s.stores.Position.Get(e)
	if !ok {
		return
	}
	event.Emit(s.bus, event.MonsterSummon{Summoner: e, TemplateID: 0, Count: 1})
	_ = pos
}

func (s *System) attackExplosive(e ecs.EntityID, ai *component.MonsterAI, now time.Time) {
	if s.onCooldown(ai, now) {
		return
	}
	result, err := s.combat.ExecuteAttack(e, ai.Target)
	ai.NextAction = now.Add(attackCooldown(ai, now))
	if err == nil && result.Hit {
		// self-immolate after a successful hit
		attrs, ok := s.stores.Attributes.Get(e)
		if ok {
			attrs.HP = 0
		}
		event.Emit(s.bus, event.EntityDeath{Entity: e, KilledBy: e})
	}
}

func (s *System) attackPoisonous(e ecs.EntityID, ai *component.MonsterAI, now time.Time) {
	if s.onCooldown(ai, now) {
		return
	}
	result, err := s.combat.ExecuteAttack(e, ai.Target)
	ai.NextAction = now.Add(attackCooldown(ai, now))
	if err == nil && result.Hit {
		// Only the primary hit resolved by ExecuteAttack is applied; no
		// secondary poison tick follows it.
		_ = result
	}
}

func (s *System) attackGuard(e ecs.EntityID, ai *component.MonsterAI, aggro *component.MonsterAggro, pos *component.Position, now time.Time) {
	leash := ai.GuardLeash
	if leash <= 0 {
		leash = GuardLeashDefault
	}
	if chebyshev(pos.X-ai.GuardX, pos.Y-ai.GuardY) > leash {
		aggro.Clear()
		ai.Target = 0
		s.transition(ai, component.AIStateReturn, now)
		return
	}
	s.attackNormal(e, ai, now)
}

func (s *System) attackBoss(e ecs.EntityID, ai *component.MonsterAI, attrs *component.Attributes, now time.Time) {
	pct := float64(attrs.HP) / float64(attrs.MaxHP)
	if pct < 0.5 && now.After(ai.TeleportCooldownUntil) {
		if s.rngFloat() < 0.30 {
			pos, ok := s.stores.Position.Get(e)
			if ok {
				pos.X, pos.Y = s.findValidTeleportCell(pos)
				s.grid.Move(e, pos.MapID, pos.X, pos.Y)
			}
			ai.TeleportCooldownUntil = now.Add(10 * time.Second)
		}
	}
	if pct < 0.3 {
		ai.CrazyModeUntil = now.Add(15 * time.Second)
	}
	s.attackNormal(e, ai, now)
}

// attackCooldown halves the base cooldown while a boss is in crazy mode.
func attackCooldown(ai *component.MonsterAI, now time.Time) time.Duration {
	base := time.Second
	if now.Before(ai.CrazyModeUntil) {
		return base / 2
	}
	return base
}

// rngFloat draws the 30% boss-teleport roll from the same combat.Random
// collaborator the Combat Resolver uses, so both packages' probability
// rolls are seeded and tested the same way.
func (s *System) rngFloat() float64 {
	if s.rng == nil {
		return 1 // no collaborator wired: never trigger the roll
	}
	return s.rng.Float64()
}

// findValidTeleportCell picks a cell at a fixed ring distance around pos,
// at an angle from a further draw off the same rng so repeated teleports don't all land on
// the same cell. A map walkability provider does not exist yet, so this
// does not check terrain; it only avoids the trivial no-op of staying put.
func (s *System) findValidTeleportCell(pos *component.Position) (int32, int32) {
	const ringRadius = 6
	angle := s.rngFloat() * 2 * math.Pi
	dx := int32(math.Round(ringRadius * math.Cos(angle)))
	dy := int32(math.Round(ringRadius * math.Sin(angle)))
	return pos.X + dx, pos.Y + dy
}
