// Package combat implements the Combat Resolver: damage, heal, mp, death
// and respawn, routed through the event bus so other systems (exp gain,
// hate tracking, persistence dirty-marking) react without the resolver
// knowing about them.
//
// Grounded on the teacher's internal/system/combat.go and internal/system/hate.go
// for the damage-then-hate-then-death shape, generalized from the teacher's
// ad-hoc PlayerInfo/NpcInfo structs to ECS component stores, and from a
// package-global math/rand to an injected Random collaborator.
package combat

import (
	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
	"github.com/mirshard/server/internal/spatial"
)

// Resolver is the sole mutator of HP/MP/death state.
type Resolver struct {
	world  *ecs.World
	stores *component.Stores
	grid   *spatial.Grid
	bus    *event.Bus
	rng    Random
	cfg    Config
}

func NewResolver(world *ecs.World, stores *component.Stores, grid *spatial.Grid, bus *event.Bus, rng Random, cfg Config) *Resolver {
	return &Resolver{world: world, stores: stores, grid: grid, bus: bus, rng: rng, cfg: cfg}
}

// TakeDamage applies damage to e's HP, floored at 0 and at least 1 when
// damage is positive. A non-positive damage or an already-dead entity is a
// no-op that returns 0.
func (r *Resolver) TakeDamage(e ecs.EntityID, damage int32) int32 {
	attrs, ok := r.stores.Attributes.Get(e)
	if !ok || damage <= 0 || attrs.HP <= 0 {
		return 0
	}
	if damage < 1 {
		damage = 1
	}
	attrs.HP -= damage
	if attrs.HP < 0 {
		attrs.HP = 0
	}
	r.stores.MarkAttributesDirty(e)
	return damage
}

// Heal restores HP up to MaxHP. No-op if e is dead.
func (r *Resolver) Heal(e ecs.EntityID, amount int32) {
	attrs, ok := r.stores.Attributes.Get(e)
	if !ok || attrs.HP <= 0 || amount <= 0 {
		return
	}
	attrs.HP += amount
	if attrs.HP > attrs.MaxHP {
		attrs.HP = attrs.MaxHP
	}
	r.stores.MarkAttributesDirty(e)
}

// RestoreMP restores MP up to MaxMP.
func (r *Resolver) RestoreMP(e ecs.EntityID, amount int32) {
	attrs, ok := r.stores.Attributes.Get(e)
	if !ok || amount <= 0 {
		return
	}
	attrs.MP += amount
	if attrs.MP > attrs.MaxMP {
		attrs.MP = attrs.MaxMP
	}
	r.stores.MarkAttributesDirty(e)
}

// ConsumeMP deducts amount from e's MP iff it has enough.
func (r *Resolver) ConsumeMP(e ecs.EntityID, amount int32) bool {
	attrs, ok := r.stores.Attributes.Get(e)
	if !ok || attrs.MP < amount {
		return false
	}
	attrs.MP -= amount
	r.stores.MarkAttributesDirty(e)
	return true
}

// Die transitions e to the dead state and emits EntityDeath. killedBy may
// be zero for environmental deaths.
func (r *Resolver) Die(e, killedBy ecs.EntityID) {
	attrs, ok := r.stores.Attributes.Get(e)
	if !ok {
		return
	}
	attrs.HP = 0
	r.stores.MarkAttributesDirty(e)

	var hateTotal int32
	if aggro, ok := r.stores.MonsterAggro.Get(e); ok {
		hateTotal = aggro.Total()
	}
	event.Emit(r.bus, event.EntityDeath{Entity: e, KilledBy: killedBy, HateTotal: hateTotal})
}

// Respawn restores e to hpPct/mpPct of its max resources at pos and emits
// EntityRespawn.
func (r *Resolver) Respawn(e ecs.EntityID, pos component.Position, hpPct, mpPct float64) {
	attrs, ok := r.stores.Attributes.Get(e)
	if !ok {
		return
	}
	attrs.HP = int32(float64(attrs.MaxHP) * hpPct)
	attrs.MP = int32(float64(attrs.MaxMP) * mpPct)
	if attrs.HP < 1 {
		attrs.HP = 1
	}
	r.stores.MarkAttributesDirty(e)

	if p, ok := r.stores.Position.Get(e); ok {
		*p = pos
		r.grid.Move(e, pos.MapID, pos.X, pos.Y)
	}
	event.Emit(r.bus, event.EntityRespawn{Entity: e})
}

// AttackResult is the outcome of one execute_attack/process_attack_with_type
// call against the primary target.
type AttackResult struct {
	Hit          bool
	Critical     bool
	TotalDamage  int32
	SecondaryIDs []ecs.EntityID // AOE victims other than the primary target
}

// ExecuteAttack resolves a single basic attack from attacker against target.
func (r *Resolver) ExecuteAttack(attacker, target ecs.EntityID) (AttackResult, error) {
	return r.ProcessAttackWithType(attacker, target, BasicAttack)
}

// ProcessAttackWithType resolves an attack with multi-hit/AOE/range/scalar
// modifiers. Each sub-hit (including AOE victims) is resolved independently;
// the returned AttackResult aggregates the primary target's total damage.
func (r *Resolver) ProcessAttackWithType(attacker, target ecs.EntityID, at AttackType) (AttackResult, error) {
	aAttrs, ok := r.stores.Attributes.Get(attacker)
	if !ok || aAttrs.HP <= 0 {
		return AttackResult{}, ErrTargetNotFound
	}
	tAttrs, ok := r.stores.Attributes.Get(target)
	if !ok {
		return AttackResult{}, ErrTargetNotFound
	}
	if tAttrs.HP <= 0 {
		return AttackResult{}, ErrTargetDead
	}

	aPos, _ := r.stores.Position.Get(attacker)
	tPos, _ := r.stores.Position.Get(target)
	if aPos == nil || tPos == nil || aPos.MapID != tPos.MapID {
		return AttackResult{}, ErrTargetNotFound
	}

	attackRange := at.RangeOverride
	if attackRange == 0 {
		if cs, ok := r.stores.CombatStats.Get(attacker); ok {
			attackRange = cs.AttackRange
		} else {
			attackRange = 1
		}
	}
	if chebyshev(aPos.X-tPos.X, aPos.Y-tPos.Y) > attackRange {
		return AttackResult{}, ErrTargetOutOfRange
	}

	result := AttackResult{}
	hitCount := at.HitCount
	if hitCount < 1 {
		hitCount = 1
	}
	for i := 0; i < hitCount; i++ {
		dmg, hit, crit := r.rollDamage(attacker, target, at)
		if hit {
			result.Hit = true
			if crit {
				result.Critical = true
			}
			result.TotalDamage += r.applyHit(attacker, target, dmg, crit, at.RingEffect)
		}
	}

	if at.AOERadius > 0 {
		for _, victim := range r.grid.QueryRange(tPos.MapID, tPos.X, tPos.Y, at.AOERadius) {
			if victim == target || victim == attacker {
				continue
			}
			vAttrs, ok := r.stores.Attributes.Get(victim)
			if !ok || vAttrs.HP <= 0 {
				continue
			}
			dmg, hit, crit := r.rollDamage(attacker, victim, at)
			if hit {
				r.applyHit(attacker, victim, dmg, crit, at.RingEffect)
				result.SecondaryIDs = append(result.SecondaryIDs, victim)
			}
		}
	}

	return result, nil
}

// rollDamage computes one sub-hit's damage per the §4.F formula shape
// without applying it, so callers can distinguish a roll from its effects.
func (r *Resolver) rollDamage(attacker, target ecs.EntityID, at AttackType) (damage int32, hit bool, crit bool) {
	aAttrs, _ := r.stores.Attributes.Get(attacker)
	tAttrs, _ := r.stores.Attributes.Get(target)
	aMods, _ := r.stores.Modifiers.Get(attacker)
	tMods, _ := r.stores.Modifiers.Get(target)
	tStats, _ := r.stores.CombatStats.Get(target)

	attack := aAttrs.Attack
	defense := tAttrs.Defense
	if aMods != nil {
		attack += aMods.Attack
	}
	if tMods != nil {
		defense += tMods.Defense
	}
	base := attack - defense
	if base < 0 {
		base = 0
	}

	evasion := 0.0
	if tStats != nil {
		evasion = tStats.EvasionChance
	}
	if tMods != nil {
		evasion += tMods.EvasionChance
	}
	missChance := r.cfg.MissChanceBase + evasion - at.HitChanceMod
	if r.rng.Float64() < missChance {
		return 0, false, false
	}

	variance := 1.0 + (r.rng.Float64()*2-1)*r.cfg.VariancePct
	dmg := float64(base) * variance * at.DamageScalar

	critChance := 0.0
	if aStats, ok := r.stores.CombatStats.Get(attacker); ok {
		critChance = aStats.CriticalChance
	}
	if aMods != nil {
		critChance += aMods.CriticalChance
	}
	isCrit := r.rng.Float64() < critChance
	if isCrit {
		dmg *= r.cfg.CriticalMultiplier
	}

	final := int32(dmg)
	if final < 1 {
		final = 1
	}
	return final, true, isCrit
}

// applyHit takes the damage, emits DamageDealt, checks ring effects, and
// handles death. It returns the damage actually applied.
func (r *Resolver) applyHit(attacker, target ecs.EntityID, damage int32, crit bool, ring RingEffect) int32 {
	tAttrs, _ := r.stores.Attributes.Get(target)
	fatal := tAttrs.HP-damage <= 0

	// revive-ring: a would-be-fatal hit instead leaves the defender at
	// ReviveRingHPPercent of max HP, consuming the proc.
	if fatal && ring == RingEffectRevive {
		tAttrs.HP = int32(float64(tAttrs.MaxHP) * r.cfg.ReviveRingHPPercent)
		if tAttrs.HP < 1 {
			tAttrs.HP = 1
		}
		r.stores.MarkAttributesDirty(target)
		event.Emit(r.bus, event.DamageDealt{Attacker: attacker, Target: target, Amount: 0, Crit: crit})
		return 0
	}

	applied := r.TakeDamage(target, damage)
	event.Emit(r.bus, event.DamageDealt{Attacker: attacker, Target: target, Amount: applied, Crit: crit})

	if aggro, ok := r.stores.MonsterAggro.Get(target); ok {
		aggro.AddHatred(attacker, applied)
	}

	if ring == RingEffectStun && r.rng.Float64() < r.cfg.StunRingProcChance {
		// Stun application itself belongs to a status-effect system not yet
		// modeled here; this hook marks the point where it would be applied.
		_ = target
	}

	if tAttrs.HP <= 0 {
		r.Die(target, attacker)
	}
	return applied
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
