package component

import (
	"time"

	"github.com/mirshard/server/internal/ecs"
)

// AIType selects which attack/behavior specialization a monster's AI state
// machine dispatches to. Dispatch is by tagged variant rather than virtual
// call, so the system stays a flat switch over this tag. These are the
// eight behaviors named by the design: the shared state machine runs for
// all of them, and only the Attack step differs per type.
type AIType int8

const (
	AITypeNormal AIType = iota
	AITypeAmbush
	AITypeRanged
	AITypeSummoner
	AITypeExplosive
	AITypePoisonous
	AITypeGuard
	AITypeBossCowKing
)

// AIState is a node in the monster behavior state machine.
type AIState int8

const (
	AIStateIdle AIState = iota
	AIStatePatrol
	AIStateChase
	AIStateAttack
	AIStateReturn
	AIStateDead
)

// MonsterAI holds a monster's behavioral state. ReturnX/ReturnY is the
// spawn-anchored position the monster walks back to after losing its
// target, so AIStateReturn does not need to consult the spawn table.
type MonsterAI struct {
	Type  AIType
	State AIState

	Target      ecs.EntityID
	StateSince  time.Time
	NextAction  time.Time

	ReturnX, ReturnY int32

	IsBoss bool

	// Ambush
	IsHidden bool

	// Ranged
	PreferredDistance int32

	// Summoner
	LastSummonAt time.Time

	// Guard
	GuardX, GuardY int32
	GuardRadius    int32
	GuardLeash     int32

	// BossCowKing
	TeleportCooldownUntil time.Time
	CrazyModeUntil        time.Time
}

// MonsterAggro is the hate-list used to pick an attack target. Hate decays
// over time so a monster that stops taking damage eventually disengages.
type MonsterAggro struct {
	AggroRange  int32 // tiles at which idle monsters notice a player
	AttackRange int32 // tiles at which chase transitions to attack

	HateList map[ecs.EntityID]int32

	cachedTop     ecs.EntityID
	cachedTopHate int32

	// DecayAccum holds fractional hate decay not yet subtracted as a whole
	// unit, since HateList only stores whole-unit hate values.
	DecayAccum float64
}

// AddHate increases target's hate and refreshes the cached top target.
func (a *MonsterAggro) AddHate(target ecs.EntityID, amount int32) {
	if a.HateList == nil {
		a.HateList = make(map[ecs.EntityID]int32)
	}
	a.HateList[target] += amount
	if a.HateList[target] > a.cachedTopHate || a.cachedTop == 0 {
		a.cachedTop = target
		a.cachedTopHate = a.HateList[target]
	}
}

// AddHatred adds 1.5x damage to attacker's hate entry, the rate at which
// combat damage (as opposed to a bare AddHate call, e.g. first-contact
// aggro) converts into threat.
func (a *MonsterAggro) AddHatred(attacker ecs.EntityID, damage int32) {
	a.AddHate(attacker, int32(float64(damage)*1.5))
}

// TopTarget returns the entity with the highest recorded hate, or zero if
// the hate list is empty.
func (a *MonsterAggro) TopTarget() ecs.EntityID {
	if len(a.HateList) == 0 {
		return 0
	}
	if _, ok := a.HateList[a.cachedTop]; ok {
		return a.cachedTop
	}
	// cached target left the hate list (removed/decayed to zero); recompute.
	var top ecs.EntityID
	var topHate int32 = -1
	for id, hate := range a.HateList {
		if hate > topHate {
			top, topHate = id, hate
		}
	}
	a.cachedTop, a.cachedTopHate = top, topHate
	return top
}

// Remove drops target from the hate list entirely, e.g. on death or logout.
func (a *MonsterAggro) Remove(target ecs.EntityID) {
	delete(a.HateList, target)
	if a.cachedTop == target {
		a.cachedTop = 0
		a.cachedTopHate = 0
	}
}

// Clear empties the hate list, e.g. when a monster returns to its spawn.
func (a *MonsterAggro) Clear() {
	a.HateList = nil
	a.cachedTop = 0
	a.cachedTopHate = 0
}

// Total sums all recorded hate, used to compute proportional exp splits.
func (a *MonsterAggro) Total() int32 {
	var total int32
	for _, hate := range a.HateList {
		total += hate
	}
	return total
}
