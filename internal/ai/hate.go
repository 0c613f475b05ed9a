// Package ai runs the monster behavior state machine: a shared skeleton of
// Idle/Patrol/Chase/Attack/Return/Dead states, with eight AI-type tags
// overriding only the Attack step via a tagged-variant switch rather than a
// virtual call.
//
// Grounded on the teacher's internal/system/hate.go for hate accumulation
// and internal/system/npc_ai.go for the tick-driven state dispatch,
// generalized from map[sessionID]int32 to the ECS's component.MonsterAggro
// and from the teacher's fixed normal-only behavior to the 8-type dispatch
// table required here.
package ai

import (
	"time"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
)

// HateDecayRate is the fractional hate lost per second, accumulated on every
// DecayHatred call and subtracted in whole units per tick.
const HateDecayRate = 2.0

// DecayHatred accumulates HateDecayRate*dt of fractional decay on aggro's
// own DecayAccum and subtracts whole units from every hate entry once a
// full unit has accrued, erasing entries that reach zero or below. The
// accumulator lives on the component rather than a package-level map so
// decay state travels with the entity and tests stay hermetic.
func DecayHatred(e ecs.EntityID, aggro *component.MonsterAggro, dt time.Duration) {
	aggro.DecayAccum += HateDecayRate * dt.Seconds()
	whole := int32(aggro.DecayAccum)
	if whole <= 0 {
		return
	}
	aggro.DecayAccum -= float64(whole)

	for target, hate := range aggro.HateList {
		hate -= whole
		if hate <= 0 {
			aggro.Remove(target)
		} else {
			aggro.HateList[target] = hate
		}
	}
}

// IsValidTarget reports whether target is still a live, alive entity.
func IsValidTarget(world *ecs.World, stores *component.Stores, target ecs.EntityID) bool {
	if target.IsZero() || !world.Alive(target) {
		return false
	}
	attrs, ok := stores.Attributes.Get(target)
	return ok && attrs.HP > 0
}
