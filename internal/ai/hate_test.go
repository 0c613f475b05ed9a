package ai

import (
	"testing"
	"time"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
)

func TestAddHatredScalesByOneAndAHalf(t *testing.T) {
	aggro := &component.MonsterAggro{}
	attacker := ecs.EntityID(1)

	aggro.AddHatred(attacker, 100)

	if got := aggro.HateList[attacker]; got != 150 {
		t.Fatalf("expected 150 hate, got %d", got)
	}
}

func TestDecayHatredRemovesEntriesAtOrBelowZero(t *testing.T) {
	aggro := &component.MonsterAggro{HateList: map[ecs.EntityID]int32{1: 1, 2: 10}}
	e := ecs.EntityID(99)

	// HateDecayRate is 2/s; one second of decay subtracts 2 whole units.
	DecayHatred(e, aggro, time.Second)

	if _, ok := aggro.HateList[1]; ok {
		t.Fatal("expected entry with hate 1 removed after decay")
	}
	if got := aggro.HateList[2]; got != 8 {
		t.Fatalf("expected 8 remaining hate, got %d", got)
	}
}

func TestDecayHatredAccumulatesFractionalDecay(t *testing.T) {
	aggro := &component.MonsterAggro{HateList: map[ecs.EntityID]int32{1: 10}}
	e := ecs.EntityID(1)

	// Each quarter-second adds 0.5 fractional units; nothing subtracts
	// until a full unit has accrued.
	DecayHatred(e, aggro, 250*time.Millisecond)
	if got := aggro.HateList[1]; got != 10 {
		t.Fatalf("expected no decay yet, got %d", got)
	}
	DecayHatred(e, aggro, 250*time.Millisecond)
	if got := aggro.HateList[1]; got != 9 {
		t.Fatalf("expected one whole unit decayed, got %d", got)
	}
}

func TestDecayHatredAccumulatorIsPerComponentNotGlobal(t *testing.T) {
	a := &component.MonsterAggro{HateList: map[ecs.EntityID]int32{1: 10}}
	b := &component.MonsterAggro{HateList: map[ecs.EntityID]int32{1: 10}}

	DecayHatred(ecs.EntityID(1), a, 900*time.Millisecond)
	// b must not have accumulated any decay from a's ticks.
	if got := b.HateList[1]; got != 10 {
		t.Fatalf("expected b's hate untouched by a's decay, got %d", got)
	}
}

func TestCachedTopTargetRecomputesWhenRemoved(t *testing.T) {
	aggro := &component.MonsterAggro{}
	aggro.AddHate(ecs.EntityID(1), 10)
	aggro.AddHate(ecs.EntityID(2), 50)
	if top := aggro.TopTarget(); top != 2 {
		t.Fatalf("expected top target 2, got %v", top)
	}

	aggro.Remove(ecs.EntityID(2))
	if top := aggro.TopTarget(); top != 1 {
		t.Fatalf("expected top target to fall back to 1, got %v", top)
	}
}

func TestIsValidTargetRejectsDeadOrMissingEntity(t *testing.T) {
	world := ecs.NewWorld()
	stores := component.NewStores(world.Registry())

	alive := world.CreateEntity()
	stores.Attributes.Set(alive, &component.Attributes{HP: 10, MaxHP: 10})

	dead := world.CreateEntity()
	stores.Attributes.Set(dead, &component.Attributes{HP: 0, MaxHP: 10})

	if !IsValidTarget(world, stores, alive) {
		t.Fatal("expected alive entity to be a valid target")
	}
	if IsValidTarget(world, stores, dead) {
		t.Fatal("expected dead entity to be an invalid target")
	}
	if IsValidTarget(world, stores, ecs.EntityID(0)) {
		t.Fatal("expected zero entity to be an invalid target")
	}
}
