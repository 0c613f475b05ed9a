package combat

import (
	"testing"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
	"github.com/mirshard/server/internal/spatial"
)

func newResolver(t *testing.T, rng Random) (*Resolver, *ecs.World, *component.Stores) {
	t.Helper()
	world := ecs.NewWorld()
	stores := component.NewStores(world.Registry())
	grid := spatial.NewGrid(spatial.DefaultCellSize)
	bus := event.NewBus()
	return NewResolver(world, stores, grid, bus, rng, DefaultConfig()), world, stores
}

func spawnCombatant(world *ecs.World, stores *component.Stores, grid *spatial.Grid, mapID, x, y int32, attrs component.Attributes) ecs.EntityID {
	e := world.CreateEntity()
	stores.Attributes.Set(e, &attrs)
	pos := &component.Position{MapID: mapID, X: x, Y: y}
	stores.Position.Set(e, pos)
	stores.CombatStats.Set(e, &component.CombatStats{AttackRange: 1})
	grid.Index(e, mapID, x, y)
	return e
}

func TestTakeDamageZeroIsNoop(t *testing.T) {
	r, world, stores := newResolver(t, FixedRandom{Value: 0})
	e := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100})

	applied := r.TakeDamage(e, 0)
	if applied != 0 {
		t.Fatalf("expected 0 applied damage, got %d", applied)
	}
	attrs, _ := stores.Attributes.Get(e)
	if attrs.HP != 100 {
		t.Fatalf("expected hp unchanged at 100, got %d", attrs.HP)
	}
}

func TestTakeDamageFloorsAtZeroAndAtLeastOne(t *testing.T) {
	r, world, stores := newResolver(t, FixedRandom{Value: 0})
	e := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100})

	applied := r.TakeDamage(e, 1000)
	if applied != 1000 {
		t.Fatalf("expected 1000 applied, got %d", applied)
	}
	attrs, _ := stores.Attributes.Get(e)
	if attrs.HP != 0 {
		t.Fatalf("expected hp floored at 0, got %d", attrs.HP)
	}

	// dead entity: further damage is a no-op
	if applied := r.TakeDamage(e, 5); applied != 0 {
		t.Fatalf("expected no-op on dead entity, got %d", applied)
	}
}

func TestExecuteAttackOutOfRange(t *testing.T) {
	r, world, stores := newResolver(t, FixedRandom{Value: 0})
	attacker := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100, Attack: 50})
	target := spawnCombatant(world, stores, r.grid, 1, 0, 5, component.Attributes{HP: 100, MaxHP: 100, Defense: 10})

	_, err := r.ExecuteAttack(attacker, target)
	if err != ErrTargetOutOfRange {
		t.Fatalf("expected ErrTargetOutOfRange, got %v", err)
	}
}

func TestExecuteAttackOnDeadTarget(t *testing.T) {
	r, world, stores := newResolver(t, FixedRandom{Value: 0})
	attacker := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100, Attack: 50})
	target := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 0, MaxHP: 100, Defense: 10})

	_, err := r.ExecuteAttack(attacker, target)
	if err != ErrTargetDead {
		t.Fatalf("expected ErrTargetDead, got %v", err)
	}
}

// TestExecuteAttackGuaranteesMinimumDamage checks the §8 boundary property:
// damage >= attack-defense still yields >= 1 actual damage when not a miss.
func TestExecuteAttackGuaranteesMinimumDamage(t *testing.T) {
	r, world, stores := newResolver(t, FixedRandom{Value: 0.5}) // 0.5 clears the 0.05 miss roll; variance factor is exactly 1
	attacker := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100, Attack: 10})
	target := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100, Defense: 10})

	result, err := r.ExecuteAttack(attacker, target)
	if err != nil {
		t.Fatalf("ExecuteAttack: %v", err)
	}
	if !result.Hit || result.TotalDamage < 1 {
		t.Fatalf("expected at least 1 damage on hit, got %+v", result)
	}
}

func TestExecuteAttackMissWhenRollBelowMissChance(t *testing.T) {
	// rng.Float64() returns 0, which is < any positive miss chance.
	r, world, stores := newResolver(t, FixedRandom{Value: 0})
	attacker := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100, Attack: 10})
	target := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100, Defense: 10})
	stores.CombatStats.Set(target, &component.CombatStats{EvasionChance: 1.0})

	result, err := r.ExecuteAttack(attacker, target)
	if err != nil {
		t.Fatalf("ExecuteAttack: %v", err)
	}
	if result.Hit {
		t.Fatalf("expected a miss with full evasion, got %+v", result)
	}
}

func TestDieEmitsEntityDeath(t *testing.T) {
	r, world, stores := newResolver(t, FixedRandom{Value: 0})
	var got event.EntityDeath
	event.Subscribe(r.bus, func(e event.EntityDeath) { got = e })

	e := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100})
	r.Die(e, 0)

	attrs, _ := stores.Attributes.Get(e)
	if attrs.HP != 0 {
		t.Fatalf("expected hp 0 after death, got %d", attrs.HP)
	}
	if got.Entity != e {
		t.Fatalf("expected EntityDeath for %v, got %+v", e, got)
	}
}

func TestRespawnRestoresHPAndMoves(t *testing.T) {
	r, world, stores := newResolver(t, FixedRandom{Value: 0})
	e := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 0, MaxHP: 200, MP: 0, MaxMP: 100})

	r.Respawn(e, component.Position{MapID: 1, X: 5, Y: 5}, 0.5, 0.25)

	attrs, _ := stores.Attributes.Get(e)
	if attrs.HP != 100 {
		t.Fatalf("expected hp restored to 100, got %d", attrs.HP)
	}
	if attrs.MP != 25 {
		t.Fatalf("expected mp restored to 25, got %d", attrs.MP)
	}
	pos, _ := stores.Position.Get(e)
	if pos.X != 5 || pos.Y != 5 {
		t.Fatalf("expected position moved to (5,5), got (%d,%d)", pos.X, pos.Y)
	}
}

func TestConsumeMPRequiresSufficientBalance(t *testing.T) {
	r, world, stores := newResolver(t, FixedRandom{Value: 0})
	e := spawnCombatant(world, stores, r.grid, 1, 0, 0, component.Attributes{HP: 100, MaxHP: 100, MP: 10, MaxMP: 50})

	if r.ConsumeMP(e, 20) {
		t.Fatal("expected ConsumeMP to fail with insufficient mp")
	}
	if !r.ConsumeMP(e, 10) {
		t.Fatal("expected ConsumeMP to succeed with exact balance")
	}
	attrs, _ := stores.Attributes.Get(e)
	if attrs.MP != 0 {
		t.Fatalf("expected mp 0 after consuming, got %d", attrs.MP)
	}
}
