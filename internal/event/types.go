package event

import "github.com/mirshard/server/internal/ecs"

// DamageDealt is emitted after combat resolves one attack's damage, before
// death is checked. Systems that react to damage without caring about death
// (e.g. a UI-facing hit-splat tracker) subscribe to this rather than to
// EntityDeath.
type DamageDealt struct {
	Attacker ecs.EntityID
	Target   ecs.EntityID
	Amount   int32
	Crit     bool
}

// EntityDeath is emitted once, the tick an entity's HP reaches zero.
type EntityDeath struct {
	Entity    ecs.EntityID
	KilledBy  ecs.EntityID
	HateTotal int32
}

// EntityRespawn is emitted when a dead entity is brought back (player
// resurrection, or a monster's spawn point recreating it).
type EntityRespawn struct {
	Entity ecs.EntityID
}

// ItemEquipped/ItemUnequipped bracket an equip-slot change.
type ItemEquipped struct {
	Owner ecs.EntityID
	Item  ecs.EntityID
}

type ItemUnequipped struct {
	Owner ecs.EntityID
	Item  ecs.EntityID
}

// ItemAdded is emitted when an item enters a character's bag, whether from
// a pickup, a drop roll, or a GM grant.
type ItemAdded struct {
	Owner ecs.EntityID
	Item  ecs.EntityID
}

// ItemUsed is emitted after a consumable's stack is decremented.
// RemainingCount is the stack count after the decrement (0 once the item
// entity has been destroyed).
type ItemUsed struct {
	Owner          ecs.EntityID
	Item           ecs.EntityID
	RemainingCount int32
}

// ItemDropped is emitted when an item leaves a bag onto the ground.
type ItemDropped struct {
	Owner ecs.EntityID
	Item  ecs.EntityID
	X, Y  int32
	MapID int32
}

// SkillLearned/SkillUpgraded mark skill-list changes that require an
// attribute-modifier recompute.
type SkillLearned struct {
	Owner      ecs.EntityID
	TemplateID int32
}

type SkillUpgraded struct {
	Owner      ecs.EntityID
	TemplateID int32
	NewLevel   int32
}

// MonsterSummon is emitted by a summoner monster AI to request that its
// children be spawned. No system in this repository subscribes to it, so no
// entity is created in response.
type MonsterSummon struct {
	Summoner   ecs.EntityID
	TemplateID int32
	Count      int32
}
