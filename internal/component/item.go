package component

import "github.com/mirshard/server/internal/ecs"

// ItemInstance is the mutable state of a single item entity.
// Static data (name, base stats, bag icon) lives in the content
// registry keyed by TemplateID.
type ItemInstance struct {
	TemplateID      int32
	Count           int32
	Durability      int32
	MaxDurability   int32
	ShapeCode       int32
	EnhancementLevel int16
	Luck            int16
	EquipSlotHint   string // "weapon", "ring", "bracelet", ... see SlotForHint

	// Derived bonuses applied while equipped; recomputed on enhancement change.
	BonusAttack  int32
	BonusDefense int32
}

// InventoryOwner records where an item entity currently lives:
// bag (owner set, SlotIndex >= 0), equipped (owner set, SlotIndex == -1
// and present in the owner's Equipment component), or a ground item
// (owner zero, SlotIndex == -1).
type InventoryOwner struct {
	Owner     ecs.EntityID
	SlotIndex int32
}

const GroundSlotIndex int32 = -1

// MaxInventorySize is the fixed capacity of a character's bag.
const MaxInventorySize = 40
