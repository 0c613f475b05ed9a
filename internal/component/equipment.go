package component

import "github.com/mirshard/server/internal/ecs"

// EquipSlot identifies one of the 13 fixed equipment slots a character has.
type EquipSlot int

const (
	SlotWeapon EquipSlot = iota
	SlotArmor
	SlotHelmet
	SlotBoots
	SlotRingLeft
	SlotRingRight
	SlotNecklace
	SlotBraceletLeft
	SlotBraceletRight
	SlotBelt
	SlotAmulet
	SlotTalisman
	SlotCharm
	SlotCount // sentinel — number of slots
)

// Equipment is the fixed-size array of equipped item handles.
// A zero EntityID means the slot is empty.
type Equipment struct {
	Slots [SlotCount]ecs.EntityID
}

func (e *Equipment) Get(slot EquipSlot) ecs.EntityID {
	if slot < 0 || slot >= SlotCount {
		return 0
	}
	return e.Slots[slot]
}

func (e *Equipment) Set(slot EquipSlot, item ecs.EntityID) {
	if slot >= 0 && slot < SlotCount {
		e.Slots[slot] = item
	}
}

// SlotForHint maps an item's equip-slot hint (from its template) to a
// concrete EquipSlot. "ring" and "bracelet" are ambiguous — current
// code fills the left slot first, then the right, matching the legacy
// fill order recorded as an Open Question in spec §9 (not verified
// against authoritative content; documented in DESIGN.md).
func SlotForHint(hint string, equip *Equipment) EquipSlot {
	switch hint {
	case "weapon":
		return SlotWeapon
	case "armor":
		return SlotArmor
	case "helmet":
		return SlotHelmet
	case "boots":
		return SlotBoots
	case "necklace":
		return SlotNecklace
	case "belt":
		return SlotBelt
	case "amulet":
		return SlotAmulet
	case "talisman":
		return SlotTalisman
	case "charm":
		return SlotCharm
	case "ring":
		if equip.Get(SlotRingLeft) == 0 {
			return SlotRingLeft
		}
		return SlotRingRight
	case "bracelet":
		if equip.Get(SlotBraceletLeft) == 0 {
			return SlotBraceletLeft
		}
		return SlotBraceletRight
	default:
		return -1
	}
}
