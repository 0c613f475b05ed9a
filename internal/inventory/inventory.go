// Package inventory implements the static bag/equipment mutators of §4.I as
// free functions over the ECS component stores, grounded on the teacher's
// internal/persist/item_repo.go transactional save shape for the
// equip/unequip swap semantics and internal/world/inventory.go for the
// lowest-free-slot bag allocation.
package inventory

import (
	"errors"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
	"github.com/mirshard/server/internal/skill"
)

var ErrInventoryFull = errors.New("inventory: bag is full")

// AddItem creates an item entity in the lowest free bag slot of character.
// Returns ErrInventoryFull if no slot is free; no entity is created in that
// case.
func AddItem(world *ecs.World, stores *component.Stores, bus *event.Bus, character ecs.EntityID, templateID int32, count int32) (ecs.EntityID, error) {
	slot := lowestFreeSlot(stores, character)
	if slot < 0 {
		return 0, ErrInventoryFull
	}
	item := world.CreateEntity()
	stores.Item.Set(item, &component.ItemInstance{TemplateID: templateID, Count: count})
	stores.InventoryOwner.Set(item, &component.InventoryOwner{Owner: character, SlotIndex: slot})
	stores.MarkItemsDirty(character)
	event.Emit(bus, event.ItemAdded{Owner: character, Item: item})
	return item, nil
}

func lowestFreeSlot(stores *component.Stores, character ecs.EntityID) int32 {
	occupied := make(map[int32]bool, component.MaxInventorySize)
	stores.InventoryOwner.Each(func(_ ecs.EntityID, owner *component.InventoryOwner) {
		if owner.Owner == character && owner.SlotIndex >= 0 {
			occupied[owner.SlotIndex] = true
		}
	})
	for i := int32(0); i < component.MaxInventorySize; i++ {
		if !occupied[i] {
			return i
		}
	}
	return -1
}

// EquipItem moves item from character's bag into the equipment slot
// indicated by its template's equip-slot hint. If that slot is already
// occupied, the previously equipped item takes the incoming item's old bag
// slot, so the swap succeeds even when the bag has no other free slot.
func EquipItem(stores *component.Stores, bus *event.Bus, character, item ecs.EntityID) error {
	inst, ok := stores.Item.Get(item)
	if !ok {
		return errors.New("inventory: item not found")
	}
	owner, ok := stores.InventoryOwner.Get(item)
	if !ok || owner.Owner != character {
		return errors.New("inventory: item not owned by character")
	}
	equip, ok := stores.Equipment.Get(character)
	if !ok {
		equip = &component.Equipment{}
		stores.Equipment.Set(character, equip)
	}

	slot := component.SlotForHint(inst.EquipSlotHint, equip)
	if slot < 0 {
		return errors.New("inventory: item has no equip slot")
	}
	incomingBagSlot := owner.SlotIndex

	if previous := equip.Get(slot); previous != 0 {
		prevOwner, _ := stores.InventoryOwner.Get(previous)
		if prevOwner != nil {
			prevOwner.SlotIndex = incomingBagSlot
		}
		event.Emit(bus, event.ItemUnequipped{Owner: character, Item: previous})
	}

	equip.Set(slot, item)
	owner.SlotIndex = component.GroundSlotIndex

	stores.MarkEquipmentDirty(character)
	stores.MarkItemsDirty(character)
	skill.RecomputeModifiers(stores, character)
	event.Emit(bus, event.ItemEquipped{Owner: character, Item: item})
	return nil
}

// UnequipItem moves the item in slot back to the character's bag.
// Fails if the bag has no free slot.
func UnequipItem(stores *component.Stores, bus *event.Bus, character ecs.EntityID, slot component.EquipSlot) error {
	equip, ok := stores.Equipment.Get(character)
	if !ok {
		return errors.New("inventory: character has no equipment")
	}
	item := equip.Get(slot)
	if item == 0 {
		return errors.New("inventory: slot is empty")
	}
	free := lowestFreeSlot(stores, character)
	if free < 0 {
		return ErrInventoryFull
	}
	owner, _ := stores.InventoryOwner.Get(item)
	if owner != nil {
		owner.SlotIndex = free
	}
	equip.Set(slot, 0)

	stores.MarkEquipmentDirty(character)
	stores.MarkItemsDirty(character)
	skill.RecomputeModifiers(stores, character)
	event.Emit(bus, event.ItemUnequipped{Owner: character, Item: item})
	return nil
}

// UseItem decrements count from item's stack, destroying the entity when
// it reaches zero, and publishes ItemUsed with the remaining count.
func UseItem(world *ecs.World, stores *component.Stores, bus *event.Bus, character, item ecs.EntityID, count int32) error {
	inst, ok := stores.Item.Get(item)
	if !ok {
		return errors.New("inventory: item not found")
	}
	inst.Count -= count
	if inst.Count <= 0 {
		inst.Count = 0
		world.MarkForDestruction(item)
	}
	stores.MarkItemsDirty(character)
	event.Emit(bus, event.ItemUsed{Owner: character, Item: item, RemainingCount: inst.Count})
	return nil
}

// DropItem retains the item entity but clears its ownership so it becomes
// a ground item.
func DropItem(stores *component.Stores, bus *event.Bus, character, item ecs.EntityID, pos component.Position) {
	owner, ok := stores.InventoryOwner.Get(item)
	if !ok {
		return
	}
	owner.Owner = 0
	owner.SlotIndex = component.GroundSlotIndex
	stores.Position.Set(item, &pos)
	stores.MarkItemsDirty(character)
	event.Emit(bus, event.ItemDropped{Owner: character, Item: item, X: pos.X, Y: pos.Y, MapID: pos.MapID})
}
