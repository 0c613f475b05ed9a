// Package skill implements the learn/upgrade operations of §4.I over the
// component.SkillList component, plus the recomputation of
// component.AttributeModifiers. Grounded on the teacher's
// internal/world/equipment.go recompute-on-mutation pattern: modifiers are
// never mutated incrementally, they are rebuilt in full from the current
// equipped items when equipment changes. Learned skills add no bonus, and
// learning or upgrading a skill does not trigger a recompute.
package skill

import (
	"errors"
	"time"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/content"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
)

var (
	ErrUnknownSkill   = errors.New("skill: unknown skill template")
	ErrSkillSlotsFull = errors.New("skill: no free skill slot")
	ErrAlreadyLearned = errors.New("skill: already learned")
	ErrNotLearned     = errors.New("skill: not learned")
)

// LearnSkill adds templateID to owner's skill list at level 1 in the first
// free slot.
func LearnSkill(stores *component.Stores, skills *content.SkillTable, bus *event.Bus, owner ecs.EntityID, templateID int32) error {
	if skills.Get(templateID) == nil {
		return ErrUnknownSkill
	}
	list, ok := stores.Skills.Get(owner)
	if !ok {
		list = &component.SkillList{Cooldowns: make(map[int32]time.Time)}
		stores.Skills.Set(owner, list)
	}
	if list.IndexOf(templateID) >= 0 {
		return ErrAlreadyLearned
	}
	if len(list.Skills) >= component.MaxSkillSlots {
		return ErrSkillSlotsFull
	}
	list.Skills = append(list.Skills, component.SkillInstance{TemplateID: templateID, Level: 1})

	stores.MarkSkillsDirty(owner)
	event.Emit(bus, event.SkillLearned{Owner: owner, TemplateID: templateID})
	return nil
}

// UpgradeSkill raises a learned skill's level by levels (at least 1).
func UpgradeSkill(stores *component.Stores, bus *event.Bus, owner ecs.EntityID, templateID int32, levels int32) error {
	list, ok := stores.Skills.Get(owner)
	if !ok {
		return ErrNotLearned
	}
	idx := list.IndexOf(templateID)
	if idx < 0 {
		return ErrNotLearned
	}
	if levels < 1 {
		levels = 1
	}
	list.Skills[idx].Level += levels

	stores.MarkSkillsDirty(owner)
	event.Emit(bus, event.SkillUpgraded{Owner: owner, TemplateID: templateID, NewLevel: list.Skills[idx].Level})
	return nil
}

// RecomputeModifiers rebuilds owner's AttributeModifiers from scratch based
// on currently equipped items. Passive skill bonuses are folded in the same
// way once a passive-bonus table exists in content; today only equipment
// contributes, matching what ItemInstance currently models.
func RecomputeModifiers(stores *component.Stores, owner ecs.EntityID) {
	mods := &component.AttributeModifiers{}

	if equip, ok := stores.Equipment.Get(owner); ok {
		for slot := component.EquipSlot(0); slot < component.SlotCount; slot++ {
			item := equip.Get(slot)
			if item == 0 {
				continue
			}
			inst, ok := stores.Item.Get(item)
			if !ok {
				continue
			}
			mods.Attack += inst.BonusAttack
			mods.Defense += inst.BonusDefense
		}
	}

	stores.Modifiers.Set(owner, mods)
	stores.MarkAttributesDirty(owner)
}
