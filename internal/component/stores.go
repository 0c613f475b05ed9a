package component

import "github.com/mirshard/server/internal/ecs"

// Stores bundles one PtrComponentStore per component type and registers
// each with the world's Registry, so that destroying an entity clears it
// out of every store in one RemoveAll call.
type Stores struct {
	Identity     *ecs.PtrComponentStore[Identity]
	Position     *ecs.PtrComponentStore[Position]
	Attributes   *ecs.PtrComponentStore[Attributes]
	CombatStats  *ecs.PtrComponentStore[CombatStats]
	Modifiers    *ecs.PtrComponentStore[AttributeModifiers]
	Equipment    *ecs.PtrComponentStore[Equipment]
	Item         *ecs.PtrComponentStore[ItemInstance]
	InventoryOwner *ecs.PtrComponentStore[InventoryOwner]
	Skills       *ecs.PtrComponentStore[SkillList]
	MonsterAI    *ecs.PtrComponentStore[MonsterAI]
	MonsterAggro *ecs.PtrComponentStore[MonsterAggro]
	Dirty        *ecs.PtrComponentStore[Dirty]
}

// NewStores allocates every component store and registers it with registry.
func NewStores(registry *ecs.Registry) *Stores {
	s := &Stores{
		Identity:       ecs.NewPtrComponentStore[Identity](),
		Position:       ecs.NewPtrComponentStore[Position](),
		Attributes:     ecs.NewPtrComponentStore[Attributes](),
		CombatStats:    ecs.NewPtrComponentStore[CombatStats](),
		Modifiers:      ecs.NewPtrComponentStore[AttributeModifiers](),
		Equipment:      ecs.NewPtrComponentStore[Equipment](),
		Item:           ecs.NewPtrComponentStore[ItemInstance](),
		InventoryOwner: ecs.NewPtrComponentStore[InventoryOwner](),
		Skills:         ecs.NewPtrComponentStore[SkillList](),
		MonsterAI:      ecs.NewPtrComponentStore[MonsterAI](),
		MonsterAggro:   ecs.NewPtrComponentStore[MonsterAggro](),
		Dirty:          ecs.NewPtrComponentStore[Dirty](),
	}
	registry.Register(s.Identity)
	registry.Register(s.Position)
	registry.Register(s.Attributes)
	registry.Register(s.CombatStats)
	registry.Register(s.Modifiers)
	registry.Register(s.Equipment)
	registry.Register(s.Item)
	registry.Register(s.InventoryOwner)
	registry.Register(s.Skills)
	registry.Register(s.MonsterAI)
	registry.Register(s.MonsterAggro)
	registry.Register(s.Dirty)
	return s
}

// MarkAttributesDirty sets the attributes flag for e, creating the Dirty
// component if the entity doesn't have one yet.
func (s *Stores) MarkAttributesDirty(e ecs.EntityID) { s.dirty(e).MarkAttributes() }
func (s *Stores) MarkItemsDirty(e ecs.EntityID)      { s.dirty(e).MarkItems() }
func (s *Stores) MarkEquipmentDirty(e ecs.EntityID)  { s.dirty(e).MarkEquipment() }
func (s *Stores) MarkSkillsDirty(e ecs.EntityID)     { s.dirty(e).MarkSkills() }

func (s *Stores) dirty(e ecs.EntityID) *Dirty {
	d, ok := s.Dirty.Get(e)
	if !ok {
		d = &Dirty{}
		s.Dirty.Set(e, d)
	}
	return d
}
