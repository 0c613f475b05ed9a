package skill

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mirshard/server/internal/component"
	"github.com/mirshard/server/internal/content"
	"github.com/mirshard/server/internal/ecs"
	"github.com/mirshard/server/internal/event"
)

func newFixtures() (*ecs.World, *component.Stores, *event.Bus) {
	world := ecs.NewWorld()
	stores := component.NewStores(world.Registry())
	return world, stores, event.NewBus()
}

func loadTestSkillTable(t *testing.T) *content.SkillTable {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skills.yaml")
	yaml := "skills:\n  - skill_id: 1\n    name: Slash\n    mp_cost: 5\n    cooldown_ms: 1000\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write skills.yaml: %v", err)
	}
	table, err := content.LoadSkillTable(path)
	if err != nil {
		t.Fatalf("LoadSkillTable: %v", err)
	}
	return table
}

func TestLearnSkillRejectsUnknownTemplate(t *testing.T) {
	world, stores, bus := newFixtures()
	owner := world.CreateEntity()
	table := &content.SkillTable{}

	if err := LearnSkill(stores, table, bus, owner, 42); err != ErrUnknownSkill {
		t.Fatalf("expected ErrUnknownSkill, got %v", err)
	}
}

func TestUpgradeSkillRequiresLearned(t *testing.T) {
	world, stores, bus := newFixtures()
	owner := world.CreateEntity()

	if err := UpgradeSkill(stores, bus, owner, 1, 1); err != ErrNotLearned {
		t.Fatalf("expected ErrNotLearned, got %v", err)
	}
}

func TestUpgradeSkillAddsRequestedLevels(t *testing.T) {
	world, stores, bus := newFixtures()
	owner := world.CreateEntity()
	table := loadTestSkillTable(t)

	if err := LearnSkill(stores, table, bus, owner, 1); err != nil {
		t.Fatalf("LearnSkill: %v", err)
	}
	if err := UpgradeSkill(stores, bus, owner, 1, 3); err != nil {
		t.Fatalf("UpgradeSkill: %v", err)
	}
	list, _ := stores.Skills.Get(owner)
	if got := list.Skills[list.IndexOf(1)].Level; got != 4 {
		t.Fatalf("expected level 1+3=4, got %d", got)
	}
}

func TestRecomputeModifiersSumsEquippedBonuses(t *testing.T) {
	world, stores, _ := newFixtures()
	character := world.CreateEntity()

	sword := world.CreateEntity()
	stores.Item.Set(sword, &component.ItemInstance{TemplateID: 1, Count: 1, BonusAttack: 10})
	armor := world.CreateEntity()
	stores.Item.Set(armor, &component.ItemInstance{TemplateID: 2, Count: 1, BonusDefense: 5})

	equip := &component.Equipment{}
	equip.Set(component.SlotWeapon, sword)
	equip.Set(component.SlotArmor, armor)
	stores.Equipment.Set(character, equip)

	RecomputeModifiers(stores, character)

	mods, ok := stores.Modifiers.Get(character)
	if !ok {
		t.Fatal("expected AttributeModifiers to be set")
	}
	if mods.Attack != 10 {
		t.Fatalf("expected Attack 10, got %d", mods.Attack)
	}
	if mods.Defense != 5 {
		t.Fatalf("expected Defense 5, got %d", mods.Defense)
	}
}
