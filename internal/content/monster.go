// Package content loads the YAML configuration surface: monster templates,
// spawn points, drop tables, and skill templates. Grounded on the teacher's
// internal/data/npc.go loader shape (os.ReadFile + yaml.Unmarshal into a
// wrapper struct, indexed into a map[int32]*Template table), generalized
// from L1J's Java-class-name Impl field to this spec's AI-type tag.
package content

import (
	"fmt"
	"os"

	"github.com/mirshard/server/internal/component"
	"gopkg.in/yaml.v3"
)

// MonsterTemplate is static per-template monster data: id, race/appearance,
// and the AI tag driving its behavior.
type MonsterTemplate struct {
	TemplateID        int32  `yaml:"template_id"`
	Name              string `yaml:"name"`
	Race              string `yaml:"race"`
	GfxID             int32  `yaml:"gfx_id"`
	AIType            string `yaml:"ai_type"`
	Level             int32  `yaml:"level"`
	HP                int32  `yaml:"hp"`
	MP                int32  `yaml:"mp"`
	Attack            int32  `yaml:"attack"`
	Defense           int32  `yaml:"defense"`
	Exp               int64  `yaml:"exp"`
	AttackRange       int32  `yaml:"attack_range"`
	AggroRange        int32  `yaml:"aggro_range"`
	PreferredDistance int32  `yaml:"preferred_distance"`
	GuardRadius       int32  `yaml:"guard_radius"`
	GuardLeash        int32  `yaml:"guard_leash"`

	// AI is component.AIType parsed from AIType via ParseAIType at load
	// time, so spawnAt never has to re-parse the string per spawn.
	AI component.AIType `yaml:"-"`
}

// ParseAIType maps the YAML ai_type tag to the monster AI system's
// first-class component.AIType. Unrecognized tags fall back to
// AITypeNormal rather than failing the whole load, consistent with this
// package's other loaders never propagating a single bad entry into the
// tick loop.
func ParseAIType(s string) (component.AIType, bool) {
	switch s {
	case "melee", "normal":
		return component.AITypeNormal, true
	case "ambush":
		return component.AITypeAmbush, true
	case "ranged":
		return component.AITypeRanged, true
	case "summoner":
		return component.AITypeSummoner, true
	case "explosive":
		return component.AITypeExplosive, true
	case "poisonous":
		return component.AITypePoisonous, true
	case "guard":
		return component.AITypeGuard, true
	case "boss":
		return component.AITypeBossCowKing, true
	default:
		return component.AITypeNormal, false
	}
}

type monsterListFile struct {
	Monsters []MonsterTemplate `yaml:"monsters"`
}

// MonsterTable indexes every loaded monster template by id.
type MonsterTable struct {
	templates map[int32]*MonsterTemplate
}

func LoadMonsterTable(path string) (*MonsterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read monster table: %w", err)
	}
	var f monsterListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("content: parse monster table: %w", err)
	}
	t := &MonsterTable{templates: make(map[int32]*MonsterTemplate, len(f.Monsters))}
	for i := range f.Monsters {
		m := &f.Monsters[i]
		m.AI, _ = ParseAIType(m.AIType)
		t.templates[m.TemplateID] = m
	}
	return t, nil
}

func (t *MonsterTable) Get(templateID int32) *MonsterTemplate {
	return t.templates[templateID]
}

func (t *MonsterTable) Count() int { return len(t.templates) }
