package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SkillTemplate is static per-skill-id data: cost, cooldown, targeting.
type SkillTemplate struct {
	SkillID      int32   `yaml:"skill_id"`
	Name         string  `yaml:"name"`
	MPCost       int32   `yaml:"mp_cost"`
	CooldownMS   int64   `yaml:"cooldown_ms"`
	TargetType   string  `yaml:"target_type"` // "self", "single", "aoe"
	Range        int32   `yaml:"range"`
	AOERadius    int32   `yaml:"aoe_radius"`
	DamageScalar float64 `yaml:"damage_scalar"`
}

type skillListFile struct {
	Skills []SkillTemplate `yaml:"skills"`
}

// SkillTable indexes skill templates by id.
type SkillTable struct {
	templates map[int32]*SkillTemplate
}

func LoadSkillTable(path string) (*SkillTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read skill table: %w", err)
	}
	var f skillListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("content: parse skill table: %w", err)
	}
	t := &SkillTable{templates: make(map[int32]*SkillTemplate, len(f.Skills))}
	for i := range f.Skills {
		s := &f.Skills[i]
		t.templates[s.SkillID] = s
	}
	return t, nil
}

func (t *SkillTable) Get(skillID int32) *SkillTemplate {
	return t.templates[skillID]
}

func (t *SkillTable) Count() int { return len(t.templates) }
