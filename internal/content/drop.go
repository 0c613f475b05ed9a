package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DropEntry is one row of a monster template's drop table.
type DropEntry struct {
	ItemTemplateID int32   `yaml:"item_template_id"`
	DropRate       float64 `yaml:"drop_rate"` // 0..1
	MinCount       int32   `yaml:"min_count"`
	MaxCount       int32   `yaml:"max_count"`
}

type dropTableFile struct {
	Tables map[int32][]DropEntry `yaml:"drop_tables"` // keyed by monster template id
}

// DropTables indexes drop entries by monster template id.
type DropTables struct {
	byTemplate map[int32][]DropEntry
}

func LoadDropTables(path string) (*DropTables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read drop tables: %w", err)
	}
	var f dropTableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("content: parse drop tables: %w", err)
	}
	return &DropTables{byTemplate: f.Tables}, nil
}

// For returns the drop entries for a monster template id, or nil.
func (d *DropTables) For(monsterTemplateID int32) []DropEntry {
	return d.byTemplate[monsterTemplateID]
}
