package content

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SpawnPoint is a YAML-configured monster spawn location.
type SpawnPoint struct {
	SpawnPointID    int32         `yaml:"spawn_point_id"`
	TemplateID      int32         `yaml:"template_id"`
	MapID           int32         `yaml:"map_id"`
	CenterX         int32         `yaml:"center_x"`
	CenterY         int32         `yaml:"center_y"`
	SpawnRadius     int32         `yaml:"spawn_radius"`
	RespawnInterval time.Duration `yaml:"-"`
	RespawnSeconds  int           `yaml:"respawn_interval_seconds"`
	MaxCount        int           `yaml:"max_count"`
	AggroRange      int32         `yaml:"aggro_range"`
	AttackRange     int32         `yaml:"attack_range"`
	PatrolRadius    int32         `yaml:"patrol_radius"`
}

type spawnListFile struct {
	Spawns []SpawnPoint `yaml:"spawns"`
}

// LoadSpawnPoints loads spawn point definitions from path, deriving
// RespawnInterval from the YAML's integer seconds field.
func LoadSpawnPoints(path string) ([]SpawnPoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read spawn points: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("content: parse spawn points: %w", err)
	}
	for i := range f.Spawns {
		f.Spawns[i].RespawnInterval = time.Duration(f.Spawns[i].RespawnSeconds) * time.Second
	}
	return f.Spawns, nil
}
