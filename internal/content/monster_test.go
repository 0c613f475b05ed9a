package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mirshard/server/internal/component"
)

func TestParseAITypeMapsEverySpecTag(t *testing.T) {
	cases := map[string]component.AIType{
		"melee":     component.AITypeNormal,
		"normal":    component.AITypeNormal,
		"ambush":    component.AITypeAmbush,
		"ranged":    component.AITypeRanged,
		"summoner":  component.AITypeSummoner,
		"explosive": component.AITypeExplosive,
		"poisonous": component.AITypePoisonous,
		"guard":     component.AITypeGuard,
		"boss":      component.AITypeBossCowKing,
	}
	for tag, want := range cases {
		got, ok := ParseAIType(tag)
		if !ok {
			t.Errorf("ParseAIType(%q): expected ok=true", tag)
		}
		if got != want {
			t.Errorf("ParseAIType(%q) = %v, want %v", tag, got, want)
		}
	}
}

func TestParseAITypeDefaultsUnknownTagToNormal(t *testing.T) {
	got, ok := ParseAIType("some-future-tag")
	if ok {
		t.Fatal("expected ok=false for an unrecognized ai_type tag")
	}
	if got != component.AITypeNormal {
		t.Fatalf("expected fallback to AITypeNormal, got %v", got)
	}
}

func TestLoadMonsterTableResolvesAIType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monsters.yaml")
	yaml := `
monsters:
  - template_id: 1
    name: Test Guard
    ai_type: guard
    guard_radius: 8
    guard_leash: 12
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write monsters.yaml: %v", err)
	}
	table, err := LoadMonsterTable(path)
	if err != nil {
		t.Fatalf("LoadMonsterTable: %v", err)
	}
	tmpl := table.Get(1)
	if tmpl == nil {
		t.Fatal("expected template 1 to load")
	}
	if tmpl.AI != component.AITypeGuard {
		t.Fatalf("expected AI resolved to AITypeGuard, got %v", tmpl.AI)
	}
	if tmpl.GuardRadius != 8 || tmpl.GuardLeash != 12 {
		t.Fatalf("expected guard_radius/guard_leash to load, got %d/%d", tmpl.GuardRadius, tmpl.GuardLeash)
	}
}
