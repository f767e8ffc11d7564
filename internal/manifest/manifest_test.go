package manifest

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadUnitsYAML(t *testing.T) {
	path := writeFile(t, "units.yaml", `
units:
  - name: Pikeman
    max_hp: 12
    attack_min: 2
    attack_max: 4
    speed: 4
    initiative: 6
    abilities: ["thick_hide(-20% melee_damage_taken)"]
`)
	cat := LoadUnits(path)
	p, ok := cat["Pikeman"]
	if !ok {
		t.Fatalf("catalog = %v", cat)
	}
	if p.MaxHP != 12 || p.AttackRange != 1 || p.Retaliations != 1 || len(p.Abilities) != 1 {
		t.Fatalf("pikeman = %+v", p)
	}
}

func TestLoadUnitsJSON(t *testing.T) {
	path := writeFile(t, "units.json", `{"units":[{"name":"Imp","max_hp":5,"attack_min":1,"attack_max":2},{"max_hp":3}]}`)
	cat := LoadUnits(path)
	if len(cat) != 1 || cat["Imp"].MaxHP != 5 {
		t.Fatalf("catalog = %v", cat)
	}
}

func TestLoadUnitsDegrades(t *testing.T) {
	if cat := LoadUnits(filepath.Join(t.TempDir(), "missing.json")); len(cat) != 0 {
		t.Fatalf("missing file gave %v", cat)
	}
	bad := writeFile(t, "bad.json", `{"units": [`)
	if cat := LoadUnits(bad); len(cat) != 0 {
		t.Fatalf("malformed file gave %v", cat)
	}
	if cat := LoadUnits(""); len(cat) != 0 {
		t.Fatal("empty path should give empty catalog")
	}
}
