package units

import "testing"

func testStats() Stats {
	return Stats{Name: "Pikeman", MaxHP: 10, AttackMin: 2, AttackMax: 3, Speed: 4, Initiative: 5, Morale: 1}
}

func TestTakeDamageRollsOver(t *testing.T) {
	tests := []struct {
		name       string
		dmg        int
		wantCount  int
		wantHP     int
		wantKilled int
	}{
		{"scratch", 3, 5, 7, 0},
		{"exact kill", 10, 4, 10, 1},
		{"rollover", 25, 3, 5, 2},
		{"wipe", 100, 0, 0, 5},
		{"zero", 0, 5, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(1, Hero, testStats(), 5)
			killed := u.TakeDamage(tt.dmg)
			if u.Count != tt.wantCount || u.HP != tt.wantHP || killed != tt.wantKilled {
				t.Fatalf("count=%d hp=%d killed=%d, want %d/%d/%d",
					u.Count, u.HP, killed, tt.wantCount, tt.wantHP, tt.wantKilled)
			}
			if u.Alive() != (tt.wantCount > 0) {
				t.Fatalf("Alive() = %v", u.Alive())
			}
		})
	}
}

func TestHealCapsAtMax(t *testing.T) {
	u := New(1, Hero, testStats(), 1)
	u.TakeDamage(6)
	if got := u.Heal(4); got != 4 {
		t.Fatalf("Heal(4) = %d, want 4", got)
	}
	if got := u.Heal(10); got != 2 {
		t.Fatalf("Heal(10) = %d, want 2", got)
	}
	if u.Wounded() {
		t.Fatal("unit still wounded at full HP")
	}
}

func TestTickStatusesRecomputesFromBaseline(t *testing.T) {
	u := New(1, Hero, testStats(), 1)
	u.Statuses.Add("fear_-1", 2, map[string]int{"morale": -1}, "")

	u.TickStatuses()
	if u.Stats.Morale != 0 {
		t.Fatalf("morale after first tick = %d, want 0", u.Stats.Morale)
	}
	// Ticking again must not accumulate the modifier.
	u.TickStatuses()
	if u.Stats.Morale != 0 {
		t.Fatalf("morale after second tick = %d, want 0", u.Stats.Morale)
	}
	// Expired: back to baseline.
	u.TickStatuses()
	if u.Stats.Morale != 1 {
		t.Fatalf("morale after expiry = %d, want 1", u.Stats.Morale)
	}
	if u.Baseline().Morale != 1 {
		t.Fatal("baseline mutated")
	}
}

func TestTickStatusesReportsBurn(t *testing.T) {
	u := New(1, Enemy, testStats(), 1)
	u.Statuses.Add("burn", 1, nil, "")
	if got := u.TickStatuses(); got != 5 {
		t.Fatalf("burn = %d, want 5", got)
	}
	if got := u.TickStatuses(); got != 0 {
		t.Fatalf("burn after expiry = %d, want 0", got)
	}
}

func TestStatsApply(t *testing.T) {
	s := testStats()
	got := s.Apply(map[string]int{"speed": 2, "luck": -1, "bogus": 9})
	if got.Speed != 6 || got.Luck != -1 {
		t.Fatalf("Apply = speed %d luck %d", got.Speed, got.Luck)
	}
	if s.Speed != 4 {
		t.Fatal("Apply mutated receiver")
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	archer, ok := c.Lookup("archer")
	if !ok {
		t.Fatal("archer missing")
	}
	if !archer.Ranged() || archer.MinRange != 2 {
		t.Fatalf("archer = %+v", archer)
	}
	if _, ok := c.Lookup("boar_raven"); !ok {
		t.Fatal("boar_raven missing")
	}
	for _, name := range c.Names() {
		if c[name].Retaliations != 1 {
			t.Errorf("%s retaliations = %d", name, c[name].Retaliations)
		}
	}
}
