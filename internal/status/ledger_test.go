package status

import (
	"reflect"
	"testing"
)

func TestAddGetConsume(t *testing.T) {
	var l Ledger
	l.Add(Focus, 2, nil, "")
	if got := l.Get(Focus); got != 2 {
		t.Fatalf("Get(focus) = %d, want 2", got)
	}
	if got := l.Get(Burn); got != 0 {
		t.Fatalf("Get(burn) = %d, want 0", got)
	}
	if a := l.Active(); a[0].Icon != "status_focus" {
		t.Fatalf("icon = %q, want status_focus", a[0].Icon)
	}
	if !l.Consume(Focus) {
		t.Fatal("Consume(focus) = false")
	}
	if l.Has(Focus) || l.Len() != 0 {
		t.Fatal("focus still active after Consume")
	}
	if l.Consume(Focus) {
		t.Fatal("second Consume reported removal")
	}
}

func TestTickExpiresAndBurns(t *testing.T) {
	var l Ledger
	l.Add(Burn, 2, nil, "")
	l.Add(Fear, 1, map[string]int{"morale": -1}, "")

	mods, burn := l.Tick()
	if burn != BurnDamage {
		t.Fatalf("burn = %d, want %d", burn, BurnDamage)
	}
	if !reflect.DeepEqual(mods, map[string]int{"morale": -1}) {
		t.Fatalf("mods = %v", mods)
	}
	if l.Has(Fear) {
		t.Fatal("fear should expire after one tick")
	}

	mods, burn = l.Tick()
	if burn != BurnDamage || len(mods) != 0 {
		t.Fatalf("second tick: mods=%v burn=%d", mods, burn)
	}
	if l.Len() != 0 {
		t.Fatalf("ledger len = %d after burn expired", l.Len())
	}

	if _, burn = l.Tick(); burn != 0 {
		t.Fatalf("empty ledger burned for %d", burn)
	}
}

func TestModifiersStack(t *testing.T) {
	var l Ledger
	l.Add("bless", 3, map[string]int{"luck": 1}, "")
	l.Add("bless", 1, map[string]int{"luck": 1, "speed": 2}, "")
	if got := l.Modifiers(); got["luck"] != 2 || got["speed"] != 2 {
		t.Fatalf("Modifiers() = %v", got)
	}
	if got := l.Names(); !reflect.DeepEqual(got, []string{"bless"}) {
		t.Fatalf("Names() = %v", got)
	}
}

func TestCategoryOf(t *testing.T) {
	tests := map[string]Category{
		Focus: Buff, ShieldBlock: Buff, Charge: Buff,
		Burn: Debuff, Fear: Debuff,
		"haste": Neutral,
	}
	for name, want := range tests {
		if got := CategoryOf(name); got != want {
			t.Errorf("CategoryOf(%q) = %q, want %q", name, got, want)
		}
	}
}
