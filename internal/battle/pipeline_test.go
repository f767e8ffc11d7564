package battle

import (
	"testing"

	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

// duel returns a hero attacker at (2,2) and an enemy defender at (3,2),
// adjacent and facing each other.
func duel(t *testing.T, att, def units.Stats) (*Battle, *units.Unit, *units.Unit) {
	t.Helper()
	b := newTestBattle(t, []units.Stats{att}, []units.Stats{def})
	a, d := b.Side(units.Hero)[0], b.Side(units.Enemy)[0]
	put(t, b, a, world.Offset{X: 2, Y: 2})
	put(t, b, d, world.Offset{X: 3, Y: 2})
	return b, a, d
}

func TestFrontalAndRearHits(t *testing.T) {
	cases := []struct {
		name   string
		facing world.Offset
		want   int
	}{
		{"front", world.Offset{X: -1}, 10},
		{"side", world.Offset{Y: 1}, 11},
		{"rear", world.Offset{X: 1}, 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, a, d := duel(t, statBlock("Attacker", 50, 10, 5), statBlock("Defender", 100, 0, 5))
			d.Facing = tc.facing
			hit := b.resolveAttack(a, d, false, false)
			if hit.Damage != tc.want || d.DamageTaken != tc.want {
				t.Fatalf("damage = %d (taken %d), want %d", hit.Damage, d.DamageTaken, tc.want)
			}
			if d.Facing != (world.Offset{X: -1}) {
				t.Fatalf("defender facing = %v, want to face the attacker", d.Facing)
			}
		})
	}
}

func TestFireResistance(t *testing.T) {
	b, _, d := duel(t, statBlock("Attacker", 50, 10, 5), statBlock("Lizard", 100, 0, 5, "fire_resistance(25%)"))
	hit := b.resolveSpellDamage(nil, d, 40, "fire")
	if hit.Damage != 30 {
		t.Fatalf("fire damage = %d, want 30", hit.Damage)
	}
	hit = b.resolveSpellDamage(nil, d, 40, "shock")
	if hit.Damage != 40 {
		t.Fatalf("shock damage = %d, want 40", hit.Damage)
	}
}

func TestGoreChargeBonus(t *testing.T) {
	for _, tc := range []struct {
		moved int
		want  int
	}{{0, 10}, {1, 10}, {2, 15}, {4, 15}} {
		b, a, d := duel(t, statBlock("Boar", 50, 10, 5, "gore_charge"), statBlock("Target", 100, 0, 5))
		rt, _ := b.Runtime(a.ID)
		rt.MovedTiles = tc.moved
		hit := b.resolveAttack(a, d, false, false)
		if hit.Damage != tc.want {
			t.Errorf("moved %d: damage = %d, want %d", tc.moved, hit.Damage, tc.want)
		}
		knocked := d.Pos != (world.Offset{X: 3, Y: 2})
		if knocked != (tc.want == 15) {
			t.Errorf("moved %d: defender at %v", tc.moved, d.Pos)
		}
	}
}

func TestRetaliationIgnoresChargeBonus(t *testing.T) {
	b, a, d := duel(t, statBlock("Attacker", 100, 10, 5), statBlock("Boar", 100, 10, 5, "gore_charge"))
	rt, _ := b.Runtime(d.ID)
	rt.MovedTiles = 2
	b.resolveAttack(a, d, false, false)
	if a.DamageTaken != 10 {
		t.Fatalf("retaliation dealt %d, want 10", a.DamageTaken)
	}
	if a.Pos != (world.Offset{X: 2, Y: 2}) {
		t.Fatalf("retaliation knocked the attacker to %v", a.Pos)
	}
}

func TestChargeBonusEndsWithTurn(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 100, 10, 5)},
		[]units.Stats{statBlock("Boar", 100, 10, 9, "gore_charge")})
	b.Start()
	boar := b.Active()
	hero := b.Side(units.Hero)[0]
	if boar.Name() != "Boar" {
		t.Fatalf("active = %v, want Boar", boar)
	}
	put(t, b, boar, world.Offset{X: 6, Y: 4})
	put(t, b, hero, world.Offset{X: 3, Y: 4})

	if err := b.Do(Move(boar.ID, world.Offset{X: 4, Y: 4})); err != nil {
		t.Fatal(err)
	}
	if rt, _ := b.Runtime(boar.ID); rt.MovedTiles != 0 {
		t.Fatalf("boar moved tiles after its turn = %d, want 0", rt.MovedTiles)
	}
	if b.Active() != hero {
		t.Fatalf("active = %v, want Hero", b.Active())
	}
	if err := b.Do(Melee(hero.ID, boar.ID)); err != nil {
		t.Fatal(err)
	}
	if hero.DamageTaken != 10 {
		t.Fatalf("hero took %d from the retaliation, want 10", hero.DamageTaken)
	}
}

func TestMissShortCircuits(t *testing.T) {
	b, a, d := duel(t, statBlock("Attacker", 100, 10, 5),
		statBlock("Ghost", 100, 5, 5, "incorporeal(100%)", "heated_scales(burn_on_hit=100%)"))
	a.Statuses.Add("charge", 1, nil, "")
	hit := b.resolveAttack(a, d, false, false)
	if !hit.Miss || hit.Damage != 0 {
		t.Fatalf("hit = %+v, want a miss", hit)
	}
	if d.DamageTaken != 0 || a.DamageTaken != 0 {
		t.Fatalf("taken: attacker %d defender %d, want 0 and 0", a.DamageTaken, d.DamageTaken)
	}
	if a.Statuses.Has("burn") {
		t.Fatal("a miss should not trigger on-hit reactions")
	}
	if d.RetaliationsLeft != 1 {
		t.Fatalf("defender retaliations = %d, want 1", d.RetaliationsLeft)
	}
	if a.Statuses.Has("charge") {
		t.Fatal("charge status should be consumed by a miss")
	}
}

func TestForestCamouflageEvades(t *testing.T) {
	for _, tc := range []struct {
		biome world.Biome
		miss  bool
	}{{world.BiomeForest, true}, {world.BiomePlains, false}} {
		b, err := New(Setup{
			Grid:    world.NewGrid(10, 10, tc.biome),
			Heroes:  []Deployment{{Stats: statBlock("Attacker", 100, 10, 5), Count: 1}},
			Enemies: []Deployment{{Stats: statBlock("Wolf", 100, 0, 5, "forest_camouflage(bonus=100%)"), Count: 1}},
			Rng:     &entropy.Scripted{},
		})
		if err != nil {
			t.Fatal(err)
		}
		a, d := b.Side(units.Hero)[0], b.Side(units.Enemy)[0]
		put(t, b, a, world.Offset{X: 2, Y: 2})
		put(t, b, d, world.Offset{X: 3, Y: 2})
		hit := b.resolveAttack(a, d, false, false)
		if hit.Miss != tc.miss {
			t.Errorf("%s: miss = %v, want %v", tc.biome, hit.Miss, tc.miss)
		}
		if tc.miss && d.DamageTaken != 0 {
			t.Errorf("%s: evaded hit dealt %d", tc.biome, d.DamageTaken)
		}
		if !tc.miss && d.DamageTaken != 10 {
			t.Errorf("%s: damage = %d, want 10", tc.biome, d.DamageTaken)
		}
	}
}

func TestRetaliationIsNotRecursive(t *testing.T) {
	att := statBlock("Attacker", 100, 5, 5)
	att.Retaliations = 3
	def := statBlock("Defender", 100, 5, 5)
	def.Retaliations = 3
	b, a, d := duel(t, att, def)
	b.resolveAttack(a, d, false, false)

	if d.RetaliationsLeft != 2 {
		t.Fatalf("defender retaliations = %d, want 2", d.RetaliationsLeft)
	}
	if a.RetaliationsLeft != 3 {
		t.Fatalf("attacker retaliations = %d, want 3 (no counter to a counter)", a.RetaliationsLeft)
	}
	if a.DamageTaken != 5 || d.DamageTaken != 5 {
		t.Fatalf("taken: attacker %d defender %d, want 5 and 5", a.DamageTaken, d.DamageTaken)
	}
}

func TestNoRetaliationWithoutCharges(t *testing.T) {
	b, a, d := duel(t, statBlock("Attacker", 100, 5, 5), statBlock("Defender", 100, 5, 5))
	d.RetaliationsLeft = 0
	b.resolveAttack(a, d, false, false)
	if a.DamageTaken != 0 {
		t.Fatalf("attacker took %d from a spent defender", a.DamageTaken)
	}
}

func TestStalkerDeniesRetaliation(t *testing.T) {
	b, a, d := duel(t, statBlock("Wolf", 100, 5, 5, "stalk"), statBlock("Defender", 100, 5, 5))
	rt, _ := b.Runtime(a.ID)
	b.Abilities().OnTurnStart(rt)
	b.resolveAttack(a, d, false, false)
	if a.DamageTaken != 0 || d.RetaliationsLeft != 1 {
		t.Fatalf("hidden stalker was countered: taken %d, retaliations %d", a.DamageTaken, d.RetaliationsLeft)
	}
	b.Abilities().OnRevealed(rt)
	b.resolveAttack(a, d, false, false)
	if a.DamageTaken != 5 {
		t.Fatalf("revealed stalker took %d, want 5", a.DamageTaken)
	}
}

func TestShieldBlockAndFocus(t *testing.T) {
	b, a, d := duel(t, statBlock("Attacker", 100, 10, 5), statBlock("Defender", 100, 5, 5))
	d.Statuses.Add("shield_block", 1, nil, "")
	hit := b.resolveAttack(a, d, false, false)
	if !hit.Blocked || d.DamageTaken != 0 || a.DamageTaken != 0 {
		t.Fatalf("blocked hit = %+v, taken %d/%d", hit, d.DamageTaken, a.DamageTaken)
	}
	if d.Statuses.Has("shield_block") {
		t.Fatal("shield block should be consumed")
	}

	archer := statBlock("Archer", 100, 10, 5)
	archer.AttackRange = 6
	b, a, d = duel(t, archer, statBlock("Target", 100, 0, 5))
	put(t, b, d, world.Offset{X: 6, Y: 2})
	a.Statuses.Add("focus", 1, nil, "")
	hit = b.resolveAttack(a, d, true, false)
	if hit.Damage != 20 {
		t.Fatalf("focused shot = %d, want 20", hit.Damage)
	}
	if a.Statuses.Has("focus") {
		t.Fatal("focus should be consumed")
	}
}

func TestRangedPenalties(t *testing.T) {
	archer := statBlock("Archer", 100, 10, 5)
	archer.AttackRange = 6

	b, a, d := duel(t, archer, statBlock("Target", 100, 0, 5))
	if hit := b.resolveAttack(a, d, true, false); hit.Damage != 8 {
		t.Fatalf("point blank = %d, want 8", hit.Damage)
	}

	b = newTestBattle(t, []units.Stats{archer}, []units.Stats{statBlock("Target", 100, 0, 5), statBlock("Shield", 100, 0, 5)})
	a = b.Side(units.Hero)[0]
	targets := b.Side(units.Enemy)
	put(t, b, a, world.Offset{X: 2, Y: 4})
	put(t, b, targets[1], world.Offset{X: 4, Y: 4})
	put(t, b, targets[0], world.Offset{X: 6, Y: 4})
	if hit := b.resolveAttack(a, targets[0], true, false); hit.Damage != 5 {
		t.Fatalf("obstructed shot = %d, want 5", hit.Damage)
	}
}

func TestMultiShotStrikesTwice(t *testing.T) {
	archer := statBlock("Archer", 100, 10, 5, "multi_shot")
	archer.AttackRange = 6
	b, a, d := duel(t, archer, statBlock("Target", 100, 0, 5))
	put(t, b, d, world.Offset{X: 6, Y: 2})
	b.strike(a, d, true)
	if d.DamageTaken != 20 {
		t.Fatalf("multi shot dealt %d, want 20", d.DamageTaken)
	}
}

func TestKillExcisesUnit(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 100, 50, 9)},
		[]units.Stats{statBlock("Weak", 10, 1, 5), statBlock("Strong", 100, 1, 5)})
	b.Start()
	a := b.Side(units.Hero)[0]
	weak := b.Side(units.Enemy)[0]
	put(t, b, a, world.Offset{X: 4, Y: 4})
	put(t, b, weak, world.Offset{X: 5, Y: 4})
	cell := weak.Pos

	hit := b.resolveAttack(a, weak, false, false)
	if hit.Killed != 1 || weak.Alive() {
		t.Fatalf("hit = %+v", hit)
	}
	if _, ok := b.Unit(weak.ID); ok {
		t.Fatal("dead unit still in roster")
	}
	if _, ok := b.Grid.Occupant(cell); ok {
		t.Fatal("dead unit still on the grid")
	}
	for _, u := range b.TurnOrder() {
		if u == weak {
			t.Fatal("dead unit still in turn order")
		}
	}
	if a.DamageTaken != 0 {
		t.Fatal("a dead unit cannot retaliate")
	}
	if b.Over() {
		t.Fatal("battle should continue while Strong lives")
	}
}

func TestScavengeHealsOnKill(t *testing.T) {
	att := statBlock("Raven", 20, 50, 9, "scavenge_on_kill(heal=6)")
	b := newTestBattle(t, []units.Stats{att}, []units.Stats{statBlock("Weak", 10, 1, 5), statBlock("Other", 10, 1, 5)})
	a := b.Side(units.Hero)[0]
	a.HP = 10
	weak := b.Side(units.Enemy)[0]
	put(t, b, a, world.Offset{X: 4, Y: 4})
	put(t, b, weak, world.Offset{X: 5, Y: 4})
	b.resolveAttack(a, weak, false, false)
	if a.HP != 16 {
		t.Fatalf("hp after kill = %d, want 16", a.HP)
	}
}

func TestHeatedScalesBurnsAttacker(t *testing.T) {
	b, a, d := duel(t, statBlock("Attacker", 100, 5, 5), statBlock("Lizard", 100, 0, 5, "heated_scales(burn_on_hit=100%)"))
	b.resolveAttack(a, d, false, false)
	if !a.Statuses.Has("burn") {
		t.Fatal("melee attacker should burn")
	}
}
