package battle

import (
	"errors"
	"strings"
	"testing"

	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

func statBlock(name string, hp, dmg, initiative int, abilities ...string) units.Stats {
	return units.Stats{
		Name:       name,
		MaxHP:      hp,
		AttackMin:  dmg,
		AttackMax:  dmg,
		Speed:      4,
		Initiative: initiative,
		Abilities:  abilities,
	}
}

func newTestBattle(t *testing.T, heroes, enemies []units.Stats) *Battle {
	t.Helper()
	var hs, es []Deployment
	for _, s := range heroes {
		hs = append(hs, Deployment{Stats: s, Count: 1})
	}
	for _, s := range enemies {
		es = append(es, Deployment{Stats: s, Count: 1})
	}
	b, err := New(Setup{
		Grid:    world.NewGrid(10, 10, world.BiomePlains),
		Heroes:  hs,
		Enemies: es,
		Rng:     &entropy.Scripted{},
	})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// put moves a unit to a cell outside the normal movement rules.
func put(t *testing.T, b *Battle, u *units.Unit, o world.Offset) {
	t.Helper()
	b.Grid.Vacate(u.Pos)
	if err := b.Grid.Place(u.ID, o); err != nil {
		t.Fatal(err)
	}
	u.Pos = o
	b.runtimes[u.ID].Pos = o
}

func TestNewRequiresBothArmies(t *testing.T) {
	_, err := New(Setup{Heroes: []Deployment{{Stats: statBlock("A", 10, 1, 1), Count: 1}}})
	if !errors.Is(err, ErrNoUnits) {
		t.Fatalf("err = %v, want ErrNoUnits", err)
	}
}

func TestDeploymentMirrorsEnemies(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("A", 10, 1, 1), statBlock("B", 10, 1, 1)},
		[]units.Stats{statBlock("X", 10, 1, 1), statBlock("Y", 10, 1, 1)})
	all := b.All()
	want := []world.Offset{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 9, Y: 0}, {X: 9, Y: 2}}
	for i, u := range all {
		if u.Pos != want[i] {
			t.Errorf("%s at %v, want %v", u, u.Pos, want[i])
		}
		if id, ok := b.Grid.Occupant(u.Pos); !ok || id != u.ID {
			t.Errorf("grid does not hold %s at %v", u, u.Pos)
		}
	}
	if all[0].Facing != (world.Offset{X: 1}) || all[2].Facing != (world.Offset{X: -1}) {
		t.Fatalf("facings = %v, %v", all[0].Facing, all[2].Facing)
	}
}

func TestDeploymentFallsBackWhenSlotBlocked(t *testing.T) {
	grid := world.NewGrid(10, 10, world.BiomePlains)
	grid.SetObstacle(world.Offset{X: 0, Y: 0})
	b, err := New(Setup{
		Grid:    grid,
		Heroes:  []Deployment{{Stats: statBlock("A", 10, 1, 1), Count: 1}},
		Enemies: []Deployment{{Stats: statBlock("X", 10, 1, 1), Count: 1}},
		Rng:     &entropy.Scripted{},
	})
	if err != nil {
		t.Fatal(err)
	}
	hero := b.Side(units.Hero)[0]
	if hero.Pos == (world.Offset{}) || hero.Pos.X >= 5 {
		t.Fatalf("hero deployed at %v, want a free cell on the left half", hero.Pos)
	}
}

func TestIllegalActionsLeaveStateUntouched(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 50, 10, 9)},
		[]units.Stats{statBlock("Foe", 50, 10, 1), statBlock("Other", 50, 10, 1)})
	b.Start()
	hero := b.Active()
	if hero == nil || hero.Side != units.Hero {
		t.Fatalf("active = %v, want the hero", hero)
	}
	foe := b.Side(units.Enemy)[0]
	before := hero.Pos

	cases := []struct {
		name string
		a    Action
	}{
		{"melee out of reach", Melee(hero.ID, foe.ID)},
		{"ranged without a bow", Ranged(hero.ID, foe.ID)},
		{"move onto a unit", Move(hero.ID, foe.Pos)},
		{"move too far", Move(hero.ID, world.Offset{X: 8, Y: 9})},
		{"unknown spell", Cast(hero.ID, "meteor", foe.ID)},
		{"spell not known", Cast(hero.ID, "fireball", foe.ID)},
		{"unknown ability", UseAbility(hero.ID, "ember_spit", foe.ID)},
		{"attack a stale id", Melee(hero.ID, 42)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := b.Do(tc.a)
			if !errors.Is(err, ErrIllegalAction) {
				t.Fatalf("err = %v, want ErrIllegalAction", err)
			}
			if b.Active() != hero {
				t.Fatal("hero lost its turn")
			}
			if hero.Pos != before || foe.HP != 50 || hero.HP != 50 {
				t.Fatal("illegal action changed the battle")
			}
		})
	}

	if err := b.Do(Wait(foe.ID)); !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("out of turn err = %v, want ErrNotYourTurn", err)
	}
}

func TestMoveEndsTurnUnlessCharged(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 50, 10, 9)},
		[]units.Stats{statBlock("Foe", 50, 1, 1)})
	b.Start()
	hero := b.Active()
	foe := b.Side(units.Enemy)[0]
	put(t, b, hero, world.Offset{X: 4, Y: 4})
	put(t, b, foe, world.Offset{X: 6, Y: 4})
	hero.Statuses.Add("charge", 1, nil, "")

	if err := b.Do(Move(hero.ID, world.Offset{X: 5, Y: 4})); err != nil {
		t.Fatal(err)
	}
	if b.Active() != hero {
		t.Fatal("a charged unit keeps its turn after moving")
	}
	if err := b.Do(Move(hero.ID, world.Offset{X: 5, Y: 5})); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("second move err = %v, want ErrIllegalAction", err)
	}
	if err := b.Do(Melee(hero.ID, foe.ID)); err != nil {
		t.Fatal(err)
	}
	if hero.Statuses.Has("charge") {
		t.Fatal("charge status should be consumed by the attack")
	}
	if foe.DamageTaken == 0 {
		t.Fatal("foe took no damage")
	}
	if b.Active() == hero {
		t.Fatal("attack should end the hero's turn")
	}
}

func TestMeleeWithApproach(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 50, 10, 9)},
		[]units.Stats{statBlock("Foe", 50, 1, 1)})
	b.Start()
	hero := b.Active()
	foe := b.Side(units.Enemy)[0]
	put(t, b, hero, world.Offset{X: 3, Y: 4})
	put(t, b, foe, world.Offset{X: 6, Y: 4})

	if err := b.Do(MeleeFrom(hero.ID, foe.ID, world.Offset{X: 4, Y: 4})); !errors.Is(err, ErrIllegalAction) {
		t.Fatalf("approach not adjacent err = %v", err)
	}
	if err := b.Do(MeleeFrom(hero.ID, foe.ID, world.Offset{X: 5, Y: 4})); err != nil {
		t.Fatal(err)
	}
	if hero.Pos != (world.Offset{X: 5, Y: 4}) {
		t.Fatalf("hero at %v after approach", hero.Pos)
	}
	if foe.DamageTaken != 10 {
		t.Fatalf("foe took %d, want 10", foe.DamageTaken)
	}
	if rt, _ := b.Runtime(hero.ID); rt.MovedTiles != 2 {
		t.Fatalf("moved tiles = %d, want 2", rt.MovedTiles)
	}
}

func TestHeroSpellUsesHeroMana(t *testing.T) {
	b, err := New(Setup{
		Grid:       world.NewGrid(10, 10, world.BiomePlains),
		Heroes:     []Deployment{{Stats: statBlock("Hero", 50, 1, 9), Count: 1}},
		Enemies:    []Deployment{{Stats: statBlock("Foe", 100, 1, 1), Count: 1}},
		HeroMana:   3,
		HeroSpells: map[string]int{"fireball": 2},
		Rng:        &entropy.Scripted{},
	})
	if err != nil {
		t.Fatal(err)
	}
	b.Start()
	hero := b.Active()
	foe := b.Side(units.Enemy)[0]
	put(t, b, hero, world.Offset{X: 3, Y: 4})
	put(t, b, foe, world.Offset{X: 6, Y: 4})

	if err := b.Do(CastAt(hero.ID, "fireball", foe.Pos)); err != nil {
		t.Fatal(err)
	}
	if b.HeroMana != 2 {
		t.Fatalf("hero mana = %d, want 2", b.HeroMana)
	}
	if foe.DamageTaken != 60 {
		t.Fatalf("fireball dealt %d, want 60", foe.DamageTaken)
	}
}

func TestIceWallSpell(t *testing.T) {
	caster := statBlock("Mage", 30, 1, 9, "ice_wall")
	caster.Mana = 2
	b := newTestBattle(t, []units.Stats{caster}, []units.Stats{statBlock("Foe", 30, 1, 1)})
	b.Start()
	mage := b.Active()
	put(t, b, mage, world.Offset{X: 3, Y: 4})

	if err := b.Do(CastAt(mage.ID, "ice_wall", world.Offset{X: 5, Y: 5})); err != nil {
		t.Fatal(err)
	}
	if mage.Mana != 1 {
		t.Fatalf("mana = %d, want 1", mage.Mana)
	}
	for x := 5; x <= 7; x++ {
		if !b.Grid.HasIceWall(world.Offset{X: x, Y: 5}) {
			t.Fatalf("no ice wall at (%d,5)", x)
		}
	}
}

func TestStepFallsBackToWait(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 50, 10, 9)},
		[]units.Stats{statBlock("Foe", 50, 1, 1)})
	bad := PolicyFunc(func(_ *Battle, u *units.Unit) Action { return Melee(u.ID, 99) })
	a, err := b.Step(bad)
	if err != nil {
		t.Fatal(err)
	}
	if a.Kind != ActWait {
		t.Fatalf("action = %v, want wait", a)
	}
	if b.Active() == nil || b.Active().Side != units.Enemy {
		t.Fatal("turn should pass to the enemy")
	}
}

func TestResultAndSummary(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 50, 100, 9)},
		[]units.Stats{statBlock("Foe", 10, 15, 1)})
	b.Start()
	hero := b.Active()
	foe := b.Side(units.Enemy)[0]
	put(t, b, hero, world.Offset{X: 4, Y: 4})
	put(t, b, foe, world.Offset{X: 5, Y: 4})
	if err := b.Do(Melee(hero.ID, foe.ID)); err != nil {
		t.Fatal(err)
	}
	if !b.Over() || b.Winner() != units.Hero {
		t.Fatalf("over=%v winner=%q", b.Over(), b.Winner())
	}
	if err := b.Do(Wait(hero.ID)); !errors.Is(err, ErrBattleOver) {
		t.Fatalf("err = %v, want ErrBattleOver", err)
	}
	r := b.Result()
	if r.Experience != ExperiencePerCreature {
		t.Fatalf("experience = %d", r.Experience)
	}
	if r.EnemyPower != 30 || r.Loot != RarityCommon {
		t.Fatalf("power %d loot %q, want 30 common", r.EnemyPower, r.Loot)
	}
	if s := r.Summary(); !strings.Contains(s, "Victory in the 1st round") {
		t.Fatalf("summary = %q", s)
	}
}

func TestRollLootTables(t *testing.T) {
	cases := []struct {
		power int
		draw  float64
		want  Rarity
	}{
		{10, 0.5, RarityCommon},
		{40, 0.5, RarityUncommon},
		{40, 0.7, RarityCommon},
		{100, 0.1, RarityRare},
		{200, 0.05, RarityLegendary},
		{200, 0.95, RarityCommon},
	}
	for _, tc := range cases {
		got := RollLoot(&entropy.Scripted{Floats: []float64{tc.draw}}, tc.power)
		if got != tc.want {
			t.Errorf("power %d draw %.2f = %q, want %q", tc.power, tc.draw, got, tc.want)
		}
	}
}

func TestAutoResolve(t *testing.T) {
	heroes := []Deployment{{Stats: statBlock("Knight", 20, 10, 5), Count: 5}}
	enemies := []Deployment{{Stats: statBlock("Rat", 5, 1, 5), Count: 3}}
	r := AutoResolve(heroes, enemies, entropy.NewSeeded(7))
	if !r.HeroWins {
		t.Fatal("knights should beat rats")
	}
	if r.Experience != 3*ExperiencePerCreature {
		t.Fatalf("experience = %d, want 30", r.Experience)
	}
	if r.Enemies[0].Left != 0 || r.Heroes[0].DamageDealt == 0 {
		t.Fatalf("reports = %+v %+v", r.Heroes, r.Enemies)
	}

	hl, el, xp := Preview(heroes, enemies, 10, entropy.NewSeeded(7))
	if hl != 0 || el != 3 || xp != 30 {
		t.Fatalf("preview = %v %v %v", hl, el, xp)
	}
}
