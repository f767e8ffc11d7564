package battle

import (
	"testing"

	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

func TestResetTurnOrderSortsByInitiative(t *testing.T) {
	var heroes, enemies []Deployment
	for i, ini := range []int{3, 9, 5, 5} {
		heroes = append(heroes, Deployment{Stats: statBlock("H", 10, 1, ini), Count: 1})
		enemies = append(enemies, Deployment{Stats: statBlock("E", 10, 1, ini+i%2), Count: 1})
	}
	b, err := New(Setup{
		Grid:    world.NewGrid(10, 10, world.BiomePlains),
		Heroes:  heroes,
		Enemies: enemies,
		Rng:     entropy.NewSeeded(11),
	})
	if err != nil {
		t.Fatal(err)
	}
	for round := 0; round < 5; round++ {
		b.ResetTurnOrder()
		order := b.TurnOrder()
		if len(order) != len(b.Units()) {
			t.Fatalf("order has %d units, want %d", len(order), len(b.Units()))
		}
		seen := map[int]bool{}
		for i, u := range order {
			if seen[u.ID] {
				t.Fatalf("unit %d appears twice", u.ID)
			}
			seen[u.ID] = true
			if i > 0 && order[i-1].Initiative() < u.Initiative() {
				t.Fatalf("order not descending at %d: %d < %d", i, order[i-1].Initiative(), u.Initiative())
			}
			if u.Acted || u.RetaliationsLeft != u.Stats.Retaliations {
				t.Fatalf("%s not reset", u)
			}
		}
	}
	if b.Round() != 5 {
		t.Fatalf("round = %d, want 5", b.Round())
	}
}

func TestPhasesFollowTheRound(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 50, 1, 9)},
		[]units.Stats{statBlock("Foe", 50, 1, 1)})
	if b.Phase() != PhaseRoundStart {
		t.Fatalf("phase = %s before start", b.Phase())
	}
	b.Start()
	if b.Phase() != PhaseUnitActing || b.Round() != 1 {
		t.Fatalf("phase = %s round %d", b.Phase(), b.Round())
	}
	hero := b.Active()
	if err := b.Do(Wait(hero.ID)); err != nil {
		t.Fatal(err)
	}
	foe := b.Active()
	if foe == nil || foe.Side != units.Enemy {
		t.Fatalf("active = %v, want the foe", foe)
	}
	if err := b.Do(Wait(foe.ID)); err != nil {
		t.Fatal(err)
	}
	if b.Round() != 2 || b.Phase() != PhaseUnitActing || b.Active() != hero {
		t.Fatalf("round %d phase %s active %v", b.Round(), b.Phase(), b.Active())
	}
	b.Concede(units.Hero)
	if b.Phase() != PhaseOver || b.Winner() != units.Enemy {
		t.Fatalf("phase %s winner %q", b.Phase(), b.Winner())
	}
}

func TestRemoveFromOrderKeepsPlace(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("A", 10, 1, 9), statBlock("B", 10, 1, 8)},
		[]units.Stats{statBlock("C", 10, 1, 7), statBlock("D", 10, 1, 6)})
	b.Start()
	order := b.TurnOrder()
	names := func() string {
		s := ""
		for _, u := range b.order {
			s += u.Name()
		}
		return s
	}
	if names() != "ABCD" {
		t.Fatalf("order = %s", names())
	}

	// C is acting; A, before it, dies.
	b.current = 2
	b.removeFromOrder(order[0].ID)
	if b.order[b.current] != order[2] {
		t.Fatalf("current points at %s, want C", b.order[b.current].Name())
	}

	// The acting unit itself dies: the next advance lands on D.
	b.removeFromOrder(order[2].ID)
	b.current++
	if b.order[b.current] != order[3] {
		t.Fatalf("after removing the actor current points at %s, want D", b.order[b.current].Name())
	}

	// The first unit dies while it is acting.
	b.current = 0
	b.removeFromOrder(order[1].ID)
	b.current++
	if b.current != 0 || b.order[b.current] != order[3] {
		t.Fatalf("current = %d, want 0 on D", b.current)
	}
}

func TestBurnKillsAtTurnStart(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Burning", 5, 1, 9), statBlock("Second", 10, 1, 8)},
		[]units.Stats{statBlock("Foe", 10, 1, 1)})
	burning := b.Side(units.Hero)[0]
	burning.Statuses.Add("burn", 2, nil, "")
	b.Start()
	if burning.Alive() {
		t.Fatal("burn should have killed the unit")
	}
	if a := b.Active(); a == nil || a.Name() != "Second" {
		t.Fatalf("active = %v, want Second", a)
	}
}

func TestStatusModifiersExpire(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 50, 1, 9)},
		[]units.Stats{statBlock("Foe", 50, 1, 1)})
	hero := b.Side(units.Hero)[0]
	hero.Statuses.Add("buff", 1, map[string]int{"attack": 2}, "")
	b.Start()
	if hero.Stats.Attack != 2 {
		t.Fatalf("attack = %d during the buffed turn, want 2", hero.Stats.Attack)
	}
	b.Do(Wait(hero.ID))
	b.Do(Wait(b.Active().ID))
	if hero.Stats.Attack != 0 {
		t.Fatalf("attack = %d after expiry, want 0", hero.Stats.Attack)
	}
}

func TestMoraleExtraAndSkip(t *testing.T) {
	happy := statBlock("Happy", 50, 1, 9)
	happy.Morale = 3
	sad := statBlock("Sad", 50, 1, 1)
	sad.Morale = -3
	b, err := New(Setup{
		Grid:    world.NewGrid(10, 10, world.BiomePlains),
		Heroes:  []Deployment{{Stats: happy, Count: 1}},
		Enemies: []Deployment{{Stats: sad, Count: 1}},
		Rng:     &entropy.Scripted{Floats: []float64{0.01}},
	})
	if err != nil {
		t.Fatal(err)
	}
	b.Start()
	h := b.Active()
	if h.Name() != "Happy" || h.ExtraTurns != 1 {
		t.Fatalf("active %v extra %d", h, h.ExtraTurns)
	}
	rt, _ := b.Runtime(h.ID)
	rt.MovedTiles = 3
	b.Do(Wait(h.ID))
	if b.Active() != h {
		t.Fatal("extra turn not granted")
	}
	if rt.MovedTiles != 0 {
		t.Fatalf("moved tiles carried into the extra turn: %d", rt.MovedTiles)
	}
	b.Do(Wait(h.ID))
	// Sad loses its action, so the next round begins with Happy again.
	if b.Round() != 2 || b.Active() != h {
		t.Fatalf("round %d active %v", b.Round(), b.Active())
	}
}

func TestIceWallsMeltAsTurnsPass(t *testing.T) {
	b := newTestBattle(t,
		[]units.Stats{statBlock("Hero", 50, 1, 9)},
		[]units.Stats{statBlock("Foe", 50, 1, 1)})
	b.Start()
	cell := world.Offset{X: 5, Y: 5}
	if err := b.Grid.AddIceWall(cell, world.IceWallTurns); err != nil {
		t.Fatal(err)
	}
	b.Do(Wait(b.Active().ID))
	if !b.Grid.HasIceWall(cell) {
		t.Fatal("wall melted after one turn")
	}
	b.Do(Wait(b.Active().ID))
	if b.Grid.HasIceWall(cell) {
		t.Fatal("wall should melt after two turns")
	}
}
