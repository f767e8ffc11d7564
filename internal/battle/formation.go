package battle

import (
	"fmt"
	"sort"

	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

// Formation names a hero deployment pattern.
type Formation string

const (
	FormationTight  Formation = "tight"
	FormationLoose  Formation = "loose"
	FormationSquare Formation = "square"
)

var formationSlots = map[Formation][]world.Offset{
	FormationTight:  {{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 0, Y: 4}, {X: 0, Y: 6}, {X: 1, Y: 1}, {X: 1, Y: 3}, {X: 1, Y: 5}},
	FormationLoose:  {{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 0, Y: 4}, {X: 0, Y: 6}, {X: 2, Y: 1}, {X: 2, Y: 3}, {X: 2, Y: 5}},
	FormationSquare: {{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 1, Y: 0}, {X: 1, Y: 2}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 4}},
}

// Slots returns the deployment cells of a formation. Unknown names use
// the tight formation.
func (f Formation) Slots() []world.Offset {
	if s, ok := formationSlots[f]; ok {
		return append([]world.Offset(nil), s...)
	}
	return append([]world.Offset(nil), formationSlots[FormationTight]...)
}

// deploy places heroes in their formation and enemies in the tight
// formation mirrored onto the far edge. Stacks beyond the formation, or
// whose slot is blocked, take the nearest free cell on their own half.
func (b *Battle) deploy(f Formation) error {
	heroSlots := f.Slots()
	var enemySlots []world.Offset
	for _, o := range FormationTight.Slots() {
		enemySlots = append(enemySlots, world.Offset{X: b.Grid.Width - 1 - o.X, Y: o.Y})
	}
	hi, ei := 0, 0
	for _, u := range b.all {
		var want world.Offset
		switch u.Side {
		case units.Hero:
			want = slotOr(heroSlots, hi, world.Offset{})
			hi++
		default:
			want = slotOr(enemySlots, ei, world.Offset{X: b.Grid.Width - 1})
			ei++
		}
		cell, ok := b.nearestFree(want, u.Side)
		if !ok {
			return fmt.Errorf("deploy %s: %w", u, world.ErrOccupied)
		}
		if err := b.Grid.Place(u.ID, cell); err != nil {
			return fmt.Errorf("deploy %s: %w", u, err)
		}
		u.Pos = cell
		if u.Side == units.Enemy {
			u.Facing = world.Offset{X: -1}
		} else {
			u.Facing = world.Offset{X: 1}
		}
	}
	return nil
}

func slotOr(slots []world.Offset, i int, def world.Offset) world.Offset {
	if i < len(slots) {
		return slots[i]
	}
	return def
}

// nearestFree returns the free cell on the side's half closest to want.
func (b *Battle) nearestFree(want world.Offset, side units.Side) (world.Offset, bool) {
	if b.Grid.Free(want) {
		return want, true
	}
	half := b.Grid.Width / 2
	var cands []world.Offset
	for y := 0; y < b.Grid.Height; y++ {
		for x := 0; x < b.Grid.Width; x++ {
			if (side == units.Hero && x >= half) || (side != units.Hero && x < b.Grid.Width-half) {
				continue
			}
			o := world.Offset{X: x, Y: y}
			if b.Grid.Free(o) {
				cands = append(cands, o)
			}
		}
	}
	if len(cands) == 0 {
		return world.Offset{}, false
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return world.Distance(want, cands[i]) < world.Distance(want, cands[j])
	})
	return cands[0], true
}
