package battle

import (
	"sort"

	"github.com/talgya/hexclash/internal/abilities"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

// MoveSpeed returns the movement points of a unit this turn. The charge
// trait doubles speed.
func (b *Battle) MoveSpeed(u *units.Unit) int {
	speed := u.Stats.Speed
	if b.runtimes[u.ID].Has(abilities.KindCharge) {
		speed *= 2
	}
	return speed
}

// Flies reports whether the unit may land on any free cell.
func (b *Battle) Flies(u *units.Unit) bool {
	return b.runtimes[u.ID].Has(abilities.KindFlying)
}

// Reachable returns every free cell the unit can move to this turn with
// its movement cost, sorted row-major. Rough tiles cost two points unless
// the unit ignores terrain penalties.
func (b *Battle) Reachable(u *units.Unit) map[world.Offset]int {
	if b.Flies(u) {
		out := make(map[world.Offset]int)
		for y := 0; y < b.Grid.Height; y++ {
			for x := 0; x < b.Grid.Width; x++ {
				o := world.Offset{X: x, Y: y}
				if b.Grid.Free(o) {
					out[o] = world.Distance(u.Pos, o)
				}
			}
		}
		return out
	}
	cost, _ := b.search(u)
	delete(cost, u.Pos)
	return cost
}

// ReachableCells returns the keys of Reachable sorted row-major.
func (b *Battle) ReachableCells(u *units.Unit) []world.Offset {
	m := b.Reachable(u)
	out := make([]world.Offset, 0, len(m))
	for o := range m {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Path returns the steps from the unit's cell to dest, excluding the
// start. Flying units go straight to dest.
func (b *Battle) Path(u *units.Unit, dest world.Offset) ([]world.Offset, bool) {
	if dest == u.Pos {
		return nil, true
	}
	if b.Flies(u) {
		if !b.Grid.Free(dest) {
			return nil, false
		}
		return []world.Offset{dest}, true
	}
	cost, prev := b.search(u)
	if _, ok := cost[dest]; !ok {
		return nil, false
	}
	var path []world.Offset
	for c := dest; c != u.Pos; c = prev[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, true
}

// search is a uniform-cost expansion from the unit's cell bounded by its
// movement points.
func (b *Battle) search(u *units.Unit) (map[world.Offset]int, map[world.Offset]world.Offset) {
	speed := b.MoveSpeed(u)
	ignore := b.engine.IgnoresTerrainPenalties(b.runtimes[u.ID])
	cost := map[world.Offset]int{u.Pos: 0}
	prev := map[world.Offset]world.Offset{}
	frontier := []world.Offset{u.Pos}
	for len(frontier) > 0 {
		sort.SliceStable(frontier, func(i, j int) bool { return cost[frontier[i]] < cost[frontier[j]] })
		cur := frontier[0]
		frontier = frontier[1:]
		for _, n := range b.Grid.Neighbors(cur) {
			if !b.Grid.Free(n) {
				continue
			}
			c := cost[cur] + b.Grid.MoveCost(n, ignore)
			if c > speed {
				continue
			}
			if old, seen := cost[n]; seen && old <= c {
				continue
			}
			cost[n] = c
			prev[n] = cur
			frontier = append(frontier, n)
		}
	}
	return cost, prev
}

// moveAlong walks a unit along a validated path, updating its facing and
// the ability runtime's moved-tiles counter.
func (b *Battle) moveAlong(u *units.Unit, path []world.Offset) error {
	if len(path) == 0 {
		return nil
	}
	from := u.Pos
	dest := path[len(path)-1]
	if err := b.Grid.Move(u.ID, from, dest); err != nil {
		return err
	}
	prev := from
	for _, step := range path {
		if d := world.Direction(prev, step); d != (world.Offset{}) {
			u.Facing = d
		}
		prev = step
	}
	u.Pos = dest
	rt := b.runtimes[u.ID]
	rt.Pos = dest
	tiles := len(path)
	if b.Flies(u) {
		tiles = world.Distance(from, dest)
	}
	rt.MovedTiles += tiles
	b.notify.Sound("move")
	b.logf(Entry{Kind: KindMove, Actor: u.ID, Amount: len(path)}, "%s moves to (%d,%d)", u.Name(), dest.X, dest.Y)
	return nil
}
