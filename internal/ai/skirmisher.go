// Package ai provides the default decision policy for units that are not
// player controlled.
package ai

import (
	"sort"
	"strings"

	"github.com/talgya/hexclash/internal/abilities"
	"github.com/talgya/hexclash/internal/battle"
	"github.com/talgya/hexclash/internal/spells"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

// Difficulty scales how hard the AI plays.
type Difficulty string

const (
	Novice       Difficulty = "novice"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// ParseDifficulty maps a name to a difficulty, defaulting to Advanced.
func ParseDifficulty(s string) Difficulty {
	switch d := Difficulty(strings.ToLower(strings.TrimSpace(s))); d {
	case Novice, Intermediate:
		return d
	}
	return Advanced
}

// Factor is the multiplier applied to threat scores and movement.
func (d Difficulty) Factor() float64 {
	switch d {
	case Novice:
		return 0.5
	case Intermediate:
		return 0.75
	}
	return 1.0
}

// Skirmisher picks the closest, most threatening enemy, casts when a spell
// pays off, kites with ranged units and otherwise closes in to attack.
type Skirmisher struct {
	Difficulty Difficulty
}

var _ battle.Policy = Skirmisher{}

// Decide returns one action for u. It only returns actions that are legal
// at the time of the call, falling back to Wait.
func (s Skirmisher) Decide(b *battle.Battle, u *units.Unit) battle.Action {
	enemies := b.Side(u.Side.Opponent())
	if len(enemies) == 0 {
		return battle.Wait(u.ID)
	}
	target := s.chooseTarget(b, u, enemies)

	if a, ok := s.selectSpell(b, u, enemies); ok {
		return a
	}
	if a, ok := useAbility(b, u, target, enemies); ok {
		return a
	}

	dist := world.Distance(u.Pos, target.Pos)
	if u.Stats.Ranged() {
		if nearest := nearestEnemy(u, enemies); world.Distance(u.Pos, nearest.Pos) <= 1 {
			if a, ok := kite(b, u, nearest); ok {
				return a
			}
		}
		if b.CanShoot(u, target) {
			return battle.Ranged(u.ID, target.ID)
		}
		for _, e := range enemies {
			if b.CanShoot(u, e) {
				return battle.Ranged(u.ID, e.ID)
			}
		}
	}
	if dist == 1 {
		return battle.Melee(u.ID, target.ID)
	}
	if a, ok := s.approach(b, u, target); ok {
		return a
	}
	return battle.Wait(u.ID)
}

// threat rates how attractive an enemy is to attack.
func threat(b *battle.Battle, u, e *units.Unit) int {
	t := e.Stats.AttackMax * e.Count
	t += max(0, 30-e.Stats.MaxHP)
	if e.Wounded() {
		t += 10
	}
	if !u.Stats.Ranged() && e.RetaliationsLeft > 0 {
		t -= 5
	}
	for _, n := range b.Grid.Neighbors(e.Pos) {
		if id, ok := b.Grid.Occupant(n); ok {
			if other, ok := b.Unit(id); ok && other.Side == e.Side {
				t -= 5
				break
			}
		}
	}
	return t
}

func (s Skirmisher) chooseTarget(b *battle.Battle, u *units.Unit, enemies []*units.Unit) *units.Unit {
	f := s.Difficulty.Factor()
	best := enemies[0]
	bestDist, bestScore := world.Distance(u.Pos, best.Pos), -int(float64(threat(b, u, best))*f)
	for _, e := range enemies[1:] {
		d := world.Distance(u.Pos, e.Pos)
		score := -int(float64(threat(b, u, e)) * f)
		if d < bestDist || (d == bestDist && score < bestScore) {
			best, bestDist, bestScore = e, d, score
		}
	}
	return best
}

// selectSpell heals the most wounded ally in reach, otherwise casts the
// damage spell that hits the most enemies.
func (s Skirmisher) selectSpell(b *battle.Battle, u *units.Unit, enemies []*units.Unit) (battle.Action, bool) {
	var best battle.Action
	bestScore := 0
	for _, sp := range b.Spellbook(u) {
		switch {
		case sp.HasTag("heal"):
			for _, ally := range b.Side(u.Side) {
				missing := ally.Stats.MaxHP - ally.HP
				if missing <= bestScore {
					continue
				}
				if ok, _ := b.CanCast(u, sp, ally.ID, ally.Pos); ok {
					best, bestScore = battle.Cast(u.ID, sp.ID, ally.ID), missing
				}
			}
		case sp.Hostile() && sp.HasTag("damage"):
			for _, e := range enemies {
				score := 1
				if sp.Area > 0 {
					score = 0
					for _, o := range enemies {
						if world.Distance(o.Pos, e.Pos) <= sp.Area {
							score++
						}
					}
				}
				if score <= bestScore {
					continue
				}
				if ok, _ := b.CanCast(u, sp, e.ID, e.Pos); !ok {
					continue
				}
				if sp.Target == spells.TargetEnemy {
					best = battle.Cast(u.ID, sp.ID, e.ID)
				} else {
					best = battle.CastAt(u.ID, sp.ID, e.Pos)
				}
				bestScore = score
			}
		}
	}
	return best, bestScore > 0
}

// useAbility fires ember spit at the target, or wails when it frightens at
// least two enemies.
func useAbility(b *battle.Battle, u, target *units.Unit, enemies []*units.Unit) (battle.Action, bool) {
	rt, ok := b.Runtime(u.ID)
	if !ok {
		return battle.Action{}, false
	}
	eng := b.Abilities()
	for _, a := range rt.Abilities() {
		name := a.Spec.Name
		if ok, _ := eng.CanUse(rt, name); !ok {
			continue
		}
		switch a.Kind() {
		case abilities.KindEmberSpit:
			if world.Distance(u.Pos, target.Pos) <= rt.EmberSpitRange() && b.Grid.LineOfSight(u.Pos, target.Pos) {
				return battle.UseAbility(u.ID, name, target.ID), true
			}
		case abilities.KindWail:
			n := 0
			for _, e := range enemies {
				if world.Distance(u.Pos, e.Pos) <= rt.WailRadius() {
					n++
				}
			}
			if n >= 2 {
				return battle.UseAbility(u.ID, name, -1), true
			}
		}
	}
	return battle.Action{}, false
}

func nearestEnemy(u *units.Unit, enemies []*units.Unit) *units.Unit {
	best := enemies[0]
	for _, e := range enemies[1:] {
		if world.Distance(u.Pos, e.Pos) < world.Distance(u.Pos, best.Pos) {
			best = e
		}
	}
	return best
}

// kite steps a ranged unit away from an adjacent enemy.
func kite(b *battle.Battle, u, foe *units.Unit) (battle.Action, bool) {
	reach := b.Reachable(u)
	here := world.Distance(u.Pos, foe.Pos)
	var best world.Offset
	bestDist := here
	for _, n := range b.Grid.Neighbors(u.Pos) {
		if _, ok := reach[n]; !ok {
			continue
		}
		if d := world.Distance(n, foe.Pos); d > bestDist {
			best, bestDist = n, d
		}
	}
	if bestDist <= here {
		return battle.Action{}, false
	}
	return battle.Move(u.ID, best), true
}

// approach moves toward the target along an A* path, attacking on arrival
// when the path ends next to it.
func (s Skirmisher) approach(b *battle.Battle, u, target *units.Unit) (battle.Action, bool) {
	reach := b.Reachable(u)
	if len(reach) == 0 {
		return battle.Action{}, false
	}
	if b.Flies(u) {
		if cell, ok := closestAdjacent(b, u, target, reach); ok {
			return battle.MeleeFrom(u.ID, target.ID, cell), true
		}
	}

	path := AStar(b.Grid, u.Pos, target.Pos, b.Grid.Free)
	if len(path) > 0 && path[len(path)-1] == target.Pos {
		path = path[:len(path)-1]
	}
	budget := max(1, int(float64(b.MoveSpeed(u))*s.Difficulty.Factor()))
	var dest world.Offset
	found := false
	for i, c := range path {
		if i >= budget {
			break
		}
		if _, ok := reach[c]; !ok {
			break
		}
		dest, found = c, true
	}
	if !found {
		return battle.Action{}, false
	}
	if world.Distance(dest, target.Pos) == 1 {
		return battle.MeleeFrom(u.ID, target.ID, dest), true
	}
	return battle.Move(u.ID, dest), true
}

// closestAdjacent returns the reachable cell next to the target nearest
// the unit.
func closestAdjacent(b *battle.Battle, u, target *units.Unit, reach map[world.Offset]int) (world.Offset, bool) {
	var cells []world.Offset
	for _, n := range b.Grid.Neighbors(target.Pos) {
		if _, ok := reach[n]; ok {
			cells = append(cells, n)
		}
	}
	if len(cells) == 0 {
		return world.Offset{}, false
	}
	sort.SliceStable(cells, func(i, j int) bool {
		return world.Distance(u.Pos, cells[i]) < world.Distance(u.Pos, cells[j])
	})
	return cells[0], true
}
