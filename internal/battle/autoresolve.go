package battle

import (
	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/rules"
	"github.com/talgya/hexclash/internal/units"
)

// AutoResult is the outcome of a battle resolved without a grid.
type AutoResult struct {
	HeroWins   bool
	Experience int
	Loot       Rarity
	Heroes     []UnitReport
	Enemies    []UnitReport
}

// AutoResolve settles a battle without the grid: the sides alternate,
// heroes first, and every living stack hits a random enemy stack with a
// frontal melee blow. Abilities, statuses and retaliation are ignored.
func AutoResolve(heroes, enemies []Deployment, rng entropy.Source) AutoResult {
	if rng == nil {
		rng = entropy.NewSeeded(0)
	}
	hs := muster(units.Hero, heroes, 0)
	es := muster(units.Enemy, enemies, len(hs))

	for guard := 0; alive(hs) && alive(es) && guard < 10000; guard++ {
		volley(rng, hs, es)
		volley(rng, es, hs)
	}

	res := AutoResult{
		HeroWins: alive(hs),
		Heroes:   reports(hs),
		Enemies:  reports(es),
	}
	for _, e := range es {
		res.Experience += e.Lost() * ExperiencePerCreature
	}
	if res.HeroWins {
		res.Loot = RollLoot(rng, Power(enemies))
	}
	return res
}

// Preview averages the losses of both sides and the experience over
// iterations auto-resolved battles.
func Preview(heroes, enemies []Deployment, iterations int, rng entropy.Source) (heroLoss, enemyLoss, experience float64) {
	if iterations <= 0 {
		return 0, 0, 0
	}
	if rng == nil {
		rng = entropy.NewSeeded(0)
	}
	var hl, el, xp int
	for i := 0; i < iterations; i++ {
		r := AutoResolve(heroes, enemies, rng)
		for _, u := range r.Heroes {
			hl += u.Start - u.Left
		}
		for _, u := range r.Enemies {
			el += u.Start - u.Left
		}
		xp += r.Experience
	}
	n := float64(iterations)
	return float64(hl) / n, float64(el) / n, float64(xp) / n
}

func muster(side units.Side, army []Deployment, firstID int) []*units.Unit {
	out := make([]*units.Unit, 0, len(army))
	for i, d := range army {
		out = append(out, units.New(firstID+i, side, d.Stats, d.Count))
	}
	return out
}

func alive(list []*units.Unit) bool {
	for _, u := range list {
		if u.Alive() {
			return true
		}
	}
	return false
}

func volley(rng entropy.Source, attackers, defenders []*units.Unit) {
	for _, a := range attackers {
		if !a.Alive() {
			continue
		}
		var targets []*units.Unit
		for _, d := range defenders {
			if d.Alive() {
				targets = append(targets, d)
			}
		}
		if len(targets) == 0 {
			return
		}
		t := targets[rng.Intn(len(targets))]
		dmg := quickDamage(rng, a, t)
		before := t.TotalHP()
		killed := t.TakeDamage(dmg)
		dealt := before - t.TotalHP()
		a.DamageDealt += dealt
		a.Kills += killed
		t.DamageTaken += dealt
	}
}

// quickDamage is the weapon pipeline without position, abilities or
// statuses: roll, luck, then mitigation against melee defence.
func quickDamage(rng entropy.Source, att, def *units.Unit) int {
	dmg := (entropy.RangeInt(rng, att.Stats.AttackMin, att.Stats.AttackMax) + att.AttackBonus) * att.Count
	dmg = rules.Scale(dmg, rules.RollLuck(rng, att.Stats.Luck))
	dmg = rules.Scale(dmg, rules.Mitigation(att.AttackValue(), def.Stats.DefenceMelee))
	return max(0, dmg)
}
