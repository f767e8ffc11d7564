package abilities

import (
	"fmt"
	"math"

	"github.com/talgya/hexclash/internal/effects"
	"github.com/talgya/hexclash/internal/world"
)

// Outgoing describes an attack leaving a unit.
type Outgoing struct {
	Channel string // "melee", "ranged" or "magic"
}

// Incoming describes damage about to reach a unit.
type Incoming struct {
	Element string // "physical", "fire", "mind", ...
	Melee   bool
	Biome   world.Biome
}

// Info carries flags from the incoming hooks to the damage pipeline.
type Info struct {
	Miss bool
}

// Target names a unit affected by an area ability.
type Target struct {
	ID  int
	Pos world.Offset
}

type hookSet struct {
	outgoing func(rt *Runtime, a *Ability, dmg int, ctx Outgoing) int
	incoming func(e *Engine, a *Ability, dmg int, in Incoming) (int, []effects.Effect, bool)
	meleeHit func(e *Engine, rt *Runtime, a *Ability, attackerID int) []effects.Effect
	kill     func(e *Engine, rt *Runtime, a *Ability, targetID int) []effects.Effect
	evasion  func(a *Ability, biome world.Biome) float64
}

var registry = map[Kind]hookSet{
	KindGoreCharge: {
		outgoing: func(rt *Runtime, a *Ability, dmg int, _ Outgoing) int {
			p := a.Params.(GoreCharge)
			if rt.MovedTiles >= p.MinMove {
				return roundInt(float64(dmg) * (1 + p.Bonus))
			}
			return dmg
		},
	},
	KindResistance: {
		incoming: func(_ *Engine, a *Ability, dmg int, in Incoming) (int, []effects.Effect, bool) {
			p := a.Params.(Resistance)
			if in.Element == p.Element {
				dmg = roundInt(float64(dmg) * (1 - p.Fraction))
			}
			return dmg, nil, false
		},
	},
	KindThickHide: {
		incoming: func(_ *Engine, a *Ability, dmg int, in Incoming) (int, []effects.Effect, bool) {
			if in.Melee {
				dmg = roundInt(float64(dmg) * (1 - a.Params.(ThickHide).Fraction))
			}
			return dmg, nil, false
		},
	},
	KindIncorporeal: {
		incoming: func(e *Engine, a *Ability, dmg int, in Incoming) (int, []effects.Effect, bool) {
			if !physical(in.Element) && !in.Melee {
				return dmg, nil, false
			}
			if e.rng.Float64() < a.Params.(Incorporeal).MissChance {
				return 0, []effects.Effect{effects.Fx{Name: "ghost_flicker"}}, true
			}
			return dmg, nil, false
		},
	},
	KindHeatedScales: {
		meleeHit: func(e *Engine, rt *Runtime, a *Ability, attackerID int) []effects.Effect {
			p := a.Params.(HeatedScales)
			if e.rng.Float64() >= p.Chance {
				return nil
			}
			return []effects.Effect{
				effects.Status{Target: attackerID, Name: "burn", Duration: p.Duration},
				effects.Fx{Name: "ember_spark", At: rt.Pos},
			}
		},
	},
	KindScavenge: {
		kill: func(e *Engine, rt *Runtime, a *Ability, _ int) []effects.Effect {
			p := a.Params.(Scavenge)
			// A guaranteed scavenge does not draw from the rng.
			if p.Chance < 1 && e.rng.Float64() >= p.Chance {
				return nil
			}
			return []effects.Effect{
				effects.Heal{Source: rt.UnitID, Target: rt.UnitID, Amount: p.Heal},
				effects.Fx{Name: "life_sip", At: rt.Pos},
			}
		},
	},
	KindCamouflage: {
		evasion: func(a *Ability, biome world.Biome) float64 {
			p := a.Params.(Camouflage)
			if biome.Contains(p.Biome) {
				return p.Bonus
			}
			return 0
		},
	},
}

// incomingOrder fixes the order defensive hooks apply in.
var incomingOrder = []Kind{KindResistance, KindThickHide, KindIncorporeal}

func physical(element string) bool {
	switch element {
	case "physical", "piercing", "slashing":
		return true
	}
	return false
}

func roundInt(f float64) int { return int(math.RoundToEven(f)) }

// ModifyOutgoingDamage applies the attacker's damage bonuses. Knockback is
// not produced here; see KnockbackIfCharged.
func (e *Engine) ModifyOutgoingDamage(rt *Runtime, base int, ctx Outgoing) (int, []effects.Effect) {
	dmg := base
	for _, a := range rt.Abilities() {
		if h := registry[a.Kind()]; h.outgoing != nil {
			dmg = h.outgoing(rt, a, dmg, ctx)
		}
	}
	return dmg, nil
}

// ModifyIncomingDamage applies resistances, then melee reduction, then the
// miss roll. A miss returns zero damage with Info.Miss set.
func (e *Engine) ModifyIncomingDamage(rt *Runtime, base int, in Incoming) (int, []effects.Effect, Info) {
	dmg := base
	var out []effects.Effect
	for _, k := range incomingOrder {
		h := registry[k]
		for _, a := range rt.Abilities() {
			if a.Kind() != k {
				continue
			}
			var fx []effects.Effect
			var miss bool
			dmg, fx, miss = h.incoming(e, a, dmg, in)
			out = append(out, fx...)
			if miss {
				return 0, out, Info{Miss: true}
			}
		}
	}
	return dmg, out, Info{}
}

// OnAttackedByMelee returns the reactions of a unit hit in melee.
func (e *Engine) OnAttackedByMelee(rt *Runtime, attackerID int) []effects.Effect {
	var out []effects.Effect
	for _, a := range rt.Abilities() {
		if h := registry[a.Kind()]; h.meleeHit != nil {
			out = append(out, h.meleeHit(e, rt, a, attackerID)...)
		}
	}
	return out
}

// OnKill returns the effects triggered when the unit kills a stack.
func (e *Engine) OnKill(rt *Runtime, targetID int) []effects.Effect {
	var out []effects.Effect
	for _, a := range rt.Abilities() {
		if h := registry[a.Kind()]; h.kill != nil {
			out = append(out, h.kill(e, rt, a, targetID)...)
		}
	}
	return out
}

// EvasionBonus returns the additive evasion chance on the given biome.
func (e *Engine) EvasionBonus(rt *Runtime, biome world.Biome) float64 {
	var bonus float64
	for _, a := range rt.Abilities() {
		if h := registry[a.Kind()]; h.evasion != nil {
			bonus += h.evasion(a, biome)
		}
	}
	return bonus
}

// HasFirstStrike reports whether a stalking unit is still hidden this turn.
func (e *Engine) HasFirstStrike(rt *Runtime) bool {
	return rt.Hidden && rt.Has(KindStalk)
}

// IgnoresTerrainPenalties reports whether the unit hovers or flies.
func (e *Engine) IgnoresTerrainPenalties(rt *Runtime) bool {
	return rt.Has(KindHover) || rt.Has(KindFlying)
}

// UseEmberSpit fires the unit's ember spit at a target. dmg is the rolled
// damage. Range and line of sight are the caller's responsibility.
func (e *Engine) UseEmberSpit(rt *Runtime, targetID int, to world.Offset, dmg int) []effects.Effect {
	a := rt.first(KindEmberSpit)
	if a == nil {
		return nil
	}
	p := a.Params.(EmberSpit)
	a.Cooldown = a.CooldownMax
	return []effects.Effect{
		effects.Projectile{Name: "fireball", From: rt.Pos, To: to},
		effects.Damage{Source: rt.UnitID, Target: targetID, Amount: dmg, Element: p.Element},
		effects.Status{Target: targetID, Name: "burn", Duration: p.BurnDuration},
	}
}

// UseWail frightens the given targets, which the caller has already
// filtered to the wail radius.
func (e *Engine) UseWail(rt *Runtime, targets []Target) []effects.Effect {
	a := rt.first(KindWail)
	if a == nil {
		return nil
	}
	p := a.Params.(Wail)
	a.Cooldown = a.CooldownMax
	out := []effects.Effect{effects.Fx{Name: "wail_ring", At: rt.Pos}}
	name := fmt.Sprintf("fear_%d", p.Morale)
	for _, t := range targets {
		out = append(out, effects.Status{
			Target:    t.ID,
			Name:      name,
			Duration:  p.Duration,
			Modifiers: map[string]int{"morale": p.Morale},
		})
	}
	return out
}

// KnockbackIfCharged pushes the target along dir when the gore charge
// threshold was met this turn.
func (e *Engine) KnockbackIfCharged(rt *Runtime, targetID int, dir world.Offset) []effects.Effect {
	a := rt.first(KindGoreCharge)
	if a == nil {
		return nil
	}
	p := a.Params.(GoreCharge)
	if rt.MovedTiles < p.MinMove || p.Knockback == 0 || dir == (world.Offset{}) {
		return nil
	}
	return []effects.Effect{effects.Knockback{Target: targetID, Vector: dir.Scale(p.Knockback)}}
}

// WailRadius returns the radius of the unit's wail, or 0.
func (rt *Runtime) WailRadius() int {
	if a := rt.first(KindWail); a != nil {
		return a.Params.(Wail).Radius
	}
	return 0
}

// EmberSpitRange returns the range of the unit's ember spit, or 0.
func (rt *Runtime) EmberSpitRange() int {
	if a := rt.first(KindEmberSpit); a != nil {
		return a.Params.(EmberSpit).Range
	}
	return 0
}

// PassiveHealAmount returns how much the unit heals an ally at the start
// of its turn, or 0.
func (rt *Runtime) PassiveHealAmount() int {
	if a := rt.first(KindPassiveHeal); a != nil {
		return a.Params.(PassiveHeal).Amount
	}
	return 0
}
