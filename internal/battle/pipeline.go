package battle

import (
	"github.com/talgya/hexclash/internal/abilities"
	"github.com/talgya/hexclash/internal/effects"
	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/rules"
	"github.com/talgya/hexclash/internal/status"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

// Hit is the outcome of one weapon strike.
type Hit struct {
	Damage  int
	Killed  int
	Luck    float64
	Miss    bool
	Blocked bool
}

// rollBase rolls a stack's raw weapon damage.
func (b *Battle) rollBase(u *units.Unit) int {
	return (entropy.RangeInt(b.rng, u.Stats.AttackMin, u.Stats.AttackMax) + u.AttackBonus) * u.Count
}

// resolveAttack runs a weapon attack through the damage pipeline. A
// retaliation is resolved by the same pipeline with retaliation set, which
// forbids any counter to it.
func (b *Battle) resolveAttack(att, def *units.Unit, ranged, retaliation bool) Hit {
	attRT, defRT := b.runtimes[att.ID], b.runtimes[def.ID]
	dist := world.Distance(att.Pos, def.Pos)
	dir := world.Direction(att.Pos, def.Pos)
	firstStrike := !retaliation && !ranged && b.engine.HasFirstStrike(attRT)
	if dir != (world.Offset{}) {
		att.Facing = dir
	}
	channel := "melee"
	if ranged {
		channel = "ranged"
	}
	b.notify.Sound("attack")
	verb := "attacks"
	if retaliation {
		verb = "retaliates against"
	}
	b.logf(Entry{Kind: KindAttack, Actor: att.ID, Target: def.ID}, "%s %s %s (%s)", att.Name(), verb, def.Name(), channel)

	dmg := b.rollBase(att)

	luck := rules.RollLuck(b.rng, att.Stats.Luck)
	dmg = rules.Scale(dmg, luck)
	if luck != 1.0 {
		b.logf(Entry{Kind: KindLuck, Actor: att.ID}, "Luck x%.1f for %s", luck, att.Name())
	}

	if ranged {
		if rules.PointBlank(dist, att.Stats.MinRange) {
			dmg = rules.Scale(dmg, rules.PointBlankPenalty)
		}
		if b.obstructed(att.Pos, def.Pos) {
			dmg = rules.Scale(dmg, rules.ObstructedPenalty)
		}
	} else {
		dmg = rules.Scale(dmg, rules.Flanking(att.Pos, def.Pos, def.Facing))
	}

	dmg = rules.Scale(dmg, rules.Mitigation(att.AttackValue(), def.Stats.Defence(channel)))

	// Retaliations strike back without the attacker's own-turn modifiers.
	if !retaliation {
		var fx []effects.Effect
		dmg, fx = b.engine.ModifyOutgoingDamage(attRT, dmg, abilities.Outgoing{Channel: channel})
		b.apply(fx)
	}

	dmg, fx, info := b.engine.ModifyIncomingDamage(defRT, dmg, abilities.Incoming{
		Element: "physical",
		Melee:   !ranged,
		Biome:   b.Grid.BiomeAt(def.Pos),
	})
	b.apply(fx)
	if !info.Miss {
		if ev := b.engine.EvasionBonus(defRT, b.Grid.BiomeAt(def.Pos)); ev > 0 && b.rng.Float64() < ev {
			info.Miss = true
			b.apply([]effects.Effect{effects.Fx{Name: "evade", At: def.Pos}})
		}
	}
	hit := Hit{Luck: luck}
	if info.Miss {
		hit.Miss = true
		b.logf(Entry{Kind: KindMiss, Actor: att.ID, Target: def.ID}, "%s misses %s: 0 damage", att.Name(), def.Name())
		b.finishAttack(att, retaliation)
		return hit
	}

	if ranged && att.Statuses.Consume(status.Focus) {
		dmg *= 2
	}
	if !ranged && def.Statuses.Consume(status.ShieldBlock) {
		dmg = 0
		hit.Blocked = true
		b.logf(Entry{Kind: KindStatus, Actor: def.ID, Target: att.ID}, "%s blocks the blow", def.Name())
	}

	hit.Damage = max(0, dmg)
	if !hit.Blocked {
		hit.Killed = b.damage(att, def, hit.Damage, "physical")
	}

	if def.Alive() && !hit.Blocked && !ranged {
		b.apply(b.engine.OnAttackedByMelee(defRT, att.ID))
	}
	if !def.Alive() && att.Alive() {
		b.apply(b.engine.OnKill(attRT, def.ID))
	}
	if def.Alive() && dir != (world.Offset{}) {
		def.Facing = world.Offset{X: -dir.X, Y: -dir.Y}
	}

	if !retaliation && !hit.Blocked && !firstStrike && dist == 1 &&
		def.Alive() && att.Alive() && def.RetaliationsLeft > 0 && !b.over {
		def.RetaliationsLeft--
		b.resolveAttack(def, att, false, true)
	}
	if !retaliation && !ranged && def.Alive() && att.Alive() {
		b.apply(b.engine.KnockbackIfCharged(attRT, def.ID, dir))
	}
	b.finishAttack(att, retaliation)
	return hit
}

func (b *Battle) finishAttack(att *units.Unit, retaliation bool) {
	if !retaliation && att.Alive() {
		att.Statuses.Consume(status.Charge)
	}
}

// obstructed reports whether another unit stands on the line between a
// and b.
func (b *Battle) obstructed(a, c world.Offset) bool {
	for _, cell := range world.Line(a, c) {
		if _, ok := b.Grid.Occupant(cell); ok {
			return true
		}
	}
	return false
}

// resolveSpellDamage runs spell and ability damage through the tail of the
// pipeline: mitigation against magic defence, the defender's incoming
// hooks, application and on-kill reactions. It never provokes a
// retaliation. A nil src skips mitigation.
func (b *Battle) resolveSpellDamage(src, def *units.Unit, amount int, element string) Hit {
	if element == "" {
		element = "magic"
	}
	dmg := amount
	if src != nil {
		dmg = rules.Scale(dmg, rules.Mitigation(src.AttackValue(), def.Stats.DefenceMagic))
	}
	defRT := b.runtimes[def.ID]
	dmg, fx, info := b.engine.ModifyIncomingDamage(defRT, dmg, abilities.Incoming{
		Element: element,
		Biome:   b.Grid.BiomeAt(def.Pos),
	})
	b.apply(fx)
	if info.Miss {
		b.logf(Entry{Kind: KindMiss, Target: def.ID}, "%s is unharmed: 0 damage", def.Name())
		return Hit{Miss: true, Luck: 1}
	}
	hit := Hit{Damage: max(0, dmg), Luck: 1}
	if !def.Alive() {
		return hit
	}
	hit.Killed = b.damage(src, def, hit.Damage, element)
	if !def.Alive() && src != nil && src.Alive() {
		b.apply(b.engine.OnKill(b.runtimes[src.ID], def.ID))
	}
	return hit
}
