package battle

import (
	"log/slog"

	"github.com/talgya/hexclash/internal/effects"
	"github.com/talgya/hexclash/internal/status"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

// apply turns effects into state changes. Effects naming units that are
// no longer alive are dropped.
func (b *Battle) apply(list []effects.Effect) {
	for _, e := range list {
		if b.over {
			return
		}
		switch e := e.(type) {
		case effects.Damage:
			dst, ok := b.Unit(e.Target)
			if !ok {
				continue
			}
			src, _ := b.Unit(e.Source)
			b.resolveSpellDamage(src, dst, e.Amount, e.Element)
		case effects.Heal:
			dst, ok := b.Unit(e.Target)
			if !ok {
				continue
			}
			if healed := dst.Heal(e.Amount); healed > 0 {
				b.logf(Entry{Kind: KindHeal, Actor: e.Source, Target: dst.ID, Amount: healed},
					"%s recovers %d HP", dst.Name(), healed)
			}
		case effects.Status:
			dst, ok := b.Unit(e.Target)
			if !ok || e.Name == "" {
				continue
			}
			dst.Statuses.Add(e.Name, e.Duration, e.Modifiers, "")
			b.logf(Entry{Kind: KindStatus, Target: dst.ID, Amount: e.Duration},
				"%s gains %s (%s) for %d turn(s)", dst.Name(), e.Name, status.CategoryOf(e.Name), e.Duration)
		case effects.Knockback:
			dst, ok := b.Unit(e.Target)
			if !ok {
				continue
			}
			b.knockback(dst, e.Vector)
		case effects.Spawn:
			b.spawn(e)
			b.notify.Cue(e)
		case effects.Projectile, effects.Fx:
			b.notify.Cue(e)
		default:
			slog.Warn("unhandled effect", "battle", b.ID, "kind", e.Kind())
		}
	}
}

// knockback pushes a unit one cell at a time along v until the distance
// is covered or the next cell is not free.
func (b *Battle) knockback(u *units.Unit, v world.Offset) {
	steps := max(abs(v.X), abs(v.Y))
	dir := world.Offset{X: sign(v.X), Y: sign(v.Y)}
	moved := 0
	for i := 0; i < steps; i++ {
		next := u.Pos.Add(dir)
		if !b.Grid.Free(next) {
			break
		}
		if err := b.Grid.Move(u.ID, u.Pos, next); err != nil {
			break
		}
		u.Pos = next
		moved++
	}
	if moved > 0 {
		b.runtimes[u.ID].Pos = u.Pos
		b.logf(Entry{Kind: KindMove, Target: u.ID, Amount: moved}, "%s is knocked back %d tile(s)", u.Name(), moved)
	}
}

func (b *Battle) spawn(e effects.Spawn) {
	if e.Object != "ice_wall" {
		slog.Debug("spawn of unknown object ignored", "battle", b.ID, "object", e.Object)
		return
	}
	duration := e.Duration
	if duration <= 0 {
		duration = world.IceWallTurns
	}
	placed := 0
	for _, c := range e.Cells {
		if err := b.Grid.AddIceWall(c, duration); err == nil {
			placed++
		}
	}
	b.logf(Entry{Kind: KindSpell, Amount: placed}, "An ice wall rises (%d segment(s))", placed)
}

// damage removes amount hit points from dst, credits src and excises dst
// if the stack is destroyed. It returns the number of creatures killed.
func (b *Battle) damage(src, dst *units.Unit, amount int, element string) int {
	if amount < 0 {
		amount = 0
	}
	before := dst.TotalHP()
	killed := dst.TakeDamage(amount)
	dealt := before - dst.TotalHP()
	dst.DamageTaken += dealt
	actor := -1
	if src != nil {
		actor = src.ID
		src.DamageDealt += dealt
		src.Kills += killed
	}
	b.logf(Entry{Kind: KindDamage, Actor: actor, Target: dst.ID, Amount: amount},
		"%s takes %d %s damage (%d killed)", dst.Name(), amount, element, killed)
	if !dst.Alive() {
		b.excise(dst)
	}
	return killed
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
