package spells

import (
	"log/slog"

	"github.com/talgya/hexclash/internal/abilities"
	"github.com/talgya/hexclash/internal/effects"
	"github.com/talgya/hexclash/internal/world"
)

// Occupant is a unit on the battlefield as seen by the caster.
type Occupant struct {
	ID   int
	Pos  world.Offset
	Ally bool
}

// CastContext carries everything a cast needs. TargetID is -1 for spells
// aimed at a cell.
type CastContext struct {
	Caster   int
	From     world.Offset
	Cell     world.Offset
	TargetID int
	Power    int
	Units    []Occupant
}

// Cast expands the spell's declared effects into concrete effects. It does
// not check mana, range or cooldown.
func Cast(s *Spell, ctx CastContext) []effects.Effect {
	if ctx.Power < 1 {
		ctx.Power = 1
	}
	var out []effects.Effect
	if s.Projectile != "" {
		out = append(out, effects.Projectile{Name: s.Projectile, From: ctx.From, To: ctx.Cell})
	}
	recipients := Recipients(s, ctx)
	for _, e := range s.Effects {
		switch e.Name {
		case "damage":
			amount := scaled(e, ctx.Power)
			element := abilities.String(e.Kwarg("element"), "magic")
			for _, id := range recipients {
				out = append(out, effects.Damage{Source: ctx.Caster, Target: id, Amount: amount, Element: element})
			}
		case "heal":
			amount := scaled(e, ctx.Power)
			for _, id := range recipients {
				out = append(out, effects.Heal{Source: ctx.Caster, Target: id, Amount: amount})
			}
		case "status":
			name := abilities.String(e.Arg(0), "")
			if name == "" {
				continue
			}
			mods := make(map[string]int)
			for k, v := range e.Kwargs {
				if n, ok := v.(int); ok {
					mods[k] = n
				}
			}
			for _, id := range recipients {
				out = append(out, effects.Status{
					Target:    id,
					Name:      name,
					Duration:  abilities.Int(e.Arg(1), 1),
					Modifiers: mods,
				})
			}
		case "spawn":
			length := abilities.Int(e.Kwarg("length"), 1)
			cells := make([]world.Offset, 0, length)
			for i := 0; i < length; i++ {
				cells = append(cells, ctx.Cell.Add(world.Offset{X: i}))
			}
			out = append(out, effects.Spawn{
				Object:   abilities.String(e.Arg(0), "ice_wall"),
				Cells:    cells,
				Duration: abilities.Int(e.Kwarg("duration"), world.IceWallTurns),
			})
		case "chain":
			out = append(out, chain(s, e, ctx)...)
		default:
			slog.Debug("unknown spell effect ignored", "spell", s.ID, "effect", e.Name)
		}
	}
	if s.Fx != "" {
		out = append(out, effects.Fx{Name: s.Fx, At: ctx.Cell})
	}
	return out
}

// Recipients returns the ids of the units a spell affects.
func Recipients(s *Spell, ctx CastContext) []int {
	if s.Target == TargetSelf {
		return []int{ctx.Caster}
	}
	wantAlly := !s.Hostile()
	if s.Area > 0 {
		var ids []int
		for _, u := range ctx.Units {
			if u.Ally == wantAlly && world.Distance(u.Pos, ctx.Cell) <= s.Area {
				ids = append(ids, u.ID)
			}
		}
		return ids
	}
	if ctx.TargetID >= 0 {
		return []int{ctx.TargetID}
	}
	for _, u := range ctx.Units {
		if u.Pos == ctx.Cell && u.Ally == wantAlly {
			return []int{u.ID}
		}
	}
	return nil
}

func scaled(e abilities.Spec, power int) int {
	return abilities.Int(e.Kwarg("base"), 0) + abilities.Int(e.Kwarg("per_power"), 0)*power
}

// chain strikes the first target, then jumps to the nearest unvisited
// enemy within the jump range that is also within the spell's range.
func chain(s *Spell, e abilities.Spec, ctx CastContext) []effects.Effect {
	if ctx.TargetID < 0 {
		return nil
	}
	jumps := abilities.Int(e.Kwarg("jumps"), 4)
	jumpRange := abilities.Int(e.Kwarg("range"), 3)
	amount := scaled(e, ctx.Power)
	element := abilities.String(e.Kwarg("element"), "shock")

	pos := make(map[int]world.Offset, len(ctx.Units))
	for _, u := range ctx.Units {
		pos[u.ID] = u.Pos
	}
	cur := ctx.TargetID
	if _, ok := pos[cur]; !ok {
		return nil
	}
	visited := map[int]bool{}
	var out []effects.Effect
	for i := 0; i < jumps; i++ {
		visited[cur] = true
		out = append(out, effects.Damage{Source: ctx.Caster, Target: cur, Amount: amount, Element: element})
		next, best := -1, 1<<30
		for _, u := range ctx.Units {
			if u.Ally || visited[u.ID] {
				continue
			}
			d := world.Distance(pos[cur], u.Pos)
			if d <= jumpRange && world.Distance(ctx.From, u.Pos) <= s.Range && d < best {
				next, best = u.ID, d
			}
		}
		if next < 0 {
			break
		}
		out = append(out, effects.Projectile{Name: "chain_lightning", From: pos[cur], To: pos[next]})
		cur = next
	}
	return out
}
