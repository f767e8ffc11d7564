package battle

import (
	"fmt"

	"github.com/talgya/hexclash/internal/abilities"
	"github.com/talgya/hexclash/internal/effects"
	"github.com/talgya/hexclash/internal/spells"
	"github.com/talgya/hexclash/internal/status"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

// ActionKind names what a unit does with its turn.
type ActionKind string

const (
	ActMove    ActionKind = "move"
	ActMelee   ActionKind = "melee"
	ActRanged  ActionKind = "ranged"
	ActCast    ActionKind = "cast"
	ActAbility ActionKind = "ability"
	ActWait    ActionKind = "wait"
)

// Action is one decision for the active unit. Target is a unit id or -1.
// Cell is the move destination, the melee approach cell (when HasCell is
// set) or the cast target cell. Name is a spell id or an ability name.
type Action struct {
	Kind    ActionKind
	Unit    int
	Target  int
	Cell    world.Offset
	HasCell bool
	Name    string
}

func Move(unit int, to world.Offset) Action {
	return Action{Kind: ActMove, Unit: unit, Target: -1, Cell: to, HasCell: true}
}

func Melee(unit, target int) Action {
	return Action{Kind: ActMelee, Unit: unit, Target: target}
}

// MeleeFrom moves to the approach cell and then attacks.
func MeleeFrom(unit, target int, approach world.Offset) Action {
	return Action{Kind: ActMelee, Unit: unit, Target: target, Cell: approach, HasCell: true}
}

func Ranged(unit, target int) Action {
	return Action{Kind: ActRanged, Unit: unit, Target: target}
}

// Cast casts a spell on a unit.
func Cast(unit int, spell string, target int) Action {
	return Action{Kind: ActCast, Unit: unit, Target: target, Name: spell}
}

// CastAt casts a spell on a cell.
func CastAt(unit int, spell string, cell world.Offset) Action {
	return Action{Kind: ActCast, Unit: unit, Target: -1, Cell: cell, HasCell: true, Name: spell}
}

// UseAbility triggers an active ability. Target is ignored by area
// abilities.
func UseAbility(unit int, name string, target int) Action {
	return Action{Kind: ActAbility, Unit: unit, Target: target, Name: name}
}

func Wait(unit int) Action {
	return Action{Kind: ActWait, Unit: unit, Target: -1}
}

func (a Action) String() string {
	switch a.Kind {
	case ActMove:
		return fmt.Sprintf("#%d move to (%d,%d)", a.Unit, a.Cell.X, a.Cell.Y)
	case ActCast, ActAbility:
		if a.Target >= 0 {
			return fmt.Sprintf("#%d %s %s on #%d", a.Unit, a.Kind, a.Name, a.Target)
		}
		return fmt.Sprintf("#%d %s %s at (%d,%d)", a.Unit, a.Kind, a.Name, a.Cell.X, a.Cell.Y)
	case ActWait:
		return fmt.Sprintf("#%d wait", a.Unit)
	}
	return fmt.Sprintf("#%d %s #%d", a.Unit, a.Kind, a.Target)
}

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

// Do validates and performs an action for the active unit, then ends its
// turn. An illegal action returns an error wrapping ErrIllegalAction and
// leaves the battle untouched; the unit keeps its turn.
func (b *Battle) Do(a Action) error {
	if b.over {
		return ErrBattleOver
	}
	u := b.Active()
	if u == nil || u.ID != a.Unit {
		return ErrNotYourTurn
	}
	run, err := b.plan(u, a)
	if err != nil {
		return err
	}
	keepTurn := run()
	if b.over {
		return nil
	}
	if u.Alive() {
		b.engine.OnRevealed(b.runtimes[u.ID])
	}
	if keepTurn {
		return nil
	}
	b.Advance()
	return nil
}

// plan validates an action and returns the closure performing it. The
// closure reports whether the unit keeps its turn.
func (b *Battle) plan(u *units.Unit, a Action) (func() bool, error) {
	switch a.Kind {
	case ActWait:
		return func() bool {
			b.logf(Entry{Kind: KindWait, Actor: u.ID}, "%s waits", u.Name())
			return false
		}, nil
	case ActMove:
		return b.planMove(u, a)
	case ActMelee:
		return b.planMelee(u, a)
	case ActRanged:
		return b.planRanged(u, a)
	case ActCast:
		return b.planCast(u, a)
	case ActAbility:
		return b.planAbility(u, a)
	}
	return nil, illegal("unknown action %q", a.Kind)
}

func (b *Battle) planMove(u *units.Unit, a Action) (func() bool, error) {
	if b.moved {
		return nil, illegal("%s already moved this turn", u.Name())
	}
	if a.Cell == u.Pos {
		return nil, illegal("%s is already at (%d,%d)", u.Name(), a.Cell.X, a.Cell.Y)
	}
	path, ok := b.Path(u, a.Cell)
	if !ok {
		return nil, illegal("(%d,%d) is not reachable", a.Cell.X, a.Cell.Y)
	}
	return func() bool {
		if err := b.moveAlong(u, path); err != nil {
			return false
		}
		if u.Statuses.Has(status.Charge) {
			b.moved = true
			return true
		}
		return false
	}, nil
}

func (b *Battle) enemyTarget(u *units.Unit, id int) (*units.Unit, error) {
	t, ok := b.Unit(id)
	if !ok {
		return nil, illegal("no living unit #%d", id)
	}
	if t.Side == u.Side {
		return nil, illegal("%s is not an enemy", t.Name())
	}
	return t, nil
}

func (b *Battle) planMelee(u *units.Unit, a Action) (func() bool, error) {
	t, err := b.enemyTarget(u, a.Target)
	if err != nil {
		return nil, err
	}
	var path []world.Offset
	if a.HasCell && a.Cell != u.Pos {
		if b.moved {
			return nil, illegal("%s already moved this turn", u.Name())
		}
		p, ok := b.Path(u, a.Cell)
		if !ok {
			return nil, illegal("(%d,%d) is not reachable", a.Cell.X, a.Cell.Y)
		}
		if world.Distance(a.Cell, t.Pos) != 1 {
			return nil, illegal("(%d,%d) is not adjacent to %s", a.Cell.X, a.Cell.Y, t.Name())
		}
		path = p
	} else if world.Distance(u.Pos, t.Pos) != 1 {
		return nil, illegal("%s is not adjacent to %s", u.Name(), t.Name())
	}
	return func() bool {
		if err := b.moveAlong(u, path); err != nil {
			return false
		}
		b.strike(u, t, false)
		return false
	}, nil
}

// CanShoot reports whether u may fire at t from its current cell.
func (b *Battle) CanShoot(u, t *units.Unit) bool {
	if !u.Stats.Ranged() {
		return false
	}
	d := world.Distance(u.Pos, t.Pos)
	if d < u.Stats.MinRange || d > u.Stats.AttackRange {
		return false
	}
	return b.Grid.LineOfSight(u.Pos, t.Pos)
}

func (b *Battle) planRanged(u *units.Unit, a Action) (func() bool, error) {
	t, err := b.enemyTarget(u, a.Target)
	if err != nil {
		return nil, err
	}
	if !u.Stats.Ranged() {
		return nil, illegal("%s has no ranged attack", u.Name())
	}
	if !b.CanShoot(u, t) {
		return nil, illegal("%s is out of range or sight", t.Name())
	}
	return func() bool {
		b.strike(u, t, true)
		return false
	}, nil
}

// strike resolves a weapon attack and the multi-shot follow-up.
func (b *Battle) strike(u, t *units.Unit, ranged bool) {
	if ranged {
		b.apply([]effects.Effect{effects.Projectile{Name: "arrow", From: u.Pos, To: t.Pos}})
	}
	b.resolveAttack(u, t, ranged, false)
	if b.runtimes[u.ID].Has(abilities.KindMultiShot) && u.Alive() && t.Alive() && !b.over {
		b.logf(Entry{Kind: KindAbility, Actor: u.ID, Target: t.ID}, "%s strikes again", u.Name())
		b.resolveAttack(u, t, ranged, false)
	}
}

// spellSource reports how a unit would pay for a spell: from its own mana,
// or from the hero's pool at the given power.
func (b *Battle) spellSource(u *units.Unit, s *spells.Spell) (hero bool, power int, ok bool) {
	for _, d := range b.decls[u.ID] {
		if d.Name == s.ID {
			return false, 1, true
		}
	}
	if u.Side == units.Hero {
		if lvl, known := b.heroSpells[s.ID]; known {
			return true, max(1, lvl), true
		}
	}
	return false, 0, false
}

// CanCast reports whether u may cast s on the target unit or cell now,
// with the reason when it may not.
func (b *Battle) CanCast(u *units.Unit, s *spells.Spell, target int, cell world.Offset) (bool, string) {
	if s.Passive {
		return false, "passive spell"
	}
	hero, _, ok := b.spellSource(u, s)
	if !ok {
		return false, "spell not known"
	}
	if hero {
		if b.HeroMana < s.Cost {
			return false, "not enough hero mana"
		}
	} else {
		if u.Mana < s.Cost {
			return false, "not enough mana"
		}
		rt := b.runtimes[u.ID]
		if _, known := rt.Ability(s.ID); known {
			if ok, why := b.engine.CanUse(rt, s.ID); !ok {
				return false, why
			}
		}
	}
	switch s.Target {
	case spells.TargetSelf:
		return true, ""
	case spells.TargetEnemy, spells.TargetAlly:
		t, ok := b.Unit(target)
		if !ok {
			return false, "no target"
		}
		if (t.Side != u.Side) != (s.Target == spells.TargetEnemy) {
			return false, "wrong target side"
		}
		cell = t.Pos
	default:
		if target >= 0 {
			t, ok := b.Unit(target)
			if !ok {
				return false, "no target"
			}
			cell = t.Pos
		}
		if !b.Grid.InBounds(cell) {
			return false, "cell out of bounds"
		}
	}
	if world.Distance(u.Pos, cell) > s.Range {
		return false, "out of range"
	}
	return true, ""
}

func (b *Battle) planCast(u *units.Unit, a Action) (func() bool, error) {
	s, err := b.spells.Get(a.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllegalAction, err)
	}
	if ok, why := b.CanCast(u, s, a.Target, a.Cell); !ok {
		return nil, illegal("%s cannot cast %s: %s", u.Name(), s.Name, why)
	}
	return func() bool {
		b.cast(u, s, a.Target, a.Cell)
		return false
	}, nil
}

func (b *Battle) cast(u *units.Unit, s *spells.Spell, target int, cell world.Offset) {
	hero, power, _ := b.spellSource(u, s)
	if hero {
		b.HeroMana -= s.Cost
	} else {
		u.Mana -= s.Cost
		rt := b.runtimes[u.ID]
		if ab, known := rt.Ability(s.ID); known {
			ab.Cooldown = max(s.Cooldown, ab.CooldownMax)
		}
	}
	if t, ok := b.Unit(target); ok {
		cell = t.Pos
	} else {
		target = -1
	}
	if s.Target == spells.TargetSelf {
		cell = u.Pos
	}
	ctx := spells.CastContext{
		Caster:   u.ID,
		From:     u.Pos,
		Cell:     cell,
		TargetID: target,
		Power:    power,
	}
	for _, o := range b.Units() {
		ctx.Units = append(ctx.Units, spells.Occupant{ID: o.ID, Pos: o.Pos, Ally: o.Side == u.Side})
	}
	b.notify.Sound("spell")
	b.logf(Entry{Kind: KindSpell, Actor: u.ID, Target: target, Amount: s.Cost}, "%s casts %s", u.Name(), s.Name)
	b.apply(spells.Cast(s, ctx))
}

func (b *Battle) planAbility(u *units.Unit, a Action) (func() bool, error) {
	rt := b.runtimes[u.ID]
	if ok, why := b.engine.CanUse(rt, a.Name); !ok {
		return nil, illegal("%s cannot use %s: %s", u.Name(), a.Name, why)
	}
	ab, _ := rt.Ability(a.Name)
	switch ab.Kind() {
	case abilities.KindEmberSpit:
		t, err := b.enemyTarget(u, a.Target)
		if err != nil {
			return nil, err
		}
		if world.Distance(u.Pos, t.Pos) > rt.EmberSpitRange() || !b.Grid.LineOfSight(u.Pos, t.Pos) {
			return nil, illegal("%s is out of range or sight", t.Name())
		}
		return func() bool {
			b.logf(Entry{Kind: KindAbility, Actor: u.ID, Target: t.ID}, "%s uses %s", u.Name(), a.Name)
			b.apply(b.engine.UseEmberSpit(rt, t.ID, t.Pos, b.rollBase(u)))
			return false
		}, nil
	case abilities.KindWail:
		return func() bool {
			var targets []abilities.Target
			for _, e := range b.Side(u.Side.Opponent()) {
				if world.Distance(u.Pos, e.Pos) <= rt.WailRadius() {
					targets = append(targets, abilities.Target{ID: e.ID, Pos: e.Pos})
				}
			}
			b.logf(Entry{Kind: KindAbility, Actor: u.ID, Amount: len(targets)}, "%s uses %s", u.Name(), a.Name)
			b.apply(b.engine.UseWail(rt, targets))
			return false
		}, nil
	}
	return nil, illegal("%s is not an active ability", a.Name)
}
