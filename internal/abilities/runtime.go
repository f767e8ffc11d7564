package abilities

import (
	"fmt"

	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/world"
)

// Ability is one declared ability of a unit together with its cooldown.
type Ability struct {
	Spec        Spec
	Params      Params
	CooldownMax int
	Cooldown    int
}

// Kind returns the ability variant.
func (a *Ability) Kind() Kind { return a.Params.Kind() }

// Runtime is the per-unit ability state for one battle.
type Runtime struct {
	UnitID     int
	Pos        world.Offset
	MovedTiles int
	Hidden     bool

	abilities map[string]*Ability
	order     []string
}

// Ability returns the named ability, if known.
func (rt *Runtime) Ability(name string) (*Ability, bool) {
	a, ok := rt.abilities[name]
	return a, ok
}

// Abilities returns the unit's abilities in declaration order.
func (rt *Runtime) Abilities() []*Ability {
	out := make([]*Ability, 0, len(rt.order))
	for _, n := range rt.order {
		out = append(out, rt.abilities[n])
	}
	return out
}

// Has reports whether the unit owns an ability of kind k.
func (rt *Runtime) Has(k Kind) bool {
	return rt.first(k) != nil
}

func (rt *Runtime) first(k Kind) *Ability {
	for _, n := range rt.order {
		if a := rt.abilities[n]; a.Kind() == k {
			return a
		}
	}
	return nil
}

// Engine runs ability hooks. It holds no per-unit state.
type Engine struct {
	rng entropy.Source
}

// NewEngine creates an ability engine drawing chance rolls from rng. A nil
// rng uses a randomly seeded source.
func NewEngine(rng entropy.Source) *Engine {
	if rng == nil {
		rng = entropy.NewSeeded(0)
	}
	return &Engine{rng: rng}
}

// InitUnit builds the runtime for a unit from its parsed declarations. The
// max cooldown of each ability is read from its "cd" keyword.
func (e *Engine) InitUnit(unitID int, specs []Spec) *Runtime {
	rt := &Runtime{UnitID: unitID, abilities: make(map[string]*Ability, len(specs))}
	for _, s := range specs {
		if _, dup := rt.abilities[s.Name]; !dup {
			rt.order = append(rt.order, s.Name)
		}
		rt.abilities[s.Name] = &Ability{
			Spec:        s,
			Params:      Compile(s),
			CooldownMax: Int(s.Kwarg("cd"), 0),
		}
	}
	return rt
}

// OnBattleStart resets every cooldown.
func (e *Engine) OnBattleStart(rt *Runtime) {
	for _, a := range rt.abilities {
		a.Cooldown = 0
	}
}

// OnTurnStart ticks cooldowns down and marks the unit hidden until it acts
// or is revealed.
func (e *Engine) OnTurnStart(rt *Runtime) {
	for _, a := range rt.abilities {
		if a.Cooldown > 0 {
			a.Cooldown--
		}
	}
	rt.MovedTiles = 0
	rt.Hidden = true
}

// OnRevealed clears the hidden flag.
func (e *Engine) OnRevealed(rt *Runtime) {
	rt.Hidden = false
}

// CanUse reports whether the named ability may be used now, with a
// human-readable reason when it may not.
func (e *Engine) CanUse(rt *Runtime, name string) (bool, string) {
	a, ok := rt.abilities[name]
	if !ok {
		return false, "Ability not known"
	}
	if a.Cooldown > 0 {
		return false, fmt.Sprintf("Recharge %d turn(s)", a.Cooldown)
	}
	return true, ""
}

// StartCooldown puts the named ability on cooldown. Unknown names are
// ignored.
func (e *Engine) StartCooldown(rt *Runtime, name string) {
	if a, ok := rt.abilities[name]; ok {
		a.Cooldown = a.CooldownMax
	}
}
