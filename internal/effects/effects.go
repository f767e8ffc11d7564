// Package effects defines the declarative consequences produced by ability
// hooks and spell casts. Effect is a closed sum type: the only
// implementations are the variants in this file, and the battle package
// applies them with one exhaustive type switch.
package effects

import "github.com/talgya/hexclash/internal/world"

// Effect is one atomic consequence of an action.
type Effect interface {
	effect()
	// Kind returns the short tag used in combat logs.
	Kind() string
}

// Damage deals Amount of the given damage type to Target. Amount is the
// value before the defender's incoming modifiers and mitigation.
type Damage struct {
	Source  int
	Target  int
	Amount  int
	Element string // "fire", "mind", "physical", ...
}

// Heal restores Amount hit points to Target.
type Heal struct {
	Source int
	Target int
	Amount int
}

// Status attaches a timed status effect to Target.
type Status struct {
	Target    int
	Name      string
	Duration  int
	Modifiers map[string]int
}

// Knockback pushes Target along Vector. The push stops at the first cell
// that is blocked or occupied.
type Knockback struct {
	Target int
	Vector world.Offset
}

// Projectile is cosmetic: a missile flying between two cells.
type Projectile struct {
	Name string
	From world.Offset
	To   world.Offset
}

// Fx is cosmetic: a named visual or audio cue at a cell.
type Fx struct {
	Name string
	At   world.Offset
}

// Spawn places a battlefield object. The only object the engine knows is
// "ice_wall"; other names are logged and ignored.
type Spawn struct {
	Object   string
	Cells    []world.Offset
	Duration int
}

func (Damage) effect()     {}
func (Heal) effect()       {}
func (Status) effect()     {}
func (Knockback) effect()  {}
func (Projectile) effect() {}
func (Fx) effect()         {}
func (Spawn) effect()      {}

func (Damage) Kind() string     { return "damage" }
func (Heal) Kind() string       { return "heal" }
func (Status) Kind() string     { return "status" }
func (Knockback) Kind() string  { return "knockback" }
func (Projectile) Kind() string { return "projectile" }
func (Fx) Kind() string         { return "fx" }
func (Spawn) Kind() string      { return "spawn" }

// Cosmetic reports whether e has no effect on battle state.
func Cosmetic(e Effect) bool {
	switch e.(type) {
	case Projectile, Fx:
		return true
	}
	return false
}
