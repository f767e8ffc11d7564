package units

import (
	"fmt"

	"github.com/talgya/hexclash/internal/status"
	"github.com/talgya/hexclash/internal/world"
)

// Side identifies which army a unit fights for.
type Side string

const (
	Hero  Side = "hero"
	Enemy Side = "enemy"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Hero {
		return Enemy
	}
	return Hero
}

// DefaultFacing is the facing vector of a freshly deployed unit.
var DefaultFacing = world.Offset{X: 0, Y: 1}

// Unit is a stack of identical creatures taking part in a battle.
// Damage is applied to the top creature first; when it dies the stack
// shrinks by one and the next creature starts at full health.
type Unit struct {
	ID    int
	Side  Side
	Count int
	HP    int // health of the top creature
	Mana  int

	// Stats are the effective stats: the baseline plus the modifiers of
	// the statuses that were active at the last tick.
	Stats    Stats
	baseline Stats

	Pos    world.Offset
	Facing world.Offset

	Acted            bool
	SkipTurn         bool
	ExtraTurns       int
	RetaliationsLeft int
	AttackBonus      int
	InitiativeBonus  int

	Statuses status.Ledger

	DamageDealt int
	DamageTaken int
	Kills       int // creatures killed
	startCount  int
}

// New creates a stack of count creatures. The stats become the unit's
// frozen baseline.
func New(id int, side Side, stats Stats, count int) *Unit {
	stats = stats.Normalize()
	if count < 1 {
		count = 1
	}
	return &Unit{
		ID:               id,
		Side:             side,
		Count:            count,
		HP:               stats.MaxHP,
		Mana:             stats.Mana,
		Stats:            stats.Clone(),
		baseline:         stats.Clone(),
		Facing:           DefaultFacing,
		RetaliationsLeft: stats.Retaliations,
		startCount:       count,
	}
}

// Name returns the unit type name.
func (u *Unit) Name() string { return u.baseline.Name }

// Baseline returns a copy of the frozen stat snapshot.
func (u *Unit) Baseline() Stats { return u.baseline.Clone() }

// Alive reports whether any creature in the stack is left.
func (u *Unit) Alive() bool { return u.Count > 0 }

// StartCount is the stack size at deployment.
func (u *Unit) StartCount() int { return u.startCount }

// Lost returns the number of creatures killed so far.
func (u *Unit) Lost() int { return u.startCount - u.Count }

// Initiative returns the effective initiative including bonuses.
func (u *Unit) Initiative() int { return u.Stats.Initiative + u.InitiativeBonus }

// AttackValue is the attack rating compared against defence for
// mitigation.
func (u *Unit) AttackValue() int { return u.Stats.Attack + u.AttackBonus }

// TotalHP returns the stack's remaining health across all creatures.
func (u *Unit) TotalHP() int {
	if u.Count == 0 {
		return 0
	}
	return (u.Count-1)*u.Stats.MaxHP + u.HP
}

// Wounded reports whether the top creature is below full health.
func (u *Unit) Wounded() bool { return u.Alive() && u.HP < u.Stats.MaxHP }

// TakeDamage applies dmg to the stack and returns the number of creatures
// killed. Non-positive damage is ignored.
func (u *Unit) TakeDamage(dmg int) int {
	killed := 0
	for dmg > 0 && u.Count > 0 {
		if dmg >= u.HP {
			dmg -= u.HP
			u.Count--
			killed++
			if u.Count > 0 {
				u.HP = u.Stats.MaxHP
			} else {
				u.HP = 0
			}
		} else {
			u.HP -= dmg
			dmg = 0
		}
	}
	return killed
}

// Heal restores hit points to the top creature, capped at max HP. It
// returns the amount actually healed.
func (u *Unit) Heal(amount int) int {
	if !u.Alive() || amount <= 0 {
		return 0
	}
	before := u.HP
	u.HP += amount
	if u.HP > u.Stats.MaxHP {
		u.HP = u.Stats.MaxHP
	}
	return u.HP - before
}

// TickStatuses recomputes the effective stats from the baseline plus the
// active status modifiers, then advances every status by one turn. It
// returns the burn damage the unit must take; the caller applies it so
// that a death can be excised from the battle.
func (u *Unit) TickStatuses() int {
	mods, burn := u.Statuses.Tick()
	u.Stats = u.baseline.Apply(mods)
	if u.HP > u.Stats.MaxHP {
		u.HP = u.Stats.MaxHP
	}
	return burn
}

// ResetRound restores the per-round resources.
func (u *Unit) ResetRound() {
	u.Acted = false
	u.RetaliationsLeft = u.Stats.Retaliations
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s x%d (%s #%d)", u.Name(), u.Count, u.Side, u.ID)
}
