// Package rules holds the pure combat formulas: morale and luck rolls,
// attack/defence mitigation, flanking and range penalties.
package rules

import (
	"math"

	"golang.org/x/exp/constraints"

	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/world"
)

const (
	MitigationMin = 0.30
	MitigationMax = 3.00

	PointBlankPenalty = 0.75
	ObstructedPenalty = 0.5

	FlankRear  = 1.2
	FlankSide  = 1.1
	FlankFront = 1.0
)

var (
	moraleTable = [4]float64{0, 1.0 / 24, 2.0 / 24, 3.0 / 24}
	luckTable   = [3]float64{0, 1.0 / 24, 2.0 / 24}
)

// Morale is the outcome of a morale roll.
type Morale int

const (
	MoraleNormal Morale = iota
	MoraleExtra
	MoralePenalty
)

func (m Morale) String() string {
	switch m {
	case MoraleExtra:
		return "extra"
	case MoralePenalty:
		return "penalty"
	}
	return "normal"
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Round rounds half to even, the rounding used at every multiplicative
// stage of damage resolution.
func Round(f float64) int { return int(math.RoundToEven(f)) }

// Scale multiplies dmg by mult and rounds.
func Scale(dmg int, mult float64) int { return Round(float64(dmg) * mult) }

// RollMorale rolls a unit's morale at the start of its turn.
func RollMorale(rng entropy.Source, morale int) Morale {
	m := Clamp(morale, -3, 3)
	if m == 0 {
		return MoraleNormal
	}
	p := moraleTable[abs(m)]
	if rng.Float64() >= p {
		return MoraleNormal
	}
	if m > 0 {
		return MoraleExtra
	}
	return MoralePenalty
}

// RollLuck returns the damage multiplier for one attack: 1.5, 0.5 or 1.0.
// Zero luck never draws from rng.
func RollLuck(rng entropy.Source, luck int) float64 {
	l := Clamp(luck, -2, 2)
	if l == 0 {
		return 1.0
	}
	if rng.Float64() >= luckTable[abs(l)] {
		return 1.0
	}
	if l > 0 {
		return 1.5
	}
	return 0.5
}

// Mitigation returns the attack/defence multiplier: +5% per point of attack
// above defence, -2% per point below, clamped to [0.30, 3.00].
func Mitigation(attack, defence int) float64 {
	diff := float64(attack - defence)
	mult := 1.0
	switch {
	case diff > 0:
		mult = 1 + 0.05*diff
	case diff < 0:
		mult = 1 + 0.02*diff
	}
	return Clamp(mult, MitigationMin, MitigationMax)
}

// Flanking compares the attacker-to-defender vector with the defender's
// facing: hitting the back gives 1.2, the side 1.1, the front 1.0.
func Flanking(attacker, defender, facing world.Offset) float64 {
	v := world.Offset{X: defender.X - attacker.X, Y: defender.Y - attacker.Y}
	switch dot := world.Dot(v, facing); {
	case dot > 0:
		return FlankRear
	case dot == 0:
		return FlankSide
	}
	return FlankFront
}

// PointBlank reports whether a ranged shot at distance suffers the close
// range penalty.
func PointBlank(distance, minRange int) bool {
	return distance < max(2, minRange)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
