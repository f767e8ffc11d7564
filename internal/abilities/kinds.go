package abilities

import (
	"strconv"
	"strings"
)

// Kind enumerates the ability variants the engine knows how to run.
type Kind int

const (
	KindUnknown Kind = iota
	KindGoreCharge
	KindResistance
	KindThickHide
	KindIncorporeal
	KindHeatedScales
	KindScavenge
	KindCamouflage
	KindStalk
	KindHover
	KindEmberSpit
	KindWail
	KindCharge
	KindFlying
	KindMultiShot
	KindPassiveHeal
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindGoreCharge:   "gore_charge",
	KindResistance:   "resistance",
	KindThickHide:    "thick_hide",
	KindIncorporeal:  "incorporeal",
	KindHeatedScales: "heated_scales",
	KindScavenge:     "scavenge_on_kill",
	KindCamouflage:   "forest_camouflage",
	KindStalk:        "stalk",
	KindHover:        "hover",
	KindEmberSpit:    "ember_spit",
	KindWail:         "wail",
	KindCharge:       "charge",
	KindFlying:       "flying",
	KindMultiShot:    "multi_shot",
	KindPassiveHeal:  "passive_heal",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// KindOf maps an ability name to its variant. Any "<element>_resistance"
// name is a resistance.
func KindOf(name string) Kind {
	if strings.HasSuffix(name, "_resistance") && len(name) > len("_resistance") {
		return KindResistance
	}
	for k, n := range kindNames {
		if k != KindUnknown && k != KindResistance && n == name {
			return k
		}
	}
	return KindUnknown
}

// Params is the typed parameter block of an ability variant.
type Params interface {
	Kind() Kind
}

type GoreCharge struct {
	MinMove   int
	Bonus     float64
	Knockback int
}

type Resistance struct {
	Element  string
	Fraction float64
}

type ThickHide struct{ Fraction float64 }

type Incorporeal struct{ MissChance float64 }

type HeatedScales struct {
	Chance   float64
	Duration int
}

type Scavenge struct {
	Heal   int
	Chance float64
}

type Camouflage struct {
	Bonus float64
	Biome string // substring matched against the tile biome
}

type EmberSpit struct {
	Range        int
	Element      string
	BurnDuration int
}

type Wail struct {
	Radius   int
	Element  string
	Morale   int
	Duration int
}

type PassiveHeal struct{ Amount int }

// Trait is the parameter block of abilities with no arguments.
type Trait struct{ K Kind }

func (GoreCharge) Kind() Kind   { return KindGoreCharge }
func (Resistance) Kind() Kind   { return KindResistance }
func (ThickHide) Kind() Kind    { return KindThickHide }
func (Incorporeal) Kind() Kind  { return KindIncorporeal }
func (HeatedScales) Kind() Kind { return KindHeatedScales }
func (Scavenge) Kind() Kind     { return KindScavenge }
func (Camouflage) Kind() Kind   { return KindCamouflage }
func (EmberSpit) Kind() Kind    { return KindEmberSpit }
func (Wail) Kind() Kind         { return KindWail }
func (PassiveHeal) Kind() Kind  { return KindPassiveHeal }
func (t Trait) Kind() Kind      { return t.K }

// Compile resolves a parsed declaration into its typed parameters. Unknown
// names compile to a Trait of KindUnknown.
func Compile(s Spec) Params {
	switch k := KindOf(s.Name); k {
	case KindGoreCharge:
		return compileGoreCharge(s)
	case KindResistance:
		return Resistance{
			Element:  strings.TrimSuffix(s.Name, "_resistance"),
			Fraction: Float(s.Arg(0), 0.25),
		}
	case KindThickHide:
		return ThickHide{Fraction: Float(s.Kwarg("fraction"), 0.20)}
	case KindIncorporeal:
		return Incorporeal{MissChance: Float(s.Arg(0), 0.20)}
	case KindHeatedScales:
		return HeatedScales{
			Chance:   Float(s.Kwarg("burn_on_hit"), 0.20),
			Duration: Int(s.Kwarg("duration"), 2),
		}
	case KindScavenge:
		return Scavenge{Heal: Int(s.Kwarg("heal"), 6), Chance: Float(s.Kwarg("chance"), 1.0)}
	case KindCamouflage:
		return Camouflage{Bonus: Float(s.Kwarg("bonus"), 0.20), Biome: "forest"}
	case KindEmberSpit:
		return EmberSpit{
			Range:        Int(s.Arg(0), 2),
			Element:      String(s.Arg(1), "fire"),
			BurnDuration: Int(s.Kwarg("burn"), 2),
		}
	case KindWail:
		return Wail{
			Radius:   Int(s.Arg(0), 2),
			Element:  String(s.Arg(1), "mind"),
			Morale:   leadingInt(s.Kwarg("fear"), -1),
			Duration: Int(s.Kwarg("duration"), 1),
		}
	case KindPassiveHeal:
		return PassiveHeal{Amount: Int(s.Kwarg("amount"), 5)}
	default:
		return Trait{K: k}
	}
}

// compileGoreCharge reads the move threshold from "min_move", from a
// keyword written as "... after_move>=N", or from an integer first
// positional, defaulting to 2.
func compileGoreCharge(s Spec) GoreCharge {
	g := GoreCharge{
		MinMove:   2,
		Bonus:     Float(s.Kwarg("bonus"), 0.5),
		Knockback: Int(s.Kwarg("knockback"), 1),
	}
	if v, ok := s.Kwargs["min_move"]; ok {
		g.MinMove = Int(v, g.MinMove)
		return g
	}
	for k, v := range s.Kwargs {
		if strings.HasSuffix(strings.TrimSpace(k), "after_move>") {
			g.MinMove = Int(v, g.MinMove)
			return g
		}
	}
	if n, ok := s.Arg(0).(int); ok {
		g.MinMove = n
	}
	return g
}

// leadingInt parses values such as "-1_morale" or -1.
func leadingInt(v any, def int) int {
	switch x := v.(type) {
	case int:
		return x
	case float64:
		return int(x)
	case string:
		end := 0
		for end < len(x) && (x[end] == '-' || x[end] == '+' || (x[end] >= '0' && x[end] <= '9')) {
			end++
		}
		if n, err := strconv.Atoi(x[:end]); err == nil {
			return n
		}
	}
	return def
}
