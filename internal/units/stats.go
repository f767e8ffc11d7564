// Package units defines unit stat blocks and the battle-time unit stack.
package units

// Stats is the static stat block shared by every creature of a unit type.
type Stats struct {
	Name          string   `json:"name" yaml:"name"`
	MaxHP         int      `json:"max_hp" yaml:"max_hp"`
	AttackMin     int      `json:"attack_min" yaml:"attack_min"`
	AttackMax     int      `json:"attack_max" yaml:"attack_max"`
	Attack        int      `json:"attack" yaml:"attack"`
	DefenceMelee  int      `json:"defence_melee" yaml:"defence_melee"`
	DefenceRanged int      `json:"defence_ranged" yaml:"defence_ranged"`
	DefenceMagic  int      `json:"defence_magic" yaml:"defence_magic"`
	Speed         int      `json:"speed" yaml:"speed"`
	AttackRange   int      `json:"attack_range" yaml:"attack_range"`
	MinRange      int      `json:"min_range" yaml:"min_range"`
	Initiative    int      `json:"initiative" yaml:"initiative"`
	Morale        int      `json:"morale" yaml:"morale"`
	Luck          int      `json:"luck" yaml:"luck"`
	Mana          int      `json:"mana" yaml:"mana"`
	Retaliations  int      `json:"retaliations_per_round" yaml:"retaliations_per_round"`
	Abilities     []string `json:"abilities" yaml:"abilities"`
	Role          string   `json:"role" yaml:"role"`
}

// Normalize fills defaults for fields a manifest may omit.
func (s Stats) Normalize() Stats {
	if s.AttackRange < 1 {
		s.AttackRange = 1
	}
	if s.MinRange < 1 {
		s.MinRange = 1
	}
	if s.Retaliations == 0 {
		s.Retaliations = 1
	}
	if s.AttackMax < s.AttackMin {
		s.AttackMax = s.AttackMin
	}
	if s.MaxHP < 1 {
		s.MaxHP = 1
	}
	return s
}

// Clone returns a deep copy of s.
func (s Stats) Clone() Stats {
	c := s
	c.Abilities = append([]string(nil), s.Abilities...)
	return c
}

// Ranged reports whether the unit attacks from a distance.
func (s Stats) Ranged() bool { return s.AttackRange > 1 }

// Apply returns a copy of s with each modifier added to the stat of the
// same name. Unknown stat names are ignored.
func (s Stats) Apply(mods map[string]int) Stats {
	c := s.Clone()
	for name, d := range mods {
		if p := c.field(name); p != nil {
			*p += d
		}
	}
	return c
}

func (s *Stats) field(name string) *int {
	switch name {
	case "max_hp":
		return &s.MaxHP
	case "attack_min":
		return &s.AttackMin
	case "attack_max":
		return &s.AttackMax
	case "attack":
		return &s.Attack
	case "defence_melee":
		return &s.DefenceMelee
	case "defence_ranged":
		return &s.DefenceRanged
	case "defence_magic":
		return &s.DefenceMagic
	case "speed":
		return &s.Speed
	case "attack_range":
		return &s.AttackRange
	case "min_range":
		return &s.MinRange
	case "initiative":
		return &s.Initiative
	case "morale":
		return &s.Morale
	case "luck":
		return &s.Luck
	case "mana":
		return &s.Mana
	case "retaliations_per_round":
		return &s.Retaliations
	}
	return nil
}

// Defence returns the defence value for an attack channel: "melee",
// "ranged" or "magic". Unknown channels use melee defence.
func (s Stats) Defence(channel string) int {
	switch channel {
	case "ranged":
		return s.DefenceRanged
	case "magic":
		return s.DefenceMagic
	}
	return s.DefenceMelee
}
