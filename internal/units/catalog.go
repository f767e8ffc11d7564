package units

import (
	"sort"
	"strings"
)

// Catalog maps unit type names to stat blocks.
type Catalog map[string]Stats

// Lookup finds a stat block by name, ignoring case.
func (c Catalog) Lookup(name string) (Stats, bool) {
	if s, ok := c[name]; ok {
		return s.Clone(), true
	}
	for k, s := range c {
		if strings.EqualFold(k, name) {
			return s.Clone(), true
		}
	}
	return Stats{}, false
}

// Names returns the catalogue entries sorted by name.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Merge returns a catalogue with the entries of other overriding c.
func (c Catalog) Merge(other Catalog) Catalog {
	out := make(Catalog, len(c)+len(other))
	for k, v := range c {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v.Normalize()
	}
	return out
}

// DefaultCatalog returns the built-in troop types.
func DefaultCatalog() Catalog {
	list := []Stats{
		{Name: "Swordsman", MaxHP: 40, AttackMin: 4, AttackMax: 6, DefenceMelee: 3, DefenceRanged: 3,
			Speed: 3, AttackRange: 1, Initiative: 5, Mana: 1, Abilities: []string{"shield_block"}, Role: "melee"},
		{Name: "Archer", MaxHP: 25, AttackMin: 3, AttackMax: 5, DefenceMelee: 2, DefenceRanged: 2,
			Speed: 3, AttackRange: 3, MinRange: 2, Initiative: 7, Abilities: []string{"focus"}, Role: "ranged"},
		{Name: "Mage", MaxHP: 20, AttackMin: 5, AttackMax: 8, DefenceMelee: 1, DefenceRanged: 1,
			Speed: 3, AttackRange: 4, Initiative: 6, Mana: 10,
			Abilities: []string{"fireball", "chain_lightning", "ice_wall"}, Role: "caster"},
		{Name: "Cavalry", MaxHP: 50, AttackMin: 6, AttackMax: 9, DefenceMelee: 4, DefenceRanged: 4,
			Speed: 5, AttackRange: 1, Initiative: 8, Abilities: []string{"charge"}, Role: "melee"},
		{Name: "Dragon", MaxHP: 200, AttackMin: 10, AttackMax: 10, DefenceMelee: 8, DefenceRanged: 8,
			Speed: 4, AttackRange: 1, Initiative: 9, Mana: 5,
			Abilities: []string{"flying", "multi_shot", "dragon_breath"}, Role: "melee"},
		{Name: "Priest", MaxHP: 30, AttackMin: 4, AttackMax: 6, DefenceMelee: 2, DefenceRanged: 2,
			Speed: 3, AttackRange: 3, Initiative: 7, Mana: 10, Abilities: []string{"passive_heal", "heal"}, Role: "support"},
		{Name: "fumet_lizard", MaxHP: 22, AttackMin: 3, AttackMax: 5, DefenceMelee: 2, DefenceRanged: 1, DefenceMagic: 2,
			Speed: 4, AttackRange: 1, Initiative: 7, Mana: 1,
			Abilities: []string{"ember_spit(2, fire, cd=2)", "fire_resistance(25%)", "heated_scales(burn_on_hit=20%)"}, Role: "skirmisher"},
		{Name: "shadowleaf_wolf", MaxHP: 28, AttackMin: 4, AttackMax: 6, DefenceMelee: 2, DefenceRanged: 3, DefenceMagic: 1,
			Speed: 5, AttackRange: 1, Initiative: 8,
			Abilities: []string{"pounce(bleed=2, bonus_vs_flanked)", "forest_camouflage(+20% evade_in_forest)", "stalk(first_strike_if_undetected)"}, Role: "ambusher"},
		{Name: "boar_raven", MaxHP: 60, AttackMin: 7, AttackMax: 10, DefenceMelee: 4, DefenceRanged: 3, DefenceMagic: 1,
			Speed: 4, AttackRange: 1, Initiative: 6, Morale: 1,
			Abilities: []string{"gore_charge(+50% dmg after_move>=2, knockback=1)", "thick_hide(-20% melee_damage_taken)", "scavenge_on_kill(heal=6)"}, Role: "breaker"},
		{Name: "hurlombe", MaxHP: 24, AttackMin: 4, AttackMax: 5, DefenceMelee: 1, DefenceRanged: 2, DefenceMagic: 4,
			Speed: 5, AttackRange: 1, Initiative: 9, Mana: 2,
			Abilities: []string{"wail(2, mind, fear=-1_morale, cd=2)", "incorporeal(20% miss_physical)", "hover(ignore_terrain_penalties)"}, Role: "controller"},
	}
	c := make(Catalog, len(list))
	for _, s := range list {
		c[s.Name] = s.Normalize()
	}
	return c
}
