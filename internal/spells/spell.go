// Package spells holds spell definitions, the spell manifest loader and
// the declarative cast expansion into effects.
package spells

import (
	"errors"
	"sort"

	"github.com/talgya/hexclash/internal/abilities"
)

var ErrUnknownSpell = errors.New("unknown spell")

// TargetKind says what a spell is aimed at.
type TargetKind string

const (
	TargetEnemy TargetKind = "enemy"
	TargetAlly  TargetKind = "ally"
	TargetCell  TargetKind = "cell"
	TargetSelf  TargetKind = "self"
)

// Spell is one castable (or passive) spell definition.
type Spell struct {
	ID         string
	Name       string
	School     string
	Level      int
	Group      string
	Cost       int
	Cooldown   int
	Range      int
	Area       int
	Target     TargetKind
	Effects    []abilities.Spec
	Tags       []string
	Passive    bool
	Projectile string
	Fx         string
}

// Hostile reports whether the spell is aimed at enemies.
func (s *Spell) Hostile() bool {
	return s.Target == TargetEnemy || s.Target == TargetCell
}

// HasTag reports whether the spell carries tag.
func (s *Spell) HasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalog indexes spells by id. A Catalog belongs to one battle setup and
// is never shared as package state.
type Catalog struct {
	byID map[string]*Spell
}

// NewCatalog builds a catalogue from spells. Later duplicates win.
func NewCatalog(list ...*Spell) *Catalog {
	c := &Catalog{byID: make(map[string]*Spell, len(list))}
	for _, s := range list {
		c.Add(s)
	}
	return c
}

// Add inserts or replaces a spell.
func (c *Catalog) Add(s *Spell) {
	if s == nil || s.ID == "" {
		return
	}
	if s.Name == "" {
		s.Name = s.ID
	}
	c.byID[s.ID] = s
}

// Get returns the spell with the given id or ErrUnknownSpell.
func (c *Catalog) Get(id string) (*Spell, error) {
	if c != nil {
		if s, ok := c.byID[id]; ok {
			return s, nil
		}
	}
	return nil, ErrUnknownSpell
}

// Len returns the number of spells.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.byID)
}

// IDs returns the spell ids, sorted.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Spellbook returns the castable spells named among a unit's ability
// declarations, in declaration order. Passive spells are excluded.
func (c *Catalog) Spellbook(decls []abilities.Spec) []*Spell {
	var book []*Spell
	for _, d := range decls {
		s, err := c.Get(d.Name)
		if err != nil || s.Passive {
			continue
		}
		book = append(book, s)
	}
	return book
}

func spec(s string) abilities.Spec { return abilities.ParseSpec(s) }

// Default returns the built-in spells.
func Default() *Catalog {
	return NewCatalog(
		&Spell{ID: "fireball", Name: "Fireball", School: "fire", Level: 1, Cost: 1, Range: 6, Area: 1,
			Target: TargetCell, Projectile: "fireball", Fx: "explosion", Tags: []string{"damage"},
			Effects: []abilities.Spec{spec("damage(per_power=30, element=fire)")}},
		&Spell{ID: "chain_lightning", Name: "Chain Lightning", School: "air", Level: 2, Cost: 2, Range: 6,
			Target: TargetEnemy, Fx: "chain_lightning", Tags: []string{"damage"},
			Effects: []abilities.Spec{spec("chain(per_power=25, element=shock, jumps=4, range=3)")}},
		&Spell{ID: "dragon_breath", Name: "Dragon Breath", School: "fire", Level: 3, Cost: 2, Range: 4, Area: 3,
			Target: TargetCell, Projectile: "dragon_breath", Tags: []string{"damage"},
			Effects: []abilities.Spec{spec("damage(per_power=40, element=fire)"), spec("status(burn, 2)")}},
		&Spell{ID: "heal", Name: "Heal", School: "light", Level: 1, Cost: 1, Range: 6, Target: TargetAlly,
			Fx: "heal_wave", Tags: []string{"heal"},
			Effects: []abilities.Spec{spec("heal(base=10, per_power=10)")}},
		&Spell{ID: "ice_wall", Name: "Ice Wall", School: "water", Level: 1, Cost: 1, Range: 6, Target: TargetCell,
			Fx: "ice_wall", Tags: []string{"control"},
			Effects: []abilities.Spec{spec("spawn(ice_wall, length=3, duration=2)")}},
		&Spell{ID: "focus", Name: "Focus", School: "neutral", Level: 1, Cost: 1, Range: 6, Target: TargetAlly,
			Fx: "focus", Tags: []string{"buff"},
			Effects: []abilities.Spec{spec("status(focus, 1)")}},
		&Spell{ID: "shield_block", Name: "Shield Block", School: "neutral", Level: 1, Cost: 1, Range: 6, Target: TargetAlly,
			Fx: "shield_block", Tags: []string{"buff"},
			Effects: []abilities.Spec{spec("status(shield_block, 1)")}},
		&Spell{ID: "charge", Name: "Charge", School: "neutral", Level: 1, Cost: 1, Range: 6, Target: TargetAlly,
			Fx: "charge", Tags: []string{"buff"},
			Effects: []abilities.Spec{spec("status(charge, 1)")}},
		&Spell{ID: "buff", Name: "Buff", School: "light", Level: 1, Cost: 1, Range: 6, Target: TargetAlly,
			Fx: "buff", Tags: []string{"buff"},
			Effects: []abilities.Spec{spec("status(buff, 3, attack=2)")}},
		&Spell{ID: "passive_heal", Name: "Passive Heal", School: "light", Group: "passive", Passive: true},
	)
}
