// Package status tracks the timed stat modifiers attached to a combat unit.
package status

import "sort"

// BurnDamage is the fixed damage a burning unit takes each time its
// statuses tick.
const BurnDamage = 5

// Well-known status names.
const (
	Burn        = "burn"
	Focus       = "focus"
	ShieldBlock = "shield_block"
	Charge      = "charge"
	Fear        = "fear_-1"
)

// Category classifies a status for display.
type Category string

const (
	Buff    Category = "buff"
	Debuff  Category = "debuff"
	Neutral Category = "neutral"
)

// CategoryOf returns the category for a status name.
func CategoryOf(name string) Category {
	switch name {
	case Focus, ShieldBlock, Charge:
		return Buff
	case Burn, Fear:
		return Debuff
	}
	return Neutral
}

// Effect is one active status on a unit.
type Effect struct {
	Name      string
	Remaining int
	Modifiers map[string]int
	Icon      string
}

// Ledger holds the active statuses of one unit in insertion order.
// The zero value is an empty ledger.
type Ledger struct {
	effects []*Effect
}

// Add attaches a status. Statuses with the same name stack as separate
// entries. An empty icon defaults to "status_<name>".
func (l *Ledger) Add(name string, duration int, modifiers map[string]int, icon string) {
	if icon == "" {
		icon = "status_" + name
	}
	mods := make(map[string]int, len(modifiers))
	for k, v := range modifiers {
		mods[k] = v
	}
	l.effects = append(l.effects, &Effect{Name: name, Remaining: duration, Modifiers: mods, Icon: icon})
}

// Get returns the remaining duration of the first status named name, or 0.
func (l *Ledger) Get(name string) int {
	for _, e := range l.effects {
		if e.Name == name {
			return e.Remaining
		}
	}
	return 0
}

// Has reports whether a status named name is active.
func (l *Ledger) Has(name string) bool {
	for _, e := range l.effects {
		if e.Name == name {
			return true
		}
	}
	return false
}

// Consume removes every status named name regardless of its remaining
// duration. It reports whether anything was removed.
func (l *Ledger) Consume(name string) bool {
	kept := l.effects[:0]
	removed := false
	for _, e := range l.effects {
		if e.Name == name {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(l.effects); i++ {
		l.effects[i] = nil
	}
	l.effects = kept
	return removed
}

// Modifiers returns the sum of the modifiers of all active statuses.
func (l *Ledger) Modifiers() map[string]int {
	sum := make(map[string]int)
	for _, e := range l.effects {
		for k, v := range e.Modifiers {
			sum[k] += v
		}
	}
	return sum
}

// Tick advances every status by one turn. It returns the modifiers that
// were active for this turn (summed before any status expires) and the
// burn damage the owner must take. Statuses whose duration reaches zero
// are dropped.
func (l *Ledger) Tick() (mods map[string]int, burn int) {
	mods = l.Modifiers()
	kept := l.effects[:0]
	for _, e := range l.effects {
		if e.Name == Burn {
			burn += BurnDamage
		}
		e.Remaining--
		if e.Remaining > 0 {
			kept = append(kept, e)
		}
	}
	for i := len(kept); i < len(l.effects); i++ {
		l.effects[i] = nil
	}
	l.effects = kept
	return mods, burn
}

// Active returns copies of the active statuses.
func (l *Ledger) Active() []Effect {
	out := make([]Effect, 0, len(l.effects))
	for _, e := range l.effects {
		c := *e
		c.Modifiers = make(map[string]int, len(e.Modifiers))
		for k, v := range e.Modifiers {
			c.Modifiers[k] = v
		}
		out = append(out, c)
	}
	return out
}

// Names returns the distinct active status names, sorted.
func (l *Ledger) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range l.effects {
		if !seen[e.Name] {
			seen[e.Name] = true
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of active statuses.
func (l *Ledger) Len() int { return len(l.effects) }
