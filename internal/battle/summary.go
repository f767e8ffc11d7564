package battle

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/units"
)

// ExperiencePerCreature is awarded for every enemy creature killed.
const ExperiencePerCreature = 10

// Rarity grades the loot awarded for a victory.
type Rarity string

const (
	RarityNone      Rarity = ""
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityLegendary Rarity = "legendary"
)

// LootWeight is one row of a loot table.
type LootWeight struct {
	Rarity Rarity
	Weight float64
}

// LootTable returns the rarity weights for an enemy army of the given
// power.
func LootTable(power int) []LootWeight {
	switch {
	case power > 120:
		return []LootWeight{{RarityLegendary, 0.1}, {RarityRare, 0.3}, {RarityUncommon, 0.4}, {RarityCommon, 0.2}}
	case power > 60:
		return []LootWeight{{RarityRare, 0.3}, {RarityUncommon, 0.5}, {RarityCommon, 0.2}}
	case power > 30:
		return []LootWeight{{RarityUncommon, 0.6}, {RarityCommon, 0.4}}
	}
	return []LootWeight{{RarityCommon, 1}}
}

// RollLoot draws a rarity for an enemy army of the given power.
func RollLoot(rng entropy.Source, power int) Rarity {
	table := LootTable(power)
	var total float64
	for _, w := range table {
		total += w.Weight
	}
	r := rng.Float64() * total
	for _, w := range table {
		if r < w.Weight {
			return w.Rarity
		}
		r -= w.Weight
	}
	return table[len(table)-1].Rarity
}

// Power rates an army: stack size times the sum of its damage bounds.
func Power(army []Deployment) int {
	p := 0
	for _, d := range army {
		p += d.Count * (d.Stats.AttackMin + d.Stats.AttackMax)
	}
	return p
}

// UnitReport is the end-of-battle record of one stack.
type UnitReport struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Side        units.Side `json:"side"`
	Start       int        `json:"start"`
	Left        int        `json:"left"`
	DamageDealt int        `json:"damage_dealt"`
	DamageTaken int        `json:"damage_taken"`
	Kills       int        `json:"kills"`
}

// Result is what the world map receives when a battle ends.
type Result struct {
	BattleID   uuid.UUID    `json:"battle_id"`
	Winner     units.Side   `json:"winner"`
	Rounds     int          `json:"rounds"`
	Experience int          `json:"experience"`
	EnemyPower int          `json:"enemy_power"`
	Loot       Rarity       `json:"loot,omitempty"`
	Units      []UnitReport `json:"units"`
	Log        []Entry      `json:"-"`
}

func reports(all []*units.Unit) []UnitReport {
	out := make([]UnitReport, 0, len(all))
	for _, u := range all {
		out = append(out, UnitReport{
			ID:          u.ID,
			Name:        u.Name(),
			Side:        u.Side,
			Start:       u.StartCount(),
			Left:        u.Count,
			DamageDealt: u.DamageDealt,
			DamageTaken: u.DamageTaken,
			Kills:       u.Kills,
		})
	}
	return out
}

// Result summarises the battle. Loot is rolled only for a hero victory.
func (b *Battle) Result() Result {
	r := Result{
		BattleID: b.ID,
		Winner:   b.winner,
		Rounds:   b.round,
		Units:    reports(b.all),
		Log:      b.Log(),
	}
	for _, u := range b.all {
		if u.Side != units.Enemy {
			continue
		}
		r.Experience += u.Lost() * ExperiencePerCreature
		r.EnemyPower += u.StartCount() * (u.Baseline().AttackMin + u.Baseline().AttackMax)
	}
	if b.over && b.winner == units.Hero {
		r.Loot = RollLoot(b.rng, r.EnemyPower)
	}
	return r
}

// Summary renders the result for people.
func (r Result) Summary() string {
	var sb strings.Builder
	switch r.Winner {
	case units.Hero:
		fmt.Fprintf(&sb, "Victory in the %s round", humanize.Ordinal(r.Rounds))
	case units.Enemy:
		fmt.Fprintf(&sb, "Defeat in the %s round", humanize.Ordinal(r.Rounds))
	default:
		fmt.Fprintf(&sb, "Draw after %s", pluralRounds(r.Rounds))
	}
	fmt.Fprintf(&sb, ", %s experience", humanize.Comma(int64(r.Experience)))
	if r.Loot != RarityNone {
		fmt.Fprintf(&sb, ", %s loot", r.Loot)
	}
	sb.WriteString("\n")
	for _, u := range r.Units {
		fmt.Fprintf(&sb, "  %-6s %-16s %s/%s left, dealt %s, taken %s\n",
			u.Side, u.Name,
			humanize.Comma(int64(u.Left)), humanize.Comma(int64(u.Start)),
			humanize.Comma(int64(u.DamageDealt)), humanize.Comma(int64(u.DamageTaken)))
	}
	return sb.String()
}

func pluralRounds(n int) string {
	if n == 1 {
		return "1 round"
	}
	return humanize.Comma(int64(n)) + " rounds"
}
