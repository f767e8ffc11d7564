package spells

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/talgya/hexclash/internal/abilities"
	"github.com/talgya/hexclash/internal/manifest"
)

// File is the on-disk layout: schools → level → group → entries.
type File struct {
	Schools map[string]map[string]map[string][]Entry `json:"schools" yaml:"schools"`
}

// Entry is one spell as written in a manifest.
type Entry struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Cost       int      `json:"cost" yaml:"cost"`
	Cooldown   int      `json:"cooldown" yaml:"cooldown"`
	Range      *int     `json:"range" yaml:"range"`
	Area       int      `json:"area" yaml:"area"`
	Target     string   `json:"target" yaml:"target"`
	Effects    []string `json:"effects" yaml:"effects"`
	Tags       []string `json:"tags" yaml:"tags"`
	Type       string   `json:"type" yaml:"type"`
	Duration   any      `json:"duration" yaml:"duration"`
	Projectile string   `json:"projectile" yaml:"projectile"`
	Fx         string   `json:"fx" yaml:"fx"`
	Alias      string   `json:"alias" yaml:"alias"`
}

const defaultRange = 4

// IsPassive applies the passive rule: the group is "passive", the type is
// "passive" or "aura", or the duration is "passive".
func IsPassive(group string, e Entry) bool {
	if strings.EqualFold(group, "passive") {
		return true
	}
	switch strings.ToLower(e.Type) {
	case "passive", "aura":
		return true
	}
	if d, ok := e.Duration.(string); ok && strings.EqualFold(d, "passive") {
		return true
	}
	return false
}

// Build converts a decoded manifest into a catalogue. Alias entries are
// resolved after every regular entry is known.
func Build(f File) *Catalog {
	c := NewCatalog()
	type alias struct{ id, of string }
	var aliases []alias

	for _, school := range sortedKeys(f.Schools) {
		levels := f.Schools[school]
		for _, levelKey := range sortedKeys(levels) {
			groups := levels[levelKey]
			for _, group := range sortedKeys(groups) {
				for _, e := range groups[group] {
					id := e.ID
					if id == "" {
						id = e.Name
					}
					if id == "" {
						continue
					}
					if e.Alias != "" {
						aliases = append(aliases, alias{id: id, of: e.Alias})
						continue
					}
					c.Add(fromEntry(id, school, levelKey, group, e))
				}
			}
		}
	}
	for _, a := range aliases {
		src, err := c.Get(a.of)
		if err != nil {
			slog.Warn("spell alias target missing", "alias", a.id, "target", a.of)
			continue
		}
		cp := *src
		cp.ID = a.id
		c.Add(&cp)
	}
	return c
}

func fromEntry(id, school, levelKey, group string, e Entry) *Spell {
	s := &Spell{
		ID:         id,
		Name:       e.Name,
		School:     school,
		Level:      parseLevel(levelKey),
		Group:      group,
		Cost:       e.Cost,
		Cooldown:   e.Cooldown,
		Range:      defaultRange,
		Area:       e.Area,
		Target:     TargetKind(strings.ToLower(e.Target)),
		Effects:    abilities.ParseSpecs(e.Effects),
		Tags:       append([]string(nil), e.Tags...),
		Passive:    IsPassive(group, e),
		Projectile: e.Projectile,
		Fx:         e.Fx,
	}
	if e.Range != nil {
		s.Range = *e.Range
	}
	switch s.Target {
	case TargetEnemy, TargetAlly, TargetCell, TargetSelf:
	default:
		s.Target = TargetEnemy
	}
	return s
}

// parseLevel reads "3", "level_3" or "L3" as 3. Unparseable keys give 1.
func parseLevel(key string) int {
	end := len(key)
	start := end
	for start > 0 && key[start-1] >= '0' && key[start-1] <= '9' {
		start--
	}
	if n, err := strconv.Atoi(key[start:end]); err == nil && n > 0 {
		return n
	}
	return 1
}

// Load reads a spell manifest. A missing or malformed file yields an empty
// catalogue and a warning.
func Load(path string) *Catalog {
	if path == "" {
		return NewCatalog()
	}
	var f File
	if err := manifest.Load(path, &f); err != nil {
		slog.Warn("spell manifest unavailable", "path", path, "error", err)
		return NewCatalog()
	}
	c := Build(f)
	slog.Info("spell manifest loaded", "path", path, "spells", c.Len())
	return c
}

// Merge returns a catalogue holding base's spells overridden by extra's.
func Merge(base, extra *Catalog) *Catalog {
	out := NewCatalog()
	for _, c := range []*Catalog{base, extra} {
		if c == nil {
			continue
		}
		for _, id := range c.IDs() {
			s, _ := c.Get(id)
			out.Add(s)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Spell) String() string {
	return fmt.Sprintf("%s (%s L%d, cost %d)", s.ID, s.School, s.Level, s.Cost)
}
