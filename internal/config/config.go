// Package config loads battlesim settings from HEXCLASH_* environment
// variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the battle simulator settings.
type Config struct {
	Seed   int64  `env:"HEXCLASH_SEED" envDefault:"0"` // 0 = random
	DBPath string `env:"HEXCLASH_DB_PATH" envDefault:"data/battles.db"`

	UnitsManifest  string `env:"HEXCLASH_UNITS_MANIFEST"`
	SpellsManifest string `env:"HEXCLASH_SPELLS_MANIFEST"`

	GridWidth  int    `env:"HEXCLASH_GRID_WIDTH" envDefault:"10"`
	GridHeight int    `env:"HEXCLASH_GRID_HEIGHT" envDefault:"10"`
	Obstacles  int    `env:"HEXCLASH_OBSTACLES" envDefault:"4"`
	Biome      string `env:"HEXCLASH_BIOME" envDefault:"plains"`

	HeroArmy   string `env:"HEXCLASH_HERO_ARMY" envDefault:"Swordsman:10,Archer:8,Cavalry:4,Priest:2"`
	EnemyArmy  string `env:"HEXCLASH_ENEMY_ARMY" envDefault:"shadowleaf_wolf:6,boar_raven:4,fumet_lizard:6,hurlombe:3"`
	HeroMana   int    `env:"HEXCLASH_HERO_MANA" envDefault:"3"`
	HeroSpells string `env:"HEXCLASH_HERO_SPELLS" envDefault:"fireball:1,heal:1"`

	AIDifficulty string        `env:"HEXCLASH_AI_DIFFICULTY" envDefault:"advanced"`
	MaxRounds    int           `env:"HEXCLASH_MAX_ROUNDS" envDefault:"100"`
	TurnInterval time.Duration `env:"HEXCLASH_TURN_INTERVAL" envDefault:"0s"`

	LogLevel     string `env:"HEXCLASH_LOG_LEVEL" envDefault:"info"`
	APIPort      int    `env:"HEXCLASH_API_PORT" envDefault:"0"` // 0 = disabled
	RandomOrgKey string `env:"RANDOM_ORG_KEY"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.GridWidth < 4 || cfg.GridHeight < 2 {
		return cfg, fmt.Errorf("grid %dx%d is too small", cfg.GridWidth, cfg.GridHeight)
	}
	return cfg, nil
}

// SlogLevel maps LogLevel to a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// Stack is one "name:count" entry of an army list.
type Stack struct {
	Name  string
	Count int
}

var errEmptyArmy = errors.New("empty army")

// ParseArmy parses a comma separated "name:count" list. A missing count
// means one creature.
func ParseArmy(s string) ([]Stack, error) {
	var out []Stack
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, count, hasCount := strings.Cut(part, ":")
		st := Stack{Name: strings.TrimSpace(name), Count: 1}
		if hasCount {
			n, err := strconv.Atoi(strings.TrimSpace(count))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("army entry %q: bad count", part)
			}
			st.Count = n
		}
		if st.Name == "" {
			return nil, fmt.Errorf("army entry %q: missing name", part)
		}
		out = append(out, st)
	}
	if len(out) == 0 {
		return nil, errEmptyArmy
	}
	return out, nil
}

// ParseSpellLevels parses a "spell:level" list into a map. A missing level
// means level 1.
func ParseSpellLevels(s string) (map[string]int, error) {
	out := make(map[string]int)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	stacks, err := ParseArmy(s)
	if err != nil {
		return nil, fmt.Errorf("spells: %w", err)
	}
	for _, st := range stacks {
		out[st.Name] = st.Count
	}
	return out, nil
}
