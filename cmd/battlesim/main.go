// Command battlesim runs one AI-versus-AI hexclash battle and stores its report.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/hexclash/internal/ai"
	"github.com/talgya/hexclash/internal/api"
	"github.com/talgya/hexclash/internal/battle"
	"github.com/talgya/hexclash/internal/config"
	"github.com/talgya/hexclash/internal/engine"
	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/manifest"
	"github.com/talgya/hexclash/internal/persistence"
	"github.com/talgya/hexclash/internal/spells"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	slog.Info("hexclash battle simulator")

	seed := cfg.Seed
	if seed == 0 {
		seed = entropy.CryptoSeed()
	}

	// ── Database ──────────────────────────────────────────────────────
	if dir := filepath.Dir(cfg.DBPath); dir != "" {
		os.MkdirAll(dir, 0755)
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	// ── Manifests ─────────────────────────────────────────────────────
	catalog := units.DefaultCatalog().Merge(manifest.LoadUnits(cfg.UnitsManifest))
	spellbook := spells.Merge(spells.Default(), spells.Load(cfg.SpellsManifest))
	slog.Info("catalogues ready", "units", len(catalog), "spells", spellbook.Len())

	heroes, err := muster(catalog, cfg.HeroArmy)
	if err != nil {
		slog.Error("bad hero army", "error", err)
		os.Exit(1)
	}
	enemies, err := muster(catalog, cfg.EnemyArmy)
	if err != nil {
		slog.Error("bad enemy army", "error", err)
		os.Exit(1)
	}
	heroSpells, err := config.ParseSpellLevels(cfg.HeroSpells)
	if err != nil {
		slog.Error("bad hero spells", "error", err)
		os.Exit(1)
	}

	// ── Randomness ────────────────────────────────────────────────────
	var rng entropy.Source = entropy.NewSeeded(seed)
	if client := entropy.NewClient(cfg.RandomOrgKey); client != nil {
		slog.Info("random.org entropy enabled")
		rng = client
	} else {
		slog.Info("seeded entropy", "seed", seed)
	}

	heroLoss, enemyLoss, xp := battle.Preview(heroes, enemies, 200, entropy.NewSeeded(seed))
	slog.Info("auto-resolve preview",
		"hero_losses", fmt.Sprintf("%.1f", heroLoss),
		"enemy_losses", fmt.Sprintf("%.1f", enemyLoss),
		"experience", fmt.Sprintf("%.0f", xp),
	)

	// ── Battlefield ───────────────────────────────────────────────────
	gen := world.DefaultGenConfig()
	gen.Width, gen.Height = cfg.GridWidth, cfg.GridHeight
	gen.Obstacles = cfg.Obstacles
	gen.Biome = world.Biome(cfg.Biome)
	gen.Seed = seed

	b, err := battle.New(battle.Setup{
		Gen:        gen,
		Heroes:     heroes,
		Enemies:    enemies,
		Spells:     spellbook,
		HeroMana:   cfg.HeroMana,
		HeroSpells: heroSpells,
		Rng:        rng,
	})
	if err != nil {
		slog.Error("failed to set up battle", "error", err)
		os.Exit(1)
	}
	fmt.Println(b.Grid.String())

	// ── Runner ────────────────────────────────────────────────────────
	policy := ai.Skirmisher{Difficulty: ai.ParseDifficulty(cfg.AIDifficulty)}
	runner := engine.NewRunner(b, policy, policy)
	runner.MaxRounds = cfg.MaxRounds
	runner.Interval = cfg.TurnInterval
	runner.OnRound = func(round int) {
		slog.Info("round", "battle", b.ID, "round", round, "units", len(b.Units()))
	}
	runner.OnTurn = func(u *units.Unit, a battle.Action) {
		slog.Debug("turn", "unit", u.String(), "action", a.String())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\n%s versus %s on a %dx%d %s field.\n",
		humanize.Comma(int64(count(heroes))), humanize.Comma(int64(count(enemies))),
		gen.Width, gen.Height, gen.Biome)

	res, err := runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("battle interrupted, nothing saved", "round", b.Round())
		return
	}
	if err != nil {
		slog.Error("battle failed", "error", err)
		os.Exit(1)
	}

	// ── Report ────────────────────────────────────────────────────────
	if err := db.SaveBattle(res); err != nil {
		slog.Error("failed to save battle", "error", err)
	}
	if err := db.SaveMeta("last_battle", res.BattleID.String()); err != nil {
		slog.Error("failed to save meta", "error", err)
	}
	if err := db.SaveMeta("last_seed", strconv.FormatInt(seed, 10)); err != nil {
		slog.Error("failed to save meta", "error", err)
	}

	fmt.Println()
	fmt.Print(res.Summary())

	// ── HTTP API ──────────────────────────────────────────────────────
	if cfg.APIPort == 0 {
		return
	}
	apiServer := &api.Server{DB: db, Port: cfg.APIPort}
	apiServer.Start()
	fmt.Printf("API: http://localhost:%d/api/v1/battle/%s (Ctrl+C to stop)\n", cfg.APIPort, res.BattleID)
	<-ctx.Done()
	slog.Info("shutting down")
}

// muster resolves an army list against the unit catalogue.
func muster(catalog units.Catalog, list string) ([]battle.Deployment, error) {
	stacks, err := config.ParseArmy(list)
	if err != nil {
		return nil, err
	}
	out := make([]battle.Deployment, 0, len(stacks))
	for _, st := range stacks {
		stats, ok := catalog.Lookup(st.Name)
		if !ok {
			return nil, fmt.Errorf("unknown unit %q", st.Name)
		}
		out = append(out, battle.Deployment{Stats: stats, Count: st.Count})
	}
	return out, nil
}

func count(army []battle.Deployment) int {
	n := 0
	for _, d := range army {
		n += d.Count
	}
	return n
}
