// Package battle runs one tactical battle: deployment, the turn
// scheduler, player and policy actions, and damage resolution.
//
// A Battle is the combat context: it owns the grid, the rosters, the
// ability engine, the spell catalogue and the random source. Nothing is
// shared between battles.
package battle

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/looplab/fsm"

	"github.com/talgya/hexclash/internal/abilities"
	"github.com/talgya/hexclash/internal/entropy"
	"github.com/talgya/hexclash/internal/siege"
	"github.com/talgya/hexclash/internal/spells"
	"github.com/talgya/hexclash/internal/units"
	"github.com/talgya/hexclash/internal/world"
)

var (
	ErrIllegalAction = errors.New("illegal action")
	ErrNotYourTurn   = errors.New("not this unit's turn")
	ErrBattleOver    = errors.New("battle is over")
	ErrNoUnits       = errors.New("both armies need at least one unit")
)

// Deployment is one stack brought to the battle.
type Deployment struct {
	Stats units.Stats
	Count int
}

// Setup configures a new battle.
type Setup struct {
	// Grid is the battlefield. When nil one is generated from Gen.
	Grid *world.Grid
	Gen  world.GenConfig

	Heroes    []Deployment
	Enemies   []Deployment
	Formation Formation

	// Spells is the spell catalogue; nil uses spells.Default().
	Spells *spells.Catalog
	// HeroMana is the shared mana pool for HeroSpells (spell id → level).
	HeroMana   int
	HeroSpells map[string]int

	Rng      entropy.Source
	Notifier Notifier

	// Siege actions are resolved before the first round.
	Siege         *siege.Queue
	Fortification *siege.Fortification
}

// Battle is the state of one battle in progress.
type Battle struct {
	ID   uuid.UUID
	Grid *world.Grid

	HeroMana      int
	Fortification *siege.Fortification
	SiegeReport   siege.Report

	all      []*units.Unit
	roster   map[int]*units.Unit
	runtimes map[int]*abilities.Runtime
	decls    map[int][]abilities.Spec

	engine     *abilities.Engine
	spells     *spells.Catalog
	heroSpells map[string]int
	rng        entropy.Source
	notify     Notifier

	order   []*units.Unit
	current int
	actor   *units.Unit
	moved   bool // the actor moved under a charge status and may still attack
	round   int
	started map[int]bool
	phase   *fsm.FSM

	over   bool
	winner units.Side

	log []Entry
}

// New deploys both armies and prepares the first round.
func New(s Setup) (*Battle, error) {
	if len(s.Heroes) == 0 || len(s.Enemies) == 0 {
		return nil, ErrNoUnits
	}
	if s.Rng == nil {
		s.Rng = entropy.NewSeeded(0)
	}
	if s.Notifier == nil {
		s.Notifier = NopNotifier{}
	}
	if s.Spells == nil {
		s.Spells = spells.Default()
	}
	grid := s.Grid
	if grid == nil {
		cfg := s.Gen
		if cfg.Width == 0 || cfg.Height == 0 {
			cfg = world.DefaultGenConfig()
		}
		grid = world.Generate(cfg)
	}

	b := &Battle{
		ID:            uuid.New(),
		Grid:          grid,
		HeroMana:      s.HeroMana,
		Fortification: s.Fortification,
		roster:        make(map[int]*units.Unit),
		runtimes:      make(map[int]*abilities.Runtime),
		decls:         make(map[int][]abilities.Spec),
		engine:        abilities.NewEngine(s.Rng),
		spells:        s.Spells,
		heroSpells:    s.HeroSpells,
		rng:           s.Rng,
		notify:        s.Notifier,
		started:       make(map[int]bool),
		phase:         newPhaseMachine(),
	}

	id := 0
	for _, d := range s.Heroes {
		b.enlist(units.New(id, units.Hero, d.Stats, d.Count))
		id++
	}
	for _, d := range s.Enemies {
		b.enlist(units.New(id, units.Enemy, d.Stats, d.Count))
		id++
	}
	if err := b.deploy(s.Formation); err != nil {
		return nil, err
	}

	if s.Siege != nil && s.Siege.Len() > 0 {
		b.SiegeReport = s.Siege.Resolve()
		b.logf(Entry{Kind: KindInfo}, "Siege: %s", b.SiegeReport)
	}

	for _, u := range b.all {
		rt := b.runtimes[u.ID]
		rt.Pos = u.Pos
		b.engine.OnBattleStart(rt)
	}
	slog.Info("battle created", "battle", b.ID, "heroes", len(s.Heroes), "enemies", len(s.Enemies), "grid", grid.String())
	return b, nil
}

func (b *Battle) enlist(u *units.Unit) {
	decls := abilities.ParseSpecs(u.Stats.Abilities)
	b.all = append(b.all, u)
	b.roster[u.ID] = u
	b.decls[u.ID] = decls
	b.runtimes[u.ID] = b.engine.InitUnit(u.ID, decls)
}

// Unit returns a living unit by id. Stale ids of dead or unknown units
// return false.
func (b *Battle) Unit(id int) (*units.Unit, bool) {
	u, ok := b.roster[id]
	return u, ok
}

// Units returns the living units ordered by id.
func (b *Battle) Units() []*units.Unit {
	out := make([]*units.Unit, 0, len(b.roster))
	for _, u := range b.all {
		if _, ok := b.roster[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out
}

// Side returns the living units of one side ordered by id.
func (b *Battle) Side(side units.Side) []*units.Unit {
	var out []*units.Unit
	for _, u := range b.Units() {
		if u.Side == side {
			out = append(out, u)
		}
	}
	return out
}

// All returns every unit that took part, dead or alive.
func (b *Battle) All() []*units.Unit { return append([]*units.Unit(nil), b.all...) }

// Runtime returns the ability runtime of a unit.
func (b *Battle) Runtime(id int) (*abilities.Runtime, bool) {
	rt, ok := b.runtimes[id]
	return rt, ok
}

// Abilities returns the ability engine.
func (b *Battle) Abilities() *abilities.Engine { return b.engine }

// Spells returns the spell catalogue.
func (b *Battle) Spells() *spells.Catalog { return b.spells }

// Spellbook returns the spells a unit may cast from its own mana, plus the
// hero's spells for hero-side units.
func (b *Battle) Spellbook(u *units.Unit) []*spells.Spell {
	book := b.spells.Spellbook(b.decls[u.ID])
	if u.Side != units.Hero {
		return book
	}
	ids := make([]string, 0, len(b.heroSpells))
	for id := range b.heroSpells {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		s, err := b.spells.Get(id)
		if err != nil || s.Passive || containsSpell(book, id) {
			continue
		}
		book = append(book, s)
	}
	return book
}

func containsSpell(list []*spells.Spell, id string) bool {
	for _, s := range list {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Round returns the current round number, starting at 1.
func (b *Battle) Round() int { return b.round }

// Over reports whether the battle has ended.
func (b *Battle) Over() bool { return b.over }

// Winner returns the winning side, or "" while the battle runs or after a
// mutual wipe.
func (b *Battle) Winner() units.Side { return b.winner }

// Log returns the combat log.
func (b *Battle) Log() []Entry { return append([]Entry(nil), b.log...) }

// Biome returns the battlefield terrain identifier.
func (b *Battle) Biome() world.Biome { return b.Grid.Biome }

// excise removes a dead unit from the grid, the roster and the turn order.
func (b *Battle) excise(u *units.Unit) {
	if _, ok := b.roster[u.ID]; !ok {
		return
	}
	b.Grid.Vacate(u.Pos)
	delete(b.roster, u.ID)
	b.removeFromOrder(u.ID)
	b.logf(Entry{Kind: KindDeath, Actor: u.ID}, "%s is defeated!", u.Name())
	b.notify.Sound("death")
	b.checkOver()
}

func (b *Battle) checkOver() {
	if b.over {
		return
	}
	heroes, enemies := len(b.Side(units.Hero)), len(b.Side(units.Enemy))
	if heroes > 0 && enemies > 0 {
		return
	}
	b.over = true
	switch {
	case heroes > 0:
		b.winner = units.Hero
	case enemies > 0:
		b.winner = units.Enemy
	}
	b.enterPhase(PhaseOver)
	b.notify.Sound("victory")
	slog.Info("battle over", "battle", b.ID, "winner", string(b.winner), "round", b.round)
}

// Concede ends the battle in favour of the other side.
func (b *Battle) Concede(side units.Side) {
	if b.over {
		return
	}
	b.over = true
	b.winner = side.Opponent()
	b.enterPhase(PhaseOver)
	b.logf(Entry{Kind: KindInfo}, "%s side retreats", side)
}

// Draw ends the battle with no winner.
func (b *Battle) Draw() {
	if b.over {
		return
	}
	b.over = true
	b.enterPhase(PhaseOver)
	b.logf(Entry{Kind: KindInfo}, "The battle ends in a draw after %d rounds", b.round)
}

func (b *Battle) String() string {
	return fmt.Sprintf("Battle %s round %d (%d units)", b.ID, b.round, len(b.roster))
}
