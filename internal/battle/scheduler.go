package battle

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/looplab/fsm"

	"github.com/talgya/hexclash/internal/effects"
	"github.com/talgya/hexclash/internal/rules"
	"github.com/talgya/hexclash/internal/units"
)

// Scheduler phases.
const (
	PhaseRoundStart = "round_start"
	PhaseUnitActing = "unit_acting"
	PhaseRoundEnd   = "round_end"
	PhaseOver       = "over"
)

func newPhaseMachine() *fsm.FSM {
	return fsm.NewFSM(
		PhaseRoundStart,
		fsm.Events{
			{Name: "begin", Src: []string{PhaseRoundStart}, Dst: PhaseUnitActing},
			{Name: "finish", Src: []string{PhaseUnitActing}, Dst: PhaseRoundEnd},
			{Name: "next", Src: []string{PhaseRoundEnd}, Dst: PhaseRoundStart},
			{Name: "conclude", Src: []string{PhaseRoundStart, PhaseUnitActing, PhaseRoundEnd}, Dst: PhaseOver},
		},
		fsm.Callbacks{},
	)
}

// Phase returns the scheduler phase.
func (b *Battle) Phase() string { return b.phase.Current() }

func (b *Battle) fire(event string) {
	if err := b.phase.Event(context.Background(), event); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			slog.Warn("phase transition rejected", "battle", b.ID, "event", event, "phase", b.phase.Current(), "error", err)
		}
	}
}

// enterPhase walks the phase machine to the wanted phase.
func (b *Battle) enterPhase(want string) {
	if want == PhaseOver {
		if b.phase.Current() != PhaseOver {
			b.fire("conclude")
		}
		return
	}
	for i := 0; i < 3 && b.phase.Current() != want && b.phase.Current() != PhaseOver; i++ {
		switch b.phase.Current() {
		case PhaseRoundStart:
			b.fire("begin")
		case PhaseUnitActing:
			b.fire("finish")
		case PhaseRoundEnd:
			b.fire("next")
		}
	}
}

// Start begins the first round and the first unit's turn.
func (b *Battle) Start() {
	if b.round > 0 || b.over {
		return
	}
	b.ResetTurnOrder()
	b.beginTurn()
}

// ResetTurnOrder starts a new round: living units are shuffled, then
// stably sorted by initiative, highest first. Acted flags and retaliation
// charges are reset.
func (b *Battle) ResetTurnOrder() {
	if b.round > 0 {
		b.enterPhase(PhaseRoundEnd)
	}
	b.enterPhase(PhaseRoundStart)
	b.round++

	order := b.Units()
	b.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Initiative() > order[j].Initiative()
	})
	for _, u := range order {
		u.ResetRound()
	}
	b.order = order
	b.current = 0
	b.started = make(map[int]bool, len(order))
	b.logf(Entry{Kind: KindRound}, "Round %d begins", b.round)
	b.enterPhase(PhaseUnitActing)
}

// TurnOrder returns the current round's order.
func (b *Battle) TurnOrder() []*units.Unit {
	return append([]*units.Unit(nil), b.order...)
}

// Active returns the unit whose turn it is, or nil between turns or after
// the battle ended.
func (b *Battle) Active() *units.Unit {
	if b.over {
		return nil
	}
	if u := b.actor; u != nil && u.Alive() && !u.Acted {
		return u
	}
	return nil
}

// removeFromOrder drops a unit from the turn order, shifting the current
// index so that the next Advance lands on the unit that followed it.
func (b *Battle) removeFromOrder(id int) {
	for i, u := range b.order {
		if u.ID != id {
			continue
		}
		b.order = append(b.order[:i], b.order[i+1:]...)
		if i <= b.current {
			b.current--
		}
		return
	}
}

// Advance ends the active unit's turn and moves to the next unit that is
// alive and has not acted, starting a new round when the order is
// exhausted. A unit with an unused extra turn is granted it first.
func (b *Battle) Advance() {
	if b.over {
		return
	}
	if u := b.actor; u != nil && u.Alive() {
		if rt, ok := b.runtimes[u.ID]; ok {
			rt.MovedTiles = 0
		}
		switch {
		case u.SkipTurn:
			u.SkipTurn = false
		case u.ExtraTurns > 0:
			u.ExtraTurns--
			u.Acted = false
			b.moved = false
			b.logf(Entry{Kind: KindMorale, Actor: u.ID}, "%s acts again", u.Name())
			return
		}
		u.Acted = true
	}
	b.actor = nil
	b.moved = false
	b.Grid.TickIceWalls()
	b.current++
	b.beginTurn()
}

// beginTurn scans forward for the next eligible unit and runs its
// start-of-turn processing. Units that burn to death or lose their turn to
// morale are passed over.
func (b *Battle) beginTurn() {
	for guard := 0; !b.over && guard < 1000; guard++ {
		for b.current < len(b.order) && (!b.order[b.current].Alive() || b.order[b.current].Acted) {
			b.current++
		}
		if b.current >= len(b.order) {
			b.ResetTurnOrder()
			continue
		}
		u := b.order[b.current]
		if b.started[u.ID] {
			b.actor = u
			return
		}
		b.started[u.ID] = true
		if b.startTurn(u) {
			b.actor = u
			return
		}
		if u.Alive() {
			u.Acted = true
			u.SkipTurn = false
		}
		b.Grid.TickIceWalls()
		b.current++
	}
}

// startTurn runs the once-per-round turn start: ability cooldowns, status
// tick with burn damage, passive healing and the morale roll. It reports
// whether the unit gets to act.
func (b *Battle) startTurn(u *units.Unit) bool {
	rt := b.runtimes[u.ID]
	b.engine.OnTurnStart(rt)

	if burn := u.TickStatuses(); burn > 0 {
		b.damage(nil, u, burn, "burn")
		if !u.Alive() {
			return false
		}
	}
	b.passiveHeal(u)

	switch rules.RollMorale(b.rng, u.Stats.Morale) {
	case rules.MoraleExtra:
		u.ExtraTurns = 1
		b.logf(Entry{Kind: KindMorale, Actor: u.ID}, "%s is inspired and gains an extra action!", u.Name())
		b.notify.Sound("morale")
	case rules.MoralePenalty:
		u.SkipTurn = true
		b.logf(Entry{Kind: KindMorale, Actor: u.ID}, "%s falters and loses its action!", u.Name())
		b.notify.Sound("morale")
		return false
	}
	return true
}

// passiveHeal tops up the first wounded ally, the unit included.
func (b *Battle) passiveHeal(u *units.Unit) {
	amount := b.runtimes[u.ID].PassiveHealAmount()
	if amount <= 0 {
		return
	}
	for _, ally := range b.Side(u.Side) {
		if !ally.Wounded() {
			continue
		}
		b.apply([]effects.Effect{effects.Heal{Source: u.ID, Target: ally.ID, Amount: amount}})
		return
	}
}
