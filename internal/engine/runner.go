// Package engine drives battles turn by turn.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/talgya/hexclash/internal/battle"
	"github.com/talgya/hexclash/internal/units"
)

// DefaultMaxRounds caps a battle when the runner is not told otherwise.
const DefaultMaxRounds = 100

// Runner drives a battle forward by asking each side's policy for the
// active unit's action.
type Runner struct {
	Battle  *battle.Battle
	Heroes  battle.Policy
	Enemies battle.Policy

	Speed     float64       // Multiplier: 1.0 = Interval per turn, 0 = no pacing
	Interval  time.Duration // Presentation delay between turns; never affects state
	MaxRounds int           // The battle is drawn once this round is exceeded

	Turns uint64 // Turns taken so far

	// Callbacks, populated during setup.
	OnTurn  func(u *units.Unit, a battle.Action) // After every action
	OnRound func(round int)                      // When a new round begins
	OnEnd   func(r battle.Result)                // Once, when the battle is over
}

// NewRunner creates a runner with default settings. A nil policy waits.
func NewRunner(b *battle.Battle, heroes, enemies battle.Policy) *Runner {
	if heroes == nil {
		heroes = battle.WaitPolicy
	}
	if enemies == nil {
		enemies = battle.WaitPolicy
	}
	return &Runner{
		Battle:    b,
		Heroes:    heroes,
		Enemies:   enemies,
		Speed:     1.0,
		MaxRounds: DefaultMaxRounds,
	}
}

// Run plays the battle to the end. Cancellation is only observed between
// turns, so a cancelled run never leaves an action half applied. When ctx
// is cancelled Run returns the result so far along with ctx.Err().
func (r *Runner) Run(ctx context.Context) (battle.Result, error) {
	b := r.Battle
	slog.Info("battle runner started", "battle", b.ID, "max_rounds", r.MaxRounds)

	b.Start()
	round := 0
	for !b.Over() {
		if err := ctx.Err(); err != nil {
			slog.Info("battle runner cancelled", "battle", b.ID, "round", b.Round(), "turns", r.Turns)
			return b.Result(), err
		}
		if b.Round() != round {
			round = b.Round()
			if r.MaxRounds > 0 && round > r.MaxRounds {
				b.Draw()
				break
			}
			if r.OnRound != nil {
				r.OnRound(round)
			}
		}

		start := time.Now()
		if err := r.step(); err != nil {
			return b.Result(), err
		}
		if err := r.pace(ctx, time.Since(start)); err != nil {
			return b.Result(), err
		}
	}

	res := b.Result()
	slog.Info("battle runner stopped", "battle", b.ID, "winner", string(res.Winner), "rounds", res.Rounds, "turns", r.Turns)
	if r.OnEnd != nil {
		r.OnEnd(res)
	}
	return res, nil
}

// step performs one action for the active unit.
func (r *Runner) step() error {
	b := r.Battle
	u := b.Active()
	if u == nil {
		return battle.ErrNotYourTurn
	}
	p := r.Heroes
	if u.Side == units.Enemy {
		p = r.Enemies
	}
	a, err := b.Step(p)
	if err != nil {
		return err
	}
	r.Turns++
	if r.OnTurn != nil {
		r.OnTurn(u, a)
	}
	return nil
}

// pace sleeps for the remainder of the turn interval, adjusted for speed.
func (r *Runner) pace(ctx context.Context, elapsed time.Duration) error {
	if r.Interval <= 0 || r.Speed <= 0 || r.Battle.Over() {
		return nil
	}
	target := time.Duration(float64(r.Interval) / r.Speed)
	if elapsed >= target {
		return nil
	}
	t := time.NewTimer(target - elapsed)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
