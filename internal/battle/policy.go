package battle

import (
	"errors"
	"log/slog"

	"github.com/talgya/hexclash/internal/units"
)

// Policy decides the action of a unit that is not player controlled.
// Decide must always return an action; Wait is always legal.
type Policy interface {
	Decide(b *Battle, u *units.Unit) Action
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(b *Battle, u *units.Unit) Action

func (f PolicyFunc) Decide(b *Battle, u *units.Unit) Action { return f(b, u) }

// WaitPolicy always waits.
var WaitPolicy = PolicyFunc(func(_ *Battle, u *units.Unit) Action { return Wait(u.ID) })

// Step asks p for the active unit's action and performs it. An illegal
// decision is logged and replaced by Wait, so Step always ends the turn
// or, after a charge move, leaves the unit able to attack.
func (b *Battle) Step(p Policy) (Action, error) {
	if b.over {
		return Action{}, ErrBattleOver
	}
	if b.round == 0 {
		b.Start()
	}
	u := b.Active()
	if u == nil {
		return Action{}, ErrNotYourTurn
	}
	a := p.Decide(b, u)
	a.Unit = u.ID
	err := b.Do(a)
	if errors.Is(err, ErrIllegalAction) {
		slog.Debug("policy chose an illegal action", "battle", b.ID, "action", a.String(), "error", err)
		a = Wait(u.ID)
		err = b.Do(a)
	}
	return a, err
}
