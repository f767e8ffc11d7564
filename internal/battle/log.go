package battle

import (
	"fmt"
	"log/slog"

	"github.com/talgya/hexclash/internal/effects"
)

// EntryKind classifies combat log entries.
type EntryKind string

const (
	KindInfo    EntryKind = "info"
	KindMove    EntryKind = "move"
	KindAttack  EntryKind = "attack"
	KindDamage  EntryKind = "damage"
	KindHeal    EntryKind = "heal"
	KindStatus  EntryKind = "status"
	KindSpell   EntryKind = "spell"
	KindAbility EntryKind = "ability"
	KindMorale  EntryKind = "morale"
	KindLuck    EntryKind = "luck"
	KindMiss    EntryKind = "miss"
	KindDeath   EntryKind = "death"
	KindWait    EntryKind = "wait"
	KindRound   EntryKind = "round"
)

// Entry is one line of the combat log. Actor and Target are unit ids and
// are only meaningful for the kinds that name them.
type Entry struct {
	Round  int       `json:"round"`
	Kind   EntryKind `json:"kind"`
	Actor  int       `json:"actor"`
	Target int       `json:"target"`
	Amount int       `json:"amount"`
	Text   string    `json:"text"`
}

func (b *Battle) logf(e Entry, format string, args ...any) {
	e.Round = b.round
	e.Text = fmt.Sprintf(format, args...)
	b.log = append(b.log, e)
	slog.Debug("combat", "battle", b.ID, "round", b.round, "kind", string(e.Kind), "text", e.Text)
}

// Notifier receives fire-and-forget presentation cues. Implementations
// must not block; their results are never consulted.
type Notifier interface {
	Sound(name string)
	Cue(e effects.Effect)
}

// NopNotifier ignores every cue.
type NopNotifier struct{}

func (NopNotifier) Sound(string)        {}
func (NopNotifier) Cue(effects.Effect) {}
