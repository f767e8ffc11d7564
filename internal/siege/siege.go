// Package siege resolves siege engine bombardment against fortifications
// before a battle starts.
package siege

import (
	"fmt"
	"log/slog"
)

// Engine is a siege engine with a fixed damage value.
type Engine struct {
	Name   string `json:"name"`
	Damage int    `json:"damage"`
	Range  int    `json:"range"`
}

// Fortification is a structure protecting the defending army.
type Fortification struct {
	Name       string `json:"name"`
	Durability int    `json:"durability"`
}

// TakeDamage lowers durability, never below zero.
func (f *Fortification) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	f.Durability = max(0, f.Durability-amount)
}

// Destroyed reports whether the fortification has no durability left.
func (f *Fortification) Destroyed() bool { return f.Durability <= 0 }

// Action is one engine firing at one fortification.
type Action struct {
	Engine        *Engine
	Fortification *Fortification
}

// Resolve applies the engine's damage to the fortification.
func (a Action) Resolve() {
	if a.Engine == nil || a.Fortification == nil {
		return
	}
	a.Fortification.TakeDamage(a.Engine.Damage)
}

// Queue holds pending siege actions in FIFO order.
type Queue struct {
	actions []Action

	// OnResolve is called after each action is applied.
	OnResolve func(a Action)
}

// Push appends an action.
func (q *Queue) Push(engine *Engine, fort *Fortification) {
	q.actions = append(q.actions, Action{Engine: engine, Fortification: fort})
}

// Len returns the number of pending actions.
func (q *Queue) Len() int { return len(q.actions) }

// Report summarises a resolved queue.
type Report struct {
	Actions   int
	Destroyed []string
}

func (r Report) String() string {
	return fmt.Sprintf("%d siege actions, %d fortifications destroyed", r.Actions, len(r.Destroyed))
}

// Resolve applies every pending action in order and clears the queue.
func (q *Queue) Resolve() Report {
	rep := Report{Actions: len(q.actions)}
	seen := make(map[*Fortification]bool)
	for _, a := range q.actions {
		a.Resolve()
		if q.OnResolve != nil {
			q.OnResolve(a)
		}
		if f := a.Fortification; f != nil && f.Destroyed() && !seen[f] {
			seen[f] = true
			rep.Destroyed = append(rep.Destroyed, f.Name)
			slog.Info("fortification destroyed", "fortification", f.Name, "engine", a.Engine.Name)
		}
	}
	q.actions = nil
	return rep
}
