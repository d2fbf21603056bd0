// Package session drives one pass of a listen-then-reveal drill: a guarded
// state machine over a shuffled list of quiz items. The shell owns the
// screens and the audio; the engine owns ordering and lifecycle.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// Status is the lifecycle state of a drill session.
type Status int

const (
	// StatusNotStarted indicates the session is waiting for confirmation.
	StatusNotStarted Status = iota
	// StatusConfirmed indicates the pass is shuffled and ready to present.
	StatusConfirmed
	// StatusPresenting indicates an item is being played, answer hidden.
	StatusPresenting
	// StatusRevealed indicates the current item's answer is shown.
	StatusRevealed
	// StatusCompleted indicates every item in the pass was presented.
	StatusCompleted
	// StatusAborted indicates the session ended before completing a pass.
	StatusAborted
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not started"
	case StatusConfirmed:
		return "confirmed"
	case StatusPresenting:
		return "presenting"
	case StatusRevealed:
		return "revealed"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Item is one quiz prompt. Base names the cached audio to play; Answer and
// Notes are what the reveal shows; Hint may be displayed while the answer is
// still hidden.
type Item struct {
	Base   string
	Hint   string
	Answer string
	Notes  []string
}

// transitions lists the legal moves out of each status. Presenting appears
// in its own list because advancing skips straight to the next item when
// the answer was never revealed.
var transitions = map[Status][]Status{
	StatusNotStarted: {StatusConfirmed, StatusAborted},
	StatusConfirmed:  {StatusPresenting, StatusAborted},
	StatusPresenting: {StatusRevealed, StatusPresenting, StatusCompleted, StatusAborted},
	StatusRevealed:   {StatusPresenting, StatusCompleted, StatusAborted},
	StatusCompleted:  {StatusConfirmed, StatusAborted},
	StatusAborted:    {},
}

// ErrNoItems is returned when a session is confirmed with nothing to drill.
var ErrNoItems = errors.New("session: no items to practice")

// Engine runs one drill session. Not safe for concurrent use; the shell's
// update loop is the only caller.
type Engine struct {
	status Status
	items  []Item
	order  []int
	pos    int
	rng    *rand.Rand
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand injects the shuffle source. Tests pass a seeded source to make
// pass order deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// New returns an unconfirmed session over items.
func New(items []Item, opts ...Option) *Engine {
	e := &Engine{
		status: StatusNotStarted,
		items:  items,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Status returns the current lifecycle state.
func (e *Engine) Status() Status { return e.status }

// Len returns how many items the pass covers.
func (e *Engine) Len() int { return len(e.items) }

// transition moves to the target status when the table allows it.
func (e *Engine) transition(to Status) bool {
	for _, s := range transitions[e.status] {
		if s == to {
			e.status = to
			return true
		}
	}
	return false
}

// Confirm shuffles the items and readies the first pass. Confirming an empty
// session aborts it and returns ErrNoItems.
func (e *Engine) Confirm() error {
	if len(e.items) == 0 {
		e.transition(StatusAborted)
		return ErrNoItems
	}
	if !e.transition(StatusConfirmed) {
		return fmt.Errorf("session: cannot confirm while %s", e.status)
	}
	e.shuffle()
	return nil
}

// Decline ends the session at the confirmation prompt.
func (e *Engine) Decline() {
	e.transition(StatusAborted)
}

// Advance moves to the next item of the pass, revealing nothing. From a
// confirmed session it presents the first item. It returns false once the
// pass is exhausted, leaving the session completed.
func (e *Engine) Advance() bool {
	switch e.status {
	case StatusConfirmed:
		e.pos = 0
		return e.transition(StatusPresenting)
	case StatusPresenting, StatusRevealed:
		if e.pos+1 >= len(e.order) {
			e.transition(StatusCompleted)
			return false
		}
		e.pos++
		return e.transition(StatusPresenting)
	}
	return false
}

// Reveal shows the current item's answer. It reports whether the session
// was in a state where revealing is legal.
func (e *Engine) Reveal() bool {
	return e.transition(StatusRevealed)
}

// Current returns the item being drilled with its 1-based position and the
// pass total. Only meaningful while presenting or revealed.
func (e *Engine) Current() (Item, int, int) {
	if e.status != StatusPresenting && e.status != StatusRevealed {
		return Item{}, 0, len(e.items)
	}
	return e.items[e.order[e.pos]], e.pos + 1, len(e.items)
}

// Restart reshuffles a completed session for another pass. Only a finished
// pass can restart; Confirm is the one way into a fresh session. The caller
// advances to present the first item again.
func (e *Engine) Restart() error {
	if e.status != StatusCompleted {
		return fmt.Errorf("session: cannot restart while %s", e.status)
	}
	e.transition(StatusConfirmed)
	e.shuffle()
	return nil
}

// Abort ends the session from any live state.
func (e *Engine) Abort() {
	e.transition(StatusAborted)
}

// shuffle deals a fresh pass order covering every item exactly once.
func (e *Engine) shuffle() {
	e.order = e.rng.Perm(len(e.items))
	e.pos = 0
}
