// Package submission drives the simulated tier submission flow.
package submission

import (
	"sync"
	"time"

	"github.com/BerylCAtieno/carolina-grind/internal/clock"
	"github.com/BerylCAtieno/carolina-grind/internal/models"
)

// Delay is how long a simulated submission takes.
const Delay = 2000 * time.Millisecond

const none = -1

// State is the visible state of one tier.
type State int

const (
	Idle State = iota
	Submitting
	Submitted
	Locked
)

func (s State) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Submitted:
		return "submitted"
	case Locked:
		return "locked"
	default:
		return "idle"
	}
}

// Label is the text of the tier's action button.
func (s State) Label() string {
	switch s {
	case Submitting:
		return "Processing..."
	case Submitted:
		return "Application Sent"
	default:
		return "Select Package"
	}
}

// TierView pairs a tier with its derived state.
type TierView struct {
	Index int
	Tier  models.Tier
	State State
}

// Disabled reports whether the tier's control rejects activation.
func (v TierView) Disabled() bool { return v.State != Idle }

// Panel holds the two submission slots. At most one tier is ever submitting,
// and once a tier is submitted no tier can submit again.
type Panel struct {
	mu         sync.Mutex
	clock      clock.Clock
	tiers      []models.Tier
	submitting int
	submitted  int
	timer      clock.Timer
	onComplete func(index int)
}

// Option configures a Panel.
type Option func(*Panel)

// WithCompletionHook registers f to run after a submission completes.
func WithCompletionHook(f func(index int)) Option {
	return func(p *Panel) { p.onComplete = f }
}

func NewPanel(c clock.Clock, tiers []models.Tier, opts ...Option) *Panel {
	if c == nil {
		c = clock.Real{}
	}
	p := &Panel{
		clock:      c,
		tiers:      append([]models.Tier(nil), tiers...),
		submitting: none,
		submitted:  none,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Submit starts a simulated submission for tier i. It returns false and
// changes nothing if i is out of range or any tier is submitting or submitted.
func (p *Panel) Submit(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if i < 0 || i >= len(p.tiers) {
		return false
	}
	if p.submitting != none || p.submitted != none {
		return false
	}
	p.submitting = i
	p.timer = p.clock.AfterFunc(Delay, func() { p.complete(i) })
	return true
}

func (p *Panel) complete(i int) {
	p.mu.Lock()
	if p.submitting != i {
		p.mu.Unlock()
		return
	}
	p.submitting = none
	p.submitted = i
	p.timer = nil
	hook := p.onComplete
	p.mu.Unlock()

	if hook != nil {
		hook(i)
	}
}

// Indices returns the submitting and submitted tier indices, -1 meaning none.
func (p *Panel) Indices() (submitting, submitted int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitting, p.submitted
}

// State derives the visible state of tier i.
func (p *Panel) State(i int) State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked(i)
}

func (p *Panel) stateLocked(i int) State {
	switch {
	case p.submitting == i:
		return Submitting
	case p.submitted == i:
		return Submitted
	case p.submitting != none || p.submitted != none:
		return Locked
	default:
		return Idle
	}
}

// Pending reports whether a submission is in flight.
func (p *Panel) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitting != none
}

// Snapshot returns every tier with its state, taken under one lock.
func (p *Panel) Snapshot() []TierView {
	p.mu.Lock()
	defer p.mu.Unlock()
	views := make([]TierView, len(p.tiers))
	for i, t := range p.tiers {
		views[i] = TierView{Index: i, Tier: t, State: p.stateLocked(i)}
	}
	return views
}

// Close releases a pending timer. The in-flight submission is left as is and
// will never complete; Close is for view teardown only.
func (p *Panel) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}
