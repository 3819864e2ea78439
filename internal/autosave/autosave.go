// Package autosave implements the client-adjacent save loop that feeds
// the draft store: debounced, rate-limited and idempotent in intent. The
// clock and timer factory are injectable so every skip condition is unit
// testable without real timers.
package autosave

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
)

// State of the save loop.
type State int

const (
	StateIdle State = iota
	StateDirty
	StatePending
	StateSaving
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDirty:
		return "dirty"
	case StatePending:
		return "pending"
	case StateSaving:
		return "saving"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Debounce windows. The first successful save permanently switches the
// loop to the longer steady-state delay to avoid write amplification once
// a draft exists.
const (
	InitialSaveDelay = 2 * time.Second
	SteadySaveDelay  = 10 * time.Second
)

// Benign skip reasons. These never surface to the user; the save is
// simply not worth making.
var (
	ErrPreviewStep      = errors.New("autosave skipped: preview step")
	ErrNoMeaningfulData = errors.New("autosave skipped: no meaningful data")
	ErrUnchanged        = errors.New("autosave skipped: payload unchanged")
	ErrRateLimited      = errors.New("autosave skipped: rate limited")
)

// IsBenign reports whether err is one of the silent skip reasons.
func IsBenign(err error) bool {
	return errors.Is(err, ErrPreviewStep) ||
		errors.Is(err, ErrNoMeaningfulData) ||
		errors.Is(err, ErrUnchanged) ||
		errors.Is(err, ErrRateLimited)
}

// Saver persists one draft payload and returns the draft id.
type Saver func(ctx context.Context, in port.SaveDraftInput) (string, error)

// Timer is the cancelable handle returned by the timer factory.
type Timer interface {
	Stop() bool
}

// Options inject test doubles and overrides. Zero values select the real
// clock, real timers and the default delays.
type Options struct {
	Now          func() time.Time
	AfterFunc    func(d time.Duration, fn func()) Timer
	InitialDelay time.Duration
	SteadyDelay  time.Duration
	// OnError receives non-benign save failures. Benign skips are
	// swallowed silently.
	OnError func(error)
}

// Controller runs the auto-save loop for one wizard session. All methods
// are safe for concurrent use, but the loop itself is a single logical
// timeline: one pending timer, one in-flight save.
type Controller struct {
	mu sync.Mutex

	saver        Saver
	now          func() time.Time
	afterFunc    func(d time.Duration, fn func()) Timer
	initialDelay time.Duration
	steadyDelay  time.Duration
	onError      func(error)

	enabled bool
	state   State
	timer   Timer
	pending port.SaveDraftInput

	draftID     string
	lastSaved   []byte
	lastSavedAt time.Time
	initialDone bool
	stopped     bool
}

// New builds a controller around the saver. The controller starts
// enabled and idle.
func New(saver Saver, opts Options) *Controller {
	c := &Controller{
		saver:        saver,
		now:          opts.Now,
		afterFunc:    opts.AfterFunc,
		initialDelay: opts.InitialDelay,
		steadyDelay:  opts.SteadyDelay,
		onError:      opts.OnError,
		enabled:      true,
		state:        StateIdle,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.afterFunc == nil {
		c.afterFunc = func(d time.Duration, fn func()) Timer {
			return time.AfterFunc(d, fn)
		}
	}
	if c.initialDelay <= 0 {
		c.initialDelay = InitialSaveDelay
	}
	if c.steadyDelay <= 0 {
		c.steadyDelay = SteadySaveDelay
	}
	return c
}

// SetEnabled turns the loop on or off. Disabling cancels any pending
// debounce.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	if !enabled {
		c.cancelTimerLocked()
		if c.state == StatePending || c.state == StateDirty {
			c.state = StateIdle
		}
	}
}

// Update records a field change and (re)arms the debounce. A change while
// a debounce is pending resets the timer; the save always sees the latest
// payload.
func (c *Controller) Update(in port.SaveDraftInput) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled || c.stopped {
		return
	}
	c.pending = in
	if c.state == StateIdle || c.state == StateError {
		c.state = StateDirty
	}
	c.cancelTimerLocked()
	delay := c.delayLocked()
	c.state = StatePending
	c.timer = c.afterFunc(delay, func() { c.fire() })
}

// Flush saves immediately, bypassing debounce and rate limiting. The
// meaningful-data check still applies. The returned error is benign
// (IsBenign) when the save was skipped rather than failed.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil
	}
	c.cancelTimerLocked()
	return c.saveLocked(ctx, false)
}

// Stop cancels any pending debounce and prevents further saves. In-flight
// saves are not interrupted.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	c.cancelTimerLocked()
}

// State returns the current loop state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// DraftID returns the id assigned by the first successful save.
func (c *Controller) DraftID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draftID
}

// LastSavedAt returns the time of the last successful save, zero if none.
func (c *Controller) LastSavedAt() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSavedAt
}

// fire is the debounce timer callback.
func (c *Controller) fire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped || !c.enabled || c.state != StatePending {
		return
	}
	err := c.saveLocked(context.Background(), true)
	if err != nil && !IsBenign(err) && c.onError != nil {
		c.onError(err)
	}
}

// saveLocked runs the skip checks and, when none applies, the actual
// save. Rate limiting only applies to debounced saves, not manual
// flushes.
func (c *Controller) saveLocked(ctx context.Context, rateLimited bool) error {
	in := c.pending

	if in.Step == domain.DraftStepPreview {
		c.state = StateIdle
		return ErrPreviewStep
	}
	if !meaningful(in) {
		c.state = StateIdle
		return ErrNoMeaningfulData
	}
	snapshot, err := normalize(in)
	if err == nil && c.lastSaved != nil && string(snapshot) == string(c.lastSaved) {
		c.state = StateIdle
		return ErrUnchanged
	}
	// Independent watchers can each arm a debounce; the window since the
	// last successful save is the real gate.
	if rateLimited && !c.lastSavedAt.IsZero() && c.now().Sub(c.lastSavedAt) < c.delayLocked() {
		c.state = StateIdle
		return ErrRateLimited
	}

	c.state = StateSaving
	if c.draftID != "" {
		in.DraftID = c.draftID
	}
	id, err := c.saver(ctx, in)
	if err != nil {
		c.state = StateError
		return err
	}

	c.draftID = id
	c.lastSaved = snapshot
	c.lastSavedAt = c.now()
	c.initialDone = true
	c.state = StateIdle
	return nil
}

func (c *Controller) delayLocked() time.Duration {
	if c.initialDone {
		return c.steadyDelay
	}
	return c.initialDelay
}

func (c *Controller) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// meaningful mirrors the draft payload check: a save is worth making only
// when there is a campaign name or at least one audience, KPI or team
// member.
func meaningful(in port.SaveDraftInput) bool {
	if in.Name != "" {
		return true
	}
	return in.Data.Meaningful()
}

// normalize renders the payload into a canonical byte form. JSON encoding
// sorts map keys, so allocation maps compare order-independently.
func normalize(in port.SaveDraftInput) ([]byte, error) {
	return json.Marshal(struct {
		Name string              `json:"name"`
		Step int                 `json:"step"`
		Data domain.CampaignData `json:"data"`
	}{in.Name, in.Step, in.Data})
}
