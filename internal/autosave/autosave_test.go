package autosave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campforge/internal/core/domain"
	"campforge/internal/core/port"
)

type fakeTimer struct {
	fn      func()
	delay   time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := t.stopped
	t.stopped = true
	return !was
}

// harness drives the controller with a manual clock and captured timers.
type harness struct {
	ctrl   *Controller
	now    time.Time
	timers []*fakeTimer
	saves  []port.SaveDraftInput
	saveID string
	errs   []error
	fail   error
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		now:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		saveID: "draft-1",
	}
	saver := func(_ context.Context, in port.SaveDraftInput) (string, error) {
		if h.fail != nil {
			return "", h.fail
		}
		h.saves = append(h.saves, in)
		return h.saveID, nil
	}
	h.ctrl = New(saver, Options{
		Now: func() time.Time { return h.now },
		AfterFunc: func(d time.Duration, fn func()) Timer {
			ft := &fakeTimer{fn: fn, delay: d}
			h.timers = append(h.timers, ft)
			return ft
		},
		OnError: func(err error) { h.errs = append(h.errs, err) },
	})
	return h
}

// fire runs the most recently armed timer, as the real clock would.
func (h *harness) fire(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, h.timers, "no timer armed")
	last := h.timers[len(h.timers)-1]
	require.False(t, last.stopped, "latest timer was canceled")
	h.now = h.now.Add(last.delay)
	last.fn()
}

func payload(name string, step int) port.SaveDraftInput {
	return port.SaveDraftInput{
		OrganizationID: "org-1",
		Name:           name,
		Step:           step,
	}
}

func TestDebouncedSave(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("Fall launch", 1))
	assert.Equal(t, StatePending, h.ctrl.State())
	require.Len(t, h.timers, 1)
	assert.Equal(t, InitialSaveDelay, h.timers[0].delay, "first save uses the short delay")

	h.fire(t)
	require.Len(t, h.saves, 1)
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Equal(t, "draft-1", h.ctrl.DraftID())
	assert.Equal(t, h.now, h.ctrl.LastSavedAt())
}

func TestChangeResetsDebounce(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("v1", 1))
	h.ctrl.Update(payload("v2", 1))

	require.Len(t, h.timers, 2)
	assert.True(t, h.timers[0].stopped, "the earlier debounce is canceled")

	h.fire(t)
	require.Len(t, h.saves, 1)
	assert.Equal(t, "v2", h.saves[0].Name, "the save sees the latest payload")
}

func TestSteadyDelayAfterFirstSave(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("v1", 1))
	h.fire(t)

	h.ctrl.Update(payload("v2", 2))
	require.Len(t, h.timers, 2)
	assert.Equal(t, SteadySaveDelay, h.timers[1].delay)

	h.fire(t)
	require.Len(t, h.saves, 2)
	assert.Equal(t, "draft-1", h.saves[1].DraftID, "later saves reuse the assigned id")
}

func TestSkipPreviewStep(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("ready", domain.DraftStepPreview))
	h.fire(t)

	assert.Empty(t, h.saves)
	assert.Empty(t, h.errs, "a skip is not an error")
	assert.Equal(t, StateIdle, h.ctrl.State())
}

func TestSkipNoMeaningfulData(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("", 1))
	h.fire(t)
	assert.Empty(t, h.saves)

	// an audience alone is enough to make the payload worth saving
	in := payload("", 1)
	in.Data.Audiences = []domain.AudienceSegment{{Name: "US"}}
	h.ctrl.Update(in)
	h.fire(t)
	assert.Len(t, h.saves, 1)
}

func TestSkipUnchangedPayload(t *testing.T) {
	h := newHarness(t)

	in := payload("same", 2)
	in.Data.BudgetAllocation = map[string]float64{"a": 1, "b": 2}
	h.ctrl.Update(in)
	h.fire(t)
	require.Len(t, h.saves, 1)

	// identical content, different map literal. The canonical form matches
	// so the save is skipped even though enough time has passed.
	again := payload("same", 2)
	again.Data.BudgetAllocation = map[string]float64{"b": 2, "a": 1}
	h.ctrl.Update(again)
	h.now = h.now.Add(time.Minute)
	h.timers[len(h.timers)-1].fn()

	assert.Len(t, h.saves, 1)
	assert.Empty(t, h.errs)
}

func TestRateLimitedBetweenSaves(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("v1", 1))
	h.fire(t)
	require.Len(t, h.saves, 1)

	// a changed payload whose debounce fires too soon after the last save
	// is skipped outright, not queued
	h.ctrl.Update(payload("v2", 1))
	h.timers[len(h.timers)-1].fn() // clock not advanced

	assert.Len(t, h.saves, 1)
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Empty(t, h.errs)
}

func TestFlushBypassesRateLimit(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("v1", 1))
	h.fire(t)
	require.Len(t, h.saves, 1)

	h.ctrl.Update(payload("v2", 1))
	require.NoError(t, h.ctrl.Flush(context.Background()))
	assert.Len(t, h.saves, 2, "a manual flush ignores the rate limit")
}

func TestFlushStillChecksMeaningfulData(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("", 1))
	err := h.ctrl.Flush(context.Background())
	assert.ErrorIs(t, err, ErrNoMeaningfulData)
	assert.True(t, IsBenign(err))
	assert.Empty(t, h.saves)
}

func TestSaveFailureAndRetry(t *testing.T) {
	h := newHarness(t)
	boom := errors.New("store unavailable")

	h.fail = boom
	h.ctrl.Update(payload("v1", 1))
	h.fire(t)

	assert.Equal(t, StateError, h.ctrl.State())
	require.Len(t, h.errs, 1)
	assert.ErrorIs(t, h.errs[0], boom)

	// the next change re-arms and the retry succeeds
	h.fail = nil
	h.ctrl.Update(payload("v1", 1))
	h.fire(t)
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.Len(t, h.saves, 1)
}

func TestStopCancelsPending(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("v1", 1))
	h.ctrl.Stop()

	assert.True(t, h.timers[0].stopped)
	h.timers[0].fn() // a racing callback after Stop is a no-op
	assert.Empty(t, h.saves)

	h.ctrl.Update(payload("v2", 1))
	assert.Len(t, h.timers, 1, "a stopped controller arms nothing")
	assert.NoError(t, h.ctrl.Flush(context.Background()))
	assert.Empty(t, h.saves)
}

func TestDisableCancelsPending(t *testing.T) {
	h := newHarness(t)

	h.ctrl.Update(payload("v1", 1))
	h.ctrl.SetEnabled(false)
	assert.Equal(t, StateIdle, h.ctrl.State())
	assert.True(t, h.timers[0].stopped)

	h.ctrl.Update(payload("v2", 1))
	assert.Len(t, h.timers, 1)

	h.ctrl.SetEnabled(true)
	h.ctrl.Update(payload("v3", 1))
	require.Len(t, h.timers, 2)
	h.fire(t)
	require.Len(t, h.saves, 1)
	assert.Equal(t, "v3", h.saves[0].Name)
}
