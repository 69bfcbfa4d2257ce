// Package table is the turn-sequencing and presentation controller of a Skat
// table. It owns no game rules: every decision is read from engine
// snapshots, and every change is an engine command followed by a fresh
// snapshot.
//
// A Controller is single-threaded. All methods must run on its scheduler;
// front ends call Dispatch, which posts the event there. Suspension points
// are scheduled continuations tagged with an epoch, so continuations that
// belong to a hand or position abandoned by NewGame or Undo drop themselves
// when their timer fires.
package table

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"github.com/skatdesk/skatdesk/internal/metrics"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/skatdesk/skatdesk/internal/sched"
	"go.uber.org/zap"
)

// AnimationState tracks what the trick area already shows.
type AnimationState struct {
	// Slots is the number of in-progress trick cards already rendered.
	Slots int
	// LastTrickID is the completed-trick token already animated.
	LastTrickID string
}

// Controller drives one table.
type Controller struct {
	gw     *engine.Gateway
	sink   render.Sink
	sched  sched.Scheduler
	logger *zap.Logger
	opts   Options
	ctx    context.Context

	// Session context, rebuilt by NewGame.
	session     uuid.UUID
	epoch       uint64
	phase       card.Phase
	selection   Selection
	suggestions []engine.Suggestion
	anim        AnimationState
	reveal      bool
	debounce    sched.Timer
	transcript  *Transcript

	// Loop state. running is set while a pass is suspended; rerun records
	// Advance calls that arrived meanwhile.
	running bool
	rerun   bool
	stalled bool
}

// New creates a controller. Call NewGame (on the scheduler) to deal.
func New(gw *engine.Gateway, sink render.Sink, s sched.Scheduler, logger *zap.Logger, opts Options) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.UndoMaxSteps <= 0 {
		opts.UndoMaxSteps = DefaultUndoMaxSteps
	}
	if opts.DefaultGameType == "" {
		opts.DefaultGameType = card.GameClubs
	}
	if opts.CardMode == "" {
		opts.CardMode = render.ModeFull
	}
	return &Controller{
		gw:     gw,
		sink:   sink,
		sched:  s,
		logger: logger,
		opts:   opts,
		ctx:    context.Background(),
		reveal: opts.Reveal,
	}
}

// Phase returns the controller's view of the hand phase.
func (c *Controller) Phase() card.Phase {
	return c.phase
}

// Session returns the id of the current hand.
func (c *Controller) Session() uuid.UUID {
	return c.session
}

// Selection returns a copy of the side-pile selection.
func (c *Controller) Selection() Selection {
	return Selection{cards: c.selection.Cards(), gameType: c.selection.gameType}
}

// Animation returns the animation bookkeeping.
func (c *Controller) Animation() AnimationState {
	return c.anim
}

// Busy reports whether a loop pass is suspended.
func (c *Controller) Busy() bool {
	return c.running
}

// Stalled reports whether the engine refused an AI move and the loop stopped.
func (c *Controller) Stalled() bool {
	return c.stalled
}

// Transcript returns the transcript of the current hand.
func (c *Controller) Transcript() *Transcript {
	return c.transcript
}

// NewGame abandons the current hand, including any suspended animation, and
// deals a new one.
func (c *Controller) NewGame() error {
	c.invalidate()
	c.stopDebounce()

	c.session = uuid.New()
	if err := c.gw.NewGame(c.ctx, c.session); err != nil {
		return err
	}
	c.phase = card.PhaseSelection
	c.selection = NewSelection(c.opts.DefaultGameType)
	c.suggestions = nil
	c.anim = AnimationState{}
	c.transcript = NewTranscript(c.session.String())

	if err := c.gw.UpdateGameType(c.ctx, c.selection.gameType); err != nil {
		return err
	}

	c.sink.ClearTrick()
	for _, r := range []render.Region{render.RegionSummary, render.RegionNotice, render.RegionSuggestions, render.RegionHistory, render.RegionAnalysis} {
		c.sink.Text(r, "")
	}

	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	c.transcript.Record(snap)
	c.refreshViews(snap)

	metrics.Metrics.GameStarted()
	c.logger.Info("new game",
		zap.String("session_id", c.session.String()),
		zap.Int("hand", len(snap.Hand)),
	)
	return nil
}

// ToggleReveal switches the opponents' hands between face-up and face-down.
func (c *Controller) ToggleReveal() error {
	c.reveal = !c.reveal
	if c.session == uuid.Nil {
		return nil
	}
	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	c.renderOpponents(snap)
	return nil
}

// invalidate abandons every suspended continuation.
func (c *Controller) invalidate() {
	c.epoch++
	c.running = false
	c.rerun = false
	c.stalled = false
}

// recoverPass stalls the loop when a pass panics, so undo and new game still
// work instead of every play failing with ErrBusy.
func (c *Controller) recoverPass() {
	r := recover()
	if r == nil {
		return
	}
	c.logger.Error("loop pass panicked",
		zap.String("session_id", c.session.String()),
		zap.Any("panic", r),
		zap.Stack("stack"),
	)
	c.running = false
	c.rerun = false
	c.stalled = true
	c.sink.Text(render.RegionStatus, "Internal error. Undo or start a new game.")
}

// after runs fn once d has elapsed unless the epoch moved on meanwhile.
func (c *Controller) after(epoch uint64, d time.Duration, fn func()) {
	c.sched.After(d, func() {
		if epoch != c.epoch {
			c.logger.Debug("dropped stale continuation", zap.Uint64("epoch", epoch))
			return
		}
		defer c.recoverPass()
		fn()
	})
}

// notice shows a transient, non-blocking message.
func (c *Controller) notice(msg string) {
	c.sink.Text(render.RegionNotice, msg)
}
