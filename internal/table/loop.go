package table

import (
	"fmt"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"github.com/skatdesk/skatdesk/internal/metrics"
	"github.com/skatdesk/skatdesk/internal/render"
	"go.uber.org/zap"
)

// Advance runs one pass of the turn loop: animate a newly completed trick,
// then either finish the hand, wait for the human or move for an AI. Calls
// made while a pass is suspended are folded into one re-run after it.
func (c *Controller) Advance() {
	if c.phase != card.PhasePlaying {
		return
	}
	if c.running {
		c.rerun = true
		return
	}
	defer c.recoverPass()
	c.running = true
	epoch := c.epoch

	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		c.stall(err)
		return
	}
	c.transcript.Record(snap)

	if c.newTrick(snap) {
		c.anim.LastTrickID = snap.LastTrickID
		c.animateTrick(epoch, snap, func() { c.turn(epoch) })
		return
	}
	c.turn(epoch)
}

// turn is the second half of a pass, always on a fresh snapshot.
func (c *Controller) turn(epoch uint64) {
	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		c.stall(err)
		return
	}
	c.transcript.Record(snap)

	switch {
	case snap.GameOver:
		c.finish(snap)
		c.endPass(epoch, false)
	case snap.HumanToMove():
		c.sink.Text(render.RegionStatus, statusFor(card.Human))
		c.endPass(epoch, false)
	case snap.Phase == card.PhasePlaying && snap.CurrentPlayer.IsAI():
		c.moveAI(epoch, snap.CurrentPlayer)
	default:
		c.logger.Warn("loop found no one to move",
			zap.String("phase", string(snap.Phase)),
			zap.Stringer("current_player", snap.CurrentPlayer),
		)
		c.endPass(epoch, false)
	}
}

func (c *Controller) moveAI(epoch uint64, player card.Player) {
	c.sink.Text(render.RegionStatus, statusFor(player))
	c.after(epoch, c.opts.Timing.AIThink, func() {
		moved, err := c.gw.AIMove(c.ctx)
		if err != nil || !moved {
			metrics.Metrics.AIAnomaly()
			c.logger.Error("engine did not move on an AI turn",
				zap.String("session_id", c.session.String()),
				zap.Stringer("player", player),
				zap.Error(err),
			)
			c.stalled = true
			c.running = false
			c.rerun = false
			c.sink.Text(render.RegionStatus, fmt.Sprintf("%s AI did not move. Undo or start a new game.", player.Label()))
			return
		}
		snap, err := c.gw.Snapshot(c.ctx)
		if err != nil {
			c.stall(err)
			return
		}
		c.transcript.Record(snap)
		c.refreshViews(snap)
		c.endPass(epoch, true)
	})
}

// endPass releases the loop. again schedules the next pass after the short
// re-invoke delay; a coalesced request runs on the next scheduler turn.
func (c *Controller) endPass(epoch uint64, again bool) {
	c.running = false
	switch {
	case again:
		c.rerun = false
		c.after(epoch, c.opts.Timing.Reinvoke, c.Advance)
	case c.rerun:
		c.rerun = false
		c.after(epoch, 0, c.Advance)
	}
}

// stall stops the loop after an engine failure.
func (c *Controller) stall(err error) {
	c.logger.Error("engine unavailable", zap.String("session_id", c.session.String()), zap.Error(err))
	c.running = false
	c.rerun = false
	c.stalled = true
	c.sink.Text(render.RegionStatus, "Engine unavailable. Undo or start a new game.")
	c.notice(err.Error())
}

// finish draws the terminal summary. The loop is not invoked again.
func (c *Controller) finish(snap engine.Snapshot) {
	if err := c.gw.RefreshMaxPoints(c.ctx); err != nil {
		c.notice("Max points unavailable: " + err.Error())
	} else if fresh, err := c.gw.Snapshot(c.ctx); err == nil {
		snap = fresh
	}
	c.phase = card.PhaseGameOver
	c.transcript.Record(snap)

	c.renderHand(snap, nil)
	c.renderOpponents(snap)
	c.renderSidePile(snap)
	c.renderScores(snap)

	won := snap.DeclarerWon()
	outcome := "loss"
	if won {
		outcome = "win"
	}
	winner := snap.Winner
	if winner == "" {
		winner = "Opponents"
		if won {
			winner = engine.WinnerDeclarer
		}
	}
	c.sink.Text(render.RegionStatus, "Game Over! Winner: "+winner)
	c.sink.Text(render.RegionSummary, summaryText(snap, won))

	metrics.Metrics.GameFinished(outcome)
	c.logger.Info("game over",
		zap.String("session_id", c.session.String()),
		zap.String("outcome", outcome),
		zap.Int("declarer_points", snap.DeclarerPoints),
		zap.Int("team_points", snap.TeamPoints),
	)
	c.saveTranscript()
}

func summaryText(snap engine.Snapshot, won bool) string {
	result := "You lost."
	if won {
		result = "You won!"
	}
	maxPoints := "n/a"
	if snap.MaxPoints != nil {
		maxPoints = fmt.Sprint(*snap.MaxPoints)
	}
	return fmt.Sprintf("%s\nDeclarer %d : %d Team\nMax achievable: %s",
		result, snap.DeclarerPoints, snap.TeamPoints, maxPoints)
}

func (c *Controller) saveTranscript() {
	if c.opts.TranscriptDir == "" || c.transcript == nil {
		return
	}
	path, err := c.transcript.Save(c.opts.TranscriptDir)
	if err != nil {
		c.logger.Warn("failed to save transcript", zap.Error(err))
		return
	}
	c.logger.Info("saved transcript", zap.String("path", path), zap.Int("snapshots", c.transcript.Len()))
}

// PlayCard plays c for the human and hands over to the loop.
func (c *Controller) PlayCard(cd card.Card) error {
	if c.phase != card.PhasePlaying {
		return ErrWrongPhase
	}
	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	if !snap.HumanToMove() {
		return ErrNotYourTurn
	}
	if c.running {
		return ErrBusy
	}

	ok, err := c.gw.PlayCard(c.ctx, cd)
	if err != nil {
		return err
	}
	if !ok {
		c.logger.Info("card rejected", zap.Stringer("card", cd))
		return ErrIllegalMove
	}

	snap, err = c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	c.transcript.Record(snap)
	if len(snap.Trick) == 0 && c.newTrick(snap) {
		// Third card: show it leaving the hand now, the loop animates the trick.
		c.renderHand(snap, nil)
	} else {
		c.refreshViews(snap)
	}
	c.Advance()
	return nil
}
