package table

import (
	"github.com/google/uuid"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/metrics"
	"github.com/skatdesk/skatdesk/internal/render"
	"go.uber.org/zap"
)

// Undo steps the engine back to the human's previous decision. AI plies are
// undone too, up to Options.UndoMaxSteps engine calls in total. Suspended
// animations are abandoned and the loop restarts on the restored position.
// Animation slots are cleared but LastTrickID is set to the restored
// position's token rather than emptied, so an already collected trick is not
// animated again.
func (c *Controller) Undo() error {
	if c.phase == card.PhaseSelection || c.session == uuid.Nil {
		return ErrWrongPhase
	}

	steps := 0
	if err := c.gw.Undo(c.ctx); err != nil {
		return err
	}
	steps++

	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	hitCeiling := false
	for snap.CurrentPlayer != card.Human && len(snap.History) > 0 {
		if steps >= c.opts.UndoMaxSteps {
			hitCeiling = true
			c.logger.Warn("undo stopped at attempt ceiling",
				zap.String("session_id", c.session.String()),
				zap.Int("steps", steps),
				zap.Stringer("current_player", snap.CurrentPlayer),
			)
			break
		}
		if err := c.gw.Undo(c.ctx); err != nil {
			return err
		}
		steps++
		if snap, err = c.gw.Snapshot(c.ctx); err != nil {
			return err
		}
	}
	metrics.Metrics.UndoCascade(steps, hitCeiling)
	c.logger.Info("undo",
		zap.String("session_id", c.session.String()),
		zap.Int("engine_steps", steps),
		zap.Int("history", len(snap.History)),
	)

	c.invalidate()
	// The restored position's token counts as seen, so the trick it names is
	// not collected a second time.
	c.anim = AnimationState{LastTrickID: snap.LastTrickID}
	c.phase = snap.Phase
	c.sink.ClearTrick()
	c.sink.Text(render.RegionSummary, "")
	c.transcript.Record(snap)
	if snap.Phase == card.PhaseSelection {
		c.selection = NewSelection(snap.GameType)
	}
	c.refreshViews(snap)
	c.Advance()
	return nil
}
