package table

import (
	"github.com/skatdesk/skatdesk/internal/engine"
	"github.com/skatdesk/skatdesk/internal/metrics"
	"github.com/skatdesk/skatdesk/internal/render"
	"go.uber.org/zap"
)

// renderTrick brings the trick area in line with pairs. Only pairs beyond the
// slots already shown enter; a shorter trick is redrawn from scratch.
func (c *Controller) renderTrick(pairs []engine.PlayedCard) {
	if len(pairs) < c.anim.Slots {
		c.sink.ClearTrick()
		c.anim.Slots = 0
	}
	for i := c.anim.Slots; i < len(pairs); i++ {
		p := pairs[i]
		c.sink.PlaceTrick(i, c.token(p.Card, p.Player), render.SideStart(p.Player))
		c.sink.MoveTrick(i, render.Entrance(i, c.opts.Timing.Entrance))
	}
	c.anim.Slots = len(pairs)
}

// animateTrick shows a completed trick, lets it settle, flies it to the
// winner's score display and clears it. done runs after the closing pause
// with the scores updated.
func (c *Controller) animateTrick(epoch uint64, snap engine.Snapshot, done func()) {
	t := c.opts.Timing
	c.renderTrick(snap.LastTrick)
	c.logger.Debug("animating trick",
		zap.String("trick_id", snap.LastTrickID),
		zap.Stringer("winner", snap.LastTrickWinner),
	)

	c.after(epoch, t.Settle, func() {
		collect := render.Collection(snap.LastTrickWinner, t.Collection)
		for slot := 0; slot < c.anim.Slots; slot++ {
			c.sink.MoveTrick(slot, collect)
		}
		// All transitions share one duration.
		c.after(epoch, t.Collection, func() {
			c.sink.ClearTrick()
			c.anim.Slots = 0
			c.after(epoch, t.CollectPause, func() {
				metrics.Metrics.TrickAnimated()
				fresh, err := c.gw.Snapshot(c.ctx)
				if err != nil {
					c.stall(err)
					return
				}
				c.renderScores(fresh)
				c.requestAnalysis()
				done()
			})
		})
	})
}
