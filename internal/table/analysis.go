package table

import (
	"fmt"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/metrics"
	"github.com/skatdesk/skatdesk/internal/render"
	"go.uber.org/zap"
)

// requestAnalysis (re)starts the debounce timer; a burst of requests costs
// one engine refresh.
func (c *Controller) requestAnalysis() {
	c.stopDebounce()
	c.debounce = c.sched.After(c.opts.Timing.AnalysisDebounce, c.refreshAnalysis)
}

func (c *Controller) stopDebounce() {
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}

func (c *Controller) refreshAnalysis() {
	c.debounce = nil
	if c.phase == card.PhaseSelection {
		return
	}
	if err := c.gw.RefreshAnalysis(c.ctx); err != nil {
		c.logger.Warn("analysis refresh failed", zap.Error(err))
		c.notice("Analysis unavailable: " + err.Error())
		return
	}
	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		c.notice("Analysis unavailable: " + err.Error())
		return
	}
	metrics.Metrics.AnalysisRefreshed()
	c.renderHistory(snap)
}

// RequestHint marks the best legal card and annotates the others with their
// loss against it. The marks last until the next redraw of the hand.
func (c *Controller) RequestHint() error {
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
	moves, err := c.gw.AnalyzeMoves(c.ctx)
	if err != nil {
		return fmt.Errorf("hint unavailable: %w", err)
	}
	hints := make(map[card.Card]render.Hint, len(moves))
	for _, m := range moves {
		if !snap.IsLegal(m.Card) {
			continue
		}
		hints[m.Card] = render.Hint{Best: m.Best, Delta: m.Delta}
	}
	c.renderHand(snap, hints)
	return nil
}
