package table

import (
	"fmt"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/render"
	"go.uber.org/zap"
)

// Selection is the side-pile choice made before play: at most two cards and a
// contract.
type Selection struct {
	cards    []card.Card
	gameType card.GameType
}

// NewSelection returns an empty selection for a contract.
func NewSelection(gt card.GameType) Selection {
	return Selection{gameType: gt}
}

// Toggle removes c if selected, otherwise adds it unless two cards are
// already selected. It reports whether the selection changed.
func (s *Selection) Toggle(c card.Card) bool {
	if i := card.IndexOf(s.cards, c); i >= 0 {
		s.cards = append(s.cards[:i:i], s.cards[i+1:]...)
		return true
	}
	if len(s.cards) >= 2 {
		return false
	}
	s.cards = append(s.cards, c)
	return true
}

// Reconcile drops selected cards that are no longer in hand.
func (s *Selection) Reconcile(hand []card.Card) {
	kept := s.cards[:0:0]
	for _, c := range s.cards {
		if card.Contains(hand, c) {
			kept = append(kept, c)
		}
	}
	s.cards = kept
}

// Cards returns a copy of the selected cards in selection order.
func (s Selection) Cards() []card.Card {
	return append([]card.Card(nil), s.cards...)
}

// Len returns the number of selected cards.
func (s Selection) Len() int {
	return len(s.cards)
}

// GameType returns the chosen contract.
func (s Selection) GameType() card.GameType {
	return s.gameType
}

// Contains reports whether c is selected.
func (s Selection) Contains(c card.Card) bool {
	return card.Contains(s.cards, c)
}

// Pile returns the side pile once exactly two cards are selected.
func (s Selection) Pile() ([2]card.Card, bool) {
	if len(s.cards) != 2 {
		return [2]card.Card{}, false
	}
	return [2]card.Card{s.cards[0], s.cards[1]}, true
}

// ToggleCard adds or removes c from the side-pile selection. Toggling a new
// card while two are selected does nothing.
func (c *Controller) ToggleCard(cd card.Card) error {
	if c.phase != card.PhaseSelection {
		return ErrWrongPhase
	}
	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	c.selection.Reconcile(snap.Hand)
	if !card.Contains(snap.Hand, cd) {
		return ErrUnknownCard
	}
	if !c.selection.Toggle(cd) {
		c.logger.Debug("selection saturated", zap.Stringer("card", cd))
	}
	c.renderSelection(snap)
	return nil
}

// SetGameType chooses the contract and previews it on the engine at once.
func (c *Controller) SetGameType(gt card.GameType) error {
	if c.phase != card.PhaseSelection {
		return ErrWrongPhase
	}
	if err := c.gw.UpdateGameType(c.ctx, gt); err != nil {
		return err
	}
	c.selection.gameType = gt
	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	c.selection.Reconcile(snap.Hand)
	c.renderSelection(snap)
	return nil
}

// CycleGameType moves to the next contract.
func (c *Controller) CycleGameType() error {
	return c.SetGameType(c.selection.gameType.Next())
}

// ComputeBestSelection asks the engine for ranked suggestions. The selection
// itself is not touched.
func (c *Controller) ComputeBestSelection() error {
	if c.phase != card.PhaseSelection {
		return ErrWrongPhase
	}
	c.sink.Text(render.RegionSuggestions, "Computing best selection...")
	suggestions, err := c.gw.BestSelections(c.ctx)
	if err != nil {
		c.suggestions = nil
		c.sink.Text(render.RegionSuggestions, "")
		return fmt.Errorf("best selection unavailable: %w", err)
	}
	c.suggestions = suggestions
	c.sink.Text(render.RegionSuggestions, formatSuggestions(suggestions))
	return nil
}

// ApplySuggestion replaces the selection with suggestion i, counted from zero.
func (c *Controller) ApplySuggestion(i int) error {
	if c.phase != card.PhaseSelection {
		return ErrWrongPhase
	}
	if i < 0 || i >= len(c.suggestions) {
		return ErrNoSuggestion
	}
	s := c.suggestions[i]
	if s.GameType != c.selection.gameType {
		if err := c.gw.UpdateGameType(c.ctx, s.GameType); err != nil {
			return err
		}
	}
	c.selection = Selection{
		cards:    []card.Card{s.SidePile[0], s.SidePile[1]},
		gameType: s.GameType,
	}
	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	c.selection.Reconcile(snap.Hand)
	c.renderSelection(snap)
	return nil
}

// Finalize commits the selection. With fewer than two cards nothing is sent.
// On success play begins and the loop takes over.
func (c *Controller) Finalize() error {
	if c.phase != card.PhaseSelection {
		return ErrWrongPhase
	}
	pile, ok := c.selection.Pile()
	if !ok {
		return ErrSelectionIncomplete
	}
	accepted, err := c.gw.FinalizeSelection(c.ctx, c.selection.gameType, pile)
	if err != nil {
		return err
	}
	if !accepted {
		c.logger.Info("selection rejected",
			zap.String("game_type", string(c.selection.gameType)),
			zap.String("side_pile", card.Join(pile[:])),
		)
		return ErrFinalizeRejected
	}

	c.logger.Info("selection finalized",
		zap.String("session_id", c.session.String()),
		zap.String("game_type", string(c.selection.gameType)),
		zap.String("side_pile", card.Join(pile[:])),
	)
	c.phase = card.PhasePlaying
	c.selection = Selection{}
	c.suggestions = nil
	c.sink.Text(render.RegionSuggestions, "")
	c.sink.Text(render.RegionSelection, "")

	snap, err := c.gw.Snapshot(c.ctx)
	if err != nil {
		return err
	}
	c.refreshViews(snap)
	c.Advance()
	return nil
}
