package table

import (
	"testing"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine/sim"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionToggle(t *testing.T) {
	s := NewSelection(card.GameClubs)
	h7, d7, ca := card.MustParse("H7"), card.MustParse("D7"), card.MustParse("CA")

	assert.True(t, s.Toggle(h7))
	assert.True(t, s.Toggle(h7), "second toggle removes")
	assert.Zero(t, s.Len())

	assert.True(t, s.Toggle(h7))
	assert.True(t, s.Toggle(d7))
	assert.False(t, s.Toggle(ca), "saturated")
	assert.Equal(t, []card.Card{h7, d7}, s.Cards())

	pile, ok := s.Pile()
	require.True(t, ok)
	assert.Equal(t, [2]card.Card{h7, d7}, pile)

	s.Reconcile([]card.Card{d7, ca})
	assert.Equal(t, []card.Card{d7}, s.Cards())
	_, ok = s.Pile()
	assert.False(t, ok)
}

func TestNewGameShowsSelection(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())

	assert.Equal(t, card.PhaseSelection, h.ctl.Phase())
	assert.Zero(t, h.ctl.Selection().Len())

	hand := h.rec.Tokens(render.AreaHand)
	require.Len(t, hand, 12)
	for _, tok := range hand {
		assert.False(t, tok.Selected)
	}
	assert.Empty(t, h.rec.Tokens(render.AreaSidePile))
	assert.Equal(t, 10, h.rec.FaceDownCount(render.AreaLeft))
	assert.Equal(t, 10, h.rec.FaceDownCount(render.AreaRight))
	assert.Equal(t, "Game: Clubs", h.rec.TextOf(render.RegionGameType))
}

// Scenario A: toggle two cards, finalize, play begins.
func TestSelectionToPlay(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())

	require.NoError(t, h.ctl.ToggleCard(card.MustParse("H7")))
	require.NoError(t, h.ctl.ToggleCard(card.MustParse("D7")))

	selected := 0
	for _, tok := range h.rec.Tokens(render.AreaHand) {
		if tok.Selected {
			selected++
		}
	}
	assert.Equal(t, 2, selected)
	assert.Contains(t, h.rec.TextOf(render.RegionSelection), "(2/2)")

	require.NoError(t, h.ctl.Finalize())
	assert.Equal(t, card.PhasePlaying, h.ctl.Phase())
	assert.Equal(t, card.PhasePlaying, h.snapshot().Phase)
	assert.Zero(t, h.ctl.Selection().Len(), "selection discarded")
	assert.Len(t, h.rec.Tokens(render.AreaHand), 10)
	assert.Len(t, h.rec.Tokens(render.AreaSidePile), 2)
	assert.Equal(t, "Your Turn (Declarer)", h.rec.TextOf(render.RegionStatus))
}

func TestToggleIsIdempotentAndSaturates(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())
	h7 := card.MustParse("H7")

	require.NoError(t, h.ctl.ToggleCard(h7))
	require.NoError(t, h.ctl.ToggleCard(h7))
	assert.Zero(t, h.ctl.Selection().Len())

	require.NoError(t, h.ctl.ToggleCard(h7))
	require.NoError(t, h.ctl.ToggleCard(card.MustParse("D7")))
	require.NoError(t, h.ctl.ToggleCard(card.MustParse("CA")))
	sel := h.ctl.Selection()
	assert.Equal(t, card.MustParseList("H7 D7"), sel.Cards())
}

func TestToggleRejectsCardsOutsideHand(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())

	err := h.ctl.ToggleCard(card.MustParse("HA"))
	assert.ErrorIs(t, err, ErrUnknownCard)
	assert.Zero(t, h.ctl.Selection().Len())
}

func TestFinalizeRequiresTwoCards(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())

	assert.ErrorIs(t, h.ctl.Finalize(), ErrSelectionIncomplete)
	require.NoError(t, h.ctl.ToggleCard(card.MustParse("H7")))
	assert.ErrorIs(t, h.ctl.Finalize(), ErrSelectionIncomplete)

	assert.Zero(t, h.eng.finalizes, "no engine call")
	assert.Equal(t, card.PhaseSelection, h.ctl.Phase())
	assert.Equal(t, card.PhaseSelection, h.snapshot().Phase)
}

func TestFinalizeRejectedIsNotRetried(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())
	h.eng.rejectFinalize = true

	require.NoError(t, h.ctl.ToggleCard(card.MustParse("H7")))
	require.NoError(t, h.ctl.ToggleCard(card.MustParse("D7")))
	assert.ErrorIs(t, h.ctl.Finalize(), ErrFinalizeRejected)
	h.idle()

	assert.Equal(t, 1, h.eng.finalizes)
	assert.Equal(t, card.PhaseSelection, h.ctl.Phase())
	assert.Equal(t, 2, h.ctl.Selection().Len(), "selection kept for another try")
}

func TestSetGameTypeUpdatesEngine(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())

	require.NoError(t, h.ctl.SetGameType(card.GameGrand))
	assert.Equal(t, card.GameGrand, h.snapshot().GameType)
	assert.Equal(t, card.GameGrand, h.ctl.Selection().GameType())
	assert.Equal(t, "Game: Grand", h.rec.TextOf(render.RegionGameType))

	require.NoError(t, h.ctl.CycleGameType())
	assert.Equal(t, card.GameNull, h.snapshot().GameType)
}

func TestBestSelectionIsAdvisory(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())
	require.NoError(t, h.ctl.ToggleCard(card.MustParse("CA")))

	require.NoError(t, h.ctl.ComputeBestSelection())
	assert.Contains(t, h.rec.TextOf(render.RegionSuggestions), "1. ")
	assert.Equal(t, card.MustParseList("CA"), h.ctl.Selection().Cards(), "untouched until applied")

	assert.ErrorIs(t, h.ctl.ApplySuggestion(7), ErrNoSuggestion)

	best := h.ctl.suggestions[0]
	require.NoError(t, h.ctl.ApplySuggestion(0))
	sel := h.ctl.Selection()
	assert.Equal(t, []card.Card{best.SidePile[0], best.SidePile[1]}, sel.Cards())
	assert.Equal(t, best.GameType, sel.GameType())
	assert.Equal(t, best.GameType, h.snapshot().GameType)

	require.NoError(t, h.ctl.Finalize())
	assert.Equal(t, card.PhasePlaying, h.ctl.Phase())
}

func TestBestSelectionFailureIsANotice(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())
	h.eng.bestErr = errEngineDown

	h.ctl.Dispatch(Event{Kind: EventBestSelection})
	h.clock.Flush()

	assert.Contains(t, h.rec.TextOf(render.RegionNotice), "best selection unavailable")
	assert.Equal(t, card.PhaseSelection, h.ctl.Phase())
}

func TestSelectionCommandsOutsideSelection(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())
	h.start("H7", "D7")

	assert.ErrorIs(t, h.ctl.ToggleCard(card.MustParse("CA")), ErrWrongPhase)
	assert.ErrorIs(t, h.ctl.SetGameType(card.GameGrand), ErrWrongPhase)
	assert.ErrorIs(t, h.ctl.ComputeBestSelection(), ErrWrongPhase)
	assert.ErrorIs(t, h.ctl.Finalize(), ErrWrongPhase)
}

func TestDispatchRoutesSelectCardByPhase(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())

	h.ctl.Dispatch(Event{Kind: EventSelectCard, Card: card.MustParse("H7")})
	h.ctl.Dispatch(Event{Kind: EventSelectCard, Card: card.MustParse("D7")})
	h.ctl.Dispatch(Event{Kind: EventFinalize})
	h.idle()
	require.Equal(t, card.PhasePlaying, h.ctl.Phase())

	h.ctl.Dispatch(Event{Kind: EventSelectCard, Card: card.MustParse("CJ")})
	h.clock.Flush()
	assert.Equal(t, 1, h.eng.plays)
	assert.NotContains(t, handCards(h.rec.Tokens(render.AreaHand)), card.MustParse("CJ"))

	h.ctl.Dispatch(Event{Kind: EventSelectCard, Card: card.MustParse("CA")})
	h.clock.Flush()
	assert.Equal(t, ErrNotYourTurn.Error(), h.rec.TextOf(render.RegionNotice))
	assert.Equal(t, 1, h.eng.plays)
}

func TestSelectionSnapshotAccessors(t *testing.T) {
	h := newHarness(t, sim.FixedDeal())
	h7, d7 := card.MustParse("H7"), card.MustParse("D7")
	require.NoError(t, h.ctl.ToggleCard(h7))
	require.NoError(t, h.ctl.ToggleCard(d7))

	assert.Equal(t, 2, h.ctl.Selection().Len())
	assert.Equal(t, []card.Card{h7, d7}, h.ctl.Selection().Cards())
	assert.Equal(t, card.GameClubs, h.ctl.Selection().GameType())
	assert.True(t, h.ctl.Selection().Contains(h7))
	pile, ok := h.ctl.Selection().Pile()
	require.True(t, ok)
	assert.Equal(t, [2]card.Card{h7, d7}, pile)

	// The returned value is a copy.
	sel := h.ctl.Selection()
	sel.Toggle(h7)
	assert.Equal(t, 2, h.ctl.Selection().Len())
}
