package table

import (
	"fmt"
	"strings"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"github.com/skatdesk/skatdesk/internal/render"
)

const historyLines = 12

func (c *Controller) token(cd card.Card, owner card.Player) render.Token {
	return render.Token{Card: cd, Owner: owner, Mode: c.opts.CardMode}
}

// refreshViews redraws everything derived from snap. Hint markers are not
// carried over.
func (c *Controller) refreshViews(snap engine.Snapshot) {
	if snap.Phase == card.PhaseSelection {
		c.renderSelection(snap)
		return
	}

	c.renderHand(snap, nil)
	c.renderOpponents(snap)
	c.renderSidePile(snap)
	c.sink.Text(render.RegionGameType, "Game: "+string(snap.GameType))

	// A new completed trick is left to the loop, which renders and collects
	// it and updates the scores afterwards. Drawing the empty trick now would
	// make it flicker.
	if !(len(snap.Trick) == 0 && c.newTrick(snap)) {
		c.renderTrick(snap.Trick)
		c.renderScores(snap)
	}
	c.renderHistory(snap)
	c.requestAnalysis()
}

func (c *Controller) newTrick(snap engine.Snapshot) bool {
	return snap.LastTrickID != "" && snap.LastTrickID != c.anim.LastTrickID
}

// renderHand draws the human's hand. hints annotates legal cards.
func (c *Controller) renderHand(snap engine.Snapshot, hints map[card.Card]render.Hint) {
	tokens := make([]render.Token, 0, len(snap.Hand))
	for _, cd := range snap.Hand {
		tok := c.token(cd, card.Human)
		tok.Playable = snap.IsLegal(cd)
		if h, ok := hints[cd]; ok {
			h := h
			tok.Hint = &h
		}
		tokens = append(tokens, tok)
	}
	c.sink.Cards(render.AreaHand, tokens)
}

func (c *Controller) renderOpponents(snap engine.Snapshot) {
	for _, side := range []struct {
		player card.Player
		cards  []card.Card
	}{
		{card.AILeft, snap.LeftCards},
		{card.AIRight, snap.RightCards},
	} {
		area := render.AreaOf(side.player)
		if !c.reveal {
			c.sink.FaceDown(area, len(side.cards))
			continue
		}
		tokens := make([]render.Token, len(side.cards))
		for i, cd := range side.cards {
			tokens[i] = c.token(cd, side.player)
		}
		c.sink.Cards(area, tokens)
	}
}

func (c *Controller) renderSidePile(snap engine.Snapshot) {
	tokens := make([]render.Token, len(snap.SidePile))
	for i, cd := range snap.SidePile {
		tokens[i] = c.token(cd, card.NoPlayer)
	}
	c.sink.Cards(render.AreaSidePile, tokens)
}

// renderScores shows the point badges once any points have been scored.
func (c *Controller) renderScores(snap engine.Snapshot) {
	if snap.DeclarerPoints == 0 && snap.TeamPoints == 0 {
		c.sink.Text(render.RegionDeclarerPoints, "")
		c.sink.Text(render.RegionTeamPoints, "")
		return
	}
	c.sink.Text(render.RegionDeclarerPoints, fmt.Sprintf("Declarer: %d", snap.DeclarerPoints))
	c.sink.Text(render.RegionTeamPoints, fmt.Sprintf("Team: %d", snap.TeamPoints))
}

// renderHistory draws the move log and the analysis summary: the current
// value and the last move of the human that lost value.
func (c *Controller) renderHistory(snap engine.Snapshot) {
	var b strings.Builder
	start := 0
	if len(snap.History) > historyLines {
		start = len(snap.History) - historyLines
	}
	for i := start; i < len(snap.History); i++ {
		h := snap.History[i]
		fmt.Fprintf(&b, "%2d. %-5s %s", i+1, h.Player.Label(), h.Card)
		if h.Delta != nil {
			fmt.Fprintf(&b, " (%+d)", *h.Delta)
		}
		b.WriteByte('\n')
	}
	c.sink.Text(render.RegionHistory, strings.TrimRight(b.String(), "\n"))

	var value *int
	var loss *engine.HistoryEntry
	for i := range snap.History {
		h := &snap.History[i]
		if h.Value != nil {
			value = h.Value
		}
		if h.Player == card.Human && h.Delta != nil && *h.Delta < 0 {
			loss = h
		}
	}
	var parts []string
	if value != nil {
		parts = append(parts, fmt.Sprintf("Value: %d", *value))
	}
	if loss != nil {
		parts = append(parts, fmt.Sprintf("Last loss: %s (%d)", loss.Card, *loss.Delta))
	}
	c.sink.Text(render.RegionAnalysis, strings.Join(parts, "  "))
}

// renderSelection draws the selection phase: all dealt cards with the
// side-pile picks marked.
func (c *Controller) renderSelection(snap engine.Snapshot) {
	tokens := make([]render.Token, 0, len(snap.Hand))
	for _, cd := range snap.Hand {
		tok := c.token(cd, card.Human)
		tok.Playable = true
		tok.Selected = c.selection.Contains(cd)
		tokens = append(tokens, tok)
	}
	c.sink.Cards(render.AreaHand, tokens)
	c.renderOpponents(snap)
	c.sink.Cards(render.AreaSidePile, nil)
	c.sink.Text(render.RegionGameType, "Game: "+string(c.selection.gameType))
	c.sink.Text(render.RegionSelection, fmt.Sprintf("Side pile: %s (%d/2)",
		card.Join(c.selection.cards), c.selection.Len()))
	c.sink.Text(render.RegionStatus, "Choose two cards for the side pile")
	c.renderScores(snap)
}

func formatSuggestions(suggestions []engine.Suggestion) string {
	if len(suggestions) == 0 {
		return "No suggestions"
	}
	var b strings.Builder
	for i, s := range suggestions {
		outcome := "loss"
		if s.Win {
			outcome = "win"
		}
		fmt.Fprintf(&b, "%d. %-8s %-4s %5.1f  [%s %s]\n", i+1, s.GameType, outcome, s.Value, s.SidePile[0], s.SidePile[1])
	}
	return strings.TrimRight(b.String(), "\n")
}

func statusFor(p card.Player) string {
	if p == card.Human {
		return "Your Turn (Declarer)"
	}
	return p.Label() + " AI thinking..."
}
