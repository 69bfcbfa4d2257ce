package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/render"
)

// Palette

var (
	clrBorder = lipgloss.Color("#30363d")
	clrSubtle = lipgloss.Color("#8b949e")
	clrGold   = lipgloss.Color("#e3b341")
	clrGreen  = lipgloss.Color("#3fb950")
	clrRed    = lipgloss.Color("#f85149")
	clrWhite  = lipgloss.Color("#e6edf3")
	clrTitle  = lipgloss.Color("#58a6ff")

	suitColors = [4]lipgloss.Color{
		lipgloss.Color("#e6edf3"), // Clubs
		lipgloss.Color("#50FA7B"), // Spades
		lipgloss.Color("#FF6B6B"), // Hearts
		lipgloss.Color("#FFD700"), // Diamonds
	}
)

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func bold(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

func box(title, content string, w int, borderClr lipgloss.Color) string {
	body := content
	if title != "" {
		body = bold(clrTitle).Render(title) + "\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderClr).
		Width(w).
		Padding(0, 1).
		Render(body)
}

// cardLabel is the face of a token: "A♣" in full mode, "CA" in simple mode.
func cardLabel(tok render.Token) string {
	if tok.Mode == render.ModeSimple {
		return tok.Card.String()
	}
	return tok.Card.Rank.Label() + tok.Card.Suit.Symbol()
}

func cardStyle(c card.Card) lipgloss.Style {
	clr := clrWhite
	if int(c.Suit) >= 0 && int(c.Suit) < len(suitColors) {
		clr = suitColors[c.Suit]
	}
	return lipgloss.NewStyle().Foreground(clr)
}

// drawToken renders one face-up token. Selected cards are raised with a
// marker, unplayable ones dimmed, hinted ones annotated.
func drawToken(tok render.Token, focused bool) string {
	style := cardStyle(tok.Card).Border(lipgloss.NormalBorder()).BorderForeground(clrBorder).Padding(0, 1)
	if !tok.Playable && tok.Owner == card.Human {
		style = style.Faint(true)
	}
	if tok.Selected {
		style = style.BorderForeground(clrGold)
	}
	if focused {
		style = style.BorderForeground(clrTitle).Bold(true)
	}
	face := style.Render(cardLabel(tok))

	var mark string
	switch {
	case tok.Hint != nil && tok.Hint.Best:
		mark = bold(clrGreen).Render("best")
	case tok.Hint != nil:
		mark = fg(clrRed).Render(fmt.Sprintf("%d", tok.Hint.Delta))
	case tok.Selected:
		mark = bold(clrGold).Render("pile")
	}
	return lipgloss.JoinVertical(lipgloss.Center, face, mark)
}

func drawRow(tokens []render.Token, cursor int) string {
	if len(tokens) == 0 {
		return fg(clrSubtle).Render("(empty)")
	}
	cells := make([]string, len(tokens))
	for i, tok := range tokens {
		cells[i] = drawToken(tok, i == cursor)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func drawBacks(n int) string {
	if n == 0 {
		return fg(clrSubtle).Render("(no cards)")
	}
	back := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(clrBorder).Render("▓▓")
	return lipgloss.JoinHorizontal(lipgloss.Center, back, fg(clrSubtle).Render(fmt.Sprintf(" x%d", n)))
}

func drawArea(b *render.Board, area render.Area) string {
	if tokens := b.Tokens(area); len(tokens) > 0 {
		return drawRow(tokens, -1)
	}
	return drawBacks(b.FaceDownCount(area))
}

// drawTrick shows the trick slots. A token in collection is drawn faded
// toward its destination seat.
func drawTrick(b *render.Board) string {
	trick := b.Trick()
	if len(trick) == 0 {
		return fg(clrSubtle).Render("-")
	}
	cells := make([]string, 0, len(trick))
	for _, tc := range trick {
		cell := drawToken(tc.Token, false)
		who := fg(clrSubtle).Render(tc.Token.Owner.Label())
		if tc.Motion != nil && tc.Motion.Opacity == 0 {
			cell = lipgloss.NewStyle().Faint(true).Render(cell)
			who = fg(clrGold).Render("→ " + collector(tc.Motion.To))
		}
		cells = append(cells, lipgloss.JoinVertical(lipgloss.Center, cell, who))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func collector(to render.Point) string {
	if to == render.ScoreAnchor(card.Human) {
		return "Declarer"
	}
	return "Team"
}

// View draws the whole table from the board.
func View(b *render.Board, cursor, width int) string {
	if width <= 0 {
		width = 100
	}
	inner := width - 4

	status := bold(clrGold).Render(b.TextOf(render.RegionStatus))
	scores := strings.TrimSpace(strings.Join([]string{
		b.TextOf(render.RegionGameType),
		b.TextOf(render.RegionDeclarerPoints),
		b.TextOf(render.RegionTeamPoints),
	}, "   "))
	header := lipgloss.JoinVertical(lipgloss.Left, status, fg(clrWhite).Render(scores))

	opponents := lipgloss.JoinHorizontal(lipgloss.Top,
		box("Left", drawArea(b, render.AreaLeft), inner/2-2, clrBorder),
		box("Right", drawArea(b, render.AreaRight), inner/2-2, clrBorder),
	)

	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		box("Trick", drawTrick(b), inner/2-2, clrBorder),
		box("Side pile", drawRow(b.Tokens(render.AreaSidePile), -1), inner/2-2, clrBorder),
	)

	hand := box("Your hand", drawRow(b.Tokens(render.AreaHand), cursor), inner, clrTitle)

	var panels []string
	for _, region := range []render.Region{
		render.RegionSelection, render.RegionSuggestions, render.RegionSummary,
		render.RegionAnalysis, render.RegionHistory,
	} {
		if text := b.TextOf(region); text != "" {
			panels = append(panels, box(regionTitle(region), text, inner, clrBorder))
		}
	}

	sections := []string{header, opponents, middle, hand}
	sections = append(sections, panels...)
	if notice := b.TextOf(render.RegionNotice); notice != "" {
		sections = append(sections, fg(clrRed).Render(notice))
	}
	sections = append(sections, fg(clrSubtle).Render(helpLine))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

const helpLine = "←/→ move  space select/play  g game  b best  1-6 apply  f finalize  h hint  u undo  n new  r reveal  q quit"

func regionTitle(r render.Region) string {
	switch r {
	case render.RegionSelection:
		return "Selection"
	case render.RegionSuggestions:
		return "Suggestions"
	case render.RegionSummary:
		return "Result"
	case render.RegionAnalysis:
		return "Analysis"
	case render.RegionHistory:
		return "History"
	default:
		return string(r)
	}
}
