package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/skatdesk/skatdesk/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordDispatcher struct {
	events []table.Event
}

func (r *recordDispatcher) Dispatch(ev table.Event) {
	r.events = append(r.events, ev)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func boardWithHand(ids string) *render.Board {
	b := render.NewBoard()
	cards := card.MustParseList(ids)
	tokens := make([]render.Token, len(cards))
	for i, c := range cards {
		tokens[i] = render.Token{Card: c, Owner: card.Human, Playable: true}
	}
	b.Cards(render.AreaHand, tokens)
	return b
}

func TestCursorAndSelect(t *testing.T) {
	d := &recordDispatcher{}
	m := New(boardWithHand("CJ SA H7"), d)

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 2, m.Cursor(), "clamped to the hand")
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeySpace})

	require.Len(t, d.events, 1)
	assert.Equal(t, table.Event{Kind: table.EventSelectCard, Card: card.MustParse("SA")}, d.events[0])
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		key  string
		want table.Event
	}{
		{"g", table.Event{Kind: table.EventCycleGameType}},
		{"b", table.Event{Kind: table.EventBestSelection}},
		{"3", table.Event{Kind: table.EventApplySuggestion, Index: 2}},
		{"f", table.Event{Kind: table.EventFinalize}},
		{"h", table.Event{Kind: table.EventHint}},
		{"u", table.Event{Kind: table.EventUndo}},
		{"n", table.Event{Kind: table.EventNewGame}},
		{"r", table.Event{Kind: table.EventToggleReveal}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			d := &recordDispatcher{}
			m := New(boardWithHand("CJ"), d)
			_, cmd := m.Update(runes(tt.key))
			assert.Nil(t, cmd)
			assert.Equal(t, []table.Event{tt.want}, d.events)
		})
	}
}

func TestQuit(t *testing.T) {
	m := New(render.NewBoard(), &recordDispatcher{})
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTickClampsCursor(t *testing.T) {
	b := boardWithHand("CJ SA H7")
	m := New(b, &recordDispatcher{})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	b.Cards(render.AreaHand, []render.Token{{Card: card.MustParse("CJ")}})
	_, cmd := m.Update(tickMsg{})
	assert.NotNil(t, cmd, "keeps polling")
	assert.Zero(t, m.Cursor())
}

func TestViewShowsTable(t *testing.T) {
	b := boardWithHand("CJ H7")
	b.FaceDown(render.AreaLeft, 10)
	b.FaceDown(render.AreaRight, 9)
	b.Text(render.RegionStatus, "Your Turn (Declarer)")
	b.Text(render.RegionDeclarerPoints, "Declarer: 6")
	b.Text(render.RegionNotice, "not your turn")
	b.PlaceTrick(0, render.Token{Card: card.MustParse("DA"), Owner: card.AILeft}, render.SideStart(card.AILeft))

	out := View(b, 0, 120)
	for _, want := range []string{"Your Turn (Declarer)", "Declarer: 6", "x10", "x9", "J♣", "7♥", "A♦", "Left", "not your turn"} {
		assert.Contains(t, out, want)
	}
}

func TestViewSimpleMode(t *testing.T) {
	b := render.NewBoard()
	b.Cards(render.AreaSidePile, []render.Token{{Card: card.MustParse("HT"), Mode: render.ModeSimple}})

	assert.Contains(t, View(b, -1, 80), "HT")
}

func TestViewMarksCollection(t *testing.T) {
	b := render.NewBoard()
	b.PlaceTrick(0, render.Token{Card: card.MustParse("CJ"), Owner: card.Human}, render.SideStart(card.Human))
	b.MoveTrick(0, render.Collection(card.AIRight, 0))

	assert.Contains(t, View(b, -1, 100), "Team")
}

func TestViewRedrawsOnBoardChange(t *testing.T) {
	b := boardWithHand("CJ SA")
	m := New(b, &recordDispatcher{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	first := m.View()
	assert.Equal(t, first, m.View(), "unchanged board reuses the frame")
	assert.NotContains(t, first, "Your Turn")

	b.Text(render.RegionStatus, "Your Turn (Declarer)")
	assert.Contains(t, m.View(), "Your Turn (Declarer)")

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.Cursor())
}
