// Package tui is the terminal front end. It draws a render.Board with
// lipgloss and turns key presses into table events.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/skatdesk/skatdesk/internal/table"
)

// Dispatcher accepts table events from any goroutine.
type Dispatcher interface {
	Dispatch(ev table.Event)
}

// refreshInterval is how often the board is polled for changes.
const refreshInterval = 50 * time.Millisecond

type tickMsg time.Time

// Model is the bubbletea model of the table.
type Model struct {
	board    *render.Board
	dispatch Dispatcher

	cursor int
	width  int
	height int

	// frame is the last drawing and the inputs it was drawn from.
	frame    string
	frameKey frameKey
}

type frameKey struct {
	version uint64
	cursor  int
	width   int
}

// New creates a model drawing b and sending input to d.
func New(b *render.Board, d Dispatcher) *Model {
	return &Model{board: b, dispatch: d}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		// The controller draws on its own goroutine; pick up its changes.
		m.clampCursor()
		return m, tick()

	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		return tea.Quit
	case "left":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right":
		if m.cursor < len(m.board.Tokens(render.AreaHand))-1 {
			m.cursor++
		}
	case " ", "enter":
		hand := m.board.Tokens(render.AreaHand)
		if m.cursor < len(hand) {
			m.send(table.Event{Kind: table.EventSelectCard, Card: hand[m.cursor].Card})
		}
	case "g":
		m.send(table.Event{Kind: table.EventCycleGameType})
	case "b":
		m.send(table.Event{Kind: table.EventBestSelection})
	case "1", "2", "3", "4", "5", "6":
		m.send(table.Event{Kind: table.EventApplySuggestion, Index: int(key[0] - '1')})
	case "f":
		m.send(table.Event{Kind: table.EventFinalize})
	case "h":
		m.send(table.Event{Kind: table.EventHint})
	case "u":
		m.send(table.Event{Kind: table.EventUndo})
	case "n":
		m.cursor = 0
		m.send(table.Event{Kind: table.EventNewGame})
	case "r":
		m.send(table.Event{Kind: table.EventToggleReveal})
	}
	return nil
}

func (m *Model) send(ev table.Event) {
	m.dispatch.Dispatch(ev)
}

// clampCursor keeps the cursor on a card after the hand shrank.
func (m *Model) clampCursor() {
	n := len(m.board.Tokens(render.AreaHand))
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View redraws only when the board, cursor or width changed since the last
// frame.
func (m *Model) View() string {
	key := frameKey{version: m.board.Version(), cursor: m.cursor, width: m.width}
	if m.frame != "" && key == m.frameKey {
		return m.frame
	}
	m.frame = View(m.board, m.cursor, m.width)
	m.frameKey = key
	return m.frame
}

// Cursor returns the index of the focused hand card.
func (m *Model) Cursor() int {
	return m.cursor
}

// Run shows the table until the user quits or ctx ends.
func Run(ctx context.Context, b *render.Board, d Dispatcher) error {
	p := tea.NewProgram(New(b, d), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
