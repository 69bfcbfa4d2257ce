// Package natsengine carries engine commands over NATS request/reply. Client
// implements engine.Engine for the controller; Responder exposes any
// engine.Engine on the same subjects so an engine process can serve remote
// tables.
package natsengine

import (
	"errors"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
)

// Command names. The subject of a request is "<prefix>.<command>".
const (
	CmdNewGame           = "new_game"
	CmdSnapshot          = "snapshot"
	CmdPlayCard          = "play_card"
	CmdAIMove            = "ai_move"
	CmdUndo              = "undo"
	CmdFinalizeSelection = "finalize_selection"
	CmdUpdateGameType    = "update_game_type"
	CmdRefreshAnalysis   = "refresh_analysis"
	CmdRefreshMaxPoints  = "refresh_max_points"
	CmdBestSelections    = "best_selections"
	CmdAnalyzeMoves      = "analyze_moves"
)

// ErrRemote marks failures reported by the engine process rather than the transport.
var ErrRemote = errors.New("remote engine error")

// Request is the body of every command.
type Request struct {
	Session  string        `json:"session"`
	Card     *card.Card    `json:"card,omitempty"`
	GameType card.GameType `json:"game_type,omitempty"`
	SidePile []card.Card   `json:"side_pile,omitempty"`
}

// Reply is the body of every response. OK carries the accepted/rejected
// answer of commands that have one.
type Reply struct {
	OK          bool                  `json:"ok"`
	Error       string                `json:"error,omitempty"`
	Snapshot    *engine.Snapshot      `json:"snapshot,omitempty"`
	Suggestions []engine.Suggestion   `json:"suggestions,omitempty"`
	Analysis    []engine.MoveAnalysis `json:"analysis,omitempty"`
}

func subject(prefix, command string) string {
	return prefix + "." + command
}
