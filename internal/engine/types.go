package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/skatdesk/skatdesk/internal/card"
)

// Engine is the contract of the external rule, AI and analysis engine. The
// engine owns every rule decision; callers only read snapshots and issue
// commands. Implementations are not required to be safe for concurrent use.
type Engine interface {
	NewGame(ctx context.Context, sessionID uuid.UUID) error
	Snapshot(ctx context.Context) (Snapshot, error)
	PlayCard(ctx context.Context, c card.Card) (bool, error)
	AIMove(ctx context.Context) (bool, error)
	Undo(ctx context.Context) error
	FinalizeSelection(ctx context.Context, gameType card.GameType, sidePile [2]card.Card) (bool, error)
	UpdateGameType(ctx context.Context, gameType card.GameType) error
	RefreshAnalysis(ctx context.Context) error
	RefreshMaxPoints(ctx context.Context) error
	BestSelections(ctx context.Context) ([]Suggestion, error)
	AnalyzeMoves(ctx context.Context) ([]MoveAnalysis, error)
}

// PlayedCard is one (card, player) pair of a trick.
type PlayedCard struct {
	Card   card.Card   `json:"card"`
	Player card.Player `json:"player"`
}

// HistoryEntry is one prior play. Delta and Value are filled in once the
// engine has analysed the move.
type HistoryEntry struct {
	Card   card.Card   `json:"card"`
	Player card.Player `json:"player"`
	Delta  *int        `json:"delta,omitempty"`
	Value  *int        `json:"value,omitempty"`
}

// Snapshot is a read of the engine state. It is a value: a fresh one is
// produced on every query and it is never mutated afterwards.
type Snapshot struct {
	Phase           card.Phase     `json:"phase"`
	GameType        card.GameType  `json:"game_type"`
	CurrentPlayer   card.Player    `json:"current_player"`
	Hand            []card.Card    `json:"hand"`
	LeftCards       []card.Card    `json:"left_cards"`
	RightCards      []card.Card    `json:"right_cards"`
	SidePile        []card.Card    `json:"side_pile"`
	Trick           []PlayedCard   `json:"trick"`
	LastTrickID     string         `json:"last_trick_id,omitempty"`
	LastTrick       []PlayedCard   `json:"last_trick,omitempty"`
	LastTrickWinner card.Player    `json:"last_trick_winner,omitempty"`
	DeclarerPoints  int            `json:"declarer_points"`
	TeamPoints      int            `json:"team_points"`
	Legal           []card.Card    `json:"legal"`
	History         []HistoryEntry `json:"history"`
	GameOver        bool           `json:"game_over"`
	Winner          string         `json:"winner,omitempty"`
	MaxPoints       *int           `json:"max_points,omitempty"`
}

// HumanToMove reports whether the engine is waiting for the human.
func (s Snapshot) HumanToMove() bool {
	return !s.GameOver && s.Phase == card.PhasePlaying && s.CurrentPlayer == card.Human
}

// IsLegal reports whether c is in the legal move set.
func (s Snapshot) IsLegal(c card.Card) bool {
	return card.Contains(s.Legal, c)
}

// DeclarerWon classifies the result. The engine's Winner is authoritative;
// without one the declarer wins on strictly more points.
func (s Snapshot) DeclarerWon() bool {
	if s.Winner != "" {
		return s.Winner == WinnerDeclarer
	}
	return s.DeclarerPoints > s.TeamPoints
}

// WinnerDeclarer is the Winner value the engine reports for a declarer win.
const WinnerDeclarer = "Declarer"

// Suggestion is one advisory outcome of the best-selection analysis.
type Suggestion struct {
	GameType card.GameType `json:"game_type"`
	Win      bool          `json:"win"`
	Value    float64       `json:"value"`
	SidePile [2]card.Card  `json:"side_pile"`
}

// MoveAnalysis rates one legal card against the optimal choice.
type MoveAnalysis struct {
	Card  card.Card `json:"card"`
	Delta int       `json:"delta"`
	Best  bool      `json:"best"`
}
