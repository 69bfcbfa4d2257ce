package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubEngine returns canned answers and records calls.
type stubEngine struct {
	snap     Snapshot
	playOK   bool
	err      error
	calls    []string
	lastCard card.Card
}

func (s *stubEngine) NewGame(ctx context.Context, id uuid.UUID) error {
	s.calls = append(s.calls, "new_game")
	return s.err
}

func (s *stubEngine) Snapshot(ctx context.Context) (Snapshot, error) {
	s.calls = append(s.calls, "snapshot")
	return s.snap, s.err
}

func (s *stubEngine) PlayCard(ctx context.Context, c card.Card) (bool, error) {
	s.calls = append(s.calls, "play_card")
	s.lastCard = c
	return s.playOK, s.err
}

func (s *stubEngine) AIMove(ctx context.Context) (bool, error) {
	s.calls = append(s.calls, "ai_move")
	return s.playOK, s.err
}

func (s *stubEngine) Undo(ctx context.Context) error {
	s.calls = append(s.calls, "undo")
	return s.err
}

func (s *stubEngine) FinalizeSelection(ctx context.Context, gt card.GameType, pile [2]card.Card) (bool, error) {
	s.calls = append(s.calls, "finalize_selection")
	return s.playOK, s.err
}

func (s *stubEngine) UpdateGameType(ctx context.Context, gt card.GameType) error {
	s.calls = append(s.calls, "update_game_type")
	return s.err
}

func (s *stubEngine) RefreshAnalysis(ctx context.Context) error {
	s.calls = append(s.calls, "refresh_analysis")
	return s.err
}

func (s *stubEngine) RefreshMaxPoints(ctx context.Context) error {
	s.calls = append(s.calls, "refresh_max_points")
	return s.err
}

func (s *stubEngine) BestSelections(ctx context.Context) ([]Suggestion, error) {
	s.calls = append(s.calls, "best_selections")
	return []Suggestion{{GameType: card.GameGrand, Win: true, Value: 71}}, s.err
}

func (s *stubEngine) AnalyzeMoves(ctx context.Context) ([]MoveAnalysis, error) {
	s.calls = append(s.calls, "analyze_moves")
	return []MoveAnalysis{{Card: card.MustParse("CJ"), Best: true}}, s.err
}

func TestGatewayClearsLegalSetOutsideHumanTurn(t *testing.T) {
	stub := &stubEngine{snap: Snapshot{
		Phase:         card.PhasePlaying,
		CurrentPlayer: card.AILeft,
		Legal:         []card.Card{card.MustParse("SA")},
	}}
	gw := NewGateway(stub, zap.NewNop())

	snap, err := gw.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Legal)
	assert.Len(t, stub.snap.Legal, 1, "engine value must not be mutated")
}

func TestGatewayKeepsLegalSetOnHumanTurn(t *testing.T) {
	stub := &stubEngine{snap: Snapshot{
		Phase:         card.PhasePlaying,
		CurrentPlayer: card.Human,
		Legal:         []card.Card{card.MustParse("SA"), card.MustParse("S7")},
	}}
	gw := NewGateway(stub, nil)

	snap, err := gw.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Legal, 2)
	assert.True(t, snap.IsLegal(card.MustParse("S7")))
	assert.True(t, snap.HumanToMove())
}

func TestGatewayRejectionIsNotAnError(t *testing.T) {
	stub := &stubEngine{playOK: false}
	gw := NewGateway(stub, zap.NewNop())

	ok, err := gw.PlayCard(context.Background(), card.MustParse("D7"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, card.MustParse("D7"), stub.lastCard)
}

func TestGatewayWrapsTransportErrors(t *testing.T) {
	boom := errors.New("connection reset")
	stub := &stubEngine{err: boom}
	gw := NewGateway(stub, zap.NewNop())
	ctx := context.Background()

	_, err := gw.Snapshot(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "engine snapshot")

	ok, err := gw.AIMove(ctx)
	assert.ErrorIs(t, err, boom)
	assert.False(t, ok)

	assert.ErrorIs(t, gw.Undo(ctx), boom)
	assert.ErrorIs(t, gw.RefreshAnalysis(ctx), boom)
	assert.ErrorIs(t, gw.RefreshMaxPoints(ctx), boom)
	assert.ErrorIs(t, gw.UpdateGameType(ctx, card.GameNull), boom)

	_, err = gw.BestSelections(ctx)
	assert.ErrorIs(t, err, boom)
	_, err = gw.AnalyzeMoves(ctx)
	assert.ErrorIs(t, err, boom)
}

func TestSnapshotDeclarerWon(t *testing.T) {
	assert.True(t, Snapshot{GameOver: true, Winner: "Declarer"}.DeclarerWon())
	assert.False(t, Snapshot{GameOver: true, Winner: "Opponents"}.DeclarerWon())
	assert.False(t, Snapshot{GameOver: true, Winner: "Opponents", DeclarerPoints: 90, TeamPoints: 30}.DeclarerWon())
	assert.True(t, Snapshot{GameOver: true, DeclarerPoints: 61, TeamPoints: 59}.DeclarerWon())
	assert.False(t, Snapshot{GameOver: true, DeclarerPoints: 60, TeamPoints: 60}.DeclarerWon())
}
