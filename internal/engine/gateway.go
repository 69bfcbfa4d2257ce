package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/metrics"
	"go.uber.org/zap"
)

const (
	resultOK       = "ok"
	resultRejected = "rejected"
	resultError    = "error"
)

// Gateway is the typed wrapper the controller uses to reach the engine. It is
// the only caller of Engine: every call is logged, timed and counted, and
// snapshots are normalized before they are handed out.
type Gateway struct {
	engine Engine
	logger *zap.Logger
}

// NewGateway wraps an engine.
func NewGateway(e Engine, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		engine: e,
		logger: logger,
	}
}

func (g *Gateway) observe(command string, start time.Time, ok bool, err error) {
	result := resultOK
	switch {
	case err != nil:
		result = resultError
	case !ok:
		result = resultRejected
	}
	took := time.Since(start)
	metrics.Metrics.EngineCommand(command, result, took)
	if err != nil {
		g.logger.Warn("engine command failed",
			zap.String("command", command),
			zap.Duration("took", took),
			zap.Error(err),
		)
		return
	}
	g.logger.Debug("engine command",
		zap.String("command", command),
		zap.String("result", result),
		zap.Duration("took", took),
	)
}

// NewGame asks the engine to deal a fresh hand for the session.
func (g *Gateway) NewGame(ctx context.Context, sessionID uuid.UUID) error {
	start := time.Now()
	err := g.engine.NewGame(ctx, sessionID)
	g.observe("new_game", start, true, err)
	if err != nil {
		return fmt.Errorf("engine new_game: %w", err)
	}
	return nil
}

// Snapshot reads the current engine state. It has no side effects.
func (g *Gateway) Snapshot(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	snap, err := g.engine.Snapshot(ctx)
	g.observe("snapshot", start, true, err)
	if err != nil {
		return Snapshot{}, fmt.Errorf("engine snapshot: %w", err)
	}
	return g.normalize(snap), nil
}

// normalize enforces that only the human's turn carries a legal move set.
func (g *Gateway) normalize(snap Snapshot) Snapshot {
	if len(snap.Legal) > 0 && !snap.HumanToMove() {
		g.logger.Warn("engine reported legal moves outside the human's turn",
			zap.Stringer("current_player", snap.CurrentPlayer),
			zap.Int("legal", len(snap.Legal)),
		)
		snap.Legal = nil
	}
	return snap
}

// PlayCard plays c for the human. It reports false if the engine rejected the move.
func (g *Gateway) PlayCard(ctx context.Context, c card.Card) (bool, error) {
	start := time.Now()
	ok, err := g.engine.PlayCard(ctx, c)
	g.observe("play_card", start, ok, err)
	if err != nil {
		return false, fmt.Errorf("engine play_card %s: %w", c, err)
	}
	return ok, nil
}

// AIMove advances exactly one AI turn. False means it was not an AI's turn.
func (g *Gateway) AIMove(ctx context.Context) (bool, error) {
	start := time.Now()
	ok, err := g.engine.AIMove(ctx)
	g.observe("ai_move", start, ok, err)
	if err != nil {
		return false, fmt.Errorf("engine ai_move: %w", err)
	}
	return ok, nil
}

// Undo steps the engine back one ply.
func (g *Gateway) Undo(ctx context.Context) error {
	start := time.Now()
	err := g.engine.Undo(ctx)
	g.observe("undo", start, true, err)
	if err != nil {
		return fmt.Errorf("engine undo: %w", err)
	}
	return nil
}

// FinalizeSelection commits the contract and the two side-pile cards.
func (g *Gateway) FinalizeSelection(ctx context.Context, gameType card.GameType, sidePile [2]card.Card) (bool, error) {
	start := time.Now()
	ok, err := g.engine.FinalizeSelection(ctx, gameType, sidePile)
	g.observe("finalize_selection", start, ok, err)
	if err != nil {
		return false, fmt.Errorf("engine finalize_selection: %w", err)
	}
	return ok, nil
}

// UpdateGameType previews a contract before finalization.
func (g *Gateway) UpdateGameType(ctx context.Context, gameType card.GameType) error {
	start := time.Now()
	err := g.engine.UpdateGameType(ctx, gameType)
	g.observe("update_game_type", start, true, err)
	if err != nil {
		return fmt.Errorf("engine update_game_type %s: %w", gameType, err)
	}
	return nil
}

// RefreshAnalysis fills in history deltas; re-snapshot to observe them.
func (g *Gateway) RefreshAnalysis(ctx context.Context) error {
	start := time.Now()
	err := g.engine.RefreshAnalysis(ctx)
	g.observe("refresh_analysis", start, true, err)
	if err != nil {
		return fmt.Errorf("engine refresh_analysis: %w", err)
	}
	return nil
}

// RefreshMaxPoints populates Snapshot.MaxPoints; re-snapshot to observe it.
func (g *Gateway) RefreshMaxPoints(ctx context.Context) error {
	start := time.Now()
	err := g.engine.RefreshMaxPoints(ctx)
	g.observe("refresh_max_points", start, true, err)
	if err != nil {
		return fmt.Errorf("engine refresh_max_points: %w", err)
	}
	return nil
}

// BestSelections returns ordered advisory outcomes for the selection phase.
func (g *Gateway) BestSelections(ctx context.Context) ([]Suggestion, error) {
	start := time.Now()
	out, err := g.engine.BestSelections(ctx)
	g.observe("best_selections", start, true, err)
	if err != nil {
		return nil, fmt.Errorf("engine best_selections: %w", err)
	}
	return out, nil
}

// AnalyzeMoves rates each currently legal card.
func (g *Gateway) AnalyzeMoves(ctx context.Context) ([]MoveAnalysis, error) {
	start := time.Now()
	out, err := g.engine.AnalyzeMoves(ctx)
	g.observe("analyze_moves", start, true, err)
	if err != nil {
		return nil, fmt.Errorf("engine analyze_moves: %w", err)
	}
	return out, nil
}
