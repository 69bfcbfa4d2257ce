package table

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"github.com/skatdesk/skatdesk/internal/engine/sim"
	"github.com/skatdesk/skatdesk/internal/render"
	"github.com/skatdesk/skatdesk/internal/sched"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// spyEngine counts commands and lets tests bend the engine's answers.
type spyEngine struct {
	*sim.Engine

	mutate         func(*engine.Snapshot)
	failAI         bool
	rejectFinalize bool
	analysisErr    error
	bestErr        error

	plays, aiMoves, undos, finalizes, analyses int
}

func (s *spyEngine) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	snap, err := s.Engine.Snapshot(ctx)
	if err == nil && s.mutate != nil {
		s.mutate(&snap)
	}
	return snap, err
}

func (s *spyEngine) PlayCard(ctx context.Context, c card.Card) (bool, error) {
	s.plays++
	return s.Engine.PlayCard(ctx, c)
}

func (s *spyEngine) AIMove(ctx context.Context) (bool, error) {
	s.aiMoves++
	if s.failAI {
		return false, nil
	}
	return s.Engine.AIMove(ctx)
}

func (s *spyEngine) Undo(ctx context.Context) error {
	s.undos++
	return s.Engine.Undo(ctx)
}

func (s *spyEngine) FinalizeSelection(ctx context.Context, gt card.GameType, pile [2]card.Card) (bool, error) {
	s.finalizes++
	if s.rejectFinalize {
		return false, nil
	}
	return s.Engine.FinalizeSelection(ctx, gt, pile)
}

func (s *spyEngine) RefreshAnalysis(ctx context.Context) error {
	s.analyses++
	if s.analysisErr != nil {
		return s.analysisErr
	}
	return s.Engine.RefreshAnalysis(ctx)
}

func (s *spyEngine) BestSelections(ctx context.Context) ([]engine.Suggestion, error) {
	if s.bestErr != nil {
		return nil, s.bestErr
	}
	return s.Engine.BestSelections(ctx)
}

var errEngineDown = errors.New("engine down")

// weakDeal leaves the human without high trumps, so the AI takes the first
// trick and the human plays last in the second.
func weakDeal() sim.Deal {
	return sim.Deal{
		Human: card.MustParseList("C7 C8 C9 S7 S8 S9 H7 H8 H9 D7 D8 D9"),
		Left:  card.MustParseList("CJ SJ HJ DJ CA CT CK CQ SA ST"),
		Right: card.MustParseList("SQ SK HT HQ HK HA DT DQ DK DA"),
	}
}

type harness struct {
	t     *testing.T
	clock *sched.Manual
	eng   *spyEngine
	gw    *engine.Gateway
	rec   *render.Recorder
	ctl   *Controller
}

func newHarness(t *testing.T, deal sim.Deal, mod ...func(*Options)) *harness {
	t.Helper()
	opts := DefaultOptions()
	for _, m := range mod {
		m(&opts)
	}
	eng := &spyEngine{Engine: sim.New(zap.NewNop(), sim.WithDeal(deal))}
	gw := engine.NewGateway(eng, zap.NewNop())
	rec := render.NewRecorder()
	clock := sched.NewManual()
	h := &harness{
		t:     t,
		clock: clock,
		eng:   eng,
		gw:    gw,
		rec:   rec,
		ctl:   New(gw, rec, clock, zap.NewNop(), opts),
	}
	require.NoError(t, h.ctl.NewGame())
	return h
}

// start discards the two given cards, plays clubs and lets the loop settle.
func (h *harness) start(a, b string) {
	h.t.Helper()
	require.NoError(h.t, h.ctl.ToggleCard(card.MustParse(a)))
	require.NoError(h.t, h.ctl.ToggleCard(card.MustParse(b)))
	require.NoError(h.t, h.ctl.Finalize())
	h.idle()
}

func (h *harness) idle() {
	h.clock.RunUntilIdle(time.Minute)
}

func (h *harness) snapshot() engine.Snapshot {
	h.t.Helper()
	snap, err := h.gw.Snapshot(context.Background())
	require.NoError(h.t, err)
	return snap
}

func handCards(tokens []render.Token) []card.Card {
	out := make([]card.Card, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Card
	}
	return out
}

// collections counts collection transitions, which fade to opacity zero.
func collections(rec *render.Recorder) int {
	n := 0
	for _, op := range rec.Log() {
		if op.Kind == render.OpMoveTrick && op.Motion != nil && op.Motion.Opacity == 0 {
			n++
		}
	}
	return n
}
