// Package sim is an in-process stand-in for the external engine. It knows just
// enough of the rules to drive the controller locally and in tests: dealing,
// follow-suit, trick resolution and card points. Its AI plays the first legal
// card and its analysis is a card-point heuristic, not a solver.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"go.uber.org/zap"
)

// Deal fixes the cards dealt by NewGame. Human holds twelve cards (ten plus the
// two that will go to the side pile), the opponents ten each.
type Deal struct {
	Human []card.Card
	Left  []card.Card
	Right []card.Card
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes random deals reproducible.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithDeal makes every NewGame deal the given cards.
func WithDeal(d Deal) Option {
	return func(e *Engine) {
		e.deal = &d
	}
}

// WithGameType sets the contract previewed at the start of selection.
func WithGameType(gt card.GameType) Option {
	return func(e *Engine) {
		e.defaultType = gt
	}
}

// Engine implements engine.Engine in memory.
type Engine struct {
	logger      *zap.Logger
	rng         *rand.Rand
	deal        *Deal
	defaultType card.GameType

	mu        sync.Mutex
	sessionID uuid.UUID
	st        *state
	undo      []*state
	refreshes int
}

// New creates an engine with no game in progress.
func New(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:      logger,
		rng:         rand.New(rand.NewSource(rand.Int63())),
		defaultType: card.GameClubs,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type state struct {
	phase          card.Phase
	gameType       card.GameType
	hands          map[card.Player][]card.Card
	sidePile       []card.Card
	trick          []engine.PlayedCard
	current        card.Player
	tricksPlayed   int
	lastTrickID    string
	lastTrick      []engine.PlayedCard
	lastWinner     card.Player
	declarerPoints int
	teamPoints     int
	history        []engine.HistoryEntry
	winner         string
	maxPoints      *int
}

func (s *state) clone() *state {
	c := *s
	c.hands = make(map[card.Player][]card.Card, len(s.hands))
	for p, h := range s.hands {
		c.hands[p] = append([]card.Card(nil), h...)
	}
	c.sidePile = append([]card.Card(nil), s.sidePile...)
	c.trick = append([]engine.PlayedCard(nil), s.trick...)
	c.lastTrick = append([]engine.PlayedCard(nil), s.lastTrick...)
	c.history = make([]engine.HistoryEntry, len(s.history))
	for i, h := range s.history {
		c.history[i] = engine.HistoryEntry{Card: h.Card, Player: h.Player, Delta: copyInt(h.Delta), Value: copyInt(h.Value)}
	}
	c.maxPoints = copyInt(s.maxPoints)
	return &c
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// NewGame deals a new hand and enters the selection phase.
func (e *Engine) NewGame(ctx context.Context, sessionID uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var human, left, right []card.Card
	if e.deal != nil {
		human = append([]card.Card(nil), e.deal.Human...)
		left = append([]card.Card(nil), e.deal.Left...)
		right = append([]card.Card(nil), e.deal.Right...)
	} else {
		deck := card.Deck()
		e.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
		human = deck[0:12]
		left = deck[12:22]
		right = deck[22:32]
	}
	if len(human) != 12 || len(left) != 10 || len(right) != 10 {
		return fmt.Errorf("invalid deal: %d/%d/%d cards", len(human), len(left), len(right))
	}
	sortHand(human)
	sortHand(left)
	sortHand(right)

	e.sessionID = sessionID
	e.undo = nil
	e.st = &state{
		phase:    card.PhaseSelection,
		gameType: e.defaultType,
		hands: map[card.Player][]card.Card{
			card.Human:   human,
			card.AILeft:  left,
			card.AIRight: right,
		},
		current: card.Human,
	}

	e.logger.Info("sim engine dealt new game",
		zap.String("session_id", sessionID.String()),
		zap.String("hand", card.Join(human)),
	)
	return nil
}

func sortHand(h []card.Card) {
	sort.Slice(h, func(i, j int) bool {
		if h[i].Suit != h[j].Suit {
			return h[i].Suit < h[j].Suit
		}
		return h[i].Rank > h[j].Rank
	})
}

func (e *Engine) game() (*state, error) {
	if e.st == nil {
		return nil, fmt.Errorf("no game in progress")
	}
	return e.st, nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return engine.Snapshot{}, err
	}
	c := st.clone()
	snap := engine.Snapshot{
		Phase:           c.phase,
		GameType:        c.gameType,
		CurrentPlayer:   c.current,
		Hand:            c.hands[card.Human],
		LeftCards:       c.hands[card.AILeft],
		RightCards:      c.hands[card.AIRight],
		SidePile:        c.sidePile,
		Trick:           c.trick,
		LastTrickID:     c.lastTrickID,
		LastTrick:       c.lastTrick,
		LastTrickWinner: c.lastWinner,
		DeclarerPoints:  c.declarerPoints,
		TeamPoints:      c.teamPoints,
		History:         c.history,
		GameOver:        c.phase == card.PhaseGameOver,
		Winner:          c.winner,
		MaxPoints:       c.maxPoints,
	}
	if c.phase == card.PhasePlaying && c.current == card.Human {
		snap.Legal = legalMoves(c, card.Human)
	}
	return snap, nil
}

// PlayCard plays c for the human if it is the human's turn and c is legal.
func (e *Engine) PlayCard(ctx context.Context, c card.Card) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return false, err
	}
	if st.phase != card.PhasePlaying || st.current != card.Human {
		return false, nil
	}
	if !card.Contains(legalMoves(st, card.Human), c) {
		return false, nil
	}
	e.play(c)
	return true, nil
}

// AIMove plays the first legal card for the AI seat to move.
func (e *Engine) AIMove(ctx context.Context) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return false, err
	}
	if st.phase != card.PhasePlaying || !st.current.IsAI() {
		return false, nil
	}
	legal := legalMoves(st, st.current)
	if len(legal) == 0 {
		return false, nil
	}
	e.play(legal[0])
	return true, nil
}

func (e *Engine) play(c card.Card) {
	e.undo = append(e.undo, e.st.clone())
	st := e.st
	player := st.current

	st.hands[player] = card.Remove(st.hands[player], c)
	st.trick = append(st.trick, engine.PlayedCard{Card: c, Player: player})
	st.history = append(st.history, engine.HistoryEntry{Card: c, Player: player})
	st.maxPoints = nil

	if len(st.trick) < 3 {
		st.current = player.Next()
		return
	}

	winner := trickWinner(st.gameType, st.trick)
	points := 0
	for _, pc := range st.trick {
		points += pc.Card.Points()
	}
	if winner == card.Human {
		st.declarerPoints += points
	} else {
		st.teamPoints += points
	}

	st.tricksPlayed++
	st.lastTrick = st.trick
	st.lastTrickID = fmt.Sprintf("%s-%d", e.sessionID.String()[:8], st.tricksPlayed)
	e.logger.Debug("trick resolved",
		zap.Stringer("winner", winner),
		zap.Int("points", points),
		zap.String("trick_id", st.lastTrickID),
	)
	st.lastWinner = winner
	st.trick = nil
	st.current = winner

	if len(st.hands[card.Human]) == 0 && len(st.hands[card.AILeft]) == 0 && len(st.hands[card.AIRight]) == 0 {
		st.phase = card.PhaseGameOver
		if st.declarerPoints > 60 {
			st.winner = engine.WinnerDeclarer
		} else {
			st.winner = "Opponents"
		}
	}
}

// FixedDeal is a known deal for demos and tests. The human holds all four
// jacks; discarding H7 and D7 leaves a strong clubs hand.
func FixedDeal() Deal {
	return Deal{
		Human: card.MustParseList("CJ SJ HJ DJ CA CT CK CQ SA ST H7 D7"),
		Left:  card.MustParseList("C9 C8 C7 SK SQ S9 S8 S7 HA HT"),
		Right: card.MustParseList("HK HQ H9 H8 DA DT DK DQ D9 D8"),
	}
}
