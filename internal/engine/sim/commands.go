package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"go.uber.org/zap"
)

// Undo restores the state before the last play. It is a no-op when nothing
// has been played since finalization.
func (e *Engine) Undo(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.game(); err != nil {
		return err
	}
	if len(e.undo) == 0 {
		return nil
	}
	e.st = e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	return nil
}

// FinalizeSelection moves the two side-pile cards out of the human's hand and
// starts play with the human leading.
func (e *Engine) FinalizeSelection(ctx context.Context, gameType card.GameType, sidePile [2]card.Card) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return false, err
	}
	if st.phase != card.PhaseSelection {
		return false, nil
	}
	if sidePile[0] == sidePile[1] {
		return false, nil
	}
	hand := st.hands[card.Human]
	if !card.Contains(hand, sidePile[0]) || !card.Contains(hand, sidePile[1]) {
		return false, nil
	}
	if _, err := card.ParseGameType(string(gameType)); err != nil {
		return false, nil
	}

	hand = card.Remove(hand, sidePile[0])
	hand = card.Remove(hand, sidePile[1])
	st.hands[card.Human] = hand
	st.sidePile = []card.Card{sidePile[0], sidePile[1]}
	st.gameType = gameType
	st.declarerPoints = card.Points(st.sidePile)
	st.phase = card.PhasePlaying
	st.current = card.Human

	e.logger.Info("sim engine started play",
		zap.String("game_type", string(gameType)),
		zap.String("side_pile", card.Join(st.sidePile)),
	)
	return true, nil
}

// UpdateGameType previews a contract during selection.
func (e *Engine) UpdateGameType(ctx context.Context, gameType card.GameType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return err
	}
	if _, err := card.ParseGameType(string(gameType)); err != nil {
		return err
	}
	if st.phase != card.PhaseSelection {
		return fmt.Errorf("game type is fixed once play has started")
	}
	st.gameType = gameType
	return nil
}

// RefreshAnalysis fills in deltas for history entries that have none. The
// running value is the declarer's points at the time of the refresh.
func (e *Engine) RefreshAnalysis(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return err
	}
	e.refreshes++
	for i := range st.history {
		if st.history[i].Delta != nil {
			continue
		}
		delta, value := 0, st.declarerPoints
		st.history[i].Delta = &delta
		st.history[i].Value = &value
	}
	return nil
}

// Refreshes reports how many analysis refreshes the engine has served.
func (e *Engine) Refreshes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refreshes
}

// RefreshMaxPoints computes the best total the declarer can still reach.
func (e *Engine) RefreshMaxPoints(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return err
	}
	reachable := 120 - st.teamPoints
	st.maxPoints = &reachable
	return nil
}

// BestSelections rates every suit and grand contract for the current hand,
// discarding the two cheapest non-trumps. Best first.
func (e *Engine) BestSelections(ctx context.Context) ([]engine.Suggestion, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return nil, err
	}
	if st.phase != card.PhaseSelection {
		return nil, fmt.Errorf("best selections are only available during selection")
	}

	hand := st.hands[card.Human]
	var out []engine.Suggestion
	for _, gt := range card.GameTypes {
		if gt == card.GameNull {
			continue
		}
		pile, ok := cheapestDiscard(gt, hand)
		if !ok {
			continue
		}
		kept := card.Remove(card.Remove(hand, pile[0]), pile[1])
		value := card.Points(pile[:]) + card.Points(kept)
		for _, c := range kept {
			if group(gt, c) == trumpGroup {
				value += 6
			}
		}
		out = append(out, engine.Suggestion{
			GameType: gt,
			Win:      value > 60,
			Value:    float64(value),
			SidePile: pile,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out, nil
}

func cheapestDiscard(gt card.GameType, hand []card.Card) ([2]card.Card, bool) {
	var candidates []card.Card
	for _, c := range hand {
		if group(gt, c) != trumpGroup {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) < 2 {
		candidates = append([]card.Card(nil), hand...)
	}
	if len(candidates) < 2 {
		return [2]card.Card{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := candidates[i].Points(), candidates[j].Points()
		if pi != pj {
			return pi < pj
		}
		return candidates[i].Rank < candidates[j].Rank
	})
	return [2]card.Card{candidates[0], candidates[1]}, true
}

// AnalyzeMoves rates the human's legal cards. The best card takes the trick
// with the most points if it can, otherwise it throws the cheapest card.
func (e *Engine) AnalyzeMoves(ctx context.Context) ([]engine.MoveAnalysis, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, err := e.game()
	if err != nil {
		return nil, err
	}
	if st.phase != card.PhasePlaying || st.current != card.Human {
		return nil, nil
	}
	legal := legalMoves(st, card.Human)
	if len(legal) == 0 {
		return nil, nil
	}

	best := pickBest(st, legal)
	out := make([]engine.MoveAnalysis, 0, len(legal))
	for _, c := range legal {
		delta := c.Points() - best.Points()
		if delta > 0 {
			delta = -delta
		}
		out = append(out, engine.MoveAnalysis{Card: c, Delta: delta, Best: c == best})
	}
	return out, nil
}

func pickBest(st *state, legal []card.Card) card.Card {
	if len(st.trick) > 0 {
		led := group(st.gameType, st.trick[0].Card)
		top := -1
		for _, pc := range st.trick {
			if s := strength(st.gameType, led, pc.Card); s > top {
				top = s
			}
		}
		var winning []card.Card
		for _, c := range legal {
			if strength(st.gameType, led, c) > top {
				winning = append(winning, c)
			}
		}
		if len(winning) > 0 {
			sort.SliceStable(winning, func(i, j int) bool {
				return winning[i].Points() > winning[j].Points()
			})
			return winning[0]
		}
	}
	cheapest := legal[0]
	for _, c := range legal[1:] {
		if c.Points() < cheapest.Points() {
			cheapest = c
		}
	}
	return cheapest
}
