package sim

import (
	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
)

// trumpGroup is the pseudo-suit shared by all trumps.
const trumpGroup = -1

// group returns the suit a card belongs to for follow-suit purposes.
func group(gt card.GameType, c card.Card) int {
	if gt.JacksTrump() && c.Rank == card.Jack {
		return trumpGroup
	}
	if trump, ok := gt.TrumpSuit(); ok && c.Suit == trump {
		return trumpGroup
	}
	return int(c.Suit)
}

// legalMoves returns the cards p may play: cards of the led group if it holds
// any, otherwise its whole hand.
func legalMoves(st *state, p card.Player) []card.Card {
	hand := st.hands[p]
	if len(st.trick) == 0 {
		return append([]card.Card(nil), hand...)
	}
	led := group(st.gameType, st.trick[0].Card)
	var follow []card.Card
	for _, c := range hand {
		if group(st.gameType, c) == led {
			follow = append(follow, c)
		}
	}
	if len(follow) == 0 {
		return append([]card.Card(nil), hand...)
	}
	return follow
}

var (
	suitOrder = map[card.Rank]int{
		card.Seven: 0, card.Eight: 1, card.Nine: 2, card.Queen: 3,
		card.King: 4, card.Ten: 5, card.Ace: 6,
	}
	nullOrder = map[card.Rank]int{
		card.Seven: 0, card.Eight: 1, card.Nine: 2, card.Ten: 3,
		card.Jack: 4, card.Queen: 5, card.King: 6, card.Ace: 7,
	}
)

// strength orders the cards of a trick. Cards that neither follow the led
// group nor trump score -1.
func strength(gt card.GameType, led int, c card.Card) int {
	g := group(gt, c)
	switch {
	case g == trumpGroup && c.Rank == card.Jack:
		// Clubs jack is the highest trump.
		return 200 + (3 - int(c.Suit))
	case g == trumpGroup:
		return 100 + suitOrder[c.Rank]
	case g != led:
		return -1
	case gt == card.GameNull:
		return nullOrder[c.Rank]
	default:
		return suitOrder[c.Rank]
	}
}

func trickWinner(gt card.GameType, trick []engine.PlayedCard) card.Player {
	led := group(gt, trick[0].Card)
	best := 0
	bestStrength := strength(gt, led, trick[0].Card)
	for i := 1; i < len(trick); i++ {
		if s := strength(gt, led, trick[i].Card); s > bestStrength {
			best, bestStrength = i, s
		}
	}
	return trick[best].Player
}
