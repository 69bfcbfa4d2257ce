package card

import (
	"fmt"
	"strings"
)

// GameType is the contract chosen before play.
type GameType string

const (
	GameClubs    GameType = "Clubs"
	GameSpades   GameType = "Spades"
	GameHearts   GameType = "Hearts"
	GameDiamonds GameType = "Diamonds"
	GameGrand    GameType = "Grand"
	GameNull     GameType = "Null"
)

// GameTypes lists all contracts in selection order.
var GameTypes = []GameType{GameClubs, GameSpades, GameHearts, GameDiamonds, GameGrand, GameNull}

// ParseGameType reads a contract name, case-insensitively.
func ParseGameType(s string) (GameType, error) {
	for _, gt := range GameTypes {
		if strings.EqualFold(string(gt), strings.TrimSpace(s)) {
			return gt, nil
		}
	}
	return "", fmt.Errorf("invalid game type %q", s)
}

// TrumpSuit returns the trump suit for suit contracts.
func (g GameType) TrumpSuit() (Suit, bool) {
	switch g {
	case GameClubs:
		return Clubs, true
	case GameSpades:
		return Spades, true
	case GameHearts:
		return Hearts, true
	case GameDiamonds:
		return Diamonds, true
	default:
		return 0, false
	}
}

// JacksTrump reports whether jacks form the top trumps.
func (g GameType) JacksTrump() bool {
	return g != GameNull
}

// Next cycles to the following contract.
func (g GameType) Next() GameType {
	for i, gt := range GameTypes {
		if gt == g {
			return GameTypes[(i+1)%len(GameTypes)]
		}
	}
	return GameTypes[0]
}
