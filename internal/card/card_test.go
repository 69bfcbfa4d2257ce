package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	c, err := Parse("CJ")
	require.NoError(t, err)
	assert.Equal(t, New(Clubs, Jack), c)

	c, err = Parse("h10")
	require.NoError(t, err)
	assert.Equal(t, "HT", c.String())
	assert.Equal(t, "10", c.Rank.Label())

	_, err = Parse("X7")
	assert.Error(t, err)
	_, err = Parse("C1")
	assert.Error(t, err)
	_, err = Parse("")
	assert.Error(t, err)
}

func TestParseList(t *testing.T) {
	cards, err := ParseList("[CJ SA  D7]")
	require.NoError(t, err)
	assert.Equal(t, "CJ SA D7", Join(cards))

	cards, err = ParseList("  ")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestDeckPoints(t *testing.T) {
	deck := Deck()
	assert.Len(t, deck, 32)
	assert.Equal(t, 120, Points(deck))

	seen := make(map[Card]bool)
	for _, c := range deck {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestRemove(t *testing.T) {
	hand := []Card{MustParse("CJ"), MustParse("SA"), MustParse("D7")}
	out := Remove(hand, MustParse("SA"))
	assert.Equal(t, "CJ D7", Join(out))
	assert.Len(t, hand, 3)
	assert.Equal(t, -1, IndexOf(out, MustParse("SA")))
}

func TestTextEncoding(t *testing.T) {
	type payload struct {
		Card   Card   `json:"card"`
		Player Player `json:"player"`
	}
	data, err := json.Marshal(payload{Card: MustParse("HT"), Player: AILeft})
	require.NoError(t, err)
	assert.JSONEq(t, `{"card":"HT","player":"L"}`, string(data))

	var back payload
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, MustParse("HT"), back.Card)
	assert.Equal(t, AILeft, back.Player)
}

func TestPlayerRotation(t *testing.T) {
	assert.Equal(t, AILeft, Human.Next())
	assert.Equal(t, AIRight, AILeft.Next())
	assert.Equal(t, Human, AIRight.Next())
	assert.True(t, AIRight.IsAI())
	assert.False(t, Human.IsAI())
}

func TestGameType(t *testing.T) {
	gt, err := ParseGameType("grand")
	require.NoError(t, err)
	assert.Equal(t, GameGrand, gt)

	suit, ok := GameHearts.TrumpSuit()
	assert.True(t, ok)
	assert.Equal(t, Hearts, suit)

	_, ok = GameNull.TrumpSuit()
	assert.False(t, ok)
	assert.False(t, GameNull.JacksTrump())
	assert.Equal(t, GameClubs, GameNull.Next())
}
