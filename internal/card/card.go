package card

import (
	"fmt"
	"strings"
)

// Suit identifies one of the four suits of the 32-card deck.
type Suit int

const (
	Clubs Suit = iota
	Spades
	Hearts
	Diamonds
)

var suitCodes = [...]string{"C", "S", "H", "D"}

// Code returns the single-letter suit code used in card identifiers.
func (s Suit) Code() string {
	if s < Clubs || s > Diamonds {
		return "?"
	}
	return suitCodes[s]
}

// Symbol returns the suit glyph used by renderers.
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	default:
		return "?"
	}
}

func (s Suit) String() string {
	switch s {
	case Clubs:
		return "CLUBS"
	case Spades:
		return "SPADES"
	case Hearts:
		return "HEARTS"
	case Diamonds:
		return "DIAMONDS"
	default:
		return fmt.Sprintf("SUIT_%d", int(s))
	}
}

// Rank identifies a card rank, lowest first.
type Rank int

const (
	Seven Rank = iota
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankCodes = [...]string{"7", "8", "9", "T", "J", "Q", "K", "A"}

// Code returns the rank character used in card identifiers; ten is "T".
func (r Rank) Code() string {
	if r < Seven || r > Ace {
		return "?"
	}
	return rankCodes[r]
}

// Label returns the rank as printed on a card face ("10" for ten).
func (r Rank) Label() string {
	if r == Ten {
		return "10"
	}
	return r.Code()
}

// Points returns the card-point value of the rank.
func (r Rank) Points() int {
	switch r {
	case Ace:
		return 11
	case Ten:
		return 10
	case King:
		return 4
	case Queen:
		return 3
	case Jack:
		return 2
	default:
		return 0
	}
}

// Card is a single card identified by suit and rank.
type Card struct {
	Suit Suit
	Rank Rank
}

// New creates a card.
func New(s Suit, r Rank) Card {
	return Card{Suit: s, Rank: r}
}

// String returns the two-character identifier, e.g. "CJ" or "HT".
func (c Card) String() string {
	return c.Suit.Code() + c.Rank.Code()
}

// Points returns the card-point value.
func (c Card) Points() int {
	return c.Rank.Points()
}

// MarshalText encodes the card as its identifier.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card identifier.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse reads a card identifier such as "SA" or "DT". Lowercase input and "10" for ten are accepted.
func Parse(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if strings.HasSuffix(s, "10") {
		s = strings.TrimSuffix(s, "10") + "T"
	}
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	suit := -1
	for i, code := range suitCodes {
		if s[:1] == code {
			suit = i
			break
		}
	}
	rank := -1
	for i, code := range rankCodes {
		if s[1:] == code {
			rank = i
			break
		}
	}
	if suit < 0 || rank < 0 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	return Card{Suit: Suit(suit), Rank: Rank(rank)}, nil
}

// MustParse is Parse for literals; it panics on malformed input.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseList reads a whitespace separated list of identifiers. Surrounding brackets are ignored.
func ParseList(s string) ([]Card, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := Parse(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Deck returns the 32 cards in suit-major order.
func Deck() []Card {
	deck := make([]Card, 0, 32)
	for s := Clubs; s <= Diamonds; s++ {
		for r := Seven; r <= Ace; r++ {
			deck = append(deck, Card{Suit: s, Rank: r})
		}
	}
	return deck
}

// Contains reports whether c is in cards.
func Contains(cards []Card, c Card) bool {
	return IndexOf(cards, c) >= 0
}

// IndexOf returns the position of c in cards or -1.
func IndexOf(cards []Card, c Card) int {
	for i, x := range cards {
		if x == c {
			return i
		}
	}
	return -1
}

// Remove returns cards without c, preserving order. The input slice is not modified.
func Remove(cards []Card, c Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, x := range cards {
		if x != c {
			out = append(out, x)
		}
	}
	return out
}

// Points sums the card points of cards.
func Points(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

// Join formats cards as a space separated identifier list.
func Join(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// MustParseList is like ParseList but panics on error.
func MustParseList(s string) []Card {
	cards, err := ParseList(s)
	if err != nil {
		panic(err)
	}
	return cards
}
