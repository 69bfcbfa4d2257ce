package card

import "fmt"

// Player identifies a seat at the table.
type Player int

const (
	NoPlayer Player = iota
	Human
	AILeft
	AIRight
)

var playerCodes = map[Player]string{
	NoPlayer: "",
	Human:    "D",
	AILeft:   "L",
	AIRight:  "R",
}

// Code returns the wire code: "D" (declarer, the human), "L" or "R".
func (p Player) Code() string {
	return playerCodes[p]
}

func (p Player) String() string {
	switch p {
	case Human:
		return "HUMAN"
	case AILeft:
		return "AI_LEFT"
	case AIRight:
		return "AI_RIGHT"
	case NoPlayer:
		return "NONE"
	default:
		return fmt.Sprintf("PLAYER_%d", int(p))
	}
}

// Label is the short human readable seat name.
func (p Player) Label() string {
	switch p {
	case Human:
		return "You"
	case AILeft:
		return "Left"
	case AIRight:
		return "Right"
	default:
		return "-"
	}
}

// IsAI reports whether the seat is computer controlled.
func (p Player) IsAI() bool {
	return p == AILeft || p == AIRight
}

// Next returns the seat that acts after p in clockwise order.
func (p Player) Next() Player {
	switch p {
	case Human:
		return AILeft
	case AILeft:
		return AIRight
	case AIRight:
		return Human
	default:
		return NoPlayer
	}
}

// ParsePlayer reads a wire code.
func ParsePlayer(code string) (Player, error) {
	for p, c := range playerCodes {
		if c == code {
			return p, nil
		}
	}
	return NoPlayer, fmt.Errorf("invalid player %q", code)
}

// MarshalText encodes the player as its wire code.
func (p Player) MarshalText() ([]byte, error) {
	return []byte(p.Code()), nil
}

// UnmarshalText decodes a wire code.
func (p *Player) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Phase is the engine-reported stage of a hand.
type Phase string

const (
	PhaseSelection Phase = "selection"
	PhasePlaying   Phase = "playing"
	PhaseGameOver  Phase = "game_over"
)
