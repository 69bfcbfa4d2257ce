// Package render defines the presentation contract of the table controller.
// A Sink is a leaf: it receives a view model and draws it, it never reads game
// state and returns nothing the controller consumes.
package render

import "github.com/skatdesk/skatdesk/internal/card"

// Area is a group of card tokens on the table.
type Area string

const (
	AreaHand     Area = "hand"
	AreaLeft     Area = "left"
	AreaRight    Area = "right"
	AreaSidePile Area = "side_pile"
)

// AreaOf returns the hand area belonging to a seat.
func AreaOf(p card.Player) Area {
	switch p {
	case card.AILeft:
		return AreaLeft
	case card.AIRight:
		return AreaRight
	default:
		return AreaHand
	}
}

// Region is a named text display.
type Region string

const (
	RegionStatus         Region = "status"
	RegionGameType       Region = "game_type"
	RegionSelection      Region = "selection"
	RegionSuggestions    Region = "suggestions"
	RegionDeclarerPoints Region = "declarer_points"
	RegionTeamPoints     Region = "team_points"
	RegionHistory        Region = "history"
	RegionAnalysis       Region = "analysis"
	RegionSummary        Region = "summary"
	RegionNotice         Region = "notice"
)

// Regions lists every region in display order.
var Regions = []Region{
	RegionStatus, RegionGameType, RegionSelection, RegionSuggestions,
	RegionDeclarerPoints, RegionTeamPoints, RegionHistory, RegionAnalysis,
	RegionSummary, RegionNotice,
}

// Mode selects how a card face is drawn.
type Mode string

const (
	ModeFull   Mode = "full"
	ModeSimple Mode = "simple"
)

// ParseMode reads a display mode, defaulting to full.
func ParseMode(s string) Mode {
	if Mode(s) == ModeSimple {
		return ModeSimple
	}
	return ModeFull
}

// Hint annotates a legal card after a hint request.
type Hint struct {
	Best  bool `json:"best"`
	Delta int  `json:"delta"`
}

// Token is one face-up card as the controller wants it shown.
type Token struct {
	Card     card.Card   `json:"card"`
	Owner    card.Player `json:"owner,omitempty"`
	Mode     Mode        `json:"mode"`
	Selected bool        `json:"selected,omitempty"`
	Playable bool        `json:"playable,omitempty"`
	Hint     *Hint       `json:"hint,omitempty"`
}

// Sink draws the table.
type Sink interface {
	// Cards replaces the tokens shown in an area.
	Cards(area Area, tokens []Token)
	// FaceDown replaces an area with count face-down tokens.
	FaceDown(area Area, count int)
	// Text replaces the content of a region. Empty content hides it.
	Text(region Region, content string)
	// PlaceTrick puts a token in a trick slot at a point, without transition.
	PlaceTrick(slot int, tok Token, at Point)
	// MoveTrick starts a transition of the token in a slot.
	MoveTrick(slot int, m Motion)
	// ClearTrick removes every trick token.
	ClearTrick()
}
