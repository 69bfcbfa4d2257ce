package render

import (
	"sort"
	"sync"
)

// TrickCard is a token currently shown in a trick slot.
type TrickCard struct {
	Token  Token
	At     Point
	Motion *Motion
}

// Board is a Sink that keeps the latest picture of the table. Terminal and
// web front ends draw from it; it is safe for concurrent use.
type Board struct {
	mu       sync.RWMutex
	cards    map[Area][]Token
	faceDown map[Area]int
	texts    map[Region]string
	trick    map[int]TrickCard
	version  uint64
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{
		cards:    make(map[Area][]Token),
		faceDown: make(map[Area]int),
		texts:    make(map[Region]string),
		trick:    make(map[int]TrickCard),
	}
}

func (b *Board) Cards(area Area, tokens []Token) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards[area] = append([]Token(nil), tokens...)
	delete(b.faceDown, area)
	b.version++
}

func (b *Board) FaceDown(area Area, count int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faceDown[area] = count
	delete(b.cards, area)
	b.version++
}

func (b *Board) Text(region Region, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if content == "" {
		delete(b.texts, region)
	} else {
		b.texts[region] = content
	}
	b.version++
}

func (b *Board) PlaceTrick(slot int, tok Token, at Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trick[slot] = TrickCard{Token: tok, At: at}
	b.version++
}

func (b *Board) MoveTrick(slot int, m Motion) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tc, ok := b.trick[slot]
	if !ok {
		return
	}
	tc.Motion = &m
	b.trick[slot] = tc
	b.version++
}

func (b *Board) ClearTrick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.trick = make(map[int]TrickCard)
	b.version++
}

// Version increases on every change.
func (b *Board) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Tokens returns the face-up tokens of an area.
func (b *Board) Tokens(area Area) []Token {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Token(nil), b.cards[area]...)
}

// FaceDownCount returns the number of face-down tokens in an area.
func (b *Board) FaceDownCount(area Area) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.faceDown[area]
}

// TextOf returns the content of a region.
func (b *Board) TextOf(region Region) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.texts[region]
}

// Trick returns the trick tokens ordered by slot.
func (b *Board) Trick() []TrickCard {
	b.mu.RLock()
	defer b.mu.RUnlock()
	slots := make([]int, 0, len(b.trick))
	for s := range b.trick {
		slots = append(slots, s)
	}
	sort.Ints(slots)
	out := make([]TrickCard, 0, len(slots))
	for _, s := range slots {
		out = append(out, b.trick[s])
	}
	return out
}

// Ops returns the calls that rebuild the current picture on an empty sink.
// Trick tokens are placed at their transition target.
func (b *Board) Ops() []Op {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var ops []Op
	for _, area := range []Area{AreaHand, AreaLeft, AreaRight, AreaSidePile} {
		if tokens, ok := b.cards[area]; ok {
			ops = append(ops, Op{Kind: OpCards, Area: area, Tokens: append([]Token(nil), tokens...)})
		}
		if n, ok := b.faceDown[area]; ok {
			ops = append(ops, Op{Kind: OpFaceDown, Area: area, Count: n})
		}
	}
	for _, region := range Regions {
		if text, ok := b.texts[region]; ok {
			ops = append(ops, Op{Kind: OpText, Region: region, Text: text})
		}
	}
	slots := make([]int, 0, len(b.trick))
	for s := range b.trick {
		slots = append(slots, s)
	}
	sort.Ints(slots)
	for _, s := range slots {
		tc := b.trick[s]
		at := tc.At
		if tc.Motion != nil {
			if tc.Motion.Opacity == 0 {
				continue
			}
			at = tc.Motion.To
		}
		tok := tc.Token
		ops = append(ops, Op{Kind: OpPlaceTrick, Slot: s, Token: &tok, At: &at})
	}
	return ops
}
