package render

// OpKind names a Sink call.
type OpKind string

const (
	OpCards      OpKind = "cards"
	OpFaceDown   OpKind = "face_down"
	OpText       OpKind = "text"
	OpPlaceTrick OpKind = "place_trick"
	OpMoveTrick  OpKind = "move_trick"
	OpClearTrick OpKind = "clear_trick"
)

// Op is one Sink call as data, for logging, replay and remote sinks.
type Op struct {
	Kind   OpKind  `json:"op"`
	Area   Area    `json:"area,omitempty"`
	Region Region  `json:"region,omitempty"`
	Tokens []Token `json:"tokens,omitempty"`
	Count  int     `json:"count,omitempty"`
	Text   string  `json:"text,omitempty"`
	Slot   int     `json:"slot,omitempty"`
	Token  *Token  `json:"token,omitempty"`
	At     *Point  `json:"at,omitempty"`
	Motion *Motion `json:"motion,omitempty"`
}

// OpFunc adapts a function receiving ops to a Sink.
type OpFunc func(Op)

func (f OpFunc) Cards(area Area, tokens []Token) {
	f(Op{Kind: OpCards, Area: area, Tokens: append([]Token(nil), tokens...)})
}

func (f OpFunc) FaceDown(area Area, count int) {
	f(Op{Kind: OpFaceDown, Area: area, Count: count})
}

func (f OpFunc) Text(region Region, content string) {
	f(Op{Kind: OpText, Region: region, Text: content})
}

func (f OpFunc) PlaceTrick(slot int, tok Token, at Point) {
	f(Op{Kind: OpPlaceTrick, Slot: slot, Token: &tok, At: &at})
}

func (f OpFunc) MoveTrick(slot int, m Motion) {
	f(Op{Kind: OpMoveTrick, Slot: slot, Motion: &m})
}

func (f OpFunc) ClearTrick() {
	f(Op{Kind: OpClearTrick})
}

// Apply replays op onto s.
func Apply(s Sink, op Op) {
	switch op.Kind {
	case OpCards:
		s.Cards(op.Area, op.Tokens)
	case OpFaceDown:
		s.FaceDown(op.Area, op.Count)
	case OpText:
		s.Text(op.Region, op.Text)
	case OpPlaceTrick:
		if op.Token != nil && op.At != nil {
			s.PlaceTrick(op.Slot, *op.Token, *op.At)
		}
	case OpMoveTrick:
		if op.Motion != nil {
			s.MoveTrick(op.Slot, *op.Motion)
		}
	case OpClearTrick:
		s.ClearTrick()
	}
}

type multi []Sink

// Multi fans every call out to all sinks in order.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

func (m multi) Cards(area Area, tokens []Token) {
	for _, s := range m {
		s.Cards(area, tokens)
	}
}

func (m multi) FaceDown(area Area, count int) {
	for _, s := range m {
		s.FaceDown(area, count)
	}
}

func (m multi) Text(region Region, content string) {
	for _, s := range m {
		s.Text(region, content)
	}
}

func (m multi) PlaceTrick(slot int, tok Token, at Point) {
	for _, s := range m {
		s.PlaceTrick(slot, tok, at)
	}
}

func (m multi) MoveTrick(slot int, mo Motion) {
	for _, s := range m {
		s.MoveTrick(slot, mo)
	}
}

func (m multi) ClearTrick() {
	for _, s := range m {
		s.ClearTrick()
	}
}
