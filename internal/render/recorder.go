package render

import "sync"

// Recorder is a Board that also keeps every call it received.
type Recorder struct {
	*Board

	mu  sync.Mutex
	ops []Op
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{Board: NewBoard()}
}

func (r *Recorder) record(op Op) {
	r.mu.Lock()
	r.ops = append(r.ops, op)
	r.mu.Unlock()
	Apply(r.Board, op)
}

func (r *Recorder) Cards(area Area, tokens []Token) { OpFunc(r.record).Cards(area, tokens) }
func (r *Recorder) FaceDown(area Area, count int)   { OpFunc(r.record).FaceDown(area, count) }
func (r *Recorder) Text(region Region, content string) {
	OpFunc(r.record).Text(region, content)
}
func (r *Recorder) PlaceTrick(slot int, tok Token, at Point) {
	OpFunc(r.record).PlaceTrick(slot, tok, at)
}
func (r *Recorder) MoveTrick(slot int, m Motion) { OpFunc(r.record).MoveTrick(slot, m) }
func (r *Recorder) ClearTrick()                  { OpFunc(r.record).ClearTrick() }

// Log returns all recorded calls.
func (r *Recorder) Log() []Op {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Op(nil), r.ops...)
}

// Count returns how many calls of kind were recorded.
func (r *Recorder) Count(kind OpKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets the call log; the picture is kept.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
}
