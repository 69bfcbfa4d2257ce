package table

import (
	"time"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/render"
)

// Timing holds the presentation delays. None of them is a computation budget.
type Timing struct {
	Settle           time.Duration
	CollectPause     time.Duration
	AIThink          time.Duration
	Reinvoke         time.Duration
	Entrance         time.Duration
	Collection       time.Duration
	AnalysisDebounce time.Duration
}

// DefaultTiming returns the standard table pacing.
func DefaultTiming() Timing {
	return Timing{
		Settle:           1000 * time.Millisecond,
		CollectPause:     200 * time.Millisecond,
		AIThink:          800 * time.Millisecond,
		Reinvoke:         50 * time.Millisecond,
		Entrance:         300 * time.Millisecond,
		Collection:       500 * time.Millisecond,
		AnalysisDebounce: 300 * time.Millisecond,
	}
}

// DefaultUndoMaxSteps bounds the engine undo calls of one undo request.
const DefaultUndoMaxSteps = 20

// Options configures a Controller.
type Options struct {
	Timing          Timing
	UndoMaxSteps    int
	DefaultGameType card.GameType
	CardMode        render.Mode
	Reveal          bool
	// TranscriptDir, when set, receives a transcript of every finished hand.
	TranscriptDir string
}

// DefaultOptions returns options with the standard timing.
func DefaultOptions() Options {
	return Options{
		Timing:          DefaultTiming(),
		UndoMaxSteps:    DefaultUndoMaxSteps,
		DefaultGameType: card.GameClubs,
		CardMode:        render.ModeFull,
	}
}
