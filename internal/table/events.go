package table

import (
	"errors"
	"fmt"

	"github.com/skatdesk/skatdesk/internal/card"
	"go.uber.org/zap"
)

// EventKind names a human input.
type EventKind string

const (
	EventSelectCard      EventKind = "select_card"
	EventSelectGameType  EventKind = "select_game_type"
	EventCycleGameType   EventKind = "cycle_game_type"
	EventBestSelection   EventKind = "best_selection"
	EventApplySuggestion EventKind = "apply_suggestion"
	EventFinalize        EventKind = "finalize"
	EventHint            EventKind = "hint"
	EventUndo            EventKind = "undo"
	EventNewGame         EventKind = "new_game"
	EventToggleReveal    EventKind = "toggle_reveal"
)

// Event is one discrete human input. Card is used by EventSelectCard,
// GameType by EventSelectGameType and Index by EventApplySuggestion.
type Event struct {
	Kind     EventKind
	Card     card.Card
	GameType card.GameType
	Index    int
}

func (e Event) String() string {
	switch e.Kind {
	case EventSelectCard:
		return fmt.Sprintf("%s %s", e.Kind, e.Card)
	case EventSelectGameType:
		return fmt.Sprintf("%s %s", e.Kind, e.GameType)
	case EventApplySuggestion:
		return fmt.Sprintf("%s %d", e.Kind, e.Index)
	default:
		return string(e.Kind)
	}
}

// Dispatch posts ev onto the controller's scheduler. It is safe to call from
// any goroutine. Failures are shown as a notice.
func (c *Controller) Dispatch(ev Event) {
	c.sched.Post(func() {
		if err := c.Handle(ev); err != nil {
			c.report(ev, err)
		}
	})
}

// Handle applies ev. Selecting a card toggles it during selection and plays
// it during play.
func (c *Controller) Handle(ev Event) error {
	c.notice("")
	switch ev.Kind {
	case EventSelectCard:
		if c.phase == card.PhaseSelection {
			return c.ToggleCard(ev.Card)
		}
		return c.PlayCard(ev.Card)
	case EventSelectGameType:
		return c.SetGameType(ev.GameType)
	case EventCycleGameType:
		return c.CycleGameType()
	case EventBestSelection:
		return c.ComputeBestSelection()
	case EventApplySuggestion:
		return c.ApplySuggestion(ev.Index)
	case EventFinalize:
		return c.Finalize()
	case EventHint:
		return c.RequestHint()
	case EventUndo:
		return c.Undo()
	case EventNewGame:
		return c.NewGame()
	case EventToggleReveal:
		return c.ToggleReveal()
	default:
		return fmt.Errorf("unknown event %q", ev.Kind)
	}
}

var rejections = []error{
	ErrNotYourTurn, ErrIllegalMove, ErrBusy, ErrWrongPhase, ErrSelectionIncomplete,
	ErrFinalizeRejected, ErrUnknownCard, ErrNoSuggestion,
}

func (c *Controller) report(ev Event, err error) {
	for _, r := range rejections {
		if errors.Is(err, r) {
			c.logger.Info("input rejected", zap.Stringer("event", ev), zap.Error(err))
			c.notice(err.Error())
			return
		}
	}
	c.logger.Warn("input failed", zap.Stringer("event", ev), zap.Error(err))
	c.notice(err.Error())
}
