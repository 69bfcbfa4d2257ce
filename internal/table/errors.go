package table

import "errors"

// Rejections. None of them is fatal; the UI shows them as a notice and the
// controller state is unchanged.
var (
	ErrNotYourTurn         = errors.New("it is not your turn")
	ErrIllegalMove         = errors.New("card cannot be played now")
	ErrBusy                = errors.New("wait for the trick to be collected")
	ErrWrongPhase          = errors.New("not available in this phase")
	ErrSelectionIncomplete = errors.New("select exactly two cards for the side pile")
	ErrFinalizeRejected    = errors.New("engine rejected the selection")
	ErrUnknownCard         = errors.New("card is not in your hand")
	ErrNoSuggestion        = errors.New("no such suggestion")
)
