package table

import (
	"testing"

	"github.com/skatdesk/skatdesk/internal/card"
	"github.com/skatdesk/skatdesk/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptSkipsRepeats(t *testing.T) {
	tr := NewTranscript("abc")
	snap := engine.Snapshot{Phase: card.PhasePlaying, CurrentPlayer: card.Human}

	tr.Record(snap)
	tr.Record(snap)
	assert.Equal(t, 1, tr.Len())

	snap.CurrentPlayer = card.AILeft
	tr.Record(snap)
	assert.Equal(t, 2, tr.Len())

	_, ok := tr.At(2)
	assert.False(t, ok)
}

func TestTranscriptSaveLoad(t *testing.T) {
	dir := t.TempDir()
	points := 87
	tr := NewTranscript("session-1")
	tr.Record(engine.Snapshot{
		Phase:    card.PhaseSelection,
		GameType: card.GameClubs,
		Hand:     card.MustParseList("CJ SA H7"),
	})
	tr.Record(engine.Snapshot{
		Phase:           card.PhaseGameOver,
		GameType:        card.GameClubs,
		LastTrick:       []engine.PlayedCard{{Card: card.MustParse("DA"), Player: card.AIRight}},
		LastTrickWinner: card.AIRight,
		DeclarerPoints:  points,
		TeamPoints:      120 - points,
		GameOver:        true,
		Winner:          engine.WinnerDeclarer,
		MaxPoints:       &points,
	})

	path, err := tr.Save(dir)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := LoadTranscript(dir, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", loaded.SessionID)
	require.Equal(t, 2, loaded.Len())
	last, ok := loaded.At(1)
	require.True(t, ok)
	assert.Equal(t, card.AIRight, last.LastTrickWinner)
	assert.Equal(t, engine.WinnerDeclarer, last.Winner)
	require.NotNil(t, last.MaxPoints)
	assert.Equal(t, 87, *last.MaxPoints)
	first, _ := loaded.At(0)
	assert.Equal(t, card.MustParseList("CJ SA H7"), first.Hand)
}

func TestLoadTranscriptMissing(t *testing.T) {
	_, err := LoadTranscript(t.TempDir(), "nope")
	assert.Error(t, err)
}
