package table

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"time"

	"github.com/skatdesk/skatdesk/internal/engine"
)

const transcriptVersion = 1

// Transcript is the sequence of distinct snapshots the controller observed
// during one hand.
type Transcript struct {
	SessionID string
	Started   time.Time
	Snapshots []engine.Snapshot
	mu        sync.RWMutex
}

// NewTranscript starts an empty transcript for a session.
func NewTranscript(sessionID string) *Transcript {
	return &Transcript{
		SessionID: sessionID,
		Started:   time.Now(),
	}
}

// Record appends snap unless it equals the last recorded snapshot.
func (t *Transcript) Record(snap engine.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.Snapshots); n > 0 && reflect.DeepEqual(t.Snapshots[n-1], snap) {
		return
	}
	t.Snapshots = append(t.Snapshots, snap)
}

// Len returns the number of recorded snapshots.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.Snapshots)
}

// At returns the snapshot at index i.
func (t *Transcript) At(i int) (engine.Snapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if i < 0 || i >= len(t.Snapshots) {
		return engine.Snapshot{}, false
	}
	return t.Snapshots[i], true
}

type transcriptMetadata struct {
	SessionID string
	Started   time.Time
	Saved     time.Time
	Version   int
	Count     int
}

func transcriptPath(dir, sessionID string) string {
	return filepath.Join(dir, sessionID+".transcript")
}

// Save writes the transcript gzipped to dir and returns the file path.
func (t *Transcript) Save(dir string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	path := transcriptPath(dir, t.SessionID)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	enc := gob.NewEncoder(gz)

	meta := transcriptMetadata{
		SessionID: t.SessionID,
		Started:   t.Started,
		Saved:     time.Now(),
		Version:   transcriptVersion,
		Count:     len(t.Snapshots),
	}
	if err := enc.Encode(&meta); err != nil {
		return "", fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i := range t.Snapshots {
		if err := enc.Encode(&t.Snapshots[i]); err != nil {
			return "", fmt.Errorf("failed to encode snapshot %d: %w", i, err)
		}
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("failed to flush transcript: %w", err)
	}
	return path, nil
}

// LoadTranscript reads a transcript written by Save.
func LoadTranscript(dir, sessionID string) (*Transcript, error) {
	file, err := os.Open(transcriptPath(dir, sessionID))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	dec := gob.NewDecoder(gz)
	var meta transcriptMetadata
	if err := dec.Decode(&meta); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if meta.Version != transcriptVersion {
		return nil, fmt.Errorf("unsupported transcript version: %d", meta.Version)
	}

	t := &Transcript{SessionID: meta.SessionID, Started: meta.Started}
	for i := 0; i < meta.Count; i++ {
		var snap engine.Snapshot
		if err := dec.Decode(&snap); err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %d: %w", i, err)
		}
		t.Snapshots = append(t.Snapshots, snap)
	}
	return t, nil
}
