package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampFormat names checkpoint files: 29_08_2026_14_03_59.json.
const TimestampFormat = "02_01_2006_15_04_05"

// ErrNoCheckpoint indicates that no checkpoint file exists to reload.
var ErrNoCheckpoint = errors.New("no checkpoint found")

// Checkpointer writes and reloads timestamped JSON snapshots of an item
// store.
type Checkpointer struct {
	Dir string
}

// Write serializes the batch's item store to <timestamp>.json inside the
// checkpoint directory, with path fields rendered in portable slash form.
// If a file for the batch timestamp already exists, the snapshot is stamped
// with the current time instead of overwriting.
func (c Checkpointer) Write(ctx context.Context, b *Batch) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir checkpoint dir: %w", err)
	}

	snap := b.Items.Snapshot()
	for name, it := range snap {
		it.RawPath = filepath.ToSlash(it.RawPath)
		it.ParsedPath = filepath.ToSlash(it.ParsedPath)
		it.StructuredPath = filepath.ToSlash(it.StructuredPath)
		it.ScoresPath = filepath.ToSlash(it.ScoresPath)
		snap[name] = it
	}

	payload, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal checkpoint: %w", err)
	}

	path := filepath.Join(c.Dir, b.Timestamp.Format(TimestampFormat)+".json")
	if _, statErr := os.Stat(path); statErr == nil {
		path = filepath.Join(c.Dir, time.Now().Format(TimestampFormat)+".json")
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write checkpoint: %w", err)
	}
	return path, nil
}

// LoadLatest reloads the most recent checkpoint in the directory into a
// fresh item store. Recency is decided by the timestamp encoded in the file
// name; files that do not parse as checkpoints are ignored.
func (c Checkpointer) LoadLatest(ctx context.Context) (*Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoCheckpoint
		}
		return nil, fmt.Errorf("read checkpoint dir: %w", err)
	}

	var (
		latest     string
		latestTime time.Time
		found      bool
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stamp := strings.TrimSuffix(entry.Name(), ".json")
		ts, parseErr := time.Parse(TimestampFormat, stamp)
		if parseErr != nil {
			continue
		}
		if !found || ts.After(latestTime) {
			latest = entry.Name()
			latestTime = ts
			found = true
		}
	}
	if !found {
		return nil, ErrNoCheckpoint
	}

	return c.load(filepath.Join(c.Dir, latest))
}

func (c Checkpointer) load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint %s: %w", path, err)
	}

	var snap map[string]Item
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode checkpoint %s: %w", path, err)
	}

	store := NewStore()
	for name, it := range snap {
		copied := it
		if copied.Errors == nil {
			copied.Errors = []string{}
		}
		store.Put(name, &copied)
	}
	return store, nil
}
