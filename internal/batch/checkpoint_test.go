package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cp := Checkpointer{Dir: dir}
	ctx := context.Background()

	ts := time.Date(2026, 8, 29, 14, 3, 59, 0, time.UTC)
	b := NewBatch(ts)

	ok := NewItem()
	ok.RawPath = "/data/ingestion/raw/resume.pdf"
	ok.ParsedPath = "/data/transformation/parsed/resume_pdf.txt"
	ok.SizeBytes = 1024
	ok.EncodedSizeBytes = 1368
	b.Items.Put("resume.pdf", ok)

	failed := NewItem()
	failed.Fail("file type: unsupported extension '.exe'")
	b.Items.Put("tool.exe", failed)

	path, err := cp.Write(ctx, b)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "29_08_2026_14_03_59.json" {
		t.Fatalf("checkpoint file name = %s", filepath.Base(path))
	}

	loaded, err := cp.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if !reflect.DeepEqual(loaded.Snapshot(), b.Items.Snapshot()) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", loaded.Snapshot(), b.Items.Snapshot())
	}
}

func TestLoadLatestPicksNewestTimestamp(t *testing.T) {
	dir := t.TempDir()
	cp := Checkpointer{Dir: dir}
	ctx := context.Background()

	older := NewBatch(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC))
	older.Items.Put("old.pdf", NewItem())
	if _, err := cp.Write(ctx, older); err != nil {
		t.Fatalf("write older: %v", err)
	}

	// Named 02_01... vs 01_02...: day-first stamps do not sort lexically,
	// recency must come from parsing.
	newer := NewBatch(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	newer.Items.Put("new.pdf", NewItem())
	if _, err := cp.Write(ctx, newer); err != nil {
		t.Fatalf("write newer: %v", err)
	}

	loaded, err := cp.LoadLatest(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := loaded.Get("new.pdf"); !ok {
		t.Fatalf("expected newest checkpoint, got items %v", loaded.Names())
	}
}

func TestLoadLatestNoCheckpoint(t *testing.T) {
	cp := Checkpointer{Dir: filepath.Join(t.TempDir(), "missing")}
	if _, err := cp.LoadLatest(context.Background()); !errors.Is(err, ErrNoCheckpoint) {
		t.Fatalf("err = %v, want ErrNoCheckpoint", err)
	}
}

func TestWriteDoesNotOverwriteExisting(t *testing.T) {
	dir := t.TempDir()
	cp := Checkpointer{Dir: dir}
	ctx := context.Background()

	b := NewBatch(time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC))
	b.Items.Put("a.pdf", NewItem())

	first, err := cp.Write(ctx, b)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	second, err := cp.Write(ctx, b)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if first == second {
		t.Fatal("second write must not overwrite the first checkpoint")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("checkpoint files = %d, want 2", len(entries))
	}
}
