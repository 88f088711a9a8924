package batch

import (
	"testing"
	"time"
)

func TestFailIsSticky(t *testing.T) {
	it := NewItem()
	if !it.Status {
		t.Fatal("new item must start eligible")
	}

	it.Fail("parse failure")
	it.Fail("another failure")

	if it.Status {
		t.Fatal("status must stay false once failed")
	}
	if len(it.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(it.Errors))
	}
	if it.Errors[0] != "parse failure" {
		t.Fatalf("error order not preserved: %v", it.Errors)
	}
}

func TestStoreEligibleAndNames(t *testing.T) {
	s := NewStore()
	s.Put("b.pdf", NewItem())
	s.Put("a.pdf", NewItem())
	s.Put("c.exe", NewItem())
	s.Fail("c.exe", "file type: unsupported")

	names := s.Names()
	if len(names) != 3 || names[0] != "a.pdf" || names[2] != "c.exe" {
		t.Fatalf("names = %v", names)
	}

	eligible := s.Eligible()
	if len(eligible) != 2 || eligible[0] != "a.pdf" || eligible[1] != "b.pdf" {
		t.Fatalf("eligible = %v", eligible)
	}
}

func TestStoreRenameMigratesItem(t *testing.T) {
	s := NewStore()
	it := NewItem()
	it.SizeBytes = 42
	s.Put("resume.pdf", it)

	if !s.Rename("resume.pdf", "resume_1.pdf") {
		t.Fatal("rename to a free identifier must succeed")
	}

	if _, ok := s.Get("resume.pdf"); ok {
		t.Fatal("old identifier still present")
	}
	got, ok := s.Get("resume_1.pdf")
	if !ok || got.SizeBytes != 42 {
		t.Fatalf("renamed item missing or wrong: %+v ok=%v", got, ok)
	}
}

func TestStoreRenameRefusesOccupiedTarget(t *testing.T) {
	s := NewStore()
	first := NewItem()
	first.SizeBytes = 1
	second := NewItem()
	second.SizeBytes = 2
	s.Put("resume.pdf", first)
	s.Put("resume_1.pdf", second)

	if s.Rename("resume.pdf", "resume_1.pdf") {
		t.Fatal("rename onto an occupied identifier must be refused")
	}
	if s.Len() != 2 {
		t.Fatalf("items = %d, want 2", s.Len())
	}
	kept, _ := s.Get("resume_1.pdf")
	if kept.SizeBytes != 2 {
		t.Fatal("occupied identifier was displaced")
	}
	moved, ok := s.Get("resume.pdf")
	if !ok || moved.SizeBytes != 1 {
		t.Fatal("refused rename must leave the item under its old identifier")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	s.Put("a.pdf", NewItem())

	snap := s.Snapshot()
	entry := snap["a.pdf"]
	entry.Errors = append(entry.Errors, "mutated")
	entry.Status = false
	snap["a.pdf"] = entry

	live, _ := s.Get("a.pdf")
	if !live.Status || len(live.Errors) != 0 {
		t.Fatal("snapshot mutation leaked into store")
	}
}

func TestBatchAbortIsSticky(t *testing.T) {
	b := NewBatch(time.Now())
	if !b.OK() {
		t.Fatal("new batch must start with continue=true")
	}
	b.Abort()
	if b.OK() {
		t.Fatal("abort must clear continue")
	}
}
