package batch

import (
	"sort"
	"sync"
	"time"
)

// Item is the lifecycle record of one uploaded document. JSON field names
// match the checkpoint wire format, so a serialized store round-trips.
type Item struct {
	RawPath          string   `json:"path"`
	ParsedPath       string   `json:"parsed_path"`
	StructuredPath   string   `json:"structured_path"`
	ScoresPath       string   `json:"scores_path"`
	SizeBytes        int64    `json:"size"`
	EncodedSizeBytes int64    `json:"base64_size"`
	Status           bool     `json:"status"`
	Errors           []string `json:"error"`
}

// NewItem returns an eligible item with an empty error trail.
func NewItem() *Item {
	return &Item{Status: true, Errors: []string{}}
}

// Fail records a failure reason and marks the item ineligible. Status never
// flips back to true and the error trail is append-only.
func (it *Item) Fail(reason string) {
	it.Status = false
	it.Errors = append(it.Errors, reason)
}

// Store maps item identifiers to their state. Stages fan work out per item
// but merge results back through a single goroutine; the lock guards against
// concurrent readers (e.g. the checkpoint writer) during that merge.
type Store struct {
	mu    sync.RWMutex
	items map[string]*Item
}

// NewStore returns an empty item store.
func NewStore() *Store {
	return &Store{items: make(map[string]*Item)}
}

// Put registers an item under the given identifier.
func (s *Store) Put(name string, it *Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[name] = it
}

// Get returns the item for the identifier, if present.
func (s *Store) Get(name string) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[name]
	return it, ok
}

// Update applies fn to the named item while holding the store lock.
func (s *Store) Update(name string, fn func(*Item)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[name]; ok {
		fn(it)
	}
}

// Fail marks the named item failed with the given reason.
func (s *Store) Fail(name, reason string) {
	s.Update(name, func(it *Item) { it.Fail(reason) })
}

// Rename migrates an item to a new identifier, e.g. after a staged file was
// disambiguated on disk. An occupied target identifier is never displaced;
// the move is refused instead and the caller picks another name. Reports
// whether the item now lives under newName.
func (s *Store) Rename(oldName, newName string) bool {
	if oldName == newName {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.items[newName]; taken {
		return false
	}
	it, ok := s.items[oldName]
	if !ok {
		return false
	}
	delete(s.items, oldName)
	s.items[newName] = it
	return true
}

// Names returns all identifiers in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.items))
	for name := range s.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Eligible returns the sorted identifiers of items still marked for
// processing.
func (s *Store) Eligible() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.items))
	for name, it := range s.items {
		if it.Status {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of items in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Snapshot returns a deep copy of all items keyed by identifier.
func (s *Store) Snapshot() map[string]Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string]Item, len(s.items))
	for name, it := range s.items {
		copied := *it
		copied.Errors = append([]string{}, it.Errors...)
		snap[name] = copied
	}
	return snap
}

// Batch owns the state of one pipeline run: the item store, the run
// timestamp used to name checkpoints, and the batch-level continue flag.
type Batch struct {
	Items     *Store
	Timestamp time.Time
	cont      bool
}

// NewBatch starts a batch stamped with the given run time.
func NewBatch(ts time.Time) *Batch {
	return &Batch{Items: NewStore(), Timestamp: ts, cont: true}
}

// Abort clears the continue flag. Remaining stages are skipped; already
// collected results are still persisted.
func (b *Batch) Abort() {
	b.cont = false
}

// OK reports whether later stages may still run.
func (b *Batch) OK() bool {
	return b.cont
}
