package ingest

import (
	"fmt"
	"strings"
	"sync"
)

// Policy captures the structural requirements for one supported file type.
type Policy struct {
	MinSizeBytes  int64
	MinCharLength int
}

// PolicyTable maps file extensions to their validation policy. Callers may
// extend it at startup; silent overwrite of a registered type is rejected.
type PolicyTable struct {
	mu       sync.RWMutex
	policies map[string]Policy
}

// DefaultPolicies returns the table for the stock document types.
func DefaultPolicies() *PolicyTable {
	return &PolicyTable{policies: map[string]Policy{
		".pdf":  {MinSizeBytes: 1024, MinCharLength: 150},
		".docx": {MinSizeBytes: 1024, MinCharLength: 150},
		".html": {MinSizeBytes: 256, MinCharLength: 100},
	}}
}

// Register adds a policy for an extension. Replacing an existing entry
// requires overwrite=true.
func (t *PolicyTable) Register(ext string, p Policy, overwrite bool) error {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("extension must start with a dot: %q", ext)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.policies[ext]; exists && !overwrite {
		return fmt.Errorf("policy for %q already registered", ext)
	}
	t.policies[ext] = p
	return nil
}

// Lookup returns the policy for an extension.
func (t *PolicyTable) Lookup(ext string) (Policy, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.policies[strings.ToLower(ext)]
	return p, ok
}
