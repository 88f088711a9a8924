// Package parse turns staged documents into canonical text. Parsers are
// polymorphic over one capability: given a path, produce text or fail.
package parse

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Parser extracts canonical text from a document on disk. Implementations
// must be safe for concurrent use and clean up any temporary resources
// themselves.
type Parser interface {
	Parse(ctx context.Context, path string) (string, error)
}

// Registry maps file extensions to parsers. Adding a document type means
// implementing Parser and registering it here; silent overwrite is rejected.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser
}

// DefaultRegistry returns the registry with the stock parsers wired.
func DefaultRegistry() *Registry {
	return &Registry{parsers: map[string]Parser{
		".pdf":  &PDFParser{},
		".docx": &DOCXParser{},
		".html": &HTMLParser{},
	}}
}

// Register adds a parser for an extension. Replacing an existing entry
// requires overwrite=true.
func (r *Registry) Register(ext string, p Parser, overwrite bool) error {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("extension must start with a dot: %q", ext)
	}
	if p == nil {
		return fmt.Errorf("parser for %q is nil", ext)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.parsers == nil {
		r.parsers = make(map[string]Parser)
	}
	if _, exists := r.parsers[ext]; exists && !overwrite {
		return fmt.Errorf("parser for %q already registered", ext)
	}
	r.parsers[ext] = p
	return nil
}

// Lookup returns the parser for an extension.
func (r *Registry) Lookup(ext string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[strings.ToLower(ext)]
	return p, ok
}
