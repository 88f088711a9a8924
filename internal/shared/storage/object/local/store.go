// Package local stores objects on the filesystem under a single base
// directory. It backs both the staging area and the artifact tree.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store persists objects on the local filesystem rooted at baseDir.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// BaseDir returns the root directory of the store.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// SaveUnique writes data under dir/fileName, renaming to fileName_<n>.ext on
// collision. It returns the final (possibly disambiguated) file name and the
// absolute path written.
func (s *Store) SaveUnique(ctx context.Context, dir string, fileName string, data []byte) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	dirPath := filepath.Join(s.baseDir, dir)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	finalName := fileName
	for n := 1; ; n++ {
		_, err := os.Stat(filepath.Join(dirPath, finalName))
		if os.IsNotExist(err) {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("stat %s: %w", finalName, err)
		}
		finalName = disambiguate(fileName, n)
	}

	target := filepath.Join(dirPath, finalName)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", "", fmt.Errorf("write %s: %w", finalName, err)
	}
	return finalName, target, nil
}

// SaveWithKey writes the reader to disk at a specific storage key.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	_ = contentType

	target, err := s.resolve(storageKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir for key %s: %w", storageKey, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("create key %s: %w", storageKey, err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write key %s: %w", storageKey, err)
	}
	return written, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	return os.Open(target)
}

// resolve maps a storage key to an absolute path, rejecting keys that would
// leave the base directory.
func (s *Store) resolve(storageKey string) (string, error) {
	clean := filepath.Clean(storageKey)
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid storage key %q", storageKey)
	}
	return filepath.Join(s.baseDir, clean), nil
}

// disambiguate appends _<n> before the extension: resume.pdf -> resume_2.pdf.
func disambiguate(fileName string, n int) string {
	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	return fmt.Sprintf("%s_%d%s", stem, n, ext)
}
