package util

import (
	"errors"
	"strings"
)

// ErrBadFileName rejects names that are empty or could escape the staging
// directory.
var ErrBadFileName = errors.New("invalid file name")

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// NormalizeFileName lowercases and trims an uploaded name and flattens path
// separators. Every item identifier in a batch goes through this once.
func NormalizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrBadFileName
	}
	normalized := separatorReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	if normalized == "" {
		return "", ErrBadFileName
	}
	return normalized, nil
}
