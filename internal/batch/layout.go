package batch

import (
	"path/filepath"
	"strings"
)

// Storage keys of the artifact tree, relative to the pipeline's data root.
// All stages derive their target directories from here instead of composing
// paths ad hoc.
const (
	RawDir        = "ingestion/raw"
	ParsedDir     = "transformation/parsed"
	StructuredDir = "transformation/structured"
	ScoresDir     = "scoring"
	CheckpointDir = "checkpoints"
	CorpusDir     = "corpus"
	JobDir        = "job"
)

// ArtifactName derives a derived-artifact file name from an item identifier
// by folding the source extension into the stem: resume.pdf + ".txt" ->
// resume_pdf.txt.
func ArtifactName(identifier, newExt string) string {
	ext := filepath.Ext(identifier)
	stem := strings.TrimSuffix(identifier, ext)
	return stem + strings.ReplaceAll(ext, ".", "_") + newExt
}
