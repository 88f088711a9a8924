package ingest

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/shared/util"
)

// Upload is one submitted document: its name as uploaded and its raw bytes,
// read once into memory.
type Upload struct {
	Name    string
	Content []byte
}

// Validator runs per-item structural checks and populates the item store.
// An invalid item is never dropped; it enters the store failed, with its
// reason on the error trail. Only an empty upload set is batch-fatal.
type Validator struct {
	Policies *PolicyTable
	Logger   *zap.Logger
}

// Run validates every upload and returns content keyed by the item
// identifier chosen for it, for consumption by the staging stage.
func (v *Validator) Run(b *batch.Batch, uploads []Upload) map[string][]byte {
	if len(uploads) == 0 {
		v.Logger.Error("empty upload set, aborting batch")
		b.Abort()
		return nil
	}

	contents := make(map[string][]byte, len(uploads))
	for _, up := range uploads {
		name, err := util.NormalizeFileName(up.Name)
		if err != nil {
			name = fmt.Sprintf("invalid-upload-%d", b.Items.Len()+1)
		}
		name = uniqueIdentifier(b.Items, name)

		item := batch.NewItem()
		item.SizeBytes = int64(len(up.Content))
		b.Items.Put(name, item)
		contents[name] = up.Content

		if err != nil {
			item.Fail(fmt.Sprintf("file name: %v (original %q)", err, up.Name))
			v.Logger.Warn("invalid file name", zap.String("item", name), zap.String("original", up.Name))
			continue
		}

		ext := filepath.Ext(name)
		policy, supported := v.Policies.Lookup(ext)
		if !supported {
			item.Fail(fmt.Sprintf("file type: unsupported extension %q", ext))
			v.Logger.Warn("unsupported file type", zap.String("item", name), zap.String("ext", ext))
			continue
		}

		if int64(len(up.Content)) < policy.MinSizeBytes {
			item.Fail(fmt.Sprintf("minimum size: %d bytes < %d required for %q", len(up.Content), policy.MinSizeBytes, ext))
			v.Logger.Warn("file below minimum size",
				zap.String("item", name),
				zap.Int("size", len(up.Content)),
				zap.Int64("min", policy.MinSizeBytes),
			)
		}
	}

	v.Logger.Info("validation complete",
		zap.Int("items", b.Items.Len()),
		zap.Int("eligible", len(b.Items.Eligible())),
	)
	return contents
}

// uniqueIdentifier disambiguates duplicate names within the same batch by
// appending _<n> before the extension, mirroring the on-disk rename scheme.
func uniqueIdentifier(store *batch.Store, name string) string {
	if _, exists := store.Get(name); !exists {
		return name
	}
	ext := filepath.Ext(name)
	stem := name[:len(name)-len(ext)]
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, n, ext)
		if _, exists := store.Get(candidate); !exists {
			return candidate
		}
	}
}
