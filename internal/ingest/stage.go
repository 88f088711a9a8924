package ingest

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/fanout"
	"resume-screener/internal/recordstore"
	"resume-screener/internal/shared/storage/object/local"
)

// Stager persists raw upload bytes durably, computes the transport encoding,
// and submits encoded payloads to the record store as a best-effort sink.
type Stager struct {
	Store    *local.Store
	Policies *PolicyTable
	Records  recordstore.Store // optional
	Width    int
	Logger   *zap.Logger
}

type stagedResult struct {
	finalName   string
	rawPath     string
	encoded     string
	encodedSize int64
}

// Run stages every eligible item concurrently and merges results back into
// the store. A staging failure marks that item failed but never aborts
// siblings; record-store insert failures are logged only.
func (s *Stager) Run(ctx context.Context, b *batch.Batch, contents map[string][]byte) {
	eligible := b.Items.Eligible()

	results := fanout.Run(ctx, s.Width, eligible, func(ctx context.Context, name string) (stagedResult, error) {
		return s.stageOne(ctx, name, contents[name])
	})

	var records []recordstore.Record
	for _, res := range results {
		// The raw file may have been persisted even when a later step of the
		// task failed; keep whatever path was produced.
		if res.Value.rawPath != "" {
			b.Items.Update(res.Name, func(it *batch.Item) {
				it.RawPath = res.Value.rawPath
				it.EncodedSizeBytes = res.Value.encodedSize
			})
		}
		name := res.Name
		if res.Value.finalName != "" && res.Value.finalName != res.Name {
			// A leftover file from an earlier run can push the disk rename
			// onto a name a sibling item already holds. The store key is
			// disambiguated against the store as well; no item is dropped.
			target := uniqueIdentifier(b.Items, res.Value.finalName)
			if b.Items.Rename(res.Name, target) {
				name = target
				s.Logger.Info("item renamed after disambiguation",
					zap.String("from", res.Name),
					zap.String("to", target),
				)
			}
		}
		if res.Err != nil {
			b.Items.Fail(name, res.Err.Error())
			s.Logger.Warn("staging failed", zap.String("item", name), zap.Error(res.Err))
			continue
		}
		records = append(records, recordstore.Record{
			Name:           name,
			EncodedContent: res.Value.encoded,
		})
	}

	s.submitRecords(ctx, records)

	s.Logger.Info("staging complete", zap.Int("eligible", len(b.Items.Eligible())))
}

func (s *Stager) stageOne(ctx context.Context, name string, content []byte) (stagedResult, error) {
	policy, ok := s.Policies.Lookup(filepath.Ext(name))
	if !ok {
		return stagedResult{}, fmt.Errorf("no policy for %q", filepath.Ext(name))
	}

	finalName, rawPath, err := s.Store.SaveUnique(ctx, batch.RawDir, name, content)
	if err != nil {
		return stagedResult{}, fmt.Errorf("persist raw bytes: %w", err)
	}

	if len(content) < policy.MinCharLength {
		// Raw bytes are already durable; only the encoding side-effect is
		// skipped for an under-length item.
		return stagedResult{finalName: finalName, rawPath: rawPath},
			fmt.Errorf("minimum content: %d chars < %d required", len(content), policy.MinCharLength)
	}

	encoded := base64.StdEncoding.EncodeToString(content)
	return stagedResult{
		finalName:   finalName,
		rawPath:     rawPath,
		encoded:     encoded,
		encodedSize: int64(len(encoded)),
	}, nil
}

// submitRecords pushes encoded payloads downstream. This is a side channel:
// per-record failures never touch item status or the batch continue flag.
func (s *Stager) submitRecords(ctx context.Context, records []recordstore.Record) {
	if s.Records == nil || len(records) == 0 {
		return
	}
	for _, rec := range records {
		if err := s.Records.Insert(ctx, rec); err != nil {
			s.Logger.Warn("record store insert failed", zap.String("item", rec.Name), zap.Error(err))
		}
	}
}
