// Package pipeline sequences the screening stages over one batch: validate,
// stage, parse, extract, score. Stages advance only while the batch-level
// continue flag holds; a cleared flag skips remaining stages but already
// collected results are still persisted.
package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/extract"
	"resume-screener/internal/ingest"
	"resume-screener/internal/jobprofile"
	"resume-screener/internal/parse"
	"resume-screener/internal/recordstore"
	"resume-screener/internal/score"
	"resume-screener/internal/shared/storage/object"
	"resume-screener/internal/shared/storage/object/local"
)

type state int

const (
	stateValidating state = iota
	stateStaging
	stateParsing
	stateExtracting
	stateScoring
	stateDone
)

// Orchestrator owns the stage sequence for a batch run.
type Orchestrator struct {
	Validator *ingest.Validator
	Stager    *ingest.Stager
	Parser    *parse.Stage
	Extractor *extract.Stage
	Scorer    *score.Stage

	Fetcher     jobprofile.Fetcher
	Records     recordstore.Store // optional
	Checkpoints batch.Checkpointer
	Artifacts   *local.Store
	Cloud       object.Store // optional

	Logger *zap.Logger
}

// Outcome is the result of one batch run: the final item store state and the
// verdicts of every item that reached scoring.
type Outcome struct {
	Batch    *batch.Batch
	Verdicts map[string]*score.Result
}

// Run drives a full batch through the pipeline. The returned outcome always
// contains every submitted item with its status and error trail, even when
// the batch aborted early.
func (o *Orchestrator) Run(ctx context.Context, uploads []ingest.Upload, jobURL string) *Outcome {
	b := batch.NewBatch(time.Now())
	return o.run(ctx, b, uploads, jobURL, stateValidating)
}

// Resume drives a cold-start run: no uploads, item state reloaded from the
// most recent checkpoint when extraction is entered.
func (o *Orchestrator) Resume(ctx context.Context, jobURL string) *Outcome {
	b := batch.NewBatch(time.Now())
	return o.run(ctx, b, nil, jobURL, stateParsing)
}

func (o *Orchestrator) run(ctx context.Context, b *batch.Batch, uploads []ingest.Upload, jobURL string, start state) *Outcome {
	o.Logger.Info("batch started",
		zap.String("batch_ts", b.Timestamp.Format(batch.TimestampFormat)),
		zap.Int("uploads", len(uploads)),
	)

	var (
		contents map[string][]byte
		parsed   map[string]string
		profiles map[string]*extract.StructuredProfile
		verdicts map[string]*score.Result
	)

	for st := start; st != stateDone; {
		if !b.OK() {
			break
		}
		switch st {
		case stateValidating:
			contents = o.Validator.Run(b, uploads)
			st = stateStaging

		case stateStaging:
			if !o.recordStoreReady(ctx) {
				b.Abort()
				break
			}
			o.Stager.Run(ctx, b, contents)
			o.writeCheckpoint(ctx, b, "staging")
			st = stateParsing

		case stateParsing:
			parsed = o.Parser.Run(ctx, b)
			st = stateExtracting

		case stateExtracting:
			if b.Items.Len() == 0 {
				if !o.reloadLatest(ctx, b) {
					break
				}
				// Reloaded items carry raw paths only; recover the in-memory
				// text they need for extraction.
				parsed = o.Parser.Run(ctx, b)
			}
			profiles = o.Extractor.Run(ctx, b, parsed)
			o.writeCheckpoint(ctx, b, "extraction")
			st = stateScoring

		case stateScoring:
			job := o.fetchJobProfile(ctx, b, jobURL)
			if job == nil {
				b.Abort()
				break
			}
			verdicts = o.Scorer.Run(ctx, b, profiles, job)
			o.writeCheckpoint(ctx, b, "scoring")
			o.pushArtifacts(ctx)
			st = stateDone
		}
	}

	o.Logger.Info("batch finished",
		zap.Bool("completed", b.OK()),
		zap.Int("items", b.Items.Len()),
		zap.Int("scored", len(verdicts)),
	)
	return &Outcome{Batch: b, Verdicts: verdicts}
}

// recordStoreReady verifies the optional sink is reachable before staging.
// Total unavailability is batch-fatal; a nil sink is simply skipped.
func (o *Orchestrator) recordStoreReady(ctx context.Context) bool {
	if o.Records == nil {
		return true
	}
	if err := o.Records.Ping(ctx); err != nil {
		o.Logger.Error("record store unavailable, aborting batch", zap.Error(err))
		return false
	}
	return true
}

// reloadLatest restores item state from the newest checkpoint. Failure is
// batch-fatal.
func (o *Orchestrator) reloadLatest(ctx context.Context, b *batch.Batch) bool {
	store, err := o.Checkpoints.LoadLatest(ctx)
	if err != nil {
		if errors.Is(err, batch.ErrNoCheckpoint) {
			o.Logger.Error("cold start with no checkpoint to reload")
		} else {
			o.Logger.Error("checkpoint reload failed", zap.Error(err))
		}
		b.Abort()
		return false
	}
	b.Items = store
	o.Logger.Info("item state reloaded from checkpoint", zap.Int("items", store.Len()))
	return true
}

// writeCheckpoint snapshots the item store. Failures are recorded but never
// abort the run.
func (o *Orchestrator) writeCheckpoint(ctx context.Context, b *batch.Batch, after string) {
	path, err := o.Checkpoints.Write(ctx, b)
	if err != nil {
		o.Logger.Error("checkpoint write failed", zap.String("stage", after), zap.Error(err))
		return
	}
	o.Logger.Info("checkpoint written", zap.String("stage", after), zap.String("path", path))
}

// fetchJobProfile resolves the job posting once per run and persists it as
// an artifact. A nil return means the fetch failed.
func (o *Orchestrator) fetchJobProfile(ctx context.Context, b *batch.Batch, jobURL string) *jobprofile.JobProfile {
	job, err := o.Fetcher.Fetch(ctx, jobURL)
	if err != nil {
		o.Logger.Error("job profile fetch failed, aborting batch", zap.String("url", jobURL), zap.Error(err))
		return nil
	}
	if path, err := jobprofile.Save(ctx, o.Artifacts, b.Timestamp, job); err != nil {
		o.Logger.Warn("job profile not persisted", zap.Error(err))
	} else {
		o.Logger.Info("job profile persisted", zap.String("path", path))
	}
	return job
}

// pushArtifacts mirrors the local artifact tree to the cloud store. Best
// effort: failures are logged per object and never affect the batch.
func (o *Orchestrator) pushArtifacts(ctx context.Context) {
	if o.Cloud == nil {
		return
	}
	base := o.Artifacts.BaseDir()
	pushed := 0
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, relErr := filepath.Rel(base, path)
		if relErr != nil {
			return relErr
		}
		key := filepath.ToSlash(rel)

		f, openErr := os.Open(path)
		if openErr != nil {
			o.Logger.Warn("artifact not readable", zap.String("key", key), zap.Error(openErr))
			return nil
		}
		defer f.Close()

		if _, saveErr := o.Cloud.SaveWithKey(ctx, key, "application/octet-stream", f); saveErr != nil {
			o.Logger.Warn("artifact push failed", zap.String("key", key), zap.Error(saveErr))
			return nil
		}
		pushed++
		return nil
	})
	if err != nil {
		o.Logger.Warn("artifact tree walk failed", zap.Error(err))
	}
	o.Logger.Info("artifact push complete", zap.Int("pushed", pushed))
}
