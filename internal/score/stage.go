package score

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/extract"
	"resume-screener/internal/fanout"
	"resume-screener/internal/jobprofile"
	"resume-screener/internal/shared/storage/object/local"
)

// Stage scores every eligible structured profile against the job profile and
// persists the verdicts.
type Stage struct {
	Scorer Scorer
	Store  *local.Store
	Width  int
	Logger *zap.Logger
}

// Run scores the eligible items concurrently. Returns verdicts keyed by
// identifier.
func (s *Stage) Run(ctx context.Context, b *batch.Batch, profiles map[string]*extract.StructuredProfile, job *jobprofile.JobProfile) map[string]*Result {
	var eligible []string
	for _, name := range b.Items.Eligible() {
		if profiles[name] != nil {
			eligible = append(eligible, name)
		}
	}

	results := fanout.Run(ctx, s.Width, eligible, func(ctx context.Context, name string) (*Result, error) {
		res, err := s.Scorer.Score(ctx, profiles[name], job)
		if err != nil {
			return nil, fmt.Errorf("scoring: %w", err)
		}
		return res, nil
	})

	verdicts := make(map[string]*Result, len(results))
	for _, res := range results {
		if res.Err != nil {
			b.Items.Fail(res.Name, res.Err.Error())
			s.Logger.Warn("scoring failed", zap.String("item", res.Name), zap.Error(res.Err))
			continue
		}
		scoresPath, err := s.persist(ctx, res.Name, res.Value)
		if err != nil {
			b.Items.Fail(res.Name, fmt.Sprintf("persistence: %v", err))
			s.Logger.Warn("verdict not persisted", zap.String("item", res.Name), zap.Error(err))
			continue
		}
		b.Items.Update(res.Name, func(it *batch.Item) {
			it.ScoresPath = scoresPath
		})
		verdicts[res.Name] = res.Value
		s.Logger.Info("candidate scored",
			zap.String("item", res.Name),
			zap.Float64("score", res.Value.OverallScore),
			zap.Int("tier", res.Value.Tier),
		)
	}

	s.Logger.Info("scoring complete", zap.Int("scored", len(verdicts)))
	return verdicts
}

func (s *Stage) persist(ctx context.Context, name string, verdict *Result) (string, error) {
	data, err := json.MarshalIndent(verdict, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode verdict: %w", err)
	}
	key := path.Join(batch.ScoresDir, batch.ArtifactName(name, ".json"))
	if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("save verdict: %w", err)
	}
	return filepath.Join(s.Store.BaseDir(), filepath.FromSlash(key)), nil
}
