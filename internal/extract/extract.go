package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/fanout"
	"resume-screener/internal/shared/storage/object/local"
)

// Extractor produces a structured profile from parsed resume text.
// Implementations must be safe for concurrent use.
type Extractor interface {
	Extract(ctx context.Context, parsedText string) (*StructuredProfile, error)
}

// Corpus is the training snapshot accumulated during a run: parsed inputs
// paired with their structured outputs, index-aligned.
type Corpus struct {
	X []string            `json:"X"`
	Y []StructuredProfile `json:"y"`
}

// Stage runs structured extraction over every eligible parsed item.
type Stage struct {
	Extractor    Extractor
	Store        *local.Store
	Width        int
	TokenLimit   int
	CorpusEnable bool
	Logger       *zap.Logger
}

// EstimateTokens approximates the token count of text as its whitespace
// separated word count.
func EstimateTokens(text string) int {
	return len(strings.Fields(text))
}

// Run extracts structured profiles for every eligible item with parsed text.
// Oversized or empty inputs fail before any model call is made. Returns
// profiles keyed by identifier.
func (s *Stage) Run(ctx context.Context, b *batch.Batch, parsed map[string]string) map[string]*StructuredProfile {
	var eligible []string
	for _, name := range b.Items.Eligible() {
		text, ok := parsed[name]
		if !ok {
			continue
		}
		if strings.TrimSpace(text) == "" {
			b.Items.Fail(name, "no parsed data, len=0")
			s.Logger.Warn("empty parsed text", zap.String("item", name))
			continue
		}
		if tokens := EstimateTokens(text); tokens > s.TokenLimit {
			b.Items.Fail(name, fmt.Sprintf("token limit: resume has %d tokens, limit %d", tokens, s.TokenLimit))
			s.Logger.Warn("token limit exceeded",
				zap.String("item", name),
				zap.Int("tokens", tokens),
				zap.Int("limit", s.TokenLimit),
			)
			continue
		}
		eligible = append(eligible, name)
	}

	results := fanout.Run(ctx, s.Width, eligible, func(ctx context.Context, name string) (*StructuredProfile, error) {
		profile, err := s.Extractor.Extract(ctx, parsed[name])
		if err != nil {
			return nil, fmt.Errorf("extraction: %w", err)
		}
		if err := profile.Validate(); err != nil {
			return nil, fmt.Errorf("extraction: invalid profile: %w", err)
		}
		return profile, nil
	})

	corpus := &Corpus{X: []string{}, Y: []StructuredProfile{}}
	profiles := make(map[string]*StructuredProfile, len(results))
	for _, res := range results {
		if res.Err != nil {
			b.Items.Fail(res.Name, res.Err.Error())
			s.Logger.Warn("extraction failed", zap.String("item", res.Name), zap.Error(res.Err))
			continue
		}
		structuredPath, err := s.persist(ctx, res.Name, res.Value)
		if err != nil {
			b.Items.Fail(res.Name, fmt.Sprintf("persistence: %v", err))
			s.Logger.Warn("structured profile not persisted", zap.String("item", res.Name), zap.Error(err))
			continue
		}
		b.Items.Update(res.Name, func(it *batch.Item) {
			it.StructuredPath = structuredPath
		})
		profiles[res.Name] = res.Value
		corpus.X = append(corpus.X, parsed[res.Name])
		corpus.Y = append(corpus.Y, *res.Value)
	}

	if s.CorpusEnable {
		s.writeCorpus(ctx, b, corpus)
	}

	s.Logger.Info("extraction complete", zap.Int("extracted", len(profiles)))
	return profiles
}

func (s *Stage) persist(ctx context.Context, name string, profile *StructuredProfile) (string, error) {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	key := path.Join(batch.StructuredDir, batch.ArtifactName(name, ".json"))
	if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("save profile: %w", err)
	}
	return filepath.Join(s.Store.BaseDir(), filepath.FromSlash(key)), nil
}

// writeCorpus persists the run's training pairs. Failures are logged only;
// the corpus is a side channel and never fails items.
func (s *Stage) writeCorpus(ctx context.Context, b *batch.Batch, corpus *Corpus) {
	if len(corpus.X) == 0 {
		s.Logger.Warn("no training pairs to save")
		return
	}
	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		s.Logger.Error("training corpus not encoded", zap.Error(err))
		return
	}
	key := path.Join(batch.CorpusDir, b.Timestamp.Format(batch.TimestampFormat)+".json")
	if _, err := s.Store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		s.Logger.Error("training corpus not saved", zap.Error(err))
		return
	}
	s.Logger.Info("training corpus saved", zap.String("key", key), zap.Int("pairs", len(corpus.X)))
}
