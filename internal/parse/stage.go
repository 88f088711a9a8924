package parse

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/fanout"
	"resume-screener/internal/shared/storage/object/local"
)

// Stage dispatches each staged item to its type-specific parser, saves the
// canonical text, and keeps it in memory for extraction.
type Stage struct {
	Registry *Registry
	Store    *local.Store
	Width    int
	Logger   *zap.Logger
}

type parsedResult struct {
	text       string
	parsedPath string
}

// Run parses every eligible item concurrently. One slow or failing parse
// never delays or fails siblings. Returns parsed text keyed by identifier.
func (s *Stage) Run(ctx context.Context, b *batch.Batch) map[string]string {
	var eligible []string
	rawPaths := make(map[string]string)
	for _, name := range b.Items.Eligible() {
		if it, ok := b.Items.Get(name); ok && it.RawPath != "" {
			eligible = append(eligible, name)
			rawPaths[name] = it.RawPath
		}
	}

	results := fanout.Run(ctx, s.Width, eligible, func(ctx context.Context, name string) (parsedResult, error) {
		return s.parseOne(ctx, name, rawPaths[name])
	})

	parsed := make(map[string]string, len(results))
	for _, res := range results {
		if res.Err != nil {
			b.Items.Fail(res.Name, res.Err.Error())
			s.Logger.Warn("parsing failed", zap.String("item", res.Name), zap.Error(res.Err))
			continue
		}
		b.Items.Update(res.Name, func(it *batch.Item) {
			it.ParsedPath = res.Value.parsedPath
		})
		parsed[res.Name] = res.Value.text
	}

	s.Logger.Info("parsing complete",
		zap.Int("parsed", len(parsed)),
		zap.Int("eligible", len(b.Items.Eligible())),
	)
	return parsed
}

func (s *Stage) parseOne(ctx context.Context, name, rawPath string) (parsedResult, error) {
	ext := filepath.Ext(name)
	parser, found := s.Registry.Lookup(ext)
	if !found {
		return parsedResult{}, fmt.Errorf("no parser registered for %q", ext)
	}

	text, err := parser.Parse(ctx, rawPath)
	if err != nil {
		return parsedResult{}, fmt.Errorf("parse %s: %w", ext, err)
	}

	key := path.Join(batch.ParsedDir, batch.ArtifactName(name, ".txt"))
	if _, err := s.Store.SaveWithKey(ctx, key, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		return parsedResult{}, fmt.Errorf("save parsed text: %w", err)
	}

	return parsedResult{
		text:       text,
		parsedPath: filepath.Join(s.Store.BaseDir(), filepath.FromSlash(key)),
	}, nil
}
