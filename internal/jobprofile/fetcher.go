package jobprofile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/parse"
	"resume-screener/internal/shared/storage/object/local"
)

// Fetcher resolves a job posting URL into a structured profile.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*JobProfile, error)
}

// Filler turns raw job posting text into a structured profile.
type Filler interface {
	Fill(ctx context.Context, pageText string) (*JobProfile, error)
}

// WebFetcher downloads the posting page, extracts its visible text and asks
// the filler for the structured form.
type WebFetcher struct {
	HTTPClient *http.Client
	Filler     Filler
	Logger     *zap.Logger
}

// Fetch retrieves and structures the posting at url.
func (f *WebFetcher) Fetch(ctx context.Context, url string) (*JobProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "resume-screener/1.0")

	client := f.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch job posting: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch job posting: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse job posting html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	pageText := parse.CollapseWhitespace(doc.Find("body").Text())
	if pageText == "" {
		pageText = parse.CollapseWhitespace(doc.Text())
	}
	if pageText == "" {
		return nil, fmt.Errorf("job posting page has no visible text: url=%s", url)
	}

	profile, err := f.Filler.Fill(ctx, pageText)
	if err != nil {
		return nil, fmt.Errorf("structure job posting: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("incomplete job profile: %w", err)
	}

	f.Logger.Info("job profile fetched",
		zap.String("url", url),
		zap.String("title", profile.JobTitle),
		zap.String("company", profile.CompanyName),
	)
	return profile, nil
}

// Save persists the profile as a timestamped JSON artifact and returns the
// absolute path written.
func Save(ctx context.Context, store *local.Store, ts time.Time, profile *JobProfile) (string, error) {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode job profile: %w", err)
	}
	key := path.Join(batch.JobDir, ts.Format(batch.TimestampFormat)+".json")
	if _, err := store.SaveWithKey(ctx, key, "application/json", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("save job profile: %w", err)
	}
	return filepath.Join(store.BaseDir(), filepath.FromSlash(key)), nil
}
