package extract

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"resume-screener/internal/batch"
	"resume-screener/internal/shared/storage/object/local"
)

type fakeExtractor struct {
	profiles map[string]*StructuredProfile
	errs     map[string]error
	calls    int
}

func (f *fakeExtractor) Extract(ctx context.Context, parsedText string) (*StructuredProfile, error) {
	f.calls++
	if err, ok := f.errs[parsedText]; ok {
		return nil, err
	}
	if p, ok := f.profiles[parsedText]; ok {
		return p, nil
	}
	return &StructuredProfile{PersonalInfo: PersonalInfo{Name: "Unknown"}}, nil
}

func profileNamed(name string) *StructuredProfile {
	return &StructuredProfile{PersonalInfo: PersonalInfo{Name: name}}
}

func newExtractBatch(t *testing.T, names ...string) (*batch.Batch, *local.Store) {
	t.Helper()
	store := local.New(t.TempDir())
	b := batch.NewBatch(time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	for _, name := range names {
		b.Items.Put(name, batch.NewItem())
	}
	return b, store
}

func TestValidateRequiresName(t *testing.T) {
	p := &StructuredProfile{}
	if err := p.Validate(); err == nil {
		t.Fatal("expected missing name to fail validation")
	}
}

func TestValidateNormalizesCareerLevel(t *testing.T) {
	p := profileNamed("Jane Doe")
	p.ProfessionalSummary = &ProfessionalSummary{CareerLevel: " Senior "}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.ProfessionalSummary.CareerLevel != "senior" {
		t.Fatalf("career level %q", p.ProfessionalSummary.CareerLevel)
	}

	p.ProfessionalSummary.CareerLevel = "principal"
	if err := p.Validate(); err == nil {
		t.Fatal("expected unknown career level to fail")
	}
}

func TestEstimateTokens(t *testing.T) {
	if n := EstimateTokens("one two   three\nfour"); n != 4 {
		t.Fatalf("got %d tokens, want 4", n)
	}
	if n := EstimateTokens("   "); n != 0 {
		t.Fatalf("got %d tokens, want 0", n)
	}
}

func TestStageExtractsAndPersists(t *testing.T) {
	b, store := newExtractBatch(t, "resume.pdf")
	ext := &fakeExtractor{profiles: map[string]*StructuredProfile{
		"jane doe resume text": profileNamed("Jane Doe"),
	}}
	stage := &Stage{Extractor: ext, Store: store, Width: 2, TokenLimit: 4000, Logger: zap.NewNop()}

	profiles := stage.Run(context.Background(), b, map[string]string{"resume.pdf": "jane doe resume text"})
	if profiles["resume.pdf"] == nil || profiles["resume.pdf"].PersonalInfo.Name != "Jane Doe" {
		t.Fatalf("profiles %v", profiles)
	}

	it, _ := b.Items.Get("resume.pdf")
	if !it.Status {
		t.Fatalf("item failed: %v", it.Errors)
	}
	if filepath.Base(it.StructuredPath) != "resume_pdf.json" {
		t.Fatalf("structured artifact %q", it.StructuredPath)
	}

	data, err := os.ReadFile(it.StructuredPath)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	var got StructuredProfile
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if got.PersonalInfo.Name != "Jane Doe" {
		t.Fatalf("artifact name %q", got.PersonalInfo.Name)
	}
}

func TestStageTokenLimitFailsBeforeModelCall(t *testing.T) {
	b, store := newExtractBatch(t, "long.pdf")
	ext := &fakeExtractor{}
	stage := &Stage{Extractor: ext, Store: store, Width: 1, TokenLimit: 3, Logger: zap.NewNop()}

	profiles := stage.Run(context.Background(), b, map[string]string{"long.pdf": "one two three four five"})
	if len(profiles) != 0 {
		t.Fatalf("profiles %v", profiles)
	}
	if ext.calls != 0 {
		t.Fatalf("extractor called %d times for oversized input", ext.calls)
	}

	it, _ := b.Items.Get("long.pdf")
	if it.Status {
		t.Fatal("oversized item still eligible")
	}
	if !strings.Contains(it.Errors[0], "token limit") {
		t.Fatalf("error trail %v", it.Errors)
	}
}

func TestStageEmptyParsedTextFails(t *testing.T) {
	b, store := newExtractBatch(t, "empty.pdf")
	stage := &Stage{Extractor: &fakeExtractor{}, Store: store, Width: 1, TokenLimit: 100, Logger: zap.NewNop()}

	stage.Run(context.Background(), b, map[string]string{"empty.pdf": "   "})

	it, _ := b.Items.Get("empty.pdf")
	if it.Status {
		t.Fatal("empty item still eligible")
	}
}

func TestStageFailureIsolation(t *testing.T) {
	b, store := newExtractBatch(t, "bad.pdf", "good.pdf")
	ext := &fakeExtractor{
		profiles: map[string]*StructuredProfile{"good text": profileNamed("Good Candidate")},
		errs:     map[string]error{"bad text": errors.New("model refused")},
	}
	stage := &Stage{Extractor: ext, Store: store, Width: 2, TokenLimit: 100, Logger: zap.NewNop()}

	profiles := stage.Run(context.Background(), b, map[string]string{
		"bad.pdf":  "bad text",
		"good.pdf": "good text",
	})
	if _, ok := profiles["bad.pdf"]; ok {
		t.Fatal("failed item present in output")
	}
	if profiles["good.pdf"] == nil {
		t.Fatal("sibling affected by failure")
	}

	bad, _ := b.Items.Get("bad.pdf")
	if bad.Status || !strings.Contains(bad.Errors[0], "model refused") {
		t.Fatalf("bad item state %v %v", bad.Status, bad.Errors)
	}
}

func TestStageWritesCorpus(t *testing.T) {
	b, store := newExtractBatch(t, "resume.pdf")
	ext := &fakeExtractor{profiles: map[string]*StructuredProfile{
		"jane text": profileNamed("Jane Doe"),
	}}
	stage := &Stage{Extractor: ext, Store: store, Width: 1, TokenLimit: 100, CorpusEnable: true, Logger: zap.NewNop()}

	stage.Run(context.Background(), b, map[string]string{"resume.pdf": "jane text"})

	corpusPath := filepath.Join(store.BaseDir(), batch.CorpusDir, b.Timestamp.Format(batch.TimestampFormat)+".json")
	data, err := os.ReadFile(corpusPath)
	if err != nil {
		t.Fatalf("read corpus: %v", err)
	}
	var corpus Corpus
	if err := json.Unmarshal(data, &corpus); err != nil {
		t.Fatalf("decode corpus: %v", err)
	}
	if len(corpus.X) != 1 || corpus.X[0] != "jane text" {
		t.Fatalf("corpus X %v", corpus.X)
	}
	if len(corpus.Y) != 1 || corpus.Y[0].PersonalInfo.Name != "Jane Doe" {
		t.Fatalf("corpus Y %v", corpus.Y)
	}
}

func TestStageInvalidProfileFails(t *testing.T) {
	b, store := newExtractBatch(t, "anon.pdf")
	ext := &fakeExtractor{profiles: map[string]*StructuredProfile{
		"anon text": {},
	}}
	stage := &Stage{Extractor: ext, Store: store, Width: 1, TokenLimit: 100, Logger: zap.NewNop()}

	profiles := stage.Run(context.Background(), b, map[string]string{"anon.pdf": "anon text"})
	if len(profiles) != 0 {
		t.Fatalf("profiles %v", profiles)
	}
	it, _ := b.Items.Get("anon.pdf")
	if it.Status || !strings.Contains(it.Errors[0], "name is required") {
		t.Fatalf("item state %v %v", it.Status, it.Errors)
	}
}
