// Package score ranks structured candidate profiles against a job profile
// through a tiered cascade: a cheap section scorer filters out weak matches,
// a full-text scorer confirms potential, and a hybrid scorer produces the
// final ranking.
package score

import (
	"context"
	"math"

	"resume-screener/internal/extract"
	"resume-screener/internal/jobprofile"
)

// Embedder produces a vector representation of text. Implementations must be
// safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Scorer produces one tier's verdict for a candidate against a job.
type Scorer interface {
	Score(ctx context.Context, profile *extract.StructuredProfile, job *jobprofile.JobProfile) (*Result, error)
}

// Result is one scoring verdict. Only the fields of the tier that produced
// it are populated; Tier records which one that was.
type Result struct {
	OverallScore float64 `json:"overall_score"`
	Tier         int     `json:"tier"`

	SectionScores map[string]float64 `json:"section_scores,omitempty"`
	Confidence    string             `json:"confidence,omitempty"`

	SectionsBreakdown map[string]float64 `json:"sections_breakdown,omitempty"`
	MatchLevel        string             `json:"match_level,omitempty"`

	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`
	MatchQuality   string             `json:"match_quality,omitempty"`
	Recommendation string             `json:"recommendation,omitempty"`

	ModelUsed       string `json:"model_used"`
	ProcessingSpeed string `json:"processing_speed,omitempty"`
}

// cosine returns the cosine similarity of two vectors, 0 for degenerate
// input.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
