package score

import (
	"context"
	"fmt"

	"resume-screener/internal/extract"
	"resume-screener/internal/jobprofile"
)

// FastScorer is the first cascade tier. It embeds focused resume and job
// sections, builds the cross-similarity matrix and scores the best match per
// resume section.
type FastScorer struct {
	Embedder Embedder
	Model    string
}

// Score implements Scorer.
func (s *FastScorer) Score(ctx context.Context, profile *extract.StructuredProfile, job *jobprofile.JobProfile) (*Result, error) {
	rSections := resumeSections(profile)
	jSections := jobSections(job)

	res := &Result{
		Tier:            1,
		SectionScores:   map[string]float64{},
		ModelUsed:       s.Model,
		ProcessingSpeed: "Fast",
	}
	if len(rSections) == 0 || len(jSections) == 0 {
		res.Confidence = confidenceLabel(0)
		return res, nil
	}

	rVecs, err := embedAll(ctx, s.Embedder, rSections)
	if err != nil {
		return nil, fmt.Errorf("embed resume sections: %w", err)
	}
	jVecs, err := embedAll(ctx, s.Embedder, jSections)
	if err != nil {
		return nil, fmt.Errorf("embed job sections: %w", err)
	}

	// similarity[i][j] compares resume section i against job section j
	similarity := make([][]float64, len(rVecs))
	for i, rv := range rVecs {
		similarity[i] = make([]float64, len(jVecs))
		for j, jv := range jVecs {
			similarity[i][j] = cosine(rv, jv)
		}
	}

	if len(rSections) > 0 && len(jSections) > 1 {
		res.SectionScores["skills_to_requirements"] = similarity[0][1] * 100
	}
	if len(rSections) > 1 && len(jSections) > 2 {
		res.SectionScores["experience_to_responsibilities"] = similarity[1][2] * 100
	}

	var sum float64
	for _, row := range similarity {
		best := row[0]
		for _, v := range row[1:] {
			if v > best {
				best = v
			}
		}
		sum += best
	}
	res.OverallScore = sum / float64(len(similarity)) * 100
	res.Confidence = confidenceLabel(res.OverallScore)
	return res, nil
}

func confidenceLabel(score float64) string {
	switch {
	case score > 70:
		return "High"
	case score > 45:
		return "Medium"
	default:
		return "Low"
	}
}

func embedAll(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}
