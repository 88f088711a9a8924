package score

import (
	"context"
	"fmt"
	"strings"

	"resume-screener/internal/extract"
	"resume-screener/internal/jobprofile"
)

// QualityScorer is the second cascade tier. It compares the full textual
// representations of candidate and job, with skills and experience
// sub-scores.
type QualityScorer struct {
	Embedder Embedder
	Model    string
}

// Score implements Scorer.
func (s *QualityScorer) Score(ctx context.Context, profile *extract.StructuredProfile, job *jobprofile.JobProfile) (*Result, error) {
	rVec, err := s.Embedder.Embed(ctx, resumeText(profile))
	if err != nil {
		return nil, fmt.Errorf("embed resume text: %w", err)
	}
	jVec, err := s.Embedder.Embed(ctx, jobText(job))
	if err != nil {
		return nil, fmt.Errorf("embed job text: %w", err)
	}

	res := &Result{
		Tier:              2,
		OverallScore:      cosine(rVec, jVec) * 100,
		SectionsBreakdown: map[string]float64{},
		ModelUsed:         s.Model,
	}

	if profile.Skills != nil && len(profile.Skills.Technical) > 0 {
		skillsVec, err := s.Embedder.Embed(ctx, "Skills: "+strings.Join(profile.Skills.Technical, ", "))
		if err != nil {
			return nil, fmt.Errorf("embed skills: %w", err)
		}
		reqVec, err := s.Embedder.Embed(ctx, "Requirements: "+job.Requirements)
		if err != nil {
			return nil, fmt.Errorf("embed requirements: %w", err)
		}
		res.SectionsBreakdown["skills_match"] = cosine(skillsVec, reqVec) * 100
	}

	var responsibilities []string
	for _, exp := range profile.WorkExperience {
		responsibilities = append(responsibilities, exp.Responsibilities...)
	}
	if len(responsibilities) > 0 {
		expVec, err := s.Embedder.Embed(ctx, strings.Join(responsibilities, " | "))
		if err != nil {
			return nil, fmt.Errorf("embed experience: %w", err)
		}
		respVec, err := s.Embedder.Embed(ctx, job.Responsibilities)
		if err != nil {
			return nil, fmt.Errorf("embed responsibilities: %w", err)
		}
		res.SectionsBreakdown["experience_match"] = cosine(expVec, respVec) * 100
	}

	res.MatchLevel = matchLevelLabel(res.OverallScore)
	return res, nil
}

func matchLevelLabel(score float64) string {
	switch {
	case score > 75:
		return "High"
	case score > 50:
		return "Medium"
	default:
		return "Low"
	}
}
