package score

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"resume-screener/internal/extract"
	"resume-screener/internal/jobprofile"
)

var (
	techTermPattern = regexp.MustCompile(`\b(?:python|javascript|react|docker|kubernetes|aws|azure|gcp|ml|ai|api|sql|nosql|git|ci/cd|devops|microservices|fastapi|django|flask|pandas|numpy|tensorflow|pytorch|scikit|machine learning|deep learning|data science|backend|frontend|full.stack|senior|junior|lead|architect|engineer|developer|analyst|manager)\b`)
	skillPhrasePattern = regexp.MustCompile(`\b(?:\w+(?:\s+\w+){0,2})\s+(?:experience|skills?|expertise|proficiency|knowledge|familiar)\b`)
)

// Weights of the hybrid blend: semantic understanding dominates, keyword and
// term-frequency matching refine, experience fit nudges.
const (
	semanticWeight   = 0.4
	keywordWeight    = 0.3
	tfidfWeight      = 0.2
	experienceWeight = 0.1
)

// HybridScorer is the final cascade tier. It blends semantic similarity,
// keyword overlap, TF-IDF similarity and experience-level fit into the
// ranking score.
type HybridScorer struct {
	Embedder Embedder
	Model    string
}

// Score implements Scorer.
func (s *HybridScorer) Score(ctx context.Context, profile *extract.StructuredProfile, job *jobprofile.JobProfile) (*Result, error) {
	rText := comprehensiveResumeText(profile)
	jText := comprehensiveJobText(job)

	rVec, err := s.Embedder.Embed(ctx, rText)
	if err != nil {
		return nil, fmt.Errorf("embed resume text: %w", err)
	}
	jVec, err := s.Embedder.Embed(ctx, jText)
	if err != nil {
		return nil, fmt.Errorf("embed job text: %w", err)
	}

	semantic := cosine(rVec, jVec) * 100
	keyword := keywordOverlap(rText, jText)
	tfidf := tfidfSimilarity(rText, jText)
	experience := experienceFit(profile, job)

	overall := semantic*semanticWeight +
		keyword*keywordWeight +
		tfidf*tfidfWeight +
		experience*experienceWeight

	breakdown := map[string]float64{
		"semantic_similarity": semantic,
		"keyword_overlap":     keyword,
		"tfidf_similarity":    tfidf,
		"experience_match":    experience,
	}

	return &Result{
		Tier:           3,
		OverallScore:   overall,
		ScoreBreakdown: breakdown,
		MatchQuality:   matchQualityLabel(overall),
		Recommendation: recommendation(overall, breakdown),
		ModelUsed:      s.Model,
	}, nil
}

func matchQualityLabel(score float64) string {
	switch {
	case score > 80:
		return "Excellent"
	case score > 60:
		return "Good"
	case score > 40:
		return "Fair"
	default:
		return "Poor"
	}
}

func recommendation(overall float64, breakdown map[string]float64) string {
	switch {
	case overall > 80:
		return "Excellent match - Strong candidate for this position"
	case breakdown["keyword_overlap"] < 30:
		return "Consider updating resume with more relevant technical keywords"
	case breakdown["semantic_similarity"] < 50:
		return "Resume content doesn't align well with job responsibilities"
	case breakdown["experience_match"] < 60:
		return "Experience level may not be optimal for this role"
	default:
		return "Good potential - consider for interview with some reservations"
	}
}

// extractKeywords pulls known technical terms and skill phrases from text.
func extractKeywords(text string) map[string]struct{} {
	lower := strings.ToLower(text)
	keywords := make(map[string]struct{})
	for _, m := range techTermPattern.FindAllString(lower, -1) {
		keywords[m] = struct{}{}
	}
	for _, m := range skillPhrasePattern.FindAllString(lower, -1) {
		keywords[m] = struct{}{}
	}
	return keywords
}

// keywordOverlap scores how many of the job's keywords the resume covers.
func keywordOverlap(resumeText, jobText string) float64 {
	resumeKeywords := extractKeywords(resumeText)
	jobKeywords := extractKeywords(jobText)
	if len(jobKeywords) == 0 {
		return 0
	}
	overlap := 0
	for kw := range jobKeywords {
		if _, ok := resumeKeywords[kw]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(jobKeywords)) * 100
}

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "in": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "to": {}, "was": {},
	"were": {}, "will": {}, "with": {},
}

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

func tokenize(text string) []string {
	var tokens []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[w]; !stop {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// tfidfSimilarity computes the cosine similarity of TF-IDF vectors built
// over the two documents, with smoothed IDF.
func tfidfSimilarity(docA, docB string) float64 {
	tokensA, tokensB := tokenize(docA), tokenize(docB)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	tfA, tfB := termFreq(tokensA), termFreq(tokensB)
	vocab := make(map[string]struct{}, len(tfA)+len(tfB))
	for t := range tfA {
		vocab[t] = struct{}{}
	}
	for t := range tfB {
		vocab[t] = struct{}{}
	}

	var dot, normA, normB float64
	for term := range vocab {
		df := 0
		if tfA[term] > 0 {
			df++
		}
		if tfB[term] > 0 {
			df++
		}
		idf := math.Log(3.0/float64(1+df)) + 1

		a := tfA[term] * idf
		b := tfB[term] * idf
		dot += a * b
		normA += a * a
		normB += b * b
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)) * 100
}

func termFreq(tokens []string) map[string]float64 {
	tf := make(map[string]float64)
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// experienceFit scores how the candidate's years of experience fit the
// required level. Absent experience data scores 0; near misses decay from a
// five year baseline.
func experienceFit(profile *extract.StructuredProfile, job *jobprofile.JobProfile) float64 {
	if profile.ProfessionalSummary == nil || profile.ProfessionalSummary.TotalExperienceYears == nil {
		return 0
	}
	years := *profile.ProfessionalSummary.TotalExperienceYears
	level := strings.ToLower(strings.TrimSpace(job.ExperienceLevel))

	switch {
	case level == "entry" && years <= 2:
		return 100
	case level == "junior" && years >= 1 && years <= 3:
		return 100
	case level == "mid" && years >= 3 && years <= 6:
		return 100
	case level == "senior" && years >= 5:
		return 100
	default:
		return math.Max(0, 100-math.Abs(float64(years)-5)*10)
	}
}
