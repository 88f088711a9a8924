package score

import (
	"context"
	"fmt"

	"resume-screener/internal/extract"
	"resume-screener/internal/jobprofile"
)

// Cascade exit thresholds. A candidate at or below the threshold keeps the
// current tier's verdict; above it the next tier refines.
const (
	fastExitThreshold    = 30
	qualityExitThreshold = 50
)

type cascadeState int

const (
	stateFast cascadeState = iota
	stateQuality
	stateHybrid
	stateDone
)

// Cascade runs the tiers as an explicit state machine. A tier error fails
// the candidate; there is no fallback to an earlier verdict.
type Cascade struct {
	Fast    Scorer
	Quality Scorer
	Hybrid  Scorer
}

// Score implements Scorer.
func (c *Cascade) Score(ctx context.Context, profile *extract.StructuredProfile, job *jobprofile.JobProfile) (*Result, error) {
	var verdict *Result

	for state := stateFast; state != stateDone; {
		switch state {
		case stateFast:
			res, err := c.Fast.Score(ctx, profile, job)
			if err != nil {
				return nil, fmt.Errorf("tier 1: %w", err)
			}
			verdict = res
			if res.OverallScore <= fastExitThreshold {
				state = stateDone
			} else {
				state = stateQuality
			}
		case stateQuality:
			res, err := c.Quality.Score(ctx, profile, job)
			if err != nil {
				return nil, fmt.Errorf("tier 2: %w", err)
			}
			verdict = res
			if res.OverallScore <= qualityExitThreshold {
				state = stateDone
			} else {
				state = stateHybrid
			}
		case stateHybrid:
			res, err := c.Hybrid.Score(ctx, profile, job)
			if err != nil {
				return nil, fmt.Errorf("tier 3: %w", err)
			}
			verdict = res
			state = stateDone
		}
	}

	return verdict, nil
}
