package score

import (
	"context"
	"errors"
	"strings"
	"testing"

	"resume-screener/internal/extract"
	"resume-screener/internal/jobprofile"
)

type stubScorer struct {
	result *Result
	err    error
	calls  int
}

func (s *stubScorer) Score(ctx context.Context, profile *extract.StructuredProfile, job *jobprofile.JobProfile) (*Result, error) {
	s.calls++
	return s.result, s.err
}

func newCascade(fast, quality, hybrid *stubScorer) *Cascade {
	return &Cascade{Fast: fast, Quality: quality, Hybrid: hybrid}
}

func TestCascadeExitsAtTierOne(t *testing.T) {
	fast := &stubScorer{result: &Result{OverallScore: 25, Tier: 1}}
	quality := &stubScorer{result: &Result{OverallScore: 90, Tier: 2}}
	hybrid := &stubScorer{result: &Result{OverallScore: 90, Tier: 3}}

	res, err := newCascade(fast, quality, hybrid).Score(context.Background(), goProfile(), goJob())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Tier != 1 || res.OverallScore != 25 {
		t.Fatalf("verdict %+v", res)
	}
	if quality.calls != 0 || hybrid.calls != 0 {
		t.Fatalf("later tiers invoked: quality=%d hybrid=%d", quality.calls, hybrid.calls)
	}
}

func TestCascadeExitsAtTierTwo(t *testing.T) {
	fast := &stubScorer{result: &Result{OverallScore: 55, Tier: 1}}
	quality := &stubScorer{result: &Result{OverallScore: 45, Tier: 2}}
	hybrid := &stubScorer{result: &Result{OverallScore: 90, Tier: 3}}

	res, err := newCascade(fast, quality, hybrid).Score(context.Background(), goProfile(), goJob())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Tier != 2 || res.OverallScore != 45 {
		t.Fatalf("verdict %+v", res)
	}
	if hybrid.calls != 0 {
		t.Fatalf("hybrid invoked %d times", hybrid.calls)
	}
}

func TestCascadeRunsAllTiers(t *testing.T) {
	fast := &stubScorer{result: &Result{OverallScore: 55, Tier: 1}}
	quality := &stubScorer{result: &Result{OverallScore: 70, Tier: 2}}
	hybrid := &stubScorer{result: &Result{OverallScore: 82, Tier: 3, MatchQuality: "Excellent"}}

	res, err := newCascade(fast, quality, hybrid).Score(context.Background(), goProfile(), goJob())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Tier != 3 || res.MatchQuality != "Excellent" {
		t.Fatalf("verdict %+v", res)
	}
	if fast.calls != 1 || quality.calls != 1 || hybrid.calls != 1 {
		t.Fatalf("calls fast=%d quality=%d hybrid=%d", fast.calls, quality.calls, hybrid.calls)
	}
}

func TestCascadeThresholdBoundaries(t *testing.T) {
	// Exactly at a threshold keeps the current tier's verdict.
	fast := &stubScorer{result: &Result{OverallScore: 30, Tier: 1}}
	quality := &stubScorer{result: &Result{OverallScore: 90, Tier: 2}}
	hybrid := &stubScorer{result: &Result{OverallScore: 90, Tier: 3}}

	res, err := newCascade(fast, quality, hybrid).Score(context.Background(), goProfile(), goJob())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Tier != 1 {
		t.Fatalf("score 30 advanced past tier 1: %+v", res)
	}

	fast = &stubScorer{result: &Result{OverallScore: 31, Tier: 1}}
	quality = &stubScorer{result: &Result{OverallScore: 50, Tier: 2}}
	hybrid = &stubScorer{result: &Result{OverallScore: 90, Tier: 3}}

	res, err = newCascade(fast, quality, hybrid).Score(context.Background(), goProfile(), goJob())
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Tier != 2 {
		t.Fatalf("score 50 advanced past tier 2: %+v", res)
	}
}

func TestCascadeTierErrorPropagates(t *testing.T) {
	fast := &stubScorer{result: &Result{OverallScore: 55, Tier: 1}}
	quality := &stubScorer{err: errors.New("embedding outage")}
	hybrid := &stubScorer{result: &Result{OverallScore: 90, Tier: 3}}

	_, err := newCascade(fast, quality, hybrid).Score(context.Background(), goProfile(), goJob())
	if err == nil || !strings.Contains(err.Error(), "tier 2") {
		t.Fatalf("err %v", err)
	}
	if hybrid.calls != 0 {
		t.Fatal("hybrid invoked after tier failure")
	}
}
