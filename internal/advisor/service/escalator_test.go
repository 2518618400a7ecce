package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-options-advisor/internal/advisor/config"
	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/entity"
	"go-options-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
)

type fakeReasoning struct {
	mu       sync.Mutex
	requests []*dto.PositionReviewRequest
	result   *dto.PositionReviewResult
	err      error

	inflight    int32
	maxInflight int32
	delay       time.Duration
}

func (f *fakeReasoning) ReviewPosition(ctx context.Context, req *dto.PositionReviewRequest) (*dto.PositionReviewResult, error) {
	current := atomic.AddInt32(&f.inflight, 1)
	defer atomic.AddInt32(&f.inflight, -1)
	for {
		max := atomic.LoadInt32(&f.maxInflight)
		if current <= max || atomic.CompareAndSwapInt32(&f.maxInflight, max, current) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func escalatorConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Reasoning.Enabled = true
	cfg.Reasoning.Provider = "gemini"
	cfg.Reasoning.MaxConcurrent = 6
	cfg.Reasoning.Timeout = time.Second
	cfg.Reasoning.EdgePLPercent = 12
	cfg.Reasoning.EdgeDteMax = 14
	cfg.Reasoning.EdgeIVMin = 55
	return cfg
}

func ruleRec(plPercent float64, dte int, iv float64) dto.Recommendation {
	return dto.Recommendation{
		PositionKey: "1",
		Symbol:      "AAPL",
		Strategy:    dto.ScannerOption,
		Action:      "HOLD",
		Actionable:  false,
		Reason:      "Adequate DTE",
		Source:      entity.RecommendationSourceRules,
		Metrics:     &dto.MarketMetrics{ImpliedVolatility: iv},
		PLPercent:   plPercent,
		DTE:         dte,
	}
}

func TestIsEdgeCandidate(t *testing.T) {
	e := NewEscalator(escalatorConfig(), logger.NewNop(), nil)

	tests := []struct {
		name     string
		rec      dto.Recommendation
		expected bool
	}{
		{"quiet position", ruleRec(5, 30, 30), false},
		{"large gain", ruleRec(20, 30, 30), true},
		{"large loss", ruleRec(-20, 30, 30), true},
		{"short runway", ruleRec(5, 10, 30), true},
		{"high IV", ruleRec(5, 30, 60), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.IsEdgeCandidate(tt.rec))
		})
	}
}

func TestIsEdgeCandidate_NilMetrics(t *testing.T) {
	e := NewEscalator(escalatorConfig(), logger.NewNop(), nil)
	rec := ruleRec(5, 30, 0)
	rec.Metrics = nil
	assert.False(t, e.IsEdgeCandidate(rec))
}

func TestRefine_OverrideApplied(t *testing.T) {
	reasoning := &fakeReasoning{
		result: &dto.PositionReviewResult{
			Recommendation: "BUY_TO_CLOSE",
			Reasoning:      "Earnings this week, volatility crush likely",
		},
	}
	e := NewEscalator(escalatorConfig(), logger.NewNop(), reasoning)

	recs := e.Refine(context.Background(), []dto.Recommendation{ruleRec(20, 30, 30)})

	assert.Equal(t, "BUY_TO_CLOSE", recs[0].Action)
	assert.True(t, recs[0].Actionable)
	assert.Equal(t, entity.RecommendationSourceAssistant, recs[0].Source)
	assert.True(t, recs[0].AssistantEvaluated)
	assert.Equal(t, "HOLD", recs[0].PreliminaryAction)
	assert.Equal(t, "Adequate DTE", recs[0].PreliminaryReason)
}

func TestRefine_ErrorFallsBackToRules(t *testing.T) {
	reasoning := &fakeReasoning{err: errors.New("model unavailable")}
	e := NewEscalator(escalatorConfig(), logger.NewNop(), reasoning)

	recs := e.Refine(context.Background(), []dto.Recommendation{ruleRec(20, 30, 30)})

	assert.Equal(t, "HOLD", recs[0].Action)
	assert.False(t, recs[0].Actionable)
	assert.Equal(t, entity.RecommendationSourceRules, recs[0].Source)
	assert.True(t, recs[0].AssistantEvaluated)
}

func TestRefine_InvalidActionDiscarded(t *testing.T) {
	reasoning := &fakeReasoning{
		result: &dto.PositionReviewResult{Recommendation: "SELL_NEW_CALL", Reasoning: "wrong vocabulary"},
	}
	e := NewEscalator(escalatorConfig(), logger.NewNop(), reasoning)

	// SELL_NEW_CALL is not in the single-option action set.
	recs := e.Refine(context.Background(), []dto.Recommendation{ruleRec(20, 30, 30)})

	assert.Equal(t, "HOLD", recs[0].Action)
	assert.Equal(t, entity.RecommendationSourceRules, recs[0].Source)
}

func TestRefine_NonCandidatesUntouched(t *testing.T) {
	reasoning := &fakeReasoning{
		result: &dto.PositionReviewResult{Recommendation: "BUY_TO_CLOSE", Reasoning: "x"},
	}
	e := NewEscalator(escalatorConfig(), logger.NewNop(), reasoning)

	recs := e.Refine(context.Background(), []dto.Recommendation{ruleRec(5, 30, 30)})

	assert.Equal(t, "HOLD", recs[0].Action)
	assert.False(t, recs[0].AssistantEvaluated)
	assert.Empty(t, reasoning.requests)
}

func TestRefine_DisabledSkipsEverything(t *testing.T) {
	cfg := escalatorConfig()
	cfg.Reasoning.Enabled = false
	reasoning := &fakeReasoning{
		result: &dto.PositionReviewResult{Recommendation: "BUY_TO_CLOSE", Reasoning: "x"},
	}
	e := NewEscalator(cfg, logger.NewNop(), reasoning)

	recs := e.Refine(context.Background(), []dto.Recommendation{ruleRec(20, 30, 30)})

	assert.Equal(t, "HOLD", recs[0].Action)
	assert.Empty(t, reasoning.requests)
}

func TestRefine_BoundedConcurrency(t *testing.T) {
	cfg := escalatorConfig()
	cfg.Reasoning.MaxConcurrent = 3

	reasoning := &fakeReasoning{
		result: &dto.PositionReviewResult{Recommendation: "HOLD", Reasoning: "x"},
		delay:  20 * time.Millisecond,
	}
	e := NewEscalator(cfg, logger.NewNop(), reasoning)

	recs := make([]dto.Recommendation, 12)
	for i := range recs {
		recs[i] = ruleRec(20, 30, 30)
	}
	e.Refine(context.Background(), recs)

	assert.Len(t, reasoning.requests, 12)
	assert.LessOrEqual(t, reasoning.maxInflight, int32(3))
}

func TestRefine_RequestCarriesAllowedActions(t *testing.T) {
	reasoning := &fakeReasoning{
		result: &dto.PositionReviewResult{Recommendation: "HOLD", Reasoning: "x"},
	}
	e := NewEscalator(escalatorConfig(), logger.NewNop(), reasoning)

	rec := ruleRec(20, 30, 30)
	rec.Strategy = dto.ScannerCoveredCall
	e.Refine(context.Background(), []dto.Recommendation{rec})

	assert.Len(t, reasoning.requests, 1)
	assert.ElementsMatch(t,
		[]string{"HOLD", "BUY_TO_CLOSE", "SELL_NEW_CALL", "ROLL"},
		reasoning.requests[0].AllowedActions)
}
