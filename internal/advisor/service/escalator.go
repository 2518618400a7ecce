package service

import (
	"context"
	"math"

	"go-options-advisor/internal/advisor/config"
	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/repository"
	"go-options-advisor/internal/advisor/rules"
	"go-options-advisor/internal/entity"
	"go-options-advisor/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// allowedActions is the per-strategy action vocabulary the assistant may
// choose from. An override outside this set is discarded.
var allowedActions = map[string][]string{
	dto.ScannerOption: {
		string(rules.OptionHold), string(rules.OptionBuyToClose),
	},
	dto.ScannerCoveredCall: {
		string(rules.CoveredCallHold), string(rules.CoveredCallBuyToClose),
		string(rules.CoveredCallSellNewCall), string(rules.CoveredCallRoll),
	},
	dto.ScannerProtectivePut: {
		string(rules.ProtectivePutHold), string(rules.ProtectivePutSellToClose),
		string(rules.ProtectivePutRoll), string(rules.ProtectivePutBuyNewPut),
	},
	dto.ScannerStraddle: {
		string(rules.StraddleHold), string(rules.StraddleSellToClose),
		string(rules.StraddleRoll), string(rules.StraddleAdd),
	},
}

// Escalator hands borderline rule classifications to the external reasoning
// service under a bounded concurrency ceiling. Escalation is strictly
// additive: on any failure the preliminary rule result stands.
type Escalator struct {
	cfg       *config.Config
	logger    *logger.Logger
	reasoning repository.ReasoningRepository
}

// NewEscalator creates an escalator. A nil reasoning repository disables
// escalation entirely.
func NewEscalator(cfg *config.Config, log *logger.Logger, reasoning repository.ReasoningRepository) *Escalator {
	return &Escalator{cfg: cfg, logger: log, reasoning: reasoning}
}

// IsEdgeCandidate reports whether a rule classification is uncertain enough
// to warrant assistant review: a large P/L swing, a short runway, or high
// implied volatility.
func (e *Escalator) IsEdgeCandidate(rec dto.Recommendation) bool {
	if math.Abs(rec.PLPercent) > e.cfg.Reasoning.EdgePLPercent {
		return true
	}
	if rec.DTE < e.cfg.Reasoning.EdgeDteMax {
		return true
	}
	return rec.Metrics != nil && rec.Metrics.ImpliedVolatility > e.cfg.Reasoning.EdgeIVMin
}

// Refine reviews edge candidates in place, at most MaxConcurrent calls in
// flight, each with its own timeout. Non-candidates and every failure path
// keep the rule-based recommendation untouched.
func (e *Escalator) Refine(ctx context.Context, recs []dto.Recommendation) []dto.Recommendation {
	if !e.cfg.Reasoning.Enabled || e.reasoning == nil || len(recs) == 0 {
		return recs
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Reasoning.MaxConcurrent)

	for i := range recs {
		if !e.IsEdgeCandidate(recs[i]) {
			continue
		}
		i := i
		g.Go(func() error {
			e.reviewOne(gctx, &recs[i])
			return nil
		})
	}

	// Workers never return errors; Wait only orders the in-place writes.
	_ = g.Wait()
	return recs
}

// reviewOne escalates a single recommendation and applies the verdict.
func (e *Escalator) reviewOne(ctx context.Context, rec *dto.Recommendation) {
	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Reasoning.Timeout)
	defer cancel()

	req := &dto.PositionReviewRequest{
		Strategy:          rec.Strategy,
		Symbol:            rec.Symbol,
		Account:           rec.Account,
		OptionType:        rec.OptionType,
		Side:              rec.Side,
		Strike:            rec.Strike,
		Contracts:         rec.Contracts,
		EntryPremium:      rec.EntryPremium,
		DTE:               rec.DTE,
		PLPercent:         rec.PLPercent,
		Metrics:           rec.Metrics,
		Conditions:        rec.Conditions,
		PreliminaryAction: rec.Action,
		PreliminaryReason: rec.Reason,
		AllowedActions:    allowedActions[rec.Strategy],
	}

	result, err := e.reasoning.ReviewPosition(callCtx, req)

	rec.AssistantEvaluated = true
	rec.PreliminaryAction = rec.Action
	rec.PreliminaryReason = rec.Reason

	if err != nil {
		e.logger.Warn("Assistant review failed, keeping rule recommendation",
			logger.StringField("symbol", rec.Symbol),
			logger.StringField("strategy", rec.Strategy),
			logger.ErrorField(err))
		rec.Source = entity.RecommendationSourceRules
		return
	}

	if !actionAllowed(rec.Strategy, result.Recommendation) {
		e.logger.Warn("Assistant returned action outside the strategy vocabulary, keeping rule recommendation",
			logger.StringField("symbol", rec.Symbol),
			logger.StringField("action", result.Recommendation))
		rec.Source = entity.RecommendationSourceRules
		return
	}

	rec.Source = entity.RecommendationSourceAssistant
	rec.AssistantReasoning = result.Reasoning
	if result.Recommendation != rec.Action {
		rec.Action = result.Recommendation
		rec.Actionable = actionableFor(result.Recommendation)
		rec.Reason = result.Reasoning
	}
}

func actionAllowed(strategy, action string) bool {
	for _, allowed := range allowedActions[strategy] {
		if allowed == action {
			return true
		}
	}
	return false
}

// actionableFor mirrors the scanners' alert eligibility: HOLD and NONE are
// inert, everything else is actionable.
func actionableFor(action string) bool {
	return action != string(rules.OptionHold) && action != string(rules.CoveredCallNone)
}
