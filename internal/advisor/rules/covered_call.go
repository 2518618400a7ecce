package rules

import (
	"fmt"

	"go-options-advisor/internal/advisor/dto"
)

// CoveredCallAction is the action set for covered-call pairs and uncovered
// share positions.
type CoveredCallAction string

const (
	CoveredCallHold        CoveredCallAction = "HOLD"
	CoveredCallBuyToClose  CoveredCallAction = "BUY_TO_CLOSE"
	CoveredCallSellNewCall CoveredCallAction = "SELL_NEW_CALL"
	CoveredCallRoll        CoveredCallAction = "ROLL"
	// CoveredCallNone means insufficient data. It is not HOLD: NONE
	// positions are excluded from alert creation and counted as skipped.
	CoveredCallNone CoveredCallAction = "NONE"
)

// Confidence grades a multi-leg recommendation.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// CoveredCallRecommendation is the outcome of the covered-call classifier.
type CoveredCallRecommendation struct {
	Action     CoveredCallAction
	Reason     string
	Confidence Confidence
}

// CoveredCallInput bundles a stock+call pair (or standalone stock /
// watchlist entry) with its scan-time market snapshot. Metrics is nil when
// the option leg is absent or its quote is unavailable; UnderlyingPrice may
// be zero when no quote could be fetched at all.
type CoveredCallInput struct {
	Pair            dto.PairView
	Metrics         *dto.MarketMetrics
	UnderlyingPrice float64
	Conditions      dto.MarketConditions
	DTE             int
}

// EvaluateCoveredCall classifies a covered-call pair: close and take profit,
// roll away from assignment, open a new call against uncovered shares, or
// hold.
func EvaluateCoveredCall(in CoveredCallInput, cfg Config) CoveredCallRecommendation {
	if !in.Pair.HasOption() {
		return evaluateUncoveredShares(in, cfg)
	}

	if in.Metrics == nil {
		return CoveredCallRecommendation{
			Action:     CoveredCallNone,
			Reason:     fmt.Sprintf("No option quote available for %s", in.Pair.Symbol),
			Confidence: ConfidenceLow,
		}
	}

	call := *in.Pair.Option
	m := *in.Metrics
	pl := PLPercent(call.Side, call.Premium, m.Price)
	moneyness := Moneyness(call.OptionType, call.Strike, m.UnderlyingPrice)
	extrinsicPct := ExtrinsicPercent(m.TimeValue, call.Premium)

	// Most of the premium captured and little extrinsic left to collect.
	if pl >= cfg.CCProfitCapturePercent && extrinsicPct < cfg.CCExtrinsicPercentMax {
		return CoveredCallRecommendation{
			Action:     CoveredCallBuyToClose,
			Reason:     fmt.Sprintf("Captured %.1f%% of premium with only %.1f%% extrinsic remaining", pl, extrinsicPct),
			Confidence: ConfidenceHigh,
		}
	}

	// Deep ITM near expiry: assignment is the likely outcome.
	if moneyness == MoneynessITM && in.DTE <= cfg.CCRollDteMax {
		itmPct := (m.UnderlyingPrice - call.Strike) / call.Strike * 100
		if itmPct >= cfg.CCDeepItmPercent {
			return CoveredCallRecommendation{
				Action:     CoveredCallRoll,
				Reason:     fmt.Sprintf("Deep ITM (%.1f%% above strike) with %d days left, assignment likely", itmPct, in.DTE),
				Confidence: ConfidenceHigh,
			}
		}
	}

	// Delta proxy for assignment likelihood when the provider supplies it.
	if m.Delta >= cfg.CCAssignmentDeltaMax {
		return CoveredCallRecommendation{
			Action:     CoveredCallRoll,
			Reason:     fmt.Sprintf("Delta %.2f signals high assignment likelihood", m.Delta),
			Confidence: ConfidenceMedium,
		}
	}

	// OTM with expiry close: let the remaining time value decay.
	if moneyness == MoneynessOTM && in.DTE <= cfg.CCRollDteMax {
		return CoveredCallRecommendation{
			Action:     CoveredCallHold,
			Reason:     fmt.Sprintf("OTM with %d days left, letting remaining time value decay", in.DTE),
			Confidence: ConfidenceHigh,
		}
	}

	return CoveredCallRecommendation{
		Action:     CoveredCallHold,
		Reason:     fmt.Sprintf("%s call at %.1f%% P/L, no action trigger", moneyness, pl),
		Confidence: ConfidenceMedium,
	}
}

// evaluateUncoveredShares proposes opening a call against shares (or a
// watchlist symbol) that carry no short call.
func evaluateUncoveredShares(in CoveredCallInput, cfg Config) CoveredCallRecommendation {
	if in.Pair.Source == dto.PairSourceWatchlist {
		if in.UnderlyingPrice <= 0 {
			return CoveredCallRecommendation{
				Action:     CoveredCallNone,
				Reason:     fmt.Sprintf("No quote available for watchlist symbol %s", in.Pair.Symbol),
				Confidence: ConfidenceLow,
			}
		}
		return CoveredCallRecommendation{
			Action:     CoveredCallSellNewCall,
			Reason:     fmt.Sprintf("Watchlist symbol %s has no call written", in.Pair.Symbol),
			Confidence: ConfidenceLow,
		}
	}

	if !in.Pair.HasStock() {
		return CoveredCallRecommendation{
			Action:     CoveredCallNone,
			Reason:     "No shares and no option to evaluate",
			Confidence: ConfidenceLow,
		}
	}

	if in.UnderlyingPrice <= 0 {
		return CoveredCallRecommendation{
			Action:     CoveredCallNone,
			Reason:     fmt.Sprintf("No quote available for %s", in.Pair.Symbol),
			Confidence: ConfidenceLow,
		}
	}

	if in.Pair.Stock.Shares < cfg.CCMinUncoveredShares {
		return CoveredCallRecommendation{
			Action:     CoveredCallHold,
			Reason:     fmt.Sprintf("Only %d shares, not enough to cover a contract", in.Pair.Stock.Shares),
			Confidence: ConfidenceMedium,
		}
	}

	confidence := ConfidenceMedium
	if in.Conditions.VixLevel == dto.VixLevelElevated {
		// Elevated volatility means richer call premium for the same strike.
		confidence = ConfidenceHigh
	}
	return CoveredCallRecommendation{
		Action:     CoveredCallSellNewCall,
		Reason:     fmt.Sprintf("%d uncovered shares of %s could be writing calls", in.Pair.Stock.Shares, in.Pair.Symbol),
		Confidence: confidence,
	}
}
