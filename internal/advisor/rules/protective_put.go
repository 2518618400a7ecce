package rules

import (
	"fmt"

	"go-options-advisor/internal/advisor/dto"
)

// ProtectivePutAction is the action set for protection positions.
type ProtectivePutAction string

const (
	ProtectivePutHold        ProtectivePutAction = "HOLD"
	ProtectivePutSellToClose ProtectivePutAction = "SELL_TO_CLOSE"
	ProtectivePutRoll        ProtectivePutAction = "ROLL"
	ProtectivePutBuyNewPut   ProtectivePutAction = "BUY_NEW_PUT"
	ProtectivePutNone        ProtectivePutAction = "NONE"
)

// ProtectivePutRecommendation is the outcome of the protective-put
// classifier.
type ProtectivePutRecommendation struct {
	Action     ProtectivePutAction
	Reason     string
	Confidence Confidence
}

// ProtectivePutInput bundles a stock+put pair (or unprotected shares) with
// its scan-time market snapshot.
type ProtectivePutInput struct {
	Pair            dto.PairView
	Metrics         *dto.MarketMetrics
	UnderlyingPrice float64
	Conditions      dto.MarketConditions
	DTE             int
}

// EffectiveFloor is the worst-case exit price per share the put guarantees:
// strike minus the net protection cost per share.
func (in ProtectivePutInput) EffectiveFloor() float64 {
	if in.Pair.Option == nil {
		return 0
	}
	return in.Pair.Option.Strike - in.Pair.Option.Premium
}

// EvaluateProtectivePut classifies a protection position: monetize deep ITM
// protection, roll expensive or expiring protection down/out, buy new
// protection for exposed shares, or hold.
func EvaluateProtectivePut(in ProtectivePutInput, cfg Config) ProtectivePutRecommendation {
	if !in.Pair.HasOption() {
		return evaluateUnprotectedShares(in, cfg)
	}

	if in.Metrics == nil {
		return ProtectivePutRecommendation{
			Action:     ProtectivePutNone,
			Reason:     fmt.Sprintf("No option quote available for %s", in.Pair.Symbol),
			Confidence: ConfidenceLow,
		}
	}

	put := *in.Pair.Option
	m := *in.Metrics
	pl := PLPercent(put.Side, put.Premium, m.Price)

	// Deep ITM protection that has done its job: selling recovers the gain
	// while the shares can be re-hedged lower.
	if Moneyness(put.OptionType, put.Strike, m.UnderlyingPrice) == MoneynessITM && pl >= cfg.PutProfitTakePercent {
		return ProtectivePutRecommendation{
			Action:     ProtectivePutSellToClose,
			Reason:     fmt.Sprintf("Protection gained %.1f%% with underlying below the %.2f strike, monetize and re-hedge", pl, put.Strike),
			Confidence: ConfidenceHigh,
		}
	}

	// Protection cost as a share of the protected stock value.
	if in.Pair.HasStock() && m.UnderlyingPrice > 0 {
		stockValue := float64(in.Pair.Stock.Shares) * m.UnderlyingPrice
		protectionCost := put.Premium * 100 * float64(put.Contracts)
		if stockValue > 0 {
			costPct := protectionCost / stockValue * 100
			if costPct > cfg.PutCostMaxPercent {
				return ProtectivePutRecommendation{
					Action:     ProtectivePutRoll,
					Reason:     fmt.Sprintf("Protection cost %.1f%% of stock value exceeds %.1f%% ceiling, roll down/out to cheapen it (floor %.2f)", costPct, cfg.PutCostMaxPercent, in.EffectiveFloor()),
					Confidence: ConfidenceMedium,
				}
			}
		}
	}

	if in.DTE <= cfg.PutRollDteMax {
		return ProtectivePutRecommendation{
			Action:     ProtectivePutRoll,
			Reason:     fmt.Sprintf("Protection expires in %d days, roll out to keep the %.2f floor", in.DTE, in.EffectiveFloor()),
			Confidence: ConfidenceHigh,
		}
	}

	return ProtectivePutRecommendation{
		Action:     ProtectivePutHold,
		Reason:     fmt.Sprintf("Protection in place with floor %.2f, %d days remaining", in.EffectiveFloor(), in.DTE),
		Confidence: ConfidenceMedium,
	}
}

// evaluateUnprotectedShares recommends buying protection when exposed value
// and market risk both warrant it.
func evaluateUnprotectedShares(in ProtectivePutInput, cfg Config) ProtectivePutRecommendation {
	if !in.Pair.HasStock() {
		return ProtectivePutRecommendation{
			Action:     ProtectivePutNone,
			Reason:     "No shares and no option to evaluate",
			Confidence: ConfidenceLow,
		}
	}
	if in.UnderlyingPrice <= 0 {
		return ProtectivePutRecommendation{
			Action:     ProtectivePutNone,
			Reason:     fmt.Sprintf("No quote available for %s", in.Pair.Symbol),
			Confidence: ConfidenceLow,
		}
	}

	exposedValue := float64(in.Pair.Stock.Shares) * in.UnderlyingPrice
	if exposedValue < cfg.PutProtectMinValue {
		return ProtectivePutRecommendation{
			Action:     ProtectivePutHold,
			Reason:     fmt.Sprintf("Unprotected value %.0f below the %.0f protection threshold", exposedValue, cfg.PutProtectMinValue),
			Confidence: ConfidenceMedium,
		}
	}

	riskElevated := in.Conditions.Trend == dto.TrendDown || in.Conditions.VixLevel == dto.VixLevelElevated
	if !riskElevated {
		return ProtectivePutRecommendation{
			Action:     ProtectivePutHold,
			Reason:     fmt.Sprintf("%.0f exposed but market risk signals are quiet", exposedValue),
			Confidence: ConfidenceMedium,
		}
	}

	return ProtectivePutRecommendation{
		Action:     ProtectivePutBuyNewPut,
		Reason:     fmt.Sprintf("%.0f of %s unprotected while trend is %s and VIX %s", exposedValue, in.Pair.Symbol, in.Conditions.Trend, in.Conditions.VixLevel),
		Confidence: ConfidenceMedium,
	}
}
