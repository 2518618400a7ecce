package rules

import (
	"fmt"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/entity"
)

// OptionAction is the action set for a single short option.
type OptionAction string

const (
	OptionHold       OptionAction = "HOLD"
	OptionBuyToClose OptionAction = "BUY_TO_CLOSE"
)

// OptionRecommendation is the outcome of the single-option classifier.
type OptionRecommendation struct {
	Action OptionAction
	Reason string
}

// OptionInput bundles everything the single-option classifier looks at.
type OptionInput struct {
	Position   entity.OptionPosition
	Metrics    dto.MarketMetrics
	Conditions dto.MarketConditions
	DTE        int
}

// PLPercent is the position's side-correct profit/loss against entry premium.
func (in OptionInput) PLPercent() float64 {
	return PLPercent(in.Position.Side, in.Position.Premium, in.Metrics.Price)
}

// optionRule is one rung of the ordered decision chain. Rules are evaluated
// top to bottom and the first match wins; reordering them changes precedence.
type optionRule struct {
	name  string
	apply func(in OptionInput, cfg Config) (OptionRecommendation, bool)
}

var optionRuleChain = []optionRule{
	{
		name: "stop-loss",
		apply: func(in OptionInput, cfg Config) (OptionRecommendation, bool) {
			pl := in.PLPercent()
			if pl < cfg.BTCStopLossPercent {
				return OptionRecommendation{
					Action: OptionBuyToClose,
					Reason: fmt.Sprintf("Stop loss: P/L %.1f%% breached %.0f%% threshold", pl, cfg.BTCStopLossPercent),
				}, true
			}
			return OptionRecommendation{}, false
		},
	},
	{
		// The loss-avoidance override: never recommend closing at a loss
		// purely because expiration is near.
		name: "low-dte",
		apply: func(in OptionInput, cfg Config) (OptionRecommendation, bool) {
			if in.DTE >= cfg.BTCDteMax {
				return OptionRecommendation{}, false
			}
			pl := in.PLPercent()
			// The bid check catches quotes where the mid looks flat but an
			// actual exit would still realize a loss.
			atLoss := pl < 0
			if in.Metrics.Bid > 0 {
				if in.Position.IsShort() {
					atLoss = atLoss || in.Metrics.Bid > in.Position.Premium
				} else {
					atLoss = atLoss || in.Metrics.Bid < in.Position.Premium
				}
			}
			if atLoss {
				return OptionRecommendation{
					Action: OptionHold,
					Reason: fmt.Sprintf("Low DTE (%d days) but closing now would lock in a %.1f%% loss; holding to avoid realizing it", in.DTE, pl),
				}, true
			}
			return OptionRecommendation{
				Action: OptionBuyToClose,
				Reason: fmt.Sprintf("Low DTE: %d days to expiration", in.DTE),
			}, true
		},
	},
	{
		name: "adequate-dte",
		apply: func(in OptionInput, cfg Config) (OptionRecommendation, bool) {
			if in.DTE >= cfg.HoldDteMin {
				return OptionRecommendation{
					Action: OptionHold,
					Reason: fmt.Sprintf("Adequate DTE (%d days remaining)", in.DTE),
				}, true
			}
			return OptionRecommendation{}, false
		},
	},
	{
		name: "mid-band-profitable",
		apply: func(in OptionInput, cfg Config) (OptionRecommendation, bool) {
			pl := in.PLPercent()
			if in.DTE >= cfg.BTCDteMax && in.DTE < cfg.HoldDteMin && pl > 0 {
				return OptionRecommendation{
					Action: OptionBuyToClose,
					Reason: fmt.Sprintf("Profitable (%.1f%%) and approaching expiry (%d days)", pl, in.DTE),
				}, true
			}
			return OptionRecommendation{}, false
		},
	},
	{
		name: "time-value",
		apply: func(in OptionInput, cfg Config) (OptionRecommendation, bool) {
			if in.Position.Premium <= 0 {
				return OptionRecommendation{}, false
			}
			tvPercent := ExtrinsicPercent(in.Metrics.TimeValue, in.Position.Premium)
			if tvPercent > cfg.HoldTimeValuePercentMin {
				return OptionRecommendation{
					Action: OptionHold,
					Reason: fmt.Sprintf("Time value %.1f%% of premium still decaying", tvPercent),
				}, true
			}
			return OptionRecommendation{}, false
		},
	},
	{
		name: "profitable",
		apply: func(in OptionInput, cfg Config) (OptionRecommendation, bool) {
			if pl := in.PLPercent(); pl > 0 {
				return OptionRecommendation{
					Action: OptionHold,
					Reason: fmt.Sprintf("Profitable (%.1f%%), no close trigger fired", pl),
				}, true
			}
			return OptionRecommendation{}, false
		},
	},
}

// EvaluateOption classifies a single option position. The chain is
// first-match-wins: stop loss and the low-DTE loss-avoidance override take
// precedence over every other signal.
func EvaluateOption(in OptionInput, cfg Config) OptionRecommendation {
	for _, rule := range optionRuleChain {
		if rec, ok := rule.apply(in, cfg); ok {
			return rec
		}
	}
	return OptionRecommendation{
		Action: OptionHold,
		Reason: "No close trigger fired",
	}
}
