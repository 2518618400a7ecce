package rules

import (
	"fmt"
	"math"

	"go-options-advisor/internal/advisor/dto"
)

// StraddleAction is the action set for straddles and strangles.
type StraddleAction string

const (
	StraddleHold        StraddleAction = "HOLD"
	StraddleSellToClose StraddleAction = "SELL_TO_CLOSE"
	StraddleRoll        StraddleAction = "ROLL"
	StraddleAdd         StraddleAction = "ADD"
	StraddleNone        StraddleAction = "NONE"
)

// StraddleRecommendation is the outcome of the straddle/strangle classifier.
type StraddleRecommendation struct {
	Action     StraddleAction
	Reason     string
	Confidence Confidence
	IsStraddle bool
}

// StraddleInput bundles both legs of a long straddle or strangle with their
// scan-time quotes. A nil metrics pointer means that leg's quote was
// unavailable.
type StraddleInput struct {
	Combo       dto.ComboView
	CallMetrics *dto.MarketMetrics
	PutMetrics  *dto.MarketMetrics
	Conditions  dto.MarketConditions
	DTE         int
}

// EntryPremium is the combined premium paid for both legs, per share.
func (in StraddleInput) EntryPremium() float64 {
	var total float64
	if in.Combo.Call != nil {
		total += in.Combo.Call.Premium
	}
	if in.Combo.Put != nil {
		total += in.Combo.Put.Premium
	}
	return total
}

// CombinedPrice is the current combined value of both legs, per share.
func (in StraddleInput) CombinedPrice() float64 {
	var total float64
	if in.CallMetrics != nil {
		total += in.CallMetrics.Price
	}
	if in.PutMetrics != nil {
		total += in.PutMetrics.Price
	}
	return total
}

// EvaluateStraddle classifies a long straddle/strangle: close for profit once
// the move exceeds breakeven, roll decayed positions to a new expiration, add
// an orphaned leg back, or hold.
func EvaluateStraddle(in StraddleInput, cfg Config) StraddleRecommendation {
	isStraddle := in.Combo.IsStraddle

	// One leg missing entirely: the combo is broken, rebuild it.
	if !in.Combo.IsComplete() {
		missing := "put"
		if in.Combo.Call == nil {
			missing = "call"
		}
		return StraddleRecommendation{
			Action:     StraddleAdd,
			Reason:     fmt.Sprintf("Missing %s leg on %s, add it back to restore the combo", missing, in.Combo.Symbol),
			Confidence: ConfidenceMedium,
			IsStraddle: isStraddle,
		}
	}

	if in.CallMetrics == nil || in.PutMetrics == nil {
		return StraddleRecommendation{
			Action:     StraddleNone,
			Reason:     fmt.Sprintf("Missing quote for one leg of %s", in.Combo.Symbol),
			Confidence: ConfidenceLow,
			IsStraddle: isStraddle,
		}
	}

	entry := in.EntryPremium()
	combined := in.CombinedPrice()
	pl := PLPercent(in.Combo.Call.Side, entry, combined)

	// Breakeven distance: a straddle needs the underlying to travel the
	// combined premium past the strike; a strangle measures from the nearer
	// strike on each side.
	underlying := in.CallMetrics.UnderlyingPrice
	upperBreakeven := in.Combo.Call.Strike + entry
	lowerBreakeven := in.Combo.Put.Strike - entry
	beyondBreakeven := underlying > upperBreakeven || underlying < lowerBreakeven

	if beyondBreakeven && pl > 0 {
		return StraddleRecommendation{
			Action:     StraddleSellToClose,
			Reason:     fmt.Sprintf("Underlying %.2f beyond breakeven band [%.2f, %.2f] with %.1f%% gain", underlying, lowerBreakeven, upperBreakeven, pl),
			Confidence: ConfidenceHigh,
			IsStraddle: isStraddle,
		}
	}

	if pl >= cfg.StraddleProfitTargetPercent {
		return StraddleRecommendation{
			Action:     StraddleSellToClose,
			Reason:     fmt.Sprintf("Combined premium up %.1f%%, profit target %.0f%% reached", pl, cfg.StraddleProfitTargetPercent),
			Confidence: ConfidenceHigh,
			IsStraddle: isStraddle,
		}
	}

	// Premium mostly decayed and expiration close: the realized move never
	// came, reset the clock at a new expiration.
	if pl <= -cfg.StraddleMaxDecayPercent && in.DTE <= cfg.StraddleRollDteMax {
		return StraddleRecommendation{
			Action:     StraddleRoll,
			Reason:     fmt.Sprintf("Premium decayed %.1f%% with %d days left, roll to a later expiration", math.Abs(pl), in.DTE),
			Confidence: ConfidenceMedium,
			IsStraddle: isStraddle,
		}
	}

	if in.DTE <= cfg.StraddleRollDteMax {
		return StraddleRecommendation{
			Action:     StraddleRoll,
			Reason:     fmt.Sprintf("%d days to expiration, roll before the final decay", in.DTE),
			Confidence: ConfidenceMedium,
			IsStraddle: isStraddle,
		}
	}

	return StraddleRecommendation{
		Action:     StraddleHold,
		Reason:     fmt.Sprintf("Combined P/L %.1f%%, underlying inside breakeven band with %d days remaining", pl, in.DTE),
		Confidence: ConfidenceMedium,
		IsStraddle: isStraddle,
	}
}
