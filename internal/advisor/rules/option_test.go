package rules

import (
	"testing"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/entity"

	"github.com/stretchr/testify/assert"
)

// shortOptionInput builds a short call at a given entry premium and current
// price, which fixes the P/L directly.
func shortOptionInput(premium, price float64, dte int) OptionInput {
	return OptionInput{
		Position: entity.OptionPosition{
			ID:               1,
			UnderlyingSymbol: "AAPL",
			Strike:           180,
			OptionType:       entity.OptionTypeCall,
			Side:             entity.PositionSideShort,
			Contracts:        2,
			Premium:          premium,
		},
		Metrics: dto.MarketMetrics{
			Price: price,
			Bid:   price,
		},
		Conditions: dto.DefaultMarketConditions(),
		DTE:        dte,
	}
}

func TestEvaluateOption_StopLoss(t *testing.T) {
	// P/L -55% on a short: price rose from 2.00 to 3.10.
	in := shortOptionInput(2.00, 3.10, 30)
	rec := EvaluateOption(in, DefaultConfig())

	assert.Equal(t, OptionBuyToClose, rec.Action)
	assert.Contains(t, rec.Reason, "Stop loss")
}

func TestEvaluateOption_StopLossIgnoresDTE(t *testing.T) {
	cfg := DefaultConfig()
	for _, dte := range []int{2, 10, 45} {
		in := shortOptionInput(2.00, 3.10, dte)
		rec := EvaluateOption(in, cfg)
		assert.Equal(t, OptionBuyToClose, rec.Action, "dte=%d", dte)
		assert.Contains(t, rec.Reason, "Stop loss", "dte=%d", dte)
	}
}

func TestEvaluateOption_LowDTEProfitable(t *testing.T) {
	// P/L +80% on a short with 5 days left.
	in := shortOptionInput(2.00, 0.40, 5)
	rec := EvaluateOption(in, DefaultConfig())

	assert.Equal(t, OptionBuyToClose, rec.Action)
	assert.Contains(t, rec.Reason, "Low DTE")
}

func TestEvaluateOption_LowDTEAtLossHolds(t *testing.T) {
	// P/L -20% with 5 days left: never lock in the loss just because
	// expiration is near.
	in := shortOptionInput(2.00, 2.40, 5)
	rec := EvaluateOption(in, DefaultConfig())

	assert.Equal(t, OptionHold, rec.Action)
	assert.Contains(t, rec.Reason, "loss")
}

func TestEvaluateOption_LowDTEBidShowsLoss(t *testing.T) {
	// Mid price is flat but a real exit at the bid would pay above the
	// entry premium.
	in := shortOptionInput(2.00, 2.00, 5)
	in.Metrics.Bid = 2.30
	rec := EvaluateOption(in, DefaultConfig())

	assert.Equal(t, OptionHold, rec.Action)
}

func TestEvaluateOption_MidBandProfitable(t *testing.T) {
	// 8 DTE, +15%: past the low-DTE cutoff but under the adequate-DTE
	// floor, profitable enough to take off.
	in := shortOptionInput(2.00, 1.70, 8)
	rec := EvaluateOption(in, DefaultConfig())

	assert.Equal(t, OptionBuyToClose, rec.Action)
	assert.Contains(t, rec.Reason, "approaching expiry")
}

func TestEvaluateOption_AdequateDTEHolds(t *testing.T) {
	in := shortOptionInput(2.00, 1.90, 21)
	rec := EvaluateOption(in, DefaultConfig())

	assert.Equal(t, OptionHold, rec.Action)
	assert.Contains(t, rec.Reason, "Adequate DTE")
}

func TestEvaluateOption_TimeValueHold(t *testing.T) {
	// 10 DTE, negative P/L but the mid-band rule requires a profit;
	// plenty of time value left to decay.
	in := shortOptionInput(2.00, 2.10, 10)
	in.Metrics.TimeValue = 1.00
	rec := EvaluateOption(in, DefaultConfig())

	assert.Equal(t, OptionHold, rec.Action)
	assert.Contains(t, rec.Reason, "Time value")
}

func TestEvaluateOption_StopLossOverride(t *testing.T) {
	cfg := DefaultConfig().Merge(map[string]float64{
		"btc_stop_loss_percent": -70,
	})

	// -60% breaches the default threshold but not the override.
	in := shortOptionInput(2.00, 3.20, 30)
	rec := EvaluateOption(in, cfg)

	assert.Equal(t, OptionHold, rec.Action)
	assert.NotContains(t, rec.Reason, "Stop loss")
}

func TestConfigMerge(t *testing.T) {
	cfg := DefaultConfig().Merge(map[string]float64{
		"btc_dte_max":          10,
		"cc_roll_dte_max":      21,
		"unknown_key":          99,
		"put_cost_max_percent": 7.5,
	})

	assert.Equal(t, 10, cfg.BTCDteMax)
	assert.Equal(t, 21, cfg.CCRollDteMax)
	assert.Equal(t, 7.5, cfg.PutCostMaxPercent)

	// Untouched thresholds keep their defaults.
	assert.Equal(t, -50.0, cfg.BTCStopLossPercent)
}
