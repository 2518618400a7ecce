package rules

// Config is the bag of numeric thresholds the classifiers evaluate against.
// Callers may override any subset per scan via Merge; everything else keeps
// the documented default.
type Config struct {
	// Single short option rules.
	BTCStopLossPercent      float64 `mapstructure:"btc_stop_loss_percent"`       // close when P/L falls below this (default -50)
	BTCDteMax               int     `mapstructure:"btc_dte_max"`                 // low-DTE close threshold (default 7)
	HoldDteMin              int     `mapstructure:"hold_dte_min"`                // adequate time remaining (default 14)
	HoldTimeValuePercentMin float64 `mapstructure:"hold_time_value_percent_min"` // time value worth waiting for, % of premium (default 20)

	// Covered call rules.
	CCProfitCapturePercent float64 `mapstructure:"cc_profit_capture_percent"` // close once this much premium is captured (default 80)
	CCExtrinsicPercentMax  float64 `mapstructure:"cc_extrinsic_percent_max"`  // extrinsic % of premium considered spent (default 10)
	CCRollDteMax           int     `mapstructure:"cc_roll_dte_max"`           // roll window near expiry (default 10)
	CCDeepItmPercent       float64 `mapstructure:"cc_deep_itm_percent"`       // underlying above strike by this % is deep ITM (default 3)
	CCAssignmentDeltaMax   float64 `mapstructure:"cc_assignment_delta_max"`   // delta proxy for likely assignment (default 0.85)
	CCMinUncoveredShares   int     `mapstructure:"cc_min_uncovered_shares"`   // shares needed to write one call (default 100)

	// Protective put rules.
	PutCostMaxPercent    float64 `mapstructure:"put_cost_max_percent"`    // protection cost ceiling, % of stock value (default 5)
	PutRollDteMax        int     `mapstructure:"put_roll_dte_max"`        // protection expiring window (default 14)
	PutProfitTakePercent float64 `mapstructure:"put_profit_take_percent"` // monetize protection at this gain (default 100)
	PutProtectMinValue   float64 `mapstructure:"put_protect_min_value"`   // unprotected stock value worth insuring (default 10000)

	// Straddle / strangle rules.
	StraddleProfitTargetPercent float64 `mapstructure:"straddle_profit_target_percent"` // close for profit (default 40)
	StraddleMaxDecayPercent     float64 `mapstructure:"straddle_max_decay_percent"`     // roll after this much decay (default 60)
	StraddleRollDteMax          int     `mapstructure:"straddle_roll_dte_max"`          // roll window near expiry (default 10)
}

// DefaultConfig returns the documented threshold defaults.
func DefaultConfig() Config {
	return Config{
		BTCStopLossPercent:      -50,
		BTCDteMax:               7,
		HoldDteMin:              14,
		HoldTimeValuePercentMin: 20,

		CCProfitCapturePercent: 80,
		CCExtrinsicPercentMax:  10,
		CCRollDteMax:           10,
		CCDeepItmPercent:       3,
		CCAssignmentDeltaMax:   0.85,
		CCMinUncoveredShares:   100,

		PutCostMaxPercent:    5,
		PutRollDteMax:        14,
		PutProfitTakePercent: 100,
		PutProtectMinValue:   10000,

		StraddleProfitTargetPercent: 40,
		StraddleMaxDecayPercent:     60,
		StraddleRollDteMax:          10,
	}
}

// Merge returns a copy of the config with the given overrides applied.
// Unknown keys are ignored; integer thresholds are truncated.
func (c Config) Merge(overrides map[string]float64) Config {
	merged := c
	for key, value := range overrides {
		switch key {
		case "btc_stop_loss_percent":
			merged.BTCStopLossPercent = value
		case "btc_dte_max":
			merged.BTCDteMax = int(value)
		case "hold_dte_min":
			merged.HoldDteMin = int(value)
		case "hold_time_value_percent_min":
			merged.HoldTimeValuePercentMin = value
		case "cc_profit_capture_percent":
			merged.CCProfitCapturePercent = value
		case "cc_extrinsic_percent_max":
			merged.CCExtrinsicPercentMax = value
		case "cc_roll_dte_max":
			merged.CCRollDteMax = int(value)
		case "cc_deep_itm_percent":
			merged.CCDeepItmPercent = value
		case "cc_assignment_delta_max":
			merged.CCAssignmentDeltaMax = value
		case "cc_min_uncovered_shares":
			merged.CCMinUncoveredShares = int(value)
		case "put_cost_max_percent":
			merged.PutCostMaxPercent = value
		case "put_roll_dte_max":
			merged.PutRollDteMax = int(value)
		case "put_profit_take_percent":
			merged.PutProfitTakePercent = value
		case "put_protect_min_value":
			merged.PutProtectMinValue = value
		case "straddle_profit_target_percent":
			merged.StraddleProfitTargetPercent = value
		case "straddle_max_decay_percent":
			merged.StraddleMaxDecayPercent = value
		case "straddle_roll_dte_max":
			merged.StraddleRollDteMax = int(value)
		}
	}
	return merged
}
