package dto

// VIX regime buckets.
const (
	VixLevelLow      = "low"
	VixLevelModerate = "moderate"
	VixLevelElevated = "elevated"
)

// Underlying trend directions.
const (
	TrendUp      = "up"
	TrendDown    = "down"
	TrendNeutral = "neutral"
)

// MarketMetrics is the per-contract snapshot attached to a position during a
// scan. It is embedded into the recommendation record that used it, never
// persisted on its own.
type MarketMetrics struct {
	Price             float64 `json:"price"`
	Bid               float64 `json:"bid"`
	Ask               float64 `json:"ask"`
	UnderlyingPrice   float64 `json:"underlying_price"`
	ImpliedVolatility float64 `json:"implied_volatility"`
	Delta             float64 `json:"delta"`
	IntrinsicValue    float64 `json:"intrinsic_value"`
	TimeValue         float64 `json:"time_value"`
}

// MarketConditions is the per-underlying context cached for the duration of
// one scan pass.
type MarketConditions struct {
	Vix      float64 `json:"vix"`
	VixLevel string  `json:"vix_level"`
	Trend    string  `json:"trend"`
}

// DefaultMarketConditions is the conservative fallback used when the upstream
// provider fails. A single symbol's data outage must not abort a scan.
func DefaultMarketConditions() MarketConditions {
	return MarketConditions{
		Vix:      0,
		VixLevel: VixLevelModerate,
		Trend:    TrendNeutral,
	}
}

// ClassifyVix buckets a VIX reading into a regime level.
func ClassifyVix(vix float64) string {
	switch {
	case vix <= 0:
		return VixLevelModerate
	case vix < 15:
		return VixLevelLow
	case vix < 25:
		return VixLevelModerate
	default:
		return VixLevelElevated
	}
}
