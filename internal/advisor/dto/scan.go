package dto

// Scanner names used in reports and error tags.
const (
	ScannerOption        = "option"
	ScannerCoveredCall   = "covered_call"
	ScannerProtectivePut = "protective_put"
	ScannerStraddle      = "straddle_strangle"
)

// ScanParams controls a single scan pass.
type ScanParams struct {
	// AccountID restricts the scan to one account; zero means portfolio-wide.
	AccountID uint `json:"account_id"`
	// CreateAlerts enables alert creation for actionable recommendations.
	CreateAlerts bool `json:"create_alerts"`
	// Overrides replaces a subset of the rule thresholds for this pass.
	Overrides map[string]float64 `json:"overrides"`
}

// ScannerReport is one sub-scanner's contribution to a scan result.
type ScannerReport struct {
	Scanner       string `json:"scanner"`
	Scanned       int    `json:"scanned"`
	Analyzed      int    `json:"analyzed"`
	Skipped       int    `json:"skipped"`
	Excluded      int    `json:"excluded"`
	Stored        int    `json:"stored"`
	AlertsCreated int    `json:"alerts_created"`
}

// ScanError tags a sub-scanner failure. A single failed scanner never aborts
// the others.
type ScanError struct {
	Scanner string `json:"scanner"`
	Message string `json:"message"`
}

// ScanResult is the aggregated outcome of one scan pass.
type ScanResult struct {
	Reports         []ScannerReport  `json:"reports"`
	Scanned         int              `json:"scanned"`
	Stored          int              `json:"stored"`
	AlertsCreated   int              `json:"alerts_created"`
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
	Errors          []ScanError      `json:"errors"`
}

// Recommendation is the scan-time recommendation before persistence. The
// store converts it into an entity record with the metrics snapshot attached.
type Recommendation struct {
	PositionID         *uint
	PositionKey        string
	Symbol             string
	Account            string
	Strategy           string
	OptionType         string
	Side               string
	Strike             float64
	Contracts          int
	EntryPremium       float64
	Action             string
	Actionable         bool
	Reason             string
	Confidence         string
	Source             string
	AssistantEvaluated bool
	AssistantReasoning string
	PreliminaryAction  string
	PreliminaryReason  string
	Metrics            *MarketMetrics
	Conditions         MarketConditions
	PLPercent          float64
	DTE                int
}
