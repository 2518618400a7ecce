package repository

import (
	"fmt"
	"strings"

	"go-options-advisor/internal/advisor/dto"
)

// BuildPositionReviewPrompt renders the structured context for an edge
// candidate. The assistant must answer with JSON only and pick from the
// strategy's allowed actions.
func BuildPositionReviewPrompt(req *dto.PositionReviewRequest) string {
	var metrics strings.Builder
	if req.Metrics != nil {
		metrics.WriteString(fmt.Sprintf(
			"Option price: %.2f (bid %.2f / ask %.2f)\nUnderlying price: %.2f\nImplied volatility: %.1f\nDelta: %.2f\nIntrinsic value: %.2f\nTime value: %.2f\n",
			req.Metrics.Price, req.Metrics.Bid, req.Metrics.Ask,
			req.Metrics.UnderlyingPrice, req.Metrics.ImpliedVolatility, req.Metrics.Delta,
			req.Metrics.IntrinsicValue, req.Metrics.TimeValue,
		))
	} else {
		metrics.WriteString("No contract quote available.\n")
	}

	promptTemplate := `You are an options position reviewer. A rule engine produced a preliminary recommendation for the position below; your job is to confirm it or override it.

Position (%s strategy):
Symbol: %s
Account: %s
Contract: %s %s, strike %.2f, %d contract(s), entry premium %.2f
Days to expiration: %d
P/L vs entry premium: %.1f%%

Market snapshot:
%sMarket context: VIX %.1f (%s), trend %s

Preliminary recommendation: %s
Preliminary reason: %s

Respond with JSON only, no prose outside it:

{
  "recommendation": "one of: %s",
  "reasoning": "one short paragraph explaining your verdict"
}`

	return fmt.Sprintf(promptTemplate,
		req.Strategy,
		req.Symbol,
		req.Account,
		req.Side, req.OptionType, req.Strike, req.Contracts, req.EntryPremium,
		req.DTE,
		req.PLPercent,
		metrics.String(),
		req.Conditions.Vix, req.Conditions.VixLevel, req.Conditions.Trend,
		req.PreliminaryAction,
		req.PreliminaryReason,
		strings.Join(req.AllowedActions, " | "),
	)
}
