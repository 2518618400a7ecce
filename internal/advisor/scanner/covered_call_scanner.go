package scanner

import (
	"context"
	"fmt"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/repository"
	"go-options-advisor/internal/advisor/rules"
	"go-options-advisor/internal/entity"
	"go-options-advisor/pkg/logger"
	"go-options-advisor/pkg/utils"
)

// CoveredCallScanner classifies stock+short-call pairs, uncovered holdings,
// and watchlist symbols.
type CoveredCallScanner struct {
	logger     *logger.Logger
	marketData repository.MarketDataRepository
}

// NewCoveredCallScanner creates the covered-call scanner.
func NewCoveredCallScanner(log *logger.Logger, marketData repository.MarketDataRepository) *CoveredCallScanner {
	return &CoveredCallScanner{logger: log, marketData: marketData}
}

// Name identifies this scanner in reports and error tags.
func (s *CoveredCallScanner) Name() string {
	return dto.ScannerCoveredCall
}

// Scan evaluates covered-call pairs. NONE results count as skipped, not
// analyzed: insufficient data is not a held position.
func (s *CoveredCallScanner) Scan(ctx context.Context, in Input) (dto.ScannerReport, []dto.Recommendation, error) {
	report := dto.ScannerReport{Scanner: s.Name()}

	pairs, excluded := ExtractPairs(in.Accounts, in.AccountID, entity.OptionTypeCall, entity.PositionSideShort, in.Watchlist)
	report.Excluded = excluded
	report.Scanned = len(pairs)

	var recs []dto.Recommendation
	for _, pair := range pairs {
		var (
			metrics *dto.MarketMetrics
			dte     int
			pl      float64
		)

		if pair.HasOption() {
			m, err := s.marketData.GetOptionMetrics(ctx, pair.Symbol, pair.Option.Expiration, pair.Option.Strike, pair.Option.OptionType)
			if err != nil {
				s.logger.Warn("Failed to fetch option metrics",
					logger.StringField("symbol", pair.Symbol),
					logger.ErrorField(err))
			}
			metrics = m
			dte = utils.DaysUntil(pair.Option.Expiration)
		}

		underlying := in.Cache.UnderlyingPrice(ctx, pair.Symbol)
		if metrics != nil && metrics.UnderlyingPrice > 0 {
			underlying = metrics.UnderlyingPrice
		}
		cond := in.Cache.Conditions(ctx, pair.Symbol)

		rec := rules.EvaluateCoveredCall(rules.CoveredCallInput{
			Pair:            pair,
			Metrics:         metrics,
			UnderlyingPrice: underlying,
			Conditions:      cond,
			DTE:             dte,
		}, in.Rules)

		if rec.Action == rules.CoveredCallNone {
			report.Skipped++
			continue
		}
		report.Analyzed++

		if metrics != nil && pair.HasOption() {
			pl = rules.PLPercent(pair.Option.Side, pair.Option.Premium, metrics.Price)
		}

		out := dto.Recommendation{
			PositionID:  pairPositionID(pair),
			PositionKey: pairKey(pair),
			Symbol:      pair.Symbol,
			Account:     pair.Account,
			Strategy:    s.Name(),
			Action:      string(rec.Action),
			Actionable:  rec.Action != rules.CoveredCallHold,
			Reason:      rec.Reason,
			Confidence:  string(rec.Confidence),
			Source:      entity.RecommendationSourceRules,
			Metrics:     metrics,
			Conditions:  cond,
			PLPercent:   pl,
			DTE:         dte,
		}
		if pair.HasOption() {
			out.OptionType = pair.Option.OptionType
			out.Side = pair.Option.Side
			out.Strike = pair.Option.Strike
			out.Contracts = pair.Option.Contracts
			out.EntryPremium = pair.Option.Premium
		}
		recs = append(recs, out)
	}

	return report, recs, nil
}

// pairKey is the dedup identity: the option position id when the pair has an
// option leg, otherwise the symbol (uncovered holdings and watchlist entries
// have no position id).
func pairKey(pair dto.PairView) string {
	if pair.HasOption() {
		return pair.Option.Key()
	}
	return fmt.Sprintf("sym:%s", pair.Symbol)
}

func pairPositionID(pair dto.PairView) *uint {
	if pair.HasOption() {
		return utils.ToPointer(pair.Option.ID)
	}
	return nil
}
