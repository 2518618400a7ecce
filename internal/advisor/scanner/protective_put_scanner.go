package scanner

import (
	"context"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/repository"
	"go-options-advisor/internal/advisor/rules"
	"go-options-advisor/internal/entity"
	"go-options-advisor/pkg/logger"
	"go-options-advisor/pkg/utils"
)

// ProtectivePutScanner classifies stock+long-put pairs and unprotected
// holdings.
type ProtectivePutScanner struct {
	logger     *logger.Logger
	marketData repository.MarketDataRepository
}

// NewProtectivePutScanner creates the protective-put scanner.
func NewProtectivePutScanner(log *logger.Logger, marketData repository.MarketDataRepository) *ProtectivePutScanner {
	return &ProtectivePutScanner{logger: log, marketData: marketData}
}

// Name identifies this scanner in reports and error tags.
func (s *ProtectivePutScanner) Name() string {
	return dto.ScannerProtectivePut
}

// Scan evaluates protection positions. The watchlist does not participate:
// protection proposals only apply to shares actually held.
func (s *ProtectivePutScanner) Scan(ctx context.Context, in Input) (dto.ScannerReport, []dto.Recommendation, error) {
	report := dto.ScannerReport{Scanner: s.Name()}

	pairs, excluded := ExtractPairs(in.Accounts, in.AccountID, entity.OptionTypePut, entity.PositionSideLong, nil)
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

		rec := rules.EvaluateProtectivePut(rules.ProtectivePutInput{
			Pair:            pair,
			Metrics:         metrics,
			UnderlyingPrice: underlying,
			Conditions:      cond,
			DTE:             dte,
		}, in.Rules)

		if rec.Action == rules.ProtectivePutNone {
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
			Actionable:  rec.Action != rules.ProtectivePutHold,
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
