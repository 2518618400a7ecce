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

// OptionScanner classifies single short option positions.
type OptionScanner struct {
	logger     *logger.Logger
	marketData repository.MarketDataRepository
}

// NewOptionScanner creates the single-option scanner.
func NewOptionScanner(log *logger.Logger, marketData repository.MarketDataRepository) *OptionScanner {
	return &OptionScanner{logger: log, marketData: marketData}
}

// Name identifies this scanner in reports and error tags.
func (s *OptionScanner) Name() string {
	return dto.ScannerOption
}

// Scan evaluates every short option; positions with no quote are skipped,
// never classified on incomplete information.
func (s *OptionScanner) Scan(ctx context.Context, in Input) (dto.ScannerReport, []dto.Recommendation, error) {
	report := dto.ScannerReport{Scanner: s.Name()}

	views, excluded := ExtractOptionPositions(in.Accounts, in.AccountID, entity.PositionSideShort)
	report.Excluded = excluded
	report.Scanned = len(views)

	var recs []dto.Recommendation
	for _, view := range views {
		pos := view.Position

		metrics, err := s.marketData.GetOptionMetrics(ctx, pos.UnderlyingSymbol, pos.Expiration, pos.Strike, pos.OptionType)
		if err != nil {
			s.logger.Warn("Failed to fetch option metrics",
				logger.StringField("symbol", pos.UnderlyingSymbol),
				logger.ErrorField(err))
			report.Skipped++
			continue
		}
		if metrics == nil {
			report.Skipped++
			continue
		}

		cond := in.Cache.Conditions(ctx, pos.UnderlyingSymbol)
		dte := utils.DaysUntil(pos.Expiration)

		ruleIn := rules.OptionInput{
			Position:   pos,
			Metrics:    *metrics,
			Conditions: cond,
			DTE:        dte,
		}
		rec := rules.EvaluateOption(ruleIn, in.Rules)
		report.Analyzed++

		recs = append(recs, dto.Recommendation{
			PositionID:   utils.ToPointer(pos.ID),
			PositionKey:  pos.Key(),
			Symbol:       pos.UnderlyingSymbol,
			Account:      view.Account,
			Strategy:     s.Name(),
			OptionType:   pos.OptionType,
			Side:         pos.Side,
			Strike:       pos.Strike,
			Contracts:    pos.Contracts,
			EntryPremium: pos.Premium,
			Action:       string(rec.Action),
			Actionable:   rec.Action != rules.OptionHold,
			Reason:       rec.Reason,
			Source:       entity.RecommendationSourceRules,
			Metrics:      metrics,
			Conditions:   cond,
			PLPercent:    ruleIn.PLPercent(),
			DTE:          dte,
		})
	}

	return report, recs, nil
}
