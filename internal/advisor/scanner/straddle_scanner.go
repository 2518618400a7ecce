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

// StraddleScanner classifies long straddle and strangle combos.
type StraddleScanner struct {
	logger     *logger.Logger
	marketData repository.MarketDataRepository
}

// NewStraddleScanner creates the straddle/strangle scanner.
func NewStraddleScanner(log *logger.Logger, marketData repository.MarketDataRepository) *StraddleScanner {
	return &StraddleScanner{logger: log, marketData: marketData}
}

// Name identifies this scanner in reports and error tags.
func (s *StraddleScanner) Name() string {
	return dto.ScannerStraddle
}

// Scan evaluates each combo with both legs quoted; a missing leg quote skips
// the combo.
func (s *StraddleScanner) Scan(ctx context.Context, in Input) (dto.ScannerReport, []dto.Recommendation, error) {
	report := dto.ScannerReport{Scanner: s.Name()}

	combos, excluded := ExtractCombos(in.Accounts, in.AccountID)
	report.Excluded = excluded
	report.Scanned = len(combos)

	var recs []dto.Recommendation
	for _, combo := range combos {
		callMetrics := s.legMetrics(ctx, combo.Call)
		putMetrics := s.legMetrics(ctx, combo.Put)
		cond := in.Cache.Conditions(ctx, combo.Symbol)

		dte := 0
		if combo.Call != nil {
			dte = utils.DaysUntil(combo.Call.Expiration)
		} else if combo.Put != nil {
			dte = utils.DaysUntil(combo.Put.Expiration)
		}

		ruleIn := rules.StraddleInput{
			Combo:       combo,
			CallMetrics: callMetrics,
			PutMetrics:  putMetrics,
			Conditions:  cond,
			DTE:         dte,
		}
		rec := rules.EvaluateStraddle(ruleIn, in.Rules)

		if rec.Action == rules.StraddleNone {
			report.Skipped++
			continue
		}
		report.Analyzed++

		pl := 0.0
		if combo.IsComplete() && callMetrics != nil && putMetrics != nil {
			pl = rules.PLPercent(combo.Call.Side, ruleIn.EntryPremium(), ruleIn.CombinedPrice())
		}

		metrics := callMetrics
		if metrics == nil {
			metrics = putMetrics
		}

		out := dto.Recommendation{
			PositionID:  comboPositionID(combo),
			PositionKey: comboKey(combo),
			Symbol:      combo.Symbol,
			Account:     combo.Account,
			Strategy:    s.Name(),
			Action:      string(rec.Action),
			Actionable:  rec.Action != rules.StraddleHold,
			Reason:      rec.Reason,
			Confidence:  string(rec.Confidence),
			Source:      entity.RecommendationSourceRules,
			Metrics:     metrics,
			Conditions:  cond,
			PLPercent:   pl,
			DTE:         dte,
		}
		if leg := firstLeg(combo); leg != nil {
			out.OptionType = leg.OptionType
			out.Side = leg.Side
			out.Strike = leg.Strike
			out.Contracts = leg.Contracts
			out.EntryPremium = ruleIn.EntryPremium()
		}
		recs = append(recs, out)
	}

	return report, recs, nil
}

func (s *StraddleScanner) legMetrics(ctx context.Context, leg *entity.OptionPosition) *dto.MarketMetrics {
	if leg == nil {
		return nil
	}
	m, err := s.marketData.GetOptionMetrics(ctx, leg.UnderlyingSymbol, leg.Expiration, leg.Strike, leg.OptionType)
	if err != nil {
		s.logger.Warn("Failed to fetch leg metrics",
			logger.StringField("symbol", leg.UnderlyingSymbol),
			logger.ErrorField(err))
		return nil
	}
	return m
}

// comboKey is the dedup identity for a two-leg combo: both position ids when
// complete, the surviving leg's id otherwise.
func comboKey(combo dto.ComboView) string {
	switch {
	case combo.IsComplete():
		return fmt.Sprintf("%d-%d", combo.Call.ID, combo.Put.ID)
	case combo.Call != nil:
		return combo.Call.Key()
	case combo.Put != nil:
		return combo.Put.Key()
	default:
		return fmt.Sprintf("sym:%s", combo.Symbol)
	}
}

func firstLeg(combo dto.ComboView) *entity.OptionPosition {
	if combo.Call != nil {
		return combo.Call
	}
	return combo.Put
}

func comboPositionID(combo dto.ComboView) *uint {
	if combo.Call != nil {
		return utils.ToPointer(combo.Call.ID)
	}
	if combo.Put != nil {
		return utils.ToPointer(combo.Put.ID)
	}
	return nil
}
