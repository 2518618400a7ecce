package service

import (
	"context"
	"fmt"
	"strings"

	"go-options-advisor/internal/advisor/config"
	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/repository"
	"go-options-advisor/internal/advisor/rules"
	"go-options-advisor/internal/advisor/scanner"
	"go-options-advisor/pkg/logger"
	"go-options-advisor/pkg/utils"
)

// ScanService orchestrates one full scan pass: load the account universe
// once, run each strategy scanner, escalate edge candidates, then persist.
// One failed scanner is reported in the errors list without aborting the
// rest; a persistence failure aborts the pass.
type ScanService interface {
	RunScan(ctx context.Context, params dto.ScanParams) (*dto.ScanResult, error)
}

type scanService struct {
	cfg           *config.Config
	logger        *logger.Logger
	accountRepo   repository.AccountRepository
	watchlistRepo repository.WatchlistRepository
	marketData    repository.MarketDataRepository
	scanners      []scanner.Scanner
	escalator     *Escalator
	store         *RecommendationStore
}

// NewScanService wires the orchestrator. The scanner order is fixed:
// options, covered calls, protective puts, straddles.
func NewScanService(
	cfg *config.Config,
	log *logger.Logger,
	accountRepo repository.AccountRepository,
	watchlistRepo repository.WatchlistRepository,
	marketData repository.MarketDataRepository,
	escalator *Escalator,
	store *RecommendationStore,
) ScanService {
	return &scanService{
		cfg:           cfg,
		logger:        log,
		accountRepo:   accountRepo,
		watchlistRepo: watchlistRepo,
		marketData:    marketData,
		scanners: []scanner.Scanner{
			scanner.NewOptionScanner(log, marketData),
			scanner.NewCoveredCallScanner(log, marketData),
			scanner.NewProtectivePutScanner(log, marketData),
			scanner.NewStraddleScanner(log, marketData),
		},
		escalator: escalator,
		store:     store,
	}
}

func (s *scanService) RunScan(ctx context.Context, params dto.ScanParams) (*dto.ScanResult, error) {
	accounts, err := s.accountRepo.GetAccounts(ctx, dto.GetAccountsParam{
		IsActive: utils.ToPointer(true),
	})
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	watchlist, err := s.watchlistRepo.GetAll(ctx)
	if err != nil {
		s.logger.Warn("Failed to load watchlist, scanning positions only",
			logger.ErrorField(err))
		watchlist = nil
	}

	// Each pass gets its own snapshot cache so stale quotes never bleed
	// between runs.
	snapshots := scanner.NewSnapshotCache(s.marketData, s.logger, s.cfg.Scan.ConditionsCacheTTL)
	defer snapshots.Clear()

	in := scanner.Input{
		Accounts:  accounts,
		Watchlist: watchlist,
		AccountID: params.AccountID,
		Cache:     snapshots,
		Rules: rules.DefaultConfig().
			Merge(s.cfg.Scan.Overrides).
			Merge(params.Overrides),
	}

	result := &dto.ScanResult{}
	var allRecs []dto.Recommendation

	for _, sc := range s.scanners {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report, recs, err := sc.Scan(ctx, in)
		if err != nil {
			s.logger.Error("Scanner failed",
				logger.StringField("scanner", sc.Name()),
				logger.ErrorField(err))
			result.Errors = append(result.Errors, dto.ScanError{
				Scanner: sc.Name(),
				Message: err.Error(),
			})
			continue
		}

		result.Reports = append(result.Reports, report)
		result.Scanned += report.Scanned
		allRecs = append(allRecs, recs...)
	}

	allRecs = s.escalator.Refine(ctx, allRecs)

	stored, err := s.store.Store(ctx, allRecs, StoreOptions{
		CreateAlerts: params.CreateAlerts,
	})
	if err != nil {
		return nil, err
	}
	result.Stored = stored.Stored
	result.AlertsCreated = stored.AlertsCreated
	for i := range result.Reports {
		result.Reports[i].Stored = stored.StoredByStrategy[result.Reports[i].Scanner]
		result.Reports[i].AlertsCreated = stored.AlertsByStrategy[result.Reports[i].Scanner]
	}

	result.Recommendations = allRecs
	result.Summary = buildSummary(result, allRecs)

	s.logger.InfoContext(ctx, "Scan pass finished",
		logger.IntField("scanned", result.Scanned),
		logger.IntField("stored", result.Stored),
		logger.IntField("alerts_created", result.AlertsCreated),
		logger.IntField("scanner_errors", len(result.Errors)))

	return result, nil
}

// buildSummary renders the human-readable scan digest grouped by scanner.
func buildSummary(result *dto.ScanResult, recs []dto.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scan complete: %d positions scanned, %d recommendations stored, %d alerts created.\n",
		result.Scanned, result.Stored, result.AlertsCreated)

	for _, report := range result.Reports {
		fmt.Fprintf(&b, "\n%s: scanned %d, analyzed %d, skipped %d, excluded %d\n",
			report.Scanner, report.Scanned, report.Analyzed, report.Skipped, report.Excluded)
		for i := range recs {
			if recs[i].Strategy != report.Scanner || !recs[i].Actionable {
				continue
			}
			fmt.Fprintf(&b, "  - %s\n", FormatAlertMessage(&recs[i]))
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString("\nErrors:\n")
		for _, scanErr := range result.Errors {
			fmt.Fprintf(&b, "  - %s: %s\n", scanErr.Scanner, scanErr.Message)
		}
	}

	return b.String()
}
