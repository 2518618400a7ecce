package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-options-advisor/internal/advisor/config"
	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/scanner"
	"go-options-advisor/internal/entity"
	"go-options-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccountRepo struct {
	accounts []entity.Account
	err      error
}

func (f *fakeAccountRepo) GetAccounts(ctx context.Context, param dto.GetAccountsParam) ([]entity.Account, error) {
	return f.accounts, f.err
}

type fakeWatchlistRepo struct {
	entries []entity.WatchlistEntry
	err     error
}

func (f *fakeWatchlistRepo) GetAll(ctx context.Context) ([]entity.WatchlistEntry, error) {
	return f.entries, f.err
}

type scanServiceMarketData struct {
	metrics map[string]*dto.MarketMetrics
}

func (f *scanServiceMarketData) GetOptionMetrics(ctx context.Context, symbol string, expiration time.Time, strike float64, optionType string) (*dto.MarketMetrics, error) {
	return f.metrics[symbol], nil
}

func (f *scanServiceMarketData) GetMarketConditions(ctx context.Context, symbol string) (dto.MarketConditions, error) {
	return dto.DefaultMarketConditions(), nil
}

func (f *scanServiceMarketData) GetUnderlyingPrice(ctx context.Context, symbol string) (float64, error) {
	return 0, nil
}

// stubScanner returns canned output, or an error, for orchestration tests.
type stubScanner struct {
	name   string
	report dto.ScannerReport
	recs   []dto.Recommendation
	err    error
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(ctx context.Context, in scanner.Input) (dto.ScannerReport, []dto.Recommendation, error) {
	if s.err != nil {
		return dto.ScannerReport{}, nil, s.err
	}
	return s.report, s.recs, nil
}

func scanServiceConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Scan.ConditionsCacheTTL = time.Minute
	cfg.Reasoning.MaxConcurrent = 6
	cfg.Reasoning.Timeout = time.Second
	cfg.Reasoning.EdgePLPercent = 12
	cfg.Reasoning.EdgeDteMax = 14
	cfg.Reasoning.EdgeIVMin = 55
	return cfg
}

func newTestScanService(cfg *config.Config, scanners []scanner.Scanner, recRepo *fakeRecommendationRepo, alertRepo *fakeAlertRepo) ScanService {
	log := logger.NewNop()
	escalator := NewEscalator(cfg, log, nil)
	store := NewRecommendationStore(log, recRepo, alertRepo, nil)

	svc := NewScanService(cfg, log,
		&fakeAccountRepo{},
		&fakeWatchlistRepo{},
		&scanServiceMarketData{},
		escalator, store).(*scanService)
	svc.scanners = scanners
	return svc
}

func TestRunScan_AggregatesAndStores(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}}

	scanners := []scanner.Scanner{
		&stubScanner{
			name:   dto.ScannerOption,
			report: dto.ScannerReport{Scanner: dto.ScannerOption, Scanned: 2, Analyzed: 2},
			recs: []dto.Recommendation{
				actionableRec("1", "BUY_TO_CLOSE", 25),
				actionableRec("2", "HOLD", 5),
			},
		},
		&stubScanner{
			name:   dto.ScannerCoveredCall,
			report: dto.ScannerReport{Scanner: dto.ScannerCoveredCall, Scanned: 1, Analyzed: 1},
			recs: []dto.Recommendation{
				func() dto.Recommendation {
					r := actionableRec("3", "ROLL", 10)
					r.Strategy = dto.ScannerCoveredCall
					return r
				}(),
			},
		},
	}

	svc := newTestScanService(scanServiceConfig(), scanners, recRepo, alertRepo)
	result, err := svc.RunScan(context.Background(), dto.ScanParams{CreateAlerts: true})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Scanned)
	assert.Equal(t, 3, result.Stored)
	assert.Equal(t, 2, result.AlertsCreated)
	assert.Len(t, result.Reports, 2)
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.Summary)

	// Per-scanner persistence counts follow the strategy split.
	for _, report := range result.Reports {
		switch report.Scanner {
		case dto.ScannerOption:
			assert.Equal(t, 2, report.Stored)
			assert.Equal(t, 1, report.AlertsCreated)
		case dto.ScannerCoveredCall:
			assert.Equal(t, 1, report.Stored)
			assert.Equal(t, 1, report.AlertsCreated)
		}
	}
}

func TestRunScan_ScannerFailureIsIsolated(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}}

	scanners := []scanner.Scanner{
		&stubScanner{name: dto.ScannerOption, err: errors.New("provider exploded")},
		&stubScanner{
			name:   dto.ScannerCoveredCall,
			report: dto.ScannerReport{Scanner: dto.ScannerCoveredCall, Scanned: 1, Analyzed: 1},
			recs: []dto.Recommendation{
				func() dto.Recommendation {
					r := actionableRec("3", "ROLL", 10)
					r.Strategy = dto.ScannerCoveredCall
					return r
				}(),
			},
		},
	}

	svc := newTestScanService(scanServiceConfig(), scanners, recRepo, alertRepo)
	result, err := svc.RunScan(context.Background(), dto.ScanParams{CreateAlerts: true})

	// One failed scanner is a reported error, not a failed scan.
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, dto.ScannerOption, result.Errors[0].Scanner)
	assert.Contains(t, result.Errors[0].Message, "provider exploded")

	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, 1, result.AlertsCreated)
}

func TestRunScan_AccountLoadFailureAborts(t *testing.T) {
	cfg := scanServiceConfig()
	log := logger.NewNop()
	store := NewRecommendationStore(log, &fakeRecommendationRepo{}, &fakeAlertRepo{existing: map[string]bool{}}, nil)

	svc := NewScanService(cfg, log,
		&fakeAccountRepo{err: errors.New("db down")},
		&fakeWatchlistRepo{},
		&scanServiceMarketData{},
		NewEscalator(cfg, log, nil), store)

	_, err := svc.RunScan(context.Background(), dto.ScanParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load accounts")
}

func TestRunScan_PersistenceFailureAborts(t *testing.T) {
	recRepo := &fakeRecommendationRepo{err: errors.New("disk full")}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}}

	scanners := []scanner.Scanner{
		&stubScanner{
			name:   dto.ScannerOption,
			report: dto.ScannerReport{Scanner: dto.ScannerOption, Scanned: 1, Analyzed: 1},
			recs:   []dto.Recommendation{actionableRec("1", "BUY_TO_CLOSE", 25)},
		},
	}

	svc := newTestScanService(scanServiceConfig(), scanners, recRepo, alertRepo)
	_, err := svc.RunScan(context.Background(), dto.ScanParams{CreateAlerts: true})
	require.Error(t, err)
}

func TestRunScan_CanceledContextStops(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}}

	scanners := []scanner.Scanner{
		&stubScanner{name: dto.ScannerOption, report: dto.ScannerReport{Scanner: dto.ScannerOption}},
	}

	svc := newTestScanService(scanServiceConfig(), scanners, recRepo, alertRepo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.RunScan(ctx, dto.ScanParams{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
