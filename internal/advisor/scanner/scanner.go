package scanner

import (
	"context"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/rules"
	"go-options-advisor/internal/entity"
)

// Input is one scan pass's shared state: the account universe loaded once,
// the per-pass snapshot cache, and the merged rule thresholds.
type Input struct {
	Accounts  []entity.Account
	Watchlist []entity.WatchlistEntry
	AccountID uint
	Cache     *SnapshotCache
	Rules     rules.Config
}

// Scanner runs one strategy's classifier across the account universe and
// returns its recommendations plus extraction/skip counts. Persistence and
// escalation happen in the orchestrator, not here.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, in Input) (dto.ScannerReport, []dto.Recommendation, error)
}
