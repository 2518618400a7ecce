package repository

import (
	"context"
	"time"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/entity"
)

// MarketDataRepository is the external quote provider. Implementations must
// return nil metrics (not an error) for unknown contracts so a missing quote
// skips one position instead of failing a scan.
type MarketDataRepository interface {
	GetOptionMetrics(ctx context.Context, symbol string, expiration time.Time, strike float64, optionType string) (*dto.MarketMetrics, error)
	GetMarketConditions(ctx context.Context, symbol string) (dto.MarketConditions, error)
	GetUnderlyingPrice(ctx context.Context, symbol string) (float64, error)
}

// ReasoningRepository is the optional external assistant that reviews edge
// candidates. Errors are expected and callers fall back to the rule result.
type ReasoningRepository interface {
	ReviewPosition(ctx context.Context, req *dto.PositionReviewRequest) (*dto.PositionReviewResult, error)
}

// AccountRepository lists the account universe with positions preloaded.
type AccountRepository interface {
	GetAccounts(ctx context.Context, param dto.GetAccountsParam) ([]entity.Account, error)
}

// WatchlistRepository lists symbols eligible for new-call proposals.
type WatchlistRepository interface {
	GetAll(ctx context.Context) ([]entity.WatchlistEntry, error)
}

// RecommendationRepository persists recommendation records append-only.
type RecommendationRepository interface {
	Create(ctx context.Context, rec *entity.Recommendation) error
}

// AlertRepository persists alerts and answers the dedup-window existence
// check.
type AlertRepository interface {
	Create(ctx context.Context, alert *entity.Alert) error
	ExistsSince(ctx context.Context, positionKey, action string, since time.Time) (bool, error)
	List(ctx context.Context, param dto.ListAlertsParam) ([]entity.Alert, error)
	Acknowledge(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
