package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/repository"
	"go-options-advisor/internal/entity"
	"go-options-advisor/pkg/common"
	"go-options-advisor/pkg/logger"
	pkgRedis "go-options-advisor/pkg/redis"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// StoreOptions controls one persistence pass.
type StoreOptions struct {
	CreateAlerts bool
}

// StoreResult reports what one persistence pass wrote.
type StoreResult struct {
	Stored           int
	AlertsCreated    int
	StoredByStrategy map[string]int
	AlertsByStrategy map[string]int
}

// RecommendationStore persists recommendations and raises deduplicated
// alerts for the actionable ones. Recommendation writes are hard failures;
// alert dedup degrades through redis to the database.
type RecommendationStore struct {
	logger             *logger.Logger
	recommendationRepo repository.RecommendationRepository
	alertRepo          repository.AlertRepository
	redisClient        *pkgRedis.Client
}

// NewRecommendationStore creates a store. The redis client is optional; when
// nil the dedup check falls through to the database every time.
func NewRecommendationStore(log *logger.Logger, recommendationRepo repository.RecommendationRepository, alertRepo repository.AlertRepository, redisClient *pkgRedis.Client) *RecommendationStore {
	return &RecommendationStore{
		logger:             log,
		recommendationRepo: recommendationRepo,
		alertRepo:          alertRepo,
		redisClient:        redisClient,
	}
}

// Store persists every recommendation and, when enabled, creates alerts for
// the actionable ones. A failed recommendation write aborts the pass; an
// alert suppressed by the dedup window is not an error.
func (s *RecommendationStore) Store(ctx context.Context, recs []dto.Recommendation, opts StoreOptions) (StoreResult, error) {
	result := StoreResult{
		StoredByStrategy: make(map[string]int),
		AlertsByStrategy: make(map[string]int),
	}

	for i := range recs {
		rec := &recs[i]

		record, err := toRecommendationEntity(rec)
		if err != nil {
			return result, fmt.Errorf("encode recommendation for %s: %w", rec.PositionKey, err)
		}
		if err := s.recommendationRepo.Create(ctx, record); err != nil {
			return result, fmt.Errorf("store recommendation for %s: %w", rec.PositionKey, err)
		}
		result.Stored++
		result.StoredByStrategy[rec.Strategy]++

		if !opts.CreateAlerts || !rec.Actionable {
			continue
		}

		created, err := s.createAlert(ctx, rec)
		if err != nil {
			return result, fmt.Errorf("create alert for %s: %w", rec.PositionKey, err)
		}
		if created {
			result.AlertsCreated++
			result.AlertsByStrategy[rec.Strategy]++
		}
	}

	return result, nil
}

// createAlert inserts an alert unless an identical one exists inside the
// dedup window. Returns whether an alert was actually written.
func (s *RecommendationStore) createAlert(ctx context.Context, rec *dto.Recommendation) (bool, error) {
	duplicate, err := s.isDuplicate(ctx, rec.PositionKey, rec.Action)
	if err != nil {
		return false, err
	}
	if duplicate {
		s.logger.DebugContext(ctx, "Alert suppressed by dedup window",
			logger.StringField("position_key", rec.PositionKey),
			logger.StringField("action", rec.Action))
		return false, nil
	}

	alert := &entity.Alert{
		ID:          uuid.NewString(),
		PositionKey: rec.PositionKey,
		Symbol:      rec.Symbol,
		Strategy:    rec.Strategy,
		Action:      rec.Action,
		Message:     FormatAlertMessage(rec),
	}
	if err := s.alertRepo.Create(ctx, alert); err != nil {
		return false, err
	}
	s.markAlerted(ctx, rec.PositionKey, rec.Action)
	return true, nil
}

// isDuplicate checks redis first and falls back to the database, which stays
// authoritative when the redis entry has been evicted.
func (s *RecommendationStore) isDuplicate(ctx context.Context, positionKey, action string) (bool, error) {
	if s.redisClient != nil {
		key := fmt.Sprintf(common.RedisKeyOptionAlert, positionKey, action)
		_, err := s.redisClient.Get(ctx, key).Result()
		if err == nil {
			return true, nil
		}
		if err != redis.Nil {
			s.logger.Warn("Redis dedup lookup failed, falling back to database",
				logger.ErrorField(err))
		}
	}
	return s.alertRepo.ExistsSince(ctx, positionKey, action, time.Now().Add(-common.AlertDedupWindow))
}

// markAlerted records the redis fast-path entry. Best effort: the database
// index backs this up.
func (s *RecommendationStore) markAlerted(ctx context.Context, positionKey, action string) {
	if s.redisClient == nil {
		return
	}
	key := fmt.Sprintf(common.RedisKeyOptionAlert, positionKey, action)
	if err := s.redisClient.Set(ctx, key, "1", common.AlertDedupWindow).Err(); err != nil {
		s.logger.Warn("Failed to record alert dedup key", logger.ErrorField(err))
	}
}

func toRecommendationEntity(rec *dto.Recommendation) (*entity.Recommendation, error) {
	var metrics datatypes.JSON
	if rec.Metrics != nil {
		raw, err := json.Marshal(rec.Metrics)
		if err != nil {
			return nil, err
		}
		metrics = datatypes.JSON(raw)
	}

	return &entity.Recommendation{
		PositionID:         rec.PositionID,
		PositionKey:        rec.PositionKey,
		AccountName:        rec.Account,
		Symbol:             rec.Symbol,
		Strategy:           rec.Strategy,
		Action:             rec.Action,
		Reason:             rec.Reason,
		Confidence:         rec.Confidence,
		Source:             rec.Source,
		AssistantEvaluated: rec.AssistantEvaluated,
		AssistantReasoning: rec.AssistantReasoning,
		PreliminaryAction:  rec.PreliminaryAction,
		PreliminaryReason:  rec.PreliminaryReason,
		Metrics:            metrics,
	}, nil
}

// FormatAlertMessage renders the one-line alert text. P/L keeps its sign so
// an underwater position never reads as a gain.
func FormatAlertMessage(rec *dto.Recommendation) string {
	return fmt.Sprintf("%s [%s] %s | P/L %+.1f%% | DTE %d | %s",
		rec.Symbol, rec.Strategy, rec.Action, rec.PLPercent, rec.DTE, rec.Reason)
}
