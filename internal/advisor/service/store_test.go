package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/entity"
	"go-options-advisor/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecommendationRepo struct {
	created []*entity.Recommendation
	err     error
}

func (f *fakeRecommendationRepo) Create(ctx context.Context, rec *entity.Recommendation) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, rec)
	return nil
}

type fakeAlertRepo struct {
	created  []*entity.Alert
	existing map[string]bool // positionKey:action
	err      error
}

func (f *fakeAlertRepo) Create(ctx context.Context, alert *entity.Alert) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, alert)
	return nil
}

func (f *fakeAlertRepo) ExistsSince(ctx context.Context, positionKey, action string, since time.Time) (bool, error) {
	return f.existing[positionKey+":"+action], nil
}

func (f *fakeAlertRepo) List(ctx context.Context, param dto.ListAlertsParam) ([]entity.Alert, error) {
	return nil, nil
}

func (f *fakeAlertRepo) Acknowledge(ctx context.Context, id string) error { return nil }
func (f *fakeAlertRepo) Delete(ctx context.Context, id string) error      { return nil }

func actionableRec(positionKey, action string, plPercent float64) dto.Recommendation {
	return dto.Recommendation{
		PositionKey: positionKey,
		Symbol:      "AAPL",
		Strategy:    dto.ScannerOption,
		Action:      action,
		Actionable:  action != "HOLD" && action != "NONE",
		Reason:      "test reason",
		Source:      entity.RecommendationSourceRules,
		Metrics:     &dto.MarketMetrics{Price: 1.5},
		PLPercent:   plPercent,
		DTE:         9,
	}
}

func newTestStore(recRepo *fakeRecommendationRepo, alertRepo *fakeAlertRepo) *RecommendationStore {
	return NewRecommendationStore(logger.NewNop(), recRepo, alertRepo, nil)
}

func TestStore_PersistsEveryRecommendation(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}}
	store := newTestStore(recRepo, alertRepo)

	recs := []dto.Recommendation{
		actionableRec("1", "BUY_TO_CLOSE", 25),
		actionableRec("2", "HOLD", 5),
	}

	result, err := store.Store(context.Background(), recs, StoreOptions{CreateAlerts: true})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Stored)
	assert.Len(t, recRepo.created, 2)

	// Only the actionable recommendation produces an alert.
	assert.Equal(t, 1, result.AlertsCreated)
	require.Len(t, alertRepo.created, 1)
	assert.Equal(t, "1", alertRepo.created[0].PositionKey)
	assert.NotEmpty(t, alertRepo.created[0].ID)
}

func TestStore_NoAlertsWhenDisabled(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}}
	store := newTestStore(recRepo, alertRepo)

	result, err := store.Store(context.Background(),
		[]dto.Recommendation{actionableRec("1", "BUY_TO_CLOSE", 25)},
		StoreOptions{CreateAlerts: false})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, 0, result.AlertsCreated)
	assert.Empty(t, alertRepo.created)
}

func TestStore_DedupSuppressesRepeat(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{"1:BUY_TO_CLOSE": true}}
	store := newTestStore(recRepo, alertRepo)

	result, err := store.Store(context.Background(),
		[]dto.Recommendation{actionableRec("1", "BUY_TO_CLOSE", 25)},
		StoreOptions{CreateAlerts: true})
	require.NoError(t, err)

	// The recommendation is still stored; only the alert is suppressed.
	assert.Equal(t, 1, result.Stored)
	assert.Equal(t, 0, result.AlertsCreated)
	assert.Empty(t, alertRepo.created)
}

func TestStore_DifferentActionBypassesDedup(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{"1:ROLL": true}}
	store := newTestStore(recRepo, alertRepo)

	result, err := store.Store(context.Background(),
		[]dto.Recommendation{actionableRec("1", "BUY_TO_CLOSE", 25)},
		StoreOptions{CreateAlerts: true})
	require.NoError(t, err)

	assert.Equal(t, 1, result.AlertsCreated)
}

func TestStore_PersistenceFailureIsHardError(t *testing.T) {
	recRepo := &fakeRecommendationRepo{err: errors.New("connection lost")}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}}
	store := newTestStore(recRepo, alertRepo)

	_, err := store.Store(context.Background(),
		[]dto.Recommendation{actionableRec("1", "BUY_TO_CLOSE", 25)},
		StoreOptions{CreateAlerts: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store recommendation")
}

func TestStore_AlertFailureIsHardError(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}, err: errors.New("connection lost")}
	store := newTestStore(recRepo, alertRepo)

	_, err := store.Store(context.Background(),
		[]dto.Recommendation{actionableRec("1", "BUY_TO_CLOSE", 25)},
		StoreOptions{CreateAlerts: true})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create alert")
}

func TestStore_RecordCarriesAssistantFields(t *testing.T) {
	recRepo := &fakeRecommendationRepo{}
	alertRepo := &fakeAlertRepo{existing: map[string]bool{}}
	store := newTestStore(recRepo, alertRepo)

	rec := actionableRec("1", "BUY_TO_CLOSE", 25)
	rec.Source = entity.RecommendationSourceAssistant
	rec.AssistantEvaluated = true
	rec.AssistantReasoning = "volatility crush expected"
	rec.PreliminaryAction = "HOLD"
	rec.PreliminaryReason = "Adequate DTE"

	_, err := store.Store(context.Background(), []dto.Recommendation{rec}, StoreOptions{})
	require.NoError(t, err)

	stored := recRepo.created[0]
	assert.Equal(t, entity.RecommendationSourceAssistant, stored.Source)
	assert.True(t, stored.AssistantEvaluated)
	assert.Equal(t, "HOLD", stored.PreliminaryAction)
	assert.NotEmpty(t, stored.Metrics)
}

func TestFormatAlertMessage_KeepsLossSign(t *testing.T) {
	rec := actionableRec("1", "BUY_TO_CLOSE", -55.2)
	msg := FormatAlertMessage(&rec)

	assert.Contains(t, msg, "-55.2%")
	assert.NotContains(t, msg, "+55.2%")

	gain := actionableRec("1", "BUY_TO_CLOSE", 30.0)
	assert.Contains(t, FormatAlertMessage(&gain), "+30.0%")
}
