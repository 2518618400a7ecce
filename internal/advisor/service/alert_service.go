package service

import (
	"context"

	"go-options-advisor/internal/advisor/dto"
	"go-options-advisor/internal/advisor/repository"
	"go-options-advisor/internal/entity"
	"go-options-advisor/pkg/logger"
)

// AlertService exposes the alert inbox: listing, acknowledging, dismissing.
// Alert creation belongs to the scan pipeline, not here.
type AlertService interface {
	ListAlerts(ctx context.Context, param dto.ListAlertsParam) ([]entity.Alert, error)
	AcknowledgeAlert(ctx context.Context, id string) error
	DeleteAlert(ctx context.Context, id string) error
}

type alertService struct {
	logger    *logger.Logger
	alertRepo repository.AlertRepository
}

// NewAlertService creates a new AlertService.
func NewAlertService(log *logger.Logger, alertRepo repository.AlertRepository) AlertService {
	return &alertService{logger: log, alertRepo: alertRepo}
}

func (s *alertService) ListAlerts(ctx context.Context, param dto.ListAlertsParam) ([]entity.Alert, error) {
	return s.alertRepo.List(ctx, param)
}

func (s *alertService) AcknowledgeAlert(ctx context.Context, id string) error {
	if err := s.alertRepo.Acknowledge(ctx, id); err != nil {
		s.logger.Error("Failed to acknowledge alert",
			logger.StringField("id", id),
			logger.ErrorField(err))
		return err
	}
	return nil
}

func (s *alertService) DeleteAlert(ctx context.Context, id string) error {
	return s.alertRepo.Delete(ctx, id)
}
