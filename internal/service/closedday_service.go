package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

type ClosedDayService struct {
	closedDayRepo ClosedDayRepo
	logger        *zap.Logger
}

func NewClosedDayService(closedDayRepo ClosedDayRepo, logger *zap.Logger) *ClosedDayService {
	return &ClosedDayService{
		closedDayRepo: closedDayRepo,
		logger:        logger,
	}
}

func (s *ClosedDayService) List(ctx context.Context) ([]*model.ClosedDay, error) {
	return s.closedDayRepo.List(ctx)
}

// Add marks a date as closed. A date can only be closed once.
func (s *ClosedDayService) Add(ctx context.Context, date, reason string) (*model.ClosedDay, error) {
	if date == "" {
		return nil, apperr.New(apperr.ErrValidation, "Date de fermeture requise")
	}
	if !model.ValidDate(date) {
		return nil, apperr.New(apperr.ErrValidation, "Format de date invalide")
	}

	existing, err := s.closedDayRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("check closed day: %w", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.ErrConflict, "Cette date est déjà marquée comme fermée")
	}

	if reason == "" {
		reason = model.DefaultClosedReason
	}

	day := &model.ClosedDay{Date: date, Reason: reason}
	if err := s.closedDayRepo.Create(ctx, day); err != nil {
		return nil, err
	}

	s.logger.Info("Closed day added", zap.String("date", date), zap.String("reason", reason))

	return day, nil
}

// Delete reopens a date. Closures are advisory to availability, so there is
// no dependent-record check.
func (s *ClosedDayService) Delete(ctx context.Context, id int64) error {
	if err := s.closedDayRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Closed day removed", zap.Int64("id", id))

	return nil
}
