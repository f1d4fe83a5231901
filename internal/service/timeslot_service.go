package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

type TimeSlotService struct {
	slotRepo        SlotRepo
	appointmentRepo AppointmentRepo
	logger          *zap.Logger
}

func NewTimeSlotService(slotRepo SlotRepo, appointmentRepo AppointmentRepo, logger *zap.Logger) *TimeSlotService {
	return &TimeSlotService{
		slotRepo:        slotRepo,
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// List returns the whole catalog, inactive slots included (admin view).
func (s *TimeSlotService) List(ctx context.Context) ([]*model.TimeSlot, error) {
	return s.slotRepo.List(ctx)
}

// Add creates an active slot after checking the interval against every
// existing slot, active or not. Admins submit HH:mm.
func (s *TimeSlotService) Add(ctx context.Context, start, end string) (*model.TimeSlot, error) {
	if start == "" || end == "" {
		return nil, apperr.New(apperr.ErrValidation, "Heure de début et de fin requises")
	}

	if !validShortTime(start) || !validShortTime(end) {
		return nil, apperr.New(apperr.ErrValidation, "Format d'heure invalide (HH:mm requis)")
	}

	slot := &model.TimeSlot{
		Start:  model.NormalizeTime(start),
		End:    model.NormalizeTime(end),
		Active: true,
	}

	if slot.End <= slot.Start {
		return nil, apperr.New(apperr.ErrValidation, "L'heure de fin doit être après l'heure de début")
	}

	existing, err := s.slotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load existing slots: %w", err)
	}
	for _, other := range existing {
		if slot.Overlaps(*other) {
			return nil, apperr.New(apperr.ErrConflict, "Ce créneau horaire entre en conflit avec un créneau existant")
		}
	}

	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.logger.Info("Time slot added",
		zap.Int64("id", slot.ID),
		zap.String("start", slot.Start),
		zap.String("end", slot.End),
	)

	return slot, nil
}

// Toggle flips the active flag and returns the new state. Appointments
// already booked on the slot are untouched.
func (s *TimeSlotService) Toggle(ctx context.Context, id int64) (bool, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if slot == nil {
		return false, apperr.New(apperr.ErrNotFound, "Créneau horaire non trouvé")
	}

	newState := !slot.Active
	if err := s.slotRepo.SetActive(ctx, id, newState); err != nil {
		return false, err
	}

	s.logger.Info("Time slot toggled", zap.Int64("id", id), zap.Bool("active", newState))

	return newState, nil
}

// Delete removes a slot unless an active appointment still sits on its start
// time. Matching is by time value: that is how appointments reference slots.
func (s *TimeSlotService) Delete(ctx context.Context, id int64) error {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot == nil {
		return apperr.New(apperr.ErrNotFound, "Créneau horaire non trouvé")
	}

	attached, err := s.appointmentRepo.CountActiveAtTime(ctx, slot.Start)
	if err != nil {
		return fmt.Errorf("count attached appointments: %w", err)
	}
	if attached > 0 {
		return apperr.Newf(apperr.ErrConflict,
			"Impossible de supprimer ce créneau car %d rendez-vous y sont associés", attached)
	}

	if err := s.slotRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Time slot deleted", zap.Int64("id", id), zap.String("start", slot.Start))

	return nil
}

// validShortTime accepts only HH:mm, the format the admin form submits.
func validShortTime(s string) bool {
	_, err := time.Parse(model.TimeShortLayout, s)
	return err == nil && len(s) == 5
}
