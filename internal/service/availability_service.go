package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

// AvailabilityService derives what is bookable. It owns no state of its own:
// everything is computed from the slot catalog, the closed days and the
// active appointments.
type AvailabilityService struct {
	slotRepo        SlotRepo
	closedDayRepo   ClosedDayRepo
	appointmentRepo AppointmentRepo

	windowDays       int
	excludedWeekdays map[time.Weekday]bool

	logger *zap.Logger
}

func NewAvailabilityService(
	slotRepo SlotRepo,
	closedDayRepo ClosedDayRepo,
	appointmentRepo AppointmentRepo,
	windowDays int,
	excludedWeekdays []time.Weekday,
	logger *zap.Logger,
) *AvailabilityService {
	excluded := make(map[time.Weekday]bool, len(excludedWeekdays))
	for _, d := range excludedWeekdays {
		excluded[d] = true
	}

	return &AvailabilityService{
		slotRepo:         slotRepo,
		closedDayRepo:    closedDayRepo,
		appointmentRepo:  appointmentRepo,
		windowDays:       windowDays,
		excludedWeekdays: excluded,
		logger:           logger,
	}
}

// AvailableDates walks the rolling window from today and keeps dates that are
// neither on an excluded weekday nor marked closed. Today is included when it
// qualifies; the past-date guard lives on the write path.
func (s *AvailabilityService) AvailableDates(ctx context.Context) ([]model.AvailableDate, error) {
	start := now()
	from := start.Format(model.DateLayout)
	to := start.AddDate(0, 0, s.windowDays).Format(model.DateLayout)

	closedDates, err := s.closedDayRepo.DatesBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load closed days: %w", err)
	}
	closed := make(map[string]bool, len(closedDates))
	for _, d := range closedDates {
		closed[d] = true
	}

	dates := make([]model.AvailableDate, 0, s.windowDays)
	for i := 0; i < s.windowDays; i++ {
		day := start.AddDate(0, 0, i)
		dateStr := day.Format(model.DateLayout)

		if s.excludedWeekdays[day.Weekday()] || closed[dateStr] {
			continue
		}

		dates = append(dates, model.AvailableDate{
			Date:      dateStr,
			DayName:   day.Weekday().String(),
			Formatted: day.Format(model.DateLayoutFR),
		})
	}

	return dates, nil
}

// AvailableSlots returns the active slots of a date whose start time is not
// held by an active appointment. The date is not re-checked against weekends
// or closed days here; callers are expected to pick it from AvailableDates.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, date string) ([]model.AvailableSlot, error) {
	if !model.ValidDate(date) {
		return nil, apperr.New(apperr.ErrValidation, "Format de date invalide")
	}

	slots, err := s.slotRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active slots: %w", err)
	}

	bookedTimes, err := s.appointmentRepo.ActiveStartTimes(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load booked times: %w", err)
	}
	booked := make(map[string]bool, len(bookedTimes))
	for _, t := range bookedTimes {
		booked[t] = true
	}

	available := make([]model.AvailableSlot, 0, len(slots))
	for _, slot := range slots {
		if booked[slot.Start] {
			continue
		}
		available = append(available, model.AvailableSlot{
			ID:        slot.ID,
			Time:      slot.Start,
			TimeEnd:   slot.End,
			Formatted: model.FormatTimeShort(slot.Start),
		})
	}

	return available, nil
}
