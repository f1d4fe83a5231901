package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/model"
)

const (
	topLevelsLimit   = 10
	popularSlotLimit = 5
	statsWindowDays  = 7
)

// StatsService assembles the read-only aggregates of the admin dashboard.
type StatsService struct {
	statsRepo StatsRepo
	logger    *zap.Logger
}

func NewStatsService(statsRepo StatsRepo, logger *zap.Logger) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		logger:    logger,
	}
}

// Statistics gathers every aggregate in one payload.
func (s *StatsService) Statistics(ctx context.Context) (*model.Statistics, error) {
	general, err := s.statsRepo.General(ctx)
	if err != nil {
		return nil, fmt.Errorf("general statistics: %w", err)
	}

	daily, err := s.statsRepo.DailyCreated(ctx, statsWindowDays)
	if err != nil {
		return nil, fmt.Errorf("daily statistics: %w", err)
	}

	byLevel, err := s.statsRepo.CountByLevel(ctx, topLevelsLimit)
	if err != nil {
		return nil, fmt.Errorf("level statistics: %w", err)
	}

	byStatus, err := s.statsRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("status statistics: %w", err)
	}

	byGender, err := s.statsRepo.CountBySex(ctx)
	if err != nil {
		return nil, fmt.Errorf("gender statistics: %w", err)
	}

	popularSlots, err := s.statsRepo.PopularSlots(ctx, popularSlotLimit)
	if err != nil {
		return nil, fmt.Errorf("popular slots: %w", err)
	}

	upcoming, err := s.statsRepo.UpcomingByDate(ctx, statsWindowDays)
	if err != nil {
		return nil, fmt.Errorf("upcoming statistics: %w", err)
	}

	stats := &model.Statistics{
		General:      general,
		Daily:        daily,
		ByLevel:      byLevel,
		ByStatus:     byStatus,
		ByGender:     byGender,
		PopularSlots: popularSlots,
		Upcoming:     upcoming,
	}

	for i := range stats.Daily {
		stats.Daily[i].DateFormatted = model.FormatDateFR(stats.Daily[i].Date)
	}
	for i := range stats.Upcoming {
		stats.Upcoming[i].DateFormatted = model.FormatDateFR(stats.Upcoming[i].Date)
	}
	for i := range stats.PopularSlots {
		stats.PopularSlots[i].TimeFormatted = model.FormatTimeShort(stats.PopularSlots[i].Time)
	}

	return stats, nil
}

// DateStats computes the per-status breakdown of one day's appointments.
func DateStats(appointments []*model.Appointment) model.DateStats {
	stats := model.DateStats{Total: int64(len(appointments))}
	for _, a := range appointments {
		switch a.Status {
		case model.StatusConfirmed:
			stats.Confirmed++
		case model.StatusPending:
			stats.Pending++
		case model.StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
