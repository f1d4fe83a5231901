package service

import (
	"context"

	"github.com/lyceetalmest/rdv-backend/internal/model"
)

// Repository interfaces consumed by the services. The pgx implementations
// live in internal/repository; tests substitute in-memory fakes.

type AppointmentRepo interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	Update(ctx context.Context, a *model.Appointment) error
	Delete(ctx context.Context, id int64) error
	Find(ctx context.Context, f model.AppointmentFilter) ([]*model.Appointment, error)
	Count(ctx context.Context, f model.AppointmentFilter) (int64, error)
	ListByDate(ctx context.Context, date string) ([]*model.Appointment, error)
	ListBetween(ctx context.Context, from, to string) ([]*model.Appointment, error)
	ListUpcoming(ctx context.Context, days int) ([]*model.Appointment, error)
	ActiveStartTimes(ctx context.Context, date string) ([]string, error)
	CountActiveAt(ctx context.Context, date, timeOfDay string, excludeID int64) (int64, error)
	CountActiveAtTime(ctx context.Context, timeOfDay string) (int64, error)
	DeleteCancelledBefore(ctx context.Context, cutoffDate string) (int64, error)
}

type SlotRepo interface {
	List(ctx context.Context) ([]*model.TimeSlot, error)
	ListActive(ctx context.Context) ([]*model.TimeSlot, error)
	GetByID(ctx context.Context, id int64) (*model.TimeSlot, error)
	Create(ctx context.Context, s *model.TimeSlot) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

type ClosedDayRepo interface {
	List(ctx context.Context) ([]*model.ClosedDay, error)
	DatesBetween(ctx context.Context, from, to string) ([]string, error)
	GetByDate(ctx context.Context, date string) (*model.ClosedDay, error)
	Create(ctx context.Context, d *model.ClosedDay) error
	Delete(ctx context.Context, id int64) error
}

type StatsRepo interface {
	General(ctx context.Context) (model.GeneralStats, error)
	CountByStatus(ctx context.Context) ([]model.StatusCount, error)
	CountByLevel(ctx context.Context, limit int) ([]model.LevelCount, error)
	CountBySex(ctx context.Context) ([]model.SexCount, error)
	DailyCreated(ctx context.Context, days int) ([]model.DateCount, error)
	UpcomingByDate(ctx context.Context, days int) ([]model.DateCount, error)
	PopularSlots(ctx context.Context, limit int) ([]model.SlotCount, error)
}
