package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

// now is swapped out by tests that pin the clock.
var now = time.Now

type AppointmentService struct {
	appointmentRepo AppointmentRepo
	logger          *zap.Logger
}

func NewAppointmentService(appointmentRepo AppointmentRepo, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		logger:          logger,
	}
}

// Create books a slot for a citizen submission. The availability pre-check
// gives a friendly conflict early; the unique index behind the repository is
// what actually guarantees a single winner when two submissions race.
func (s *AppointmentService) Create(ctx context.Context, a *model.Appointment) (*model.Appointment, error) {
	a.LastName = strings.TrimSpace(a.LastName)
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.Address = strings.TrimSpace(a.Address)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Status = model.StatusPending

	if errs := a.Validate(); len(errs) > 0 {
		return nil, apperr.New(apperr.ErrValidation, strings.Join(errs, ", "))
	}

	if isPastDate(a.Date) {
		return nil, apperr.New(apperr.ErrValidation, "Impossible de réserver un rendez-vous dans le passé")
	}

	a.Time = model.NormalizeTime(a.Time)

	taken, err := s.appointmentRepo.CountActiveAt(ctx, a.Date, a.Time, 0)
	if err != nil {
		return nil, fmt.Errorf("check slot availability: %w", err)
	}
	if taken > 0 {
		return nil, apperr.New(apperr.ErrConflict, "Ce créneau horaire n'est plus disponible")
	}

	if err := s.appointmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment created",
		zap.Int64("id", a.ID),
		zap.String("date", a.Date),
		zap.String("time", a.Time),
	)

	return a, nil
}

// Get returns an appointment or a not-found error.
func (s *AppointmentService) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, apperr.New(apperr.ErrNotFound, "Rendez-vous non trouvé")
	}
	return a, nil
}

// UpdateInput carries a partial admin edit. Nil fields stay untouched.
type UpdateInput struct {
	LastName    *string `json:"nom"`
	FirstName   *string `json:"prenom"`
	Sex         *string `json:"sexe"`
	Address     *string `json:"adresse"`
	Phone       *string `json:"telephone"`
	SchoolLevel *string `json:"niveau_scolaire"`
	Date        *string `json:"date_rdv"`
	Time        *string `json:"heure_rdv"`
	Status      *string `json:"statut"`
	Notes       *string `json:"notes"`
}

// Update applies a partial edit. A date or time change re-runs the
// availability check against the slot the record would end up on, excluding
// the record itself.
func (s *AppointmentService) Update(ctx context.Context, id int64, in UpdateInput) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Phone != nil && !model.ValidPhone(*in.Phone) {
		return nil, apperr.New(apperr.ErrValidation, "Format de numéro de téléphone invalide")
	}
	if in.Date != nil && !model.ValidDate(*in.Date) {
		return nil, apperr.New(apperr.ErrValidation, "Format de date invalide")
	}
	if in.Time != nil && !model.ValidTime(*in.Time) {
		return nil, apperr.New(apperr.ErrValidation, "Format d'heure invalide")
	}
	if in.Status != nil && !model.AppointmentStatus(*in.Status).Valid() {
		return nil, apperr.New(apperr.ErrValidation, "Statut invalide")
	}

	if in.Date != nil || in.Time != nil {
		date := a.Date
		timeOfDay := a.Time
		if in.Date != nil {
			date = *in.Date
		}
		if in.Time != nil {
			timeOfDay = model.NormalizeTime(*in.Time)
		}

		taken, err := s.appointmentRepo.CountActiveAt(ctx, date, timeOfDay, id)
		if err != nil {
			return nil, fmt.Errorf("check slot availability: %w", err)
		}
		if taken > 0 {
			return nil, apperr.New(apperr.ErrConflict, "Ce créneau horaire est déjà occupé")
		}
	}

	if in.LastName != nil {
		a.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.FirstName != nil {
		a.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.Sex != nil {
		a.Sex = *in.Sex
	}
	if in.Address != nil {
		a.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		a.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.SchoolLevel != nil {
		a.SchoolLevel = *in.SchoolLevel
	}
	if in.Date != nil {
		a.Date = *in.Date
	}
	if in.Time != nil {
		a.Time = model.NormalizeTime(*in.Time)
	}
	if in.Status != nil {
		a.Status = model.AppointmentStatus(*in.Status)
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}

	if err := s.appointmentRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment updated", zap.Int64("id", a.ID))

	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, id int64) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.appointmentRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment deleted", zap.Int64("id", id))

	return a, nil
}

// Cancel marks an appointment cancelled and appends a timestamped note.
// Cancelled is terminal: a second cancel fails and mutates nothing.
func (s *AppointmentService) Cancel(ctx context.Context, id int64, reason string) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status == model.StatusCancelled {
		return nil, apperr.New(apperr.ErrValidation, "Ce rendez-vous est déjà annulé")
	}

	if reason == "" {
		reason = "Annulation par l'utilisateur"
	}

	a.Status = model.StatusCancelled
	appendNote(a, fmt.Sprintf("Annulé le %s: %s", model.FormatTimestampFR(now()), reason))

	if err := s.appointmentRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment cancelled", zap.Int64("id", id), zap.String("reason", reason))

	return a, nil
}

// Confirm moves a pending appointment to confirmed. Confirming again is a
// no-op on status but still allowed for attaching a note.
func (s *AppointmentService) Confirm(ctx context.Context, id int64, note string) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if a.Status == model.StatusCancelled {
		return nil, apperr.New(apperr.ErrValidation, "Impossible de confirmer un rendez-vous annulé")
	}

	a.Status = model.StatusConfirmed
	if note != "" {
		appendNote(a, note)
	}

	if err := s.appointmentRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment confirmed", zap.Int64("id", id))

	return a, nil
}

// Reschedule moves an appointment to a new slot and records the move in the
// notes.
func (s *AppointmentService) Reschedule(ctx context.Context, id int64, newDate, newTime, reason string) (*model.Appointment, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !model.ValidDate(newDate) {
		return nil, apperr.New(apperr.ErrValidation, "Format de date invalide")
	}
	if !model.ValidTime(newTime) {
		return nil, apperr.New(apperr.ErrValidation, "Format d'heure invalide")
	}
	newTime = model.NormalizeTime(newTime)

	taken, err := s.appointmentRepo.CountActiveAt(ctx, newDate, newTime, id)
	if err != nil {
		return nil, fmt.Errorf("check slot availability: %w", err)
	}
	if taken > 0 {
		return nil, apperr.New(apperr.ErrConflict, "Ce créneau horaire est déjà occupé")
	}

	note := fmt.Sprintf("Reprogrammé du %s %s vers %s %s",
		model.FormatDateFR(a.Date), model.FormatTimeShort(a.Time),
		model.FormatDateFR(newDate), model.FormatTimeShort(newTime))
	if reason != "" {
		note += ": " + reason
	}

	a.Date = newDate
	a.Time = newTime
	appendNote(a, note)

	if err := s.appointmentRepo.Update(ctx, a); err != nil {
		return nil, err
	}

	s.logger.Info("Appointment rescheduled",
		zap.Int64("id", id),
		zap.String("new_date", newDate),
		zap.String("new_time", newTime),
	)

	return a, nil
}

// Find lists appointments for the admin dashboard with the paired total for
// pagination.
func (s *AppointmentService) Find(ctx context.Context, f model.AppointmentFilter) ([]*model.Appointment, int64, error) {
	if f.Date != "" && !model.ValidDate(f.Date) {
		return nil, 0, apperr.New(apperr.ErrValidation, "Format de date invalide")
	}

	total, err := s.appointmentRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	appointments, err := s.appointmentRepo.Find(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	return appointments, total, nil
}

// ListByDate returns every appointment of a date for the export view.
func (s *AppointmentService) ListByDate(ctx context.Context, date string) ([]*model.Appointment, error) {
	if !model.ValidDate(date) {
		return nil, apperr.New(apperr.ErrValidation, "Format de date invalide")
	}
	return s.appointmentRepo.ListByDate(ctx, date)
}

// ListUpcoming returns active appointments over the next days.
func (s *AppointmentService) ListUpcoming(ctx context.Context, days int) ([]*model.Appointment, error) {
	return s.appointmentRepo.ListUpcoming(ctx, days)
}

// ListBetween returns appointments inside a date range for reports.
func (s *AppointmentService) ListBetween(ctx context.Context, from, to string) ([]*model.Appointment, error) {
	return s.appointmentRepo.ListBetween(ctx, from, to)
}

// CleanupOld removes cancelled appointments older than the retention period.
func (s *AppointmentService) CleanupOld(ctx context.Context, months int) (int64, error) {
	cutoff := now().AddDate(0, -months, 0).Format(model.DateLayout)
	return s.appointmentRepo.DeleteCancelledBefore(ctx, cutoff)
}

// appendNote adds a line to the notes without ever overwriting what is there.
func appendNote(a *model.Appointment, note string) {
	if a.Notes == "" {
		a.Notes = note
		return
	}
	a.Notes = a.Notes + "\n" + note
}

// isPastDate reports whether a valid YYYY-MM-DD date is strictly before
// today. Same-day booking stays allowed.
func isPastDate(date string) bool {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return false
	}
	today, _ := time.Parse(model.DateLayout, now().Format(model.DateLayout))
	return d.Before(today)
}
