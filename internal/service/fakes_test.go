package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

// In-memory repository fakes. The appointment fake enforces the one-active-
// appointment-per-slot rule under a mutex the way the database enforces it
// with its unique index, so the concurrency tests exercise the same contract
// the services run against in production.

func pinNow(t *testing.T, fixed time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = old })
}

type fakeAppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: make(map[int64]*model.Appointment)}
}

func (r *fakeAppointmentRepo) activeAtLocked(date, timeOfDay string, excludeID int64) int64 {
	var n int64
	for _, a := range r.items {
		if a.Date == date && a.Time == timeOfDay && a.Status.IsActive() && a.ID != excludeID {
			n++
		}
	}
	return n
}

func (r *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.activeAtLocked(a.Date, a.Time, 0) > 0 {
		return apperr.New(apperr.ErrConflict, "Ce créneau horaire n'est plus disponible")
	}

	r.nextID++
	a.ID = r.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	clone := *a
	r.items[a.ID] = &clone
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[a.ID]; !ok {
		return apperr.New(apperr.ErrNotFound, "Rendez-vous non trouvé")
	}
	if a.Status.IsActive() && r.activeAtLocked(a.Date, a.Time, a.ID) > 0 {
		return apperr.New(apperr.ErrConflict, "Ce créneau horaire est déjà occupé")
	}
	a.UpdatedAt = time.Now()
	clone := *a
	r.items[a.ID] = &clone
	return nil
}

func (r *fakeAppointmentRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return apperr.New(apperr.ErrNotFound, "Rendez-vous non trouvé")
	}
	delete(r.items, id)
	return nil
}

func (r *fakeAppointmentRepo) Find(_ context.Context, f model.AppointmentFilter) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, a := range r.items {
		if f.Date != "" && a.Date != f.Date {
			continue
		}
		if f.Status != "" && string(a.Status) != f.Status {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) Count(ctx context.Context, f model.AppointmentFilter) (int64, error) {
	list, err := r.Find(ctx, f)
	return int64(len(list)), err
}

func (r *fakeAppointmentRepo) ListByDate(ctx context.Context, date string) ([]*model.Appointment, error) {
	return r.Find(ctx, model.AppointmentFilter{Date: date})
}

func (r *fakeAppointmentRepo) ListBetween(_ context.Context, from, to string) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, a := range r.items {
		if a.Date >= from && a.Date <= to {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListUpcoming(_ context.Context, _ int) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.Appointment
	for _, a := range r.items {
		if a.Status.IsActive() {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ActiveStartTimes(_ context.Context, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, a := range r.items {
		if a.Date == date && a.Status.IsActive() {
			out = append(out, a.Time)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) CountActiveAt(_ context.Context, date, timeOfDay string, excludeID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeAtLocked(date, timeOfDay, excludeID), nil
}

func (r *fakeAppointmentRepo) CountActiveAtTime(_ context.Context, timeOfDay string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, a := range r.items {
		if a.Time == timeOfDay && a.Status.IsActive() {
			n++
		}
	}
	return n, nil
}

func (r *fakeAppointmentRepo) DeleteCancelledBefore(_ context.Context, cutoffDate string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, a := range r.items {
		if a.Status == model.StatusCancelled && a.Date < cutoffDate {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

type fakeSlotRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*model.TimeSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{items: make(map[int64]*model.TimeSlot)}
}

func (r *fakeSlotRepo) List(_ context.Context) ([]*model.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.TimeSlot
	for _, s := range r.items {
		clone := *s
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeSlotRepo) ListActive(ctx context.Context) ([]*model.TimeSlot, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.TimeSlot
	for _, s := range all {
		if s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id int64) (*model.TimeSlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	clone := *s
	return &clone, nil
}

func (r *fakeSlotRepo) Create(_ context.Context, s *model.TimeSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s.ID = r.nextID
	s.CreatedAt = time.Now()
	clone := *s
	r.items[s.ID] = &clone
	return nil
}

func (r *fakeSlotRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.items[id]
	if !ok {
		return apperr.New(apperr.ErrNotFound, "Créneau horaire non trouvé")
	}
	s.Active = active
	return nil
}

func (r *fakeSlotRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return apperr.New(apperr.ErrNotFound, "Créneau horaire non trouvé")
	}
	delete(r.items, id)
	return nil
}

type fakeClosedDayRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*model.ClosedDay
}

func newFakeClosedDayRepo() *fakeClosedDayRepo {
	return &fakeClosedDayRepo{items: make(map[int64]*model.ClosedDay)}
}

func (r *fakeClosedDayRepo) List(_ context.Context) ([]*model.ClosedDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*model.ClosedDay
	for _, d := range r.items {
		clone := *d
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeClosedDayRepo) DatesBetween(_ context.Context, from, to string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, d := range r.items {
		if d.Date >= from && d.Date <= to {
			out = append(out, d.Date)
		}
	}
	return out, nil
}

func (r *fakeClosedDayRepo) GetByDate(_ context.Context, date string) (*model.ClosedDay, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.items {
		if d.Date == date {
			clone := *d
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeClosedDayRepo) Create(_ context.Context, d *model.ClosedDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	d.ID = r.nextID
	d.CreatedAt = time.Now()
	clone := *d
	r.items[d.ID] = &clone
	return nil
}

func (r *fakeClosedDayRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return apperr.New(apperr.ErrNotFound, "Jour de fermeture non trouvé")
	}
	delete(r.items, id)
	return nil
}
