package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

func newAppointmentService(repo AppointmentRepo) *AppointmentService {
	return NewAppointmentService(repo, zap.NewNop())
}

func submission() *model.Appointment {
	return &model.Appointment{
		LastName:    "El Amrani",
		FirstName:   "Youssef",
		Sex:         model.SexMale,
		Address:     "12 Rue des Écoles, Talmest",
		Phone:       "0612345678",
		SchoolLevel: "التانية باك",
		Date:        "2026-09-15",
		Time:        "09:00",
	}
}

func TestCreateBooksSlot(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	repo := newFakeAppointmentRepo()
	svc := newAppointmentService(repo)

	in := submission()
	in.Status = model.StatusConfirmed // callers cannot pick their status

	a, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == 0 {
		t.Error("expected an assigned id")
	}
	if a.Status != model.StatusPending {
		t.Errorf("Status = %q, want %q", a.Status, model.StatusPending)
	}
	if a.Time != "09:00:00" {
		t.Errorf("Time = %q, want normalized 09:00:00", a.Time)
	}
}

func TestCreateRejectsInvalidSubmission(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())

	in := submission()
	in.Phone = "12345"
	in.LastName = "X"

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if msg := apperr.Message(err); !strings.Contains(msg, "téléphone") || !strings.Contains(msg, "nom") {
		t.Errorf("message should carry every problem, got %q", msg)
	}
}

func TestCreateRejectsShortHourTime(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())

	in := submission()
	in.Time = "9:00"

	_, err := svc.Create(context.Background(), in)
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("single-digit hour must be rejected, got %v", err)
	}
	if !strings.Contains(apperr.Message(err), "heure") {
		t.Errorf("message = %q", apperr.Message(err))
	}
}

func TestCreateRejectsPastDateButAllowsToday(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 15, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())

	in := submission()
	in.Date = "2026-09-14"
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("yesterday should be rejected, got %v", err)
	}

	in = submission()
	in.Date = "2026-09-15"
	if _, err := svc.Create(context.Background(), in); err != nil {
		t.Fatalf("same-day booking should be allowed: %v", err)
	}
}

func TestCreateRejectsTakenSlot(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())

	if _, err := svc.Create(context.Background(), submission()); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	second := submission()
	second.Phone = "0698765432"
	_, err := svc.Create(context.Background(), second)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected a conflict, got %v", err)
	}
}

func TestCreateConcurrentSameSlotSingleWinner(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())

	const racers = 20
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), submission())
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, apperr.ErrConflict):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("exactly one booking must win, got %d", won)
	}
}

func TestCancelFreesSlot(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())
	ctx := context.Background()

	a, err := svc.Create(ctx, submission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(ctx, a.ID, "empêchement"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := svc.Create(ctx, submission()); err != nil {
		t.Fatalf("slot should be free after cancellation: %v", err)
	}
}

func TestCancelAppendsNoteAndIsTerminal(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 30, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())
	ctx := context.Background()

	a, err := svc.Create(ctx, submission())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	cancelled, err := svc.Cancel(ctx, a.ID, "empêchement familial")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if cancelled.Status != model.StatusCancelled {
		t.Errorf("Status = %q", cancelled.Status)
	}
	want := "Annulé le 01/09/2026 à 10:30: empêchement familial"
	if cancelled.Notes != want {
		t.Errorf("Notes = %q, want %q", cancelled.Notes, want)
	}

	_, err = svc.Cancel(ctx, a.ID, "encore")
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("second cancel should fail, got %v", err)
	}
	after, err := svc.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if after.Notes != want {
		t.Errorf("failed cancel must not touch notes, got %q", after.Notes)
	}
}

func TestCancelDefaultReason(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())
	ctx := context.Background()

	a, _ := svc.Create(ctx, submission())
	cancelled, err := svc.Cancel(ctx, a.ID, "")
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if !strings.Contains(cancelled.Notes, "Annulation par l'utilisateur") {
		t.Errorf("Notes = %q", cancelled.Notes)
	}
}

func TestConfirm(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())
	ctx := context.Background()

	a, _ := svc.Create(ctx, submission())
	confirmed, err := svc.Confirm(ctx, a.ID, "présence vérifiée par téléphone")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if confirmed.Status != model.StatusConfirmed {
		t.Errorf("Status = %q", confirmed.Status)
	}
	if confirmed.Notes != "présence vérifiée par téléphone" {
		t.Errorf("Notes = %q", confirmed.Notes)
	}

	if _, err := svc.Cancel(ctx, a.ID, ""); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if _, err := svc.Confirm(ctx, a.ID, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("confirming a cancelled appointment should fail, got %v", err)
	}
}

func TestReschedule(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	repo := newFakeAppointmentRepo()
	svc := newAppointmentService(repo)
	ctx := context.Background()

	a, _ := svc.Create(ctx, submission())

	moved, err := svc.Reschedule(ctx, a.ID, "2026-09-16", "10:00", "demande du parent")
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if moved.Date != "2026-09-16" || moved.Time != "10:00:00" {
		t.Errorf("moved to %s %s", moved.Date, moved.Time)
	}
	want := "Reprogrammé du 15/09/2026 09:00 vers 16/09/2026 10:00: demande du parent"
	if moved.Notes != want {
		t.Errorf("Notes = %q, want %q", moved.Notes, want)
	}

	// The original slot is free again.
	if _, err := svc.Create(ctx, submission()); err != nil {
		t.Fatalf("original slot should be free: %v", err)
	}

	// Moving onto an occupied slot is refused.
	_, err = svc.Reschedule(ctx, moved.ID, "2026-09-15", "09:00", "")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected a conflict, got %v", err)
	}
}

func TestUpdateOwnSlotIsNotAConflict(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())
	ctx := context.Background()

	a, _ := svc.Create(ctx, submission())

	sameTime := "09:00"
	notes := "contrôle"
	updated, err := svc.Update(ctx, a.ID, UpdateInput{Time: &sameTime, Notes: &notes})
	if err != nil {
		t.Fatalf("updating onto its own slot must pass: %v", err)
	}
	if updated.Notes != "contrôle" {
		t.Errorf("Notes = %q", updated.Notes)
	}
}

func TestUpdateValidatesFields(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local))
	svc := newAppointmentService(newFakeAppointmentRepo())
	ctx := context.Background()

	a, _ := svc.Create(ctx, submission())

	badPhone := "123"
	if _, err := svc.Update(ctx, a.ID, UpdateInput{Phone: &badPhone}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad phone: got %v", err)
	}
	badStatus := "pending"
	if _, err := svc.Update(ctx, a.ID, UpdateInput{Status: &badStatus}); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad status: got %v", err)
	}
	if _, err := svc.Update(ctx, 999, UpdateInput{}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("unknown id: got %v", err)
	}
}

func TestCleanupOldRemovesStaleCancellations(t *testing.T) {
	pinNow(t, time.Date(2026, 9, 15, 10, 0, 0, 0, time.Local))
	repo := newFakeAppointmentRepo()
	svc := newAppointmentService(repo)
	ctx := context.Background()

	old := submission()
	old.Date = "2026-01-10"
	old.Status = model.StatusCancelled
	// Seed directly: the write path refuses past dates.
	repo.items[1] = old
	old.ID = 1
	repo.nextID = 1

	recent, _ := svc.Create(ctx, submission())
	if _, err := svc.Cancel(ctx, recent.ID, ""); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	// Six months back from 2026-09-15 is 2026-03-15.
	removed, err := svc.CleanupOld(ctx, 6)
	if err != nil {
		t.Fatalf("CleanupOld: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if _, err := svc.Get(ctx, recent.ID); err != nil {
		t.Errorf("recent cancellation must survive: %v", err)
	}
}
