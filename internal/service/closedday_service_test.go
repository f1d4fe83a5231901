package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

func TestClosedDayAdd(t *testing.T) {
	svc := NewClosedDayService(newFakeClosedDayRepo(), zap.NewNop())
	ctx := context.Background()

	day, err := svc.Add(ctx, "2026-11-18", "Fête de l'indépendance")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if day.ID == 0 || day.Reason != "Fête de l'indépendance" {
		t.Errorf("got %+v", day)
	}

	if _, err := svc.Add(ctx, "2026-11-18", "doublon"); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate date: got %v, want conflict", err)
	}

	if _, err := svc.Add(ctx, "", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty date: got %v", err)
	}
	if _, err := svc.Add(ctx, "18/11/2026", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("bad format: got %v", err)
	}
}

func TestClosedDayAddDefaultReason(t *testing.T) {
	svc := NewClosedDayService(newFakeClosedDayRepo(), zap.NewNop())

	day, err := svc.Add(context.Background(), "2026-12-01", "")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if day.Reason != model.DefaultClosedReason {
		t.Errorf("Reason = %q, want %q", day.Reason, model.DefaultClosedReason)
	}
}

func TestClosedDayDelete(t *testing.T) {
	repo := newFakeClosedDayRepo()
	svc := NewClosedDayService(repo, zap.NewNop())
	ctx := context.Background()

	day, _ := svc.Add(ctx, "2026-12-01", "")
	if err := svc.Delete(ctx, day.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, day.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}
