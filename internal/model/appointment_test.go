package model

import (
	"strings"
	"testing"
	"time"
)

func validAppointment() Appointment {
	return Appointment{
		LastName:    "El Amrani",
		FirstName:   "Youssef",
		Sex:         SexMale,
		Address:     "12 Rue des Écoles, Talmest",
		Phone:       "0612345678",
		SchoolLevel: "التانية باك",
		Date:        "2026-09-15",
		Time:        "09:00:00",
		Status:      StatusPending,
	}
}

func TestValidateAcceptsCompleteSubmission(t *testing.T) {
	a := validAppointment()
	if errs := a.Validate(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Appointment)
		want   string
	}{
		{"short last name", func(a *Appointment) { a.LastName = "A" }, "nom"},
		{"short first name", func(a *Appointment) { a.FirstName = " B " }, "prénom"},
		{"unknown sex", func(a *Appointment) { a.Sex = "autre" }, "sexe"},
		{"short address", func(a *Appointment) { a.Address = "court" }, "adresse"},
		{"missing phone", func(a *Appointment) { a.Phone = "" }, "téléphone est requis"},
		{"bad phone", func(a *Appointment) { a.Phone = "0412345678" }, "téléphone"},
		{"missing level", func(a *Appointment) { a.SchoolLevel = "  " }, "niveau scolaire"},
		{"bad date", func(a *Appointment) { a.Date = "15/09/2026" }, "date"},
		{"bad time", func(a *Appointment) { a.Time = "9h30" }, "heure"},
		{"bad status", func(a *Appointment) { a.Status = "pending" }, "Statut"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAppointment()
			tc.mutate(&a)
			errs := a.Validate()
			if len(errs) == 0 {
				t.Fatalf("expected a validation error")
			}
			found := false
			for _, e := range errs {
				if strings.Contains(e, tc.want) {
					found = true
				}
			}
			if !found {
				t.Errorf("no error mentioning %q in %v", tc.want, errs)
			}
		})
	}
}

func TestValidPhone(t *testing.T) {
	valid := []string{"0612345678", "0512345678", "0712345678", "+212612345678", "06 12 34 56 78"}
	for _, p := range valid {
		if !ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = false, want true", p)
		}
	}

	invalid := []string{"0412345678", "061234567", "06123456789", "+33612345678", "abcdefghij", ""}
	for _, p := range invalid {
		if ValidPhone(p) {
			t.Errorf("ValidPhone(%q) = true, want false", p)
		}
	}
}

func TestStatusIsActive(t *testing.T) {
	if !StatusPending.IsActive() || !StatusConfirmed.IsActive() {
		t.Error("pending and confirmed must count as active")
	}
	if StatusCancelled.IsActive() {
		t.Error("cancelled must not count as active")
	}
	if AppointmentStatus("inconnu").Valid() {
		t.Error("unknown status must be invalid")
	}
}

func TestAppointmentView(t *testing.T) {
	a := validAppointment()
	a.CreatedAt = time.Date(2026, 9, 1, 14, 30, 0, 0, time.Local)

	v := a.View()
	if v.DateFormatted != "15/09/2026" {
		t.Errorf("DateFormatted = %q, want 15/09/2026", v.DateFormatted)
	}
	if v.HeureFormatted != "09:00" {
		t.Errorf("HeureFormatted = %q, want 09:00", v.HeureFormatted)
	}
	if v.FullName != "Youssef El Amrani" {
		t.Errorf("FullName = %q", v.FullName)
	}
	if v.CreatedFormatted != "01/09/2026 à 14:30" {
		t.Errorf("CreatedFormatted = %q", v.CreatedFormatted)
	}
	if v.UpdatedFormatted != "" {
		t.Errorf("UpdatedFormatted should be empty for zero UpdatedAt, got %q", v.UpdatedFormatted)
	}
}
