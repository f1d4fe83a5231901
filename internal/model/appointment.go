package model

import (
	"regexp"
	"strings"
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "en_attente"
	StatusConfirmed AppointmentStatus = "confirmé"
	StatusCancelled AppointmentStatus = "annulé"
)

// IsActive reports whether the status counts toward slot occupancy.
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s AppointmentStatus) Valid() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCancelled
}

// Sex values as submitted by the registration form.
const (
	SexMale   = "ذكر"
	SexFemale = "أنثى"
)

// Moroccan mobile numbers: +212 or 0 prefix, then 5/6/7.
var phoneRegexp = regexp.MustCompile(`^(\+212|0)[5-7][0-9]{8}$`)

// ValidPhone checks a Moroccan mobile number, ignoring whitespace.
func ValidPhone(phone string) bool {
	return phoneRegexp.MatchString(strings.ReplaceAll(phone, " ", ""))
}

type Appointment struct {
	ID          int64             `json:"id"`
	LastName    string            `json:"nom"`
	FirstName   string            `json:"prenom"`
	Sex         string            `json:"sexe"`
	Address     string            `json:"adresse"`
	Phone       string            `json:"telephone"`
	SchoolLevel string            `json:"niveau_scolaire"`
	Date        string            `json:"date_rdv"`
	Time        string            `json:"heure_rdv"`
	Status      AppointmentStatus `json:"statut"`
	Notes       string            `json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Validate checks every field of a submission and returns the list of
// user-facing problems, empty when the appointment is acceptable.
func (a *Appointment) Validate() []string {
	var errs []string

	if len(strings.TrimSpace(a.LastName)) < 2 {
		errs = append(errs, "Le nom doit contenir au moins 2 caractères")
	}
	if len(strings.TrimSpace(a.FirstName)) < 2 {
		errs = append(errs, "Le prénom doit contenir au moins 2 caractères")
	}
	if a.Sex != SexMale && a.Sex != SexFemale {
		errs = append(errs, "Le sexe doit être \"ذكر\" ou \"أنثى\"")
	}
	if len(strings.TrimSpace(a.Address)) < 10 {
		errs = append(errs, "L'adresse doit contenir au moins 10 caractères")
	}
	if a.Phone == "" {
		errs = append(errs, "Le numéro de téléphone est requis")
	} else if !ValidPhone(a.Phone) {
		errs = append(errs, "Format de numéro de téléphone marocain invalide")
	}
	if strings.TrimSpace(a.SchoolLevel) == "" {
		errs = append(errs, "Le niveau scolaire est requis")
	}
	if a.Date == "" {
		errs = append(errs, "La date du rendez-vous est requise")
	} else if !ValidDate(a.Date) {
		errs = append(errs, "Format de date invalide")
	}
	if a.Time == "" {
		errs = append(errs, "L'heure du rendez-vous est requise")
	} else if !ValidTime(a.Time) {
		errs = append(errs, "Format d'heure invalide")
	}
	if !a.Status.Valid() {
		errs = append(errs, "Statut invalide")
	}

	return errs
}

// AppointmentView is an appointment plus the display fields the frontend
// renders directly.
type AppointmentView struct {
	Appointment
	DateFormatted    string `json:"date_formatted"`
	HeureFormatted   string `json:"heure_formatted"`
	CreatedFormatted string `json:"created_formatted"`
	UpdatedFormatted string `json:"updated_formatted,omitempty"`
	FullName         string `json:"nom_complet"`
}

func (a Appointment) View() AppointmentView {
	v := AppointmentView{
		Appointment:    a,
		DateFormatted:  FormatDateFR(a.Date),
		HeureFormatted: FormatTimeShort(a.Time),
		FullName:       strings.TrimSpace(a.FirstName + " " + a.LastName),
	}
	if !a.CreatedAt.IsZero() {
		v.CreatedFormatted = FormatTimestampFR(a.CreatedAt)
	}
	if !a.UpdatedAt.IsZero() {
		v.UpdatedFormatted = FormatTimestampFR(a.UpdatedAt)
	}
	return v
}
