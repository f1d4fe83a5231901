package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

const appointmentColumns = `id, nom, prenom, sexe, adresse, telephone, niveau_scolaire,
		to_char(date_rdv, 'YYYY-MM-DD'), to_char(heure_rdv, 'HH24:MI:SS'),
		statut, notes, created_at, updated_at`

type AppointmentRepository struct {
	pool *pgxpool.Pool
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{pool: pool}
}

func scanAppointment(row pgx.Row) (*model.Appointment, error) {
	var a model.Appointment
	err := row.Scan(
		&a.ID,
		&a.LastName,
		&a.FirstName,
		&a.Sex,
		&a.Address,
		&a.Phone,
		&a.SchoolLevel,
		&a.Date,
		&a.Time,
		&a.Status,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// isActiveSlotTaken reports whether err is a violation of the partial unique
// index over active appointments. That index, not the application pre-check,
// is what serializes two concurrent submissions for the same slot.
func isActiveSlotTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create inserts a pending appointment and fills in the generated fields.
// A unique-index violation on (date_rdv, heure_rdv) comes back as a conflict.
func (r *AppointmentRepository) Create(ctx context.Context, a *model.Appointment) error {
	query := `
		INSERT INTO appointments (nom, prenom, sexe, adresse, telephone, niveau_scolaire, date_rdv, heure_rdv, statut, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		a.LastName,
		a.FirstName,
		a.Sex,
		a.Address,
		a.Phone,
		a.SchoolLevel,
		a.Date,
		a.Time,
		a.Status,
		a.Notes,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		if isActiveSlotTaken(err) {
			return apperr.New(apperr.ErrConflict, "Ce créneau horaire n'est plus disponible")
		}
		return fmt.Errorf("create appointment: %w", err)
	}

	return nil
}

// GetByID returns nil when the id is unknown.
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return a, nil
}

// Update writes every mutable column and refreshes updated_at. Moving an
// active appointment onto an occupied slot violates the same unique index as
// Create and is reported as a conflict.
func (r *AppointmentRepository) Update(ctx context.Context, a *model.Appointment) error {
	query := `
		UPDATE appointments SET
			nom = $1, prenom = $2, sexe = $3, adresse = $4, telephone = $5,
			niveau_scolaire = $6, date_rdv = $7, heure_rdv = $8,
			statut = $9, notes = $10, updated_at = NOW()
		WHERE id = $11
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		a.LastName,
		a.FirstName,
		a.Sex,
		a.Address,
		a.Phone,
		a.SchoolLevel,
		a.Date,
		a.Time,
		a.Status,
		a.Notes,
		a.ID,
	).Scan(&a.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return apperr.New(apperr.ErrNotFound, "Rendez-vous non trouvé")
		}
		if isActiveSlotTaken(err) {
			return apperr.New(apperr.ErrConflict, "Ce créneau horaire est déjà occupé")
		}
		return fmt.Errorf("update appointment: %w", err)
	}

	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, "Rendez-vous non trouvé")
	}

	return nil
}

// buildFilter turns the admin filters into a WHERE clause with numbered
// placeholders starting at $1.
func buildFilter(f model.AppointmentFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if f.Date != "" {
		args = append(args, f.Date)
		conditions = append(conditions, fmt.Sprintf("date_rdv = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conditions = append(conditions, fmt.Sprintf("statut = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(nom ILIKE $%d OR prenom ILIKE $%d OR telephone ILIKE $%d)", n, n, n))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// Find lists appointments matching the filter, newest booking first.
func (r *AppointmentRepository) Find(ctx context.Context, f model.AppointmentFilter) ([]*model.Appointment, error) {
	where, args := buildFilter(f)

	query := `SELECT ` + appointmentColumns + ` FROM appointments` + where +
		` ORDER BY date_rdv DESC, heure_rdv DESC, created_at DESC`

	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// Count returns the total number of rows matching the filter, for pagination.
func (r *AppointmentRepository) Count(ctx context.Context, f model.AppointmentFilter) (int64, error) {
	where, args := buildFilter(f)

	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointments`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}

	return total, nil
}

// ListByDate returns every appointment of a date, ordered by time of day.
func (r *AppointmentRepository) ListByDate(ctx context.Context, date string) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE date_rdv = $1 ORDER BY heure_rdv ASC`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list appointments by date: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// ListBetween returns appointments with date_rdv in [from, to], ordered for
// report output.
func (r *AppointmentRepository) ListBetween(ctx context.Context, from, to string) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE date_rdv BETWEEN $1 AND $2
		ORDER BY date_rdv ASC, heure_rdv ASC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list appointments between: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// ListUpcoming returns active appointments from today through today+days.
func (r *AppointmentRepository) ListUpcoming(ctx context.Context, days int) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE date_rdv BETWEEN CURRENT_DATE AND CURRENT_DATE + ($1::int)
		AND statut IN ('confirmé', 'en_attente')
		ORDER BY date_rdv ASC, heure_rdv ASC`

	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}
	defer rows.Close()

	return collectAppointments(rows)
}

// ActiveStartTimes returns the booked start times of a date, for the
// availability computation. Cancelled appointments do not occupy a slot.
func (r *AppointmentRepository) ActiveStartTimes(ctx context.Context, date string) ([]string, error) {
	query := `
		SELECT to_char(heure_rdv, 'HH24:MI:SS')
		FROM appointments
		WHERE date_rdv = $1 AND statut IN ('confirmé', 'en_attente')
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan booked time: %w", err)
		}
		times = append(times, t)
	}

	return times, rows.Err()
}

// CountActiveAt counts active appointments occupying an exact (date, time)
// slot. excludeID skips the appointment being edited; 0 excludes nothing.
func (r *AppointmentRepository) CountActiveAt(ctx context.Context, date, timeOfDay string, excludeID int64) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE date_rdv = $1 AND heure_rdv = $2 AND statut IN ('confirmé', 'en_attente') AND id != $3
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, date, timeOfDay, excludeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active at slot: %w", err)
	}

	return count, nil
}

// CountActiveAtTime counts active appointments booked at a time of day on any
// date, used to guard time-slot deletion.
func (r *AppointmentRepository) CountActiveAtTime(ctx context.Context, timeOfDay string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM appointments
		WHERE heure_rdv = $1 AND statut IN ('confirmé', 'en_attente')
	`

	var count int64
	if err := r.pool.QueryRow(ctx, query, timeOfDay).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active at time: %w", err)
	}

	return count, nil
}

// DeleteCancelledBefore removes cancelled appointments older than the cutoff
// date and returns how many were removed.
func (r *AppointmentRepository) DeleteCancelledBefore(ctx context.Context, cutoffDate string) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM appointments WHERE date_rdv < $1 AND statut = 'annulé'`, cutoffDate)
	if err != nil {
		return 0, fmt.Errorf("delete old cancelled appointments: %w", err)
	}

	return result.RowsAffected(), nil
}

func collectAppointments(rows pgx.Rows) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
