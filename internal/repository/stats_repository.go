package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lyceetalmest/rdv-backend/internal/model"
)

// StatsRepository runs the read-only aggregate queries of the admin
// dashboard. It shares the appointments table with AppointmentRepository but
// never mutates it.
type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

func (r *StatsRepository) General(ctx context.Context) (model.GeneralStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE statut = 'confirmé'),
			COUNT(*) FILTER (WHERE statut = 'en_attente'),
			COUNT(*) FILTER (WHERE statut = 'annulé'),
			COUNT(*) FILTER (WHERE created_at::date = CURRENT_DATE)
		FROM appointments
	`

	var s model.GeneralStats
	err := r.pool.QueryRow(ctx, query).Scan(&s.Total, &s.Confirmed, &s.Pending, &s.Cancelled, &s.Today)
	if err != nil {
		return model.GeneralStats{}, fmt.Errorf("general stats: %w", err)
	}

	return s, nil
}

func (r *StatsRepository) CountByStatus(ctx context.Context) ([]model.StatusCount, error) {
	query := `SELECT statut, COUNT(*) FROM appointments GROUP BY statut`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	defer rows.Close()

	var out []model.StatusCount
	for rows.Next() {
		var c model.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *StatsRepository) CountByLevel(ctx context.Context, limit int) ([]model.LevelCount, error) {
	query := `
		SELECT niveau_scolaire, COUNT(*)
		FROM appointments
		GROUP BY niveau_scolaire
		ORDER BY COUNT(*) DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("stats by level: %w", err)
	}
	defer rows.Close()

	var out []model.LevelCount
	for rows.Next() {
		var c model.LevelCount
		if err := rows.Scan(&c.Level, &c.Count); err != nil {
			return nil, fmt.Errorf("scan level count: %w", err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *StatsRepository) CountBySex(ctx context.Context) ([]model.SexCount, error) {
	query := `SELECT sexe, COUNT(*) FROM appointments GROUP BY sexe`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stats by sex: %w", err)
	}
	defer rows.Close()

	var out []model.SexCount
	for rows.Next() {
		var c model.SexCount
		if err := rows.Scan(&c.Sex, &c.Count); err != nil {
			return nil, fmt.Errorf("scan sex count: %w", err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

// DailyCreated counts created appointments per day over the last N days.
func (r *StatsRepository) DailyCreated(ctx context.Context, days int) ([]model.DateCount, error) {
	query := `
		SELECT to_char(created_at::date, 'YYYY-MM-DD'), COUNT(*)
		FROM appointments
		WHERE created_at >= CURRENT_DATE - ($1::int)
		GROUP BY created_at::date
		ORDER BY created_at::date DESC
	`

	return r.dateCounts(ctx, query, days)
}

// UpcomingByDate counts active appointments per date from today through
// today+days.
func (r *StatsRepository) UpcomingByDate(ctx context.Context, days int) ([]model.DateCount, error) {
	query := `
		SELECT to_char(date_rdv, 'YYYY-MM-DD'), COUNT(*)
		FROM appointments
		WHERE date_rdv BETWEEN CURRENT_DATE AND CURRENT_DATE + ($1::int)
		AND statut IN ('confirmé', 'en_attente')
		GROUP BY date_rdv
		ORDER BY date_rdv ASC
	`

	return r.dateCounts(ctx, query, days)
}

// PopularSlots returns the most booked times of day across all statuses.
func (r *StatsRepository) PopularSlots(ctx context.Context, limit int) ([]model.SlotCount, error) {
	query := `
		SELECT to_char(heure_rdv, 'HH24:MI:SS'), COUNT(*)
		FROM appointments
		GROUP BY heure_rdv
		ORDER BY COUNT(*) DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("popular slots: %w", err)
	}
	defer rows.Close()

	var out []model.SlotCount
	for rows.Next() {
		var c model.SlotCount
		if err := rows.Scan(&c.Time, &c.Count); err != nil {
			return nil, fmt.Errorf("scan slot count: %w", err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}

func (r *StatsRepository) dateCounts(ctx context.Context, query string, days int) ([]model.DateCount, error) {
	rows, err := r.pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("date counts: %w", err)
	}
	defer rows.Close()

	var out []model.DateCount
	for rows.Next() {
		var c model.DateCount
		if err := rows.Scan(&c.Date, &c.Count); err != nil {
			return nil, fmt.Errorf("scan date count: %w", err)
		}
		out = append(out, c)
	}

	return out, rows.Err()
}
