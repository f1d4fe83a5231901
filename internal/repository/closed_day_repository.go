package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

const closedDayColumns = `id, to_char(date_fermeture, 'YYYY-MM-DD'), raison, created_at`

type ClosedDayRepository struct {
	pool *pgxpool.Pool
}

func NewClosedDayRepository(pool *pgxpool.Pool) *ClosedDayRepository {
	return &ClosedDayRepository{pool: pool}
}

func scanClosedDay(row pgx.Row) (*model.ClosedDay, error) {
	var d model.ClosedDay
	if err := row.Scan(&d.ID, &d.Date, &d.Reason, &d.CreatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

// List returns every closed day, most recent first.
func (r *ClosedDayRepository) List(ctx context.Context) ([]*model.ClosedDay, error) {
	query := `SELECT ` + closedDayColumns + ` FROM closed_days ORDER BY date_fermeture DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list closed days: %w", err)
	}
	defer rows.Close()

	var out []*model.ClosedDay
	for rows.Next() {
		d, err := scanClosedDay(rows)
		if err != nil {
			return nil, fmt.Errorf("scan closed day: %w", err)
		}
		out = append(out, d)
	}

	return out, rows.Err()
}

// DatesBetween returns the closed dates inside [from, to] as YYYY-MM-DD
// strings, for the availability computation.
func (r *ClosedDayRepository) DatesBetween(ctx context.Context, from, to string) ([]string, error) {
	query := `
		SELECT to_char(date_fermeture, 'YYYY-MM-DD')
		FROM closed_days
		WHERE date_fermeture BETWEEN $1 AND $2
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list closed dates between: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan closed date: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// GetByDate returns nil when the date is not closed.
func (r *ClosedDayRepository) GetByDate(ctx context.Context, date string) (*model.ClosedDay, error) {
	query := `SELECT ` + closedDayColumns + ` FROM closed_days WHERE date_fermeture = $1`

	d, err := scanClosedDay(r.pool.QueryRow(ctx, query, date))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get closed day by date: %w", err)
	}

	return d, nil
}

func (r *ClosedDayRepository) Create(ctx context.Context, d *model.ClosedDay) error {
	query := `
		INSERT INTO closed_days (date_fermeture, raison)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, d.Date, d.Reason).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create closed day: %w", err)
	}

	return nil
}

func (r *ClosedDayRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM closed_days WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete closed day: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, "Jour de fermeture non trouvé")
	}

	return nil
}
