package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lyceetalmest/rdv-backend/internal/apperr"
	"github.com/lyceetalmest/rdv-backend/internal/model"
)

const slotColumns = `id, to_char(heure_debut, 'HH24:MI:SS'), to_char(heure_fin, 'HH24:MI:SS'), actif, created_at`

type SlotRepository struct {
	pool *pgxpool.Pool
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{pool: pool}
}

func scanSlot(row pgx.Row) (*model.TimeSlot, error) {
	var s model.TimeSlot
	if err := row.Scan(&s.ID, &s.Start, &s.End, &s.Active, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns every slot, active or not, ordered by start time.
func (r *SlotRepository) List(ctx context.Context) ([]*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots ORDER BY heure_debut ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

// ListActive returns the bookable slots ordered by start time.
func (r *SlotRepository) ListActive(ctx context.Context) ([]*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE actif = TRUE ORDER BY heure_debut ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active time slots: %w", err)
	}
	defer rows.Close()

	return collectSlots(rows)
}

// GetByID returns nil when the id is unknown.
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM time_slots WHERE id = $1`

	s, err := scanSlot(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get time slot by id: %w", err)
	}

	return s, nil
}

func (r *SlotRepository) Create(ctx context.Context, s *model.TimeSlot) error {
	query := `
		INSERT INTO time_slots (heure_debut, heure_fin, actif)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, s.Start, s.End, s.Active).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create time slot: %w", err)
	}

	return nil
}

func (r *SlotRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.pool.Exec(ctx, `UPDATE time_slots SET actif = $1 WHERE id = $2`, active, id)
	if err != nil {
		return fmt.Errorf("toggle time slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, "Créneau horaire non trouvé")
	}

	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete time slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.New(apperr.ErrNotFound, "Créneau horaire non trouvé")
	}

	return nil
}

func collectSlots(rows pgx.Rows) ([]*model.TimeSlot, error) {
	var out []*model.TimeSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan time slot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
