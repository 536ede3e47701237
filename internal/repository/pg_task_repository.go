package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kafala/backend/internal/model"
)

type pgTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPgTaskRepository returns a PostgreSQL-backed TaskRepository.
func NewPgTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &pgTaskRepository{pool: pool}
}

const taskSelectCols = `id, case_id, title, COALESCE(notes, ''), priority,
	status, due_date, COALESCE(created_by, ''), COALESCE(completed_by, ''),
	completed_at, created_at, updated_at`

func scanTask(scan func(...any) error) (*model.CaseTask, error) {
	t := &model.CaseTask{}
	return t, scan(
		&t.ID, &t.CaseID, &t.Title, &t.Notes, &t.Priority, &t.Status,
		&t.DueDate, &t.CreatedBy, &t.CompletedBy, &t.CompletedAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *pgTaskRepository) ListByCase(ctx context.Context, caseID string) ([]*model.CaseTask, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskSelectCols+` FROM case_tasks
		 WHERE case_id = $1 ORDER BY created_at DESC`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *pgTaskRepository) ListPending(ctx context.Context, limit, offset int) ([]*model.CaseTask, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+taskSelectCols+` FROM case_tasks
		 WHERE status = 'pending'
		 ORDER BY CASE priority
		   WHEN 'urgent' THEN 0 WHEN 'high' THEN 1
		   WHEN 'medium' THEN 2 ELSE 3 END,
		   due_date NULLS LAST, created_at
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (r *pgTaskRepository) GetByID(ctx context.Context, id string) (*model.CaseTask, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+taskSelectCols+` FROM case_tasks WHERE id = $1`, id)
	t, err := scanTask(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

func (r *pgTaskRepository) Create(ctx context.Context, t *model.CaseTask) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO case_tasks
		 (case_id, title, notes, priority, status, due_date, created_by)
		 VALUES ($1, $2, NULLIF($3,''), $4, 'pending', $5, NULLIF($6,''))
		 RETURNING id, status, created_at, updated_at`,
		t.CaseID, t.Title, t.Notes, t.Priority, t.DueDate, t.CreatedBy,
	).Scan(&t.ID, &t.Status, &t.CreatedAt, &t.UpdatedAt)
}

func (r *pgTaskRepository) SetStatus(ctx context.Context, id, status, adminID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE case_tasks SET
		 status = $1, completed_by = NULLIF($2,''), completed_at = NOW(),
		 updated_at = NOW()
		 WHERE id = $3 AND status = 'pending'`,
		status, adminID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgTaskRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM case_tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectTasks(rows pgx.Rows) ([]*model.CaseTask, error) {
	var list []*model.CaseTask
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
