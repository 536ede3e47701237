package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kafala/backend/internal/model"
)

type pgNeedRepository struct {
	pool *pgxpool.Pool
}

// NewPgNeedRepository returns a PostgreSQL-backed NeedRepository.
func NewPgNeedRepository(pool *pgxpool.Pool) NeedRepository {
	return &pgNeedRepository{pool: pool}
}

func (r *pgNeedRepository) ListByCase(ctx context.Context, caseID string) ([]*model.MonthlyNeed, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, case_id, label, amount, sort_order, created_at, updated_at
		 FROM monthly_needs WHERE case_id = $1 ORDER BY sort_order`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var needs []*model.MonthlyNeed
	for rows.Next() {
		n := &model.MonthlyNeed{}
		if err := rows.Scan(&n.ID, &n.CaseID, &n.Label, &n.Amount,
			&n.SortOrder, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, err
		}
		needs = append(needs, n)
	}
	return needs, rows.Err()
}

// ReplaceAll deletes the case's existing needs, inserts the new list and
// updates cases.monthly_cost to the new total, all in one transaction.
func (r *pgNeedRepository) ReplaceAll(ctx context.Context, caseID string, needs []*model.MonthlyNeed) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM monthly_needs WHERE case_id=$1`, caseID); err != nil {
		return err
	}

	for i, n := range needs {
		n.CaseID = caseID
		n.SortOrder = i
		if err := tx.QueryRow(ctx,
			`INSERT INTO monthly_needs (case_id, label, amount, sort_order)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id, created_at, updated_at`,
			caseID, n.Label, n.Amount, i,
		).Scan(&n.ID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return err
		}
	}

	total := model.TotalMonthlyAmount(needs)
	if _, err := tx.Exec(ctx,
		`UPDATE cases SET monthly_cost=$1, updated_at=NOW() WHERE id=$2`,
		total, caseID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
