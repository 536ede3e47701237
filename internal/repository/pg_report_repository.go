package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kafala/backend/internal/model"
)

type pgReportRepository struct {
	pool *pgxpool.Pool
}

// NewPgReportRepository returns a PostgreSQL-backed ReportRepository.
func NewPgReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &pgReportRepository{pool: pool}
}

const reportSelectCols = `id, case_id, month, COALESCE(title, ''), body,
	images, COALESCE(created_by, ''), created_at, updated_at`

func scanReport(scan func(...any) error) (*model.MonthlyReport, error) {
	rep := &model.MonthlyReport{}
	err := scan(
		&rep.ID, &rep.CaseID, &rep.Month, &rep.Title, &rep.Body,
		&rep.Images, &rep.CreatedBy, &rep.CreatedAt, &rep.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rep.Images == nil {
		rep.Images = []string{}
	}
	return rep, nil
}

func (r *pgReportRepository) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.MonthlyReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reportSelectCols+` FROM monthly_reports
		 WHERE case_id = $1 ORDER BY month DESC
		 LIMIT $2 OFFSET $3`, caseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.MonthlyReport
	for rows.Next() {
		rep, err := scanReport(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

func (r *pgReportRepository) GetByID(ctx context.Context, id string) (*model.MonthlyReport, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+reportSelectCols+` FROM monthly_reports WHERE id = $1`, id)
	rep, err := scanReport(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rep, err
}

func (r *pgReportRepository) GetByCaseMonth(ctx context.Context, caseID, month string) (*model.MonthlyReport, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+reportSelectCols+` FROM monthly_reports
		 WHERE case_id = $1 AND month = $2`, caseID, month)
	rep, err := scanReport(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rep, err
}

func (r *pgReportRepository) Create(ctx context.Context, rep *model.MonthlyReport) error {
	if rep.Images == nil {
		rep.Images = []string{}
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO monthly_reports (case_id, month, title, body, images, created_by)
		 VALUES ($1, $2, NULLIF($3,''), $4, $5, NULLIF($6,''))
		 RETURNING id, created_at, updated_at`,
		rep.CaseID, rep.Month, rep.Title, rep.Body, rep.Images, rep.CreatedBy,
	).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func (r *pgReportRepository) Update(ctx context.Context, rep *model.MonthlyReport) error {
	if rep.Images == nil {
		rep.Images = []string{}
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE monthly_reports SET
		 title = NULLIF($1,''), body = $2, images = $3, updated_at = NOW()
		 WHERE id = $4`,
		rep.Title, rep.Body, rep.Images, rep.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgReportRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM monthly_reports WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
