package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kafala/backend/internal/model"
)

type pgHandoverRepository struct {
	pool *pgxpool.Pool
}

// NewPgHandoverRepository returns a PostgreSQL-backed HandoverRepository.
func NewPgHandoverRepository(pool *pgxpool.Pool) HandoverRepository {
	return &pgHandoverRepository{pool: pool}
}

const handoverSelectCols = `h.id, h.donation_id, h.case_id, h.handover_amount,
	h.handover_date, COALESCE(h.notes, ''), COALESCE(h.created_by, ''),
	h.created_at, COALESCE(c.title_ar, ''), COALESCE(d.payment_code, '')`

const handoverFromJoin = ` FROM donation_handovers h
	LEFT JOIN cases c ON h.case_id = c.id
	LEFT JOIN donations d ON h.donation_id = d.id`

func scanHandover(scan func(...any) error) (*model.Handover, error) {
	h := &model.Handover{}
	return h, scan(
		&h.ID, &h.DonationID, &h.CaseID, &h.Amount, &h.HandoverDate,
		&h.Notes, &h.CreatedBy, &h.CreatedAt, &h.CaseTitle, &h.PaymentCode,
	)
}

func (r *pgHandoverRepository) Record(ctx context.Context, h *model.Handover, report *model.MonthlyReport) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Lock the donation row so two admins cannot race past the remaining
	// balance check with a stale read.
	var status string
	var amount, total int
	err = tx.QueryRow(ctx,
		`SELECT status, amount, total_handed_over FROM donations
		 WHERE id = $1 FOR UPDATE`, h.DonationID,
	).Scan(&status, &amount, &total)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != model.DonationStatusConfirmed {
		return ErrNotConfirmed
	}
	if h.Amount <= 0 || h.Amount > amount-total {
		return ErrExceedsRemaining
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO donation_handovers
		 (donation_id, case_id, handover_amount, handover_date, notes, created_by)
		 VALUES ($1, $2, $3, $4, NULLIF($5,''), NULLIF($6,''))
		 RETURNING id, created_at`,
		h.DonationID, h.CaseID, h.Amount, h.HandoverDate, h.Notes, h.CreatedBy,
	).Scan(&h.ID, &h.CreatedAt); err != nil {
		return err
	}

	newTotal := total + h.Amount
	if _, err := tx.Exec(ctx,
		`UPDATE donations SET
		 total_handed_over = $1, handover_status = $2, updated_at = NOW()
		 WHERE id = $3`,
		newTotal, model.DeriveHandoverStatus(newTotal, amount), h.DonationID,
	); err != nil {
		return err
	}

	if report != nil {
		if err := upsertMonthlyReport(ctx, tx, report); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// upsertMonthlyReport inserts a report for (case_id, month) or, when one
// already exists, appends the new images to its image list.
func upsertMonthlyReport(ctx context.Context, tx pgx.Tx, rep *model.MonthlyReport) error {
	var existingID string
	err := tx.QueryRow(ctx,
		`SELECT id FROM monthly_reports WHERE case_id = $1 AND month = $2`,
		rep.CaseID, rep.Month,
	).Scan(&existingID)

	if errors.Is(err, pgx.ErrNoRows) {
		return tx.QueryRow(ctx,
			`INSERT INTO monthly_reports (case_id, month, title, body, images, created_by)
			 VALUES ($1, $2, NULLIF($3,''), $4, $5, NULLIF($6,''))
			 RETURNING id, created_at, updated_at`,
			rep.CaseID, rep.Month, rep.Title, rep.Body, rep.Images, rep.CreatedBy,
		).Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt)
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE monthly_reports
		 SET images = images || $1::text[], updated_at = NOW()
		 WHERE id = $2`,
		rep.Images, existingID)
	rep.ID = existingID
	return err
}

func (r *pgHandoverRepository) ListByDonation(ctx context.Context, donationID string) ([]*model.Handover, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+handoverSelectCols+handoverFromJoin+`
		 WHERE h.donation_id = $1
		 ORDER BY h.handover_date DESC, h.created_at DESC`, donationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHandovers(rows)
}

func (r *pgHandoverRepository) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Handover, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+handoverSelectCols+handoverFromJoin+`
		 WHERE h.case_id = $1
		 ORDER BY h.handover_date DESC, h.created_at DESC
		 LIMIT $2 OFFSET $3`, caseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHandovers(rows)
}

func (r *pgHandoverRepository) ListByMonth(ctx context.Context, year, month int) ([]*model.Handover, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+handoverSelectCols+handoverFromJoin+`
		 WHERE DATE_TRUNC('month', h.handover_date) = MAKE_DATE($1, $2, 1)
		 ORDER BY h.handover_date, h.created_at`, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectHandovers(rows)
}

func (r *pgHandoverRepository) MonthlySums(ctx context.Context) ([]*model.HandoverMonthSum, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT TO_CHAR(DATE_TRUNC('month', handover_date), 'YYYY-MM') AS month,
		        SUM(handover_amount)::int, COUNT(*)::int
		 FROM donation_handovers
		 WHERE handover_date >= DATE_TRUNC('month', NOW()) - INTERVAL '11 months'
		 GROUP BY DATE_TRUNC('month', handover_date)
		 ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sums []*model.HandoverMonthSum
	for rows.Next() {
		s := &model.HandoverMonthSum{}
		if err := rows.Scan(&s.Month, &s.Amount, &s.Count); err != nil {
			return nil, err
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}

func collectHandovers(rows pgx.Rows) ([]*model.Handover, error) {
	var list []*model.Handover
	for rows.Next() {
		h, err := scanHandover(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, h)
	}
	return list, rows.Err()
}
