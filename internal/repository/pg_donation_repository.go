package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kafala/backend/internal/model"
)

type pgDonationRepository struct {
	pool *pgxpool.Pool
}

// NewPgDonationRepository returns a PostgreSQL-backed DonationRepository.
func NewPgDonationRepository(pool *pgxpool.Pool) DonationRepository {
	return &pgDonationRepository{pool: pool}
}

const donationSelectCols = `id, case_id, COALESCE(donor_name, ''),
	COALESCE(donor_phone, ''), amount, donation_type, months_pledged, status,
	payment_code, COALESCE(payment_reference, ''), COALESCE(admin_notes, ''),
	COALESCE(confirmed_by, ''), confirmed_at, total_handed_over,
	handover_status, created_at, updated_at`

func scanDonation(scan func(...any) error) (*model.Donation, error) {
	d := &model.Donation{}
	return d, scan(
		&d.ID, &d.CaseID, &d.DonorName, &d.DonorPhone,
		&d.Amount, &d.DonationType, &d.MonthsPledged, &d.Status,
		&d.PaymentCode, &d.PaymentReference, &d.AdminNotes,
		&d.ConfirmedBy, &d.ConfirmedAt, &d.TotalHandedOver,
		&d.HandoverStatus, &d.CreatedAt, &d.UpdatedAt,
	)
}

func (r *pgDonationRepository) Create(ctx context.Context, d *model.Donation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO donations
		 (case_id, donor_name, donor_phone, amount, donation_type,
		  months_pledged, status, payment_code)
		 VALUES ($1, NULLIF($2,''), NULLIF($3,''), $4, $5, $6, 'pending', $7)
		 RETURNING id, status, total_handed_over, handover_status, created_at, updated_at`,
		d.CaseID, d.DonorName, d.DonorPhone, d.Amount, d.DonationType,
		d.MonthsPledged, d.PaymentCode,
	).Scan(&d.ID, &d.Status, &d.TotalHandedOver, &d.HandoverStatus, &d.CreatedAt, &d.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func (r *pgDonationRepository) GetByID(ctx context.Context, id string) (*model.Donation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+donationSelectCols+` FROM donations WHERE id = $1`, id)
	d, err := scanDonation(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (r *pgDonationRepository) GetByPaymentCode(ctx context.Context, code string) (*model.Donation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+donationSelectCols+` FROM donations WHERE payment_code = $1`, code)
	d, err := scanDonation(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return d, err
}

func (r *pgDonationRepository) List(ctx context.Context, status, caseID string, limit, offset int) ([]*model.Donation, error) {
	query := `SELECT ` + donationSelectCols + ` FROM donations`
	where := []string{}
	args := []any{}
	argIdx := 1

	if status != "" {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, status)
		argIdx++
	}
	if caseID != "" {
		where = append(where, fmt.Sprintf("case_id = $%d", argIdx))
		args = append(args, caseID)
		argIdx++
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Donation
	for rows.Next() {
		d, err := scanDonation(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *pgDonationRepository) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Donation, error) {
	return r.List(ctx, "", caseID, limit, offset)
}

func (r *pgDonationRepository) UpdateStatus(ctx context.Context, id string, upd DonationStatusUpdate, fromStatuses ...string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE donations SET
		 status = $1,
		 payment_reference = COALESCE(NULLIF($2,''), payment_reference),
		 admin_notes = COALESCE(NULLIF($3,''), admin_notes),
		 confirmed_by = COALESCE(NULLIF($4,''), confirmed_by),
		 confirmed_at = COALESCE($5, confirmed_at),
		 updated_at = NOW()
		 WHERE id = $6 AND status = ANY($7)`,
		upd.Status, upd.PaymentReference, upd.AdminNotes,
		upd.ConfirmedBy, upd.ConfirmedAt, id, fromStatuses,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Redeem is the legacy full-amount disbursement: status flips to redeemed
// and the derived totals are forced to the full amount in one statement.
func (r *pgDonationRepository) Redeem(ctx context.Context, id, adminID, notes string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE donations SET
		 status = 'redeemed',
		 total_handed_over = amount,
		 handover_status = 'full',
		 admin_notes = COALESCE(NULLIF($1,''), admin_notes),
		 confirmed_by = COALESCE(NULLIF($2,''), confirmed_by),
		 updated_at = NOW()
		 WHERE id = $3 AND status = 'confirmed'`,
		notes, adminID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
