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

type pgCaseRepository struct {
	pool *pgxpool.Pool
}

// NewPgCaseRepository returns a PostgreSQL-backed CaseRepository.
func NewPgCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &pgCaseRepository{pool: pool}
}

const caseSelectCols = `c.id, c.title_ar, COALESCE(c.title_en, ''),
	c.description_ar, COALESCE(c.description_en, ''), c.care_type,
	c.monthly_cost, c.months_needed, c.months_covered, c.target_amount,
	c.zakat_eligible, c.published, c.min_custom_amount, c.allow_monthly,
	c.allow_custom, COALESCE(c.contact_phone, ''), COALESCE(c.image_url, ''),
	COALESCE(c.created_by, ''), c.created_at, c.updated_at`

// Per-case money aggregates, recomputed on every fetch. Confirmed includes
// legacy redeemed donations; the handover sum follows the donation (funds
// disbursed out of this case's donations, wherever they were redirected).
const caseAggCols = `
	COALESCE((SELECT SUM(d.amount) FROM donations d
		WHERE d.case_id = c.id AND d.status IN ('confirmed', 'redeemed')), 0)::int,
	COALESCE((SELECT SUM(d.amount) FROM donations d
		WHERE d.case_id = c.id AND d.status = 'redeemed'), 0)::int,
	COALESCE((SELECT SUM(h.handover_amount) FROM donation_handovers h
		JOIN donations d ON h.donation_id = d.id
		WHERE d.case_id = c.id), 0)::int`

func scanCase(scan func(...any) error) (*model.Case, error) {
	c := &model.Case{Financials: &model.CaseFinancials{}}
	f := c.Financials
	err := scan(
		&c.ID, &c.TitleAr, &c.TitleEn, &c.DescriptionAr, &c.DescriptionEn,
		&c.CareType, &c.MonthlyCost, &c.MonthsNeeded, &c.MonthsCovered,
		&c.TargetAmount, &c.ZakatEligible, &c.Published, &c.MinCustomAmount,
		&c.AllowMonthly, &c.AllowCustom, &c.ContactPhone, &c.ImageURL,
		&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
		&f.ConfirmedAmount, &f.RedeemedAmount, &f.HandoverAmount,
	)
	if err != nil {
		return nil, err
	}
	f.RemainingAmount = f.ConfirmedAmount - (f.RedeemedAmount + f.HandoverAmount)
	f.TotalSecured = f.ConfirmedAmount
	f.ProgressPercent = c.ProgressPercent(f.TotalSecured)
	return c, nil
}

func (r *pgCaseRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Case, error) {
	query := `SELECT ` + caseSelectCols + `, ` + caseAggCols + ` FROM cases c`
	if publishedOnly {
		query += ` WHERE c.published`
	}
	query += ` ORDER BY c.created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.Case
	for rows.Next() {
		c, err := scanCase(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *pgCaseRepository) GetByID(ctx context.Context, id string) (*model.Case, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+caseSelectCols+`, `+caseAggCols+` FROM cases c WHERE c.id = $1`, id)
	c, err := scanCase(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *pgCaseRepository) FindByPhone(ctx context.Context, phone string) (*model.Case, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+caseSelectCols+`, `+caseAggCols+` FROM cases c WHERE c.contact_phone = $1`, phone)
	c, err := scanCase(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *pgCaseRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM cases ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *pgCaseRepository) Create(ctx context.Context, c *model.Case) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO cases
		 (title_ar, title_en, description_ar, description_en, care_type,
		  monthly_cost, months_needed, months_covered, target_amount,
		  zakat_eligible, published, min_custom_amount, allow_monthly,
		  allow_custom, contact_phone, created_by)
		 VALUES ($1, NULLIF($2,''), $3, NULLIF($4,''), $5, $6, $7, $8, $9,
		         $10, $11, $12, $13, $14, NULLIF($15,''), NULLIF($16,''))
		 RETURNING id, created_at, updated_at`,
		c.TitleAr, c.TitleEn, c.DescriptionAr, c.DescriptionEn, c.CareType,
		c.MonthlyCost, c.MonthsNeeded, c.MonthsCovered, c.TargetAmount,
		c.ZakatEligible, c.Published, c.MinCustomAmount, c.AllowMonthly,
		c.AllowCustom, c.ContactPhone, c.CreatedBy,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *pgCaseRepository) Update(ctx context.Context, c *model.Case) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cases SET
		 title_ar=$1, title_en=NULLIF($2,''), description_ar=$3,
		 description_en=NULLIF($4,''), care_type=$5, monthly_cost=$6,
		 months_needed=$7, months_covered=$8, target_amount=$9,
		 zakat_eligible=$10, published=$11, min_custom_amount=$12,
		 allow_monthly=$13, allow_custom=$14, contact_phone=NULLIF($15,''),
		 updated_at=NOW()
		 WHERE id=$16`,
		c.TitleAr, c.TitleEn, c.DescriptionAr, c.DescriptionEn, c.CareType,
		c.MonthlyCost, c.MonthsNeeded, c.MonthsCovered, c.TargetAmount,
		c.ZakatEligible, c.Published, c.MinCustomAmount, c.AllowMonthly,
		c.AllowCustom, c.ContactPhone, c.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgCaseRepository) Patch(ctx context.Context, id string, patch model.CasePatch) error {
	if patch.Published == nil && patch.CareType == nil && patch.MonthsCovered == nil {
		return nil
	}

	setClauses := []string{}
	args := []any{}
	argIdx := 1

	if patch.Published != nil {
		setClauses = append(setClauses, fmt.Sprintf("published = $%d", argIdx))
		args = append(args, *patch.Published)
		argIdx++
	}
	if patch.CareType != nil {
		setClauses = append(setClauses, fmt.Sprintf("care_type = $%d", argIdx))
		args = append(args, *patch.CareType)
		argIdx++
	}
	if patch.MonthsCovered != nil {
		setClauses = append(setClauses, fmt.Sprintf("months_covered = $%d", argIdx))
		args = append(args, *patch.MonthsCovered)
		argIdx++
	}

	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf("UPDATE cases SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argIdx)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgCaseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgCaseRepository) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cases SET image_url = NULLIF($1,''), updated_at = NOW() WHERE id = $2`,
		imageURL, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
