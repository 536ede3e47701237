package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kafala/backend/internal/model"
)

type pgCharityRepository struct {
	pool *pgxpool.Pool
}

// NewPgCharityRepository returns a PostgreSQL-backed CharityRepository.
func NewPgCharityRepository(pool *pgxpool.Pool) CharityRepository {
	return &pgCharityRepository{pool: pool}
}

const charitySelectCols = `ch.id, ch.name, COALESCE(ch.contact_name, ''),
	COALESCE(ch.contact_phone, ''), ch.created_at, ch.updated_at`

func scanCharity(scan func(...any) error) (*model.Charity, error) {
	ch := &model.Charity{}
	return ch, scan(
		&ch.ID, &ch.Name, &ch.ContactName, &ch.ContactPhone,
		&ch.CreatedAt, &ch.UpdatedAt,
	)
}

func (r *pgCharityRepository) List(ctx context.Context) ([]*model.Charity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+charitySelectCols+` FROM charities ch ORDER BY ch.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCharities(rows)
}

func (r *pgCharityRepository) Create(ctx context.Context, ch *model.Charity) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO charities (name, contact_name, contact_phone)
		 VALUES ($1, NULLIF($2,''), NULLIF($3,''))
		 RETURNING id, created_at, updated_at`,
		ch.Name, ch.ContactName, ch.ContactPhone,
	).Scan(&ch.ID, &ch.CreatedAt, &ch.UpdatedAt)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return ErrDuplicate
	}
	return err
}

func (r *pgCharityRepository) Update(ctx context.Context, ch *model.Charity) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE charities SET
		 name = $1, contact_name = NULLIF($2,''), contact_phone = NULLIF($3,''),
		 updated_at = NOW()
		 WHERE id = $4`,
		ch.Name, ch.ContactName, ch.ContactPhone, ch.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgCharityRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM charities WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgCharityRepository) ListByCase(ctx context.Context, caseID string) ([]*model.Charity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+charitySelectCols+` FROM charities ch
		 JOIN case_charities cc ON cc.charity_id = ch.id
		 WHERE cc.case_id = $1 ORDER BY ch.name`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectCharities(rows)
}

func (r *pgCharityRepository) Attach(ctx context.Context, caseID, charityID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO case_charities (case_id, charity_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		caseID, charityID)
	return err
}

func (r *pgCharityRepository) Detach(ctx context.Context, caseID, charityID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM case_charities WHERE case_id = $1 AND charity_id = $2`,
		caseID, charityID)
	return err
}

func collectCharities(rows pgx.Rows) ([]*model.Charity, error) {
	var list []*model.Charity
	for rows.Next() {
		ch, err := scanCharity(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, ch)
	}
	return list, rows.Err()
}
