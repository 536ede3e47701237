package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kafala/backend/internal/model"
)

type pgKidRepository struct {
	pool *pgxpool.Pool
}

// NewPgKidRepository returns a PostgreSQL-backed KidRepository.
func NewPgKidRepository(pool *pgxpool.Pool) KidRepository {
	return &pgKidRepository{pool: pool}
}

const kidSelectCols = `id, case_id, name, birth_date,
	COALESCE(health_status, ''), COALESCE(grade, ''), COALESCE(school, ''),
	COALESCE(health_notes, ''), COALESCE(edu_notes, ''),
	education_progress, certificates, courses, created_at, updated_at`

func scanKid(scan func(...any) error) (*model.CaseKid, error) {
	k := &model.CaseKid{}
	var progress, certs, courses []byte
	err := scan(
		&k.ID, &k.CaseID, &k.Name, &k.BirthDate,
		&k.HealthStatus, &k.Grade, &k.School,
		&k.HealthNotes, &k.EduNotes,
		&progress, &certs, &courses, &k.CreatedAt, &k.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(progress, &k.EducationProgress); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(certs, &k.Certificates); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(courses, &k.Courses); err != nil {
		return nil, err
	}
	return k, nil
}

func marshalKidArrays(k *model.CaseKid) (progress, certs, courses []byte, err error) {
	if k.EducationProgress == nil {
		k.EducationProgress = []model.EducationEntry{}
	}
	if k.Certificates == nil {
		k.Certificates = []model.Certificate{}
	}
	if k.Courses == nil {
		k.Courses = []model.Course{}
	}
	if progress, err = json.Marshal(k.EducationProgress); err != nil {
		return
	}
	if certs, err = json.Marshal(k.Certificates); err != nil {
		return
	}
	courses, err = json.Marshal(k.Courses)
	return
}

func (r *pgKidRepository) ListByCase(ctx context.Context, caseID string) ([]*model.CaseKid, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+kidSelectCols+` FROM case_kids
		 WHERE case_id = $1 ORDER BY created_at`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.CaseKid
	for rows.Next() {
		k, err := scanKid(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, k)
	}
	return list, rows.Err()
}

func (r *pgKidRepository) GetByID(ctx context.Context, id string) (*model.CaseKid, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+kidSelectCols+` FROM case_kids WHERE id = $1`, id)
	k, err := scanKid(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return k, err
}

func (r *pgKidRepository) ListAllPairs(ctx context.Context) ([]KidPair, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT case_id, id FROM case_kids ORDER BY case_id, created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pairs []KidPair
	for rows.Next() {
		var p KidPair
		if err := rows.Scan(&p.CaseID, &p.KidID); err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func (r *pgKidRepository) Create(ctx context.Context, kid *model.CaseKid) error {
	progress, certs, courses, err := marshalKidArrays(kid)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO case_kids
		 (case_id, name, birth_date, health_status, grade, school,
		  health_notes, edu_notes, education_progress, certificates, courses)
		 VALUES ($1, $2, $3, NULLIF($4,''), NULLIF($5,''), NULLIF($6,''),
		         NULLIF($7,''), NULLIF($8,''), $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		kid.CaseID, kid.Name, kid.BirthDate, kid.HealthStatus, kid.Grade,
		kid.School, kid.HealthNotes, kid.EduNotes, progress, certs, courses,
	).Scan(&kid.ID, &kid.CreatedAt, &kid.UpdatedAt)
}

func (r *pgKidRepository) Update(ctx context.Context, kid *model.CaseKid) error {
	progress, certs, courses, err := marshalKidArrays(kid)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE case_kids SET
		 name=$1, birth_date=$2, health_status=NULLIF($3,''),
		 grade=NULLIF($4,''), school=NULLIF($5,''),
		 health_notes=NULLIF($6,''), edu_notes=NULLIF($7,''),
		 education_progress=$8, certificates=$9, courses=$10, updated_at=NOW()
		 WHERE id=$11`,
		kid.Name, kid.BirthDate, kid.HealthStatus, kid.Grade, kid.School,
		kid.HealthNotes, kid.EduNotes, progress, certs, courses, kid.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgKidRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM case_kids WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
