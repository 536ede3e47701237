package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kafala/backend/internal/model"
)

type pgFollowupRepository struct {
	pool *pgxpool.Pool
}

// NewPgFollowupRepository returns a PostgreSQL-backed FollowupRepository.
func NewPgFollowupRepository(pool *pgxpool.Pool) FollowupRepository {
	return &pgFollowupRepository{pool: pool}
}

const followupSelectCols = `id, case_id, title, COALESCE(description, ''),
	task_level, answer_type, options, kid_ids, COALESCE(map_to_field, ''),
	status, COALESCE(answer, ''), COALESCE(answer_photo_url, ''), answered_at,
	COALESCE(created_by, ''), COALESCE(completed_by, ''), completed_at,
	created_at, updated_at`

func scanFollowup(scan func(...any) error) (*model.FollowupAction, error) {
	a := &model.FollowupAction{}
	err := scan(
		&a.ID, &a.CaseID, &a.Title, &a.Description,
		&a.TaskLevel, &a.AnswerType, &a.Options, &a.KidIDs, &a.MapToField,
		&a.Status, &a.Answer, &a.AnswerPhotoURL, &a.AnsweredAt,
		&a.CreatedBy, &a.CompletedBy, &a.CompletedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Options == nil {
		a.Options = []string{}
	}
	if a.KidIDs == nil {
		a.KidIDs = []string{}
	}
	return a, nil
}

func (r *pgFollowupRepository) CreateBulk(ctx context.Context, actions []*model.FollowupAction) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, a := range actions {
		if a.Options == nil {
			a.Options = []string{}
		}
		if a.KidIDs == nil {
			a.KidIDs = []string{}
		}
		if err := tx.QueryRow(ctx,
			`INSERT INTO followup_actions
			 (case_id, title, description, task_level, answer_type, options,
			  kid_ids, map_to_field, status, created_by)
			 VALUES ($1, $2, NULLIF($3,''), $4, $5, $6, $7, NULLIF($8,''),
			         'pending', NULLIF($9,''))
			 RETURNING id, status, created_at, updated_at`,
			a.CaseID, a.Title, a.Description, a.TaskLevel, a.AnswerType,
			a.Options, a.KidIDs, a.MapToField, a.CreatedBy,
		).Scan(&a.ID, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *pgFollowupRepository) GetByID(ctx context.Context, id string) (*model.FollowupAction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+followupSelectCols+` FROM followup_actions WHERE id = $1`, id)
	a, err := scanFollowup(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return a, err
}

func (r *pgFollowupRepository) ListByCase(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error) {
	query := `SELECT ` + followupSelectCols + ` FROM followup_actions WHERE case_id = $1`
	if pendingOnly {
		query += ` AND status = 'pending'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.FollowupAction
	for rows.Next() {
		a, err := scanFollowup(rows.Scan)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *pgFollowupRepository) SetAnswer(ctx context.Context, id string, ans FollowupAnswer) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE followup_actions SET
		 answer = NULLIF($1,''), answer_photo_url = NULLIF($2,''),
		 answered_at = $3, updated_at = NOW()
		 WHERE id = $4 AND status = 'pending'`,
		ans.Answer, ans.PhotoURL, ans.AnsweredAt, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// kidProfileColumns is the closed set of case_kids columns a followup
// answer may be written through to. Guards the fmt.Sprintf below.
var kidProfileColumns = map[string]bool{
	model.KidFieldHealthStatus: true,
	model.KidFieldGrade:        true,
	model.KidFieldSchool:       true,
}

func (r *pgFollowupRepository) UpsertKidAnswer(ctx context.Context, ans *model.KidAnswer, profileColumn string) error {
	if profileColumn != "" && !kidProfileColumns[profileColumn] {
		return fmt.Errorf("unknown kid profile column %q", profileColumn)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`INSERT INTO followup_action_kid_answers
		 (action_id, kid_id, answer, photo_url, answered_at)
		 VALUES ($1, $2, NULLIF($3,''), NULLIF($4,''), NOW())
		 ON CONFLICT (action_id, kid_id) DO UPDATE SET
		   answer = EXCLUDED.answer,
		   photo_url = EXCLUDED.photo_url,
		   answered_at = EXCLUDED.answered_at
		 RETURNING answered_at`,
		ans.ActionID, ans.KidID, ans.Answer, ans.PhotoURL,
	).Scan(&ans.AnsweredAt); err != nil {
		return err
	}

	if profileColumn != "" && ans.Answer != "" {
		query := fmt.Sprintf(
			`UPDATE case_kids SET %s = $1, updated_at = NOW() WHERE id = $2`,
			profileColumn)
		if _, err := tx.Exec(ctx, query, ans.Answer, ans.KidID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *pgFollowupRepository) ListKidAnswers(ctx context.Context, actionID string) ([]*model.KidAnswer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT action_id, kid_id, COALESCE(answer, ''), COALESCE(photo_url, ''), answered_at
		 FROM followup_action_kid_answers
		 WHERE action_id = $1 ORDER BY answered_at`, actionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*model.KidAnswer
	for rows.Next() {
		a := &model.KidAnswer{}
		if err := rows.Scan(&a.ActionID, &a.KidID, &a.Answer, &a.PhotoURL, &a.AnsweredAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *pgFollowupRepository) SetStatus(ctx context.Context, id, status, adminID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE followup_actions SET
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
