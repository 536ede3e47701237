package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// FollowupInput is the admin's task definition before fan-out.
type FollowupInput struct {
	CaseID      string   `json:"case_id"` // ignored when ForAllCases
	Title       string   `json:"title"`
	Description string   `json:"description"`
	TaskLevel   string   `json:"task_level"`
	AnswerType  string   `json:"answer_type"`
	Options     []string `json:"options"`
	KidIDs      []string `json:"kid_ids"` // kid_level single-case only
	MapToField  string   `json:"map_to_field"`
	// ForAllCases fans the task out to every case (and, at kid level, to
	// every case's kids).
	ForAllCases bool `json:"for_all_cases"`
}

// AnswerInput is a beneficiary's answer to a followup action.
type AnswerInput struct {
	Answer   string `json:"answer"`
	PhotoURL string `json:"photo_url"`
	KidID    string `json:"kid_id"` // kid_level only
}

// FollowupService implements task fan-out and answer capture.
type FollowupService interface {
	// Create instantiates the definition into one or many rows (one per
	// case) in a single bulk insert.
	Create(ctx context.Context, adminID string, in FollowupInput) ([]*model.FollowupAction, error)
	GetByID(ctx context.Context, id string) (*model.FollowupAction, error)
	ListByCase(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error)
	// Answer records an answer on behalf of caseID (from the capability
	// token); the action must belong to that case.
	Answer(ctx context.Context, actionID, caseID string, in AnswerInput) error
	ListKidAnswers(ctx context.Context, actionID string) ([]*model.KidAnswer, error)
	Complete(ctx context.Context, id, adminID string) error
	CancelAction(ctx context.Context, id, adminID string) error
}

type followupService struct {
	repo     repository.FollowupRepository
	caseRepo repository.CaseRepository
	kidRepo  repository.KidRepository
}

// NewFollowupService creates a FollowupService.
func NewFollowupService(
	repo repository.FollowupRepository,
	caseRepo repository.CaseRepository,
	kidRepo repository.KidRepository,
) FollowupService {
	return &followupService{repo: repo, caseRepo: caseRepo, kidRepo: kidRepo}
}

func validFollowupInput(in FollowupInput) error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if in.TaskLevel != model.TaskLevelCase && in.TaskLevel != model.TaskLevelKid {
		return fmt.Errorf("%w: unknown task level %q", ErrValidation, in.TaskLevel)
	}
	switch in.AnswerType {
	case model.AnswerTypeText, model.AnswerTypePhoto:
	case model.AnswerTypeMultiChoice:
		if len(in.Options) < 2 {
			return fmt.Errorf("%w: multi_choice requires at least two options", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown answer type %q", ErrValidation, in.AnswerType)
	}
	if in.MapToField != "" {
		if in.TaskLevel != model.TaskLevelKid {
			return fmt.Errorf("%w: profile mapping requires kid level", ErrValidation)
		}
		switch in.MapToField {
		case model.KidFieldHealthStatus, model.KidFieldGrade, model.KidFieldSchool:
		default:
			return fmt.Errorf("%w: unknown profile field %q", ErrValidation, in.MapToField)
		}
	}
	return nil
}

func (s *followupService) Create(ctx context.Context, adminID string, in FollowupInput) ([]*model.FollowupAction, error) {
	if err := validFollowupInput(in); err != nil {
		return nil, err
	}

	var actions []*model.FollowupAction
	newAction := func(caseID string, kidIDs []string) *model.FollowupAction {
		if kidIDs == nil {
			kidIDs = []string{}
		}
		return &model.FollowupAction{
			CaseID:      caseID,
			Title:       in.Title,
			Description: in.Description,
			TaskLevel:   in.TaskLevel,
			AnswerType:  in.AnswerType,
			Options:     in.Options,
			KidIDs:      kidIDs,
			MapToField:  in.MapToField,
			CreatedBy:   adminID,
		}
	}

	switch {
	case !in.ForAllCases:
		if in.CaseID == "" {
			return nil, fmt.Errorf("%w: case_id is required", ErrValidation)
		}
		if _, err := s.caseRepo.GetByID(ctx, in.CaseID); err != nil {
			return nil, err
		}
		kidIDs := in.KidIDs
		if in.TaskLevel != model.TaskLevelKid {
			kidIDs = nil
		}
		actions = append(actions, newAction(in.CaseID, kidIDs))

	case in.TaskLevel == model.TaskLevelCase:
		caseIDs, err := s.caseRepo.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
		for _, id := range caseIDs {
			actions = append(actions, newAction(id, nil))
		}

	default: // all cases, kid level: one row per case with its kid list
		caseIDs, err := s.caseRepo.ListIDs(ctx)
		if err != nil {
			return nil, err
		}
		pairs, err := s.kidRepo.ListAllPairs(ctx)
		if err != nil {
			return nil, err
		}
		kidsByCase := make(map[string][]string, len(caseIDs))
		for _, p := range pairs {
			kidsByCase[p.CaseID] = append(kidsByCase[p.CaseID], p.KidID)
		}
		// Cases with zero kids still get a row with an empty kid list.
		for _, id := range caseIDs {
			actions = append(actions, newAction(id, kidsByCase[id]))
		}
	}

	if err := s.repo.CreateBulk(ctx, actions); err != nil {
		return nil, err
	}
	return actions, nil
}

func (s *followupService) GetByID(ctx context.Context, id string) (*model.FollowupAction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *followupService) ListByCase(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error) {
	return s.repo.ListByCase(ctx, caseID, pendingOnly)
}

func (s *followupService) Answer(ctx context.Context, actionID, caseID string, in AnswerInput) error {
	a, err := s.repo.GetByID(ctx, actionID)
	if err != nil {
		return err
	}
	if a.CaseID != caseID {
		return ErrForbidden
	}
	if a.Status != model.FollowupStatusPending {
		return fmt.Errorf("%w: action is %s", ErrInvalidTransition, a.Status)
	}
	if err := validateAnswer(a, in); err != nil {
		return err
	}

	if a.TaskLevel == model.TaskLevelKid {
		return s.repo.UpsertKidAnswer(ctx, &model.KidAnswer{
			ActionID: actionID,
			KidID:    in.KidID,
			Answer:   in.Answer,
			PhotoURL: in.PhotoURL,
		}, a.MapToField)
	}

	return s.repo.SetAnswer(ctx, actionID, repository.FollowupAnswer{
		Answer:     in.Answer,
		PhotoURL:   in.PhotoURL,
		AnsweredAt: time.Now(),
	})
}

func validateAnswer(a *model.FollowupAction, in AnswerInput) error {
	if a.TaskLevel == model.TaskLevelKid {
		if in.KidID == "" {
			return fmt.Errorf("%w: kid_id is required", ErrValidation)
		}
		found := false
		for _, id := range a.KidIDs {
			if id == in.KidID {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: kid is not part of this action", ErrValidation)
		}
	}

	switch a.AnswerType {
	case model.AnswerTypeText:
		if in.Answer == "" {
			return fmt.Errorf("%w: answer is required", ErrValidation)
		}
	case model.AnswerTypeMultiChoice:
		for _, opt := range a.Options {
			if opt == in.Answer {
				return nil
			}
		}
		return fmt.Errorf("%w: answer must be one of the options", ErrValidation)
	case model.AnswerTypePhoto:
		if in.PhotoURL == "" {
			return fmt.Errorf("%w: photo is required", ErrValidation)
		}
	}
	return nil
}

func (s *followupService) ListKidAnswers(ctx context.Context, actionID string) ([]*model.KidAnswer, error) {
	return s.repo.ListKidAnswers(ctx, actionID)
}

func (s *followupService) Complete(ctx context.Context, id, adminID string) error {
	return s.repo.SetStatus(ctx, id, model.FollowupStatusCompleted, adminID)
}

func (s *followupService) CancelAction(ctx context.Context, id, adminID string) error {
	return s.repo.SetStatus(ctx, id, model.FollowupStatusCancelled, adminID)
}
