package service

import (
	"context"
	"errors"
	"testing"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

func followupFixture(caseIDs []string, pairs []repository.KidPair) (FollowupService, *[]*model.FollowupAction) {
	var created []*model.FollowupAction
	repo := &mockFollowupRepository{
		createBulkFunc: func(_ context.Context, actions []*model.FollowupAction) error {
			created = append(created, actions...)
			return nil
		},
	}
	caseRepo := &mockCaseRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Case, error) {
			for _, known := range caseIDs {
				if known == id {
					return &model.Case{ID: id}, nil
				}
			}
			return nil, repository.ErrNotFound
		},
		listIDsFunc: func(_ context.Context) ([]string, error) {
			return caseIDs, nil
		},
	}
	kidRepo := &mockKidRepository{
		listAllPairsFunc: func(_ context.Context) ([]repository.KidPair, error) {
			return pairs, nil
		},
	}
	return NewFollowupService(repo, caseRepo, kidRepo), &created
}

// ---------------------------------------------------------------------------
// Create fan-out tests
// ---------------------------------------------------------------------------

func TestFollowupService_Create_SingleCase(t *testing.T) {
	svc, created := followupFixture([]string{"c1", "c2"}, nil)

	actions, err := svc.Create(context.Background(), "admin-1", FollowupInput{
		CaseID: "c1", Title: "زيارة منزلية", TaskLevel: model.TaskLevelCase,
		AnswerType: model.AnswerTypeText,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 1 || len(*created) != 1 {
		t.Fatalf("expected 1 action, got %d created", len(*created))
	}
	if actions[0].CaseID != "c1" || actions[0].CreatedBy != "admin-1" {
		t.Errorf("unexpected action %+v", actions[0])
	}
}

func TestFollowupService_Create_AllCasesCaseLevel(t *testing.T) {
	svc, created := followupFixture([]string{"c1", "c2", "c3"}, nil)

	actions, err := svc.Create(context.Background(), "admin-1", FollowupInput{
		Title: "تحديث بيانات", TaskLevel: model.TaskLevelCase,
		AnswerType: model.AnswerTypeText, ForAllCases: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 3 || len(*created) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(actions))
	}
}

func TestFollowupService_Create_AllCasesKidLevel_EmptyKidListIncluded(t *testing.T) {
	// c1 has two kids, c2 has one, c3 has none.
	svc, _ := followupFixture(
		[]string{"c1", "c2", "c3"},
		[]repository.KidPair{
			{CaseID: "c1", KidID: "k1"},
			{CaseID: "c1", KidID: "k2"},
			{CaseID: "c2", KidID: "k3"},
		},
	)

	actions, err := svc.Create(context.Background(), "admin-1", FollowupInput{
		Title: "شهادة مدرسية", TaskLevel: model.TaskLevelKid,
		AnswerType: model.AnswerTypePhoto, ForAllCases: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(actions) != 3 {
		t.Fatalf("expected one action per case, got %d", len(actions))
	}
	kidCounts := map[string]int{}
	for _, a := range actions {
		if a.KidIDs == nil {
			t.Errorf("case %s: kid list must be non-nil", a.CaseID)
		}
		kidCounts[a.CaseID] = len(a.KidIDs)
	}
	if kidCounts["c1"] != 2 || kidCounts["c2"] != 1 || kidCounts["c3"] != 0 {
		t.Errorf("unexpected kid fan-out %v", kidCounts)
	}
}

func TestFollowupService_Create_Validation(t *testing.T) {
	svc, _ := followupFixture([]string{"c1"}, nil)

	cases := []struct {
		name string
		in   FollowupInput
	}{
		{"missing title", FollowupInput{CaseID: "c1", TaskLevel: model.TaskLevelCase, AnswerType: model.AnswerTypeText}},
		{"bad level", FollowupInput{CaseID: "c1", Title: "t", TaskLevel: "household", AnswerType: model.AnswerTypeText}},
		{"bad answer type", FollowupInput{CaseID: "c1", Title: "t", TaskLevel: model.TaskLevelCase, AnswerType: "video"}},
		{"multi_choice one option", FollowupInput{
			CaseID: "c1", Title: "t", TaskLevel: model.TaskLevelCase,
			AnswerType: model.AnswerTypeMultiChoice, Options: []string{"only"},
		}},
		{"mapping on case level", FollowupInput{
			CaseID: "c1", Title: "t", TaskLevel: model.TaskLevelCase,
			AnswerType: model.AnswerTypeText, MapToField: model.KidFieldGrade,
		}},
		{"mapping to unknown field", FollowupInput{
			CaseID: "c1", Title: "t", TaskLevel: model.TaskLevelKid,
			AnswerType: model.AnswerTypeText, MapToField: "shoe_size",
		}},
		{"missing case id", FollowupInput{Title: "t", TaskLevel: model.TaskLevelCase, AnswerType: model.AnswerTypeText}},
	}
	for _, tc := range cases {
		if _, err := svc.Create(context.Background(), "admin-1", tc.in); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", tc.name, err)
		}
	}
}

// ---------------------------------------------------------------------------
// Answer tests
// ---------------------------------------------------------------------------

func pendingAction(level, answerType string) *model.FollowupAction {
	return &model.FollowupAction{
		ID: "a1", CaseID: "c1", Title: "t",
		TaskLevel: level, AnswerType: answerType,
		KidIDs: []string{"k1", "k2"},
		Status: model.FollowupStatusPending,
	}
}

func answerFixture(a *model.FollowupAction) (FollowupService, *mockFollowupRepository) {
	repo := &mockFollowupRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.FollowupAction, error) {
			if a != nil && id == a.ID {
				return a, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	return NewFollowupService(repo, &mockCaseRepository{}, &mockKidRepository{}), repo
}

func TestFollowupService_Answer_WrongCaseForbidden(t *testing.T) {
	svc, _ := answerFixture(pendingAction(model.TaskLevelCase, model.AnswerTypeText))

	err := svc.Answer(context.Background(), "a1", "c-other", AnswerInput{Answer: "ok"})
	if !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
}

func TestFollowupService_Answer_NonPendingRejected(t *testing.T) {
	a := pendingAction(model.TaskLevelCase, model.AnswerTypeText)
	a.Status = model.FollowupStatusCompleted
	svc, _ := answerFixture(a)

	err := svc.Answer(context.Background(), "a1", "c1", AnswerInput{Answer: "ok"})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestFollowupService_Answer_CaseLevelText(t *testing.T) {
	svc, repo := answerFixture(pendingAction(model.TaskLevelCase, model.AnswerTypeText))
	var got repository.FollowupAnswer
	repo.setAnswerFunc = func(_ context.Context, id string, ans repository.FollowupAnswer) error {
		got = ans
		return nil
	}

	if err := svc.Answer(context.Background(), "a1", "c1", AnswerInput{Answer: "الوضع مستقر"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Answer != "الوضع مستقر" || got.AnsweredAt.IsZero() {
		t.Errorf("unexpected answer %+v", got)
	}
}

func TestFollowupService_Answer_MultiChoiceMustMatchOption(t *testing.T) {
	a := pendingAction(model.TaskLevelCase, model.AnswerTypeMultiChoice)
	a.Options = []string{"نعم", "لا"}
	svc, _ := answerFixture(a)

	if err := svc.Answer(context.Background(), "a1", "c1", AnswerInput{Answer: "ربما"}); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if err := svc.Answer(context.Background(), "a1", "c1", AnswerInput{Answer: "نعم"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFollowupService_Answer_KidLevelRoutesToUpsert(t *testing.T) {
	a := pendingAction(model.TaskLevelKid, model.AnswerTypeText)
	a.MapToField = model.KidFieldGrade
	svc, repo := answerFixture(a)

	var gotAns *model.KidAnswer
	var gotColumn string
	repo.upsertKidAnswer = func(_ context.Context, ans *model.KidAnswer, profileColumn string) error {
		gotAns, gotColumn = ans, profileColumn
		return nil
	}

	if err := svc.Answer(context.Background(), "a1", "c1", AnswerInput{
		KidID: "k2", Answer: "الصف الخامس",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAns == nil || gotAns.KidID != "k2" || gotAns.ActionID != "a1" {
		t.Fatalf("unexpected upsert %+v", gotAns)
	}
	if gotColumn != model.KidFieldGrade {
		t.Errorf("expected profile column %q, got %q", model.KidFieldGrade, gotColumn)
	}
}

func TestFollowupService_Answer_KidLevelValidation(t *testing.T) {
	a := pendingAction(model.TaskLevelKid, model.AnswerTypePhoto)
	svc, _ := answerFixture(a)

	// missing kid id
	if err := svc.Answer(context.Background(), "a1", "c1", AnswerInput{PhotoURL: "/uploads/x.jpg"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing kid: expected ErrValidation, got %v", err)
	}
	// kid not on the action
	if err := svc.Answer(context.Background(), "a1", "c1", AnswerInput{KidID: "k9", PhotoURL: "/uploads/x.jpg"}); !errors.Is(err, ErrValidation) {
		t.Errorf("foreign kid: expected ErrValidation, got %v", err)
	}
	// photo answer without photo
	if err := svc.Answer(context.Background(), "a1", "c1", AnswerInput{KidID: "k1"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing photo: expected ErrValidation, got %v", err)
	}
}

func TestFollowupService_CompleteAndCancel(t *testing.T) {
	repo := &mockFollowupRepository{}
	var gotStatus string
	repo.setStatusFunc = func(_ context.Context, id, status, adminID string) error {
		gotStatus = status
		return nil
	}
	svc := NewFollowupService(repo, &mockCaseRepository{}, &mockKidRepository{})

	if err := svc.Complete(context.Background(), "a1", "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStatus != model.FollowupStatusCompleted {
		t.Errorf("expected completed, got %q", gotStatus)
	}

	if err := svc.CancelAction(context.Background(), "a1", "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStatus != model.FollowupStatusCancelled {
		t.Errorf("expected cancelled, got %q", gotStatus)
	}
}
