package service

import (
	"context"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
)

// Shared func-field mocks used across the service tests in this package.

// ---------------------------------------------------------------------------
// Mock CaseRepository
// ---------------------------------------------------------------------------

type mockCaseRepository struct {
	listFunc        func(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Case, error)
	getByIDFunc     func(ctx context.Context, id string) (*model.Case, error)
	findByPhoneFunc func(ctx context.Context, phone string) (*model.Case, error)
	listIDsFunc     func(ctx context.Context) ([]string, error)
	createFunc      func(ctx context.Context, c *model.Case) error
	updateFunc      func(ctx context.Context, c *model.Case) error
	patchFunc       func(ctx context.Context, id string, patch model.CasePatch) error
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockCaseRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Case, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, publishedOnly, limit, offset)
	}
	return nil, nil
}
func (m *mockCaseRepository) GetByID(ctx context.Context, id string) (*model.Case, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockCaseRepository) FindByPhone(ctx context.Context, phone string) (*model.Case, error) {
	if m.findByPhoneFunc != nil {
		return m.findByPhoneFunc(ctx, phone)
	}
	return nil, repository.ErrNotFound
}
func (m *mockCaseRepository) ListIDs(ctx context.Context) ([]string, error) {
	if m.listIDsFunc != nil {
		return m.listIDsFunc(ctx)
	}
	return nil, nil
}
func (m *mockCaseRepository) Create(ctx context.Context, c *model.Case) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}
func (m *mockCaseRepository) Update(ctx context.Context, c *model.Case) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return nil
}
func (m *mockCaseRepository) Patch(ctx context.Context, id string, patch model.CasePatch) error {
	if m.patchFunc != nil {
		return m.patchFunc(ctx, id, patch)
	}
	return nil
}
func (m *mockCaseRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockCaseRepository) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	return nil
}

// ---------------------------------------------------------------------------
// Mock DonationRepository
// ---------------------------------------------------------------------------

type mockDonationRepository struct {
	createFunc           func(ctx context.Context, d *model.Donation) error
	getByIDFunc          func(ctx context.Context, id string) (*model.Donation, error)
	getByPaymentCodeFunc func(ctx context.Context, code string) (*model.Donation, error)
	updateStatusFunc     func(ctx context.Context, id string, upd repository.DonationStatusUpdate, fromStatuses ...string) error
	redeemFunc           func(ctx context.Context, id, adminID, notes string) error
}

func (m *mockDonationRepository) Create(ctx context.Context, d *model.Donation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, d)
	}
	return nil
}
func (m *mockDonationRepository) GetByID(ctx context.Context, id string) (*model.Donation, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockDonationRepository) GetByPaymentCode(ctx context.Context, code string) (*model.Donation, error) {
	if m.getByPaymentCodeFunc != nil {
		return m.getByPaymentCodeFunc(ctx, code)
	}
	return nil, repository.ErrNotFound
}
func (m *mockDonationRepository) List(ctx context.Context, status, caseID string, limit, offset int) ([]*model.Donation, error) {
	return nil, nil
}
func (m *mockDonationRepository) ListByCase(ctx context.Context, caseID string, limit, offset int) ([]*model.Donation, error) {
	return nil, nil
}
func (m *mockDonationRepository) UpdateStatus(ctx context.Context, id string, upd repository.DonationStatusUpdate, fromStatuses ...string) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, upd, fromStatuses...)
	}
	return nil
}
func (m *mockDonationRepository) Redeem(ctx context.Context, id, adminID, notes string) error {
	if m.redeemFunc != nil {
		return m.redeemFunc(ctx, id, adminID, notes)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock FollowupRepository
// ---------------------------------------------------------------------------

type mockFollowupRepository struct {
	createBulkFunc     func(ctx context.Context, actions []*model.FollowupAction) error
	getByIDFunc        func(ctx context.Context, id string) (*model.FollowupAction, error)
	setAnswerFunc      func(ctx context.Context, id string, ans repository.FollowupAnswer) error
	upsertKidAnswer    func(ctx context.Context, ans *model.KidAnswer, profileColumn string) error
	setStatusFunc      func(ctx context.Context, id, status, adminID string) error
	listKidAnswersFunc func(ctx context.Context, actionID string) ([]*model.KidAnswer, error)
}

func (m *mockFollowupRepository) CreateBulk(ctx context.Context, actions []*model.FollowupAction) error {
	if m.createBulkFunc != nil {
		return m.createBulkFunc(ctx, actions)
	}
	return nil
}
func (m *mockFollowupRepository) GetByID(ctx context.Context, id string) (*model.FollowupAction, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockFollowupRepository) ListByCase(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error) {
	return nil, nil
}
func (m *mockFollowupRepository) SetAnswer(ctx context.Context, id string, ans repository.FollowupAnswer) error {
	if m.setAnswerFunc != nil {
		return m.setAnswerFunc(ctx, id, ans)
	}
	return nil
}
func (m *mockFollowupRepository) UpsertKidAnswer(ctx context.Context, ans *model.KidAnswer, profileColumn string) error {
	if m.upsertKidAnswer != nil {
		return m.upsertKidAnswer(ctx, ans, profileColumn)
	}
	return nil
}
func (m *mockFollowupRepository) ListKidAnswers(ctx context.Context, actionID string) ([]*model.KidAnswer, error) {
	if m.listKidAnswersFunc != nil {
		return m.listKidAnswersFunc(ctx, actionID)
	}
	return nil, nil
}
func (m *mockFollowupRepository) SetStatus(ctx context.Context, id, status, adminID string) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, status, adminID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock KidRepository
// ---------------------------------------------------------------------------

type mockKidRepository struct {
	listByCaseFunc   func(ctx context.Context, caseID string) ([]*model.CaseKid, error)
	getByIDFunc      func(ctx context.Context, id string) (*model.CaseKid, error)
	listAllPairsFunc func(ctx context.Context) ([]repository.KidPair, error)
}

func (m *mockKidRepository) ListByCase(ctx context.Context, caseID string) ([]*model.CaseKid, error) {
	if m.listByCaseFunc != nil {
		return m.listByCaseFunc(ctx, caseID)
	}
	return nil, nil
}
func (m *mockKidRepository) GetByID(ctx context.Context, id string) (*model.CaseKid, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockKidRepository) ListAllPairs(ctx context.Context) ([]repository.KidPair, error) {
	if m.listAllPairsFunc != nil {
		return m.listAllPairsFunc(ctx)
	}
	return nil, nil
}
func (m *mockKidRepository) Create(ctx context.Context, kid *model.CaseKid) error { return nil }
func (m *mockKidRepository) Update(ctx context.Context, kid *model.CaseKid) error { return nil }
func (m *mockKidRepository) Delete(ctx context.Context, id string) error          { return nil }
