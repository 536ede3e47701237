package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/internal/repository"
	"github.com/kafala/backend/internal/service"
	"github.com/kafala/backend/pkg/auth"
	"github.com/kafala/backend/pkg/token"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockFollowupService struct {
	createFunc     func(ctx context.Context, adminID string, in service.FollowupInput) ([]*model.FollowupAction, error)
	listByCaseFunc func(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error)
	answerFunc     func(ctx context.Context, actionID, caseID string, in service.AnswerInput) error
}

func (m *mockFollowupService) Create(ctx context.Context, adminID string, in service.FollowupInput) ([]*model.FollowupAction, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, adminID, in)
	}
	return nil, nil
}
func (m *mockFollowupService) GetByID(ctx context.Context, id string) (*model.FollowupAction, error) {
	return nil, repository.ErrNotFound
}
func (m *mockFollowupService) ListByCase(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error) {
	if m.listByCaseFunc != nil {
		return m.listByCaseFunc(ctx, caseID, pendingOnly)
	}
	return nil, nil
}
func (m *mockFollowupService) Answer(ctx context.Context, actionID, caseID string, in service.AnswerInput) error {
	if m.answerFunc != nil {
		return m.answerFunc(ctx, actionID, caseID, in)
	}
	return nil
}
func (m *mockFollowupService) ListKidAnswers(ctx context.Context, actionID string) ([]*model.KidAnswer, error) {
	return nil, nil
}
func (m *mockFollowupService) Complete(ctx context.Context, id, adminID string) error { return nil }
func (m *mockFollowupService) CancelAction(ctx context.Context, id, adminID string) error {
	return nil
}

type mockCaseService struct {
	findByPhoneFunc func(ctx context.Context, phone string) (*model.Case, error)
	getByIDFunc     func(ctx context.Context, id string) (*model.Case, error)
	listFunc        func(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Case, error)
	patchFunc       func(ctx context.Context, id string, p model.CasePatch) error
}

func (m *mockCaseService) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*model.Case, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, publishedOnly, limit, offset)
	}
	return nil, nil
}
func (m *mockCaseService) GetByID(ctx context.Context, id string) (*model.Case, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockCaseService) FindByPhone(ctx context.Context, phone string) (*model.Case, error) {
	if m.findByPhoneFunc != nil {
		return m.findByPhoneFunc(ctx, phone)
	}
	return nil, repository.ErrNotFound
}
func (m *mockCaseService) Create(ctx context.Context, c *model.Case) error          { return nil }
func (m *mockCaseService) Update(ctx context.Context, c *model.Case) error          { return nil }
func (m *mockCaseService) Patch(ctx context.Context, id string, p model.CasePatch) error {
	if m.patchFunc != nil {
		return m.patchFunc(ctx, id, p)
	}
	return nil
}
func (m *mockCaseService) Delete(ctx context.Context, id string) error { return nil }

type mockKidService struct {
	listByCaseFunc func(ctx context.Context, caseID string) ([]*model.CaseKid, error)
}

func (m *mockKidService) ListByCase(ctx context.Context, caseID string) ([]*model.CaseKid, error) {
	if m.listByCaseFunc != nil {
		return m.listByCaseFunc(ctx, caseID)
	}
	return nil, nil
}
func (m *mockKidService) GetByID(ctx context.Context, id string) (*model.CaseKid, error) {
	return nil, repository.ErrNotFound
}
func (m *mockKidService) Create(ctx context.Context, kid *model.CaseKid) error { return nil }
func (m *mockKidService) Update(ctx context.Context, kid *model.CaseKid) error { return nil }
func (m *mockKidService) Delete(ctx context.Context, id string) error          { return nil }

var testTokenSecret = []byte("followup-test-secret-0123456789ab")

func newFollowupHandler(svc *mockFollowupService, caseSvc *mockCaseService) *FollowupHandler {
	return NewFollowupHandler(svc, caseSvc, &mockKidService{}, testTokenSecret)
}

// ---------------------------------------------------------------------------
// POST /api/admin/followups
// ---------------------------------------------------------------------------

func TestFollowupHandler_Create_Success(t *testing.T) {
	mock := &mockFollowupService{
		createFunc: func(ctx context.Context, adminID string, in service.FollowupInput) ([]*model.FollowupAction, error) {
			return []*model.FollowupAction{{ID: "a1"}, {ID: "a2"}}, nil
		},
	}
	h := newFollowupHandler(mock, &mockCaseService{})

	body := `{"title":"متابعة","task_level":"case_level","answer_type":"text","for_all_cases":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/followups", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "admin-1"))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Created int `json:"created"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Created != 2 {
		t.Errorf("expected created=2, got %d", resp.Created)
	}
}

func TestFollowupHandler_Create_Unauthorized(t *testing.T) {
	h := newFollowupHandler(&mockFollowupService{}, &mockCaseService{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/followups", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// POST /api/followups/lookup
// ---------------------------------------------------------------------------

func TestFollowupHandler_Lookup_IssuesCaseToken(t *testing.T) {
	caseSvc := &mockCaseService{
		findByPhoneFunc: func(ctx context.Context, phone string) (*model.Case, error) {
			if phone != "0791234567" {
				return nil, repository.ErrNotFound
			}
			return &model.Case{ID: "c1", TitleAr: "أسرة أيتام"}, nil
		},
	}
	svc := &mockFollowupService{
		listByCaseFunc: func(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error) {
			if !pendingOnly {
				t.Error("lookup must request pending actions only")
			}
			return []*model.FollowupAction{{ID: "a1", CaseID: caseID}}, nil
		},
	}
	h := newFollowupHandler(svc, caseSvc)

	req := httptest.NewRequest(http.MethodPost, "/api/followups/lookup", strings.NewReader(`{"phone":"0791234567"}`))
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token   string                  `json:"token"`
		CaseID  string                  `json:"case_id"`
		Actions []*model.FollowupAction `json:"actions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CaseID != "c1" || len(resp.Actions) != 1 {
		t.Errorf("unexpected response case=%q actions=%d", resp.CaseID, len(resp.Actions))
	}

	claims, err := token.ParseCaseToken(testTokenSecret, resp.Token)
	if err != nil {
		t.Fatalf("returned token does not validate: %v", err)
	}
	if claims.CaseID != "c1" {
		t.Errorf("token scoped to %q, expected c1", claims.CaseID)
	}
}

func TestFollowupHandler_Lookup_UnknownPhone(t *testing.T) {
	h := newFollowupHandler(&mockFollowupService{}, &mockCaseService{})

	req := httptest.NewRequest(http.MethodPost, "/api/followups/lookup", strings.NewReader(`{"phone":"0000000000"}`))
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestFollowupHandler_Lookup_MissingPhone(t *testing.T) {
	h := newFollowupHandler(&mockFollowupService{}, &mockCaseService{})

	req := httptest.NewRequest(http.MethodPost, "/api/followups/lookup", strings.NewReader(`{"phone":"  "}`))
	rec := httptest.NewRecorder()
	h.Lookup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// POST /api/followups/{id}/answer
// ---------------------------------------------------------------------------

func TestFollowupHandler_Answer_TokenScopesCase(t *testing.T) {
	var capturedAction, capturedCase string
	svc := &mockFollowupService{
		answerFunc: func(ctx context.Context, actionID, caseID string, in service.AnswerInput) error {
			capturedAction, capturedCase = actionID, caseID
			return nil
		},
	}
	h := newFollowupHandler(svc, &mockCaseService{})

	tok, err := token.GenerateCaseToken(testTokenSecret, "c1", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/followups/{id}/answer", http.HandlerFunc(h.Answer))

	req := httptest.NewRequest(http.MethodPost, "/api/followups/a1/answer", strings.NewReader(`{"answer":"تم"}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	if capturedAction != "a1" || capturedCase != "c1" {
		t.Errorf("unexpected capture action=%q case=%q", capturedAction, capturedCase)
	}
}

func TestFollowupHandler_Answer_MissingToken(t *testing.T) {
	h := newFollowupHandler(&mockFollowupService{}, &mockCaseService{})

	req := httptest.NewRequest(http.MethodPost, "/api/followups/a1/answer", strings.NewReader(`{"answer":"x"}`))
	rec := httptest.NewRecorder()
	h.Answer(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestFollowupHandler_Answer_ExpiredToken(t *testing.T) {
	h := newFollowupHandler(&mockFollowupService{}, &mockCaseService{})

	tok, err := token.GenerateCaseToken(testTokenSecret, "c1", -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/followups/a1/answer", strings.NewReader(`{"answer":"x"}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.Answer(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["error"] != "token_expired" {
		t.Errorf("expected token_expired, got %q", resp["error"])
	}
}

func TestFollowupHandler_Answer_ForeignCaseForbidden(t *testing.T) {
	svc := &mockFollowupService{
		answerFunc: func(ctx context.Context, actionID, caseID string, in service.AnswerInput) error {
			return service.ErrForbidden
		},
	}
	h := newFollowupHandler(svc, &mockCaseService{})

	tok, _ := token.GenerateCaseToken(testTokenSecret, "c-other", time.Hour)

	mux := http.NewServeMux()
	mux.Handle("POST /api/followups/{id}/answer", http.HandlerFunc(h.Answer))

	req := httptest.NewRequest(http.MethodPost, "/api/followups/a1/answer", strings.NewReader(`{"answer":"x"}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// GET /api/followups/pending
// ---------------------------------------------------------------------------

func TestFollowupHandler_Pending_UsesTokenCase(t *testing.T) {
	svc := &mockFollowupService{
		listByCaseFunc: func(ctx context.Context, caseID string, pendingOnly bool) ([]*model.FollowupAction, error) {
			if caseID != "c1" || !pendingOnly {
				t.Errorf("unexpected list call case=%q pending=%v", caseID, pendingOnly)
			}
			return []*model.FollowupAction{}, nil
		},
	}
	h := newFollowupHandler(svc, &mockCaseService{})

	tok, _ := token.GenerateCaseToken(testTokenSecret, "c1", time.Hour)
	req := httptest.NewRequest(http.MethodGet, "/api/followups/pending", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.Pending(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
