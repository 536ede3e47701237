package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kafala/backend/internal/model"
	"github.com/kafala/backend/pkg/auth"
)

type mockUserRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
	hasRoleFunc  func(ctx context.Context, userID, role string) (bool, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, errors.New("not found")
}
func (m *mockUserRepository) FindByGoogleID(context.Context, string) (*model.User, error) {
	return nil, errors.New("not found")
}
func (m *mockUserRepository) FindByEmail(context.Context, string) (*model.User, error) {
	return nil, errors.New("not found")
}
func (m *mockUserRepository) Create(context.Context, *model.User) error { return nil }
func (m *mockUserRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	if m.hasRoleFunc != nil {
		return m.hasRoleFunc(ctx, userID, role)
	}
	return false, nil
}
func (m *mockUserRepository) GrantRole(context.Context, string, string) error { return nil }

func TestMeHandler_NoContextUser_Returns401(t *testing.T) {
	h := NewMeHandler(&mockUserRepository{})

	req := httptest.NewRequest("GET", "/api/me", nil)
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

// Me sits behind RequireAuth in the server wiring; a valid session cookie
// must resolve through the middleware to a 200 with the user's profile.
func TestMeHandler_SessionCookie_ReturnsUser(t *testing.T) {
	secret := []byte("me-test-secret-0123456789abcdef0")
	now := time.Now()
	repo := &mockUserRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.User, error) {
			if id != "u1" {
				return nil, errors.New("not found")
			}
			return &model.User{
				ID: "u1", Email: "admin@example.com", Name: "Admin",
				CreatedAt: now, UpdatedAt: now,
			}, nil
		},
		hasRoleFunc: func(_ context.Context, userID, role string) (bool, error) {
			return userID == "u1" && role == "admin", nil
		},
	}
	h := NewMeHandler(repo)
	wrapped := auth.RequireAuth(secret, repo)(http.HandlerFunc(h.Me))

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{
		Name:  auth.SessionCookieName(),
		Value: auth.CreateSessionToken("u1", secret),
	})
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got meResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.ID != "u1" || got.Email != "admin@example.com" {
		t.Errorf("unexpected user: %+v", got)
	}
	if !got.IsAdmin {
		t.Error("expected is_admin true")
	}
}

func TestMeHandler_BadCookie_Returns401(t *testing.T) {
	secret := []byte("me-test-secret-0123456789abcdef0")
	repo := &mockUserRepository{}
	h := NewMeHandler(repo)
	wrapped := auth.RequireAuth(secret, repo)(http.HandlerFunc(h.Me))

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName(), Value: "bad-token"})
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMeHandler_LookupFailure_Returns500(t *testing.T) {
	h := NewMeHandler(&mockUserRepository{
		findByIDFunc: func(context.Context, string) (*model.User, error) {
			return nil, errors.New("db down")
		},
	})

	req := httptest.NewRequest("GET", "/api/me", nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "u1"))
	rec := httptest.NewRecorder()

	h.Me(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}
