package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/internal/admin"
	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/internal/users"
)

type testAdminService struct {
	listUsersFn      func(ctx context.Context, input admin.ListUsersInput) (*admin.UserListResult, error)
	setUserActiveFn  func(ctx context.Context, userID uuid.UUID, active bool) (*users.UserDTO, error)
	listSalonsFn     func(ctx context.Context, input admin.ListSalonsInput) (*admin.SalonListResult, error)
	setSalonActiveFn func(ctx context.Context, salonID uuid.UUID, active bool) (*salons.SalonDTO, error)
}

func (s *testAdminService) ListUsers(ctx context.Context, input admin.ListUsersInput) (*admin.UserListResult, error) {
	if s.listUsersFn != nil {
		return s.listUsersFn(ctx, input)
	}
	return &admin.UserListResult{}, nil
}

func (s *testAdminService) SetUserActive(ctx context.Context, userID uuid.UUID, active bool) (*users.UserDTO, error) {
	if s.setUserActiveFn != nil {
		return s.setUserActiveFn(ctx, userID, active)
	}
	return &users.UserDTO{ID: userID}, nil
}

func (s *testAdminService) ListSalons(ctx context.Context, input admin.ListSalonsInput) (*admin.SalonListResult, error) {
	if s.listSalonsFn != nil {
		return s.listSalonsFn(ctx, input)
	}
	return &admin.SalonListResult{}, nil
}

func (s *testAdminService) SetSalonActive(ctx context.Context, salonID uuid.UUID, active bool) (*salons.SalonDTO, error) {
	if s.setSalonActiveFn != nil {
		return s.setSalonActiveFn(ctx, salonID, active)
	}
	return &salons.SalonDTO{ID: salonID}, nil
}

func TestAdminUsersForwardsFilters(t *testing.T) {
	var captured admin.ListUsersInput
	svc := &testAdminService{
		listUsersFn: func(ctx context.Context, input admin.ListUsersInput) (*admin.UserListResult, error) {
			captured = input
			return &admin.UserListResult{Cursor: "next"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users?q=ben&activeOnly=true&limit=20&cursor=abc", nil)
	resp := httptest.NewRecorder()
	AdminUsers(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Query != "ben" || !captured.ActiveOnly || captured.Limit != 20 || captured.Cursor != "abc" {
		t.Fatalf("filters not forwarded: %+v", captured)
	}
}

func TestAdminSetUserActiveTogglesFlag(t *testing.T) {
	userID := uuid.New()
	var gotActive *bool
	svc := &testAdminService{
		setUserActiveFn: func(ctx context.Context, uid uuid.UUID, active bool) (*users.UserDTO, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			gotActive = &active
			return &users.UserDTO{ID: uid, IsActive: active}, nil
		},
	}

	body := strings.NewReader(`{"active":false}`)
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/users/"+userID.String()+"/active", body)
	req = addRouteParam(req, "userId", userID.String())
	resp := httptest.NewRecorder()
	AdminSetUserActive(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotActive == nil || *gotActive {
		t.Fatalf("expected deactivation, got %v", gotActive)
	}
}

func TestAdminSetUserActiveRequiresFlag(t *testing.T) {
	body := strings.NewReader(`{}`)
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/users/"+uuid.NewString()+"/active", body)
	req = addRouteParam(req, "userId", uuid.NewString())
	resp := httptest.NewRecorder()
	AdminSetUserActive(&testAdminService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminSalonsForwardsCityFilter(t *testing.T) {
	var captured admin.ListSalonsInput
	svc := &testAdminService{
		listSalonsFn: func(ctx context.Context, input admin.ListSalonsInput) (*admin.SalonListResult, error) {
			captured = input
			return &admin.SalonListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/salons?city=Leiden", nil)
	resp := httptest.NewRecorder()
	AdminSalons(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if captured.City != "Leiden" {
		t.Fatalf("city not forwarded: %+v", captured)
	}
}

func TestAdminSetSalonActiveInvalidID(t *testing.T) {
	body := strings.NewReader(`{"active":true}`)
	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/salons/nope/active", body)
	req = addRouteParam(req, "salonId", "nope")
	resp := httptest.NewRecorder()
	AdminSetSalonActive(&testAdminService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
