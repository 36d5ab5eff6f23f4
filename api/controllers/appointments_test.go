package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/api/middleware"
	"github.com/salonora/salonora-backend/internal/appointments"
	"github.com/salonora/salonora-backend/pkg/enums"
)

type testAppointmentsService struct {
	bookFn            func(ctx context.Context, customerID uuid.UUID, input appointments.BookInput) (*appointments.AppointmentDTO, error)
	bookWalkInFn      func(ctx context.Context, actorID, salonID uuid.UUID, input appointments.WalkInInput) (*appointments.AppointmentDTO, error)
	getFn             func(ctx context.Context, actorID, appointmentID uuid.UUID) (*appointments.AppointmentDTO, error)
	listForSalonFn    func(ctx context.Context, actorID, salonID uuid.UUID, input appointments.ListInput) (*appointments.ListResult, error)
	listForCustomerFn func(ctx context.Context, customerID uuid.UUID, input appointments.ListInput) (*appointments.ListResult, error)
	updateStatusFn    func(ctx context.Context, actorID, salonID, appointmentID uuid.UUID, to enums.AppointmentStatus) (*appointments.AppointmentDTO, error)
	cancelFn          func(ctx context.Context, actorID, appointmentID uuid.UUID, reason string) (*appointments.AppointmentDTO, error)
	reviewEligibleFn  func(ctx context.Context, actorID, appointmentID uuid.UUID) (bool, error)
}

func (s *testAppointmentsService) Book(ctx context.Context, customerID uuid.UUID, input appointments.BookInput) (*appointments.AppointmentDTO, error) {
	if s.bookFn != nil {
		return s.bookFn(ctx, customerID, input)
	}
	return &appointments.AppointmentDTO{ID: uuid.New()}, nil
}

func (s *testAppointmentsService) BookWalkIn(ctx context.Context, actorID, salonID uuid.UUID, input appointments.WalkInInput) (*appointments.AppointmentDTO, error) {
	if s.bookWalkInFn != nil {
		return s.bookWalkInFn(ctx, actorID, salonID, input)
	}
	return &appointments.AppointmentDTO{ID: uuid.New()}, nil
}

func (s *testAppointmentsService) Get(ctx context.Context, actorID, appointmentID uuid.UUID) (*appointments.AppointmentDTO, error) {
	if s.getFn != nil {
		return s.getFn(ctx, actorID, appointmentID)
	}
	return &appointments.AppointmentDTO{ID: appointmentID}, nil
}

func (s *testAppointmentsService) ListForSalon(ctx context.Context, actorID, salonID uuid.UUID, input appointments.ListInput) (*appointments.ListResult, error) {
	if s.listForSalonFn != nil {
		return s.listForSalonFn(ctx, actorID, salonID, input)
	}
	return &appointments.ListResult{}, nil
}

func (s *testAppointmentsService) ListForCustomer(ctx context.Context, customerID uuid.UUID, input appointments.ListInput) (*appointments.ListResult, error) {
	if s.listForCustomerFn != nil {
		return s.listForCustomerFn(ctx, customerID, input)
	}
	return &appointments.ListResult{}, nil
}

func (s *testAppointmentsService) UpdateStatus(ctx context.Context, actorID, salonID, appointmentID uuid.UUID, to enums.AppointmentStatus) (*appointments.AppointmentDTO, error) {
	if s.updateStatusFn != nil {
		return s.updateStatusFn(ctx, actorID, salonID, appointmentID, to)
	}
	return &appointments.AppointmentDTO{ID: appointmentID, Status: to}, nil
}

func (s *testAppointmentsService) Cancel(ctx context.Context, actorID, appointmentID uuid.UUID, reason string) (*appointments.AppointmentDTO, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, actorID, appointmentID, reason)
	}
	return &appointments.AppointmentDTO{ID: appointmentID}, nil
}

func (s *testAppointmentsService) ReviewEligible(ctx context.Context, actorID, appointmentID uuid.UUID) (bool, error) {
	if s.reviewEligibleFn != nil {
		return s.reviewEligibleFn(ctx, actorID, appointmentID)
	}
	return false, nil
}

func TestAppointmentBookCreated(t *testing.T) {
	customerID := uuid.New()
	salonID := uuid.New()
	serviceID := uuid.New()
	startAt := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)

	var captured appointments.BookInput
	svc := &testAppointmentsService{
		bookFn: func(ctx context.Context, cid uuid.UUID, input appointments.BookInput) (*appointments.AppointmentDTO, error) {
			if cid != customerID {
				t.Fatalf("unexpected customer %s", cid)
			}
			captured = input
			return &appointments.AppointmentDTO{ID: uuid.New(), SalonID: input.SalonID}, nil
		},
	}

	body := strings.NewReader(`{"salon_id":"` + salonID.String() + `","service_id":"` + serviceID.String() + `","start_at":"` + startAt.Format(time.RFC3339) + `"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), customerID.String()))
	resp := httptest.NewRecorder()
	AppointmentBook(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.SalonID != salonID || captured.ServiceID != serviceID {
		t.Fatalf("booking input not forwarded: %+v", captured)
	}
	if !captured.StartAt.Equal(startAt) {
		t.Fatalf("start time mangled: %s vs %s", captured.StartAt, startAt)
	}
}

func TestAppointmentBookRequiresAuth(t *testing.T) {
	body := strings.NewReader(`{"salon_id":"` + uuid.NewString() + `","service_id":"` + uuid.NewString() + `","start_at":"2026-09-01T10:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", body)
	resp := httptest.NewRecorder()
	AppointmentBook(&testAppointmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAppointmentWalkInUsesSalonContext(t *testing.T) {
	actorID := uuid.New()
	salonID := uuid.New()
	serviceID := uuid.New()

	svc := &testAppointmentsService{
		bookWalkInFn: func(ctx context.Context, aid, sid uuid.UUID, input appointments.WalkInInput) (*appointments.AppointmentDTO, error) {
			if aid != actorID || sid != salonID {
				t.Fatalf("unexpected actor %s salon %s", aid, sid)
			}
			if input.CustomerName != "Walk In" {
				t.Fatalf("unexpected customer name %q", input.CustomerName)
			}
			return &appointments.AppointmentDTO{ID: uuid.New()}, nil
		},
	}

	body := strings.NewReader(`{"service_id":"` + serviceID.String() + `","customer_name":"Walk In","start_at":"2026-09-01T10:00:00Z"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/salon/appointments/walk-in", body)
	req = withSalonActor(req, actorID, salonID)
	resp := httptest.NewRecorder()
	AppointmentWalkIn(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSalonAppointmentsParsesWindow(t *testing.T) {
	actorID := uuid.New()
	salonID := uuid.New()
	var captured appointments.ListInput
	svc := &testAppointmentsService{
		listForSalonFn: func(ctx context.Context, aid, sid uuid.UUID, input appointments.ListInput) (*appointments.ListResult, error) {
			captured = input
			return &appointments.ListResult{}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/salon/appointments?status=confirmed&from=2026-09-01T00:00:00Z&to=2026-09-08T00:00:00Z&limit=10", nil)
	req = withSalonActor(req, actorID, salonID)
	resp := httptest.NewRecorder()
	SalonAppointments(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if captured.Status == nil || *captured.Status != enums.AppointmentStatusConfirmed {
		t.Fatalf("status filter not parsed: %+v", captured.Status)
	}
	if captured.From == nil || captured.To == nil {
		t.Fatal("expected time window parsed")
	}
	if captured.Limit != 10 {
		t.Fatalf("unexpected limit %d", captured.Limit)
	}
}

func TestSalonAppointmentsRejectsBadStatus(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/salon/appointments?status=teleported", nil)
	req = withSalonActor(req, uuid.New(), uuid.New())
	resp := httptest.NewRecorder()
	SalonAppointments(&testAppointmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAppointmentUpdateStatusParsesTarget(t *testing.T) {
	actorID := uuid.New()
	salonID := uuid.New()
	appointmentID := uuid.New()
	var gotStatus enums.AppointmentStatus
	svc := &testAppointmentsService{
		updateStatusFn: func(ctx context.Context, aid, sid, apid uuid.UUID, to enums.AppointmentStatus) (*appointments.AppointmentDTO, error) {
			if aid != actorID || sid != salonID || apid != appointmentID {
				t.Fatalf("unexpected args %s %s %s", aid, sid, apid)
			}
			gotStatus = to
			return &appointments.AppointmentDTO{ID: apid, Status: to}, nil
		},
	}

	body := strings.NewReader(`{"status":"completed"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/salon/appointments/"+appointmentID.String()+"/status", body)
	req = withSalonActor(req, actorID, salonID)
	req = addRouteParam(req, "appointmentId", appointmentID.String())
	resp := httptest.NewRecorder()
	AppointmentUpdateStatus(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotStatus != enums.AppointmentStatusCompleted {
		t.Fatalf("unexpected target status %q", gotStatus)
	}
}

func TestAppointmentCancelForwardsReason(t *testing.T) {
	actorID := uuid.New()
	appointmentID := uuid.New()
	var gotReason string
	svc := &testAppointmentsService{
		cancelFn: func(ctx context.Context, aid, apid uuid.UUID, reason string) (*appointments.AppointmentDTO, error) {
			if aid != actorID || apid != appointmentID {
				t.Fatalf("unexpected args %s %s", aid, apid)
			}
			gotReason = reason
			return &appointments.AppointmentDTO{ID: apid}, nil
		},
	}

	body := strings.NewReader(`{"reason":"double booked"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/"+appointmentID.String()+"/cancel", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	req = addRouteParam(req, "appointmentId", appointmentID.String())
	resp := httptest.NewRecorder()
	AppointmentCancel(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if gotReason != "double booked" {
		t.Fatalf("unexpected reason %q", gotReason)
	}
}

func TestAppointmentReviewEligibilityEnvelope(t *testing.T) {
	actorID := uuid.New()
	appointmentID := uuid.New()
	svc := &testAppointmentsService{
		reviewEligibleFn: func(ctx context.Context, aid, apid uuid.UUID) (bool, error) {
			if aid != actorID || apid != appointmentID {
				t.Fatalf("unexpected args %s %s", aid, apid)
			}
			return true, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/"+appointmentID.String()+"/review-eligibility", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), actorID.String()))
	req = addRouteParam(req, "appointmentId", appointmentID.String())
	resp := httptest.NewRecorder()
	AppointmentReviewEligibility(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), `"eligible":true`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
