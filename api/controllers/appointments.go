package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/salonora/salonora-backend/api/responses"
	"github.com/salonora/salonora-backend/api/validators"
	"github.com/salonora/salonora-backend/internal/appointments"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/logger"
)

const maxAppointmentPageSize = 100

func parseAppointmentListInput(r *http.Request) (appointments.ListInput, error) {
	limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxAppointmentPageSize)
	if err != nil {
		return appointments.ListInput{}, err
	}

	input := appointments.ListInput{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseAppointmentStatus(raw)
		if err != nil {
			return appointments.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = &status
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return appointments.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "from must be RFC3339")
		}
		input.From = &from
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return appointments.ListInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "to must be RFC3339")
		}
		input.To = &to
	}

	return input, nil
}

// AppointmentBook creates an appointment for the authenticated customer.
func AppointmentBook(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body appointments.BookInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booked, err := svc.Book(r.Context(), actor, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, booked)
	}
}

// AppointmentWalkIn registers an offline customer booking for the active salon.
func AppointmentWalkIn(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		salonID, err := requireSalon(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body appointments.WalkInInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booked, err := svc.BookWalkIn(r.Context(), actor, salonID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, booked)
	}
}

// AppointmentDetail returns one appointment the actor can see.
func AppointmentDetail(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := pathUUID(r, "appointmentId", "appointment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), actor, appointmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}

// SalonAppointments lists the active salon's bookings for staff.
func SalonAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		salonID, err := requireSalon(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parseAppointmentListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListForSalon(r.Context(), actor, salonID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// CustomerAppointments lists the authenticated customer's bookings.
func CustomerAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := parseAppointmentListInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListForCustomer(r.Context(), actor, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type appointmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// AppointmentUpdateStatus moves a booking through its lifecycle.
func AppointmentUpdateStatus(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		salonID, err := requireSalon(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := pathUUID(r, "appointmentId", "appointment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body appointmentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAppointmentStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		updated, err := svc.UpdateStatus(r.Context(), actor, salonID, appointmentID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

type appointmentCancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// AppointmentCancel cancels a booking on behalf of customer or staff.
func AppointmentCancel(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := pathUUID(r, "appointmentId", "appointment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body appointmentCancelRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cancelled, err := svc.Cancel(r.Context(), actor, appointmentID, strings.TrimSpace(body.Reason))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cancelled)
	}
}

// AppointmentReviewEligibility reports whether the caller can still review a
// completed appointment.
func AppointmentReviewEligibility(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "appointments service unavailable"))
			return
		}

		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := pathUUID(r, "appointmentId", "appointment id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		eligible, err := svc.ReviewEligible(r.Context(), actor, appointmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"eligible": eligible})
	}
}
