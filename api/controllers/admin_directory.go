package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/salonora/salonora-backend/api/responses"
	"github.com/salonora/salonora-backend/api/validators"
	"github.com/salonora/salonora-backend/internal/admin"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/logger"
)

const maxAdminPageSize = 100

func parseActiveOnly(r *http.Request) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("activeOnly"))
	if raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activeOnly value")
	}
	return value, nil
}

// AdminUsers pages through the platform user roster.
func AdminUsers(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxAdminPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeOnly, err := parseActiveOnly(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListUsers(r.Context(), admin.ListUsersInput{
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
			ActiveOnly: activeOnly,
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

type activeToggleRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// AdminSetUserActive enables or disables a platform account.
func AdminSetUserActive(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		userID, err := pathUUID(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body activeToggleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.SetUserActive(r.Context(), userID, *body.Active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, user)
	}
}

// AdminSalons pages through the platform salon roster.
func AdminSalons(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxAdminPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeOnly, err := parseActiveOnly(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListSalons(r.Context(), admin.ListSalonsInput{
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
			City:       strings.TrimSpace(r.URL.Query().Get("city")),
			ActiveOnly: activeOnly,
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminSetSalonActive enables or disables a salon across the platform.
func AdminSetSalonActive(svc admin.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "admin service unavailable"))
			return
		}

		salonID, err := pathUUID(r, "salonId", "salon id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body activeToggleRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		salon, err := svc.SetSalonActive(r.Context(), salonID, *body.Active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, salon)
	}
}
