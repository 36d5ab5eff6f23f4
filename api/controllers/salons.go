package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/salonora/salonora-backend/api/responses"
	"github.com/salonora/salonora-backend/api/validators"
	"github.com/salonora/salonora-backend/internal/salons"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/logger"
	"github.com/salonora/salonora-backend/pkg/types"
)

const maxSearchPageSize = 100

// SalonProfile returns the active salon's profile using the salon-scoped JWT.
func SalonProfile(svc salons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salon service unavailable"))
			return
		}

		salonID, err := requireSalon(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetByID(r.Context(), salonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

type salonUpdateRequest struct {
	Name        *string               `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string               `json:"description,omitempty"`
	Phone       *string               `json:"phone,omitempty"`
	Email       *string               `json:"email,omitempty" validate:"omitempty,email"`
	AddressLine *string               `json:"address_line,omitempty"`
	City        *string               `json:"city,omitempty"`
	PostalCode  *string               `json:"postal_code,omitempty"`
	Schedule    *types.WeeklySchedule `json:"schedule,omitempty"`
	LogoURL     *string               `json:"logo_url,omitempty"`
}

func (r salonUpdateRequest) toInput() salons.UpdateSalonInput {
	return salons.UpdateSalonInput{
		Name:        r.Name,
		Description: r.Description,
		Phone:       r.Phone,
		Email:       r.Email,
		AddressLine: r.AddressLine,
		City:        r.City,
		PostalCode:  r.PostalCode,
		Schedule:    r.Schedule,
		LogoURL:     r.LogoURL,
	}
}

// SalonUpdate adjusts the allowed mutable fields for the active salon.
func SalonUpdate(svc salons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salon service unavailable"))
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

		var payload salonUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Update(r.Context(), actor, salonID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}

// SalonStaff returns the membership roster for the active salon.
func SalonStaff(svc salons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salon service unavailable"))
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

		staff, err := svc.ListStaff(r.Context(), actor, salonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, staff)
	}
}

type staffRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SalonUpdateStaffRole changes a staff member's role within the active salon.
func SalonUpdateStaffRole(svc salons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salon service unavailable"))
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

		targetID, err := pathUUID(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload staffRoleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseMemberRole(payload.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		if err := svc.UpdateStaffRole(r.Context(), actor, salonID, targetID, role); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// SalonRemoveStaff deletes a membership for the provided user ID.
func SalonRemoveStaff(svc salons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salon service unavailable"))
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

		targetID, err := pathUUID(r, "userId", "user id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveStaff(r.Context(), actor, salonID, targetID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// PublicSalonSearch lists salons for the customer-facing directory.
func PublicSalonSearch(svc salons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salon service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxSearchPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := salons.SearchInput{
			Query:  strings.TrimSpace(r.URL.Query().Get("q")),
			City:   strings.TrimSpace(r.URL.Query().Get("city")),
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		result, err := svc.Search(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PublicSalonBySlug resolves one salon profile for the public site.
func PublicSalonBySlug(svc salons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "salon service unavailable"))
			return
		}

		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required"))
			return
		}

		profile, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, profile)
	}
}
