package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/salonora/salonora-backend/api/responses"
	"github.com/salonora/salonora-backend/api/validators"
	"github.com/salonora/salonora-backend/internal/catalog"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/logger"
)

const maxCatalogPageSize = 100

// SalonServiceCreate adds a catalog entry to the active salon.
func SalonServiceCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
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

		var body catalog.CreateServiceInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), actor, salonID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// SalonServiceUpdate mutates a catalog entry of the active salon.
func SalonServiceUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
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

		serviceID, err := pathUUID(r, "serviceId", "service id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body catalog.UpdateServiceInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), actor, salonID, serviceID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, updated)
	}
}

// SalonServiceDeactivate retires a catalog entry without deleting history.
func SalonServiceDeactivate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
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

		serviceID, err := pathUUID(r, "serviceId", "service id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), actor, salonID, serviceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// PublicSalonServices lists bookable services of one salon for the public site.
func PublicSalonServices(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		salonID, err := pathUUID(r, "salonId", "salon id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxCatalogPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := catalog.ListInput{
			SalonID:       salonID,
			Category:      strings.TrimSpace(r.URL.Query().Get("category")),
			Query:         strings.TrimSpace(r.URL.Query().Get("q")),
			ActiveOnly:    true,
			BoostPromoted: true,
			Limit:         limit,
			Cursor:        strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SalonServices lists the active salon's catalog for staff, inactive included on request.
func SalonServices(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		salonID, err := requireSalon(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, maxCatalogPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		activeOnly := true
		if raw := strings.TrimSpace(r.URL.Query().Get("activeOnly")); raw != "" {
			value, err := strconv.ParseBool(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid activeOnly value"))
				return
			}
			activeOnly = value
		}

		input := catalog.ListInput{
			SalonID:    salonID,
			Category:   strings.TrimSpace(r.URL.Query().Get("category")),
			Query:      strings.TrimSpace(r.URL.Query().Get("q")),
			ActiveOnly: activeOnly,
			Limit:      limit,
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		result, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// PublicServiceDetail resolves one catalog entry for the public site.
func PublicServiceDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		serviceID, err := pathUUID(r, "serviceId", "service id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), serviceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, detail)
	}
}
