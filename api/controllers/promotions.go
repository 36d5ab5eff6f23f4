package controllers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/api/responses"
	"github.com/salonora/salonora-backend/api/validators"
	"github.com/salonora/salonora-backend/internal/promotions"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/logger"
)

const defaultAnalyticsWindow = 30 * 24 * time.Hour

// AdminPromotionPlanCreate defines a new promotion tier.
func AdminPromotionPlanCreate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}

		var body promotions.CreatePlanInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.CreatePlan(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, plan)
	}
}

// AdminPromotionPlanUpdate mutates an existing promotion tier.
func AdminPromotionPlanUpdate(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}

		planID, err := pathUUID(r, "planId", "plan id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body promotions.UpdatePlanInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		plan, err := svc.UpdatePlan(r.Context(), planID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, plan)
	}
}

// PromotionPlans lists promotion tiers, active ones only unless asked otherwise.
func PromotionPlans(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
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

		plans, err := svc.ListPlans(r.Context(), activeOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, plans)
	}
}

// PromotionPurchase buys a promotion slot for one of the salon's services.
func PromotionPurchase(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
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

		var body promotions.PurchaseInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promotion, err := svc.Purchase(r.Context(), actor, salonID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, promotion)
	}
}

// SalonPromotions lists the active salon's purchased promotions.
func SalonPromotions(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
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

		items, err := svc.ListForSalon(r.Context(), actor, salonID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, items)
	}
}

// PromotionCancel stops a running promotion early.
func PromotionCancel(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
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

		promotionID, err := pathUUID(r, "promotionId", "promotion id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Cancel(r.Context(), actor, salonID, promotionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, nil)
	}
}

// PromotionAnalytics reports daily counters for one promotion.
func PromotionAnalytics(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
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

		promotionID, err := pathUUID(r, "promotionId", "promotion id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		to := time.Now().UTC()
		from := to.Add(-defaultAnalyticsWindow)
		if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "from must be RFC3339"))
				return
			}
			from = parsed
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
			parsed, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "to must be RFC3339"))
				return
			}
			to = parsed
		}
		if from.After(to) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "from must precede to"))
			return
		}

		report, err := svc.Analytics(r.Context(), actor, salonID, promotionID, from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

// PromotionTrackImpression counts one search listing render.
func PromotionTrackImpression(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return promotionTracker(svc, logg, promotions.Service.RecordImpression)
}

// PromotionTrackClick counts one tap-through on a promoted service.
func PromotionTrackClick(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return promotionTracker(svc, logg, promotions.Service.RecordClick)
}

// PromotionTrackBooking counts one booking attributed to a promotion.
func PromotionTrackBooking(svc promotions.Service, logg *logger.Logger) http.HandlerFunc {
	return promotionTracker(svc, logg, promotions.Service.RecordBooking)
}

func promotionTracker(svc promotions.Service, logg *logger.Logger, record func(promotions.Service, context.Context, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "promotions service unavailable"))
			return
		}

		promotionID, err := pathUUID(r, "promotionId", "promotion id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := record(svc, r.Context(), promotionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusAccepted, nil)
	}
}
