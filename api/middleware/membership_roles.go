package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/salonora/salonora-backend/api/responses"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/logger"
)

type MembershipChecker interface {
	UserHasRole(ctx context.Context, userID, salonID uuid.UUID, roles ...enums.MemberRole) (bool, error)
}

// RequireSalonRoles filters requests by salon membership roles before executing the handler.
func RequireSalonRoles(checker MembershipChecker, logg *logger.Logger, allowed ...enums.MemberRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if checker == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "membership checker unavailable"))
				return
			}
			if len(allowed) == 0 {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "allowed roles missing"))
				return
			}

			userID := UserIDFromContext(ctx)
			if userID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
				return
			}

			salonID := SalonIDFromContext(ctx)
			if salonID == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "salon context required"))
				return
			}

			uid, err := uuid.Parse(userID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
				return
			}

			sid, err := uuid.Parse(salonID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid salon id"))
				return
			}

			ok, err := checker.UserHasRole(ctx, uid, sid, allowed...)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership role"))
				return
			}
			if !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
