package ratings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/appointments"
	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/internal/notifications"
	"github.com/salonora/salonora-backend/internal/users"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/outbox/payloads"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Service manages the rating submission and moderation workflow.
type Service interface {
	Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*RatingDTO, error)
	ListApproved(ctx context.Context, salonID uuid.UUID, limit int, cursor string) (*ListResult, error)
	ListPending(ctx context.Context, limit int, cursor string) (*ListResult, error)
	ListForSalonStaff(ctx context.Context, actorID, salonID uuid.UUID, limit int, cursor string) (*ListResult, error)
	Moderate(ctx context.Context, moderatorID, ratingID uuid.UUID, input ModerateInput) (*RatingDTO, error)
	Respond(ctx context.Context, actorID, salonID, ratingID uuid.UUID, body string) (*ResponseDTO, error)
	Stats(ctx context.Context, salonID uuid.UUID) (*StatsDTO, error)
}

// ListResult wraps returned ratings and the cursor for the next page.
type ListResult struct {
	Items  []RatingDTO `json:"items"`
	Cursor string      `json:"cursor"`
}

// ServiceParams bundles rating service dependencies.
type ServiceParams struct {
	DB     *db.Client
	Outbox *outbox.Service
	Now    func() time.Time
}

type service struct {
	db     *db.Client
	outbox *outbox.Service
	now    func() time.Time
}

// NewService wires rating dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{db: params.DB, outbox: params.Outbox, now: now}, nil
}

// Submit files a new rating in pending status. A rating scoped to an
// appointment requires that appointment to be completed and owned by the
// caller; an unscoped rating requires at least one completed appointment at
// the salon. Each appointment carries at most one rating.
func (s *service) Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*RatingDTO, error) {
	if input.SalonID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salon id required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	for category, score := range input.CategoryScores {
		if score < 1 || score > 5 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("category %s score must be between 1 and 5", category))
		}
	}

	now := s.now().UTC()
	var created *models.SalonRating
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		appointmentRepo := appointments.NewRepository(tx)

		if input.AppointmentID != nil {
			appointment, err := appointmentRepo.FindByID(ctx, *input.AppointmentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
			}
			if appointment.CustomerUserID == nil || *appointment.CustomerUserID != customerID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "appointment belongs to another customer")
			}
			if appointment.SalonID != input.SalonID {
				return pkgerrors.New(pkgerrors.CodeValidation, "appointment belongs to another salon")
			}
			if appointment.Status != enums.AppointmentStatusCompleted {
				return pkgerrors.New(pkgerrors.CodeConflict, "appointment is not completed")
			}
		} else {
			completed, err := appointmentRepo.HasCompletedForCustomer(ctx, input.SalonID, customerID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check completed appointments")
			}
			if !completed {
				return pkgerrors.New(pkgerrors.CodeConflict, "no completed appointment at salon")
			}
			exists, err := repo.HasForCustomer(ctx, input.SalonID, customerID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing rating")
			}
			if exists {
				return pkgerrors.New(pkgerrors.CodeConflict, "salon already rated")
			}
		}

		rating := &models.SalonRating{
			SalonID:        input.SalonID,
			CustomerUserID: customerID,
			AppointmentID:  input.AppointmentID,
			Rating:         input.Rating,
			CategoryScores: input.CategoryScores,
			Comment:        input.Comment,
			Status:         enums.RatingStatusPending,
		}
		if err := repo.Create(ctx, rating); err != nil {
			if db.IsUniqueViolation(err, "appointment_id") {
				return pkgerrors.New(pkgerrors.CodeConflict, "appointment already rated")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rating")
		}

		salonID := rating.SalonID
		event := outbox.DomainEvent{
			EventType:     enums.EventRatingSubmitted,
			AggregateType: enums.AggregateRating,
			AggregateID:   rating.ID,
			Actor:         &outbox.ActorRef{UserID: customerID, SalonID: &salonID},
			Data: payloads.RatingSubmitted{
				RatingID:       rating.ID,
				SalonID:        rating.SalonID,
				CustomerUserID: customerID,
				Rating:         rating.Rating,
			},
			Version:    1,
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit rating event")
		}

		created = rating
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) ListApproved(ctx context.Context, salonID uuid.UUID, limit int, cursor string) (*ListResult, error) {
	status := enums.RatingStatusApproved
	return s.list(ctx, ListParams{SalonID: &salonID, Status: &status, Limit: limit}, cursor, true)
}

func (s *service) ListPending(ctx context.Context, limit int, cursor string) (*ListResult, error) {
	status := enums.RatingStatusPending
	return s.list(ctx, ListParams{Status: &status, Limit: limit}, cursor, false)
}

func (s *service) ListForSalonStaff(ctx context.Context, actorID, salonID uuid.UUID, limit int, cursor string) (*ListResult, error) {
	var result *ListResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwnerOrManager(ctx, tx, actorID, salonID); err != nil {
			return err
		}
		res, err := s.listWith(ctx, tx, ListParams{SalonID: &salonID, Limit: limit}, cursor, true)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) list(ctx context.Context, params ListParams, cursor string, withResponses bool) (*ListResult, error) {
	var result *ListResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.listWith(ctx, tx, params, cursor, withResponses)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) listWith(ctx context.Context, tx *gorm.DB, params ListParams, cursor string, withResponses bool) (*ListResult, error) {
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = parsed
	}

	repo := NewRepository(tx)
	rows, next, err := repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list ratings")
	}

	items := make([]RatingDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i])
		if withResponses {
			response, err := repo.FindResponse(ctx, rows[i].ID)
			if err == nil {
				dto.Response = ResponseFromModel(response)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating response")
			}
		}
		items = append(items, *dto)
	}

	encoded := ""
	if next != nil {
		encoded = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: items, Cursor: encoded}, nil
}

// Moderate finalizes a pending rating. Approval and rejection are terminal;
// rejection requires a reason. The decision notifies the rating's author.
func (s *service) Moderate(ctx context.Context, moderatorID, ratingID uuid.UUID, input ModerateInput) (*RatingDTO, error) {
	to := enums.RatingStatusApproved
	if !input.Approve {
		to = enums.RatingStatusRejected
		if input.RejectReason == nil || strings.TrimSpace(*input.RejectReason) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "reject reason is required")
		}
	}

	now := s.now().UTC()
	var moderated *models.SalonRating
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		rating, err := repo.FindByID(ctx, ratingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
		}
		if rating.CustomerUserID == moderatorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "cannot moderate your own review")
		}
		if err := requireModerator(ctx, tx, moderatorID, rating.SalonID); err != nil {
			return err
		}

		var rejectReason *string
		if to == enums.RatingStatusRejected {
			rejectReason = input.RejectReason
		}
		if err := repo.Moderate(ctx, ratingID, to, rejectReason, moderatorID, now); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "rating already moderated")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "moderate rating")
		}

		rating.Status = to
		rating.RejectReason = rejectReason
		rating.ModeratedByUserID = &moderatorID
		rating.ModeratedAt = &now

		message := "Your review was approved and is now visible."
		if to == enums.RatingStatusRejected {
			message = fmt.Sprintf("Your review was rejected: %s", *rejectReason)
		}
		notification := &models.Notification{
			UserID:  rating.CustomerUserID,
			Type:    enums.NotificationTypeRatingModerated,
			Title:   "Review moderated",
			Message: message,
		}
		if err := notifications.NewRepository(tx).Create(ctx, notification); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notify author")
		}

		salonID := rating.SalonID
		event := outbox.DomainEvent{
			EventType:     enums.EventRatingModerated,
			AggregateType: enums.AggregateRating,
			AggregateID:   rating.ID,
			Actor:         &outbox.ActorRef{UserID: moderatorID, SalonID: &salonID},
			Data: payloads.RatingModerated{
				RatingID:       rating.ID,
				SalonID:        rating.SalonID,
				CustomerUserID: rating.CustomerUserID,
				Status:         string(to),
				RejectReason:   rejectReason,
			},
			Version:    1,
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit moderation event")
		}

		moderated = rating
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(moderated), nil
}

// Respond attaches the salon's single reply to an approved rating.
func (s *service) Respond(ctx context.Context, actorID, salonID, ratingID uuid.UUID, body string) (*ResponseDTO, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "response body is required")
	}

	var created *models.SalonRatingResponse
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := requireOwnerOrManager(ctx, tx, actorID, salonID); err != nil {
			return err
		}

		repo := NewRepository(tx)
		rating, err := repo.FindByID(ctx, ratingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "rating not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rating")
		}
		if rating.SalonID != salonID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "rating belongs to another salon")
		}
		if rating.Status != enums.RatingStatusApproved {
			return pkgerrors.New(pkgerrors.CodeConflict, "rating is not approved")
		}

		response := &models.SalonRatingResponse{
			RatingID:        ratingID,
			ResponderUserID: actorID,
			Body:            body,
		}
		if err := repo.CreateResponse(ctx, response); err != nil {
			if db.IsUniqueViolation(err, "rating_id") {
				return pkgerrors.New(pkgerrors.CodeConflict, "rating already has a response")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create response")
		}
		created = response
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ResponseFromModel(created), nil
}

// Stats aggregates the approved ratings of a salon. Pending and rejected
// ratings never contribute.
func (s *service) Stats(ctx context.Context, salonID uuid.UUID) (*StatsDTO, error) {
	var stats *StatsDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		count, average, err := repo.ApprovedStats(ctx, salonID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate ratings")
		}

		rows, err := repo.ApprovedForStats(ctx, salonID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved ratings")
		}

		stats = &StatsDTO{
			SalonID:       salonID,
			Count:         count,
			Average:       average,
			Distribution:  starDistribution(rows),
			CategoryMeans: categoryMeans(rows),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// starDistribution buckets approved ratings per stars value. All five
// buckets are always present so clients can render empty bars.
func starDistribution(rows []models.SalonRating) map[int]int64 {
	dist := map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	for i := range rows {
		if stars := rows[i].Rating; stars >= 1 && stars <= 5 {
			dist[stars]++
		}
	}
	return dist
}

func categoryMeans(rows []models.SalonRating) map[string]float64 {
	sums := map[string]int{}
	counts := map[string]int{}
	for i := range rows {
		for category, score := range rows[i].CategoryScores {
			sums[category] += score
			counts[category]++
		}
	}
	if len(sums) == 0 {
		return nil
	}
	means := make(map[string]float64, len(sums))
	for category, sum := range sums {
		means[category] = float64(sum) / float64(counts[category])
	}
	return means
}

// requireModerator admits platform admins and active staff of the rating's
// salon.
func requireModerator(ctx context.Context, tx *gorm.DB, moderatorID, salonID uuid.UUID) error {
	moderator, err := users.NewRepository(tx).FindByID(ctx, moderatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "moderator not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load moderator")
	}
	if moderator.SystemRole != nil && *moderator.SystemRole == string(enums.MemberRoleAdmin) {
		return nil
	}
	ok, err := memberships.NewRepository(tx).UserHasRole(ctx, moderatorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager, enums.MemberRoleEmployee)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "moderator must be salon staff")
	}
	return nil
}

func requireOwnerOrManager(ctx context.Context, tx *gorm.DB, actorID, salonID uuid.UUID) error {
	ok, err := memberships.NewRepository(tx).UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
	}
	return nil
}
