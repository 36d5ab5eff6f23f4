package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/internal/catalog"
	"github.com/salonora/salonora-backend/internal/memberships"
	"github.com/salonora/salonora-backend/pkg/db"
	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	pkgerrors "github.com/salonora/salonora-backend/pkg/errors"
	"github.com/salonora/salonora-backend/pkg/outbox"
	"github.com/salonora/salonora-backend/pkg/outbox/payloads"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Service manages the appointment lifecycle.
type Service interface {
	Book(ctx context.Context, customerID uuid.UUID, input BookInput) (*AppointmentDTO, error)
	BookWalkIn(ctx context.Context, actorID, salonID uuid.UUID, input WalkInInput) (*AppointmentDTO, error)
	Get(ctx context.Context, actorID, appointmentID uuid.UUID) (*AppointmentDTO, error)
	ListForSalon(ctx context.Context, actorID, salonID uuid.UUID, input ListInput) (*ListResult, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListInput) (*ListResult, error)
	UpdateStatus(ctx context.Context, actorID, salonID, appointmentID uuid.UUID, to enums.AppointmentStatus) (*AppointmentDTO, error)
	Cancel(ctx context.Context, actorID, appointmentID uuid.UUID, reason string) (*AppointmentDTO, error)
	ReviewEligible(ctx context.Context, actorID, appointmentID uuid.UUID) (bool, error)
}

// ListInput configures an appointment listing request.
type ListInput struct {
	Status *enums.AppointmentStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Cursor string
}

// ListResult wraps returned appointments and the cursor for the next page.
type ListResult struct {
	Items  []AppointmentDTO `json:"items"`
	Cursor string           `json:"cursor"`
}

// ServiceParams bundles appointment service dependencies.
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

// NewService wires appointment dependencies.
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

func (s *service) Book(ctx context.Context, customerID uuid.UUID, input BookInput) (*AppointmentDTO, error) {
	if input.SalonID == uuid.Nil || input.ServiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "salon and service are required")
	}
	now := s.now().UTC()
	if !input.StartAt.After(now) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start time must be in the future")
	}

	var created *models.Appointment
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		svc, err := s.loadBookableService(ctx, tx, input.SalonID, input.ServiceID)
		if err != nil {
			return err
		}
		if !svc.IsAppBookable {
			return pkgerrors.New(pkgerrors.CodeValidation, "service is not bookable online")
		}

		appointment := &models.Appointment{
			SalonID:         input.SalonID,
			ServiceID:       input.ServiceID,
			EmployeeUserID:  input.EmployeeUserID,
			CustomerUserID:  &customerID,
			StartAt:         input.StartAt.UTC(),
			DurationMinutes: svc.DurationMinutes,
			Status:          enums.AppointmentStatusPending,
			Notes:           input.Notes,
		}
		if err := NewRepository(tx).Create(ctx, appointment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create appointment")
		}
		if err := s.emitStatusChanged(ctx, tx, appointment, "", customerID, now); err != nil {
			return err
		}
		created = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) BookWalkIn(ctx context.Context, actorID, salonID uuid.UUID, input WalkInInput) (*AppointmentDTO, error) {
	if input.ServiceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service is required")
	}
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}

	now := s.now().UTC()
	var created *models.Appointment
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.requireStaff(ctx, tx, actorID, salonID); err != nil {
			return err
		}
		svc, err := s.loadBookableService(ctx, tx, salonID, input.ServiceID)
		if err != nil {
			return err
		}

		name := input.CustomerName
		appointment := &models.Appointment{
			SalonID:         salonID,
			ServiceID:       input.ServiceID,
			EmployeeUserID:  input.EmployeeUserID,
			CustomerName:    &name,
			CustomerPhone:   input.CustomerPhone,
			StartAt:         input.StartAt.UTC(),
			DurationMinutes: svc.DurationMinutes,
			Status:          enums.AppointmentStatusConfirmed,
			Notes:           input.Notes,
		}
		if err := NewRepository(tx).Create(ctx, appointment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create appointment")
		}
		if err := s.emitStatusChanged(ctx, tx, appointment, "", actorID, now); err != nil {
			return err
		}
		created = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, actorID, appointmentID uuid.UUID) (*AppointmentDTO, error) {
	var dto *AppointmentDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		appointment, err := s.loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if err := s.requireParticipant(ctx, tx, actorID, appointment); err != nil {
			return err
		}
		dto = FromModel(appointment)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) ListForSalon(ctx context.Context, actorID, salonID uuid.UUID, input ListInput) (*ListResult, error) {
	var result *ListResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.requireStaff(ctx, tx, actorID, salonID); err != nil {
			return err
		}
		res, err := s.list(ctx, tx, ListParams{
			SalonID: &salonID,
			Status:  input.Status,
			From:    input.From,
			To:      input.To,
			Limit:   input.Limit,
		}, input.Cursor)
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

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID, input ListInput) (*ListResult, error) {
	var result *ListResult
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		res, err := s.list(ctx, tx, ListParams{
			CustomerUserID: &customerID,
			Status:         input.Status,
			From:           input.From,
			To:             input.To,
			Limit:          input.Limit,
		}, input.Cursor)
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

func (s *service) UpdateStatus(ctx context.Context, actorID, salonID, appointmentID uuid.UUID, to enums.AppointmentStatus) (*AppointmentDTO, error) {
	if !to.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid appointment status")
	}

	now := s.now().UTC()
	var dto *AppointmentDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.requireStaff(ctx, tx, actorID, salonID); err != nil {
			return err
		}
		appointment, err := s.loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if appointment.SalonID != salonID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "appointment belongs to another salon")
		}
		dto, err = s.transition(ctx, tx, appointment, to, nil, actorID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

func (s *service) Cancel(ctx context.Context, actorID, appointmentID uuid.UUID, reason string) (*AppointmentDTO, error) {
	now := s.now().UTC()
	var dto *AppointmentDTO
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		appointment, err := s.loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if err := s.requireParticipant(ctx, tx, actorID, appointment); err != nil {
			return err
		}
		var cancelReason *string
		if reason != "" {
			cancelReason = &reason
		}
		dto, err = s.transition(ctx, tx, appointment, enums.AppointmentStatusCancelled, cancelReason, actorID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ReviewEligible reports whether the appointment is completed and not yet
// referenced by a rating.
func (s *service) ReviewEligible(ctx context.Context, actorID, appointmentID uuid.UUID) (bool, error) {
	var eligible bool
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		appointment, err := s.loadAppointment(ctx, tx, appointmentID)
		if err != nil {
			return err
		}
		if err := s.requireParticipant(ctx, tx, actorID, appointment); err != nil {
			return err
		}
		if appointment.Status != enums.AppointmentStatusCompleted {
			return nil
		}
		rated, err := NewRepository(tx).HasRating(ctx, appointmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing rating")
		}
		eligible = !rated
		return nil
	})
	if err != nil {
		return false, err
	}
	return eligible, nil
}

func (s *service) transition(ctx context.Context, tx *gorm.DB, appointment *models.Appointment, to enums.AppointmentStatus, cancelReason *string, actorID uuid.UUID, now time.Time) (*AppointmentDTO, error) {
	from := appointment.Status
	if !from.CanTransitionTo(to) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move appointment from %s to %s", from, to))
	}

	if err := NewRepository(tx).Transition(ctx, appointment.ID, from, to, cancelReason); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "appointment was updated concurrently")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transition appointment")
	}

	appointment.Status = to
	if cancelReason != nil {
		appointment.CancelReason = cancelReason
	}
	if err := s.emitStatusChanged(ctx, tx, appointment, from, actorID, now); err != nil {
		return nil, err
	}
	return FromModel(appointment), nil
}

func (s *service) emitStatusChanged(ctx context.Context, tx *gorm.DB, appointment *models.Appointment, from enums.AppointmentStatus, actorID uuid.UUID, now time.Time) error {
	salonID := appointment.SalonID
	event := outbox.DomainEvent{
		EventType:     enums.EventAppointmentUpdated,
		AggregateType: enums.AggregateAppointment,
		AggregateID:   appointment.ID,
		Actor:         &outbox.ActorRef{UserID: actorID, SalonID: &salonID},
		Data: payloads.AppointmentStatusChanged{
			AppointmentID:  appointment.ID,
			SalonID:        appointment.SalonID,
			CustomerUserID: appointment.CustomerUserID,
			FromStatus:     string(from),
			ToStatus:       string(appointment.Status),
			StartAt:        appointment.StartAt,
		},
		Version:    1,
		OccurredAt: now,
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit appointment event")
	}
	return nil
}

func (s *service) list(ctx context.Context, tx *gorm.DB, params ListParams, cursor string) (*ListResult, error) {
	if cursor != "" {
		parsed, err := pagination.ParseCursor(cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		params.Cursor = parsed
	}

	rows, next, err := NewRepository(tx).List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}

	items := make([]AppointmentDTO, 0, len(rows))
	for i := range rows {
		items = append(items, *FromModel(&rows[i]))
	}
	encoded := ""
	if next != nil {
		encoded = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: items, Cursor: encoded}, nil
}

func (s *service) loadAppointment(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Appointment, error) {
	appointment, err := NewRepository(tx).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}
	return appointment, nil
}

func (s *service) loadBookableService(ctx context.Context, tx *gorm.DB, salonID, serviceID uuid.UUID) (*models.SalonService, error) {
	svc, err := catalog.NewRepository(tx).FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load service")
	}
	if svc.SalonID != salonID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service belongs to another salon")
	}
	if !svc.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "service is inactive")
	}
	return svc, nil
}

func (s *service) requireStaff(ctx context.Context, tx *gorm.DB, actorID, salonID uuid.UUID) error {
	ok, err := memberships.NewRepository(tx).UserHasRole(ctx, actorID, salonID, enums.MemberRoleOwner, enums.MemberRoleManager, enums.MemberRoleEmployee)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient salon role")
	}
	return nil
}

// requireParticipant admits the booking customer or any active staff member
// of the owning salon.
func (s *service) requireParticipant(ctx context.Context, tx *gorm.DB, actorID uuid.UUID, appointment *models.Appointment) error {
	if appointment.CustomerUserID != nil && *appointment.CustomerUserID == actorID {
		return nil
	}
	return s.requireStaff(ctx, tx, actorID, appointment.SalonID)
}
