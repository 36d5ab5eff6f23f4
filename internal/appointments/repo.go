package appointments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
	"github.com/salonora/salonora-backend/pkg/pagination"
)

// Repository persists appointments.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to a database handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new appointment.
func (r *Repository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

// FindByID loads a single appointment.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &appointment, nil
}

// ListParams filters an appointment listing.
type ListParams struct {
	SalonID        *uuid.UUID
	CustomerUserID *uuid.UUID
	Status         *enums.AppointmentStatus
	From           *time.Time
	To             *time.Time
	Limit          int
	Cursor         *pagination.Cursor
}

// List returns appointments newest-first with cursor pagination.
func (r *Repository) List(ctx context.Context, params ListParams) ([]models.Appointment, *pagination.Cursor, error) {
	limit := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).Model(&models.Appointment{})
	if params.SalonID != nil {
		query = query.Where("salon_id = ?", *params.SalonID)
	}
	if params.CustomerUserID != nil {
		query = query.Where("customer_user_id = ?", *params.CustomerUserID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.From != nil {
		query = query.Where("start_at >= ?", *params.From)
	}
	if params.To != nil {
		query = query.Where("start_at < ?", *params.To)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Appointment
	err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}

// Transition moves an appointment from one status to another. The update is
// guarded on the current status so concurrent writers cannot skip or rewind
// the lifecycle. Returns gorm.ErrRecordNotFound when the row is no longer in
// the expected state.
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, from, to enums.AppointmentStatus, cancelReason *string) error {
	updates := map[string]any{"status": to}
	if cancelReason != nil {
		updates["cancel_reason"] = cancelReason
	}

	result := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasCompletedForCustomer reports whether the customer finished at least one
// appointment at the salon. Used to gate rating submission.
func (r *Repository) HasCompletedForCustomer(ctx context.Context, salonID, customerUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("salon_id = ? AND customer_user_id = ? AND status = ?", salonID, customerUserID, enums.AppointmentStatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HasRating reports whether a rating already references the appointment.
func (r *Repository) HasRating(ctx context.Context, appointmentID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalonRating{}).
		Where("appointment_id = ?", appointmentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
