package invitations

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// Repository persists salon staff invitations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the given transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new invitation row.
func (r *Repository) Create(ctx context.Context, invitation *models.SalonInvitation) error {
	return r.db.WithContext(ctx).Create(invitation).Error
}

// FindByToken loads an invitation by its opaque token.
func (r *Repository) FindByToken(ctx context.Context, token string) (*models.SalonInvitation, error) {
	var invitation models.SalonInvitation
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// FindByID loads an invitation by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SalonInvitation, error) {
	var invitation models.SalonInvitation
	if err := r.db.WithContext(ctx).First(&invitation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &invitation, nil
}

// ListBySalon returns invitations for the salon, newest first.
func (r *Repository) ListBySalon(ctx context.Context, salonID uuid.UUID) ([]models.SalonInvitation, error) {
	var rows []models.SalonInvitation
	err := r.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasPending reports whether a pending, unexpired invitation exists for the email.
func (r *Repository) HasPending(ctx context.Context, salonID uuid.UUID, email string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalonInvitation{}).
		Where("salon_id = ? AND email = ? AND status = ? AND expires_at > ?", salonID, email, enums.InvitationStatusPending, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Transition flips a pending invitation to the provided terminal status.
func (r *Repository) Transition(ctx context.Context, id uuid.UUID, to enums.InvitationStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.SalonInvitation{}).
		Where("id = ? AND status = ?", id, enums.InvitationStatusPending).
		Update("status", to)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
