package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// Repository exposes membership persistence operations.
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

// ListUserSalons returns the salons a user belongs to along with membership metadata.
func (r *Repository) ListUserSalons(ctx context.Context, userID uuid.UUID) ([]MembershipWithSalon, error) {
	var rows []membershipWithSalonRow

	err := r.db.WithContext(ctx).
		Model(&models.SalonMembership{}).
		Select("salon_memberships.*, salons.name AS salon_name, salons.slug AS salon_slug").
		Joins("JOIN salons ON salons.id = salon_memberships.salon_id").
		Where("salon_memberships.user_id = ? AND salon_memberships.status = ?", userID, enums.MembershipStatusActive).
		Order("salons.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return membershipRowsToDTO(rows), nil
}

// GetMembership retrieves a membership by user and salon.
func (r *Repository) GetMembership(ctx context.Context, userID, salonID uuid.UUID) (*models.SalonMembership, error) {
	var membership models.SalonMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND salon_id = ?", userID, salonID).
		First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// CreateMembership persists a new membership record.
func (r *Repository) CreateMembership(ctx context.Context, salonID, userID uuid.UUID, role enums.MemberRole, invitedBy *uuid.UUID, status enums.MembershipStatus) (*models.SalonMembership, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid member role %q", role)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid membership status %q", status)
	}

	membership := &models.SalonMembership{
		SalonID:         salonID,
		UserID:          userID,
		Role:            role,
		Status:          status,
		InvitedByUserID: invitedBy,
	}

	if err := r.db.WithContext(ctx).Create(membership).Error; err != nil {
		return nil, err
	}
	return membership, nil
}

// UserHasRole reports whether the user holds one of the provided roles for the salon.
func (r *Repository) UserHasRole(ctx context.Context, userID, salonID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalonMembership{}).
		Where("user_id = ? AND salon_id = ? AND status = ? AND role IN ?", userID, salonID, enums.MembershipStatusActive, roles).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetMembershipWithSalon returns membership details joined with salon metadata.
func (r *Repository) GetMembershipWithSalon(ctx context.Context, userID, salonID uuid.UUID) (*MembershipWithSalon, error) {
	var row membershipWithSalonRow
	err := r.db.WithContext(ctx).
		Model(&models.SalonMembership{}).
		Select("salon_memberships.*, salons.name AS salon_name, salons.slug AS salon_slug").
		Joins("JOIN salons ON salons.id = salon_memberships.salon_id").
		Where("salon_memberships.user_id = ? AND salon_memberships.salon_id = ?", userID, salonID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	dto := membershipWithSalonFromRow(row)
	return &dto, nil
}

// ListSalonStaff returns memberships for the salon along with user metadata.
func (r *Repository) ListSalonStaff(ctx context.Context, salonID uuid.UUID) ([]SalonStaffDTO, error) {
	var rows []salonStaffRow
	err := r.db.WithContext(ctx).
		Model(&models.SalonMembership{}).
		Select("salon_memberships.*, users.email, users.first_name, users.last_name, users.last_login_at").
		Joins("JOIN users ON users.id = salon_memberships.user_id").
		Where("salon_memberships.salon_id = ?", salonID).
		Order("salon_memberships.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return salonStaffFromRows(rows), nil
}

// UpdateRole changes the role on an active membership.
func (r *Repository) UpdateRole(ctx context.Context, membershipID uuid.UUID, role enums.MemberRole) error {
	if !role.IsValid() {
		return fmt.Errorf("invalid member role %q", role)
	}
	res := r.db.WithContext(ctx).
		Model(&models.SalonMembership{}).
		Where("id = ? AND status = ?", membershipID, enums.MembershipStatusActive).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkRemoved flips an active membership to removed.
func (r *Repository) MarkRemoved(ctx context.Context, membershipID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.SalonMembership{}).
		Where("id = ? AND status = ?", membershipID, enums.MembershipStatusActive).
		Update("status", enums.MembershipStatusRemoved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Activate flips an invited membership to active when the invite is accepted.
func (r *Repository) Activate(ctx context.Context, membershipID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.SalonMembership{}).
		Where("id = ? AND status = ?", membershipID, enums.MembershipStatusInvited).
		Update("status", enums.MembershipStatusActive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountActiveOwners counts active owner memberships for the salon.
func (r *Repository) CountActiveOwners(ctx context.Context, salonID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SalonMembership{}).
		Where("salon_id = ? AND role = ? AND status = ?", salonID, enums.MemberRoleOwner, enums.MembershipStatusActive).
		Count(&count).Error
	return count, err
}
