package memberships

import (
	"time"

	"github.com/salonora/salonora-backend/pkg/db/models"
)

type membershipWithSalonRow struct {
	models.SalonMembership
	SalonName string `gorm:"column:salon_name"`
	SalonSlug string `gorm:"column:salon_slug"`
}

func membershipWithSalonFromRow(row membershipWithSalonRow) MembershipWithSalon {
	return MembershipWithSalon{
		MembershipID:    row.ID,
		SalonID:         row.SalonID,
		UserID:          row.UserID,
		SalonName:       row.SalonName,
		SalonSlug:       row.SalonSlug,
		Role:            row.Role,
		Status:          row.Status,
		InvitedByUserID: copyUUIDPointer(row.InvitedByUserID),
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

func membershipRowsToDTO(rows []membershipWithSalonRow) []MembershipWithSalon {
	out := make([]MembershipWithSalon, 0, len(rows))
	for _, row := range rows {
		out = append(out, membershipWithSalonFromRow(row))
	}
	return out
}

func salonStaffFromRows(rows []salonStaffRow) []SalonStaffDTO {
	out := make([]SalonStaffDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, SalonStaffDTO{
			MembershipID: row.ID,
			SalonID:      row.SalonID,
			UserID:       row.UserID,
			Email:        row.Email,
			FirstName:    row.FirstName,
			LastName:     row.LastName,
			Role:         row.Role,
			Status:       row.Status,
			CreatedAt:    row.CreatedAt,
			LastLoginAt:  row.LastLoginAt,
		})
	}
	return out
}

type salonStaffRow struct {
	models.SalonMembership
	Email       string     `gorm:"column:email"`
	FirstName   string     `gorm:"column:first_name"`
	LastName    string     `gorm:"column:last_name"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
}
