package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/enums"
)

// Appointment is a scheduled booking of a customer against a salon service.
type Appointment struct {
	ID              uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	SalonID         uuid.UUID               `gorm:"column:salon_id;type:uuid;not null;index"`
	ServiceID       uuid.UUID               `gorm:"column:service_id;type:uuid;not null"`
	EmployeeUserID  *uuid.UUID              `gorm:"column:employee_user_id;type:uuid"`
	CustomerUserID  *uuid.UUID              `gorm:"column:customer_user_id;type:uuid;index"`
	CustomerName    *string                 `gorm:"column:customer_name"`
	CustomerPhone   *string                 `gorm:"column:customer_phone"`
	StartAt         time.Time               `gorm:"column:start_at;not null;index"`
	DurationMinutes int                     `gorm:"column:duration_minutes;not null"`
	Status          enums.AppointmentStatus `gorm:"column:status;type:appointment_status;not null;default:'pending'"`
	Notes           *string                 `gorm:"column:notes"`
	CancelReason    *string                 `gorm:"column:cancel_reason"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
