package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonora/salonora-backend/pkg/db/models"
	"github.com/salonora/salonora-backend/pkg/enums"
)

// AppointmentDTO is the transport shape for a booking.
type AppointmentDTO struct {
	ID              uuid.UUID               `json:"id"`
	SalonID         uuid.UUID               `json:"salon_id"`
	ServiceID       uuid.UUID               `json:"service_id"`
	EmployeeUserID  *uuid.UUID              `json:"employee_user_id,omitempty"`
	CustomerUserID  *uuid.UUID              `json:"customer_user_id,omitempty"`
	CustomerName    *string                 `json:"customer_name,omitempty"`
	CustomerPhone   *string                 `json:"customer_phone,omitempty"`
	StartAt         time.Time               `json:"start_at"`
	DurationMinutes int                     `json:"duration_minutes"`
	Status          enums.AppointmentStatus `json:"status"`
	Notes           *string                 `json:"notes,omitempty"`
	CancelReason    *string                 `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// BookInput carries the data for a new appointment.
type BookInput struct {
	SalonID        uuid.UUID  `json:"salon_id" validate:"required"`
	ServiceID      uuid.UUID  `json:"service_id" validate:"required"`
	EmployeeUserID *uuid.UUID `json:"employee_user_id,omitempty"`
	StartAt        time.Time  `json:"start_at" validate:"required"`
	Notes          *string    `json:"notes,omitempty"`
}

// WalkInInput lets salon staff register a booking for an offline customer.
type WalkInInput struct {
	ServiceID      uuid.UUID  `json:"service_id" validate:"required"`
	EmployeeUserID *uuid.UUID `json:"employee_user_id,omitempty"`
	CustomerName   string     `json:"customer_name" validate:"required"`
	CustomerPhone  *string    `json:"customer_phone,omitempty"`
	StartAt        time.Time  `json:"start_at" validate:"required"`
	Notes          *string    `json:"notes,omitempty"`
}

// FromModel maps a persisted appointment into a DTO.
func FromModel(m *models.Appointment) *AppointmentDTO {
	if m == nil {
		return nil
	}
	return &AppointmentDTO{
		ID:              m.ID,
		SalonID:         m.SalonID,
		ServiceID:       m.ServiceID,
		EmployeeUserID:  m.EmployeeUserID,
		CustomerUserID:  m.CustomerUserID,
		CustomerName:    m.CustomerName,
		CustomerPhone:   m.CustomerPhone,
		StartAt:         m.StartAt,
		DurationMinutes: m.DurationMinutes,
		Status:          m.Status,
		Notes:           m.Notes,
		CancelReason:    m.CancelReason,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
