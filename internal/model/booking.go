package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking 對某個活動的預約
type Booking struct {
	ID        uuid.UUID `json:"id" db:"id"`
	EventID   uuid.UUID `json:"eventId" db:"event_id"`
	Email     string    `json:"email" db:"email" validate:"required,email_shape"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CreateBookingRequest 建立預約請求
type CreateBookingRequest struct {
	EventID uuid.UUID `json:"eventId"`
	Email   string    `json:"email"`
}
