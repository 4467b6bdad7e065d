package models

import "time"

// Base contains common columns for all tables
type Base struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserStatus marks whether an account may authenticate at all.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// ReservationStatus tracks the lifecycle of a common-area booking.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusApproved  ReservationStatus = "APPROVED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

// PqrsStatus tracks the lifecycle of a resident ticket.
type PqrsStatus string

const (
	PqrsStatusOpen     PqrsStatus = "OPEN"
	PqrsStatusInReview PqrsStatus = "IN_REVIEW"
	PqrsStatusClosed   PqrsStatus = "CLOSED"
)

// IsValidUserStatus checks if a given status is valid
func IsValidUserStatus(status UserStatus) bool {
	switch status {
	case UserStatusActive, UserStatusInactive:
		return true
	default:
		return false
	}
}
