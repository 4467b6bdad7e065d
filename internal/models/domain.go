package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Domain resources guarded by ownership checks. Each row traces back to an
// Owner and through it to the owning user; the authorization core only reads
// these tables, the domain controllers own their lifecycle.

type Apartment struct {
	Base
	Number  string  `gorm:"uniqueIndex;not null" json:"number" validate:"required"`
	Tower   string  `json:"tower"`
	Area    float64 `json:"area"`
	OwnerID uint    `gorm:"not null;index" json:"ownerId"`
	Owner   *Owner  `json:"owner,omitempty"`
}

type Pet struct {
	Base
	Name        string     `gorm:"not null" json:"name" validate:"required"`
	Species     string     `json:"species"`
	Breed       string     `json:"breed"`
	OwnerID     uint       `gorm:"not null;index" json:"ownerId"`
	Owner       *Owner     `json:"owner,omitempty"`
	ApartmentID uint       `gorm:"index" json:"apartmentId"`
	Apartment   *Apartment `json:"apartment,omitempty"`
}

type Pqrs struct {
	Base
	Subject     string         `gorm:"not null" json:"subject" validate:"required"`
	Description string         `json:"description"`
	Status      PqrsStatus     `gorm:"not null;default:'OPEN'" json:"status"`
	Metadata    datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	OwnerID     uint           `gorm:"not null;index" json:"ownerId"`
	Owner       *Owner         `json:"owner,omitempty"`
}

type Reservation struct {
	Base
	CommonArea string            `gorm:"not null" json:"commonArea" validate:"required"`
	StartsAt   time.Time         `gorm:"not null" json:"startsAt" validate:"required"`
	EndsAt     time.Time         `gorm:"not null" json:"endsAt" validate:"required,gtfield=StartsAt"`
	Status     ReservationStatus `gorm:"not null;default:'PENDING'" json:"status"`
	OwnerID    uint              `gorm:"not null;index" json:"ownerId"`
	Owner      *Owner            `json:"owner,omitempty"`
}

type Payment struct {
	Base
	Reference string    `gorm:"uniqueIndex;not null" json:"reference"`
	Concept   string    `gorm:"not null" json:"concept" validate:"required"`
	Amount    float64   `gorm:"not null" json:"amount" validate:"required,gt=0"`
	PaidAt    time.Time `json:"paidAt"`
	OwnerID   uint      `gorm:"not null;index" json:"ownerId"`
	Owner     *Owner    `json:"owner,omitempty"`
}

// BeforeCreate assigns the external payment reference.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.Reference == "" {
		p.Reference = uuid.New().String()
	}
	return nil
}

// Tenant lives in an apartment; its owner is reached through the apartment,
// one level of indirection deeper than the other resources.
type Tenant struct {
	Base
	Name        string     `gorm:"not null" json:"name" validate:"required"`
	Email       string     `json:"email" validate:"omitempty,email"`
	ApartmentID uint       `gorm:"not null;index" json:"apartmentId"`
	Apartment   *Apartment `json:"apartment,omitempty"`
}
