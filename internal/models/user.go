package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ParseRole accepts only the three roles stored in profiles.role.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return r, true
	}
	return "", false
}

type Profile struct {
	ID                uuid.UUID `json:"id"`
	FullName          *string   `json:"full_name"`
	Email             *string   `json:"email"`
	Role              Role      `json:"role"`
	ContactNumber     *string   `json:"contact_number"`
	Address           *string   `json:"address"`
	PostalCode        *string   `json:"postal_code"`
	DateOfBirth       *string   `json:"date_of_birth"`
	Gender            *string   `json:"gender"`
	AvailabilityDays  []string  `json:"availability_days"`
	AvailabilityTimes []string  `json:"availability_times"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProfileFilter narrows a profile listing. Zero values mean "no restriction".
type ProfileFilter struct {
	Role   Role
	Search string
	// SearchPhone extends Search to contact_number.
	SearchPhone bool
}
