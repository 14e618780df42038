package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "pending"
	StatusVerified VerificationStatus = "verified"
	StatusRejected VerificationStatus = "rejected"
)

func ParseVerificationStatus(s string) (VerificationStatus, bool) {
	switch st := VerificationStatus(s); st {
	case StatusPending, StatusVerified, StatusRejected:
		return st, true
	}
	return "", false
}

type Verification struct {
	ID               uuid.UUID          `json:"id"`
	UserID           uuid.UUID          `json:"user_id"`
	Status           VerificationStatus `json:"status"`
	PrimaryIDType    *string            `json:"primary_id_type"`
	PrimaryIDFront   *string            `json:"primary_id_front"`
	PrimaryIDBack    *string            `json:"primary_id_back"`
	SecondaryIDType  *string            `json:"secondary_id_type"`
	SecondaryIDImage *string            `json:"secondary_id_image"`
	SelfieImage      *string            `json:"selfie_image"`
	ReviewerNotes    *string            `json:"reviewer_notes"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	User             *VerificationUser  `json:"user"`
}

// VerificationUser is the subject profile joined onto a verification listing.
type VerificationUser struct {
	ID                uuid.UUID `json:"id"`
	FullName          *string   `json:"full_name"`
	Email             *string   `json:"email"`
	Role              Role      `json:"role"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
}

type VerificationFilter struct {
	Status VerificationStatus
	Search string
}

// StatusUpdate is what a review transition writes back to the store.
type StatusUpdate struct {
	Status    VerificationStatus
	Notes     OptionalString
	UpdatedAt time.Time
}

// OptionalString tells an absent JSON field apart from null, "" and a value.
type OptionalString struct {
	Set   bool
	Null  bool
	Value string
}

func SomeString(v string) OptionalString { return OptionalString{Set: true, Value: v} }

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		o.Value = ""
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value to persist: nil for an explicit null.
func (o OptionalString) Ptr() *string {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}

type RecentVerification struct {
	ID        uuid.UUID          `json:"id"`
	Status    VerificationStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	User      RecentUser         `json:"user"`
}

type RecentUser struct {
	FullName          string  `json:"full_name"`
	Email             string  `json:"email"`
	ProfilePictureURL *string `json:"profile_picture_url,omitempty"`
}

type DocumentImage struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URL   string `json:"url"`
}
