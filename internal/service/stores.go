package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mediconnect/admin/internal/models"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/mediconnect/admin/internal/service DocumentSigner,Cache

type ProfileStore interface {
	ListProfiles(ctx context.Context, f models.ProfileFilter, req models.PageRequest) ([]models.Profile, error)
	CountProfiles(ctx context.Context, f models.ProfileFilter) (int, error)
	ProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id uuid.UUID, role models.Role) error
}

type VerificationStore interface {
	ListVerifications(ctx context.Context, f models.VerificationFilter, req models.PageRequest) ([]models.Verification, error)
	CountVerifications(ctx context.Context, f models.VerificationFilter) (int, error)
	VerificationByID(ctx context.Context, id uuid.UUID) (*models.Verification, error)
	UpdateVerificationStatus(ctx context.Context, id uuid.UUID, u models.StatusUpdate) (*models.Verification, error)
}

type AppointmentStore interface {
	CountAppointments(ctx context.Context) (int, error)
}

// DocumentSigner issues time-limited read URLs for stored objects.
type DocumentSigner interface {
	SignedURL(ctx context.Context, key string) (string, error)
}

// Cache is a best-effort JSON cache. A miss is reported as found == false.
type Cache interface {
	GetJSON(ctx context.Context, key string, dst any) (found bool, err error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ParseID accepts only canonical UUID strings.
func ParseID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, ErrInvalidInput
	}
	id, err := uuid.Parse(raw)
	if err != nil || len(raw) != 36 {
		return uuid.Nil, ErrInvalidInput
	}
	return id, nil
}
