package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mediconnect/admin/internal/models"
	"github.com/sirupsen/logrus"
)

const recentLimit = 10

type DirectoryService struct {
	store  ProfileStore
	cache  Cache
	logger *logrus.Logger
}

func NewDirectoryService(store ProfileStore, logger *logrus.Logger) *DirectoryService {
	return &DirectoryService{
		store:  store,
		logger: logger,
	}
}

// WithCache lets role changes and deletes evict the cached role that
// AdminAuthService reads. A nil cache is allowed.
func (s *DirectoryService) WithCache(c Cache) *DirectoryService {
	s.cache = c
	return s
}

func (s *DirectoryService) evictRole(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, roleCacheKey(id)); err != nil {
		s.logger.WithError(err).WithField("user_id", id).Warn("Failed to evict cached role")
	}
}

func (s *DirectoryService) list(ctx context.Context, f models.ProfileFilter, req models.PageRequest) (*models.Page[models.Profile], error) {
	req = req.Normalize()

	items, err := s.store.ListProfiles(ctx, f, req)
	if err != nil {
		return nil, storeErr("failed to list profiles", err)
	}
	total, err := s.store.CountProfiles(ctx, f)
	if err != nil {
		return nil, storeErr("failed to count profiles", err)
	}
	return models.NewPage(items, total, req), nil
}

// ListUsers lists every profile. role "" or "all" means no role filter.
func (s *DirectoryService) ListUsers(ctx context.Context, req models.PageRequest, search, role string) (*models.Page[models.Profile], error) {
	f := models.ProfileFilter{Search: search}
	if role != "" && role != "all" {
		r, ok := models.ParseRole(role)
		if !ok {
			return nil, fmt.Errorf("role %q: %w", role, ErrInvalidRole)
		}
		f.Role = r
	}
	return s.list(ctx, f, req)
}

func (s *DirectoryService) ListPatients(ctx context.Context, req models.PageRequest, search string) (*models.Page[models.Profile], error) {
	return s.list(ctx, models.ProfileFilter{Role: models.RolePatient, Search: search}, req)
}

func (s *DirectoryService) ListDoctors(ctx context.Context, req models.PageRequest, search string) (*models.Page[models.Profile], error) {
	return s.list(ctx, models.ProfileFilter{Role: models.RoleDoctor, Search: search, SearchPhone: true}, req)
}

func (s *DirectoryService) RecentUsers(ctx context.Context) ([]models.Profile, error) {
	items, err := s.store.ListProfiles(ctx, models.ProfileFilter{}, models.PageRequest{Page: 1, Limit: recentLimit})
	if err != nil {
		return nil, storeErr("failed to list recent users", err)
	}
	if items == nil {
		items = []models.Profile{}
	}
	return items, nil
}

func (s *DirectoryService) DeletePatient(ctx context.Context, rawID string) error {
	return s.delete(ctx, rawID, models.RolePatient)
}

func (s *DirectoryService) DeleteDoctor(ctx context.Context, rawID string) error {
	return s.delete(ctx, rawID, models.RoleDoctor)
}

func (s *DirectoryService) delete(ctx context.Context, rawID string, role models.Role) error {
	id, err := ParseID(rawID)
	if err != nil {
		return fmt.Errorf("%s id: %w", role, err)
	}
	if err := s.store.DeleteProfile(ctx, id, role); err != nil {
		return storeErr("failed to delete "+string(role), err)
	}
	s.evictRole(ctx, id)

	s.logger.WithFields(logrus.Fields{
		"user_id": id,
		"role":    role,
	}).Info("Profile deleted")
	return nil
}

func (s *DirectoryService) UpdateRole(ctx context.Context, rawID, role string) (*models.Profile, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, fmt.Errorf("user id: %w", err)
	}
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("role %q: %w", role, ErrInvalidRole)
	}

	p, err := s.store.UpdateRole(ctx, id, r)
	if err != nil {
		return nil, storeErr("failed to update role", err)
	}
	s.evictRole(ctx, id)

	s.logger.WithFields(logrus.Fields{
		"user_id": id,
		"role":    r,
	}).Info("User role updated")
	return p, nil
}
