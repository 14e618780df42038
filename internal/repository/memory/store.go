// Package memory is an in-process implementation of the profile, verification
// and appointment stores. It mirrors the Postgres repositories closely enough
// to back service and handler tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mediconnect/admin/internal/models"
	"github.com/mediconnect/admin/internal/repository"
)

type Store struct {
	mu            sync.RWMutex
	profiles      map[uuid.UUID]models.Profile
	verifications map[uuid.UUID]models.Verification
	appointments  int
	now           func() time.Time
}

func New() *Store {
	return &Store{
		profiles:      make(map[uuid.UUID]models.Profile),
		verifications: make(map[uuid.UUID]models.Verification),
		now:           time.Now,
	}
}

func (s *Store) PutProfile(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

func (s *Store) PutVerification(v models.Verification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v.User = nil
	s.verifications[v.ID] = v
}

func (s *Store) SetAppointments(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments = n
}

func contains(field *string, term string) bool {
	return field != nil && strings.Contains(strings.ToLower(*field), term)
}

func (s *Store) matchProfiles(f models.ProfileFilter) []models.Profile {
	term := strings.ToLower(f.Search)
	var out []models.Profile
	for _, p := range s.profiles {
		if f.Role != "" && p.Role != f.Role {
			continue
		}
		if term != "" && !contains(p.FullName, term) && !contains(p.Email, term) &&
			!(f.SearchPhone && contains(p.ContactNumber, term)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func window[T any](items []T, req models.PageRequest) []T {
	start := req.Offset()
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + req.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (s *Store) ListProfiles(_ context.Context, f models.ProfileFilter, req models.PageRequest) ([]models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return window(s.matchProfiles(f), req), nil
}

func (s *Store) CountProfiles(_ context.Context, f models.ProfileFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchProfiles(f)), nil
}

func (s *Store) ProfileByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *Store) UpdateRole(_ context.Context, id uuid.UUID, role models.Role) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.Role = role
	p.UpdatedAt = later(s.now(), p.UpdatedAt)
	s.profiles[id] = p
	return &p, nil
}

func (s *Store) DeleteProfile(_ context.Context, id uuid.UUID, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok || p.Role != role {
		return repository.ErrNotFound
	}
	delete(s.profiles, id)
	return nil
}

func (s *Store) withUser(v models.Verification) models.Verification {
	if p, ok := s.profiles[v.UserID]; ok {
		v.User = &models.VerificationUser{
			ID:                p.ID,
			FullName:          p.FullName,
			Email:             p.Email,
			Role:              p.Role,
			ProfilePictureURL: p.ProfilePictureURL,
		}
	}
	return v
}

func (s *Store) matchVerifications(f models.VerificationFilter) []models.Verification {
	term := strings.ToLower(f.Search)
	var out []models.Verification
	for _, v := range s.verifications {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		v = s.withUser(v)
		if term != "" && (v.User == nil || (!contains(v.User.FullName, term) && !contains(v.User.Email, term))) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (s *Store) ListVerifications(_ context.Context, f models.VerificationFilter, req models.PageRequest) ([]models.Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return window(s.matchVerifications(f), req), nil
}

func (s *Store) CountVerifications(_ context.Context, f models.VerificationFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matchVerifications(f)), nil
}

func (s *Store) VerificationByID(_ context.Context, id uuid.UUID) (*models.Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v = s.withUser(v)
	return &v, nil
}

func (s *Store) UpdateVerificationStatus(_ context.Context, id uuid.UUID, u models.StatusUpdate) (*models.Verification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.verifications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v.Status = u.Status
	v.UpdatedAt = later(u.UpdatedAt, v.UpdatedAt)
	if u.Notes.Set {
		v.ReviewerNotes = u.Notes.Ptr()
	}
	s.verifications[id] = v
	v = s.withUser(v)
	return &v, nil
}

func (s *Store) CountAppointments(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.appointments, nil
}

// later returns want, or prev plus a microsecond if want does not move past prev.
func later(want, prev time.Time) time.Time {
	if want.After(prev) {
		return want
	}
	return prev.Add(time.Microsecond)
}
