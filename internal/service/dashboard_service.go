package service

import (
	"context"
	"time"

	"github.com/mediconnect/admin/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const statsCacheKey = "stats:dashboard"

const (
	unknownUserName  = "Unknown"
	unknownUserEmail = "unknown@example.com"
)

type DashboardService struct {
	profiles      ProfileStore
	verifications VerificationStore
	appointments  AppointmentStore
	cache         Cache
	cacheTTL      time.Duration
	logger        *logrus.Logger
}

// NewDashboardService wires the stat sources. cache may be nil, and a zero
// ttl disables caching.
func NewDashboardService(profiles ProfileStore, verifications VerificationStore, appointments AppointmentStore, cache Cache, ttl time.Duration, logger *logrus.Logger) *DashboardService {
	return &DashboardService{
		profiles:      profiles,
		verifications: verifications,
		appointments:  appointments,
		cache:         cache,
		cacheTTL:      ttl,
		logger:        logger,
	}
}

func (s *DashboardService) cacheEnabled() bool { return s.cache != nil && s.cacheTTL > 0 }

func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	if s.cacheEnabled() {
		var cached models.DashboardStats
		found, err := s.cache.GetJSON(ctx, statsCacheKey, &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to read stats cache")
		} else if found {
			return &cached, nil
		}
	}

	var stats models.DashboardStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.profiles.CountProfiles(gctx, models.ProfileFilter{Role: models.RolePatient})
		if err != nil {
			return storeErr("failed to count patients", err)
		}
		stats.TotalPatients = n
		return nil
	})
	g.Go(func() error {
		n, err := s.profiles.CountProfiles(gctx, models.ProfileFilter{Role: models.RoleDoctor})
		if err != nil {
			return storeErr("failed to count doctors", err)
		}
		stats.TotalDoctors = n
		return nil
	})
	g.Go(func() error {
		n, err := s.verifications.CountVerifications(gctx, models.VerificationFilter{Status: models.StatusPending})
		if err != nil {
			return storeErr("failed to count pending verifications", err)
		}
		stats.PendingVerifications = n
		return nil
	})
	g.Go(func() error {
		n, err := s.appointments.CountAppointments(gctx)
		if err != nil {
			return storeErr("failed to count appointments", err)
		}
		stats.TotalAppointments = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.cacheEnabled() {
		if err := s.cache.SetJSON(ctx, statsCacheKey, stats, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to write stats cache")
		}
	}
	return &stats, nil
}

func (s *DashboardService) RecentVerifications(ctx context.Context) ([]models.RecentVerification, error) {
	items, err := s.verifications.ListVerifications(ctx, models.VerificationFilter{}, models.PageRequest{Page: 1, Limit: recentLimit})
	if err != nil {
		return nil, storeErr("failed to list recent verifications", err)
	}

	out := make([]models.RecentVerification, 0, len(items))
	for _, v := range items {
		rv := models.RecentVerification{
			ID:        v.ID,
			Status:    v.Status,
			CreatedAt: v.CreatedAt,
			User:      models.RecentUser{FullName: unknownUserName, Email: unknownUserEmail},
		}
		if v.User != nil {
			if v.User.FullName != nil {
				rv.User.FullName = *v.User.FullName
			}
			if v.User.Email != nil {
				rv.User.Email = *v.User.Email
			}
			rv.User.ProfilePictureURL = v.User.ProfilePictureURL
		}
		out = append(out, rv)
	}
	return out, nil
}
