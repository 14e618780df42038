package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mediconnect/admin/internal/models"
	"github.com/mediconnect/admin/internal/repository"
	"github.com/sirupsen/logrus"
)

const roleCachePrefix = "role:"

func roleCacheKey(id uuid.UUID) string { return roleCachePrefix + id.String() }

// AdminAuthService checks hosted-auth access tokens and requires the admin role.
type AdminAuthService struct {
	secret   []byte
	profiles ProfileStore
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
	logger   *logrus.Logger
}

func NewAdminAuthService(secret string, profiles ProfileStore, cache Cache, ttl time.Duration, logger *logrus.Logger) *AdminAuthService {
	return &AdminAuthService{
		secret:   []byte(secret),
		profiles: profiles,
		cache:    cache,
		cacheTTL: ttl,
		now:      time.Now,
		logger:   logger,
	}
}

func (s *AdminAuthService) WithClock(now func() time.Time) *AdminAuthService {
	s.now = now
	return s
}

// Authenticate returns the admin user id carried by tokenString.
func (s *AdminAuthService) Authenticate(ctx context.Context, tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.WithError(err).Debug("Admin token verification failed")
		return uuid.Nil, ErrUnauthenticated
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrUnauthenticated
	}

	role, err := s.role(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if role != models.RoleAdmin {
		return uuid.Nil, ErrForbidden
	}
	return id, nil
}

func (s *AdminAuthService) role(ctx context.Context, id uuid.UUID) (models.Role, error) {
	key := roleCacheKey(id)
	useCache := s.cache != nil && s.cacheTTL > 0

	if useCache {
		var cached models.Role
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to read role cache")
		} else if found {
			return cached, nil
		}
	}

	p, err := s.profiles.ProfileByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrForbidden
		}
		return "", storeErr("failed to load caller profile", err)
	}

	if useCache {
		if err := s.cache.SetJSON(ctx, key, p.Role, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to write role cache")
		}
	}
	return p.Role, nil
}
