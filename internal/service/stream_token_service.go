package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mediconnect/admin/internal/config"
	"github.com/mediconnect/admin/internal/models"
	"github.com/sirupsen/logrus"
)

// StreamTokenTTL is the fixed lifetime of chat/video provider tokens.
const StreamTokenTTL = 24 * time.Hour

type StreamTokenService struct {
	apiKey string
	secret []byte
	leeway time.Duration
	now    func() time.Time
	logger *logrus.Logger
}

func NewStreamTokenService(cfg *config.StreamConfig, logger *logrus.Logger) (*StreamTokenService, error) {
	if cfg.APIKey == "" || cfg.Secret == "" {
		return nil, fmt.Errorf("stream api key and secret are required")
	}

	return &StreamTokenService{
		apiKey: cfg.APIKey,
		secret: []byte(cfg.Secret),
		leeway: cfg.Leeway,
		now:    time.Now,
		logger: logger,
	}, nil
}

// WithClock replaces the time source. Intended for tests.
func (s *StreamTokenService) WithClock(now func() time.Time) *StreamTokenService {
	s.now = now
	return s
}

type StreamClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func (s *StreamTokenService) Issue(userID string) (*models.StreamToken, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}

	now := s.now().Truncate(time.Second)
	exp := now.Add(StreamTokenTTL)
	claims := &StreamClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.apiKey,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.WithError(err).Error("Failed to sign stream token")
		return nil, fmt.Errorf("failed to sign stream token: %w", err)
	}

	return &models.StreamToken{
		Token:     signed,
		IssuedAt:  now,
		ExpiresAt: exp,
	}, nil
}

// Verify returns the claims of a valid token, or nil for any failure.
func (s *StreamTokenService) Verify(tokenString string) *StreamClaims {
	claims := &StreamClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		s.logger.WithError(err).Debug("Stream token verification failed")
		return nil
	}
	if !token.Valid || claims.UserID == "" || claims.IssuedAt == nil {
		s.logger.Debug("Stream token is missing required claims")
		return nil
	}
	return claims
}
