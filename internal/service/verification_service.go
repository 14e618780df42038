package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mediconnect/admin/internal/models"
	"github.com/sirupsen/logrus"
)

type VerificationService struct {
	store  VerificationStore
	now    func() time.Time
	logger *logrus.Logger
}

func NewVerificationService(store VerificationStore, logger *logrus.Logger) *VerificationService {
	return &VerificationService{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

func (s *VerificationService) WithClock(now func() time.Time) *VerificationService {
	s.now = now
	return s
}

func (s *VerificationService) List(ctx context.Context, req models.PageRequest, status, search string) (*models.Page[models.Verification], error) {
	f := models.VerificationFilter{Search: search}
	if status != "" && status != "all" {
		st, ok := models.ParseVerificationStatus(status)
		if !ok {
			return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
		}
		f.Status = st
	}
	req = req.Normalize()

	items, err := s.store.ListVerifications(ctx, f, req)
	if err != nil {
		return nil, storeErr("failed to list verifications", err)
	}
	total, err := s.store.CountVerifications(ctx, f)
	if err != nil {
		return nil, storeErr("failed to count verifications", err)
	}
	return models.NewPage(items, total, req), nil
}

// SetStatus moves a verification to status from whatever state it is in.
// Notes are written only when supplied.
func (s *VerificationService) SetStatus(ctx context.Context, rawID, status string, notes models.OptionalString) (*models.Verification, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, fmt.Errorf("verification id: %w", err)
	}
	st, ok := models.ParseVerificationStatus(status)
	if !ok {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}

	v, err := s.store.UpdateVerificationStatus(ctx, id, models.StatusUpdate{
		Status:    st,
		Notes:     notes,
		UpdatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, storeErr("failed to update verification", err)
	}

	s.logger.WithFields(logrus.Fields{
		"verification_id": id,
		"status":          st,
	}).Info("Verification status updated")
	return v, nil
}
