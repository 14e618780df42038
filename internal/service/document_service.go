package service

import (
	"context"
	"fmt"

	"github.com/mediconnect/admin/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	DocPrimaryFront = "primary_front"
	DocPrimaryBack  = "primary_back"
	DocSecondary    = "secondary"
	DocSelfie       = "selfie"
)

type DocumentService struct {
	store  VerificationStore
	signer DocumentSigner
	logger *logrus.Logger
}

func NewDocumentService(store VerificationStore, signer DocumentSigner, logger *logrus.Logger) *DocumentService {
	return &DocumentService{
		store:  store,
		signer: signer,
		logger: logger,
	}
}

type document struct {
	kind  string
	label string
	key   *string
}

func documentsOf(v *models.Verification) []document {
	secondary := "Secondary ID"
	if v.SecondaryIDType != nil && *v.SecondaryIDType != "" {
		secondary = fmt.Sprintf("Secondary ID (%s)", *v.SecondaryIDType)
	}
	return []document{
		{DocPrimaryFront, "Primary ID Front", v.PrimaryIDFront},
		{DocPrimaryBack, "Primary ID Back", v.PrimaryIDBack},
		{DocSecondary, secondary, v.SecondaryIDImage},
		{DocSelfie, "Selfie", v.SelfieImage},
	}
}

// Images signs every uploaded document of a verification. A document whose
// signing fails is left out; the rest keep their fixed order.
func (s *DocumentService) Images(ctx context.Context, rawID string) ([]models.DocumentImage, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, fmt.Errorf("verification id: %w", err)
	}
	v, err := s.store.VerificationByID(ctx, id)
	if err != nil {
		return nil, storeErr("failed to load verification", err)
	}

	docs := documentsOf(v)
	urls := make([]string, len(docs))

	var g errgroup.Group
	for i, d := range docs {
		if d.key == nil || *d.key == "" {
			continue
		}
		g.Go(func() error {
			url, err := s.signer.SignedURL(ctx, *d.key)
			if err != nil {
				s.logger.WithError(err).WithFields(logrus.Fields{
					"verification_id": id,
					"document":        d.kind,
				}).Error("Failed to sign document url")
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = g.Wait()

	images := make([]models.DocumentImage, 0, len(docs))
	for i, d := range docs {
		if urls[i] == "" {
			continue
		}
		images = append(images, models.DocumentImage{Type: d.kind, Label: d.label, URL: urls[i]})
	}
	return images, nil
}
