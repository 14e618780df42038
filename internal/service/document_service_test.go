package service

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/mediconnect/admin/internal/models"
	"github.com/mediconnect/admin/internal/repository/memory"
	"github.com/mediconnect/admin/internal/service/mocks"
	"github.com/stretchr/testify/require"
)

func newDocumentService(t *testing.T, v models.Verification) (*DocumentService, *mocks.MockDocumentSigner) {
	t.Helper()
	st := memory.New()
	st.PutVerification(v)
	signer := mocks.NewMockDocumentSigner(gomock.NewController(t))
	return NewDocumentService(st, signer, testLogger()), signer
}

func TestImages_AllDocuments(t *testing.T) {
	id := uuid.New()
	svc, signer := newDocumentService(t, models.Verification{
		ID:               id,
		PrimaryIDFront:   strp("u/front.jpg"),
		PrimaryIDBack:    strp("u/back.jpg"),
		SecondaryIDType:  strp("passport"),
		SecondaryIDImage: strp("u/secondary.jpg"),
		SelfieImage:      strp("u/selfie.jpg"),
	})
	signer.EXPECT().SignedURL(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) (string, error) {
			return "https://signed/" + key, nil
		}).Times(4)

	got, err := svc.Images(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, []models.DocumentImage{
		{Type: "primary_front", Label: "Primary ID Front", URL: "https://signed/u/front.jpg"},
		{Type: "primary_back", Label: "Primary ID Back", URL: "https://signed/u/back.jpg"},
		{Type: "secondary", Label: "Secondary ID (passport)", URL: "https://signed/u/secondary.jpg"},
		{Type: "selfie", Label: "Selfie", URL: "https://signed/u/selfie.jpg"},
	}, got)
}

func TestImages_FailedSigningOmitted(t *testing.T) {
	id := uuid.New()
	svc, signer := newDocumentService(t, models.Verification{
		ID:             id,
		PrimaryIDFront: strp("u/front.jpg"),
		PrimaryIDBack:  strp("u/back.jpg"),
		SelfieImage:    strp("u/selfie.jpg"),
	})
	signer.EXPECT().SignedURL(gomock.Any(), "u/front.jpg").Return("https://signed/front", nil)
	signer.EXPECT().SignedURL(gomock.Any(), "u/back.jpg").Return("", errors.New("object not found"))
	signer.EXPECT().SignedURL(gomock.Any(), "u/selfie.jpg").Return("https://signed/selfie", nil)

	got, err := svc.Images(context.Background(), id.String())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "primary_front", got[0].Type)
	require.Equal(t, "selfie", got[1].Type)
}

func TestImages_NoDocuments(t *testing.T) {
	id := uuid.New()
	svc, _ := newDocumentService(t, models.Verification{ID: id})

	got, err := svc.Images(context.Background(), id.String())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestImages_Errors(t *testing.T) {
	svc, _ := newDocumentService(t, models.Verification{ID: uuid.New()})

	_, err := svc.Images(context.Background(), "bad")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Images(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)
}
