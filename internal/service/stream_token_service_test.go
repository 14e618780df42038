package service

import (
	"io"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mediconnect/admin/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newTokenService(t *testing.T, secret string) *StreamTokenService {
	t.Helper()
	s, err := NewStreamTokenService(&config.StreamConfig{APIKey: "stream-key", Secret: secret}, testLogger())
	require.NoError(t, err)
	return s
}

func TestNewStreamTokenService_RequiresSecrets(t *testing.T) {
	_, err := NewStreamTokenService(&config.StreamConfig{APIKey: "k"}, testLogger())
	require.Error(t, err)
	_, err = NewStreamTokenService(&config.StreamConfig{Secret: "s"}, testLogger())
	require.Error(t, err)
}

func TestStreamToken_RoundTrip(t *testing.T) {
	s := newTokenService(t, "top-secret")
	const id = "11111111-1111-1111-1111-111111111111"

	tok, err := s.Issue(id)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.Equal(t, StreamTokenTTL, tok.ExpiresAt.Sub(tok.IssuedAt))
	require.WithinDuration(t, time.Now(), tok.IssuedAt, 2*time.Second)

	claims := s.Verify(tok.Token)
	require.NotNil(t, claims)
	require.Equal(t, id, claims.UserID)
	require.Equal(t, "stream-key", claims.Issuer)
	require.Equal(t, int64(86400), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
}

func TestStreamToken_IssueEmptyID(t *testing.T) {
	s := newTokenService(t, "top-secret")
	_, err := s.Issue("")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestStreamToken_Expired(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := newTokenService(t, "top-secret").WithClock(fixedClock(issuedAt))
	tok, err := s.Issue("user-1")
	require.NoError(t, err)

	s.WithClock(fixedClock(issuedAt.Add(StreamTokenTTL - time.Second)))
	require.NotNil(t, s.Verify(tok.Token))

	s.WithClock(fixedClock(issuedAt.Add(StreamTokenTTL)))
	require.Nil(t, s.Verify(tok.Token))
}

func TestStreamToken_Leeway(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s, err := NewStreamTokenService(&config.StreamConfig{APIKey: "k", Secret: "s", Leeway: 30 * time.Second}, testLogger())
	require.NoError(t, err)
	s.WithClock(fixedClock(issuedAt))
	tok, err := s.Issue("user-1")
	require.NoError(t, err)

	s.WithClock(fixedClock(issuedAt.Add(StreamTokenTTL + 10*time.Second)))
	require.NotNil(t, s.Verify(tok.Token))
}

func TestStreamToken_WrongSecret(t *testing.T) {
	tok, err := newTokenService(t, "secret-a").Issue("user-1")
	require.NoError(t, err)
	require.Nil(t, newTokenService(t, "secret-b").Verify(tok.Token))
}

func TestStreamToken_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	claims := &StreamClaims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("top-secret"))
	require.NoError(t, err)

	require.Nil(t, newTokenService(t, "top-secret").Verify(signed))
}

func TestStreamToken_Malformed(t *testing.T) {
	s := newTokenService(t, "top-secret")
	require.Nil(t, s.Verify(""))
	require.Nil(t, s.Verify("not.a.token"))
}
