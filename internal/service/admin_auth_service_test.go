package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/mediconnect/admin/internal/models"
	"github.com/mediconnect/admin/internal/repository/memory"
	"github.com/mediconnect/admin/internal/service/mocks"
	"github.com/stretchr/testify/require"
)

const authSecret = "hosted-auth-secret"

func accessToken(t *testing.T, sub string, exp time.Time, method jwt.SigningMethod) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte(authSecret))
	require.NoError(t, err)
	return signed
}

func TestAuthenticate(t *testing.T) {
	st := memory.New()
	admin := seedProfile(st, "Root", "root@x.com", models.RoleAdmin, time.Now())
	patient := seedProfile(st, "Pat", "pat@x.com", models.RolePatient, time.Now())
	svc := NewAdminAuthService(authSecret, st, nil, 0, testLogger())
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	id, err := svc.Authenticate(ctx, accessToken(t, admin.String(), exp, jwt.SigningMethodHS256))
	require.NoError(t, err)
	require.Equal(t, admin, id)

	_, err = svc.Authenticate(ctx, accessToken(t, patient.String(), exp, jwt.SigningMethodHS256))
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Authenticate(ctx, accessToken(t, uuid.NewString(), exp, jwt.SigningMethodHS256))
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Authenticate(ctx, accessToken(t, admin.String(), time.Now().Add(-time.Minute), jwt.SigningMethodHS256))
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, accessToken(t, admin.String(), exp, jwt.SigningMethodHS384))
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, accessToken(t, "service-role", exp, jwt.SigningMethodHS256))
	require.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthenticate_UsesRoleCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	st := memory.New()
	id := uuid.New()
	svc := NewAdminAuthService(authSecret, st, cache, time.Minute, testLogger())

	cache.EXPECT().GetJSON(gomock.Any(), "role:"+id.String(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, dst interface{}) (bool, error) {
			*(dst.(*models.Role)) = models.RoleAdmin
			return true, nil
		})

	got, err := svc.Authenticate(context.Background(), accessToken(t, id.String(), time.Now().Add(time.Hour), jwt.SigningMethodHS256))
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestAuthenticate_StoresRoleOnMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	st := memory.New()
	id := seedProfile(st, "Doc", "doc@x.com", models.RoleDoctor, time.Now())
	svc := NewAdminAuthService(authSecret, st, cache, time.Minute, testLogger())

	cache.EXPECT().GetJSON(gomock.Any(), "role:"+id.String(), gomock.Any()).Return(false, nil)
	cache.EXPECT().SetJSON(gomock.Any(), "role:"+id.String(), models.RoleDoctor, time.Minute).Return(nil)

	_, err := svc.Authenticate(context.Background(), accessToken(t, id.String(), time.Now().Add(time.Hour), jwt.SigningMethodHS256))
	require.ErrorIs(t, err, ErrForbidden)
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func TestAuthenticate_DemotedAdminLosesAccess(t *testing.T) {
	st := memory.New()
	cache := newMapCache()
	admin := seedProfile(st, "Root", "root@x.com", models.RoleAdmin, time.Now())
	auth := NewAdminAuthService(authSecret, st, cache, 5*time.Minute, testLogger())
	dir := NewDirectoryService(st, testLogger()).WithCache(cache)
	ctx := context.Background()
	token := accessToken(t, admin.String(), time.Now().Add(time.Hour), jwt.SigningMethodHS256)

	_, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)

	_, err = dir.UpdateRole(ctx, admin.String(), "patient")
	require.NoError(t, err)

	_, err = auth.Authenticate(ctx, token)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteEvictsCachedRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	st := memory.New()
	id := seedProfile(st, "Doc", "doc@x.com", models.RoleDoctor, time.Now())
	dir := NewDirectoryService(st, testLogger()).WithCache(cache)

	cache.EXPECT().Delete(gomock.Any(), "role:"+id.String()).Return(nil)
	require.NoError(t, dir.DeleteDoctor(context.Background(), id.String()))
}
