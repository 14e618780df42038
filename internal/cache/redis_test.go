package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// GO_TEST_INTEGRATION=1 go test ./internal/cache -v -count=1

func startRedis(t *testing.T) *RedisCache {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "docker.io/redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	rc, err := NewRedisCache(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "test:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestNewRedisCache_BadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "://nope", "", logrus.New())
	require.Error(t, err)
}

func TestIntegration_RedisCache(t *testing.T) {
	rc := startRedis(t)
	ctx := context.Background()

	type stats struct {
		Total int `json:"total"`
	}

	var got stats
	found, err := rc.GetJSON(ctx, "stats", &got)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, rc.SetJSON(ctx, "stats", stats{Total: 3}, time.Minute))
	found, err = rc.GetJSON(ctx, "stats", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 3, got.Total)

	require.NoError(t, rc.Delete(ctx, "stats"))
	found, err = rc.GetJSON(ctx, "stats", &got)
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, rc.Delete(ctx, "stats"))
	require.NoError(t, rc.Ping(ctx))

	require.NoError(t, rc.SetJSON(ctx, "short", stats{Total: 1}, time.Second))
	require.Eventually(t, func() bool {
		found, err := rc.GetJSON(ctx, "short", &got)
		return err == nil && !found
	}, 5*time.Second, 100*time.Millisecond)
}
