package logging

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, New("debug", true).GetLevel())
	require.Equal(t, logrus.InfoLevel, New("loud", true).GetLevel())

	_, isJSON := New("info", false).Formatter.(*logrus.JSONFormatter)
	require.True(t, isJSON)
}

func TestIntoFrom(t *testing.T) {
	require.NotNil(t, From(context.Background()))

	e := logrus.New().WithField("request_id", "abc")
	got := From(Into(context.Background(), e))
	require.Equal(t, "abc", got.Data["request_id"])
}
