package helpers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-service-ext/pkg/helpers"
)

func TestNewLoggerLevels(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, helpers.NewLogger("svc", "development", "").GetLevel())
	require.Equal(t, logrus.InfoLevel, helpers.NewLogger("svc", "production", "").GetLevel())
	require.Equal(t, logrus.WarnLevel, helpers.NewLogger("svc", "production", "warn").GetLevel())
	require.Equal(t, logrus.InfoLevel, helpers.NewLogger("svc", "production", "loud").GetLevel())
}

func TestLogErrorAttachesError(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	helpers.LogError(logger, "record failed", errors.New("db down"), logrus.Fields{"queue": "role_events"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "record failed", line["msg"])
	require.Equal(t, "db down", line["error"])
	require.Equal(t, "role_events", line["queue"])
	require.Equal(t, "error", line["level"])
}
