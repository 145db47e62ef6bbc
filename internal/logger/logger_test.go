package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	require.NoError(t, Init("debug", path))

	Component("Analyzer").WithField("rows", 3).Debug("analysis done")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := string(data)
	assert.Contains(t, line, "[DEBU]")
	assert.Contains(t, line, "analysis done component=Analyzer rows=3")
	assert.Contains(t, line, "logger_test.go")
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init("chatty", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
