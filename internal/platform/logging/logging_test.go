package logging

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevel(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	require.NoError(t, Setup("debug", ""))
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	assert.Error(t, Setup("chatty", ""))
}

func TestSetupWritesFile(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "server.log")
	require.NoError(t, Setup("info", path))

	log.Info("hello from test")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from test")
}
