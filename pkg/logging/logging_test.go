package logging

import (
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mccia-news/pkg/config"
)

func TestSetup_WritesToRotatingFile(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		debugEnabled.Store(false)
	})
	path := filepath.Join(t.TempDir(), "logs", "newsparser.log")

	closer := Setup(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1})
	log.Printf("Pipeline: hello")
	Debugf("hidden detail")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Pipeline: hello")
	assert.NotContains(t, string(raw), "hidden detail")
}

func TestSetup_DebugLevel(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		debugEnabled.Store(false)
	})
	path := filepath.Join(t.TempDir(), "debug.log")

	closer := Setup(config.LogConfig{Level: "debug", File: path})
	Debugf("tweet: %s", "draft")
	require.NoError(t, closer.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "DEBUG tweet: draft")
}

func TestSetup_NoFile(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	closer := Setup(config.LogConfig{})
	assert.NoError(t, closer.Close())
}
