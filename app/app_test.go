package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRoot(t *testing.T) {
	root, ok := ProjectRoot()
	require.True(t, ok)
	_, err := os.Stat(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
}

func TestConfig_PrefersTestConfig(t *testing.T) {
	res := Config()
	require.False(t, res.IsError())
	// application_test.yml pins a dedicated port for test runs.
	assert.Equal(t, 18080, res.MustGet().GetInt("server.port"))
}

func TestServer_FromConfig(t *testing.T) {
	sc := Server()
	assert.Equal(t, 18080, sc.Port)
	assert.Equal(t, "http://localhost:5173", sc.CORSOrigin)
	assert.False(t, sc.SQLLog)
}

func TestIsTestProcess(t *testing.T) {
	assert.True(t, isTestProcess())
}
