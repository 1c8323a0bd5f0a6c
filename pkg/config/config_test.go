package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Solver.Weights)
	assert.Equal(t, 1, cfg.Solver.Jobs)
	assert.False(t, cfg.Solver.Save)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
solver:
  weights: big
  jobs: 4
  verify: true
database:
  type: postgres
  host: db.example
  database: oink
  user: solver
storage:
  type: cos
  bucket: games-125000
  region: ap-guangzhou
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "big", cfg.Solver.Weights)
	assert.Equal(t, 4, cfg.Solver.Jobs)
	assert.True(t, cfg.Solver.Verify)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "games-125000", cfg.Storage.Bucket)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidateRejects(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"bad weights":    "solver:\n  weights: float\n",
		"bad jobs":       "solver:\n  jobs: 0\n",
		"bad db type":    "database:\n  type: oracle\n",
		"bad storage":    "storage:\n  type: s3\n",
		"cos incomplete": "storage:\n  type: cos\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
