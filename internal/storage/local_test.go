package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/michaelcadilhac/oink/pkg/config"
)

func TestLocalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ok, err := s.Exists(ctx, "games/cycle.pg")
	require.NoError(t, err)
	assert.False(t, ok)

	content := "parity 1;\n0 0 0 1;\n1 1 1 0;\n"
	require.NoError(t, s.Upload(ctx, "games/cycle.pg", strings.NewReader(content)))

	ok, err = s.Exists(ctx, "games/cycle.pg")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Download(ctx, "games/cycle.pg")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, content, string(data))

	assert.Equal(t, filepath.Join(dir, "games/cycle.pg"), s.GetURL("games/cycle.pg"))
}

func TestLocalDownloadMissing(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	_, err = s.Download(context.Background(), "nope.pg")
	assert.Error(t, err)
}

func TestLocalCancelledContext(t *testing.T) {
	s, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Download(ctx, "x")
	assert.Error(t, err)
}

func TestNewFromConfig(t *testing.T) {
	s, err := New(&config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Local{}, s)

	_, err = New(&config.StorageConfig{Type: "cos"})
	assert.Error(t, err) // missing bucket/region

	s, err = New(&config.StorageConfig{
		Type: "cos", Bucket: "games-125000", Region: "ap-guangzhou",
		SecretID: "id", SecretKey: "key",
	})
	require.NoError(t, err)
	assert.IsType(t, &COS{}, s)
	assert.Equal(t,
		"https://games-125000.cos.ap-guangzhou.myqcloud.com/g.pg",
		s.GetURL("g.pg"))

	_, err = New(&config.StorageConfig{Type: "s3"})
	assert.Error(t, err)
}
