package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handiism/flags-downloader/internal/config"
)

func newFlagServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/br/br.gif", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("GIF89a"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRoot_Verbose(t *testing.T) {
	srv := newFlagServer(t)
	dest := t.TempDir()

	out, err := execute(t, context.Background(), "-v", "-u", srv.URL, "-d", dest, "br", "xx")
	require.NoError(t, err)

	assert.Contains(t, out, "BR OK")
	assert.Contains(t, out, "XX not found: "+srv.URL+"/xx/xx.gif")
	assert.Contains(t, out, "1 downloads in")

	_, err = os.Stat(filepath.Join(dest, "br.gif"))
	assert.NoError(t, err)
}

func TestRoot_ProgressBar(t *testing.T) {
	srv := newFlagServer(t)

	out, err := execute(t, context.Background(), "-u", srv.URL, "-d", t.TempDir(), "BR")
	require.NoError(t, err)
	assert.NotContains(t, out, "BR OK")
	assert.Contains(t, out, "1 downloads in")
}

func TestRoot_InvalidConcurrency(t *testing.T) {
	_, err := execute(t, context.Background(), "-c", "0", "BR")
	assert.True(t, errors.Is(err, config.ErrInvalidSettings), "err = %v", err)
}

func TestRoot_MissingConfigFile(t *testing.T) {
	_, err := execute(t, context.Background(), "--config", filepath.Join(t.TempDir(), "typo.json"), "BR")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRoot_Interrupted(t *testing.T) {
	srv := newFlagServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := execute(t, ctx, "-u", srv.URL, "-d", t.TempDir(), "BR")
	assert.ErrorIs(t, err, errInterrupted)
}

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	s := config.DefaultSettings()
	s.Concurrency = 7
	s.DestDir = "from-file"
	require.NoError(t, s.Save(path))

	cmd := newRootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "-d", "from-flag"}))

	var f flags
	f.config, _ = cmd.Flags().GetString("config")
	f.dest, _ = cmd.Flags().GetString("dest")

	got, err := loadSettings(cmd, &f)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Concurrency)
	assert.Equal(t, "from-flag", got.DestDir)
}
