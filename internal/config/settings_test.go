package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, 5, s.Concurrency)
	assert.Equal(t, 1000, s.MaxConcurrency)
	assert.Equal(t, 6100*time.Millisecond, s.Timeout())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadExisting(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadExisting(filepath.Join(dir, "typo.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"concurrency": 3}`), 0644))
	s, err := LoadExisting(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Concurrency)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")

	s := DefaultSettings()
	s.Concurrency = 42
	s.StoreURL = "mem://"
	s.CountryNames = true
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"concurrency": 9}`), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, s.Concurrency)
	assert.Equal(t, DefaultSettings().BaseURL, s.BaseURL)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *Settings)
	}{
		{"zero concurrency", func(s *Settings) { s.Concurrency = 0 }},
		{"concurrency above ceiling", func(s *Settings) { s.Concurrency = 1001 }},
		{"zero ceiling", func(s *Settings) { s.MaxConcurrency = 0 }},
		{"no base url", func(s *Settings) { s.BaseURL = "" }},
		{"zero timeout", func(s *Settings) { s.RequestTimeout = 0 }},
		{"negative rps", func(s *Settings) { s.RequestsPerSecond = -1 }},
		{"negative resize", func(s *Settings) { s.ResizeMax = -1 }},
		{"no destination", func(s *Settings) { s.DestDir = ""; s.StoreURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.modify(s)
			err := s.Validate()
			assert.True(t, errors.Is(err, ErrInvalidSettings), "err = %v", err)
		})
	}
}

func TestEffectiveConcurrency(t *testing.T) {
	tests := []struct {
		concurrency, max, items, want int
	}{
		{5, 1000, 20, 5},
		{50, 1000, 20, 20},
		{2000, 1000, 5000, 1000},
		{5, 1000, 0, 1},
	}

	for _, tt := range tests {
		s := DefaultSettings()
		s.Concurrency = tt.concurrency
		s.MaxConcurrency = tt.max
		if got := s.EffectiveConcurrency(tt.items); got != tt.want {
			t.Errorf("EffectiveConcurrency(%d) with %d/%d = %d, want %d", tt.items, tt.concurrency, tt.max, got, tt.want)
		}
	}
}

func TestConversions(t *testing.T) {
	s := DefaultSettings()
	s.RequestsPerSecond = 3
	s.StoreURL = "mem://"
	s.ResizeMax = 100

	fo := s.ToFetchOptions()
	assert.Equal(t, 3.0, fo.RequestsPerSecond)
	assert.Equal(t, s.Timeout(), fo.Timeout)

	so := s.ToStoreOptions()
	assert.Equal(t, "mem://", so.URL)
	assert.Equal(t, 100, so.ResizeMax)

	sup := s.ToSupervisorOptions(3)
	assert.Equal(t, 3, sup.Concurrency)
	assert.Equal(t, s.BaseURL, sup.BaseURL)
}
