package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/handiism/flags-downloader/internal/fetch"
	"github.com/handiism/flags-downloader/internal/store"
	"github.com/handiism/flags-downloader/internal/supervisor"
)

// ErrInvalidSettings is wrapped by every Validate error.
var ErrInvalidSettings = errors.New("config: invalid settings")

// Settings holds all configuration options.
type Settings struct {
	// Source settings
	BaseURL           string  `json:"base_url"`
	RequestTimeout    float64 `json:"request_timeout"` // seconds
	UserAgent         string  `json:"user_agent"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	Burst             int     `json:"burst"`

	// Concurrency settings
	Concurrency    int `json:"concurrency"`
	MaxConcurrency int `json:"max_concurrency"`

	// Destination settings
	DestDir  string `json:"dest_dir"`
	StoreURL string `json:"store_url"` // gocloud.dev bucket URL, overrides dest_dir

	// File settings
	CountryNames  bool `json:"country_names"`
	ConvertToJPEG bool `json:"convert_to_jpeg"`
	ResizeMax     int  `json:"resize_max"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:        "https://www.fluentpython.com/data/flags",
		RequestTimeout: 6.1,
		UserAgent:      "flags-downloader",
		Burst:          1,

		Concurrency:    supervisor.DefaultConcurrency,
		MaxConcurrency: supervisor.DefaultMaxConcurrency,

		DestDir: "downloaded",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}

	return settings, nil
}

// LoadExisting is Load for a path the user named explicitly: a missing
// file is an error instead of a silent fallback to defaults.
func LoadExisting(path string) (*Settings, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return Load(path)
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks the settings for values no batch could run with.
func (s *Settings) Validate() error {
	switch {
	case s.BaseURL == "":
		return errors.Wrap(ErrInvalidSettings, "base_url is empty")
	case s.MaxConcurrency < 1:
		return errors.Wrapf(ErrInvalidSettings, "max_concurrency must be positive, got %d", s.MaxConcurrency)
	case s.Concurrency < 1 || s.Concurrency > s.MaxConcurrency:
		return errors.WithHintf(
			errors.Wrapf(ErrInvalidSettings, "concurrency %d out of range", s.Concurrency),
			"concurrency must lie in [1, %d]", s.MaxConcurrency,
		)
	case s.RequestTimeout <= 0:
		return errors.Wrapf(ErrInvalidSettings, "request_timeout must be positive, got %g", s.RequestTimeout)
	case s.RequestsPerSecond < 0:
		return errors.Wrapf(ErrInvalidSettings, "requests_per_second must not be negative, got %g", s.RequestsPerSecond)
	case s.ResizeMax < 0:
		return errors.Wrapf(ErrInvalidSettings, "resize_max must not be negative, got %d", s.ResizeMax)
	case s.DestDir == "" && s.StoreURL == "":
		return errors.Wrap(ErrInvalidSettings, "either dest_dir or store_url must be set")
	}
	return nil
}

// EffectiveConcurrency caps Concurrency by MaxConcurrency and by the
// number of items, never going below one.
func (s *Settings) EffectiveConcurrency(items int) int {
	n := min(s.Concurrency, s.MaxConcurrency, items)
	if n < 1 {
		n = 1
	}
	return n
}

// Timeout returns RequestTimeout as a duration.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout * float64(time.Second))
}

// ToFetchOptions converts settings to fetch.Options.
func (s *Settings) ToFetchOptions() fetch.Options {
	return fetch.Options{
		UserAgent:         s.UserAgent,
		Timeout:           s.Timeout(),
		RequestsPerSecond: s.RequestsPerSecond,
		Burst:             s.Burst,
	}
}

// ToStoreOptions converts settings to store.Options.
func (s *Settings) ToStoreOptions() store.Options {
	return store.Options{
		Dir:           s.DestDir,
		URL:           s.StoreURL,
		ConvertToJPEG: s.ConvertToJPEG,
		ResizeMax:     s.ResizeMax,
	}
}

// ToSupervisorOptions converts settings to supervisor.Options for a batch
// of the given size. Reporting and logging fields are left for the caller.
func (s *Settings) ToSupervisorOptions(items int) supervisor.Options {
	return supervisor.Options{
		Concurrency:    s.EffectiveConcurrency(items),
		MaxConcurrency: s.MaxConcurrency,
		Timeout:        s.Timeout(),
		BaseURL:        s.BaseURL,
		CountryNames:   s.CountryNames,
	}
}
