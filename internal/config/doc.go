// Package config provides configuration management for flags-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Validation of the concurrency limits
//   - Conversion to the option structs of other packages
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads into ./downloaded
//	// 5 concurrent requests, ceiling 1000
//	// 6.1 second request timeout
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.Concurrency = 20
//	err := settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Source base URL and per-request timeout
//   - Concurrency and its ceiling
//   - Client-side request pacing
//   - Destination directory or bucket URL
//   - Image conversion
//   - Country-name file naming
package config
