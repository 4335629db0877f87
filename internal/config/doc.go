// Package config provides configuration management for transcriptor.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment variable overrides
//   - Derived values such as recognized extensions and model warnings
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Audio files: *.mp3 *.wav *.ogg *.flac *.m4a, plus "All files"
//	// Spanish transcription with the "tiny" model
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Environment Overrides
//
// After the file is read, these variables override it when set:
//   - TRANSCRIPTOR_FFMPEG, TRANSCRIPTOR_FFPROBE: decoding toolchain paths
//   - TRANSCRIPTOR_LANGUAGE: target transcription language
//   - TRANSCRIPTOR_MODEL: default model identifier
//   - TRANSCRIPTOR_NOTIFY: enable desktop notifications
//
// # Saving Settings
//
//	settings.DefaultModel = "small"
//	err := settings.Save("/path/to/config.json")
package config
