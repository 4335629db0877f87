package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/handiism/transcriptor/internal/model"
	"github.com/ilyakaznacheev/cleanenv"
)

// Version identifies the application build.
const Version = "rev41"

// Settings holds all configuration options.
type Settings struct {
	// File selection
	FileTypes        []model.FileType `json:"file_types"`
	DefaultExtension string           `json:"default_extension"`

	// Transcription (consumed downstream)
	TargetLanguage string   `json:"target_language" env:"TRANSCRIPTOR_LANGUAGE"`
	Models         []string `json:"models"`
	DefaultModel   string   `json:"default_model" env:"TRANSCRIPTOR_MODEL"`
	InitialPrompt  string   `json:"initial_prompt"`

	// Playback highlighting and UI colors
	HighlightColor           string `json:"highlight_color"`
	PlaybackUpdateIntervalMS int    `json:"playback_update_interval_ms"`
	BackgroundColor          string `json:"bg_color"`
	StatusColorGray          string `json:"status_color_gray"`
	StatusColorRed           string `json:"status_color_red"`
	StatusColorGreen         string `json:"status_color_green"`
	StatusColorYellow        string `json:"status_color_yellow"`
	ProgressBarColor         string `json:"progress_bar_color"`

	// Decoding backend; empty paths are resolved through PATH
	FFmpegPath  string `json:"ffmpeg_path" env:"TRANSCRIPTOR_FFMPEG"`
	FFprobePath string `json:"ffprobe_path" env:"TRANSCRIPTOR_FFPROBE"`

	// Notifications
	DesktopNotifications bool `json:"desktop_notifications" env:"TRANSCRIPTOR_NOTIFY"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		FileTypes: []model.FileType{
			{Description: "Audio files", Patterns: []string{"*.mp3", "*.wav", "*.ogg", "*.flac", "*.m4a"}},
			{Description: "All files", Patterns: []string{"*.*"}},
		},
		DefaultExtension: ".mp3",

		TargetLanguage: "es",
		Models:         []string{"tiny", "base", "small", "medium", "large"},
		DefaultModel:   "tiny",
		InitialPrompt:  "Transcripción en español.",

		HighlightColor:           "yellow",
		PlaybackUpdateIntervalMS: 100,
		BackgroundColor:          "#f0f0f0",
		StatusColorGray:          "gray",
		StatusColorRed:           "red",
		StatusColorGreen:         "green",
		StatusColorYellow:        "yellow",
		ProgressBarColor:         "#4CAF50",
	}
}

// Load reads settings from a JSON file and applies environment overrides.
//
// An empty path or a missing file is not an error: defaults are used instead.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	var data []byte
	err := os.ErrNotExist
	if path != "" {
		data, err = os.ReadFile(path)
	}
	switch {
	case err == nil:
		if err := json.Unmarshal(data, settings); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	if err := cleanenv.ReadEnv(settings); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	return settings, nil
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

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	var errs []error
	if len(s.FileTypes) == 0 {
		errs = append(errs, errors.New("at least one file type is required"))
	}
	if len(s.Models) == 0 {
		errs = append(errs, errors.New("at least one model is required"))
	} else if !slices.Contains(s.Models, s.DefaultModel) {
		errs = append(errs, fmt.Errorf("default model %q is not in %v", s.DefaultModel, s.Models))
	}
	if s.PlaybackUpdateIntervalMS <= 0 {
		errs = append(errs, fmt.Errorf("playback update interval must be positive, got %d", s.PlaybackUpdateIntervalMS))
	}
	return errors.Join(errs...)
}

// Extensions returns every recognized audio extension, without duplicates.
// Catch-all entries such as "All files" contribute nothing.
func (s *Settings) Extensions() []string {
	var exts []string
	for _, ft := range s.FileTypes {
		for _, ext := range ft.Extensions() {
			if !slices.Contains(exts, ext) {
				exts = append(exts, ext)
			}
		}
	}
	return exts
}

// PlaybackUpdateInterval returns the highlight refresh period.
func (s *Settings) PlaybackUpdateInterval() time.Duration {
	return time.Duration(s.PlaybackUpdateIntervalMS) * time.Millisecond
}

// ModelWarning returns a resource warning for heavy models, or "" if none applies.
func ModelWarning(name string) string {
	switch name {
	case "medium":
		return "Warning: the 'medium' model (and 'large') needs a lot of resources and can be VERY slow on CPU. Use it only for short audio."
	case "large":
		return "Warning: the 'large' model is extremely slow on CPU and can use a lot of memory. Not recommended without a powerful GPU."
	}
	return ""
}
