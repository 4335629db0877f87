package model

import (
	"errors"
	"path/filepath"
	"strings"
)

// TempPlaybackSuffix is appended to the source stem to name the normalized copy.
const TempPlaybackSuffix = "_temp_playback.wav"

// ErrEmptyPath is returned when a Source is built from an empty path.
var ErrEmptyPath = errors.New("empty source path")

// Source is an audio file selected by the user.
//
// The path is absolute and immutable once the Source is created. Existence
// of the file is not checked here; that happens when the file is decoded.
type Source struct {
	// Path is the absolute filesystem path of the selected file.
	Path string
}

// NewSource creates a Source from a (possibly relative) path.
func NewSource(path string) (Source, error) {
	if strings.TrimSpace(path) == "" {
		return Source{}, ErrEmptyPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Source{}, err
	}
	return Source{Path: abs}, nil
}

// Name returns the base name of the source file, extension included.
func (s Source) Name() string {
	return filepath.Base(s.Path)
}

// Dir returns the directory containing the source file.
func (s Source) Dir() string {
	return filepath.Dir(s.Path)
}

// Stem returns the base name without its final extension.
//
// Only the last extension is removed, so "live.2024.flac" yields "live.2024".
// A leading dot does not start an extension and a trailing dot is not one:
// ".mp3" and "take." are their own stems.
func (s Source) Stem() string {
	name := s.Name()
	ext := filepath.Ext(name)
	if ext == name || ext == "." {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// TempPlaybackPath returns where the normalized copy of this source lives:
// "<stem>_temp_playback.wav" beside the original file.
func (s Source) TempPlaybackPath() string {
	return filepath.Join(s.Dir(), s.Stem()+TempPlaybackSuffix)
}
