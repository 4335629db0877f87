package model

import (
	"time"

	ioutils "github.com/handiism/transcriptor/internal/io"
)

// Handle points to the normalized WAV copy of a Source.
//
// A Handle either does not exist or refers to a file that exists on disk
// and was derived from exactly one Source. The owner of the handle is
// responsible for deleting the file.
type Handle struct {
	// Path is where the normalized WAV file was written.
	Path string

	// SourceStem is the base name of the source, used for naming.
	SourceStem string

	// Source is the file the handle was derived from.
	Source Source

	// SampleRate, Channels and BitDepth describe the PCM stream in the WAV file.
	// BitDepth is always 16.
	SampleRate int
	Channels   int
	BitDepth   int

	// Duration is the playback length of the normalized file.
	Duration time.Duration

	// CreatedAt is when normalization finished.
	CreatedAt time.Time
}

// NewHandle creates a Handle for src written at path.
func NewHandle(src Source, path string) *Handle {
	return &Handle{
		Path:       path,
		SourceStem: src.Stem(),
		Source:     src,
		CreatedAt:  time.Now(),
	}
}

// Exists reports whether the handle's file is currently present on disk.
func (h *Handle) Exists() bool {
	return h != nil && ioutils.Exists(h.Path)
}
