package normalize

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/handiism/transcriptor/internal/audio"
	"github.com/handiism/transcriptor/internal/config"
	ioutils "github.com/handiism/transcriptor/internal/io"
	"github.com/handiism/transcriptor/internal/model"
)

// Converter writes the normalized WAV copy of src to dst.
type Converter interface {
	Convert(ctx context.Context, src, dst string) (audio.WAVInfo, error)
}

// Notifier shows a blocking error to the user.
type Notifier interface {
	Notify(title, message string)
}

type discardNotifier struct{}

func (discardNotifier) Notify(string, string) {}

// Session owns the normalized copy of the currently selected source.
//
// At most one handle is live at a time: normalizing a new source deletes
// the previous copy first. All methods are safe for concurrent use and are
// serialized, so normalization, replacement and cleanup never race.
type Session struct {
	id        string
	settings  *config.Settings
	converter Converter
	notifier  Notifier
	onEvent   func(Event)

	mu     sync.Mutex
	handle *model.Handle
}

// Option configures a Session.
type Option func(*Session)

// WithConverter replaces the ffmpeg-backed converter.
func WithConverter(c Converter) Option {
	return func(s *Session) {
		s.converter = c
	}
}

// WithNotifier sets the collaborator that displays errors to the user.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}

// WithEventHandler sets the callback receiving progress and diagnostic events.
func WithEventHandler(fn func(Event)) Option {
	return func(s *Session) {
		s.onEvent = fn
	}
}

// NewSession creates a Session.
//
// By default sources are decoded with ffmpeg/ffprobe as configured in
// settings and errors are not shown anywhere; front ends supply a Notifier.
func NewSession(settings *config.Settings, opts ...Option) *Session {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	s := &Session{
		id:       uuid.NewString(),
		settings: settings,
		notifier: discardNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.converter == nil {
		s.converter = audio.NewConverter(audio.NewFFmpeg(
			audio.WithFFmpegPath(settings.FFmpegPath),
			audio.WithFFprobePath(settings.FFprobePath),
		))
	}
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// BeginSelection deletes the current normalized copy ahead of a new file
// selection. Front ends that drive their own picker call it before showing it.
func (s *Session) BeginSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()
}

// SelectSource clears the current handle and asks picker for a new source.
//
// ok is false when the user cancelled; the session then holds no handle.
func (s *Session) SelectSource(ctx context.Context, picker Picker) (src model.Source, ok bool, err error) {
	s.BeginSelection()

	req := PickRequest{
		FileTypes:        s.settings.FileTypes,
		DefaultExtension: s.settings.DefaultExtension,
	}
	path, ok, err := picker.Pick(ctx, req)
	if err != nil {
		return model.Source{}, false, fmt.Errorf("file picker: %w", err)
	}
	if !ok {
		s.emit(LevelInfo, "File selection cancelled.")
		return model.Source{}, false, nil
	}

	src, err = model.NewSource(path)
	if err != nil {
		return model.Source{}, false, err
	}
	// ffmpeg has the final say; an unlisted type only warns.
	if !req.Accepts(src.Path) {
		s.emit(LevelWarning, fmt.Sprintf("%s is not one of the configured file types", src.Name()))
	}
	s.emit(LevelInfo, fmt.Sprintf("Selected file: %s", src.Path))
	return src, true, nil
}

// Normalize decodes src and re-encodes it as "<stem>_temp_playback.wav"
// beside the source, replacing any previous handle.
//
// Failures are reported to the Notifier with one of three titles (decode,
// missing dependency, unexpected) and leave the session without a handle.
// The returned error is the *audio.Error that was reported; callers that
// only care about "handle or not" may ignore it.
func (s *Session) Normalize(ctx context.Context, src model.Source) (*model.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cleanupLocked()

	target := src.TempPlaybackPath()
	s.emit(LevelInfo, fmt.Sprintf("Loading %s...", src.Name()))

	info, err := s.converter.Convert(ctx, src.Path, target)
	if err != nil {
		aerr := audio.AsError(err, src.Path)
		s.emit(LevelError, aerr.Message())
		s.notifier.Notify(aerr.Title(), aerr.Message())
		s.removePartial(target)
		s.handle = nil
		return nil, aerr
	}

	handle := model.NewHandle(src, target)
	handle.SampleRate = info.SampleRate
	handle.Channels = info.Channels
	handle.BitDepth = info.BitDepth
	handle.Duration = info.Duration

	s.handle = handle
	s.emit(LevelSuccess, fmt.Sprintf("Normalized to %s", handle.Path))
	return handle, nil
}

// Current returns the live handle, or nil if there is none.
func (s *Session) Current() *model.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// Cleanup deletes the normalized copy, if any, and clears the handle.
//
// Deletion failures are reported as warnings only; the handle is cleared
// regardless so a locked or broken file is not retried forever.
func (s *Session) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupLocked()
}

// Forget clears the handle without touching the disk if it still points
// to path. It is used when the file was removed by someone else.
func (s *Session) Forget(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handle == nil || s.handle.Path != path {
		return false
	}
	s.emit(LevelWarning, fmt.Sprintf("Temporary WAV file %s was removed externally", s.handle.Path))
	s.handle = nil
	return true
}

func (s *Session) cleanupLocked() {
	h := s.handle
	s.handle = nil
	if h == nil {
		return
	}

	removed, err := ioutils.RemoveIfExists(h.Path)
	switch {
	case err != nil:
		s.emit(LevelWarning, fmt.Sprintf("Could not delete temporary WAV file %s: %v", h.Path, err))
	case removed:
		s.emit(LevelVerbose, fmt.Sprintf("Deleted temporary WAV file: %s", h.Path))
	}
}

// removePartial deletes output left behind by a failed conversion.
func (s *Session) removePartial(target string) {
	removed, err := ioutils.RemoveIfExists(target)
	switch {
	case err != nil:
		s.emit(LevelWarning, fmt.Sprintf("Could not delete partial output %s: %v", target, err))
	case removed:
		s.emit(LevelVerbose, fmt.Sprintf("Deleted partial output: %s", target))
	}
}

func (s *Session) emit(level EventLevel, message string) {
	if s.onEvent != nil {
		s.onEvent(Event{Message: message, Level: level})
	}
}
