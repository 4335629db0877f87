package audio

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Kind classifies why a source could not be normalized.
//
// The three kinds never overlap: every failure maps to exactly one of them.
type Kind int

const (
	// KindUnexpected covers I/O, permission and any other failure.
	KindUnexpected Kind = iota

	// KindDecode means the source content is corrupt or uses an unsupported codec.
	KindDecode

	// KindDependencyMissing means ffmpeg or ffprobe is not installed or not resolvable.
	KindDependencyMissing
)

// Sentinel errors matched by *Error through errors.Is.
var (
	ErrUnexpected        = errors.New("unexpected audio failure")
	ErrDecode            = errors.New("audio could not be decoded")
	ErrDependencyMissing = errors.New("audio decoding backend not available")
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindDecode:
		return "decode"
	case KindDependencyMissing:
		return "dependency-missing"
	default:
		return "unexpected"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindDecode:
		return ErrDecode
	case KindDependencyMissing:
		return ErrDependencyMissing
	default:
		return ErrUnexpected
	}
}

// Error is a normalization failure tagged with its Kind.
//
// Example:
//
//	_, err := converter.Convert(ctx, src, dst)
//	if errors.Is(err, audio.ErrDependencyMissing) {
//	    // ask the user to install ffmpeg
//	}
type Error struct {
	Kind Kind
	Path string // source file being processed
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind.sentinel(), e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind.sentinel(), filepath.Base(e.Path), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// Title returns the short heading shown to the user.
func (e *Error) Title() string {
	switch e.Kind {
	case KindDecode:
		return "Load/Conversion Error"
	case KindDependencyMissing:
		return "Dependency Error"
	default:
		return "Unexpected Error"
	}
}

// Message returns the user-facing explanation, including the underlying error.
func (e *Error) Message() string {
	name := filepath.Base(e.Path)
	switch e.Kind {
	case KindDecode:
		return fmt.Sprintf("ffmpeg could not decode the file: %s. It may be corrupt or in an unsupported format.\nError: %v", name, e.Err)
	case KindDependencyMissing:
		return fmt.Sprintf("ffmpeg or ffprobe was not found. Both are required to read audio.\nMake sure they are installed and on the system PATH.\nError: %v", e.Err)
	default:
		return fmt.Sprintf("Unexpected error while processing %s: %v", name, e.Err)
	}
}

// KindOf returns the Kind carried by err. Untagged errors are KindUnexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// tag returns err as an *Error, keeping an existing tag and filling in path.
func tag(err error, kind Kind, path string) *Error {
	var e *Error
	if errors.As(err, &e) {
		if e.Path == "" {
			e.Path = path
		}
		return e
	}
	return &Error{Kind: kind, Path: path, Err: err}
}

// AsError returns err as a tagged *Error for path; untagged errors become KindUnexpected.
func AsError(err error, path string) *Error {
	if err == nil {
		return nil
	}
	return tag(err, KindUnexpected, path)
}
