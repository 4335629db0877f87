package audio

import (
	"context"
	"io"
)

// BitDepth is the sample size of every normalized file.
const BitDepth = 16

// Format describes the PCM stream a Decoder produces for a source.
type Format struct {
	// Codec is the source codec as reported by ffprobe (informational).
	Codec string

	// SampleRate is in Hz.
	SampleRate int

	// Channels is the interleaved channel count.
	Channels int
}

// FrameSize returns the number of bytes per interleaved s16le frame.
func (f Format) FrameSize() int {
	return f.Channels * BitDepth / 8
}

// Decoder turns an arbitrary audio file into raw PCM.
//
// Implementations sniff the container/codec themselves and must return
// *Error values so callers can tell decode failures, a missing backend
// and everything else apart.
type Decoder interface {
	// Inspect reads the source header and returns the format Decode will produce.
	Inspect(ctx context.Context, path string) (Format, error)

	// Decode writes interleaved signed 16-bit little-endian samples in the
	// given format to w.
	Decode(ctx context.Context, path string, format Format, w io.Writer) error
}
