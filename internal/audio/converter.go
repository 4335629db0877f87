package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// Converter normalizes any decodable audio file into a WAV/PCM16LE file.
//
// The source is always re-encoded, even when it already is a WAV file:
// decoding validates the content and re-encoding canonicalizes the sample
// format.
//
// Example:
//
//	conv := audio.NewConverter(audio.NewFFmpeg())
//	info, err := conv.Convert(ctx, "/music/song.mp3", "/music/song_temp_playback.wav")
//	if err != nil {
//	    fmt.Println(audio.AsError(err, "/music/song.mp3").Title())
//	}
type Converter struct {
	decoder     Decoder
	chunkFrames int
}

// NewConverter creates a Converter backed by decoder.
func NewConverter(decoder Decoder) *Converter {
	return &Converter{
		decoder:     decoder,
		chunkFrames: defaultChunkFrames,
	}
}

// Convert decodes src and writes it to dst as WAV/PCM16LE.
//
// All returned errors are *Error values. A partially written dst is left
// on disk; removing it is the caller's decision.
func (c *Converter) Convert(ctx context.Context, src, dst string) (WAVInfo, error) {
	format, err := c.decoder.Inspect(ctx, src)
	if err != nil {
		return WAVInfo{}, tag(err, KindUnexpected, src)
	}

	file, err := os.Create(dst)
	if err != nil {
		return WAVInfo{}, &Error{Kind: KindUnexpected, Path: src, Err: err}
	}

	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(ctx)

	var decErr, encErr error
	g.Go(func() error {
		decErr = c.decoder.Decode(gctx, src, format, pw)
		pw.CloseWithError(decErr)
		return decErr
	})
	g.Go(func() error {
		_, encErr = writeWAV(file, pr, format, c.chunkFrames)
		pr.CloseWithError(encErr)
		return encErr
	})
	_ = g.Wait()

	closeErr := file.Close()

	switch {
	case encErr != nil && encErr != decErr:
		// The encoder failed on its own; the decoder error, if any, is a consequence.
		kind := KindUnexpected
		if errors.Is(encErr, errNoSamples) {
			kind = KindDecode
		}
		return WAVInfo{}, &Error{Kind: kind, Path: src, Err: encErr}
	case decErr != nil:
		return WAVInfo{}, tag(decErr, KindUnexpected, src)
	case closeErr != nil:
		return WAVInfo{}, &Error{Kind: KindUnexpected, Path: src, Err: closeErr}
	}

	info, err := Inspect(dst)
	if err != nil {
		return WAVInfo{}, &Error{Kind: KindUnexpected, Path: src, Err: fmt.Errorf("verify output: %w", err)}
	}
	if !info.IsPCM16() {
		return WAVInfo{}, &Error{Kind: KindUnexpected, Path: src, Err: fmt.Errorf("output is not 16-bit PCM (format %d, %d bits)", info.AudioFormat, info.BitDepth)}
	}
	return info, nil
}
