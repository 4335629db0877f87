package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE format tag for integer PCM.
const wavFormatPCM = 1

// defaultChunkFrames is how many frames are encoded per write.
const defaultChunkFrames = 4096

// errNoSamples is returned when the decoder produced no audio at all.
var errNoSamples = errors.New("decoder produced no audio samples")

// WAVInfo describes a WAV file on disk.
type WAVInfo struct {
	SampleRate  int
	Channels    int
	BitDepth    int
	AudioFormat int
	DataSize    int64
	Duration    time.Duration
}

// IsPCM16 reports whether the file holds 16-bit integer PCM.
func (i WAVInfo) IsPCM16() bool {
	return i.AudioFormat == wavFormatPCM && i.BitDepth == BitDepth
}

// writeWAV encodes s16le PCM read from r as a WAV file into w.
//
// Read errors from r are returned unwrapped so the caller can tell them
// apart from encoder failures.
func writeWAV(w io.WriteSeeker, r io.Reader, format Format, chunkFrames int) (int64, error) {
	if format.Channels <= 0 || format.SampleRate <= 0 {
		return 0, fmt.Errorf("invalid PCM format %+v", format)
	}
	if chunkFrames <= 0 {
		chunkFrames = defaultChunkFrames
	}

	enc := wav.NewEncoder(w, format.SampleRate, BitDepth, format.Channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		SourceBitDepth: BitDepth,
	}

	frameSize := format.FrameSize()
	raw := make([]byte, chunkFrames*frameSize)
	var frames int64

	for {
		n, err := io.ReadFull(r, raw)
		// Drop a trailing partial frame.
		n -= n % frameSize
		if n > 0 {
			samples := n / 2
			if cap(buf.Data) < samples {
				buf.Data = make([]int, samples)
			}
			buf.Data = buf.Data[:samples]
			for i := 0; i < samples; i++ {
				buf.Data[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
			}
			if werr := enc.Write(buf); werr != nil {
				return frames, fmt.Errorf("encode wav: %w", werr)
			}
			frames += int64(n / frameSize)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return frames, err
		}
	}

	if frames == 0 {
		return 0, errNoSamples
	}
	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("finalize wav: %w", err)
	}
	return frames, nil
}

// Inspect reads the header of a WAV file.
//
// Returns an error if the file is missing or is not a valid WAVE container.
func Inspect(path string) (WAVInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return WAVInfo{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return WAVInfo{}, fmt.Errorf("%s is not a valid WAV file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return WAVInfo{}, fmt.Errorf("locate PCM data: %w", err)
	}

	info := WAVInfo{
		SampleRate:  int(dec.SampleRate),
		Channels:    int(dec.NumChans),
		BitDepth:    int(dec.BitDepth),
		AudioFormat: int(dec.WavAudioFormat),
		DataSize:    dec.PCMLen(),
	}
	if frameSize := int64(info.Channels * info.BitDepth / 8); frameSize > 0 && info.SampleRate > 0 {
		frames := info.DataSize / frameSize
		info.Duration = time.Duration(frames) * time.Second / time.Duration(info.SampleRate)
	}
	return info, nil
}
