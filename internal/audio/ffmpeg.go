package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Compile-time interface implementation check.
var _ Decoder = (*FFmpeg)(nil)

// errToolStart marks failures to launch a backend binary at all.
var errToolStart = errors.New("failed to start")

// Markers found in ffmpeg/ffprobe stderr.
var (
	decodeMarkers = []string{
		"Invalid data found when processing input",
		"could not find codec parameters",
		"does not contain any stream",
		"Output file does not contain any stream",
		"moov atom not found",
		"Error while decoding",
		"Invalid frame",
		"Decoding requested, but no decoder found",
		"Unknown input format",
		"End of file",
	}
	ioMarkers = []string{
		"No such file or directory",
		"Permission denied",
		"No space left on device",
		"Is a directory",
	}
)

// commandRunner executes an external tool; stdout is streamed to the writer
// and stderr returned for error classification.
type commandRunner interface {
	Run(ctx context.Context, stdout io.Writer, name string, args ...string) (stderr string, err error)
}

type osCommandRunner struct{}

func (osCommandRunner) Run(ctx context.Context, stdout io.Writer, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%s %w: %v", name, errToolStart, err)
	}
	err := cmd.Wait()
	return stderr.String(), err
}

// FFmpeg decodes audio by shelling out to ffprobe and ffmpeg.
//
// Binaries are resolved on every call, so installing ffmpeg while the
// application runs is picked up without a restart.
//
// Example:
//
//	dec := audio.NewFFmpeg(audio.WithFFmpegPath(settings.FFmpegPath))
//	format, err := dec.Inspect(ctx, "/music/song.m4a")
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string

	// Injectable dependencies (defaults to OS implementations).
	lookPath func(string) (string, error)
	cmd      commandRunner
}

// FFmpegOption configures an FFmpeg decoder.
type FFmpegOption func(*FFmpeg)

// WithFFmpegPath sets the ffmpeg binary. Empty means "ffmpeg" from PATH.
func WithFFmpegPath(path string) FFmpegOption {
	return func(f *FFmpeg) {
		f.ffmpegPath = path
	}
}

// WithFFprobePath sets the ffprobe binary. Empty means "ffprobe" from PATH.
func WithFFprobePath(path string) FFmpegOption {
	return func(f *FFmpeg) {
		f.ffprobePath = path
	}
}

// NewFFmpeg creates an FFmpeg decoder.
func NewFFmpeg(opts ...FFmpegOption) *FFmpeg {
	f := &FFmpeg{
		lookPath: exec.LookPath,
		cmd:      osCommandRunner{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Available reports whether both ffmpeg and ffprobe can be resolved.
func (f *FFmpeg) Available() error {
	if _, err := f.resolve(f.ffprobePath, "ffprobe", ""); err != nil {
		return err
	}
	_, err := f.resolve(f.ffmpegPath, "ffmpeg", "")
	return err
}

// Inspect reads the first audio stream of path with ffprobe.
func (f *FFmpeg) Inspect(ctx context.Context, path string) (Format, error) {
	if _, err := os.Stat(path); err != nil {
		return Format{}, &Error{Kind: KindUnexpected, Path: path, Err: err}
	}

	bin, err := f.resolve(f.ffprobePath, "ffprobe", path)
	if err != nil {
		return Format{}, err
	}

	var out bytes.Buffer
	stderr, err := f.cmd.Run(ctx, &out, bin,
		"-v", "error",
		"-select_streams", "a:0",
		"-show_entries", "stream=codec_name,sample_rate,channels",
		"-of", "json",
		path,
	)
	if err != nil {
		return Format{}, classify(ctx, "ffprobe", path, stderr, err)
	}

	format, err := parseStreams(out.Bytes())
	if err != nil {
		return Format{}, &Error{Kind: KindDecode, Path: path, Err: err}
	}
	return format, nil
}

// Decode streams path as s16le PCM in the given format to w.
func (f *FFmpeg) Decode(ctx context.Context, path string, format Format, w io.Writer) error {
	bin, err := f.resolve(f.ffmpegPath, "ffmpeg", path)
	if err != nil {
		return err
	}

	stderr, err := f.cmd.Run(ctx, w, bin,
		"-nostdin",
		"-hide_banner",
		"-loglevel", "error",
		"-i", path,
		"-vn",
		"-map", "0:a:0",
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(format.Channels),
		"-ar", strconv.Itoa(format.SampleRate),
		"pipe:1",
	)
	if err != nil {
		return classify(ctx, "ffmpeg", path, stderr, err)
	}
	return nil
}

// resolve finds a backend binary, reporting a missing one as KindDependencyMissing.
func (f *FFmpeg) resolve(configured, name, source string) (string, error) {
	target := configured
	if target == "" {
		target = name
	}
	bin, err := f.lookPath(target)
	if err != nil {
		return "", &Error{Kind: KindDependencyMissing, Path: source, Err: fmt.Errorf("%s: %w", name, err)}
	}
	return bin, nil
}

type ffprobeOutput struct {
	Streams []struct {
		CodecName  string `json:"codec_name"`
		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// parseStreams extracts the format of the first audio stream from ffprobe JSON.
func parseStreams(data []byte) (Format, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Format{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return Format{}, errors.New("no audio stream found")
	}

	s := out.Streams[0]
	rate, err := strconv.Atoi(s.SampleRate)
	if err != nil || rate <= 0 {
		return Format{}, fmt.Errorf("invalid sample rate %q", s.SampleRate)
	}
	if s.Channels <= 0 {
		return Format{}, fmt.Errorf("invalid channel count %d", s.Channels)
	}

	return Format{Codec: s.CodecName, SampleRate: rate, Channels: s.Channels}, nil
}

// classify maps a failed tool run to one of the three error kinds.
func classify(ctx context.Context, tool, path, stderr string, err error) *Error {
	detail := strings.TrimSpace(stderr)
	if i := strings.IndexByte(detail, '\n'); i >= 0 {
		detail = detail[:i]
	}
	wrapped := fmt.Errorf("%s: %w", tool, err)
	if detail != "" {
		wrapped = fmt.Errorf("%s: %w: %s", tool, err, detail)
	}

	switch {
	case ctx.Err() != nil:
		return &Error{Kind: KindUnexpected, Path: path, Err: fmt.Errorf("%s: %w", tool, ctx.Err())}
	case errors.Is(err, errToolStart), errors.Is(err, exec.ErrNotFound):
		return &Error{Kind: KindDependencyMissing, Path: path, Err: wrapped}
	case containsAny(stderr, ioMarkers):
		return &Error{Kind: KindUnexpected, Path: path, Err: wrapped}
	case containsAny(stderr, decodeMarkers):
		return &Error{Kind: KindDecode, Path: path, Err: wrapped}
	case tool == "ffprobe":
		// ffprobe only reads the input, so any other failure is about its content.
		return &Error{Kind: KindDecode, Path: path, Err: wrapped}
	default:
		return &Error{Kind: KindUnexpected, Path: path, Err: wrapped}
	}
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
