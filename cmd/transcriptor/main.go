package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/handiism/transcriptor/internal/audio"
	"github.com/handiism/transcriptor/internal/config"
	"github.com/handiism/transcriptor/internal/logger"
	"github.com/handiism/transcriptor/internal/normalize"
	"github.com/handiism/transcriptor/internal/notify"
	"github.com/handiism/transcriptor/internal/watch"
)

// Exit codes
const (
	exitOK          = 0
	exitUsage       = 1
	exitFailed      = 2
	exitMissingDeps = 3
	exitInterrupted = 130
)

// env holds the streams and decoding backend of one run.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// decoder replaces ffmpeg/ffprobe when set.
	decoder audio.Decoder
}

func main() {
	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
		cancel()
	}()

	code := run(ctx, os.Args[1:], env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr})
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, e env) int {
	fs := flag.NewFlagSet("transcriptor", flag.ContinueOnError)
	fs.SetOutput(e.stderr)

	// Command line flags
	var (
		fileFlag     = fs.String("file", "", "Audio file to normalize (prompts on stdin when empty)")
		configFlag   = fs.String("config", "", "Path to config file")
		keepFlag     = fs.Bool("keep", false, "Keep the temporary WAV file and exit")
		verboseFlag  = fs.Bool("verbose", false, "Show verbose output (same as -log-level debug)")
		logLevelFlag = fs.String("log-level", "info", "Log level: debug, info, warn or error")
		notifyFlag   = fs.Bool("notify", false, "Also show errors as desktop notifications")
		jsonFlag     = fs.Bool("json", false, "Write logs as JSON")
		versionFlag  = fs.Bool("version", false, "Print version and exit")
		saveFlag     = fs.String("save-config", "", "Write the effective settings to this path and exit")
	)

	fs.Usage = func() {
		fmt.Fprintln(e.stderr, "Transcriptor - prepare an audio file for transcription")
		fmt.Fprintln(e.stderr)
		fmt.Fprintln(e.stderr, "Usage:")
		fmt.Fprintln(e.stderr, "  transcriptor [options] -file <audio>")
		fmt.Fprintln(e.stderr, "  transcriptor [options] <audio>")
		fmt.Fprintln(e.stderr)
		fmt.Fprintln(e.stderr, "For interactive mode, use: transcriptor-tui")
		fmt.Fprintln(e.stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if *versionFlag {
		fmt.Fprintln(e.stdout, "transcriptor", config.Version)
		return exitOK
	}

	// Options after the file name are not parsed by the flag package.
	if fs.NArg() > 1 {
		fmt.Fprintf(e.stderr, "Unexpected arguments after %s: %s (options go before the file)\n",
			fs.Arg(0), strings.Join(fs.Args()[1:], " "))
		return exitUsage
	}

	// Load config
	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error loading config: %v\n", err)
		return exitUsage
	}
	if *notifyFlag {
		settings.DesktopNotifications = true
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(e.stderr, "Invalid config: %v\n", err)
		return exitUsage
	}

	if *saveFlag != "" {
		if err := settings.Save(*saveFlag); err != nil {
			fmt.Fprintf(e.stderr, "Error saving config: %v\n", err)
			return exitFailed
		}
		fmt.Fprintln(e.stderr, "Config written to", *saveFlag)
		return exitOK
	}

	level := logger.ParseLevel(*logLevelFlag)
	if *verboseFlag {
		level = slog.LevelDebug
	}
	log := logger.New(logger.Config{Level: level, Output: e.stderr, JSONFormat: *jsonFlag})

	// Errors always reach the terminal; the desktop popup is extra.
	var notifier notify.Notifier = notify.NewWriter(e.stderr)
	if settings.DesktopNotifications {
		notifier = notify.NewDesktop("transcriptor", notifier)
	}

	decoder := e.decoder
	if decoder == nil {
		ff := audio.NewFFmpeg(
			audio.WithFFmpegPath(settings.FFmpegPath),
			audio.WithFFprobePath(settings.FFprobePath),
		)
		// Report a missing toolchain before asking for a file.
		if err := ff.Available(); err != nil {
			aerr := audio.AsError(err, "")
			notifier.Notify(aerr.Title(), aerr.Message())
			return exitMissingDeps
		}
		decoder = ff
	}

	var onEvent func(normalize.Event)
	session := normalize.NewSession(settings,
		normalize.WithConverter(audio.NewConverter(decoder)),
		normalize.WithNotifier(notifier),
		normalize.WithEventHandler(func(ev normalize.Event) { onEvent(ev) }),
	)
	log = logger.WithSession(log, session.ID())
	onEvent = normalize.LogEvents(log)
	defer session.Cleanup()

	file := *fileFlag
	if file == "" && fs.NArg() > 0 {
		file = fs.Arg(0)
	}

	var picker normalize.Picker = normalize.PromptPicker{In: e.stdin, Out: e.stderr}
	if file != "" {
		picker = normalize.StaticPicker{Path: file}
	}

	src, ok, err := session.SelectSource(ctx, picker)
	if err != nil {
		if ctx.Err() != nil {
			return exitInterrupted
		}
		log.Error("file selection failed", "error", err)
		return exitUsage
	}
	if !ok {
		return exitOK
	}

	handle, err := session.Normalize(ctx, src)
	if handle == nil {
		if ctx.Err() != nil {
			return exitInterrupted
		}
		if audio.KindOf(err) == audio.KindDependencyMissing {
			return exitMissingDeps
		}
		return exitFailed
	}

	if info, err := audio.ReadSourceInfo(src.Path); err != nil {
		log.Debug("no readable tags", "path", src.Path, "error", err)
	} else if !info.Empty() {
		log.Info("source tags", "label", info.Label(), "album", info.Album, "cover", len(info.Cover) > 0)
	}
	log.Info("normalized",
		"path", handle.Path,
		"sample_rate", handle.SampleRate,
		"channels", handle.Channels,
		"duration", handle.Duration.Round(time.Millisecond).String(),
		"model", settings.DefaultModel,
		"language", settings.TargetLanguage,
	)

	// The path is the only thing written to stdout so it can be piped.
	fmt.Fprintln(e.stdout, handle.Path)

	if *keepFlag {
		session.Forget(handle.Path)
		return exitOK
	}

	fmt.Fprintln(e.stderr, "Press Enter to delete the temporary WAV file and exit.")
	if waitForRelease(ctx, e.stdin, session, handle.Path, log) == releaseInterrupted {
		return exitInterrupted
	}
	return exitOK
}

// release is what ended waitForRelease.
type release int

const (
	releaseEnter release = iota
	releaseInterrupted
	releaseRemoved
)

// waitForRelease blocks until the user presses Enter, the process is
// interrupted or the normalized file is removed by someone else.
func waitForRelease(ctx context.Context, stdin io.Reader, session *normalize.Session, path string, log *slog.Logger) release {
	enter := make(chan struct{})
	go func() {
		bufio.NewReader(stdin).ReadString('\n')
		close(enter)
	}()

	removed := make(chan struct{})
	w, err := watch.New(path)
	if err != nil {
		log.Debug("not watching temporary file", "error", err)
	} else {
		defer w.Close()
		go func() {
			if w.Wait(ctx) == nil {
				close(removed)
			}
		}()
	}

	select {
	case <-ctx.Done():
		return releaseInterrupted
	case <-removed:
		session.Forget(path)
		return releaseRemoved
	case <-enter:
		// Enter and an interrupt can land together; the interrupt wins.
		if ctx.Err() != nil {
			return releaseInterrupted
		}
		return releaseEnter
	}
}
