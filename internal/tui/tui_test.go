package tui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/transcriptor/internal/audio"
	"github.com/handiism/transcriptor/internal/config"
	"github.com/handiism/transcriptor/internal/model"
	"github.com/handiism/transcriptor/internal/normalize"
)

// fakeConverter writes a placeholder file instead of running ffmpeg.
type fakeConverter struct {
	err error
}

func (c fakeConverter) Convert(ctx context.Context, src, dst string) (audio.WAVInfo, error) {
	if c.err != nil {
		return audio.WAVInfo{}, c.err
	}
	if err := os.WriteFile(dst, []byte("RIFF"), 0644); err != nil {
		return audio.WAVInfo{}, err
	}
	return audio.WAVInfo{SampleRate: 44100, Channels: 2, BitDepth: 16, AudioFormat: 1, Duration: 83 * time.Second}, nil
}

func newTestModel(t *testing.T, conv fakeConverter) (Model, model.Source) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lecture.mp3")
	if err := os.WriteFile(path, []byte("ID3"), 0644); err != nil {
		t.Fatal(err)
	}
	src, err := model.NewSource(path)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(config.DefaultSettings(), normalize.WithConverter(conv)), src
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runNormalize performs the background step the picker would start.
func runNormalize(t *testing.T, m Model, src model.Source) Model {
	t.Helper()
	m.state = StateNormalizing
	msg := m.startNormalize(context.Background(), src)()
	done, ok := msg.(NormalizeDoneMsg)
	if !ok {
		t.Fatalf("normalize returned %T", msg)
	}
	m, _ = update(t, m, done)
	return m
}

func TestModel_NormalizeSuccess(t *testing.T) {
	m, src := newTestModel(t, fakeConverter{})
	m = runNormalize(t, m, src)

	if m.state != StateReady {
		t.Fatalf("state = %v, want ready", m.state)
	}
	if m.handle == nil || filepath.Base(m.handle.Path) != "lecture_temp_playback.wav" {
		t.Fatalf("handle = %+v", m.handle)
	}
	if m.Session().Current() != m.handle {
		t.Error("UI and session should agree on the handle")
	}

	view := m.View()
	for _, want := range []string{"lecture_temp_playback.wav", "16-bit PCM, 44100 Hz, 2 ch", "1:23", "Model: tiny"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_NormalizeFailureShowsModal(t *testing.T) {
	decodeErr := &audio.Error{Kind: audio.KindDecode, Err: errors.New("Invalid data found when processing input")}
	m, src := newTestModel(t, fakeConverter{err: decodeErr})
	m = runNormalize(t, m, src)

	if m.state != StateError {
		t.Fatalf("state = %v, want error", m.state)
	}
	if m.handle != nil || m.Session().Current() != nil {
		t.Error("failed normalization must leave no handle")
	}
	if m.modal == nil || m.modal.Title != "Load/Conversion Error" {
		t.Fatalf("modal = %+v", m.modal)
	}
	if view := m.View(); !strings.Contains(view, "Load/Conversion Error") || !strings.Contains(view, "lecture.mp3") {
		t.Errorf("view should show the error dialog:\n%s", view)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != StateIdle || m.modal != nil {
		t.Errorf("enter should dismiss the dialog, state = %v", m.state)
	}
}

func TestModel_CleanupKey(t *testing.T) {
	m, src := newTestModel(t, fakeConverter{})
	m = runNormalize(t, m, src)
	path := m.handle.Path

	m, _ = update(t, m, key("c"))
	if m.state != StateIdle || m.handle != nil {
		t.Errorf("state = %v, handle = %v after cleanup", m.state, m.handle)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("cleanup should delete the temporary file")
	}
}

func TestModel_QuitCleansUp(t *testing.T) {
	m, src := newTestModel(t, fakeConverter{})
	m = runNormalize(t, m, src)
	path := m.handle.Path

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit should return tea.Quit")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("quitting should delete the temporary file")
	}
}

func TestModel_OpenPickerClearsHandle(t *testing.T) {
	m, src := newTestModel(t, fakeConverter{})
	m = runNormalize(t, m, src)
	path := m.handle.Path

	m, cmd := update(t, m, key("o"))
	if m.state != StatePicking {
		t.Fatalf("state = %v, want picking", m.state)
	}
	if cmd == nil {
		t.Error("opening the picker should read the directory")
	}
	if m.handle != nil || m.Session().Current() != nil {
		t.Error("opening the picker should drop the handle")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("opening the picker should delete the previous temporary file")
	}

	m, _ = update(t, m, key("q"))
	if m.state != StateIdle {
		t.Errorf("q in the picker should cancel, state = %v", m.state)
	}
	if len(m.logs) == 0 || m.logs[len(m.logs)-1].Message != "File selection cancelled." {
		t.Errorf("logs = %+v", m.logs)
	}
}

func TestModel_PickerAllFilesToggle(t *testing.T) {
	m, _ := newTestModel(t, fakeConverter{})
	m, _ = update(t, m, key("o"))

	m, _ = update(t, m, key("a"))
	if m.picker.AllowedTypes != nil {
		t.Errorf("AllowedTypes = %v, want all files", m.picker.AllowedTypes)
	}
	m, _ = update(t, m, key("a"))
	if len(m.picker.AllowedTypes) != 5 {
		t.Errorf("AllowedTypes = %v, want the audio extensions", m.picker.AllowedTypes)
	}
}

func TestModel_HandleRemovedExternally(t *testing.T) {
	m, src := newTestModel(t, fakeConverter{})
	m = runNormalize(t, m, src)

	m, _ = update(t, m, HandleRemovedMsg{Path: "/some/other.wav"})
	if m.handle == nil {
		t.Fatal("unrelated removal should be ignored")
	}

	m, _ = update(t, m, HandleRemovedMsg{Path: m.handle.Path})
	if m.state != StateIdle || m.handle != nil || m.Session().Current() != nil {
		t.Error("removed file should clear the handle")
	}
	if !strings.Contains(m.status, "removed") {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_CycleModel(t *testing.T) {
	m, _ := newTestModel(t, fakeConverter{})

	want := []struct {
		model   string
		warning bool
	}{
		{"base", false},
		{"small", false},
		{"medium", true},
		{"large", true},
		{"tiny", false},
	}
	for _, w := range want {
		m, _ = update(t, m, key("m"))
		if got := m.currentModel(); got != w.model {
			t.Fatalf("currentModel() = %q, want %q", got, w.model)
		}
		if got := m.statusLevel == normalize.LevelWarning; got != w.warning {
			t.Errorf("%s: warning = %v, want %v (status %q)", w.model, got, w.warning, m.status)
		}
	}
}

func TestModel_EventsReachLog(t *testing.T) {
	m, _ := newTestModel(t, fakeConverter{})

	m, cmd := update(t, m, EventMsg{Event: normalize.Event{Message: "hidden", Level: normalize.LevelVerbose}})
	if cmd == nil {
		t.Error("event handling should keep listening")
	}
	if len(m.logs) != 0 {
		t.Error("verbose events are hidden by default")
	}

	m, _ = update(t, m, key("v"))
	for i := 0; i < maxLogs+3; i++ {
		m, _ = update(t, m, EventMsg{Event: normalize.Event{Message: "line", Level: normalize.LevelVerbose}})
	}
	if len(m.logs) != maxLogs {
		t.Errorf("len(logs) = %d, want %d", len(m.logs), maxLogs)
	}
}

func TestModel_WatchFailedDoesNotListen(t *testing.T) {
	m, _ := newTestModel(t, fakeConverter{})
	m.verbose = true

	m, cmd := update(t, m, WatchFailedMsg{Path: "/gone/a_temp_playback.wav", Err: errors.New("no such directory")})
	if cmd != nil {
		t.Error("a watch failure must not start another event listener")
	}
	if len(m.logs) != 1 || !strings.Contains(m.logs[0].Message, "no such directory") {
		t.Errorf("logs = %+v", m.logs)
	}
}

func TestModel_StartupDependencyError(t *testing.T) {
	m, _ := newTestModel(t, fakeConverter{})
	ff := audio.NewFFmpeg(
		audio.WithFFprobePath(filepath.Join(t.TempDir(), "no-ffprobe")),
		audio.WithFFmpegPath(filepath.Join(t.TempDir(), "no-ffmpeg")),
	)
	err := ff.Available()
	if err == nil {
		t.Fatal("Available() should fail for missing binaries")
	}

	m = m.withError(err)
	if m.state != StateError || m.modal == nil || m.modal.Title != "Dependency Error" {
		t.Fatalf("state = %v, modal = %+v", m.state, m.modal)
	}

	m, _ = update(t, m, key("o"))
	if m.state != StatePicking {
		t.Errorf("o should still open the picker, state = %v", m.state)
	}
}

func TestModalFor(t *testing.T) {
	dep := &audio.Error{Kind: audio.KindDependencyMissing, Err: errors.New("not found")}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"tagged error", dep, "Dependency Error"},
		{"plain error", errors.New("disk full"), "Unexpected Error"},
		{"nothing", nil, "Unexpected Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := modalFor(nil, tt.err); got.Title != tt.want {
				t.Errorf("modalFor() title = %q, want %q", got.Title, tt.want)
			}
		})
	}
}

func TestRenderImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	out := renderImage(img)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2", len(lines))
	}
	for _, l := range lines {
		if got := strings.Count(l, "▀"); got != 3 {
			t.Errorf("line has %d cells, want 3", got)
		}
	}
}

func TestColorFor(t *testing.T) {
	tests := map[string]string{
		"yellow":  "11",
		"red":     "9",
		"green":   "10",
		"gray":    "8",
		"#4CAF50": "#4CAF50",
	}
	for name, want := range tests {
		if got := string(colorFor(name)); got != want {
			t.Errorf("colorFor(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[time.Duration]string{
		0:                                     "0:00",
		83 * time.Second:                      "1:23",
		time.Hour + 2*time.Minute + 3:         "1:02:00",
		59*time.Second + 600*time.Millisecond: "1:00",
	}
	for d, want := range tests {
		if got := formatDuration(d); got != want {
			t.Errorf("formatDuration(%v) = %q, want %q", d, got, want)
		}
	}
}
