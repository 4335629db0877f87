// Package tui provides a Bubble Tea terminal user interface for transcriptor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/transcriptor/internal/audio"
	"github.com/handiism/transcriptor/internal/config"
	ioutils "github.com/handiism/transcriptor/internal/io"
	"github.com/handiism/transcriptor/internal/model"
	"github.com/handiism/transcriptor/internal/normalize"
	"github.com/handiism/transcriptor/internal/notify"
	"github.com/handiism/transcriptor/internal/watch"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(1, 2)

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

const (
	maxLogs     = 10
	coverCells  = 16
	eventBuffer = 64

	pickerChrome = 4
)

// State represents the current UI state.
type State int

const (
	StateIdle State = iota
	StatePicking
	StateNormalizing
	StateReady
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   normalize.EventLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state    State
	picker   filepicker.Model
	spinner  spinner.Model
	settings *config.Settings
	styles   statusStyles
	logs     []LogEntry
	verbose  bool

	session *normalize.Session
	notes   *notify.Recorder
	events  chan normalize.Event
	images  *ioutils.ImageService

	// Picking
	allFiles bool
	lastDir  string

	// Normalizing; cancel stops the decode when the user quits
	cancel context.CancelFunc

	// Ready
	source     model.Source
	handle     *model.Handle
	info       *audio.SourceInfo
	cover      string
	watcher    *watch.Watcher
	modelIndex int

	status      string
	statusLevel normalize.EventLevel
	modal       *notify.Note

	width  int
	height int
}

// NewModel creates a new TUI model.
//
// opts are applied to the underlying normalize.Session after the TUI's own
// notifier and event handler.
func NewModel(settings *config.Settings, opts ...normalize.Option) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Spinner.FPS = settings.PlaybackUpdateInterval()
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(settings.ProgressBarColor))

	fp := filepicker.New()
	fp.AllowedTypes = settings.Extensions()
	fp.ShowPermissions = false
	fp.CurrentDirectory, _ = os.Getwd()

	notes := &notify.Recorder{}
	var notifier notify.Notifier = notes
	if settings.DesktopNotifications {
		notifier = notify.Multi{notes, notify.NewDesktop("transcriptor", nil)}
	}

	events := make(chan normalize.Event, eventBuffer)
	sessionOpts := append([]normalize.Option{
		normalize.WithNotifier(notifier),
		normalize.WithEventHandler(func(e normalize.Event) {
			// Never block the session on a busy UI.
			select {
			case events <- e:
			default:
			}
		}),
	}, opts...)

	modelIndex := 0
	for i, name := range settings.Models {
		if name == settings.DefaultModel {
			modelIndex = i
		}
	}

	return Model{
		state:      StateIdle,
		picker:     fp,
		spinner:    sp,
		settings:   settings,
		styles:     newStatusStyles(settings),
		session:    normalize.NewSession(settings, sessionOpts...),
		notes:      notes,
		events:     events,
		images:     ioutils.NewImageService(),
		modelIndex: modelIndex,
	}
}

// Session returns the session backing the UI.
func (m Model) Session() *normalize.Session {
	return m.session
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, listen(m.events))
}

// Message types
type (
	// EventMsg carries a session event to the log pane.
	EventMsg struct {
		Event normalize.Event
	}

	// NormalizeDoneMsg is sent when a normalization attempt finishes.
	NormalizeDoneMsg struct {
		Source model.Source
		Handle *model.Handle
		Info   *audio.SourceInfo
		Cover  string
		Notes  []notify.Note
		Err    error
	}

	// WatchStartedMsg hands the handle watcher to the model.
	WatchStartedMsg struct {
		Path    string
		Watcher *watch.Watcher
	}

	// WatchFailedMsg is sent when the handle watcher could not be started.
	WatchFailedMsg struct {
		Path string
		Err  error
	}

	// HandleRemovedMsg is sent when the normalized file disappears from disk.
	HandleRemovedMsg struct {
		Path string
	}

	// ClipboardMsg reports the result of copying the handle path.
	ClipboardMsg struct {
		Path string
		Err  error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Leave room for the header, status line and help.
		m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: msg.Width, Height: max(msg.Height-pickerChrome, 3)})

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.state == StatePicking {
			return m.updatePicking(msg)
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case EventMsg:
		m.addLog(msg.Event)
		cmds = append(cmds, listen(m.events))

	case NormalizeDoneMsg:
		m.cancel = nil
		if m.state != StateNormalizing {
			break
		}
		m.source = msg.Source
		if msg.Handle == nil {
			m.state = StateError
			m.modal = modalFor(msg.Notes, msg.Err)
			break
		}
		m.state = StateReady
		m.handle = msg.Handle
		m.info = msg.Info
		m.cover = msg.Cover
		m.setStatus(normalize.LevelSuccess, "Ready: "+filepath.Base(msg.Handle.Path))
		cmds = append(cmds, startWatch(msg.Handle.Path))

	case WatchStartedMsg:
		if m.handle == nil || m.handle.Path != msg.Path {
			msg.Watcher.Close()
			break
		}
		m.closeWatcher()
		m.watcher = msg.Watcher
		cmds = append(cmds, waitRemoved(msg.Watcher))

	case WatchFailedMsg:
		m.addLog(normalize.Event{
			Message: fmt.Sprintf("Not watching %s: %v", msg.Path, msg.Err),
			Level:   normalize.LevelVerbose,
		})

	case HandleRemovedMsg:
		if m.handle == nil || m.handle.Path != msg.Path {
			break
		}
		m.closeWatcher()
		m.session.Forget(msg.Path)
		m.handle = nil
		m.state = StateIdle
		m.setStatus(normalize.LevelWarning, "The temporary WAV file was removed. Press o to load a file again.")

	case ClipboardMsg:
		if msg.Err != nil {
			m.setStatus(normalize.LevelWarning, fmt.Sprintf("Could not copy path: %v", msg.Err))
		} else {
			m.setStatus(normalize.LevelSuccess, "Copied "+msg.Path)
		}

	default:
		// Directory listings requested by the file picker.
		if m.state == StatePicking {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m.quit()

	case "o":
		if m.state == StateIdle || m.state == StateReady || m.state == StateError {
			return m.openPicker()
		}

	case "enter", "esc":
		if m.state == StateError {
			m.modal = nil
			m.state = StateIdle
		}

	case "c":
		if m.state == StateReady {
			m.closeWatcher()
			m.session.Cleanup()
			m.handle = nil
			m.state = StateIdle
			m.setStatus(normalize.LevelInfo, "Temporary WAV file deleted.")
		}

	case "m":
		if m.state != StateNormalizing && len(m.settings.Models) > 0 {
			m.modelIndex = (m.modelIndex + 1) % len(m.settings.Models)
			name := m.settings.Models[m.modelIndex]
			if warning := config.ModelWarning(name); warning != "" {
				m.setStatus(normalize.LevelWarning, warning)
			} else {
				m.setStatus(normalize.LevelInfo, "Model: "+name)
			}
		}

	case "y":
		if m.state != StateReady {
			break
		}
		if h := m.session.Current(); h.Exists() {
			return m, copyPath(h.Path)
		}
		m.setStatus(normalize.LevelWarning, "The temporary WAV file is no longer on disk.")

	case "v":
		m.verbose = !m.verbose
	}

	return m, nil
}

func (m Model) updatePicking(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.state = StateIdle
		m.addLog(normalize.Event{Message: "File selection cancelled.", Level: normalize.LevelInfo})
		return m, nil

	case "a":
		m.allFiles = !m.allFiles
		if m.allFiles {
			m.picker.AllowedTypes = nil
		} else {
			m.picker.AllowedTypes = m.settings.Extensions()
		}
		return m, m.picker.Init()
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.setStatus(normalize.LevelWarning, fmt.Sprintf("%s is not an audio file (press a to show all files)", filepath.Base(path)))
		return m, cmd
	}
	if ok, path := m.picker.DidSelectFile(msg); ok {
		src, err := model.NewSource(path)
		if err != nil {
			m.setStatus(normalize.LevelError, err.Error())
			return m, cmd
		}
		m.addLog(normalize.Event{Message: "Selected file: " + src.Path, Level: normalize.LevelInfo})
		m.lastDir = src.Dir()
		m.state = StateNormalizing
		m.status = ""

		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		return m, tea.Batch(cmd, m.startNormalize(ctx, src), m.spinner.Tick)
	}

	return m, cmd
}

// openPicker clears the current handle and shows the file picker.
func (m Model) openPicker() (tea.Model, tea.Cmd) {
	m.closeWatcher()
	m.session.BeginSelection()
	m.handle = nil
	m.info = nil
	m.cover = ""
	m.modal = nil
	m.status = ""
	m.state = StatePicking

	if m.lastDir != "" {
		m.picker.CurrentDirectory = m.lastDir
	}
	return m, m.picker.Init()
}

// quit deletes the temporary file and exits.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	m.closeWatcher()
	m.session.Cleanup()
	return m, tea.Quit
}

func (m *Model) closeWatcher() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
}

func (m *Model) addLog(e normalize.Event) {
	// Filter verbose messages if not in verbose mode
	if e.Level == normalize.LevelVerbose && !m.verbose {
		return
	}
	m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *Model) setStatus(level normalize.EventLevel, message string) {
	m.status = message
	m.statusLevel = level
}

// startNormalize runs the session in the background and collects everything the
// ready view needs.
func (m Model) startNormalize(ctx context.Context, src model.Source) tea.Cmd {
	session, notes, images := m.session, m.notes, m.images
	return func() tea.Msg {
		handle, err := session.Normalize(ctx, src)
		done := NormalizeDoneMsg{
			Source: src,
			Handle: handle,
			Notes:  notes.Drain(),
			Err:    err,
		}
		if handle == nil {
			return done
		}

		info, err := audio.ReadSourceInfo(src.Path)
		if err != nil {
			// Tags are decoration only.
			return done
		}
		done.Info = info
		if len(info.Cover) > 0 {
			if thumb, err := images.Thumbnail(ctx, info.Cover, coverCells, coverCells); err == nil {
				done.Cover = renderImage(thumb)
			}
		}
		return done
	}
}

func listen(events <-chan normalize.Event) tea.Cmd {
	return func() tea.Msg {
		return EventMsg{Event: <-events}
	}
}

func startWatch(path string) tea.Cmd {
	return func() tea.Msg {
		w, err := watch.New(path)
		if err != nil {
			return WatchFailedMsg{Path: path, Err: err}
		}
		return WatchStartedMsg{Path: path, Watcher: w}
	}
}

func waitRemoved(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		if err := w.Wait(context.Background()); err != nil {
			return nil
		}
		return HandleRemovedMsg{Path: w.Target()}
	}
}

func copyPath(path string) tea.Cmd {
	return func() tea.Msg {
		return ClipboardMsg{Path: path, Err: ioutils.CopyToClipboard(path)}
	}
}

// withError opens the error dialog for err.
func (m Model) withError(err error) Model {
	m.state = StateError
	m.modal = modalFor(nil, err)
	return m
}

// modalFor builds the error dialog from the notifications of a failed run.
func modalFor(notes []notify.Note, err error) *notify.Note {
	if len(notes) > 0 {
		return &notes[len(notes)-1]
	}
	var aerr *audio.Error
	if errors.As(err, &aerr) {
		return &notify.Note{Title: aerr.Title(), Message: aerr.Message()}
	}
	if err != nil {
		return &notify.Note{Title: "Unexpected Error", Message: err.Error()}
	}
	return &notify.Note{Title: "Unexpected Error", Message: "The file could not be loaded."}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("♪ Transcriptor"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Load an audio file for transcription"))
	b.WriteString("\n\n")

	switch m.state {
	case StateIdle:
		b.WriteString(m.viewIdle())
	case StatePicking:
		b.WriteString(m.viewPicking())
	case StateNormalizing:
		b.WriteString(m.viewNormalizing())
	case StateReady:
		b.WriteString(m.viewReady())
	case StateError:
		b.WriteString(m.viewError())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.forLevel(m.statusLevel).Render(m.status))
		b.WriteString("\n")
	}

	if m.state != StatePicking && len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewIdle() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("No audio loaded."))
	b.WriteString("\n\n")
	b.WriteString(m.viewOptions())

	return b.String()
}

func (m Model) viewOptions() string {
	var b strings.Builder

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Model: %s (m)\n", m.currentModel()))
	b.WriteString(fmt.Sprintf("  Language: %s\n", m.settings.TargetLanguage))
	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[×]"
	}
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", verboseCheck))

	return b.String()
}

func (m Model) viewPicking() string {
	var b strings.Builder

	filter := strings.Join(m.settings.Extensions(), " ")
	if m.allFiles {
		filter = "all files"
	}
	b.WriteString(subtitleStyle.Render("Select an audio file"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  (%s)", filter)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewNormalizing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Converting audio..."))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewReady() string {
	var b strings.Builder

	if label := m.info.Label(); label != "" {
		b.WriteString(tagStyle.Render("♪ " + label))
		b.WriteString("\n")
		if m.info.Album != "" {
			b.WriteString(dimStyle.Render(m.info.Album))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	h := m.handle
	b.WriteString(fmt.Sprintf("Source:   %s\n", m.source.Name()))
	b.WriteString(fmt.Sprintf("Temp WAV: %s\n", h.Path))
	b.WriteString(fmt.Sprintf("Format:   %d-bit PCM, %d Hz, %d ch\n", h.BitDepth, h.SampleRate, h.Channels))
	b.WriteString(fmt.Sprintf("Duration: %s\n", formatDuration(h.Duration)))
	b.WriteString("\n")
	b.WriteString(m.viewOptions())

	body := strings.TrimRight(b.String(), "\n")
	if m.cover != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.cover, "  ", body)
	}
	return boxStyle.Render(body) + "\n"
}

func (m Model) viewError() string {
	note := m.modal
	if note == nil {
		note = modalFor(nil, nil)
	}

	style := modalStyle
	if m.width > 8 {
		style = style.Width(min(m.width-4, 76))
	}
	content := m.styles.red.Bold(true).Render(note.Title) + "\n\n" + note.Message
	return style.Render(content) + "\n"
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		prefix := "•"
		switch log.Level {
		case normalize.LevelError:
			prefix = "✗"
		case normalize.LevelWarning:
			prefix = "!"
		case normalize.LevelSuccess:
			prefix = "✓"
		case normalize.LevelInfo:
			prefix = "›"
		}
		b.WriteString(m.styles.forLevel(log.Level).Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateIdle:
		return "o: open file • m: model • v: verbose • q: quit"
	case StatePicking:
		return "↑/↓: move • enter: select • ←: parent dir • a: all files • q: cancel"
	case StateNormalizing:
		return "ctrl+c: quit"
	case StateReady:
		return "o: open another • c: delete temp file • y: copy path • m: model • q: quit"
	case StateError:
		return "enter: dismiss • o: open file • q: quit"
	}
	return ""
}

func (m Model) currentModel() string {
	if len(m.settings.Models) == 0 {
		return m.settings.DefaultModel
	}
	return m.settings.Models[m.modelIndex%len(m.settings.Models)]
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	mins := d / time.Minute
	d -= mins * time.Minute
	secs := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}

// renderImage draws img with upper half blocks, two pixel rows per line.
func renderImage(img *image.RGBA) string {
	bounds := img.Bounds()
	var b strings.Builder
	for y := bounds.Min.Y; y+1 < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			b.WriteString(lipgloss.NewStyle().
				Foreground(hexColor(img, x, y)).
				Background(hexColor(img, x, y+1)).
				Render("▀"))
		}
		if y+3 < bounds.Max.Y {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func hexColor(img *image.RGBA, x, y int) lipgloss.Color {
	c := img.RGBAAt(x, y)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Run starts the TUI application.
//
// The temporary WAV file is always deleted before Run returns.
func Run(settings *config.Settings) error {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	ff := audio.NewFFmpeg(
		audio.WithFFmpegPath(settings.FFmpegPath),
		audio.WithFFprobePath(settings.FFprobePath),
	)
	m := NewModel(settings, normalize.WithConverter(audio.NewConverter(ff)))
	defer m.Session().Cleanup()

	// Report a missing toolchain before the first pick.
	if err := ff.Available(); err != nil {
		m = m.withError(err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
