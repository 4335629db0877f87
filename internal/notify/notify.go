package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gen2brain/beeep"
)

// Notifier shows a titled message to the user.
type Notifier interface {
	Notify(title, message string)
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(title, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(title, message)
		}
	}
}

// Writer prints notifications as a boxed block to an io.Writer.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer printing to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Notify(title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	lines := strings.Split(message, "\n")
	width := utf8.RuneCountInString(title)
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}
	rule := strings.Repeat("─", width+2)

	fmt.Fprintf(n.w, "┌%s┐\n", rule)
	fmt.Fprintf(n.w, "│ %-*s │\n", width, title)
	fmt.Fprintf(n.w, "├%s┤\n", rule)
	for _, l := range lines {
		fmt.Fprintf(n.w, "│ %-*s │\n", width, l)
	}
	fmt.Fprintf(n.w, "└%s┘\n", rule)
}

// alertFunc matches beeep.Alert.
type alertFunc func(title, message string, icon any) error

// Desktop raises a desktop notification with beeep.
//
// When the platform has no notification service the message goes to
// Fallback instead, so an error is never silently lost.
type Desktop struct {
	AppName  string
	Fallback Notifier

	alert alertFunc
}

// NewDesktop creates a Desktop notifier.
func NewDesktop(appName string, fallback Notifier) *Desktop {
	return &Desktop{
		AppName:  appName,
		Fallback: fallback,
		alert:    beeep.Alert,
	}
}

func (d *Desktop) Notify(title, message string) {
	if d.AppName != "" {
		title = d.AppName + ": " + title
	}
	if err := d.alert(title, message, ""); err != nil && d.Fallback != nil {
		d.Fallback.Notify(title, fmt.Sprintf("%s\n(desktop notification failed: %v)", message, err))
	}
}

// Note is a recorded notification.
type Note struct {
	Title   string
	Message string
}

// Recorder stores notifications until they are drained.
// It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	notes []Note
}

func (r *Recorder) Notify(title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, Note{Title: title, Message: message})
}

// Drain returns the recorded notifications and clears the queue.
func (r *Recorder) Drain() []Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	notes := r.notes
	r.notes = nil
	return notes
}
