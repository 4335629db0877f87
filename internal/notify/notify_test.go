package notify

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	NewWriter(&buf).Notify("Dependency Error", "ffmpeg was not found.\nInstall it.")

	out := buf.String()
	for _, want := range []string{"Dependency Error", "ffmpeg was not found.", "Install it.", "┌", "┘"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if got := strings.Count(out, "\n"); got != 6 {
		t.Errorf("box has %d lines, want 6:\n%s", got, out)
	}
}

func TestMulti(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}

	Multi{a, nil, b}.Notify("T", "M")

	for name, r := range map[string]*Recorder{"a": a, "b": b} {
		notes := r.Drain()
		if len(notes) != 1 || notes[0] != (Note{Title: "T", Message: "M"}) {
			t.Errorf("%s received %v", name, notes)
		}
	}
}

func TestDesktop(t *testing.T) {
	tests := []struct {
		name         string
		alertErr     error
		wantFallback bool
	}{
		{"delivered", nil, false},
		{"no notification service", errors.New("dbus unavailable"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var alerted string
			fallback := &Recorder{}
			d := NewDesktop("transcriptor", fallback)
			d.alert = func(title, message string, icon any) error {
				alerted = title
				return tt.alertErr
			}

			d.Notify("Unexpected Error", "boom")

			if alerted != "transcriptor: Unexpected Error" {
				t.Errorf("alert title = %q", alerted)
			}
			notes := fallback.Drain()
			if tt.wantFallback != (len(notes) == 1) {
				t.Fatalf("fallback notes = %v, want fallback %v", notes, tt.wantFallback)
			}
			if tt.wantFallback && !strings.Contains(notes[0].Message, "dbus unavailable") {
				t.Errorf("fallback message = %q", notes[0].Message)
			}
		})
	}
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Notify("Load/Conversion Error", "bad file")
		}()
	}
	wg.Wait()

	if got := len(r.Drain()); got != 10 {
		t.Errorf("Drain() returned %d notes, want 10", got)
	}
	if got := r.Drain(); len(got) != 0 {
		t.Errorf("second Drain() = %v, want empty", got)
	}
}
