package normalize

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/transcriptor/internal/model"
)

// PickRequest configures a file picker prompt.
type PickRequest struct {
	FileTypes        []model.FileType
	DefaultExtension string
}

// Accepts reports whether path matches one of the file types. An empty list
// accepts everything.
func (r PickRequest) Accepts(path string) bool {
	if len(r.FileTypes) == 0 {
		return true
	}
	for _, ft := range r.FileTypes {
		if ft.Matches(path) {
			return true
		}
	}
	return false
}

// Picker asks the user for a source file.
//
// Pick returns ok=false when the user cancels.
type Picker interface {
	Pick(ctx context.Context, req PickRequest) (path string, ok bool, err error)
}

// StaticPicker always returns the same path; an empty path means "cancelled".
// It backs non-interactive front ends such as a -file flag.
type StaticPicker struct {
	Path string
}

func (p StaticPicker) Pick(ctx context.Context, req PickRequest) (string, bool, error) {
	if p.Path == "" {
		return "", false, nil
	}
	return withDefaultExtension(p.Path, req.DefaultExtension), true, nil
}

// PromptPicker reads a path from In after printing the accepted file types to Out.
// An empty line or end of input cancels.
type PromptPicker struct {
	In  io.Reader
	Out io.Writer
}

func (p PromptPicker) Pick(ctx context.Context, req PickRequest) (string, bool, error) {
	for _, ft := range req.FileTypes {
		fmt.Fprintf(p.Out, "  %s (%s)\n", ft.Description, strings.Join(ft.Patterns, " "))
	}
	fmt.Fprint(p.Out, "Audio file: ")

	lines := make(chan string, 1)
	errs := make(chan error, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		if err != nil && err != io.EOF {
			errs <- err
			return
		}
		lines <- line
	}()

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case err := <-errs:
		return "", false, err
	case line := <-lines:
		path := strings.Trim(strings.TrimSpace(line), `"'`)
		if path == "" {
			return "", false, nil
		}
		return withDefaultExtension(path, req.DefaultExtension), true, nil
	}
}

// withDefaultExtension appends ext to an extension-less path that does not
// exist as typed but does exist with the extension.
func withDefaultExtension(path, ext string) string {
	if ext == "" || filepath.Ext(path) != "" {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if _, err := os.Stat(path + ext); err == nil {
		return path + ext
	}
	return path
}
