package model

import (
	"path/filepath"
	"strings"
)

// FileType is one entry of a file picker filter.
//
// Patterns are shell globs such as "*.mp3". The pattern "*.*" (or "*")
// accepts every file.
type FileType struct {
	// Description is the human-readable label, e.g. "Audio files".
	Description string `json:"description"`

	// Patterns lists the globs accepted by this entry.
	Patterns []string `json:"patterns"`
}

// MatchesAll reports whether the entry accepts any file.
func (ft FileType) MatchesAll() bool {
	for _, p := range ft.Patterns {
		if p == "*.*" || p == "*" {
			return true
		}
	}
	return false
}

// Extensions returns the lower-cased extensions named by the patterns,
// including the dot. Catch-all patterns are skipped.
func (ft FileType) Extensions() []string {
	var exts []string
	for _, p := range ft.Patterns {
		if p == "*.*" || p == "*" {
			continue
		}
		ext := strings.ToLower(strings.TrimPrefix(p, "*"))
		if strings.HasPrefix(ext, ".") && len(ext) > 1 {
			exts = append(exts, ext)
		}
	}
	return exts
}

// Matches reports whether path is accepted by this entry.
func (ft FileType) Matches(path string) bool {
	if ft.MatchesAll() {
		return true
	}
	name := strings.ToLower(filepath.Base(path))
	for _, p := range ft.Patterns {
		if ok, _ := filepath.Match(strings.ToLower(p), name); ok {
			return true
		}
	}
	return false
}
