// Package model defines the core data structures used throughout
// the transcriptor application.
//
// # Source
//
// Source is the audio file picked by the user. Its path is made absolute
// once and never changes afterwards:
//
//	src, err := model.NewSource("~/recordings/interview.mp3")
//	fmt.Println(src.Stem())             // "interview"
//	fmt.Println(src.TempPlaybackPath()) // ".../interview_temp_playback.wav"
//
// # Handle
//
// Handle records the normalized WAV copy derived from exactly one Source.
// A handle is only meaningful while its file exists on disk:
//
//	if h != nil && h.Exists() {
//	    play(h.Path)
//	}
//
// # File Types
//
// FileType describes one entry of the file picker filter, mirroring the
// "description + glob patterns" pairs used by desktop dialogs:
//
//	ft := model.FileType{Description: "Audio files", Patterns: []string{"*.mp3", "*.wav"}}
//	ft.Extensions()      // [".mp3" ".wav"]
//	ft.Matches("a.MP3")  // true
package model
