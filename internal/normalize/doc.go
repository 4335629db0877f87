// Package normalize manages the lifecycle of the temporary WAV copy made
// from a user-selected audio file.
//
// # Session
//
// The Session owns at most one normalized copy at a time:
//
//  1. Clean up the previous copy and ask the user for a file
//  2. Decode the file and re-encode it as "<stem>_temp_playback.wav"
//  3. Keep the handle until cleanup or the next selection
//
// # Basic Usage
//
//	session := normalize.NewSession(settings,
//	    normalize.WithNotifier(notifier),
//	    normalize.WithEventHandler(func(e normalize.Event) {
//	        fmt.Println(e.Message)
//	    }),
//	)
//	defer session.Cleanup()
//
//	src, ok, err := session.SelectSource(ctx, picker)
//	if err != nil || !ok {
//	    return
//	}
//	handle, err := session.Normalize(ctx, src)
//	if handle == nil {
//	    // already reported to the user through the notifier
//	}
//
// # Error Handling
//
// Normalize reports failures to the Notifier with a title per kind:
//   - "Load/Conversion Error" when the content cannot be decoded
//   - "Dependency Error" when ffmpeg/ffprobe is missing
//   - "Unexpected Error" for everything else
//
// Failing to delete a temporary file is only reported as a warning Event.
package normalize
