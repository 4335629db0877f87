// Package ioutils provides file system and image helpers.
//
// This package contains functions for:
//   - Checking and removing temporary files
//   - Scaling embedded cover art down to a terminal-sized thumbnail
//   - Copying the normalized path to the system clipboard
//
// # File Operations
//
//	// Remove a file if present; a missing file is not an error
//	removed, err := ioutils.RemoveIfExists("/music/song_temp_playback.wav")
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Scale cover art to fit within 24x24 pixels
//	thumb, err := svc.Thumbnail(ctx, coverBytes, 24, 24)
package ioutils
