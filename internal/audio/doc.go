// Package audio turns user-selected audio files into canonical WAV copies.
//
// # Decoding
//
// A Decoder sniffs the source container/codec and streams raw PCM. The
// FFmpeg decoder shells out to ffprobe and ffmpeg:
//
//	dec := audio.NewFFmpeg(audio.WithFFmpegPath(settings.FFmpegPath))
//
// # Normalization
//
// Converter always re-encodes the decoded stream as WAV with 16-bit
// little-endian PCM samples, even when the source already is a WAV file:
//
//	conv := audio.NewConverter(dec)
//	info, err := conv.Convert(ctx, "/music/song.mp3", "/music/song_temp_playback.wav")
//
// # Errors
//
// Every failure is an *Error tagged with one of three kinds:
//   - KindDecode: the content is corrupt or unsupported
//   - KindDependencyMissing: ffmpeg/ffprobe is not installed
//   - KindUnexpected: anything else (I/O, permissions, cancellation)
//
// Use errors.Is with ErrDecode, ErrDependencyMissing or ErrUnexpected, or
// KindOf, to branch on the kind.
//
// # Metadata
//
// ReadSourceInfo extracts ID3v2 title, artist, album and cover art:
//
//	info, err := audio.ReadSourceInfo("/music/song.mp3")
//	fmt.Println(info.Label()) // "Artist - Title"
package audio
