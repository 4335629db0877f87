package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRemoveIfExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tmp.wav")
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	removed, err := RemoveIfExists(path)
	if err != nil || !removed {
		t.Fatalf("RemoveIfExists() = %v, %v; want true, nil", removed, err)
	}
	if Exists(path) {
		t.Error("file should be gone")
	}

	removed, err = RemoveIfExists(path)
	if err != nil || removed {
		t.Errorf("second RemoveIfExists() = %v, %v; want false, nil", removed, err)
	}

	if removed, err := RemoveIfExists(""); err != nil || removed {
		t.Errorf("RemoveIfExists(\"\") = %v, %v", removed, err)
	}
}

func TestExists_Directory(t *testing.T) {
	if Exists(t.TempDir()) {
		t.Error("Exists() should be false for a directory")
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestImageService_Thumbnail(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"square cover", 600, 600, 24, 24},
		{"landscape", 640, 480, 24, 18},
		{"portrait", 300, 600, 12, 24},
		{"small stays small", 10, 7, 10, 8},
	}

	svc := NewImageService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			thumb, err := svc.Thumbnail(context.Background(), encodePNG(t, tt.w, tt.h), 24, 24)
			if err != nil {
				t.Fatalf("Thumbnail() error = %v", err)
			}
			if got := thumb.Bounds(); got.Dx() != tt.wantW || got.Dy() != tt.wantH {
				t.Errorf("Thumbnail() size = %dx%d, want %dx%d", got.Dx(), got.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestImageService_ThumbnailInvalid(t *testing.T) {
	svc := NewImageService()
	if _, err := svc.Thumbnail(context.Background(), []byte("nope"), 24, 24); err == nil {
		t.Error("Thumbnail() should reject undecodable data")
	}
	if _, err := svc.Thumbnail(context.Background(), encodePNG(t, 4, 4), 0, 24); err == nil {
		t.Error("Thumbnail() should reject zero bounds")
	}
}

func TestCopyToClipboard(t *testing.T) {
	err := CopyToClipboard("/music/song_temp_playback.wav")
	if errors.Is(err, ErrNoClipboard) {
		t.Skip("no clipboard utility installed")
	}
	if err != nil {
		// A utility is installed but there is no display to talk to.
		t.Skipf("clipboard unusable here: %v", err)
	}
}
