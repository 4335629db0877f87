package ioutils

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration

	"golang.org/x/image/draw"
)

// ImageService provides image processing operations for cover art.
//
// Example usage:
//
//	svc := NewImageService()
//	thumb, _ := svc.Thumbnail(ctx, info.Cover, 24, 24)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// Thumbnail scales an image to fit within the given maximum dimensions.
//
// The aspect ratio is preserved and images are never enlarged. The result
// always has an even height so it can be drawn two pixel rows per
// terminal cell.
//
// The Catmull-Rom algorithm is used for high-quality resizing.
//
// Example:
//
//	// A 600x600 cover becomes 24x24, a 640x480 one becomes 24x18
//	thumb, err := svc.Thumbnail(ctx, data, 24, 24)
func (s *ImageService) Thumbnail(ctx context.Context, data []byte, maxWidth, maxHeight int) (*image.RGBA, error) {
	if maxWidth <= 0 || maxHeight <= 0 {
		return nil, errors.New("thumbnail bounds must be positive")
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return nil, errors.New("empty image")
	}

	// Calculate new dimensions maintaining aspect ratio
	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = max(1, int(float64(maxHeight)*ratio))
			height = maxHeight
		} else {
			// Width is the limiting factor
			height = max(1, int(float64(maxWidth)/ratio))
			width = maxWidth
		}
	}
	if height%2 == 1 {
		height++
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return dst, nil
}
