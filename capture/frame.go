package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
)

// jpegQuality matches the lossy encode the client used (quality 0.8).
const jpegQuality = 80

// Capture grabs the current frame, mirrors it when the front camera is
// active so the saved image matches the preview the user saw, and encodes it
// as JPEG. Without a live stream it falls back to the file picker and
// returns the picked bytes unmodified (unconstrained format).
func (c *Controller) Capture() ([]byte, error) {
	c.mu.Lock()
	stream := c.stream
	facing := c.facing
	c.mu.Unlock()

	if stream == nil {
		if c.picker == nil {
			return nil, ErrNoStream
		}
		data, err := c.picker.Pick()
		if err != nil {
			return nil, fmt.Errorf("picking image: %w", err)
		}
		return data, nil
	}

	frame, err := stream.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("reading frame: %w", err)
	}

	if facing == FacingFront {
		frame = mirrorHorizontal(frame)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, frame, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding frame: %w", err)
	}
	return buf.Bytes(), nil
}

// mirrorHorizontal flips the image left-to-right. Front cameras deliver a
// mirrored sensor image; flipping it back makes the saved photo match the
// scene instead of a mirrored selfie.
func mirrorHorizontal(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.Set(bounds.Max.X-1-x, y-bounds.Min.Y, src.At(x, y))
		}
	}
	return dst
}
