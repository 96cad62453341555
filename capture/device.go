// Package capture manages camera and microphone lifecycles for issue
// reporting: acquiring streams, grabbing still frames, and recording audio
// notes. Hardware sits behind small interfaces so the demo and the tests can
// run without devices.
package capture

import (
	"errors"
	"image"
)

// FacingMode selects which camera to acquire.
type FacingMode string

const (
	FacingFront FacingMode = "front"
	FacingBack  FacingMode = "back"
)

var (
	// ErrPermissionDenied means the user refused device access.
	ErrPermissionDenied = errors.New("device permission denied")
	// ErrUnavailable means the requested hardware does not exist.
	ErrUnavailable = errors.New("device unavailable")
	// ErrNoStream means a frame was requested with no live stream.
	ErrNoStream = errors.New("no live stream")
)

// VideoStream is a live camera feed. Close stops the underlying tracks;
// leaving a stream unclosed leaks the device.
type VideoStream interface {
	// ReadFrame returns the current frame at the stream's native resolution.
	ReadFrame() (image.Image, error)
	Close() error
}

// AudioStream is a live microphone feed delivering encoded chunks.
type AudioStream interface {
	// ReadChunk blocks for the next chunk; returns io.EOF when closed.
	ReadChunk() ([]byte, error)
	Close() error
}

// MediaDevices acquires streams, the way a browser's mediaDevices would.
type MediaDevices interface {
	// OpenVideo acquires a camera for the facing mode. The torch flag is a
	// hint; hardware without a flash ignores it.
	OpenVideo(facing FacingMode, torch bool) (VideoStream, error)
	// OpenAudio acquires the microphone.
	OpenAudio() (AudioStream, error)
}

// FilePicker is the fallback image source when no camera is available. The
// returned bytes are whatever format the picked file has.
type FilePicker interface {
	Pick() ([]byte, error)
}
