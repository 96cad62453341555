package capture

import (
	"image"
	"io"
	"sync"
)

// SimulatedDevices is a software stand-in for real hardware, used by the
// demo deployment and the tests. It serves a fixed scene: the back camera
// delivers it as-is, the front camera delivers it mirrored the way a selfie
// sensor does.
type SimulatedDevices struct {
	mu sync.Mutex

	// Scene is the image both cameras point at.
	Scene image.Image
	// AudioChunks are served once per ReadChunk, then EOF.
	AudioChunks [][]byte

	// DenyVideo / DenyAudio simulate permission refusal.
	DenyVideo bool
	DenyAudio bool

	openVideo int
	openAudio int
}

func (d *SimulatedDevices) OpenVideo(facing FacingMode, torch bool) (VideoStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.DenyVideo {
		return nil, ErrPermissionDenied
	}
	if d.Scene == nil {
		return nil, ErrUnavailable
	}
	frame := d.Scene
	if facing == FacingFront {
		frame = mirrorHorizontal(frame)
	}
	d.openVideo++
	return &simVideoStream{devices: d, frame: frame}, nil
}

func (d *SimulatedDevices) OpenAudio() (AudioStream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.DenyAudio {
		return nil, ErrPermissionDenied
	}
	chunks := make([][]byte, len(d.AudioChunks))
	copy(chunks, d.AudioChunks)
	d.openAudio++
	return &simAudioStream{devices: d, chunks: chunks}, nil
}

// OpenStreams reports how many acquired streams have not been closed yet.
// The tests use it to catch leaks.
func (d *SimulatedDevices) OpenStreams() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openVideo + d.openAudio
}

type simVideoStream struct {
	mu      sync.Mutex
	devices *SimulatedDevices
	frame   image.Image
	closed  bool
}

func (s *simVideoStream) ReadFrame() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrNoStream
	}
	return s.frame, nil
}

func (s *simVideoStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.devices.mu.Lock()
	s.devices.openVideo--
	s.devices.mu.Unlock()
	return nil
}

type simAudioStream struct {
	mu      sync.Mutex
	devices *SimulatedDevices
	chunks  [][]byte
	next    int
	closed  bool
}

func (s *simAudioStream) ReadChunk() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.next >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.next]
	s.next++
	return chunk, nil
}

func (s *simAudioStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.devices.mu.Lock()
	s.devices.openAudio--
	s.devices.mu.Unlock()
	return nil
}
