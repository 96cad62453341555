package capture

import (
	"errors"
	"io"
	"log"
	"sync"
	"time"
)

// ErrClipExists means Start was called while a previous clip is still
// attached; the user must delete it first.
var ErrClipExists = errors.New("a recording already exists, delete it first")

// ErrNotRecording means Stop was called with no recording in flight.
var ErrNotRecording = errors.New("not recording")

// Clip is an assembled audio note.
type Clip struct {
	Data     []byte
	Duration time.Duration
}

// Recorder manages microphone audio notes. Only one clip may exist at a
// time, recording is optional, and the stream is always released on stop.
type Recorder struct {
	mu sync.Mutex

	devices  MediaDevices
	tick     time.Duration
	stream   AudioStream
	chunks   [][]byte
	elapsed  int
	clip     *Clip
	stopTick chan struct{}
	readDone chan struct{}
}

// NewRecorder builds a recorder over the given devices.
func NewRecorder(devices MediaDevices) *Recorder {
	return &Recorder{devices: devices, tick: time.Second}
}

// Start acquires the microphone and begins accumulating chunks, ticking the
// elapsed counter once per second. Fails if a clip already exists or a
// recording is in flight.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.clip != nil {
		return ErrClipExists
	}
	if r.stream != nil {
		return errors.New("already recording")
	}

	stream, err := r.devices.OpenAudio()
	if err != nil {
		log.Println("Error accessing microphone:", err)
		return err
	}

	r.stream = stream
	r.chunks = nil
	r.elapsed = 0
	r.stopTick = make(chan struct{})
	r.readDone = make(chan struct{})

	go r.readLoop(stream)
	go r.tickLoop()
	return nil
}

func (r *Recorder) readLoop(stream AudioStream) {
	defer close(r.readDone)
	for {
		chunk, err := stream.ReadChunk()
		if len(chunk) > 0 {
			r.mu.Lock()
			r.chunks = append(r.chunks, chunk)
			r.mu.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				log.Println("Audio read error:", err)
			}
			return
		}
	}
}

func (r *Recorder) tickLoop() {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			r.elapsed++
			r.mu.Unlock()
		case <-r.stopTick:
			return
		}
	}
}

// Elapsed returns whole seconds recorded so far.
func (r *Recorder) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.elapsed
}

// Recording reports whether a recording is in flight.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stream != nil
}

// Stop releases the microphone and assembles the accumulated chunks into a
// single playable clip.
func (r *Recorder) Stop() (*Clip, error) {
	r.mu.Lock()
	stream := r.stream
	if stream == nil {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	r.stream = nil
	close(r.stopTick)
	r.mu.Unlock()

	if err := stream.Close(); err != nil {
		log.Println("Error stopping audio stream:", err)
	}
	<-r.readDone

	r.mu.Lock()
	defer r.mu.Unlock()

	var size int
	for _, c := range r.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range r.chunks {
		data = append(data, c...)
	}
	r.chunks = nil

	r.clip = &Clip{Data: data, Duration: time.Duration(r.elapsed) * time.Second}
	return r.clip, nil
}

// Clip returns the current clip, if any.
func (r *Recorder) Clip() *Clip {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clip
}

// Delete discards the current clip so a new recording can start. No audio
// reference survives a delete.
func (r *Recorder) Delete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clip = nil
	r.elapsed = 0
}

// Close aborts any in-flight recording and releases the microphone. Safe to
// call on teardown regardless of state.
func (r *Recorder) Close() {
	r.mu.Lock()
	stream := r.stream
	if stream != nil {
		r.stream = nil
		close(r.stopTick)
	}
	r.mu.Unlock()
	if stream != nil {
		if err := stream.Close(); err != nil {
			log.Println("Error stopping audio stream:", err)
		}
		<-r.readDone
	}
}
