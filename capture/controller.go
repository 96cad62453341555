package capture

import (
	"log"
	"sync"
)

// Controller owns at most one live camera stream. Switching facing mode or
// torch tears the stream down and reacquires it. When acquisition fails the
// controller enters a camera-unavailable state and Capture falls back to the
// file picker, so the user flow is never aborted.
type Controller struct {
	mu sync.Mutex

	devices MediaDevices
	picker  FilePicker

	stream      VideoStream
	facing      FacingMode
	torch       bool
	unavailable bool
}

// NewController builds a controller. picker may be nil when no file-picker
// fallback exists; Capture then fails without a stream.
func NewController(devices MediaDevices, picker FilePicker) *Controller {
	return &Controller{devices: devices, picker: picker, facing: FacingBack}
}

// StartStream acquires a camera stream for the requested facing mode and
// torch hint, releasing any prior stream first.
func (c *Controller) StartStream(facing FacingMode, torch bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseLocked()
	c.facing = facing
	c.torch = torch

	stream, err := c.devices.OpenVideo(facing, torch)
	if err != nil {
		log.Println("Camera access error:", err)
		c.unavailable = true
		return err
	}
	c.stream = stream
	c.unavailable = false
	return nil
}

// SetFacing switches the camera, reacquiring the stream.
func (c *Controller) SetFacing(facing FacingMode) error {
	c.mu.Lock()
	torch := c.torch
	c.mu.Unlock()
	return c.StartStream(facing, torch)
}

// SetTorch toggles the flash hint, reacquiring the stream.
func (c *Controller) SetTorch(on bool) error {
	c.mu.Lock()
	facing := c.facing
	c.mu.Unlock()
	return c.StartStream(facing, on)
}

// Unavailable reports whether the last acquisition failed (permission denied
// or no hardware). The file picker remains usable in this state.
func (c *Controller) Unavailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unavailable
}

// Live reports whether a camera stream is currently held.
func (c *Controller) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stream != nil
}

// Close releases the stream. Must be called whenever the capture view is
// torn down; an unreleased stream is a resource leak.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.releaseLocked()
}

func (c *Controller) releaseLocked() {
	if c.stream != nil {
		if err := c.stream.Close(); err != nil {
			log.Println("Error stopping camera stream:", err)
		}
		c.stream = nil
	}
}
