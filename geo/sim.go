package geo

import (
	"context"
	"time"
)

// SimulatedLocator serves a fixed device position, optionally failing the
// way a denied or unsupported device would.
type SimulatedLocator struct {
	Position Position
	Err      error
}

func (s *SimulatedLocator) CurrentPosition(_ context.Context) (Position, error) {
	if s.Err != nil {
		return Position{}, s.Err
	}
	return s.Position, nil
}

// SimulatedGeocoder returns a fixed address after a deliberate delay,
// modeling the latency of a real reverse-geocode service. The demo default
// matches the address the client showed.
type SimulatedGeocoder struct {
	Address string
	Delay   time.Duration
	Err     error
}

// NewSimulatedGeocoder builds the demo geocoder with its 1.5s latency.
func NewSimulatedGeocoder() *SimulatedGeocoder {
	return &SimulatedGeocoder{
		Address: "24-B Green View Colony, Ward 12",
		Delay:   1500 * time.Millisecond,
	}
}

func (s *SimulatedGeocoder) ReverseGeocode(ctx context.Context, _ Position) (string, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.Err != nil {
		return "", s.Err
	}
	return s.Address, nil
}
