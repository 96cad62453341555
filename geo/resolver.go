// Package geo produces a best-effort address for the device position at the
// moment of capture. Location failure must never block issue creation, so
// resolution always yields a usable Location value.
package geo

import (
	"context"
	"errors"
	"log"
	"time"

	"myvoice-be/models"
)

var (
	// ErrPermissionDenied means the user refused the location prompt.
	ErrPermissionDenied = errors.New("geolocation permission denied")
	// ErrNotSupported means the device has no geolocation capability.
	ErrNotSupported = errors.New("geolocation not supported")
)

// Sentinel location returned when the device position cannot be read.
const (
	SentinelLat = 19.076
	SentinelLng = 72.877

	AddressUnavailable  = "Location unavailable"
	AddressNotSupported = "Location not supported"
	AddressUnknown      = "Unknown location"
)

// Position is a raw device fix.
type Position struct {
	Lat float64
	Lng float64
}

// Geolocator reads the current device position.
type Geolocator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// ReverseGeocoder turns a position into a human-readable address. The
// address arrives noticeably later than the fix, so callers treat the two
// as separately-arriving values.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, pos Position) (string, error)
}

// Resolver combines a locator and a geocoder under one bounded timeout.
type Resolver struct {
	locator Geolocator
	coder   ReverseGeocoder
	timeout time.Duration
}

// NewResolver builds a resolver. timeout bounds the combined fix+geocode;
// zero means 10 seconds.
func NewResolver(locator Geolocator, coder ReverseGeocoder, timeout time.Duration) *Resolver {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Resolver{locator: locator, coder: coder, timeout: timeout}
}

// Resolve returns the device location with its reverse-geocoded address.
// It never fails: denial, absence, and timeouts each map to a sentinel
// location with an explanatory placeholder address.
func (r *Resolver) Resolve(ctx context.Context) models.Location {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pos, err := r.locator.CurrentPosition(ctx)
	if err != nil {
		log.Println("Geolocation failed:", err)
		address := AddressUnavailable
		if errors.Is(err, ErrNotSupported) {
			address = AddressNotSupported
		}
		return models.Location{Lat: SentinelLat, Lng: SentinelLng, Address: address}
	}

	address, err := r.coder.ReverseGeocode(ctx, pos)
	if err != nil {
		log.Println("Reverse geocode failed:", err)
		return models.Location{Lat: pos.Lat, Lng: pos.Lng, Address: AddressUnknown}
	}
	return models.Location{Lat: pos.Lat, Lng: pos.Lng, Address: address}
}
