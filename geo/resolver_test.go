package geo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveSuccess(t *testing.T) {
	locator := &SimulatedLocator{Position: Position{Lat: 19.2, Lng: 72.9}}
	coder := &SimulatedGeocoder{Address: "24-B Green View Colony, Ward 12"}
	r := NewResolver(locator, coder, 0)

	loc := r.Resolve(context.Background())
	assert.Equal(t, 19.2, loc.Lat)
	assert.Equal(t, 72.9, loc.Lng)
	assert.Equal(t, "24-B Green View Colony, Ward 12", loc.Address)
}

func TestResolvePermissionDenied(t *testing.T) {
	locator := &SimulatedLocator{Err: ErrPermissionDenied}
	r := NewResolver(locator, &SimulatedGeocoder{}, 0)

	loc := r.Resolve(context.Background())
	assert.Equal(t, SentinelLat, loc.Lat)
	assert.Equal(t, SentinelLng, loc.Lng)
	assert.Equal(t, AddressUnavailable, loc.Address)
}

func TestResolveNotSupported(t *testing.T) {
	locator := &SimulatedLocator{Err: ErrNotSupported}
	r := NewResolver(locator, &SimulatedGeocoder{}, 0)

	loc := r.Resolve(context.Background())
	assert.Equal(t, SentinelLat, loc.Lat)
	assert.Equal(t, AddressNotSupported, loc.Address)
}

func TestResolveGeocodeFailureKeepsFix(t *testing.T) {
	// A good fix with a broken geocoder keeps the coordinates.
	locator := &SimulatedLocator{Position: Position{Lat: 19.2, Lng: 72.9}}
	coder := &SimulatedGeocoder{Err: errors.New("service down")}
	r := NewResolver(locator, coder, 0)

	loc := r.Resolve(context.Background())
	assert.Equal(t, 19.2, loc.Lat)
	assert.Equal(t, 72.9, loc.Lng)
	assert.Equal(t, AddressUnknown, loc.Address)
}

func TestResolveGeocodeTimeout(t *testing.T) {
	locator := &SimulatedLocator{Position: Position{Lat: 19.2, Lng: 72.9}}
	coder := &SimulatedGeocoder{Address: "never arrives", Delay: time.Second}
	r := NewResolver(locator, coder, 20*time.Millisecond)

	loc := r.Resolve(context.Background())
	assert.Equal(t, 19.2, loc.Lat)
	assert.Equal(t, AddressUnknown, loc.Address)
}
