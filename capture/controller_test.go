package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitchingFacingReleasesPriorStream(t *testing.T) {
	devices := &SimulatedDevices{Scene: testScene(4, 4)}
	c := NewController(devices, nil)

	require.NoError(t, c.StartStream(FacingBack, false))
	assert.Equal(t, 1, devices.OpenStreams())

	require.NoError(t, c.SetFacing(FacingFront))
	assert.Equal(t, 1, devices.OpenStreams())

	require.NoError(t, c.SetTorch(true))
	assert.Equal(t, 1, devices.OpenStreams())

	c.Close()
	assert.Equal(t, 0, devices.OpenStreams())
	assert.False(t, c.Live())
}

func TestDeniedCameraLeavesNothingOpen(t *testing.T) {
	devices := &SimulatedDevices{DenyVideo: true}
	c := NewController(devices, nil)

	err := c.StartStream(FacingFront, false)
	require.Error(t, err)
	assert.True(t, c.Unavailable())
	assert.False(t, c.Live())
	assert.Equal(t, 0, devices.OpenStreams())
}

func TestRecoveryAfterDenial(t *testing.T) {
	devices := &SimulatedDevices{DenyVideo: true}
	c := NewController(devices, nil)
	_ = c.StartStream(FacingBack, false)
	require.True(t, c.Unavailable())

	// Permission granted on a later attempt clears the unavailable state.
	devices.DenyVideo = false
	devices.Scene = testScene(4, 4)
	require.NoError(t, c.StartStream(FacingBack, false))
	assert.False(t, c.Unavailable())
	assert.True(t, c.Live())
	c.Close()
}

func TestCloseIsIdempotent(t *testing.T) {
	devices := &SimulatedDevices{Scene: testScene(4, 4)}
	c := NewController(devices, nil)
	require.NoError(t, c.StartStream(FacingBack, false))

	c.Close()
	c.Close()
	assert.Equal(t, 0, devices.OpenStreams())
}
