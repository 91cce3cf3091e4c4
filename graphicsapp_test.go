package triangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeardownOrder(t *testing.T) {
	p, err := NewGraphicsApp("test", Version{Major: 1})
	require.NoError(t, err)

	var names []string
	for _, step := range p.teardownSteps() {
		names = append(names, step.name)
	}
	assert.Equal(t, []string{
		"wait idle",
		"fence",
		"semaphores",
		"command pool",
		"pipeline",
		"pipeline cache",
		"pipeline layout",
		"render pass",
		"framebuffers",
		"swapchain",
		"device",
		"debug callback",
		"surface",
		"instance",
	}, names)
}

func TestDestroyUninitialized(t *testing.T) {
	p, err := NewGraphicsApp("test", Version{Major: 1})
	require.NoError(t, err)
	assert.NotPanics(t, p.Destroy)
	// twice is fine as well
	assert.NotPanics(t, p.Destroy)
}

func TestNewGraphicsAppWiresFrameLoop(t *testing.T) {
	p, err := NewGraphicsApp("test", Version{Major: 1})
	require.NoError(t, err)
	assert.Same(t, p, p.loop.r)
	assert.False(t, p.loop.swapchainDirty)
}

func TestExitRequested(t *testing.T) {
	assert.False(t, exitRequested(nil))

	exit := make(chan struct{}, 1)
	assert.False(t, exitRequested(exit))

	exit <- struct{}{}
	assert.True(t, exitRequested(exit))

	closed := make(chan struct{})
	close(closed)
	assert.True(t, exitRequested(closed))
	assert.True(t, exitRequested(closed))
}
