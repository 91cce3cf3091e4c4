package triangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorspaceSrgbNonlinear}
	other := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorspaceSrgbNonlinear}
	wrongSpace := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpace(1000104002)}

	f, err := ChooseSurfaceFormat([]vk.SurfaceFormat{other, preferred, wrongSpace})
	require.NoError(t, err)
	assert.Equal(t, preferred, f)

	// falls back to the first entry, not the last
	f, err = ChooseSurfaceFormat([]vk.SurfaceFormat{other, wrongSpace})
	require.NoError(t, err)
	assert.Equal(t, other, f)

	_, err = ChooseSurfaceFormat(nil)
	assert.Error(t, err)
}

func TestChoosePresentMode(t *testing.T) {
	assert.Equal(t, vk.PresentModeMailbox, ChoosePresentMode([]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}))
	assert.Equal(t, vk.PresentModeFifo, ChoosePresentMode([]vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo}))
	assert.Equal(t, vk.PresentModeFifo, ChoosePresentMode(nil))
}

func testCaps() *vk.SurfaceCapabilities {
	return &vk.SurfaceCapabilities{
		MinImageCount:  2,
		MaxImageCount:  3,
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 100, Height: 100},
		MaxImageExtent: vk.Extent2D{Width: 1000, Height: 800},
	}
}

func TestChooseExtent(t *testing.T) {
	caps := testCaps()

	assert.Equal(t, vk.Extent2D{Width: 640, Height: 480}, ChooseExtent(caps, vk.Extent2D{Width: 640, Height: 480}))
	assert.Equal(t, vk.Extent2D{Width: 100, Height: 800}, ChooseExtent(caps, vk.Extent2D{Width: 10, Height: 4000}))

	caps.CurrentExtent = vk.Extent2D{Width: 320, Height: 240}
	assert.Equal(t, vk.Extent2D{Width: 320, Height: 240}, ChooseExtent(caps, vk.Extent2D{Width: 640, Height: 480}))
}

func TestChooseImageCount(t *testing.T) {
	caps := testCaps()
	assert.Equal(t, uint32(3), ChooseImageCount(caps))

	caps.MinImageCount = 3
	assert.Equal(t, uint32(3), ChooseImageCount(caps))

	caps.MaxImageCount = 0
	assert.Equal(t, uint32(4), ChooseImageCount(caps))
}

func TestVKSwapchainCreateInfoSharing(t *testing.T) {
	caps := testCaps()
	format := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorspaceSrgbNonlinear}
	extent := vk.Extent2D{Width: 640, Height: 480}

	info := VKSwapchainCreateInfo(vk.NullSurface, caps, format, vk.PresentModeFifo, extent, QueueFamilyIndices{Graphics: 0, Present: 0})
	assert.Equal(t, vk.SharingModeExclusive, info.ImageSharingMode)
	assert.Equal(t, uint32(0), info.QueueFamilyIndexCount)
	assert.Nil(t, info.PQueueFamilyIndices)
	assert.Equal(t, uint32(3), info.MinImageCount)
	assert.Equal(t, extent, info.ImageExtent)
	assert.Equal(t, format.Format, info.ImageFormat)
	assert.Equal(t, uint32(1), info.ImageArrayLayers)
	assert.Equal(t, vk.CompositeAlphaOpaqueBit, info.CompositeAlpha)

	info = VKSwapchainCreateInfo(vk.NullSurface, caps, format, vk.PresentModeMailbox, extent, QueueFamilyIndices{Graphics: 0, Present: 1})
	assert.Equal(t, vk.SharingModeConcurrent, info.ImageSharingMode)
	assert.Equal(t, uint32(2), info.QueueFamilyIndexCount)
	assert.Equal(t, []uint32{0, 1}, info.PQueueFamilyIndices)
	assert.Equal(t, vk.PresentModeMailbox, info.PresentMode)
}
