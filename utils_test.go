package triangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestSafeString(t *testing.T) {
	assert.Equal(t, "\x00", safeString(""))
	assert.Equal(t, "VK_KHR_swapchain\x00", safeString("VK_KHR_swapchain"))
	assert.Equal(t, "VK_KHR_swapchain\x00", safeString("VK_KHR_swapchain\x00"))
}

func TestSafeStringsCopies(t *testing.T) {
	in := []string{"a", "b\x00"}
	out := safeStrings(in)

	assert.Equal(t, []string{"a\x00", "b\x00"}, out)
	assert.Equal(t, "a", in[0])
}

func TestContainsName(t *testing.T) {
	names := []string{"VK_KHR_surface", "VK_KHR_xcb_surface\x00"}

	assert.True(t, containsName(names, "VK_KHR_xcb_surface"))
	assert.True(t, containsName(names, "VK_KHR_surface\x00"))
	assert.False(t, containsName(names, "VK_KHR_wayland_surface"))
}

func TestClampUint32(t *testing.T) {
	assert.Equal(t, uint32(10), clampUint32(5, 10, 20))
	assert.Equal(t, uint32(20), clampUint32(25, 10, 20))
	assert.Equal(t, uint32(15), clampUint32(15, 10, 20))
}

func TestBoolToVK(t *testing.T) {
	assert.Equal(t, vk.Bool32(vk.True), boolToVK(true))
	assert.Equal(t, vk.Bool32(vk.False), boolToVK(false))
}
