package triangle

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestFirstSuitable(t *testing.T) {
	complete := QueueFamilyIndices{Graphics: 0, Present: 0}
	incomplete := QueueFamilyIndices{Graphics: 0, Present: -1}

	candidates := []DeviceSuitability{
		{Indices: incomplete, HasSwapchain: true, NumFormats: 1, NumPresentModes: 1},
		{Indices: complete, HasSwapchain: false},
		{Indices: complete, HasSwapchain: true, NumFormats: 0, NumPresentModes: 2},
		{Indices: QueueFamilyIndices{Graphics: 1, Present: 2}, HasSwapchain: true, NumFormats: 3, NumPresentModes: 2},
		{Indices: complete, HasSwapchain: true, NumFormats: 1, NumPresentModes: 1},
	}
	fromSlice := func(c []DeviceSuitability) func(int) (DeviceSuitability, error) {
		return func(i int) (DeviceSuitability, error) { return c[i], nil }
	}

	i, s := firstSuitable(len(candidates), fromSlice(candidates))
	assert.Equal(t, 3, i)
	assert.Equal(t, QueueFamilyIndices{Graphics: 1, Present: 2}, s.Indices)

	i, s = firstSuitable(3, fromSlice(candidates))
	assert.Equal(t, -1, i)
	assert.False(t, s.Indices.IsComplete())

	i, _ = firstSuitable(0, nil)
	assert.Equal(t, -1, i)
}

func TestFirstSuitableSkipsFailingDevices(t *testing.T) {
	good := DeviceSuitability{Indices: QueueFamilyIndices{Graphics: 0, Present: 0}, HasSwapchain: true, NumFormats: 1, NumPresentModes: 1}

	var checked []int
	i, s := firstSuitable(3, func(i int) (DeviceSuitability, error) {
		checked = append(checked, i)
		if i == 0 {
			return DeviceSuitability{}, errors.New("device lost")
		}
		return good, nil
	})
	assert.Equal(t, 1, i)
	assert.Equal(t, good, s)
	assert.Equal(t, []int{0, 1}, checked, "stops at the first match")

	// a broken device after the match is never checked
	checked = nil
	i, _ = firstSuitable(2, func(i int) (DeviceSuitability, error) {
		checked = append(checked, i)
		if i == 1 {
			return DeviceSuitability{}, errors.New("device lost")
		}
		return good, nil
	})
	assert.Equal(t, 0, i)
	assert.Equal(t, []int{0}, checked)
}

func TestVKDeviceQueueCreateInfos(t *testing.T) {
	infos := VKDeviceQueueCreateInfos(QueueFamilyIndices{Graphics: 1, Present: 1})
	require.Len(t, infos, 1)
	assert.Equal(t, uint32(1), infos[0].QueueFamilyIndex)
	assert.Equal(t, uint32(1), infos[0].QueueCount)
	assert.Equal(t, []float32{1.0}, infos[0].PQueuePriorities)
	assert.Equal(t, vk.StructureTypeDeviceQueueCreateInfo, infos[0].SType)

	infos = VKDeviceQueueCreateInfos(QueueFamilyIndices{Graphics: 0, Present: 2})
	require.Len(t, infos, 2)
	assert.Equal(t, uint32(0), infos[0].QueueFamilyIndex)
	assert.Equal(t, uint32(2), infos[1].QueueFamilyIndex)
}

func TestCreateLogicalDeviceRejectsIncompleteIndices(t *testing.T) {
	p := &PhysicalDevice{DeviceName: "test"}
	_, err := p.CreateLogicalDeviceWithOptions(QueueFamilyIndices{Graphics: 0, Present: -1}, nil)
	assert.Error(t, err)
}

func TestPresentModesFilter(t *testing.T) {
	modes := VKPresentModes{vk.PresentModeFifo, vk.PresentModeMailbox, vk.PresentModeImmediate}
	assert.Equal(t, VKPresentModes{vk.PresentModeMailbox}, modes.Filter(vk.PresentModeMailbox))
	assert.Empty(t, modes.Filter(vk.PresentModeFifoRelaxed))
}
