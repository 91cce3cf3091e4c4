package triangle

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type QueueFamilySlice []*QueueFamily

// Capabilities checks every family against the surface, in index order
func (ql QueueFamilySlice) Capabilities(surface vk.Surface) []QueueCapabilities {
	ret := make([]QueueCapabilities, len(ql))
	for i, q := range ql {
		ret[i] = QueueCapabilities{
			Index:    q.Index,
			Graphics: q.IsGraphics(),
			Present:  q.SupportsPresent(surface),
		}
	}
	return ret
}

type QueueFamily struct {
	Index                   int
	PhysicalDevice          *PhysicalDevice
	VKQueueFamilyProperties vk.QueueFamilyProperties
}

func (q *QueueFamily) IsCompute() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueComputeBit) == vk.QueueFlags(vk.QueueComputeBit)
}

func (q *QueueFamily) IsGraphics() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == vk.QueueFlags(vk.QueueGraphicsBit)
}

func (q *QueueFamily) IsTransfer() bool {
	return q.VKQueueFamilyProperties.QueueFlags&vk.QueueFlags(vk.QueueTransferBit) == vk.QueueFlags(vk.QueueTransferBit)
}

func (q *QueueFamily) SupportsPresent(surface vk.Surface) bool {
	var supportsPresent vk.Bool32
	vk.GetPhysicalDeviceSurfaceSupport(q.PhysicalDevice.VKPhysicalDevice, uint32(q.Index), surface, &supportsPresent)
	return supportsPresent == vk.True
}

func (q *QueueFamily) String() string {
	return fmt.Sprintf("{ Index: %d Count: %d Compute: %v Graphics: %v Transfer: %v }",
		q.Index, q.VKQueueFamilyProperties.QueueCount, q.IsCompute(), q.IsGraphics(), q.IsTransfer())
}

// QueueCapabilities is what the family scan needs to know about one family
type QueueCapabilities struct {
	Index    int
	Graphics bool
	Present  bool
}

// QueueFamilyIndices holds the families picked for drawing and presenting,
// -1 means not found
type QueueFamilyIndices struct {
	Graphics int
	Present  int
}

// IsComplete reports whether both a graphics and a present family were found
func (q QueueFamilyIndices) IsComplete() bool {
	return q.Graphics >= 0 && q.Present >= 0
}

// Shared reports whether one family does both jobs
func (q QueueFamilyIndices) Shared() bool {
	return q.IsComplete() && q.Graphics == q.Present
}

// UniqueIndices returns each family index once, graphics first
func (q QueueFamilyIndices) UniqueIndices() []uint32 {
	if !q.IsComplete() {
		return nil
	}
	unique := []uint32{uint32(q.Graphics)}
	if q.Graphics != q.Present {
		unique = append(unique, uint32(q.Present))
	}
	return unique
}

// FindQueueFamilies scans the families in order, taking every graphics
// family as the graphics family and every presenting family as the present
// family, and stops as soon as both are set
func FindQueueFamilies(families []QueueCapabilities) QueueFamilyIndices {
	indices := QueueFamilyIndices{Graphics: -1, Present: -1}
	for _, f := range families {
		if f.Graphics {
			indices.Graphics = f.Index
		}
		if f.Present {
			indices.Present = f.Index
		}
		if indices.IsComplete() {
			break
		}
	}
	return indices
}
