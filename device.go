package triangle

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

type Device struct {
	PhysicalDevice *PhysicalDevice
	VKDevice       vk.Device
	QueueFamilies  QueueFamilyIndices
}

func (d *Device) Destroy() {
	vk.DestroyDevice(d.VKDevice, nil)
}

func (d *Device) String() string {
	return fmt.Sprintf("{ PhysicalDevice: %s }", d.PhysicalDevice)
}

func (d *Device) WaitIdle() error {
	return vk.Error(vk.DeviceWaitIdle(d.VKDevice))
}

// GetQueue returns the first queue of the given family
func (d *Device) GetQueue(familyIndex int) *Queue {
	var vkq vk.Queue

	vk.GetDeviceQueue(d.VKDevice, uint32(familyIndex), 0, &vkq)

	return &Queue{
		Device:      d,
		FamilyIndex: familyIndex,
		VKQueue:     vkq,
	}
}
