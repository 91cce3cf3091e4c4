package triangle

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Semaphore struct {
	Device      *Device
	VKSemaphore vk.Semaphore
}

// CreateSemaphore creates a binary semaphore for ordering work between queues
func (d *Device) CreateSemaphore() (*Semaphore, error) {
	semaphoreCreateInfo := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}

	var sema vk.Semaphore

	err := vk.Error(vk.CreateSemaphore(d.VKDevice, &semaphoreCreateInfo, nil, &sema))
	if err != nil {
		return nil, errors.Wrap(err, "create semaphore")
	}

	return &Semaphore{Device: d, VKSemaphore: sema}, nil
}

func (s *Semaphore) Destroy() {
	vk.DestroySemaphore(s.Device.VKDevice, s.VKSemaphore, nil)
}

func vkSemaphores(s []*Semaphore) []vk.Semaphore {
	if len(s) == 0 {
		return nil
	}
	ret := make([]vk.Semaphore, len(s))
	for i := range s {
		ret[i] = s[i].VKSemaphore
	}
	return ret
}
