package triangle

import (
	"time"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ErrTimeout is returned when a fence or image acquisition does not
// complete in time
var ErrTimeout = errors.New("timed out")

type Fence struct {
	Device  *Device
	VKFence vk.Fence
}

// CreateFence creates a fence, optionally already signaled so the first
// wait on it returns at once
func (d *Device) CreateFence(signaled bool) (*Fence, error) {
	fenceCreateInfo := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}
	if signaled {
		fenceCreateInfo.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}

	var fence vk.Fence
	err := vk.Error(vk.CreateFence(d.VKDevice, &fenceCreateInfo, nil, &fence))
	if err != nil {
		return nil, errors.Wrap(err, "create fence")
	}

	return &Fence{Device: d, VKFence: fence}, nil
}

// Wait blocks until the fence is signaled or the timeout expires
func (f *Fence) Wait(timeout time.Duration) error {
	return f.Device.WaitForFences(true, timeout, f)
}

// Reset puts the fence back in the unsignaled state
func (f *Fence) Reset() error {
	return vk.Error(vk.ResetFences(f.Device.VKDevice, 1, []vk.Fence{f.VKFence}))
}

func (d *Device) WaitForFences(waitForAll bool, ts time.Duration, fences ...*Fence) error {
	f := make([]vk.Fence, len(fences))
	for i := range fences {
		f[i] = fences[i].VKFence
	}

	res := vk.WaitForFences(d.VKDevice, uint32(len(fences)), f, boolToVK(waitForAll), uint64(ts.Nanoseconds()))
	if res == vk.Timeout {
		return errors.Wrapf(ErrTimeout, "wait for fences after %s", ts)
	}
	if err := vk.Error(res); err != nil {
		return errors.Wrap(err, "wait for fences")
	}
	return nil
}

func (f *Fence) Destroy() {
	vk.DestroyFence(f.Device.VKDevice, f.VKFence, nil)
}
