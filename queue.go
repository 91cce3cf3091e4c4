package triangle

import (
	"fmt"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// ErrSwapchainOutOfDate is returned when the swapchain no longer matches the
// surface and must be rebuilt before drawing again
var ErrSwapchainOutOfDate = errors.New("swapchain out of date")

type Queue struct {
	Device      *Device
	FamilyIndex int
	VKQueue     vk.Queue
}

// SubmitInfo describes one batch of command buffers along with the
// semaphores it waits on and signals
type SubmitInfo struct {
	Buffers    []*CommandBuffer
	WaitOn     []*Semaphore
	WaitStages []vk.PipelineStageFlags
	Signal     []*Semaphore
}

// VKSubmitInfo converts to the native structure
func (s *SubmitInfo) VKSubmitInfo() vk.SubmitInfo {
	b := make([]vk.CommandBuffer, len(s.Buffers))
	for i := range s.Buffers {
		b[i] = s.Buffers[i].VKCommandBuffer
	}

	return vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount:   uint32(len(s.WaitOn)),
		PWaitSemaphores:      vkSemaphores(s.WaitOn),
		PWaitDstStageMask:    s.WaitStages,
		CommandBufferCount:   uint32(len(b)),
		PCommandBuffers:      b,
		SignalSemaphoreCount: uint32(len(s.Signal)),
		PSignalSemaphores:    vkSemaphores(s.Signal),
	}
}

// Submit queues the batch, fence may be nil
func (q *Queue) Submit(info *SubmitInfo, fence *Fence) error {
	vkFence := vk.NullFence
	if fence != nil {
		vkFence = fence.VKFence
	}

	err := vk.Error(vk.QueueSubmit(q.VKQueue, 1, []vk.SubmitInfo{info.VKSubmitInfo()}, vkFence))
	if err != nil {
		return errors.Wrap(err, "queue submit")
	}
	return nil
}

// Present queues image imageIndex of the swapchain for display once every
// semaphore in waitOn is signaled. Out of date and suboptimal results are
// reported as ErrSwapchainOutOfDate
func (q *Queue) Present(swapchain *Swapchain, imageIndex uint32, waitOn ...*Semaphore) error {
	presentInfo := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: uint32(len(waitOn)),
		PWaitSemaphores:    vkSemaphores(waitOn),
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{swapchain.VKSwapchain},
		PImageIndices:      []uint32{imageIndex},
	}

	return presentResult(vk.QueuePresent(q.VKQueue, &presentInfo))
}

// presentResult maps the result of a present, both out of date and
// suboptimal ask for a new swapchain
func presentResult(res vk.Result) error {
	switch res {
	case vk.Success:
		return nil
	case vk.ErrorOutOfDate, vk.Suboptimal:
		return ErrSwapchainOutOfDate
	}
	return errors.Wrap(vk.Error(res), "queue present")
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Device: %s QueueFamily: %d}", q.Device.String(), q.FamilyIndex)
}
