package triangle

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// frameRenderer is the set of steps a frameLoop runs against the GPU
type frameRenderer interface {
	waitForFrame() error
	acquireImage() (uint32, error)
	recordFrame(imageIndex uint32) error
	submitFrame(imageIndex uint32) error
	presentFrame(imageIndex uint32) error

	framebufferExtent() vk.Extent2D
	rebuildSwapchain() error
}

// frameLoop drives a frameRenderer and remembers a swapchain rebuild that
// had to wait for the window to get an area again.
type frameLoop struct {
	r              frameRenderer
	swapchainDirty bool
}

// recreateSwapchain rebuilds the swapchain unless the window is minimised,
// in which case the rebuild stays pending and false is returned.
func (l *frameLoop) recreateSwapchain() (bool, error) {
	l.swapchainDirty = true
	if e := l.r.framebufferExtent(); e.Width == 0 || e.Height == 0 {
		return false, nil
	}
	if err := l.r.rebuildSwapchain(); err != nil {
		return false, errors.Wrap(err, "recreate swapchain")
	}
	l.swapchainDirty = false
	return true, nil
}

// drawFrame runs one frame. The fence is only reset once an image has been
// acquired, so a frame abandoned for an out of date swapchain leaves it
// signaled for the next wait.
func (l *frameLoop) drawFrame() error {
	if l.swapchainDirty {
		if ok, err := l.recreateSwapchain(); err != nil || !ok {
			return err
		}
	}

	if err := l.r.waitForFrame(); err != nil {
		return errors.Wrap(err, "wait for in-flight fence")
	}

	imageIndex, err := l.r.acquireImage()
	if errors.Is(err, ErrSwapchainOutOfDate) {
		_, err := l.recreateSwapchain()
		return err
	}
	if err != nil {
		return errors.Wrap(err, "acquire next image")
	}

	if err := l.r.recordFrame(imageIndex); err != nil {
		return errors.Wrapf(err, "record command buffer %d", imageIndex)
	}

	if err := l.r.submitFrame(imageIndex); err != nil {
		return errors.Wrap(err, "submit draw command buffer")
	}

	err = l.r.presentFrame(imageIndex)
	if errors.Is(err, ErrSwapchainOutOfDate) {
		_, err := l.recreateSwapchain()
		return err
	}
	if err != nil {
		return errors.Wrap(err, "present image")
	}
	return nil
}
