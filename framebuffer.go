package triangle

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Framebuffer struct {
	Device        *Device
	VKFramebuffer vk.Framebuffer
}

// CreateFramebuffer binds a single colour view to the render pass
func (d *Device) CreateFramebuffer(renderPass *RenderPass, view *ImageView, extent vk.Extent2D) (*Framebuffer, error) {
	attachments := []vk.ImageView{view.VKImageView}
	fbCreateInfo := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      renderPass.VKRenderPass,
		Layers:          1,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		Width:           extent.Width,
		Height:          extent.Height,
	}

	var framebuffer vk.Framebuffer
	err := vk.Error(vk.CreateFramebuffer(d.VKDevice, &fbCreateInfo, nil, &framebuffer))
	if err != nil {
		return nil, errors.Wrap(err, "create framebuffer")
	}
	return &Framebuffer{Device: d, VKFramebuffer: framebuffer}, nil
}

func (f *Framebuffer) Destroy() {
	vk.DestroyFramebuffer(f.Device.VKDevice, f.VKFramebuffer, nil)
}
