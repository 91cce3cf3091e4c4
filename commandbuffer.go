package triangle

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CommandBuffers describe a sequence of commands that will be executed
// upon being sent to a device queue. Only the commands needed to draw
// are wrapped here.
type CommandBuffer struct {
	VKCommandBuffer vk.CommandBuffer
}

// Reset this command buffer
func (c *CommandBuffer) Reset() error {
	return vk.Error(vk.ResetCommandBuffer(c.VKCommandBuffer, 0))
}

// Begin capturing work for this command buffer
func (c *CommandBuffer) Begin() error {
	var beginInfo = vk.CommandBufferBeginInfo{}
	beginInfo.SType = vk.StructureTypeCommandBufferBeginInfo
	beginInfo.Flags = 0
	return vk.Error(vk.BeginCommandBuffer(c.VKCommandBuffer, &beginInfo))
}

func (c *CommandBuffer) End() error {
	return vk.Error(vk.EndCommandBuffer(c.VKCommandBuffer))
}

// VKRenderPassBeginInfo covers the whole framebuffer and clears it to clearColor
func VKRenderPassBeginInfo(renderPass *RenderPass, framebuffer *Framebuffer, extent vk.Extent2D, clearColor [4]float32) vk.RenderPassBeginInfo {
	var clearValue vk.ClearValue
	clearValue.SetColor(clearColor[:])

	return vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  renderPass.VKRenderPass,
		Framebuffer: framebuffer.VKFramebuffer,
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: extent,
		},
		ClearValueCount: 1,
		PClearValues:    []vk.ClearValue{clearValue},
	}
}

func (c *CommandBuffer) CmdBeginRenderPass(renderPass *RenderPass, framebuffer *Framebuffer, extent vk.Extent2D, clearColor [4]float32) {
	info := VKRenderPassBeginInfo(renderPass, framebuffer, extent, clearColor)
	vk.CmdBeginRenderPass(c.VKCommandBuffer, &info, vk.SubpassContentsInline)
}

func (c *CommandBuffer) CmdEndRenderPass() {
	vk.CmdEndRenderPass(c.VKCommandBuffer)
}

func (c *CommandBuffer) CmdBindGraphicsPipeline(p *GraphicsPipeline) {
	vk.CmdBindPipeline(c.VKCommandBuffer, vk.PipelineBindPointGraphics, p.VKPipeline)
}

func (c *CommandBuffer) CmdDraw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	vk.CmdDraw(c.VKCommandBuffer, vertexCount, instanceCount, firstVertex, firstInstance)
}

// RecordTriangle records one render pass into framebuffer that clears it and
// draws three vertices with pipeline
func (c *CommandBuffer) RecordTriangle(renderPass *RenderPass, framebuffer *Framebuffer, pipeline *GraphicsPipeline, extent vk.Extent2D, clearColor [4]float32) error {
	if err := c.Begin(); err != nil {
		return errors.Wrap(err, "begin command buffer")
	}
	c.CmdBeginRenderPass(renderPass, framebuffer, extent, clearColor)
	c.CmdBindGraphicsPipeline(pipeline)
	c.CmdDraw(3, 1, 0, 0)
	c.CmdEndRenderPass()
	if err := c.End(); err != nil {
		return errors.Wrap(err, "end command buffer")
	}
	return nil
}
