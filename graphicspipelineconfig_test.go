package triangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func testPipelineConfig() *GraphicsPipelineConfig {
	g := (&Device{}).NewGraphicsPipelineConfig()
	g.ShaderStages = []vk.PipelineShaderStageCreateInfo{
		(&ShaderModule{}).VKPipelineShaderStageCreateInfo(vk.ShaderStageVertexBit, "main"),
		(&ShaderModule{}).VKPipelineShaderStageCreateInfo(vk.ShaderStageFragmentBit, "main"),
	}
	g.SetPipelineLayout(&PipelineLayout{})
	return g
}

func TestGraphicsPipelineCreateInfo(t *testing.T) {
	extent := vk.Extent2D{Width: 640, Height: 480}
	info, err := testPipelineConfig().VKGraphicsPipelineCreateInfo(extent)
	require.NoError(t, err)

	assert.Equal(t, uint32(2), info.StageCount)
	assert.Equal(t, uint32(0), info.PVertexInputState.VertexBindingDescriptionCount)
	assert.Equal(t, uint32(0), info.PVertexInputState.VertexAttributeDescriptionCount)
	assert.Equal(t, vk.PrimitiveTopologyTriangleList, info.PInputAssemblyState.Topology)

	require.Len(t, info.PViewportState.PViewports, 1)
	vp := info.PViewportState.PViewports[0]
	assert.Equal(t, float32(640), vp.Width)
	assert.Equal(t, float32(480), vp.Height)
	assert.Equal(t, float32(1), vp.MaxDepth)
	require.Len(t, info.PViewportState.PScissors, 1)
	assert.Equal(t, extent, info.PViewportState.PScissors[0].Extent)

	assert.Equal(t, vk.PolygonModeFill, info.PRasterizationState.PolygonMode)
	assert.Equal(t, vk.CullModeFlags(vk.CullModeBackBit), info.PRasterizationState.CullMode)
	assert.Equal(t, vk.FrontFaceClockwise, info.PRasterizationState.FrontFace)
	assert.Equal(t, float32(1), info.PRasterizationState.LineWidth)

	assert.Equal(t, vk.SampleCount1Bit, info.PMultisampleState.RasterizationSamples)
	assert.Nil(t, info.PDepthStencilState)

	require.Len(t, info.PColorBlendState.PAttachments, 1)
	assert.Equal(t, vk.Bool32(vk.False), info.PColorBlendState.PAttachments[0].BlendEnable)
	assert.Equal(t, uint32(0), info.Subpass)
}

func TestGraphicsPipelineCreateInfoIncomplete(t *testing.T) {
	g := (&Device{}).NewGraphicsPipelineConfig()
	_, err := g.VKGraphicsPipelineCreateInfo(vk.Extent2D{Width: 1, Height: 1})
	assert.Error(t, err)

	g = testPipelineConfig()
	g.PipelineLayout = nil
	_, err = g.VKGraphicsPipelineCreateInfo(vk.Extent2D{Width: 1, Height: 1})
	assert.Error(t, err)
}
