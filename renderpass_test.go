package triangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"
)

func TestVKRenderPassCreateInfo(t *testing.T) {
	info := VKRenderPassCreateInfo(vk.FormatB8g8r8a8Unorm)

	require.Len(t, info.PAttachments, 1)
	color := info.PAttachments[0]
	assert.Equal(t, vk.FormatB8g8r8a8Unorm, color.Format)
	assert.Equal(t, vk.AttachmentLoadOpClear, color.LoadOp)
	assert.Equal(t, vk.AttachmentStoreOpStore, color.StoreOp)
	assert.Equal(t, vk.ImageLayoutUndefined, color.InitialLayout)
	assert.Equal(t, vk.ImageLayoutPresentSrc, color.FinalLayout)

	require.Len(t, info.PSubpasses, 1)
	assert.Equal(t, vk.PipelineBindPointGraphics, info.PSubpasses[0].PipelineBindPoint)
	require.Len(t, info.PSubpasses[0].PColorAttachments, 1)
	assert.Equal(t, vk.ImageLayoutColorAttachmentOptimal, info.PSubpasses[0].PColorAttachments[0].Layout)
	assert.Nil(t, info.PSubpasses[0].PDepthStencilAttachment)

	require.Len(t, info.PDependencies, 1)
	var external uint32 = vk.SubpassExternal
	assert.Equal(t, external, info.PDependencies[0].SrcSubpass)
	assert.Equal(t, uint32(1), info.DependencyCount)
}

func TestVKImageViewCreateInfo(t *testing.T) {
	img := &Image{VKFormat: vk.FormatB8g8r8a8Unorm}
	info := img.VKImageViewCreateInfo()

	assert.Equal(t, vk.ImageViewType2d, info.ViewType)
	assert.Equal(t, vk.FormatB8g8r8a8Unorm, info.Format)
	assert.Equal(t, vk.ComponentSwizzleIdentity, info.Components.R)
	assert.Equal(t, vk.ComponentSwizzleIdentity, info.Components.A)
	assert.Equal(t, uint32(1), info.SubresourceRange.LevelCount)
	assert.Equal(t, uint32(1), info.SubresourceRange.LayerCount)
}
