package triangle

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type PipelineCache struct {
	Device          *Device
	VKPipelineCache vk.PipelineCache
}

func (d *Device) CreatePipelineCache() (*PipelineCache, error) {
	pipelineCacheCreate := vk.PipelineCacheCreateInfo{
		SType: vk.StructureTypePipelineCacheCreateInfo,
	}

	var pipelineCache vk.PipelineCache
	err := vk.Error(vk.CreatePipelineCache(d.VKDevice, &pipelineCacheCreate, nil, &pipelineCache))
	if err != nil {
		return nil, errors.Wrap(err, "create pipeline cache")
	}

	return &PipelineCache{Device: d, VKPipelineCache: pipelineCache}, nil
}

func (p *PipelineCache) Destroy() {
	vk.DestroyPipelineCache(p.Device.VKDevice, p.VKPipelineCache, nil)
}

type GraphicsPipeline struct {
	Device     *Device
	VKPipeline vk.Pipeline
}

// CreateGraphicsPipeline builds the pipeline described by config for the
// given render pass and extent
func (d *Device) CreateGraphicsPipeline(cache *PipelineCache, config *GraphicsPipelineConfig, renderPass *RenderPass, extent vk.Extent2D) (*GraphicsPipeline, error) {
	createInfo, err := config.VKGraphicsPipelineCreateInfo(extent)
	if err != nil {
		return nil, err
	}
	createInfo.RenderPass = renderPass.VKRenderPass

	var vkCache vk.PipelineCache
	if cache != nil {
		vkCache = cache.VKPipelineCache
	}

	pipelines := make([]vk.Pipeline, 1)
	err = vk.Error(vk.CreateGraphicsPipelines(d.VKDevice, vkCache, 1, []vk.GraphicsPipelineCreateInfo{createInfo}, nil, pipelines))
	if err != nil {
		return nil, errors.Wrap(err, "create graphics pipeline")
	}

	return &GraphicsPipeline{Device: d, VKPipeline: pipelines[0]}, nil
}

func (g *GraphicsPipeline) Destroy() {
	vk.DestroyPipeline(g.Device.VKDevice, g.VKPipeline, nil)
}
