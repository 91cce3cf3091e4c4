package triangle

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// Image is a swapchain owned image, it is never destroyed directly
type Image struct {
	Device   *Device
	VKImage  vk.Image
	VKFormat vk.Format
}

type ImageView struct {
	Device      *Device
	VKImageView vk.ImageView
}

// VKImageViewCreateInfo describes a 2D colour view over the whole image
// with identity swizzles
func (i *Image) VKImageViewCreateInfo() vk.ImageViewCreateInfo {
	return vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    i.VKImage,
		ViewType: vk.ImageViewType2d,
		Format:   i.VKFormat,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
}

func (i *Image) CreateImageView() (*ImageView, error) {
	createInfo := i.VKImageViewCreateInfo()

	var view vk.ImageView
	err := vk.Error(vk.CreateImageView(i.Device.VKDevice, &createInfo, nil, &view))
	if err != nil {
		return nil, errors.Wrap(err, "create image view")
	}

	return &ImageView{Device: i.Device, VKImageView: view}, nil
}

func (i *ImageView) Destroy() {
	vk.DestroyImageView(i.Device.VKDevice, i.VKImageView, nil)
}
