package triangle

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

type Swapchain struct {
	Extent      vk.Extent2D
	Format      vk.Format
	ColorSpace  vk.ColorSpace
	PresentMode vk.PresentMode
	Device      *Device
	VKSwapchain vk.Swapchain
}

func (s *Swapchain) Destroy() {
	vk.DestroySwapchain(s.Device.VKDevice, s.VKSwapchain, nil)
}

func (s *Swapchain) GetImages() ([]*Image, error) {
	var imageCount uint32
	err := vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, nil))
	if err != nil {
		return nil, errors.Wrap(err, "get swapchain images")
	}

	swapchainImages := make([]vk.Image, imageCount)
	err = vk.Error(vk.GetSwapchainImages(s.Device.VKDevice, s.VKSwapchain, &imageCount, swapchainImages))
	if err != nil {
		return nil, errors.Wrap(err, "get swapchain images")
	}

	ret := make([]*Image, imageCount)
	for i := range ret {
		ret[i] = &Image{
			Device:   s.Device,
			VKImage:  swapchainImages[i],
			VKFormat: s.Format,
		}
	}

	return ret, nil
}

// AcquireNextImage returns the index of the next image to draw into,
// signaling semaphore once the presentation engine has released it
func (s *Swapchain) AcquireNextImage(timeout uint64, semaphore *Semaphore) (uint32, error) {
	var imageIndex uint32
	res := vk.AcquireNextImage(s.Device.VKDevice, s.VKSwapchain, timeout, semaphore.VKSemaphore, vk.NullFence, &imageIndex)
	if err := acquireResult(res); err != nil {
		return 0, err
	}
	return imageIndex, nil
}

// acquireResult maps the result of an image acquisition. Suboptimal images
// are still drawn, the swapchain is rebuilt after they are presented.
func acquireResult(res vk.Result) error {
	switch res {
	case vk.Success, vk.Suboptimal:
		return nil
	case vk.ErrorOutOfDate:
		return ErrSwapchainOutOfDate
	case vk.Timeout, vk.NotReady:
		return errors.Wrap(ErrTimeout, "acquire next image")
	}
	return errors.Wrap(vk.Error(res), "acquire next image")
}

// ChooseSurfaceFormat prefers 8 bit BGRA in the sRGB non-linear colour space
// and otherwise takes whatever the surface lists first
func ChooseSurfaceFormat(formats []vk.SurfaceFormat) (vk.SurfaceFormat, error) {
	if len(formats) == 0 {
		return vk.SurfaceFormat{}, errors.New("surface reports no formats")
	}
	preferred := VKSurfaceFormats(formats).Filter(func(f vk.SurfaceFormat) bool {
		return f.Format == vk.FormatB8g8r8a8Unorm && f.ColorSpace == vk.ColorspaceSrgbNonlinear
	})
	if len(preferred) > 0 {
		return preferred[0], nil
	}
	return formats[0], nil
}

// ChoosePresentMode prefers mailbox, FIFO is always available
func ChoosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	if m := VKPresentModes(modes).Filter(vk.PresentModeMailbox); len(m) > 0 {
		return m[0]
	}
	return vk.PresentModeFifo
}

// ChooseExtent returns the surface's own extent when it has one, otherwise
// the window size clamped to what the surface allows
func ChooseExtent(caps *vk.SurfaceCapabilities, window vk.Extent2D) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(window.Width, caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(window.Height, caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// ChooseImageCount asks for one image more than the minimum, a max of zero
// means there is no upper limit
func ChooseImageCount(caps *vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

type CreateSwapchainOptions struct {
	OldSwapchain *Swapchain
	// ActualSize is the window framebuffer size, used when the surface leaves
	// the extent up to the application
	ActualSize vk.Extent2D
}

// VKSwapchainCreateInfo fills in everything the swapchain needs, sharing
// images between families only when graphics and present differ
func VKSwapchainCreateInfo(surface vk.Surface, caps *vk.SurfaceCapabilities, format vk.SurfaceFormat, presentMode vk.PresentMode, extent vk.Extent2D, indices QueueFamilyIndices) vk.SwapchainCreateInfo {
	createInfo := vk.SwapchainCreateInfo{
		SType:            vk.StructureTypeSwapchainCreateInfo,
		Surface:          surface,
		MinImageCount:    ChooseImageCount(caps),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      extent,
		PresentMode:      presentMode,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageArrayLayers: 1,
		Clipped:          vk.True,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		OldSwapchain:     vk.NullSwapchain,
	}

	if indices.Shared() {
		createInfo.ImageSharingMode = vk.SharingModeExclusive
		createInfo.QueueFamilyIndexCount = 0
		createInfo.PQueueFamilyIndices = nil
	} else {
		createInfo.ImageSharingMode = vk.SharingModeConcurrent
		createInfo.QueueFamilyIndexCount = 2
		createInfo.PQueueFamilyIndices = []uint32{uint32(indices.Graphics), uint32(indices.Present)}
	}

	return createInfo
}

func (p *Device) CreateSwapchain(surface vk.Surface, options *CreateSwapchainOptions) (*Swapchain, error) {
	if options == nil {
		options = &CreateSwapchainOptions{}
	}

	modes, err := p.PhysicalDevice.GetSurfacePresentModes(surface)
	if err != nil {
		return nil, err
	}
	presentMode := ChoosePresentMode(modes)

	formats, err := p.PhysicalDevice.GetSurfaceFormats(surface)
	if err != nil {
		return nil, err
	}
	format, err := ChooseSurfaceFormat(formats)
	if err != nil {
		return nil, err
	}

	caps, err := p.PhysicalDevice.GetSurfaceCapabilities(surface)
	if err != nil {
		return nil, err
	}

	extent := ChooseExtent(caps, options.ActualSize)
	if extent.Width == 0 || extent.Height == 0 {
		return nil, errors.Newf("cannot create a %dx%d swapchain", extent.Width, extent.Height)
	}

	createInfo := VKSwapchainCreateInfo(surface, caps, format, presentMode, extent, p.QueueFamilies)
	if options.OldSwapchain != nil {
		createInfo.OldSwapchain = options.OldSwapchain.VKSwapchain
	}

	var swapchain vk.Swapchain
	err = vk.Error(vk.CreateSwapchain(p.VKDevice, &createInfo, nil, &swapchain))
	if err != nil {
		return nil, errors.Wrap(err, "create swapchain")
	}

	return &Swapchain{
		VKSwapchain: swapchain,
		Device:      p,
		Extent:      extent,
		Format:      format.Format,
		ColorSpace:  format.ColorSpace,
		PresentMode: presentMode,
	}, nil
}

// SwapchainFrame groups everything that exists once per swapchain image
type SwapchainFrame struct {
	Image         *Image
	ImageView     *ImageView
	Framebuffer   *Framebuffer
	CommandBuffer *CommandBuffer
}

// Destroy releases the view and framebuffer, the image belongs to the
// swapchain and the command buffer to its pool
func (f *SwapchainFrame) Destroy() {
	if f.Framebuffer != nil {
		f.Framebuffer.Destroy()
		f.Framebuffer = nil
	}
	if f.ImageView != nil {
		f.ImageView.Destroy()
		f.ImageView = nil
	}
}
