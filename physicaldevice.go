package triangle

import (
	"log"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// SwapchainExtension is the device extension needed to present images
const SwapchainExtension = "VK_KHR_swapchain"

type VKPresentModes []vk.PresentMode

func (v VKPresentModes) Filter(f vk.PresentMode) VKPresentModes {
	ret := make(VKPresentModes, 0)
	for _, s := range v {
		if f == s {
			ret = append(ret, s)
		}
	}
	return ret
}

type VKSurfaceFormats []vk.SurfaceFormat

func (v VKSurfaceFormats) Filter(f func(f vk.SurfaceFormat) bool) VKSurfaceFormats {
	ret := make(VKSurfaceFormats, 0)
	for _, s := range v {
		if f(s) {
			ret = append(ret, s)
		}
	}
	return ret
}

type PhysicalDevice struct {
	DeviceName                 string
	VKPhysicalDevice           vk.PhysicalDevice
	VKPhysicalDeviceProperties vk.PhysicalDeviceProperties
}

func (p *PhysicalDevice) GetSurfacePresentModes(surface vk.Surface) (VKPresentModes, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, errors.Wrap(err, "get surface present modes")
	}

	f := make([]vk.PresentMode, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfacePresentModes(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, errors.Wrap(err, "get surface present modes")
	}

	return f[:count], nil
}

// GetSurfaceFormats returns the formats the surface accepts, already dereferenced
func (p *PhysicalDevice) GetSurfaceFormats(surface vk.Surface) (VKSurfaceFormats, error) {
	var count uint32
	err := vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, nil))
	if err != nil {
		return nil, errors.Wrap(err, "get surface formats")
	}

	f := make([]vk.SurfaceFormat, count)
	err = vk.Error(vk.GetPhysicalDeviceSurfaceFormats(p.VKPhysicalDevice, surface, &count, f))
	if err != nil {
		return nil, errors.Wrap(err, "get surface formats")
	}
	for i := range f {
		f[i].Deref()
	}

	return f[:count], nil
}

// GetSurfaceCapabilities returns the surface limits, already dereferenced
func (p *PhysicalDevice) GetSurfaceCapabilities(surface vk.Surface) (*vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	err := vk.Error(vk.GetPhysicalDeviceSurfaceCapabilities(p.VKPhysicalDevice, surface, &caps))
	if err != nil {
		return nil, errors.Wrap(err, "get surface capabilities")
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return &caps, nil
}

func (p *PhysicalDevice) String() string {
	return p.DeviceName
}

func (p *PhysicalDevice) QueueFamilies() (QueueFamilySlice, error) {
	var queueFamilyCount uint32

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, nil)

	if queueFamilyCount == 0 {
		return nil, errors.Newf("device %s reports no queue families", p)
	}

	queues := make([]vk.QueueFamilyProperties, queueFamilyCount)

	vk.GetPhysicalDeviceQueueFamilyProperties(p.VKPhysicalDevice, &queueFamilyCount, queues)

	ret := make([]*QueueFamily, queueFamilyCount)
	for i, queue := range queues[:queueFamilyCount] {
		ret[i] = &QueueFamily{Index: i, PhysicalDevice: p, VKQueueFamilyProperties: queue}
		ret[i].VKQueueFamilyProperties.Deref()
	}

	return ret, nil
}

// FindQueueFamilies picks the graphics and present families for surface
func (p *PhysicalDevice) FindQueueFamilies(surface vk.Surface) (QueueFamilyIndices, error) {
	families, err := p.QueueFamilies()
	if err != nil {
		return QueueFamilyIndices{Graphics: -1, Present: -1}, err
	}
	return FindQueueFamilies(families.Capabilities(surface)), nil
}

// SupportedExtensions returns the device extensions
func (p *PhysicalDevice) SupportedExtensions() ([]vk.ExtensionProperties, error) {
	var count uint32
	err := vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, nil))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate device extensions")
	}

	ext := make([]vk.ExtensionProperties, count)

	err = vk.Error(vk.EnumerateDeviceExtensionProperties(p.VKPhysicalDevice, "", &count, ext))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate device extensions")
	}
	for i := range ext {
		ext[i].Deref()
	}
	return ext[:count], nil
}

// SupportedExtensionNames returns the names of the device extensions
func (p *PhysicalDevice) SupportedExtensionNames() ([]string, error) {
	ext, err := p.SupportedExtensions()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ext))
	for i := range ext {
		names[i] = vk.ToString(ext[i].ExtensionName[:])
	}
	return names, nil
}

// DeviceSuitability is what device selection looks at for one device
type DeviceSuitability struct {
	Indices         QueueFamilyIndices
	HasSwapchain    bool
	NumFormats      int
	NumPresentModes int
}

// Suitable reports whether the device can draw to and present on the surface
func (d DeviceSuitability) Suitable() bool {
	return d.Indices.IsComplete() && d.HasSwapchain && d.NumFormats > 0 && d.NumPresentModes > 0
}

// Suitability checks the device against surface
func (p *PhysicalDevice) Suitability(surface vk.Surface) (DeviceSuitability, error) {
	var s DeviceSuitability
	var err error

	s.Indices, err = p.FindQueueFamilies(surface)
	if err != nil {
		return s, err
	}

	names, err := p.SupportedExtensionNames()
	if err != nil {
		return s, err
	}
	s.HasSwapchain = containsName(names, SwapchainExtension)
	if !s.HasSwapchain {
		return s, nil
	}

	formats, err := p.GetSurfaceFormats(surface)
	if err != nil {
		return s, err
	}
	s.NumFormats = len(formats)

	modes, err := p.GetSurfacePresentModes(surface)
	if err != nil {
		return s, err
	}
	s.NumPresentModes = len(modes)

	return s, nil
}

// firstSuitable checks devices in order and returns the position of the
// first suitable one, or -1. A device whose check fails is skipped.
func firstSuitable(count int, check func(i int) (DeviceSuitability, error)) (int, DeviceSuitability) {
	for i := 0; i < count; i++ {
		s, err := check(i)
		if err != nil {
			log.Printf("[WARN] skipping device %d: %v", i, err)
			continue
		}
		if s.Suitable() {
			return i, s
		}
	}
	return -1, DeviceSuitability{Indices: QueueFamilyIndices{Graphics: -1, Present: -1}}
}

// ChoosePhysicalDevice returns the first device able to render to surface
// along with its queue families
func ChoosePhysicalDevice(devices []*PhysicalDevice, surface vk.Surface) (*PhysicalDevice, QueueFamilyIndices, error) {
	i, s := firstSuitable(len(devices), func(i int) (DeviceSuitability, error) {
		s, err := devices[i].Suitability(surface)
		return s, errors.Wrapf(err, "query device %s", devices[i])
	})
	if i < 0 {
		return nil, s.Indices, errors.Newf("none of %d devices can present to the window", len(devices))
	}
	return devices[i], s.Indices, nil
}

type CreateDeviceOptions struct {
	EnabledExtensions []string
	EnabledLayers     []string
}

// VKDeviceQueueCreateInfos returns one queue request, priority 1.0, per unique family
func VKDeviceQueueCreateInfos(indices QueueFamilyIndices) []vk.DeviceQueueCreateInfo {
	unique := indices.UniqueIndices()
	queueCreateInfos := make([]vk.DeviceQueueCreateInfo, len(unique))
	for j, index := range unique {
		queueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: index,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}
	}
	return queueCreateInfos
}

func (p *PhysicalDevice) CreateLogicalDeviceWithOptions(indices QueueFamilyIndices, options *CreateDeviceOptions) (*Device, error) {
	if !indices.IsComplete() {
		return nil, errors.New("queue family indices are incomplete")
	}

	queueCreateInfos := VKDeviceQueueCreateInfos(indices)

	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: uint32(len(queueCreateInfos)),
		PQueueCreateInfos:    queueCreateInfos,
		PEnabledFeatures:     []vk.PhysicalDeviceFeatures{{}},
	}

	if options != nil {
		if options.EnabledExtensions != nil {
			deviceCreateInfo.EnabledExtensionCount = uint32(len(options.EnabledExtensions))
			deviceCreateInfo.PpEnabledExtensionNames = safeStrings(options.EnabledExtensions)
		}
		if options.EnabledLayers != nil {
			deviceCreateInfo.EnabledLayerCount = uint32(len(options.EnabledLayers))
			deviceCreateInfo.PpEnabledLayerNames = safeStrings(options.EnabledLayers)
		}
	}

	var ldevice vk.Device

	err := vk.Error(vk.CreateDevice(p.VKPhysicalDevice, &deviceCreateInfo, nil, &ldevice))
	if err != nil {
		return nil, errors.Wrap(err, "create logical device")
	}

	return &Device{PhysicalDevice: p, VKDevice: ldevice, QueueFamilies: indices}, nil
}

func (p *PhysicalDevice) VKPhysicalDeviceFeatures() vk.PhysicalDeviceFeatures {
	var deviceFeatures vk.PhysicalDeviceFeatures
	vk.GetPhysicalDeviceFeatures(p.VKPhysicalDevice, &deviceFeatures)
	deviceFeatures.Deref()
	return deviceFeatures
}

func (p *PhysicalDevice) VKPhysicalDeviceMemoryProperties() vk.PhysicalDeviceMemoryProperties {
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(p.VKPhysicalDevice, &memoryProperties)
	memoryProperties.Deref()
	return memoryProperties
}

// MemoryHeap is one dereferenced heap of device memory
type MemoryHeap struct {
	Size        uint64
	DeviceLocal bool
}

// MemoryHeaps lists the memory heaps of the device
func (p *PhysicalDevice) MemoryHeaps() []MemoryHeap {
	mp := p.VKPhysicalDeviceMemoryProperties()

	ret := make([]MemoryHeap, 0, mp.MemoryHeapCount)
	var i uint32
	for i = 0; i < mp.MemoryHeapCount; i++ {
		h := mp.MemoryHeaps[i]
		h.Deref()
		ret = append(ret, MemoryHeap{
			Size:        uint64(h.Size),
			DeviceLocal: vk.MemoryHeapFlagBits(h.Flags)&vk.MemoryHeapDeviceLocalBit != 0,
		})
	}
	return ret
}
