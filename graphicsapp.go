package triangle

import (
	"log"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

const (
	// DefaultFrameTimeout bounds the fence wait and image acquisition of a frame
	DefaultFrameTimeout = time.Second
	// DefaultVertexShader and DefaultFragmentShader are the compiled SPIR-V paths
	DefaultVertexShader   = "shaders/vert.spv"
	DefaultFragmentShader = "shaders/frag.spv"
)

// DefaultClearColor is the orange the framebuffer is cleared to
var DefaultClearColor = [4]float32{1.0, 0.5, 0.25, 1.0}

// GraphicsApp is a utility object which implements many of the core requirements to
// get to a functioning Vulkan app. It will setup the appropriate devices and do
// the preparations needed to draw a single triangle every frame.
//
// See https://vulkan-tutorial.com/ for a good walkthrough of what this code does.
type GraphicsApp struct {
	Instance *Instance
	App      *App

	Window    *glfw.Window
	VKSurface vk.Surface

	Device         *Device
	PhysicalDevice *PhysicalDevice

	GraphicsQueue *Queue
	PresentQueue  *Queue

	Swapchain *Swapchain
	Frames    []*SwapchainFrame

	RenderPass       *RenderPass
	PipelineLayout   *PipelineLayout
	PipelineCache    *PipelineCache
	GraphicsPipeline *GraphicsPipeline

	CommandPool *CommandPool

	// VertexShader and FragmentShader are SPIR-V files loaded whenever the
	// pipeline is built
	VertexShader   string
	FragmentShader string

	ClearColor   [4]float32
	FrameTimeout time.Duration

	// Verbose logs every setup step
	Verbose bool

	imageAvailable *Semaphore
	renderFinished *Semaphore
	inFlight       *Fence

	loop frameLoop
}

// NewGraphicsApp creates a new graphics app with the given name and version
func NewGraphicsApp(name string, version Version) (*GraphicsApp, error) {
	app := &App{Name: name, EngineName: "No Engine", Version: version, APIVersion: Version{Major: 1, Minor: 1}}
	p := &GraphicsApp{
		App:            app,
		VertexShader:   DefaultVertexShader,
		FragmentShader: DefaultFragmentShader,
		ClearColor:     DefaultClearColor,
		FrameTimeout:   DefaultFrameTimeout,
	}
	p.loop.r = p
	return p, nil
}

func (p *GraphicsApp) infof(format string, args ...interface{}) {
	if p.Verbose {
		log.Printf("[INFO] "+format, args...)
	}
}

// EnableDebugging enables the validation layer, it must be called before Init
func (p *GraphicsApp) EnableDebugging() bool {
	if p.Instance != nil {
		return false
	}
	p.App.EnableDebugging()
	return p.App.DebuggingEnabled()
}

// SetWindow sets the GLFW window for the graphics app and enables the
// instance extensions it needs
func (p *GraphicsApp) SetWindow(window *glfw.Window) error {
	if p.Instance != nil {
		return errors.New("window must be set prior to initialization")
	}

	if err := p.App.RequireExtensions(window.GetRequiredInstanceExtensions()); err != nil {
		return errors.Wrap(err, "glfw")
	}
	p.Window = window
	return nil
}

// Init creates the instance, surface, device and queues
func (p *GraphicsApp) Init() error {
	if p.Window == nil {
		return errors.New("no window set")
	}

	var err error

	p.Instance, err = p.App.CreateInstance()
	if err != nil {
		return err
	}
	p.infof("instance created, layers %v extensions %v", p.App.EnabledLayers, p.App.EnabledExtensions)

	if containsName(p.App.EnabledExtensions, DebugReportExtension) {
		if err := p.Instance.UseDefaultDebugCallback(); err != nil {
			log.Printf("[WARN] %v", err)
		}
	}

	surface, err := p.Window.CreateWindowSurface(p.Instance.VKInstance, nil)
	if err != nil {
		return errors.Wrap(err, "create window surface")
	}
	p.VKSurface = vk.SurfaceFromPointer(surface)

	physicalDevices, err := p.Instance.PhysicalDevices()
	if err != nil {
		return errors.Wrap(err, "error getting devices")
	}

	pdevice, indices, err := ChoosePhysicalDevice(physicalDevices, p.VKSurface)
	if err != nil {
		return err
	}
	p.PhysicalDevice = pdevice
	p.infof("using %s, graphics family %d present family %d", pdevice.DeviceName, indices.Graphics, indices.Present)

	options := &CreateDeviceOptions{EnabledExtensions: []string{SwapchainExtension}}
	if p.App.DebuggingEnabled() {
		options.EnabledLayers = []string{ValidationLayer}
	}

	p.Device, err = pdevice.CreateLogicalDeviceWithOptions(indices, options)
	if err != nil {
		return errors.Wrap(err, "unable to create device")
	}

	p.GraphicsQueue = p.Device.GetQueue(indices.Graphics)
	p.PresentQueue = p.Device.GetQueue(indices.Present)

	return nil
}

// PrepareToDraw creates everything needed to start drawing, it must be called after Init
func (p *GraphicsApp) PrepareToDraw() error {
	var err error

	p.PipelineLayout, err = p.Device.CreatePipelineLayout()
	if err != nil {
		return err
	}

	p.PipelineCache, err = p.Device.CreatePipelineCache()
	if err != nil {
		return err
	}

	p.CommandPool, err = p.Device.CreateCommandPool(p.GraphicsQueue.FamilyIndex)
	if err != nil {
		return err
	}

	if err := p.createSwapchainResources(nil); err != nil {
		return err
	}

	return p.createSyncObjects()
}

func (p *GraphicsApp) framebufferExtent() vk.Extent2D {
	width, height := p.Window.GetFramebufferSize()
	return vk.Extent2D{Width: uint32(width), Height: uint32(height)}
}

// createSwapchainResources builds the swapchain and everything sized by it
func (p *GraphicsApp) createSwapchainResources(old *Swapchain) error {
	swapchain, err := p.Device.CreateSwapchain(p.VKSurface, &CreateSwapchainOptions{
		OldSwapchain: old,
		ActualSize:   p.framebufferExtent(),
	})
	if err != nil {
		return err
	}
	p.Swapchain = swapchain
	p.infof("swapchain %dx%d format %d present mode %d", swapchain.Extent.Width, swapchain.Extent.Height, swapchain.Format, swapchain.PresentMode)

	images, err := swapchain.GetImages()
	if err != nil {
		return err
	}

	p.RenderPass, err = p.Device.CreateRenderPass(swapchain.Format)
	if err != nil {
		return err
	}

	if err := p.createGraphicsPipeline(); err != nil {
		return err
	}

	buffers, err := p.CommandPool.AllocateBuffers(len(images))
	if err != nil {
		return err
	}

	p.Frames = make([]*SwapchainFrame, len(images))
	for i, image := range images {
		frame := &SwapchainFrame{Image: image, CommandBuffer: buffers[i]}
		p.Frames[i] = frame

		frame.ImageView, err = image.CreateImageView()
		if err != nil {
			return errors.Wrapf(err, "image view %d", i)
		}
		frame.Framebuffer, err = p.Device.CreateFramebuffer(p.RenderPass, frame.ImageView, swapchain.Extent)
		if err != nil {
			return errors.Wrapf(err, "framebuffer %d", i)
		}
	}
	p.infof("%d swapchain frames ready", len(p.Frames))

	return nil
}

func (p *GraphicsApp) createGraphicsPipeline() error {
	config := p.Device.NewGraphicsPipelineConfig()
	defer config.DestroyShaders()

	if err := config.AddShaderStageFromFile(p.VertexShader, "main", vk.ShaderStageVertexBit); err != nil {
		return err
	}
	if err := config.AddShaderStageFromFile(p.FragmentShader, "main", vk.ShaderStageFragmentBit); err != nil {
		return err
	}
	config.SetPipelineLayout(p.PipelineLayout)

	var err error
	p.GraphicsPipeline, err = p.Device.CreateGraphicsPipeline(p.PipelineCache, config, p.RenderPass, p.Swapchain.Extent)
	return err
}

// destroySwapchainResources releases everything sized by the swapchain
// ahead of a rebuild
func (p *GraphicsApp) destroySwapchainResources() {
	p.destroyFrames()
	p.destroyPipeline()
	p.destroyRenderPass()
}

// destroyFrames releases the framebuffers and image views, the command
// buffers go back to the pool while it is still alive
func (p *GraphicsApp) destroyFrames() {
	buffers := make([]*CommandBuffer, 0, len(p.Frames))
	for _, frame := range p.Frames {
		if frame == nil {
			continue
		}
		frame.Destroy()
		if frame.CommandBuffer != nil {
			buffers = append(buffers, frame.CommandBuffer)
		}
	}
	if p.CommandPool != nil && len(buffers) > 0 {
		p.CommandPool.FreeBuffers(buffers)
	}
	p.Frames = nil
}

func (p *GraphicsApp) destroyPipeline() {
	if p.GraphicsPipeline != nil {
		p.GraphicsPipeline.Destroy()
		p.GraphicsPipeline = nil
	}
}

func (p *GraphicsApp) destroyRenderPass() {
	if p.RenderPass != nil {
		p.RenderPass.Destroy()
		p.RenderPass = nil
	}
}

func (p *GraphicsApp) createSyncObjects() error {
	var err error
	p.imageAvailable, err = p.Device.CreateSemaphore()
	if err != nil {
		return err
	}
	p.renderFinished, err = p.Device.CreateSemaphore()
	if err != nil {
		return err
	}
	// signaled so the first frame does not block
	p.inFlight, err = p.Device.CreateFence(true)
	return err
}

// rebuildSwapchain replaces the swapchain with one matching the window
func (p *GraphicsApp) rebuildSwapchain() error {
	if err := p.Device.WaitIdle(); err != nil {
		return errors.Wrap(err, "wait for device idle")
	}

	p.destroySwapchainResources()
	old := p.Swapchain
	p.Swapchain = nil
	err := p.createSwapchainResources(old)
	old.Destroy()
	return err
}

func (p *GraphicsApp) waitForFrame() error {
	return p.inFlight.Wait(p.FrameTimeout)
}

func (p *GraphicsApp) acquireImage() (uint32, error) {
	return p.Swapchain.AcquireNextImage(uint64(p.FrameTimeout.Nanoseconds()), p.imageAvailable)
}

func (p *GraphicsApp) recordFrame(imageIndex uint32) error {
	if err := p.inFlight.Reset(); err != nil {
		return errors.Wrap(err, "reset fence")
	}
	frame := p.Frames[imageIndex]
	if err := frame.CommandBuffer.Reset(); err != nil {
		return errors.Wrap(err, "reset command buffer")
	}
	return frame.CommandBuffer.RecordTriangle(p.RenderPass, frame.Framebuffer, p.GraphicsPipeline, p.Swapchain.Extent, p.ClearColor)
}

func (p *GraphicsApp) submitFrame(imageIndex uint32) error {
	return p.GraphicsQueue.Submit(&SubmitInfo{
		Buffers:    []*CommandBuffer{p.Frames[imageIndex].CommandBuffer},
		WaitOn:     []*Semaphore{p.imageAvailable},
		WaitStages: []vk.PipelineStageFlags{vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)},
		Signal:     []*Semaphore{p.renderFinished},
	}, p.inFlight)
}

func (p *GraphicsApp) presentFrame(imageIndex uint32) error {
	return p.PresentQueue.Present(p.Swapchain, imageIndex, p.renderFinished)
}

// DrawFrame draws one frame, waiting for the previous one to finish first.
// Frames are skipped while the window is minimized.
func (p *GraphicsApp) DrawFrame() error {
	return p.loop.drawFrame()
}

// checkKeys closes the window on Escape, no other input is handled
func (p *GraphicsApp) checkKeys() {
	if p.Window.GetKey(glfw.KeyEscape) == glfw.Press {
		p.Window.SetShouldClose(true)
	}
}

// exitRequested reports whether exit has been signaled, a nil channel never
// is
func exitRequested(exit <-chan struct{}) bool {
	select {
	case <-exit:
		return true
	default:
		return false
	}
}

// Run draws frames until the window is closed or exit is signaled and then
// waits for the device to finish any outstanding work. While the window is
// minimised it blocks on window events instead of spinning.
func (p *GraphicsApp) Run(exit <-chan struct{}) error {
	for !p.Window.ShouldClose() && !exitRequested(exit) {
		if p.loop.swapchainDirty {
			glfw.WaitEvents()
		} else {
			glfw.PollEvents()
		}
		p.checkKeys()
		if err := p.DrawFrame(); err != nil {
			return err
		}
	}
	return p.Device.WaitIdle()
}

type teardownStep struct {
	name string
	run  func()
}

// teardownSteps lists the release order, every step is a no-op for objects
// that were never created
func (p *GraphicsApp) teardownSteps() []teardownStep {
	return []teardownStep{
		{"wait idle", func() {
			if p.Device != nil {
				vk.DeviceWaitIdle(p.Device.VKDevice)
			}
		}},
		{"fence", func() {
			if p.inFlight != nil {
				p.inFlight.Destroy()
				p.inFlight = nil
			}
		}},
		{"semaphores", func() {
			if p.renderFinished != nil {
				p.renderFinished.Destroy()
				p.renderFinished = nil
			}
			if p.imageAvailable != nil {
				p.imageAvailable.Destroy()
				p.imageAvailable = nil
			}
		}},
		// frees the command buffers with it
		{"command pool", func() {
			if p.CommandPool != nil {
				p.CommandPool.Destroy()
				p.CommandPool = nil
			}
		}},
		{"pipeline", p.destroyPipeline},
		{"pipeline cache", func() {
			if p.PipelineCache != nil {
				p.PipelineCache.Destroy()
				p.PipelineCache = nil
			}
		}},
		{"pipeline layout", func() {
			if p.PipelineLayout != nil {
				p.PipelineLayout.Destroy()
				p.PipelineLayout = nil
			}
		}},
		{"render pass", p.destroyRenderPass},
		{"framebuffers", p.destroyFrames},
		{"swapchain", func() {
			if p.Swapchain != nil {
				p.Swapchain.Destroy()
				p.Swapchain = nil
			}
		}},
		{"device", func() {
			if p.Device != nil {
				p.Device.Destroy()
				p.Device = nil
			}
		}},
		{"debug callback", func() {
			if p.Instance != nil {
				p.Instance.DestroyDebugCallback()
			}
		}},
		{"surface", func() {
			if p.Instance != nil && p.VKSurface != vk.NullSurface {
				vk.DestroySurface(p.Instance.VKInstance, p.VKSurface, nil)
				p.VKSurface = vk.NullSurface
			}
		}},
		{"instance", func() {
			if p.Instance != nil {
				p.Instance.Destroy()
				p.Instance = nil
			}
		}},
	}
}

// Destroy tears down the graphics application, it is safe to call after a
// partial setup
func (p *GraphicsApp) Destroy() {
	for _, step := range p.teardownSteps() {
		p.infof("destroy %s", step.name)
		step.run()
	}
}
