package triangle

import (
	"log"
	"unsafe"

	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

const (
	// ValidationLayer is the Khronos validation layer enabled when debugging
	ValidationLayer = "VK_LAYER_KHRONOS_validation"
	// DebugReportExtension carries validation messages back to the application
	DebugReportExtension = "VK_EXT_debug_report"
)

// InitializeWithoutWindow loads the system Vulkan loader directly, for
// programs that only query devices
func InitializeWithoutWindow() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return errors.Wrap(err, "load vulkan")
	}
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vulkan init")
	}
	return nil
}

// Version is used to specify versions of components
type Version struct {
	Major int
	Minor int
	Patch int
}

// VKVersion returns a Vulkan compatible version representation
func (v *Version) VKVersion() uint32 {
	return vk.MakeVersion(v.Major, v.Minor, v.Patch)
}

// App is used to provide information about this specific application to Vulkan
type App struct {
	// Name the name of the application
	Name string
	// Engine the name of the engine associated with the application
	EngineName string
	// Version the version of the application
	Version Version
	// APIVersion the expected minimum version of the Vulkan API (i.e. 1.1.0)
	APIVersion Version

	// EnabledLayers the enabled layers
	EnabledLayers []string

	// EnabledExtensions the enabled extensions
	EnabledExtensions []string
}

// SupportedLayers returns a list of supported layers for use by Vulkan,
// vk.Init must have been called beforehand
func SupportedLayers() ([]string, error) {
	var instanceLayerLen uint32
	err := vk.Error(vk.EnumerateInstanceLayerProperties(&instanceLayerLen, nil))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance layers")
	}
	instanceLayer := make([]vk.LayerProperties, instanceLayerLen)
	err = vk.Error(vk.EnumerateInstanceLayerProperties(&instanceLayerLen, instanceLayer))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance layers")
	}
	layerNames := make([]string, 0, instanceLayerLen)
	for _, layer := range instanceLayer[:instanceLayerLen] {
		layer.Deref()
		layerNames = append(layerNames, vk.ToString(layer.LayerName[:]))
	}
	return layerNames, nil
}

// SupportedExtensions returns a list of supported instance extensions,
// vk.Init must have been called beforehand
func SupportedExtensions() ([]string, error) {
	var instanceExtLen uint32
	err := vk.Error(vk.EnumerateInstanceExtensionProperties("", &instanceExtLen, nil))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	instanceExt := make([]vk.ExtensionProperties, instanceExtLen)
	err = vk.Error(vk.EnumerateInstanceExtensionProperties("", &instanceExtLen, instanceExt))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate instance extensions")
	}
	extNames := make([]string, 0, instanceExtLen)
	for _, ext := range instanceExt[:instanceExtLen] {
		ext.Deref()
		extNames = append(extNames, vk.ToString(ext.ExtensionName[:]))
	}
	return extNames, nil
}

// EnableDebugging turns on the validation layer and the debug report
// extension, each only if the loader offers it
func (a *App) EnableDebugging() {
	if _, err := a.EnableLayer(ValidationLayer); err != nil {
		log.Printf("[WARN] %v", err)
		return
	}

	extensions, err := SupportedExtensions()
	if err != nil {
		log.Printf("[WARN] %v", err)
		return
	}
	if containsName(extensions, DebugReportExtension) {
		a.EnableExtension(DebugReportExtension)
	}
}

// DebuggingEnabled reports whether the validation layer was enabled
func (a *App) DebuggingEnabled() bool {
	return containsName(a.EnabledLayers, ValidationLayer)
}

// EnableLayer enables a specific layer
func (a *App) EnableLayer(layer string) (*App, error) {
	layers, err := SupportedLayers()
	if err != nil {
		return a, errors.Wrap(err, "error getting supported layers")
	}
	if !containsName(layers, layer) {
		return a, errors.Newf("validation layer '%s' not found", layer)
	}
	if !containsName(a.EnabledLayers, layer) {
		a.EnabledLayers = append(a.EnabledLayers, layer)
	}
	return a, nil
}

// EnableExtension enables an extension for use by the application
func (a *App) EnableExtension(extension string) *App {
	if !containsName(a.EnabledExtensions, extension) {
		a.EnabledExtensions = append(a.EnabledExtensions, extension)
	}
	return a
}

// RequireExtensions enables every extension in the list, failing on the
// first one the loader does not support
func (a *App) RequireExtensions(required []string) error {
	supported, err := SupportedExtensions()
	if err != nil {
		return err
	}
	if missing := missingNames(supported, required); len(missing) > 0 {
		return errors.Newf("extension '%s' is not supported by vulkan", missing[0])
	}
	for _, ext := range required {
		a.EnableExtension(trimEnd(ext))
	}
	return nil
}

func missingNames(supported, required []string) []string {
	var missing []string
	for _, r := range required {
		if !containsName(supported, r) {
			missing = append(missing, trimEnd(r))
		}
	}
	return missing
}

// VKApplicationInfo creates a structure representing this application in a Vulkan friendly format
func (a *App) VKApplicationInfo() vk.ApplicationInfo {
	apiVersion := a.APIVersion
	if apiVersion.Major < 1 {
		apiVersion = Version{Major: 1}
	}

	return vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         apiVersion.VKVersion(),
		ApplicationVersion: a.Version.VKVersion(),
		EngineVersion:      a.Version.VKVersion(),
		PApplicationName:   safeString(a.Name),
		PEngineName:        safeString(a.EngineName),
	}
}

// CreateInstance creates the Vulkan Instance
func (a *App) CreateInstance() (*Instance, error) {
	appInfo := a.VKApplicationInfo()

	extensions := safeStrings(a.EnabledExtensions)
	layers := safeStrings(a.EnabledLayers)

	createInfo := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        &appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	instance := &Instance{}

	err := vk.Error(vk.CreateInstance(&createInfo, nil, &instance.VKInstance))
	if err != nil {
		return nil, errors.Wrap(err, "create instance")
	}
	if err := vk.InitInstance(instance.VKInstance); err != nil {
		vk.DestroyInstance(instance.VKInstance, nil)
		return nil, errors.Wrap(err, "load instance functions")
	}

	return instance, nil
}

// Instance is an instance of the Vulkan subsystem
type Instance struct {
	// VKInstance is the native Vulkan instance object
	VKInstance vk.Instance

	debugCallback    vk.DebugReportCallback
	hasDebugCallback bool
}

// PhysicalDevices returns a list of physical devices known to Vulkan
func (i *Instance) PhysicalDevices() ([]*PhysicalDevice, error) {
	var deviceCount uint32
	err := vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &deviceCount, nil))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	if deviceCount == 0 {
		return nil, errors.New("no devices found")
	}

	devices := make([]vk.PhysicalDevice, deviceCount)
	err = vk.Error(vk.EnumeratePhysicalDevices(i.VKInstance, &deviceCount, devices))
	if err != nil {
		return nil, errors.Wrap(err, "enumerate physical devices")
	}

	ret := make([]*PhysicalDevice, deviceCount)
	for n, device := range devices[:deviceCount] {
		ret[n] = &PhysicalDevice{VKPhysicalDevice: device}

		vk.GetPhysicalDeviceProperties(device, &ret[n].VKPhysicalDeviceProperties)
		ret[n].VKPhysicalDeviceProperties.Deref()
		ret[n].DeviceName = vk.ToString(ret[n].VKPhysicalDeviceProperties.DeviceName[:])
	}
	return ret, nil
}

// UseDefaultDebugCallback routes validation messages to the log
func (i *Instance) UseDefaultDebugCallback() error {
	return i.SetDebugCallback(DefaultDebugCallback)
}

// SetDebugCallback installs a debug report callback for errors, warnings
// and performance warnings
func (i *Instance) SetDebugCallback(callback vk.DebugReportCallbackFunc) error {
	var debugCallback vk.DebugReportCallback
	ret := vk.CreateDebugReportCallback(i.VKInstance, &vk.DebugReportCallbackCreateInfo{
		SType:       vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags:       vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit | vk.DebugReportPerformanceWarningBit),
		PfnCallback: callback,
	}, nil, &debugCallback)
	if err := vk.Error(ret); err != nil {
		return errors.Wrap(err, "create debug report callback")
	}
	i.debugCallback = debugCallback
	i.hasDebugCallback = true
	return nil
}

// DefaultDebugCallback - taken from github.com/vulkan-go/asche/
func DefaultDebugCallback(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
	object uint64, location uint, messageCode int32, pLayerPrefix string,
	pMessage string, pUserData unsafe.Pointer) vk.Bool32 {

	log.Printf("%s: [%s] Code %d : %s", debugSeverity(flags), pLayerPrefix, messageCode, pMessage)
	return vk.Bool32(vk.False)
}

func debugSeverity(flags vk.DebugReportFlags) string {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return "ERROR"
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return "WARNING"
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return "PERFORMANCE WARNING"
	case flags&vk.DebugReportFlags(vk.DebugReportDebugBit) != 0:
		return "DEBUG"
	default:
		return "INFORMATION"
	}
}

// DestroyDebugCallback removes the debug callback if one was installed
func (i *Instance) DestroyDebugCallback() {
	if i.hasDebugCallback {
		vk.DestroyDebugReportCallback(i.VKInstance, i.debugCallback, nil)
		i.hasDebugCallback = false
	}
}

// Destroy removes the debug callback, if any, and the instance itself
func (i *Instance) Destroy() {
	i.DestroyDebugCallback()
	vk.DestroyInstance(i.VKInstance, nil)
}
