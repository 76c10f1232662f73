package render

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// The interfaces in this file are the only way the core reaches the
// graphics driver. internal/render/vkng implements them on vkngwrapper;
// tests implement them in memory.

// Window is the part of the windowing layer the core needs before a
// surface exists.
type Window interface {
	// VulkanGetInstanceExtensions lists the instance extensions the
	// platform needs to present to this window.
	VulkanGetInstanceExtensions() []string
}

// Loader is an opened driver entry point.
type Loader interface {
	AvailableLayers() (map[string]struct{}, error)
	AvailableExtensions() (map[string]struct{}, error)
	CreateInstance(info InstanceInfo) (Instance, error)
}

type InstanceInfo struct {
	ApplicationName string
	Layers          []string
	Extensions      []string

	// Portability sets the enumerate-portability instance flag.
	Portability bool

	// Messenger, if set, is chained into instance creation so that the
	// create and destroy calls themselves are reported.
	Messenger *MessengerInfo
}

type Instance interface {
	PhysicalDevices() ([]PhysicalDevice, error)
	CreateMessenger(info MessengerInfo) (Messenger, error)
	CreateSurface(window Window) (SurfaceHandle, error)
	Destroy()
}

type Messenger interface {
	Destroy()
}

type QueueFamily struct {
	Flags      core1_0.QueueFlags
	QueueCount int
}

type PhysicalDevice interface {
	QueueFamilies() []QueueFamily
	Features() *core1_0.PhysicalDeviceFeatures
	Extensions() (map[string]struct{}, error)
	CreateDevice(info core1_0.DeviceCreateInfo) (Device, error)
}

type SurfaceHandle interface {
	SupportsPresent(device PhysicalDevice, queueFamily int) (bool, error)
	Capabilities(device PhysicalDevice) (*khr_surface.SurfaceCapabilities, error)
	Formats(device PhysicalDevice) ([]khr_surface.SurfaceFormat, error)
	PresentModes(device PhysicalDevice) ([]khr_surface.PresentMode, error)
	Destroy()
}

type Device interface {
	Queue(queueFamily int) Queue
	// CreateSwapchain creates a chain on surface. info.Surface is ignored.
	CreateSwapchain(surface SurfaceHandle, info khr_swapchain.SwapchainCreateInfo) (SwapchainHandle, error)
	// CreateImageView creates a view of image. info.Image is ignored.
	CreateImageView(image Image, info core1_0.ImageViewCreateInfo) (ImageView, error)
	CreateCommandPool(info core1_0.CommandPoolCreateInfo) (CommandPool, error)
	CreateSemaphore() (Semaphore, error)
	WaitIdle() error
	Destroy()
}

type SwapchainHandle interface {
	Images() ([]Image, error)
	Destroy()
}

type ImageView interface {
	Destroy()
}

type CommandPool interface {
	AllocatePrimary(count int) ([]CommandBuffer, error)
	// Destroy frees the pool and every buffer allocated from it.
	Destroy()
}

type Semaphore interface {
	Destroy()
}

// Image is a presentable image. Images belong to their swapchain and are
// never destroyed on their own.
type Image any

type Queue any

type CommandBuffer any
