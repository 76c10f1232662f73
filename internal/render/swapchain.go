package render

import (
	"math"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// SwapChainSupport is what a device+surface pair offered when it was
// queried. A recreated chain needs a fresh snapshot.
type SwapChainSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

func QuerySwapChainSupport(device PhysicalDevice, surface *Surface) (*SwapChainSupport, error) {
	var details SwapChainSupport
	var err error

	details.Capabilities, err = surface.handle.Capabilities(device)
	if err != nil {
		return nil, Fail(ErrSurfaceQueryFailed, "query surface capabilities", err)
	}

	details.Formats, err = surface.handle.Formats(device)
	if err != nil {
		return nil, Fail(ErrSurfaceQueryFailed, "query surface formats", err)
	}
	if len(details.Formats) == 0 {
		return nil, failf(ErrSurfaceQueryFailed, "query surface formats: surface reports none")
	}

	details.PresentModes, err = surface.handle.PresentModes(device)
	if err != nil {
		return nil, Fail(ErrSurfaceQueryFailed, "query surface present modes", err)
	}

	return &details, nil
}

// ChooseSurfaceFormat returns preferred if the surface supports it and the
// first reported format otherwise.
func (s *SwapChainSupport) ChooseSurfaceFormat(preferred khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range s.Formats {
		if format == preferred {
			return format
		}
	}
	if len(s.Formats) == 0 {
		return preferred
	}
	return s.Formats[0]
}

// ChoosePresentMode returns preferred if supported, otherwise FIFO, which
// every presenting driver must support.
func (s *SwapChainSupport) ChoosePresentMode(preferred khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range s.PresentModes {
		if presentMode == preferred {
			return presentMode
		}
	}
	return khr_surface.PresentModeFIFO
}

// ChooseExtent uses the surface's current extent unless the surface leaves
// sizing to the caller, in which case width and height are clamped to the
// supported range independently.
func (s *SwapChainSupport) ChooseExtent(width, height int) core1_0.Extent2D {
	capabilities := s.Capabilities
	if !callerDefinedExtent(capabilities.CurrentExtent) {
		return capabilities.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(width, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(height, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

// ImageCount is one more than the surface minimum. It is not capped
// against the maximum.
func (s *SwapChainSupport) ImageCount() int {
	return s.Capabilities.MinImageCount + 1
}

// The driver signals caller-defined sizing with 0xFFFFFFFF, which
// arrives as -1 once converted to int.
func callerDefinedExtent(extent core1_0.Extent2D) bool {
	return extent.Width < 0 || uint64(extent.Width) == math.MaxUint32
}

func clamp(v, lo, hi int) int {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

type SwapChainPreferences struct {
	Format        khr_surface.SurfaceFormat
	PresentMode   khr_surface.PresentMode
	Width, Height int
}

// SwapChain owns the chain and one view per image; ImageViews[i] views
// Images[i].
type SwapChain struct {
	handle SwapchainHandle
	views  []ImageView

	Support     *SwapChainSupport
	Format      khr_surface.SurfaceFormat
	PresentMode khr_surface.PresentMode
	Extent      core1_0.Extent2D
	Images      []Image
	ImageViews  []ImageView
}

// CreateSwapChain negotiates against the surface and creates the chain
// and its image views. Nothing is left behind on failure.
func CreateSwapChain(dev *LogicalDevice, physicalDevice PhysicalDevice, surface *Surface, indices QueueFamilyIndices, prefs SwapChainPreferences) (*SwapChain, error) {
	support, err := QuerySwapChainSupport(physicalDevice, surface)
	if err != nil {
		return nil, err
	}

	surfaceFormat := support.ChooseSurfaceFormat(prefs.Format)
	presentMode := support.ChoosePresentMode(prefs.PresentMode)
	extent := support.ChooseExtent(prefs.Width, prefs.Height)

	sharingMode := core1_0.SharingModeExclusive
	var queueFamilyIndices []int
	if !indices.Shared() {
		sharingMode = core1_0.SharingModeConcurrent
		queueFamilyIndices = indices.Unique()
	}

	handle, err := dev.device.CreateSwapchain(surface.handle, khr_swapchain.SwapchainCreateInfo{
		MinImageCount:    support.ImageCount(),
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   support.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	})
	if err != nil {
		return nil, Fail(ErrSwapChainCreationFailed, "create swapchain", err)
	}

	chain := &SwapChain{
		handle:      handle,
		Support:     support,
		Format:      surfaceFormat,
		PresentMode: presentMode,
		Extent:      extent,
	}

	chain.Images, err = handle.Images()
	if err != nil {
		chain.Destroy()
		return nil, Fail(ErrSwapChainCreationFailed, "get swapchain images", err)
	}

	for _, image := range chain.Images {
		view, err := dev.device.CreateImageView(image, colorViewInfo(surfaceFormat.Format))
		if err != nil {
			chain.Destroy()
			return nil, Fail(ErrSwapChainCreationFailed, "create swapchain image view", err)
		}
		chain.views = append(chain.views, view)
	}
	chain.ImageViews = chain.views

	return chain, nil
}

// The zero ComponentMapping is the identity swizzle.
func colorViewInfo(format core1_0.Format) core1_0.ImageViewCreateInfo {
	return core1_0.ImageViewCreateInfo{
		ViewType: core1_0.ImageViewType2D,
		Format:   format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask:     core1_0.ImageAspectColor,
			BaseMipLevel:   0,
			LevelCount:     1,
			BaseArrayLayer: 0,
			LayerCount:     1,
		},
	}
}

// Destroy releases the views, then the chain. The images go with the
// chain.
func (s *SwapChain) Destroy() {
	if s == nil {
		return
	}
	for i := len(s.views) - 1; i >= 0; i-- {
		s.views[i].Destroy()
	}
	s.views = nil
	s.ImageViews = nil
	s.Images = nil

	if s.handle != nil {
		s.handle.Destroy()
		s.handle = nil
	}
}
