package vkng

import (
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/vkcore/internal/render"
)

type surface struct {
	driver khr_surface.ExtensionDriver
	handle khr_surface.Surface
}

func (s *surface) SupportsPresent(d render.PhysicalDevice, queueFamily int) (bool, error) {
	supported, _, err := s.driver.GetPhysicalDeviceSurfaceSupport(s.handle, physicalHandle(d), queueFamily)
	return supported, err
}

func (s *surface) Capabilities(d render.PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	capabilities, _, err := s.driver.GetPhysicalDeviceSurfaceCapabilities(s.handle, physicalHandle(d))
	return capabilities, err
}

func (s *surface) Formats(d render.PhysicalDevice) ([]khr_surface.SurfaceFormat, error) {
	formats, _, err := s.driver.GetPhysicalDeviceSurfaceFormats(s.handle, physicalHandle(d))
	return formats, err
}

func (s *surface) PresentModes(d render.PhysicalDevice) ([]khr_surface.PresentMode, error) {
	modes, _, err := s.driver.GetPhysicalDeviceSurfacePresentModes(s.handle, physicalHandle(d))
	return modes, err
}

func (s *surface) Destroy() {
	s.driver.DestroySurface(s.handle, nil)
}
