package vkng

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/vkcore/internal/render"
)

type physicalDevice struct {
	instance *instance
	handle   core1_0.PhysicalDevice
}

func (p *physicalDevice) QueueFamilies() []render.QueueFamily {
	properties := p.instance.driver.GetPhysicalDeviceQueueFamilyProperties(p.handle)

	families := make([]render.QueueFamily, 0, len(properties))
	for _, family := range properties {
		families = append(families, render.QueueFamily{
			Flags:      family.QueueFlags,
			QueueCount: family.QueueCount,
		})
	}
	return families
}

func (p *physicalDevice) Features() *core1_0.PhysicalDeviceFeatures {
	return p.instance.driver.GetPhysicalDeviceFeatures(p.handle)
}

func (p *physicalDevice) Extensions() (map[string]struct{}, error) {
	extensions, _, err := p.instance.driver.EnumerateDeviceExtensionProperties(p.handle)
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(extensions))
	for name := range extensions {
		names[name] = struct{}{}
	}
	return names, nil
}

func (p *physicalDevice) CreateDevice(info core1_0.DeviceCreateInfo) (render.Device, error) {
	deviceDriver, _, err := p.instance.driver.CreateDevice(p.handle, nil, info)
	if err != nil {
		return nil, err
	}

	return &device{
		driver:             deviceDriver,
		swapchainExtension: khr_swapchain.CreateExtensionDriverFromCoreDriver(deviceDriver),
	}, nil
}

// physicalHandle unwraps a render.PhysicalDevice created by this package.
func physicalHandle(d render.PhysicalDevice) core1_0.PhysicalDevice {
	return d.(*physicalDevice).handle
}
