package render

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_subset"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// DynamicRenderingExtension is requested when the feature set needs
// dynamic rendering.
const DynamicRenderingExtension = "VK_KHR_dynamic_rendering"

// DeviceExtensions are always enabled on the logical device.
var DeviceExtensions = []string{khr_swapchain.ExtensionName}

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// Shared reports whether graphics and presentation use the same family.
func (i QueueFamilyIndices) Shared() bool {
	return i.IsComplete() && *i.GraphicsFamily == *i.PresentFamily
}

// Unique lists the resolved families without duplicates, graphics first.
func (i QueueFamilyIndices) Unique() []int {
	var families []int
	if i.GraphicsFamily != nil {
		families = append(families, *i.GraphicsFamily)
	}
	if i.PresentFamily != nil && (i.GraphicsFamily == nil || *i.PresentFamily != *i.GraphicsFamily) {
		families = append(families, *i.PresentFamily)
	}
	return families
}

// FindQueueFamilies records, in enumeration order, the first family with
// graphics capability and at least one queue, and the first family that
// can present to surface. The two may or may not be the same index.
func FindQueueFamilies(device PhysicalDevice, surface *Surface) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}

	for queueFamilyIdx, queueFamily := range device.QueueFamilies() {
		if indices.GraphicsFamily == nil && queueFamily.QueueCount > 0 && (queueFamily.Flags&core1_0.QueueGraphics) != 0 {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = queueFamilyIdx
		}

		if indices.PresentFamily == nil {
			supported, err := surface.handle.SupportsPresent(device, queueFamilyIdx)
			if err != nil {
				return indices, Fail(ErrSurfaceQueryFailed, "query surface support", err)
			}
			if supported {
				indices.PresentFamily = new(int)
				*indices.PresentFamily = queueFamilyIdx
			}
		}

		if indices.IsComplete() {
			break
		}
	}

	return indices, nil
}

// SelectDevice picks the first enumerated physical device and resolves its
// graphics and present families. There is no scoring between devices.
func SelectDevice(conn *Connection, surface *Surface) (PhysicalDevice, QueueFamilyIndices, error) {
	physicalDevices, err := conn.instance.PhysicalDevices()
	if err != nil {
		return nil, QueueFamilyIndices{}, Fail(ErrNoDeviceFound, "enumerate physical devices", err)
	}
	if len(physicalDevices) == 0 {
		return nil, QueueFamilyIndices{}, Fail(ErrNoDeviceFound, "select device", nil)
	}

	device := physicalDevices[0]
	indices, err := FindQueueFamilies(device, surface)
	if err != nil {
		return nil, indices, err
	}
	if !indices.IsComplete() {
		return nil, indices, failf(ErrIncompleteQueueFamilies, "select device: graphics resolved %t, present resolved %t",
			indices.GraphicsFamily != nil, indices.PresentFamily != nil)
	}

	return device, indices, nil
}

// LogicalDevice is the created device plus its queues. GraphicsQueue and
// PresentQueue are the same handle when the families are shared.
type LogicalDevice struct {
	device Device

	Extensions    []string
	GraphicsQueue Queue
	PresentQueue  Queue
}

// CreateLogicalDevice creates one queue at priority 1.0 per distinct
// family and enables every feature the physical device reports.
func CreateLogicalDevice(physicalDevice PhysicalDevice, indices QueueFamilyIndices, extensions []string) (*LogicalDevice, error) {
	if !indices.IsComplete() {
		return nil, Fail(ErrIncompleteQueueFamilies, "create logical device", nil)
	}

	available, err := physicalDevice.Extensions()
	if err != nil {
		return nil, Fail(ErrDeviceCreationFailed, "enumerate device extensions", err)
	}

	extensionNames := appendUnique(DeviceExtensions, extensions...)
	for _, ext := range extensionNames {
		if _, ok := available[ext]; !ok {
			return nil, failf(ErrDeviceCreationFailed, "create logical device: missing device extension %s", ext)
		}
	}

	// Required under the portability subset, mac and mobile in practice
	if _, ok := available[khr_portability_subset.ExtensionName]; ok {
		extensionNames = appendUnique(extensionNames, khr_portability_subset.ExtensionName)
	}

	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range indices.Unique() {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	device, err := physicalDevice.CreateDevice(core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       physicalDevice.Features(),
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return nil, Fail(ErrDeviceCreationFailed, "create logical device", err)
	}

	logical := &LogicalDevice{
		device:        device,
		Extensions:    extensionNames,
		GraphicsQueue: device.Queue(*indices.GraphicsFamily),
	}
	if indices.Shared() {
		logical.PresentQueue = logical.GraphicsQueue
	} else {
		logical.PresentQueue = device.Queue(*indices.PresentFamily)
	}
	return logical, nil
}

func (d *LogicalDevice) WaitIdle() error {
	return d.device.WaitIdle()
}

func (d *LogicalDevice) Destroy() {
	if d == nil || d.device == nil {
		return
	}
	d.device.Destroy()
	d.device = nil
}
