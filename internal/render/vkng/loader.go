// Package vkng implements the render driver interfaces on vkngwrapper.
package vkng

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"

	"github.com/vkngwrapper/vkcore/internal/render"
)

type loader struct {
	globalDriver core1_0.GlobalDriver
}

// Open loads the driver through a vkGetInstanceProcAddr pointer, usually
// the one the window layer found (sdl.VulkanGetVkGetInstanceProcAddr).
// A nil pointer falls back to the system loader library.
func Open(procAddr unsafe.Pointer) (render.Loader, error) {
	if procAddr == nil {
		return OpenSystem()
	}

	globalDriver, err := core.CreateDriverFromProcAddr(procAddr)
	if err != nil {
		return nil, render.Fail(render.ErrDriverUnavailable, "open driver", err)
	}

	return &loader{globalDriver: globalDriver}, nil
}

// OpenSystem loads the driver from the system's Vulkan loader library.
func OpenSystem() (render.Loader, error) {
	globalDriver, err := core.CreateSystemDriver()
	if err != nil {
		return nil, render.Fail(render.ErrDriverUnavailable, "open system driver", err)
	}

	return &loader{globalDriver: globalDriver}, nil
}

func (l *loader) AvailableLayers() (map[string]struct{}, error) {
	layers, _, err := l.globalDriver.AvailableLayers()
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(layers))
	for name := range layers {
		names[name] = struct{}{}
	}
	return names, nil
}

func (l *loader) AvailableExtensions() (map[string]struct{}, error) {
	extensions, _, err := l.globalDriver.AvailableExtensions()
	if err != nil {
		return nil, err
	}

	names := make(map[string]struct{}, len(extensions))
	for name := range extensions {
		names[name] = struct{}{}
	}
	return names, nil
}

func (l *loader) CreateInstance(info render.InstanceInfo) (render.Instance, error) {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:       info.ApplicationName,
		ApplicationVersion:    common.CreateVersion(1, 0, 0),
		EngineName:            "vkcore",
		EngineVersion:         common.CreateVersion(1, 0, 0),
		APIVersion:            common.Vulkan1_2,
		EnabledLayerNames:     info.Layers,
		EnabledExtensionNames: info.Extensions,
	}

	if info.Portability {
		instanceOptions.Flags |= khr_portability_enumeration.InstanceCreateEnumeratePortability
	}

	if info.Messenger != nil {
		instanceOptions.Next = messengerCreateInfo(*info.Messenger)
	}

	instanceDriver, _, err := l.globalDriver.CreateInstance(nil, instanceOptions)
	if err != nil {
		return nil, errors.Wrap(err, "vkCreateInstance")
	}

	return &instance{driver: instanceDriver}, nil
}
