package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2/v3"

	"github.com/vkngwrapper/vkcore/internal/render"
)

type instance struct {
	driver core1_0.CoreInstanceDriver

	debugDriver      ext_debug_utils.ExtensionDriver
	surfaceExtension khr_surface.ExtensionDriver
}

func (i *instance) PhysicalDevices() ([]render.PhysicalDevice, error) {
	physicalDevices, _, err := i.driver.EnumeratePhysicalDevices()
	if err != nil {
		return nil, err
	}

	devices := make([]render.PhysicalDevice, 0, len(physicalDevices))
	for _, handle := range physicalDevices {
		devices = append(devices, &physicalDevice{instance: i, handle: handle})
	}
	return devices, nil
}

func (i *instance) CreateMessenger(info render.MessengerInfo) (render.Messenger, error) {
	if i.debugDriver == nil {
		i.debugDriver = ext_debug_utils.CreateExtensionDriverFromCoreDriver(i.driver)
	}

	handle, _, err := i.debugDriver.CreateDebugUtilsMessenger(nil, messengerCreateInfo(info))
	if err != nil {
		return nil, err
	}

	return &messenger{driver: i.debugDriver, handle: handle}, nil
}

// SDLWindow is implemented by windows that wrap an SDL window.
type SDLWindow interface {
	SDLWindow() *sdl.Window
}

func (i *instance) CreateSurface(window render.Window) (render.SurfaceHandle, error) {
	var sdlWindow *sdl.Window
	switch w := window.(type) {
	case *sdl.Window:
		sdlWindow = w
	case SDLWindow:
		sdlWindow = w.SDLWindow()
	}
	if sdlWindow == nil {
		return nil, errors.Newf("create surface: unsupported window %T", window)
	}

	if i.surfaceExtension == nil {
		i.surfaceExtension = khr_surface.CreateExtensionDriverFromCoreDriver(i.driver)
	}

	handle, err := vkng_sdl2.CreateSurface(i.driver.Instance(), i.surfaceExtension, sdlWindow)
	if err != nil {
		return nil, err
	}

	return &surface{driver: i.surfaceExtension, handle: handle}, nil
}

func (i *instance) Destroy() {
	i.driver.DestroyInstance(nil)
}

type messenger struct {
	driver ext_debug_utils.ExtensionDriver
	handle ext_debug_utils.DebugUtilsMessenger
}

func (m *messenger) Destroy() {
	m.driver.DestroyDebugUtilsMessenger(m.handle, nil)
}

func messengerCreateInfo(info render.MessengerInfo) ext_debug_utils.DebugUtilsMessengerCreateInfo {
	callback := info.Callback
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: severityFlags(info.Severities),
		MessageType:     typeFlags(info.Categories),
		UserCallback: func(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
			if callback != nil && data != nil {
				callback(render.Message{
					Severity: severityFrom(severity),
					Category: categoryFrom(msgType),
					Text:     data.Message,
				})
			}
			return false
		},
	}
}

var severities = []struct {
	core render.Severity
	ext  ext_debug_utils.DebugUtilsMessageSeverityFlags
}{
	{render.SeverityVerbose, ext_debug_utils.SeverityVerbose},
	{render.SeverityInfo, ext_debug_utils.SeverityInfo},
	{render.SeverityWarning, ext_debug_utils.SeverityWarning},
	{render.SeverityError, ext_debug_utils.SeverityError},
}

var categories = []struct {
	core render.Category
	ext  ext_debug_utils.DebugUtilsMessageTypeFlags
}{
	{render.CategoryGeneral, ext_debug_utils.TypeGeneral},
	{render.CategoryValidation, ext_debug_utils.TypeValidation},
	{render.CategoryPerformance, ext_debug_utils.TypePerformance},
}

func severityFlags(s render.Severity) ext_debug_utils.DebugUtilsMessageSeverityFlags {
	var flags ext_debug_utils.DebugUtilsMessageSeverityFlags
	for _, entry := range severities {
		if s&entry.core != 0 {
			flags |= entry.ext
		}
	}
	return flags
}

// severityFrom leaves unknown bits out; render.LevelFor treats the result
// as a warning.
func severityFrom(flags ext_debug_utils.DebugUtilsMessageSeverityFlags) render.Severity {
	var s render.Severity
	for _, entry := range severities {
		if flags&entry.ext != 0 {
			s |= entry.core
		}
	}
	return s
}

func typeFlags(c render.Category) ext_debug_utils.DebugUtilsMessageTypeFlags {
	var flags ext_debug_utils.DebugUtilsMessageTypeFlags
	for _, entry := range categories {
		if c&entry.core != 0 {
			flags |= entry.ext
		}
	}
	return flags
}

func categoryFrom(flags ext_debug_utils.DebugUtilsMessageTypeFlags) render.Category {
	var c render.Category
	for _, entry := range categories {
		if flags&entry.ext != 0 {
			c |= entry.core
		}
	}
	return c
}
