package render

import (
	"github.com/google/uuid"
	"github.com/loov/hrtime"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// ValidationLayer is loaded when validation is enabled.
const ValidationLayer = "VK_LAYER_KHRONOS_validation"

const DefaultFramesInFlight = 2

type Options struct {
	ApplicationName string

	// Validation loads the validation layer and attaches a diagnostics
	// messenger routed to Logger.
	Validation bool
	Severities Severity
	Categories Category

	Layers           []string
	Extensions       []string
	DeviceExtensions []string

	FramesInFlight       int
	PreferredFormat      khr_surface.SurfaceFormat
	PreferredPresentMode khr_surface.PresentMode
	Width, Height        int

	Logger logrus.FieldLogger
}

func DefaultOptions() Options {
	return Options{
		ApplicationName: "Hello, Vulkan",
		Validation:      true,
		Severities:      AllSeverities,
		Categories:      AllCategories,
		FramesInFlight:  DefaultFramesInFlight,
		PreferredFormat: khr_surface.SurfaceFormat{
			Format:     core1_0.FormatB8G8R8A8UnsignedNormalized,
			ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
		},
		PreferredPresentMode: khr_surface.PresentModeMailbox,
		Width:                800,
		Height:               600,
	}
}

// Context owns everything from the instance down to the frame pool. It is
// built and destroyed on the thread that pumps window events.
type Context struct {
	ID uuid.UUID

	Connection     *Connection
	Diagnostics    *Diagnostics
	Surface        *Surface
	PhysicalDevice PhysicalDevice
	QueueFamilies  QueueFamilyIndices
	Device         *LogicalDevice
	SwapChain      *SwapChain
	Frames         *FramePool

	log     *logrus.Entry
	release releaseStack
}

// NewContext builds a Context. If any step fails, everything created up to
// that point is released, newest first, before the error is returned.
func NewContext(loader Loader, window Window, opts Options) (_ *Context, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	ctx := &Context{ID: uuid.New()}
	ctx.log = logger.WithField("context", ctx.ID.String())

	defer func() {
		if err != nil {
			ctx.log.WithError(err).Error("context construction failed, releasing partial state")
			ctx.release.unwind(ctx.log)
		}
	}()

	connectOptions := ConnectOptions{
		ApplicationName: opts.ApplicationName,
		Layers:          opts.Layers,
		Extensions:      opts.Extensions,
	}
	var diagnostics MessengerInfo
	if opts.Validation {
		diagnostics = ForwardTo(ctx.log, opts.Severities, opts.Categories)
		connectOptions.Layers = appendUnique([]string{ValidationLayer}, opts.Layers...)
		connectOptions.Extensions = appendUnique(opts.Extensions, ext_debug_utils.ExtensionName)
		connectOptions.Messenger = &diagnostics
	}

	err = ctx.stage("instance", func() (err error) {
		ctx.Connection, err = Connect(loader, window, connectOptions)
		if err == nil {
			ctx.release.push("instance", ctx.Connection.Destroy)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if opts.Validation {
		err = ctx.stage("diagnostics", func() (err error) {
			ctx.Diagnostics, err = AttachDiagnostics(ctx.Connection, opts.Severities, opts.Categories, ctx.log)
			if err == nil {
				ctx.release.push("debug messenger", ctx.Diagnostics.Destroy)
			}
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	err = ctx.stage("surface", func() (err error) {
		ctx.Surface, err = CreateSurface(ctx.Connection, window)
		if err == nil {
			ctx.release.push("surface", ctx.Surface.Destroy)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = ctx.stage("device selection", func() (err error) {
		ctx.PhysicalDevice, ctx.QueueFamilies, err = SelectDevice(ctx.Connection, ctx.Surface)
		return err
	})
	if err != nil {
		return nil, err
	}
	ctx.log.WithFields(logrus.Fields{
		"graphics_family": *ctx.QueueFamilies.GraphicsFamily,
		"present_family":  *ctx.QueueFamilies.PresentFamily,
	}).Info("selected physical device")

	err = ctx.stage("logical device", func() (err error) {
		ctx.Device, err = CreateLogicalDevice(ctx.PhysicalDevice, ctx.QueueFamilies, opts.DeviceExtensions)
		if err == nil {
			ctx.release.push("logical device", ctx.Device.Destroy)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	err = ctx.stage("swapchain", func() (err error) {
		ctx.SwapChain, err = CreateSwapChain(ctx.Device, ctx.PhysicalDevice, ctx.Surface, ctx.QueueFamilies, SwapChainPreferences{
			Format:      opts.PreferredFormat,
			PresentMode: opts.PreferredPresentMode,
			Width:       opts.Width,
			Height:      opts.Height,
		})
		if err == nil {
			ctx.release.push("swapchain", ctx.SwapChain.Destroy)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	ctx.log.WithFields(logrus.Fields{
		"format":       ctx.SwapChain.Format.Format,
		"color_space":  ctx.SwapChain.Format.ColorSpace,
		"present_mode": ctx.SwapChain.PresentMode,
		"extent":       ctx.SwapChain.Extent,
		"images":       len(ctx.SwapChain.Images),
	}).Info("created swapchain")

	err = ctx.stage("frame pool", func() (err error) {
		ctx.Frames, err = CreateFramePool(ctx.Device, *ctx.QueueFamilies.GraphicsFamily, opts.FramesInFlight)
		if err == nil {
			ctx.release.push("frame pool", ctx.Frames.Destroy)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return ctx, nil
}

func (c *Context) stage(name string, fn func() error) error {
	start := hrtime.Now()
	err := fn()
	c.log.WithFields(logrus.Fields{
		"stage":   name,
		"elapsed": hrtime.Since(start),
	}).Debug("stage finished")
	return err
}

// Destroy waits for the device to go idle and releases everything in
// reverse creation order. Calling it again does nothing.
func (c *Context) Destroy() {
	if c == nil || c.release.len() == 0 {
		return
	}

	if c.Device != nil && c.Device.device != nil {
		if err := c.Device.WaitIdle(); err != nil {
			c.log.WithError(err).Warn("device did not go idle before teardown")
		}
	}

	c.release.unwind(c.log)
	c.Frames = nil
	c.SwapChain = nil
	c.Device = nil
	c.PhysicalDevice = nil
	c.Surface = nil
	c.Diagnostics = nil
	c.Connection = nil
	c.log.Info("context destroyed")
}
