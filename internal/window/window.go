// Package window owns the SDL window the rendering context presents to.
package window

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"
)

// Window is an SDL window created for Vulkan. Every method must be called
// from the thread that opened it.
type Window struct {
	window     *sdl.Window
	log        logrus.FieldLogger
	fullscreen bool
}

// Open initializes SDL video and shows a Vulkan-capable window.
func Open(title string, width, height int, log logrus.FieldLogger) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "sdl init")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		int32(width), int32(height), sdl.WINDOW_SHOWN|sdl.WINDOW_VULKAN)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "create window")
	}

	return &Window{window: window, log: log}, nil
}

func (w *Window) SDLWindow() *sdl.Window {
	return w.window
}

func (w *Window) VulkanGetInstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// ProcAddr is the loader entry point SDL found for this process.
func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

type action int

const (
	actionNone action = iota
	actionQuit
	actionToggleFullscreen
	actionRedraw
)

func actionFor(event sdl.Event) action {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return actionQuit
	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return actionNone
		}
		switch e.Keysym.Sym {
		case sdl.K_ESCAPE:
			return actionQuit
		case sdl.K_F11:
			return actionToggleFullscreen
		}
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return actionQuit
		case sdl.WINDOWEVENT_EXPOSED:
			return actionRedraw
		}
	}
	return actionNone
}

// Run pumps events until the window is closed or Escape is pressed. F11
// toggles borderless fullscreen. onRedraw, if set, runs whenever the
// window needs repainting.
func (w *Window) Run(onRedraw func()) error {
	for {
		event := sdl.WaitEvent()
		if event == nil {
			return errors.Newf("wait event: %v", sdl.GetError())
		}

		switch actionFor(event) {
		case actionQuit:
			w.log.Info("window closed")
			return nil
		case actionToggleFullscreen:
			if err := w.toggleFullscreen(); err != nil {
				w.log.WithError(err).Warn("could not toggle fullscreen")
			}
		case actionRedraw:
			if onRedraw != nil {
				onRedraw()
			}
		}
	}
}

func (w *Window) toggleFullscreen() error {
	var flags uint32
	if !w.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.window.SetFullscreen(flags); err != nil {
		return err
	}
	w.fullscreen = !w.fullscreen
	w.log.WithField("fullscreen", w.fullscreen).Debug("toggled fullscreen")
	return nil
}

// Destroy closes the window and shuts SDL down.
func (w *Window) Destroy() {
	if w == nil || w.window == nil {
		return
	}
	if err := w.window.Destroy(); err != nil {
		w.log.WithError(err).Warn("destroy window")
	}
	w.window = nil
	sdl.Quit()
}
