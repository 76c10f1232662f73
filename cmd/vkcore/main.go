package main

import (
	"os"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/vkngwrapper/vkcore/internal/config"
	"github.com/vkngwrapper/vkcore/internal/logging"
	"github.com/vkngwrapper/vkcore/internal/render"
	"github.com/vkngwrapper/vkcore/internal/render/vkng"
	"github.com/vkngwrapper/vkcore/internal/window"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logrus.Fatalf("%+v\n", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatalf("%+v\n", err)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("%+v\n", err)
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	win, err := window.Open(cfg.Title, cfg.Width, cfg.Height, logger)
	if err != nil {
		return err
	}
	defer win.Destroy()

	loader, err := vkng.Open(win.ProcAddr())
	if err != nil {
		return err
	}

	ctx, err := render.NewContext(loader, win, cfg.Options(logger))
	if err != nil {
		return err
	}
	defer ctx.Destroy()

	logger.WithFields(logrus.Fields{
		"context": ctx.ID.String(),
		"frames":  ctx.Frames.Len(),
	}).Info("rendering context ready")

	return win.Run(func() {
		ctx.Frames.Advance()
	})
}
