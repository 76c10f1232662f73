// Package config resolves runtime settings. Later layers win: defaults,
// a .env file in the working directory, the -env-file file, the
// environment, then command-line flags.
//
// envy copies the working-directory .env into the process environment
// when it loads. An environment value equal to the one in that file is
// therefore taken as coming from the file, not from the environment.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"

	"github.com/vkngwrapper/vkcore/internal/render"
)

type Config struct {
	Title string

	Validation       bool
	FramesInFlight   int
	SurfaceFormat    string
	PresentMode      string
	Width, Height    int
	DynamicRendering bool

	LogLevel  string
	LogFormat string
}

func Default() Config {
	return Config{
		Title:            "Hello, Vulkan",
		Validation:       true,
		FramesInFlight:   render.DefaultFramesInFlight,
		SurfaceFormat:    "B8G8R8A8_UNORM",
		PresentMode:      "mailbox",
		Width:            800,
		Height:           600,
		DynamicRendering: true,
		LogLevel:         "info",
		LogFormat:        "text",
	}
}

// Surface formats selectable by name. All use the SRGB nonlinear color
// space.
var formats = map[string]core1_0.Format{
	"B8G8R8A8_UNORM": core1_0.FormatB8G8R8A8UnsignedNormalized,
	"B8G8R8A8_SRGB":  core1_0.FormatB8G8R8A8SRGB,
	"R8G8B8A8_UNORM": core1_0.FormatR8G8B8A8UnsignedNormalized,
	"R8G8B8A8_SRGB":  core1_0.FormatR8G8B8A8SRGB,
}

var presentModes = map[string]khr_surface.PresentMode{
	"immediate":    khr_surface.PresentModeImmediate,
	"mailbox":      khr_surface.PresentModeMailbox,
	"fifo":         khr_surface.PresentModeFIFO,
	"fifo_relaxed": khr_surface.PresentModeFIFORelaxed,
}

// defaultEnvFile is the file envy loads on its own.
const defaultEnvFile = ".env"

type setting struct {
	flag   string
	env    string
	usage  string
	isBool bool
	apply  func(c *Config, v string) error
}

var settings = []setting{
	{"title", "VKCORE_TITLE", "window and application title", false, func(c *Config, v string) error {
		c.Title = v
		return nil
	}},
	{"validation", "VKCORE_VALIDATION", "load validation layers and route driver diagnostics to the log", true, func(c *Config, v string) (err error) {
		c.Validation, err = strconv.ParseBool(v)
		return err
	}},
	{"frames", "VKCORE_FRAMES_IN_FLIGHT", "frames in flight", false, func(c *Config, v string) (err error) {
		c.FramesInFlight, err = strconv.Atoi(v)
		return err
	}},
	{"format", "VKCORE_SURFACE_FORMAT", "preferred surface format (B8G8R8A8_UNORM, B8G8R8A8_SRGB, R8G8B8A8_UNORM, R8G8B8A8_SRGB)", false, func(c *Config, v string) error {
		c.SurfaceFormat = strings.ToUpper(v)
		return nil
	}},
	{"present-mode", "VKCORE_PRESENT_MODE", "preferred present mode (immediate, mailbox, fifo, fifo_relaxed)", false, func(c *Config, v string) error {
		c.PresentMode = strings.ToLower(v)
		return nil
	}},
	{"width", "VKCORE_WIDTH", "window width", false, func(c *Config, v string) (err error) {
		c.Width, err = strconv.Atoi(v)
		return err
	}},
	{"height", "VKCORE_HEIGHT", "window height", false, func(c *Config, v string) (err error) {
		c.Height, err = strconv.Atoi(v)
		return err
	}},
	{"dynamic-rendering", "VKCORE_DYNAMIC_RENDERING", "require the dynamic rendering device extension", true, func(c *Config, v string) (err error) {
		c.DynamicRendering, err = strconv.ParseBool(v)
		return err
	}},
	{"log-level", "VKCORE_LOG_LEVEL", "log level (trace, debug, info, warn, error)", false, func(c *Config, v string) error {
		c.LogLevel = strings.ToLower(v)
		return nil
	}},
	{"log-format", "VKCORE_LOG_FORMAT", "log format (text, json)", false, func(c *Config, v string) error {
		c.LogFormat = strings.ToLower(v)
		return nil
	}},
}

// flagValue records a flag's raw text so it can be applied after the
// environment.
type flagValue struct {
	setting *setting
	values  map[string]string
}

func (f *flagValue) String() string {
	return ""
}

func (f *flagValue) Set(v string) error {
	if err := f.setting.apply(&Config{}, v); err != nil {
		return err
	}
	f.values[f.setting.flag] = v
	return nil
}

func (f *flagValue) IsBoolFlag() bool {
	return f.setting != nil && f.setting.isBool
}

// Load resolves the configuration for args (without the program name).
func Load(args []string) (Config, error) {
	flags := flag.NewFlagSet("vkcore", flag.ContinueOnError)
	envFile := flags.String("env-file", "", "dotenv file read before the environment")

	explicit := map[string]string{}
	for i := range settings {
		flags.Var(&flagValue{setting: &settings[i], values: explicit}, settings[i].flag, settings[i].usage)
	}
	if err := flags.Parse(args); err != nil {
		return Config{}, errors.Wrap(err, "parse flags")
	}

	implicit, err := godotenv.Read(defaultEnvFile)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "read %s", defaultEnvFile)
	}

	var fromFile map[string]string
	if *envFile != "" {
		fromFile, err = godotenv.Read(*envFile)
		if err != nil {
			return Config{}, errors.Wrapf(err, "read env file %s", *envFile)
		}
	}

	envy.Reload()

	cfg := Default()
	for _, s := range settings {
		fileValue, fromImplicit := implicit[s.env]
		if fromImplicit && fileValue != "" {
			if err := s.apply(&cfg, fileValue); err != nil {
				return Config{}, errors.Wrapf(err, "%s in %s", s.env, defaultEnvFile)
			}
		}
		if v, ok := fromFile[s.env]; ok && v != "" {
			if err := s.apply(&cfg, v); err != nil {
				return Config{}, errors.Wrapf(err, "%s in %s", s.env, *envFile)
			}
		}
		if v := envy.Get(s.env, ""); v != "" && !(fromImplicit && v == fileValue) {
			if err := s.apply(&cfg, v); err != nil {
				return Config{}, errors.Wrapf(err, "environment %s", s.env)
			}
		}
		if v, ok := explicit[s.flag]; ok {
			if err := s.apply(&cfg, v); err != nil {
				return Config{}, errors.Wrapf(err, "flag -%s", s.flag)
			}
		}
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.FramesInFlight < 1 {
		return errors.Newf("frames in flight must be at least 1, got %d", c.FramesInFlight)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Newf("window size must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, ok := formats[c.SurfaceFormat]; !ok {
		return errors.Newf("unknown surface format %q", c.SurfaceFormat)
	}
	if _, ok := presentModes[c.PresentMode]; !ok {
		return errors.Newf("unknown present mode %q", c.PresentMode)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log level")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.Newf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// Options converts a validated Config into context options logging to
// logger.
func (c Config) Options(logger logrus.FieldLogger) render.Options {
	opts := render.DefaultOptions()
	opts.ApplicationName = c.Title
	opts.Validation = c.Validation
	opts.FramesInFlight = c.FramesInFlight
	opts.PreferredFormat = khr_surface.SurfaceFormat{
		Format:     formats[c.SurfaceFormat],
		ColorSpace: khr_surface.ColorSpaceSRGBNonlinear,
	}
	opts.PreferredPresentMode = presentModes[c.PresentMode]
	opts.Width = c.Width
	opts.Height = c.Height
	if c.DynamicRendering {
		opts.DeviceExtensions = append(opts.DeviceExtensions, render.DynamicRenderingExtension)
	}
	opts.Logger = logger
	return opts
}
