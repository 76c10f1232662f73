package render

import (
	"github.com/vkngwrapper/extensions/v3/khr_portability_enumeration"
)

type ConnectOptions struct {
	ApplicationName string

	// Layers and Extensions are requested on top of whatever the window
	// needs. All of them must be available.
	Layers     []string
	Extensions []string

	// Messenger is chained into instance creation when set.
	Messenger *MessengerInfo
}

// Connection is an instance on the graphics driver.
type Connection struct {
	instance Instance

	Layers     []string
	Extensions []string
}

// Connect creates the instance. The window's required extensions come
// first, followed by opts.Extensions; every name and every layer is
// checked against what the loader reports before anything is created.
func Connect(loader Loader, window Window, opts ConnectOptions) (*Connection, error) {
	available, err := loader.AvailableExtensions()
	if err != nil {
		return nil, Fail(ErrDriverUnavailable, "enumerate instance extensions", err)
	}

	var extensions []string
	for _, ext := range appendUnique(window.VulkanGetInstanceExtensions(), opts.Extensions...) {
		if _, ok := available[ext]; !ok {
			return nil, failf(ErrLayerOrExtensionUnsupported, "connect: missing instance extension %s", ext)
		}
		extensions = append(extensions, ext)
	}

	_, portability := available[khr_portability_enumeration.ExtensionName]
	if portability {
		extensions = appendUnique(extensions, khr_portability_enumeration.ExtensionName)
	}

	var layers []string
	if len(opts.Layers) > 0 {
		availableLayers, err := loader.AvailableLayers()
		if err != nil {
			return nil, Fail(ErrDriverUnavailable, "enumerate instance layers", err)
		}
		for _, layer := range appendUnique(nil, opts.Layers...) {
			if _, ok := availableLayers[layer]; !ok {
				return nil, failf(ErrLayerOrExtensionUnsupported, "connect: layer %s not available- install the Vulkan SDK", layer)
			}
			layers = append(layers, layer)
		}
	}

	instance, err := loader.CreateInstance(InstanceInfo{
		ApplicationName: opts.ApplicationName,
		Layers:          layers,
		Extensions:      extensions,
		Portability:     portability,
		Messenger:       opts.Messenger,
	})
	if err != nil {
		return nil, Fail(ErrDriverUnavailable, "create instance", err)
	}

	return &Connection{
		instance:   instance,
		Layers:     layers,
		Extensions: extensions,
	}, nil
}

func (c *Connection) Destroy() {
	if c == nil || c.instance == nil {
		return
	}
	c.instance.Destroy()
	c.instance = nil
}

func appendUnique(list []string, names ...string) []string {
	seen := make(map[string]struct{}, len(list)+len(names))
	out := make([]string, 0, len(list)+len(names))
	for _, name := range append(append([]string(nil), list...), names...) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
