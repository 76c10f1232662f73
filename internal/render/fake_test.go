package render

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/ext_debug_utils"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

const fakeWindowExtension = "VK_KHR_fake_window_surface"

var errInjected = errors.New("injected driver failure")

type fakeWindow struct {
	extensions []string
}

func (w *fakeWindow) VulkanGetInstanceExtensions() []string {
	return w.extensions
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{extensions: []string{"VK_KHR_surface", fakeWindowExtension}}
}

// fakeDriver is an in-memory driver. It records every create and destroy
// in events and can be told to fail the nth call of any operation.
type fakeDriver struct {
	extensions map[string]struct{}
	layers     map[string]struct{}
	devices    []*fakePhysicalDevice

	events []string
	live   map[string]struct{}
	nextID map[string]int

	calls  map[string]int
	failAt map[string]int

	instanceInfo *InstanceInfo
	messenger    *MessengerInfo
	swapchains   []khr_swapchain.SwapchainCreateInfo
	views        []core1_0.ImageViewCreateInfo
	pools        []core1_0.CommandPoolCreateInfo
}

func newFakeDriver() *fakeDriver {
	d := &fakeDriver{
		extensions: set("VK_KHR_surface", fakeWindowExtension, ext_debug_utils.ExtensionName),
		layers:     set(ValidationLayer),
		live:       map[string]struct{}{},
		nextID:     map[string]int{},
		calls:      map[string]int{},
		failAt:     map[string]int{},
	}
	d.devices = []*fakePhysicalDevice{d.newPhysicalDevice(QueueFamily{Flags: core1_0.QueueGraphics, QueueCount: 1})}
	return d
}

func set(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out
}

// failOn makes the nth call (1-based) of op and every later call fail.
func (d *fakeDriver) failOn(op string, n int) {
	d.failAt[op] = n
}

func (d *fakeDriver) call(op string) error {
	d.calls[op]++
	if n, ok := d.failAt[op]; ok && d.calls[op] >= n {
		return errors.Wrapf(errInjected, "%s call %d", op, d.calls[op])
	}
	return nil
}

func (d *fakeDriver) create(kind string) string {
	name := fmt.Sprintf("%s %d", kind, d.nextID[kind])
	d.nextID[kind]++
	d.events = append(d.events, "create "+name)
	d.live[name] = struct{}{}
	return name
}

func (d *fakeDriver) destroy(name string) {
	if _, ok := d.live[name]; !ok {
		panic("double destroy of " + name)
	}
	delete(d.live, name)
	d.events = append(d.events, "destroy "+name)
}

// destroyed lists destroyed object kinds in order, with ids dropped.
func (d *fakeDriver) destroyed() []string {
	var kinds []string
	for _, event := range d.events {
		if !strings.HasPrefix(event, "destroy ") {
			continue
		}
		name := strings.TrimPrefix(event, "destroy ")
		kinds = append(kinds, name[:strings.LastIndex(name, " ")])
	}
	return kinds
}

func (d *fakeDriver) liveCount() int {
	return len(d.live)
}

func (d *fakeDriver) AvailableLayers() (map[string]struct{}, error) {
	if err := d.call("layers"); err != nil {
		return nil, err
	}
	return d.layers, nil
}

func (d *fakeDriver) AvailableExtensions() (map[string]struct{}, error) {
	if err := d.call("extensions"); err != nil {
		return nil, err
	}
	return d.extensions, nil
}

func (d *fakeDriver) CreateInstance(info InstanceInfo) (Instance, error) {
	if err := d.call("instance"); err != nil {
		return nil, err
	}
	d.instanceInfo = &info
	return &fakeInstance{driver: d, name: d.create("instance")}, nil
}

type fakeInstance struct {
	driver *fakeDriver
	name   string
}

func (i *fakeInstance) PhysicalDevices() ([]PhysicalDevice, error) {
	if err := i.driver.call("physical devices"); err != nil {
		return nil, err
	}
	devices := make([]PhysicalDevice, 0, len(i.driver.devices))
	for _, device := range i.driver.devices {
		devices = append(devices, device)
	}
	return devices, nil
}

func (i *fakeInstance) CreateMessenger(info MessengerInfo) (Messenger, error) {
	if err := i.driver.call("messenger"); err != nil {
		return nil, err
	}
	i.driver.messenger = &info
	return &fakeObject{driver: i.driver, name: i.driver.create("messenger")}, nil
}

func (i *fakeInstance) CreateSurface(window Window) (SurfaceHandle, error) {
	if err := i.driver.call("surface"); err != nil {
		return nil, err
	}
	return &fakeSurface{fakeObject{driver: i.driver, name: i.driver.create("surface")}}, nil
}

func (i *fakeInstance) Destroy() {
	i.driver.destroy(i.name)
}

type fakeObject struct {
	driver *fakeDriver
	name   string
}

func (o *fakeObject) Destroy() {
	o.driver.destroy(o.name)
}

type fakePhysicalDevice struct {
	driver *fakeDriver

	families     []QueueFamily
	present      map[int]bool
	extensions   map[string]struct{}
	features     *core1_0.PhysicalDeviceFeatures
	capabilities khr_surface.SurfaceCapabilities
	formats      []khr_surface.SurfaceFormat
	presentModes []khr_surface.PresentMode
	images       int

	created *core1_0.DeviceCreateInfo
}

// newPhysicalDevice reports every family as present-capable and offers a
// 800x600 surface with B8G8R8A8 UNORM and FIFO plus mailbox.
func (d *fakeDriver) newPhysicalDevice(families ...QueueFamily) *fakePhysicalDevice {
	present := map[int]bool{}
	for i := range families {
		present[i] = true
	}
	return &fakePhysicalDevice{
		driver:     d,
		families:   families,
		present:    present,
		extensions: set(khr_swapchain.ExtensionName),
		features:   &core1_0.PhysicalDeviceFeatures{SamplerAnisotropy: true},
		capabilities: khr_surface.SurfaceCapabilities{
			MinImageCount:  2,
			MaxImageCount:  8,
			CurrentExtent:  core1_0.Extent2D{Width: 800, Height: 600},
			MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
			MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
		},
		formats: []khr_surface.SurfaceFormat{
			{Format: core1_0.FormatB8G8R8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear},
		},
		presentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeMailbox},
		images:       3,
	}
}

func (p *fakePhysicalDevice) QueueFamilies() []QueueFamily {
	return p.families
}

func (p *fakePhysicalDevice) Features() *core1_0.PhysicalDeviceFeatures {
	return p.features
}

func (p *fakePhysicalDevice) Extensions() (map[string]struct{}, error) {
	if err := p.driver.call("device extensions"); err != nil {
		return nil, err
	}
	return p.extensions, nil
}

func (p *fakePhysicalDevice) CreateDevice(info core1_0.DeviceCreateInfo) (Device, error) {
	if err := p.driver.call("device"); err != nil {
		return nil, err
	}
	p.created = &info
	return &fakeDevice{fakeObject{driver: p.driver, name: p.driver.create("device")}, p}, nil
}

type fakeSurface struct {
	fakeObject
}

func (s *fakeSurface) SupportsPresent(device PhysicalDevice, queueFamily int) (bool, error) {
	if err := s.driver.call("present support"); err != nil {
		return false, err
	}
	return device.(*fakePhysicalDevice).present[queueFamily], nil
}

func (s *fakeSurface) Capabilities(device PhysicalDevice) (*khr_surface.SurfaceCapabilities, error) {
	if err := s.driver.call("capabilities"); err != nil {
		return nil, err
	}
	capabilities := device.(*fakePhysicalDevice).capabilities
	return &capabilities, nil
}

func (s *fakeSurface) Formats(device PhysicalDevice) ([]khr_surface.SurfaceFormat, error) {
	if err := s.driver.call("formats"); err != nil {
		return nil, err
	}
	return device.(*fakePhysicalDevice).formats, nil
}

func (s *fakeSurface) PresentModes(device PhysicalDevice) ([]khr_surface.PresentMode, error) {
	if err := s.driver.call("present modes"); err != nil {
		return nil, err
	}
	return device.(*fakePhysicalDevice).presentModes, nil
}

type fakeDevice struct {
	fakeObject
	physical *fakePhysicalDevice
}

func (d *fakeDevice) Queue(queueFamily int) Queue {
	return fmt.Sprintf("queue family %d", queueFamily)
}

func (d *fakeDevice) CreateSwapchain(surface SurfaceHandle, info khr_swapchain.SwapchainCreateInfo) (SwapchainHandle, error) {
	if err := d.driver.call("swapchain"); err != nil {
		return nil, err
	}
	d.driver.swapchains = append(d.driver.swapchains, info)
	return &fakeSwapchain{fakeObject{driver: d.driver, name: d.driver.create("swapchain")}, d.physical.images}, nil
}

func (d *fakeDevice) CreateImageView(image Image, info core1_0.ImageViewCreateInfo) (ImageView, error) {
	if err := d.driver.call("view"); err != nil {
		return nil, err
	}
	d.driver.views = append(d.driver.views, info)
	return &fakeObject{driver: d.driver, name: d.driver.create("view")}, nil
}

func (d *fakeDevice) CreateCommandPool(info core1_0.CommandPoolCreateInfo) (CommandPool, error) {
	if err := d.driver.call("command pool"); err != nil {
		return nil, err
	}
	d.driver.pools = append(d.driver.pools, info)
	return &fakeCommandPool{fakeObject{driver: d.driver, name: d.driver.create("command pool")}}, nil
}

func (d *fakeDevice) CreateSemaphore() (Semaphore, error) {
	if err := d.driver.call("semaphore"); err != nil {
		return nil, err
	}
	return &fakeObject{driver: d.driver, name: d.driver.create("semaphore")}, nil
}

func (d *fakeDevice) WaitIdle() error {
	if err := d.driver.call("wait idle"); err != nil {
		return err
	}
	d.driver.events = append(d.driver.events, "wait idle")
	return nil
}

type fakeSwapchain struct {
	fakeObject
	images int
}

func (s *fakeSwapchain) Images() ([]Image, error) {
	if err := s.driver.call("images"); err != nil {
		return nil, err
	}
	images := make([]Image, 0, s.images)
	for i := 0; i < s.images; i++ {
		images = append(images, fmt.Sprintf("%s image %d", s.name, i))
	}
	return images, nil
}

type fakeCommandPool struct {
	fakeObject
}

func (p *fakeCommandPool) AllocatePrimary(count int) ([]CommandBuffer, error) {
	if err := p.driver.call("allocate"); err != nil {
		return nil, err
	}
	buffers := make([]CommandBuffer, 0, count)
	for i := 0; i < count; i++ {
		buffers = append(buffers, fmt.Sprintf("%s buffer %d", p.name, i))
	}
	return buffers, nil
}
