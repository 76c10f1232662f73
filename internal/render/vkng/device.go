package vkng

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/vkngwrapper/vkcore/internal/render"
)

type device struct {
	driver             core1_0.CoreDeviceDriver
	swapchainExtension khr_swapchain.ExtensionDriver
}

func (d *device) Queue(queueFamily int) render.Queue {
	return d.driver.GetQueue(queueFamily, 0)
}

func (d *device) CreateSwapchain(s render.SurfaceHandle, info khr_swapchain.SwapchainCreateInfo) (render.SwapchainHandle, error) {
	target, ok := s.(*surface)
	if !ok {
		return nil, errors.Newf("create swapchain: unsupported surface %T", s)
	}
	info.Surface = target.handle

	handle, _, err := d.swapchainExtension.CreateSwapchain(nil, info)
	if err != nil {
		return nil, err
	}

	return &swapchain{device: d, handle: handle}, nil
}

func (d *device) CreateImageView(image render.Image, info core1_0.ImageViewCreateInfo) (render.ImageView, error) {
	handle, ok := image.(core1_0.Image)
	if !ok {
		return nil, errors.Newf("create image view: unsupported image %T", image)
	}
	info.Image = handle

	view, _, err := d.driver.CreateImageView(nil, info)
	if err != nil {
		return nil, err
	}

	return &imageView{device: d, handle: view}, nil
}

func (d *device) CreateCommandPool(info core1_0.CommandPoolCreateInfo) (render.CommandPool, error) {
	pool, _, err := d.driver.CreateCommandPool(nil, info)
	if err != nil {
		return nil, err
	}

	return &commandPool{device: d, handle: pool}, nil
}

func (d *device) CreateSemaphore() (render.Semaphore, error) {
	handle, _, err := d.driver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	if err != nil {
		return nil, err
	}

	return &semaphore{device: d, handle: handle}, nil
}

func (d *device) WaitIdle() error {
	_, err := d.driver.DeviceWaitIdle()
	return err
}

func (d *device) Destroy() {
	d.driver.DestroyDevice(nil)
}

type swapchain struct {
	device *device
	handle khr_swapchain.Swapchain
}

func (s *swapchain) Images() ([]render.Image, error) {
	images, _, err := s.device.swapchainExtension.GetSwapchainImages(s.handle)
	if err != nil {
		return nil, err
	}

	out := make([]render.Image, 0, len(images))
	for _, image := range images {
		out = append(out, image)
	}
	return out, nil
}

func (s *swapchain) Destroy() {
	s.device.swapchainExtension.DestroySwapchain(s.handle, nil)
}

type imageView struct {
	device *device
	handle core1_0.ImageView
}

func (v *imageView) Destroy() {
	v.device.driver.DestroyImageView(v.handle, nil)
}

type commandPool struct {
	device  *device
	handle  core1_0.CommandPool
	buffers []core1_0.CommandBuffer
}

func (p *commandPool) AllocatePrimary(count int) ([]render.CommandBuffer, error) {
	buffers, _, err := p.device.driver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        p.handle,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return nil, err
	}
	p.buffers = append(p.buffers, buffers...)

	out := make([]render.CommandBuffer, 0, len(buffers))
	for _, buffer := range buffers {
		out = append(out, buffer)
	}
	return out, nil
}

func (p *commandPool) Destroy() {
	if len(p.buffers) > 0 {
		p.device.driver.FreeCommandBuffers(p.buffers...)
		p.buffers = nil
	}
	p.device.driver.DestroyCommandPool(p.handle, nil)
}

type semaphore struct {
	device *device
	handle core1_0.Semaphore
}

func (s *semaphore) Destroy() {
	s.device.driver.DestroySemaphore(s.handle, nil)
}
