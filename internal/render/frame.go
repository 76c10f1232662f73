package render

import (
	"github.com/vkngwrapper/core/v3/core1_0"
)

// Frame holds what one in-flight frame records and synchronizes with.
// The pool owns its single command buffer.
type Frame struct {
	CommandPool       CommandPool
	CommandBuffer     CommandBuffer
	ImageAcquired     Semaphore
	RenderingFinished Semaphore
}

func (f *Frame) destroy() {
	if f.RenderingFinished != nil {
		f.RenderingFinished.Destroy()
		f.RenderingFinished = nil
	}
	if f.ImageAcquired != nil {
		f.ImageAcquired.Destroy()
		f.ImageAcquired = nil
	}
	if f.CommandPool != nil {
		f.CommandPool.Destroy()
		f.CommandPool = nil
	}
	f.CommandBuffer = nil
}

// FramePool is a fixed ring of frames, all created up front. Frames are
// picked by counter modulo the pool size and never reallocated.
type FramePool struct {
	frames  []Frame
	counter int
}

// CreateFramePool creates count frames for the graphics family. If any
// frame fails, the frames built so far are destroyed.
func CreateFramePool(dev *LogicalDevice, graphicsFamily int, count int) (*FramePool, error) {
	if count < 1 {
		return nil, failf(ErrFrameResourceAllocationFailed, "create frame pool: need at least one frame, got %d", count)
	}

	pool := &FramePool{frames: make([]Frame, 0, count)}
	for i := 0; i < count; i++ {
		frame, err := createFrame(dev.device, graphicsFamily)
		if err != nil {
			pool.Destroy()
			return nil, err
		}
		pool.frames = append(pool.frames, frame)
	}

	return pool, nil
}

func createFrame(device Device, graphicsFamily int) (frame Frame, err error) {
	defer func() {
		if err != nil {
			frame.destroy()
		}
	}()

	frame.CommandPool, err = device.CreateCommandPool(core1_0.CommandPoolCreateInfo{
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: graphicsFamily,
	})
	if err != nil {
		return frame, Fail(ErrFrameResourceAllocationFailed, "create command pool", err)
	}

	buffers, err := frame.CommandPool.AllocatePrimary(1)
	if err != nil {
		return frame, Fail(ErrFrameResourceAllocationFailed, "allocate command buffer", err)
	}
	if len(buffers) != 1 {
		return frame, failf(ErrFrameResourceAllocationFailed, "allocate command buffer: got %d buffers", len(buffers))
	}
	frame.CommandBuffer = buffers[0]

	frame.ImageAcquired, err = device.CreateSemaphore()
	if err != nil {
		return frame, Fail(ErrFrameResourceAllocationFailed, "create image-acquired semaphore", err)
	}

	frame.RenderingFinished, err = device.CreateSemaphore()
	if err != nil {
		return frame, Fail(ErrFrameResourceAllocationFailed, "create rendering-finished semaphore", err)
	}

	return frame, nil
}

func (p *FramePool) Len() int {
	if p == nil {
		return 0
	}
	return len(p.frames)
}

// At returns the frame for an arbitrary frame counter, or nil once the
// pool has been destroyed.
func (p *FramePool) At(counter int) *Frame {
	n := p.Len()
	if n == 0 {
		return nil
	}
	return &p.frames[((counter%n)+n)%n]
}

// Index is the slot Current refers to.
func (p *FramePool) Index() int {
	if p.Len() == 0 {
		return 0
	}
	return p.counter % len(p.frames)
}

func (p *FramePool) Current() *Frame {
	return p.At(p.Index())
}

// Advance moves to the next slot and returns it.
func (p *FramePool) Advance() *Frame {
	if p.Len() == 0 {
		return nil
	}
	p.counter = (p.counter + 1) % len(p.frames)
	return p.Current()
}

// Destroy releases frames last-created first.
func (p *FramePool) Destroy() {
	if p == nil {
		return
	}
	for i := len(p.frames) - 1; i >= 0; i-- {
		p.frames[i].destroy()
	}
	p.frames = nil
	p.counter = 0
}
