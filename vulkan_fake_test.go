// vulkan_fake_test.go - Counting fake device backends for the Vulkan tests

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"errors"
	"unsafe"

	vk "github.com/goki/vulkan"
)

// fakeDeviceOps implements DeviceOps without a GPU, counting every
// call so tests can assert resource lifecycles. Handles returned for
// non-dispatchable objects are null; the production code never
// branches on their values. Command buffers are forged from distinct
// heap allocations so identity checks are meaningful.
type fakeDeviceOps struct {
	commandPoolCreates  int
	commandPoolDestroys int
	cmdbufAllocs        int
	cmdbufFrees         int
	renderPassCreates   int
	renderPassDestroys  int
	imageCreates        int
	imageDestroys       int
	imageViewCreates    int
	imageViewDestroys   int
	framebufferCreates  int
	framebufferDestroys int
	semaphoreCreates    int
	semaphoreDestroys   int
	fenceCreates        int
	fenceDestroys       int
	fenceWaits          int
	endCalls            int
	submitCalls         int
	waitIdleCalls       int

	lastImageInfo vk.ImageCreateInfo

	failImageCreate bool
	endErr          error
	submitErr       error

	// cmdbufBacking keeps the forged command-buffer allocations
	// reachable; vk.CommandBuffer is a cgo pointer type the GC does
	// not trace, so without this the addresses would be reused and
	// handles would alias.
	cmdbufBacking []*int64
}

func (f *fakeDeviceOps) CreateCommandPool(queueFamily uint32) (vk.CommandPool, error) {
	f.commandPoolCreates++
	return vk.NullCommandPool, nil
}

func (f *fakeDeviceOps) DestroyCommandPool(pool vk.CommandPool) {
	f.commandPoolDestroys++
}

func (f *fakeDeviceOps) AllocateCommandBuffers(pool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error) {
	f.cmdbufAllocs++
	bufs := make([]vk.CommandBuffer, count)
	for i := range bufs {
		backing := new(int64)
		f.cmdbufBacking = append(f.cmdbufBacking, backing)
		bufs[i] = vk.CommandBuffer(unsafe.Pointer(backing))
	}
	return bufs, nil
}

func (f *fakeDeviceOps) FreeCommandBuffers(pool vk.CommandPool, bufs []vk.CommandBuffer) {
	f.cmdbufFrees += len(bufs)
}

func (f *fakeDeviceOps) CreateRenderPass(format vk.Format) (vk.RenderPass, error) {
	f.renderPassCreates++
	return vk.NullRenderPass, nil
}

func (f *fakeDeviceOps) DestroyRenderPass(rp vk.RenderPass) {
	f.renderPassDestroys++
}

func (f *fakeDeviceOps) CreateImage(info vk.ImageCreateInfo) (vk.Image, vk.DeviceMemory, error) {
	if f.failImageCreate {
		return vk.NullImage, vk.NullDeviceMemory, errors.New("image allocation failed")
	}
	f.imageCreates++
	f.lastImageInfo = info
	return vk.NullImage, vk.NullDeviceMemory, nil
}

func (f *fakeDeviceOps) DestroyImage(img vk.Image, mem vk.DeviceMemory) {
	f.imageDestroys++
}

func (f *fakeDeviceOps) CreateImageView(info vk.ImageViewCreateInfo) (vk.ImageView, error) {
	f.imageViewCreates++
	return vk.NullImageView, nil
}

func (f *fakeDeviceOps) DestroyImageView(view vk.ImageView) {
	f.imageViewDestroys++
}

func (f *fakeDeviceOps) CreateFramebuffer(rp vk.RenderPass, view vk.ImageView, width, height uint32) (vk.Framebuffer, error) {
	f.framebufferCreates++
	return vk.NullFramebuffer, nil
}

func (f *fakeDeviceOps) DestroyFramebuffer(fb vk.Framebuffer) {
	f.framebufferDestroys++
}

func (f *fakeDeviceOps) CreateSemaphore() (vk.Semaphore, error) {
	f.semaphoreCreates++
	return vk.NullSemaphore, nil
}

func (f *fakeDeviceOps) DestroySemaphore(sem vk.Semaphore) {
	f.semaphoreDestroys++
}

func (f *fakeDeviceOps) CreateFence(signaled bool) (vk.Fence, error) {
	f.fenceCreates++
	return vk.NullFence, nil
}

func (f *fakeDeviceOps) DestroyFence(fence vk.Fence) {
	f.fenceDestroys++
}

func (f *fakeDeviceOps) WaitForFences(fences []vk.Fence) error {
	f.fenceWaits++
	return nil
}

func (f *fakeDeviceOps) EndCommandBuffer(cmdbuf vk.CommandBuffer) error {
	f.endCalls++
	return f.endErr
}

func (f *fakeDeviceOps) Submit(queue vk.Queue, cmdbuf vk.CommandBuffer) error {
	f.submitCalls++
	return f.submitErr
}

func (f *fakeDeviceOps) WaitIdle() error {
	f.waitIdleCalls++
	return nil
}

// fakeDeviceQuery answers the probe from canned data.
type fakeDeviceQuery struct {
	props    DeviceProperties
	propsErr error

	exts    []string
	extsErr error

	driverID   DriverID
	driverName string

	hostAlign   uint64
	hostAlignOK bool

	timelineFeature   bool
	timelineFeatureOK bool
}

func (f *fakeDeviceQuery) Properties() (DeviceProperties, error) {
	return f.props, f.propsErr
}

func (f *fakeDeviceQuery) Extensions() ([]string, error) {
	return f.exts, f.extsErr
}

func (f *fakeDeviceQuery) DriverInfo() (DriverID, string) {
	return f.driverID, f.driverName
}

func (f *fakeDeviceQuery) ExternalMemoryHostAlignment() (uint64, bool) {
	return f.hostAlign, f.hostAlignOK
}

func (f *fakeDeviceQuery) TimelineSemaphoreFeature() (bool, bool) {
	return f.timelineFeature, f.timelineFeatureOK
}

// resolveAll resolves every entry point to the same non-nil pointer.
var resolveAll = func() ProcResolver {
	marker := new(int64)
	return func(name string) unsafe.Pointer {
		return unsafe.Pointer(marker)
	}
}()

// resolveNone resolves nothing.
func resolveNone(name string) unsafe.Pointer {
	return nil
}

// resolveExcept resolves everything but the named entry points.
func resolveExcept(missing ...string) ProcResolver {
	marker := new(int64)
	return func(name string) unsafe.Pointer {
		for _, m := range missing {
			if name == m {
				return nil
			}
		}
		return unsafe.Pointer(marker)
	}
}

// fakeHostInterface builds a minimal frontend interface whose sync
// index follows the given script and whose set_image calls are
// recorded.
type fakeHostInterface struct {
	intf *HWRenderInterfaceVulkan

	syncScript  []uint32
	syncCalls   int
	waitCalls   int
	lockCalls   int
	unlockCalls int

	setImageCalls   int
	lastImagePtr    *RetroVulkanImage
	lastSemCount    uint32
	lastQueueFamily uint32
}

func newFakeHostInterface(syncScript []uint32) *fakeHostInterface {
	h := &fakeHostInterface{syncScript: syncScript}
	h.intf = &HWRenderInterfaceVulkan{
		InterfaceType:    RETRO_HW_RENDER_INTERFACE_VULKAN,
		InterfaceVersion: RETRO_HW_RENDER_INTERFACE_VULKAN_VERSION,
		QueueIndex:       0,
		WaitSyncIndex: func(handle unsafe.Pointer) {
			h.waitCalls++
		},
		GetSyncIndex: func(handle unsafe.Pointer) uint32 {
			idx := uint32(0)
			if len(h.syncScript) > 0 {
				idx = h.syncScript[h.syncCalls%len(h.syncScript)]
			}
			h.syncCalls++
			return idx
		},
		LockQueue: func(handle unsafe.Pointer) {
			h.lockCalls++
		},
		UnlockQueue: func(handle unsafe.Pointer) {
			h.unlockCalls++
		},
		SetImage: func(handle unsafe.Pointer, image *RetroVulkanImage, numSemaphores uint32, semaphores []vk.Semaphore, srcQueueFamily uint32) {
			h.setImageCalls++
			h.lastImagePtr = image
			h.lastSemCount = numSemaphores
			h.lastQueueFamily = srcQueueFamily
		},
	}
	return h
}

// install makes the fake the process-wide interface for the duration
// of a test.
func (h *fakeHostInterface) install(t interface{ Cleanup(func()) }) {
	prev := hwVulkan
	prevGet := GetHWRenderInterface
	SetHWRenderInterface(h.intf)
	GetHWRenderInterface = func() (*HWRenderInterfaceVulkan, bool) {
		return h.intf, true
	}
	t.Cleanup(func() {
		hwVulkan = prev
		GetHWRenderInterface = prevGet
	})
}

// clearHostInterface removes any process-wide interface for the
// duration of a test.
func clearHostInterface(t interface{ Cleanup(func()) }) {
	prev := hwVulkan
	prevGet := GetHWRenderInterface
	hwVulkan = nil
	GetHWRenderInterface = func() (*HWRenderInterfaceVulkan, bool) {
		return nil, false
	}
	t.Cleanup(func() {
		hwVulkan = prev
		GetHWRenderInterface = prevGet
	})
}
