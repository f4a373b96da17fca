// retro_host.go - Frontend Vulkan interface binding

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

// RetroVulkanImage is the hand-off record passed to the frontend's
// set_image. The frontend may retain the pointer it receives across
// calls (frame duping during pause), so callers must pass a stable,
// long-lived instance, never a per-call temporary.
type RetroVulkanImage struct {
	ImageView   vk.ImageView
	ImageLayout vk.ImageLayout
	CreateInfo  vk.ImageViewCreateInfo
}

// HWRenderInterfaceVulkan models retro_hw_render_interface_vulkan: the
// function table the frontend hands the core at context-reset time.
// Every callback field may be nil; the adapter must tolerate that. All
// handles are owned by the frontend and are never destroyed here.
type HWRenderInterfaceVulkan struct {
	InterfaceType    uint32
	InterfaceVersion uint32

	// Opaque frontend token passed back through every callback.
	Handle unsafe.Pointer

	Instance   vk.Instance
	GPU        vk.PhysicalDevice
	Device     vk.Device
	Queue      vk.Queue
	QueueIndex uint32

	// Raw PFN_vkGetInstanceProcAddr for dispatcher initialization.
	GetInstanceProcAddrPFN unsafe.Pointer
	// Go-callable proc lookup built over the same entry point.
	GetInstanceProcAddr func(instance vk.Instance, name string) unsafe.Pointer

	SetImage      func(handle unsafe.Pointer, image *RetroVulkanImage, numSemaphores uint32, semaphores []vk.Semaphore, srcQueueFamily uint32)
	GetSyncIndex  func(handle unsafe.Pointer) uint32
	WaitSyncIndex func(handle unsafe.Pointer)
	LockQueue     func(handle unsafe.Pointer)
	UnlockQueue   func(handle unsafe.Pointer)
}

// hwVulkan is the process-wide interface pointer. The frontend may
// swap the table without a context reset (fullscreen toggles are the
// known case), so frame acquisition re-resolves it every call instead
// of trusting this cache.
var hwVulkan *HWRenderInterfaceVulkan

// GetHWRenderInterface resolves the current frontend interface. The
// libretro glue replaces this with a real environment-callback query;
// the default returns the cached pointer.
var GetHWRenderInterface = func() (*HWRenderInterfaceVulkan, bool) {
	return hwVulkan, hwVulkan != nil
}

// SetHWRenderInterface installs the frontend's table, normally from
// the context_reset callback.
func SetHWRenderInterface(intf *HWRenderInterfaceVulkan) {
	hwVulkan = intf
}

// CurrentHWRenderInterface re-resolves the interface and refreshes the
// cache when the frontend has silently swapped tables.
func CurrentHWRenderInterface() (*HWRenderInterfaceVulkan, bool) {
	intf, ok := GetHWRenderInterface()
	if !ok || intf == nil {
		return nil, false
	}
	if intf != hwVulkan {
		logInfo(tagVulkan, "Vulkan interface changed during runtime from %p to %p", hwVulkan, intf)
		hwVulkan = intf
	}
	return intf, true
}

// vulkanDispatchInit performs the goki/vulkan dispatcher setup against
// the frontend-provided loader. Split out so tests can intercept the
// process-global initialization.
var vulkanDispatchInit = func(intf *HWRenderInterfaceVulkan) error {
	if intf.GetInstanceProcAddrPFN == nil {
		return errors.New("frontend supplied no vkGetInstanceProcAddr")
	}
	vk.SetGetInstanceProcAddr(intf.GetInstanceProcAddrPFN)
	if err := vk.Init(); err != nil {
		return err
	}
	return vk.InitInstance(intf.Instance)
}

// VulkanResetContext re-binds the frontend interface and initializes
// the Vulkan dispatcher from its loader. Must run once per context,
// before any capability probing or device call.
func VulkanResetContext() error {
	intf, ok := GetHWRenderInterface()
	if !ok || intf == nil {
		return errors.New("libretro Vulkan interface not available")
	}
	hwVulkan = intf
	if err := vulkanDispatchInit(intf); err != nil {
		return err
	}
	logInfo(tagHost, "Vulkan context reset, dispatcher initialized")
	return nil
}

// ProcResolver looks up a Vulkan entry point by name, reporting nil
// for entry points the frontend's device never loaded.
type ProcResolver func(name string) unsafe.Pointer

// HostProcResolver builds a ProcResolver over the frontend's
// get_instance_proc_addr. A missing callback resolves everything to
// nil, which downstream consumers treat as a capability downgrade.
func HostProcResolver(intf *HWRenderInterfaceVulkan) ProcResolver {
	return func(name string) unsafe.Pointer {
		if intf == nil || intf.GetInstanceProcAddr == nil {
			return nil
		}
		return intf.GetInstanceProcAddr(intf.Instance, name)
	}
}

// InputPoller reads one input value from the frontend, mirroring the
// retro_input_state callback signature.
type InputPoller func(port, device, index, id uint32) int16

// PollInput is the process-wide input entry point, installed by the
// libretro glue. The default reports no input.
var PollInput InputPoller = func(port, device, index, id uint32) int16 {
	return 0
}
