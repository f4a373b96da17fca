// vulkan_device.go - Device operation seam over the frontend's VkDevice

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"errors"
	"fmt"

	vk "github.com/goki/vulkan"
)

// errDeviceLost marks a VK_ERROR_DEVICE_LOST result. The submission
// gate treats it as unrecoverable.
var errDeviceLost = errors.New("vulkan device lost")

func vkResult(op string, res vk.Result) error {
	if res == vk.Success {
		return nil
	}
	if res == vk.ErrorDeviceLost {
		return fmt.Errorf("%s: %w", op, errDeviceLost)
	}
	return fmt.Errorf("%s: %w", op, vk.Error(res))
}

// DeviceOps is the narrow surface of device work the presentation
// window and submission gate need. The production implementation calls
// through goki/vulkan against the frontend-owned device; tests
// substitute counting fakes, the same way the video backends in the
// emulator proper are swapped for headless ones.
type DeviceOps interface {
	CreateCommandPool(queueFamily uint32) (vk.CommandPool, error)
	DestroyCommandPool(pool vk.CommandPool)
	AllocateCommandBuffers(pool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error)
	FreeCommandBuffers(pool vk.CommandPool, bufs []vk.CommandBuffer)

	CreateRenderPass(format vk.Format) (vk.RenderPass, error)
	DestroyRenderPass(rp vk.RenderPass)

	CreateImage(info vk.ImageCreateInfo) (vk.Image, vk.DeviceMemory, error)
	DestroyImage(img vk.Image, mem vk.DeviceMemory)
	CreateImageView(info vk.ImageViewCreateInfo) (vk.ImageView, error)
	DestroyImageView(view vk.ImageView)
	CreateFramebuffer(rp vk.RenderPass, view vk.ImageView, width, height uint32) (vk.Framebuffer, error)
	DestroyFramebuffer(fb vk.Framebuffer)

	CreateSemaphore() (vk.Semaphore, error)
	DestroySemaphore(sem vk.Semaphore)
	CreateFence(signaled bool) (vk.Fence, error)
	DestroyFence(fence vk.Fence)
	WaitForFences(fences []vk.Fence) error

	EndCommandBuffer(cmdbuf vk.CommandBuffer) error
	Submit(queue vk.Queue, cmdbuf vk.CommandBuffer) error
	WaitIdle() error
}

// DriverID identifies the installed driver, mirroring VkDriverId for
// the vendors the adapter has workarounds for.
type DriverID int

const (
	DriverIDUnknown             DriverID = 0
	DriverIDAMDProprietary      DriverID = 1
	DriverIDMesaRADV            DriverID = 3
	DriverIDNvidiaProprietary   DriverID = 4
	DriverIDIntelMesa           DriverID = 6
	DriverIDImgTecProprietary   DriverID = 7
	DriverIDQualcommProprietary DriverID = 8
	DriverIDARMProprietary      DriverID = 9
)

// DeviceProperties is the subset of VkPhysicalDeviceProperties the
// probe consumes.
type DeviceProperties struct {
	DeviceName    string
	VendorID      uint32
	DeviceID      uint32
	DriverVersion uint32
	// Texel-buffer offset alignment limit, reused as the minimum
	// vertex stride alignment.
	MinTexelBufferOffsetAlignment uint64
}

// DeviceQuery is the probe's read-only window onto the foreign
// physical device.
type DeviceQuery interface {
	Properties() (DeviceProperties, error)
	Extensions() ([]string, error)
	// DriverInfo reports the driver identity and a printable name.
	DriverInfo() (DriverID, string)
	// ExternalMemoryHostAlignment reports the minimum imported host
	// pointer alignment. ok=false means the query is unavailable and
	// the capability must be degraded.
	ExternalMemoryHostAlignment() (uint64, bool)
	// TimelineSemaphoreFeature reports the chained feature-query bit
	// for timeline semaphores. ok=false degrades the capability.
	TimelineSemaphoreFeature() (enabled bool, ok bool)
}

// vkDevice implements DeviceOps and DeviceQuery against the handles
// borrowed from the frontend. It owns none of them.
type vkDevice struct {
	gpu    vk.PhysicalDevice
	device vk.Device
}

// NewVkDevice wraps the frontend's physical device/device pair.
func NewVkDevice(gpu vk.PhysicalDevice, device vk.Device) *vkDevice {
	return &vkDevice{gpu: gpu, device: device}
}

func (d *vkDevice) CreateCommandPool(queueFamily uint32) (vk.CommandPool, error) {
	info := vk.CommandPoolCreateInfo{
		SType: vk.StructureTypeCommandPoolCreateInfo,
		Flags: vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit |
			vk.CommandPoolCreateTransientBit),
		QueueFamilyIndex: queueFamily,
	}
	var pool vk.CommandPool
	if err := vkResult("create command pool", vk.CreateCommandPool(d.device, &info, nil, &pool)); err != nil {
		return vk.NullCommandPool, err
	}
	return pool, nil
}

func (d *vkDevice) DestroyCommandPool(pool vk.CommandPool) {
	if pool != vk.NullCommandPool {
		vk.DestroyCommandPool(d.device, pool, nil)
	}
}

func (d *vkDevice) AllocateCommandBuffers(pool vk.CommandPool, count uint32) ([]vk.CommandBuffer, error) {
	info := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	}
	bufs := make([]vk.CommandBuffer, count)
	if err := vkResult("allocate command buffers", vk.AllocateCommandBuffers(d.device, &info, bufs)); err != nil {
		return nil, err
	}
	return bufs, nil
}

func (d *vkDevice) FreeCommandBuffers(pool vk.CommandPool, bufs []vk.CommandBuffer) {
	if len(bufs) > 0 {
		vk.FreeCommandBuffers(d.device, pool, uint32(len(bufs)), bufs)
	}
}

func (d *vkDevice) CreateRenderPass(format vk.Format) (vk.RenderPass, error) {
	// Final layout is shader-read-only: the frontend consumes the
	// output by sampling, not by swapchain present.
	colorAttachment := vk.AttachmentDescription{
		Format:         format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutShaderReadOnlyOptimal,
	}
	colorRef := vk.AttachmentReference{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    []vk.AttachmentReference{colorRef},
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		SrcAccessMask: 0,
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}
	info := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: 1,
		PAttachments:    []vk.AttachmentDescription{colorAttachment},
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}
	var rp vk.RenderPass
	if err := vkResult("create render pass", vk.CreateRenderPass(d.device, &info, nil, &rp)); err != nil {
		return vk.NullRenderPass, err
	}
	return rp, nil
}

func (d *vkDevice) DestroyRenderPass(rp vk.RenderPass) {
	if rp != vk.NullRenderPass {
		vk.DestroyRenderPass(d.device, rp, nil)
	}
}

func (d *vkDevice) CreateImage(info vk.ImageCreateInfo) (vk.Image, vk.DeviceMemory, error) {
	var img vk.Image
	if err := vkResult("create image", vk.CreateImage(d.device, &info, nil, &img)); err != nil {
		return vk.NullImage, vk.NullDeviceMemory, err
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.device, img, &req)
	req.Deref()

	memoryType, ok := d.findMemoryType(req.MemoryTypeBits, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if !ok {
		vk.DestroyImage(d.device, img, nil)
		return vk.NullImage, vk.NullDeviceMemory, errors.New("no device-local memory type for output image")
	}

	allocInfo := vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memoryType,
	}
	var mem vk.DeviceMemory
	if err := vkResult("allocate image memory", vk.AllocateMemory(d.device, &allocInfo, nil, &mem)); err != nil {
		vk.DestroyImage(d.device, img, nil)
		return vk.NullImage, vk.NullDeviceMemory, err
	}
	if err := vkResult("bind image memory", vk.BindImageMemory(d.device, img, mem, 0)); err != nil {
		vk.FreeMemory(d.device, mem, nil)
		vk.DestroyImage(d.device, img, nil)
		return vk.NullImage, vk.NullDeviceMemory, err
	}
	return img, mem, nil
}

func (d *vkDevice) findMemoryType(typeBits uint32, wanted vk.MemoryPropertyFlags) (uint32, bool) {
	var memProps vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.gpu, &memProps)
	memProps.Deref()
	for i := uint32(0); i < memProps.MemoryTypeCount; i++ {
		mt := memProps.MemoryTypes[i]
		mt.Deref()
		if typeBits&(1<<i) != 0 && mt.PropertyFlags&wanted == wanted {
			return i, true
		}
	}
	return 0, false
}

func (d *vkDevice) DestroyImage(img vk.Image, mem vk.DeviceMemory) {
	if img != vk.NullImage {
		vk.DestroyImage(d.device, img, nil)
	}
	if mem != vk.NullDeviceMemory {
		vk.FreeMemory(d.device, mem, nil)
	}
}

func (d *vkDevice) CreateImageView(info vk.ImageViewCreateInfo) (vk.ImageView, error) {
	var view vk.ImageView
	if err := vkResult("create image view", vk.CreateImageView(d.device, &info, nil, &view)); err != nil {
		return vk.NullImageView, err
	}
	return view, nil
}

func (d *vkDevice) DestroyImageView(view vk.ImageView) {
	if view != vk.NullImageView {
		vk.DestroyImageView(d.device, view, nil)
	}
}

func (d *vkDevice) CreateFramebuffer(rp vk.RenderPass, view vk.ImageView, width, height uint32) (vk.Framebuffer, error) {
	info := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      rp,
		AttachmentCount: 1,
		PAttachments:    []vk.ImageView{view},
		Width:           width,
		Height:          height,
		Layers:          1,
	}
	var fb vk.Framebuffer
	if err := vkResult("create framebuffer", vk.CreateFramebuffer(d.device, &info, nil, &fb)); err != nil {
		return vk.NullFramebuffer, err
	}
	return fb, nil
}

func (d *vkDevice) DestroyFramebuffer(fb vk.Framebuffer) {
	if fb != vk.NullFramebuffer {
		vk.DestroyFramebuffer(d.device, fb, nil)
	}
}

func (d *vkDevice) CreateSemaphore() (vk.Semaphore, error) {
	info := vk.SemaphoreCreateInfo{SType: vk.StructureTypeSemaphoreCreateInfo}
	var sem vk.Semaphore
	if err := vkResult("create semaphore", vk.CreateSemaphore(d.device, &info, nil, &sem)); err != nil {
		return vk.NullSemaphore, err
	}
	return sem, nil
}

func (d *vkDevice) DestroySemaphore(sem vk.Semaphore) {
	if sem != vk.NullSemaphore {
		vk.DestroySemaphore(d.device, sem, nil)
	}
}

func (d *vkDevice) CreateFence(signaled bool) (vk.Fence, error) {
	info := vk.FenceCreateInfo{SType: vk.StructureTypeFenceCreateInfo}
	if signaled {
		info.Flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var fence vk.Fence
	if err := vkResult("create fence", vk.CreateFence(d.device, &info, nil, &fence)); err != nil {
		return vk.NullFence, err
	}
	return fence, nil
}

func (d *vkDevice) DestroyFence(fence vk.Fence) {
	if fence != vk.NullFence {
		vk.DestroyFence(d.device, fence, nil)
	}
}

func (d *vkDevice) WaitForFences(fences []vk.Fence) error {
	if len(fences) == 0 {
		return nil
	}
	return vkResult("wait for fences", vk.WaitForFences(d.device, uint32(len(fences)), fences, vk.True, ^uint64(0)))
}

func (d *vkDevice) EndCommandBuffer(cmdbuf vk.CommandBuffer) error {
	return vkResult("end command buffer", vk.EndCommandBuffer(cmdbuf))
}

func (d *vkDevice) Submit(queue vk.Queue, cmdbuf vk.CommandBuffer) error {
	// Zero wait/signal semaphores: the frontend paces all GPU work
	// through its own sync-index mechanism.
	submit := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cmdbuf},
	}
	return vkResult("queue submit", vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submit}, vk.NullFence))
}

func (d *vkDevice) WaitIdle() error {
	return vkResult("device wait idle", vk.DeviceWaitIdle(d.device))
}

// DeviceQuery implementation

func (d *vkDevice) Properties() (DeviceProperties, error) {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(d.gpu, &props)
	props.Deref()
	props.Limits.Deref()
	return DeviceProperties{
		DeviceName:                    vk.ToString(props.DeviceName[:]),
		VendorID:                      props.VendorID,
		DeviceID:                      props.DeviceID,
		DriverVersion:                 props.DriverVersion,
		MinTexelBufferOffsetAlignment: uint64(props.Limits.MinTexelBufferOffsetAlignment),
	}, nil
}

func (d *vkDevice) Extensions() ([]string, error) {
	var count uint32
	if err := vkResult("enumerate extensions", vk.EnumerateDeviceExtensionProperties(d.gpu, "", &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if count > 0 {
		if err := vkResult("enumerate extensions", vk.EnumerateDeviceExtensionProperties(d.gpu, "", &count, props)); err != nil {
			return nil, err
		}
	}
	names := make([]string, 0, count)
	for i := range props {
		props[i].Deref()
		names = append(names, vk.ToString(props[i].ExtensionName[:]))
	}
	return names, nil
}

// DriverInfo infers the driver identity from the PCI vendor. The
// binding predates VK_KHR_driver_properties, and the frontend-loaded
// device cannot be trusted to expose it anyway, so vendor inference is
// the reliable lower bound. The Qualcomm workaround only needs vendor
// granularity.
func (d *vkDevice) DriverInfo() (DriverID, string) {
	props, err := d.Properties()
	if err != nil {
		return DriverIDUnknown, "unknown"
	}
	switch props.VendorID {
	case vendorIDAMD:
		return DriverIDAMDProprietary, "AMD"
	case vendorIDNvidia:
		return DriverIDNvidiaProprietary, "NVIDIA"
	case vendorIDIntel:
		return DriverIDIntelMesa, "Intel"
	case vendorIDARM:
		return DriverIDARMProprietary, "ARM"
	case vendorIDQualcomm:
		return DriverIDQualcommProprietary, "Qualcomm"
	case vendorIDImgTec:
		return DriverIDImgTecProprietary, "Imagination"
	}
	return DriverIDUnknown, fmt.Sprintf("Unknown (0x%X)", props.VendorID)
}

// ExternalMemoryHostAlignment is unavailable through this binding; the
// probe degrades the external-memory-host capability in response.
func (d *vkDevice) ExternalMemoryHostAlignment() (uint64, bool) {
	return 0, false
}

// TimelineSemaphoreFeature defers to extension enumeration: the
// binding cannot chain the 1.2 feature struct, and a device that
// enumerates the extension with resolvable entry points has the
// feature in practice.
func (d *vkDevice) TimelineSemaphoreFeature() (bool, bool) {
	return true, true
}
