// vulkan_present.go - Presentation window over the frontend's set_image

/*
retro3ds - libretro rendering and input adapter for the Azahar 3DS core

(c) Azahar Emulator Project
License: GPLv2 or later
*/

package main

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// outputFormat is the only format the frontend's software and hardware
// readback paths both accept.
const outputFormat = vk.FormatR8g8b8a8Unorm

// presentFrameCount matches the frontend's two-deep sync index window.
const presentFrameCount = 2

// PresentFrame is one slot of per-frame state. The output image and
// view are shared across slots; each slot carries its own command
// buffer, pacing primitives and framebuffer. Slots are destroyed and
// recreated wholesale on resize, never patched in place.
type PresentFrame struct {
	Width  uint32
	Height uint32

	Cmdbuf      vk.CommandBuffer
	RenderReady vk.Semaphore
	PresentDone vk.Fence
	Framebuffer vk.Framebuffer
}

// PresentWindow renders into a single device-local texture and hands
// it to the frontend through set_image instead of a swapchain. All
// Vulkan objects here are created on the frontend's device through the
// DeviceOps seam and destroyed in Destroy.
type PresentWindow struct {
	ops   DeviceOps
	queue vk.Queue

	cmdPool    vk.CommandPool
	renderPass vk.RenderPass

	outputImage  vk.Image
	outputMemory vk.DeviceMemory
	outputView   vk.ImageView
	outputWidth  uint32
	outputHeight uint32

	frames         []*PresentFrame
	lastFrameIndex uint32

	// persistentImage backs the pointer handed to set_image. The
	// frontend may re-read it long after Present returns (frame duping
	// while paused), so it lives for the window's lifetime.
	persistentImage RetroVulkanImage

	// swapBuffers is called after each successful hand-off; the
	// libretro glue points it at video_cb. Hook var for tests.
	swapBuffers func()
}

// NewPresentWindow creates the command pool, render pass and the fixed
// set of frame slots. The output texture is created lazily on the
// first CreateOutputTexture call, once the emulator knows the layout
// dimensions.
func NewPresentWindow(ops DeviceOps, queue vk.Queue, queueFamily uint32) (*PresentWindow, error) {
	w := &PresentWindow{
		ops:         ops,
		queue:       queue,
		swapBuffers: func() {},
	}

	pool, err := ops.CreateCommandPool(queueFamily)
	if err != nil {
		return nil, fmt.Errorf("present window: %w", err)
	}
	w.cmdPool = pool

	rp, err := ops.CreateRenderPass(outputFormat)
	if err != nil {
		w.Destroy()
		return nil, fmt.Errorf("present window: %w", err)
	}
	w.renderPass = rp

	if err := w.createFrameResources(presentFrameCount); err != nil {
		w.Destroy()
		return nil, err
	}

	logInfo(tagVulkan, "present window ready, %d frames in flight", presentFrameCount)
	return w, nil
}

func (w *PresentWindow) createFrameResources(count int) error {
	cmdbufs, err := w.ops.AllocateCommandBuffers(w.cmdPool, uint32(count))
	if err != nil {
		return fmt.Errorf("frame resources: %w", err)
	}

	w.frames = make([]*PresentFrame, count)
	for i := 0; i < count; i++ {
		sem, err := w.ops.CreateSemaphore()
		if err != nil {
			return fmt.Errorf("frame resources: %w", err)
		}
		// Pre-signaled so the first WaitPresent on a never-presented
		// slot returns immediately.
		fence, err := w.ops.CreateFence(true)
		if err != nil {
			w.ops.DestroySemaphore(sem)
			return fmt.Errorf("frame resources: %w", err)
		}
		w.frames[i] = &PresentFrame{
			Cmdbuf:      cmdbufs[i],
			RenderReady: sem,
			PresentDone: fence,
		}
		if w.hasOutputTexture() {
			if err := w.attachFramebuffer(w.frames[i], w.outputWidth, w.outputHeight); err != nil {
				return err
			}
		}
	}
	return nil
}

// destroyFrameResources releases every frame slot: pacing primitives,
// framebuffers and the command buffers. Callers wait on the GPU first.
func (w *PresentWindow) destroyFrameResources() {
	var cmdbufs []vk.CommandBuffer
	for _, frame := range w.frames {
		if frame == nil {
			continue
		}
		w.ops.DestroySemaphore(frame.RenderReady)
		w.ops.DestroyFence(frame.PresentDone)
		if frame.Width != 0 || frame.Height != 0 {
			w.ops.DestroyFramebuffer(frame.Framebuffer)
			frame.Width = 0
			frame.Height = 0
		}
		cmdbufs = append(cmdbufs, frame.Cmdbuf)
	}
	if len(cmdbufs) > 0 {
		w.ops.FreeCommandBuffers(w.cmdPool, cmdbufs)
	}
	w.frames = nil
}

// CreateOutputTexture sizes the shared output texture. Same-dimension
// calls are no-ops. A dimension change drains outstanding presents,
// destroys the old texture so device memory is never held twice, then
// rebuilds the frame pool from scratch: slots are never patched in
// place once the GPU may have touched them.
func (w *PresentWindow) CreateOutputTexture(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("output texture: invalid extent %dx%d", width, height)
	}
	if w.hasOutputTexture() && w.outputWidth == width && w.outputHeight == height {
		return nil
	}
	resizing := w.hasOutputTexture()
	if resizing {
		if err := w.WaitPresent(); err != nil {
			logWarn(tagVulkan, "wait present before resize: %v", err)
		}
		w.DestroyOutputTexture()
	}

	info := vk.ImageCreateInfo{
		SType:       vk.StructureTypeImageCreateInfo,
		ImageType:   vk.ImageType2d,
		Format:      outputFormat,
		Extent:      vk.Extent3D{Width: width, Height: height, Depth: 1},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     vk.SampleCount1Bit,
		Tiling:      vk.ImageTilingOptimal,
		Usage: vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit |
			vk.ImageUsageTransferSrcBit |
			vk.ImageUsageTransferDstBit |
			vk.ImageUsageSampledBit),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
	img, mem, err := w.ops.CreateImage(info)
	if err != nil {
		return fmt.Errorf("output texture: %w", err)
	}

	viewInfo := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    img,
		ViewType: vk.ImageViewType2d,
		Format:   outputFormat,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	view, err := w.ops.CreateImageView(viewInfo)
	if err != nil {
		w.ops.DestroyImage(img, mem)
		return fmt.Errorf("output texture: %w", err)
	}

	w.outputImage = img
	w.outputMemory = mem
	w.outputView = view
	w.outputWidth = width
	w.outputHeight = height

	// Frontend hand-off descriptor. Layout matches the render pass's
	// final layout; the create info travels with the view so the
	// frontend can re-create compatible views on its side.
	w.persistentImage = RetroVulkanImage{
		ImageView:   view,
		ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
		CreateInfo:  viewInfo,
	}

	if resizing {
		w.destroyFrameResources()
		if err := w.createFrameResources(presentFrameCount); err != nil {
			return err
		}
	} else {
		for _, frame := range w.frames {
			if err := w.attachFramebuffer(frame, width, height); err != nil {
				return err
			}
		}
	}

	logInfo(tagVulkan, "output texture %dx%d", width, height)
	return nil
}

// hasOutputTexture reports whether an output texture exists. Tracked
// through the recorded extent: fake device backends legitimately
// return null handles.
func (w *PresentWindow) hasOutputTexture() bool {
	return w.outputWidth != 0 && w.outputHeight != 0
}

// DestroyOutputTexture releases the shared texture. Idempotent.
func (w *PresentWindow) DestroyOutputTexture() {
	if !w.hasOutputTexture() {
		return
	}
	for _, frame := range w.frames {
		if frame == nil {
			continue
		}
		if frame.Width != 0 || frame.Height != 0 {
			w.ops.DestroyFramebuffer(frame.Framebuffer)
			frame.Framebuffer = vk.NullFramebuffer
			frame.Width = 0
			frame.Height = 0
		}
	}
	w.ops.DestroyImageView(w.outputView)
	w.ops.DestroyImage(w.outputImage, w.outputMemory)
	w.outputView = vk.NullImageView
	w.outputImage = vk.NullImage
	w.outputMemory = vk.NullDeviceMemory
	w.outputWidth = 0
	w.outputHeight = 0
}

// attachFramebuffer gives a fresh slot its framebuffer over the
// current output view. Slots that already carry an extent go through
// the wholesale pool rebuild instead.
func (w *PresentWindow) attachFramebuffer(frame *PresentFrame, width, height uint32) error {
	fb, err := w.ops.CreateFramebuffer(w.renderPass, w.outputView, width, height)
	if err != nil {
		return fmt.Errorf("frame framebuffer: %w", err)
	}
	frame.Framebuffer = fb
	frame.Width = width
	frame.Height = height
	return nil
}

// RecreateFrame resizes the window through one of its slots. Unchanged
// dimensions are a no-op that leaves the slot untouched. Otherwise the
// slot's outstanding present is fenced off, the output texture is
// rebuilt at the new extent and the whole frame pool is recreated; the
// caller must re-acquire its frame, the old pointer is dead.
func (w *PresentWindow) RecreateFrame(frame *PresentFrame, width, height uint32) error {
	if frame == nil {
		logError(tagVulkan, "recreate requested for a null frame")
		return nil
	}
	if frame.Width == width && frame.Height == height {
		return nil
	}
	if err := w.ops.WaitForFences([]vk.Fence{frame.PresentDone}); err != nil {
		logWarn(tagVulkan, "wait for frame fence before recreate: %v", err)
	}
	return w.CreateOutputTexture(width, height)
}

// GetRenderFrame picks the slot for the next frame using the
// frontend's sync index, blocking in wait_sync_index until the GPU has
// retired the slot's previous use. When the interface is gone
// mid-session the last slot is reused rather than stalling the core.
func (w *PresentWindow) GetRenderFrame() *PresentFrame {
	intf, ok := CurrentHWRenderInterface()
	if !ok {
		logWarn(tagVulkan, "render frame requested without a frontend interface")
		return w.frames[w.lastFrameIndex]
	}
	if intf.WaitSyncIndex != nil {
		intf.WaitSyncIndex(intf.Handle)
	}
	index := uint32(0)
	if intf.GetSyncIndex != nil {
		index = intf.GetSyncIndex(intf.Handle) % uint32(len(w.frames))
	}
	w.lastFrameIndex = index
	return w.frames[index]
}

// RenderPass returns the shared render pass.
func (w *PresentWindow) RenderPass() vk.RenderPass {
	return w.renderPass
}

// OutputExtent returns the current output texture dimensions.
func (w *PresentWindow) OutputExtent() (uint32, uint32) {
	return w.outputWidth, w.outputHeight
}

// ImageDescriptor returns the long-lived hand-off record. The pointer
// is stable across frames and resizes.
func (w *PresentWindow) ImageDescriptor() *RetroVulkanImage {
	return &w.persistentImage
}

// Present hands the finished frame to the frontend. No semaphores
// cross the boundary; the frontend paces the queue through its sync
// indices. The hand-off record pointer is the same every call. A
// missing frame, texture or interface drops the frame with a log
// line; these states come and go with context resets and are not
// errors the render loop can act on.
func (w *PresentWindow) Present(frame *PresentFrame) {
	if frame == nil {
		logError(tagVulkan, "present called with a null frame")
		return
	}
	if !w.hasOutputTexture() {
		logError(tagVulkan, "present without an output texture")
		return
	}
	intf, ok := CurrentHWRenderInterface()
	if !ok {
		logError(tagVulkan, "present without a frontend interface")
		return
	}
	if intf.SetImage != nil {
		intf.SetImage(intf.Handle, &w.persistentImage, 0, nil, intf.QueueIndex)
	}
	w.swapBuffers()
}

// NotifySurfaceChanged exists for interface parity with windowed
// backends. There is no surface; the frontend owns presentation.
func (w *PresentWindow) NotifySurfaceChanged() {
	logDebug(tagVulkan, "surface change notification ignored, frontend owns presentation")
}

// WaitPresent blocks until every slot's fence signals. Fences start
// signaled, so slots never presented do not stall teardown.
func (w *PresentWindow) WaitPresent() error {
	fences := make([]vk.Fence, 0, len(w.frames))
	for _, frame := range w.frames {
		if frame == nil {
			continue
		}
		fences = append(fences, frame.PresentDone)
	}
	if len(fences) == 0 {
		return nil
	}
	return w.ops.WaitForFences(fences)
}

// Destroy tears the window down in dependency order: outstanding
// presents, then the whole device, then per-frame objects, the shared
// texture, and finally the pool and render pass.
func (w *PresentWindow) Destroy() {
	if err := w.WaitPresent(); err != nil {
		logWarn(tagVulkan, "wait present during destroy: %v", err)
	}
	if err := w.ops.WaitIdle(); err != nil {
		logWarn(tagVulkan, "device wait idle during destroy: %v", err)
	}

	w.destroyFrameResources()
	w.DestroyOutputTexture()

	w.ops.DestroyRenderPass(w.renderPass)
	w.renderPass = vk.NullRenderPass
	w.ops.DestroyCommandPool(w.cmdPool)
	w.cmdPool = vk.NullCommandPool
}
