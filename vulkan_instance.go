// vulkan_instance.go - Adapter instance over the frontend's device triple

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

// PCI vendor IDs for the name table.
const (
	vendorIDAMD      = 0x1002
	vendorIDImgTec   = 0x1010
	vendorIDNvidia   = 0x10DE
	vendorIDARM      = 0x13B5
	vendorIDQualcomm = 0x5143
	vendorIDIntel    = 0x8086
	vendorIDApple    = 0x106B
)

var vendorNames = map[uint32]string{
	vendorIDAMD:      "AMD",
	vendorIDImgTec:   "Imagination Technologies",
	vendorIDNvidia:   "NVIDIA",
	vendorIDARM:      "ARM",
	vendorIDQualcomm: "Qualcomm",
	vendorIDIntel:    "Intel",
	vendorIDApple:    "Apple",
}

// VendorName maps a PCI vendor ID to a printable name.
func VendorName(vendorID uint32) string {
	if name, ok := vendorNames[vendorID]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%X)", vendorID)
}

// dispatchDeviceInit points the goki/vulkan dispatcher at the
// frontend's device. Hook var so construction is testable without a
// loaded driver.
var dispatchDeviceInit = func(intf *HWRenderInterfaceVulkan) error {
	return vulkanDispatchInit(intf)
}

// AdapterInstance wraps the frontend-owned instance/device/queue
// triple into the shape the renderer's generic code expects. It owns
// no device resources, only derived metadata and the capability
// record. All wrapped handles are borrowed and never destroyed here.
type AdapterInstance struct {
	intf *HWRenderInterfaceVulkan

	caps       DeviceCapabilities
	vendorName string
	driverName string

	ops   DeviceOps
	query DeviceQuery
}

// NewAdapterInstance validates the frontend interface, initializes the
// Vulkan dispatcher against its device, then probes capabilities.
// Unlike probing, the preconditions here are unrecoverable: without an
// interface, physical device and graphics queue there is no adapter to
// degrade to, and the emulator must fall back to another backend.
func NewAdapterInstance() (*AdapterInstance, error) {
	intf, ok := GetHWRenderInterface()
	if !ok || intf == nil {
		return nil, errors.New("libretro Vulkan interface not available")
	}
	// Dispatchable handles are pointers in the binding; no Null
	// constant exists for them.
	if intf.GPU == nil {
		return nil, errors.New("libretro provided a null physical device")
	}
	if intf.Queue == nil {
		return nil, errors.New("libretro provided a null graphics queue")
	}

	// Dispatcher first: every later device call, probing included,
	// goes through the function table this loads.
	if err := dispatchDeviceInit(intf); err != nil {
		return nil, fmt.Errorf("vulkan dispatcher init: %w", err)
	}

	dev := NewVkDevice(intf.GPU, intf.Device)
	return newAdapterInstance(intf, dev, dev)
}

// newAdapterInstance is the seam shared with tests; ops and query are
// already bound to the frontend's device.
func newAdapterInstance(intf *HWRenderInterfaceVulkan, ops DeviceOps, query DeviceQuery) (*AdapterInstance, error) {
	caps := ProbeDeviceCapabilities(query, HostProcResolver(intf))

	inst := &AdapterInstance{
		intf:       intf,
		caps:       caps,
		vendorName: VendorName(caps.VendorID),
		driverName: caps.DriverName,
		ops:        ops,
		query:      query,
	}

	logInfo(tagVulkan, "adapter instance initialized")
	logInfo(tagVulkan, "device: %s (%s)", caps.DeviceName, inst.vendorName)
	logInfo(tagVulkan, "driver: %s (version 0x%X)", inst.driverName, caps.DriverVersion)
	return inst, nil
}

// Instance returns the frontend's VkInstance.
func (a *AdapterInstance) Instance() vk.Instance {
	return a.intf.Instance
}

// Device returns the frontend's VkDevice.
func (a *AdapterInstance) Device() vk.Device {
	return a.intf.Device
}

// PhysicalDevice returns the frontend's VkPhysicalDevice.
func (a *AdapterInstance) PhysicalDevice() vk.PhysicalDevice {
	return a.intf.GPU
}

// GraphicsQueue returns the frontend's queue. The same queue serves
// graphics and present; the frontend exposes no separate present
// queue.
func (a *AdapterInstance) GraphicsQueue() vk.Queue {
	return a.intf.Queue
}

// GraphicsQueueFamilyIndex returns the queue family of GraphicsQueue.
func (a *AdapterInstance) GraphicsQueueFamilyIndex() uint32 {
	return a.intf.QueueIndex
}

// Capabilities returns the probed capability record.
func (a *AdapterInstance) Capabilities() DeviceCapabilities {
	return a.caps
}

// VendorName returns the printable GPU vendor name.
func (a *AdapterInstance) VendorName() string {
	return a.vendorName
}

// DriverName returns the printable driver name.
func (a *AdapterInstance) DriverName() string {
	return a.driverName
}

// Ops returns the device-operation surface bound to this instance.
func (a *AdapterInstance) Ops() DeviceOps {
	return a.ops
}
